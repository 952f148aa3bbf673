package timestamp

import (
	"errors"
	"fmt"
)

// Kind identifies the clock domain a timestamp was recorded in
type Kind int

const (
	// Real is wall-clock time in nanoseconds since the Unix epoch
	Real Kind = iota
	// Elapsed is monotonic time in nanoseconds since device boot
	Elapsed
)

func (k Kind) String() string {
	switch k {
	case Real:
		return "real"
	case Elapsed:
		return "elapsed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses "real" or "elapsed"
func ParseKind(s string) (Kind, error) {
	switch s {
	case "real", "REAL":
		return Real, nil
	case "elapsed", "ELAPSED":
		return Elapsed, nil
	default:
		return 0, fmt.Errorf("unknown timestamp kind %q (expected real or elapsed)", s)
	}
}

// ErrIncompatibleKind is returned when timestamps from different clock domains are compared
var ErrIncompatibleKind = errors.New("incompatible timestamp kinds")

// IncompatibleKindError carries both kinds of a failed comparison
type IncompatibleKindError struct {
	Left  Kind
	Right Kind
}

func (e *IncompatibleKindError) Error() string {
	return fmt.Sprintf("%v: cannot compare %s with %s", ErrIncompatibleKind, e.Left, e.Right)
}

func (e *IncompatibleKindError) Unwrap() error {
	return ErrIncompatibleKind
}

// Timestamp is an immutable point in time within one clock domain
type Timestamp struct {
	kind    Kind
	valueNs int64
}

// New creates a timestamp of the given kind
func New(kind Kind, valueNs int64) Timestamp {
	return Timestamp{kind: kind, valueNs: valueNs}
}

// NewReal creates a wall-clock timestamp
func NewReal(valueNs int64) Timestamp {
	return Timestamp{kind: Real, valueNs: valueNs}
}

// NewElapsed creates a since-boot timestamp
func NewElapsed(valueNs int64) Timestamp {
	return Timestamp{kind: Elapsed, valueNs: valueNs}
}

func (t Timestamp) Kind() Kind {
	return t.kind
}

func (t Timestamp) ValueNs() int64 {
	return t.valueNs
}

func (t Timestamp) IsZero() bool {
	return t.valueNs == 0
}

// Add returns a timestamp shifted by deltaNs in the same clock domain
func (t Timestamp) Add(deltaNs int64) Timestamp {
	return Timestamp{kind: t.kind, valueNs: t.valueNs + deltaNs}
}

// Compare returns -1, 0 or 1. Timestamps of different kinds are not comparable.
func (t Timestamp) Compare(other Timestamp) (int, error) {
	if t.kind != other.kind {
		return 0, &IncompatibleKindError{Left: t.kind, Right: other.kind}
	}
	switch {
	case t.valueNs < other.valueNs:
		return -1, nil
	case t.valueNs > other.valueNs:
		return 1, nil
	default:
		return 0, nil
	}
}

// mustCompare panics on mismatched kinds; mixing clock domains is a caller bug.
func (t Timestamp) mustCompare(other Timestamp) int {
	c, err := t.Compare(other)
	if err != nil {
		panic(err)
	}
	return c
}

func (t Timestamp) Before(other Timestamp) bool {
	return t.mustCompare(other) < 0
}

func (t Timestamp) After(other Timestamp) bool {
	return t.mustCompare(other) > 0
}

func (t Timestamp) Equal(other Timestamp) bool {
	return t.mustCompare(other) == 0
}

// Sub returns t - other in nanoseconds
func (t Timestamp) Sub(other Timestamp) int64 {
	t.mustCompare(other)
	return t.valueNs - other.valueNs
}

// Strategy builds a timestamp from a raw nanosecond value read out of a trace
type Strategy func(valueNs int64) Timestamp

// ElapsedStrategy keeps values in the elapsed clock domain
func ElapsedStrategy() Strategy {
	return NewElapsed
}

// RealStrategy converts elapsed values to wall-clock time using the device offset
func RealStrategy(realToElapsedOffsetNs int64) Strategy {
	return func(valueNs int64) Timestamp {
		return NewReal(valueNs + realToElapsedOffsetNs)
	}
}

// StrategyFor picks the strategy for the requested kind
func StrategyFor(kind Kind, realToElapsedOffsetNs int64) Strategy {
	if kind == Real {
		return RealStrategy(realToElapsedOffsetNs)
	}
	return ElapsedStrategy()
}
