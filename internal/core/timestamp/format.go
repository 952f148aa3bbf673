package timestamp

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-trace-timeline/internal/util"
)

// RealLayout is used when printing wall-clock timestamps
const RealLayout = "2006-01-02T15:04:05.000000000"

var elapsedUnits = []struct {
	suffix string
	ns     int64
}{
	{"d", int64(24 * time.Hour)},
	{"h", int64(time.Hour)},
	{"m", int64(time.Minute)},
	{"s", int64(time.Second)},
	{"ms", int64(time.Millisecond)},
	{"ns", 1},
}

// String formats real timestamps in the configured timezone and elapsed
// timestamps as 1d2h3m4s5ms6ns.
func (t Timestamp) String() string {
	if t.kind == Real {
		return util.GetTimeProvider().Format(time.Unix(0, t.valueNs), RealLayout)
	}
	return FormatElapsed(t.valueNs)
}

// FormatElapsed omits zero units; 0 is rendered as "0ns"
func FormatElapsed(valueNs int64) string {
	if valueNs == 0 {
		return "0ns"
	}
	var sb strings.Builder
	if valueNs < 0 {
		sb.WriteString("-")
		valueNs = -valueNs
	}
	for _, unit := range elapsedUnits {
		if valueNs >= unit.ns {
			sb.WriteString(strconv.FormatInt(valueNs/unit.ns, 10))
			sb.WriteString(unit.suffix)
			valueNs %= unit.ns
		}
	}
	return sb.String()
}

// Parse reads a user-typed timestamp. Plain digits are taken as nanoseconds
// for either kind; otherwise real timestamps accept RFC3339Nano and elapsed
// timestamps accept Go durations ("1h2m3.5s").
func Parse(kind Kind, text string) (Timestamp, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Timestamp{}, fmt.Errorf("empty timestamp")
	}

	if ns, err := strconv.ParseInt(text, 10, 64); err == nil {
		return New(kind, ns), nil
	}

	switch kind {
	case Real:
		t, err := time.ParseInLocation(time.RFC3339Nano, text, time.UTC)
		if err != nil {
			t, err = time.ParseInLocation(RealLayout, text, util.GetTimeProvider().Location())
			if err != nil {
				return Timestamp{}, fmt.Errorf("invalid real timestamp %q: %w", text, err)
			}
		}
		return NewReal(t.UnixNano()), nil
	default:
		d, err := time.ParseDuration(text)
		if err != nil {
			return Timestamp{}, fmt.Errorf("invalid elapsed timestamp %q: %w", text, err)
		}
		return NewElapsed(int64(d)), nil
	}
}
