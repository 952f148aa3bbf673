package navigator

import (
	"errors"
	"strconv"
	"strings"

	"github.com/penwyp/go-trace-timeline/internal/core/storage"
	"github.com/penwyp/go-trace-timeline/internal/util"
)

// Preference keys
const (
	PrefTimezone    = "timezone"
	PrefTimeFormat  = "time_format"
	PrefActiveTrace = "active_trace"
	PrefPriority    = "priority"
	PrefLayout      = "layout"
)

// Preferences reads and remembers user choices in a Storage
type Preferences struct {
	store storage.Storage
}

// NewPreferences falls back to an in-memory store when store is nil
func NewPreferences(store storage.Storage) *Preferences {
	if store == nil {
		store = storage.NewMemoryStorage()
	}
	return &Preferences{store: store}
}

// String returns the stored value or fallback
func (p *Preferences) String(key, fallback string) string {
	if v, ok := p.store.Get(key); ok && v != "" {
		return v
	}
	return fallback
}

// Int returns the stored integer or fallback when missing or malformed
func (p *Preferences) Int(key string, fallback int) int {
	v, ok := p.store.Get(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		util.LogDebugf("Ignoring malformed preference %s=%q", key, v)
		return fallback
	}
	return n
}

// List splits a comma-separated value
func (p *Preferences) List(key string) []string {
	v, ok := p.store.Get(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Remember stores value; read-only stores are skipped silently
func (p *Preferences) Remember(key, value string) {
	if err := p.store.Set(key, value); err != nil {
		if errors.Is(err, storage.ErrNotImplemented) {
			return
		}
		util.LogWarnf("Failed to save preference %s: %v", key, err)
	}
}

func (p *Preferences) RememberInt(key string, value int) {
	p.Remember(key, strconv.Itoa(value))
}
