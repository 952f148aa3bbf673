package scrub

import (
	"testing"
	"time"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidateDefaults(t *testing.T) {
	c := &Config{}
	require.NoError(t, c.Validate())

	assert.Equal(t, ".", c.DataDir)
	assert.Equal(t, []string{".jsonl"}, c.Extensions)
	assert.Equal(t, "auto", c.Kind)
	assert.Equal(t, "Local", c.Timezone)
	assert.Equal(t, "24h", c.TimeFormat)
	assert.Equal(t, 300*time.Millisecond, c.WatchDebounce)
	assert.Equal(t, 4.0, c.UIRefreshRate)
	assert.Equal(t, 4, c.Concurrency)

	_, ok := c.ActiveTrace()
	assert.False(t, ok)
	assert.Nil(t, c.PriorityOrder())
}

func TestConfigValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"time format", Config{TimeFormat: "13h"}},
		{"refresh rate", Config{UIRefreshRate: 50}},
		{"max selected", Config{MaxSelected: -1}},
		{"layout", Config{LayoutStyle: 7}},
		{"kind", Config{Kind: "wall"}},
		{"active", Config{Active: "NOT_A_TRACE"}},
		{"priority", Config{Priority: []string{"SURFACE_FLINGER", "NOPE"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.config
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfigParsedSettings(t *testing.T) {
	c := &Config{
		Active:   "WINDOW_MANAGER",
		Priority: []string{"WINDOW_MANAGER", "SURFACE_FLINGER"},
	}
	require.NoError(t, c.Validate())

	active, ok := c.ActiveTrace()
	require.True(t, ok)
	assert.Equal(t, model.WindowManager, active)
	assert.Equal(t, model.Priority{model.WindowManager, model.SurfaceFlinger}, c.PriorityOrder())
}
