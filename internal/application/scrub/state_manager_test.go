package scrub

import (
	"testing"
	"time"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func TestStateManagerFrameForDisplay(t *testing.T) {
	sm := NewStateManager()
	_, ok := sm.GetFrame()
	assert.False(t, ok)

	first := model.Frame{Rows: []model.TraceRow{{Type: model.SurfaceFlinger, Entries: 2}}}
	sm.SetFrame(first)
	sm.SetFrame(model.Frame{})

	assert.Empty(t, sm.GetFrameForDisplay().Rows)

	sm.SetLoadingState(true, "Reloading")
	assert.Equal(t, first.Rows, sm.GetFrameForDisplay().Rows)

	loading, message := sm.GetLoadingState()
	assert.True(t, loading)
	assert.Equal(t, "Reloading", message)
}

func TestStateManagerInteractionState(t *testing.T) {
	sm := NewStateManager()
	sm.SetInteractionState(model.InteractionState{LayoutStyle: model.LayoutMinimal})
	sm.UpdateInteractionState(func(s *model.InteractionState) {
		s.ShowHelp = true
	})

	state := sm.GetInteractionState()
	assert.True(t, state.ShowHelp)
	assert.Equal(t, model.LayoutMinimal, state.LayoutStyle)

	now := time.Now()
	sm.SetLastReload(now)
	assert.Equal(t, now, sm.GetLastReload())
}
