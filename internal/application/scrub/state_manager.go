package scrub

import (
	"sync"
	"time"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
)

// StateManager holds what the display needs between renders. The orchestrator
// loop writes it; renders read snapshots.
type StateManager struct {
	mu sync.RWMutex

	frame         model.Frame
	previousFrame model.Frame // shown while a reload is in progress
	hasFrame      bool

	isLoading      bool
	loadingMessage string

	interactionState model.InteractionState

	lastReload time.Time
}

func NewStateManager() *StateManager {
	return &StateManager{}
}

// SetFrame stores the latest frame and keeps the previous one
func (sm *StateManager) SetFrame(frame model.Frame) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.hasFrame {
		sm.previousFrame = sm.frame
	}
	sm.frame = frame
	sm.hasFrame = true
}

// GetFrame returns the latest frame
func (sm *StateManager) GetFrame() (model.Frame, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.frame, sm.hasFrame
}

// GetFrameForDisplay prefers the previous frame while loading, so a reload
// does not flash an empty screen.
func (sm *StateManager) GetFrameForDisplay() model.Frame {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.isLoading && len(sm.previousFrame.Rows) > 0 {
		return sm.previousFrame
	}
	return sm.frame
}

func (sm *StateManager) GetLoadingState() (bool, string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.isLoading, sm.loadingMessage
}

func (sm *StateManager) SetLoadingState(isLoading bool, message string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.isLoading = isLoading
	sm.loadingMessage = message
}

// GetInteractionState returns a copy
func (sm *StateManager) GetInteractionState() model.InteractionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.interactionState
}

func (sm *StateManager) SetInteractionState(state model.InteractionState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.interactionState = state
}

// UpdateInteractionState mutates the interaction state under the lock
func (sm *StateManager) UpdateInteractionState(updateFunc func(*model.InteractionState)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	updateFunc(&sm.interactionState)
}

func (sm *StateManager) GetLastReload() time.Time {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.lastReload
}

func (sm *StateManager) SetLastReload(t time.Time) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.lastReload = t
}
