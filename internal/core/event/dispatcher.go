package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/penwyp/go-trace-timeline/internal/util"
)

// Handler receives dispatched events
type Handler interface {
	OnEvent(ctx context.Context, ev Event) error
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, ev Event) error

func (f HandlerFunc) OnEvent(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Dispatcher delivers events to handlers synchronously, in subscription order
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Subscribe(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// Dispatch stops at the first handler error
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	d.mu.RLock()
	handlers := make([]Handler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	util.LogDebugf("Dispatching %s to %d handlers", ev.Kind(), len(handlers))
	for i, h := range handlers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.OnEvent(ctx, ev); err != nil {
			return fmt.Errorf("handler %d failed on %s: %w", i, ev.Kind(), err)
		}
	}
	return nil
}
