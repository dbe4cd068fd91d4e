package events

import (
	"sync"

	"distractiondodge/internal/session"
)

type StateEvent struct {
	SessionID string
	State     session.State
}

type EndEvent struct {
	SessionID string
	Result    session.Result
}

// Bus carries engine output to whoever renders or persists it. State
// snapshots are disposable HUD data, so publishing drops on a full channel
// instead of stalling the game loop; end events are never dropped.
type Bus struct {
	StateChanges chan StateEvent
	SessionEnds  chan EndEvent

	closeOnce sync.Once
	done      chan struct{}
}

func NewBus() *Bus {
	return &Bus{
		StateChanges: make(chan StateEvent, 64),
		SessionEnds:  make(chan EndEvent, 4),
		done:         make(chan struct{}),
	}
}

// Close releases consumers draining the bus. Safe to call more than once;
// the data channels stay open so in-flight publishers never panic.
func (b *Bus) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

// Done is closed once the bus has been shut down.
func (b *Bus) Done() <-chan struct{} {
	return b.done
}

func (b *Bus) PublishState(ev StateEvent) {
	select {
	case b.StateChanges <- ev:
	default:
		// HUD consumers fell behind; the next snapshot supersedes this one
	}
}

func (b *Bus) PublishEnd(ev EndEvent) {
	select {
	case b.SessionEnds <- ev:
	case <-b.done:
	}
}
