package events

import (
	"testing"
	"time"

	"distractiondodge/internal/session"
)

func TestNewBus(t *testing.T) {
	bus := NewBus()
	if bus == nil {
		t.Fatal("NewBus() returned nil")
	}
	if bus.StateChanges == nil || bus.SessionEnds == nil {
		t.Fatal("bus channels are nil")
	}
}

func TestBus_PublishState(t *testing.T) {
	bus := NewBus()

	go bus.PublishState(StateEvent{SessionID: "s1", State: session.State{Score: 42}})

	select {
	case ev := <-bus.StateChanges:
		if ev.SessionID != "s1" || ev.State.Score != 42 {
			t.Errorf("received %+v, want session s1 with score 42", ev)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for state event")
	}
}

func TestBus_PublishStateDropsWhenFull(t *testing.T) {
	bus := NewBus()

	// Fill the buffer and then some; none of these may block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			bus.PublishState(StateEvent{SessionID: "s1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("PublishState blocked on full channel")
	}
}

func TestBus_PublishEndAfterClose(t *testing.T) {
	bus := NewBus()

	// Fill the buffer so a blind send would block, then shut down.
	for i := 0; i < cap(bus.SessionEnds); i++ {
		bus.SessionEnds <- EndEvent{SessionID: "s1"}
	}
	bus.Close()
	bus.Close() // idempotent

	done := make(chan struct{})
	go func() {
		bus.PublishEnd(EndEvent{SessionID: "s1"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("PublishEnd blocked after Close")
	}
}

func TestBus_PublishEnd(t *testing.T) {
	bus := NewBus()

	go bus.PublishEnd(EndEvent{SessionID: "s1", Result: session.Result{Score: 99}})

	select {
	case ev := <-bus.SessionEnds:
		if ev.Result.Score != 99 {
			t.Errorf("received result score = %d, want 99", ev.Result.Score)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for end event")
	}
}
