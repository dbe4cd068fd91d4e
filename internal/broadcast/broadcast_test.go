package broadcast

import (
	"encoding/json"
	"testing"
	"time"

	"distractiondodge/internal/events"
	"distractiondodge/internal/session"
)

func TestNewBroadcaster(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)
	if b == nil {
		t.Fatal("NewBroadcaster() returned nil")
	}
}

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)

	ch := b.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() returned nil")
	}

	b.Mu.Lock()
	if len(b.Clients) != 1 {
		t.Errorf("clients count = %d, want 1", len(b.Clients))
	}
	b.Mu.Unlock()

	b.Unsubscribe(ch)

	b.Mu.Lock()
	if len(b.Clients) != 0 {
		t.Errorf("clients count after unsubscribe = %d, want 0", len(b.Clients))
	}
	b.Mu.Unlock()
}

func TestBroadcaster_ExitsOnBusClose(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)

	bus.Close()

	select {
	case <-b.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("drain goroutine still running after bus close")
	}
}

func TestBroadcaster_RelaysStateEvents(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	bus.PublishState(events.StateEvent{
		SessionID: "s1",
		State:     session.State{Score: 17, RemainingSeconds: 42},
	})

	select {
	case msg := <-ch:
		if msg.Event != "state" {
			t.Errorf("event = %q, want %q", msg.Event, "state")
		}
		var got session.State
		if err := json.Unmarshal([]byte(msg.Data), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Score != 17 || got.RemainingSeconds != 42 {
			t.Errorf("state = %+v, want score 17, remaining 42", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for relayed state")
	}
}

func TestBroadcaster_RelaysEndEvents(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	bus.PublishEnd(events.EndEvent{
		SessionID: "s1",
		Result:    session.Result{Score: 88, EndReason: session.EndTimeUp},
	})

	select {
	case msg := <-ch:
		if msg.Event != "ended" {
			t.Errorf("event = %q, want %q", msg.Event, "ended")
		}
		var got session.Result
		if err := json.Unmarshal([]byte(msg.Data), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Score != 88 {
			t.Errorf("result score = %d, want 88", got.Score)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for relayed end event")
	}
}

func TestBroadcaster_FanOut(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	defer b.Unsubscribe(ch1)
	defer b.Unsubscribe(ch2)

	b.BroadcastJSON("state", session.State{Score: 5})

	for i, ch := range []chan Message{ch1, ch2} {
		select {
		case msg := <-ch:
			if msg.Event != "state" {
				t.Errorf("subscriber %d: event = %q, want %q", i+1, msg.Event, "state")
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("subscriber %d timed out", i+1)
		}
	}
}
