package wshub

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRegisterAndBroadcast(t *testing.T) {
	h := NewHub()

	c1 := &Client{ID: "c1", Send: make(chan []byte, 16)}
	c2 := &Client{ID: "c2", Send: make(chan []byte, 16)}

	h.Register(c1)
	h.Register(c2)
	if h.Count() != 2 {
		t.Fatalf("Count = %d, want 2", h.Count())
	}

	h.Broadcast([]byte(`{"score":10}`))

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.Send:
			var got map[string]int
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got["score"] != 10 {
				t.Errorf("client %s got %v", c.ID, got)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client %s did not receive broadcast", c.ID)
		}
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := NewHub()
	c := &Client{ID: "c1", Send: make(chan []byte, 1)}
	h.Register(c)

	h.Unregister("c1")
	if h.Count() != 0 {
		t.Errorf("Count after unregister = %d, want 0", h.Count())
	}

	if _, open := <-c.Send; open {
		t.Error("Send channel still open after unregister")
	}

	// Unregistering an unknown ID is a no-op.
	h.Unregister("c1")
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := NewHub()
	c := &Client{ID: "c1", Send: make(chan []byte)} // unbuffered, no reader
	h.Register(c)

	done := make(chan struct{})
	go func() {
		h.Broadcast([]byte("x"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Broadcast blocked on a full client channel")
	}
}

func TestClientMessageDecoding(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want ClientMessage
	}{
		{"focus", `{"t":"focus","f":true}`, ClientMessage{Type: "focus", Focused: true}},
		{"pos", `{"t":"pos","x":120.5,"y":80}`, ClientMessage{Type: "pos", X: 120.5, Y: 80}},
		{"tap", `{"t":"tap","id":3}`, ClientMessage{Type: "tap", TargetID: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got ClientMessage
			if err := json.Unmarshal([]byte(tc.raw), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
