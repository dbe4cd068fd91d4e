package broadcast

import (
	"encoding/json"
	"log"
	"sync"

	"distractiondodge/internal/events"
)

type Message struct {
	Event string
	Data  string
}

// Broadcaster fans session state out to HUD subscribers (SSE connections).
// It drains the session's event bus and re-publishes every snapshot as JSON.
// The drain goroutine exits when the bus is closed.
type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan Message]bool

	done chan struct{}
}

func NewBroadcaster(bus *events.Bus) *Broadcaster {
	b := &Broadcaster{
		Clients: make(map[chan Message]bool),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(b.done)
		for {
			select {
			case <-bus.Done():
				return
			case ev, ok := <-bus.StateChanges:
				if !ok {
					return
				}
				b.BroadcastJSON("state", ev.State)
			case ev, ok := <-bus.SessionEnds:
				if !ok {
					return
				}
				b.BroadcastJSON("ended", ev.Result)
			}
		}
	}()
	return b
}

// Done is closed once the drain goroutine has exited.
func (b *Broadcaster) Done() <-chan struct{} {
	return b.done
}

func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, 16)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.Mu.Lock()
	delete(b.Clients, ch)
	b.Mu.Unlock()
	close(ch)
}

// BroadcastJSON serializes the payload once and sends it to every subscriber.
// Non-blocking: clients with full channels miss this snapshot.
func (b *Broadcaster) BroadcastJSON(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Broadcast] Marshal error: %v\n", err)
		return
	}

	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- Message{Event: event, Data: string(data)}:
		default:
			// skip clients with full data channels
		}
	}
}
