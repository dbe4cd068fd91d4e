package server

import (
	"encoding/json"
	"log"
	"net/http"

	"distractiondodge/internal/distractions"
	"distractiondodge/internal/session"
	"distractiondodge/internal/wshub"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// handleWS attaches a client to the session's hub. The read loop carries the
// focus signal, circle position, and taps inbound; the write pump pushes
// state snapshots outbound.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(r)
	if sess == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("[WS] Accept error: %v\n", err)
		return
	}
	defer conn.CloseNow()

	client := &wshub.Client{
		ID:   uuid.New().String(),
		Conn: conn,
		Send: make(chan []byte, 32),
	}
	sess.Hub.Register(client)
	defer sess.Hub.Unregister(client.ID)

	ctx := r.Context()
	go client.WritePump(ctx)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var msg wshub.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Unmarshal error: %v\n", err)
			continue
		}

		switch msg.Type {
		case "focus":
			sess.Runner.SetFocused(msg.Focused)
		case "pos":
			sess.Runner.SetCirclePosition(msg.X, msg.Y)
		case "tap":
			if sess.Engine.Config().Variant == session.VariantVisionOS {
				continue
			}
			if sess.Scheduler.Store().SetState(msg.TargetID, distractions.StateDismissed) {
				sess.Engine.ReportDistractionTapped()
			}
		}
	}
}
