package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"distractiondodge/internal/analytics"
	"distractiondodge/internal/db"
	"distractiondodge/internal/distractions"
	"distractiondodge/internal/game"
	"distractiondodge/internal/geometry"
	"distractiondodge/internal/session"
)

type Server struct {
	Sessions        *game.Store
	DB              *db.DB // nil if no database configured
	DefaultDuration int
	DefaultVariant  session.Variant
}

type startRequest struct {
	DurationSeconds int     `json:"duration_seconds"`
	ViewportWidth   float64 `json:"viewport_width"`
	ViewportHeight  float64 `json:"viewport_height"`
	TargetRadius    float64 `json:"target_radius"`
	Variant         string  `json:"variant"`
}

// stateResponse is the live HUD payload: session state plus the positions a
// renderer needs.
type stateResponse struct {
	ID           string                      `json:"id"`
	State        session.State               `json:"state"`
	Target       motionState                 `json:"target"`
	Distractions []*distractions.Distraction `json:"distractions"`
}

type motionState struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// getSession resolves the caller's session from the session_id cookie.
func (s *Server) getSession(r *http.Request) *game.Session {
	cookie, err := r.Cookie("session_id")
	if err != nil {
		return nil
	}
	return s.Sessions.Get(cookie.Value)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[Handle] JSON encode error: %v\n", err)
	}
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:StartSession] Request Received")

	req := startRequest{
		DurationSeconds: s.DefaultDuration,
		ViewportWidth:   600,
		ViewportHeight:  400,
		TargetRadius:    25,
		Variant:         string(s.DefaultVariant),
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	variant := session.Variant(req.Variant)
	if variant != session.VariantIOS && variant != session.VariantVisionOS {
		http.Error(w, "Unknown variant", http.StatusBadRequest)
		return
	}
	if req.DurationSeconds <= 0 {
		http.Error(w, "Duration must be positive", http.StatusBadRequest)
		return
	}

	// A caller starting over tears down their previous session first.
	if old := s.getSession(r); old != nil {
		s.Sessions.Delete(old.ID)
	}

	sess := s.Sessions.Create(session.Config{
		DurationSeconds: req.DurationSeconds,
		Viewport:        geometry.Size{Width: req.ViewportWidth, Height: req.ViewportHeight},
		TargetRadius:    req.TargetRadius,
		Variant:         variant,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
	})

	fmt.Printf("[Handle:StartSession] Started session %s (%s)\n", sess.ID, variant)
	writeJSON(w, http.StatusCreated, s.snapshot(sess))
}

func (s *Server) snapshot(sess *game.Session) stateResponse {
	pos := sess.Motion.Position()
	return stateResponse{
		ID:           sess.ID,
		State:        sess.Engine.State(),
		Target:       motionState{X: pos.X, Y: pos.Y},
		Distractions: sess.Scheduler.Store().ActiveList(),
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(r)
	if sess == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot(sess))
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:Pause] Request Received")
	sess := s.getSession(r)
	if sess == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	sess.Runner.Pause()
	writeJSON(w, http.StatusOK, s.snapshot(sess))
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:Resume] Request Received")
	sess := s.getSession(r)
	if sess == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	sess.Runner.Resume()
	writeJSON(w, http.StatusOK, s.snapshot(sess))
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:EndSession] Request Received")
	sess := s.getSession(r)
	if sess == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	sess.Engine.End(session.EndTimeUp)
	writeJSON(w, http.StatusOK, s.snapshot(sess))
}

// handleTap records a user interaction with a distraction. On iOS a tapped
// notification ends the session; the engine ignores the call on visionOS.
func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:Tap] Request Received")
	sess := s.getSession(r)
	if sess == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid distraction ID", http.StatusBadRequest)
		return
	}

	// Holograms are caught with the circle, never tapped away; a tap must
	// not remove one from the board before its lifespan runs out.
	if sess.Engine.Config().Variant == session.VariantVisionOS {
		writeJSON(w, http.StatusOK, s.snapshot(sess))
		return
	}

	if !sess.Scheduler.Store().SetState(id, distractions.StateDismissed) {
		// Already settled or unknown — ignore duplicate interaction.
		w.WriteHeader(http.StatusOK)
		return
	}
	sess.Engine.ReportDistractionTapped()
	writeJSON(w, http.StatusOK, s.snapshot(sess))
}

// handleEvents streams state snapshots to the HUD over SSE.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(r)
	if sess == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	msgChan := sess.Broadcaster.Subscribe()
	defer sess.Broadcaster.Unsubscribe(msgChan)

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-msgChan:
			fmt.Fprintf(w, "event: %s\n", msg.Event)
			for _, line := range strings.Split(msg.Data, "\n") {
				fmt.Fprintf(w, "data: %s\n", line)
			}
			fmt.Fprint(w, "\n")
			flusher.Flush()
		}
	}
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "No database configured", http.StatusServiceUnavailable)
		return
	}
	progress, err := s.DB.GetProgress()
	if err != nil {
		log.Printf("[DB] GetProgress error: %v\n", err)
		http.Error(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "No database configured", http.StatusServiceUnavailable)
		return
	}
	ids, err := s.DB.GetAchievements()
	if err != nil {
		log.Printf("[DB] GetAchievements error: %v\n", err)
		http.Error(w, "Failed to load achievements", http.StatusInternalServerError)
		return
	}

	earned := make([]analytics.Achievement, 0, len(ids))
	for _, id := range ids {
		if a, ok := analytics.AllAchievements[analytics.AchievementID(id)]; ok {
			earned = append(earned, a)
		}
	}
	writeJSON(w, http.StatusOK, earned)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			status = "db_error"
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"%s","error":"%s"}`, status, err.Error())
			return
		}
	}
	fmt.Fprintf(w, `{"status":"%s"}`, status)
}

// persistResult is the store's end handler: it appends the session record,
// folds the lifetime aggregates, forwards mindful minutes, and awards any
// achievements the session earned.
func (s *Server) persistResult(sess *game.Session, res session.Result) {
	if s.DB == nil {
		return
	}

	if err := s.DB.RecordSession(res); err != nil {
		log.Printf("[DB] RecordSession error: %v\n", err)
		return
	}
	if err := s.DB.UpdateProgress(res.Score, res.BestStreakSeconds, res.TotalFocusSeconds); err != nil {
		log.Printf("[DB] UpdateProgress error: %v\n", err)
	}
	if err := s.DB.RecordMindfulMinutes(res.ID, res.MindfulMinutes()); err != nil {
		log.Printf("[DB] RecordMindfulMinutes error: %v\n", err)
	}

	for _, a := range analytics.EvaluateSessionAchievements(res) {
		resID := res.ID
		if err := s.DB.AwardAchievement(string(a.ID), &resID); err != nil {
			log.Printf("[DB] AwardAchievement error: %v\n", err)
		}
	}

	progress, err := s.DB.GetProgress()
	if err != nil {
		log.Printf("[DB] GetProgress error: %v\n", err)
		return
	}
	minutes, err := s.DB.TotalMindfulMinutes()
	if err != nil {
		log.Printf("[DB] TotalMindfulMinutes error: %v\n", err)
		return
	}
	stats := analytics.LifetimeStats{
		TotalSessions:       progress.TotalSessions,
		TotalMindfulMinutes: minutes,
	}
	for _, a := range analytics.EvaluateLifetimeAchievements(stats) {
		if err := s.DB.AwardAchievement(string(a.ID), nil); err != nil {
			log.Printf("[DB] AwardAchievement error: %v\n", err)
		}
	}
}
