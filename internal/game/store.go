package game

import (
	"encoding/json"
	"sync"
	"time"

	"distractiondodge/internal/broadcast"
	"distractiondodge/internal/distractions"
	"distractiondodge/internal/events"
	"distractiondodge/internal/metrics"
	"distractiondodge/internal/motion"
	"distractiondodge/internal/session"
	"distractiondodge/internal/wshub"

	"github.com/google/uuid"
)

const staleTTL = 1 * time.Hour

// Session bundles one live game: the scoring engine, its driver, the
// distraction scheduler, and the fan-out plumbing HUD clients attach to.
type Session struct {
	ID          string
	Engine      *session.Engine
	Runner      *Runner
	Scheduler   *distractions.Scheduler
	Motion      *motion.Controller
	Bus         *events.Bus
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub
	CreatedAt   time.Time
}

// EndHandler receives the terminal result of a session, off the game loop.
type EndHandler func(*Session, session.Result)

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	onEnd    EndHandler
}

func NewStore(onEnd EndHandler) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		onEnd:    onEnd,
	}
	go s.sweepStale()
	return s
}

// Create assembles and starts a session from the given config.
func (s *Store) Create(cfg session.Config) *Session {
	engine := session.NewEngine(cfg)
	mc := motion.NewController(cfg.TargetRadius, motion.DefaultSpeed)
	runner := NewRunner(engine, mc)

	var policy distractions.Policy
	if cfg.Variant == session.VariantVisionOS {
		policy = distractions.HologramPolicy(cfg.Viewport, cfg.DurationSeconds)
	} else {
		policy = distractions.NotificationPolicy(cfg.Viewport)
	}
	sched := distractions.NewScheduler(distractions.NewStore(), policy, runner, nil)
	runner.BindScheduler(sched)

	bus := events.NewBus()
	sess := &Session{
		ID:          uuid.New().String(),
		Engine:      engine,
		Runner:      runner,
		Scheduler:   sched,
		Motion:      mc,
		Bus:         bus,
		Broadcaster: broadcast.NewBroadcaster(bus),
		Hub:         wshub.NewHub(),
		CreatedAt:   time.Now(),
	}
	engine.AddListener(&sessionListener{store: s, sess: sess})

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	metrics.SessionsStarted.Inc()
	metrics.ActiveSessions.Inc()
	runner.Start()
	return sess
}

func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	sess := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if sess != nil {
		teardown(sess)
	}
}

// teardown stops a session removed from the store without ending it. The
// running-session gauge is only decremented by the end listener, so a
// session torn down mid-play settles it here; closing the bus lets the
// broadcaster drain goroutine exit.
func teardown(sess *Session) {
	sess.Runner.Stop()
	<-sess.Runner.Done()
	if sess.Engine.Phase() != session.PhaseEnded {
		metrics.ActiveSessions.Dec()
	}
	sess.Bus.Close()
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		var stale []*Session
		for id, sess := range s.sessions {
			if now.Sub(sess.CreatedAt) > staleTTL {
				stale = append(stale, sess)
				delete(s.sessions, id)
			}
		}
		s.mu.Unlock()
		for _, sess := range stale {
			teardown(sess)
		}
	}
}

// sessionListener routes engine output to the session's bus and websocket
// clients, and records terminal metrics before handing the result to the
// store's end handler.
type sessionListener struct {
	store *Store
	sess  *Session
}

func (l *sessionListener) StateChanged(st session.State) {
	l.sess.Bus.PublishState(events.StateEvent{SessionID: l.sess.ID, State: st})
	if data, err := json.Marshal(st); err == nil {
		l.sess.Hub.Broadcast(data)
	}
}

func (l *sessionListener) SessionEnded(res session.Result) {
	metrics.ActiveSessions.Dec()
	metrics.SessionsEnded.WithLabelValues(string(res.EndReason)).Inc()
	metrics.FinalScore.Observe(float64(res.Score))

	l.sess.Bus.PublishEnd(events.EndEvent{SessionID: l.sess.ID, Result: res})
	if l.store.onEnd != nil {
		// Persistence runs off the game loop goroutine.
		go l.store.onEnd(l.sess, res)
	}
}
