package game

import (
	"sync"
	"time"

	"distractiondodge/internal/distractions"
	"distractiondodge/internal/geometry"
	"distractiondodge/internal/metrics"
	"distractiondodge/internal/motion"
	"distractiondodge/internal/session"
)

const motionInterval = 16 * time.Millisecond // ~60 Hz
const scoringInterval = 1 * time.Second

// Runner is the single driver that dispatches the three cadences into one
// session: target motion at ~60 Hz, distraction scheduling at the policy
// interval, and the scoring tick once per second. All component state is
// touched only from the runner's goroutine plus the engine's own locking, so
// the single-writer discipline holds.
type Runner struct {
	engine    *session.Engine
	scheduler *distractions.Scheduler
	motion    *motion.Controller

	mu           sync.Mutex
	focused      bool
	circle       geometry.Point
	circleRadius float64
	pausedAt     time.Time // zero while running

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewRunner wires the engine and target controller; the scheduler is bound
// afterward because it reports back through the runner.
func NewRunner(engine *session.Engine, mc *motion.Controller) *Runner {
	return &Runner{
		engine: engine,
		motion: mc,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (r *Runner) BindScheduler(s *distractions.Scheduler) {
	r.scheduler = s
}

// Start resets the engine, target, and distraction set, then launches the
// driver loop.
func (r *Runner) Start() {
	cfg := r.engine.Config()
	r.engine.Start()
	r.motion.Reset(cfg.Viewport)
	r.scheduler.Store().Clear()
	r.mu.Lock()
	r.circle = cfg.Viewport.Center()
	r.circleRadius = cfg.TargetRadius
	r.mu.Unlock()
	go r.loop()
}

// SetFocused latches the externally sampled focus signal. The engine sees
// the latest value on its next scoring tick.
func (r *Runner) SetFocused(focused bool) {
	r.mu.Lock()
	r.focused = focused
	r.mu.Unlock()
}

// SetCirclePosition latches the user-dragged circle position (visionOS).
func (r *Runner) SetCirclePosition(x, y float64) {
	r.mu.Lock()
	r.circle = geometry.Point{X: x, Y: y}
	r.mu.Unlock()
}

// Pause suspends the session and records when, so hologram lifespans can be
// re-anchored on resume: a hologram must never expire from time the game was
// not being played.
func (r *Runner) Pause() {
	r.mu.Lock()
	if r.engine.Phase() == session.PhaseRunning && r.pausedAt.IsZero() {
		r.pausedAt = time.Now()
	}
	r.mu.Unlock()
	r.engine.Pause()
}

func (r *Runner) Resume() {
	r.mu.Lock()
	if !r.pausedAt.IsZero() {
		r.scheduler.Store().ShiftActive(time.Since(r.pausedAt))
		r.pausedAt = time.Time{}
	}
	r.mu.Unlock()
	r.engine.Resume()
}

// Stop tears the loop down. Safe to call more than once; pending ticks after
// Stop are no-ops through the engine's phase guards.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Done is closed once the driver loop has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) loop() {
	defer close(r.done)

	cfg := r.engine.Config()
	visionOS := cfg.Variant == session.VariantVisionOS

	motionTicker := time.NewTicker(motionInterval)
	schedTicker := time.NewTicker(r.scheduler.Interval())
	scoreTicker := time.NewTicker(scoringInterval)
	defer motionTicker.Stop()
	defer schedTicker.Stop()
	defer scoreTicker.Stop()

	// running reports whether the next dispatch should fire, and ends the
	// loop for good once the engine reaches its terminal phase.
	running := func() (bool, bool) {
		switch r.engine.Phase() {
		case session.PhaseRunning:
			return true, false
		case session.PhaseEnded:
			return false, true
		default:
			return false, false
		}
	}

	for {
		select {
		case <-r.stop:
			return

		case <-motionTicker.C:
			ok, ended := running()
			if ended {
				return
			}
			if !ok {
				continue
			}
			r.motion.Advance()
			if visionOS {
				r.scheduler.ExpireStale(time.Now())
				r.mu.Lock()
				circle, radius := r.circle, r.circleRadius
				r.mu.Unlock()
				r.scheduler.CheckCatches(circle, radius)
			}

		case <-schedTicker.C:
			ok, ended := running()
			if ended {
				return
			}
			if !ok {
				continue
			}
			elapsed := cfg.DurationSeconds - r.engine.State().RemainingSeconds
			r.scheduler.OnTick(float64(elapsed))

		case <-scoreTicker.C:
			ok, ended := running()
			if ended {
				return
			}
			if !ok {
				continue
			}
			r.mu.Lock()
			focused := r.focused
			r.mu.Unlock()
			r.engine.Tick(focused)
		}

		if _, ended := running(); ended {
			return
		}
	}
}

// The runner sits between scheduler and engine so spawn and catch metrics
// are counted at the wiring point rather than inside either component.
var _ distractions.Reporter = (*Runner)(nil)

func (r *Runner) NoteDistractionSpawned() {
	metrics.DistractionsSpawned.Inc()
	r.engine.NoteDistractionSpawned()
}

func (r *Runner) ReportHeartLost() {
	r.engine.ReportHeartLost()
}

func (r *Runner) ReportCatch() {
	metrics.HologramsCaught.Inc()
	r.engine.ReportCatch()
}
