package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	maxMultiplier    = 3
	multiplierEvery  = 5  // consecutive focused seconds per multiplier step
	streakBonusEvery = 10 // consecutive focused seconds per flat bonus
	streakBonus      = 5
	maxPenalty       = 10
	initialHearts    = 3
	catchPoints      = 3
	catchBonusEvery  = 5 // consecutive catches per bonus
	catchBonus       = 5
)

// Engine owns all session state and the transition rules. It is driven by a
// once-per-second Tick carrying the sampled focus signal, plus report calls
// for distraction interactions. Tick and report calls outside the running
// phase are silent no-ops so stray late timer callbacks cannot corrupt state.
type Engine struct {
	mu  sync.Mutex
	cfg Config

	phase         Phase
	remaining     int
	score         int
	currentStreak int
	bestStreak    int
	totalFocus    int
	multiplier    int
	hearts        int
	catchStreak   int
	totalCatches  int
	encountered   int
	endReason     EndReason
	wasFocused    bool

	listeners []Listener
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:   cfg,
		phase: PhaseIdle,
	}
}

// AddListener registers a snapshot consumer. Must be called before Start.
func (e *Engine) AddListener(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Start resets all state and transitions to running. Starting an already
// running session force-restarts it.
func (e *Engine) Start() {
	e.mu.Lock()
	e.phase = PhaseRunning
	e.remaining = e.cfg.DurationSeconds
	e.score = 0
	e.currentStreak = 0
	e.bestStreak = 0
	e.totalFocus = 0
	e.multiplier = 1
	e.catchStreak = 0
	e.totalCatches = 0
	e.encountered = 0
	e.endReason = ""
	e.wasFocused = false
	e.hearts = 0
	if e.cfg.Variant == VariantVisionOS {
		e.hearts = initialHearts
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notifyState(snap)
}

func (e *Engine) Pause() {
	e.mu.Lock()
	if e.phase != PhaseRunning {
		e.mu.Unlock()
		return
	}
	e.phase = PhasePaused
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notifyState(snap)
}

func (e *Engine) Resume() {
	e.mu.Lock()
	if e.phase != PhasePaused {
		e.mu.Unlock()
		return
	}
	e.phase = PhaseRunning
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notifyState(snap)
}

// Tick advances the session by one scored second with the sampled focus
// signal. Losing focus costs up to maxPenalty points (clamped at zero) and
// resets the streak and multiplier; a focused second scores through
// applyFocusedScoringLocked.
func (e *Engine) Tick(isFocused bool) {
	e.mu.Lock()
	if e.phase != PhaseRunning {
		e.mu.Unlock()
		return
	}

	if e.wasFocused && !isFocused {
		penalty := e.currentStreak
		if penalty > maxPenalty {
			penalty = maxPenalty
		}
		e.score -= penalty
		if e.score < 0 {
			e.score = 0
		}
		if e.currentStreak > e.bestStreak {
			e.bestStreak = e.currentStreak
		}
		e.currentStreak = 0
		e.multiplier = 1
	}

	if isFocused {
		e.currentStreak++
		e.totalFocus++
		if e.currentStreak > e.bestStreak {
			e.bestStreak = e.currentStreak
		}
		e.applyFocusedScoringLocked()
	}
	e.wasFocused = isFocused

	e.remaining--
	var result *Result
	if e.remaining <= 0 {
		e.remaining = 0
		result = e.endLocked(EndTimeUp)
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notifyState(snap)
	if result != nil {
		e.notifyEnded(*result)
	}
}

// applyFocusedScoringLocked awards the per-second score. Every tenth streak
// second pays the flat bonus; every other fifth steps the multiplier. The two
// never fire on the same tick, which keeps the multiplier ramp at one step
// per ten seconds after the first.
func (e *Engine) applyFocusedScoringLocked() {
	e.score += e.multiplier
	switch {
	case e.currentStreak%streakBonusEvery == 0:
		e.score += streakBonus
	case e.currentStreak%multiplierEvery == 0:
		if e.multiplier < maxMultiplier {
			e.multiplier++
		}
	}
}

// ReportDistractionTapped handles the iOS failure path: glancing at a
// notification ends the session immediately, independent of the timer. On
// visionOS holograms are caught rather than tapped, so the call is ignored.
func (e *Engine) ReportDistractionTapped() {
	e.mu.Lock()
	if e.phase != PhaseRunning || e.cfg.Variant != VariantIOS {
		e.mu.Unlock()
		return
	}
	result := e.endLocked(EndDistractionTapped)
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notifyState(snap)
	if result != nil {
		e.notifyEnded(*result)
	}
}

// ReportHeartLost records an expired hologram. Only meaningful on visionOS;
// calling it on an iOS session indicates confused call sites and panics.
func (e *Engine) ReportHeartLost() {
	e.mu.Lock()
	if e.cfg.Variant != VariantVisionOS {
		e.mu.Unlock()
		panic(fmt.Sprintf("session: ReportHeartLost called on %q variant", e.cfg.Variant))
	}
	if e.phase != PhaseRunning {
		e.mu.Unlock()
		return
	}
	e.hearts--
	e.catchStreak = 0
	var result *Result
	if e.hearts <= 0 {
		e.hearts = 0
		result = e.endLocked(EndHeartsDepleted)
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notifyState(snap)
	if result != nil {
		e.notifyEnded(*result)
	}
}

// ReportCatch records a caught hologram: +3 points, +5 bonus on every fifth
// consecutive catch. The catch streak is independent of the gaze streak and
// breaks when a hologram slips past (ReportHeartLost).
func (e *Engine) ReportCatch() {
	e.mu.Lock()
	if e.cfg.Variant != VariantVisionOS {
		e.mu.Unlock()
		panic(fmt.Sprintf("session: ReportCatch called on %q variant", e.cfg.Variant))
	}
	if e.phase != PhaseRunning {
		e.mu.Unlock()
		return
	}
	e.catchStreak++
	e.totalCatches++
	e.score += catchPoints
	if e.catchStreak%catchBonusEvery == 0 {
		e.score += catchBonus
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notifyState(snap)
}

// NoteDistractionSpawned counts a distraction toward the session summary.
func (e *Engine) NoteDistractionSpawned() {
	e.mu.Lock()
	if e.phase != PhaseRunning {
		e.mu.Unlock()
		return
	}
	e.encountered++
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notifyState(snap)
}

// End terminates the session with the given reason. Idempotent: the first
// call produces the single Result, later calls leave state untouched.
func (e *Engine) End(reason EndReason) {
	e.mu.Lock()
	result := e.endLocked(reason)
	snap := e.snapshotLocked()
	e.mu.Unlock()

	if result != nil {
		e.notifyState(snap)
		e.notifyEnded(*result)
	}
}

func (e *Engine) endLocked(reason EndReason) *Result {
	if e.phase == PhaseEnded || e.phase == PhaseIdle {
		return nil
	}
	e.phase = PhaseEnded
	e.endReason = reason
	return &Result{
		ID:                      uuid.New().String(),
		Variant:                 e.cfg.Variant,
		Score:                   e.score,
		BestStreakSeconds:       e.bestStreak,
		TotalFocusSeconds:       e.totalFocus,
		DistractionsEncountered: e.encountered,
		DurationPlayedSeconds:   e.cfg.DurationSeconds - e.remaining,
		HeartsRemaining:         e.hearts,
		HologramsCaught:         e.totalCatches,
		EndReason:               reason,
		Date:                    time.Now(),
	}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() State {
	return State{
		Phase:                   e.phase,
		Active:                  e.phase == PhaseRunning || e.phase == PhasePaused,
		Paused:                  e.phase == PhasePaused,
		RemainingSeconds:        e.remaining,
		Score:                   e.score,
		CurrentStreakSeconds:    e.currentStreak,
		BestStreakSeconds:       e.bestStreak,
		TotalFocusSeconds:       e.totalFocus,
		ScoreMultiplier:         e.multiplier,
		Hearts:                  e.hearts,
		CatchStreak:             e.catchStreak,
		HologramsCaught:         e.totalCatches,
		DistractionsEncountered: e.encountered,
		EndReason:               e.endReason,
	}
}

func (e *Engine) notifyState(s State) {
	for _, l := range e.listeners {
		l.StateChanged(s)
	}
}

func (e *Engine) notifyEnded(r Result) {
	for _, l := range e.listeners {
		l.SessionEnded(r)
	}
}
