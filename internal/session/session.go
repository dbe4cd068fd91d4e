package session

import (
	"time"

	"distractiondodge/internal/geometry"
)

// Variant selects the platform rule set for a session. The two variants share
// one engine; they differ in how distractions end the session (a tapped
// notification on iOS, depleted hearts on visionOS) and in the hologram catch
// mechanic, which only visionOS has.
type Variant string

const (
	VariantIOS      = Variant("ios")
	VariantVisionOS = Variant("visionOS")
)

type EndReason string

const (
	EndTimeUp            = EndReason("timeUp")
	EndDistractionTapped = EndReason("distractionTapped")
	EndHeartsDepleted    = EndReason("heartsDepleted")
)

type Phase string

const (
	PhaseIdle    = Phase("idle")
	PhaseRunning = Phase("running")
	PhasePaused  = Phase("paused")
	PhaseEnded   = Phase("ended")
)

type Config struct {
	DurationSeconds int
	Viewport        geometry.Size
	TargetRadius    float64
	Variant         Variant
}

func DefaultConfig() Config {
	return Config{
		DurationSeconds: 60,
		Viewport:        geometry.Size{Width: 600, Height: 400},
		TargetRadius:    25,
		Variant:         VariantIOS,
	}
}

// State is a value snapshot of the session, published after every mutation.
type State struct {
	Phase                   Phase     `json:"phase"`
	Active                  bool      `json:"active"`
	Paused                  bool      `json:"paused"`
	RemainingSeconds        int       `json:"remaining_seconds"`
	Score                   int       `json:"score"`
	CurrentStreakSeconds    int       `json:"current_streak_seconds"`
	BestStreakSeconds       int       `json:"best_streak_seconds"`
	TotalFocusSeconds       int       `json:"total_focus_seconds"`
	ScoreMultiplier         int       `json:"score_multiplier"`
	Hearts                  int       `json:"hearts,omitempty"`
	CatchStreak             int       `json:"catch_streak,omitempty"`
	HologramsCaught         int       `json:"holograms_caught,omitempty"`
	DistractionsEncountered int       `json:"distractions_encountered"`
	EndReason               EndReason `json:"end_reason,omitempty"`
}

// Result is the terminal summary handed to the persistence collaborator.
type Result struct {
	ID                      string    `json:"id"`
	Variant                 Variant   `json:"variant"`
	Score                   int       `json:"score"`
	BestStreakSeconds       int       `json:"best_streak_seconds"`
	TotalFocusSeconds       int       `json:"total_focus_seconds"`
	DistractionsEncountered int       `json:"distractions_encountered"`
	DurationPlayedSeconds   int       `json:"duration_played_seconds"`
	HeartsRemaining         int       `json:"hearts_remaining,omitempty"`
	HologramsCaught         int       `json:"holograms_caught,omitempty"`
	EndReason               EndReason `json:"end_reason"`
	Date                    time.Time `json:"date"`
}

// MindfulMinutes converts played time to whole minutes for the health sink,
// rounding up so short sessions still register.
func (r Result) MindfulMinutes() int {
	if r.DurationPlayedSeconds <= 0 {
		return 0
	}
	return (r.DurationPlayedSeconds + 59) / 60
}

// Listener receives state snapshots and the terminal result. The engine never
// knows who renders or persists them.
type Listener interface {
	StateChanged(State)
	SessionEnded(Result)
}
