package distractions

import (
	"math"
	"math/rand"
	"time"

	"distractiondodge/internal/geometry"
	"distractiondodge/internal/utility"
)

// Reporter is the scheduler's one-way channel back into the session engine.
// The scheduler never mutates session state directly.
type Reporter interface {
	NoteDistractionSpawned()
	ReportHeartLost()
	ReportCatch()
}

// Policy captures the per-variant spawn rules. The iOS notification policy
// ramps spawn probability with elapsed time and evicts the oldest card when
// over capacity; the visionOS hologram policy spawns at a flat rate but gives
// each hologram a fixed lifespan, charging a heart when one expires uncaught.
type Policy struct {
	Viewport       geometry.Size
	Interval       time.Duration
	BaseChance     float64
	ChancePerSec   float64 // added to BaseChance per elapsed second
	MaxConcurrent  int
	InsetX         float64
	InsetY         float64
	Lifespan       time.Duration // zero means cards never auto-expire
	EvictOldest    bool
	HologramRadius float64 // zero disables catch detection
}

func NotificationPolicy(viewport geometry.Size) Policy {
	return Policy{
		Viewport:      viewport,
		Interval:      3 * time.Second,
		BaseChance:    0.10,
		ChancePerSec:  0.002,
		MaxConcurrent: 3,
		InsetX:        150,
		InsetY:        100,
		EvictOldest:   true,
	}
}

func HologramPolicy(viewport geometry.Size, durationSeconds int) Policy {
	// Longer sessions space holograms out, scaled by sqrt so the effect
	// flattens rather than growing linearly with duration.
	scale := math.Sqrt(float64(durationSeconds) / 60)
	if scale < 1 {
		scale = 1
	}
	return Policy{
		Viewport:       viewport,
		Interval:       time.Duration(2500*scale) * time.Millisecond,
		BaseChance:     0.3,
		MaxConcurrent:  2,
		InsetX:         60,
		InsetY:         60,
		Lifespan:       6 * time.Second,
		HologramRadius: 30,
	}
}

// Scheduler decides when to materialize distractions and where to place them.
// It owns the distraction collection and defers all score and heart
// consequences to the Reporter.
type Scheduler struct {
	store    *Store
	policy   Policy
	reporter Reporter
	rng      *rand.Rand
}

func NewScheduler(store *Store, policy Policy, reporter Reporter, rng *rand.Rand) *Scheduler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scheduler{
		store:    store,
		policy:   policy,
		reporter: reporter,
		rng:      rng,
	}
}

func (s *Scheduler) Store() *Store {
	return s.store
}

func (s *Scheduler) Interval() time.Duration {
	return s.policy.Interval
}

// OnTick runs one spawn decision. A degenerate viewport, or insets that leave
// no room to place anything, suspend spawning for this tick; the next tick
// samples fresh.
func (s *Scheduler) OnTick(elapsedSeconds float64) *Distraction {
	if s.policy.Viewport.IsDegenerate() {
		return nil
	}

	chance := s.policy.BaseChance + s.policy.ChancePerSec*elapsedSeconds
	if s.rng.Float64() >= chance {
		return nil
	}

	if s.store.ActiveCount() >= s.policy.MaxConcurrent {
		if !s.policy.EvictOldest {
			return nil
		}
		s.store.EvictOldest()
	}

	minX, maxX := s.policy.InsetX, s.policy.Viewport.Width-s.policy.InsetX
	minY, maxY := s.policy.InsetY, s.policy.Viewport.Height-s.policy.InsetY
	if maxX <= minX || maxY <= minY {
		return nil
	}

	x := minX + s.rng.Float64()*(maxX-minX)
	y := minY + s.rng.Float64()*(maxY-minY)
	content := Contents[s.rng.Intn(len(Contents))]
	d := s.store.Add(x, y, content, utility.RandomColorHex())
	s.reporter.NoteDistractionSpawned()
	return d
}

// ExpireStale settles holograms past their lifespan, charging a heart per
// expiry. No-op under a policy without lifespans.
func (s *Scheduler) ExpireStale(now time.Time) {
	if s.policy.Lifespan <= 0 {
		return
	}
	for _, d := range s.store.ActiveList() {
		if now.Sub(d.SpawnedAt) >= s.policy.Lifespan {
			if s.store.SetState(d.ID, StateExpired) {
				s.reporter.ReportHeartLost()
			}
		}
	}
}

// CheckCatches tests the user-controlled circle against every active
// hologram and reports each catch. No-op under a policy without catch
// detection.
func (s *Scheduler) CheckCatches(circle geometry.Point, circleRadius float64) {
	if s.policy.HologramRadius <= 0 {
		return
	}
	threshold := circleRadius*0.5 + s.policy.HologramRadius*0.8
	for _, d := range s.store.ActiveList() {
		if circle.DistanceTo(geometry.Point{X: d.X, Y: d.Y}) < threshold {
			if s.store.SetState(d.ID, StateCaught) {
				s.reporter.ReportCatch()
			}
		}
	}
}
