package game

import (
	"testing"
	"time"

	"distractiondodge/internal/distractions"
	"distractiondodge/internal/geometry"
	"distractiondodge/internal/metrics"
	"distractiondodge/internal/motion"
	"distractiondodge/internal/session"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestMotion(cfg session.Config) *motion.Controller {
	mc := motion.NewController(cfg.TargetRadius, motion.DefaultSpeed)
	mc.Reset(cfg.Viewport)
	return mc
}

func testConfig(variant session.Variant) session.Config {
	cfg := session.DefaultConfig()
	cfg.Variant = variant
	cfg.Viewport = geometry.Size{Width: 600, Height: 400}
	return cfg
}

func TestStore_CreateStartsSession(t *testing.T) {
	s := NewStore(nil)
	sess := s.Create(testConfig(session.VariantIOS))
	defer sess.Runner.Stop()

	if sess.ID == "" {
		t.Error("session ID should be set")
	}
	if sess.Engine.Phase() != session.PhaseRunning {
		t.Errorf("phase = %q, want %q", sess.Engine.Phase(), session.PhaseRunning)
	}
	if got := s.Get(sess.ID); got != sess {
		t.Error("Get did not return the created session")
	}
}

func TestStore_GetUnknownID(t *testing.T) {
	s := NewStore(nil)
	if got := s.Get("nope"); got != nil {
		t.Errorf("Get(unknown) = %+v, want nil", got)
	}
}

func TestStore_DeleteStopsRunner(t *testing.T) {
	s := NewStore(nil)
	sess := s.Create(testConfig(session.VariantIOS))

	s.Delete(sess.ID)

	select {
	case <-sess.Runner.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("runner still alive after Delete")
	}
	if s.Get(sess.ID) != nil {
		t.Error("session still retrievable after Delete")
	}
}

func TestRunner_ReporterForwardsToEngine(t *testing.T) {
	cfg := testConfig(session.VariantVisionOS)
	engine := session.NewEngine(cfg)
	runner := NewRunner(engine, newTestMotion(cfg))
	engine.Start()

	runner.NoteDistractionSpawned()
	runner.ReportCatch()
	runner.ReportHeartLost()

	st := engine.State()
	if st.DistractionsEncountered != 1 {
		t.Errorf("DistractionsEncountered = %d, want 1", st.DistractionsEncountered)
	}
	if st.Score != 3 {
		t.Errorf("Score = %d, want 3 after one catch", st.Score)
	}
	if st.Hearts != 2 {
		t.Errorf("Hearts = %d, want 2", st.Hearts)
	}
}

func TestRunner_TapShutsLoopDown(t *testing.T) {
	s := NewStore(nil)
	sess := s.Create(testConfig(session.VariantIOS))

	sess.Engine.ReportDistractionTapped()

	select {
	case <-sess.Runner.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("runner loop did not exit after session end")
	}
	if got := sess.Engine.State().EndReason; got != session.EndDistractionTapped {
		t.Errorf("EndReason = %q, want %q", got, session.EndDistractionTapped)
	}
}

func TestRunner_TimeUpInvokesEndHandler(t *testing.T) {
	results := make(chan session.Result, 1)
	s := NewStore(func(_ *Session, res session.Result) {
		results <- res
	})

	cfg := testConfig(session.VariantIOS)
	cfg.DurationSeconds = 1
	sess := s.Create(cfg)
	sess.Runner.SetFocused(true)

	select {
	case res := <-results:
		if res.EndReason != session.EndTimeUp {
			t.Errorf("EndReason = %q, want %q", res.EndReason, session.EndTimeUp)
		}
		if res.DurationPlayedSeconds != 1 {
			t.Errorf("DurationPlayedSeconds = %d, want 1", res.DurationPlayedSeconds)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("end handler not invoked after time up")
	}
}

func TestRunner_PauseShiftsHologramSpawnTimes(t *testing.T) {
	cfg := testConfig(session.VariantVisionOS)
	engine := session.NewEngine(cfg)
	runner := NewRunner(engine, newTestMotion(cfg))
	store := distractions.NewStore()
	sched := distractions.NewScheduler(store,
		distractions.HologramPolicy(cfg.Viewport, cfg.DurationSeconds), runner, nil)
	runner.BindScheduler(sched)
	engine.Start()

	d := store.Add(200, 200, distractions.Contents[0], "#ff0000")
	before := d.SpawnedAt

	runner.Pause()
	time.Sleep(50 * time.Millisecond)
	runner.Resume()

	if shift := d.SpawnedAt.Sub(before); shift < 50*time.Millisecond {
		t.Errorf("SpawnedAt shifted by %v, want at least the 50ms spent paused", shift)
	}
	if engine.Phase() != session.PhaseRunning {
		t.Errorf("phase after resume = %q, want %q", engine.Phase(), session.PhaseRunning)
	}

	// A resume with no pending pause moves nothing.
	anchored := d.SpawnedAt
	runner.Resume()
	if d.SpawnedAt != anchored {
		t.Errorf("SpawnedAt moved on redundant resume: %v -> %v", anchored, d.SpawnedAt)
	}
}

func TestStore_DeleteSettlesActiveGauge(t *testing.T) {
	s := NewStore(nil)
	base := testutil.ToFloat64(metrics.ActiveSessions)

	sess := s.Create(testConfig(session.VariantIOS))
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != base+1 {
		t.Fatalf("gauge after create = %v, want %v", got, base+1)
	}

	// Torn down mid-play: the gauge settles on removal.
	s.Delete(sess.ID)
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != base {
		t.Errorf("gauge after delete = %v, want %v", got, base)
	}

	// Already ended: the end listener settled it, delete must not
	// decrement again.
	sess = s.Create(testConfig(session.VariantIOS))
	sess.Engine.End(session.EndTimeUp)
	s.Delete(sess.ID)
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != base {
		t.Errorf("gauge after end+delete = %v, want %v", got, base)
	}
}

func TestStore_DeleteClosesBroadcaster(t *testing.T) {
	s := NewStore(nil)
	sess := s.Create(testConfig(session.VariantIOS))

	s.Delete(sess.ID)

	select {
	case <-sess.Broadcaster.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("broadcaster drain goroutine still running after Delete")
	}
}

func TestRunner_SetFocusedFeedsScoring(t *testing.T) {
	cfg := testConfig(session.VariantIOS)
	engine := session.NewEngine(cfg)
	runner := NewRunner(engine, newTestMotion(cfg))
	engine.Start()

	runner.SetFocused(true)
	runner.mu.Lock()
	focused := runner.focused
	runner.mu.Unlock()
	if !focused {
		t.Error("focus signal not latched")
	}

	runner.SetCirclePosition(120, 90)
	runner.mu.Lock()
	circle := runner.circle
	runner.mu.Unlock()
	if circle.X != 120 || circle.Y != 90 {
		t.Errorf("circle = %+v, want (120, 90)", circle)
	}
}
