package adventure

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	if s.IsRunning || s.AdventureOrdinal != 1 || s.Energy != 0 || s.EnergyCapacity != 15 || s.PendingReward != 0 {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if s.RunStartedAtEpochMs != nil || s.RunEndsAtEpochMs != nil {
		t.Fatalf("expected no run timestamps, got %+v", s)
	}
	if s.Phase() != PhaseIdle {
		t.Fatalf("expected idle phase, got %s", s.Phase())
	}
}

func TestCapacityFor(t *testing.T) {
	cases := map[int]int{-3: 15, 0: 15, 1: 15, 2: 20, 3: 25, 8: 50, 9: 55, 100: 510}
	for ordinal, want := range cases {
		if got := CapacityFor(ordinal); got != want {
			t.Fatalf("CapacityFor(%d)=%d want %d", ordinal, got, want)
		}
	}
}

func TestAddEnergy_ClampsToCapacity(t *testing.T) {
	s := DefaultState()
	for _, amount := range []int{5, -10, 7, 0, 100, 3} {
		s.AddEnergy(amount)
		if s.Energy < 0 || s.Energy > s.EnergyCapacity {
			t.Fatalf("energy out of range after AddEnergy(%d): %d/%d", amount, s.Energy, s.EnergyCapacity)
		}
	}
	if s.Energy != s.EnergyCapacity {
		t.Fatalf("expected full energy, got %d", s.Energy)
	}
}

func TestAddEnergy_NegativeIsNoop(t *testing.T) {
	s := DefaultState()
	s.AddEnergy(4)
	s.AddEnergy(-3)
	if s.Energy != 4 {
		t.Fatalf("expected energy 4, got %d", s.Energy)
	}
}

func TestAddEnergy_ReportsReady(t *testing.T) {
	s := DefaultState()
	if ready := s.AddEnergy(10); ready {
		t.Fatalf("expected not ready at 10/15")
	}
	if ready := s.AddEnergy(5); !ready {
		t.Fatalf("expected ready at 15/15")
	}
}

func TestHappyPath(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	s := DefaultState()
	s.AddEnergy(15)
	if !s.ReadyForAdventure() {
		t.Fatalf("expected ready for adventure")
	}
	if err := s.Start(start); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.IsRunning || s.AdventureOrdinal != 2 || s.EnergyCapacity != 20 || s.Energy != 0 {
		t.Fatalf("unexpected state after start: %+v", s)
	}
	if *s.RunEndsAtEpochMs != start.UnixMilli()+30000 {
		t.Fatalf("expected end=start+30000, got %d", *s.RunEndsAtEpochMs-start.UnixMilli())
	}
	if s.Phase() != PhaseRunning {
		t.Fatalf("expected running phase, got %s", s.Phase())
	}

	completed, remaining := s.Tick(start.Add(10 * time.Second))
	if completed || remaining != 20*time.Second {
		t.Fatalf("expected 20s remaining, got completed=%v remaining=%s", completed, remaining)
	}

	completed, _ = s.Tick(start.Add(30 * time.Second))
	if !completed {
		t.Fatalf("expected run to complete at end time")
	}
	if s.IsRunning || s.RunEndsAtEpochMs != nil || s.RunStartedAtEpochMs != nil {
		t.Fatalf("expected run cleared, got %+v", s)
	}
	if s.PendingReward < RewardMin || s.PendingReward > RewardMax {
		t.Fatalf("reward out of range: %d", s.PendingReward)
	}
	if s.Phase() != PhaseRewardPending {
		t.Fatalf("expected reward pending phase, got %s", s.Phase())
	}

	want := s.PendingReward
	got, err := s.Collect()
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got != want || s.PendingReward != 0 {
		t.Fatalf("collect returned %d (want %d), pending now %d", got, want, s.PendingReward)
	}
}

func TestStart_RejectsDoubleStart(t *testing.T) {
	s := DefaultState()
	s.AddEnergy(15)
	if err := s.Start(time.UnixMilli(1000)); err != nil {
		t.Fatalf("start: %v", err)
	}
	before := s.Clone()
	err := s.Start(time.UnixMilli(2000))
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	var te *TransitionError
	if !errors.As(err, &te) || te.Reason != ReasonAlreadyRunning {
		t.Fatalf("expected already_running reason, got %v", err)
	}
	if s.AdventureOrdinal != before.AdventureOrdinal || *s.RunEndsAtEpochMs != *before.RunEndsAtEpochMs {
		t.Fatalf("state changed on rejected start: before=%+v after=%+v", before, s)
	}
}

func TestStart_RejectsPendingRewardAndLowEnergy(t *testing.T) {
	s := DefaultState()
	s.AddEnergy(14)
	var te *TransitionError
	if err := s.Start(time.UnixMilli(0)); !errors.As(err, &te) || te.Reason != ReasonInsufficientEnergy {
		t.Fatalf("expected insufficient_energy, got %v", err)
	}

	s = DefaultState()
	s.PendingReward = 200
	s.AddEnergy(15)
	if s.ReadyForAdventure() {
		t.Fatalf("expected not ready while a reward is pending")
	}
	if err := s.Start(time.UnixMilli(0)); !errors.As(err, &te) || te.Reason != ReasonRewardPending {
		t.Fatalf("expected reward_pending, got %v", err)
	}
}

func TestCollect_RejectsEmpty(t *testing.T) {
	s := DefaultState()
	if _, err := s.Collect(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTick_IdleIsNoop(t *testing.T) {
	s := DefaultState()
	s.AddEnergy(3)
	before := s
	completed, remaining := s.Tick(time.UnixMilli(99_999))
	if completed || remaining != 0 || s != before {
		t.Fatalf("expected no-op tick, got completed=%v remaining=%s state=%+v", completed, remaining, s)
	}
}

func TestEnergyAccruesDuringRun(t *testing.T) {
	s := DefaultState()
	s.AddEnergy(15)
	if err := s.Start(time.UnixMilli(0)); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.AddEnergy(5)
	if s.Energy != 5 {
		t.Fatalf("expected energy 5 mid-run, got %d", s.Energy)
	}
	s.AddEnergy(100)
	if s.Energy != 20 {
		t.Fatalf("expected energy clamped to new capacity 20, got %d", s.Energy)
	}
	if s.ReadyForAdventure() {
		t.Fatalf("expected not ready while running")
	}
}

func TestSingleSlotAndCapacityFormulaOverManyCycles(t *testing.T) {
	s := DefaultState()
	now := time.UnixMilli(5_000_000)
	for i := 0; i < 20; i++ {
		s.AddEnergy(s.EnergyCapacity)
		if err := s.Start(now); err != nil {
			t.Fatalf("cycle %d start: %v", i, err)
		}
		assertInvariants(t, s)
		if s.AdventureOrdinal != i+2 {
			t.Fatalf("cycle %d: ordinal=%d want %d", i, s.AdventureOrdinal, i+2)
		}
		now = now.Add(RunDuration)
		s.Tick(now)
		assertInvariants(t, s)
		if _, err := s.Collect(); err != nil {
			t.Fatalf("cycle %d collect: %v", i, err)
		}
		assertInvariants(t, s)
		now = now.Add(time.Second)
	}
}

func TestRewardFor_Bounds(t *testing.T) {
	seen := map[int]bool{}
	for i := int64(0); i < 5000; i++ {
		start := 1_700_000_000_000 + i*7919
		end := start + 30000
		r := RewardFor(State{AdventureOrdinal: int(i%17) + 1, RunStartedAtEpochMs: &start, RunEndsAtEpochMs: &end})
		if r < RewardMin || r > RewardMax {
			t.Fatalf("reward out of range: %d", r)
		}
		seen[r] = true
	}
	if len(seen) < 200 {
		t.Fatalf("expected a spread of rewards, saw %d distinct values", len(seen))
	}
}

func TestReset(t *testing.T) {
	s := DefaultState()
	s.AddEnergy(15)
	_ = s.Start(time.UnixMilli(0))
	s.Reset()
	if s != DefaultState() {
		t.Fatalf("expected defaults after reset, got %+v", s)
	}
}

func TestReconcile_ResumesFutureRun(t *testing.T) {
	start := int64(10_000)
	end := start + 30000
	persisted := State{IsRunning: true, AdventureOrdinal: 2, EnergyCapacity: 20, RunStartedAtEpochMs: &start, RunEndsAtEpochMs: &end}
	got := Reconcile(persisted, time.UnixMilli(start+12000))
	if !got.IsRunning || got.PendingReward != 0 {
		t.Fatalf("expected resumed run, got %+v", got)
	}
	if rem := got.Remaining(time.UnixMilli(start + 12000)); rem != 18*time.Second {
		t.Fatalf("expected 18s remaining, got %s", rem)
	}
}

func TestReconcile_FinalizesElapsedRun(t *testing.T) {
	start := int64(10_000)
	end := start + 30000
	persisted := State{IsRunning: true, AdventureOrdinal: 2, EnergyCapacity: 20, RunStartedAtEpochMs: &start, RunEndsAtEpochMs: &end}
	got := Reconcile(persisted, time.UnixMilli(end+5000))
	if got.IsRunning || got.RunEndsAtEpochMs != nil || got.RunStartedAtEpochMs != nil {
		t.Fatalf("expected finalized run, got %+v", got)
	}
	if got.PendingReward < RewardMin || got.PendingReward > RewardMax {
		t.Fatalf("reward out of range: %d", got.PendingReward)
	}
	if *persisted.RunEndsAtEpochMs != end || !persisted.IsRunning {
		t.Fatalf("reconcile mutated its input: %+v", persisted)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	start := int64(42_000)
	end := start + 30000
	persisted := State{IsRunning: true, AdventureOrdinal: 4, Energy: 3, RunStartedAtEpochMs: &start, RunEndsAtEpochMs: &end}
	for _, now := range []time.Time{time.UnixMilli(start + 1), time.UnixMilli(end), time.UnixMilli(end + 99_000)} {
		a := Reconcile(persisted, now)
		b := Reconcile(persisted, now)
		if a.IsRunning != b.IsRunning || a.PendingReward != b.PendingReward || a.Energy != b.Energy || a.AdventureOrdinal != b.AdventureOrdinal {
			t.Fatalf("reconcile not idempotent at %d: %+v vs %+v", now.UnixMilli(), a, b)
		}
	}
}

func TestReconcile_TickAndReconcileAgreeOnReward(t *testing.T) {
	s := DefaultState()
	s.AddEnergy(15)
	now := time.UnixMilli(77_000)
	_ = s.Start(now)
	persisted := s.Clone()
	s.Tick(now.Add(RunDuration))
	reconciled := Reconcile(persisted, now.Add(time.Hour))
	if s.PendingReward != reconciled.PendingReward {
		t.Fatalf("tick reward %d != reconcile reward %d", s.PendingReward, reconciled.PendingReward)
	}
}

func TestNormalize_CoercesMalformedRecord(t *testing.T) {
	start := int64(1)
	got := Normalize(State{IsRunning: true, AdventureOrdinal: 0, Energy: 99, EnergyCapacity: 3, PendingReward: -5, RunStartedAtEpochMs: &start})
	if got.IsRunning || got.RunStartedAtEpochMs != nil {
		t.Fatalf("expected run without end time dropped, got %+v", got)
	}
	if got.AdventureOrdinal != 1 || got.EnergyCapacity != 15 || got.Energy != 15 || got.PendingReward != 0 {
		t.Fatalf("unexpected normalized state: %+v", got)
	}

	end := int64(50)
	got = Normalize(State{IsRunning: true, AdventureOrdinal: 3, PendingReward: 250, RunStartedAtEpochMs: &start, RunEndsAtEpochMs: &end})
	if got.IsRunning || got.PendingReward != 250 || got.RunEndsAtEpochMs != nil {
		t.Fatalf("expected pending reward kept and run dropped, got %+v", got)
	}
	assertInvariants(t, got)
}

func assertInvariants(t *testing.T, s State) {
	t.Helper()
	if s.Energy < 0 || s.Energy > s.EnergyCapacity {
		t.Fatalf("energy out of range: %+v", s)
	}
	if s.IsRunning && s.PendingReward > 0 {
		t.Fatalf("running with pending reward: %+v", s)
	}
	if s.EnergyCapacity != CapacityFor(s.AdventureOrdinal) {
		t.Fatalf("capacity %d does not match ordinal %d", s.EnergyCapacity, s.AdventureOrdinal)
	}
	if s.IsRunning != (s.RunEndsAtEpochMs != nil) {
		t.Fatalf("running flag and end time disagree: %+v", s)
	}
}
