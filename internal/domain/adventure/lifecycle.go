package adventure

import (
	"math/rand/v2"
	"time"
)

func DefaultState() State {
	return State{
		AdventureOrdinal: 1,
		EnergyCapacity:   BaseEnergyCapacity,
	}
}

// CapacityFor returns the energy needed to unlock the run after ordinal
// adventures have been started. Growth is unbounded.
func CapacityFor(ordinal int) int {
	n := ordinal - 1
	if n < 0 {
		n = 0
	}
	return BaseEnergyCapacity + EnergyCapacityStep*n
}

func (s State) Phase() Phase {
	switch {
	case s.IsRunning:
		return PhaseRunning
	case s.PendingReward > 0:
		return PhaseRewardPending
	default:
		return PhaseIdle
	}
}

func (s State) ReadyForAdventure() bool {
	return !s.IsRunning && s.PendingReward == 0 && s.Energy >= s.EnergyCapacity
}

// Clone copies the optional timestamps so the result shares no memory with s.
func (s State) Clone() State {
	out := s
	if s.RunStartedAtEpochMs != nil {
		v := *s.RunStartedAtEpochMs
		out.RunStartedAtEpochMs = &v
	}
	if s.RunEndsAtEpochMs != nil {
		v := *s.RunEndsAtEpochMs
		out.RunEndsAtEpochMs = &v
	}
	return out
}

// AddEnergy accrues energy regardless of run status and reports whether the
// next adventure is ready to start.
func (s *State) AddEnergy(amount int) bool {
	if amount < 0 {
		amount = 0
	}
	s.Energy += amount
	if s.Energy > s.EnergyCapacity {
		s.Energy = s.EnergyCapacity
	}
	return s.ReadyForAdventure()
}

func (s *State) Start(now time.Time) error {
	switch {
	case s.IsRunning:
		return transitionErr("start", ReasonAlreadyRunning)
	case s.PendingReward > 0:
		return transitionErr("start", ReasonRewardPending)
	case s.Energy < s.EnergyCapacity:
		return transitionErr("start", ReasonInsufficientEnergy)
	}
	startedAt := now.UnixMilli()
	endsAt := startedAt + RunDuration.Milliseconds()

	s.IsRunning = true
	s.AdventureOrdinal++
	s.EnergyCapacity = CapacityFor(s.AdventureOrdinal)
	s.Energy = 0
	s.PendingReward = 0
	s.RunStartedAtEpochMs = &startedAt
	s.RunEndsAtEpochMs = &endsAt
	return nil
}

// Tick observes the clock. It finalizes the run once the end time is reached
// and otherwise reports the remaining time.
func (s *State) Tick(now time.Time) (completed bool, remaining time.Duration) {
	if !s.IsRunning {
		return false, 0
	}
	if s.RunEndsAtEpochMs == nil || now.UnixMilli() >= *s.RunEndsAtEpochMs {
		s.finalize()
		return true, 0
	}
	return false, time.Duration(*s.RunEndsAtEpochMs-now.UnixMilli()) * time.Millisecond
}

func (s *State) Collect() (int, error) {
	if s.PendingReward <= 0 {
		return 0, transitionErr("collect", ReasonNoReward)
	}
	amount := s.PendingReward
	s.PendingReward = 0
	return amount, nil
}

func (s *State) Reset() {
	*s = DefaultState()
}

// Remaining is the display countdown for the current run.
func (s State) Remaining(now time.Time) time.Duration {
	if !s.IsRunning || s.RunEndsAtEpochMs == nil {
		return 0
	}
	left := *s.RunEndsAtEpochMs - now.UnixMilli()
	if left <= 0 {
		return 0
	}
	return time.Duration(left) * time.Millisecond
}

// Progress is the completed share of the current run in percent.
func (s State) Progress(now time.Time) int {
	if !s.IsRunning || s.RunStartedAtEpochMs == nil || s.RunEndsAtEpochMs == nil {
		return 0
	}
	total := *s.RunEndsAtEpochMs - *s.RunStartedAtEpochMs
	if total <= 0 {
		return 100
	}
	elapsed := now.UnixMilli() - *s.RunStartedAtEpochMs
	switch {
	case elapsed <= 0:
		return 0
	case elapsed >= total:
		return 100
	}
	return int(elapsed * 100 / total)
}

// Reconcile adopts a previously persisted state at now. A run that elapsed
// while no session observed it is finalized immediately.
func Reconcile(persisted State, now time.Time) State {
	out := Normalize(persisted)
	if out.IsRunning && *out.RunEndsAtEpochMs <= now.UnixMilli() {
		out.finalize()
	}
	return out
}

// Normalize coerces a loaded record into one that satisfies the state
// invariants, defaulting missing or malformed fields.
func Normalize(in State) State {
	out := in.Clone()
	if out.AdventureOrdinal < 1 {
		out.AdventureOrdinal = 1
	}
	out.EnergyCapacity = CapacityFor(out.AdventureOrdinal)
	if out.Energy < 0 {
		out.Energy = 0
	}
	if out.Energy > out.EnergyCapacity {
		out.Energy = out.EnergyCapacity
	}
	if out.PendingReward < 0 {
		out.PendingReward = 0
	}
	// A pending reward wins over a run: the single slot is already taken.
	if out.IsRunning && (out.RunEndsAtEpochMs == nil || out.PendingReward > 0) {
		out.IsRunning = false
	}
	if !out.IsRunning {
		out.RunStartedAtEpochMs = nil
		out.RunEndsAtEpochMs = nil
	}
	return out
}

func (s *State) finalize() {
	s.PendingReward = RewardFor(*s)
	s.IsRunning = false
	s.RunStartedAtEpochMs = nil
	s.RunEndsAtEpochMs = nil
}

// RewardFor draws the diamond reward of the run described by s, uniform in
// [RewardMin, RewardMax]. The draw is seeded by the run's identity so every
// observer of the same run computes the same reward.
func RewardFor(s State) int {
	var startedAt, endsAt int64
	if s.RunStartedAtEpochMs != nil {
		startedAt = *s.RunStartedAtEpochMs
	}
	if s.RunEndsAtEpochMs != nil {
		endsAt = *s.RunEndsAtEpochMs
	}
	r := rand.New(rand.NewPCG(uint64(startedAt), uint64(endsAt)^uint64(s.AdventureOrdinal)<<32))
	return RewardMin + r.IntN(RewardMax-RewardMin+1)
}
