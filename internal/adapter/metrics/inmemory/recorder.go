package inmemory

import (
	"sync"

	"questforge/internal/domain/adventure"
)

type Snapshot struct {
	AdventuresStarted   uint64            `json:"adventures_started"`
	AdventuresCompleted uint64            `json:"adventures_completed"`
	RewardsCollected    uint64            `json:"rewards_collected"`
	DiamondsAwarded     uint64            `json:"diamonds_awarded"`
	DiamondsCollected   uint64            `json:"diamonds_collected"`
	RejectedTotal       uint64            `json:"rejected_total"`
	RejectedByReason    map[string]uint64 `json:"rejected_by_reason"`
	PersistenceFailures uint64            `json:"persistence_failures"`
}

// Recorder counts adventure lifecycle outcomes for the KPI endpoint.
type Recorder struct {
	mu                  sync.Mutex
	started             uint64
	completed           uint64
	collected           uint64
	awarded             uint64
	collectedDiamonds   uint64
	persistenceFailures uint64
	rejected            map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		rejected: map[string]uint64{},
	}
}

func (r *Recorder) RecordStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *Recorder) RecordCompleted(reward int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
	if reward > 0 {
		r.awarded += uint64(reward)
	}
}

func (r *Recorder) RecordCollected(amount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collected++
	if amount > 0 {
		r.collectedDiamonds += uint64(amount)
	}
}

func (r *Recorder) RecordRejected(reason adventure.TransitionReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[string(reason)]++
}

func (r *Recorder) RecordPersistenceFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persistenceFailures++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		AdventuresStarted:   r.started,
		AdventuresCompleted: r.completed,
		RewardsCollected:    r.collected,
		DiamondsAwarded:     r.awarded,
		DiamondsCollected:   r.collectedDiamonds,
		PersistenceFailures: r.persistenceFailures,
		RejectedByReason:    make(map[string]uint64, len(r.rejected)),
	}
	for k, v := range r.rejected {
		out.RejectedByReason[k] = v
		out.RejectedTotal += v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
