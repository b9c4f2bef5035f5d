package lifecycle

import (
	"time"

	"questforge/internal/domain/adventure"
)

// Snapshot is the observable view of one user's adventure progress.
type Snapshot struct {
	UserID            string          `json:"user_id"`
	Seq               uint64          `json:"seq"`
	State             adventure.State `json:"state"`
	Phase             adventure.Phase `json:"phase"`
	ReadyForAdventure bool            `json:"ready_for_adventure"`
	Remaining         time.Duration   `json:"-"`
	ProgressPercent   int             `json:"progress_percent"`
	SyncPending       bool            `json:"sync_pending"`
	ObservedAt        time.Time       `json:"observed_at"`
}

func (s Snapshot) RemainingMs() int64 {
	return s.Remaining.Milliseconds()
}

// Observer receives a snapshot after every change and every countdown tick.
// Observers must not block and must not call back into the controller.
type Observer func(Snapshot)
