package adventure

import (
	"time"

	"questforge/internal/app/lifecycle"
	domain "questforge/internal/domain/adventure"
)

type Request struct {
	UserID string
}

type Response struct {
	// Seq orders responses of one session; a lower Seq is stale.
	Seq               uint64       `json:"seq"`
	State             domain.State `json:"state"`
	Phase             domain.Phase `json:"phase"`
	ReadyForAdventure bool         `json:"ready_for_adventure"`
	RemainingMs       int64        `json:"remaining_ms"`
	RemainingSeconds  int          `json:"remaining_seconds"`
	Countdown         string       `json:"countdown"`
	ProgressPercent   int          `json:"progress_percent"`
	AdventureLabel    string       `json:"adventure_label"`
	SyncPending       bool         `json:"sync_pending"`
}

type CollectResponse struct {
	Response
	Collected      int   `json:"collected"`
	DiamondBalance int64 `json:"diamond_balance"`
}

func FromSnapshot(s lifecycle.Snapshot) Response {
	secs := domain.RemainingSeconds(s.Remaining)
	return Response{
		Seq:               s.Seq,
		State:             s.State,
		Phase:             s.Phase,
		ReadyForAdventure: s.ReadyForAdventure,
		RemainingMs:       s.RemainingMs(),
		RemainingSeconds:  secs,
		Countdown:         domain.FormatCountdown(time.Duration(secs) * time.Second),
		ProgressPercent:   s.ProgressPercent,
		AdventureLabel:    domain.Ordinal(s.State.AdventureOrdinal) + " adventure",
		SyncPending:       s.SyncPending,
	}
}
