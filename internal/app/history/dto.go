package history

import "questforge/internal/domain/adventure"

type Request struct {
	UserID       string
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
}

// Summary is rebuilt from the returned events only.
type Summary struct {
	EnergyAdded         int `json:"energy_added"`
	AdventuresStarted   int `json:"adventures_started"`
	AdventuresCompleted int `json:"adventures_completed"`
	DiamondsCollected   int `json:"diamonds_collected"`
	Resets              int `json:"resets"`
	LatestOrdinal       int `json:"latest_ordinal"`
}

type Response struct {
	Events  []adventure.Event `json:"events"`
	Summary Summary           `json:"summary"`
}
