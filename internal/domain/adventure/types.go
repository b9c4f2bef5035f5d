package adventure

import "time"

const (
	BaseEnergyCapacity = 15
	EnergyCapacityStep = 5

	RunDuration = 30 * time.Second

	RewardMin = 100
	RewardMax = 500
)

type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseRunning       Phase = "running"
	PhaseRewardPending Phase = "reward_pending"
)

// State is the persisted adventure progress of one user. Timestamps are
// epoch milliseconds so the record survives reloads on any store.
type State struct {
	IsRunning           bool   `json:"is_running"`
	AdventureOrdinal    int    `json:"adventure_ordinal"`
	Energy              int    `json:"energy"`
	EnergyCapacity      int    `json:"energy_capacity"`
	PendingReward       int    `json:"pending_reward"`
	RunStartedAtEpochMs *int64 `json:"run_started_at_epoch_ms,omitempty"`
	RunEndsAtEpochMs    *int64 `json:"run_ends_at_epoch_ms,omitempty"`
}

type EventType string

const (
	EventEnergyAdded        EventType = "energy_added"
	EventAdventureStarted   EventType = "adventure_started"
	EventAdventureCompleted EventType = "adventure_completed"
	EventRewardCollected    EventType = "reward_collected"
	EventAdventureReset     EventType = "adventure_reset"
)

type Event struct {
	Type       EventType      `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}
