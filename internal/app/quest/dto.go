package quest

import domain "questforge/internal/domain/quest"

type CreateRequest struct {
	UserID   string
	Title    string `json:"title"`
	IconPath string `json:"icon_path"`
}

type ListRequest struct {
	UserID string
}

type ListResponse struct {
	Quests []domain.Quest `json:"quests"`
}

type CompleteRequest struct {
	UserID  string
	QuestID string
}

type CompleteResponse struct {
	Quest             domain.Quest `json:"quest"`
	EnergyGained      int          `json:"energy_gained"`
	Energy            int          `json:"energy"`
	EnergyCapacity    int          `json:"energy_capacity"`
	ReadyForAdventure bool         `json:"ready_for_adventure"`
}
