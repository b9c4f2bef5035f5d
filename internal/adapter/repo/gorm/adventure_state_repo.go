package gormrepo

import (
	"context"
	"errors"
	"time"

	"questforge/internal/adapter/repo/gorm/model"
	"questforge/internal/app/ports"
	"questforge/internal/domain/adventure"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdventureStateRepo struct {
	db *gorm.DB
}

func NewAdventureStateRepo(db *gorm.DB) AdventureStateRepo {
	return AdventureStateRepo{db: db}
}

func (r AdventureStateRepo) GetByUserID(ctx context.Context, userID string) (adventure.State, error) {
	var m model.AdventureState
	if err := dbFor(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return adventure.State{}, ports.ErrNotFound
		}
		return adventure.State{}, err
	}
	return adventure.State{
		IsRunning:           m.IsRunning,
		AdventureOrdinal:    int(m.AdventureOrdinal),
		Energy:              int(m.Energy),
		EnergyCapacity:      int(m.EnergyCapacity),
		PendingReward:       int(m.PendingReward),
		RunStartedAtEpochMs: m.RunStartedAtMs,
		RunEndsAtEpochMs:    m.RunEndsAtMs,
	}, nil
}

// Save overwrites the user's record unconditionally.
func (r AdventureStateRepo) Save(ctx context.Context, userID string, state adventure.State) error {
	state = state.Clone()
	m := model.AdventureState{
		UserID:           userID,
		IsRunning:        state.IsRunning,
		AdventureOrdinal: int32(state.AdventureOrdinal),
		Energy:           int32(state.Energy),
		EnergyCapacity:   int32(state.EnergyCapacity),
		PendingReward:    int32(state.PendingReward),
		RunStartedAtMs:   state.RunStartedAtEpochMs,
		RunEndsAtMs:      state.RunEndsAtEpochMs,
		UpdatedAt:        time.Now().UTC(),
	}
	return dbFor(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_running",
			"adventure_ordinal",
			"energy",
			"energy_capacity",
			"pending_reward",
			"run_started_at_ms",
			"run_ends_at_ms",
			"updated_at",
		}),
	}).Create(&m).Error
}
