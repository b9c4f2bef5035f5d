package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"questforge/internal/app/ports"
	"questforge/internal/domain/adventure"
)

type AdventureStateRepo struct {
	db *sql.DB
}

func NewAdventureStateRepo(db *sql.DB) AdventureStateRepo {
	return AdventureStateRepo{db: db}
}

func (r AdventureStateRepo) GetByUserID(ctx context.Context, userID string) (adventure.State, error) {
	const q = `SELECT is_running, adventure_ordinal, energy, energy_capacity, pending_reward, run_started_at_ms, run_ends_at_ms
	           FROM adventure_states WHERE user_id = ?`
	var (
		st        adventure.State
		startedAt sql.NullInt64
		endsAt    sql.NullInt64
	)
	err := getQueryer(ctx, r.db).QueryRowContext(ctx, q, userID).Scan(
		&st.IsRunning, &st.AdventureOrdinal, &st.Energy, &st.EnergyCapacity, &st.PendingReward, &startedAt, &endsAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return adventure.State{}, ports.ErrNotFound
	}
	if err != nil {
		return adventure.State{}, fmt.Errorf("get adventure state: scan: %w", err)
	}
	if startedAt.Valid {
		st.RunStartedAtEpochMs = &startedAt.Int64
	}
	if endsAt.Valid {
		st.RunEndsAtEpochMs = &endsAt.Int64
	}
	return st, nil
}

func (r AdventureStateRepo) Save(ctx context.Context, userID string, state adventure.State) error {
	const q = `INSERT INTO adventure_states (user_id, is_running, adventure_ordinal, energy, energy_capacity, pending_reward, run_started_at_ms, run_ends_at_ms, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	           ON CONFLICT(user_id) DO UPDATE SET
	             is_running = excluded.is_running,
	             adventure_ordinal = excluded.adventure_ordinal,
	             energy = excluded.energy,
	             energy_capacity = excluded.energy_capacity,
	             pending_reward = excluded.pending_reward,
	             run_started_at_ms = excluded.run_started_at_ms,
	             run_ends_at_ms = excluded.run_ends_at_ms,
	             updated_at = excluded.updated_at`
	_, err := getQueryer(ctx, r.db).ExecContext(ctx, q,
		userID, state.IsRunning, state.AdventureOrdinal, state.Energy, state.EnergyCapacity, state.PendingReward,
		nullableMs(state.RunStartedAtEpochMs), nullableMs(state.RunEndsAtEpochMs), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save adventure state: %w", err)
	}
	return nil
}

func nullableMs(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
