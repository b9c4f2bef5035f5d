package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"

	"questforge/internal/domain/adventure"
)

type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, userID string, events []adventure.Event) error {
	q := getQueryer(ctx, r.db)
	for _, e := range events {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("append event: marshal payload: %w", err)
		}
		_, err = q.ExecContext(ctx, `INSERT INTO adventure_events (user_id, type, occurred_at, payload) VALUES (?, ?, ?, ?)`,
			userID, string(e.Type), formatTime(e.OccurredAt), string(payload))
		if err != nil {
			return fmt.Errorf("append event: insert: %w", err)
		}
	}
	return nil
}

// ListByUserID returns the latest limit events, oldest first.
func (r EventRepo) ListByUserID(ctx context.Context, userID string, limit int) ([]adventure.Event, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := getQueryer(ctx, r.db).QueryContext(ctx,
		`SELECT type, occurred_at, payload FROM adventure_events WHERE user_id = ? ORDER BY id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: query: %w", err)
	}
	defer rows.Close()

	out := []adventure.Event{}
	for rows.Next() {
		var typ, occurredAt, payload string
		if err := rows.Scan(&typ, &occurredAt, &payload); err != nil {
			return nil, fmt.Errorf("list events: scan: %w", err)
		}
		at, err := parseTime(occurredAt)
		if err != nil {
			return nil, fmt.Errorf("list events: parse occurred_at: %w", err)
		}
		var data map[string]any
		_ = json.Unmarshal([]byte(payload), &data)
		out = append(out, adventure.Event{Type: adventure.EventType(typ), OccurredAt: at, Payload: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: rows: %w", err)
	}
	slices.Reverse(out)
	return out, nil
}
