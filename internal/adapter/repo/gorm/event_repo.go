package gormrepo

import (
	"context"
	"encoding/json"
	"slices"

	"questforge/internal/adapter/repo/gorm/model"
	"questforge/internal/domain/adventure"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, userID string, events []adventure.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.AdventureEvent, 0, len(events))
	for _, e := range events {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return err
		}
		rows = append(rows, model.AdventureEvent{
			UserID:     userID,
			Type:       string(e.Type),
			OccurredAt: e.OccurredAt.UTC(),
			Payload:    b,
		})
	}
	return dbFor(ctx, r.db).Create(&rows).Error
}

// ListByUserID returns the latest limit events, oldest first.
func (r EventRepo) ListByUserID(ctx context.Context, userID string, limit int) ([]adventure.Event, error) {
	rows := []model.AdventureEvent{}
	query := dbFor(ctx, r.db).
		Where(&model.AdventureEvent{UserID: userID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "id"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	slices.Reverse(rows)

	out := make([]adventure.Event, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, adventure.Event{
			Type:       adventure.EventType(row.Type),
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
