package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"questforge/internal/app/ports"
	"questforge/internal/domain/quest"
)

type QuestRepo struct {
	db *sql.DB
}

func NewQuestRepo(db *sql.DB) QuestRepo {
	return QuestRepo{db: db}
}

func (r QuestRepo) Create(ctx context.Context, q quest.Quest) error {
	const stmt = `INSERT INTO quests (id, user_id, title, energy, icon_path, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := getQueryer(ctx, r.db).ExecContext(ctx, stmt, q.ID, q.UserID, q.Title, q.Energy, q.IconPath, formatTime(q.CreatedAt))
	if isUniqueViolation(err) {
		return ports.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create quest: %w", err)
	}
	return nil
}

func (r QuestRepo) GetByID(ctx context.Context, userID, questID string) (quest.Quest, error) {
	const stmt = `SELECT id, user_id, title, energy, icon_path, created_at FROM quests WHERE id = ? AND user_id = ?`
	q, err := scanQuest(getQueryer(ctx, r.db).QueryRowContext(ctx, stmt, questID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return quest.Quest{}, ports.ErrNotFound
	}
	if err != nil {
		return quest.Quest{}, fmt.Errorf("get quest: %w", err)
	}
	return q, nil
}

func (r QuestRepo) ListByUserID(ctx context.Context, userID string) ([]quest.Quest, error) {
	const stmt = `SELECT id, user_id, title, energy, icon_path, created_at FROM quests WHERE user_id = ? ORDER BY created_at ASC, id ASC`
	rows, err := getQueryer(ctx, r.db).QueryContext(ctx, stmt, userID)
	if err != nil {
		return nil, fmt.Errorf("list quests: query: %w", err)
	}
	defer rows.Close()

	out := []quest.Quest{}
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("list quests: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quests: rows: %w", err)
	}
	return out, nil
}

func (r QuestRepo) Delete(ctx context.Context, userID, questID string) error {
	res, err := getQueryer(ctx, r.db).ExecContext(ctx, `DELETE FROM quests WHERE id = ? AND user_id = ?`, questID, userID)
	if err != nil {
		return fmt.Errorf("delete quest: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete quest: rows affected: %w", err)
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuest(row rowScanner) (quest.Quest, error) {
	var (
		q         quest.Quest
		createdAt string
	)
	if err := row.Scan(&q.ID, &q.UserID, &q.Title, &q.Energy, &q.IconPath, &createdAt); err != nil {
		return quest.Quest{}, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return quest.Quest{}, fmt.Errorf("parse created_at: %w", err)
	}
	q.CreatedAt = t
	return q, nil
}
