package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"questforge/internal/app/ports"
)

type UserCredentialRepo struct {
	db *sql.DB
}

func NewUserCredentialRepo(db *sql.DB) UserCredentialRepo {
	return UserCredentialRepo{db: db}
}

func (r UserCredentialRepo) Create(ctx context.Context, credential ports.UserCredentialRecord) error {
	const q = `INSERT INTO user_credentials (user_id, key_salt, key_hash, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := getQueryer(ctx, r.db).ExecContext(ctx, q,
		credential.UserID, credential.KeySalt, credential.KeyHash, credential.Status,
		formatTime(credential.CreatedAt), formatTime(time.Now()))
	if isUniqueViolation(err) {
		return ports.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create credential: %w", err)
	}
	return nil
}

func (r UserCredentialRepo) GetByUserID(ctx context.Context, userID string) (ports.UserCredentialRecord, error) {
	const q = `SELECT user_id, key_salt, key_hash, status, created_at FROM user_credentials WHERE user_id = ?`
	var (
		rec       ports.UserCredentialRecord
		createdAt string
	)
	err := getQueryer(ctx, r.db).QueryRowContext(ctx, q, userID).Scan(&rec.UserID, &rec.KeySalt, &rec.KeyHash, &rec.Status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.UserCredentialRecord{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.UserCredentialRecord{}, fmt.Errorf("get credential: %w", err)
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return ports.UserCredentialRecord{}, fmt.Errorf("get credential: parse created_at: %w", err)
	}
	return rec, nil
}
