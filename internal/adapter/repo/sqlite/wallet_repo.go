package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"questforge/internal/app/ports"
	"questforge/internal/domain/wallet"
)

type WalletRepo struct {
	db *sql.DB
}

func NewWalletRepo(db *sql.DB) WalletRepo {
	return WalletRepo{db: db}
}

func (r WalletRepo) GetByUserID(ctx context.Context, userID string) (wallet.Wallet, error) {
	row := getQueryer(ctx, r.db).QueryRowContext(ctx, `SELECT diamonds, updated_at FROM wallets WHERE user_id = ?`, userID)
	w, err := scanWallet(userID, row)
	if errors.Is(err, sql.ErrNoRows) {
		return wallet.Wallet{}, ports.ErrNotFound
	}
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("get wallet: %w", err)
	}
	return w, nil
}

func (r WalletRepo) Credit(ctx context.Context, userID string, amount int64, at time.Time) (wallet.Wallet, error) {
	check := wallet.Wallet{UserID: userID}
	if err := check.Credit(amount, at); err != nil {
		return wallet.Wallet{}, err
	}
	const q = `INSERT INTO wallets (user_id, diamonds, updated_at) VALUES (?, ?, ?)
	           ON CONFLICT(user_id) DO UPDATE SET
	             diamonds = wallets.diamonds + excluded.diamonds,
	             updated_at = excluded.updated_at
	           RETURNING diamonds, updated_at`
	row := getQueryer(ctx, r.db).QueryRowContext(ctx, q, userID, amount, formatTime(at))
	w, err := scanWallet(userID, row)
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("credit wallet: %w", err)
	}
	return w, nil
}

func scanWallet(userID string, row *sql.Row) (wallet.Wallet, error) {
	var (
		diamonds  int64
		updatedAt string
	)
	if err := row.Scan(&diamonds, &updatedAt); err != nil {
		return wallet.Wallet{}, err
	}
	t, err := parseTime(updatedAt)
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return wallet.Wallet{UserID: userID, Diamonds: diamonds, UpdatedAt: t}, nil
}
