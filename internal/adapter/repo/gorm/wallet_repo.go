package gormrepo

import (
	"context"
	"errors"
	"time"

	"questforge/internal/adapter/repo/gorm/model"
	"questforge/internal/app/ports"
	"questforge/internal/domain/wallet"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepo struct {
	db *gorm.DB
}

func NewWalletRepo(db *gorm.DB) WalletRepo {
	return WalletRepo{db: db}
}

func (r WalletRepo) GetByUserID(ctx context.Context, userID string) (wallet.Wallet, error) {
	var m model.Wallet
	if err := dbFor(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return wallet.Wallet{}, ports.ErrNotFound
		}
		return wallet.Wallet{}, err
	}
	return toWallet(m), nil
}

// Credit adds amount in a single upsert so concurrent credits never lose
// an increment.
func (r WalletRepo) Credit(ctx context.Context, userID string, amount int64, at time.Time) (wallet.Wallet, error) {
	check := wallet.Wallet{UserID: userID}
	if err := check.Credit(amount, at); err != nil {
		return wallet.Wallet{}, err
	}
	db := dbFor(ctx, r.db)
	row := model.Wallet{UserID: userID, Diamonds: amount, UpdatedAt: at.UTC()}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"diamonds":   gorm.Expr("wallets.diamonds + EXCLUDED.diamonds"),
			"updated_at": gorm.Expr("EXCLUDED.updated_at"),
		}),
	}).Create(&row).Error
	if err != nil {
		return wallet.Wallet{}, err
	}

	var m model.Wallet
	if err := db.Where("user_id = ?", userID).First(&m).Error; err != nil {
		return wallet.Wallet{}, err
	}
	return toWallet(m), nil
}

func toWallet(m model.Wallet) wallet.Wallet {
	return wallet.Wallet{UserID: m.UserID, Diamonds: m.Diamonds, UpdatedAt: m.UpdatedAt}
}
