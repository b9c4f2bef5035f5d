package gormrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"questforge/internal/adapter/repo/gorm/model"
	"questforge/internal/app/ports"

	"gorm.io/gorm"
)

type UserCredentialRepo struct {
	db *gorm.DB
}

func NewUserCredentialRepo(db *gorm.DB) UserCredentialRepo {
	return UserCredentialRepo{db: db}
}

func (r UserCredentialRepo) Create(ctx context.Context, credential ports.UserCredentialRecord) error {
	row := model.UserCredential{
		UserID:    credential.UserID,
		KeySalt:   credential.KeySalt,
		KeyHash:   credential.KeyHash,
		Status:    credential.Status,
		CreatedAt: credential.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
	if err := dbFor(ctx, r.db).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r UserCredentialRepo) GetByUserID(ctx context.Context, userID string) (ports.UserCredentialRecord, error) {
	var row model.UserCredential
	if err := dbFor(ctx, r.db).Where(&model.UserCredential{UserID: userID}).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.UserCredentialRecord{}, ports.ErrNotFound
		}
		return ports.UserCredentialRecord{}, err
	}
	return ports.UserCredentialRecord{
		UserID:    row.UserID,
		KeySalt:   row.KeySalt,
		KeyHash:   row.KeyHash,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
	}, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
