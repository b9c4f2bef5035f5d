package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"questforge/internal/app/ports"
	"questforge/internal/domain/adventure"
)

// registerAttempts bounds retries when a freshly minted user ID collides.
const registerAttempts = 3

type RegisterRequest struct{}

type RegisterResponse struct {
	UserID   string `json:"user_id"`
	UserKey  string `json:"user_key"`
	IssuedAt string `json:"issued_at"`
}

// RegisterUseCase signs up a new user: it stores the credential and seeds
// default adventure progress in one transaction, so a user never exists
// without a progress record.
type RegisterUseCase struct {
	Credentials ports.UserCredentialRepository
	States      ports.AdventureStateRepository
	TxManager   ports.TxManager
	Now         func() time.Time
}

func (u RegisterUseCase) Execute(ctx context.Context, _ RegisterRequest) (RegisterResponse, error) {
	if u.Credentials == nil || u.States == nil || u.TxManager == nil {
		return RegisterResponse{}, ErrInvalidRequest
	}
	now := time.Now().UTC()
	if u.Now != nil {
		now = u.Now().UTC()
	}

	for attempt := 1; ; attempt++ {
		cred, key, err := issueCredential(now)
		if err != nil {
			return RegisterResponse{}, fmt.Errorf("issue credential: %w", err)
		}
		err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			return u.enroll(txCtx, cred)
		})
		switch {
		case err == nil:
			return RegisterResponse{
				UserID:   cred.UserID,
				UserKey:  key,
				IssuedAt: now.Format(time.RFC3339),
			}, nil
		case errors.Is(err, ports.ErrConflict) && attempt < registerAttempts:
			continue
		default:
			return RegisterResponse{}, fmt.Errorf("register user: %w", err)
		}
	}
}

func (u RegisterUseCase) enroll(ctx context.Context, cred ports.UserCredentialRecord) error {
	if err := u.Credentials.Create(ctx, cred); err != nil {
		return err
	}
	return u.States.Save(ctx, cred.UserID, adventure.DefaultState())
}
