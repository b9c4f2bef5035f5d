package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"questforge/internal/app/ports"
)

type VerifyRequest struct {
	UserID  string
	UserKey string
}

// VerifyUseCase authenticates the user ID and key sent with a request. Any
// mismatch reports ErrInvalidCredentials, whether the user is unknown or the
// key is wrong.
type VerifyUseCase struct {
	Credentials ports.UserCredentialRepository
}

func (u VerifyUseCase) Execute(ctx context.Context, req VerifyRequest) error {
	userID, key := strings.TrimSpace(req.UserID), strings.TrimSpace(req.UserKey)
	if userID == "" || key == "" || u.Credentials == nil {
		return ErrInvalidRequest
	}

	cred, err := u.Credentials.GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return ErrInvalidCredentials
	case err != nil:
		return fmt.Errorf("load credential: %w", err)
	case cred.Status != CredentialStatusActive:
		return ErrInvalidCredentials
	case subtle.ConstantTimeCompare(hashUserKey(cred.KeySalt, key), cred.KeyHash) != 1:
		return ErrInvalidCredentials
	}
	return nil
}
