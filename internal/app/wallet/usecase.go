package wallet

import (
	"context"
	"errors"
	"strings"

	"questforge/internal/app/ports"
	domain "questforge/internal/domain/wallet"
)

var ErrInvalidRequest = errors.New("invalid wallet request")

type Request struct {
	UserID string
}

type UseCase struct {
	Wallets ports.WalletRepository
}

// Balance returns the user's diamonds. A user who never collected a reward
// has an empty wallet rather than a missing one.
func (u UseCase) Balance(ctx context.Context, req Request) (domain.Wallet, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" || u.Wallets == nil {
		return domain.Wallet{}, ErrInvalidRequest
	}
	w, err := u.Wallets.GetByUserID(ctx, userID)
	if errors.Is(err, ports.ErrNotFound) {
		return domain.Wallet{UserID: userID}, nil
	}
	if err != nil {
		return domain.Wallet{}, err
	}
	return w, nil
}
