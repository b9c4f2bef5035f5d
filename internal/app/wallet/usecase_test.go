package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"questforge/internal/app/ports"
	domain "questforge/internal/domain/wallet"
)

func TestUseCase_MissingWalletIsEmpty(t *testing.T) {
	uc := UseCase{Wallets: fakeWallets{err: ports.ErrNotFound}}
	w, err := uc.Balance(context.Background(), Request{UserID: "user-1"})
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if w.UserID != "user-1" || w.Diamonds != 0 {
		t.Fatalf("expected empty wallet, got %+v", w)
	}
}

func TestUseCase_ReturnsStoredBalance(t *testing.T) {
	uc := UseCase{Wallets: fakeWallets{w: domain.Wallet{UserID: "user-1", Diamonds: 742}}}
	w, err := uc.Balance(context.Background(), Request{UserID: "user-1"})
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if w.Diamonds != 742 {
		t.Fatalf("expected 742 diamonds, got %d", w.Diamonds)
	}
}

func TestUseCase_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	uc := UseCase{Wallets: fakeWallets{err: boom}}
	if _, err := uc.Balance(context.Background(), Request{UserID: "user-1"}); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if _, err := uc.Balance(context.Background(), Request{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

type fakeWallets struct {
	w   domain.Wallet
	err error
}

func (f fakeWallets) GetByUserID(context.Context, string) (domain.Wallet, error) {
	return f.w, f.err
}

func (f fakeWallets) Credit(context.Context, string, int64, time.Time) (domain.Wallet, error) {
	return f.w, f.err
}

var _ ports.WalletRepository = fakeWallets{}
