package memory

import (
	"context"
	"time"

	"questforge/internal/app/ports"
	"questforge/internal/domain/wallet"
)

type WalletRepo struct {
	store *Store
}

func NewWalletRepo(store *Store) WalletRepo {
	return WalletRepo{store: store}
}

func (r WalletRepo) GetByUserID(_ context.Context, userID string) (wallet.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	w, ok := r.store.wallets[userID]
	if !ok {
		return wallet.Wallet{}, ports.ErrNotFound
	}
	return w, nil
}

func (r WalletRepo) Credit(_ context.Context, userID string, amount int64, at time.Time) (wallet.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.wallets[userID]
	if !ok {
		w = wallet.Wallet{UserID: userID}
	}
	if err := w.Credit(amount, at); err != nil {
		return wallet.Wallet{}, err
	}
	r.store.wallets[userID] = w
	return w, nil
}
