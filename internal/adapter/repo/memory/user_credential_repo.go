package memory

import (
	"context"

	"questforge/internal/app/ports"
)

type UserCredentialRepo struct {
	store *Store
}

func NewUserCredentialRepo(store *Store) UserCredentialRepo {
	return UserCredentialRepo{store: store}
}

func (r UserCredentialRepo) Create(_ context.Context, credential ports.UserCredentialRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.credentials[credential.UserID]; exists {
		return ports.ErrConflict
	}
	r.store.credentials[credential.UserID] = credential
	return nil
}

func (r UserCredentialRepo) GetByUserID(_ context.Context, userID string) (ports.UserCredentialRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.credentials[userID]
	if !ok {
		return ports.UserCredentialRecord{}, ports.ErrNotFound
	}
	return rec, nil
}
