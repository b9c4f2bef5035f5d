package memory

import (
	"context"

	"questforge/internal/app/ports"
	"questforge/internal/domain/adventure"
)

type AdventureStateRepo struct {
	store *Store
}

func NewAdventureStateRepo(store *Store) AdventureStateRepo {
	return AdventureStateRepo{store: store}
}

func (r AdventureStateRepo) GetByUserID(_ context.Context, userID string) (adventure.State, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	state, ok := r.store.states[userID]
	if !ok {
		return adventure.State{}, ports.ErrNotFound
	}
	return state.Clone(), nil
}

func (r AdventureStateRepo) Save(_ context.Context, userID string, state adventure.State) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.states[userID] = state.Clone()
	return nil
}
