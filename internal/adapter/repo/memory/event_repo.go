package memory

import (
	"context"
	"maps"

	"questforge/internal/domain/adventure"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, userID string, events []adventure.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, e := range events {
		e.Payload = maps.Clone(e.Payload)
		r.store.events[userID] = append(r.store.events[userID], e)
	}
	return nil
}

// ListByUserID returns the latest limit events, oldest first.
func (r EventRepo) ListByUserID(_ context.Context, userID string, limit int) ([]adventure.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := r.store.events[userID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]adventure.Event, len(all))
	copy(out, all)
	return out, nil
}
