package memory

import (
	"context"
	"slices"

	"questforge/internal/app/ports"
	"questforge/internal/domain/quest"
)

type QuestRepo struct {
	store *Store
}

func NewQuestRepo(store *Store) QuestRepo {
	return QuestRepo{store: store}
}

func (r QuestRepo) Create(_ context.Context, q quest.Quest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.quests[q.ID]; exists {
		return ports.ErrConflict
	}
	r.store.quests[q.ID] = q
	r.store.questOrder = append(r.store.questOrder, q.ID)
	return nil
}

func (r QuestRepo) GetByID(_ context.Context, userID, questID string) (quest.Quest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	q, ok := r.store.quests[questID]
	if !ok || q.UserID != userID {
		return quest.Quest{}, ports.ErrNotFound
	}
	return q, nil
}

// ListByUserID returns quests in creation order.
func (r QuestRepo) ListByUserID(_ context.Context, userID string) ([]quest.Quest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []quest.Quest{}
	for _, id := range r.store.questOrder {
		if q := r.store.quests[id]; q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r QuestRepo) Delete(_ context.Context, userID, questID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	q, ok := r.store.quests[questID]
	if !ok || q.UserID != userID {
		return ports.ErrNotFound
	}
	delete(r.store.quests, questID)
	r.store.questOrder = slices.DeleteFunc(r.store.questOrder, func(id string) bool { return id == questID })
	return nil
}
