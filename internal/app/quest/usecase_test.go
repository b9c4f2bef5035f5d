package quest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"questforge/internal/app/lifecycle"
	"questforge/internal/app/ports"
	domain "questforge/internal/domain/quest"
)

func TestUseCase_CreateValidatesAndAssignsID(t *testing.T) {
	repo := newFakeQuests()
	uc := UseCase{Quests: repo, Now: func() time.Time { return time.Unix(1700000000, 0) }}

	q, err := uc.Create(context.Background(), CreateRequest{UserID: "user-1", Title: "  Read a chapter  ", IconPath: "/study.webp"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if q.ID == "" || q.Title != "Read a chapter" || q.Energy != domain.CompletionEnergy || q.IconPath != "/study.webp" {
		t.Fatalf("unexpected quest: %+v", q)
	}
	if _, ok := repo.quests[q.ID]; !ok {
		t.Fatalf("expected quest stored")
	}

	if _, err := uc.Create(context.Background(), CreateRequest{UserID: "user-1", Title: "   "}); !errors.Is(err, domain.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestUseCase_CompleteAddsEnergyAndRemovesQuest(t *testing.T) {
	repo := newFakeQuests()
	sessions := lifecycle.NewRegistry(lifecycle.Config{})
	t.Cleanup(func() { _ = sessions.Close(context.Background()) })
	ids := []string{"q1", "q2", "q3"}
	uc := UseCase{Quests: repo, Sessions: sessions, NewID: func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := uc.Create(ctx, CreateRequest{UserID: "user-1", Title: "Walk"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	var last CompleteResponse
	for _, id := range []string{"q1", "q2", "q3"} {
		out, err := uc.Complete(ctx, CompleteRequest{UserID: "user-1", QuestID: id})
		if err != nil {
			t.Fatalf("complete %s: %v", id, err)
		}
		last = out
	}
	if last.Energy != 15 || !last.ReadyForAdventure || last.EnergyGained != 5 {
		t.Fatalf("expected full energy after three quests, got %+v", last)
	}
	list, _ := uc.List(ctx, ListRequest{UserID: "user-1"})
	if len(list.Quests) != 0 {
		t.Fatalf("expected completed quests removed, got %d", len(list.Quests))
	}

	if _, err := uc.Complete(ctx, CompleteRequest{UserID: "user-1", QuestID: "q1"}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second completion, got %v", err)
	}
}

func TestUseCase_CompleteBeyondCapacityClamps(t *testing.T) {
	repo := newFakeQuests()
	sessions := lifecycle.NewRegistry(lifecycle.Config{})
	t.Cleanup(func() { _ = sessions.Close(context.Background()) })
	uc := UseCase{Quests: repo, Sessions: sessions}
	ctx := context.Background()

	c, _ := sessions.Session(ctx, "user-1")
	_, _ = c.AddEnergy(13)
	q, _ := uc.Create(ctx, CreateRequest{UserID: "user-1", Title: "Stretch"})
	out, err := uc.Complete(ctx, CompleteRequest{UserID: "user-1", QuestID: q.ID})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out.Energy != 15 || out.EnergyGained != 2 {
		t.Fatalf("expected clamp at capacity, got %+v", out)
	}
}

func TestUseCase_ListIsScopedToUser(t *testing.T) {
	repo := newFakeQuests()
	uc := UseCase{Quests: repo}
	ctx := context.Background()
	_, _ = uc.Create(ctx, CreateRequest{UserID: "user-1", Title: "Mine"})
	_, _ = uc.Create(ctx, CreateRequest{UserID: "user-2", Title: "Theirs"})

	out, err := uc.List(ctx, ListRequest{UserID: "user-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Quests) != 1 || out.Quests[0].Title != "Mine" {
		t.Fatalf("unexpected quests: %+v", out.Quests)
	}
}

type fakeQuests struct {
	mu     sync.Mutex
	quests map[string]domain.Quest
}

func newFakeQuests() *fakeQuests {
	return &fakeQuests{quests: map[string]domain.Quest{}}
}

func (f *fakeQuests) Create(_ context.Context, q domain.Quest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.quests[q.ID]; ok {
		return ports.ErrConflict
	}
	f.quests[q.ID] = q
	return nil
}

func (f *fakeQuests) GetByID(_ context.Context, userID, questID string) (domain.Quest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quests[questID]
	if !ok || q.UserID != userID {
		return domain.Quest{}, ports.ErrNotFound
	}
	return q, nil
}

func (f *fakeQuests) ListByUserID(_ context.Context, userID string) ([]domain.Quest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Quest
	for _, q := range f.quests {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeQuests) Delete(_ context.Context, userID, questID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quests[questID]
	if !ok || q.UserID != userID {
		return ports.ErrNotFound
	}
	delete(f.quests, questID)
	return nil
}

var _ ports.QuestRepository = (*fakeQuests)(nil)
