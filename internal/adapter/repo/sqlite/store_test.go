package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"questforge/internal/app/ports"
	"questforge/internal/domain/adventure"
	"questforge/internal/domain/quest"
)

var (
	_ ports.AdventureStateRepository = AdventureStateRepo{}
	_ ports.WalletRepository         = WalletRepo{}
	_ ports.QuestRepository          = QuestRepo{}
	_ ports.EventRepository          = EventRepo{}
	_ ports.UserCredentialRepository = UserCredentialRepo{}
	_ ports.TxManager                = TxManager{}
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "questforge.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one recorded version, got %d", n)
	}
}

func TestAdventureStateRepo_RoundTrip(t *testing.T) {
	repo := NewAdventureStateRepo(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetByUserID(ctx, "user-1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	start, end := int64(1_700_000_000_000), int64(1_700_000_030_000)
	running := adventure.State{
		IsRunning: true, AdventureOrdinal: 3, Energy: 2, EnergyCapacity: 25,
		RunStartedAtEpochMs: &start, RunEndsAtEpochMs: &end,
	}
	if err := repo.Save(ctx, "user-1", running); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.GetByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsRunning || got.AdventureOrdinal != 3 || got.Energy != 2 || got.EnergyCapacity != 25 {
		t.Fatalf("unexpected state: %+v", got)
	}
	if got.RunStartedAtEpochMs == nil || *got.RunStartedAtEpochMs != start || *got.RunEndsAtEpochMs != end {
		t.Fatalf("timestamps not preserved: %+v", got)
	}

	if err := repo.Save(ctx, "user-1", adventure.State{AdventureOrdinal: 3, EnergyCapacity: 25, PendingReward: 410}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = repo.GetByUserID(ctx, "user-1")
	if got.IsRunning || got.RunStartedAtEpochMs != nil || got.RunEndsAtEpochMs != nil || got.PendingReward != 410 {
		t.Fatalf("expected idle state with reward, got %+v", got)
	}
}

func TestWalletRepo_CreditUpserts(t *testing.T) {
	repo := NewWalletRepo(openTestDB(t))
	ctx := context.Background()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	if _, err := repo.GetByUserID(ctx, "user-1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Credit(ctx, "user-1", 120, at); err != nil {
		t.Fatalf("first credit: %v", err)
	}
	w, err := repo.Credit(ctx, "user-1", 480, at.Add(time.Hour))
	if err != nil {
		t.Fatalf("second credit: %v", err)
	}
	if w.Diamonds != 600 || !w.UpdatedAt.Equal(at.Add(time.Hour)) {
		t.Fatalf("unexpected wallet: %+v", w)
	}
	if _, err := repo.Credit(ctx, "user-1", -5, at); err == nil {
		t.Fatalf("expected negative credit rejected")
	}
}

func TestQuestRepo_CRUD(t *testing.T) {
	repo := NewQuestRepo(openTestDB(t))
	ctx := context.Background()
	base := time.Unix(1700000000, 0)
	for i, title := range []string{"Read", "Run", "Write"} {
		q, err := quest.New(title, "user-1", title, "", base.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatalf("new quest: %v", err)
		}
		if err := repo.Create(ctx, q); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := repo.Create(ctx, quest.Quest{ID: "Read", UserID: "user-1", CreatedAt: base}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	got, err := repo.GetByID(ctx, "user-1", "Run")
	if err != nil || got.IconPath != quest.DefaultIconPath || got.Energy != quest.CompletionEnergy {
		t.Fatalf("unexpected quest %+v err=%v", got, err)
	}
	if _, err := repo.GetByID(ctx, "user-2", "Run"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected other user's quest hidden, got %v", err)
	}
	if err := repo.Delete(ctx, "user-1", "Run"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "user-1", "Run"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	list, err := repo.ListByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "Read" || list[1].ID != "Write" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestEventRepo_AppendAndListLatest(t *testing.T) {
	repo := NewEventRepo(openTestDB(t))
	ctx := context.Background()
	err := repo.Append(ctx, "user-1", []adventure.Event{
		{Type: adventure.EventEnergyAdded, OccurredAt: time.Unix(10, 0), Payload: map[string]any{"amount": 5}},
		{Type: adventure.EventAdventureStarted, OccurredAt: time.Unix(20, 0), Payload: map[string]any{"adventure_ordinal": 2}},
		{Type: adventure.EventAdventureReset, OccurredAt: time.Unix(30, 0)},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := repo.ListByUserID(ctx, "user-1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Type != adventure.EventAdventureStarted || got[1].Type != adventure.EventAdventureReset {
		t.Fatalf("expected latest two oldest first, got %+v", got)
	}
	if got[0].Payload["adventure_ordinal"] != 2.0 {
		t.Fatalf("payload not preserved: %+v", got[0].Payload)
	}
	all, _ := repo.ListByUserID(ctx, "user-1", 0)
	if len(all) != 3 {
		t.Fatalf("expected unlimited list of 3, got %d", len(all))
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	creds := NewUserCredentialRepo(db)
	states := NewAdventureStateRepo(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := NewTxManager(db).RunInTx(ctx, func(txCtx context.Context) error {
		if err := creds.Create(txCtx, ports.UserCredentialRecord{
			UserID: "usr_1", KeySalt: []byte("s"), KeyHash: []byte("h"), Status: "active", CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		if err := states.Save(txCtx, "usr_1", adventure.DefaultState()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := creds.GetByUserID(ctx, "usr_1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected credential rolled back, got %v", err)
	}
	if _, err := states.GetByUserID(ctx, "usr_1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected state rolled back, got %v", err)
	}
}

func TestUserCredentialRepo_RoundTrip(t *testing.T) {
	repo := NewUserCredentialRepo(openTestDB(t))
	ctx := context.Background()
	rec := ports.UserCredentialRecord{UserID: "usr_1", KeySalt: []byte{1, 2}, KeyHash: []byte{3, 4}, Status: "active", CreatedAt: time.Unix(1700000000, 0)}
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, rec); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	got, err := repo.GetByUserID(ctx, "usr_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got.KeyHash) != string(rec.KeyHash) || !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatalf("unexpected credential: %+v", got)
	}
}
