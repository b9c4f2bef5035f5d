package ports

import (
	"context"
	"time"

	"questforge/internal/domain/adventure"
	"questforge/internal/domain/quest"
	"questforge/internal/domain/wallet"
)

// AdventureStateRepository stores one adventure record per user.
// Save is last-write-wins.
type AdventureStateRepository interface {
	GetByUserID(ctx context.Context, userID string) (adventure.State, error)
	Save(ctx context.Context, userID string, state adventure.State) error
}

type WalletRepository interface {
	GetByUserID(ctx context.Context, userID string) (wallet.Wallet, error)
	Credit(ctx context.Context, userID string, amount int64, at time.Time) (wallet.Wallet, error)
}

type QuestRepository interface {
	Create(ctx context.Context, q quest.Quest) error
	GetByID(ctx context.Context, userID, questID string) (quest.Quest, error)
	ListByUserID(ctx context.Context, userID string) ([]quest.Quest, error)
	Delete(ctx context.Context, userID, questID string) error
}

type EventRepository interface {
	Append(ctx context.Context, userID string, events []adventure.Event) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]adventure.Event, error)
}

type UserCredentialRecord struct {
	UserID    string
	KeySalt   []byte
	KeyHash   []byte
	Status    string
	CreatedAt time.Time
}

type UserCredentialRepository interface {
	Create(ctx context.Context, credential UserCredentialRecord) error
	GetByUserID(ctx context.Context, userID string) (UserCredentialRecord, error)
}
