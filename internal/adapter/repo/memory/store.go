package memory

import (
	"sync"

	"questforge/internal/app/ports"
	"questforge/internal/domain/adventure"
	"questforge/internal/domain/quest"
	"questforge/internal/domain/wallet"
)

// Store keeps every record in process memory. It backs the server when no
// database is configured and doubles as a test fixture.
type Store struct {
	mu          sync.RWMutex
	states      map[string]adventure.State
	wallets     map[string]wallet.Wallet
	quests      map[string]quest.Quest
	questOrder  []string
	events      map[string][]adventure.Event
	credentials map[string]ports.UserCredentialRecord

	// txMu serializes transactions; repos still take mu per call.
	txMu sync.Mutex
}

func NewStore() *Store {
	return &Store{
		states:      make(map[string]adventure.State),
		wallets:     make(map[string]wallet.Wallet),
		quests:      make(map[string]quest.Quest),
		events:      make(map[string][]adventure.Event),
		credentials: make(map[string]ports.UserCredentialRecord),
	}
}

func (s *Store) SeedState(userID string, state adventure.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state.Clone()
}
