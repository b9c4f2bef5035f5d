package quest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"questforge/internal/app/lifecycle"
	"questforge/internal/app/ports"
	domain "questforge/internal/domain/quest"

	"github.com/google/uuid"
)

var ErrInvalidRequest = errors.New("invalid quest request")

type UseCase struct {
	Quests   ports.QuestRepository
	Sessions *lifecycle.Registry
	Now      func() time.Time
	NewID    func() string
}

func (u UseCase) Create(ctx context.Context, req CreateRequest) (domain.Quest, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" || u.Quests == nil {
		return domain.Quest{}, ErrInvalidRequest
	}
	q, err := domain.New(u.newID(), userID, req.Title, req.IconPath, u.now().UTC())
	if err != nil {
		return domain.Quest{}, err
	}
	if err := u.Quests.Create(ctx, q); err != nil {
		return domain.Quest{}, err
	}
	return q, nil
}

func (u UseCase) List(ctx context.Context, req ListRequest) (ListResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" || u.Quests == nil {
		return ListResponse{}, ErrInvalidRequest
	}
	quests, err := u.Quests.ListByUserID(ctx, userID)
	if err != nil {
		return ListResponse{}, err
	}
	if quests == nil {
		quests = []domain.Quest{}
	}
	return ListResponse{Quests: quests}, nil
}

// Complete removes the quest and credits its energy to the user's adventure.
// The delete goes first so a quest can never be redeemed twice.
func (u UseCase) Complete(ctx context.Context, req CompleteRequest) (CompleteResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	questID := strings.TrimSpace(req.QuestID)
	if userID == "" || questID == "" || u.Quests == nil || u.Sessions == nil {
		return CompleteResponse{}, ErrInvalidRequest
	}
	q, err := u.Quests.GetByID(ctx, userID, questID)
	if err != nil {
		return CompleteResponse{}, err
	}
	if err := u.Quests.Delete(ctx, userID, questID); err != nil {
		return CompleteResponse{}, err
	}

	var out CompleteResponse
	err = u.Sessions.Do(ctx, userID, func(c *lifecycle.Controller) error {
		before := c.Snapshot().State.Energy
		snap, err := c.AddEnergy(q.Energy)
		if err != nil {
			return err
		}
		out = CompleteResponse{
			Quest:             q,
			EnergyGained:      snap.State.Energy - before,
			Energy:            snap.State.Energy,
			EnergyCapacity:    snap.State.EnergyCapacity,
			ReadyForAdventure: snap.ReadyForAdventure,
		}
		return nil
	})
	if err != nil {
		return CompleteResponse{}, fmt.Errorf("credit quest energy: %w", err)
	}
	return out, nil
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

func (u UseCase) newID() string {
	if u.NewID == nil {
		return uuid.NewString()
	}
	return u.NewID()
}
