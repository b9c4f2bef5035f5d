package adventure

import (
	"context"
	"errors"
	"strings"
	"time"

	"questforge/internal/app/lifecycle"
	"questforge/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid adventure request")

// UseCase drives a user's adventure through the session registry. The
// registry's controllers are the only writers of adventure state.
type UseCase struct {
	Sessions *lifecycle.Registry
	Wallets  ports.WalletRepository
	Now      func() time.Time
}

// Status observes the current time first, so a run whose end time passed is
// reported as completed.
func (u UseCase) Status(ctx context.Context, req Request) (Response, error) {
	var out Response
	err := u.do(ctx, req, func(c *lifecycle.Controller) error {
		out = FromSnapshot(c.Tick(u.now()))
		return nil
	})
	return out, err
}

func (u UseCase) Start(ctx context.Context, req Request) (Response, error) {
	var out Response
	err := u.do(ctx, req, func(c *lifecycle.Controller) error {
		snap, err := c.StartAdventure()
		if err != nil {
			return err
		}
		out = FromSnapshot(snap)
		return nil
	})
	return out, err
}

// Collect credits the pending reward to the user's wallet and then clears it.
func (u UseCase) Collect(ctx context.Context, req Request) (CollectResponse, error) {
	if u.Wallets == nil {
		return CollectResponse{}, ErrInvalidRequest
	}
	var out CollectResponse
	err := u.do(ctx, req, func(c *lifecycle.Controller) error {
		amount, snap, err := c.CollectReward(ctx, func(ctx context.Context, amount int) error {
			w, err := u.Wallets.Credit(ctx, c.UserID(), int64(amount), u.now())
			if err != nil {
				return err
			}
			out.DiamondBalance = w.Diamonds
			return nil
		})
		if err != nil {
			return err
		}
		out.Response = FromSnapshot(snap)
		out.Collected = amount
		return nil
	})
	return out, err
}

func (u UseCase) Reset(ctx context.Context, req Request) (Response, error) {
	var out Response
	err := u.do(ctx, req, func(c *lifecycle.Controller) error {
		snap, err := c.Reset()
		if err != nil {
			return err
		}
		out = FromSnapshot(snap)
		return nil
	})
	return out, err
}

// Watch calls fn with every snapshot the user's session publishes, including
// countdown ticks, until the returned stop function is called or the session
// ends. fn must not block.
func (u UseCase) Watch(ctx context.Context, req Request, fn func(Response)) (stop func(), err error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" || u.Sessions == nil || fn == nil {
		return nil, ErrInvalidRequest
	}
	c, err := u.Sessions.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.Subscribe(func(s lifecycle.Snapshot) { fn(FromSnapshot(s)) }), nil
}

// EndSession discards the user's in-memory progress after a final save.
func (u UseCase) EndSession(ctx context.Context, req Request) error {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" || u.Sessions == nil {
		return ErrInvalidRequest
	}
	return u.Sessions.End(ctx, userID)
}

func (u UseCase) do(ctx context.Context, req Request, fn func(c *lifecycle.Controller) error) error {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" || u.Sessions == nil {
		return ErrInvalidRequest
	}
	return u.Sessions.Do(ctx, userID, fn)
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}
