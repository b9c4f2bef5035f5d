package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"questforge/internal/app/ports"
	"questforge/internal/domain/adventure"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

func (c *Controller) persistent() bool {
	return c.cfg.Store != nil || c.cfg.Events != nil
}

// load reports found=false with a nil error when the user has no record yet.
func (c *Controller) load(ctx context.Context) (adventure.State, bool, error) {
	if c.cfg.Store == nil {
		return adventure.State{}, false, nil
	}
	state, err := c.cfg.Store.GetByUserID(ctx, c.userID)
	switch {
	case err == nil:
		return state, true, nil
	case errors.Is(err, ports.ErrNotFound):
		return adventure.State{}, false, nil
	default:
		hlog.CtxWarnf(ctx, "adventure: load progress for user=%s failed, starting from defaults: %v", c.userID, err)
		if c.cfg.Metrics != nil {
			c.cfg.Metrics.RecordPersistenceFailure()
		}
		return adventure.State{}, false, fmt.Errorf("%w: %v", ports.ErrPersistenceUnavailable, err)
	}
}

// signalSave must be called with c.mu held.
func (c *Controller) signalSave() {
	if !c.persistent() {
		return
	}
	c.version++
	select {
	case c.saveSignal <- struct{}{}:
	default:
	}
}

func (c *Controller) persistLoop(ctx context.Context) {
	defer close(c.persistDone)
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.saveSignal:
			_ = c.persist(ctx)
		}
	}
}

// persist writes the latest state and queued events. On failure the events
// are requeued and the next mutation triggers another attempt.
func (c *Controller) persist(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	state := c.state.Clone()
	version := c.version
	events := c.pending
	c.pending = nil
	c.mu.Unlock()

	saveCtx, cancel := context.WithTimeout(ctx, c.cfg.SaveTimeout)
	defer cancel()

	var err error
	if c.cfg.Store != nil {
		err = c.cfg.Store.Save(saveCtx, c.userID, state)
	}
	if err == nil && c.cfg.Events != nil && len(events) > 0 {
		if err = c.cfg.Events.Append(saveCtx, c.userID, events); err == nil {
			events = nil
		}
	}

	c.mu.Lock()
	if err != nil {
		c.pending = append(events, c.pending...)
		if over := len(c.pending) - maxPendingEvents; over > 0 {
			c.pending = c.pending[over:]
		}
		c.dirty = true
	} else {
		c.dirty = false
		c.savedVersion = version
	}
	c.mu.Unlock()

	if err != nil {
		hlog.CtxWarnf(ctx, "adventure: save progress for user=%s failed, will retry on next change: %v", c.userID, err)
		if c.cfg.Metrics != nil {
			c.cfg.Metrics.RecordPersistenceFailure()
		}
		return fmt.Errorf("%w: %v", ports.ErrPersistenceUnavailable, err)
	}
	return nil
}
