package lifecycle

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Registry keeps one open Controller per signed-in user.
type Registry struct {
	cfg Config

	mu       sync.Mutex
	closed   bool
	sessions map[string]*session
	opening  map[string]*pendingOpen
}

type session struct {
	c        *Controller
	lastUsed time.Time
}

// pendingOpen lets concurrent callers for one user wait on a single Open.
type pendingOpen struct {
	done chan struct{}
	err  error
}

func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:      cfg,
		sessions: map[string]*session{},
		opening:  map[string]*pendingOpen{},
	}
}

// Session returns the user's controller, opening it on first use. The store
// read happens outside the registry lock.
func (r *Registry) Session(ctx context.Context, userID string) (*Controller, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	for {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return nil, ErrSessionClosed
		}
		if s, ok := r.sessions[userID]; ok {
			s.lastUsed = r.now()
			r.mu.Unlock()
			return s.c, nil
		}
		if p, ok := r.opening[userID]; ok {
			r.mu.Unlock()
			select {
			case <-p.done:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			if p.err != nil {
				return nil, p.err
			}
			continue
		}
		p := &pendingOpen{done: make(chan struct{})}
		r.opening[userID] = p
		r.mu.Unlock()

		return r.open(ctx, userID, p)
	}
}

func (r *Registry) open(ctx context.Context, userID string, p *pendingOpen) (*Controller, error) {
	c, err := Open(ctx, userID, r.cfg)

	r.mu.Lock()
	delete(r.opening, userID)
	closed := r.closed
	if err == nil && !closed {
		r.sessions[userID] = &session{c: c, lastUsed: r.now()}
	}
	if err == nil && closed {
		err = ErrSessionClosed
	}
	p.err = err
	close(p.done)
	r.mu.Unlock()

	if err != nil {
		if c != nil {
			_ = c.Close(ctx)
		}
		return nil, err
	}
	return c, nil
}

// Do runs fn against the user's controller. A session ended concurrently by
// sign-out or eviction is reopened once from the store.
func (r *Registry) Do(ctx context.Context, userID string, fn func(c *Controller) error) error {
	for attempt := 0; ; attempt++ {
		c, err := r.Session(ctx, userID)
		if err != nil {
			return err
		}
		err = fn(c)
		if errors.Is(err, ErrSessionClosed) && attempt == 0 {
			r.forget(c)
			continue
		}
		return err
	}
}

// End closes the user's session. In-memory state is discarded; the final
// state is flushed to the store first.
func (r *Registry) End(ctx context.Context, userID string) error {
	r.mu.Lock()
	s, ok := r.sessions[strings.TrimSpace(userID)]
	if ok {
		delete(r.sessions, s.c.UserID())
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return s.c.Close(ctx)
}

// EvictIdle closes sessions unused for at least idle and returns how many
// were closed. Watched sessions stay open, and without a store nothing is
// evicted because the state would be lost.
func (r *Registry) EvictIdle(ctx context.Context, idle time.Duration) int {
	if r.cfg.Store == nil || idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []*Controller
	for id, s := range r.sessions {
		if s.lastUsed.After(cutoff) || s.c.watched() {
			continue
		}
		delete(r.sessions, id)
		stale = append(stale, s.c)
	}
	r.mu.Unlock()

	for _, c := range stale {
		if err := c.Close(ctx); err != nil {
			hlog.CtxWarnf(ctx, "adventure: evict idle session user=%s: %v", c.UserID(), err)
		}
	}
	return len(stale)
}

// StartEviction runs EvictIdle every interval until the returned stop
// function is called.
func (r *Registry) StartEviction(interval, idle time.Duration) (stop func()) {
	if interval <= 0 || idle <= 0 {
		return func() {}
	}
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), r.saveTimeout())
				if n := r.EvictIdle(ctx, idle); n > 0 {
					hlog.Debugf("adventure: evicted %d idle sessions", n)
				}
				cancel()
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(quit)
			<-done
		})
	}
}

func (r *Registry) forget(c *Controller) {
	r.mu.Lock()
	if s, ok := r.sessions[c.UserID()]; ok && s.c == c {
		delete(r.sessions, c.UserID())
	}
	r.mu.Unlock()
}

// Close flushes and closes every session. Later Session calls fail with
// ErrSessionClosed.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	sessions := r.sessions
	r.sessions = map[string]*session{}
	r.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.c.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) now() time.Time {
	if r.cfg.Now != nil {
		return r.cfg.Now()
	}
	return time.Now()
}

func (r *Registry) saveTimeout() time.Duration {
	if r.cfg.SaveTimeout > 0 {
		return r.cfg.SaveTimeout
	}
	return DefaultSaveTimeout
}
