package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"questforge/internal/app/ports"
	"questforge/internal/domain/adventure"
)

const (
	DefaultTickInterval = time.Second
	DefaultSaveTimeout  = 5 * time.Second

	maxPendingEvents = 256
)

var (
	ErrInvalidUserID = errors.New("invalid user id")
	ErrSessionClosed = errors.New("adventure session closed")
)

type Config struct {
	// Store is optional; without it progress lives in memory only.
	Store        ports.AdventureStateRepository
	Events       ports.EventRepository
	Metrics      ports.LifecycleMetrics
	Now          func() time.Time
	TickInterval time.Duration
	SaveTimeout  time.Duration
}

// Controller is the single writer of one user's adventure state. It owns the
// run timer and pushes saves to a background persister.
type Controller struct {
	userID string
	cfg    Config

	mu           sync.Mutex
	state        adventure.State
	seq          uint64
	closed       bool
	dirty        bool
	version      uint64
	savedVersion uint64
	pending      []adventure.Event
	timer        *runTimer
	timerGen     uint64
	observers    map[int]Observer
	nextObserver int

	timers sync.WaitGroup

	notifyMu  sync.Mutex
	published uint64

	collectMu sync.Mutex
	saveMu    sync.Mutex

	saveSignal  chan struct{}
	stopPersist context.CancelFunc
	persistDone chan struct{}
}

// Open loads the user's persisted progress, reconciles it against the wall
// clock and resumes the run timer if an adventure is still in flight. A
// missing or unreachable record starts from defaults.
func Open(ctx context.Context, userID string, cfg Config) (*Controller, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = DefaultSaveTimeout
	}

	c := &Controller{
		userID:     userID,
		cfg:        cfg,
		state:      adventure.DefaultState(),
		observers:  map[int]Observer{},
		saveSignal: make(chan struct{}, 1),
	}

	now := cfg.Now()
	loaded, found, loadErr := c.load(ctx)
	if found {
		c.state = adventure.Reconcile(loaded, now)
		if loaded.IsRunning && !c.state.IsRunning && c.state.PendingReward > 0 {
			c.recordCompletionLocked(now)
		}
	}
	c.mu.Lock()
	c.dirty = loadErr != nil
	if c.state.IsRunning {
		c.startTimerLocked()
	}
	c.mu.Unlock()

	if c.persistent() {
		persistCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		c.stopPersist = cancel
		c.persistDone = make(chan struct{})
		go c.persistLoop(persistCtx)
		// Never overwrite a record we failed to read.
		if loadErr == nil && (!found || !reflect.DeepEqual(loaded, c.state)) {
			c.mu.Lock()
			c.signalSave()
			c.mu.Unlock()
		}
	}
	return c, nil
}

func (c *Controller) UserID() string {
	return c.userID
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(c.cfg.Now())
}

// AddEnergy credits quest energy. It is accepted in every phase, including
// while an adventure is running.
func (c *Controller) AddEnergy(amount int) (Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, ErrSessionClosed
	}
	now := c.cfg.Now()
	before := c.state.Energy
	ready := c.state.AddEnergy(amount)
	if gained := c.state.Energy - before; gained > 0 {
		c.enqueueLocked(adventure.EventEnergyAdded, now, map[string]any{
			"amount":          gained,
			"energy":          c.state.Energy,
			"energy_capacity": c.state.EnergyCapacity,
			"ready":           ready,
		})
		c.signalSave()
	}
	snap := c.snapshotLocked(now)
	c.mu.Unlock()

	c.publish(snap)
	return snap, nil
}

func (c *Controller) StartAdventure() (Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, ErrSessionClosed
	}
	now := c.cfg.Now()
	if err := c.state.Start(now); err != nil {
		c.mu.Unlock()
		c.recordRejected(err)
		return Snapshot{}, err
	}
	c.enqueueLocked(adventure.EventAdventureStarted, now, map[string]any{
		"adventure_ordinal":    c.state.AdventureOrdinal,
		"energy_capacity":      c.state.EnergyCapacity,
		"run_ends_at_epoch_ms": *c.state.RunEndsAtEpochMs,
	})
	c.startTimerLocked()
	c.signalSave()
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.RecordStarted()
	}
	snap := c.snapshotLocked(now)
	c.mu.Unlock()

	c.publish(snap)
	return snap, nil
}

// Tick observes now. The owned timer calls it once per TickInterval while a
// run is in flight; external schedulers may call it as well.
func (c *Controller) Tick(now time.Time) Snapshot {
	c.mu.Lock()
	if c.closed || !c.state.IsRunning {
		snap := c.snapshotLocked(now)
		c.mu.Unlock()
		return snap
	}
	snap := c.tickLocked(now)
	c.mu.Unlock()

	c.publish(snap)
	return snap
}

// CollectReward hands the pending reward to credit and clears it only once
// credit succeeds, so a failed ledger write keeps the reward collectable.
func (c *Controller) CollectReward(ctx context.Context, credit func(ctx context.Context, amount int) error) (int, Snapshot, error) {
	c.collectMu.Lock()
	defer c.collectMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, Snapshot{}, ErrSessionClosed
	}
	amount := c.state.PendingReward
	if amount <= 0 {
		_, err := c.state.Collect()
		c.mu.Unlock()
		c.recordRejected(err)
		return 0, Snapshot{}, err
	}
	c.mu.Unlock()

	if credit != nil {
		if err := credit(ctx, amount); err != nil {
			return 0, Snapshot{}, fmt.Errorf("credit reward: %w", err)
		}
	}

	c.mu.Lock()
	now := c.cfg.Now()
	// A reset between credit and here already cleared the reward.
	if c.state.PendingReward == amount {
		_, _ = c.state.Collect()
	}
	c.enqueueLocked(adventure.EventRewardCollected, now, map[string]any{
		"amount":            amount,
		"adventure_ordinal": c.state.AdventureOrdinal,
	})
	c.signalSave()
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.RecordCollected(amount)
	}
	snap := c.snapshotLocked(now)
	c.mu.Unlock()

	c.publish(snap)
	return amount, snap, nil
}

func (c *Controller) Reset() (Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, ErrSessionClosed
	}
	now := c.cfg.Now()
	c.stopTimerLocked()
	c.state.Reset()
	c.enqueueLocked(adventure.EventAdventureReset, now, nil)
	c.signalSave()
	snap := c.snapshotLocked(now)
	c.mu.Unlock()

	c.publish(snap)
	return snap, nil
}

// Subscribe registers o for every future snapshot and returns a function
// that removes it.
func (c *Controller) Subscribe(o Observer) func() {
	c.mu.Lock()
	id := c.nextObserver
	c.nextObserver++
	c.observers[id] = o
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *Controller) watched() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.observers) > 0
}

// Flush saves the current state synchronously.
func (c *Controller) Flush(ctx context.Context) error {
	if !c.persistent() {
		return nil
	}
	return c.persist(ctx)
}

// Close stops the run timer and the persister, then writes the final state.
// An in-flight CollectReward finishes first so its cleared reward is part of
// that state. The controller rejects mutations afterwards.
func (c *Controller) Close(ctx context.Context) error {
	c.collectMu.Lock()
	defer c.collectMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.stopTimerLocked()
	c.observers = map[int]Observer{}
	c.mu.Unlock()

	c.timers.Wait()
	if !c.persistent() {
		return nil
	}
	c.stopPersist()
	<-c.persistDone

	c.mu.Lock()
	unsaved := c.version != c.savedVersion || len(c.pending) > 0
	c.mu.Unlock()
	if !unsaved {
		return nil
	}
	return c.persist(ctx)
}

func (c *Controller) tickLocked(now time.Time) Snapshot {
	completed, _ := c.state.Tick(now)
	if completed {
		c.stopTimerLocked()
		c.recordCompletionLocked(now)
		c.signalSave()
	}
	return c.snapshotLocked(now)
}

func (c *Controller) onTimer(gen uint64) {
	c.mu.Lock()
	if c.closed || c.timer == nil || gen != c.timerGen {
		c.mu.Unlock()
		return
	}
	snap := c.tickLocked(c.cfg.Now())
	c.mu.Unlock()

	c.publish(snap)
}

func (c *Controller) startTimerLocked() {
	if c.timer != nil {
		return
	}
	c.timerGen++
	gen := c.timerGen
	c.timer = startRunTimer(&c.timers, c.cfg.TickInterval, func() { c.onTimer(gen) })
}

func (c *Controller) stopTimerLocked() {
	if c.timer == nil {
		return
	}
	c.timer.stop()
	c.timer = nil
	c.timerGen++
}

func (c *Controller) recordCompletionLocked(now time.Time) {
	c.enqueueLocked(adventure.EventAdventureCompleted, now, map[string]any{
		"reward":            c.state.PendingReward,
		"adventure_ordinal": c.state.AdventureOrdinal,
	})
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.RecordCompleted(c.state.PendingReward)
	}
}

func (c *Controller) recordRejected(err error) {
	if c.cfg.Metrics == nil {
		return
	}
	var te *adventure.TransitionError
	if errors.As(err, &te) {
		c.cfg.Metrics.RecordRejected(te.Reason)
	}
}

func (c *Controller) enqueueLocked(t adventure.EventType, at time.Time, payload map[string]any) {
	if c.cfg.Events == nil {
		return
	}
	if payload == nil {
		payload = map[string]any{}
	}
	c.pending = append(c.pending, adventure.Event{Type: t, OccurredAt: at, Payload: payload})
	if over := len(c.pending) - maxPendingEvents; over > 0 {
		c.pending = append(c.pending[:0], c.pending[over:]...)
	}
}

func (c *Controller) snapshotLocked(now time.Time) Snapshot {
	c.seq++
	return Snapshot{
		UserID:            c.userID,
		Seq:               c.seq,
		State:             c.state.Clone(),
		Phase:             c.state.Phase(),
		ReadyForAdventure: c.state.ReadyForAdventure(),
		Remaining:         c.state.Remaining(now),
		ProgressPercent:   c.state.Progress(now),
		SyncPending:       c.dirty,
		ObservedAt:        now,
	}
}

func (c *Controller) publish(snap Snapshot) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if snap.Seq <= c.published {
		return
	}
	c.published = snap.Seq

	c.mu.Lock()
	observers := make([]Observer, 0, len(c.observers))
	for _, o := range c.observers {
		observers = append(observers, o)
	}
	c.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
}
