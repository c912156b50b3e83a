// Package syncer keeps a local snapshot of the active party reconciled with
// the remote store. The engine never patches state incrementally: every
// trigger, whether a change notification, a poll tick, a foreground regain or
// an explicit request after a mutation, leads to a full refetch and an atomic
// snapshot replacement.
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/logging"
	"github.com/dmitrijs2005/pods/internal/models"
	"github.com/dmitrijs2005/pods/internal/store"
	"github.com/dmitrijs2005/pods/internal/temporal"
)

// State is the engine's lifecycle phase. Ready re-enters Loading on every
// refresh without dropping the published snapshot.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// ConnStatus mirrors the change-subscription lifecycle. It says nothing
// about whether fetches succeed; polling keeps the snapshot moving even
// while disconnected.
type ConnStatus string

const (
	ConnConnecting   ConnStatus = "connecting"
	ConnConnected    ConnStatus = "connected"
	ConnDisconnected ConnStatus = "disconnected"
)

// Options tune the engine's timers. Zero values pick the defaults.
type Options struct {
	// PollInterval is the foreground-only fallback poll period.
	PollInterval time.Duration
	// RefreshWindow is the scheduler's coalescing window.
	RefreshWindow time.Duration
	// RetryDelay is the pause before the single fetch retry.
	RetryDelay time.Duration
}

const (
	defaultPollInterval = 30 * time.Second
	defaultRetryDelay   = 2 * time.Second
)

func (o *Options) fillDefaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.RefreshWindow <= 0 {
		o.RefreshWindow = DefaultRefreshWindow
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = defaultRetryDelay
	}
}

// Engine owns the snapshot for one party at a time.
type Engine struct {
	gw   store.Gateway
	log  logging.Logger
	opts Options

	// now is the clock used for expiry filtering, in epoch milliseconds.
	now func() int64

	mu         sync.Mutex
	state      State
	conn       ConnStatus
	snapshot   *Snapshot
	partyID    string
	foreground bool
	sub        store.Subscription
	sched      *Scheduler
	cancel     context.CancelFunc
	ctx        context.Context

	// seq numbers refreshes so a slow fetch can never overwrite the
	// result of a newer one; applied is the highest sequence published.
	seq     uint64
	applied uint64

	// refreshMu serializes fetches so at most one is in flight.
	refreshMu sync.Mutex
}

// NewEngine returns a stopped engine over the given gateway.
func NewEngine(gw store.Gateway, log logging.Logger, opts Options) *Engine {
	opts.fillDefaults()
	return &Engine{
		gw:         gw,
		log:        log,
		opts:       opts,
		now:        func() int64 { return time.Now().UnixMilli() },
		state:      StateIdle,
		conn:       ConnDisconnected,
		foreground: true,
	}
}

// Start subscribes to the party's change feed, begins the fallback poll and
// performs the initial refresh. An empty partyID targets the system party.
// A subscription failure degrades to poll-only operation instead of failing
// the start.
func (e *Engine) Start(ctx context.Context, partyID string) {
	if partyID == "" {
		partyID = common.SystemPartyID
	}

	runCtx, cancel := context.WithCancel(ctx)

	e.mu.Lock()
	e.partyID = partyID
	e.state = StateLoading
	e.conn = ConnConnecting
	e.ctx = runCtx
	e.cancel = cancel
	e.sched = NewScheduler(e.opts.RefreshWindow, e.refresh)
	e.mu.Unlock()

	sub, err := e.gw.Subscribe(runCtx, partyID, e.onRemoteChange)
	if err != nil {
		e.log.Warn(runCtx, "change subscription failed, polling only", "party_id", partyID, "error", err)
		e.setConn(ConnDisconnected)
	} else {
		e.mu.Lock()
		e.sub = sub
		e.conn = ConnConnected
		e.mu.Unlock()
		go e.watchSubscription(sub)
	}

	go e.pollLoop(runCtx)

	e.RequestRefresh()
}

// Stop tears the engine down: feed, poll and scheduler stop and the snapshot
// is cleared. The engine can be started again for another party.
func (e *Engine) Stop() {
	e.mu.Lock()
	sub := e.sub
	sched := e.sched
	cancel := e.cancel
	e.sub = nil
	e.sched = nil
	e.cancel = nil
	e.snapshot = nil
	e.state = StateIdle
	e.conn = ConnDisconnected
	e.mu.Unlock()

	if sched != nil {
		sched.Stop()
	}
	if sub != nil {
		sub.Stop()
	}
	if cancel != nil {
		cancel()
	}
}

// RequestRefresh asks for a coalesced refresh. Mutating callers invoke it
// after every write so the snapshot converges without waiting for the feed.
func (e *Engine) RequestRefresh() {
	e.mu.Lock()
	sched := e.sched
	e.mu.Unlock()
	if sched != nil {
		sched.RequestRefresh()
	}
}

// SetForeground records visibility. Regaining the foreground triggers an
// immediate catch-up refresh; the background never polls.
func (e *Engine) SetForeground(fg bool) {
	e.mu.Lock()
	was := e.foreground
	e.foreground = fg
	e.mu.Unlock()

	if fg && !was {
		e.RequestRefresh()
	}
}

// State returns the lifecycle phase.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Conn returns the change-feed status.
func (e *Engine) Conn() ConnStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn
}

// Snapshot returns the last published snapshot, or nil before the first
// successful refresh. Callers must not mutate it.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

func (e *Engine) setConn(c ConnStatus) {
	e.mu.Lock()
	e.conn = c
	e.mu.Unlock()
}

func (e *Engine) onRemoteChange() {
	e.RequestRefresh()
}

func (e *Engine) watchSubscription(sub store.Subscription) {
	<-sub.Done()
	e.mu.Lock()
	// A replaced or stopped engine no longer owns this subscription.
	if e.sub == sub {
		e.conn = ConnDisconnected
		e.sub = nil
	}
	e.mu.Unlock()
}

func (e *Engine) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(e.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.Lock()
			fg := e.foreground
			e.mu.Unlock()
			if fg {
				e.RequestRefresh()
			}
		}
	}
}

// refresh fetches a full snapshot and publishes it. A transient failure is
// retried once after a fixed delay; a second failure keeps the last good
// snapshot and is only logged. Results older than the latest published one
// are discarded.
func (e *Engine) refresh() {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()

	e.mu.Lock()
	if e.cancel == nil {
		e.mu.Unlock()
		return
	}
	e.seq++
	seq := e.seq
	partyID := e.partyID
	ctx := e.ctx
	e.state = StateLoading
	e.mu.Unlock()

	var snap *Snapshot
	backoff := retry.WithMaxRetries(1, retry.NewConstant(e.opts.RetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		s, ferr := e.fetch(ctx, partyID)
		if ferr != nil {
			return retry.RetryableError(ferr)
		}
		snap = s
		return nil
	})

	e.mu.Lock()
	defer e.mu.Unlock()

	// Stopped or retargeted at another party while the fetch was in
	// flight.
	if e.cancel == nil || e.partyID != partyID {
		return
	}

	if err != nil {
		e.log.Warn(ctx, "refresh failed, keeping previous snapshot", "party_id", partyID, "error", err)
		if e.snapshot != nil {
			e.state = StateReady
		} else {
			e.state = StateIdle
		}
		return
	}

	if seq < e.applied {
		e.log.Debug(ctx, "discarding stale refresh", "seq", seq, "applied", e.applied)
		if e.snapshot != nil {
			e.state = StateReady
		}
		return
	}

	e.applied = seq
	e.snapshot = snap
	e.state = StateReady
}

// fetch loads the party and its five visible collections as one unit. A
// deleted party degrades to the system-party view. Expired cards are
// filtered here so no consumer ever sees them.
func (e *Engine) fetch(ctx context.Context, partyID string) (*Snapshot, error) {
	party, err := e.gw.Parties().Get(ctx, partyID)
	if errors.Is(err, common.ErrorNotFound) && partyID != common.SystemPartyID {
		partyID = common.SystemPartyID
		party, err = e.gw.Parties().Get(ctx, partyID)
	}
	if err != nil {
		return nil, err
	}

	folders, err := e.gw.Folders().ListVisible(ctx, partyID)
	if err != nil {
		return nil, err
	}
	cards, err := e.gw.Cards().ListVisible(ctx, partyID)
	if err != nil {
		return nil, err
	}
	follows, err := e.gw.Follows().ListByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	notifications, err := e.gw.Notifications().ListByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	instructions, err := e.gw.Instructions().ListVisible(ctx, partyID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	visible := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		if !temporal.IsExpired(c, party, now) {
			visible = append(visible, c)
		}
	}

	return &Snapshot{
		Party:         party,
		Folders:       folders,
		Cards:         visible,
		Follows:       follows,
		Notifications: notifications,
		Instructions:  instructions,
	}, nil
}
