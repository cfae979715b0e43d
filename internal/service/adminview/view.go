package adminview

import (
	"BandDesk/entity"
	"BandDesk/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrAlreadyOpen reports a second Open on a live view.
	ErrAlreadyOpen = errors.New("admin view already open")
	// ErrNotPending reports a selection of a record outside the pending set.
	ErrNotPending = errors.New("agreement is not pending")
)

// Subscription is a standing feed of full agreement snapshots.
type Subscription interface {
	Snapshots() <-chan []entity.Agreement
	Err() error
	Close()
}

// Watcher opens a subscription over the agreement collection.
type Watcher interface {
	WatchAgreements(ctx context.Context) (Subscription, error)
}

// WatchFunc adapts a plain function to the Watcher interface.
type WatchFunc func(ctx context.Context) (Subscription, error)

func (f WatchFunc) WatchAgreements(ctx context.Context) (Subscription, error) {
	return f(ctx)
}

// Broadcaster pushes a freshly partitioned snapshot to connected clients.
type Broadcaster interface {
	BroadcastSnapshot(pending, completed []entity.Agreement)
}

// View is the administrator's live picture of the agreement collection. It
// holds exactly one subscription for its lifetime and re-partitions every
// delivered snapshot wholesale into pending and completed: there is no
// incremental patching and no separate persisted pending index.
type View struct {
	watcher     Watcher
	broadcaster Broadcaster
	log         *slog.Logger

	mu        sync.RWMutex
	pending   []entity.Agreement
	completed []entity.Agreement
	selected  string

	sub  Subscription
	done chan struct{}
}

func NewView(watcher Watcher, logger *slog.Logger) *View {
	return &View{
		watcher: watcher,
		log:     logger.With(sl.Module("admin-view")),
	}
}

func (v *View) SetBroadcaster(broadcaster Broadcaster) {
	v.broadcaster = broadcaster
}

// Open starts the view's single subscription. It returns once the
// subscription is registered; snapshots are consumed in the background until
// Close is called or the feed ends.
func (v *View) Open(ctx context.Context) error {
	v.mu.Lock()
	if v.sub != nil {
		v.mu.Unlock()
		return ErrAlreadyOpen
	}

	sub, err := v.watcher.WatchAgreements(ctx)
	if err != nil {
		v.mu.Unlock()
		return fmt.Errorf("opening agreement subscription: %w", err)
	}
	v.sub = sub
	v.done = make(chan struct{})
	v.mu.Unlock()

	go v.consume(sub)

	return nil
}

func (v *View) consume(sub Subscription) {
	defer close(v.done)

	for snapshot := range sub.Snapshots() {
		v.apply(snapshot)
	}

	if err := sub.Err(); err != nil {
		v.log.Error("agreement subscription ended", sl.Err(err))
	}
}

// apply replaces the view's state with one delivered snapshot. Each delivery
// is authoritative: the previous partitions are discarded entirely, so the
// view never mixes old and new fields within one record.
func (v *View) apply(snapshot []entity.Agreement) {
	var pending, completed []entity.Agreement
	for _, agreement := range snapshot {
		if agreement.IsPending() {
			pending = append(pending, agreement)
		} else {
			completed = append(completed, agreement)
		}
	}

	v.mu.Lock()
	v.pending = pending
	v.completed = completed
	if v.selected != "" && !hasID(pending, v.selected) {
		// The selected record was assigned elsewhere or vanished; the
		// selection no longer points into the pending set.
		v.selected = ""
	}
	broadcaster := v.broadcaster
	v.mu.Unlock()

	v.log.Debug("snapshot applied",
		slog.Int("pending", len(pending)),
		slog.Int("completed", len(completed)),
	)

	if broadcaster != nil {
		broadcaster.BroadcastSnapshot(pending, completed)
	}
}

func hasID(agreements []entity.Agreement, id string) bool {
	for _, a := range agreements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Pending returns the records still awaiting assignment, from the last
// delivered snapshot.
func (v *View) Pending() []entity.Agreement {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]entity.Agreement(nil), v.pending...)
}

// Completed returns the assigned records from the last delivered snapshot.
func (v *View) Completed() []entity.Agreement {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]entity.Agreement(nil), v.completed...)
}

// Select marks one pending record as the assignment target. The selection is
// purely local: nothing is locked or reserved in the store, and another
// administrator session can still assign the same record first.
func (v *View) Select(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !hasID(v.pending, id) {
		return ErrNotPending
	}
	v.selected = id
	return nil
}

// Selection returns the currently selected pending record, if any.
func (v *View) Selection() (*entity.Agreement, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.selected == "" {
		return nil, false
	}
	for _, a := range v.pending {
		if a.ID == v.selected {
			copied := a
			return &copied, true
		}
	}
	return nil, false
}

// ClearSelection drops the local selection.
func (v *View) ClearSelection() {
	v.mu.Lock()
	v.selected = ""
	v.mu.Unlock()
}

// Close releases the subscription. No further partition updates are applied
// after Close returns, even while the underlying collection keeps changing.
func (v *View) Close() {
	v.mu.Lock()
	sub := v.sub
	done := v.done
	v.sub = nil
	v.mu.Unlock()

	if sub == nil {
		return
	}
	sub.Close()
	<-done
}
