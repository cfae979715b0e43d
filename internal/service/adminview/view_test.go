package adminview

import (
	"BandDesk/entity"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type fakeSubscription struct {
	ch   chan []entity.Agreement
	once sync.Once

	mu     sync.Mutex
	closed bool
	err    error
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{ch: make(chan []entity.Agreement, 1)}
}

func (f *fakeSubscription) Snapshots() <-chan []entity.Agreement {
	return f.ch
}

func (f *fakeSubscription) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeSubscription) Close() {
	f.once.Do(func() {
		f.mu.Lock()
		f.closed = true
		f.mu.Unlock()
		close(f.ch)
	})
}

func (f *fakeSubscription) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeBroadcaster struct {
	mu        sync.Mutex
	pending   []entity.Agreement
	completed []entity.Agreement
	calls     int
}

func (f *fakeBroadcaster) BroadcastSnapshot(pending, completed []entity.Agreement) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = pending
	f.completed = completed
	f.calls++
}

func (f *fakeBroadcaster) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func pendingAgreement(id string) entity.Agreement {
	return entity.Agreement{ID: id, StudentName: "Student " + id}
}

func completedAgreement(id, instrument string) entity.Agreement {
	a := pendingAgreement(id)
	a.Instrument = &instrument
	brand := "Brand " + id
	a.Brand = &brand
	return a
}

func openView(t *testing.T, sub *fakeSubscription) *View {
	t.Helper()
	view := NewView(WatchFunc(func(context.Context) (Subscription, error) {
		return sub, nil
	}), discardLogger())
	if err := view.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return view
}

func TestViewPartitionsSnapshots(t *testing.T) {
	sub := newFakeSubscription()
	view := openView(t, sub)
	defer view.Close()

	sub.ch <- []entity.Agreement{
		pendingAgreement("a1"),
		completedAgreement("a2", "Flute"),
		pendingAgreement("a3"),
	}

	waitFor(t, func() bool { return len(view.Pending()) == 2 })

	completed := view.Completed()
	if len(completed) != 1 || completed[0].ID != "a2" {
		t.Errorf("completed = %v, want exactly a2", completed)
	}
}

func TestViewReplacesStateWholesale(t *testing.T) {
	sub := newFakeSubscription()
	view := openView(t, sub)
	defer view.Close()

	sub.ch <- []entity.Agreement{pendingAgreement("a1")}
	waitFor(t, func() bool { return len(view.Pending()) == 1 })

	// The record was assigned: the next snapshot is the full new truth.
	sub.ch <- []entity.Agreement{completedAgreement("a1", "Clarinet")}
	waitFor(t, func() bool { return len(view.Completed()) == 1 })

	if len(view.Pending()) != 0 {
		t.Error("assigned record must never remain in the pending partition")
	}
}

func TestViewSelection(t *testing.T) {
	sub := newFakeSubscription()
	view := openView(t, sub)
	defer view.Close()

	sub.ch <- []entity.Agreement{pendingAgreement("a1"), pendingAgreement("a2")}
	waitFor(t, func() bool { return len(view.Pending()) == 2 })

	if err := view.Select("missing"); !errors.Is(err, ErrNotPending) {
		t.Errorf("Select(missing) error = %v, want ErrNotPending", err)
	}

	if err := view.Select("a1"); err != nil {
		t.Fatalf("Select(a1) error = %v", err)
	}
	selected, ok := view.Selection()
	if !ok || selected.ID != "a1" {
		t.Fatalf("Selection() = %v, %v; want a1", selected, ok)
	}

	view.ClearSelection()
	if _, ok := view.Selection(); ok {
		t.Error("selection must be empty after ClearSelection")
	}
}

func TestViewSelectionDropsWhenRecordAssigned(t *testing.T) {
	sub := newFakeSubscription()
	view := openView(t, sub)
	defer view.Close()

	sub.ch <- []entity.Agreement{pendingAgreement("a1")}
	waitFor(t, func() bool { return len(view.Pending()) == 1 })

	if err := view.Select("a1"); err != nil {
		t.Fatalf("Select(a1) error = %v", err)
	}

	// Another administrator's assignment lands.
	sub.ch <- []entity.Agreement{completedAgreement("a1", "Trumpet")}
	waitFor(t, func() bool {
		_, ok := view.Selection()
		return !ok
	})
}

func TestViewBroadcastsEverySnapshot(t *testing.T) {
	sub := newFakeSubscription()
	broadcaster := &fakeBroadcaster{}

	view := NewView(WatchFunc(func(context.Context) (Subscription, error) {
		return sub, nil
	}), discardLogger())
	view.SetBroadcaster(broadcaster)
	if err := view.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer view.Close()

	sub.ch <- []entity.Agreement{pendingAgreement("a1")}
	waitFor(t, func() bool { return broadcaster.callCount() == 1 })

	sub.ch <- []entity.Agreement{completedAgreement("a1", "Flute")}
	waitFor(t, func() bool { return broadcaster.callCount() == 2 })

	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	if len(broadcaster.pending) != 0 || len(broadcaster.completed) != 1 {
		t.Errorf("last broadcast = %d pending / %d completed, want 0/1",
			len(broadcaster.pending), len(broadcaster.completed))
	}
}

func TestViewOpenTwiceFails(t *testing.T) {
	sub := newFakeSubscription()
	view := openView(t, sub)
	defer view.Close()

	if err := view.Open(context.Background()); !errors.Is(err, ErrAlreadyOpen) {
		t.Errorf("second Open() error = %v, want ErrAlreadyOpen", err)
	}
}

func TestViewCloseReleasesSubscription(t *testing.T) {
	sub := newFakeSubscription()
	view := openView(t, sub)

	sub.ch <- []entity.Agreement{pendingAgreement("a1")}
	waitFor(t, func() bool { return len(view.Pending()) == 1 })

	view.Close()

	if !sub.isClosed() {
		t.Error("Close must release the subscription")
	}
	// The last applied state stays readable, frozen.
	if len(view.Pending()) != 1 {
		t.Error("closed view must keep its last applied snapshot")
	}
	// Closing again is a no-op.
	view.Close()
}
