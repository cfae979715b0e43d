package repository

import (
	"BandDesk/entity"
	"context"
	"errors"
	"testing"
)

func TestAgreementStreamConflatesToLatest(t *testing.T) {
	stream := &AgreementStream{
		snapshots: make(chan []entity.Agreement, 1),
		cancel:    func() {},
	}

	stream.deliver([]entity.Agreement{{ID: "stale"}})
	stream.deliver([]entity.Agreement{{ID: "older"}, {ID: "latest"}})

	snapshot := <-stream.Snapshots()
	if len(snapshot) != 2 || snapshot[1].ID != "latest" {
		t.Errorf("delivered %v, want the latest full snapshot", snapshot)
	}

	select {
	case extra := <-stream.Snapshots():
		t.Errorf("unexpected second delivery %v: stale snapshots must be dropped", extra)
	default:
	}
}

func TestAgreementStreamClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stream := &AgreementStream{
		snapshots: make(chan []entity.Agreement, 1),
		cancel:    cancel,
	}

	stream.Close()
	if ctx.Err() == nil {
		t.Error("Close must cancel the subscription context")
	}
	// Safe to call again.
	stream.Close()
}

func TestAgreementStreamErr(t *testing.T) {
	stream := &AgreementStream{
		snapshots: make(chan []entity.Agreement, 1),
		cancel:    func() {},
	}

	if stream.Err() != nil {
		t.Error("fresh stream must carry no error")
	}

	wantErr := errors.New("mongodb change stream error: cursor killed")
	stream.fail(wantErr)
	if !errors.Is(stream.Err(), wantErr) {
		t.Errorf("Err() = %v, want %v", stream.Err(), wantErr)
	}
}
