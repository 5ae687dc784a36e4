package sqliterepo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"hearthfield/internal/app/ports"
	"hearthfield/internal/domain/forage"
)

func openTestDB(t *testing.T) EventRepo {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewEventRepo(db)
}

func TestEventRepo_AppendAndList(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	base := time.Unix(1700000000, 0).UTC()

	err := repo.Append(ctx, "s-1", []forage.DomainEvent{
		{ID: "e1", Type: "action_performed", Tick: 1, OccurredAt: base, Payload: map[string]any{"hunger_after": 99}},
		{ID: "e2", Type: "action_rejected", Tick: 1, OccurredAt: base.Add(time.Second), Payload: map[string]any{"reason": "locked"}},
		{ID: "e3", Type: "crop_matured", Tick: 20, OccurredAt: base.Add(2 * time.Second)},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Append(ctx, "s-2", []forage.DomainEvent{{ID: "x", Type: "tracker_reset", OccurredAt: base}}); err != nil {
		t.Fatalf("append other session: %v", err)
	}

	got, err := repo.ListBySessionID(ctx, "s-1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "e3" || got[1].ID != "e2" {
		t.Fatalf("expected e3,e2, got %+v", got)
	}
	if got[1].Payload["reason"] != "locked" {
		t.Fatalf("payload not decoded: %+v", got[1].Payload)
	}
	if !got[0].OccurredAt.Equal(base.Add(2 * time.Second)) {
		t.Fatalf("occurred_at mismatch: %v", got[0].OccurredAt)
	}

	all, err := repo.ListBySessionID(ctx, "s-1", 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
}

func TestEventRepo_UnknownSessionIsNotFound(t *testing.T) {
	repo := openTestDB(t)
	if _, err := repo.ListBySessionID(context.Background(), "nobody", 5); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
