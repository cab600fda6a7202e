package results

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/vrdeval/vrd-eval/internal/pkg/errors"

	"github.com/vrdeval/vrd-eval/internal/evaluation"
)

func testSubmission(id string, createdAt time.Time) *Submission {
	return &Submission{
		ID:        id,
		Hash:      "deadbeefdeadbeef",
		Split:     "test",
		Task:      TaskRelation,
		CreatedAt: createdAt,
		Result: &evaluation.Result{
			MeanAP: 0.5,
			Count:  1,
		},
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sub := testSubmission("sub-1", time.Now())
	if err := store.Save(ctx, sub); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "sub-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != "sub-1" {
		t.Errorf("Get() ID = %q, want %q", got.ID, "sub-1")
	}
	if got.Result == nil || got.Result.MeanAP != 0.5 {
		t.Errorf("Get() result = %+v, want MeanAP 0.5", got.Result)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "unknown")
	if !apperrors.IsNotFound(err) {
		t.Errorf("Get(unknown) error = %v, want not found", err)
	}
}

func TestMemoryStore_SaveValidation(t *testing.T) {
	store := NewMemoryStore()

	if err := store.Save(context.Background(), &Submission{}); err == nil {
		t.Error("Save() with empty ID should fail")
	}
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		sub := testSubmission(id, base.Add(time.Duration(i)*time.Hour))
		if err := store.Save(ctx, sub); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}

	subs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("List() returned %d submissions, want 3", len(subs))
	}

	wantOrder := []string{"new", "mid", "old"}
	for i, want := range wantOrder {
		if subs[i].ID != want {
			t.Errorf("List()[%d] = %q, want %q", i, subs[i].ID, want)
		}
	}
}

func TestMemoryStore_SaveOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := testSubmission("sub-1", time.Now())
	second := testSubmission("sub-1", time.Now())
	second.Result.MeanAP = 0.9

	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "sub-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Result.MeanAP != 0.9 {
		t.Errorf("Get() MeanAP = %v, want 0.9", got.Result.MeanAP)
	}
}
