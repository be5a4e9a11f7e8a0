package shop

import (
	"context"
	"testing"

	"github.com/rushteam/shopkit/store"
)

func TestSegmentsGetOrCreate(t *testing.T) {
	mem := store.NewMemoryStore()
	defer mem.Close()
	a := NewStoreSegments(mem, "segments")
	ctx := context.Background()

	seg, created, err := a.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if !created {
		t.Error("first call should create the record")
	}
	if seg.UserID != "u1" || seg.Cluster != -1 {
		t.Errorf("new segment = %+v, want user u1 with unassigned cluster -1", seg)
	}

	seg.Cluster = 2
	seg.Label = "Target Customer (High Income, High Spend)"
	if err := a.Save(ctx, seg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, created, err := a.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if created {
		t.Error("second call must reuse the existing record")
	}
	if got.Cluster != 2 || got.Label != seg.Label {
		t.Errorf("got %+v, want persisted cluster/label", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("Save must stamp UpdatedAt")
	}
}
