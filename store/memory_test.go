package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreBasic(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := m.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("got %q, want v1", got)
	}

	if _, err := m.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing key: err = %v, want ErrNotFound", err)
	}

	if err := m.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get(ctx, "k1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted key: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	kvs := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if err := m.BatchSet(ctx, kvs); err != nil {
		t.Fatalf("BatchSet: %v", err)
	}
	got, err := m.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BatchGet: %v", err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("got %v", got)
	}
}

func TestMemoryStoreZSet(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	// 分数降序；同分按成员名升序保证确定性
	for _, e := range []struct {
		score  float64
		member string
	}{{10, "c"}, {30, "a"}, {10, "b"}, {20, "d"}} {
		if err := m.ZAdd(ctx, "rank", e.score, e.member); err != nil {
			t.Fatalf("ZAdd: %v", err)
		}
	}

	got, err := m.ZRange(ctx, "rank", 0, -1)
	if err != nil {
		t.Fatalf("ZRange: %v", err)
	}
	want := []string{"a", "d", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %s, want %s", i, got[i], want[i])
		}
	}

	// ZIncrBy 改变排序
	if err := m.ZIncrBy(ctx, "rank", 25, "c"); err != nil {
		t.Fatalf("ZIncrBy: %v", err)
	}
	got, err = m.ZRange(ctx, "rank", 0, 1)
	if err != nil {
		t.Fatalf("ZRange: %v", err)
	}
	if len(got) != 2 || got[0] != "c" || got[1] != "a" {
		t.Errorf("after incr: got %v, want [c a]", got)
	}
}
