package pebblestore

import (
	"context"
	"math"
	"testing"
)

func TestScoreEncodingOrder(t *testing.T) {
	scores := []float64{math.Inf(-1), -12.5, -1, 0, 0.25, 1, 1325376000, math.Inf(1)}
	for i := 1; i < len(scores); i++ {
		if !(encodeScore(scores[i-1]) < encodeScore(scores[i])) {
			t.Fatalf("encoding does not preserve order at %v < %v", scores[i-1], scores[i])
		}
	}
	for _, s := range scores {
		if got := decodeScore(encodeScore(s)); got != s {
			t.Fatalf("round trip %v -> %v", s, got)
		}
	}
}

func TestZRevRangeByScore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	for i, m := range []string{"1", "2", "3", "4"} {
		if err := db.ZAdd(ctx, "s", m, float64(i+1)); err != nil {
			t.Fatalf("zadd: %v", err)
		}
	}

	members, err := db.ZRevRangeByScore(ctx, "s", math.Inf(1), 0, 0, 0)
	if err != nil {
		t.Fatalf("zrange: %v", err)
	}
	if len(members) != 4 || members[0] != "4" || members[3] != "1" {
		t.Fatalf("want descending 4..1, got %v", members)
	}

	// inclusive bounds
	members, _ = db.ZRevRangeByScore(ctx, "s", 3, 2, 0, 0)
	if len(members) != 2 || members[0] != "3" || members[1] != "2" {
		t.Fatalf("want [3 2], got %v", members)
	}

	// offset and count
	members, _ = db.ZRevRangeByScore(ctx, "s", math.Inf(1), 0, 1, 2)
	if len(members) != 2 || members[0] != "3" || members[1] != "2" {
		t.Fatalf("want [3 2] with offset 1 count 2, got %v", members)
	}
}

func TestZAddReplacesScore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_ = db.ZAdd(ctx, "s", "m", 1)
	_ = db.ZAdd(ctx, "s", "m", 9)

	members, _ := db.ZRevRangeByScore(ctx, "s", 10, 5, 0, 0)
	if len(members) != 1 || members[0] != "m" {
		t.Fatalf("member should be at new score: %v", members)
	}
	members, _ = db.ZRevRangeByScore(ctx, "s", 4, 0, 0, 0)
	if len(members) != 0 {
		t.Fatalf("old score entry should be gone: %v", members)
	}
}

func TestZRem(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_ = db.ZAdd(ctx, "s", "a", 1)
	_ = db.ZAdd(ctx, "s", "b", 2)
	if err := db.ZRem(ctx, "s", "a", "missing"); err != nil {
		t.Fatalf("zrem: %v", err)
	}
	members, _ := db.ZRevRangeByScore(ctx, "s", 10, 0, 0, 0)
	if len(members) != 1 || members[0] != "b" {
		t.Fatalf("want [b], got %v", members)
	}
}

func TestZRemRangeByScore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		_ = db.ZAdd(ctx, "s", string(rune('a'+i-1)), float64(i))
	}
	if err := db.ZRemRangeByScore(ctx, "s", math.Inf(-1), 3); err != nil {
		t.Fatalf("zremrange: %v", err)
	}
	members, _ := db.ZRevRangeByScore(ctx, "s", math.Inf(1), 0, 0, 0)
	if len(members) != 2 || members[0] != "e" || members[1] != "d" {
		t.Fatalf("want [e d], got %v", members)
	}
}

func TestSetsWithSeparatorNamesDoNotCollide(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_ = db.ZAdd(ctx, "a", "m1", 1)
	_ = db.ZAdd(ctx, "a/s/b", "m2", 1)

	members, _ := db.ZRevRangeByScore(ctx, "a", math.Inf(1), 0, 0, 0)
	if len(members) != 1 || members[0] != "m1" {
		t.Fatalf("set a polluted: %v", members)
	}
	members, _ = db.ZRevRangeByScore(ctx, "a/s/b", math.Inf(1), 0, 0, 0)
	if len(members) != 1 || members[0] != "m2" {
		t.Fatalf("set a/s/b polluted: %v", members)
	}
}
