package taglog

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTailReceivesRecordsInOrder(t *testing.T) {
	l := newTestLogger(t, nil)
	ctx := context.Background()

	tail, err := l.Subscribe(ctx, SubscribeOptions{})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer tail.Unsubscribe()

	if err := l.Log(ctx, "foo", Tag("f")); err != nil {
		t.Fatalf("log: %v", err)
	}
	if err := l.Log(ctx, "bar"); err != nil {
		t.Fatalf("log: %v", err)
	}

	rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rec, err := tail.Next(rctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if rec.String() != "foo" || !rec.HasTag("f") {
		t.Fatalf("first broadcast: %v", rec)
	}
	rec, err = tail.Next(rctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if rec.String() != "bar" {
		t.Fatalf("second broadcast: %v", rec)
	}
}

func TestTailMissesRecordsLoggedBeforeSubscribe(t *testing.T) {
	l := newTestLogger(t, nil)
	ctx := context.Background()

	_ = l.Log(ctx, "too early")

	tail, err := l.Subscribe(ctx, SubscribeOptions{})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer tail.Unsubscribe()

	_ = l.Log(ctx, "on time")

	rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rec, err := tail.Next(rctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if rec.String() != "on time" {
		t.Fatalf("want the post-subscribe record, got %v", rec)
	}
}

func TestTailFilter(t *testing.T) {
	l := newTestLogger(t, nil)
	ctx := context.Background()

	tail, err := l.Subscribe(ctx, SubscribeOptions{Filter: `"wanted" in tags`})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer tail.Unsubscribe()

	_ = l.Log(ctx, "noise")
	_ = l.Log(ctx, "signal", Tag("wanted"))

	rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rec, err := tail.Next(rctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if rec.String() != "signal" {
		t.Fatalf("filter let the wrong record through: %v", rec)
	}
}

func TestTailInvalidFilter(t *testing.T) {
	l := newTestLogger(t, nil)
	if _, err := l.Subscribe(context.Background(), SubscribeOptions{Filter: "not valid ("}); err == nil {
		t.Fatal("invalid filter expression should fail at subscribe time")
	}
}

func TestUnsubscribeUnblocksNext(t *testing.T) {
	l := newTestLogger(t, nil)
	ctx := context.Background()

	tail, err := l.Subscribe(ctx, SubscribeOptions{})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := tail.Next(ctx)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	if err := tail.Unsubscribe(); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("want ErrClosed, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Next did not return after Unsubscribe")
	}
}

func TestNextHonorsContextCancellation(t *testing.T) {
	l := newTestLogger(t, nil)

	tail, err := l.Subscribe(context.Background(), SubscribeOptions{})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer tail.Unsubscribe()

	rctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := tail.Next(rctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
}
