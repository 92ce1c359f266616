package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, _, err := store.GetOrLoad(context.Background(), "sheet:0", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ReportsHitAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (int, error) {
		calls.Add(1)
		return 42, nil
	}

	if _, hit, err := store.GetOrLoad(context.Background(), "k", loader); err != nil || hit {
		t.Fatalf("first GetOrLoad: hit=%v err=%v", hit, err)
	}
	v, hit, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || !hit || v != 42 {
		t.Fatalf("second GetOrLoad: v=%d hit=%v err=%v", v, hit, err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	boom := errors.New("boom")

	if _, _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (string, error) {
		return "", boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("failed load must not be cached")
	}
}

func TestStore_GetOrLoad_CancelledCallerDoesNotFailWaiters(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	loader := func(ctx context.Context) (string, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "value", nil
	}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := store.GetOrLoad(firstCtx, "sheet:0", loader)
		firstErr <- err
	}()
	<-started

	type result struct {
		value string
		err   error
	}
	second := make(chan result, 1)
	go func() {
		v, _, err := store.GetOrLoad(context.Background(), "sheet:0", loader)
		second <- result{value: v, err: err}
	}()

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled caller to stop waiting, got %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	close(release)

	got := <-second
	if got.err != nil || got.value != "value" {
		t.Fatalf("waiter: value=%q err=%v", got.value, got.err)
	}
	if v, ok := store.Get(context.Background(), "sheet:0"); !ok || v != "value" {
		t.Fatalf("shared load must still be cached, got %q %v", v, ok)
	}
}

func TestStore_ExpiresAndDeletesPrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	store.Set(ctx, "abc:0", "a")
	store.Set(ctx, "abc:1", "b")
	store.Set(ctx, "xyz:0", "c")

	if removed := store.DeletePrefix(ctx, "abc:"); removed != 2 {
		t.Fatalf("DeletePrefix removed %d, want 2", removed)
	}
	if _, ok := store.Get(ctx, "abc:0"); ok {
		t.Fatalf("abc:0 should be gone")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(ctx, "xyz:0"); ok {
		t.Fatalf("xyz:0 should have expired")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
