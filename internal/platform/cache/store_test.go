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

	store := NewStore[[]byte](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) ([]byte, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []byte("ma3"), nil
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
			v, _, err := store.GetOrLoad(context.Background(), "events.json", loader)
			if err != nil {
				errCh <- err
				return
			}
			if string(v) != "ma3" {
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

func TestStore_GetOrLoad_UsesCachedValueUntilExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 2, 20, 0, 0, 0, time.UTC)
	store := NewStore[string](time.Minute)
	store.now = func() time.Time { return now }

	var calls atomic.Int32
	loader := func(context.Context) (string, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, hit, err := store.GetOrLoad(context.Background(), "k", loader); err != nil || hit {
		t.Fatalf("first GetOrLoad hit=%v err=%v", hit, err)
	}
	if _, hit, err := store.GetOrLoad(context.Background(), "k", loader); err != nil || !hit {
		t.Fatalf("second GetOrLoad hit=%v err=%v", hit, err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}

	now = now.Add(2 * time.Minute)
	if _, _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("GetOrLoad after expiry: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected reload after expiry, loader called %d times", got)
	}
}

func TestStore_DisabledRetainsNothing(t *testing.T) {
	t.Parallel()

	store := NewStore[string](0)
	var calls atomic.Int32
	loader := func(context.Context) (string, error) {
		calls.Add(1)
		return "v", nil
	}

	for i := 0; i < 2; i++ {
		if _, _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
			t.Fatalf("GetOrLoad: %v", err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected every load to run, loader called %d times", got)
	}
}

func TestStore_FailedLoadIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	boom := errors.New("boom")
	if _, _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected failed load to leave no entry")
	}

	store.Set(context.Background(), "https://match.uefa.com/v5/lineups", "a")
	store.Set(context.Background(), "https://match.uefa.com/v5/events", "b")
	store.Set(context.Background(), "ma1.json", "c")
	store.DeletePrefix(context.Background(), "https://match.uefa.com/")
	if _, ok := store.Get(context.Background(), "https://match.uefa.com/v5/events"); ok {
		t.Fatalf("expected prefix delete to drop remote documents")
	}
	if _, ok := store.Get(context.Background(), "ma1.json"); !ok {
		t.Fatalf("expected local document to remain")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
