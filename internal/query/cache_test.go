package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/flowday/flowday/internal/storage"
)

type memStore struct {
	mu      sync.Mutex
	entries map[string]storage.CacheEntry
}

func newMemStore() *memStore {
	return &memStore{entries: map[string]storage.CacheEntry{}}
}

func (m *memStore) GetCacheEntry(key string) (storage.CacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return storage.CacheEntry{}, storage.ErrNotFound
	}
	return e, nil
}

func (m *memStore) PutCacheEntry(e storage.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Key] = e
	return nil
}

func (m *memStore) InvalidateTag(tag string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, e := range m.entries {
		if e.Tag == tag {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *memStore) PurgeCache() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.entries))
	m.entries = map[string]storage.CacheEntry{}
	return n, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func countingFetch(calls *int32, value []string) func(context.Context) ([]string, error) {
	return func(context.Context) ([]string, error) {
		atomic.AddInt32(calls, 1)
		return value, nil
	}
}

func TestFetchCachesUntilExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)}
	cache := New(newMemStore(), time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	var calls int32
	fetch := countingFetch(&calls, []string{"rice", "beans"})

	for i := 0; i < 3; i++ {
		got, err := Get(ctx, cache, "food-items", "food-items", fetch)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 2 || got[0] != "rice" {
			t.Errorf("got %v", got)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}

	clock.Advance(time.Minute)
	if _, err := Get(ctx, cache, "food-items", "food-items", fetch); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("fetch called %d times after expiry, want 2", calls)
	}
}

func TestFetchCollapsesConcurrentCalls(t *testing.T) {
	cache := New(nil, 0)
	release := make(chan struct{})
	var calls int32

	fetch := func(context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []string{"meal"}, nil
	}

	const callers = 8
	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer done.Done()
			started.Done()
			_, err := Get(context.Background(), cache, "meals", "meals", fetch)
			errs <- err
		}()
	}
	started.Wait()
	time.Sleep(20 * time.Millisecond)
	close(release)
	done.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Get failed: %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("fetch called %d times, want 1", got)
	}
}

func TestFetchErrorIsNotCached(t *testing.T) {
	cache := New(newMemStore(), time.Minute)
	boom := errors.New("boom")
	var calls int32

	fetch := func(context.Context) ([]string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, boom
		}
		return []string{"ok"}, nil
	}

	if _, err := Get(context.Background(), cache, "todos", "todos", fetch); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	got, err := Get(context.Background(), cache, "todos", "todos", fetch)
	if err != nil || len(got) != 1 {
		t.Errorf("second Get = %v, %v", got, err)
	}
}

func TestInvalidateAndPurge(t *testing.T) {
	store := newMemStore()
	cache := New(store, time.Hour)
	ctx := context.Background()
	var calls int32

	for _, key := range []string{"meals", "meals/m1"} {
		if _, err := Get(ctx, cache, key, "meals", countingFetch(&calls, []string{key})); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := Get(ctx, cache, "recipes", "recipes", countingFetch(&calls, nil)); err != nil {
		t.Fatal(err)
	}

	cache.Invalidate("meals")
	if len(store.entries) != 1 {
		t.Errorf("entries after invalidate = %d, want 1", len(store.entries))
	}

	n, err := cache.Purge()
	if err != nil || n != 1 {
		t.Errorf("Purge() = %d, %v", n, err)
	}
}

func TestWithoutPersistence(t *testing.T) {
	store := newMemStore()
	cache := New(store, time.Hour, WithoutPersistence())
	var calls int32

	for i := 0; i < 2; i++ {
		if _, err := Get(context.Background(), cache, "k", "t", countingFetch(&calls, []string{"v"})); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 2 {
		t.Errorf("fetch called %d times, want 2", calls)
	}
	if len(store.entries) != 0 {
		t.Error("store was written")
	}
}

func TestFetchHonoursCancelledContext(t *testing.T) {
	cache := New(nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	block := make(chan struct{})
	defer close(block)
	_, err := Get(ctx, cache, "slow", "t", func(context.Context) (string, error) {
		<-block
		return "", fmt.Errorf("unreachable")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFetchSurvivesFirstCallerCancel(t *testing.T) {
	cache := New(newMemStore(), time.Minute)
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return "fresh", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := Get(ctx, cache, "meals", "meals", fetch)
		firstErr <- err
	}()
	<-started
	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller err = %v, want context.Canceled", err)
	}

	// The fetch is still blocked on release, so this call joins it.
	type result struct {
		v   string
		err error
	}
	second := make(chan result, 1)
	go func() {
		v, err := Get(context.Background(), cache, "meals", "meals", fetch)
		second <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)

	got := <-second
	if got.err != nil || got.v != "fresh" {
		t.Fatalf("second caller = (%q, %v), want (\"fresh\", nil)", got.v, got.err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("fetch ran %d times, want 1", n)
	}
}
