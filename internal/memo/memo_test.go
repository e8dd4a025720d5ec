package memo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func counter(calls *int32) func(context.Context) (int, error) {
	return func(context.Context) (int, error) {
		n := atomic.AddInt32(calls, 1)
		return int(n), nil
	}
}

func TestCache_LoadsOnce(t *testing.T) {
	var calls int32
	c := New[int](0)

	for i := 0; i < 3; i++ {
		v, err := c.Get(context.Background(), counter(&calls))
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if v != 1 {
			t.Errorf("Get() = %d, want 1", v)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}
	if c.Loads() != 1 {
		t.Errorf("Loads() = %d, want 1", c.Loads())
	}
}

func TestCache_Invalidate(t *testing.T) {
	var calls int32
	c := New[int](0)

	c.Get(context.Background(), counter(&calls))
	c.Invalidate()
	if _, ok := c.Loaded(); ok {
		t.Error("Loaded() = true after Invalidate()")
	}

	v, _ := c.Get(context.Background(), counter(&calls))
	if v != 2 {
		t.Errorf("Get() after Invalidate() = %d, want 2", v)
	}
}

func TestCache_TTL(t *testing.T) {
	var calls int32
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New[int](time.Minute)
	c.SetClock(func() time.Time { return now })

	c.Get(context.Background(), counter(&calls))

	now = now.Add(59 * time.Second)
	if v, _ := c.Get(context.Background(), counter(&calls)); v != 1 {
		t.Errorf("Get() before expiry = %d, want 1", v)
	}
	at, ok := c.Loaded()
	if !ok || !at.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Loaded() = %v, %v", at, ok)
	}

	now = now.Add(time.Second)
	if _, ok := c.Loaded(); ok {
		t.Error("Loaded() = true after expiry")
	}
	if v, _ := c.Get(context.Background(), counter(&calls)); v != 2 {
		t.Errorf("Get() after expiry = %d, want 2", v)
	}
}

func TestCache_ErrorsNotCached(t *testing.T) {
	c := New[string](0)
	boom := errors.New("boom")

	_, err := c.Get(context.Background(), func(context.Context) (string, error) {
		return "ignored", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Get() error = %v, want boom", err)
	}
	if _, ok := c.Loaded(); ok {
		t.Error("failed load was cached")
	}

	v, err := c.Get(context.Background(), func(context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil || v != "ok" {
		t.Errorf("Get() = %q, %v", v, err)
	}
}

func TestCache_ConcurrentCallersShareOneLoad(t *testing.T) {
	var calls int32
	c := New[int](0)
	release := make(chan struct{})

	load := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Get(context.Background(), load)
		}(i)
	}

	close(release)
	wg.Wait()

	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}
	for i, v := range results {
		if v != 42 {
			t.Errorf("results[%d] = %d, want 42", i, v)
		}
	}
}

func TestCache_WaiterHonoursContext(t *testing.T) {
	c := New[int](0)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := c.Get(context.Background(), func(context.Context) (int, error) {
			close(started)
			<-release
			return 7, nil
		})
		done <- err
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	if _, err := c.Get(ctx, counter(new(int32))); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("waiting Get() error = %v, want DeadlineExceeded", err)
	}
	if waited := time.Since(start); waited > time.Second {
		t.Errorf("waiting Get() returned after %v", waited)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Get() error = %v", err)
	}
	v, err := c.Get(context.Background(), counter(new(int32)))
	if err != nil || v != 7 {
		t.Errorf("Get() after load = %d, %v; want cached 7", v, err)
	}
}
