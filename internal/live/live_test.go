package live

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestBusPublishSignalsMatchingTopics(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tasks := bus.Watch(ctx, Tasks)
	cats := bus.Watch(ctx, Categories)

	bus.Publish(Tasks)
	receive(t, tasks)

	select {
	case <-cats:
		t.Fatalf("categories watcher signalled for a tasks change")
	default:
	}
}

func TestBusCoalescesPendingSignals(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := bus.Watch(ctx, Tasks)
	bus.Publish(Tasks)
	bus.Publish(Tasks)
	bus.Publish(Tasks, Categories)

	receive(t, ch)
	select {
	case <-ch:
		t.Fatalf("expected a single merged signal")
	default:
	}
}

func TestBusWatchClosedOnCancel(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	ch := bus.Watch(ctx, Preferences)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watch channel not closed after cancel")
	}
	if n := bus.Watchers(); n != 0 {
		t.Fatalf("expected no watchers, got %d", n)
	}
}

func TestObserveEmitsInitialThenEveryChange(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var version atomic.Int64
	load := func(context.Context) (int64, error) { return version.Load(), nil }

	ch, err := Observe(ctx, bus, load, Tasks)
	if err != nil {
		t.Fatalf("observe: %v", err)
	}
	if got := receive(t, ch); got != 0 {
		t.Fatalf("initial snapshot: got %d", got)
	}

	version.Store(1)
	bus.Publish(Tasks)
	if got := receive(t, ch); got != 1 {
		t.Fatalf("after first change: got %d", got)
	}

	version.Store(2)
	bus.Publish(Tasks)
	if got := receive(t, ch); got != 2 {
		t.Fatalf("after second change: got %d", got)
	}
}

func TestObserveReturnsInitialLoadError(t *testing.T) {
	bus := NewBus()
	boom := errors.New("storage unavailable")
	_, err := Observe(context.Background(), bus, func(context.Context) (int, error) { return 0, boom }, Tasks)
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for bus.Watchers() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("watcher leaked after failed observe")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestObserveClosesOnCancel(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := Observe(ctx, bus, func(context.Context) (string, error) { return "x", nil }, Categories)
	if err != nil {
		t.Fatalf("observe: %v", err)
	}
	receive(t, ch)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("unexpected snapshot after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("observe channel not closed after cancel")
	}
}
