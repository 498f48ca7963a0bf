// Package live turns one-shot queries into live snapshot streams.
//
// Writers publish a Topic after every committed change. Observers re-run
// their query and receive the full result again; a consumer that falls
// behind only ever sees the newest snapshot.
package live

import (
	"context"
	"log"
	"sync"
)

// Topic names a collection whose contents changed.
type Topic int

const (
	Categories Topic = iota
	Tasks
	Preferences
)

func (t Topic) String() string {
	switch t {
	case Categories:
		return "categories"
	case Tasks:
		return "tasks"
	case Preferences:
		return "preferences"
	default:
		return "unknown"
	}
}

type subscription struct {
	topics map[Topic]struct{}
	ch     chan struct{}
}

func (s *subscription) wants(topics []Topic) bool {
	for _, t := range topics {
		if _, ok := s.topics[t]; ok {
			return true
		}
	}
	return false
}

// Bus fans change signals out to watchers.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]*subscription)}
}

// Watch returns a channel signalled after every Publish on one of topics.
// Signals that arrive while one is pending are merged. The channel is
// closed once ctx is done.
func (b *Bus) Watch(ctx context.Context, topics ...Topic) <-chan struct{} {
	sub := &subscription{
		topics: make(map[Topic]struct{}, len(topics)),
		ch:     make(chan struct{}, 1),
	}
	for _, t := range topics {
		sub.topics[t] = struct{}{}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		close(sub.ch)
		b.mu.Unlock()
	}()

	return sub.ch
}

// Publish notifies every watcher of any of topics.
func (b *Bus) Publish(topics ...Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		if !sub.wants(topics) {
			continue
		}
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

// Watchers returns the number of active watchers.
func (b *Bus) Watchers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Observe runs load once and then again after every change on topics.
// The first snapshot is ready on the returned channel when Observe returns;
// an error from that first load is returned directly. Later load errors are
// logged and the previous snapshot stays current. The channel is closed
// when ctx is done.
func Observe[T any](ctx context.Context, bus *Bus, load func(context.Context) (T, error), topics ...Topic) (<-chan T, error) {
	ctx, cancel := context.WithCancel(ctx)

	// Watch before the first load so a write racing with it is not lost.
	changes := bus.Watch(ctx, topics...)

	current, err := load(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan T, 1)
	out <- current

	go func() {
		defer cancel()
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				next, err := load(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Printf("[warn] live reload %v: %v", topics, err)
					continue
				}
				// Replace a snapshot the consumer has not picked up yet.
				select {
				case <-out:
				default:
				}
				out <- next
			}
		}
	}()

	return out, nil
}
