// Package feed is a small in-process broadcast of record-set snapshots.
// Writers publish the full current set after every change; subscribers
// receive the latest snapshot and can fall behind without blocking writers
// (a newer snapshot replaces an unconsumed older one). It decouples
// recompute-on-change consumers from any particular data store.
package feed

import "sync"

// Subscription is a disposable handle on a feed. Receive snapshots from C
// and call Cancel when done.
type Subscription[T any] struct {
	C      <-chan []T
	ch     chan []T
	cancel func()
	once   sync.Once
}

// Cancel detaches the subscription and closes C.
func (s *Subscription[T]) Cancel() {
	s.once.Do(s.cancel)
}

// Feed fans snapshots out to any number of subscribers.
type Feed[T any] struct {
	mu   sync.Mutex
	subs map[int]*Subscription[T]
	next int
}

func New[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[int]*Subscription[T])}
}

// Subscribe registers a new subscriber. The returned handle's channel holds
// at most one pending snapshot; publishing replaces an unread one.
func (f *Feed[T]) Subscribe() *Subscription[T] {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++

	ch := make(chan []T, 1)
	sub := &Subscription[T]{C: ch, ch: ch}
	sub.cancel = func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(ch)
		}
	}

	f.subs[id] = sub
	return sub
}

// Publish delivers snapshot to every active subscriber, latest-wins.
func (f *Feed[T]) Publish(snapshot []T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		select {
		case sub.ch <- snapshot:
		default:
			// Drop the stale pending snapshot, then queue the new one.
			select {
			case <-sub.ch:
			default:
			}
			sub.ch <- snapshot
		}
	}
}
