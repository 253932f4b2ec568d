// internal/inquiry/feed.go
//
// Change feed for the inquiry collection.
//
/*
Context
--------
The admin dashboard mirrors the remote store and must learn about inserts
and updates without polling.  The Store publishes a notification to this
hub after each successful write, and every live Subscription receives it.

Subscribers get a coalescing one-slot channel: a burst of writes while the
consumer is busy collapses into a single pending notification, which is
exactly what the consumer wants—each notification means "re-read now,"
not "one row changed."

A Subscription must be Released when its owner goes away, or the hub keeps
delivering into a channel nobody drains (harmless, but a leak).
*/
package inquiry

import "sync"

// Feed fans change notifications out to subscribers.  The zero value is
// ready to use.
type Feed struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// Subscription is one listener's handle on the feed.  Receive from C;
// call Release exactly once when done.
type Subscription struct {
	C    <-chan struct{}
	c    chan struct{}
	feed *Feed
	once sync.Once
}

// NewFeed returns an empty hub.
func NewFeed() *Feed {
	return &Feed{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new listener.  Notifications published before the
// call are not replayed, so callers that mirror the store must subscribe
// first and then do their initial read—a write landing in between simply
// shows up as a pending notification (see internal/admin).
func (f *Feed) Subscribe() *Subscription {
	s := &Subscription{c: make(chan struct{}, 1), feed: f}
	s.C = s.c

	f.mu.Lock()
	if f.subs == nil { // zero-value Feed
		f.subs = make(map[*Subscription]struct{})
	}
	f.subs[s] = struct{}{}
	f.mu.Unlock()
	return s
}

// Publish notifies every live subscriber.  Never blocks: a subscriber that
// already has a pending notification keeps just the one.
func (f *Feed) Publish() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for s := range f.subs {
		select {
		case s.c <- struct{}{}:
		default: // already pending, coalesce
		}
	}
}

// Release detaches the subscription from the hub.  Safe to call more than
// once; only the first call has effect.
func (s *Subscription) Release() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s)
		s.feed.mu.Unlock()
	})
}
