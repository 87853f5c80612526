// Package bus provides the in-process pub/sub backbone used to fan
// nav-state ingress and autopilot-state egress across the supervisor,
// generalized from the teacher project's sim.EventStream
// (mmp-vice/sim/eventstream.go) into a generic Stream[T] so each topic
// gets its own typed channel of history instead of sharing one
// interface{}-typed event log.
package bus

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flightctl/fcs/internal/fcslog"
)

// Envelope wraps a posted message with a correlation ID and timestamp,
// mirroring the correlation-id convention the pack's messaging-oriented
// examples use for cross-component tracing.
type Envelope[T any] struct {
	ID        uuid.UUID
	Timestamp time.Time
	Payload   T
}

// Stream is a generic single-topic pub/sub log. Subscribers each track
// their own read offset; Post appends if (and only if) at least one
// subscriber exists, matching the teacher's "nobody's listening, drop it"
// rule.
type Stream[T any] struct {
	mu            sync.Mutex
	events        []Envelope[T]
	subscriptions map[*Subscription[T]]struct{}
	lastPost      time.Time
	warnedLong    bool
	lg            *fcslog.Logger
}

// Subscription tracks one subscriber's consumption offset into a Stream.
type Subscription[T any] struct {
	stream      *Stream[T]
	offset      int
	source      string
	lastGet     time.Time
	warnedNoGet bool
}

// NewStream constructs an empty Stream. lg may be nil.
func NewStream[T any](lg *fcslog.Logger) *Stream[T] {
	return &Stream[T]{
		subscriptions: make(map[*Subscription[T]]struct{}),
		lastPost:      time.Now(),
		lg:            lg,
	}
}

// Subscribe registers source (a human-readable label, e.g. "navsub" or
// "autopilot-broadcast") as a new subscriber.
func (s *Stream[T]) Subscribe(source string) *Subscription[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &Subscription[T]{
		stream:  s,
		offset:  len(s.events),
		source:  source,
		lastGet: time.Now(),
	}
	s.subscriptions[sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub from the stream.
func (sub *Subscription[T]) Unsubscribe() {
	sub.stream.mu.Lock()
	defer sub.stream.mu.Unlock()
	delete(sub.stream.subscriptions, sub)
	sub.stream = nil
}

// Post appends payload to the stream, tagging it with a fresh correlation
// ID. If no one is subscribed, the post is dropped.
func (s *Stream[T]) Post(payload T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.subscriptions) == 0 {
		return
	}
	s.lastPost = time.Now()
	s.events = append(s.events, Envelope[T]{ID: uuid.New(), Timestamp: time.Now(), Payload: payload})
}

// Get returns everything posted since the subscriber's last Get.
func (sub *Subscription[T]) Get() []Envelope[T] {
	sub.stream.mu.Lock()
	defer sub.stream.mu.Unlock()

	out := slices.Clone(sub.stream.events[sub.offset:])
	sub.offset = len(sub.stream.events)
	sub.lastGet = time.Now()
	sub.warnedNoGet = false
	return out
}

// Latest returns the most recent envelope and true, or the zero value and
// false if nothing has been posted since the subscriber's last Get.
// Ingress topics that only care about "last write wins" (nav-state) use
// this instead of draining the full Get() slice.
func (sub *Subscription[T]) Latest() (Envelope[T], bool) {
	got := sub.Get()
	if len(got) == 0 {
		var zero Envelope[T]
		return zero, false
	}
	return got[len(got)-1], true
}

// Compact reclaims storage for events every subscriber has already
// consumed. Callers should invoke this periodically (the Bus does so on a
// 5s ticker, matching the teacher's monitor loop).
func (s *Stream[T]) Compact() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compactLocked()
}

func (s *Stream[T]) compactLocked() {
	minOffset := len(s.events)
	for sub := range s.subscriptions {
		if sub.offset < minOffset {
			minOffset = sub.offset
		}
	}
	if minOffset > cap(s.events)/2 && minOffset > 0 {
		n := len(s.events) - minOffset
		copy(s.events, s.events[minOffset:])
		s.events = s.events[:n]
		for sub := range s.subscriptions {
			sub.offset -= minOffset
		}
		s.warnedLong = false
	}
}

// WarnStale logs (via lg) any subscriber that hasn't called Get in
// staleAfter, and a single warning if the backlog has grown past 1000
// unconsumed events, mirroring the teacher's monitor() heuristics.
func (s *Stream[T]) WarnStale(staleAfter time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lg == nil {
		return
	}
	if len(s.events) > 1000 && !s.warnedLong {
		s.lg.Warnf("bus stream backlog exceeds 1000 events (subscribers=%d)", len(s.subscriptions))
		s.warnedLong = true
	}
	if time.Since(s.lastPost) >= staleAfter {
		return
	}
	for sub := range s.subscriptions {
		if d := time.Since(sub.lastGet); d > staleAfter && !sub.warnedNoGet {
			s.lg.Warnf("bus subscriber %q has not called Get in %s", sub.source, d)
			sub.warnedNoGet = true
		}
	}
}

func (e Envelope[T]) String() string {
	return fmt.Sprintf("%s@%s: %+v", e.ID, e.Timestamp.Format(time.RFC3339), e.Payload)
}
