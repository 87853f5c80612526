package cmdqueue

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/flightctl/fcs/internal/fcslog"
	"github.com/flightctl/fcs/internal/profile"
	"github.com/flightctl/fcs/internal/syncutil"
)

// Sender is the bridge seam: the queue only knows how to hand a command
// to something that implements Send. A real simulator-bridge adapter
// lives outside the core (§6); tests use a fake.
type Sender interface {
	Send(Command) error
}

// DrainInterval is the rate-limit window: at most one command executes
// per interval.
const DrainInterval = 500 * time.Millisecond

// overrideTTL is the pilot-override cooldown. Policy, not physics, so
// it's a package var rather than a literal buried in the logic.
var overrideTTL = 30 * time.Second

// Override describes one active axis override for GetActiveOverrides.
type Override struct {
	Axis             Axis
	RemainingSeconds float64
}

// Queue rate-limits, deduplicates, and safety-clamps commands before
// handing them to a Sender, per spec.md §4.3.
type Queue struct {
	mu sync.Mutex

	profile *profile.Aircraft
	sender  Sender
	lg      *fcslog.Logger

	pending       []Command
	currentValue  map[string]any
	overrides     *expirable.LRU[Axis, time.Time]
	lastDrainTime time.Time

	timeline []Command // most-recent-first, capped at 100
	now      func() time.Time
}

const timelineCap = 100

// New constructs a Queue for the given aircraft profile.
func New(p *profile.Aircraft, sender Sender, lg *fcslog.Logger) *Queue {
	return &Queue{
		profile:      p,
		sender:       sender,
		lg:           lg,
		currentValue: make(map[string]any),
		overrides:    expirable.NewLRU[Axis, time.Time](8, nil, overrideTTL),
		now:          time.Now,
	}
}

// Enqueue applies clamp -> override -> dedup -> append, in that order,
// per spec.md §4.3.
func (q *Queue) Enqueue(c Command) {
	q.mu.Lock()
	defer q.mu.Unlock()

	c.Timestamp = q.now()
	c = q.clamp(c)

	axis, hasAxis := q.axisOf(c)
	if hasAxis {
		if expiry, present := q.overrides.Get(axis); present && q.now().Before(expiry) {
			// Drop silently, and flush any already-queued commands on
			// this axis: the override wins outright.
			q.flushAxisLocked(axis)
			return
		}
	}

	if q.isDuplicateLocked(c) {
		return
	}

	q.pending = append(q.pending, c)
}

// clamp applies the three clamp rules from spec.md §4.3.1, annotating the
// description when a value was modified. Safety invariant: a
// value is never sent outside its clamp range.
func (q *Queue) clamp(c Command) Command {
	v, ok := c.Value.(float64)
	if !ok {
		return c
	}

	var lo, hi float64
	switch c.Type {
	case "AP_VS_VAR_SET_ENGLISH":
		lo, hi = q.profile.Limits.MinVs, q.profile.Limits.MaxVs
	case "AP_ALT_VAR_SET_ENGLISH":
		hi = q.profile.Limits.MaxAlt
		if hi == 0 {
			hi = q.profile.Limits.Ceiling
		}
		if hi == 0 {
			hi = 45000
		}
		lo = 0
	case "AP_SPD_VAR_SET":
		lo, hi = q.profile.Speeds.Vs1, q.profile.Speeds.Vno
	default:
		return c
	}

	clamped := syncutil.Clamp(v, lo, hi)
	if clamped != v {
		c.Value = clamped
		c.Description = fmt.Sprintf("%s (clamped)", c.Description)
	}
	return c
}

func (q *Queue) axisOf(c Command) (Axis, bool) {
	if c.axisOverride != "" {
		return c.axisOverride, true
	}
	return AxisFor(c.Type)
}

func (q *Queue) isDuplicateLocked(c Command) bool {
	cur, ok := q.currentValue[c.Type]
	if !ok {
		return false
	}
	switch v := c.Value.(type) {
	case bool:
		cb, ok := cur.(bool)
		return ok && cb == v
	case float64:
		cf, ok := cur.(float64)
		return ok && syncutil.Abs(cf-v) < 1
	default:
		return cur == nil && c.Value == nil
	}
}

// flushAxisLocked removes any pending commands mapped to axis.
func (q *Queue) flushAxisLocked(axis Axis) {
	kept := q.pending[:0]
	for _, c := range q.pending {
		a, ok := q.axisOf(c)
		if ok && a == axis {
			continue
		}
		kept = append(kept, c)
	}
	q.pending = kept
}

// RegisterOverride marks axis as pilot-controlled for the cooldown
// window and flushes any queued commands for it.
func (q *Queue) RegisterOverride(axis Axis) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.overrides.Add(axis, q.now().Add(overrideTTL))
	q.flushAxisLocked(axis)
}

// GetActiveOverrides returns the currently-unexpired overrides.
func (q *Queue) GetActiveOverrides() []Override {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []Override
	for _, axis := range q.overrides.Keys() {
		expiry, ok := q.overrides.Get(axis)
		if !ok {
			continue
		}
		remaining := expiry.Sub(q.now()).Seconds()
		if remaining > 0 {
			out = append(out, Override{Axis: axis, RemainingSeconds: remaining})
		}
	}
	return out
}

// Drain pops and sends at most one command, honoring the rate limit. It
// is meant to be called by an external ticker at a faster-than-500ms
// cadence (or on-demand, e.g. right after Enqueue when the queue was
// idle); Drain itself enforces the spacing.
func (q *Queue) Drain() {
	q.mu.Lock()
	if len(q.pending) == 0 {
		q.mu.Unlock()
		return
	}
	if since := q.now().Sub(q.lastDrainTime); since < DrainInterval && !q.lastDrainTime.IsZero() {
		q.mu.Unlock()
		return
	}

	c := q.pending[0]
	q.pending = q.pending[1:]
	q.lastDrainTime = q.now()
	q.currentValue[c.Type] = c.Value
	q.pushTimelineLocked(c)
	q.mu.Unlock()

	// Fire-and-forget: a send failure is treated as "sent" per spec.md §7;
	// the engine will simply re-issue on a future tick if still desired.
	if err := q.sender.Send(c); err != nil {
		q.lg.Warnf("bridge send failed for %s, treating as sent: %v", c.Type, err)
	}
}

func (q *Queue) pushTimelineLocked(c Command) {
	q.timeline = append([]Command{c}, q.timeline...)
	if len(q.timeline) > timelineCap {
		q.timeline = q.timeline[:timelineCap]
	}
}

// Timeline returns a copy of the executed-command log, most recent first.
func (q *Queue) Timeline() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Command, len(q.timeline))
	copy(out, q.timeline)
	return out
}

// Len returns the number of pending (not yet executed) commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// ClearDedup removes a type's tracked "current value" so the next
// Enqueue of that type is never considered a duplicate. Used by the rule
// engine's forceCmd and after a phase change, per spec.md §4.2.
func (q *Queue) ClearDedup(cmdType string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.currentValue, cmdType)
}
