// Package loop implements the single logical control-loop executor
// called for by spec.md §5: it owns the flight-phase machine, rule
// engine, command queue, and navigation subsystem, and is the only
// caller that mutates them. I/O sources hand data to it through
// channels rather than calling into it directly, the same shape
// mmp-vice's Sim funnels RPC calls through a single util.LoggingMutex.
package loop

import (
	"context"
	"time"

	"github.com/flightctl/fcs/internal/bus"
	"github.com/flightctl/fcs/internal/cmdqueue"
	"github.com/flightctl/fcs/internal/fcslog"
	"github.com/flightctl/fcs/internal/geo"
	"github.com/flightctl/fcs/internal/navsub"
	"github.com/flightctl/fcs/internal/phase"
	"github.com/flightctl/fcs/internal/profile"
	"github.com/flightctl/fcs/internal/rules"
	"github.com/flightctl/fcs/internal/syncutil"
	"github.com/flightctl/fcs/internal/telemetry"
)

// Loop is the single-writer control loop. Telemetry and nav-state
// ingress are single-slot mailboxes: only the most recent value since
// the last tick matters, matching spec.md §5's "last write wins" rule.
type Loop struct {
	mu syncutil.LoggingMutex
	lg *fcslog.Logger

	phaseMachine *phase.Machine
	engine       *rules.Engine
	queue        *cmdqueue.Queue
	nav          *navsub.Subsystem
	bus          *bus.Bus

	telemetryCh chan telemetry.Frame
	navSub      *bus.Subscription[bus.NavState]
	tawsSub     *bus.Subscription[bus.TAWSAlert]
	planSub     *bus.Subscription[bus.SimbriefPlan]
	wptSub      *bus.Subscription[bus.WaypointSequenced]

	drainInterval     time.Duration
	broadcastInterval time.Duration
	maintainInterval  time.Duration
}

// New wires a Loop from its components. profile has already been loaded
// and validated by the caller (cmd/supervisord).
func New(p *profile.Aircraft, b *bus.Bus, sender cmdqueue.Sender, lg *fcslog.Logger) *Loop {
	nav := navsub.New()
	queue := cmdqueue.New(p, sender, lg)
	engine := rules.New(p, queue, nav, lg)
	phaseMachine := phase.New(p, nil)

	return &Loop{
		lg:                lg,
		phaseMachine:      phaseMachine,
		engine:            engine,
		queue:             queue,
		nav:               nav,
		bus:               b,
		telemetryCh:       make(chan telemetry.Frame, 1),
		navSub:            b.NavState.Subscribe("loop"),
		tawsSub:           b.TAWSAlert.Subscribe("loop"),
		planSub:           b.SimbriefPlan.Subscribe("loop"),
		wptSub:            b.WaypointSequenced.Subscribe("loop"),
		drainInterval:     cmdqueue.DrainInterval,
		broadcastInterval: time.Second,
		maintainInterval:  5 * time.Second,
	}
}

// IngestTelemetry hands a fresh frame to the loop. Non-blocking: if the
// loop hasn't consumed the previous frame yet, it is replaced (last
// write wins), matching a single-slot mailbox.
func (l *Loop) IngestTelemetry(f telemetry.Frame) {
	select {
	case <-l.telemetryCh:
	default:
	}
	l.telemetryCh <- f
}

// Run drives the control loop until ctx is canceled. Telemetry ticks
// drive the phase/rule evaluation; a separate ticker pops the command
// queue at the rate limit (as a backstop between ticks — tick itself
// drains immediately when the queue was idle, per spec.md §5); another
// broadcasts autopilot state at 1Hz; another runs periodic bus
// maintenance.
func (l *Loop) Run(ctx context.Context) {
	drainTicker := time.NewTicker(l.drainInterval)
	defer drainTicker.Stop()
	broadcastTicker := time.NewTicker(l.broadcastInterval)
	defer broadcastTicker.Stop()
	maintainTicker := time.NewTicker(l.maintainInterval)
	defer maintainTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case f := <-l.telemetryCh:
			l.tick(f)
		case <-drainTicker.C:
			l.mu.Lock(l.lg)
			l.queue.Drain()
			l.mu.Unlock(l.lg)
		case <-broadcastTicker.C:
			l.mu.Lock(l.lg)
			l.broadcastState()
			l.mu.Unlock(l.lg)
		case <-maintainTicker.C:
			l.bus.Maintain()
		}
	}
}

// tick runs one evaluation: ingest the latest external state (nav-state,
// TAWS alert, flight-plan import, waypoint-index override), advance the
// phase machine, run the rule engine, then drain immediately if the
// queue was idle, per spec.md §5's per-tick sequence and §5's "When a
// new command is enqueued and the last drain was >500ms ago, the first
// command fires immediately" rule.
func (l *Loop) tick(f telemetry.Frame) {
	l.mu.Lock(l.lg)
	defer l.mu.Unlock(l.lg)

	l.ingestExternalState()

	newPhase, changed := l.phaseMachine.Advance(f)
	l.engine.Run(newPhase, f, changed)
	l.queue.Drain()
}

// ingestExternalState applies the latest message on each subscribed
// pub/sub topic, per spec.md §4.5's subscribe list: nav-state →
// setNavState, taws-alert → setExternalTerrainAlert, simbrief-plan →
// setFlightPlan, waypoint-sequence → setActiveWaypointIndex.
func (l *Loop) ingestExternalState() {
	if env, ok := l.navSub.Latest(); ok {
		l.nav.SetNavState(env.Payload)
	}
	if env, ok := l.tawsSub.Latest(); ok {
		l.nav.SetExternalTerrainAlert(env.Payload.Level)
	}
	if env, ok := l.planSub.Latest(); ok {
		l.nav.SetFlightPlan(toFlightPlan(env.Payload))
	}
	if env, ok := l.wptSub.Latest(); ok && l.nav.Plan != nil {
		l.nav.Plan.SetActiveWaypointIndex(env.Payload.Index)
	}
}

func toFlightPlan(p bus.SimbriefPlan) *navsub.FlightPlan {
	wpts := make([]navsub.Waypoint, len(p.Waypoints))
	for i, w := range p.Waypoints {
		wpts[i] = navsub.Waypoint{Ident: w.Name, Pos: geo.LatLon{Lat: w.Lat, Lon: w.Lon}}
	}
	return &navsub.FlightPlan{Waypoints: wpts}
}

func (l *Loop) broadcastState() {
	overrides := l.queue.GetActiveOverrides()
	names := make([]string, len(overrides))
	for i, o := range overrides {
		names[i] = string(o.Axis)
	}

	var lastCmd string
	if tl := l.engine.Timeline(); len(tl) > 0 {
		lastCmd = tl[0]
	}

	snap := l.engine.Snapshot()

	l.bus.AutopilotState.Post(bus.AutopilotState{
		Enabled:         snap.Enabled,
		Phase:           l.phaseMachine.State.Phase.String(),
		TakeoffSubPhase: l.engine.TakeoffSubPhase.String(),
		Targets:         snap.Targets,
		AP:              snap.AP,
		TerrainAlert:    snap.TerrainAlert,
		EnvelopeAlert:   snap.EnvelopeAlert,
		NavGuidance:     snap.NavGuidance,
		ActiveOverrides: names,
		LastCommand:     lastCmd,
		Timestamp:       time.Now(),
	})
}
