package bus

import (
	"time"

	"github.com/flightctl/fcs/internal/fcslog"
	"github.com/flightctl/fcs/internal/navsub"
	"github.com/flightctl/fcs/internal/rules"
	"github.com/flightctl/fcs/internal/telemetry"
)

// NavState is the GPS/FMS-sourced navigation message ingested at ~1Hz,
// per spec.md §3. Aliased to navsub.NavState directly so the bus never
// carries a thinner shadow copy of the nav-state fields: whatever
// navsub.Subsystem.SetNavState accepts is exactly what arrives over the
// wire, CDI source/approach/glideslope data included.
type NavState = navsub.NavState

// AutopilotState is the supervisor's ~1Hz broadcast of its own view of
// the world, per spec.md §4.5's
// {enabled, phase, takeoffSubPhase, targets, ap, terrainAlert,
// envelopeAlert, navGuidance, lastCommand, timestamp} shape.
type AutopilotState struct {
	Enabled         bool
	Phase           string
	TakeoffSubPhase string
	Targets         Targets
	AP              telemetry.APState
	TerrainAlert    string
	EnvelopeAlert   string
	NavGuidance     string
	ActiveOverrides []string
	LastCommand     string
	Timestamp       time.Time
}

// Targets mirrors rules.Targets for the broadcast payload.
type Targets = rules.Targets

// TAWSAlert is a terrain-awareness warning forwarded from the bridge,
// per spec.md §4.5's taws-alert message (level ∈ {WARNING, CAUTION, ""}).
type TAWSAlert struct {
	Level   string
	Message string
}

// SimbriefPlan carries an externally-loaded flight plan import.
type SimbriefPlan struct {
	Waypoints []WaypointSpec
}

// WaypointSpec names one flight-plan waypoint by position.
type WaypointSpec struct {
	Name string
	Lat  float64
	Lon  float64
}

// WaypointSequenced carries an externally-commanded active-waypoint
// index, per spec.md §4.5's waypoint-sequence message
// (→ setActiveWaypointIndex).
type WaypointSequenced struct {
	Index int
	Name  string
}

// Bus collects the supervisor's named topics and owns the periodic
// maintenance (compaction, stale-subscriber warnings) the teacher's
// EventStream.monitor did on a single stream.
type Bus struct {
	NavState          *Stream[NavState]
	AutopilotState    *Stream[AutopilotState]
	TAWSAlert         *Stream[TAWSAlert]
	SimbriefPlan      *Stream[SimbriefPlan]
	WaypointSequenced *Stream[WaypointSequenced]

	lg *fcslog.Logger
}

// New constructs a Bus with one Stream per topic.
func New(lg *fcslog.Logger) *Bus {
	return &Bus{
		NavState:          NewStream[NavState](lg),
		AutopilotState:    NewStream[AutopilotState](lg),
		TAWSAlert:         NewStream[TAWSAlert](lg),
		SimbriefPlan:      NewStream[SimbriefPlan](lg),
		WaypointSequenced: NewStream[WaypointSequenced](lg),
		lg:                lg,
	}
}

// Maintain runs one round of compaction and stale-subscriber checks
// across every topic. Callers wire this to a 5s ticker (matching the
// teacher's monitor cadence) from the control loop.
func (b *Bus) Maintain() {
	const staleAfter = 10 * time.Second
	b.NavState.Compact()
	b.NavState.WarnStale(staleAfter)
	b.AutopilotState.Compact()
	b.AutopilotState.WarnStale(staleAfter)
	b.TAWSAlert.Compact()
	b.TAWSAlert.WarnStale(staleAfter)
	b.SimbriefPlan.Compact()
	b.SimbriefPlan.WarnStale(staleAfter)
	b.WaypointSequenced.Compact()
	b.WaypointSequenced.WarnStale(staleAfter)
}
