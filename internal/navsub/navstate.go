package navsub

import "github.com/flightctl/fcs/internal/geo"

// ToFrom is the VOR/GPS to/from flag.
type ToFrom int

const (
	ToFromOff ToFrom = iota
	ToFromTo
	ToFromFrom
)

// CDISource names where a course-deviation-indicator reading came from.
type CDISource string

const (
	CDISourceGPS  CDISource = "GPS"
	CDISourceNAV1 CDISource = "NAV1"
	CDISourceNAV2 CDISource = "NAV2"
)

// CDI is a course-deviation-indicator reading.
type CDI struct {
	Source      CDISource
	DesiredTrk  float64 // dtk, degrees
	CrossTrack  float64 // xtrk, NM; positive = right of course
	ToFrom      ToFrom
	Mode        string // ENR, TERM, APR
	FSD         float64
	GSValid     bool
	GSDeviation float64
}

// Approach describes the externally-sourced approach-procedure state
// (mode/name/glideslope availability), per spec.md §3's NavState.
type Approach struct {
	Mode          string
	Name          string
	HasGlideslope bool
}

// NavState is the navigation feed ingested from the external GPS, per
// spec.md §3.
type NavState struct {
	Position         geo.LatLon
	ActiveWaypointID string
	DistToWptNM      float64
	Bearing          float64
	CDI              CDI
	DestDistNM       float64
	Approach         Approach
}

// Source labels where ComputeHeading's result came from.
type Source string

const (
	SourceFPL Source = "FPL"
	SourceWPT Source = "WPT"
	SourceNone Source = ""
)

// Subsystem holds the latest ingested nav state, an optional flight
// plan, the turbulence rolling window, and the latest externally-sourced
// terrain alert level.
type Subsystem struct {
	Nav          *NavState
	Plan         *FlightPlan
	TerrainAlert string // "", "CAUTION", or "WARNING"; see SetExternalTerrainAlert

	turbulence []float64 // most recent verticalSpeed samples, oldest first
}

// New constructs an empty Subsystem.
func New() *Subsystem {
	return &Subsystem{}
}

// SetNavState replaces the subsystem's latest nav-state snapshot.
func (s *Subsystem) SetNavState(n NavState) { s.Nav = &n }

// SetFlightPlan installs (or clears, with nil) the active flight plan.
func (s *Subsystem) SetFlightPlan(fp *FlightPlan) { s.Plan = fp }

// HasFlightPlan reports whether a usable flight plan is installed.
func (s *Subsystem) HasFlightPlan() bool { return HasFlightPlan(s.Plan) }

// SetExternalTerrainAlert records the latest terrain-awareness warning
// level pushed in over the taws-alert pub/sub message, per spec.md §4.5.
// level is one of "WARNING", "CAUTION", or "" to clear.
func (s *Subsystem) SetExternalTerrainAlert(level string) { s.TerrainAlert = level }
