// Package navsub implements course-intercept computation, waypoint
// sequencing, and ingestion of externally-sourced navigation state,
// grounded on mmp-vice's nav/lateral.go and nav/approach.go intercept
// logic generalized from ATC-simulation-scale flat math to the
// great-circle math in internal/geo (needed because GPS waypoints here
// can be much farther apart than a TRACON).
package navsub

import "github.com/flightctl/fcs/internal/geo"

// Waypoint is one flight-plan fix.
type Waypoint struct {
	Ident string
	Pos   geo.LatLon
}

// FlightPlan is an ordered sequence of waypoints with an active index.
// Invariant: 0 <= ActiveIndex <= len(Waypoints); an index at or beyond
// the end means the plan is complete.
type FlightPlan struct {
	Name          string
	Waypoints     []Waypoint
	CruiseAlt     float64
	ActiveIndex   int
}

// HasFlightPlan reports whether fp is non-nil and carries at least one
// waypoint.
func HasFlightPlan(fp *FlightPlan) bool {
	return fp != nil && len(fp.Waypoints) > 0
}

// ActiveWaypoint returns the current target waypoint, or nil if the
// plan is complete or absent.
func (fp *FlightPlan) ActiveWaypoint() *Waypoint {
	if fp == nil || fp.ActiveIndex < 0 || fp.ActiveIndex >= len(fp.Waypoints) {
		return nil
	}
	return &fp.Waypoints[fp.ActiveIndex]
}

// SetActiveWaypointIndex sets the active index if it is in range;
// out-of-bounds values are a no-op, per spec.
func (fp *FlightPlan) SetActiveWaypointIndex(i int) {
	if fp == nil || i < 0 || i > len(fp.Waypoints) {
		return
	}
	fp.ActiveIndex = i
}

// waypointSequenceThresholdNM is the distance inside which the active
// waypoint is considered reached.
const waypointSequenceThresholdNM = 0.5

// SequenceWaypoint advances fp's active index by one if position is
// within waypointSequenceThresholdNM of the current active waypoint,
// reporting whether it advanced.
func (fp *FlightPlan) SequenceWaypoint(position geo.LatLon) bool {
	wp := fp.ActiveWaypoint()
	if wp == nil {
		return false
	}
	if geo.HaversineNM(position, wp.Pos) < waypointSequenceThresholdNM {
		fp.ActiveIndex++
		return true
	}
	return false
}
