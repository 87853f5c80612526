package navsub

import (
	"math"

	"github.com/flightctl/fcs/internal/geo"
)

// InterceptAngle returns the proportional intercept angle for a
// cross-track error magnitude, per spec.md §4.4's table. Grounded on the
// same shape as nav/lateral.go's banded gain tables.
func InterceptAngle(x float64) float64 {
	x = math.Abs(x)
	switch {
	case x < 0.1:
		return 0
	case x < 0.3:
		return 10
	case x <= 1.0:
		return 10 + (x-0.3)/0.7*20
	default:
		return 30
	}
}

// ComputeInterceptHeading applies the intercept angle to dtk given the
// signed cross-track error xtrk, honoring the FROM passthrough rule.
func ComputeInterceptHeading(dtk, xtrk float64, toFrom ToFrom) float64 {
	if toFrom == ToFromFrom {
		return geo.NormalizeHeading(dtk)
	}
	angle := InterceptAngle(xtrk)
	switch {
	case xtrk > 0:
		return geo.NormalizeHeading(dtk - angle)
	case xtrk < 0:
		return geo.NormalizeHeading(dtk + angle)
	default:
		return geo.NormalizeHeading(dtk)
	}
}

// ComputeHeading implements the 4-level nav-heading priority list from
// spec.md §4.4: flight-plan active waypoint with CDI-offset intercept,
// then raw CDI desired-track intercept, then waypoint-bearing-only, then
// no source.
func (s *Subsystem) ComputeHeading(position geo.LatLon) (*float64, Source) {
	wp := s.Plan.ActiveWaypoint()
	if wp != nil {
		bearing := geo.Bearing(position, wp.Pos)
		if s.Nav != nil && s.cdiOnActiveLeg() {
			h := ComputeInterceptHeading(bearing, s.Nav.CDI.CrossTrack, s.Nav.CDI.ToFrom)
			return &h, SourceFPL
		}
		return &bearing, SourceFPL
	}

	if s.Nav != nil && s.Nav.CDI.Source != "" {
		h := ComputeInterceptHeading(s.Nav.CDI.DesiredTrk, s.Nav.CDI.CrossTrack, s.Nav.CDI.ToFrom)
		return &h, Source(s.Nav.CDI.Source)
	}

	if s.Nav != nil && s.Nav.ActiveWaypointID != "" {
		return &s.Nav.Bearing, SourceWPT
	}

	return nil, SourceNone
}

// cdiOnActiveLeg reports whether the ingested CDI reading should be
// treated as describing the currently active flight-plan leg. Without a
// richer per-leg identity in NavState, any CDI reading present while a
// flight plan is active is assumed to be on that leg (the GPS source
// feeding this subsystem is expected to report against its own active
// leg, which tracks the flight plan 1:1 in the external collaborator).
func (s *Subsystem) cdiOnActiveLeg() bool {
	return s.Nav.CDI.Source != ""
}

// WindCorrect applies wind-triangle compensation to a desired track,
// producing a commanded heading and a human-readable annotation when a
// correction was applied. Only active when windSpeed > 1 and speed > 50,
// per spec.md §4.4.
func WindCorrect(desiredTrack, windDir, windSpeed, tas float64) (heading float64, annotation string) {
	if windSpeed <= 1 || tas <= 50 {
		return geo.NormalizeHeading(desiredTrack), ""
	}

	beta := (windDir - desiredTrack) * math.Pi / 180
	crosswind := windSpeed * math.Sin(beta)

	ratio := crosswind / tas
	var delta float64
	switch {
	case ratio > 1:
		delta = 90
	case ratio < -1:
		delta = -90
	default:
		delta = math.Asin(ratio) * 180 / math.Pi
	}

	heading = geo.NormalizeHeading(desiredTrack + delta)
	annotation = "wind-corrected"
	return heading, annotation
}

// turbulenceWindowSize is the rolling-window length for severity detection.
const turbulenceWindowSize = 10

// RecordVerticalSpeed appends a verticalSpeed sample to the turbulence
// rolling window, evicting the oldest once full.
func (s *Subsystem) RecordVerticalSpeed(vs float64) {
	s.turbulence = append(s.turbulence, vs)
	if len(s.turbulence) > turbulenceWindowSize {
		s.turbulence = s.turbulence[len(s.turbulence)-turbulenceWindowSize:]
	}
}

// TurbulenceSeverity computes the 0-3 severity from the current rolling
// window, per spec.md §4.4. Fewer than 3 samples always reports 0.
func (s *Subsystem) TurbulenceSeverity() int {
	n := len(s.turbulence)
	if n < 3 {
		return 0
	}

	mean := 0.0
	for _, v := range s.turbulence {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	maxDelta := 0.0
	for i, v := range s.turbulence {
		d := v - mean
		variance += d * d
		if i > 0 {
			delta := math.Abs(v - s.turbulence[i-1])
			if delta > maxDelta {
				maxDelta = delta
			}
		}
	}
	sigma := math.Sqrt(variance / float64(n))

	switch {
	case sigma > 500 || maxDelta > 1000:
		return 3
	case sigma > 250 || maxDelta > 500:
		return 2
	case sigma > 100 || maxDelta > 200:
		return 1
	default:
		return 0
	}
}
