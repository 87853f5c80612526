package rules

import (
	"github.com/flightctl/fcs/internal/cmdqueue"
	"github.com/flightctl/fcs/internal/geo"
	"github.com/flightctl/fcs/internal/navsub"
	"github.com/flightctl/fcs/internal/telemetry"
)

// applyLateralNav asks the navigation subsystem for a commanded heading
// and, if one is available, issues it with wind-triangle compensation.
// Nav-derived HEADING_BUG_SET commands tag axis NAVHDG so a manual HDG
// override never suppresses GPS-coupled guidance (Open Question #2).
func (e *Engine) applyLateralNav(t telemetry.Frame) {
	if e.nav == nil {
		return
	}

	pos := geo.LatLon{Lat: t.Latitude, Lon: t.Longitude}
	e.nav.Plan.SequenceWaypoint(pos)

	hdg, src := e.nav.ComputeHeading(pos)
	if hdg == nil {
		return
	}

	commanded, annotation := *hdg, ""
	if t.WindSpeed > 1 && t.Speed > 50 {
		commanded, annotation = windCorrectFn(*hdg, t.WindDirection, t.WindSpeed, t.Speed)
	}

	desc := "nav-derived heading (" + string(src) + ")"
	if annotation != "" {
		desc += ", " + annotation
	}
	e.lastNavGuidance = desc
	e.emitAxis("HEADING_BUG_SET", commanded, desc, cmdqueue.AxisNavHDG)
	e.cmd("AP_HDG_HOLD", true, "engage heading hold for lateral nav")
}

// windCorrectFn is a seam for tests; defaults to navsub.WindCorrect.
var windCorrectFn = navsub.WindCorrect

func navPosition(t telemetry.Frame) geo.LatLon {
	return geo.LatLon{Lat: t.Latitude, Lon: t.Longitude}
}
