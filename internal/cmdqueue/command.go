// Package cmdqueue implements the rate-limited, safety-clamped,
// override-respecting command queue that sits between the rule engine
// and the simulator bridge. Policies are grounded on spec.md §4.3;
// the override map is backed by
// github.com/hashicorp/golang-lru/v2/expirable, the same library the
// teacher project's wx.Manifest uses for its own TTL'd cache, which gives
// "present AND unexpired" semantics without a separate expiry goroutine.
package cmdqueue

import "time"

// AxisHoldNeutral is sent instead of literal zero on a latched axis when
// the intent is "hold neutral, don't release control to the joystick."
// Named per the design notes rather than left as a magic number.
const AxisHoldNeutral = 0.0001

// Axis partitions command types for override tracking.
type Axis string

const (
	AxisHDG    Axis = "HDG"
	AxisNavHDG Axis = "NAVHDG" // nav-derived heading updates; see design notes
	AxisALT    Axis = "ALT"
	AxisVS     Axis = "VS"
	AxisSPD    Axis = "SPD"
	AxisNAV    Axis = "NAV"
	AxisAPR    Axis = "APR"
	AxisMaster Axis = "MASTER"
)

// Command is a single desired or executed command. Value is nil, bool, or
// float64 depending on the command's type.
type Command struct {
	Type        string
	Value       any
	Description string
	Timestamp   time.Time

	// axisOverride, when non-empty, takes precedence over the command
	// type's default axis mapping. Set via WithAxis; used to distinguish
	// a pilot-facing HEADING_BUG_SET (axis HDG, suppressible by a manual
	// override) from a nav-subsystem-issued one (axis NAVHDG, which
	// manual heading-bug overrides never suppress). See design notes,
	// Open Question #2.
	axisOverride Axis
}

// WithAxis returns a copy of c tagged with an explicit override axis.
func (c Command) WithAxis(a Axis) Command {
	c.axisOverride = a
	return c
}

// axisOf maps a command type to the axis it is suppressible under. Types
// not present here are never subject to override suppression (e.g.
// throttle, mixture, flaps).
var axisOf = map[string]Axis{
	"AP_HDG_HOLD":     AxisHDG,
	"HEADING_BUG_SET": AxisHDG, // overridden to AxisNavHDG via WithAxis (rules emitAxis) when nav-derived
	"AP_ALT_HOLD":             AxisALT,
	"AP_ALT_VAR_SET_ENGLISH":  AxisALT,
	"AP_VS_HOLD":              AxisVS,
	"AP_VS_VAR_SET_ENGLISH":   AxisVS,
	"AP_SPD_VAR_SET":          AxisSPD,
	"AP_AIRSPEED_HOLD":        AxisSPD,
	"AP_NAV1_HOLD":            AxisNAV,
	"AP_APR_HOLD":             AxisAPR,
	"AP_MASTER":               AxisMaster,
}

// AxisFor returns the axis a command type is tracked under, and whether
// it participates in override suppression at all.
func AxisFor(cmdType string) (Axis, bool) {
	a, ok := axisOf[cmdType]
	return a, ok
}
