// Package telemetry defines the per-tick input record delivered by the
// simulator bridge and the autopilot-state mirror derived from it. All
// fields are optional; a missing field decodes to its zero value, which
// the rest of the system is required to treat as "0/false" per the
// controller's error-handling policy (there is no separate
// present/absent bit — this mirrors the teacher project's own
// flight-state struct, which has no optionals either).
package telemetry

// Frame is a single telemetry sample from the simulator bridge.
type Frame struct {
	Altitude    float64 // ft MSL
	AltitudeAGL float64 // ft
	Speed       float64 // indicated airspeed, kt
	GroundSpeed float64 // kt
	VerticalSpeed float64 // fpm
	Heading     float64 // true, 0-359
	Track       float64 // true
	Pitch       float64 // degrees
	Bank        float64 // degrees, positive = right
	Latitude    float64
	Longitude   float64
	OnGround    bool
	EngineRunning bool
	Throttle    float64 // percent
	FlapsIndex  int     // 0..4
	GearDown    bool
	WindDirection float64 // degrees
	WindSpeed     float64 // kt
	FuelTotal     float64 // gal
	FuelFlow      float64 // gph

	// Autopilot mirror.
	APMaster  bool
	APHdgLock bool
	APAltLock bool
	APVsLock  bool
	APSpdLock bool
	APNavLock bool
	APAprLock bool

	APHdgSet float64
	APAltSet float64
	APVsSet  float64
	APSpdSet float64
}

// APState is a snapshot of the autopilot mirror alone, used both as the
// engine's view of "what the sim says is engaged" and as the payload of
// the broadcast autopilot-state event.
type APState struct {
	Master, Hdg, Alt, Vs, Spd, Nav, Apr bool
}

// FromFrame extracts the AP mirror from a telemetry frame.
func FromFrame(f Frame) APState {
	return APState{
		Master: f.APMaster,
		Hdg:    f.APHdgLock,
		Alt:    f.APAltLock,
		Vs:     f.APVsLock,
		Spd:    f.APSpdLock,
		Nav:    f.APNavLock,
		Apr:    f.APAprLock,
	}
}

// ReliableOnGround applies the spec's treatment of the onGround field,
// which the sim reports unreliably: trust it only when AGL altitude
// confirms it, and always treat very-low-and-stable AGL/VS as grounded
// regardless of what the field itself says.
func ReliableOnGround(f Frame) bool {
	if f.AltitudeAGL < 15 && absf(f.VerticalSpeed) < 200 {
		return true
	}
	return f.OnGround && f.AltitudeAGL < 50
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
