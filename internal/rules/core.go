package rules

import (
	"github.com/flightctl/fcs/internal/geo"
	"github.com/flightctl/fcs/internal/syncutil"
)

// targetPitch converts a pitch error into a clamped elevator deflection.
// Convention: negative = nose up, matching §4.2's takeoff procedures.
func targetPitch(pitch, targetDeg, gain, maxDefl float64) float64 {
	err := targetDeg - pitch
	return syncutil.Clamp(-err*gain, -maxDefl, maxDefl)
}

// bankToHeading returns the desired bank angle (signed, positive=right)
// to turn from heading toward targetHdg, via the shortest direction.
func bankToHeading(heading, targetHdg, maxBank float64) float64 {
	turn := geo.HeadingSignedTurn(heading, targetHdg)
	return syncutil.Clamp(turn*bankGainDegPerDeg, -maxBank, maxBank)
}

// bankGainDegPerDeg is the proportional gain from heading error (deg) to
// desired bank (deg).
const bankGainDegPerDeg = 0.5

// aileronFromBankError converts a bank error into an aileron deflection.
// The sign is negated from raw bank error per §4.2's takeoff ROLL
// procedure: a right (positive) bank needs left (negative) aileron to
// correct toward desiredBank.
func aileronFromBankError(bank, desiredBank, gain, maxDefl float64) float64 {
	err := bank - desiredBank
	return syncutil.Clamp(-err*gain, -maxDefl, maxDefl)
}

// groundSteer returns a proportional rudder deflection toward targetHdg,
// only meaningful while groundSpeed < 40 per §4.2.
func groundSteer(heading, targetHdg float64) float64 {
	turn := geo.HeadingSignedTurn(heading, targetHdg)
	return syncutil.Clamp(turn*groundSteerGain, -groundSteerMax, groundSteerMax)
}

const (
	groundSteerGain = 1.0
	groundSteerMax  = 20.0
)

// applyRudderBias returns a small yaw-damping rudder bias proportional to
// bank angle.
func applyRudderBias(bank, maxDefl float64) float64 {
	return syncutil.Clamp(bank*rudderBiasGain, -maxDefl, maxDefl)
}

const rudderBiasGain = 0.1
