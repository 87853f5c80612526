package rules

import (
	"github.com/flightctl/fcs/internal/profile"
	"github.com/flightctl/fcs/internal/telemetry"
)

// Envelope holds the advisory flags computeEnvelope produces. It never
// itself mutates commands; the safety layer in cmdqueue.Queue.clamp is
// what actually bounds values.
type Envelope struct {
	StallMarginKt float64
	Overspeed     bool
	BankExceeded  bool
	ExcessiveVS   bool
}

// computeEnvelope reports advisory flags for the current telemetry
// against the aircraft's profile, per §4.2.
func computeEnvelope(p *profile.Aircraft, t telemetry.Frame) Envelope {
	return Envelope{
		StallMarginKt: t.Speed - (p.Speeds.Vs1 + 10),
		Overspeed:     t.Speed > p.Speeds.Vno,
		BankExceeded:  absf(t.Bank) > p.Limits.MaxBank+5,
		ExcessiveVS:   absf(t.VerticalSpeed) > p.Limits.MaxVs,
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
