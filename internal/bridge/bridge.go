// Package bridge defines the seam between the command queue and a real
// simulator transport. The core depends only on Sender; a concrete
// adapter (SimConnect, FSUIPC, a network bridge) lives outside this
// module and is wired in by cmd/supervisord, the same way mmp-vice's
// sim.Sim is reached through launch-mode-specific transports rather than
// a concrete type baked into the simulation core.
package bridge

import "github.com/flightctl/fcs/internal/cmdqueue"

// Sender is the only thing cmdqueue.Queue depends on to actually
// transmit a command.
type Sender = cmdqueue.Sender

// Frame is the wire shape a real adapter would serialize a Command into:
// always a {Command, Value} record, with Value omitted from JSON when it
// is nil. There is no bare-string form for toggles. It exists for
// documentation and adapter tests; the core never serializes it itself.
type Frame struct {
	Command string `json:"command"`
	Value   any    `json:"value,omitempty"`
}

// FrameFor converts a Command into its wire Frame.
func FrameFor(c cmdqueue.Command) Frame {
	return Frame{Command: c.Type, Value: c.Value}
}
