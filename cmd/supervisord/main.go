// Command supervisord is the process composition root: it loads an
// aircraft profile, wires the bus, the command queue's bridge sender,
// and the control loop, then runs until interrupted. Flag handling is
// modeled after cmd/vice/main.go's developer-flag style.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/flightctl/fcs/internal/bridge"
	"github.com/flightctl/fcs/internal/bus"
	"github.com/flightctl/fcs/internal/cmdqueue"
	"github.com/flightctl/fcs/internal/fcslog"
	"github.com/flightctl/fcs/internal/loop"
	"github.com/flightctl/fcs/internal/profile"
)

var (
	profilePath = flag.String("profile", "", "path to the aircraft profile YAML file")
	logLevel    = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir      = flag.String("logdir", "", "log file directory")
)

func main() {
	flag.Parse()

	if *profilePath == "" {
		fmt.Fprintln(os.Stderr, "supervisord: -profile is required")
		os.Exit(2)
	}

	lg := fcslog.New(*logLevel, *logDir)

	aircraft, err := profile.Load(*profilePath)
	if err != nil {
		lg.Errorf("failed to load aircraft profile: %v", err)
		os.Exit(1)
	}

	b := bus.New(lg)
	sender := stubBridge{lg: lg}
	l := loop.New(aircraft, b, sender, lg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	lg.Infof("supervisor starting for aircraft %q", aircraft.Name)
	l.Run(ctx)
	lg.Info("supervisor shut down")
}

// stubBridge is a placeholder bridge.Sender: the real simulator
// transport is an external collaborator per spec.md §6 and is wired in
// by a deployment-specific build, not this module.
type stubBridge struct {
	lg *fcslog.Logger
}

func (s stubBridge) Send(c cmdqueue.Command) error {
	f := bridge.FrameFor(c)
	s.lg.Debugf("would send %s=%v to bridge", f.Command, f.Value)
	return nil
}
