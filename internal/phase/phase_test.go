package phase

import (
	"testing"
	"time"

	"github.com/flightctl/fcs/internal/profile"
	"github.com/flightctl/fcs/internal/telemetry"
)

func testProfile() *profile.Aircraft {
	return &profile.Aircraft{
		Speeds: profile.Speeds{Vs1: 53, Vr: 65, Vy: 79, Vcruise: 120, Vno: 160, Vne: 180},
		Climb:  profile.Climb{NormalRate: 700},
		Descent: profile.Descent{
			NormalRate:   -500,
			ApproachRate: -700,
			TODFactor:    3,
		},
		Limits: profile.Limits{Ceiling: 14000, MaxAlt: 14000, MaxVs: 1500, MinVs: -1500, MaxBank: 30},
	}
}

func TestPreflightToTaxi(t *testing.T) {
	m := New(testProfile(), nil)
	p, changed := m.Advance(telemetry.Frame{OnGround: true, EngineRunning: true})
	if p != Taxi || !changed {
		t.Fatalf("got phase=%v changed=%v, want Taxi/true", p, changed)
	}
}

func TestTaxiToPreflightOnShutdown(t *testing.T) {
	m := New(testProfile(), nil)
	m.Advance(telemetry.Frame{OnGround: true, EngineRunning: true})
	p, changed := m.Advance(telemetry.Frame{OnGround: true, EngineRunning: false, GroundSpeed: 0})
	if p != Preflight || !changed {
		t.Fatalf("got phase=%v changed=%v, want Preflight/true", p, changed)
	}
}

func TestTaxiToTakeoff(t *testing.T) {
	m := New(testProfile(), nil)
	m.Advance(telemetry.Frame{OnGround: true, EngineRunning: true})
	p, _ := m.Advance(telemetry.Frame{OnGround: true, GroundSpeed: 30})
	if p != Takeoff {
		t.Fatalf("got %v, want Takeoff", p)
	}
}

func TestTakeoffRejected(t *testing.T) {
	m := New(testProfile(), nil)
	m.State.Phase = Takeoff
	m.State.EntryTime = time.Now()
	p, changed := m.Advance(telemetry.Frame{OnGround: true, GroundSpeed: 5})
	if p != Taxi || !changed {
		t.Fatalf("got phase=%v changed=%v, want Taxi/true (rejected takeoff)", p, changed)
	}
}

func TestTakeoffToClimb(t *testing.T) {
	m := New(testProfile(), nil)
	m.State.Phase = Takeoff
	p, _ := m.Advance(telemetry.Frame{OnGround: false, AltitudeAGL: 600})
	if p != Climb {
		t.Fatalf("got %v, want Climb", p)
	}
}

func TestClimbToCruise(t *testing.T) {
	m := New(testProfile(), nil)
	m.State.Phase = Climb
	m.State.TargetCruiseAlt = 8000
	p, _ := m.Advance(telemetry.Frame{Altitude: 7850, AltitudeAGL: 7000})
	if p != Cruise {
		t.Fatalf("got %v, want Cruise", p)
	}
}

func TestApproachToLanding(t *testing.T) {
	m := New(testProfile(), nil)
	m.State.Phase = Approach
	p, _ := m.Advance(telemetry.Frame{AltitudeAGL: 150, GearDown: true})
	if p != Landing {
		t.Fatalf("got %v, want Landing", p)
	}
}

func TestApproachGoAround(t *testing.T) {
	m := New(testProfile(), nil)
	m.State.Phase = Approach
	m.RecordApproachEntry(3000)
	p, changed := m.Advance(telemetry.Frame{Altitude: 3300, VerticalSpeed: 400, AltitudeAGL: 2500})
	if p != Climb || !changed {
		t.Fatalf("got phase=%v changed=%v, want Climb/true (go-around)", p, changed)
	}
}

func TestLandingGoAround(t *testing.T) {
	m := New(testProfile(), nil)
	m.State.Phase = Landing
	p, _ := m.Advance(telemetry.Frame{OnGround: false, VerticalSpeed: 500, AltitudeAGL: 100})
	if p != Climb {
		t.Fatalf("got %v, want Climb", p)
	}
}

func TestLandingToTaxi(t *testing.T) {
	m := New(testProfile(), nil)
	m.State.Phase = Landing
	p, _ := m.Advance(telemetry.Frame{OnGround: true, GroundSpeed: 20, AltitudeAGL: 0})
	if p != Taxi {
		t.Fatalf("got %v, want Taxi", p)
	}
}

func TestCatchupClassification(t *testing.T) {
	tests := []struct {
		name string
		t    telemetry.Frame
		want Phase
	}{
		{"low agl approach", telemetry.Frame{AltitudeAGL: 1500, OnGround: false}, Approach},
		{"climbing", telemetry.Frame{AltitudeAGL: 5000, VerticalSpeed: 500, OnGround: false}, Climb},
		{"level cruise-ish", telemetry.Frame{AltitudeAGL: 8000, Altitude: 8100, VerticalSpeed: 50, OnGround: false}, Cruise},
		{"default climb", telemetry.Frame{AltitudeAGL: 9000, Altitude: 9000, VerticalSpeed: -50, OnGround: false}, Climb},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := New(testProfile(), nil)
			m.State.TargetCruiseAlt = 8000
			// Debounced over 2 ticks, per the design notes' hysteresis rule.
			m.Advance(tc.t)
			p, _ := m.Advance(tc.t)
			if p != tc.want {
				t.Errorf("got %v, want %v", p, tc.want)
			}
		})
	}
}

func TestManualOverridePinsPhase(t *testing.T) {
	m := New(testProfile(), nil)
	m.SetManual(Preflight)
	p, changed := m.Advance(telemetry.Frame{OnGround: true, EngineRunning: true})
	if p != Preflight || changed {
		t.Fatalf("got phase=%v changed=%v, want Preflight/false while manual", p, changed)
	}
	m.ResumeAuto()
	p, changed = m.Advance(telemetry.Frame{OnGround: true, EngineRunning: true})
	if p != Taxi || !changed {
		t.Fatalf("got phase=%v changed=%v after ResumeAuto, want Taxi/true", p, changed)
	}
}

func TestIdenticalFramesNoTransition(t *testing.T) {
	m := New(testProfile(), nil)
	m.SetManual(Cruise)
	m.ResumeAuto()
	f := telemetry.Frame{OnGround: true, GroundSpeed: 0}
	m.Advance(f)
	_, changed := m.Advance(f)
	if changed {
		t.Fatalf("identical consecutive frames should not transition")
	}
}

func TestReliableOnGround(t *testing.T) {
	tests := []struct {
		name string
		t    telemetry.Frame
		want bool
	}{
		{"clearly airborne", telemetry.Frame{OnGround: false, AltitudeAGL: 5000}, false},
		{"unreliable flag but low and stable", telemetry.Frame{OnGround: false, AltitudeAGL: 10, VerticalSpeed: 50}, true},
		{"flag true and low enough", telemetry.Frame{OnGround: true, AltitudeAGL: 30}, true},
		{"flag true but clearly airborne", telemetry.Frame{OnGround: true, AltitudeAGL: 500}, false},
	}
	for _, tc := range tests {
		if got := telemetry.ReliableOnGround(tc.t); got != tc.want {
			t.Errorf("%s: ReliableOnGround = %v, want %v", tc.name, got, tc.want)
		}
	}
}
