package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func validYAML() string {
	return `
name: Cessna 172
speeds:
  vs1: 48
  vr: 55
  vy: 79
  vcruise: 110
  vno: 140
  vne: 163
climb:
  normal_rate: 700
descent:
  normal_rate: -500
  approach_rate: -700
  tod_factor: 3
limits:
  ceiling: 14000
  max_alt: 14000
  max_vs: 1500
  min_vs: -1500
  max_bank: 30
phase_speeds:
  climb: 85
  cruise: 105
  descent: 90
  approach: 70
takeoff:
  roll_throttle: 100
  departure_vs: 700
`
}

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "profile.yaml")
	if err := os.WriteFile(p, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp profile: %v", err)
	}
	return p
}

func TestLoadValidProfile(t *testing.T) {
	p := writeTemp(t, validYAML())
	a, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Name != "Cessna 172" {
		t.Errorf("Name = %q, want Cessna 172", a.Name)
	}
	if a.Speeds.Vr != 55 {
		t.Errorf("Vr = %v, want 55", a.Speeds.Vr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/profile.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateSpeedOrdering(t *testing.T) {
	a := &Aircraft{
		Speeds: Speeds{Vs1: 60, Vr: 55, Vy: 79, Vcruise: 110, Vno: 140, Vne: 163},
		Climb:  Climb{NormalRate: 700},
		Descent: Descent{NormalRate: -500},
	}
	if err := a.Validate(); err == nil {
		t.Fatal("expected error for out-of-order speeds")
	}
}

func TestValidateClimbRateMustBePositive(t *testing.T) {
	a := &Aircraft{
		Speeds:  Speeds{Vs1: 48, Vr: 55, Vy: 79, Vcruise: 110, Vno: 140, Vne: 163},
		Climb:   Climb{NormalRate: 0},
		Descent: Descent{NormalRate: -500},
	}
	if err := a.Validate(); err == nil {
		t.Fatal("expected error for non-positive climb rate")
	}
}

func TestValidateDescentRateMustBeNegative(t *testing.T) {
	a := &Aircraft{
		Speeds:  Speeds{Vs1: 48, Vr: 55, Vy: 79, Vcruise: 110, Vno: 140, Vne: 163},
		Climb:   Climb{NormalRate: 700},
		Descent: Descent{NormalRate: 0},
	}
	if err := a.Validate(); err == nil {
		t.Fatal("expected error for non-negative descent rate")
	}
}
