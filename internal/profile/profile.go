// Package profile defines the per-airframe configuration the rule engine
// and command queue are parameterized on, and loads it from a single YAML
// document. Shaped after the config-loading convention used across the
// retrieval pack (e.g. aurel42-phileasgo/pkg/config), since the teacher
// project's own config.go is UI-preferences shaped rather than
// airframe-performance shaped.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Speeds holds the airframe's characteristic airspeeds, in knots.
type Speeds struct {
	Vr      float64 `yaml:"vr"`
	Vx      float64 `yaml:"vx"`
	Vy      float64 `yaml:"vy"`
	Vcruise float64 `yaml:"vcruise"`
	Vfe     float64 `yaml:"vfe"`
	Vno     float64 `yaml:"vno"`
	Vne     float64 `yaml:"vne"`
	Vref    float64 `yaml:"vref"`
	Vs0     float64 `yaml:"vs0"`
	Vs1     float64 `yaml:"vs1"`
}

// Climb holds climb performance.
type Climb struct {
	NormalRate float64 `yaml:"normal_rate"` // fpm, > 0
}

// Descent holds descent performance.
type Descent struct {
	NormalRate   float64 `yaml:"normal_rate"`   // fpm, < 0
	ApproachRate float64 `yaml:"approach_rate"` // fpm, < 0
	TODFactor    float64 `yaml:"tod_factor"`
}

// Limits holds safety-envelope limits.
type Limits struct {
	Ceiling float64 `yaml:"ceiling"`
	MaxAlt  float64 `yaml:"max_alt"`
	MaxVs   float64 `yaml:"max_vs"`
	MinVs   float64 `yaml:"min_vs"`
	MaxBank float64 `yaml:"max_bank"`
}

// PhaseSpeeds holds the per-phase target indicated airspeed.
type PhaseSpeeds struct {
	Climb    float64 `yaml:"climb"`
	Cruise   float64 `yaml:"cruise"`
	Descent  float64 `yaml:"descent"`
	Approach float64 `yaml:"approach"`
}

// Takeoff holds takeoff procedure targets that are airframe-specific but
// not part of Speeds/Climb (throttle setting, departure VS, etc).
type Takeoff struct {
	RollThrottle  float64 `yaml:"roll_throttle"`  // percent, ~100
	DepartureVS   float64 `yaml:"departure_vs"`   // fpm
	TaxiHeading   *float64 `yaml:"taxi_heading,omitempty"`
}

// Aircraft is the single configuration record the controller is loaded
// with at init. See spec invariants in Validate.
type Aircraft struct {
	Name        string      `yaml:"name"`
	Speeds      Speeds      `yaml:"speeds"`
	Climb       Climb       `yaml:"climb"`
	Descent     Descent     `yaml:"descent"`
	Limits      Limits      `yaml:"limits"`
	PhaseSpeeds PhaseSpeeds `yaml:"phase_speeds"`
	Takeoff     Takeoff     `yaml:"takeoff"`
}

// Load reads and validates an Aircraft profile from a YAML file.
func Load(path string) (*Aircraft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	var a Aircraft
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("profile: parse %s: %w", path, err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("profile: %s: %w", path, err)
	}
	return &a, nil
}

// Validate checks the monotonicity and sign invariants spec.md requires
// of an aircraft profile. This is the one boundary-validation point in
// the core: a malformed profile is a configuration error at startup, not
// a runtime condition the control loop needs to tolerate.
func (a *Aircraft) Validate() error {
	s := a.Speeds
	if !(s.Vs1 < s.Vr && s.Vr < s.Vy && s.Vy < s.Vcruise && s.Vcruise < s.Vno && s.Vno < s.Vne) {
		return fmt.Errorf("speeds must satisfy Vs1 < Vr < Vy < Vcruise < Vno < Vne, got %+v", s)
	}
	if a.Climb.NormalRate <= 0 {
		return fmt.Errorf("climb.normal_rate must be > 0, got %v", a.Climb.NormalRate)
	}
	if a.Descent.NormalRate >= 0 {
		return fmt.Errorf("descent.normal_rate must be < 0, got %v", a.Descent.NormalRate)
	}
	return nil
}
