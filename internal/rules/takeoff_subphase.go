package rules

// TakeoffSubPhase is active only while the flight phase is TAKEOFF. It
// never regresses: a fresh TAKEOFF phase entry is required to return to
// BeforeRoll.
type TakeoffSubPhase int

const (
	BeforeRoll TakeoffSubPhase = iota
	Roll
	Rotate
	Liftoff
	InitialClimb
	Departure
)

func (s TakeoffSubPhase) String() string {
	switch s {
	case BeforeRoll:
		return "BEFORE_ROLL"
	case Roll:
		return "ROLL"
	case Rotate:
		return "ROTATE"
	case Liftoff:
		return "LIFTOFF"
	case InitialClimb:
		return "INITIAL_CLIMB"
	case Departure:
		return "DEPARTURE"
	default:
		return "UNKNOWN"
	}
}
