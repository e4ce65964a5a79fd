package reactor

import "errors"

// Documented preconditions of the force balance. Both are unreachable
// under the shipped profiles and guard pathological configurations.
var (
	// ErrDragVanished indicates sphere and filament drag were both zero,
	// leaving the drift velocity undefined.
	ErrDragVanished = errors.New("reactor: total drag coefficient is not positive")

	// ErrSlenderAspect indicates the slender-body log denominator was not
	// positive, i.e. 2L/r dropped to e^0.5 or below despite the aspect gate.
	ErrSlenderAspect = errors.New("reactor: slender-body denominator is not positive")
)
