package reactor

import "math"

// axisEpsilon is the radius below which the tangential direction is
// singular and the field degenerates to pure axial lift.
const axisEpsilon = 1e-6

// FlowField is the Taylor-Couette approximation of the tank flow:
// rigid-body swirl at the fluid's angular rate plus a constant axial
// lift, independent of radius.
type FlowField struct {
	Omega     float64 // rad/s
	LiftSpeed float64 // m/s
}

func NewFlowField(fluidRPM, liftSpeed float64) FlowField {
	return FlowField{
		Omega:     rpmToRad(fluidRPM),
		LiftSpeed: liftSpeed,
	}
}

// At returns the fluid velocity at p. Pure function.
func (f FlowField) At(p Vec3) Vec3 {
	r := math.Hypot(p.X, p.Y)
	if r < axisEpsilon {
		return Vec3{Z: f.LiftSpeed}
	}
	vt := f.Omega * r
	return Vec3{
		X: -p.Y / r * vt,
		Y: p.X / r * vt,
		Z: f.LiftSpeed,
	}
}

func rpmToRad(rpm float64) float64 {
	return rpm / 60.0 * 2 * math.Pi
}
