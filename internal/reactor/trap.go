package reactor

import "math"

// Trap is the rotating magnetic trap. Its target orbits the tank axis
// slightly slower than the fluid, and the spring only centers the
// particle laterally.
type Trap struct {
	Omega     float64 // rad/s
	Radius    float64 // m, orbit radius (= tank radius)
	Stiffness float64 // N/m
}

func NewTrap(magnetRPM, tankRadius, stiffness float64) Trap {
	return Trap{
		Omega:     rpmToRad(magnetRPM),
		Radius:    tankRadius,
		Stiffness: stiffness,
	}
}

// Target returns the trap point at time t. The z component copies the
// particle's current height: the trap tracks height but exerts no
// axial force, a deliberate simplification mirrored in ForceBalance,
// which has no axial magnetic term.
func (tr Trap) Target(t, z float64) Vec3 {
	angle := tr.Omega * t
	return Vec3{
		X: tr.Radius * math.Cos(angle),
		Y: tr.Radius * math.Sin(angle),
		Z: z,
	}
}

// Force returns the lateral spring force on a particle at pos. The z
// component of the displacement is zeroed before scaling.
func (tr Trap) Force(pos Vec3, t float64) Vec3 {
	d := tr.Target(t, pos.Z).Sub(pos)
	d.Z = 0
	return d.Scale(tr.Stiffness)
}
