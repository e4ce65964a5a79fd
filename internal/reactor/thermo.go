package reactor

import "math"

// VaporShell is the energy balance behind the Leidenfrost layer:
// induction power heats the particle, a linear leak cools it into the
// bulk fluid, and the insulating vapor radius follows from the stored
// energy through a volumetric relationship.
type VaporShell struct {
	CoolingRate float64 // 1/s
	VolumeCoeff float64 // m^3 per energy unit
}

func NewVaporShell(cfg Config) VaporShell {
	return VaporShell{
		CoolingRate: cfg.CoolingRate,
		VolumeCoeff: cfg.VaporVolumeCoeff,
	}
}

// Update advances the energy balance by dt and refreshes the derived
// vapor radius. Energy is clamped at zero; the radius is never set
// independently.
func (v VaporShell) Update(st *State, dt float64) {
	loss := v.CoolingRate * st.ThermalEnergy
	st.ThermalEnergy += (st.PowerInput - loss) * dt
	if st.ThermalEnergy < 0 {
		st.ThermalEnergy = 0
	}
	st.VaporRadius = math.Cbrt(st.ThermalEnergy * v.VolumeCoeff)
}
