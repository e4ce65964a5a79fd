package reactor

// LiftPID is the discrete controller regulating vertical slip by
// adjusting induction power. All mutable terms (integral, last error,
// accumulated power) live in State so a step stays testable in
// isolation given a state and a noise sample.
type LiftPID struct {
	Kp, Ki, Kd    float64
	Setpoint      float64 // m/s, unramped lift speed
	RampTime      float64 // s
	IntegralClamp float64
	PowerMax      float64
}

func NewLiftPID(cfg Config) LiftPID {
	return LiftPID{
		Kp:            cfg.Kp,
		Ki:            cfg.Ki,
		Kd:            cfg.Kd,
		Setpoint:      cfg.LiftSpeed,
		RampTime:      cfg.RampTime,
		IntegralClamp: cfg.IntegralClamp,
		PowerMax:      cfg.PowerMax,
	}
}

// TargetAt returns the ramped setpoint: a linear soft-start over
// RampTime prevents overshoot while the shell is still cold.
func (p LiftPID) TargetAt(t float64) float64 {
	if t < p.RampTime {
		return p.Setpoint * t / p.RampTime
	}
	return p.Setpoint
}

// Update runs one controller step against the previous real vertical
// velocity plus a sensor-noise sample, accumulates the adjustment into
// PowerInput, and returns the ramped target.
func (p LiftPID) Update(st *State, t, dt, noise float64) float64 {
	target := p.TargetAt(t)
	measured := st.VerticalVelocity + noise

	err := target - measured

	st.PIDIntegral = clamp(st.PIDIntegral+err*dt, -p.IntegralClamp, p.IntegralClamp)
	derivative := (err - st.PIDLastError) / dt

	adj := p.Kp*err + p.Ki*st.PIDIntegral + p.Kd*derivative
	st.PowerInput = clamp(st.PowerInput+adj*dt, 0, p.PowerMax)
	st.PIDLastError = err

	return target
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
