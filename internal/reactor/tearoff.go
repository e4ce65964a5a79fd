package reactor

// TearOff decides mechanical failure: the drag-induced tensile load on
// the filament against its chemical anchoring. Breaks are suppressed
// inside the startup stabilization window, where the controller is
// still settling.
type TearOff struct {
	AdhesionLimit float64 // N
	Window        float64 // s
}

func NewTearOff(cfg Config) TearOff {
	return TearOff{
		AdhesionLimit: cfg.AdhesionLimit,
		Window:        cfg.StabilizationWindow,
	}
}

// Tension estimates the tensile load from relative slip: the filament
// drag coefficient times the drift speed. Growth itself adds no load.
func (d TearOff) Tension(driftSpeed, gammaFil float64) float64 {
	return driftSpeed * gammaFil
}

// Check reports whether the filament snaps at time t under tension.
func (d TearOff) Check(tension, t float64) bool {
	return tension > d.AdhesionLimit && t > d.Window
}
