package reactor

// State is the single mutable record of a run, owned exclusively by
// the Engine and mutated once per Advance.
type State struct {
	Position         Vec3    // m, always finite in nominal operation
	FilamentLength   float64 // m, >= seed length; reset to seed on break
	ThermalEnergy    float64 // >= 0, clamped
	VaporRadius      float64 // m, derived from ThermalEnergy each step
	PowerInput       float64 // clamped to [0, PowerMax]
	PIDIntegral      float64 // clamped to [-IntegralClamp, IntegralClamp]
	PIDLastError     float64 // previous step's velocity error
	VerticalVelocity float64 // m/s, last net z velocity, next step's measurement
	BreakCount       int     // monotonically increasing
	MaxLength        float64 // running maximum of FilamentLength, survives breaks
}

// StepResult is the per-step snapshot handed back to the driver.
type StepResult struct {
	Position         Vec3
	FilamentLength   float64 // m
	PowerInput       float64
	TargetVelocity   float64 // m/s, ramped setpoint for reporting
	VaporRadius      float64 // m
	Tension          float64 // N, drag-induced tensile load on the filament
	VerticalVelocity float64 // m/s
	Broke            bool    // filament snapped this step
}
