package reactor

// Engine owns the reactor state and advances it one fixed time step
// per call. Single-writer by construction: no concurrent steps exist.
type Engine struct {
	cfg    Config
	flow   FlowField
	trap   Trap
	pid    LiftPID
	shell  VaporShell
	forces ForceBalance
	tear   TearOff
	noise  Noise
	st     State
}

// New builds an engine from an immutable config and an injected noise
// source. A nil noise source disables sensor noise.
func New(cfg Config, noise Noise) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if noise == nil {
		noise = NoNoise
	}
	trap := NewTrap(cfg.MagnetRPM, cfg.TankRadius, cfg.MagnetStiffness)
	return &Engine{
		cfg:    cfg,
		flow:   NewFlowField(cfg.FluidRPM, cfg.LiftSpeed),
		trap:   trap,
		pid:    NewLiftPID(cfg),
		shell:  NewVaporShell(cfg),
		forces: NewForceBalance(cfg, trap),
		tear:   NewTearOff(cfg),
		noise:  noise,
		st: State{
			Position:       Vec3{X: cfg.TankRadius},
			FilamentLength: cfg.SeedLength,
		},
	}, nil
}

// Config returns the run configuration.
func (e *Engine) Config() Config { return e.cfg }

// State returns a copy of the current reactor state.
func (e *Engine) State() State { return e.st }

// Advance runs one transition at elapsed time t and returns the step
// snapshot. The only error paths are the two documented force-balance
// preconditions, unreachable under the shipped profiles.
func (e *Engine) Advance(t float64) (StepResult, error) {
	st := &e.st
	dt := e.cfg.Dt

	// Chemical growth, recorded before any break this step so the
	// record tracks the best single episode.
	st.FilamentLength += e.cfg.GrowthRate * dt
	if st.FilamentLength > st.MaxLength {
		st.MaxLength = st.FilamentLength
	}

	target := e.pid.Update(st, t, dt, e.noise())
	e.shell.Update(st, dt)

	drift, gammaFil, err := e.forces.Resolve(*st, t)
	if err != nil {
		return StepResult{}, err
	}

	total := e.flow.At(st.Position).Add(drift)
	st.Position = st.Position.Add(total.Scale(dt))
	st.VerticalVelocity = total.Z

	tension := e.tear.Tension(drift.Norm(), gammaFil)
	broke := e.tear.Check(tension, t)
	if broke {
		st.BreakCount++
		st.FilamentLength = e.cfg.SeedLength
	}

	return StepResult{
		Position:         st.Position,
		FilamentLength:   st.FilamentLength,
		PowerInput:       st.PowerInput,
		TargetVelocity:   target,
		VaporRadius:      st.VaporRadius,
		Tension:          tension,
		VerticalVelocity: st.VerticalVelocity,
		Broke:            broke,
	}, nil
}
