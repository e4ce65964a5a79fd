// Package sim drives a reactor engine through a full run: fixed-step
// iteration, history sampling, metrics and observers. It owns nothing
// but the loop; all modeling lives in internal/reactor.
package sim

import (
	"context"
	"fmt"

	"github.com/vortexlabs/talaria/internal/reactor"
)

// Config holds the loop settings.
type Config struct {
	Duration    float64 // s
	SampleEvery int     // steps between samples; <=0 means every step
	Seed        int64   // recorded for reproducibility, noise is the engine's
}

// Sample is one history row at reduced cadence.
type Sample struct {
	Time             float64
	Position         reactor.Vec3
	FilamentLength   float64
	PowerInput       float64
	TargetVelocity   float64
	VerticalVelocity float64
	VaporRadius      float64
	Tension          float64
	Broke            bool
}

// Metric aggregates a scalar over every step of a run.
type Metric interface {
	Name() string
	Observe(res reactor.StepResult, t float64)
	Value() float64
	Reset()
}

// Observer is called once per step, before sampling decimation.
type Observer interface {
	OnStep(res reactor.StepResult, t float64)
}

// Result is the outcome of a completed (or canceled) run.
type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	Breaks     int
	MaxLength  float64
	Final      reactor.State
}

// Runner repeatedly advances one engine. Single-threaded: exactly one
// step is in flight at a time.
type Runner struct {
	engine    *reactor.Engine
	metrics   []Metric
	observers []Observer
}

func New(engine *reactor.Engine) *Runner {
	return &Runner{engine: engine}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run advances the engine Duration/dt times with t = i*dt, sampling
// every SampleEvery steps plus every break step. A canceled context
// returns the partial result together with ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validate(cfg); err != nil {
		return nil, err
	}

	dt := r.engine.Config().Dt
	steps := int(cfg.Duration / dt)
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Samples: make([]Sample, 0, steps/every+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		t := float64(i) * dt
		res, err := r.engine.Advance(t)
		if err != nil {
			r.finish(result)
			return result, fmt.Errorf("step %d (t=%.4f): %w", i, t, err)
		}

		for _, m := range r.metrics {
			m.Observe(res, t)
		}
		for _, obs := range r.observers {
			obs.OnStep(res, t)
		}

		if i%every == 0 || res.Broke {
			result.Samples = append(result.Samples, toSample(res, t))
		}
		result.StepsTaken++
	}

	r.finish(result)
	return result, nil
}

// RunWithCallback advances the engine until the callback returns false
// or the duration elapses. Used by the live view.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(res reactor.StepResult, t float64) bool) error {
	if err := r.validate(cfg); err != nil {
		return err
	}

	dt := r.engine.Config().Dt
	steps := int(cfg.Duration / dt)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := float64(i) * dt
		res, err := r.engine.Advance(t)
		if err != nil {
			return fmt.Errorf("step %d (t=%.4f): %w", i, t, err)
		}
		if !callback(res, t) {
			return nil
		}
	}
	return nil
}

func (r *Runner) validate(cfg Config) error {
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

func (r *Runner) finish(result *Result) {
	st := r.engine.State()
	result.Breaks = st.BreakCount
	result.MaxLength = st.MaxLength
	result.Final = st
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func toSample(res reactor.StepResult, t float64) Sample {
	return Sample{
		Time:             t,
		Position:         res.Position,
		FilamentLength:   res.FilamentLength,
		PowerInput:       res.PowerInput,
		TargetVelocity:   res.TargetVelocity,
		VerticalVelocity: res.VerticalVelocity,
		VaporRadius:      res.VaporRadius,
		Tension:          res.Tension,
		Broke:            res.Broke,
	}
}
