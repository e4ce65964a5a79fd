// Package reactor implements the lumped-parameter model of a single
// catalytic particle growing a filament inside a rotating fluid under
// magnetic confinement and inductive heating.
//
// The [Engine] owns one [State] and advances it one fixed time step per
// call to [Engine.Advance], sequencing:
//
//   - [LiftPID]: discrete controller with soft-start ramp and
//     anti-windup, producing induction power
//   - [VaporShell]: energy balance driving the Leidenfrost vapor
//     radius
//   - [ForceBalance]: buoyancy, gravity, magnetic spring, centrifugal
//     pseudo-force, and two drag regimes (Stokes sphere, slender-body
//     filament), solved for the overdamped drift velocity
//   - [TearOff]: drag-tension vs. adhesion break check
//
// The ambient fluid motion is a Taylor-Couette approximation provided
// by [FlowField]; the rotating trap target comes from [Trap].
//
// The only non-determinism is the injected sensor-noise sample per
// step. Callers supply a [Noise] source built from a seeded generator;
// the engine never reads a global one.
package reactor
