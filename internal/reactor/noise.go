package reactor

import "math/rand"

// Noise supplies one sensor-noise sample per step. Injecting it keeps
// the engine deterministic under test: the engine never reads a global
// random source.
type Noise func() float64

// NoNoise returns zero every step.
func NoNoise() float64 { return 0 }

// SensorNoise draws normally distributed samples (mean 0, sigma std)
// from a caller-seeded generator.
func SensorNoise(rng *rand.Rand, std float64) Noise {
	return func() float64 {
		return rng.NormFloat64() * std
	}
}
