// Package analysis offers frequency-domain analysis of sampled run
// signals, used to judge control-loop stability of the lift velocity.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform with a radix-2
// Cooley-Tukey recursion. len(data) must be a power of two; use
// Truncate first on arbitrary sample sets.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("analysis: fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns the magnitude of the positive-frequency half
// of the transform.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// Truncate cuts data down to the largest power-of-two prefix.
func Truncate(data []float64) []float64 {
	n := 1
	for n*2 <= len(data) {
		n *= 2
	}
	return data[:n]
}

// DominantFrequency returns the strongest non-DC frequency in Hz and
// its magnitude, given the sampling interval of the signal.
func DominantFrequency(data []float64, sampleDt float64) (freq, magnitude float64) {
	data = Truncate(data)
	if len(data) < 4 || sampleDt <= 0 {
		return 0, 0
	}

	// Remove the mean so the DC bin does not dominate.
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return float64(best) / (float64(len(data)) * sampleDt), ps[best]
}
