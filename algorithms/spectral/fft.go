package spectral

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// FFT provides Fast Fourier Transform functionality for the analysis engine
type FFT struct {
	// No state needed for now
}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the FFT of a real signal using mjibson/go-dsp.
// Handles arbitrary input lengths, including non-power-of-2.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.FFTReal(x)
}

// Magnitude computes the single-sided magnitude spectrum of a real signal.
// The result has len(x)/2+1 bins; bin k corresponds to k*sampleRate/len(x) Hz.
func (f *FFT) Magnitude(x []float64) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	spectrum := fft.FFTReal(x)
	half := len(x)/2 + 1

	magnitude := make([]float64, half)
	for i := 0; i < half; i++ {
		magnitude[i] = math.Sqrt(real(spectrum[i])*real(spectrum[i]) + imag(spectrum[i])*imag(spectrum[i]))
	}
	return magnitude
}

// BinFrequency returns the center frequency of magnitude bin k for a
// transform of size n at the given sample rate.
func BinFrequency(k, n, sampleRate int) float64 {
	return float64(k) * float64(sampleRate) / float64(n)
}
