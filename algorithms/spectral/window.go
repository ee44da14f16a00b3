package spectral

import (
	"github.com/mjibson/go-dsp/window"
)

// HannWindow returns Hann window coefficients of the given length.
func HannWindow(size int) []float64 {
	if size <= 0 {
		return []float64{}
	}
	return window.Hann(size)
}

// ApplyWindow multiplies the signal by the window in place. When lengths
// differ, the overlapping prefix is windowed and the rest left untouched.
func ApplyWindow(signal, win []float64) {
	n := len(signal)
	if len(win) < n {
		n = len(win)
	}
	for i := 0; i < n; i++ {
		signal[i] *= win[i]
	}
}
