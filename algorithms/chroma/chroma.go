// Package chroma computes 12-bin pitch class profiles (chromagrams) from
// audio windows by folding spectral energy onto the chromatic scale.
package chroma

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/fretlab/auralis/algorithms/spectral"
)

// Chromagram is a 12-bin pitch class energy vector, C through B,
// normalized so the bins sum to 1. A silent window yields all zeros.
type Chromagram [12]float64

// Dominant returns the index of the strongest pitch class.
func (c Chromagram) Dominant() int {
	best := 0
	for i := 1; i < 12; i++ {
		if c[i] > c[best] {
			best = i
		}
	}
	return best
}

// Energy returns the total (pre-normalization always 1, post-silence 0).
func (c Chromagram) Energy() float64 {
	return floats.Sum(c[:])
}

// AnalyzerParams holds parameters for chromagram computation
type AnalyzerParams struct {
	MinFreq       float64 `json:"min_freq"`       // lowest folded frequency (Hz)
	MaxFreq       float64 `json:"max_freq"`       // highest folded frequency (Hz)
	ReferenceFreq float64 `json:"reference_freq"` // A4 tuning reference
}

// Analyzer computes chromagrams from raw sample windows.
type Analyzer struct {
	params     AnalyzerParams
	sampleRate int
	fft        *spectral.FFT

	// Hann coefficients cached per window length
	win     []float64
	scratch []float64
}

// NewAnalyzer creates a chromagram analyzer with default parameters.
func NewAnalyzer(sampleRate int) *Analyzer {
	return NewAnalyzerWithParams(sampleRate, AnalyzerParams{
		MinFreq:       40.0,
		MaxFreq:       5000.0,
		ReferenceFreq: 440.0,
	})
}

// NewAnalyzerWithParams creates a chromagram analyzer with custom parameters.
func NewAnalyzerWithParams(sampleRate int, params AnalyzerParams) *Analyzer {
	return &Analyzer{
		params:     params,
		sampleRate: sampleRate,
		fft:        spectral.NewFFT(),
	}
}

// Compute folds the spectral energy of one window onto the 12 pitch
// classes. Bins outside [MinFreq, MaxFreq] are ignored; the result is
// normalized to sum to 1 unless the window carries no energy.
func (a *Analyzer) Compute(samples []float32) Chromagram {
	var cg Chromagram
	n := len(samples)
	if n == 0 {
		return cg
	}

	if len(a.win) != n {
		a.win = spectral.HannWindow(n)
		a.scratch = make([]float64, n)
	}
	for i, s := range samples {
		a.scratch[i] = float64(s) * a.win[i]
	}

	magnitude := a.fft.Magnitude(a.scratch)

	for k := 1; k < len(magnitude); k++ {
		freq := spectral.BinFrequency(k, n, a.sampleRate)
		if freq < a.params.MinFreq {
			continue
		}
		if freq > a.params.MaxFreq {
			break
		}

		// Spectral energy, not magnitude: squaring sharpens peaks so a
		// chord's three tones dominate their spectral skirts
		cg[a.pitchClass(freq)] += magnitude[k] * magnitude[k]
	}

	total := floats.Sum(cg[:])
	if total > 0 {
		for i := range cg {
			cg[i] /= total
		}
	}
	return cg
}

// pitchClass maps a frequency to its chromatic pitch class via MIDI math
// (A4 = ReferenceFreq = MIDI 69).
func (a *Analyzer) pitchClass(freq float64) int {
	midi := 69.0 + 12.0*math.Log2(freq/a.params.ReferenceFreq)
	pc := int(math.Round(midi)) % 12
	if pc < 0 {
		pc += 12
	}
	return pc
}

// Running maintains a bounded FIFO of recent chromagrams and their running
// average. It smooths live recognition across a short time window so the
// match does not flicker between harmonically adjacent chords.
type Running struct {
	frames   []Chromagram
	capacity int
}

// NewRunning creates a running chroma average holding up to capacity frames.
func NewRunning(capacity int) *Running {
	if capacity < 1 {
		capacity = 1
	}
	return &Running{capacity: capacity}
}

// Push appends a chromagram, evicting the oldest when full.
func (r *Running) Push(cg Chromagram) {
	if len(r.frames) == r.capacity {
		copy(r.frames, r.frames[1:])
		r.frames[len(r.frames)-1] = cg
		return
	}
	r.frames = append(r.frames, cg)
}

// Average returns the mean of the buffered chromagrams, renormalized.
func (r *Running) Average() Chromagram {
	var avg Chromagram
	if len(r.frames) == 0 {
		return avg
	}

	for _, f := range r.frames {
		for i := range avg {
			avg[i] += f[i]
		}
	}

	total := floats.Sum(avg[:])
	if total > 0 {
		for i := range avg {
			avg[i] /= total
		}
	}
	return avg
}

// Len returns the number of buffered frames.
func (r *Running) Len() int {
	return len(r.frames)
}

// Reset empties the buffer.
func (r *Running) Reset() {
	r.frames = r.frames[:0]
}
