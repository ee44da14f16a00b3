// Package analysis is the audio analysis engine: a live monophonic pitch
// tracker, a chromagram-based chord recognizer, a cancellable batch scanner
// over full recordings, and a tempo estimator. The engine consumes
// already-decoded sample buffers; capture and decoding belong to the host.
package analysis

import (
	"fmt"
	"math"
)

// AudioFrame is an immutable view of decoded samples. The caller owns the
// buffer for the duration of one analysis call; the engine never retains a
// reference past that call.
type AudioFrame struct {
	Samples    []float32 `json:"-"`
	SampleRate int       `json:"sample_rate"`
}

// Duration returns the frame length in seconds.
func (f AudioFrame) Duration() float64 {
	if f.SampleRate <= 0 {
		return 0
	}
	return float64(len(f.Samples)) / float64(f.SampleRate)
}

// Validate guards the engine boundary against malformed buffers: empty
// sample slices, non-positive sample rates, and NaN/Inf samples all yield a
// descriptive error instead of propagating into the numeric paths.
func (f AudioFrame) Validate() error {
	if len(f.Samples) == 0 {
		return fmt.Errorf("audio frame is empty")
	}
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", f.SampleRate)
	}
	for i, s := range f.Samples {
		f64 := float64(s)
		if math.IsNaN(f64) || math.IsInf(f64, 0) {
			return fmt.Errorf("non-finite sample at index %d", i)
		}
	}
	return nil
}

// slice returns a sub-frame sharing the underlying buffer.
func (f AudioFrame) slice(start, end int) AudioFrame {
	if start < 0 {
		start = 0
	}
	if end > len(f.Samples) {
		end = len(f.Samples)
	}
	return AudioFrame{Samples: f.Samples[start:end], SampleRate: f.SampleRate}
}
