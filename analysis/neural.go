package analysis

import (
	"math"
	"sync"
)

// ModelEstimate is the decoded output of one neural pitch inference.
type ModelEstimate struct {
	Frequency  float64 `json:"frequency"`
	Confidence float64 `json:"confidence"`
}

// PitchModel is the neural pitch estimation capability. Implementations run
// inference over a fixed-rate, fixed-length input and return a confidence
// distribution already decoded to a frequency estimate. The autocorrelation
// path never depends on a model being present or responsive.
type PitchModel interface {
	Estimate(samples []float32, sampleRate int) (ModelEstimate, error)
	Close() error
}

// decodeActivation turns a model's confidence distribution over log-spaced
// frequency bins into a frequency estimate. The arg-max bin is refined by a
// confidence-weighted average over +-2 neighboring bins, computed in the
// log-frequency domain where the bins are evenly spaced.
func decodeActivation(activation []float32, minFreq, maxFreq float64) ModelEstimate {
	n := len(activation)
	if n == 0 || maxFreq <= minFreq {
		return ModelEstimate{}
	}

	best := 0
	for i := 1; i < n; i++ {
		if activation[i] > activation[best] {
			best = i
		}
	}
	conf := float64(activation[best])

	logMin := math.Log2(minFreq)
	logStep := (math.Log2(maxFreq) - logMin) / float64(n-1)

	weightSum := 0.0
	logFreqSum := 0.0
	for i := best - 2; i <= best+2; i++ {
		if i < 0 || i >= n {
			continue
		}
		w := float64(activation[i])
		if w <= 0 {
			continue
		}
		weightSum += w
		logFreqSum += w * (logMin + float64(i)*logStep)
	}
	if weightSum == 0 {
		return ModelEstimate{Confidence: conf}
	}

	return ModelEstimate{
		Frequency:  math.Pow(2.0, logFreqSum/weightSum),
		Confidence: conf,
	}
}

// resampleLinear resamples audio between rates by linear interpolation and
// pads or truncates to targetLen. Model inputs do not need better quality
// than this.
func resampleLinear(samples []float32, srcRate, dstRate, targetLen int) []float32 {
	out := make([]float32, targetLen)
	if len(samples) == 0 || srcRate <= 0 || dstRate <= 0 {
		return out
	}

	ratio := float64(srcRate) / float64(dstRate)
	for i := range out {
		srcIdx := float64(i) * ratio
		j := int(srcIdx)
		frac := float32(srcIdx - float64(j))

		if j+1 < len(samples) {
			out[i] = samples[j]*(1-frac) + samples[j+1]*frac
		} else if j < len(samples) {
			out[i] = samples[j]
		}
	}
	return out
}

// normalizeInput applies zero-mean unit-variance normalization in place.
func normalizeInput(samples []float32) {
	if len(samples) == 0 {
		return
	}

	mean := 0.0
	for _, s := range samples {
		mean += float64(s)
	}
	mean /= float64(len(samples))

	variance := 0.0
	for _, s := range samples {
		d := float64(s) - mean
		variance += d * d
	}
	variance /= float64(len(samples))

	std := math.Sqrt(variance)
	if std < 1e-8 {
		std = 1e-8
	}
	for i := range samples {
		samples[i] = float32((float64(samples[i]) - mean) / std)
	}
}

// neuralWorker runs model inference off the live path. The frame loop
// submits frames without blocking (a busy worker drops them) and consumes
// the most recent completed estimate; a result that arrives late is simply
// used for a later frame or not at all.
type inferenceJob struct {
	samples []float32
	rate    int
}

type neuralWorker struct {
	model PitchModel
	in    chan inferenceJob

	mu       sync.Mutex
	latest   ModelEstimate
	seq      uint64
	consumed uint64

	done chan struct{}
}

func newNeuralWorker(model PitchModel) *neuralWorker {
	w := &neuralWorker{
		model: model,
		in:    make(chan inferenceJob, 1),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *neuralWorker) run() {
	defer close(w.done)
	for job := range w.in {
		est, err := w.model.Estimate(job.samples, job.rate)
		if err != nil {
			continue
		}
		w.mu.Lock()
		w.latest = est
		w.seq++
		w.mu.Unlock()
	}
}

// submit hands a frame copy to the worker unless it is still busy.
func (w *neuralWorker) submit(samples []float32, rate int) {
	frame := make([]float32, len(samples))
	copy(frame, samples)

	select {
	case w.in <- inferenceJob{samples: frame, rate: rate}:
	default:
		// Worker busy; this frame falls back to autocorrelation
	}
}

// take returns the most recent estimate not yet consumed, if any.
func (w *neuralWorker) take() (ModelEstimate, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seq == w.consumed {
		return ModelEstimate{}, false
	}
	w.consumed = w.seq
	return w.latest, true
}

func (w *neuralWorker) close() error {
	close(w.in)
	<-w.done
	return w.model.Close()
}
