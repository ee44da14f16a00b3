package analysis

import (
	"math"

	"github.com/fretlab/auralis/algorithms/stats"
	"github.com/fretlab/auralis/logging"
	"github.com/fretlab/auralis/theory"
)

// TrackerState is the live tracker lifecycle. There is no terminal error
// state: every per-frame failure degrades to "no detection for this frame".
type TrackerState int

const (
	TrackerIdle TrackerState = iota
	TrackerListening
)

// startDuration is assigned to the first NoteEvent of a stream, where no
// previous accepted note exists to measure from.
const startDuration = 0.1

// PitchTracker is the live monophonic frequency estimator. Estimate is
// synchronous and allocation-bounded; it is meant to be called once per
// incoming capture frame. Track layers median smoothing and NoteEvent
// construction on top for the caller-visible note stream.
//
// A tracker owns its smoothing state exclusively; concurrent streams need
// separate instances.
type PitchTracker struct {
	cfg        PitchConfig
	sampleRate int

	autocorr *stats.AutoCorrelation
	scratch  []float64

	// Note stream state
	state         TrackerState
	freqWindow    []float64
	lastEventTime float64
	haveLastEvent bool

	// Optional neural capability
	worker *neuralWorker
	logger logging.Logger
}

// NewPitchTracker creates a tracker with the given configuration. Zero
// config fields take the documented defaults. When cfg.UseNeuralModel is
// set, a model load failure is logged as a warning and the tracker
// continues on autocorrelation alone: degraded mode, not an error.
func NewPitchTracker(cfg PitchConfig) *PitchTracker {
	def := DefaultPitchConfig()
	if cfg.Sensitivity <= 0 {
		cfg.Sensitivity = def.Sensitivity
	}
	if cfg.MinFrequency <= 0 {
		cfg.MinFrequency = def.MinFrequency
	}
	if cfg.MaxFrequency <= cfg.MinFrequency {
		cfg.MaxFrequency = def.MaxFrequency
	}
	if cfg.CorrelationFloor <= 0 {
		cfg.CorrelationFloor = def.CorrelationFloor
	}
	if cfg.MedianWindow <= 0 {
		cfg.MedianWindow = def.MedianWindow
	}
	if cfg.NeuralConfidenceFloor <= 0 {
		cfg.NeuralConfidenceFloor = def.NeuralConfidenceFloor
	}
	if cfg.NeuralMinFreq <= 0 {
		cfg.NeuralMinFreq = def.NeuralMinFreq
	}
	if cfg.NeuralMaxFreq <= cfg.NeuralMinFreq {
		cfg.NeuralMaxFreq = def.NeuralMaxFreq
	}
	if cfg.NeuralBins <= 0 {
		cfg.NeuralBins = def.NeuralBins
	}
	if cfg.NeuralSampleRate <= 0 {
		cfg.NeuralSampleRate = def.NeuralSampleRate
	}
	if cfg.NeuralInputLength <= 0 {
		cfg.NeuralInputLength = def.NeuralInputLength
	}

	pt := &PitchTracker{
		cfg:    cfg,
		logger: logging.WithFields(logging.Fields{"component": "pitch_tracker"}),
	}

	if cfg.UseNeuralModel {
		model, err := LoadPitchModel(cfg)
		if err != nil {
			pt.logger.Warn("neural pitch model unavailable, using autocorrelation only",
				logging.Fields{"model_path": cfg.ModelPath, "reason": err.Error()})
		} else {
			pt.worker = newNeuralWorker(model)
		}
	}

	return pt
}

// State returns the tracker lifecycle state.
func (pt *PitchTracker) State() TrackerState {
	return pt.state
}

// Estimate analyzes one frame and returns a pitch estimate. Silence and
// below-floor correlation produce an unvoiced estimate with a nil error.
func (pt *PitchTracker) Estimate(frame AudioFrame) (PitchEstimate, error) {
	if err := frame.Validate(); err != nil {
		return PitchEstimate{}, err
	}

	// Silence gate
	if stats.MeanAbs(frame.Samples) < pt.cfg.Sensitivity*0.1 {
		return PitchEstimate{}, nil
	}

	if err := pt.prepare(frame.SampleRate, len(frame.Samples)); err != nil {
		return PitchEstimate{}, err
	}
	for i, s := range frame.Samples {
		pt.scratch[i] = float64(s)
	}

	estimate := pt.estimateAutocorrelation(pt.scratch[:len(frame.Samples)], frame.SampleRate)

	// The neural estimate, when available and confident, overrides the
	// numeric one. The worker is never waited on: a slow inference just
	// means this frame stays on autocorrelation.
	if pt.worker != nil {
		pt.worker.submit(frame.Samples, frame.SampleRate)
		if est, ok := pt.worker.take(); ok && est.Confidence >= pt.cfg.NeuralConfidenceFloor && est.Frequency > 0 {
			return PitchEstimate{
				Frequency:  est.Frequency,
				Confidence: est.Confidence,
				Voiced:     true,
			}, nil
		}
	}

	return estimate, nil
}

// prepare (re)builds the lag band and scratch buffer when the frame format
// changes. On a steady live stream this happens once.
func (pt *PitchTracker) prepare(sampleRate, frameLen int) error {
	if pt.autocorr == nil || pt.sampleRate != sampleRate {
		minLag := int(float64(sampleRate) / pt.cfg.MaxFrequency)
		if minLag < 1 {
			minLag = 1
		}
		maxLag := int(math.Ceil(float64(sampleRate) / pt.cfg.MinFrequency))

		ac, err := stats.NewAutoCorrelation(minLag, maxLag)
		if err != nil {
			return err
		}
		pt.autocorr = ac
		pt.sampleRate = sampleRate
	}

	if cap(pt.scratch) < frameLen {
		pt.scratch = make([]float64, frameLen)
	}
	pt.scratch = pt.scratch[:frameLen]
	return nil
}

func (pt *PitchTracker) estimateAutocorrelation(signal []float64, sampleRate int) PitchEstimate {
	peak, err := pt.autocorr.BestPeak(signal)
	if err != nil || peak.Lag == 0 || peak.Correlation < pt.cfg.CorrelationFloor {
		return PitchEstimate{}
	}

	freq := float64(sampleRate) / peak.Lag
	if freq < pt.cfg.MinFrequency || freq > pt.cfg.MaxFrequency {
		return PitchEstimate{}
	}

	_, cents, err := theory.Nearest(freq)
	if err != nil {
		return PitchEstimate{}
	}

	return PitchEstimate{
		Frequency:  freq,
		Confidence: math.Max(0, 1.0-math.Abs(cents)/50.0),
		Voiced:     true,
	}
}

// Track runs Estimate and, on an accepted detection, applies windowed
// median smoothing and emits a NoteEvent. Returns nil for frames with no
// detection; the next frame tries again naturally.
func (pt *PitchTracker) Track(frame AudioFrame, timestamp float64) (*NoteEvent, error) {
	estimate, err := pt.Estimate(frame)
	if err != nil {
		return nil, err
	}
	pt.state = TrackerListening

	if !estimate.Voiced {
		return nil, nil
	}

	// Windowed median over recent accepted frequencies suppresses
	// single-frame jitter and octave blips
	if len(pt.freqWindow) == pt.cfg.MedianWindow {
		copy(pt.freqWindow, pt.freqWindow[1:])
		pt.freqWindow[len(pt.freqWindow)-1] = estimate.Frequency
	} else {
		pt.freqWindow = append(pt.freqWindow, estimate.Frequency)
	}
	smoothed := stats.Median(pt.freqWindow)

	note, _, err := theory.Nearest(smoothed)
	if err != nil {
		return nil, nil
	}

	duration := startDuration
	if pt.haveLastEvent {
		duration = timestamp - pt.lastEventTime
		if duration < 0 {
			duration = 0
		}
	}
	pt.lastEventTime = timestamp
	pt.haveLastEvent = true

	return &NoteEvent{
		Timestamp:  timestamp,
		Note:       note.Name,
		Frequency:  smoothed,
		Duration:   duration,
		Velocity:   math.Min(1.0, 2.0*stats.MeanAbs(frame.Samples)),
		Confidence: estimate.Confidence,
	}, nil
}

// Reset clears the smoothing state and returns the tracker to Idle, as for
// a session restart. The neural capability stays attached.
func (pt *PitchTracker) Reset() {
	pt.freqWindow = pt.freqWindow[:0]
	pt.haveLastEvent = false
	pt.lastEventTime = 0
	pt.state = TrackerIdle
}

// Close releases the neural worker, if one is attached.
func (pt *PitchTracker) Close() error {
	if pt.worker == nil {
		return nil
	}
	err := pt.worker.close()
	pt.worker = nil
	return err
}
