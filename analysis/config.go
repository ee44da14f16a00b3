package analysis

// Config aggregates the engine configuration for hosts that load it from a
// single document. Each component constructor takes its own section, so
// partial configuration is fine.
type Config struct {
	Pitch   PitchConfig   `json:"pitch"`
	Harmony HarmonyConfig `json:"harmony"`
	Scan    ScanConfig    `json:"scan"`
}

// DefaultConfig returns the full engine default configuration.
func DefaultConfig() Config {
	return Config{
		Pitch:   DefaultPitchConfig(),
		Harmony: DefaultHarmonyConfig(),
		Scan:    DefaultScanConfig(),
	}
}

// PitchConfig contains parameters for the live pitch tracker
type PitchConfig struct {
	Sensitivity      float64 `json:"sensitivity"`       // silence gate level (0-1)
	MinFrequency     float64 `json:"min_frequency"`     // pitch search band low edge (Hz)
	MaxFrequency     float64 `json:"max_frequency"`     // pitch search band high edge (Hz)
	CorrelationFloor float64 `json:"correlation_floor"` // reject autocorrelation peaks below this
	MedianWindow     int     `json:"median_window"`     // frames of median smoothing on accepted detections

	// Optional neural estimator
	UseNeuralModel        bool    `json:"use_neural_model"`
	ModelPath             string  `json:"model_path"`
	NeuralConfidenceFloor float64 `json:"neural_confidence_floor"` // fall back below this
	NeuralMinFreq         float64 `json:"neural_min_freq"`         // lowest model bin (Hz)
	NeuralMaxFreq         float64 `json:"neural_max_freq"`         // highest model bin (Hz)
	NeuralBins            int     `json:"neural_bins"`             // log-spaced frequency bins
	NeuralSampleRate      int     `json:"neural_sample_rate"`      // model input rate
	NeuralInputLength     int     `json:"neural_input_length"`     // model input length in samples
}

// DefaultPitchConfig returns sensible defaults for instrument tracking
func DefaultPitchConfig() PitchConfig {
	return PitchConfig{
		Sensitivity:           0.5,
		MinFrequency:          80.0,   // low guitar/bass register
		MaxFrequency:          2000.0, // upper fretboard harmonics
		CorrelationFloor:      0.3,
		MedianWindow:          3,
		NeuralConfidenceFloor: 0.35,
		NeuralMinFreq:         50.0,
		NeuralMaxFreq:         550.0,
		NeuralBins:            360,
		NeuralSampleRate:      16000,
		NeuralInputLength:     1024,
	}
}

// HarmonyConfig contains parameters for the chord recognizer
type HarmonyConfig struct {
	ConfidenceFloor      float64 `json:"confidence_floor"`       // reject matches below this score
	AggregationWindowSec float64 `json:"aggregation_window_sec"` // live rolling chroma span
	LiveHopSec           float64 `json:"live_hop_sec"`           // expected cadence of PushLive windows
	MinFrequency         float64 `json:"min_frequency"`          // chromagram fold band low edge
	MaxFrequency         float64 `json:"max_frequency"`          // chromagram fold band high edge
}

// DefaultHarmonyConfig returns sensible defaults for chord recognition
func DefaultHarmonyConfig() HarmonyConfig {
	return HarmonyConfig{
		ConfidenceFloor:      0.5,
		AggregationWindowSec: 0.8,
		LiveHopSec:           0.2,
		MinFrequency:         40.0,
		MaxFrequency:         5000.0,
	}
}

// ScanConfig contains parameters for the batch scanner. The dedup window
// and minimum chord duration are empirically chosen values surfaced as
// configuration rather than constants.
type ScanConfig struct {
	WindowSec           float64 `json:"window_sec"`             // analysis window span
	HopSec              float64 `json:"hop_sec"`                // window advance step
	ConfidenceFloor     float64 `json:"confidence_floor"`       // per-window match floor
	DedupWindowSec      float64 `json:"dedup_window_sec"`       // suppress identical streamed labels within this span
	MinChordDurationSec float64 `json:"min_chord_duration_sec"` // drop merged events shorter than this; 0 = 1.2*hop
	Workers             int     `json:"workers"`                // parallel window matchers; <=1 is sequential

	// Streaming callbacks; both optional. Invoked from the scanning
	// goroutine in window time order.
	OnProgress  func(fraction float64)    `json:"-"`
	OnCandidate func(cand ChordCandidate) `json:"-"`
}

// DefaultScanConfig returns the default 1.0s window / 0.5s hop sweep,
// trading frequency resolution against time resolution and CPU cost.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		WindowSec:       1.0,
		HopSec:          0.5,
		ConfidenceFloor: 0.5,
		DedupWindowSec:  0.1,
		Workers:         1,
	}
}

func (c ScanConfig) withDefaults() ScanConfig {
	if c.WindowSec <= 0 {
		c.WindowSec = 1.0
	}
	if c.HopSec <= 0 {
		c.HopSec = c.WindowSec / 2
	}
	if c.ConfidenceFloor <= 0 {
		c.ConfidenceFloor = 0.5
	}
	if c.DedupWindowSec <= 0 {
		c.DedupWindowSec = 0.1
	}
	if c.MinChordDurationSec <= 0 {
		c.MinChordDurationSec = 1.2 * c.HopSec
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return c
}
