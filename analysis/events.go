package analysis

// PitchEstimate is the per-frame output of the pitch tracker. Voiced=false
// is the normal "no signal / no pitch" result, not an error.
type PitchEstimate struct {
	Frequency  float64 `json:"frequency"`  // Hz; 0 when unvoiced
	Confidence float64 `json:"confidence"` // 0-1
	Voiced     bool    `json:"voiced"`
}

// NoteEvent is one accepted detection on the live note stream. Immutable
// once emitted.
type NoteEvent struct {
	Timestamp  float64 `json:"timestamp"`  // seconds
	Note       string  `json:"note"`       // e.g. "A4"
	Frequency  float64 `json:"frequency"`  // smoothed Hz
	Duration   float64 `json:"duration"`   // seconds since the previous accepted note
	Velocity   float64 `json:"velocity"`   // 0-1, from frame amplitude
	Confidence float64 `json:"confidence"` // 0-1
}

// ChordCandidate is the transient ranking output of template matching for
// one window.
type ChordCandidate struct {
	Template  *ChordTemplate `json:"template"`
	Score     float64        `json:"score"`     // match confidence (0-1)
	Timestamp float64        `json:"timestamp"` // window start, seconds
}

// ChordEvent is one recognized harmony span. Consecutive events from the
// same recognizer instance have non-decreasing timestamps and never repeat
// a label without an intervening different label.
type ChordEvent struct {
	Timestamp  float64  `json:"timestamp"` // seconds
	Chord      string   `json:"chord"`     // e.g. "Am7"
	Notes      []string `json:"notes"`     // pitch class names of the chord tones
	Confidence float64  `json:"confidence"`
	Duration   float64  `json:"duration"` // seconds; 0 when still open (live)
}
