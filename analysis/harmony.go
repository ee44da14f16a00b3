package analysis

import (
	"math"

	"github.com/fretlab/auralis/algorithms/chroma"
)

// HarmonyRecognizer matches chromagrams against the chord template bank.
// Recognize is the stateless single-window form used by the batch scanner;
// PushLive adds rolling aggregation and label dedup for the streaming path.
//
// A recognizer owns its aggregation state exclusively; concurrent streams
// need separate instances.
type HarmonyRecognizer struct {
	cfg        HarmonyConfig
	sampleRate int
	analyzer   *chroma.Analyzer

	// Live aggregation state
	running       *chroma.Running
	lastLabel     string
	lastTimestamp float64
}

// NewHarmonyRecognizer creates a recognizer for the given sample rate.
// Zero config fields take the documented defaults.
func NewHarmonyRecognizer(sampleRate int, cfg HarmonyConfig) *HarmonyRecognizer {
	def := DefaultHarmonyConfig()
	if cfg.ConfidenceFloor <= 0 {
		cfg.ConfidenceFloor = def.ConfidenceFloor
	}
	if cfg.AggregationWindowSec <= 0 {
		cfg.AggregationWindowSec = def.AggregationWindowSec
	}
	if cfg.LiveHopSec <= 0 {
		cfg.LiveHopSec = def.LiveHopSec
	}
	if cfg.MinFrequency <= 0 {
		cfg.MinFrequency = def.MinFrequency
	}
	if cfg.MaxFrequency <= cfg.MinFrequency {
		cfg.MaxFrequency = def.MaxFrequency
	}

	capacity := int(math.Round(cfg.AggregationWindowSec / cfg.LiveHopSec))
	if capacity < 1 {
		capacity = 1
	}

	return &HarmonyRecognizer{
		cfg:        cfg,
		sampleRate: sampleRate,
		analyzer: chroma.NewAnalyzerWithParams(sampleRate, chroma.AnalyzerParams{
			MinFreq:       cfg.MinFrequency,
			MaxFreq:       cfg.MaxFrequency,
			ReferenceFreq: 440.0,
		}),
		running: chroma.NewRunning(capacity),
	}
}

// Recognize matches a single window against the template bank. A silent
// window or a best score below the confidence floor returns nil with no
// error: the engine does not guess.
func (hr *HarmonyRecognizer) Recognize(window AudioFrame) (*ChordCandidate, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	cg := hr.analyzer.Compute(window.Samples)
	return hr.match(cg), nil
}

// match scores every template by weighted overlap with the chromagram and
// returns the strict best, or nil below the floor.
func (hr *HarmonyRecognizer) match(cg chroma.Chromagram) *ChordCandidate {
	if cg.Energy() == 0 {
		return nil
	}

	var best *ChordTemplate
	bestScore := 0.0

	for _, t := range TemplateBank() {
		score := 0.0
		for i, v := range t.Mask {
			score += cg[i] * v
		}
		score *= t.Weight

		if score > bestScore {
			bestScore = score
			best = t
		}
	}

	if best == nil || bestScore < hr.cfg.ConfidenceFloor {
		return nil
	}

	return &ChordCandidate{
		Template: best,
		Score:    math.Min(bestScore, 1.0),
	}
}

// PushLive feeds one streaming window. The match runs on the rolling
// average of recent chromagrams rather than the instantaneous one, and a
// ChordEvent is emitted only when the matched label differs from the
// previously emitted label; time-adjacent identical matches coalesce.
func (hr *HarmonyRecognizer) PushLive(window AudioFrame, timestamp float64) (*ChordEvent, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	hr.running.Push(hr.analyzer.Compute(window.Samples))

	cand := hr.match(hr.running.Average())
	if cand == nil {
		return nil, nil
	}
	if cand.Template.Name == hr.lastLabel {
		return nil, nil
	}

	// Timestamps on one stream never go backwards
	if timestamp < hr.lastTimestamp {
		timestamp = hr.lastTimestamp
	}
	hr.lastLabel = cand.Template.Name
	hr.lastTimestamp = timestamp

	return &ChordEvent{
		Timestamp:  timestamp,
		Chord:      cand.Template.Name,
		Notes:      cand.Template.NoteNames(),
		Confidence: cand.Score,
	}, nil
}

// Reset clears the aggregation and dedup state, as for a session restart.
func (hr *HarmonyRecognizer) Reset() {
	hr.running.Reset()
	hr.lastLabel = ""
	hr.lastTimestamp = 0
}
