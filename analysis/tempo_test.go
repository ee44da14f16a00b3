package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notesAt(timestamps ...float64) []NoteEvent {
	events := make([]NoteEvent, len(timestamps))
	for i, ts := range timestamps {
		events[i] = NoteEvent{Timestamp: ts, Note: "A4", Frequency: 440}
	}
	return events
}

func TestEstimateTempoSteadyQuarters(t *testing.T) {
	// Quarter notes at 120 BPM: one onset every half second
	bpm, ok := EstimateTempo(notesAt(0.0, 0.5, 1.0, 1.5, 2.0, 2.5))
	require.True(t, ok)
	assert.InDelta(t, 120.0, bpm, 1.0)
}

func TestEstimateTempoSlow(t *testing.T) {
	bpm, ok := EstimateTempo(notesAt(0.0, 0.75, 1.5, 2.25, 3.0))
	require.True(t, ok)
	assert.InDelta(t, 80.0, bpm, 1.0)
}

func TestEstimateTempoTooFewEvents(t *testing.T) {
	_, ok := EstimateTempo(notesAt(0.0, 0.5, 1.0))
	assert.False(t, ok)

	_, ok = EstimateTempo(nil)
	assert.False(t, ok)
}

func TestEstimateTempoIgnoresOutlierGaps(t *testing.T) {
	// A long pause mid-phrase must not drag the estimate down
	bpm, ok := EstimateTempo(notesAt(0.0, 0.5, 1.0, 6.0, 6.5, 7.0))
	require.True(t, ok)
	assert.InDelta(t, 120.0, bpm, 1.0)
}

func TestEstimateTempoIgnoresRetriggers(t *testing.T) {
	// Sub-100ms double triggers are detection noise, not onsets
	bpm, ok := EstimateTempo(notesAt(0.0, 0.02, 0.5, 0.52, 1.0, 1.5))
	require.True(t, ok)
	assert.InDelta(t, 120.0, bpm, 5.0)
}

func TestEstimateTempoClamped(t *testing.T) {
	// 0.25s spacing is 240 BPM raw; clamps to the ceiling
	bpm, ok := EstimateTempo(notesAt(0.0, 0.25, 0.5, 0.75, 1.0))
	require.True(t, ok)
	assert.Equal(t, 180.0, bpm)

	// 1.5s spacing is 40 BPM raw; clamps to the floor
	bpm, ok = EstimateTempo(notesAt(0.0, 1.5, 3.0, 4.5, 6.0))
	require.True(t, ok)
	assert.Equal(t, 60.0, bpm)
}

func TestEstimateTempoNoUsableIntervals(t *testing.T) {
	// Every gap is outside the playable range
	_, ok := EstimateTempo(notesAt(0.0, 0.01, 5.0, 10.0))
	assert.False(t, ok)
}
