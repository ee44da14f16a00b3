package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triadFrame synthesizes an equal-amplitude triad. The 8 kHz rate with a
// one-second window keeps the spectral bins 1 Hz apart, so each chord tone
// lands cleanly in its own pitch class.
func triadFrame(freqs []float64, sampleRate, length int) AudioFrame {
	samples := make([]float32, length)
	for _, freq := range freqs {
		for i := range samples {
			samples[i] += float32(math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))) / float32(len(freqs))
		}
	}
	return AudioFrame{Samples: samples, SampleRate: sampleRate}
}

var (
	cMajorTones = []float64{261.63, 329.63, 392.00} // C4 E4 G4
	aMinorTones = []float64{220.00, 261.63, 329.63} // A3 C4 E4
)

func TestRecognizeCMajor(t *testing.T) {
	hr := NewHarmonyRecognizer(8000, HarmonyConfig{})

	cand, err := hr.Recognize(triadFrame(cMajorTones, 8000, 8000))
	require.NoError(t, err)
	require.NotNil(t, cand)

	assert.Equal(t, "C", cand.Template.Name)
	assert.Equal(t, ChordMajor, cand.Template.Quality)
	assert.Greater(t, cand.Score, 0.8)
}

func TestRecognizeAMinor(t *testing.T) {
	hr := NewHarmonyRecognizer(8000, HarmonyConfig{})

	cand, err := hr.Recognize(triadFrame(aMinorTones, 8000, 8000))
	require.NoError(t, err)
	require.NotNil(t, cand)

	assert.Equal(t, "Am", cand.Template.Name)
	assert.Equal(t, []string{"A", "C", "E"}, cand.Template.NoteNames())
}

func TestRecognizeStrictBest(t *testing.T) {
	// A clean triad must out-score every other template, in particular the
	// seventh and extended chords that contain it
	hr := NewHarmonyRecognizer(8000, HarmonyConfig{})

	cand, err := hr.Recognize(triadFrame(cMajorTones, 8000, 8000))
	require.NoError(t, err)
	require.NotNil(t, cand)
	require.Equal(t, "C", cand.Template.Name)

	cg := hr.analyzer.Compute(triadFrame(cMajorTones, 8000, 8000).Samples)
	scoreOf := func(tmpl *ChordTemplate) float64 {
		score := 0.0
		for i, v := range tmpl.Mask {
			score += cg[i] * v
		}
		return score * tmpl.Weight
	}

	winner := 0.0
	for _, tmpl := range TemplateBank() {
		if tmpl.Name == "C" {
			winner = scoreOf(tmpl)
		}
	}
	require.Greater(t, winner, 0.0)

	for _, tmpl := range TemplateBank() {
		if tmpl.Name == "C" {
			continue
		}
		assert.Less(t, scoreOf(tmpl), winner, "%s ties or beats the plain triad", tmpl.Name)
	}
}

func TestRecognizeSilenceReturnsNil(t *testing.T) {
	hr := NewHarmonyRecognizer(8000, HarmonyConfig{})

	cand, err := hr.Recognize(AudioFrame{Samples: make([]float32, 8000), SampleRate: 8000})
	require.NoError(t, err)
	assert.Nil(t, cand)
}

func TestRecognizeInvalidFrame(t *testing.T) {
	hr := NewHarmonyRecognizer(8000, HarmonyConfig{})

	_, err := hr.Recognize(AudioFrame{SampleRate: 8000})
	assert.Error(t, err)
}

func TestPushLiveCoalescesIdenticalMatches(t *testing.T) {
	hr := NewHarmonyRecognizer(8000, HarmonyConfig{LiveHopSec: 0.2})
	frame := triadFrame(cMajorTones, 8000, 8000)

	var events []ChordEvent
	for i := 0; i < 10; i++ {
		ev, err := hr.PushLive(frame, float64(i)*0.2)
		require.NoError(t, err)
		if ev != nil {
			events = append(events, *ev)
		}
	}

	// Ten identical windows produce exactly one event
	require.Len(t, events, 1)
	assert.Equal(t, "C", events[0].Chord)
	assert.Equal(t, []string{"C", "E", "G"}, events[0].Notes)
	assert.Equal(t, 0.0, events[0].Timestamp)
}

func TestPushLiveEmitsOnChange(t *testing.T) {
	hr := NewHarmonyRecognizer(8000, HarmonyConfig{
		// Single-frame aggregation so the chord change is immediate
		AggregationWindowSec: 0.2,
		LiveHopSec:           0.2,
	})
	cFrame := triadFrame(cMajorTones, 8000, 8000)
	amFrame := triadFrame(aMinorTones, 8000, 8000)

	var labels []string
	push := func(frame AudioFrame, ts float64) {
		ev, err := hr.PushLive(frame, ts)
		require.NoError(t, err)
		if ev != nil {
			labels = append(labels, ev.Chord)
		}
	}

	push(cFrame, 0.0)
	push(cFrame, 0.2)
	push(amFrame, 0.4)
	push(amFrame, 0.6)
	push(cFrame, 0.8)

	assert.Equal(t, []string{"C", "Am", "C"}, labels)
}

func TestPushLiveTimestampsMonotonic(t *testing.T) {
	hr := NewHarmonyRecognizer(8000, HarmonyConfig{
		AggregationWindowSec: 0.2,
		LiveHopSec:           0.2,
	})
	cFrame := triadFrame(cMajorTones, 8000, 8000)
	amFrame := triadFrame(aMinorTones, 8000, 8000)

	ev1, err := hr.PushLive(cFrame, 5.0)
	require.NoError(t, err)
	require.NotNil(t, ev1)

	// A stale timestamp is clamped, never emitted out of order
	ev2, err := hr.PushLive(amFrame, 3.0)
	require.NoError(t, err)
	require.NotNil(t, ev2)
	assert.GreaterOrEqual(t, ev2.Timestamp, ev1.Timestamp)
}

func TestHarmonyReset(t *testing.T) {
	hr := NewHarmonyRecognizer(8000, HarmonyConfig{})
	frame := triadFrame(cMajorTones, 8000, 8000)

	ev, err := hr.PushLive(frame, 0)
	require.NoError(t, err)
	require.NotNil(t, ev)

	hr.Reset()

	// The same chord is emitted again after a reset
	ev, err = hr.PushLive(frame, 0)
	require.NoError(t, err)
	assert.NotNil(t, ev)
}
