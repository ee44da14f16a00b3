// Package theory provides the equal-tempered note table and the
// frequency/note/cents conversions the analysis engine is built on.
package theory

import (
	"fmt"
	"math"
)

// Reference tuning: A4 = 440 Hz = MIDI note 69.
const (
	ReferenceFreq = 440.0
	referenceMIDI = 69

	// Table span: C0 (MIDI 12) through B8 (MIDI 119), nine octaves.
	lowestMIDI  = 12
	highestMIDI = 119
)

// PitchClassNames are the twelve chromatic pitch class names, C through B.
var PitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note is one entry of the equal-tempered table.
type Note struct {
	Name       string  `json:"name"`        // e.g. "A4"
	PitchClass int     `json:"pitch_class"` // 0=C .. 11=B
	Octave     int     `json:"octave"`      // scientific pitch notation octave
	MIDI       int     `json:"midi"`        // MIDI note number
	Frequency  float64 `json:"frequency"`   // Hz
}

var noteTable = buildTable()

// buildTable computes the equal-tempered frequency for every table entry:
// f = 440 * 2^((midi-69)/12)
func buildTable() []Note {
	table := make([]Note, 0, highestMIDI-lowestMIDI+1)
	for midi := lowestMIDI; midi <= highestMIDI; midi++ {
		pc := midi % 12
		octave := midi/12 - 1
		table = append(table, Note{
			Name:       fmt.Sprintf("%s%d", PitchClassNames[pc], octave),
			PitchClass: pc,
			Octave:     octave,
			MIDI:       midi,
			Frequency:  ReferenceFreq * math.Pow(2.0, float64(midi-referenceMIDI)/12.0),
		})
	}
	return table
}

// Table returns the full note table, C0 through B8. The slice is shared
// read-only data; callers must not modify it.
func Table() []Note {
	return noteTable
}

// PitchClassName returns the name of a pitch class, wrapping modulo 12.
func PitchClassName(pc int) string {
	pc %= 12
	if pc < 0 {
		pc += 12
	}
	return PitchClassNames[pc]
}

// PitchClassOf maps a frequency to its chromatic pitch class (0=C .. 11=B).
func PitchClassOf(freq float64) int {
	if freq <= 0 {
		return 0
	}
	midi := int(math.Round(midiOf(freq)))
	pc := midi % 12
	if pc < 0 {
		pc += 12
	}
	return pc
}

func midiOf(freq float64) float64 {
	return float64(referenceMIDI) + 12.0*math.Log2(freq/ReferenceFreq)
}

// Nearest returns the table entry closest to freq and the signed cents
// offset from it: cents = 1200*log2(f / f_nearest). Frequencies outside the
// table clamp to its first or last entry.
func Nearest(freq float64) (Note, float64, error) {
	if freq <= 0 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return Note{}, 0, fmt.Errorf("invalid frequency: %v", freq)
	}

	midi := int(math.Round(midiOf(freq)))
	if midi < lowestMIDI {
		midi = lowestMIDI
	} else if midi > highestMIDI {
		midi = highestMIDI
	}

	note := noteTable[midi-lowestMIDI]
	cents := Cents(freq, note.Frequency)
	return note, cents, nil
}

// Cents returns the logarithmic pitch distance from ref to freq in cents
// (100 cents = one semitone).
func Cents(freq, ref float64) float64 {
	return 1200.0 * math.Log2(freq/ref)
}
