package theory

import (
	"math"
	"testing"
)

func TestTableRange(t *testing.T) {
	table := Table()
	if len(table) != 108 {
		t.Fatalf("expected 108 notes (C0..B8), got %d", len(table))
	}
	first, last := table[0], table[len(table)-1]
	if first.Name != "C0" || first.MIDI != 12 {
		t.Errorf("first note = %s (MIDI %d), want C0 (MIDI 12)", first.Name, first.MIDI)
	}
	if last.Name != "B8" || last.MIDI != 119 {
		t.Errorf("last note = %s (MIDI %d), want B8 (MIDI 119)", last.Name, last.MIDI)
	}
}

func TestA4Reference(t *testing.T) {
	note, cents, err := Nearest(440.0)
	if err != nil {
		t.Fatal(err)
	}
	if note.Name != "A4" {
		t.Errorf("Nearest(440) = %s, want A4", note.Name)
	}
	if note.MIDI != 69 {
		t.Errorf("A4 MIDI = %d, want 69", note.MIDI)
	}
	if math.Abs(cents) > 1e-9 {
		t.Errorf("cents offset at exact A4 = %g, want 0", cents)
	}
}

func TestNearestSharpAndFlat(t *testing.T) {
	cases := []struct {
		freq      float64
		wantName  string
		wantCents float64
	}{
		{445.0, "A4", 19.56},
		{435.0, "A4", -19.79},
		{261.63, "C4", 0.0},
		{329.63, "E4", 0.0},
	}
	for _, c := range cases {
		note, cents, err := Nearest(c.freq)
		if err != nil {
			t.Fatalf("Nearest(%g): %v", c.freq, err)
		}
		if note.Name != c.wantName {
			t.Errorf("Nearest(%g) = %s, want %s", c.freq, note.Name, c.wantName)
		}
		if math.Abs(cents-c.wantCents) > 0.1 {
			t.Errorf("Nearest(%g) cents = %.2f, want %.2f", c.freq, cents, c.wantCents)
		}
	}
}

func TestNearestClampsOutOfRange(t *testing.T) {
	low, _, err := Nearest(1.0)
	if err != nil {
		t.Fatal(err)
	}
	if low.Name != "C0" {
		t.Errorf("Nearest(1Hz) clamps to %s, want C0", low.Name)
	}
	high, _, err := Nearest(20000.0)
	if err != nil {
		t.Fatal(err)
	}
	if high.Name != "B8" {
		t.Errorf("Nearest(20kHz) clamps to %s, want B8", high.Name)
	}
}

func TestNearestRejectsNonPositive(t *testing.T) {
	if _, _, err := Nearest(0); err == nil {
		t.Error("Nearest(0) should fail")
	}
	if _, _, err := Nearest(-440); err == nil {
		t.Error("Nearest(-440) should fail")
	}
}

func TestCentsOctave(t *testing.T) {
	if got := Cents(880, 440); math.Abs(got-1200) > 1e-9 {
		t.Errorf("Cents(880, 440) = %g, want 1200", got)
	}
	if got := Cents(220, 440); math.Abs(got+1200) > 1e-9 {
		t.Errorf("Cents(220, 440) = %g, want -1200", got)
	}
}

func TestPitchClassOf(t *testing.T) {
	if pc := PitchClassOf(440.0); pc != 9 {
		t.Errorf("PitchClassOf(440) = %d, want 9 (A)", pc)
	}
	if pc := PitchClassOf(261.63); pc != 0 {
		t.Errorf("PitchClassOf(261.63) = %d, want 0 (C)", pc)
	}
}

func TestPitchClassName(t *testing.T) {
	if name := PitchClassName(9); name != "A" {
		t.Errorf("PitchClassName(9) = %s, want A", name)
	}
	if name := PitchClassName(-3); name != "A" {
		t.Errorf("PitchClassName(-3) = %s, want A (wrapped)", name)
	}
	if name := PitchClassName(12); name != "C" {
		t.Errorf("PitchClassName(12) = %s, want C (wrapped)", name)
	}
}

func TestFrequenciesAscend(t *testing.T) {
	table := Table()
	for i := 1; i < len(table); i++ {
		if table[i].Frequency <= table[i-1].Frequency {
			t.Fatalf("table not ascending at %s", table[i].Name)
		}
	}
}
