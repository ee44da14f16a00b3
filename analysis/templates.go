package analysis

import (
	"sync"

	"github.com/fretlab/auralis/theory"
)

// ChordQuality represents the quality/type of a chord
type ChordQuality int

const (
	ChordMajor ChordQuality = iota
	ChordMinor
	ChordDiminished
	ChordAugmented
	ChordSus2
	ChordSus4
	ChordPower
	ChordMaj6
	ChordMin6
	ChordDom7
	ChordMaj7
	ChordMin7
	ChordMinMaj7
	ChordDim7
	ChordHalfDim7
	ChordAug7
	ChordAugMaj7
	ChordDom7Sus4
	ChordAdd9
	ChordMinAdd9
	ChordMaj9
	ChordMin9
	ChordDom9
	ChordDom7Flat9
	ChordDom7Sharp9
	ChordMaj11
	ChordMin11
	ChordDom11
	ChordMaj13
	ChordMin13
	ChordDom13
)

// qualitySpec defines one chord quality: its label suffix, intervals from
// the root, and the template weight. Weights bias matching toward simpler
// qualities so a clean triad is never out-scored by a superset chord that
// merely contains it.
type qualitySpec struct {
	quality   ChordQuality
	suffix    string
	intervals []int
	weight    float64
}

var qualitySpecs = []qualitySpec{
	{ChordMajor, "", []int{0, 4, 7}, 1.0},
	{ChordMinor, "m", []int{0, 3, 7}, 1.0},
	{ChordDiminished, "dim", []int{0, 3, 6}, 0.9},
	{ChordAugmented, "aug", []int{0, 4, 8}, 0.9},
	{ChordSus2, "sus2", []int{0, 2, 7}, 0.85},
	{ChordSus4, "sus4", []int{0, 5, 7}, 0.85},
	{ChordPower, "5", []int{0, 7}, 0.7},
	{ChordMaj6, "6", []int{0, 4, 7, 9}, 0.8},
	{ChordMin6, "m6", []int{0, 3, 7, 9}, 0.8},
	{ChordDom7, "7", []int{0, 4, 7, 10}, 0.9},
	{ChordMaj7, "maj7", []int{0, 4, 7, 11}, 0.85},
	{ChordMin7, "m7", []int{0, 3, 7, 10}, 0.85},
	{ChordMinMaj7, "mMaj7", []int{0, 3, 7, 11}, 0.75},
	{ChordDim7, "dim7", []int{0, 3, 6, 9}, 0.75},
	{ChordHalfDim7, "m7b5", []int{0, 3, 6, 10}, 0.75},
	{ChordAug7, "aug7", []int{0, 4, 8, 10}, 0.7},
	{ChordAugMaj7, "augMaj7", []int{0, 4, 8, 11}, 0.65},
	{ChordDom7Sus4, "7sus4", []int{0, 5, 7, 10}, 0.7},
	{ChordAdd9, "add9", []int{0, 2, 4, 7}, 0.8},
	{ChordMinAdd9, "madd9", []int{0, 2, 3, 7}, 0.75},
	{ChordMaj9, "maj9", []int{0, 2, 4, 7, 11}, 0.7},
	{ChordMin9, "m9", []int{0, 2, 3, 7, 10}, 0.7},
	{ChordDom9, "9", []int{0, 2, 4, 7, 10}, 0.75},
	{ChordDom7Flat9, "7b9", []int{0, 1, 4, 7, 10}, 0.6},
	{ChordDom7Sharp9, "7#9", []int{0, 3, 4, 7, 10}, 0.6},
	{ChordMaj11, "maj11", []int{0, 2, 4, 5, 7, 11}, 0.6},
	{ChordMin11, "m11", []int{0, 2, 3, 5, 7, 10}, 0.65},
	{ChordDom11, "11", []int{0, 2, 4, 5, 7, 10}, 0.65},
	{ChordMaj13, "maj13", []int{0, 2, 4, 7, 9, 11}, 0.55},
	{ChordMin13, "m13", []int{0, 2, 3, 7, 9, 10}, 0.6},
	{ChordDom13, "13", []int{0, 2, 4, 7, 9, 10}, 0.6},
}

// ChordTemplate is one entry of the template bank: a chord quality rooted
// at a specific pitch class with its 12-bin interval mask. Immutable.
type ChordTemplate struct {
	Root      int          `json:"root"` // pitch class (0=C .. 11=B)
	Quality   ChordQuality `json:"quality"`
	Name      string       `json:"name"` // e.g. "Am7"
	Intervals []int        `json:"intervals"`
	Mask      [12]float64  `json:"mask"`
	Weight    float64      `json:"weight"`
}

// NoteNames returns the pitch class names of the chord tones, root first.
func (t *ChordTemplate) NoteNames() []string {
	names := make([]string, len(t.Intervals))
	for i, interval := range t.Intervals {
		names[i] = theory.PitchClassName(t.Root + interval)
	}
	return names
}

var (
	bankOnce sync.Once
	bank     []*ChordTemplate
)

// TemplateBank returns the full chord template bank: every quality
// instantiated at all 12 roots. Built once, read-only thereafter; safe for
// concurrent use without synchronization.
func TemplateBank() []*ChordTemplate {
	bankOnce.Do(buildBank)
	return bank
}

func buildBank() {
	bank = make([]*ChordTemplate, 0, len(qualitySpecs)*12)
	for _, spec := range qualitySpecs {
		for root := 0; root < 12; root++ {
			t := &ChordTemplate{
				Root:      root,
				Quality:   spec.quality,
				Name:      theory.PitchClassName(root) + spec.suffix,
				Intervals: spec.intervals,
				Weight:    spec.weight,
			}
			for _, interval := range spec.intervals {
				t.Mask[(root+interval)%12] = 1.0
			}
			bank = append(bank, t)
		}
	}
}

// QualityName returns the human-readable suffix for a chord quality,
// with "maj" standing in for the empty major suffix.
func QualityName(q ChordQuality) string {
	for _, spec := range qualitySpecs {
		if spec.quality == q {
			if spec.suffix == "" {
				return "maj"
			}
			return spec.suffix
		}
	}
	return "unknown"
}
