package analysis

import "gonum.org/v1/gonum/stat"

const (
	minOnsetIntervalSec = 0.1
	maxOnsetIntervalSec = 2.0
	minTempoBPM         = 60.0
	maxTempoBPM         = 180.0
)

// EstimateTempo derives a tempo in BPM from the onsets of a note sequence.
// Intervals outside the playable range are discarded before averaging so a
// single long pause or a retrigger glitch cannot skew the estimate. The
// result is clamped to a practice-friendly range; ok is false when fewer
// than four events were given or no interval survived filtering.
func EstimateTempo(events []NoteEvent) (bpm float64, ok bool) {
	if len(events) < 4 {
		return 0, false
	}

	intervals := make([]float64, 0, len(events)-1)
	for i := 1; i < len(events); i++ {
		dt := events[i].Timestamp - events[i-1].Timestamp
		if dt < minOnsetIntervalSec || dt > maxOnsetIntervalSec {
			continue
		}
		intervals = append(intervals, dt)
	}
	if len(intervals) == 0 {
		return 0, false
	}

	bpm = 60.0 / stat.Mean(intervals, nil)
	if bpm < minTempoBPM {
		bpm = minTempoBPM
	}
	if bpm > maxTempoBPM {
		bpm = maxTempoBPM
	}
	return bpm, true
}
