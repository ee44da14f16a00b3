package analysis

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/fretlab/auralis/logging"
	"github.com/fretlab/auralis/theory"
)

// ScanResult is the outcome of one batch scan. Events is the authoritative
// smoothed sequence; it may differ from what was streamed via OnCandidate
// (the smoothing pass merges and rejects). Key is the pitch class name with
// the highest confidence-weighted root vote, empty when nothing was
// recognized.
type ScanResult struct {
	Events    []ChordEvent `json:"events"`
	Key       string       `json:"key"`
	Cancelled bool         `json:"cancelled"`
	Session   *Session     `json:"session"`
}

// BatchScanner sweeps a complete recording in overlapping windows, streams
// partial results through the configured callbacks, and returns the
// smoothed chord timeline with a detected key.
//
// A scanner owns no shared mutable state beyond the Session it creates per
// Scan call; concurrent scans on separate scanners are independent.
type BatchScanner struct {
	cfg    ScanConfig
	logger logging.Logger
}

// NewBatchScanner creates a scanner; zero config fields take defaults.
func NewBatchScanner(cfg ScanConfig) *BatchScanner {
	return &BatchScanner{
		cfg:    cfg.withDefaults(),
		logger: logging.WithFields(logging.Fields{"component": "batch_scanner"}),
	}
}

// Scan analyzes the full buffer. Cancelling ctx stops the scan at the next
// window boundary: no further callbacks fire, and the partial, time-sorted
// event list is returned with Cancelled set — cancellation is cooperative,
// not an error. Scanning the same buffer with the same configuration is
// deterministic regardless of the Workers setting.
func (bs *BatchScanner) Scan(ctx context.Context, buffer AudioFrame) (*ScanResult, error) {
	if err := buffer.Validate(); err != nil {
		return nil, err
	}

	session := newSession()
	session.setState(SessionRunning)

	sr := buffer.SampleRate
	win := int(bs.cfg.WindowSec * float64(sr))
	hop := int(bs.cfg.HopSec * float64(sr))
	if win > len(buffer.Samples) {
		win = len(buffer.Samples)
	}
	if hop < 1 {
		hop = 1
	}
	total := (len(buffer.Samples)-win)/hop + 1

	// One recognizer per worker slot; the chroma analyzer carries scratch
	// buffers that must not be shared across goroutines.
	recognizers := make([]*HarmonyRecognizer, bs.cfg.Workers)
	for i := range recognizers {
		recognizers[i] = NewHarmonyRecognizer(sr, HarmonyConfig{
			ConfidenceFloor: bs.cfg.ConfidenceFloor,
		})
	}

	var (
		accepted     []ChordCandidate
		lastStreamed = make(map[string]float64)
		cancelled    bool
		done         int
	)

	// Windows are processed in batches of Workers. Matching within a batch
	// may run in parallel; callbacks always fire sequentially in window
	// order afterwards, so the streamed sequence is identical either way.
	// Cancellation takes effect at the next batch boundary.
	for batchStart := 0; batchStart < total; batchStart += bs.cfg.Workers {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		batchEnd := batchStart + bs.cfg.Workers
		if batchEnd > total {
			batchEnd = total
		}
		batch := make([]*ChordCandidate, batchEnd-batchStart)

		if bs.cfg.Workers == 1 {
			start := batchStart * hop
			cand, err := recognizers[0].Recognize(buffer.slice(start, start+win))
			if err != nil {
				return nil, err
			}
			batch[0] = cand
		} else {
			g := new(errgroup.Group)
			for i := batchStart; i < batchEnd; i++ {
				slot := i - batchStart
				start := i * hop
				g.Go(func() error {
					cand, err := recognizers[slot].Recognize(buffer.slice(start, start+win))
					if err != nil {
						return err
					}
					batch[slot] = cand
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}
		}

		for i := batchStart; i < batchEnd; i++ {
			if cand := batch[i-batchStart]; cand != nil {
				cand.Timestamp = float64(i*hop) / float64(sr)
				accepted = append(accepted, *cand)

				// Suppress a near-simultaneous duplicate emission of the
				// same label; the candidate still participates in smoothing
				t, seen := lastStreamed[cand.Template.Name]
				if !seen || cand.Timestamp-t > bs.cfg.DedupWindowSec {
					lastStreamed[cand.Template.Name] = cand.Timestamp
					if bs.cfg.OnCandidate != nil {
						bs.cfg.OnCandidate(*cand)
					}
				}
			}

			done++
			fraction := float64(done) / float64(total)
			session.setProgress(fraction)
			if bs.cfg.OnProgress != nil {
				bs.cfg.OnProgress(fraction)
			}
		}
	}

	events, key := bs.smooth(accepted)

	if cancelled {
		session.setState(SessionCancelled)
	} else {
		session.setState(SessionDone)
	}

	bs.logger.Debug("scan finished", logging.Fields{
		"session":   session.ID,
		"windows":   done,
		"events":    len(events),
		"key":       key,
		"cancelled": cancelled,
	})

	return &ScanResult{
		Events:    events,
		Key:       key,
		Cancelled: cancelled,
		Session:   session,
	}, nil
}

// smooth reduces the raw per-window candidates to the final timeline:
// time-adjacent candidates sharing a label merge into one spanning event,
// events shorter than the configured minimum are rejected as noise, and
// the detected key is the duration-and-confidence-weighted root vote over
// the survivors. Ties resolve to the first root encountered in scan order.
func (bs *BatchScanner) smooth(candidates []ChordCandidate) ([]ChordEvent, string) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Timestamp < candidates[j].Timestamp
	})

	type span struct {
		template *ChordTemplate
		start    float64
		end      float64
		scoreSum float64
		count    int
	}

	var spans []span
	mergeGap := bs.cfg.HopSec + bs.cfg.DedupWindowSec

	for _, cand := range candidates {
		if len(spans) > 0 {
			last := &spans[len(spans)-1]
			if last.template.Name == cand.Template.Name && cand.Timestamp-last.end <= mergeGap {
				last.end = cand.Timestamp
				last.scoreSum += cand.Score
				last.count++
				continue
			}
		}
		spans = append(spans, span{
			template: cand.Template,
			start:    cand.Timestamp,
			end:      cand.Timestamp,
			scoreSum: cand.Score,
			count:    1,
		})
	}

	var events []ChordEvent
	var votes [12]float64
	bestRoot := -1

	for _, s := range spans {
		duration := s.end - s.start + bs.cfg.HopSec
		if duration < bs.cfg.MinChordDurationSec {
			continue
		}

		confidence := s.scoreSum / float64(s.count)
		events = append(events, ChordEvent{
			Timestamp:  s.start,
			Chord:      s.template.Name,
			Notes:      s.template.NoteNames(),
			Confidence: confidence,
			Duration:   duration,
		})

		votes[s.template.Root] += confidence * duration
		if bestRoot < 0 || votes[s.template.Root] > votes[bestRoot] {
			bestRoot = s.template.Root
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})

	if bestRoot < 0 {
		return events, ""
	}
	return events, theory.PitchClassName(bestRoot)
}
