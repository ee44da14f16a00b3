package cmd

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/fretlab/auralis/analysis"
)

var (
	scanRate      int
	scanWindowSec float64
	scanHopSec    float64
	scanWorkers   int
)

func init() {
	scanCmd.Flags().IntVar(&scanRate, "rate", 44100, "sample rate of the input in Hz")
	scanCmd.Flags().Float64Var(&scanWindowSec, "window", 1.0, "analysis window length in seconds")
	scanCmd.Flags().Float64Var(&scanHopSec, "hop", 0.5, "hop between windows in seconds")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 1, "parallel analysis workers")
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Analyze a raw PCM recording",
	Long: `Scans a headerless little-endian float32 PCM file, prints the chord
timeline, detected key, and tempo estimate as JSON on stdout. Progress
goes to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, err := readPCM(args[0])
		if err != nil {
			return err
		}
		return runScan(cmd.Context(), samples)
	},
}

type scanReport struct {
	Events   []analysis.ChordEvent `json:"events"`
	Key      string                `json:"key"`
	TempoBPM float64               `json:"tempo_bpm,omitempty"`
	Notes    int                   `json:"notes"`
}

func runScan(ctx context.Context, samples []float32) error {
	buffer := analysis.AudioFrame{Samples: samples, SampleRate: scanRate}

	cfg := analysis.DefaultScanConfig()
	cfg.WindowSec = scanWindowSec
	cfg.HopSec = scanHopSec
	cfg.Workers = scanWorkers
	cfg.OnProgress = func(fraction float64) {
		fmt.Fprintf(os.Stderr, "\rscanning: %3.0f%%", fraction*100)
	}

	scanner := analysis.NewBatchScanner(cfg)
	result, err := scanner.Scan(ctx, buffer)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr)

	report := scanReport{Events: result.Events, Key: result.Key}
	report.TempoBPM, report.Notes = estimateTempo(buffer)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// estimateTempo runs the pitch tracker over short hops to collect note
// onsets, then averages the onset intervals.
func estimateTempo(buffer analysis.AudioFrame) (float64, int) {
	tracker := analysis.NewPitchTracker(analysis.DefaultPitchConfig())
	defer tracker.Close()

	const frameLen = 2048
	var events []analysis.NoteEvent
	for start := 0; start+frameLen <= len(buffer.Samples); start += frameLen {
		frame := analysis.AudioFrame{
			Samples:    buffer.Samples[start : start+frameLen],
			SampleRate: buffer.SampleRate,
		}
		timestamp := float64(start) / float64(buffer.SampleRate)
		if ev, err := tracker.Track(frame, timestamp); err == nil && ev != nil {
			events = append(events, *ev)
		}
	}

	bpm, ok := analysis.EstimateTempo(events)
	if !ok {
		return 0, len(events)
	}
	return bpm, len(events)
}

func readPCM(path string) ([]float32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("pcm file %s: size %d is not a multiple of 4 bytes", path, len(raw))
	}
	samples := make([]float32, len(raw)/4)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(raw[i*4:])
		samples[i] = math.Float32frombits(bits)
	}
	return samples, nil
}
