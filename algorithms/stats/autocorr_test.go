package stats

import (
	"math"
	"testing"
)

func generateSine(freq float64, sampleRate, length int) []float64 {
	signal := make([]float64, length)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return signal
}

func TestBestPeakSine(t *testing.T) {
	const (
		sampleRate = 44100
		freq       = 440.0
	)
	signal := generateSine(freq, sampleRate, 2048)

	ac, err := NewAutoCorrelation(22, 552) // 80-2000 Hz at 44.1 kHz
	if err != nil {
		t.Fatal(err)
	}
	peak, err := ac.BestPeak(signal)
	if err != nil {
		t.Fatal(err)
	}

	wantLag := float64(sampleRate) / freq // 100.23 samples
	if math.Abs(peak.Lag-wantLag) > 1.0 {
		t.Errorf("peak lag = %.2f, want %.2f ± 1", peak.Lag, wantLag)
	}
	if peak.Correlation < 0.8 {
		t.Errorf("correlation = %.3f, want >= 0.8 for a clean sine", peak.Correlation)
	}
}

func TestBestPeakSilence(t *testing.T) {
	ac, err := NewAutoCorrelation(22, 552)
	if err != nil {
		t.Fatal(err)
	}
	peak, err := ac.BestPeak(make([]float64, 2048))
	if err != nil {
		t.Fatal(err)
	}
	if peak.Lag != 0 || peak.Correlation != 0 {
		t.Errorf("silence should yield zero peak, got %+v", peak)
	}
}

func TestBestPeakShortSignal(t *testing.T) {
	ac, err := NewAutoCorrelation(22, 552)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ac.BestPeak(generateSine(440, 44100, 32)); err == nil {
		t.Error("expected error for a signal shorter than the lag band")
	}
}

func TestNewAutoCorrelationValidation(t *testing.T) {
	if _, err := NewAutoCorrelation(0, 100); err == nil {
		t.Error("minLag < 1 should fail")
	}
	if _, err := NewAutoCorrelation(100, 100); err == nil {
		t.Error("maxLag == minLag should fail")
	}
	if _, err := NewAutoCorrelation(100, 50); err == nil {
		t.Error("maxLag < minLag should fail")
	}
}

func TestParabolicInterpolation(t *testing.T) {
	// Symmetric neighbors: the refined peak stays on the sample
	data := []float64{0, 0.5, 1.0, 0.5, 0}
	if got := ParabolicInterpolation(data, 2); got != 2.0 {
		t.Errorf("symmetric peak refined to %g, want 2.0", got)
	}

	// Right neighbor higher: the true peak lies right of the sample
	data = []float64{0, 0.5, 1.0, 0.9, 0}
	got := ParabolicInterpolation(data, 2)
	if got <= 2.0 || got >= 3.0 {
		t.Errorf("skewed peak refined to %g, want in (2, 3)", got)
	}

	// Edges are returned unrefined
	if got := ParabolicInterpolation(data, 0); got != 0 {
		t.Errorf("edge peak refined to %g, want 0", got)
	}
}

func TestMeanAbs(t *testing.T) {
	if got := MeanAbs([]float32{1, -1, 2, -2}); got != 1.5 {
		t.Errorf("MeanAbs = %g, want 1.5", got)
	}
	if got := MeanAbs(nil); got != 0 {
		t.Errorf("MeanAbs(nil) = %g, want 0", got)
	}
}

func TestMedian(t *testing.T) {
	if got := Median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("Median = %g, want 2", got)
	}
	if got := Median([]float64{440, 442, 441, 439}); got < 439 || got > 442 {
		t.Errorf("Median = %g, want within input range", got)
	}
}
