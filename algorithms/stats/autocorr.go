package stats

import (
	"fmt"
)

// LagPeak is the outcome of a band-limited autocorrelation search: the
// refined lag of the strongest peak and its normalized correlation value.
type LagPeak struct {
	Lag         float64 `json:"lag"`         // refined lag in samples
	Correlation float64 `json:"correlation"` // normalized correlation (0-1)
}

// subPeakTolerance is the fraction of the global correlation maximum an
// earlier peak must reach to be preferred over it.
const subPeakTolerance = 0.98

// AutoCorrelation computes normalized autocorrelation restricted to a lag
// band. The band is what makes a pitch search tractable on the live path:
// only lags corresponding to the configured frequency range are evaluated.
type AutoCorrelation struct {
	minLag int
	maxLag int
}

// NewAutoCorrelation creates an autocorrelation calculator for the given
// lag band [minLag, maxLag].
func NewAutoCorrelation(minLag, maxLag int) (*AutoCorrelation, error) {
	if minLag < 1 || maxLag <= minLag {
		return nil, fmt.Errorf("invalid lag band [%d, %d]", minLag, maxLag)
	}
	return &AutoCorrelation{minLag: minLag, maxLag: maxLag}, nil
}

// BestPeak finds the lag with maximum normalized correlation within the
// band. Correlation is normalized by zero-lag energy with a bias correction
// for the shrinking overlap, so a perfectly periodic signal scores near 1.
// The peak lag is refined by parabolic interpolation.
func (ac *AutoCorrelation) BestPeak(signal []float64) (LagPeak, error) {
	n := len(signal)
	maxLag := ac.maxLag
	if maxLag > n/2 {
		maxLag = n / 2
	}
	if maxLag <= ac.minLag {
		return LagPeak{}, fmt.Errorf("signal too short for lag band: %d samples", n)
	}

	energy := 0.0
	for _, v := range signal {
		energy += v * v
	}
	if energy == 0 {
		return LagPeak{}, nil
	}

	corrs := make([]float64, maxLag+2)
	for lag := ac.minLag; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i < n-lag; i++ {
			sum += signal[i] * signal[i+lag]
		}
		// Bias correction: the overlap shrinks with lag
		corrs[lag] = (sum / energy) * float64(n) / float64(n-lag)
	}

	maxCorr := 0.0
	for lag := ac.minLag; lag <= maxLag; lag++ {
		if corrs[lag] > maxCorr {
			maxCorr = corrs[lag]
		}
	}
	if maxCorr <= 0 {
		return LagPeak{}, nil
	}

	// A periodic signal peaks at every multiple of its period, and the bias
	// correction can push a multiple marginally above the fundamental. Take
	// the earliest local peak within tolerance of the global maximum, not the
	// maximum itself, so period multiples never win.
	bestLag := 0
	for lag := ac.minLag; lag <= maxLag; lag++ {
		if corrs[lag] >= subPeakTolerance*maxCorr &&
			corrs[lag] >= corrs[lag-1] && corrs[lag] >= corrs[lag+1] {
			bestLag = lag
			break
		}
	}
	if bestLag == 0 {
		return LagPeak{}, nil
	}
	bestCorr := corrs[bestLag]

	refined := ParabolicInterpolation(corrs, bestLag)
	if refined < float64(ac.minLag) {
		refined = float64(bestLag)
	}

	return LagPeak{Lag: refined, Correlation: bestCorr}, nil
}

// ParabolicInterpolation refines a peak index by fitting a parabola through
// the peak and its two neighbors, returning the fractional peak position.
func ParabolicInterpolation(data []float64, peakIdx int) float64 {
	if peakIdx <= 0 || peakIdx >= len(data)-1 {
		return float64(peakIdx)
	}

	y1 := data[peakIdx-1]
	y2 := data[peakIdx]
	y3 := data[peakIdx+1]

	a := (y1 - 2*y2 + y3) / 2
	b := (y3 - y1) / 2

	if a == 0 {
		return float64(peakIdx)
	}

	return float64(peakIdx) - b/(2*a)
}
