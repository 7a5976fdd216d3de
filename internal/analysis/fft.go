package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitudes of the first half of the transform
// of data.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency finds the strongest non-DC component of series
// sampled every dt seconds. The mean is removed and a Hann window applied
// before the transform. It returns the frequency in Hz and the peak
// amplitude in the series' units; both are zero for series shorter than
// four samples or without oscillation.
func DominantFrequency(series []float64, dt float64) (freq, amplitude float64) {
	n := len(series)
	if n < 4 || dt <= 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	gain := 0.0
	for i, v := range series {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
		gain += w
	}

	ps := PowerSpectrum(windowed)
	peak, best := 0, 1e-12
	for i := 1; i < len(ps); i++ {
		if ps[i] > best {
			peak, best = i, ps[i]
		}
	}
	if peak == 0 {
		return 0, 0
	}
	freq = float64(peak) / (float64(n) * dt)
	amplitude = 2 * best / gain
	return freq, amplitude
}
