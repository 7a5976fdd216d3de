package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrumLength(t *testing.T) {
	if n := len(PowerSpectrum(make([]float64, 600))); n != 300 {
		t.Errorf("len = %d, want 300", n)
	}
}

func TestDominantFrequency(t *testing.T) {
	dt := 0.01
	series := make([]float64, 600)
	for i := range series {
		series[i] = 10 + 3*math.Sin(2*math.Pi*5*float64(i)*dt)
	}
	freq, amp := DominantFrequency(series, dt)
	bin := 1 / (600 * dt)
	if math.Abs(freq-5) > bin {
		t.Errorf("freq = %f, want 5 +- %f", freq, bin)
	}
	if amp < 2.5 || amp > 3.1 {
		t.Errorf("amplitude = %f, want about 3", amp)
	}
}

func TestDominantFrequencyShortSeries(t *testing.T) {
	if f, a := DominantFrequency([]float64{1, 2}, 0.01); f != 0 || a != 0 {
		t.Errorf("got %f %f", f, a)
	}
	if f, _ := DominantFrequency([]float64{1, 1, 1, 1, 1}, 0.01); f != 0 {
		t.Errorf("constant series has frequency %f", f)
	}
}

func TestSettlingStep(t *testing.T) {
	tests := []struct {
		name    string
		series  []float64
		targets []float64
		want    int
	}{
		{"immediate", []float64{30, 30, 30}, []float64{30}, 0},
		{"approach", []float64{0, 10, 20, 29.5, 30}, []float64{30}, 3},
		{"leaves again", []float64{29.9, 25, 30, 30}, []float64{30}, 2},
		{"never", []float64{0, 5, 10}, []float64{30}, -1},
		{"moving target", []float64{0, 10, 20}, []float64{0, 10, 20}, 0},
		{"empty", nil, []float64{1}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SettlingStep(tt.series, tt.targets, 1); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOvershoot(t *testing.T) {
	if got := Overshoot([]float64{0, 20, 33, 31, 30}, 30); math.Abs(got-3) > 1e-12 {
		t.Errorf("rising overshoot = %f", got)
	}
	if got := Overshoot([]float64{0, -20, -32, -30}, -30); math.Abs(got-2) > 1e-12 {
		t.Errorf("falling overshoot = %f", got)
	}
	if got := Overshoot([]float64{0, 10, 20}, 30); got != 0 {
		t.Errorf("no crossing, got %f", got)
	}
}
