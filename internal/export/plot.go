package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/san-kum/bipedsim/internal/biped"
	"github.com/san-kum/bipedsim/internal/metrics"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultDPI is the PNG resolution.
const DefaultDPI = 150

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)
	p.X.Label.TextStyle.Font.Size = vg.Points(13)
	p.Y.Label.TextStyle.Font.Size = vg.Points(13)
	p.X.Tick.Marker = limitedTicker(8, "%.1f")
	p.Y.Tick.Marker = limitedTicker(8, "%.0f")
	p.Legend.Top = true
}

// JointPlot draws measured angles as solid lines and targets as dashed
// lines, both in degrees over simulated time.
func JointPlot(tr *metrics.Trace, keys []biped.Key, title string) (*plot.Plot, error) {
	if tr == nil || tr.Len() == 0 {
		return nil, fmt.Errorf("trace has no frames")
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no joints selected")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time [s]"
	p.Y.Label.Text = "angle [deg]"
	stylePlot(p)

	for i, k := range keys {
		angles := tr.Series(k)
		if angles == nil {
			return nil, fmt.Errorf("joint %s not in trace", k)
		}
		targets := tr.TargetSeries(k)

		measured, err := plotter.NewLine(series(tr.Times, angles))
		if err != nil {
			return nil, err
		}
		measured.LineStyle.Width = vg.Points(1.5)
		measured.LineStyle.Color = plotutil.Color(i)

		target, err := plotter.NewLine(series(tr.Times, targets))
		if err != nil {
			return nil, err
		}
		target.LineStyle.Width = vg.Points(1)
		target.LineStyle.Color = plotutil.Color(i)
		target.LineStyle.Dashes = plotutil.Dashes(1)

		p.Add(measured, target)
		p.Legend.Add(k.String(), measured)
	}
	return p, nil
}

func series(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

// WritePNG renders p at widthIn x heightIn inches.
func WritePNG(w io.Writer, p *plot.Plot, widthIn, heightIn float64, dpi int) error {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))

	bw := bufio.NewWriter(w)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

func SavePNG(p *plot.Plot, widthIn, heightIn float64, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	return WritePNG(f, p, widthIn, heightIn, DefaultDPI)
}
