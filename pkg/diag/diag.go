// Package diag renders frame-timing diagnostics for a running Session:
// a host can feed it per-frame durations and get back a PNG plot, useful
// for spotting frame-pacing regressions without a full profiler.
package diag

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// FrameTimeTracker accumulates a rolling window of per-frame durations.
type FrameTimeTracker struct {
	window []time.Duration
	cap    int
	pos    int
	filled bool
}

// NewFrameTimeTracker returns a tracker holding the last windowSize
// samples.
func NewFrameTimeTracker(windowSize int) *FrameTimeTracker {
	return &FrameTimeTracker{window: make([]time.Duration, windowSize), cap: windowSize}
}

// Record appends one frame's wall-clock duration, evicting the oldest
// sample once the window is full.
func (t *FrameTimeTracker) Record(d time.Duration) {
	t.window[t.pos] = d
	t.pos = (t.pos + 1) % t.cap
	if t.pos == 0 {
		t.filled = true
	}
}

// samples returns the recorded durations in recording order.
func (t *FrameTimeTracker) samples() []time.Duration {
	if !t.filled {
		return t.window[:t.pos]
	}
	ordered := make([]time.Duration, t.cap)
	copy(ordered, t.window[t.pos:])
	copy(ordered[t.cap-t.pos:], t.window[:t.pos])
	return ordered
}

// PlotPNG renders the tracked frame times as a line plot against the
// 16.67ms (60Hz) budget line, encoded as a PNG of the given size.
func (t *FrameTimeTracker) PlotPNG(width, height int) ([]byte, error) {
	samples := t.samples()
	if len(samples) == 0 {
		return nil, fmt.Errorf("diag: no frame samples recorded")
	}

	p := plot.New()
	p.Title.Text = "Frame Time"
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "ms"

	pts := make(plotter.XYs, len(samples))
	for i, d := range samples {
		pts[i].X = float64(i)
		pts[i].Y = float64(d.Microseconds()) / 1000
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("diag: build line: %w", err)
	}
	p.Add(line)

	budget, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 16.67}, {X: float64(len(samples) - 1), Y: 16.67}})
	if err != nil {
		return nil, fmt.Errorf("diag: build budget line: %w", err)
	}
	budget.Color = color.RGBA{R: 200, A: 255}
	p.Add(budget)
	p.Legend.Add("60Hz budget", budget)

	c := vgimg.NewWith(vgimg.UseWH(vg.Points(float64(width)), vg.Points(float64(height))))
	p.Draw(draw.New(c))

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("diag: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Image returns the rendered plot as an image.Image, for a host that
// wants to composite it; it decodes the same plot PlotPNG produces.
func (t *FrameTimeTracker) Image(width, height int) (image.Image, error) {
	data, err := t.PlotPNG(width, height)
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(data))
}
