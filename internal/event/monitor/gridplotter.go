package monitor

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/evcam/ekalibr-go/internal/event/storage/sqlite"
)

// PlotCircleRadiusTrace renders radius-over-time for every circle detection
// in a run as a single-line PNG, grounded on the teacher's
// generateRingPlot (plot.New + plotter.NewLine + p.Save).
func PlotCircleRadiusTrace(dets []sqlite.CircleDetection, path string) error {
	if len(dets) == 0 {
		return fmt.Errorf("no circle detections to plot")
	}
	sorted := make([]sqlite.CircleDetection, len(dets))
	copy(sorted, dets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TEval < sorted[j].TEval })

	pts := make(plotter.XYs, len(sorted))
	for i, d := range sorted {
		pts[i].X = d.TEval
		pts[i].Y = d.Radius
	}

	p := plot.New()
	p.Title.Text = "Circle radius over time"
	p.X.Label.Text = "t_eval (s)"
	p.Y.Label.Text = "radius (px)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("build radius line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// PlotGridDetectionRate renders the cumulative count of successful grid
// reconstructions over evaluation time as a single-line PNG.
func PlotGridDetectionRate(dets []sqlite.GridDetection, path string) error {
	if len(dets) == 0 {
		return fmt.Errorf("no grid detections to plot")
	}
	sorted := make([]sqlite.GridDetection, len(dets))
	copy(sorted, dets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TEval < sorted[j].TEval })

	pts := make(plotter.XYs, len(sorted))
	for i, d := range sorted {
		pts[i].X = d.TEval
		pts[i].Y = float64(i + 1)
	}

	p := plot.New()
	p.Title.Text = "Cumulative grid detections"
	p.X.Label.Text = "t_eval (s)"
	p.Y.Label.Text = "grids found"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("build rate line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
