package viewer

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/evcam/ekalibr-go/internal/event"
)

// EChartsSink accumulates extraction statistics across Sink calls and
// renders them as an HTML dashboard (cumulative cluster-kind counts,
// circle and grid counts, and a cumulative grid-detection trace over frame
// time; the decay surface passed to FrameStart is not kept), grounded on the teacher's internal/lidar/monitor chart handlers
// (charts.NewBar/NewLine + components.Page, rendered to a buffer and served
// as text/html).
type EChartsSink struct {
	mu sync.Mutex

	frames     []float64 // t_cur per FrameStart call
	chaseCount int
	runCount   int
	otherCount int
	circles    int
	gridRate   []gridPoint // one entry per FrameStart, cumulative grids found so far
	gridsFound int
}

type gridPoint struct {
	tCur  float64
	total int
}

// NewEChartsSink returns an EChartsSink with no accumulated data.
func NewEChartsSink() *EChartsSink {
	return &EChartsSink{}
}

// FrameStart implements Sink, recording one frame's reference time.
func (s *EChartsSink) FrameStart(tCur float64, _ event.Image[uint8]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, tCur)
	s.gridRate = append(s.gridRate, gridPoint{tCur: tCur, total: s.gridsFound})
}

// ClusterFormed implements Sink, tallying cluster kinds for the histogram.
func (s *EChartsSink) ClusterFormed(_ int, kind ClusterKind, _ bool, _, _ event.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case ClusterChase:
		s.chaseCount++
	case ClusterRun:
		s.runCount++
	default:
		s.otherCount++
	}
}

// PairMatched implements Sink; the dashboard doesn't chart pairings
// individually, so this is a no-op.
func (s *EChartsSink) PairMatched(int, int, float64) {}

// CircleAccepted implements Sink, tallying accepted circles.
func (s *EChartsSink) CircleAccepted(_ event.Vec2, _ float64, _, _ float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.circles++
}

// GridFound implements Sink, bumping the cumulative grid-detection count
// that feeds the rate trace.
func (s *EChartsSink) GridFound(_ []event.Vec2, _, _ int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gridsFound++
	if n := len(s.gridRate); n > 0 {
		s.gridRate[n-1].total = s.gridsFound
	}
}

var _ Sink = (*EChartsSink)(nil)

// RenderHTML writes a single HTML page with three charts: a bar chart of
// cluster-kind counts, a bar chart of circles vs. grids found, and a line
// chart of cumulative grids found over frame time.
func (s *EChartsSink) RenderHTML(w io.Writer) error {
	s.mu.Lock()
	clusterBar := s.clusterKindChart()
	countsBar := s.countsChart()
	rateLine := s.gridRateChart()
	s.mu.Unlock()

	page := components.NewPage()
	page.AddCharts(clusterBar, countsBar, rateLine)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func (s *EChartsSink) clusterKindChart() *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "600px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Cluster kinds"}),
	)
	bar.SetXAxis([]string{"chase", "run", "other"}).
		AddSeries("clusters", []opts.BarData{
			{Value: s.chaseCount}, {Value: s.runCount}, {Value: s.otherCount},
		})
	return bar
}

func (s *EChartsSink) countsChart() *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "600px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Circles and grids found"}),
	)
	bar.SetXAxis([]string{"circles", "grids"}).
		AddSeries("counts", []opts.BarData{
			{Value: s.circles}, {Value: s.gridsFound},
		})
	return bar
}

func (s *EChartsSink) gridRateChart() *charts.Line {
	x := make([]string, len(s.gridRate))
	y := make([]opts.LineData, len(s.gridRate))
	for i, p := range s.gridRate {
		x[i] = fmt.Sprintf("%.3f", p.tCur)
		y[i] = opts.LineData{Value: p.total}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Cumulative grids found over time"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t_cur"}),
	)
	line.SetXAxis(x).AddSeries("grids found", y)
	return line
}
