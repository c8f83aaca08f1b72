package viewer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/evcam/ekalibr-go/internal/event"
)

func TestEChartsSink_RenderHTMLProducesHTML(t *testing.T) {
	s := NewEChartsSink()
	s.FrameStart(0.1, event.NewImage[uint8](4, 4))
	s.ClusterFormed(1, ClusterChase, true, event.Vec2{}, event.Vec2{X: 1})
	s.ClusterFormed(2, ClusterRun, false, event.Vec2{}, event.Vec2{X: -1})
	s.CircleAccepted(event.Vec2{X: 1, Y: 1}, 5, 0, 1)
	s.GridFound([]event.Vec2{{X: 0, Y: 0}}, 1, 1)
	s.FrameStart(0.2, event.NewImage[uint8](4, 4))

	var buf bytes.Buffer
	if err := s.RenderHTML(&buf); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "<html") {
		t.Errorf("output doesn't look like HTML: %.200s", html)
	}
	if s.chaseCount != 1 || s.runCount != 1 || s.otherCount != 0 {
		t.Errorf("cluster tallies = chase=%d run=%d other=%d", s.chaseCount, s.runCount, s.otherCount)
	}
	if s.circles != 1 || s.gridsFound != 1 {
		t.Errorf("circles=%d gridsFound=%d, want 1/1", s.circles, s.gridsFound)
	}
}

func TestEChartsSink_GridRateTracksCumulativeCount(t *testing.T) {
	s := NewEChartsSink()
	s.FrameStart(0.1, event.NewImage[uint8](1, 1))
	s.GridFound(nil, 1, 1)
	s.FrameStart(0.2, event.NewImage[uint8](1, 1))
	s.FrameStart(0.3, event.NewImage[uint8](1, 1))
	s.GridFound(nil, 1, 1)

	if len(s.gridRate) != 3 {
		t.Fatalf("got %d rate points, want 3", len(s.gridRate))
	}
	want := []int{1, 1, 2}
	for i, w := range want {
		if s.gridRate[i].total != w {
			t.Errorf("gridRate[%d].total = %d, want %d", i, s.gridRate[i].total, w)
		}
	}
}
