package circle

import (
	"testing"

	"github.com/evcam/ekalibr-go/internal/event"
)

func TestMatch_RunChasePairFound(t *testing.T) {
	clusters := []Cluster{
		{Kind: Run, Center: event.Vec2{X: 0, Y: 0}, Dir: event.Vec2{X: -1, Y: 0}},
		{Kind: Chase, Center: event.Vec2{X: 10, Y: 0}, Dir: event.Vec2{X: 1, Y: 0}},
	}
	cfg := DefaultConfig(1.0)
	pairs := Match(clusters, cfg)

	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if !(pairs[0].A == 0 || pairs[0].B == 0) || !(pairs[0].A == 1 || pairs[0].B == 1) {
		t.Errorf("pair does not reference both clusters: %+v", pairs[0])
	}
}

func TestMatch_ExclusivityUnderCompetingCandidates(t *testing.T) {
	// Two chases compete for one run; the closer (lower-score) chase wins,
	// and no cluster appears in more than one surviving pair.
	clusters := []Cluster{
		{Kind: Run, Center: event.Vec2{X: 0, Y: 0}, Dir: event.Vec2{X: -1, Y: 0}},
		{Kind: Chase, Center: event.Vec2{X: 5, Y: 0}, Dir: event.Vec2{X: 0.96, Y: 0.28}},
		{Kind: Chase, Center: event.Vec2{X: 20, Y: 0}, Dir: event.Vec2{X: 0.96, Y: 0.28}},
	}
	cfg := DefaultConfig(1.0)
	pairs := Match(clusters, cfg)

	seen := make(map[ClusterIdx]int)
	for _, p := range pairs {
		seen[p.A]++
		seen[p.B]++
	}
	for idx, count := range seen {
		if count > 1 {
			t.Errorf("cluster %d appears in %d pairs, want at most 1", idx, count)
		}
	}
	if len(pairs) != 1 {
		t.Fatalf("expected exactly 1 surviving pair, got %d", len(pairs))
	}
	if pairs[0].A != 1 && pairs[0].B != 1 {
		t.Errorf("expected the closer chase (index 1) to win, got %+v", pairs[0])
	}
}

func TestRemoveAmbiguousMatches_KeepsOnlyBestPerCluster(t *testing.T) {
	pairs := []Pair{
		{A: 0, B: 1, Score: 5},
		{A: 1, B: 2, Score: 1},
	}
	out := removeAmbiguousMatches(pairs)
	if len(out) != 1 || out[0].A != 1 || out[0].B != 2 {
		t.Errorf("expected only the lower-score pair to survive, got %+v", out)
	}
}
