package circle

import "sort"

// Pair is one matched cluster pair surviving all search phases, ready for
// the time-varying circle fit.
type Pair struct {
	A, B  ClusterIdx
	Score float64
}

// pairScore evaluates the run-chase predicate and score (spec §4.3.3) for
// an ordered pair (u plays the "run" role, w plays the "chase" role). Both
// the re-search phases reuse the same predicate with whichever clusters
// remain unmatched, rather than tracking separate algebra per phase, since
// the spec gives no distinct geometry for them beyond "same angular /
// collinearity predicates".
func pairScore(u, w Cluster, cosThd float64) (float64, bool) {
	dot := u.Dir.Dot(w.Dir)
	if dot > -cosThd {
		return 0, false // not roughly opposite
	}
	toW := w.Center.Sub(u.Center)
	if toW.NormSq() == 0 {
		return 0, false
	}
	lineDir := toW.Unit()
	if lineDir.Dot(w.Dir) < cosThd {
		return 0, false // line to w doesn't align with w's own flow direction
	}
	score := u.Center.Sub(w.Center).Norm() * (1 - u.Dir.Dot(w.Dir.Scale(-1)))
	return score, true
}

// candidatePairs builds every scored, predicate-passing pair between two
// (possibly overlapping) index sets, trying both orderings of each
// unordered pair since "run" and "chase" roles aren't known a priori once
// Other clusters enter the re-search phases.
func candidatePairs(as, bs []ClusterIdx, clusters []Cluster, cosThd float64) []Pair {
	seen := make(map[[2]ClusterIdx]bool)
	var out []Pair
	for _, a := range as {
		for _, b := range bs {
			if a == b {
				continue
			}
			key := [2]ClusterIdx{a, b}
			if a > b {
				key = [2]ClusterIdx{b, a}
			}
			if seen[key] {
				continue
			}
			seen[key] = true

			if score, ok := pairScore(clusters[a], clusters[b], cosThd); ok {
				out = append(out, Pair{A: a, B: b, Score: score})
			} else if score, ok := pairScore(clusters[b], clusters[a], cosThd); ok {
				out = append(out, Pair{A: b, B: a, Score: score})
			}
		}
	}
	return out
}

// greedyAssign takes the lowest-score pairs first, skipping any pair whose
// endpoint is already used, forbidding a cluster from appearing in two
// pairs.
func greedyAssign(pairs []Pair, used map[ClusterIdx]bool) []Pair {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Score < pairs[j].Score })
	var accepted []Pair
	for _, p := range pairs {
		if used[p.A] || used[p.B] {
			continue
		}
		used[p.A] = true
		used[p.B] = true
		accepted = append(accepted, p)
	}
	return accepted
}

// Match runs the three search phases (run-chase, unmatched-vs-other,
// other-vs-other) and a final ambiguity sweep, returning disjoint pairs.
func Match(clusters []Cluster, cfg Config) []Pair {
	cosThd := cfg.cosDirDiffThd()
	used := make(map[ClusterIdx]bool)

	var runs, chases, others []ClusterIdx
	for i, c := range clusters {
		switch c.Kind {
		case Run:
			runs = append(runs, ClusterIdx(i))
		case Chase:
			chases = append(chases, ClusterIdx(i))
		default:
			others = append(others, ClusterIdx(i))
		}
	}

	var all []Pair
	all = append(all, greedyAssign(candidatePairs(runs, chases, clusters, cosThd), used)...)

	var unmatchedRunChase []ClusterIdx
	for _, i := range append(append([]ClusterIdx{}, runs...), chases...) {
		if !used[i] {
			unmatchedRunChase = append(unmatchedRunChase, i)
		}
	}
	all = append(all, greedyAssign(candidatePairs(unmatchedRunChase, others, clusters, cosThd), used)...)

	var unmatchedOthers []ClusterIdx
	for _, i := range others {
		if !used[i] {
			unmatchedOthers = append(unmatchedOthers, i)
		}
	}
	all = append(all, greedyAssign(candidatePairs(unmatchedOthers, unmatchedOthers, clusters, cosThd), used)...)

	return removeAmbiguousMatches(all)
}

// removeAmbiguousMatches drops any pair whose endpoint reappears in another
// surviving pair with a better (lower) score, breaking ties the greedy
// per-phase assignment alone can't since phases don't see each other's
// candidates before assigning.
func removeAmbiguousMatches(pairs []Pair) []Pair {
	bestScore := make(map[ClusterIdx]float64)
	for _, p := range pairs {
		if s, ok := bestScore[p.A]; !ok || p.Score < s {
			bestScore[p.A] = p.Score
		}
		if s, ok := bestScore[p.B]; !ok || p.Score < s {
			bestScore[p.B] = p.Score
		}
	}
	var out []Pair
	for _, p := range pairs {
		if p.Score <= bestScore[p.A] && p.Score <= bestScore[p.B] {
			out = append(out, p)
		}
	}
	return out
}
