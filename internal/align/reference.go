// Package align extracts reference points, matches them between two runs,
// detects likely pipe-replacement gaps, remaps every anomaly's raw distance
// into the reference run's coordinate frame, and reports the resulting
// odometer drift. All four stages are pure and total: an empty or
// unmatched-heavy input degrades to a documented fallback, never an error.
package align

import (
	"math"
	"sort"

	"github.com/pipeops/ili-alignment/internal/model"
)

// ExtractReferences projects a run's reference-type anomalies (girth welds,
// valves, fittings) into ReferencePoint values sorted by distance ascending.
func ExtractReferences(anomalies []model.Anomaly) []model.ReferencePoint {
	var refs []model.ReferencePoint
	for _, a := range anomalies {
		if a.IsReferencePoint {
			refs = append(refs, model.ToReferencePoint(a))
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Distance < refs[j].Distance })
	return refs
}

// MatchReferences greedily pairs each reference point in a (the earlier
// run) with the best unmatched candidate in b (the later run) within
// toleranceFt, scoring by distance offset plus a joint-mismatch penalty
// when both sides carry a known joint number. Reference matching is
// injective: no point in a or b participates in more than one pair.
func MatchReferences(a, b []model.ReferencePoint, toleranceFt, jointMismatchPenalty float64) []model.MatchedReference {
	usedB := make([]bool, len(b))
	var pairs []model.MatchedReference

	for _, ra := range a {
		bestIdx := -1
		bestScore := math.Inf(1)

		for j, rb := range b {
			if usedB[j] {
				continue
			}
			delta := math.Abs(ra.Distance - rb.Distance)
			if delta > toleranceFt {
				continue
			}
			score := delta
			if ra.JointNumber > 0 && rb.JointNumber > 0 {
				score += math.Abs(float64(ra.JointNumber-rb.JointNumber)) * jointMismatchPenalty
			}
			if score < bestScore {
				bestScore = score
				bestIdx = j
			}
		}

		if bestIdx >= 0 {
			usedB[bestIdx] = true
			pairs = append(pairs, model.NewMatchedReference(ra, b[bestIdx]))
		}
	}

	return pairs
}
