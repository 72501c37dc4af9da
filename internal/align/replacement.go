package align

import (
	"github.com/pipeops/ili-alignment/internal/model"
)

const minReplacementRunLength = 2

// DetectReplacements identifies consecutive unmatched reference points in a
// and b that suggest pipe sections were cut out (a "removed" section,
// reported against the earlier run) or spliced in (an "added" section,
// reported against the later run). It is advisory only: the result feeds
// AlignmentZone.IsPipeReplacement and log lines, and never alters
// correction itself.
func DetectReplacements(runIndexA, runIndexB int, a, b []model.ReferencePoint, pairs []model.MatchedReference, gapProximityFt float64) []model.ReplacementSection {
	matchedA := make(map[model.AnomalyID]bool, len(pairs))
	matchedB := make(map[model.AnomalyID]bool, len(pairs))
	for _, p := range pairs {
		matchedA[p.RefA.ID] = true
		matchedB[p.RefB.ID] = true
	}

	sections := consecutiveUnmatchedSections(runIndexA, a, matchedA, "removed", gapProximityFt)
	sections = append(sections, consecutiveUnmatchedSections(runIndexB, b, matchedB, "added", gapProximityFt)...)
	return sections
}

func consecutiveUnmatchedSections(runIndex int, refs []model.ReferencePoint, matched map[model.AnomalyID]bool, kind string, gapProximityFt float64) []model.ReplacementSection {
	var sections []model.ReplacementSection
	var run []model.ReferencePoint

	flush := func() {
		if len(run) >= minReplacementRunLength {
			sections = append(sections, model.ReplacementSection{
				RunIndex:      runIndex,
				StartDistance: run[0].Distance,
				EndDistance:   run[len(run)-1].Distance,
				PointCount:    len(run),
				Kind:          kind,
			})
		}
		run = nil
	}

	for i, r := range refs {
		if matched[r.ID] {
			flush()
			continue
		}
		if len(run) > 0 && r.Distance-run[len(run)-1].Distance > gapProximityFt {
			flush()
		}
		run = append(run, r)
		if i == len(refs)-1 {
			flush()
		}
	}

	return sections
}
