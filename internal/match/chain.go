package match

import "github.com/pipeops/ili-alignment/internal/model"

// PairChain is one Match outcome for a consecutive run pair (i, i+1),
// tagged with the run indices involved — the input the chainer needs to
// propagate a physical feature across more than two runs.
type PairChain struct {
	RunA, RunB int
	Result     MatchResult
}

// BuildChains composes the pairwise match results for consecutive run pairs
// (0,1), (1,2), … into full anomaly chains. A chain extends from pair i into
// pair i+1 whenever the run-(i+1) anomaly that ends pair i is the same
// anomaly that begins an accepted assignment in pair i+1. Every anomaly
// across all runs ends up in exactly one chain: accepted assignments that
// don't extend become 2-run chains, unmatched run-i anomalies become
// singleton "missing" chains, and unmatched run-(i+1) anomalies become
// "new" chains that still get a chance to extend forward.
func BuildChains(pairs []PairChain) []model.AnomalyChain {
	extendMaps := make([]map[model.AnomalyID]PairResult, len(pairs))
	for idx, pc := range pairs {
		m := make(map[model.AnomalyID]PairResult, len(pc.Result.Accepted))
		for _, acc := range pc.Result.Accepted {
			m[acc.A.ID] = acc
		}
		extendMaps[idx] = m
	}

	consumed := make(map[model.AnomalyID]bool)
	var chains []model.AnomalyChain

	// extend walks forward from startPairIdx+1 while the cursor anomaly
	// (a run-(pairs[startPairIdx].RunB) identity) keys an accepted
	// assignment in the next pair, and so on transitively. It returns the
	// similarity of the first hop it performs (nil if it performs none) and
	// the similarity of whichever hop was last performed, so callers can
	// tell "confidence of the first pair forming the chain" (spec.md §4.9)
	// apart from the most recent one.
	extend := func(anomalies []model.Anomaly, runIndices []int, lastSim model.SimilarityBreakdown, cursor model.AnomalyID, fromPairIdx int) ([]model.Anomaly, []int, *model.SimilarityBreakdown, model.SimilarityBreakdown) {
		var firstHop *model.SimilarityBreakdown
		for next := fromPairIdx + 1; next < len(pairs); next++ {
			acc, ok := extendMaps[next][cursor]
			if !ok || consumed[acc.B.ID] {
				break
			}
			anomalies = append(anomalies, *acc.B)
			runIndices = append(runIndices, pairs[next].RunB)
			lastSim = acc.Similarity
			if firstHop == nil {
				sim := acc.Similarity
				firstHop = &sim
			}
			consumed[acc.A.ID] = true
			consumed[acc.B.ID] = true
			cursor = acc.B.ID
		}
		return anomalies, runIndices, firstHop, lastSim
	}

	for idx, pc := range pairs {
		for _, acc := range pc.Result.Accepted {
			if consumed[acc.A.ID] {
				continue
			}
			consumed[acc.A.ID] = true
			consumed[acc.B.ID] = true

			firstSim := acc.Similarity
			anomalies := []model.Anomaly{*acc.A, *acc.B}
			runIndices := []int{pc.RunA, pc.RunB}
			anomalies, runIndices, _, lastSim := extend(anomalies, runIndices, acc.Similarity, acc.B.ID, idx)

			chains = append(chains, model.AnomalyChain{
				Anomalies:      anomalies,
				RunIndices:     runIndices,
				Confidence:     firstSim.Total,
				Status:         model.StatusForConfidence(firstSim.Total),
				LastSimilarity: lastSim,
			})
		}

		for _, missing := range pc.Result.Missing {
			if consumed[missing.ID] {
				continue
			}
			consumed[missing.ID] = true
			chains = append(chains, model.AnomalyChain{
				Anomalies:  []model.Anomaly{missing},
				RunIndices: []int{pc.RunA},
				Status:     model.StatusMissing,
				Confidence: 0,
			})
		}

		for _, added := range pc.Result.New {
			if consumed[added.ID] {
				continue
			}
			consumed[added.ID] = true

			anomalies := []model.Anomaly{added}
			runIndices := []int{pc.RunB}
			anomalies, runIndices, firstHop, lastSim := extend(anomalies, runIndices, model.SimilarityBreakdown{}, added.ID, idx)

			status := model.StatusNew
			confidence := 0.0
			if firstHop != nil {
				status = model.StatusForConfidence(firstHop.Total)
				confidence = firstHop.Total
			}

			chains = append(chains, model.AnomalyChain{
				Anomalies:      anomalies,
				RunIndices:     runIndices,
				Status:         status,
				Confidence:     confidence,
				LastSimilarity: lastSim,
			})
		}
	}

	return chains
}
