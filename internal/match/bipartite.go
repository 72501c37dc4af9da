package match

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/pipeops/ili-alignment/internal/model"
)

// Params configures C8's candidate filter, cost sentinel, and acceptance
// threshold, tunable from internal/config.MatchingConfig.
type Params struct {
	CandidateWindowFt   float64
	CandidateMinScore   float64
	AcceptanceThreshold float64
	SentinelCost        float64
	Weights             Weights
}

// DefaultParams reproduces the specification's fixed thresholds.
func DefaultParams() Params {
	return Params{
		CandidateWindowFt:   200,
		CandidateMinScore:   0.20,
		AcceptanceThreshold: 0.40,
		SentinelCost:        1000,
		Weights:             DefaultWeights(),
	}
}

// PairResult is one accepted or rejected assignment produced by Match.
type PairResult struct {
	A, B       *model.Anomaly // B is nil for a "missing" result, A is nil for a "new" result
	Similarity model.SimilarityBreakdown
}

// MatchResult holds Match's three disjoint outcomes for one pair of runs.
type MatchResult struct {
	Accepted []PairResult
	Missing  []model.Anomaly // present only in A, unmatched
	New      []model.Anomaly // present only in B, unmatched
}

// Match builds a cost matrix over distance-filtered, non-reference
// candidates from a (the earlier run) and b (the later run) and solves a
// minimum-cost one-to-one assignment via Kuhn-Munkres. Assignments below
// the acceptance threshold are dropped back into missing/new rather than
// accepted.
func Match(a, b []model.Anomaly, p Params) MatchResult {
	n := len(a)
	m := len(b)
	size := maxInt(n, m)
	if size == 0 {
		return MatchResult{}
	}

	similarities := make([][]model.SimilarityBreakdown, n)
	candidate := make([][]bool, n)

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		i := i
		similarities[i] = make([]model.SimilarityBreakdown, m)
		candidate[i] = make([]bool, m)
		g.Go(func() error {
			for j := 0; j < m; j++ {
				if math.Abs(a[i].CorrectedDistance-b[j].CorrectedDistance) > p.CandidateWindowFt {
					continue
				}
				sb := Similarity(a[i], b[j], p.Weights)
				if sb.Total <= p.CandidateMinScore {
					continue
				}
				similarities[i][j] = sb
				candidate[i][j] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	cost := make([][]float64, size)
	for i := range cost {
		cost[i] = make([]float64, size)
		for j := range cost[i] {
			switch {
			case i < n && j < m && candidate[i][j]:
				cost[i][j] = 1 - similarities[i][j].Total
			case i < n && j < m:
				cost[i][j] = p.SentinelCost
			default:
				cost[i][j] = 0
			}
		}
	}

	assignment := solveHungarian(cost)

	result := MatchResult{}
	matchedA := make([]bool, n)
	matchedB := make([]bool, m)

	for i := 0; i < n; i++ {
		j := assignment[i]
		if j < 0 || j >= m || !candidate[i][j] {
			continue
		}
		sb := similarities[i][j]
		if sb.Total < p.AcceptanceThreshold {
			continue
		}
		aCopy, bCopy := a[i], b[j]
		result.Accepted = append(result.Accepted, PairResult{A: &aCopy, B: &bCopy, Similarity: sb})
		matchedA[i] = true
		matchedB[j] = true
	}

	for i := 0; i < n; i++ {
		if !matchedA[i] {
			result.Missing = append(result.Missing, a[i])
		}
	}
	for j := 0; j < m; j++ {
		if !matchedB[j] {
			result.New = append(result.New, b[j])
		}
	}

	return result
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
