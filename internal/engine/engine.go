// Package engine orchestrates the alignment pipeline: normalize, clean,
// match references, correct distances, measure drift, match anomalies,
// chain, and decorate with growth and priority. It is the only package in
// the computation that returns an error, and only for a structural misuse
// by the caller — every data-quality problem downstream is absorbed and
// reported, never thrown.
package engine

import (
	"sort"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/multierr"

	"github.com/pipeops/ili-alignment/internal/align"
	"github.com/pipeops/ili-alignment/internal/clean"
	"github.com/pipeops/ili-alignment/internal/config"
	"github.com/pipeops/ili-alignment/internal/growth"
	"github.com/pipeops/ili-alignment/internal/match"
	"github.com/pipeops/ili-alignment/internal/model"
	"github.com/pipeops/ili-alignment/internal/normalize"
)

const minRuns = 2

// Run drives the full alignment and matching pipeline over K raw run
// tables and their corresponding inspection years, producing one
// EngineResult. Returns an error only for structural misuse: fewer than
// two runs, or a years slice that doesn't match the run count.
func Run(rawRuns [][]model.RawRow, years []int, cfg config.EngineConfig) (model.EngineResult, error) {
	var errs error
	if len(rawRuns) < minRuns {
		errs = multierr.Append(errs, eris.Errorf("engine: need at least %d runs, got %d", minRuns, len(rawRuns)))
	}
	if len(years) != len(rawRuns) {
		errs = multierr.Append(errs, eris.Errorf("engine: %d runs but %d years", len(rawRuns), len(years)))
	}
	if errs != nil {
		return model.EngineResult{}, errs
	}

	order := sortRunsByYear(years)

	normalized := make([][]model.Anomaly, len(rawRuns))
	for i, srcIdx := range order {
		normalized[i] = normalize.Run(i, rawRuns[srcIdx])
	}
	sortedYears := make([]int, len(order))
	for i, srcIdx := range order {
		sortedYears[i] = years[srcIdx]
	}

	cleaned, cleaningReports := clean.RunAll(normalized)

	baseline := cleaned[0]
	baselineRefs := align.ExtractReferences(baseline)

	aligned := make([][]model.Anomaly, len(cleaned))
	aligned[0] = baseline

	var zones []model.AlignmentZone
	var replacements []model.ReplacementSection
	var driftPoints []model.RunDrift
	driftPoints = append(driftPoints, align.ComputeDrift(0, baseline, baselineRefs))

	for i := 1; i < len(cleaned); i++ {
		laterRefs := align.ExtractReferences(cleaned[i])
		pairs := align.MatchReferences(baselineRefs, laterRefs, cfg.Reference.DistanceToleranceFt, cfg.Reference.JointMismatchPenalty)

		runZones := align.BuildZones(i, pairs, cfg.Correction.ReplacementDeviationFraction)
		zones = append(zones, runZones...)
		replacements = append(replacements, align.DetectReplacements(0, i, baselineRefs, laterRefs, pairs, cfg.Replacement.GapProximityFt)...)

		driftPoints = append(driftPoints, align.ComputeDrift(i, cleaned[i], laterRefs))
		aligned[i] = align.CorrectDistances(cleaned[i], pairs, runZones)
	}

	runYears := make(map[int]int, len(sortedYears))
	for i, y := range sortedYears {
		runYears[i] = y
	}

	chains := matchAndChain(aligned, cfg)
	decorated := growth.Decorate(chains, runYears, growth.Thresholds{
		ImmediateDepthPct:  cfg.Priority.ImmediateDepthPct,
		ImmediateTTCYears:  cfg.Priority.ImmediateTTCYears,
		ImmediateGrowthPct: cfg.Priority.ImmediateGrowthPct,
		SixtyDayDepthPct:   cfg.Priority.SixtyDayDepthPct,
		SixtyDayGrowthPct:  cfg.Priority.SixtyDayGrowthPct,
		SixtyDayTTCYears:   cfg.Priority.SixtyDayTTCYears,
		OneEightyDepthPct:  cfg.Priority.OneEightyDepthPct,
		OneEightyGrowthPct: cfg.Priority.OneEightyGrowthPct,
		ScheduledDepthPct:  cfg.Priority.ScheduledDepthPct,
		ScheduledGrowthPct: cfg.Priority.ScheduledGrowthPct,
	})

	var allAligned []model.Anomaly
	for _, run := range aligned {
		allAligned = append(allAligned, run...)
	}

	return model.EngineResult{
		RunID:               uuid.NewString(),
		AlignedAnomalies:    allAligned,
		Chains:              decorated,
		AlignmentZones:      zones,
		ReplacementSections: replacements,
		DriftPoints:         driftPoints,
		CleaningReports:     cleaningReports,
	}, nil
}

// sortRunsByYear returns the indices of years in ascending order, so the
// orchestrator always treats index 0 of its working slices as the earliest
// run regardless of the order the caller supplied them in.
func sortRunsByYear(years []int) []int {
	order := make([]int, len(years))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return years[order[i]] < years[order[j]] })
	return order
}

func matchAndChain(aligned [][]model.Anomaly, cfg config.EngineConfig) []model.AnomalyChain {
	params := match.Params{
		CandidateWindowFt:   cfg.Matching.CandidateWindowFt,
		CandidateMinScore:   cfg.Matching.CandidateMinScore,
		AcceptanceThreshold: cfg.Matching.AcceptanceThreshold,
		SentinelCost:        cfg.Matching.SentinelCost,
		Weights: match.Weights{
			Distance:    cfg.Similarity.DistanceWeight,
			Dimensional: cfg.Similarity.DimensionalWeight,
			Clock:       cfg.Similarity.ClockWeight,
			FeatureType: cfg.Similarity.FeatureTypeWeight,
			DecayFt:     cfg.Similarity.DistanceDecayFt,
		},
	}

	var pairChains []match.PairChain
	for i := 0; i < len(aligned)-1; i++ {
		a := nonReferenceAnomalies(aligned[i])
		b := nonReferenceAnomalies(aligned[i+1])
		result := match.Match(a, b, params)
		pairChains = append(pairChains, match.PairChain{RunA: i, RunB: i + 1, Result: result})
	}

	return match.BuildChains(pairChains)
}

func nonReferenceAnomalies(anomalies []model.Anomaly) []model.Anomaly {
	out := make([]model.Anomaly, 0, len(anomalies))
	for _, a := range anomalies {
		if !a.IsReferencePoint {
			out = append(out, a)
		}
	}
	return out
}
