package align

import (
	"fmt"
	"sort"

	"github.com/pipeops/ili-alignment/internal/model"
)

const fullSeriesMaxSamples = 200

// ComputeDrift builds one run's drift diagnostics: a reference-point series
// labeled by joint number, a down-sampled full-run series, and summary
// statistics. Drift is always measured pre-correction, from raw distance
// minus odometer, for both series.
func ComputeDrift(runIndex int, anomalies []model.Anomaly, refs []model.ReferencePoint) model.RunDrift {
	refSeries := make([]model.DriftPoint, 0, len(refs))
	sortedRefs := make([]model.ReferencePoint, len(refs))
	copy(sortedRefs, refs)
	sort.Slice(sortedRefs, func(i, j int) bool { return sortedRefs[i].Distance < sortedRefs[j].Distance })

	for i, r := range sortedRefs {
		refSeries = append(refSeries, model.DriftPoint{
			Label:    fmt.Sprintf("Ref %d (Jt %d)", i, r.JointNumber),
			Distance: r.Distance,
			Odometer: r.Odometer,
			Drift:    r.Distance - r.Odometer,
		})
	}

	sortedAnomalies := make([]model.Anomaly, len(anomalies))
	copy(sortedAnomalies, anomalies)
	sort.Slice(sortedAnomalies, func(i, j int) bool { return sortedAnomalies[i].RawDistance < sortedAnomalies[j].RawDistance })

	stride := 1
	if n := len(sortedAnomalies); n > fullSeriesMaxSamples {
		stride = n / fullSeriesMaxSamples
	}

	fullSeries := make([]model.DriftPoint, 0, fullSeriesMaxSamples+1)
	for i := 0; i < len(sortedAnomalies); i += stride {
		a := sortedAnomalies[i]
		fullSeries = append(fullSeries, model.DriftPoint{
			Distance: a.RawDistance,
			Odometer: a.Odometer,
			Drift:    a.RawDistance - a.Odometer,
		})
	}

	return model.RunDrift{
		RunIndex:        runIndex,
		ReferenceSeries: refSeries,
		FullSeries:      fullSeries,
		Summary:         summarize(runIndex, fullSeries),
	}
}

func summarize(runIndex int, series []model.DriftPoint) model.DriftSummary {
	if len(series) == 0 {
		return model.DriftSummary{RunIndex: runIndex}
	}

	maxDrift, minDrift, sum := series[0].Drift, series[0].Drift, 0.0
	for _, p := range series {
		if p.Drift > maxDrift {
			maxDrift = p.Drift
		}
		if p.Drift < minDrift {
			minDrift = p.Drift
		}
		sum += p.Drift
	}
	mean := sum / float64(len(series))

	totalAccumulated := series[len(series)-1].Drift - series[0].Drift

	span := series[len(series)-1].Distance - series[0].Distance
	ratePer1000 := 0.0
	if span > 0 {
		ratePer1000 = totalAccumulated / span * 1000
	}

	return model.DriftSummary{
		RunIndex:           runIndex,
		MaxDrift:           maxDrift,
		MinDrift:           minDrift,
		MeanDrift:          mean,
		TotalAccumulated:   totalAccumulated,
		DriftRatePer1000Ft: ratePer1000,
	}
}
