// Package match scores anomaly-to-anomaly similarity, runs a minimum-cost
// bipartite assignment between two consecutive runs' non-reference
// anomalies, and composes the pairwise results into cross-run chains.
package match

import (
	"math"

	"github.com/pipeops/ili-alignment/internal/model"
)

// compatibleFeatureTypes lists unordered pairs of canonical types that are
// similar enough to earn a partial feature-type score even when they don't
// match exactly — a corrosion cell classified external in one run and
// generic metal loss in the next is still very likely the same defect.
var compatibleFeatureTypes = map[[2]model.FeatureType]bool{
	{model.ExternalMetalLoss, model.MetalLoss}:      true,
	{model.InternalMetalLoss, model.MetalLoss}:      true,
	{model.ExternalMetalLoss, model.InternalMetalLoss}: true,
	{model.Crack, model.Gouge}:                      true,
	{model.GirthWeld, model.SeamWeld}:                true,
}

// Weights configures C7's four component weights and the distance decay
// constant, tunable from internal/config.SimilarityConfig.
type Weights struct {
	Distance    float64
	Dimensional float64
	Clock       float64
	FeatureType float64
	DecayFt     float64
}

// DefaultWeights reproduces the specification's fixed weighting.
func DefaultWeights() Weights {
	return Weights{Distance: 0.40, Dimensional: 0.30, Clock: 0.20, FeatureType: 0.10, DecayFt: 50}
}

// Similarity computes the weighted multi-metric similarity between two
// non-reference anomalies. Each component is bounded to [0,1], so the
// weighted total is too.
func Similarity(x, y model.Anomaly, w Weights) model.SimilarityBreakdown {
	sb := model.SimilarityBreakdown{
		Distance:    distanceScore(x, y, w.DecayFt),
		Dimensional: dimensionalScore(x, y),
		Clock:       clockScore(x, y),
		FeatureType: featureTypeScore(x, y),
	}
	sb.Total = w.Distance*sb.Distance + w.Dimensional*sb.Dimensional + w.Clock*sb.Clock + w.FeatureType*sb.FeatureType
	return sb
}

func distanceScore(x, y model.Anomaly, decayFt float64) float64 {
	if decayFt <= 0 {
		decayFt = 1
	}
	delta := math.Abs(x.CorrectedDistance - y.CorrectedDistance)
	return math.Exp(-delta / decayFt)
}

func dimensionalScore(x, y model.Anomaly) float64 {
	a := [3]float64{clampNonNeg(x.DepthPercent), clampNonNeg(x.Length), clampNonNeg(x.Width)}
	b := [3]float64{clampNonNeg(y.DepthPercent), clampNonNeg(y.Length), clampNonNeg(y.Width)}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	magA, magB = math.Sqrt(magA), math.Sqrt(magB)
	if magA < 1e-10 || magB < 1e-10 {
		return 0
	}
	return dot / (magA * magB)
}

func clampNonNeg(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func clockScore(x, y model.Anomaly) float64 {
	delta := math.Abs(x.ClockDegrees - y.ClockDegrees)
	wrapped := math.Min(delta, 360-delta)
	return 1 - wrapped/180
}

func featureTypeScore(x, y model.Anomaly) float64 {
	if x.CanonicalType == y.CanonicalType {
		return 1.0
	}
	if compatibleFeatureTypes[[2]model.FeatureType{x.CanonicalType, y.CanonicalType}] ||
		compatibleFeatureTypes[[2]model.FeatureType{y.CanonicalType, x.CanonicalType}] {
		return 0.5
	}
	return 0.0
}
