package model

// ChainStatus classifies an AnomalyChain by confidence and origin.
type ChainStatus string

const (
	StatusMatched   ChainStatus = "matched"
	StatusUncertain ChainStatus = "uncertain"
	StatusNew       ChainStatus = "new"
	StatusMissing   ChainStatus = "missing"
)

// PriorityBand is a regulatory response-time classification.
type PriorityBand string

const (
	PriorityImmediate PriorityBand = "IMMEDIATE"
	Priority60Day     PriorityBand = "60-DAY"
	Priority180Day    PriorityBand = "180-DAY"
	PriorityScheduled PriorityBand = "SCHEDULED"
	PriorityMonitor   PriorityBand = "MONITOR"
)

// SimilarityBreakdown is the per-component result of comparing two
// anomalies, plus the weighted total.
type SimilarityBreakdown struct {
	Distance    float64 `json:"distance"`
	Dimensional float64 `json:"dimensional"`
	Clock       float64 `json:"clock"`
	FeatureType float64 `json:"feature_type"`
	Total       float64 `json:"total"`
}

// GrowthRates holds the fitted per-year growth rates for one chain.
type GrowthRates struct {
	DepthPercentPerYear float64 `json:"depth_percent_per_year"`
	LengthInPerYear     float64 `json:"length_in_per_year"`
	WidthInPerYear      float64 `json:"width_in_per_year"`
}

// AnomalyChain is a single physical feature tracked across 1..K inspection
// runs.
type AnomalyChain struct {
	Anomalies         []Anomaly            `json:"anomalies"`
	RunIndices        []int                `json:"run_indices"`
	Confidence        float64              `json:"confidence"`
	Status            ChainStatus          `json:"status"`
	LastSimilarity    SimilarityBreakdown  `json:"last_similarity"`
	Growth            GrowthRates          `json:"growth"`
	TimeToCriticalYrs *float64             `json:"time_to_critical_years"`
	Priority          PriorityBand         `json:"priority"`
	RepresentativePos float64              `json:"representative_position"`
}

// Latest returns the chain's most recently observed anomaly, the one from
// the highest run index.
func (c AnomalyChain) Latest() Anomaly {
	latest := c.Anomalies[0]
	for _, a := range c.Anomalies[1:] {
		if a.ID.RunIndex > latest.ID.RunIndex {
			latest = a
		}
	}
	return latest
}

// StatusForConfidence maps a confidence score to matched/uncertain per the
// engine's fixed thresholds. It does not decide new/missing — those are
// assigned by chain origin, not confidence.
func StatusForConfidence(confidence float64) ChainStatus {
	switch {
	case confidence >= 0.70:
		return StatusMatched
	case confidence >= 0.40:
		return StatusUncertain
	default:
		return StatusUncertain
	}
}
