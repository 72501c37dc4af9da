package model

// MatchedReference pairs a reference point in an earlier ("a") run with its
// counterpart in a later ("b") run, along with the scalar offsets that pair
// implies.
type MatchedReference struct {
	RefA           ReferencePoint `json:"ref_a"`
	RefB           ReferencePoint `json:"ref_b"`
	DistanceOffset float64        `json:"distance_offset"`
	OdometerDrift  float64        `json:"odometer_drift"`
}

// NewMatchedReference computes DistanceOffset and OdometerDrift from a and b
// per spec: distance_offset = b.distance - a.distance; odometer_drift =
// (b.distance - b.odometer) - (a.distance - a.odometer).
func NewMatchedReference(a, b ReferencePoint) MatchedReference {
	return MatchedReference{
		RefA:           a,
		RefB:           b,
		DistanceOffset: b.Distance - a.Distance,
		OdometerDrift:  (b.Distance - b.Odometer) - (a.Distance - a.Odometer),
	}
}

// ReplacementSection is an advisory report of consecutive unmatched
// reference points that suggest a pipe section was cut out (in the earlier
// run) or spliced in (in the later run).
type ReplacementSection struct {
	RunIndex     int     `json:"run_index"`
	StartDistance float64 `json:"start_distance"`
	EndDistance   float64 `json:"end_distance"`
	PointCount    int     `json:"point_count"`
	Kind          string  `json:"kind"` // "removed" or "added"
}

// AlignmentZone is an interval of the later run's raw-distance axis over
// which the coordinate remap is a single affine function, bounded by two
// consecutive matched reference pairs.
type AlignmentZone struct {
	RunIndex          int     `json:"run_index"`
	StartRaw          float64 `json:"start_raw"`
	EndRaw            float64 `json:"end_raw"`
	StartCanonical    float64 `json:"start_canonical"`
	EndCanonical      float64 `json:"end_canonical"`
	CorrectionFactor  float64 `json:"correction_factor"`
	IsPipeReplacement bool    `json:"is_pipe_replacement"`
	// StartJoint and EndJoint carry the baseline joint number at each zone
	// boundary (0 = unknown), used only for the optional joint-fraction
	// diagnostic; the affine remap above never depends on them.
	StartJoint int `json:"start_joint,omitempty"`
	EndJoint   int `json:"end_joint,omitempty"`
}

// DriftPoint is one sample of a run's odometer drift curve.
type DriftPoint struct {
	Label    string  `json:"label,omitempty"`
	Distance float64 `json:"distance"`
	Odometer float64 `json:"odometer"`
	Drift    float64 `json:"drift"`
}

// DriftSummary holds aggregate drift statistics for one run.
type DriftSummary struct {
	RunIndex          int     `json:"run_index"`
	MaxDrift          float64 `json:"max_drift"`
	MinDrift          float64 `json:"min_drift"`
	MeanDrift         float64 `json:"mean_drift"`
	TotalAccumulated  float64 `json:"total_accumulated"`
	DriftRatePer1000Ft float64 `json:"drift_rate_per_1000ft"`
}

// RunDrift bundles the reference-point series, the down-sampled full-run
// series, and the summary statistics for one run.
type RunDrift struct {
	RunIndex        int          `json:"run_index"`
	ReferenceSeries []DriftPoint `json:"reference_series"`
	FullSeries      []DriftPoint `json:"full_series"`
	Summary         DriftSummary `json:"summary"`
}
