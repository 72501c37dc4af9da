// Package model holds the data shapes shared across the alignment engine:
// anomalies, reference points, matched pairs, alignment zones, chains, and
// the final engine result. Types here carry no behavior beyond small
// invariant helpers — the transforms live in the engine's component
// packages.
package model

// FeatureType is the canonical anomaly classification. Raw vendor strings
// are mapped onto this enum by the normalizer.
type FeatureType string

const (
	ExternalMetalLoss  FeatureType = "external_metal_loss"
	InternalMetalLoss  FeatureType = "internal_metal_loss"
	MetalLoss          FeatureType = "metal_loss"
	Dent               FeatureType = "dent"
	Crack              FeatureType = "crack"
	Gouge              FeatureType = "gouge"
	Lamination         FeatureType = "lamination"
	ManufacturingDefect FeatureType = "manufacturing_defect"
	GirthWeld          FeatureType = "girth_weld"
	SeamWeld           FeatureType = "seam_weld"
	Valve              FeatureType = "valve"
	Fitting            FeatureType = "fitting"
	Casing             FeatureType = "casing"
	Unknown            FeatureType = "unknown"
)

// referenceTypes is the set of FeatureType values that anchor coordinate
// alignment between runs.
var referenceTypes = map[FeatureType]bool{
	GirthWeld: true,
	Valve:     true,
	Fitting:   true,
}

// IsReferenceType reports whether t anchors coordinate alignment.
func IsReferenceType(t FeatureType) bool {
	return referenceTypes[t]
}

// AnomalyID uniquely identifies an anomaly within one engine run: the index
// of the run it was observed in, plus its original row index within that
// run's input table.
type AnomalyID struct {
	RunIndex int `json:"run_index"`
	RowIndex int `json:"row_index"`
}

// Anomaly is a single observed feature in one inspection run, in canonical
// units (feet, inches, percent, degrees).
type Anomaly struct {
	ID                AnomalyID   `json:"id"`
	FeatureID         string      `json:"feature_id,omitempty"`
	RawDistance       float64     `json:"raw_distance"`
	Odometer          float64     `json:"odometer"`
	CorrectedDistance float64     `json:"corrected_distance"`
	JointNumber       int         `json:"joint_number"`
	ClockDegrees      float64     `json:"clock_degrees"`
	CanonicalType     FeatureType `json:"canonical_type"`
	DepthPercent      float64     `json:"depth_percent"`
	Length            float64     `json:"length"`
	Width             float64     `json:"width"`
	WallThickness     float64     `json:"wall_thickness"`
	IsReferencePoint  bool        `json:"is_reference_point"`
	CleaningFlags     []string    `json:"cleaning_flags,omitempty"`
	HasMissingData    bool        `json:"has_missing_data"`

	// Extras carries vendor columns the engine does not interpret, plus
	// diagnostic values computed along the way (e.g. joint-relative
	// fractional position) that downstream consumers may want but that the
	// engine's own invariants never depend on.
	Extras map[string]any `json:"extras,omitempty"`
}

// AddFlag appends a cleaning flag to this anomaly. Each anomaly owns its own
// flag slice — flag containers are never shared between anomalies, so passes
// running concurrently across runs never race on the same backing array.
func (a *Anomaly) AddFlag(flag string) {
	a.CleaningFlags = append(a.CleaningFlags, flag)
}

// SetExtra records a diagnostic or passthrough value under key, allocating
// the Extras map on first use.
func (a *Anomaly) SetExtra(key string, value any) {
	if a.Extras == nil {
		a.Extras = make(map[string]any)
	}
	a.Extras[key] = value
}

// ReferencePoint is the subset of an Anomaly's fields used to anchor
// coordinate alignment: welds, valves, and fittings.
type ReferencePoint struct {
	ID          AnomalyID   `json:"id"`
	Distance    float64     `json:"distance"`
	Odometer    float64     `json:"odometer"`
	JointNumber int         `json:"joint_number"`
	Type        FeatureType `json:"type"`
	RunIndex    int         `json:"run_index"`
}

// ToReferencePoint projects a a into a ReferencePoint. Callers must first
// check a.IsReferencePoint.
func ToReferencePoint(a Anomaly) ReferencePoint {
	return ReferencePoint{
		ID:          a.ID,
		Distance:    a.RawDistance,
		Odometer:    a.Odometer,
		JointNumber: a.JointNumber,
		Type:        a.CanonicalType,
		RunIndex:    a.ID.RunIndex,
	}
}
