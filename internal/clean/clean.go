// Package clean runs the seven-pass data-quality pipeline over one run's
// normalized anomalies, producing a cleaned anomaly list plus a per-run
// audit report. Every pass is a pure transform: it returns a new slice and
// a PassReport, and never raises an error — data problems are recorded as
// flags, never thrown, per the propagation policy the engine as a whole
// follows.
package clean

import (
	"fmt"
	"math"
	"sort"

	"github.com/pipeops/ili-alignment/internal/model"
)

// Run applies the seven ordered cleaning passes to one run's anomalies.
// others holds the already-normalized anomalies of every other run in the
// batch, consulted only by pass 6's cross-run wall-thickness check.
func Run(anomalies []model.Anomaly, others [][]model.Anomaly) ([]model.Anomaly, model.CleaningReport) {
	report := model.CleaningReport{TotalRows: len(anomalies)}

	current := anomalies
	passes := []func([]model.Anomaly, [][]model.Anomaly) ([]model.Anomaly, model.PassReport){
		removeDuplicates,
		convertUnits,
		clampOutliers,
		interpolateMissing,
		flagNonMonotonic,
		flagWTCrossRunDeviation,
		flagZeroDimensions,
	}

	for _, pass := range passes {
		var pr model.PassReport
		current, pr = pass(current, others)
		report.Passes = append(report.Passes, pr)
	}

	report.DuplicatesRemoved = report.Passes[0].RowsAffected
	for _, a := range current {
		if len(a.CleaningFlags) > 0 {
			report.FlaggedRows++
		}
	}

	return current, report
}

// --- Pass 1: duplicate removal ---

type dupKey struct {
	distance     float64
	clock        float64
	featureType  model.FeatureType
	depthPercent float64
}

func removeDuplicates(in []model.Anomaly, _ [][]model.Anomaly) ([]model.Anomaly, model.PassReport) {
	seen := make(map[dupKey]bool, len(in))
	out := make([]model.Anomaly, 0, len(in))
	var details []string

	for _, a := range in {
		key := dupKey{
			distance:     round(a.RawDistance, 2),
			clock:        round(a.ClockDegrees, 0),
			featureType:  a.CanonicalType,
			depthPercent: round(a.DepthPercent, 1),
		}
		if seen[key] {
			details = append(details, fmt.Sprintf("dropped duplicate of (run %d, row %d)", a.ID.RunIndex, a.ID.RowIndex))
			continue
		}
		seen[key] = true
		out = append(out, a)
	}

	return out, model.PassReport{
		Name:         "duplicate_removal",
		Description:  "removes rows sharing (distance, clock, type, depth) with an earlier row",
		RowsAffected: len(in) - len(out),
		Details:      details,
	}
}

// --- Pass 2: unit detection and conversion ---

const (
	metersToFeet       = 3.28084
	mmToInches         = 0.0393701
	distanceMaxFtGuard = 100000.0
	distanceMedianGuard = 30000.0
	dimensionMedianGuardMM = 10.0
	wtMedianGuardMM        = 3.0
)

func convertUnits(in []model.Anomaly, _ [][]model.Anomaly) ([]model.Anomaly, model.PassReport) {
	out := make([]model.Anomaly, len(in))
	copy(out, in)
	var details []string
	affected := 0

	distances := make([]float64, len(out))
	for i, a := range out {
		distances[i] = a.RawDistance
	}
	maxDist := maxOf(distances)
	medDist := median(distances)
	if maxDist < distanceMaxFtGuard && medDist < distanceMedianGuard {
		for i := range out {
			out[i].RawDistance *= metersToFeet
			out[i].Odometer *= metersToFeet
			out[i].CorrectedDistance *= metersToFeet
			out[i].AddFlag("distance_converted_m_to_ft")
			affected++
		}
		details = append(details, fmt.Sprintf("distances converted metres->feet (max=%.1f, median=%.1f)", maxDist, medDist))
	}

	lengths := positiveValues(out, func(a model.Anomaly) float64 { return a.Length })
	widths := positiveValues(out, func(a model.Anomaly) float64 { return a.Width })
	dims := append(append([]float64{}, lengths...), widths...)
	if medDims := median(dims); medDims > dimensionMedianGuardMM {
		for i := range out {
			out[i].Length *= mmToInches
			out[i].Width *= mmToInches
			out[i].AddFlag("dimensions_converted_mm_to_in")
		}
		details = append(details, fmt.Sprintf("length/width converted mm->in (median=%.2f)", medDims))
	}

	wts := positiveValues(out, func(a model.Anomaly) float64 { return a.WallThickness })
	if medWT := median(wts); medWT > wtMedianGuardMM {
		for i := range out {
			out[i].WallThickness *= mmToInches
			out[i].AddFlag("wt_converted_mm_to_in")
		}
		details = append(details, fmt.Sprintf("wall thickness converted mm->in (median=%.2f)", medWT))
	}

	return out, model.PassReport{
		Name:         "unit_conversion",
		Description:  "heuristically detects and converts metric distance/dimension/WT columns to imperial",
		RowsAffected: affected,
		Details:      details,
	}
}

// --- Pass 3: outlier clamping ---

const (
	wtLowClamp    = 0.05
	wtLowValue    = 0.188
	wtHighClamp   = 2.5
	wtHighValue   = 2.0
	dimensionClampMax = 100.0
)

func clampOutliers(in []model.Anomaly, _ [][]model.Anomaly) ([]model.Anomaly, model.PassReport) {
	out := make([]model.Anomaly, len(in))
	copy(out, in)
	affected := 0

	for i := range out {
		a := &out[i]
		changed := false

		if a.DepthPercent < 0 || a.DepthPercent > 100 {
			a.DepthPercent = clamp(a.DepthPercent, 0, 100)
			a.AddFlag("depth_percent_clamped")
			changed = true
		}
		if a.WallThickness < wtLowClamp {
			a.WallThickness = wtLowValue
			a.AddFlag("wt_clamped_low")
			changed = true
		} else if a.WallThickness > wtHighClamp {
			a.WallThickness = wtHighValue
			a.AddFlag("wt_clamped_high")
			changed = true
		}
		if a.Length > dimensionClampMax {
			a.Length = dimensionClampMax
			a.AddFlag("length_clamped")
			changed = true
		}
		if a.Width > dimensionClampMax {
			a.Width = dimensionClampMax
			a.AddFlag("width_clamped")
			changed = true
		}

		if changed {
			affected++
		}
	}

	return out, model.PassReport{
		Name:         "outlier_clamping",
		Description:  "clamps depth/WT/length/width to physically plausible ranges",
		RowsAffected: affected,
	}
}

// --- Pass 4: missing-value interpolation ---

func interpolateMissing(in []model.Anomaly, _ [][]model.Anomaly) ([]model.Anomaly, model.PassReport) {
	out := make([]model.Anomaly, len(in))
	copy(out, in)
	affected := 0

	for i := range out {
		a := &out[i]
		if a.RawDistance == 0 && i > 0 && i < len(out)-1 {
			prev, next := out[i-1].RawDistance, out[i+1].RawDistance
			if prev > 0 && next > 0 {
				interp := (prev + next) / 2
				a.RawDistance = interp
				a.CorrectedDistance = interp
				a.AddFlag("distance_interpolated")
				affected++
			}
		}
		if a.Odometer == 0 && a.RawDistance > 0 {
			a.Odometer = a.RawDistance
			a.AddFlag("odometer_from_distance")
			affected++
		}
	}

	return out, model.PassReport{
		Name:         "missing_value_interpolation",
		Description:  "fills interior zero distances from neighbor mean; derives odometer from distance",
		RowsAffected: affected,
	}
}

// --- Pass 5: distance monotonicity ---

const backwardJumpMinorFt = 10.0

func flagNonMonotonic(in []model.Anomaly, _ [][]model.Anomaly) ([]model.Anomaly, model.PassReport) {
	out := make([]model.Anomaly, len(in))
	copy(out, in)
	affected := 0

	for i := 1; i < len(out); i++ {
		prev, cur := out[i-1].RawDistance, out[i].RawDistance
		if prev <= 0 || cur <= 0 || cur >= prev {
			continue
		}
		delta := prev - cur
		if delta < backwardJumpMinorFt {
			out[i].AddFlag(fmt.Sprintf("distance_backward_jump_%dft", int(math.Round(delta))))
		} else {
			out[i].AddFlag(fmt.Sprintf("distance_major_backward_jump_%dft", int(math.Round(delta))))
		}
		affected++
	}

	return out, model.PassReport{
		Name:         "distance_monotonicity",
		Description:  "flags (but keeps) rows whose distance regresses from their predecessor",
		RowsAffected: affected,
	}
}

// --- Pass 6: cross-run wall-thickness consistency ---

const wtCrossRunDeviationFraction = 0.30

func flagWTCrossRunDeviation(in []model.Anomaly, others [][]model.Anomaly) ([]model.Anomaly, model.PassReport) {
	out := make([]model.Anomaly, len(in))
	copy(out, in)

	if len(others) == 0 {
		return out, model.PassReport{
			Name:         "wt_cross_run_consistency",
			Description:  "skipped: no other runs provided",
			RowsAffected: 0,
		}
	}

	var pooled []float64
	for _, run := range others {
		pooled = append(pooled, positiveValues(run, func(a model.Anomaly) float64 { return a.WallThickness })...)
	}
	medWT := median(pooled)
	if medWT <= 0 {
		return out, model.PassReport{
			Name:         "wt_cross_run_consistency",
			Description:  "skipped: no positive WT values in other runs",
			RowsAffected: 0,
		}
	}

	affected := 0
	for i := range out {
		wt := out[i].WallThickness
		if wt <= 0 {
			continue
		}
		deviation := math.Abs(wt-medWT) / medWT
		if deviation > wtCrossRunDeviationFraction {
			pct := int(math.Round(deviation * 100))
			out[i].AddFlag(fmt.Sprintf("wt_cross_run_deviation_%dpct", pct))
			affected++
		}
	}

	return out, model.PassReport{
		Name:         "wt_cross_run_consistency",
		Description:  fmt.Sprintf("flags WT deviating >%.0f%% from other runs' median (%.3f in)", wtCrossRunDeviationFraction*100, medWT),
		RowsAffected: affected,
	}
}

// --- Pass 7: zero-dimension check ---

func flagZeroDimensions(in []model.Anomaly, _ [][]model.Anomaly) ([]model.Anomaly, model.PassReport) {
	out := make([]model.Anomaly, len(in))
	copy(out, in)
	affected := 0

	for i := range out {
		a := &out[i]
		if a.IsReferencePoint {
			continue
		}
		if a.Length == 0 && a.Width == 0 && a.DepthPercent == 0 {
			a.AddFlag("zero_dimensions")
			a.HasMissingData = true
			affected++
		}
	}

	return out, model.PassReport{
		Name:         "zero_dimension_check",
		Description:  "flags non-reference anomalies with no reported length, width, or depth",
		RowsAffected: affected,
	}
}

// --- shared numeric helpers ---

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxOf(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	if math.IsInf(m, -1) {
		return 0
	}
	return m
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func positiveValues(anomalies []model.Anomaly, field func(model.Anomaly) float64) []float64 {
	var out []float64
	for _, a := range anomalies {
		if v := field(a); v > 0 {
			out = append(out, v)
		}
	}
	return out
}
