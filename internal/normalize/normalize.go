// Package normalize turns vendor column-resolved raw rows into canonical
// Anomaly records with typed, bounded fields. It never fails: a row with no
// recoverable data is still emitted, flagged, so downstream cleaning and
// matching can see it.
package normalize

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pipeops/ili-alignment/internal/model"
)

const defaultWallThicknessIn = 0.375

// Run converts one run's raw rows into canonical anomalies, sorted by
// raw_distance ascending. runIndex stamps every resulting Anomaly.ID.
func Run(runIndex int, rows []model.RawRow) []model.Anomaly {
	anomalies := make([]model.Anomaly, 0, len(rows))
	for i, row := range rows {
		anomalies = append(anomalies, normalizeRow(runIndex, i, row))
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].RawDistance < anomalies[j].RawDistance
	})

	return anomalies
}

func normalizeRow(runIndex, rowIndex int, row model.RawRow) model.Anomaly {
	missing := false

	distance, distOK := parseFloat(row.Distance)
	if !distOK {
		distance = 0
		missing = true
	}

	odometer, odoOK := parseFloat(row.Odometer)
	if !odoOK {
		odometer = distance
	}

	jointNumber := 0
	if v, ok := parseInt(row.JointNumber); ok && v > 0 {
		jointNumber = v
	}

	clockDegrees, clockOK := ParseClockDegrees(row.ClockPosition)
	if !clockOK {
		clockDegrees = 0
		missing = true
	}

	featureTypeRaw := strings.TrimSpace(row.FeatureType)
	if featureTypeRaw == "" {
		missing = true
	}
	canonicalType := ClassifyFeatureType(featureTypeRaw)

	depthPercent, depthOK := parseFloat(row.DepthPercent)
	if !depthOK {
		missing = true
	}
	depthPercent = clamp(depthPercent, 0, 100)

	length, _ := parseFloat(row.Length)
	length = absf(length)

	width, _ := parseFloat(row.Width)
	width = absf(width)

	wallThickness, wtOK := parseFloat(row.WallThickness)
	if !wtOK || wallThickness <= 0 {
		wallThickness = defaultWallThicknessIn
	}

	a := model.Anomaly{
		ID:                model.AnomalyID{RunIndex: runIndex, RowIndex: rowIndex},
		FeatureID:         row.FeatureID,
		RawDistance:       distance,
		Odometer:          odometer,
		CorrectedDistance: distance,
		JointNumber:       jointNumber,
		ClockDegrees:      clockDegrees,
		CanonicalType:     canonicalType,
		DepthPercent:      depthPercent,
		Length:            length,
		Width:             width,
		WallThickness:     wallThickness,
		HasMissingData:    missing,
	}
	a.IsReferencePoint = model.IsReferenceType(a.CanonicalType)

	for k, v := range row.Extras {
		a.SetExtra(k, v)
	}
	if row.WeldType != "" {
		a.SetExtra("weld_type", row.WeldType)
	}
	if row.RelativePosition != "" {
		a.SetExtra("relative_position", row.RelativePosition)
	}

	return a
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseInt(s string) (int, bool) {
	f, ok := parseFloat(s)
	if !ok {
		return 0, false
	}
	return int(f), true
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

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
