package ingest

import (
	"strings"

	"github.com/pipeops/ili-alignment/internal/model"
)

// canonicalAliases maps a canonical field name to the vendor header
// substrings (already lower-cased and trimmed) that identify it. Order
// within each slice does not matter; the first alias found in a header wins
// resolution for that header. This mirrors the substring-containment
// classification tables the rest of the corpus uses for messy free-text
// vendor data, generalized from the fixed per-year SCHEMA dictionaries that
// earlier, narrower tooling hard-coded one column set per vendor.
var canonicalAliases = map[string][]string{
	"feature_id":        {"feature id", "anomaly id", "indication id", "event id"},
	"distance":          {"log dist", "distance", "station", "wheel count"},
	"odometer":          {"odometer", "odo dist"},
	"joint_number":      {"joint number", "joint no", "j. no", "jt no", "jt#"},
	"clock_position":    {"o'clock", "oclock", "clock position", "clock"},
	"feature_type":      {"event description", "event", "feature type", "anomaly type", "indication type"},
	"depth_percent":     {"depth", "% wt", "wall loss"},
	"length":            {"length"},
	"width":             {"width"},
	"wall_thickness":    {"wall thickness", "nominal wt", "wt ["},
	"weld_type":         {"weld type", "weld classification"},
	"relative_position": {"to u/s", "to d/s", "relative position", "dus", "dds"},
}

// ResolveHeaders maps a header row's raw column names onto canonical field
// names. Unresolved headers are dropped from the returned map but preserved
// per-row in RawRow.Extras by ResolveRows.
func ResolveHeaders(headers []string) map[int]string {
	resolved := make(map[int]string)
	for i, h := range headers {
		norm := normalizeHeader(h)
		if norm == "" {
			continue
		}
		if field, ok := matchCanonicalField(norm); ok {
			resolved[i] = field
		}
	}
	return resolved
}

func matchCanonicalField(norm string) (string, bool) {
	for field, aliases := range canonicalAliases {
		for _, alias := range aliases {
			if strings.Contains(norm, alias) {
				return field, true
			}
		}
	}
	return "", false
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "\n", " ")
	h = strings.Join(strings.Fields(h), " ")
	return h
}

// ResolveRows converts raw string rows (header row first) into RawRow
// values addressed by canonical field name. Rows shorter than the header are
// treated as having empty trailing cells; this function never fails — a
// spreadsheet with no resolvable columns simply yields RawRows with every
// canonical field empty and everything preserved in Extras.
func ResolveRows(rows [][]string) []model.RawRow {
	if len(rows) == 0 {
		return nil
	}

	headers := rows[0]
	fieldByCol := ResolveHeaders(headers)

	out := make([]model.RawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, resolveRow(headers, fieldByCol, row))
	}
	return out
}

func resolveRow(headers []string, fieldByCol map[int]string, row []string) model.RawRow {
	var rr model.RawRow
	for col, field := range fieldByCol {
		if col >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[col])
		switch field {
		case "feature_id":
			rr.FeatureID = val
		case "distance":
			rr.Distance = val
		case "odometer":
			rr.Odometer = val
		case "joint_number":
			rr.JointNumber = val
		case "clock_position":
			rr.ClockPosition = val
		case "feature_type":
			rr.FeatureType = val
		case "depth_percent":
			rr.DepthPercent = val
		case "length":
			rr.Length = val
		case "width":
			rr.Width = val
		case "wall_thickness":
			rr.WallThickness = val
		case "weld_type":
			rr.WeldType = val
		case "relative_position":
			rr.RelativePosition = val
		}
	}

	for col, h := range headers {
		if _, resolved := fieldByCol[col]; resolved {
			continue
		}
		if col >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[col])
		if val == "" {
			continue
		}
		if rr.Extras == nil {
			rr.Extras = make(map[string]string)
		}
		rr.Extras[strings.TrimSpace(h)] = val
	}

	return rr
}
