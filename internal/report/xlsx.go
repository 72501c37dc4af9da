// Package report renders an EngineResult as a multi-sheet workbook, the
// same shape original_source's ILI_aligned_output.xlsx used: one
// "<run>_aligned" sheet per inspection run, a chains sheet joining every
// tracked feature's history across runs, and one sheet each for the
// alignment and cleaning audit trails.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/pipeops/ili-alignment/internal/model"
)

// WriteWorkbook renders result as an XLSX workbook and writes it to w.
// runYears maps each run index (as assigned by engine.Run) to the
// inspection year it was recorded, used only for sheet naming.
func WriteWorkbook(result model.EngineResult, runYears map[int]int, w io.Writer) error {
	f := xlsx.NewFile()

	if err := writeAlignedSheets(f, result.AlignedAnomalies, runYears); err != nil {
		return err
	}
	if err := writeChainsSheet(f, result.Chains); err != nil {
		return err
	}
	if err := writeZonesSheet(f, result.AlignmentZones); err != nil {
		return err
	}
	if err := writeReplacementsSheet(f, result.ReplacementSections); err != nil {
		return err
	}
	if err := writeCleaningSheet(f, result.CleaningReports); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "report: write workbook")
	}
	return nil
}

func writeAlignedSheets(f *xlsx.File, anomalies []model.Anomaly, runYears map[int]int) error {
	byRun := map[int][]model.Anomaly{}
	for _, a := range anomalies {
		byRun[a.ID.RunIndex] = append(byRun[a.ID.RunIndex], a)
	}

	for runIdx, rows := range byRun {
		name := sheetName(fmt.Sprintf("run%d_%d_aligned", runIdx, runYears[runIdx]))
		sheet, err := f.AddSheet(name)
		if err != nil {
			return eris.Wrapf(err, "report: add sheet %s", name)
		}

		header := sheet.AddRow()
		for _, h := range []string{
			"row_index", "feature_id", "raw_distance_ft", "corrected_distance_ft",
			"joint_number", "clock_degrees", "type", "depth_pct", "length_in",
			"width_in", "wall_thickness_in", "is_reference", "cleaning_flags",
		} {
			header.AddCell().SetString(h)
		}

		for _, a := range rows {
			row := sheet.AddRow()
			row.AddCell().SetInt(a.ID.RowIndex)
			row.AddCell().SetString(a.FeatureID)
			row.AddCell().SetFloat(a.RawDistance)
			row.AddCell().SetFloat(a.CorrectedDistance)
			row.AddCell().SetInt(a.JointNumber)
			row.AddCell().SetFloat(a.ClockDegrees)
			row.AddCell().SetString(string(a.CanonicalType))
			row.AddCell().SetFloat(a.DepthPercent)
			row.AddCell().SetFloat(a.Length)
			row.AddCell().SetFloat(a.Width)
			row.AddCell().SetFloat(a.WallThickness)
			row.AddCell().SetBool(a.IsReferencePoint)
			row.AddCell().SetString(strings.Join(a.CleaningFlags, "; "))
		}
	}
	return nil
}

func writeChainsSheet(f *xlsx.File, chains []model.AnomalyChain) error {
	sheet, err := f.AddSheet("chains")
	if err != nil {
		return eris.Wrap(err, "report: add chains sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{
		"run_indices", "confidence", "status", "depth_growth_pct_per_yr",
		"length_growth_in_per_yr", "width_growth_in_per_yr", "time_to_critical_yrs",
		"priority", "representative_position_ft", "latest_depth_pct", "latest_type",
	} {
		header.AddCell().SetString(h)
	}

	for _, c := range chains {
		row := sheet.AddRow()
		row.AddCell().SetString(joinInts(c.RunIndices))
		row.AddCell().SetFloat(c.Confidence)
		row.AddCell().SetString(string(c.Status))
		row.AddCell().SetFloat(c.Growth.DepthPercentPerYear)
		row.AddCell().SetFloat(c.Growth.LengthInPerYear)
		row.AddCell().SetFloat(c.Growth.WidthInPerYear)
		if c.TimeToCriticalYrs != nil {
			row.AddCell().SetFloat(*c.TimeToCriticalYrs)
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetString(string(c.Priority))
		row.AddCell().SetFloat(c.RepresentativePos)
		latest := c.Latest()
		row.AddCell().SetFloat(latest.DepthPercent)
		row.AddCell().SetString(string(latest.CanonicalType))
	}
	return nil
}

func writeZonesSheet(f *xlsx.File, zones []model.AlignmentZone) error {
	sheet, err := f.AddSheet("alignment_zones")
	if err != nil {
		return eris.Wrap(err, "report: add alignment_zones sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{
		"run_index", "start_raw_ft", "end_raw_ft", "start_canonical_ft", "end_canonical_ft",
		"correction_factor", "is_pipe_replacement",
	} {
		header.AddCell().SetString(h)
	}

	for _, z := range zones {
		row := sheet.AddRow()
		row.AddCell().SetInt(z.RunIndex)
		row.AddCell().SetFloat(z.StartRaw)
		row.AddCell().SetFloat(z.EndRaw)
		row.AddCell().SetFloat(z.StartCanonical)
		row.AddCell().SetFloat(z.EndCanonical)
		row.AddCell().SetFloat(z.CorrectionFactor)
		row.AddCell().SetBool(z.IsPipeReplacement)
	}
	return nil
}

func writeReplacementsSheet(f *xlsx.File, sections []model.ReplacementSection) error {
	sheet, err := f.AddSheet("replacement_sections")
	if err != nil {
		return eris.Wrap(err, "report: add replacement_sections sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"run_index", "kind", "start_distance_ft", "end_distance_ft", "point_count"} {
		header.AddCell().SetString(h)
	}

	for _, s := range sections {
		row := sheet.AddRow()
		row.AddCell().SetInt(s.RunIndex)
		row.AddCell().SetString(s.Kind)
		row.AddCell().SetFloat(s.StartDistance)
		row.AddCell().SetFloat(s.EndDistance)
		row.AddCell().SetInt(s.PointCount)
	}
	return nil
}

func writeCleaningSheet(f *xlsx.File, reports []model.CleaningReport) error {
	sheet, err := f.AddSheet("cleaning_reports")
	if err != nil {
		return eris.Wrap(err, "report: add cleaning_reports sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"run_index", "pass", "description", "rows_affected"} {
		header.AddCell().SetString(h)
	}

	for _, r := range reports {
		for _, p := range r.Passes {
			row := sheet.AddRow()
			row.AddCell().SetInt(r.RunIndex)
			row.AddCell().SetString(p.Name)
			row.AddCell().SetString(p.Description)
			row.AddCell().SetInt(p.RowsAffected)
		}
	}
	return nil
}

// sheetName clamps to Excel's 31-character sheet-name limit.
func sheetName(name string) string {
	if len(name) <= 31 {
		return name
	}
	return name[:31]
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
