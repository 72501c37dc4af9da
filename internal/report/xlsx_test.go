package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipeops/ili-alignment/internal/model"
)

func sampleResult() model.EngineResult {
	ttc := 9.0
	return model.EngineResult{
		RunID: "test-run",
		AlignedAnomalies: []model.Anomaly{
			{ID: model.AnomalyID{RunIndex: 0, RowIndex: 0}, RawDistance: 100, CorrectedDistance: 100, CanonicalType: model.Dent, DepthPercent: 30},
			{ID: model.AnomalyID{RunIndex: 1, RowIndex: 0}, RawDistance: 150, CorrectedDistance: 100, CanonicalType: model.Dent, DepthPercent: 35},
		},
		Chains: []model.AnomalyChain{
			{
				Anomalies:  []model.Anomaly{{ID: model.AnomalyID{RunIndex: 0}, DepthPercent: 30}, {ID: model.AnomalyID{RunIndex: 1}, DepthPercent: 35, CanonicalType: model.Dent}},
				RunIndices: []int{0, 1},
				Confidence: 0.95,
				Status:     model.StatusMatched,
				Growth:     model.GrowthRates{DepthPercentPerYear: 1.0},
				TimeToCriticalYrs: &ttc,
				Priority:   model.Priority180Day,
			},
		},
		AlignmentZones: []model.AlignmentZone{
			{RunIndex: 1, StartRaw: 0, EndRaw: 100, StartCanonical: 0, EndCanonical: 100, CorrectionFactor: 1},
		},
		ReplacementSections: []model.ReplacementSection{
			{RunIndex: 1, StartDistance: 500, EndDistance: 600, PointCount: 4, Kind: "removed"},
		},
		CleaningReports: []model.CleaningReport{
			{RunIndex: 0, Passes: []model.PassReport{{Name: "remove_duplicates", Description: "dedup", RowsAffected: 2}}},
		},
	}
}

func TestWriteWorkbook_NoError(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWorkbook(sampleResult(), map[int]int{0: 2015, 1: 2020}, &buf)
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}

func TestSheetName_ClampsTo31Chars(t *testing.T) {
	long := "run0_2015_aligned_with_a_very_long_suffix_indeed"
	name := sheetName(long)
	assert.LessOrEqual(t, len(name), 31)
}

func TestJoinInts(t *testing.T) {
	assert.Equal(t, "0,1,2", joinInts([]int{0, 1, 2}))
	assert.Equal(t, "", joinInts(nil))
}
