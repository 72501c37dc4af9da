package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipeops/ili-alignment/internal/model"
)

func TestRun_SortsByRawDistance(t *testing.T) {
	rows := []model.RawRow{
		{Distance: "500", FeatureType: "Dent"},
		{Distance: "100", FeatureType: "External Corrosion"},
		{Distance: "300", FeatureType: "Girth Weld"},
	}

	anomalies := Run(0, rows)
	require.Len(t, anomalies, 3)
	assert.InDelta(t, 100, anomalies[0].RawDistance, 0.001)
	assert.InDelta(t, 300, anomalies[1].RawDistance, 0.001)
	assert.InDelta(t, 500, anomalies[2].RawDistance, 0.001)
}

func TestNormalizeRow_Defaults(t *testing.T) {
	a := normalizeRow(1, 4, model.RawRow{})

	assert.Equal(t, model.AnomalyID{RunIndex: 1, RowIndex: 4}, a.ID)
	assert.InDelta(t, 0, a.RawDistance, 0.001)
	assert.InDelta(t, 0, a.Odometer, 0.001)
	assert.InDelta(t, defaultWallThicknessIn, a.WallThickness, 0.001)
	assert.Equal(t, model.Unknown, a.CanonicalType)
	assert.True(t, a.HasMissingData)
	assert.False(t, a.IsReferencePoint)
}

func TestNormalizeRow_OdometerDefaultsToDistance(t *testing.T) {
	a := normalizeRow(0, 0, model.RawRow{Distance: "1000", FeatureType: "Dent", DepthPercent: "10", ClockPosition: "3:00"})
	assert.InDelta(t, 1000, a.Odometer, 0.001)
	assert.False(t, a.HasMissingData)
}

func TestNormalizeRow_DepthClamped(t *testing.T) {
	a := normalizeRow(0, 0, model.RawRow{DepthPercent: "150"})
	assert.InDelta(t, 100, a.DepthPercent, 0.001)

	b := normalizeRow(0, 0, model.RawRow{DepthPercent: "-5"})
	assert.InDelta(t, 0, b.DepthPercent, 0.001)
}

func TestNormalizeRow_LengthWidthAbsoluteValue(t *testing.T) {
	a := normalizeRow(0, 0, model.RawRow{Length: "-2.5", Width: "-1.1"})
	assert.InDelta(t, 2.5, a.Length, 0.001)
	assert.InDelta(t, 1.1, a.Width, 0.001)
}

func TestNormalizeRow_ReferencePoint(t *testing.T) {
	a := normalizeRow(0, 0, model.RawRow{FeatureType: "Girth Weld", Distance: "100"})
	assert.True(t, a.IsReferencePoint)
}

func TestNormalizeRow_ExtrasCarried(t *testing.T) {
	a := normalizeRow(0, 0, model.RawRow{
		WeldType:         "double-jointed",
		RelativePosition: "top of pipe",
		Extras:           map[string]string{"vendor_note": "recheck"},
	})
	assert.Equal(t, "double-jointed", a.Extras["weld_type"])
	assert.Equal(t, "top of pipe", a.Extras["relative_position"])
	assert.Equal(t, "recheck", a.Extras["vendor_note"])
}
