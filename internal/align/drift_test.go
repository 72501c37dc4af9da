package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipeops/ili-alignment/internal/model"
)

func TestComputeDrift_ReferenceSeries(t *testing.T) {
	refs := []model.ReferencePoint{
		{Distance: 1000, Odometer: 990, JointNumber: 1},
		{Distance: 2000, Odometer: 1950, JointNumber: 2},
	}
	drift := ComputeDrift(0, nil, refs)
	require.Len(t, drift.ReferenceSeries, 2)
	assert.InDelta(t, 10, drift.ReferenceSeries[0].Drift, 0.001)
	assert.InDelta(t, 50, drift.ReferenceSeries[1].Drift, 0.001)
}

func TestComputeDrift_Summary(t *testing.T) {
	anomalies := []model.Anomaly{
		{RawDistance: 0, Odometer: 0},
		{RawDistance: 1000, Odometer: 990},
		{RawDistance: 2000, Odometer: 1950},
	}
	drift := ComputeDrift(1, anomalies, nil)
	assert.InDelta(t, 50, drift.Summary.MaxDrift, 0.001)
	assert.InDelta(t, 0, drift.Summary.MinDrift, 0.001)
	assert.InDelta(t, 50, drift.Summary.TotalAccumulated, 0.001)
}

func TestComputeDrift_DownSamplesLargeRuns(t *testing.T) {
	anomalies := make([]model.Anomaly, 500)
	for i := range anomalies {
		anomalies[i] = model.Anomaly{RawDistance: float64(i), Odometer: float64(i)}
	}
	drift := ComputeDrift(0, anomalies, nil)
	assert.LessOrEqual(t, len(drift.FullSeries), 201)
}

func TestComputeDrift_EmptyRun(t *testing.T) {
	drift := ComputeDrift(0, nil, nil)
	assert.Empty(t, drift.FullSeries)
	assert.Empty(t, drift.ReferenceSeries)
	assert.Equal(t, 0, drift.Summary.RunIndex)
}
