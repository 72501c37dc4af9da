package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipeops/ili-alignment/internal/model"
)

func anomalyAtDistance(runIndex int, d float64) model.Anomaly {
	return model.Anomaly{ID: model.AnomalyID{RunIndex: runIndex}, RawDistance: d, CorrectedDistance: d}
}

func TestBuildZones_FewerThanTwoPairsYieldsNoZones(t *testing.T) {
	pairs := []model.MatchedReference{model.NewMatchedReference(ref(0, 1000, 1), ref(0, 1050, 1))}
	assert.Empty(t, BuildZones(1, pairs, 0.2))
}

func TestBuildZones_CorrectionFactorAndReplacementFlag(t *testing.T) {
	pairs := []model.MatchedReference{
		model.NewMatchedReference(ref(0, 1000, 1), ref(0, 1000, 1)),
		model.NewMatchedReference(ref(1, 2000, 2), ref(1, 2500, 2)), // raw span 1500 vs canon span 1000 -> factor 1.5
	}
	zones := BuildZones(1, pairs, 0.2)
	require.Len(t, zones, 1)
	assert.InDelta(t, 1.5, zones[0].CorrectionFactor, 0.001)
	assert.True(t, zones[0].IsPipeReplacement)
}

func TestCorrectDistances_IdentityAlignment(t *testing.T) {
	pairs := []model.MatchedReference{
		model.NewMatchedReference(ref(0, 1000, 1), ref(0, 1000, 1)),
		model.NewMatchedReference(ref(1, 2000, 2), ref(1, 2000, 2)),
	}
	zones := BuildZones(1, pairs, 0.2)
	anomalies := []model.Anomaly{anomalyAtDistance(1, 1500)}

	out := CorrectDistances(anomalies, pairs, zones)
	assert.InDelta(t, 1500, out[0].CorrectedDistance, 1e-6)
}

func TestCorrectDistances_Translation(t *testing.T) {
	pairs := []model.MatchedReference{
		model.NewMatchedReference(ref(0, 1000, 1), ref(0, 1050, 1)),
		model.NewMatchedReference(ref(1, 2000, 2), ref(1, 2050, 2)),
	}
	zones := BuildZones(1, pairs, 0.2)
	anomalies := []model.Anomaly{
		anomalyAtDistance(1, 500),  // before first pair
		anomalyAtDistance(1, 1500), // inside zone
		anomalyAtDistance(1, 2500), // after last pair
	}

	out := CorrectDistances(anomalies, pairs, zones)
	assert.InDelta(t, 500-50, out[0].CorrectedDistance, 1e-6)
	assert.InDelta(t, 1500-50, out[1].CorrectedDistance, 1e-6)
	assert.InDelta(t, 2500-50, out[2].CorrectedDistance, 1e-6)
}

func TestCorrectDistances_SinglePairTranslatesEverything(t *testing.T) {
	pairs := []model.MatchedReference{
		model.NewMatchedReference(ref(0, 1000, 1), ref(0, 1050, 1)),
	}
	zones := BuildZones(1, pairs, 0.2)
	require.Empty(t, zones)

	anomalies := []model.Anomaly{anomalyAtDistance(1, 3000)}
	out := CorrectDistances(anomalies, pairs, zones)
	assert.InDelta(t, 3000-50, out[0].CorrectedDistance, 1e-6)
}

func TestCorrectDistances_ZeroPairsUnchanged(t *testing.T) {
	anomalies := []model.Anomaly{anomalyAtDistance(1, 3000)}
	out := CorrectDistances(anomalies, nil, nil)
	assert.InDelta(t, 3000, out[0].CorrectedDistance, 1e-6)
}

func TestCorrectDistances_JointFractionDiagnostic(t *testing.T) {
	pairs := []model.MatchedReference{
		model.NewMatchedReference(ref(0, 1000, 1), ref(0, 1000, 1)),
		model.NewMatchedReference(ref(1, 2000, 2), ref(1, 2000, 2)), // canon span 1000
	}
	zones := BuildZones(1, pairs, 0.2)
	require.Len(t, zones, 1)

	a := anomalyAtDistance(1, 1500)
	a.JointNumber = 2
	a.SetExtra("relative_position", "300")

	out := CorrectDistances([]model.Anomaly{a}, pairs, zones)
	assert.InDelta(t, 0.3, out[0].Extras["joint_fraction"], 1e-6)
}

func TestCorrectDistances_JointFractionClipped(t *testing.T) {
	pairs := []model.MatchedReference{
		model.NewMatchedReference(ref(0, 1000, 1), ref(0, 1000, 1)),
		model.NewMatchedReference(ref(1, 2000, 2), ref(1, 2000, 2)),
	}
	zones := BuildZones(1, pairs, 0.2)

	a := anomalyAtDistance(1, 1500)
	a.JointNumber = 1
	a.SetExtra("relative_position", "5000") // 5.0 unclipped, clipped to 1.5

	out := CorrectDistances([]model.Anomaly{a}, pairs, zones)
	assert.InDelta(t, 1.5, out[0].Extras["joint_fraction"], 1e-6)
}

func TestCorrectDistances_JointFractionSkippedWithoutMatch(t *testing.T) {
	pairs := []model.MatchedReference{
		model.NewMatchedReference(ref(0, 1000, 1), ref(0, 1000, 1)),
		model.NewMatchedReference(ref(1, 2000, 2), ref(1, 2000, 2)),
	}
	zones := BuildZones(1, pairs, 0.2)

	a := anomalyAtDistance(1, 1500)
	a.JointNumber = 99 // doesn't bound any zone
	a.SetExtra("relative_position", "300")

	out := CorrectDistances([]model.Anomaly{a}, pairs, zones)
	assert.NotContains(t, out[0].Extras, "joint_fraction")
}

func TestBuildZones_Continuity(t *testing.T) {
	pairs := []model.MatchedReference{
		model.NewMatchedReference(ref(0, 1000, 1), ref(0, 1050, 1)),
		model.NewMatchedReference(ref(1, 2000, 2), ref(1, 2100, 2)),
		model.NewMatchedReference(ref(2, 3000, 3), ref(2, 3100, 3)),
	}
	zones := BuildZones(1, pairs, 0.2)
	require.Len(t, zones, 2)

	// The boundary point (raw 2100 == zones[0].EndRaw == zones[1].StartRaw)
	// must map to the same corrected value from either zone.
	boundary := zones[0].EndRaw
	a := []model.Anomaly{anomalyAtDistance(1, boundary)}
	out := CorrectDistances(a, pairs, zones)
	assert.InDelta(t, zones[0].EndCanonical, out[0].CorrectedDistance, 1e-6)
	assert.InDelta(t, zones[1].StartCanonical, out[0].CorrectedDistance, 1e-6)
}
