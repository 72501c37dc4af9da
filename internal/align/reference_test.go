package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipeops/ili-alignment/internal/model"
)

func ref(id int, distance float64, joint int) model.ReferencePoint {
	return model.ReferencePoint{
		ID:          model.AnomalyID{RunIndex: 0, RowIndex: id},
		Distance:    distance,
		Odometer:    distance,
		JointNumber: joint,
		Type:        model.GirthWeld,
	}
}

func TestExtractReferences(t *testing.T) {
	anomalies := []model.Anomaly{
		{RawDistance: 200, CanonicalType: model.GirthWeld, IsReferencePoint: true},
		{RawDistance: 100, CanonicalType: model.Valve, IsReferencePoint: true},
		{RawDistance: 150, CanonicalType: model.Dent, IsReferencePoint: false},
	}
	refs := ExtractReferences(anomalies)
	require.Len(t, refs, 2)
	assert.InDelta(t, 100, refs[0].Distance, 0.001)
	assert.InDelta(t, 200, refs[1].Distance, 0.001)
}

func TestMatchReferences_WithinTolerance(t *testing.T) {
	a := []model.ReferencePoint{ref(0, 10000, 1), ref(1, 20000, 2)}
	b := []model.ReferencePoint{ref(0, 10050, 1), ref(1, 20500, 2)}

	pairs := MatchReferences(a, b, 500, 100)
	require.Len(t, pairs, 2)
	assert.InDelta(t, 50, pairs[0].DistanceOffset, 0.001)
}

func TestMatchReferences_OutsideTolerance(t *testing.T) {
	a := []model.ReferencePoint{ref(0, 10000, 1)}
	b := []model.ReferencePoint{ref(0, 11000, 1)}

	pairs := MatchReferences(a, b, 500, 100)
	assert.Empty(t, pairs)
}

func TestMatchReferences_JointMismatchPenalty(t *testing.T) {
	a := []model.ReferencePoint{ref(0, 10000, 5)}
	// Candidate 1 is closer in distance but has a mismatched joint number;
	// candidate 2 is farther but joint-matched, and should win once the
	// mismatch penalty is added to candidate 1's score.
	b := []model.ReferencePoint{ref(0, 10040, 9), ref(1, 10060, 5)}

	pairs := MatchReferences(a, b, 500, 1000)
	require.Len(t, pairs, 1)
	assert.Equal(t, 5, pairs[0].RefB.JointNumber)
}

func TestMatchReferences_JointMismatchPenaltyScalesWithMagnitude(t *testing.T) {
	a := []model.ReferencePoint{ref(0, 10000, 5)}
	// Candidate 1 is 5 ft off with a joint number one away (score = 5 + 1*100
	// = 105). Candidate 2 is only 1 ft off but its joint number is ten away
	// (score = 1 + 10*100 = 1001). A flat, boolean mismatch penalty of 100
	// would wrongly prefer candidate 2 (1 + 100 = 101 < 5 + 100 = 105); the
	// penalty must scale by the joint-number delta so candidate 1 wins.
	b := []model.ReferencePoint{ref(0, 10005, 6), ref(1, 10001, 15)}

	pairs := MatchReferences(a, b, 500, 100)
	require.Len(t, pairs, 1)
	assert.Equal(t, 6, pairs[0].RefB.JointNumber)
}

func TestMatchReferences_Injective(t *testing.T) {
	a := []model.ReferencePoint{ref(0, 10000, 1), ref(1, 10010, 2)}
	b := []model.ReferencePoint{ref(0, 10005, 1)}

	pairs := MatchReferences(a, b, 500, 100)
	require.Len(t, pairs, 1)
}

func TestMatchReferences_Empty(t *testing.T) {
	assert.Empty(t, MatchReferences(nil, []model.ReferencePoint{ref(0, 100, 1)}, 500, 100))
	assert.Empty(t, MatchReferences([]model.ReferencePoint{ref(0, 100, 1)}, nil, 500, 100))
}
