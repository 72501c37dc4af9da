package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReferenceType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ft   FeatureType
		want bool
	}{
		{GirthWeld, true},
		{Valve, true},
		{Fitting, true},
		{SeamWeld, false},
		{Dent, false},
		{Unknown, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.ft), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsReferenceType(tt.ft))
		})
	}
}

func TestAnomaly_AddFlag_DoesNotShareBackingArray(t *testing.T) {
	a := Anomaly{}
	b := Anomaly{}

	a.AddFlag("distance_interpolated")
	b.AddFlag("zero_dimensions")

	assert.Equal(t, []string{"distance_interpolated"}, a.CleaningFlags)
	assert.Equal(t, []string{"zero_dimensions"}, b.CleaningFlags)
}

func TestAnomaly_SetExtra(t *testing.T) {
	var a Anomaly
	a.SetExtra("joint_fraction", 0.42)
	assert.Equal(t, 0.42, a.Extras["joint_fraction"])
}

func TestToReferencePoint(t *testing.T) {
	a := Anomaly{
		ID:            AnomalyID{RunIndex: 1, RowIndex: 7},
		RawDistance:   1234.5,
		Odometer:      1230.0,
		JointNumber:   42,
		CanonicalType: GirthWeld,
	}

	rp := ToReferencePoint(a)

	assert.Equal(t, a.ID, rp.ID)
	assert.Equal(t, a.RawDistance, rp.Distance)
	assert.Equal(t, a.Odometer, rp.Odometer)
	assert.Equal(t, 42, rp.JointNumber)
	assert.Equal(t, GirthWeld, rp.Type)
	assert.Equal(t, 1, rp.RunIndex)
}
