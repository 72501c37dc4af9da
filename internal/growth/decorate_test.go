package growth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipeops/ili-alignment/internal/model"
)

func TestDecorate_LinearGrowthScenario(t *testing.T) {
	chain := model.AnomalyChain{
		Anomalies: []model.Anomaly{
			{ID: model.AnomalyID{RunIndex: 0}, DepthPercent: 30, CorrectedDistance: 20000},
			{ID: model.AnomalyID{RunIndex: 1}, DepthPercent: 40, CorrectedDistance: 20000},
			{ID: model.AnomalyID{RunIndex: 2}, DepthPercent: 55, CorrectedDistance: 20000},
		},
		RunIndices: []int{0, 1, 2},
	}
	years := map[int]int{0: 2015, 1: 2019, 2: 2024}

	out := Decorate([]model.AnomalyChain{chain}, years, DefaultThresholds())
	require.Len(t, out, 1)
	assert.InDelta(t, 2.78, out[0].Growth.DepthPercentPerYear, 0.1)
	require.NotNil(t, out[0].TimeToCriticalYrs)
	assert.InDelta(t, 9.0, *out[0].TimeToCriticalYrs, 0.2)
	assert.Equal(t, model.Priority180Day, out[0].Priority)
}

func TestDecorate_SingletonChainZeroGrowth(t *testing.T) {
	chain := model.AnomalyChain{
		Anomalies:  []model.Anomaly{{ID: model.AnomalyID{RunIndex: 0}, DepthPercent: 10}},
		RunIndices: []int{0},
	}
	out := Decorate([]model.AnomalyChain{chain}, map[int]int{0: 2020}, DefaultThresholds())
	require.Len(t, out, 1)
	assert.Equal(t, model.GrowthRates{}, out[0].Growth)
	assert.Nil(t, out[0].TimeToCriticalYrs)
	assert.Equal(t, model.PriorityMonitor, out[0].Priority)
}

func TestDecorate_PureTranslationNoGrowth(t *testing.T) {
	chain := model.AnomalyChain{
		Anomalies: []model.Anomaly{
			{ID: model.AnomalyID{RunIndex: 0}, DepthPercent: 30},
			{ID: model.AnomalyID{RunIndex: 1}, DepthPercent: 30},
		},
		RunIndices: []int{0, 1},
	}
	out := Decorate([]model.AnomalyChain{chain}, map[int]int{0: 2015, 1: 2020}, DefaultThresholds())
	require.Len(t, out, 1)
	assert.InDelta(t, 0, out[0].Growth.DepthPercentPerYear, 1e-9)
	assert.Equal(t, model.PriorityScheduled, out[0].Priority)
}
