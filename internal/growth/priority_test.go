package growth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipeops/ili-alignment/internal/model"
)

func TestClassify_Immediate(t *testing.T) {
	t1 := DefaultThresholds()
	assert.Equal(t, model.PriorityImmediate, Classify(82, 0, nil, t1))

	ttc := 0.5
	assert.Equal(t, model.PriorityImmediate, Classify(30, 0, &ttc, t1))
	assert.Equal(t, model.PriorityImmediate, Classify(30, 8, nil, t1))
}

func TestClassify_SixtyDay(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, model.Priority60Day, Classify(65, 0, nil, th))
	assert.Equal(t, model.Priority60Day, Classify(30, 5, nil, th))
}

func TestClassify_OneEightyDay(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, model.Priority180Day, Classify(45, 0, nil, th))
	assert.Equal(t, model.Priority180Day, Classify(10, 2, nil, th))
}

func TestClassify_Scheduled(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, model.PriorityScheduled, Classify(25, 0, nil, th))
}

func TestClassify_Monitor(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, model.PriorityMonitor, Classify(5, 0, nil, th))
}
