package growth

import "github.com/pipeops/ili-alignment/internal/model"

// Thresholds configures C11's five priority bands, tunable from
// internal/config.PriorityConfig.
type Thresholds struct {
	ImmediateDepthPct  float64
	ImmediateTTCYears  float64
	ImmediateGrowthPct float64
	SixtyDayDepthPct   float64
	SixtyDayGrowthPct  float64
	SixtyDayTTCYears   float64
	OneEightyDepthPct  float64
	OneEightyGrowthPct float64
	ScheduledDepthPct  float64
	ScheduledGrowthPct float64
}

// DefaultThresholds reproduces the specification's fixed bands, citing 49
// CFR 192.485 and ASME B31.8S Table 4.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ImmediateDepthPct:  80,
		ImmediateTTCYears:  1,
		ImmediateGrowthPct: 8,
		SixtyDayDepthPct:   60,
		SixtyDayGrowthPct:  5,
		SixtyDayTTCYears:   3,
		OneEightyDepthPct:  40,
		OneEightyGrowthPct: 2,
		ScheduledDepthPct:  20,
		ScheduledGrowthPct: 0.5,
	}
}

// Classify assigns a priority band from the latest depth, the absolute
// depth growth rate, and a possibly-nil time-to-critical estimate. The
// first matching band wins, in order IMMEDIATE, 60-DAY, 180-DAY, SCHEDULED,
// MONITOR.
func Classify(depth, absDepthGrowth float64, ttcYears *float64, t Thresholds) model.PriorityBand {
	within := func(ttc *float64, limit float64) bool {
		return ttc != nil && *ttc <= limit
	}

	switch {
	case depth >= t.ImmediateDepthPct || within(ttcYears, t.ImmediateTTCYears) || absDepthGrowth >= t.ImmediateGrowthPct:
		return model.PriorityImmediate
	case depth >= t.SixtyDayDepthPct || absDepthGrowth >= t.SixtyDayGrowthPct || within(ttcYears, t.SixtyDayTTCYears):
		return model.Priority60Day
	case depth >= t.OneEightyDepthPct || absDepthGrowth >= t.OneEightyGrowthPct:
		return model.Priority180Day
	case depth >= t.ScheduledDepthPct || absDepthGrowth >= t.ScheduledGrowthPct:
		return model.PriorityScheduled
	default:
		return model.PriorityMonitor
	}
}
