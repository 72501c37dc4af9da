package growth

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/pipeops/ili-alignment/internal/model"
)

// Decorate fits growth rates, projects time-to-critical, and classifies
// priority for every chain, one goroutine per chain writing into its own
// pre-sized result slot. runYears maps a run index to the calendar year it
// was recorded, so each chain's per-anomaly years can be looked up from its
// RunIndices.
func Decorate(chains []model.AnomalyChain, runYears map[int]int, thresholds Thresholds) []model.AnomalyChain {
	out := make([]model.AnomalyChain, len(chains))
	copy(out, chains)

	g, _ := errgroup.WithContext(context.Background())
	for i := range out {
		i := i
		g.Go(func() error {
			out[i] = decorateOne(out[i], runYears, thresholds)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func decorateOne(chain model.AnomalyChain, runYears map[int]int, thresholds Thresholds) model.AnomalyChain {
	latest := chain.Anomalies[0]
	maxRun := chain.RunIndices[0]
	for i, a := range chain.Anomalies {
		if chain.RunIndices[i] > maxRun {
			maxRun = chain.RunIndices[i]
			latest = a
		}
	}
	chain.RepresentativePos = latest.CorrectedDistance

	if len(chain.Anomalies) < 2 {
		chain.Growth = model.GrowthRates{}
		chain.TimeToCriticalYrs = nil
		chain.Priority = Classify(latest.DepthPercent, 0, nil, thresholds)
		return chain
	}

	years := make([]int, len(chain.RunIndices))
	for i, runIdx := range chain.RunIndices {
		years[i] = runYears[runIdx]
	}

	chain.Growth = FitChain(chain, years)
	ttc := TimeToCritical(latest.DepthPercent, chain.Growth.DepthPercentPerYear)
	chain.TimeToCriticalYrs = ttc
	chain.Priority = Classify(latest.DepthPercent, math.Abs(chain.Growth.DepthPercentPerYear), ttc, thresholds)

	return chain
}
