package clean

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pipeops/ili-alignment/internal/model"
)

// RunAll cleans every run concurrently, one goroutine per run, and returns
// the cleaned anomalies and reports in run order. Each goroutine writes only
// to its own index of the pre-sized result slices, so the concurrency never
// touches another run's output or flag containers.
func RunAll(allAnomalies [][]model.Anomaly) ([][]model.Anomaly, []model.CleaningReport) {
	cleaned := make([][]model.Anomaly, len(allAnomalies))
	reports := make([]model.CleaningReport, len(allAnomalies))

	g, _ := errgroup.WithContext(context.Background())
	for i := range allAnomalies {
		i := i
		g.Go(func() error {
			others := make([][]model.Anomaly, 0, len(allAnomalies)-1)
			for j, run := range allAnomalies {
				if j != i {
					others = append(others, run)
				}
			}
			c, r := Run(allAnomalies[i], others)
			cleaned[i] = c
			r.RunIndex = i
			reports[i] = r
			return nil
		})
	}
	_ = g.Wait()

	return cleaned, reports
}
