// Package growth fits per-chain growth rates from matched anomalies across
// runs, projects a time-to-critical estimate, and classifies each chain
// into a regulatory priority band.
package growth

import "github.com/pipeops/ili-alignment/internal/model"

const criticalDepthPercent = 80.0

// Point is one (year, value) observation fed to a least-squares fit.
type Point struct {
	Year  float64
	Value float64
}

// FitLine computes the least-squares slope and intercept of value(year).
// A chain of length 1 or a zero-variance year axis (all years equal)
// returns slope 0 and intercept equal to the mean value, guarding the
// division the closed-form estimator would otherwise perform on a zero
// denominator.
func FitLine(points []Point) (slope, intercept float64) {
	n := float64(len(points))
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return 0, points[0].Value
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.Year
		sumY += p.Value
		sumXY += p.Year * p.Value
		sumXX += p.Year * p.Year
	}
	meanY := sumY / n

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, meanY
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// FitChain fits depth/length/width growth rates for a chain given the year
// each of its anomalies was observed, one year per chain.Anomalies entry.
func FitChain(chain model.AnomalyChain, years []int) model.GrowthRates {
	if len(chain.Anomalies) < 2 {
		return model.GrowthRates{}
	}

	depthPts := make([]Point, len(chain.Anomalies))
	lengthPts := make([]Point, len(chain.Anomalies))
	widthPts := make([]Point, len(chain.Anomalies))

	for i, a := range chain.Anomalies {
		year := float64(years[i])
		depthPts[i] = Point{Year: year, Value: a.DepthPercent}
		lengthPts[i] = Point{Year: year, Value: a.Length}
		widthPts[i] = Point{Year: year, Value: a.Width}
	}

	depthSlope, _ := FitLine(depthPts)
	lengthSlope, _ := FitLine(lengthPts)
	widthSlope, _ := FitLine(widthPts)

	return model.GrowthRates{
		DepthPercentPerYear: depthSlope,
		LengthInPerYear:     lengthSlope,
		WidthInPerYear:      widthSlope,
	}
}

// TimeToCritical projects the years remaining until depth reaches the
// critical threshold under the fitted depth growth rate, or nil if depth is
// flat or shrinking (no finite projection exists).
func TimeToCritical(currentDepth, depthSlopePerYear float64) *float64 {
	if currentDepth >= criticalDepthPercent {
		zero := 0.0
		return &zero
	}
	if depthSlopePerYear > 0 {
		years := (criticalDepthPercent - currentDepth) / depthSlopePerYear
		return &years
	}
	return nil
}
