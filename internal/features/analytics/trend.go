package analytics

import (
	"fmt"
	"math"
)

const (
	volatilityThreshold    = 1.5
	volatileConfidence     = 85
	seasonalConfidence     = 75
	seasonalityMinValues   = 7
	seasonalityMinPairs    = 3
	seasonalityCorrelation = 0.6
)

var recommendations = map[TrendType][]string{
	TrendGrowth: {
		"Plan technician capacity ahead of the rising form volume",
		"Review templates that drive the growth for bottlenecks",
		"Keep approval turnaround in step with submission volume",
	},
	TrendDecline: {
		"Check worksites with falling submissions for missed inspections",
		"Follow up with technicians whose activity has dropped",
		"Confirm that templates in use are still current",
	},
	TrendVolatile: {
		"Investigate the periods with the largest swings",
		"Spread scheduled work more evenly across periods",
		"Use a longer date range or coarser granularity before drawing conclusions",
	},
	TrendSeasonal: {
		"Align staffing with the recurring peaks",
		"Schedule maintenance work in the recurring low periods",
		"Compare against the same period of the previous cycle",
	},
	TrendStable: {
		"Maintain current processes",
		"Set targets to move completion rates upward",
		"Monitor for early signs of change",
	},
}

// ClassifyTrend classifies the shape of a trend series by its values.
func ClassifyTrend(points []TrendPoint) TrendClassification {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return ClassifyValues(values)
}

// ClassifyValues applies the classification rules in priority order:
// volatile, growth, decline, seasonal, stable. The first matching rule wins.
func ClassifyValues(values []float64) TrendClassification {
	if len(values) < 2 {
		return TrendClassification{
			Type:            TrendStable,
			Description:     "Insufficient data",
			Confidence:      0,
			Recommendations: recommendationsFor(TrendStable),
		}
	}

	stats := changeStatistics(values)
	changes := float64(len(values) - 1)

	c := TrendClassification{Statistics: &stats}
	switch {
	case stats.CoefficientOfVariation > volatilityThreshold:
		c.Type = TrendVolatile
		c.Confidence = volatileConfidence
		c.Description = fmt.Sprintf("High volatility detected (coefficient of variation %.2f)", stats.CoefficientOfVariation)

	case stats.TotalChange > 0 && stats.PositiveChanges > stats.NegativeChanges:
		c.Type = TrendGrowth
		c.Confidence = math.Min(95, 60+float64(stats.PositiveChanges)/changes*35)
		if values[0] == 0 {
			c.Description = fmt.Sprintf("Consistent growth trend, up %.1f from a zero baseline", stats.TotalChange)
		} else {
			c.Description = fmt.Sprintf("Consistent growth trend with %.1f%% increase over the period", stats.TotalChange/values[0]*100)
		}

	case stats.TotalChange < 0 && stats.NegativeChanges > stats.PositiveChanges:
		c.Type = TrendDecline
		c.Confidence = math.Min(95, 60+float64(stats.NegativeChanges)/changes*35)
		if values[0] == 0 {
			c.Description = fmt.Sprintf("Declining trend, down %.1f from a zero baseline", math.Abs(stats.TotalChange))
		} else {
			c.Description = fmt.Sprintf("Declining trend with %.1f%% decrease over the period", math.Abs(stats.TotalChange/values[0]*100))
		}

	case DetectSeasonality(values):
		c.Type = TrendSeasonal
		c.Confidence = seasonalConfidence
		c.Description = "Recurring seasonal pattern detected"

	default:
		c.Type = TrendStable
		c.Confidence = clamp(math.Min(90, 50+(1-stats.CoefficientOfVariation)*40), 0, 100)
		c.Description = "Stable trend with minimal variation"
	}

	c.Recommendations = recommendationsFor(c.Type)
	return c
}

func changeStatistics(values []float64) TrendStatistics {
	changes := make([]float64, len(values)-1)
	var stats TrendStatistics
	var sum float64
	for i := range changes {
		changes[i] = values[i+1] - values[i]
		sum += changes[i]
		switch {
		case changes[i] > 0:
			stats.PositiveChanges++
		case changes[i] < 0:
			stats.NegativeChanges++
		}
	}

	n := float64(len(changes))
	stats.TotalChange = values[len(values)-1] - values[0]
	stats.AverageChange = sum / n

	var variance float64
	for _, c := range changes {
		d := c - stats.AverageChange
		variance += d * d
	}
	variance /= n
	stats.Volatility = math.Sqrt(variance)

	if stats.AverageChange != 0 {
		stats.CoefficientOfVariation = stats.Volatility / math.Abs(stats.AverageChange)
	}
	return stats
}

// DetectSeasonality looks for a lag in 1..n/3 whose autocorrelation exceeds
// 0.6. Series shorter than seven values are never seasonal.
func DetectSeasonality(values []float64) bool {
	if len(values) < seasonalityMinValues {
		return false
	}

	for lag := 1; lag <= len(values)/3; lag++ {
		n := len(values) - lag
		if n < seasonalityMinPairs {
			continue
		}
		xs := make([]float64, n)
		ys := make([]float64, n)
		for i := lag; i < len(values); i++ {
			xs[i-lag] = values[i-lag]
			ys[i-lag] = values[i]
		}
		if pearson(xs, ys) > seasonalityCorrelation {
			return true
		}
	}
	return false
}

// pearson returns the correlation coefficient of two equal-length samples,
// or 0 when either sample has no variance.
func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
		sumY2 += ys[i] * ys[i]
	}

	denomX := n*sumX2 - sumX*sumX
	denomY := n*sumY2 - sumY*sumY
	if denomX <= 0 || denomY <= 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / math.Sqrt(denomX*denomY)
}

func recommendationsFor(t TrendType) []string {
	return append([]string(nil), recommendations[t]...)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
