package extract

// trendThreshold is the relative change needed before a history reads as
// anything other than stable.
const trendThreshold = 0.10

// VelocityTrend compares the mean of the most recent samples against the
// mean of everything earlier. The recent window is the last three samples,
// shrunk so at least one earlier sample remains. Fewer than two samples is
// always stable.
func VelocityTrend(history []float64) Trend {
	if len(history) < 2 {
		return TrendStable
	}

	recentN := 3
	if recentN > len(history)-1 {
		recentN = len(history) - 1
	}
	recent := mean(history[len(history)-recentN:])
	earlier := mean(history[:len(history)-recentN])
	if earlier == 0 {
		return TrendStable
	}

	switch change := (recent - earlier) / earlier; {
	case change > trendThreshold:
		return TrendIncreasing
	case change < -trendThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}
