package extract

import (
	"regexp"
	"strconv"
)

// Fallbacks used when no unit-anchored number is present in the analysis.
const (
	DefaultReviewHours  = 2
	DefaultEffortPoints = 3
	DefaultReadiness    = 70
)

var (
	hoursRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:hours?|hrs?)\b`)
	pointsRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:story points?|points?|pts)\b`)
	// A readiness score reads as "85%", "85/100", or "readiness ... 85".
	percentRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:%|/\s*100)`)
	readinessRe = regexp.MustCompile(`(?i)readiness\D{0,12}(\d+(?:\.\d+)?)`)
)

// ReviewHours returns the first hour figure in the analysis, or the default.
func ReviewHours(text string) float64 {
	return firstNumber(text, DefaultReviewHours, hoursRe)
}

// EffortPoints returns the first story-point figure in the analysis, or the
// default.
func EffortPoints(text string) float64 {
	return firstNumber(text, DefaultEffortPoints, pointsRe)
}

// ReadinessScore returns the first percentage-like figure in the analysis
// bounded to [0,100], or the default.
func ReadinessScore(text string) float64 {
	score := firstNumber(text, DefaultReadiness, percentRe, readinessRe)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// firstNumber applies the patterns in priority order; first capture wins.
func firstNumber(text string, fallback float64, patterns ...*regexp.Regexp) float64 {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v
			}
		}
	}
	return fallback
}
