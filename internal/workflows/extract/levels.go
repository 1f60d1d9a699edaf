package extract

import "strings"

// rankedLevel pairs a level name with the keywords that imply it. Scans run
// highest level first; first match wins.
type rankedLevel struct {
	level    string
	keywords []string
}

var riskLevels = []rankedLevel{
	{RiskHigh, []string{"high risk", "risky", "dangerous", "breaking change", "critical"}},
	{RiskMedium, []string{"medium risk", "moderate", "some risk", "careful review"}},
}

var priorityLevels = []rankedLevel{
	{PriorityCritical, []string{"critical", "urgent", "blocker", "outage", "production down", "data loss"}},
	{PriorityHigh, []string{"high priority", "important", "severe", "major"}},
	{PriorityMedium, []string{"medium priority", "moderate", "normal priority"}},
}

// RiskLevel scans the analysis for risk keywords. Defaults to low.
func RiskLevel(text string) string {
	return scanLevels(text, riskLevels, RiskLow)
}

// Priority scans the analysis for priority keywords. Defaults to medium.
func Priority(text string) string {
	return scanLevels(text, priorityLevels, PriorityMedium)
}

func scanLevels(text string, ranked []rankedLevel, def string) string {
	lower := strings.ToLower(text)
	for _, rl := range ranked {
		for _, kw := range rl.keywords {
			if strings.Contains(lower, kw) {
				return rl.level
			}
		}
	}
	return def
}
