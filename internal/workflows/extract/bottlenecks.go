package extract

import "strings"

// bottleneckTable maps keyword hits to typed bottlenecks. Ordered; a type
// appears at most once in the output.
var bottleneckTable = []struct {
	btype       string
	keywords    []string
	description string
	impact      string
}{
	{"code-review", []string{"review delay", "waiting for review", "review bottleneck", "slow review"},
		"Pull requests wait too long for review", "high"},
	{"ci", []string{"flaky", "build failure", "pipeline", "slow ci", "slow build"},
		"CI pipeline slows or destabilizes merges", "medium"},
	{"deployment", []string{"deploy", "release process", "rollback"},
		"Deployment process adds friction", "medium"},
	{"scope", []string{"scope creep", "requirements churn", "changing requirements"},
		"Unstable scope causes rework", "high"},
	{"communication", []string{"handoff", "waiting on", "blocked on", "communication"},
		"Cross-team handoffs stall work", "medium"},
}

// Bottlenecks scans the analysis for known delivery bottleneck patterns.
func Bottlenecks(text string) []Bottleneck {
	lower := strings.ToLower(text)
	var out []Bottleneck
	for _, entry := range bottleneckTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				out = append(out, Bottleneck{
					Type:        entry.btype,
					Description: entry.description,
					Impact:      entry.impact,
				})
				break
			}
		}
	}
	return out
}

var blockerTable = []struct {
	btype       string
	keywords    []string
	description string
	severity    string
}{
	{"security", []string{"vulnerability", "security issue", "cve"},
		"Unresolved security finding", "critical"},
	{"tests", []string{"failing test", "test failure", "tests fail", "broken test"},
		"Test suite is not green", "high"},
	{"issues", []string{"open blocker", "blocking issue", "unresolved blocker", "critical issue"},
		"Open blocking issues remain", "high"},
	{"coverage", []string{"low coverage", "insufficient coverage", "coverage dropped"},
		"Test coverage below the release bar", "medium"},
	{"migration", []string{"migration", "schema change"},
		"Pending data migration needs coordination", "medium"},
}

// Blockers scans the analysis for known release-blocker patterns.
func Blockers(text string) []Blocker {
	lower := strings.ToLower(text)
	var out []Blocker
	for _, entry := range blockerTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				out = append(out, Blocker{
					Type:        entry.btype,
					Description: entry.description,
					Severity:    entry.severity,
				})
				break
			}
		}
	}
	return out
}
