// Package extract decodes LLM free-text analysis into the bounded, typed
// fields decision objects need. The model cannot be trusted to emit a stable
// typed shape on every call, so each field has its own deterministic
// decoder: a ranked keyword scan, a unit-anchored number regex, or a fixed
// vocabulary check, always with a documented fallback. Every function here
// is pure and total.
package extract

// Trend describes the direction of a velocity history.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Risk levels, lowest to highest.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Priorities, lowest to highest.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Bottleneck is one detected delivery bottleneck.
type Bottleneck struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// Blocker is one detected release blocker.
type Blocker struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}
