package workflows

import (
	"time"

	"devflow-backend/internal/workflows/extract"
)

// Workflow phase labels. Sync may later overwrite Status with any
// caller-supplied label; these three are the ones the orchestrator writes.
const (
	StatusAnalyzing = "analyzing"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// WorkflowType discriminates what kind of work a workflow tracks.
type WorkflowType string

const (
	TypePR      WorkflowType = "pr"
	TypeIssue   WorkflowType = "issue"
	TypeRelease WorkflowType = "release"
)

// Platform names an external system a workflow status can be pushed to.
// The set is closed; sync dispatches on it exhaustively.
type Platform string

const (
	PlatformGitHub Platform = "github"
	PlatformJira   Platform = "jira"
	PlatformSlack  Platform = "slack"
)

// ServiceRef is the sparse per-platform pointer kept inside a workflow
// record: enough to push a later status update without refetching.
type ServiceRef struct {
	Status    string `json:"status,omitempty"`
	URL       string `json:"url,omitempty"`
	Key       string `json:"key,omitempty"`
	Channel   string `json:"channel,omitempty"`
	MessageID string `json:"messageId,omitempty"`
}

// WorkflowStatus is the authoritative record of one tracked workflow.
type WorkflowStatus struct {
	ID          string                  `json:"id"`
	Type        WorkflowType            `json:"type"`
	Status      string                  `json:"status"`
	LastUpdated time.Time               `json:"lastUpdated"`
	Services    map[Platform]ServiceRef `json:"services"`
}

// PRAnalysisResult is the decision object returned by AnalyzePR.
type PRAnalysisResult struct {
	WorkflowID           string   `json:"workflowId"`
	Summary              string   `json:"summary"`
	SuggestedReviewers   []string `json:"suggestedReviewers"`
	RiskLevel            string   `json:"riskLevel"`
	EstimatedReviewHours float64  `json:"estimatedReviewHours"`
	Topics               []string `json:"topics"`
	RelatedJiraTickets   []string `json:"relatedJiraTickets"`
	Confidence           float64  `json:"confidence"`
	Recommendations      []string `json:"recommendations"`
}

// IssueTriageResult is the decision object returned by SmartTriage.
type IssueTriageResult struct {
	WorkflowID        string   `json:"workflowId"`
	Priority          string   `json:"priority"`
	Category          string   `json:"category"`
	EstimatedEffort   float64  `json:"estimatedEffort"`
	SuggestedAssignee string   `json:"suggestedAssignee,omitempty"`
	SuggestedSprint   string   `json:"suggestedSprint,omitempty"`
	Dependencies      []string `json:"dependencies"`
	Tags              []string `json:"tags"`
	Confidence        float64  `json:"confidence"`
}

// ReleaseRecommendation is the three-way release decision.
type ReleaseRecommendation string

const (
	RecommendProceed ReleaseRecommendation = "proceed"
	RecommendCaution ReleaseRecommendation = "caution"
	RecommendBlock   ReleaseRecommendation = "block"
)

// ReleaseAnalysis is the decision object returned by OrchestrateRelease.
type ReleaseAnalysis struct {
	WorkflowID       string                `json:"workflowId"`
	Readiness        float64               `json:"readiness"`
	Blockers         []extract.Blocker     `json:"blockers"`
	TestCoverage     float64               `json:"testCoverage"`
	OpenIssues       int                   `json:"openIssues"`
	Recommendation   ReleaseRecommendation `json:"recommendation"`
	SuggestedActions []string              `json:"suggestedActions"`
	ReleaseCreated   bool                  `json:"releaseCreated"`
	ReleaseURL       string                `json:"releaseUrl,omitempty"`
}

// Velocity is the velocity block inside TeamInsights.
type Velocity struct {
	Current    float64       `json:"current"`
	Historical []float64     `json:"historical"`
	Trend      extract.Trend `json:"trend"`
}

// TeamMetrics are the aggregate delivery metrics inside TeamInsights.
type TeamMetrics struct {
	AvgPRSize           float64 `json:"avgPrSize"`
	AvgReviewTimeHours  float64 `json:"avgReviewTimeHours"`
	DeploymentFrequency float64 `json:"deploymentFrequency"`
	CycleTimeDays       float64 `json:"cycleTimeDays"`
}

// TeamInsights is the decision object returned by the team analytics read.
type TeamInsights struct {
	Team        string               `json:"team"`
	Velocity    Velocity             `json:"velocity"`
	Bottlenecks []extract.Bottleneck `json:"bottlenecks"`
	TeamMetrics TeamMetrics          `json:"teamMetrics"`
	Summary     string               `json:"summary"`
	Confidence  float64              `json:"confidence"`
}
