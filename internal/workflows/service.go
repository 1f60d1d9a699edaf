// Package workflows contains the orchestration core: the workflow state
// store, the five public operations, and the HTTP handlers that expose them.
// Each operation follows the same shape: mark the workflow analyzing, fan
// out the required reads in parallel, run the extraction pipeline over the
// LLM's prose, optionally perform side-effecting writes, and finalize the
// record as completed or failed.
package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"devflow-backend/internal/github"
	"devflow-backend/internal/jira"
	"devflow-backend/internal/llm"
	"devflow-backend/internal/shared/storage/object"
	"devflow-backend/internal/shared/telemetry"
	"devflow-backend/internal/slack"
)

// SourceControl is the subset of the GitHub adapter the orchestrator uses.
type SourceControl interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (github.PullRequestDetail, error)
	ListContributors(ctx context.Context, owner, repo string) ([]github.Contributor, error)
	GetIssue(ctx context.Context, owner, repo string, number int) (github.Issue, error)
	GetRepoStats(ctx context.Context, owner, repo string) (github.RepoStats, error)
	CreateRelease(ctx context.Context, owner, repo string, in github.CreateReleaseInput) (github.Release, error)
	CreatePRStatusCheck(ctx context.Context, owner, repo string, number int, state, description string) error
}

// Tracker is the subset of the Jira adapter the orchestrator uses.
type Tracker interface {
	GetIssue(ctx context.Context, key string) (jira.Issue, error)
	SearchIssues(ctx context.Context, jql string, max int) ([]jira.Issue, error)
	AddComment(ctx context.Context, key, body string) error
	GetProjectStats(ctx context.Context, projectKey string) (jira.ProjectStats, error)
}

// Chat is the subset of the Slack adapter the orchestrator uses.
type Chat interface {
	FindChannel(ctx context.Context, name string) (slack.Channel, error)
	PostMessage(ctx context.Context, channelID, text string, attachments []slack.Attachment) (string, error)
}

var (
	_ SourceControl = (*github.Client)(nil)
	_ Tracker       = (*jira.Client)(nil)
	_ Chat          = (*slack.Client)(nil)
)

// MetricsSource provides team delivery metrics for the insights operation.
type MetricsSource interface {
	TeamMetrics(ctx context.Context, team, period string) (TeamMetricsSample, error)
}

// TeamMetricsSample is one gathered set of team metrics.
type TeamMetricsSample struct {
	VelocityHistory     []float64
	AvgPRSize           float64
	AvgReviewTimeHours  float64
	DeploymentFrequency float64
	CycleTimeDays       float64
}

// Service contains the orchestration logic for all workflow operations.
// Transcripts is optional; a nil store disables transcript auditing.
type Service struct {
	GitHub      SourceControl
	Jira        Tracker
	Slack       Chat
	LLM         llm.Client
	Store       Store
	Metrics     MetricsSource
	Transcripts object.ObjectStore
}

// beginWorkflow registers (or overwrites) the workflow record in the
// analyzing phase.
func (s *Service) beginWorkflow(ctx context.Context, id string, typ WorkflowType) error {
	return s.Store.Put(ctx, WorkflowStatus{
		ID:          id,
		Type:        typ,
		Status:      StatusAnalyzing,
		LastUpdated: time.Now().UTC(),
		Services:    make(map[Platform]ServiceRef),
	})
}

// finishWorkflow moves the record to completed, merging the per-platform
// pointers gathered during the operation.
func (s *Service) finishWorkflow(ctx context.Context, id string, typ WorkflowType, services map[Platform]ServiceRef) {
	if services == nil {
		services = make(map[Platform]ServiceRef)
	}
	if err := s.Store.Put(ctx, WorkflowStatus{
		ID:          id,
		Type:        typ,
		Status:      StatusCompleted,
		LastUpdated: time.Now().UTC(),
		Services:    services,
	}); err != nil {
		telemetry.Warn("workflow.finish_failed", map[string]any{"workflow_id": id, "error": err.Error()})
	}
}

// failWorkflow marks the record failed so observers can see the failure in
// state, then hands the original error back for propagation.
func (s *Service) failWorkflow(ctx context.Context, id string, typ WorkflowType, err error) error {
	if putErr := s.Store.Put(ctx, WorkflowStatus{
		ID:          id,
		Type:        typ,
		Status:      StatusFailed,
		LastUpdated: time.Now().UTC(),
		Services:    make(map[Platform]ServiceRef),
	}); putErr != nil {
		telemetry.Warn("workflow.fail_mark_failed", map[string]any{"workflow_id": id, "error": putErr.Error()})
	}
	return err
}

// GetStatus returns the current record for a workflow id.
func (s *Service) GetStatus(ctx context.Context, id string) (WorkflowStatus, error) {
	return s.Store.Get(ctx, id)
}

// saveTranscript stores the raw LLM output for audit. Best-effort: failures
// are logged and never fail the operation.
func (s *Service) saveTranscript(ctx context.Context, workflowID string, result llm.AnalysisResult) {
	if s.Transcripts == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"workflowId":      workflowID,
		"analysis":        result.Analysis,
		"confidence":      result.Confidence,
		"recommendations": result.Recommendations,
		"structured":      result.StructuredData,
		"capturedAt":      time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		telemetry.Warn("transcript.marshal_failed", map[string]any{"workflow_id": workflowID, "error": err.Error()})
		return
	}
	key := fmt.Sprintf("transcripts/%s/%s.json", workflowID, uuid.NewString())
	if _, err := s.Transcripts.SaveWithKey(ctx, key, "application/json", strings.NewReader(string(payload))); err != nil {
		telemetry.Warn("transcript.save_failed", map[string]any{"workflow_id": workflowID, "key": key, "error": err.Error()})
	}
}
