package workflows

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"devflow-backend/internal/github"
	"devflow-backend/internal/jira"
	"devflow-backend/internal/llm"
	"devflow-backend/internal/shared/telemetry"
	"devflow-backend/internal/workflows/extract"
)

// SmartTriageParams are the inputs to SmartTriage. GitHubIssueURL is
// optional; when set it must parse as a GitHub issue URL. TeamRoster, when
// given, is the candidate pool for the assignee suggestion.
type SmartTriageParams struct {
	IssueKey       string
	GitHubIssueURL string
	TeamRoster     []string
}

var githubIssueURLRe = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/issues/(\d+)$`)

// SmartTriage classifies a Jira issue: priority, category, effort, and
// dependencies, with optional context from a linked GitHub issue and from
// similar tracker issues. Only the Jira fetch is fatal; the enrichment reads
// and the audit comment are best-effort.
func (s *Service) SmartTriage(ctx context.Context, params SmartTriageParams) (IssueTriageResult, error) {
	// URL shape is a caller mistake, not a service outage. Reject it before
	// any I/O so no workflow record is created.
	var ghOwner, ghRepo string
	var ghNumber int
	if params.GitHubIssueURL != "" {
		m := githubIssueURLRe.FindStringSubmatch(params.GitHubIssueURL)
		if m == nil {
			return IssueTriageResult{}, fmt.Errorf("%w: %q", ErrInvalidIssueURL, params.GitHubIssueURL)
		}
		ghOwner, ghRepo = m[1], m[2]
		ghNumber, _ = strconv.Atoi(m[3])
	}

	workflowID := "issue-" + params.IssueKey
	if err := s.beginWorkflow(ctx, workflowID, TypeIssue); err != nil {
		return IssueTriageResult{}, err
	}

	issue, err := s.Jira.GetIssue(ctx, params.IssueKey)
	if err != nil {
		return IssueTriageResult{}, s.failWorkflow(ctx, workflowID, TypeIssue, err)
	}

	var ghIssue *github.Issue
	if ghNumber > 0 {
		gh, err := s.GitHub.GetIssue(ctx, ghOwner, ghRepo, ghNumber)
		if err != nil {
			telemetry.Warn("triage.github_issue_failed", map[string]any{
				"workflow_id": workflowID, "url": params.GitHubIssueURL, "error": err.Error(),
			})
		} else {
			ghIssue = &gh
		}
	}

	similar := s.findSimilarIssues(ctx, workflowID, issue)

	llmContext := map[string]any{
		"key":         issue.Key,
		"summary":     issue.Summary,
		"description": issue.Description,
		"status":      issue.Status,
		"priority":    issue.Priority,
		"issueType":   issue.IssueType,
		"labels":      issue.Labels,
	}
	if len(params.TeamRoster) > 0 {
		llmContext["team"] = params.TeamRoster
	}
	if ghIssue != nil {
		llmContext["githubIssue"] = map[string]any{
			"title":  ghIssue.Title,
			"body":   ghIssue.Body,
			"state":  ghIssue.State,
			"labels": ghIssue.Labels,
		}
	}
	if len(similar) > 0 {
		summaries := make([]string, 0, len(similar))
		for _, si := range similar {
			summaries = append(summaries, si.Key+": "+si.Summary)
		}
		llmContext["similarIssues"] = summaries
	}

	analysis, err := s.LLM.Analyze(ctx, llm.AnalyzeInput{Kind: "issue", Context: llmContext})
	if err != nil {
		return IssueTriageResult{}, s.failWorkflow(ctx, workflowID, TypeIssue, err)
	}
	s.saveTranscript(ctx, workflowID, analysis)

	result := IssueTriageResult{
		WorkflowID:        workflowID,
		Priority:          extract.Priority(analysis.Analysis),
		Category:          extract.Category(analysis.Analysis),
		EstimatedEffort:   extract.EffortPoints(analysis.Analysis),
		SuggestedAssignee: structuredString(analysis.StructuredData, "suggestedAssignee"),
		SuggestedSprint:   structuredString(analysis.StructuredData, "suggestedSprint"),
		Dependencies:      extract.Dependencies(analysis.Analysis),
		Tags:              extract.Tags(analysis.Analysis),
		Confidence:        llm.ClampConfidence(analysis.Confidence),
	}
	if result.SuggestedAssignee == "" && len(params.TeamRoster) > 0 {
		if candidates := extract.Reviewers(analysis.Analysis, params.TeamRoster); len(candidates) > 0 {
			result.SuggestedAssignee = candidates[0]
		}
	}
	if result.SuggestedAssignee == "" {
		result.SuggestedAssignee = issue.Assignee
	}

	if err := s.Jira.AddComment(ctx, issue.Key, triageComment(result)); err != nil {
		telemetry.Warn("triage.comment_failed", map[string]any{
			"workflow_id": workflowID, "key": issue.Key, "error": err.Error(),
		})
	}

	s.finishWorkflow(ctx, workflowID, TypeIssue, map[Platform]ServiceRef{
		PlatformJira: {Status: "triaged", Key: issue.Key},
	})
	return result, nil
}

// findSimilarIssues searches the tracker for issues sharing the strongest
// keywords of this one. Best-effort: a failed search yields no context.
func (s *Service) findSimilarIssues(ctx context.Context, workflowID string, issue jira.Issue) []jira.Issue {
	keywords := extract.SearchKeywords(issue.Summary + " " + issue.Description)
	if len(keywords) > 3 {
		keywords = keywords[:3]
	}
	if len(keywords) == 0 {
		return nil
	}
	terms := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		terms = append(terms, fmt.Sprintf("text ~ %q", kw))
	}
	jql := fmt.Sprintf("(%s) AND key != %s", strings.Join(terms, " OR "), issue.Key)
	similar, err := s.Jira.SearchIssues(ctx, jql, 5)
	if err != nil {
		telemetry.Warn("triage.similar_search_failed", map[string]any{
			"workflow_id": workflowID, "error": err.Error(),
		})
		return nil
	}
	return similar
}

func triageComment(r IssueTriageResult) string {
	var b strings.Builder
	b.WriteString("Automated triage result\n")
	fmt.Fprintf(&b, "Priority: %s\nCategory: %s\nEstimated effort: %.0f points\n", r.Priority, r.Category, r.EstimatedEffort)
	if r.SuggestedAssignee != "" {
		fmt.Fprintf(&b, "Suggested assignee: %s\n", r.SuggestedAssignee)
	}
	if len(r.Dependencies) > 0 {
		fmt.Fprintf(&b, "Dependencies: %s\n", strings.Join(r.Dependencies, ", "))
	}
	fmt.Fprintf(&b, "Confidence: %.0f%%", r.Confidence)
	return b.String()
}

func structuredString(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	v, ok := data[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}
