package workflows

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"devflow-backend/internal/github"
	"devflow-backend/internal/llm"
	"devflow-backend/internal/workflows/extract"
)

// AnalyzePRParams are the inputs to AnalyzePR.
type AnalyzePRParams struct {
	Owner              string
	Repo               string
	PullNumber         int
	IncludeJiraContext bool
}

// AnalyzePR fetches the pull request and its contributor roster in parallel,
// asks the LLM for an assessment, and decodes it into a typed result. A
// failure in either fetch aborts the operation and is propagated unchanged.
func (s *Service) AnalyzePR(ctx context.Context, params AnalyzePRParams) (PRAnalysisResult, error) {
	workflowID := fmt.Sprintf("pr-%s-%s-%d", params.Owner, params.Repo, params.PullNumber)
	if err := s.beginWorkflow(ctx, workflowID, TypePR); err != nil {
		return PRAnalysisResult{}, err
	}

	var (
		detail       github.PullRequestDetail
		contributors []github.Contributor
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = s.GitHub.GetPullRequest(gctx, params.Owner, params.Repo, params.PullNumber)
		return err
	})
	g.Go(func() error {
		var err error
		contributors, err = s.GitHub.ListContributors(gctx, params.Owner, params.Repo)
		return err
	})
	if err := g.Wait(); err != nil {
		return PRAnalysisResult{}, s.failWorkflow(ctx, workflowID, TypePR, err)
	}

	// Ticket references are a local scan of the PR text, not a tracker query.
	var jiraTickets []string
	if params.IncludeJiraContext {
		jiraTickets = extract.TicketKeys(detail.PullRequest.Title + "\n" + detail.PullRequest.Body)
	}

	roster := make([]string, 0, len(contributors))
	for _, c := range contributors {
		roster = append(roster, c.Login)
	}

	analysis, err := s.LLM.Analyze(ctx, llm.AnalyzeInput{
		Kind: "pr",
		Context: map[string]any{
			"title":        detail.PullRequest.Title,
			"body":         detail.PullRequest.Body,
			"author":       detail.PullRequest.User.Login,
			"additions":    detail.PullRequest.Additions,
			"deletions":    detail.PullRequest.Deletions,
			"changedFiles": detail.PullRequest.ChangedFiles,
			"files":        fileSummaries(detail.Files),
			"commits":      commitMessages(detail.Commits),
			"reviews":      len(detail.Reviews),
			"contributors": roster,
			"jiraTickets":  jiraTickets,
		},
	})
	if err != nil {
		return PRAnalysisResult{}, s.failWorkflow(ctx, workflowID, TypePR, err)
	}
	s.saveTranscript(ctx, workflowID, analysis)

	result := PRAnalysisResult{
		WorkflowID:           workflowID,
		Summary:              analysis.Analysis,
		SuggestedReviewers:   extract.Reviewers(analysis.Analysis, roster),
		RiskLevel:            extract.RiskLevel(analysis.Analysis),
		EstimatedReviewHours: extract.ReviewHours(analysis.Analysis),
		Topics:               extract.Topics(analysis.Analysis),
		RelatedJiraTickets:   jiraTickets,
		Confidence:           llm.ClampConfidence(analysis.Confidence),
		Recommendations:      analysis.Recommendations,
	}

	s.finishWorkflow(ctx, workflowID, TypePR, map[Platform]ServiceRef{
		PlatformGitHub: {Status: "analyzed", URL: detail.PullRequest.HTMLURL},
	})
	return result, nil
}

func fileSummaries(files []github.PRFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, fmt.Sprintf("%s (%s, +%d -%d)", f.Filename, f.Status, f.Additions, f.Deletions))
	}
	return out
}

func commitMessages(commits []github.Commit) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		msg := c.Commit.Message
		if i := strings.IndexByte(msg, '\n'); i >= 0 {
			msg = msg[:i]
		}
		out = append(out, msg)
	}
	return out
}
