package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"devflow-backend/internal/github"
	"devflow-backend/internal/jira"
	"devflow-backend/internal/llm"
	"devflow-backend/internal/shared/telemetry"
	"devflow-backend/internal/slack"
	"devflow-backend/internal/workflows/extract"
)

// ReleaseParams are the inputs to OrchestrateRelease. Repository must be of
// the form owner/repo; SlackChannel is the channel name, with or without a
// leading '#'.
type ReleaseParams struct {
	Version      string
	Repository   string
	JiraProject  string
	SlackChannel string
	DryRun       bool
}

// OrchestrateRelease assesses release readiness and, outside dry runs,
// cuts the GitHub release when the assessment says proceed. The Slack
// notification goes out for every recommendation.
func (s *Service) OrchestrateRelease(ctx context.Context, params ReleaseParams) (ReleaseAnalysis, error) {
	owner, repo, ok := strings.Cut(params.Repository, "/")
	if !ok || owner == "" || repo == "" {
		return ReleaseAnalysis{}, fmt.Errorf("%w: %q", ErrInvalidRepository, params.Repository)
	}

	workflowID := fmt.Sprintf("release-%s-%s", repo, params.Version)
	if err := s.beginWorkflow(ctx, workflowID, TypeRelease); err != nil {
		return ReleaseAnalysis{}, err
	}

	var (
		repoStats    github.RepoStats
		projectStats jira.ProjectStats
		channel      slack.Channel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		repoStats, err = s.GitHub.GetRepoStats(gctx, owner, repo)
		return err
	})
	g.Go(func() error {
		var err error
		projectStats, err = s.Jira.GetProjectStats(gctx, params.JiraProject)
		return err
	})
	g.Go(func() error {
		var err error
		channel, err = s.Slack.FindChannel(gctx, params.SlackChannel)
		if errors.Is(err, slack.ErrChannelNotFound) {
			return fmt.Errorf("slack channel %q not found", params.SlackChannel)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return ReleaseAnalysis{}, s.failWorkflow(ctx, workflowID, TypeRelease, err)
	}

	// Test results and deployment history are not gathered here yet; the
	// readiness context carries them as empty so the prompt stays stable.
	analysis, err := s.LLM.Analyze(ctx, llm.AnalyzeInput{
		Kind: "release",
		Context: map[string]any{
			"version":           params.Version,
			"repository":        repoStats.FullName,
			"defaultBranch":     repoStats.DefaultBranch,
			"lastPush":          repoStats.PushedAt,
			"openIssues":        repoStats.OpenIssuesCount,
			"trackerOpenIssues": projectStats.OpenIssues,
			"trackerBlockers":   projectStats.Blockers,
			"testResults":       map[string]any{},
			"deploymentHistory": []any{},
		},
	})
	if err != nil {
		return ReleaseAnalysis{}, s.failWorkflow(ctx, workflowID, TypeRelease, err)
	}
	s.saveTranscript(ctx, workflowID, analysis)

	readiness := extract.ReadinessScore(analysis.Analysis)
	rec := recommendationForScore(readiness)

	result := ReleaseAnalysis{
		WorkflowID:       workflowID,
		Readiness:        readiness,
		Blockers:         extract.Blockers(analysis.Analysis),
		TestCoverage:     0,
		OpenIssues:       projectStats.OpenIssues,
		Recommendation:   rec,
		SuggestedActions: analysis.Recommendations,
	}

	services := map[Platform]ServiceRef{
		PlatformGitHub: {Status: "assessed"},
	}

	if !params.DryRun && rec == RecommendProceed {
		release, err := s.GitHub.CreateRelease(ctx, owner, repo, github.CreateReleaseInput{
			TagName: params.Version,
			Name:    params.Version,
			Body:    analysis.Analysis,
			Draft:   rec != RecommendProceed,
		})
		if err != nil {
			return ReleaseAnalysis{}, s.failWorkflow(ctx, workflowID, TypeRelease, err)
		}
		result.ReleaseCreated = true
		result.ReleaseURL = release.HTMLURL
		services[PlatformGitHub] = ServiceRef{Status: "released", URL: release.HTMLURL}
	}

	// The release, if any, already exists at this point. A failed
	// notification should not flip the workflow to failed.
	ts, err := s.Slack.PostMessage(ctx, channel.ID, fmt.Sprintf("Release readiness for %s %s", params.Repository, params.Version), []slack.Attachment{
		releaseAttachment(params.Version, result),
	})
	if err != nil {
		telemetry.Warn("release.notify_failed", map[string]any{
			"workflow_id": workflowID, "channel": channel.ID, "error": err.Error(),
		})
	} else {
		services[PlatformSlack] = ServiceRef{Status: "notified", Channel: channel.ID, MessageID: ts}
	}

	s.finishWorkflow(ctx, workflowID, TypeRelease, services)
	return result, nil
}

// recommendationForScore maps a readiness score onto the three-way release
// decision. Boundaries are inclusive on the higher bucket.
func recommendationForScore(score float64) ReleaseRecommendation {
	switch {
	case score >= 85:
		return RecommendProceed
	case score >= 70:
		return RecommendCaution
	default:
		return RecommendBlock
	}
}

func releaseAttachment(version string, r ReleaseAnalysis) slack.Attachment {
	colors := map[ReleaseRecommendation]string{
		RecommendProceed: "good",
		RecommendCaution: "warning",
		RecommendBlock:   "danger",
	}
	return slack.Attachment{
		Color: colors[r.Recommendation],
		Title: fmt.Sprintf("Release %s: %s", version, r.Recommendation),
		Text:  fmt.Sprintf("Readiness %.0f/100", r.Readiness),
		Fields: []slack.Field{
			{Title: "Test coverage", Value: fmt.Sprintf("%.0f%%", r.TestCoverage), Short: true},
			{Title: "Open issues", Value: fmt.Sprintf("%d", r.OpenIssues), Short: true},
			{Title: "Blockers", Value: fmt.Sprintf("%d", len(r.Blockers)), Short: true},
		},
	}
}
