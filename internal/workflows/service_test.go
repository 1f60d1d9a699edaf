package workflows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"devflow-backend/internal/github"
	"devflow-backend/internal/jira"
	"devflow-backend/internal/llm"
	"devflow-backend/internal/slack"
)

type fakeGitHub struct {
	pr           github.PullRequestDetail
	prErr        error
	contributors []github.Contributor
	issue        github.Issue
	issueErr     error
	stats        github.RepoStats
	statsErr     error
	release      github.Release
	releaseErr   error

	createReleaseCalls int
	lastReleaseInput   github.CreateReleaseInput
	statusChecks       []string
	statusCheckErr     error
}

func (f *fakeGitHub) GetPullRequest(ctx context.Context, owner, repo string, number int) (github.PullRequestDetail, error) {
	return f.pr, f.prErr
}

func (f *fakeGitHub) ListContributors(ctx context.Context, owner, repo string) ([]github.Contributor, error) {
	return f.contributors, nil
}

func (f *fakeGitHub) GetIssue(ctx context.Context, owner, repo string, number int) (github.Issue, error) {
	return f.issue, f.issueErr
}

func (f *fakeGitHub) GetRepoStats(ctx context.Context, owner, repo string) (github.RepoStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeGitHub) CreateRelease(ctx context.Context, owner, repo string, in github.CreateReleaseInput) (github.Release, error) {
	f.createReleaseCalls++
	f.lastReleaseInput = in
	return f.release, f.releaseErr
}

func (f *fakeGitHub) CreatePRStatusCheck(ctx context.Context, owner, repo string, number int, state, description string) error {
	if f.statusCheckErr != nil {
		return f.statusCheckErr
	}
	f.statusChecks = append(f.statusChecks, fmt.Sprintf("%s/%s#%d %s %s", owner, repo, number, state, description))
	return nil
}

type fakeJira struct {
	issue         jira.Issue
	issueErr      error
	searchResults []jira.Issue
	searchErr     error
	stats         jira.ProjectStats
	statsErr      error
	commentErr    error

	comments []string
}

func (f *fakeJira) GetIssue(ctx context.Context, key string) (jira.Issue, error) {
	return f.issue, f.issueErr
}

func (f *fakeJira) SearchIssues(ctx context.Context, jql string, max int) ([]jira.Issue, error) {
	return f.searchResults, f.searchErr
}

func (f *fakeJira) AddComment(ctx context.Context, key, body string) error {
	if f.commentErr != nil {
		return f.commentErr
	}
	f.comments = append(f.comments, key+": "+body)
	return nil
}

func (f *fakeJira) GetProjectStats(ctx context.Context, projectKey string) (jira.ProjectStats, error) {
	return f.stats, f.statsErr
}

type postedMessage struct {
	channelID   string
	text        string
	attachments []slack.Attachment
}

type fakeSlack struct {
	channel    slack.Channel
	channelErr error
	postErr    error

	posted []postedMessage
}

func (f *fakeSlack) FindChannel(ctx context.Context, name string) (slack.Channel, error) {
	return f.channel, f.channelErr
}

func (f *fakeSlack) PostMessage(ctx context.Context, channelID, text string, attachments []slack.Attachment) (string, error) {
	if f.postErr != nil {
		return "", f.postErr
	}
	f.posted = append(f.posted, postedMessage{channelID: channelID, text: text, attachments: attachments})
	return "1727000000.000100", nil
}

type fakeLLM struct {
	result llm.AnalysisResult
	err    error

	lastInput llm.AnalyzeInput
}

func (f *fakeLLM) Analyze(ctx context.Context, input llm.AnalyzeInput) (llm.AnalysisResult, error) {
	f.lastInput = input
	return f.result, f.err
}

type fakeMetrics struct {
	sample TeamMetricsSample
	err    error
}

func (f *fakeMetrics) TeamMetrics(ctx context.Context, team, period string) (TeamMetricsSample, error) {
	return f.sample, f.err
}

// brokenObjectStore fails every write; transcript saving must swallow it.
type brokenObjectStore struct{}

func (brokenObjectStore) SaveWithKey(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error) {
	return 0, errors.New("store unavailable")
}

func (brokenObjectStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	return nil, errors.New("store unavailable")
}

type testEnv struct {
	svc     *Service
	github  *fakeGitHub
	jira    *fakeJira
	slack   *fakeSlack
	llm     *fakeLLM
	metrics *fakeMetrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		github:  &fakeGitHub{},
		jira:    &fakeJira{},
		slack:   &fakeSlack{},
		llm:     &fakeLLM{result: llm.AnalysisResult{Analysis: "looks fine", Confidence: 80}},
		metrics: &fakeMetrics{},
	}
	env.svc = &Service{
		GitHub:  env.github,
		Jira:    env.jira,
		Slack:   env.slack,
		LLM:     env.llm,
		Store:   NewMemoryStore(),
		Metrics: env.metrics,
	}
	return env
}
