package workflows

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSyncAfterAnalyzePR(t *testing.T) {
	env := newTestEnv(t)
	env.github.pr = samplePRDetail()

	if _, err := env.svc.AnalyzePR(context.Background(), AnalyzePRParams{Owner: "o", Repo: "r", PullNumber: 1}); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	status, err := env.svc.SyncWorkflowStatus(context.Background(), SyncParams{
		WorkflowID:   "pr-o-r-1",
		StatusUpdate: "in-review",
		Platforms:    []Platform{PlatformGitHub},
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if status.Services[PlatformGitHub].Status != "in-review" {
		t.Errorf("github status: got %q", status.Services[PlatformGitHub].Status)
	}
	if status.Status != "in-review" {
		t.Errorf("workflow status: got %q", status.Status)
	}
	if len(env.github.statusChecks) != 1 || !strings.Contains(env.github.statusChecks[0], "o/r#1") {
		t.Errorf("status checks: got %v", env.github.statusChecks)
	}

	stored, err := env.svc.GetStatus(context.Background(), "pr-o-r-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if stored.Services[PlatformGitHub].Status != "in-review" {
		t.Errorf("stored github status: got %q", stored.Services[PlatformGitHub].Status)
	}
}

func TestSyncUnknownWorkflow(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.SyncWorkflowStatus(context.Background(), SyncParams{
		WorkflowID:   "pr-o-r-404",
		StatusUpdate: "done",
		Platforms:    []Platform{PlatformGitHub, PlatformJira, PlatformSlack},
	})
	if !errors.Is(err, ErrWorkflowNotFound) {
		t.Fatalf("want ErrWorkflowNotFound, got %v", err)
	}
	if len(env.github.statusChecks) != 0 || len(env.jira.comments) != 0 || len(env.slack.posted) != 0 {
		t.Error("unknown workflow must perform no pushes")
	}
}

func TestSyncPlatformFailureIsolated(t *testing.T) {
	env := newTestEnv(t)
	env.jira.commentErr = errors.New("jira down")

	seed := WorkflowStatus{
		ID:     "issue-PROJ-9",
		Type:   TypeIssue,
		Status: StatusCompleted,
		Services: map[Platform]ServiceRef{
			PlatformJira:  {Status: "triaged", Key: "PROJ-9"},
			PlatformSlack: {Status: "notified", Channel: "C123"},
		},
	}
	if err := env.svc.Store.Put(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	status, err := env.svc.SyncWorkflowStatus(context.Background(), SyncParams{
		WorkflowID:   "issue-PROJ-9",
		StatusUpdate: "resolved",
		Platforms:    []Platform{PlatformJira, PlatformSlack},
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if status.Services[PlatformJira].Status != "triaged" {
		t.Errorf("failed platform must keep its old status, got %q", status.Services[PlatformJira].Status)
	}
	if status.Services[PlatformSlack].Status != "resolved" {
		t.Errorf("successful platform not updated, got %q", status.Services[PlatformSlack].Status)
	}
	if len(env.slack.posted) != 1 {
		t.Errorf("slack posts: got %d", len(env.slack.posted))
	}
}

func TestSyncUnlinkedPlatformSkipped(t *testing.T) {
	env := newTestEnv(t)

	seed := WorkflowStatus{
		ID:       "pr-o-r-2",
		Type:     TypePR,
		Status:   StatusCompleted,
		Services: map[Platform]ServiceRef{PlatformGitHub: {Status: "analyzed", URL: "https://github.com/o/r/pull/2"}},
	}
	if err := env.svc.Store.Put(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := env.svc.SyncWorkflowStatus(context.Background(), SyncParams{
		WorkflowID:   "pr-o-r-2",
		StatusUpdate: "merged",
		Platforms:    []Platform{PlatformSlack},
	}); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(env.slack.posted) != 0 {
		t.Error("unlinked platform must not be pushed to")
	}
}
