package workflows

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"devflow-backend/internal/shared/telemetry"
)

// SyncParams are the inputs to SyncWorkflowStatus. Platforms selects which
// external systems receive the push; unknown names are skipped with a
// warning.
type SyncParams struct {
	WorkflowID   string
	StatusUpdate string
	Platforms    []Platform
}

var githubPRURLRe = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/pull/(\d+)$`)

// SyncWorkflowStatus pushes a status label out to the platforms a workflow
// already touched. An unknown workflow id is fatal and performs no pushes.
// Individual platform failures are logged and do not block the others; only
// platforms whose push succeeded are updated in the stored record.
func (s *Service) SyncWorkflowStatus(ctx context.Context, params SyncParams) (WorkflowStatus, error) {
	status, err := s.Store.Get(ctx, params.WorkflowID)
	if err != nil {
		return WorkflowStatus{}, err
	}

	for _, platform := range params.Platforms {
		ref, ok := status.Services[platform]
		if !ok {
			telemetry.Warn("sync.platform_not_linked", map[string]any{
				"workflow_id": params.WorkflowID, "platform": string(platform),
			})
			continue
		}
		if err := s.pushStatus(ctx, platform, ref, params.StatusUpdate); err != nil {
			telemetry.Warn("sync.push_failed", map[string]any{
				"workflow_id": params.WorkflowID, "platform": string(platform), "error": err.Error(),
			})
			continue
		}
		ref.Status = params.StatusUpdate
		status.Services[platform] = ref
	}

	status.Status = params.StatusUpdate
	status.LastUpdated = time.Now().UTC()
	if err := s.Store.Put(ctx, status); err != nil {
		return WorkflowStatus{}, err
	}
	return status, nil
}

// pushStatus performs the platform-specific write from a stored pointer.
func (s *Service) pushStatus(ctx context.Context, platform Platform, ref ServiceRef, update string) error {
	switch platform {
	case PlatformGitHub:
		m := githubPRURLRe.FindStringSubmatch(ref.URL)
		if m == nil {
			return fmt.Errorf("stored url %q is not a pull request url", ref.URL)
		}
		number, _ := strconv.Atoi(m[3])
		return s.GitHub.CreatePRStatusCheck(ctx, m[1], m[2], number, "success", update)
	case PlatformJira:
		return s.Jira.AddComment(ctx, ref.Key, "Workflow status update: "+update)
	case PlatformSlack:
		_, err := s.Slack.PostMessage(ctx, ref.Channel, "Workflow status update: "+update, nil)
		return err
	default:
		return fmt.Errorf("unknown platform %q", platform)
	}
}
