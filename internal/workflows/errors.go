package workflows

import "errors"

var (
	// ErrWorkflowNotFound is returned by sync and status reads for ids no
	// analysis operation has created.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrInvalidRepository is returned for repository identifiers that are
	// not of the form owner/repo.
	ErrInvalidRepository = errors.New("repository must be in owner/repo format")

	// ErrInvalidIssueURL is returned for GitHub issue URLs that cannot be
	// parsed into owner/repo/number.
	ErrInvalidIssueURL = errors.New("github issue url is not of the form https://github.com/{owner}/{repo}/issues/{number}")
)
