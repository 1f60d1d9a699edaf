package jira

// Issue is the flattened view of a Jira issue the orchestrator works with.
type Issue struct {
	Key         string
	Summary     string
	Description string
	Status      string
	Priority    string
	IssueType   string
	Assignee    string
	Labels      []string
}

// ProjectStats summarizes a project's open workload.
type ProjectStats struct {
	Project    string
	OpenIssues int
	Blockers   int
}

// rawIssue mirrors Jira's nested fields envelope.
type rawIssue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary     string   `json:"summary"`
		Description string   `json:"description"`
		Labels      []string `json:"labels"`
		Status      struct {
			Name string `json:"name"`
		} `json:"status"`
		Priority struct {
			Name string `json:"name"`
		} `json:"priority"`
		IssueType struct {
			Name string `json:"name"`
		} `json:"issuetype"`
		Assignee struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
	} `json:"fields"`
}

func (r rawIssue) flatten() Issue {
	return Issue{
		Key:         r.Key,
		Summary:     r.Fields.Summary,
		Description: r.Fields.Description,
		Status:      r.Fields.Status.Name,
		Priority:    r.Fields.Priority.Name,
		IssueType:   r.Fields.IssueType.Name,
		Assignee:    r.Fields.Assignee.DisplayName,
		Labels:      r.Fields.Labels,
	}
}
