package workflows

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"devflow-backend/internal/shared/server/respond"
	"devflow-backend/internal/shared/serviceerr"
)

// Handler wires HTTP handlers to the workflow service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches workflow routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/workflows/pr/analyze", h.analyzePR)
	rg.POST("/workflows/issues/triage", h.triageIssue)
	rg.POST("/workflows/releases/orchestrate", h.orchestrateRelease)
	rg.POST("/workflows/team/insights", h.teamInsights)
	rg.POST("/workflows/:id/sync", h.syncStatus)
	rg.GET("/workflows/:id", h.getStatus)
}

type analyzePRRequest struct {
	Owner              string `json:"owner" binding:"required"`
	Repo               string `json:"repo" binding:"required"`
	PullNumber         int    `json:"pullNumber" binding:"required,gt=0"`
	IncludeJiraContext bool   `json:"includeJiraContext"`
}

func (h *Handler) analyzePR(c *gin.Context) {
	var req analyzePRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "owner, repo, and a positive pullNumber are required", nil)
		return
	}

	result, err := h.Svc.AnalyzePR(c.Request.Context(), AnalyzePRParams{
		Owner:              req.Owner,
		Repo:               req.Repo,
		PullNumber:         req.PullNumber,
		IncludeJiraContext: req.IncludeJiraContext,
	})
	if err != nil {
		h.operationError(c, err)
		return
	}
	respond.OK(c, result)
}

type triageRequest struct {
	IssueKey       string   `json:"issueKey" binding:"required"`
	GitHubIssueURL string   `json:"githubIssueUrl"`
	TeamContext    []string `json:"teamContext"`
}

func (h *Handler) triageIssue(c *gin.Context) {
	var req triageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "issueKey is required", nil)
		return
	}

	result, err := h.Svc.SmartTriage(c.Request.Context(), SmartTriageParams{
		IssueKey:       req.IssueKey,
		GitHubIssueURL: req.GitHubIssueURL,
		TeamRoster:     req.TeamContext,
	})
	if err != nil {
		h.operationError(c, err)
		return
	}
	respond.OK(c, result)
}

type releaseRequest struct {
	Version      string `json:"version" binding:"required"`
	Repository   string `json:"repository" binding:"required"`
	JiraProject  string `json:"jiraProject" binding:"required"`
	SlackChannel string `json:"slackChannel" binding:"required"`
	DryRun       bool   `json:"dryRun"`
}

func (h *Handler) orchestrateRelease(c *gin.Context) {
	var req releaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "version, repository, jiraProject, and slackChannel are required", nil)
		return
	}

	result, err := h.Svc.OrchestrateRelease(c.Request.Context(), ReleaseParams{
		Version:      req.Version,
		Repository:   req.Repository,
		JiraProject:  req.JiraProject,
		SlackChannel: req.SlackChannel,
		DryRun:       req.DryRun,
	})
	if err != nil {
		h.operationError(c, err)
		return
	}
	respond.OK(c, result)
}

type syncRequest struct {
	StatusUpdate string   `json:"statusUpdate" binding:"required"`
	Platforms    []string `json:"platforms" binding:"required,min=1"`
}

func (h *Handler) syncStatus(c *gin.Context) {
	workflowID := c.Param("id")
	c.Set("workflowId", workflowID)

	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "statusUpdate and at least one platform are required", nil)
		return
	}
	platforms := make([]Platform, 0, len(req.Platforms))
	for _, p := range req.Platforms {
		platforms = append(platforms, Platform(p))
	}

	status, err := h.Svc.SyncWorkflowStatus(c.Request.Context(), SyncParams{
		WorkflowID:   workflowID,
		StatusUpdate: req.StatusUpdate,
		Platforms:    platforms,
	})
	if err != nil {
		h.operationError(c, err)
		return
	}
	respond.OK(c, status)
}

type insightsRequest struct {
	Team               string `json:"team" binding:"required"`
	Period             string `json:"period"`
	IncludePredictions bool   `json:"includePredictions"`
}

func (h *Handler) teamInsights(c *gin.Context) {
	var req insightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "team is required", nil)
		return
	}
	if req.Period == "" {
		req.Period = "30d"
	}

	result, err := h.Svc.TeamInsights(c.Request.Context(), InsightsParams{
		Team:               req.Team,
		Period:             req.Period,
		IncludePredictions: req.IncludePredictions,
	})
	if err != nil {
		h.operationError(c, err)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) getStatus(c *gin.Context) {
	workflowID := c.Param("id")
	c.Set("workflowId", workflowID)

	status, err := h.Svc.GetStatus(c.Request.Context(), workflowID)
	if err != nil {
		h.operationError(c, err)
		return
	}
	respond.OK(c, status)
}

// operationError maps service errors onto HTTP statuses: caller mistakes to
// 400, unknown workflows to 404, upstream outages to 502 naming the service.
func (h *Handler) operationError(c *gin.Context, err error) {
	var svcErr *serviceerr.Error
	switch {
	case errors.Is(err, ErrInvalidRepository), errors.Is(err, ErrInvalidIssueURL):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrWorkflowNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "workflow not found", nil)
	case errors.As(err, &svcErr):
		c.Set("failedService", svcErr.Service)
		respond.Error(c, http.StatusBadGateway, "upstream_error", err.Error(), map[string]any{
			"service":   svcErr.Service,
			"retryable": svcErr.Retryable,
		})
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "workflow operation failed", nil)
	}
}
