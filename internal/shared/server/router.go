package server

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"devflow-backend/internal/github"
	"devflow-backend/internal/jira"
	"devflow-backend/internal/llm"
	"devflow-backend/internal/llm/openai"
	"devflow-backend/internal/services/health"
	"devflow-backend/internal/shared/config"
	"devflow-backend/internal/shared/server/middleware"
	"devflow-backend/internal/shared/server/respond"
	"devflow-backend/internal/shared/storage/object"
	localstore "devflow-backend/internal/shared/storage/object/local"
	s3store "devflow-backend/internal/shared/storage/object/s3"
	"devflow-backend/internal/slack"
	"devflow-backend/internal/workflows"
)

// NewRouter constructs the Gin engine with middleware, adapters, and routes
// registered. Adapter construction fails fast on missing credentials.
func NewRouter(cfg config.Config) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	githubClient, err := github.NewClient(cfg.GitHubToken, cfg.GitHubAPIURL)
	if err != nil {
		return nil, fmt.Errorf("github adapter: %w", err)
	}
	jiraClient, err := jira.NewClient(cfg.JiraBaseURL, cfg.JiraEmail, cfg.JiraAPIToken)
	if err != nil {
		return nil, fmt.Errorf("jira adapter: %w", err)
	}
	slackClient, err := slack.NewClient(cfg.SlackBotToken, cfg.SlackAPIURL)
	if err != nil {
		return nil, fmt.Errorf("slack adapter: %w", err)
	}
	llmClient, err := newLLMClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("llm adapter: %w", err)
	}

	transcripts := newTranscriptStore(cfg)

	svc := &workflows.Service{
		GitHub:      githubClient,
		Jira:        jiraClient,
		Slack:       slackClient,
		LLM:         llmClient,
		Store:       workflows.NewMemoryStore(),
		Transcripts: transcripts,
	}
	workflowHandler := workflows.NewHandler(svc)
	healthSvc := health.NewService()

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	workflowHandler.RegisterRoutes(api)

	return r, nil
}

func newLLMClient(cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "", "openai":
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, "")
	case "none":
		return llm.PlaceholderClient{}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.LLMProvider)
	}
}

// newTranscriptStore picks the audit store. Transcripts are best-effort, so
// an unreachable S3 config degrades to the local store rather than failing
// startup.
func newTranscriptStore(cfg config.Config) object.ObjectStore {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			log.Printf("s3 transcript store unavailable, using local: %v", err)
		} else {
			return store
		}
	}
	return localstore.New(cfg.LocalStoreDir)
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
