package config

import (
	"log"
	"os"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	GitHubToken     string
	GitHubAPIURL    string
	JiraBaseURL     string
	JiraEmail       string
	JiraAPIToken    string
	SlackBotToken   string
	SlackAPIURL     string
	LLMProvider     string
	LLMModel        string
	OpenAIAPIKey    string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		GitHubAPIURL:    getEnv("GITHUB_API_URL", "https://api.github.com"),
		JiraBaseURL:     os.Getenv("JIRA_BASE_URL"),
		JiraEmail:       os.Getenv("JIRA_EMAIL"),
		JiraAPIToken:    os.Getenv("JIRA_API_TOKEN"),
		SlackBotToken:   os.Getenv("SLACK_BOT_TOKEN"),
		SlackAPIURL:     getEnv("SLACK_API_URL", "https://slack.com/api"),
		LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
		LLMModel:        getEnv("LLM_MODEL", "gpt-4o-mini"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
	}

	if env == "production" {
		for key, val := range map[string]string{
			"GITHUB_TOKEN":    cfg.GitHubToken,
			"JIRA_BASE_URL":   cfg.JiraBaseURL,
			"SLACK_BOT_TOKEN": cfg.SlackBotToken,
			"OPENAI_API_KEY":  cfg.OpenAIAPIKey,
		} {
			if val == "" {
				log.Printf("%s is required in production", key)
			}
		}
	}

	return cfg
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
