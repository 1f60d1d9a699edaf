package openai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

const systemPrompt = "You are a software delivery analyst. Respond with JSON only: " +
	`{"analysis": string, "confidence": number 0-100, "recommendations": [string]}. ` +
	"No markdown. Never omit keys."

var kindTasks = map[string]string{
	"pr":      "Review the pull request context. Assess risk level, estimated review time in hours, relevant topics, and who should review it.",
	"issue":   "Triage the issue. Assess priority, category, estimated effort in story points, dependencies on other tickets, and useful tags.",
	"release": "Assess release readiness as a score out of 100. Name blockers with severity and concrete suggested actions.",
	"team":    "Analyze the team metrics. Name delivery bottlenecks with their impact and comment on the velocity trend.",
}

// BuildPrompt creates the chat messages for a workflow analysis request.
func BuildPrompt(kind, instructions string, context map[string]any) []Message {
	task, ok := kindTasks[kind]
	if !ok {
		task = "Analyze the provided engineering context."
	}
	if extra := strings.TrimSpace(instructions); extra != "" {
		task = task + " " + extra
	}

	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildUserPrompt(task, context)},
	}
}

func buildUserPrompt(task string, context map[string]any) string {
	ctxJSON, err := json.MarshalIndent(context, "", "  ")
	if err != nil {
		ctxJSON = []byte("{}")
	}
	return fmt.Sprintf("%s\n\nContext:\n%s", task, ctxJSON)
}
