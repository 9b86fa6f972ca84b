package intent

import (
	"fmt"
	"strings"

	"genassist/internal/models"
	"genassist/pkg/aiinterface"
)

// 模型调用参数
const (
	llmTemperature = 0.1
	llmMaxTokens   = 500
	llmTopP        = 0.9
)

const systemPrompt = `You are an intent classifier for an enterprise workflow assistant.
Analyze the business command and reply with ONLY a JSON object, no prose and no code fences.`

// buildRequest 构造一次分类请求
func buildRequest(text string) *aiinterface.ChatCompletionRequest {
	return &aiinterface.ChatCompletionRequest{
		Messages: []aiinterface.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(text)},
		},
		Temperature: llmTemperature,
		MaxTokens:   llmMaxTokens,
		TopP:        llmTopP,
		JSONMode:    true,
	}
}

func buildUserPrompt(text string) string {
	intents := make([]string, len(models.AllIntents))
	for i, in := range models.AllIntents {
		intents[i] = string(in)
	}

	var slots strings.Builder
	for _, in := range models.AllIntents {
		names := make([]string, 0, len(Slots(in)))
		for _, s := range Slots(in) {
			names = append(names, s.Name)
		}
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(&slots, "- %s: %s\n", in, strings.Join(names, ", "))
	}

	return fmt.Sprintf(`Extract from the command:
1. Intent (one of: %s)
2. Entities (key-value pairs of relevant information). Known entity names per intent:
%s3. Confidence (0-1 score)
4. Domain (HR, IT, Finance, or General)

Command: %q

Respond with ONLY a JSON object in this format:
{"intent": "HR_Onboarding", "entities": {"employee_name": "John Doe", "role": "Developer", "start_date": "Monday"}, "confidence": 0.95, "domain": "HR"}`,
		strings.Join(intents, ", "), slots.String(), text)
}
