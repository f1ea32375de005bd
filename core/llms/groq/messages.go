package groq

import (
	"github.com/prepmate/interview-core/core/llms"
)

type message struct {
	Role    messageRole `json:"role"`
	Content string      `json:"content"`
}

type messageRole string

const (
	messageRoleSystem    messageRole = "system"
	messageRoleUser      messageRole = "user"
	messageRoleAssistant messageRole = "assistant"
)

func toMessages(messages []llms.Message) []message {
	wireMessages := make([]message, 0, len(messages))
	for _, msg := range messages {
		role := messageRoleUser
		switch msg.Role {
		case llms.RoleSystem:
			role = messageRoleSystem
		case llms.RoleAssistant:
			role = messageRoleAssistant
		}

		wireMessages = append(wireMessages, message{Role: role, Content: msg.Content})
	}
	return wireMessages
}

type requestBody struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature *float32  `json:"temperature,omitempty"`
}

type responseBody struct {
	Choices []struct {
		Message struct {
			Role         string  `json:"role,omitempty"`
			Content      string  `json:"content,omitempty"`
			Reasoning    string  `json:"reasoning,omitempty"`
			Channel      string  `json:"channel,omitempty"`
			FinishReason *string `json:"finish_reason,omitempty"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		QueueTime               float64 `json:"queue_time"`
		PromptTokens            int     `json:"prompt_tokens"`
		PromptTime              float64 `json:"prompt_time"`
		CompletionTokens        int     `json:"completion_tokens"`
		CompletionTime          float64 `json:"completion_time"`
		TotalTokens             int     `json:"total_tokens"`
		TotalTime               float64 `json:"total_time"`
		CompletionTokensDetails *struct {
			ReasoningTokens int `json:"reasoning_tokens"`
		}
	} `json:"usage"`
}
