package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/prepmate/interview-core/core/llms"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// Client generates text through any OpenAI-compatible chat-completions API.
type Client struct {
	client *goopenai.Client
	model  string
}

// NewClient builds a client for the given key. baseURL may be empty for the
// official API, or point at any OpenAI-compatible endpoint.
func NewClient(apiKey, baseURL, model string) *Client {
	config := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		client: goopenai.NewClientWithConfig(config),
		model:  model,
	}
}

// Generate sends the transcript and returns the assistant's reply.
func (c *Client) Generate(ctx context.Context, messages []llms.Message, temperature float32) (string, error) {
	oaMessages := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		oaMessages = append(oaMessages, goopenai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    oaMessages,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", llms.ErrServiceUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", llms.ErrMalformedResponse)
	}

	return resp.Choices[0].Message.Content, nil
}
