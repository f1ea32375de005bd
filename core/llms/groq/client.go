package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prepmate/interview-core/core/llms"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultEndpoint = "https://api.groq.com/openai/v1/chat/completions"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "openai/gpt-oss-120b"

	requestTimeout = 30 * time.Second
)

// Client is a non-streaming Groq chat-completions client.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithEndpoint overrides the chat-completions URL, primarily for tests and
// Groq-compatible proxies.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	client := &Client{
		apiKey:   apiKey,
		model:    DefaultModel,
		endpoint: defaultEndpoint,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   requestTimeout,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Generate sends the transcript to Groq and returns the assistant's reply.
func (c *Client) Generate(ctx context.Context, messages []llms.Message, temperature float32) (string, error) {
	ctx, span := tracer.Start(ctx, "prompt llm")
	defer span.End()
	span.SetAttributes(attribute.String("request.model", c.model))

	reqBody := requestBody{
		Model:       c.model,
		Messages:    toMessages(messages),
		Temperature: &temperature,
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", fmt.Errorf("error creating HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: %v", llms.ErrServiceUnavailable, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, readErr := io.ReadAll(resp.Body); readErr == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}

		err := fmt.Errorf("%w: non-OK HTTP status: %s", llms.ErrServiceUnavailable, resp.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("%w: error reading response body: %v", llms.ErrServiceUnavailable, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	var response responseBody
	if err := json.Unmarshal(respBodyBytes, &response); err != nil {
		err = fmt.Errorf("%w: %v", llms.ErrMalformedResponse, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	if len(response.Choices) == 0 {
		err := fmt.Errorf("%w: no choices returned", llms.ErrMalformedResponse)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return response.Choices[0].Message.Content, nil
}
