// Package gateway holds the client for the hosted chat-completion service.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sales-assist-go/internal/config"
	"github.com/sales-assist-go/internal/pipeline"
	"github.com/sales-assist-go/internal/services/prompt"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Client issues chat-completion calls with a fixed model and a JSON-object
// response format expectation.
type Client struct {
	client     *openai.Client
	model      string
	maxRetries int
	timeout    time.Duration
	backoff    time.Duration
	throttle   *rate.Limiter
	logger     *logrus.Logger
}

// NewClient creates a gateway client from config.
func NewClient(cfg *config.GatewayConfig, logger *logrus.Logger) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	var throttle *rate.Limiter
	if cfg.MaxRPS > 0 {
		throttle = rate.NewLimiter(rate.Limit(cfg.MaxRPS), 1)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger.WithFields(logrus.Fields{
		"model":       cfg.Model,
		"max_retries": cfg.MaxRetries,
		"timeout":     timeout,
	}).Info("Gateway client initialized")

	return &Client{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		timeout:    timeout,
		backoff:    2 * time.Second,
		throttle:   throttle,
		logger:     logger,
	}
}

// Model returns the fixed model identifier used for completions.
func (c *Client) Model() string {
	return c.model
}

// Complete performs one chat-completion round-trip and returns the raw
// textual reply. Only transient failures (5xx or no HTTP response at all)
// are retried, with exponential backoff up to the configured budget; every
// 4xx is a decision the upstream already made and is returned as-is.
func (c *Client) Complete(ctx context.Context, systemPrompt string, user prompt.UserContent) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 2s, 4s, 8s...
			waitTime := c.backoff * (1 << uint(attempt-1))
			select {
			case <-ctx.Done():
				return "", pipeline.WrapError(pipeline.KindUpstreamUnavailable, ctx.Err(), "request canceled while waiting to retry")
			case <-time.After(waitTime):
			}
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"error":   lastErr.Error(),
			}).Warn("Retrying gateway request")
		}

		reply, err := c.complete(ctx, systemPrompt, user)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if !retryable(err) {
			return "", err
		}
	}

	return "", lastErr
}

func (c *Client) complete(ctx context.Context, systemPrompt string, user prompt.UserContent) (string, error) {
	if c.throttle != nil {
		if err := c.throttle.Wait(ctx); err != nil {
			return "", pipeline.WrapError(pipeline.KindUpstreamUnavailable, err, "request canceled while throttled")
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			userMessage(user),
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", pipeline.NewError(pipeline.KindUpstreamUnavailable, "gateway returned no completion")
	}

	return resp.Choices[0].Message.Content, nil
}

func userMessage(user prompt.UserContent) openai.ChatCompletionMessage {
	if user.Image == "" {
		return openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: user.Text,
		}
	}
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeText,
				Text: user.Text,
			},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: user.Image,
				},
			},
		},
	}
}

// classify maps upstream failures onto the pipeline taxonomy. 429 means
// backpressure, 402 means billing; everything else is unavailability.
func classify(err error) error {
	status, ok := statusOf(err)
	if !ok {
		return pipeline.WrapError(pipeline.KindUpstreamUnavailable, err, "gateway unreachable")
	}
	switch status {
	case http.StatusTooManyRequests:
		return pipeline.WrapError(pipeline.KindRateLimited, err, "gateway signaled backpressure")
	case http.StatusPaymentRequired:
		return pipeline.WrapError(pipeline.KindBillingBlocked, err, "gateway rejected the call for billing reasons")
	default:
		return pipeline.WrapError(pipeline.KindUpstreamUnavailable, err, "gateway request failed")
	}
}

// retryable reports whether another attempt could help. Server-side 5xx
// failures and errors with no HTTP status (the request never completed)
// are transient; any 4xx is final.
func retryable(err error) bool {
	if status, ok := statusOf(err); ok {
		return status >= http.StatusInternalServerError
	}
	return true
}

// statusOf extracts the upstream HTTP status, whether the response body
// parsed as a structured API error or not.
func statusOf(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}
