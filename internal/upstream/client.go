package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/antigravity/answer-gateway/internal/config"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Call is a single chat completion request on behalf of a caller.
type Call struct {
	// APIKey is the caller's credential. It is sent as a bearer token and never logged.
	APIKey string
	Params openai.ChatCompletionNewParams
	// Timeout bounds the whole call; zero means only ctx applies.
	Timeout time.Duration
}

// Client sends chat completion requests to an OpenAI-compatible provider.
type Client struct {
	baseURL   string
	userAgent string
	transport http.RoundTripper
	logger    *zap.Logger
}

// NewClient creates a new upstream client. The underlying transport is shared
// across calls; credentials are attached per call.
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		transport: http.DefaultTransport,
		logger:    logger,
	}
}

// Complete issues exactly one chat completion request and returns the
// provider's response object unchanged. SDK retries are disabled.
func (c *Client) Complete(ctx context.Context, call Call) (json.RawMessage, error) {
	if call.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, call.Timeout)
		defer cancel()
	}

	// Built per call so no process-wide OPENAI_* environment leaks in.
	service := openai.NewChatCompletionService(
		option.WithBaseURL(c.baseURL),
		option.WithHTTPClient(c.httpClient(call.APIKey)),
		option.WithMaxRetries(0),
		option.WithHeader("User-Agent", c.userAgent),
	)

	c.logger.Debug("Sending request to upstream",
		zap.String("base_url", c.baseURL),
		zap.String("model", string(call.Params.Model)),
		zap.Int("messages", len(call.Params.Messages)),
		zap.Duration("timeout", call.Timeout))

	start := time.Now()
	completion, err := service.New(ctx, call.Params)
	if err != nil {
		err = classify(ctx, err, call.Timeout)
		c.logger.Debug("Upstream request failed",
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	raw := completion.RawJSON()
	if raw == "" {
		return nil, &RequestError{Cause: errors.New("empty response body")}
	}

	c.logger.Debug("Upstream request succeeded",
		zap.String("id", completion.ID),
		zap.Duration("latency", time.Since(start)))

	return json.RawMessage(raw), nil
}

// httpClient authenticates every request with the caller key as a bearer token.
func (c *Client) httpClient(apiKey string) *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: apiKey,
				TokenType:   "Bearer",
			}),
			Base: c.transport,
		},
	}
}

func classify(ctx context.Context, err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Timeout: timeout}
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		return &APIError{StatusCode: apiErr.StatusCode, Message: msg, Cause: err}
	}

	return &RequestError{Cause: err}
}
