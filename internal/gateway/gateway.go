package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/antigravity/answer-gateway/internal/config"
	"github.com/antigravity/answer-gateway/internal/models"
	"github.com/antigravity/answer-gateway/internal/upstream"
	"go.uber.org/zap"
)

// ErrNoMessages is reported when a request carries an empty conversation.
var ErrNoMessages = errors.New("messages must not be empty")

// Completer issues a single chat completion call.
type Completer interface {
	Complete(ctx context.Context, call upstream.Call) (json.RawMessage, error)
}

// Gateway turns answer requests into upstream calls and maps every outcome
// onto an envelope. It holds no per-request state.
type Gateway struct {
	upstream       Completer
	defaultTimeout time.Duration
	maxTimeout     time.Duration
	logger         *zap.Logger
}

// New creates a new gateway.
func New(cfg config.GatewayConfig, completer Completer, logger *zap.Logger) *Gateway {
	timeout := cfg.DefaultTimeout
	if timeout <= 0 {
		timeout = config.DefaultGatewayTimeout
	}
	maxTimeout := cfg.MaxTimeout
	if maxTimeout < timeout {
		maxTimeout = timeout
	}
	return &Gateway{
		upstream:       completer,
		defaultTimeout: timeout,
		maxTimeout:     maxTimeout,
		logger:         logger,
	}
}

// HandleAnswer validates req, makes exactly one bounded upstream call and
// returns the result or the failure as an envelope. It never returns an error.
func (g *Gateway) HandleAnswer(ctx context.Context, req *models.AnswerRequest) models.Envelope {
	fields := []zap.Field{
		zap.String("model", req.Model),
		zap.Int("messages", len(req.Messages)),
		zap.Bool("api_key_set", req.APIKey != ""),
	}

	if len(req.Messages) == 0 {
		g.logger.Info("Answer request rejected", append(fields, zap.Error(ErrNoMessages))...)
		return models.Failed(ErrNoMessages.Error())
	}

	timeout := g.resolveTimeout(req.Timeout)
	fields = append(fields, zap.Duration("timeout", timeout))

	params, err := transformRequest(req)
	if err != nil {
		g.logger.Info("Answer request rejected", append(fields, zap.Error(err))...)
		return models.Failed(fmt.Sprintf("invalid request: %v", err))
	}

	start := time.Now()
	result, err := g.upstream.Complete(ctx, upstream.Call{
		APIKey:  req.APIKey,
		Params:  params,
		Timeout: timeout,
	})
	fields = append(fields, zap.Duration("latency", time.Since(start)))

	if err != nil {
		var timeoutErr *upstream.TimeoutError
		if errors.As(err, &timeoutErr) {
			g.logger.Warn("Upstream request timed out", append(fields, zap.Error(err))...)
		} else {
			g.logger.Warn("Upstream request failed", append(fields, zap.Error(err))...)
		}
		return models.Failed(err.Error())
	}

	g.logger.Info("Answer request completed", fields...)
	return models.Succeeded(result)
}

// resolveTimeout returns the caller's bound when it is a positive number of
// seconds and the configured default otherwise. The result never exceeds
// maxTimeout, so it always fits inside the server's write deadline.
func (g *Gateway) resolveTimeout(seconds *int) time.Duration {
	if seconds == nil || *seconds <= 0 {
		return g.defaultTimeout
	}
	// 先按秒比较，避免大数乘以 time.Second 溢出
	if int64(*seconds) > int64(g.maxTimeout/time.Second) {
		return g.maxTimeout
	}
	return time.Duration(*seconds) * time.Second
}
