// Package remote talks to the practice backend over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/prepcoach/internal/practice"
)

// Endpoint paths.
const (
	PathHealth    = "/health"
	PathQuestions = "/api/interview/question"
	PathFeedback  = "/api/interview/feedback"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Config holds remote backend settings.
type Config struct {
	BaseURL string

	// Timeout bounds each request, preflight included.
	Timeout time.Duration

	// Preflight calls the health endpoint before every question request.
	Preflight bool
}

// DefaultConfig returns a Config pointing at a local backend.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:5000",
		Timeout: 30 * time.Second,
	}
}

// Client is a practice.QuestionSource and practice.FeedbackSource backed by
// the remote practice API.
type Client struct {
	cfg    Config
	base   *url.URL
	http   *http.Client
	logger *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the client's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend URL %q: scheme must be http or https", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	c := &Client{
		cfg:    cfg,
		base:   base,
		http:   &http.Client{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Health checks the backend. Any failure is reported as unavailability.
func (c *Client) Health(ctx context.Context) error {
	status, body, err := c.send(ctx, http.MethodGet, PathHealth, nil)
	if err != nil {
		return practice.Unavailable(fmt.Errorf("health check: %w", err))
	}
	if status < 200 || status >= 300 {
		return practice.Unavailable(fmt.Errorf("health check: status %d: %s", status, snippet(body)))
	}
	return nil
}

// Questions requests a question batch for p.
func (c *Client) Questions(ctx context.Context, p practice.ProfileContext) (*practice.Batch, error) {
	if c.cfg.Preflight {
		if err := c.Health(ctx); err != nil {
			return nil, err
		}
	}

	body, err := c.do(ctx, http.MethodPost, PathQuestions, NewProfileBody(p))
	if err != nil {
		return nil, err
	}
	resp, err := DecodeQuestionResponse(body)
	if err != nil {
		return nil, err
	}
	return resp.Batch(practice.OriginRemote), nil
}

// Feedback requests feedback for answer to q.
func (c *Client) Feedback(ctx context.Context, q practice.Question, answer string, p practice.ProfileContext) (*practice.FeedbackRecord, error) {
	req := FeedbackRequest{
		Question:   NewQuestionBody(q),
		UserAnswer: answer,
		Profile:    NewProfileBody(p),
	}
	body, err := c.do(ctx, http.MethodPost, PathFeedback, req)
	if err != nil {
		return nil, err
	}
	resp, err := DecodeFeedbackResponse(body)
	if err != nil {
		return nil, err
	}
	return resp.Record(practice.OriginRemote), nil
}

// DecodeQuestionResponse validates and decodes a question response body.
// Failures are practice.ErrRemoteMalformed.
func DecodeQuestionResponse(body []byte) (QuestionResponse, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return QuestionResponse{}, practice.Malformed(fmt.Errorf("invalid JSON: %w", err))
	}
	if err := questionValidator.Validate(doc); err != nil {
		return QuestionResponse{}, practice.Malformed(fmt.Errorf("question response: %w", err))
	}
	var resp QuestionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return QuestionResponse{}, practice.Malformed(fmt.Errorf("decode question response: %w", err))
	}
	return resp, nil
}

// DecodeFeedbackResponse normalizes aliased keys, validates and decodes a
// feedback response body. Failures are practice.ErrRemoteMalformed.
func DecodeFeedbackResponse(body []byte) (FeedbackResponse, error) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return FeedbackResponse{}, practice.Malformed(fmt.Errorf("invalid JSON: %w", err))
	}
	if doc == nil {
		return FeedbackResponse{}, practice.Malformed(errors.New("feedback response is null"))
	}
	normalizeFeedback(doc)
	if err := feedbackValidator.Validate(doc); err != nil {
		return FeedbackResponse{}, practice.Malformed(fmt.Errorf("feedback response: %w", err))
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return FeedbackResponse{}, practice.Malformed(fmt.Errorf("re-encode feedback response: %w", err))
	}
	var resp FeedbackResponse
	if err := json.Unmarshal(normalized, &resp); err != nil {
		return FeedbackResponse{}, practice.Malformed(fmt.Errorf("decode feedback response: %w", err))
	}
	return resp, nil
}

// do sends a JSON request and returns the body of a 2xx response. Transport
// failures are unavailability and other statuses are rejections.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	status, body, err := c.send(ctx, method, path, payload)
	if err != nil {
		return nil, practice.Unavailable(err)
	}
	if status < 200 || status >= 300 {
		return nil, practice.Rejected(status, fmt.Errorf("%s %s: %s", method, path, snippet(body)))
	}
	return body, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))
	return resp.StatusCode, body, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		return "(empty body)"
	}
	return s
}
