package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Config controls how the detection API client talks to the service.
type Config struct {
	BaseURL            string        `json:"base_url" yaml:"base_url"`
	Timeout            time.Duration `json:"timeout" yaml:"timeout"`
	UserAgent          string        `json:"user_agent" yaml:"user_agent"`
	Retry              RetryPolicy   `json:"retry" yaml:"retry"`
	BreakerMaxFailures int           `json:"breaker_max_failures" yaml:"breaker_max_failures"`
	BreakerCooldown    time.Duration `json:"breaker_cooldown" yaml:"breaker_cooldown"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:            "http://localhost:8000",
		Timeout:            10 * time.Second,
		UserAgent:          "object-detection-check/1.0.0",
		BreakerMaxFailures: 5,
		BreakerCooldown:    60 * time.Second,
		Retry: RetryPolicy{
			MaxAttempts:         3,
			InitialInterval:     1 * time.Second,
			MaxInterval:         30 * time.Second,
			MaxElapsedTime:      5 * time.Minute,
			Multiplier:          2.0,
			RandomizationFactor: 0.1,
		},
	}
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig("base_url is required")
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "object-detection-check/1.0.0"
	}
	if c.BreakerMaxFailures <= 0 {
		c.BreakerMaxFailures = 5
	}
	if c.BreakerCooldown <= 0 {
		c.BreakerCooldown = 60 * time.Second
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.InitialInterval <= 0 {
		c.Retry.InitialInterval = 1 * time.Second
	}
	if c.Retry.MaxInterval <= 0 {
		c.Retry.MaxInterval = 30 * time.Second
	}
	if c.Retry.Multiplier <= 1 {
		c.Retry.Multiplier = 2.0
	}
	return nil
}

// HealthStatus is the decoded reply from GET /health. Only the HTTP status
// decides pass/fail; the body is kept loose and pretty-printed for the
// operator.
type HealthStatus struct {
	StatusCode int
	Body       map[string]interface{}
}

// ClassInventory is the decoded reply from GET /available_classes. Every
// field is optional on the wire and defaults to its zero value when absent.
type ClassInventory struct {
	StatusCode   int
	TotalClasses int
	Classes      []string
	Categories   map[string]interface{}
}

// DetectRequest describes one multipart upload to POST /detect.
type DetectRequest struct {
	Image          io.Reader
	Filename       string
	Objects        string
	Confidence     float64
	IncludeSimilar bool
	FallbackToAll  bool
}

// DetectResult is the decoded reply from POST /detect.
type DetectResult struct {
	StatusCode int
	Body       map[string]interface{}
}

// Client talks to the object-detection HTTP API. The GET probes are
// single-shot so the smoke checks observe the service the way a first
// request would; the detect upload goes through the retryer and circuit
// breaker.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	retryer   *retryer
	breaker   *CircuitBreaker
}

func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		retryer:   newRetryer(cfg.Retry),
		breaker:   NewCircuitBreaker(cfg.BreakerMaxFailures, cfg.BreakerCooldown),
	}, nil
}

// BaseURL reports the normalized base URL the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	status, raw, err := c.get(ctx, "/health")
	if err != nil {
		return nil, err
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, ErrDecodeError(
			fmt.Sprintf("health response (status %d) is not valid JSON", status),
			err,
		)
	}

	return &HealthStatus{StatusCode: status, Body: body}, nil
}

func (c *Client) AvailableClasses(ctx context.Context) (*ClassInventory, error) {
	status, raw, err := c.get(ctx, "/available_classes")
	if err != nil {
		return nil, err
	}

	var body struct {
		TotalClasses int                    `json:"total_classes"`
		Classes      []string               `json:"classes"`
		Categories   map[string]interface{} `json:"categories"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, ErrDecodeError(
			fmt.Sprintf("available_classes response (status %d) is not valid JSON", status),
			err,
		)
	}

	return &ClassInventory{
		StatusCode:   status,
		TotalClasses: body.TotalClasses,
		Classes:      body.Classes,
		Categories:   body.Categories,
	}, nil
}

func (c *Client) Detect(ctx context.Context, req DetectRequest) (*DetectResult, error) {
	payload, contentType, err := encodeDetectForm(req)
	if err != nil {
		return nil, err
	}

	var status int
	var raw []byte

	err = c.breaker.Do(ctx, func() error {
		return c.retryer.Do(ctx, func() error {
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(payload))
			if err != nil {
				return ErrNetworkError("failed to create detect request", err)
			}
			httpReq.Header.Set("Content-Type", contentType)
			httpReq.Header.Set("User-Agent", c.userAgent)

			resp, err := c.http.Do(httpReq)
			if err != nil {
				return ErrNetworkError("failed to send detect request", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return ErrNetworkError("failed to read detect response", err)
			}

			status = resp.StatusCode
			raw = body
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, ErrDecodeError(
			fmt.Sprintf("detect response (status %d) is not valid JSON", status),
			err,
		)
	}

	return &DetectResult{StatusCode: status, Body: body}, nil
}

func (c *Client) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, ErrNetworkError(fmt.Sprintf("failed to create request for %s", path), err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, ErrNetworkError(fmt.Sprintf("request to %s failed", path), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, ErrNetworkError(fmt.Sprintf("failed to read response from %s", path), err)
	}

	return resp.StatusCode, body, nil
}

// encodeDetectForm builds the multipart body once so retries can replay it
// without re-reading the image.
func encodeDetectForm(req DetectRequest) ([]byte, string, error) {
	if req.Image == nil {
		return nil, "", ErrInvalidConfig("detect request needs an image")
	}

	filename := req.Filename
	if filename == "" {
		filename = "image.jpg"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", ErrNetworkError("failed to create multipart file part", err)
	}
	if _, err := io.Copy(part, req.Image); err != nil {
		return nil, "", ErrNetworkError("failed to copy image into request", err)
	}

	fields := map[string]string{
		"objects":         req.Objects,
		"confidence":      strconv.FormatFloat(req.Confidence, 'f', -1, 64),
		"include_similar": strconv.FormatBool(req.IncludeSimilar),
		"fallback_to_all": strconv.FormatBool(req.FallbackToAll),
	}
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", ErrNetworkError(fmt.Sprintf("failed to write form field %s", key), err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", ErrNetworkError("failed to finalize multipart body", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
