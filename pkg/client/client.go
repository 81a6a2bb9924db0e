package client

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

	"github.com/google/uuid"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4096
)

// Prediction is the service's answer for one customer.
type Prediction struct {
	ChurnProbability float64 `json:"churn_probability"`
	Churn            bool    `json:"churn"`
	// RequestID echoes the X-Request-ID the request was sent with.
	RequestID string `json:"-"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("churn: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("churn: status %d: %s", e.StatusCode, e.Body)
}

// Client posts customer records to a churn prediction service.
type Client struct {
	endpoint string
	hc       *http.Client
	ua       string
	reqID    func() string
}

// New creates a client. baseURL may be the service root or the full /predict URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		timeout:   defaultTimeout,
		userAgent: "churn-client",
		requestID: func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	endpoint, err := predictURL(baseURL)
	if err != nil {
		return nil, err
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{endpoint: endpoint, hc: hc, ua: cfg.userAgent, reqID: cfg.requestID}, nil
}

// Endpoint returns the resolved /predict URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Predict posts one customer record and decodes the prediction.
func (c *Client) Predict(ctx context.Context, record map[string]any) (Prediction, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return Prediction{}, fmt.Errorf("churn: encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Prediction{}, fmt.Errorf("churn: build request: %w", err)
	}
	requestID := c.reqID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.hc.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("churn: post %s: %w", c.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Prediction{}, decodeStatusError(resp)
	}

	var p Prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Prediction{}, fmt.Errorf("churn: decode response: %w", err)
	}
	p.RequestID = requestID
	return p, nil
}

func decodeStatusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	se := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}

	var e struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		se.Code = e.Code
		se.Message = e.Message
	}
	return se
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

func predictURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("churn: parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("churn: unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("churn: url has no host")
	}
	if !strings.HasSuffix(u.Path, "/predict") {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/predict"
	}
	return u.String(), nil
}
