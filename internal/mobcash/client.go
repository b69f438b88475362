package mobcash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const refreshPath = "/auth/refresh"

// Client talks to the mobcash REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

// request describes one backend call. route is the path template used as the
// metrics label; tokens is nil for anonymous endpoints.
type request struct {
	method string
	path   string
	route  string
	query  url.Values
	body   any
	tokens *Tokens
	out    any
}

func (c *Client) do(ctx context.Context, r request) error {
	if r.route == "" {
		r.route = r.path
	}

	status, body, err := c.send(ctx, r)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && r.tokens != nil {
		if err := c.refresh(ctx, r.tokens); err != nil {
			return err
		}
		status, body, err = c.send(ctx, r)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return ErrSessionExpired
		}
	}

	if status < 200 || status >= 300 {
		apiErr := parseAPIError(status, body)
		c.logger.WarnContext(ctx, "mobcash_error",
			"method", r.method,
			"route", r.route,
			"status", status,
			"message", apiErr.Message,
		)
		return apiErr
	}

	if r.out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, r.out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.route, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, r request) (int, []byte, error) {
	var bodyReader io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	query := url.Values{}
	for k, v := range r.query {
		query[k] = v
	}
	if r.method == http.MethodGet {
		query.Set("_t", strconv.FormatInt(c.now().UnixMilli(), 10))
	}
	endpoint := c.baseURL + r.path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.tokens != nil && r.tokens.Access != "" {
		req.Header.Set("Authorization", "Bearer "+r.tokens.Access)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeUpstream(r.method, r.route, "error", time.Since(start))
		return 0, nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, r.method, r.route, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	observeUpstream(r.method, r.route, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response body: %v", ErrUnavailable, err)
	}
	return resp.StatusCode, respBody, nil
}

// refresh trades the refresh token for a new access token, writing it into
// tokens. Any failure ends the session.
func (c *Client) refresh(ctx context.Context, tokens *Tokens) error {
	if tokens.Refresh == "" {
		return ErrSessionExpired
	}

	var out struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   refreshPath,
		body:   map[string]string{"refresh": tokens.Refresh},
		out:    &out,
	})
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return err
		}
		c.logger.InfoContext(ctx, "mobcash_refresh_rejected", "error", err)
		return ErrSessionExpired
	}
	if out.Access == "" {
		return ErrSessionExpired
	}

	tokens.Access = out.Access
	if out.Refresh != "" {
		tokens.Refresh = out.Refresh
	}
	return nil
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}
