package kanbanflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	bc "github.com/egobogo/boardsync/internal/board"
)

const (
	DefaultBaseURL = "https://kanbanflow.com/api/v1"
	// KanbanFlow allows 100 requests per 15 seconds per token.
	defaultRequestsPerSecond = 6
	pageSize                 = 100
)

// Client is a KanbanFlow API client. It throttles and counts its requests.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	requests   atomic.Int64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit sets the sustained request rate. Values <= 0 disable throttling.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewClient creates a KanbanFlow client for the board owning token.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(defaultRequestsPerSecond, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Requests returns the number of API requests issued so far.
func (c *Client) Requests() int64 {
	return c.requests.Load()
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth("apiToken", c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	c.requests.Add(1)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &bc.APIError{Service: "kanbanflow", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// GetBoard returns the board structure.
func (c *Client) GetBoard(ctx context.Context) (*BoardInfo, error) {
	var b BoardInfo
	if err := c.doRequest(ctx, http.MethodGet, "/board", nil, &b); err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return &b, nil
}

// ColumnTasks returns every task in a column, following nextTaskId.
func (c *Client) ColumnTasks(ctx context.Context, columnID string) ([]Task, error) {
	var all []Task
	start := ""
	for {
		q := url.Values{}
		q.Set("columnId", columnID)
		q.Set("limit", strconv.Itoa(pageSize))
		if start != "" {
			q.Set("startTaskId", start)
		}
		var page []columnTasks
		if err := c.doRequest(ctx, http.MethodGet, "/tasks?"+q.Encode(), nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list tasks of column %s: %w", columnID, err)
		}
		if len(page) == 0 {
			return all, nil
		}
		all = append(all, page[0].Tasks...)
		if !page[0].TasksLimited || page[0].NextTaskID == "" {
			return all, nil
		}
		start = page[0].NextTaskID
	}
}

// CreateTask creates a task and returns its id.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (string, error) {
	var resp createTaskResponse
	if err := c.doRequest(ctx, http.MethodPost, "/tasks", req, &resp); err != nil {
		return "", fmt.Errorf("failed to create task: %w", err)
	}
	return resp.TaskID, nil
}
