package leankit

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
	"time"

	bc "github.com/egobogo/boardsync/internal/board"
)

const pageSize = 200

// Client is a LeanKit API client.
type Client struct {
	baseURL    string
	email      string
	password   string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// AccountURL returns the API host of a LeanKit account.
func AccountURL(account string) string {
	return fmt.Sprintf("https://%s.leankit.com", account)
}

// NewClient creates a LeanKit client using basic authentication.
func NewClient(baseURL, email, password string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		email:    email,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
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
	req.SetBasicAuth(c.email, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

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
		return &bc.APIError{Service: "leankit", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// GetBoard fetches a board with its lanes and card types.
func (c *Client) GetBoard(ctx context.Context, boardID string) (*BoardInfo, error) {
	var b BoardInfo
	if err := c.doRequest(ctx, http.MethodGet, "/io/board/"+url.PathEscape(boardID), nil, &b); err != nil {
		return nil, fmt.Errorf("failed to get board %s: %w", boardID, err)
	}
	return &b, nil
}

// ListCards returns every card on a board, following pagination.
func (c *Client) ListCards(ctx context.Context, boardID string) ([]Card, error) {
	var all []Card
	offset := 0
	for {
		q := url.Values{}
		q.Set("board", boardID)
		q.Set("limit", strconv.Itoa(pageSize))
		q.Set("offset", strconv.Itoa(offset))

		var page cardList
		if err := c.doRequest(ctx, http.MethodGet, "/io/card?"+q.Encode(), nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list cards: %w", err)
		}
		all = append(all, page.Cards...)
		offset += len(page.Cards)
		if len(page.Cards) == 0 || offset >= page.PageMeta.TotalRecords {
			return all, nil
		}
	}
}

// ListTasks returns the task cards on a card's task board.
func (c *Client) ListTasks(ctx context.Context, cardID string) ([]Card, error) {
	var page cardList
	if err := c.doRequest(ctx, http.MethodGet, "/io/card/"+url.PathEscape(cardID)+"/tasks", nil, &page); err != nil {
		return nil, fmt.Errorf("failed to list tasks of card %s: %w", cardID, err)
	}
	return page.Cards, nil
}

// CreateCard creates a card and returns it as stored.
func (c *Client) CreateCard(ctx context.Context, req CreateCardRequest) (*Card, error) {
	var card Card
	if err := c.doRequest(ctx, http.MethodPost, "/io/card", req, &card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	return &card, nil
}
