// Package clickup implements the RemoteDocAPI port against the ClickUp
// Docs REST API.
package clickup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"docbridge/internal/application"
	"docbridge/internal/domain"
	"docbridge/internal/ports"
)

// DefaultBaseURL is the production ClickUp API root.
const DefaultBaseURL = "https://api.clickup.com/api/v3"

// contentFormat is sent on every write so pages round-trip as markdown.
const contentFormat = "text/md"

const maxBodyBytes = 10 << 20

// Retry policy for idempotent reads. Writes are never retried: the API
// has no conditional semantics, so a blind retry could duplicate pages.
const (
	getRetries   = 3
	retryBackoff = 250 * time.Millisecond
)

// Config holds client configuration.
type Config struct {
	BaseURL     string
	APIKey      string
	WorkspaceID string
	Timeout     time.Duration
	Logger      *zap.Logger
}

// Client talks to the ClickUp Docs API. All methods surface unexpected
// HTTP statuses as *application.StatusError and transport failures as
// plain errors, so callers can tell the two apart.
type Client struct {
	baseURL     string
	apiKey      string
	workspaceID string
	httpClient  *http.Client
	log         *zap.Logger
}

// Ensure Client implements RemoteDocAPI
var _ ports.RemoteDocAPI = (*Client)(nil)

// New creates a new client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		workspaceID: cfg.WorkspaceID,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		log: cfg.Logger,
	}
}

func (c *Client) pagesURL(docID string) string {
	return fmt.Sprintf("%s/workspaces/%s/docs/%s/pages",
		c.baseURL, url.PathEscape(c.workspaceID), url.PathEscape(docID))
}

func (c *Client) pageURL(docID, pageID string) string {
	return c.pagesURL(docID) + "/" + url.PathEscape(pageID)
}

// pagePayload tolerates both parent field spellings the API has used.
type pagePayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ParentPageID string `json:"parent_page_id"`
	ParentID     string `json:"parent_id"`
}

func (p pagePayload) parent() string {
	if p.ParentPageID != "" {
		return p.ParentPageID
	}
	return p.ParentID
}

// contentPayload carries the possible locations of page content. Fields
// are tried in preference order; first non-empty wins.
type contentPayload struct {
	Content  string `json:"content"`
	Markdown string `json:"markdown"`
	Body     string `json:"body"`
	Text     string `json:"text"`
}

func (p contentPayload) pick() string {
	for _, s := range []string{p.Content, p.Markdown, p.Body, p.Text} {
		if s != "" {
			return s
		}
	}
	return ""
}

// ListPages returns the flat page list of a doc. The endpoint answers
// with either {"pages": [...]} or a bare array; both are accepted.
func (c *Client) ListPages(ctx context.Context, docID string) ([]domain.RemotePage, error) {
	body, err := c.do(ctx, http.MethodGet, c.pagesURL(docID), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var payload []pagePayload
	var wrapped struct {
		Pages []pagePayload `json:"pages"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Pages != nil {
		payload = wrapped.Pages
	} else if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse page list: %w", err)
	}

	pages := make([]domain.RemotePage, 0, len(payload))
	for _, p := range payload {
		pages = append(pages, domain.RemotePage{
			ID:       p.ID,
			Name:     p.Name,
			ParentID: p.parent(),
		})
	}
	return pages, nil
}

// PageContent fetches a page's markdown content. When the page metadata
// response carries no content, a secondary content-specific request is
// issued.
func (c *Client) PageContent(ctx context.Context, docID, pageID string) (string, error) {
	body, err := c.do(ctx, http.MethodGet, c.pageURL(docID, pageID), nil, http.StatusOK)
	if err != nil {
		return "", err
	}
	var payload contentPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		if content := payload.pick(); content != "" {
			return content, nil
		}
	}

	contentURL := c.pageURL(docID, pageID) + "/content?format=markdown"
	body, err = c.do(ctx, http.MethodGet, contentURL, nil, http.StatusOK)
	if err != nil {
		return "", err
	}
	payload = contentPayload{}
	if err := json.Unmarshal(body, &payload); err != nil {
		// Some deployments answer with raw markdown instead of JSON.
		return string(body), nil
	}
	return payload.pick(), nil
}

// CreatePage creates a page and returns its id. A 2xx answer without a
// parsable id in the body is a failure: the page may or may not exist
// remotely, but without an id the mapping cannot be recorded.
func (c *Client) CreatePage(ctx context.Context, docID string, req ports.CreatePageRequest) (string, error) {
	payload := map[string]string{
		"name":           req.Name,
		"content":        req.Content,
		"content_format": contentFormat,
	}
	if req.ParentPageID != "" {
		payload["parent_page_id"] = req.ParentPageID
	}
	body, err := c.do(ctx, http.MethodPost, c.pagesURL(docID), payload,
		http.StatusOK, http.StatusCreated)
	if err != nil {
		return "", err
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.ID == "" {
		return "", fmt.Errorf("create accepted but response contained no page id")
	}
	return created.ID, nil
}

// UpdatePage replaces a page's name and content. 200 and 204 are success;
// any other status comes back as a StatusError.
func (c *Client) UpdatePage(ctx context.Context, docID, pageID string, req ports.UpdatePageRequest) error {
	payload := map[string]string{
		"name":           req.Name,
		"content":        req.Content,
		"content_format": contentFormat,
	}
	_, err := c.do(ctx, http.MethodPut, c.pageURL(docID, pageID), payload,
		http.StatusOK, http.StatusNoContent)
	return err
}

// do issues one request and returns the response body when the status is
// in okStatuses. GETs are retried with backoff on transport errors and
// throttling/server statuses.
func (c *Client) do(ctx context.Context, method, reqURL string, payload any, okStatuses ...int) ([]byte, error) {
	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = getRetries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			wait := retryBackoff << (attempt - 2)
			wait += time.Duration(rand.Int63n(int64(wait) / 2))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, retryable, err := c.doOnce(ctx, method, reqURL, reqBody, okStatuses)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		c.log.Debug("retrying request",
			zap.String("method", method), zap.String("url", reqURL),
			zap.Int("attempt", attempt), zap.Error(err))
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, method, reqURL string, reqBody []byte, okStatuses []int) (body []byte, retryable bool, err error) {
	var reader io.Reader
	if reqBody != nil {
		reader = bytes.NewReader(reqBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, err
	}
	for _, ok := range okStatuses {
		if resp.StatusCode == ok {
			return body, false, nil
		}
	}
	retryable = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
	return nil, retryable, &application.StatusError{
		Code: resp.StatusCode,
		Body: snippet(body),
	}
}

func snippet(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
