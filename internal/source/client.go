// Package source talks to the remote documentation site: the category listing
// page and the per-document content endpoint.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wwmirror/internal/config"
	"wwmirror/internal/models"
)

// Fetch errors.
var (
	// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrEmptyDocument indicates a document response with no usable payload.
	// The traversal treats this as fatal for the run.
	ErrEmptyDocument = errors.New("document response contains no content")
)

// Document is the usable payload of a document fetch.
type Document struct {
	Title string
	Body  string
}

// documentResponse mirrors the JSON envelope of the content endpoint.
type documentResponse struct {
	Data struct {
		Title     string `json:"title"`
		ContentMd string `json:"content_md"`
	} `json:"data"`
}

// Client fetches pages and documents with config-driven retry logic.
type Client struct {
	client       *http.Client
	baseURL      string
	userAgent    string
	retryPolicy  *config.RetryPolicy
	bufferSizeKb int
}

// NewClient creates a client for the given source with the given retry policy.
func NewClient(src config.SourceConfig, retryPolicy *config.RetryPolicy, bufferSizeKb int) *Client {
	return &Client{
		client: &http.Client{
			Timeout: retryPolicy.GetTimeout(),
		},
		baseURL:      strings.TrimRight(src.BaseURL, "/"),
		userAgent:    src.UserAgent,
		retryPolicy:  retryPolicy,
		bufferSizeKb: bufferSizeKb,
	}
}

// BaseURL returns the configured site base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DocumentURL returns the canonical page URL for a document path id.
func (c *Client) DocumentURL(pathID string) string {
	return c.baseURL + "/document/path/" + pathID
}

// ListCategories retrieves the listing page and extracts the flat category
// list embedded in it.
func (c *Client) ListCategories(entryPath string) ([]models.CategoryRecord, error) {
	pageURL := c.DocumentURL(entryPath)

	content, err := c.FetchPage(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}

	categories, err := ExtractCategories(content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract categories from %s: %w", pageURL, err)
	}

	return categories, nil
}

// FetchPage retrieves a page with retries and returns its body.
func (c *Client) FetchPage(pageURL string) (string, error) {
	return c.fetch(func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, pageURL, http.NoBody)
		if err != nil {
			return nil, err
		}

		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

		return req, nil
	})
}

// FetchDocument retrieves a document's content and metadata by document id.
// A response whose payload carries neither a title nor a body yields
// ErrEmptyDocument.
func (c *Client) FetchDocument(docID int64) (*Document, error) {
	id := strconv.FormatInt(docID, 10)

	params := url.Values{
		"lang":   {"zh_CN"},
		"ajax":   {"1"},
		"f":      {"json"},
		"random": {strconv.Itoa(rand.Intn(900000) + 100001)},
	}
	endpoint := c.baseURL + "/docFetch/fetchCnt?" + params.Encode()

	form := url.Values{"doc_id": {id}}.Encode()

	body, err := c.fetch(func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form))
		if err != nil {
			return nil, err
		}

		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json, text/plain, */*")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Referer", c.DocumentURL(id))

		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s: %w", id, err)
	}

	return decodeDocument(body)
}

// fetch runs one request builder through the retry loop and returns the
// response body.
func (c *Client) fetch(build func() (*http.Request, error)) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retryPolicy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if delay := c.retryPolicy.GetRetryDelay(attempt); delay > 0 {
				time.Sleep(delay)
			}
		}

		req, err := build()
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}

		body, statusCode, err := c.do(req)
		if err == nil {
			return body, nil
		}

		lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, c.retryPolicy.MaxAttempts, err)

		// Only retry transport errors and temporary status codes.
		if statusCode != 0 && !isRetryableStatus(statusCode) {
			break
		}
	}

	return "", lastErr
}

// do executes one request and reads the body up to the configured buffer cap.
// The returned status code is zero when the request never got a response.
func (c *Client) do(req *http.Request) (string, int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	// bufferSizeKb is in KB, convert to bytes
	limit := int64(c.bufferSizeKb) * 1024
	reader := io.LimitReader(resp.Body, limit)

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), resp.StatusCode, nil
}

// decodeDocument parses the content endpoint's JSON envelope.
func decodeDocument(body string) (*Document, error) {
	var resp documentResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode document response: %w", err)
	}

	if resp.Data.Title == "" && resp.Data.ContentMd == "" {
		return nil, ErrEmptyDocument
	}

	return &Document{
		Title: resp.Data.Title,
		Body:  resp.Data.ContentMd,
	}, nil
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, // 408
		http.StatusTooManyRequests,    // 429
		http.StatusServiceUnavailable, // 503
		http.StatusGatewayTimeout:     // 504
		return true
	}

	return false
}
