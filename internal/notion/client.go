package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
)

// Client is a minimal Notion REST API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Notion client. An empty token falls back to the
// NOTION_TOKEN environment variable.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		token = os.Getenv("NOTION_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("notion integration token is required (set NOTION_TOKEN)")
	}

	c := &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PageSummary is a flattened view of a Notion page or database entry.
type PageSummary struct {
	ID    string
	Title string
	URL   string
}

// Search finds pages and databases matching the query.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]PageSummary, error) {
	if maxResults <= 0 || maxResults > 100 {
		maxResults = 10
	}

	body := map[string]any{
		"query":     query,
		"page_size": maxResults,
	}

	var resp struct {
		Results []pageObject `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/search", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to search notion: %w", err)
	}

	summaries := make([]PageSummary, 0, len(resp.Results))
	for _, p := range resp.Results {
		summaries = append(summaries, p.summary())
	}
	return summaries, nil
}

// CreatePage creates a page in a database, setting its title property
// and an optional paragraph of content.
func (c *Client) CreatePage(ctx context.Context, databaseID, title, content string) (*PageSummary, error) {
	if databaseID == "" {
		return nil, fmt.Errorf("databaseID is required")
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	body := map[string]any{
		"parent": map[string]any{"database_id": databaseID},
		"properties": map[string]any{
			"Name": map[string]any{
				"title": []map[string]any{
					{"text": map[string]any{"content": title}},
				},
			},
		},
	}
	if content != "" {
		body["children"] = []map[string]any{
			{
				"object": "block",
				"type":   "paragraph",
				"paragraph": map[string]any{
					"rich_text": []map[string]any{
						{"type": "text", "text": map[string]any{"content": content}},
					},
				},
			},
		}
	}

	var created pageObject
	if err := c.do(ctx, http.MethodPost, "/pages", body, &created); err != nil {
		return nil, fmt.Errorf("failed to create notion page: %w", err)
	}

	s := created.summary()
	if s.Title == "" {
		s.Title = title
	}
	return &s, nil
}

// QueryDatabase returns entries of a database, optionally filtered with
// a raw Notion filter object.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, filter map[string]any, maxResults int) ([]PageSummary, error) {
	if databaseID == "" {
		return nil, fmt.Errorf("databaseID is required")
	}
	if maxResults <= 0 || maxResults > 100 {
		maxResults = 25
	}

	body := map[string]any{"page_size": maxResults}
	if len(filter) > 0 {
		body["filter"] = filter
	}

	var resp struct {
		Results []pageObject `json:"results"`
	}
	path := fmt.Sprintf("/databases/%s/query", databaseID)
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to query notion database %s: %w", databaseID, err)
	}

	summaries := make([]PageSummary, 0, len(resp.Results))
	for _, p := range resp.Results {
		summaries = append(summaries, p.summary())
	}
	return summaries, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(res.Body).Decode(&apiErr)
		if apiErr.Message != "" {
			return fmt.Errorf("notion API returned %s: %s", res.Status, apiErr.Message)
		}
		return fmt.Errorf("notion API returned %s", res.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// pageObject covers the subset of Notion page and database objects the
// adapter reads. Titles live either in a title-typed property (pages)
// or a top-level title array (databases).
type pageObject struct {
	ID         string                   `json:"id"`
	URL        string                   `json:"url"`
	Title      []richText               `json:"title"`
	Properties map[string]propertyValue `json:"properties"`
}

type propertyValue struct {
	Type  string     `json:"type"`
	Title []richText `json:"title"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

func (p pageObject) summary() PageSummary {
	s := PageSummary{ID: p.ID, URL: p.URL}
	if title := joinRichText(p.Title); title != "" {
		s.Title = title
		return s
	}
	for _, prop := range p.Properties {
		if prop.Type == "title" {
			s.Title = joinRichText(prop.Title)
			break
		}
	}
	return s
}

func joinRichText(parts []richText) string {
	var out string
	for _, part := range parts {
		out += part.PlainText
	}
	return out
}
