package docs

import (
	"context"
	"fmt"

	docs "google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"github.com/deskmate/deskmate/internal/google"
)

// Client wraps the Google Docs service for a single account.
type Client struct {
	svc     *docs.Service
	account string
}

// DocumentInfo is a flattened view of a document.
type DocumentInfo struct {
	ID    string
	Title string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccountWithProvider creates a Docs client for the given
// account, resolving the OAuth token through the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	client := google.HTTPClientForToken(ctx, token)

	svc, err := docs.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClientForAccount creates a Docs client for the given account using
// the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a Docs client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// Create creates a new document with the given title and optional
// initial body text.
func (c *Client) Create(title, body string) (*DocumentInfo, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	created, err := c.svc.Documents.Create(&docs.Document{Title: title}).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	info := &DocumentInfo{ID: created.DocumentId, Title: created.Title}
	if body == "" {
		return info, nil
	}

	if err := c.AppendText(created.DocumentId, body); err != nil {
		return nil, err
	}
	return info, nil
}

// GetPlainText retrieves a document and extracts its content as plain
// text. All tabs are fetched so tabbed documents come back complete.
func (c *Client) GetPlainText(documentID string) (string, error) {
	if documentID == "" {
		return "", fmt.Errorf("documentID is required")
	}

	doc, err := c.svc.Documents.Get(documentID).IncludeTabsContent(true).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	return DocumentToPlainText(doc)
}

// AppendText appends text to the end of the document body.
func (c *Client) AppendText(documentID, text string) error {
	if documentID == "" {
		return fmt.Errorf("documentID is required")
	}
	if text == "" {
		return fmt.Errorf("text is required")
	}

	req := &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{
			{
				InsertText: &docs.InsertTextRequest{
					Text:                 text,
					EndOfSegmentLocation: &docs.EndOfSegmentLocation{},
				},
			},
		},
	}

	if _, err := c.svc.Documents.BatchUpdate(documentID, req).Do(); err != nil {
		return fmt.Errorf("failed to append to document %s: %w", documentID, err)
	}
	return nil
}
