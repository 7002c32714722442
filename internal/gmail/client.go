package gmail

import (
	"context"
	"fmt"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/deskmate/deskmate/internal/google"
)

// Client wraps the Gmail Users service.
type Client struct {
	svc     *gmail.UsersService
	account string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the account.
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// HasToken checks if a valid OAuth token exists for the default account.
func HasToken() bool {
	return google.HasToken()
}

// NewClientForAccountWithProvider creates a Gmail client for a specific
// account using the given token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	client := google.HTTPClientForToken(ctx, token)

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc.Users,
		account: account,
	}, nil
}

// NewClientForAccount creates a Gmail client for a specific account using
// the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a Gmail client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// Send builds the MIME envelope and sends it through the Gmail API.
// Returns the sent message ID.
func (c *Client) Send(env Envelope) (string, error) {
	if env.Subject == "" {
		return "", fmt.Errorf("subject is required")
	}

	raw, err := BuildRaw(env)
	if err != nil {
		return "", err
	}

	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: raw}).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil
}

// CreateDraft builds the MIME envelope and stores it as a Gmail draft.
// Returns the draft ID.
func (c *Client) CreateDraft(env Envelope) (string, error) {
	if env.Subject == "" {
		return "", fmt.Errorf("subject is required")
	}

	raw, err := BuildRaw(env)
	if err != nil {
		return "", err
	}

	draft, err := c.svc.Drafts.Create("me", &gmail.Draft{
		Message: &gmail.Message{Raw: raw},
	}).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create draft: %w", err)
	}
	return draft.Id, nil
}

// ListMessages lists messages matching a Gmail search query.
func (c *Client) ListMessages(query string, maxResults int64) ([]MessageSummary, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	res, err := c.svc.Messages.List("me").Q(query).MaxResults(maxResults).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	var summaries []MessageSummary
	for _, m := range res.Messages {
		full, err := c.svc.Messages.Get("me", m.Id).
			Format("metadata").
			MetadataHeaders("From", "To", "Subject", "Date").
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", m.Id, err)
		}
		summaries = append(summaries, toSummary(full))
	}
	return summaries, nil
}

// DeleteMessage moves a message to the trash. Trash rather than a permanent
// delete so a misfired tool call stays recoverable.
func (c *Client) DeleteMessage(messageID string) error {
	if messageID == "" {
		return fmt.Errorf("messageID is required")
	}
	if _, err := c.svc.Messages.Trash("me", messageID).Do(); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}

func toSummary(m *gmail.Message) MessageSummary {
	s := MessageSummary{
		ID:      m.Id,
		Snippet: m.Snippet,
	}
	if m.Payload == nil {
		return s
	}
	for _, h := range m.Payload.Headers {
		switch h.Name {
		case "From":
			s.From = h.Value
		case "To":
			s.To = h.Value
		case "Subject":
			s.Subject = h.Value
		case "Date":
			if t, err := time.Parse(time.RFC1123Z, h.Value); err == nil {
				s.Date = t
			}
		}
	}
	return s
}
