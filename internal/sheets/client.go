package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/deskmate/deskmate/internal/google"
)

// Client wraps the Google Sheets service for a single account.
type Client struct {
	svc     *sheets.Service
	account string
}

// SpreadsheetInfo is a flattened view of a spreadsheet.
type SpreadsheetInfo struct {
	ID    string
	Title string
	URL   string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccountWithProvider creates a Sheets client for the given
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

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClientForAccount creates a Sheets client for the given account using
// the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a Sheets client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// Create creates a new spreadsheet with the given title.
func (c *Client) Create(title string) (*SpreadsheetInfo, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	created, err := c.svc.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	return &SpreadsheetInfo{
		ID:    created.SpreadsheetId,
		Title: created.Properties.Title,
		URL:   created.SpreadsheetUrl,
	}, nil
}

// ReadRange reads cell values from a spreadsheet range in A1 notation.
func (c *Client) ReadRange(spreadsheetID, readRange string) ([][]any, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}
	if readRange == "" {
		return nil, fmt.Errorf("range is required")
	}

	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", readRange, err)
	}

	return resp.Values, nil
}

// AppendRows appends rows of values after the last row of the given range.
// Values are interpreted as if typed by the user, so numbers and dates are
// parsed rather than stored as strings.
func (c *Client) AppendRows(spreadsheetID, appendRange string, rows [][]any) (int64, error) {
	if spreadsheetID == "" {
		return 0, fmt.Errorf("spreadsheetID is required")
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("at least one row is required")
	}
	if appendRange == "" {
		appendRange = "A1"
	}

	resp, err := c.svc.Spreadsheets.Values.Append(spreadsheetID, appendRange, &sheets.ValueRange{
		Values: rows,
	}).ValueInputOption("USER_ENTERED").Do()
	if err != nil {
		return 0, fmt.Errorf("failed to append rows: %w", err)
	}

	if resp.Updates == nil {
		return 0, nil
	}
	return resp.Updates.UpdatedRows, nil
}
