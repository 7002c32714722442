package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/deskmate/deskmate/internal/google"
)

// Client wraps the Google Calendar service for a single account.
type Client struct {
	svc     *calendar.Service
	account string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccountWithProvider creates a Calendar client for the given
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

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClientForAccount creates a Calendar client for the given account
// using the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a Calendar client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListEvents lists events on a calendar within a time range, expanded to
// single instances and ordered by start time.
func (c *Client) ListEvents(calendarID string, timeMin, timeMax time.Time, query string, maxResults int64) ([]EventSummary, error) {
	if calendarID == "" {
		calendarID = "primary"
	}
	if maxResults <= 0 {
		maxResults = 25
	}

	call := c.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxResults)

	if query != "" {
		call = call.Q(query)
	}

	events, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var summaries []EventSummary
	for _, event := range events.Items {
		summaries = append(summaries, toEventSummary(event))
	}

	return summaries, nil
}

// CreateEvent creates an event on the given calendar.
func (c *Client) CreateEvent(calendarID string, input EventInput) (*EventSummary, error) {
	if calendarID == "" {
		calendarID = "primary"
	}
	if input.Summary == "" {
		return nil, fmt.Errorf("event summary is required")
	}
	if input.Start.IsZero() || input.End.IsZero() {
		return nil, fmt.Errorf("event start and end times are required")
	}
	if !input.End.After(input.Start) {
		return nil, fmt.Errorf("event end must be after start")
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
	}

	// All-day events use the date form, timed events the datetime form.
	if input.AllDay {
		event.Start = &calendar.EventDateTime{Date: input.Start.Format("2006-01-02")}
		event.End = &calendar.EventDateTime{Date: input.End.Format("2006-01-02")}
	} else {
		tz := input.TimeZone
		if tz == "" {
			tz = "UTC"
		}
		event.Start = &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: tz,
		}
		event.End = &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: tz,
		}
	}

	for _, email := range input.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := c.svc.Events.Insert(calendarID, event).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

// DeleteEvent deletes an event from the given calendar.
func (c *Client) DeleteEvent(calendarID, eventID string) error {
	if calendarID == "" {
		calendarID = "primary"
	}
	if eventID == "" {
		return fmt.Errorf("eventID is required")
	}
	if err := c.svc.Events.Delete(calendarID, eventID).Do(); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}
