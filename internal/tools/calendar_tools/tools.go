package calendar_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deskmate/deskmate/internal/calendar"
	"github.com/deskmate/deskmate/internal/server"
	"github.com/deskmate/deskmate/internal/tools"
	"github.com/deskmate/deskmate/internal/tools/common"
)

type calendarClient interface {
	ListEvents(calendarID string, timeMin, timeMax time.Time, query string, maxResults int64) ([]calendar.EventSummary, error)
	CreateEvent(calendarID string, input calendar.EventInput) (*calendar.EventSummary, error)
	DeleteEvent(calendarID, eventID string) error
}

var clientFor = func(sc *server.ServerContext, account string) calendarClient {
	if client := sc.CalendarClientForAccount(account); client != nil {
		return client
	}
	return nil
}

// Register adds the calendar tool family to the registry.
func Register(reg *tools.Registry, sc *server.ServerContext) error {
	specs := []tools.Spec{
		{
			Name:        "list_events",
			Description: "List calendar events in a time range, ordered by start time.",
			Params: []tools.Param{
				{Name: "time_min", Type: tools.TypeString, Description: "Range start, RFC 3339 (default: now)"},
				{Name: "time_max", Type: tools.TypeString, Description: "Range end, RFC 3339 (default: one week from now)"},
				{Name: "query", Type: tools.TypeString, Description: "Free-text search over event fields"},
				{Name: "max_results", Type: tools.TypeNumber, Default: 25.0, Description: "Maximum number of events to return"},
				{Name: "calendar_id", Type: tools.TypeString, Description: "Calendar to read (default: primary)"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to use"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleList(ctx, sc, args)
			},
		},
		{
			Name:        "create_event",
			Description: "Create a calendar event.",
			Params: []tools.Param{
				{Name: "summary", Type: tools.TypeString, Required: true, Description: "Event title"},
				{Name: "start", Type: tools.TypeString, Required: true, Description: "Start time, RFC 3339"},
				{Name: "end", Type: tools.TypeString, Required: true, Description: "End time, RFC 3339"},
				{Name: "description", Type: tools.TypeString, Description: "Event description"},
				{Name: "location", Type: tools.TypeString, Description: "Event location"},
				{Name: "attendees", Type: tools.TypeString, Description: "Attendee email(s), comma-separated"},
				{Name: "all_day", Type: tools.TypeBoolean, Default: false, Description: "Create an all-day event"},
				{Name: "time_zone", Type: tools.TypeString, Description: "IANA time zone for the event (default: UTC)"},
				{Name: "calendar_id", Type: tools.TypeString, Description: "Calendar to create in (default: primary)"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to use"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleCreate(ctx, sc, args)
			},
		},
		{
			Name:        "delete_event",
			Description: "Delete a calendar event.",
			Params: []tools.Param{
				{Name: "event_id", Type: tools.TypeString, Required: true, Description: "ID of the event to delete"},
				{Name: "calendar_id", Type: tools.TypeString, Description: "Calendar the event belongs to (default: primary)"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to use"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleDelete(ctx, sc, args)
			},
		},
	}

	for _, spec := range specs {
		if err := reg.Register(spec); err != nil {
			return fmt.Errorf("failed to register %s: %w", spec.Name, err)
		}
	}
	return nil
}

func handleList(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	timeMin := time.Now()
	if s := common.String(args, "time_min"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return "", fmt.Errorf("invalid time_min %q: %w", s, err)
		}
		timeMin = t
	}
	timeMax := timeMin.Add(7 * 24 * time.Hour)
	if s := common.String(args, "time_max"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return "", fmt.Errorf("invalid time_max %q: %w", s, err)
		}
		timeMax = t
	}

	start := time.Now()
	events, err := client.ListEvents(
		common.String(args, "calendar_id"),
		timeMin, timeMax,
		common.String(args, "query"),
		int64(common.Number(args, "max_results")),
	)
	common.RecordOperation(ctx, sc.Metrics(), "calendar", "list_events", start, err)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "No events found in the given range.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d event(s):\n", len(events))
	for _, ev := range events {
		fmt.Fprintf(&b, "\nID: %s\nTitle: %s\nStart: %s\nEnd: %s\n",
			ev.ID, ev.Summary,
			ev.Start.Format(time.RFC3339), ev.End.Format(time.RFC3339))
		if ev.Location != "" {
			fmt.Fprintf(&b, "Location: %s\n", ev.Location)
		}
		if len(ev.Attendees) > 0 {
			fmt.Fprintf(&b, "Attendees: %s\n", strings.Join(ev.Attendees, ", "))
		}
	}
	return b.String(), nil
}

func handleCreate(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	start, err := time.Parse(time.RFC3339, common.String(args, "start"))
	if err != nil {
		return "", fmt.Errorf("invalid start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, common.String(args, "end"))
	if err != nil {
		return "", fmt.Errorf("invalid end time: %w", err)
	}

	input := calendar.EventInput{
		Summary:     common.String(args, "summary"),
		Description: common.String(args, "description"),
		Location:    common.String(args, "location"),
		Start:       start,
		End:         end,
		TimeZone:    common.String(args, "time_zone"),
		Attendees:   common.SplitList(common.String(args, "attendees")),
		AllDay:      common.Bool(args, "all_day"),
	}

	opStart := time.Now()
	created, err := client.CreateEvent(common.String(args, "calendar_id"), input)
	common.RecordOperation(ctx, sc.Metrics(), "calendar", "create_event", opStart, err)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Event created.\nID: %s\nTitle: %s\nStart: %s\nEnd: %s",
		created.ID, created.Summary,
		created.Start.Format(time.RFC3339), created.End.Format(time.RFC3339)), nil
}

func handleDelete(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	eventID := common.String(args, "event_id")
	start := time.Now()
	err := client.DeleteEvent(common.String(args, "calendar_id"), eventID)
	common.RecordOperation(ctx, sc.Metrics(), "calendar", "delete_event", start, err)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Event %s deleted.", eventID), nil
}
