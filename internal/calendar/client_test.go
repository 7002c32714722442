package calendar

import (
	"context"
	"strings"
	"testing"
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

func TestCreateEventValidation(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		input   EventInput
		wantErr string
	}{
		{
			name:    "missing summary",
			input:   EventInput{Start: now, End: now.Add(time.Hour)},
			wantErr: "summary is required",
		},
		{
			name:    "missing times",
			input:   EventInput{Summary: "Standup"},
			wantErr: "start and end times are required",
		},
		{
			name:    "end before start",
			input:   EventInput{Summary: "Standup", Start: now, End: now.Add(-time.Hour)},
			wantErr: "end must be after start",
		},
	}

	var c Client
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CreateEvent("primary", tt.input)
			if err == nil {
				t.Fatal("CreateEvent() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("CreateEvent() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDeleteEventValidation(t *testing.T) {
	var c Client
	if err := c.DeleteEvent("primary", ""); err == nil {
		t.Fatal("DeleteEvent with empty ID succeeded, want error")
	}
}

func TestNewClientForAccountWithProviderNilProvider(t *testing.T) {
	if _, err := NewClientForAccountWithProvider(context.Background(), "default", nil); err == nil {
		t.Fatal("nil token provider accepted, want error")
	}
}

func TestParseEventTime(t *testing.T) {
	tests := []struct {
		name string
		edt  *calendar.EventDateTime
		want time.Time
	}{
		{
			name: "nil",
			edt:  nil,
			want: time.Time{},
		},
		{
			name: "datetime",
			edt:  &calendar.EventDateTime{DateTime: "2026-03-15T09:30:00Z"},
			want: time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "all-day date",
			edt:  &calendar.EventDateTime{Date: "2026-03-15"},
			want: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "garbage",
			edt:  &calendar.EventDateTime{DateTime: "not-a-time"},
			want: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseEventTime(tt.edt); !got.Equal(tt.want) {
				t.Errorf("parseEventTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToEventSummary(t *testing.T) {
	event := &calendar.Event{
		Id:          "evt1",
		Summary:     "Planning",
		Description: "Quarterly planning",
		Location:    "Room 4",
		Status:      "confirmed",
		Start:       &calendar.EventDateTime{DateTime: "2026-03-15T09:00:00Z"},
		End:         &calendar.EventDateTime{DateTime: "2026-03-15T10:00:00Z"},
		Organizer:   &calendar.EventOrganizer{Email: "owner@example.com"},
		Attendees: []*calendar.EventAttendee{
			{Email: "a@example.com"},
			{Email: "b@example.com"},
		},
	}

	s := toEventSummary(event)
	if s.ID != "evt1" || s.Summary != "Planning" || s.Organizer != "owner@example.com" {
		t.Errorf("unexpected summary: %+v", s)
	}
	if len(s.Attendees) != 2 || s.Attendees[0] != "a@example.com" {
		t.Errorf("unexpected attendees: %v", s.Attendees)
	}
	if !s.End.After(s.Start) {
		t.Errorf("times not parsed: start=%v end=%v", s.Start, s.End)
	}
}
