package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// EventInput carries the fields for creating a calendar event.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Attendees   []string
	AllDay      bool
}

// EventSummary is a flattened view of a calendar event.
type EventSummary struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Organizer   string
	Status      string
	Attendees   []string
}

func toEventSummary(event *calendar.Event) EventSummary {
	s := EventSummary{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Status:      event.Status,
	}

	s.Start = parseEventTime(event.Start)
	s.End = parseEventTime(event.End)

	if event.Organizer != nil {
		s.Organizer = event.Organizer.Email
	}
	for _, att := range event.Attendees {
		s.Attendees = append(s.Attendees, att.Email)
	}

	return s
}

// parseEventTime handles both timed events (DateTime) and all-day
// events (Date).
func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
