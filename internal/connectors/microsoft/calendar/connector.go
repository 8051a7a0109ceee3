// Package calendar creates the all-day absence meeting via Microsoft Graph.
package calendar

import (
	"context"
	"fmt"

	"github.com/koshinokanbai330/oof-cli/internal/connectors/microsoft"
	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driven"
	"github.com/koshinokanbai330/oof-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.CalendarAdapter = (*Connector)(nil)

const dateTimeFormat = "2006-01-02T15:04:05"

// Connector creates calendar events in the signed-in user's default calendar.
type Connector struct {
	client   *microsoft.Client
	timeZone string
}

// New creates a Microsoft Calendar connector. timeZone is the Windows or IANA
// zone name sent with the all-day start and end instants.
func New(client *microsoft.Client, timeZone string) *Connector {
	if timeZone == "" {
		timeZone = "UTC"
	}
	return &Connector{client: client, timeZone: timeZone}
}

// CreateEvent creates the all-day event described by spec. Attendees listed
// in the spec are invited when the event is created; an event without
// attendees notifies nobody. The event is marked free and reminder-less so it
// blocks no one's calendar.
func (c *Connector) CreateEvent(ctx context.Context, spec driven.EventSpec) (*driven.EventRef, error) {
	event := Event{
		Subject:           spec.Subject,
		IsAllDay:          true,
		ShowAs:            "free",
		IsReminderOn:      false,
		ResponseRequested: spec.Send,
		Start: DateTimeZone{
			DateTime: spec.StartDate.Format(dateTimeFormat),
			TimeZone: c.timeZone,
		},
		End: DateTimeZone{
			DateTime: spec.EndDateExclusive.Format(dateTimeFormat),
			TimeZone: c.timeZone,
		},
		Attendees: make([]Attendee, 0, len(spec.ToAddrs)+len(spec.CcAddrs)),
	}
	if spec.Location != "" {
		event.Location = &Location{DisplayName: spec.Location}
	}
	for _, addr := range spec.ToAddrs {
		event.Attendees = append(event.Attendees, Attendee{
			Type:         "required",
			EmailAddress: EmailAddress{Address: addr},
		})
	}
	for _, addr := range spec.CcAddrs {
		event.Attendees = append(event.Attendees, Attendee{
			Type:         "optional",
			EmailAddress: EmailAddress{Address: addr},
		})
	}

	logger.Debugf("calendar: creating event %q (%s to %s, send=%t)",
		spec.Subject, event.Start.DateTime, event.End.DateTime, spec.Send)

	var created CreatedEvent
	if err := c.client.DoJSON(ctx, "POST", "/me/events", event, &created); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	return &driven.EventRef{ID: created.ID, WebURL: created.WebLink}, nil
}
