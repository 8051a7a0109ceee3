package calendar

// Event is the Graph create-event request payload. All-day events require
// midnight start and end instants with an exclusive end date.
type Event struct {
	Subject           string        `json:"subject"`
	IsAllDay          bool          `json:"isAllDay"`
	ShowAs            string        `json:"showAs"`
	IsReminderOn      bool          `json:"isReminderOn"`
	ResponseRequested bool          `json:"responseRequested"`
	Start             DateTimeZone  `json:"start"`
	End               DateTimeZone  `json:"end"`
	Location          *Location     `json:"location,omitempty"`
	Attendees         []Attendee    `json:"attendees"`
	Body              *EventBody    `json:"body,omitempty"`
}

// EventBody contains the event body content.
type EventBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// DateTimeZone contains a date-time with time zone.
type DateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Location contains location information.
type Location struct {
	DisplayName string `json:"displayName"`
}

// Attendee represents an event attendee. Type is "required" or "optional".
type Attendee struct {
	Type         string       `json:"type"`
	EmailAddress EmailAddress `json:"emailAddress"`
}

// EmailAddress contains email address information.
type EmailAddress struct {
	Address string `json:"address"`
}

// CreatedEvent is the subset of the Graph response the caller needs.
type CreatedEvent struct {
	ID      string `json:"id"`
	WebLink string `json:"webLink"`
}
