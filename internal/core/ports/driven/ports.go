// Package driven defines the outbound ports the orchestrator depends on.
// Every external system (Microsoft Graph, the local filesystem, the Outlook
// signature folder) sits behind one of these narrow interfaces.
package driven

import (
	"context"
	"time"

	"github.com/koshinokanbai330/oof-cli/internal/core/domain"
)

// TokenProvider supplies a bearer token for Microsoft Graph calls. The core
// never inspects token internals.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// EventSpec describes the all-day meeting announcing the absence.
type EventSpec struct {
	Subject  string
	Location string
	// StartDate is the first absent day; EndDateExclusive is the day after
	// the last absent day (Graph all-day events use an exclusive end).
	StartDate        time.Time
	EndDateExclusive time.Time
	// ToAddrs become required attendees, CcAddrs optional ones. Both are
	// empty on the draft path so nobody is resolved or notified.
	ToAddrs []string
	CcAddrs []string
	// Send requests the meeting be sent to attendees; false saves a draft.
	Send bool
}

// EventRef identifies a created calendar event.
type EventRef struct {
	ID     string
	WebURL string
}

// CalendarAdapter creates the all-day meeting in the user's calendar.
type CalendarAdapter interface {
	CreateEvent(ctx context.Context, spec EventSpec) (*EventRef, error)
}

// AutoReplyAdapter configures the mailbox automatic-reply schedule. The
// window uses "scheduled" status, never "always on".
type AutoReplyAdapter interface {
	SetAutomaticReplies(ctx context.Context, window domain.ReplyWindow, messages domain.ReplyMessages) error
}

// FillSpec describes one travel-allowance workbook to produce.
type FillSpec struct {
	// Dates is the inclusive expanded trip date list.
	Dates []time.Time
	// Destination is the trip destination text written to every row.
	Destination string
	// FamilyName is used in the output file name.
	FamilyName string
	// Target is the save folder (local mode) or drive folder (remote mode).
	Target string
}

// AllowanceSheetAdapter fills the travel-allowance template and returns a
// reference (path or URL) to the result.
type AllowanceSheetAdapter interface {
	FillTemplate(ctx context.Context, spec FillSpec) (string, error)
}

// MailingListStore persists the last-used recipient lists.
// Load never fails: a missing or unreadable record yields empty lists.
// Save replaces the previous record wholesale.
type MailingListStore interface {
	Load() domain.MailingList
	Save(to, cc []string) error
}

// SignatureProvider returns the user's default signature HTML, or the empty
// string when none is available. Best-effort; never fails.
type SignatureProvider interface {
	DefaultSignatureHTML() string
}

// ProfileProvider resolves the current user's family name for derived meeting
// subjects.
type ProfileProvider interface {
	FamilyName(ctx context.Context) (string, error)
}
