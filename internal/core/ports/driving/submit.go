// Package driving defines the inbound ports through which the CLI and the
// terminal form drive the core.
package driving

import (
	"context"

	"github.com/koshinokanbai330/oof-cli/internal/core/domain"
)

// SubmitService turns one leave request into its downstream side effects:
// the all-day meeting, the mailbox auto-reply, and the allowance workbook.
type SubmitService interface {
	// Submit runs the pipeline. sendNow false drafts the meeting without
	// notifying anyone and skips every other step. The returned outcome is
	// always non-nil and carries the ordered progress log; the error is
	// non-nil for validation failures and for a failed meeting step.
	Submit(ctx context.Context, request *domain.LeaveRequest, sendNow bool) (*domain.SubmissionOutcome, error)

	// FamilyName returns the resolved family name used for derived subjects.
	FamilyName(ctx context.Context) string

	// LastMailingList returns the recipient lists saved by the previous
	// successful send, for pre-filling the form.
	LastMailingList() domain.MailingList
}
