package domain

import (
	"strings"
	"time"
)

// LeaveRequest is one submitted out-of-office request. A fresh value is built
// per submission and owned by the orchestrator for the duration of the call.
type LeaveRequest struct {
	LeaveType LeaveType
	StartDate time.Time
	EndDate   time.Time

	// Subject defaults to the derived form (see Subject); a non-empty value
	// overrides it.
	Subject string
	// Location defaults per leave type (see DefaultLocation); a non-empty
	// value overrides it.
	Location string

	// Recipient addresses in entry order. Duplicates are not removed.
	ToRecipients []string
	CcRecipients []string

	// SetAutoReplies gates the automatic-reply step.
	SetAutoReplies bool

	// CreateExcel and ExcelSaveFolder only apply to business trips; they are
	// ignored for all other leave types.
	CreateExcel     bool
	ExcelSaveFolder string
}

// IsBusinessTrip reports whether the request is for a business trip.
func (r *LeaveRequest) IsBusinessTrip() bool {
	return r.LeaveType == LeaveBusinessTrip
}

// EffectiveSubject returns the subject override, or the derived default.
func (r *LeaveRequest) EffectiveSubject(familyName string) string {
	if strings.TrimSpace(r.Subject) != "" {
		return r.Subject
	}
	return Subject(familyName, r.LeaveType)
}

// EffectiveLocation returns the location override, or the derived default.
func (r *LeaveRequest) EffectiveLocation() string {
	if strings.TrimSpace(r.Location) != "" {
		return r.Location
	}
	return DefaultLocation(r.LeaveType)
}

// Validate runs the pre-flight checks for a submission. The checks run in a
// fixed order and the first failure wins; no side effects have happened yet
// when a ValidationError is returned.
func (r *LeaveRequest) Validate(sendNow bool) error {
	if sendNow && len(r.ToRecipients) == 0 {
		return &ValidationError{
			Rule:    RuleToRequired,
			Message: "To recipients are required when sending",
		}
	}
	if sendNow && r.IsBusinessTrip() && r.CreateExcel && strings.TrimSpace(r.ExcelSaveFolder) == "" {
		return &ValidationError{
			Rule:    RuleExcelFolderRequired,
			Message: "Excel save folder is required when the allowance sheet is enabled",
		}
	}
	if DateOnly(r.EndDate).Before(DateOnly(r.StartDate)) {
		return &ValidationError{
			Rule:    RuleDateOrder,
			Message: "end date must be on or after start date",
		}
	}
	return nil
}

// MailingList holds the last-used recipient lists. It is loaded once at form
// initialisation and replaced wholesale on every successful send.
type MailingList struct {
	To        []string  `json:"to"`
	Cc        []string  `json:"cc"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ParseAddresses splits a free-form recipient field on semicolons and commas,
// trimming whitespace and dropping empty entries. Order is preserved.
func ParseAddresses(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ';' || r == ','
	}) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
