package domain

import (
	"errors"
	"fmt"
)

// ValidationRule names a pre-flight check so callers can distinguish which
// rule a submission violated.
type ValidationRule string

const (
	// RuleToRequired requires a non-empty To list when sending.
	RuleToRequired ValidationRule = "to-required"
	// RuleExcelFolderRequired requires a save folder when the allowance
	// sheet is requested for a business trip send.
	RuleExcelFolderRequired ValidationRule = "excel-folder-required"
	// RuleDateOrder requires end date >= start date.
	RuleDateOrder ValidationRule = "date-order"
)

// ValidationError reports a failed pre-flight check. No side effects have
// been performed when one is returned.
type ValidationError struct {
	Rule    ValidationRule
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Rule, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	// ErrSubmissionInProgress is returned when a submit starts while another
	// submission is still running. Submissions are strictly one at a time.
	ErrSubmissionInProgress = errors.New("a submission is already in progress")

	// ErrTemplateFull indicates the blank-row search in an allowance sheet
	// exceeded its bound; the template is considered malformed or full.
	ErrTemplateFull = errors.New("no blank row found in allowance template")
)
