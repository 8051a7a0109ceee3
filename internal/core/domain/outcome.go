package domain

import "strings"

// SubmissionOutcome collects the ordered progress log and per-step completion
// flags for one submission. It is created per submit call and discarded after
// display. Flags are monotonic: once a step is marked done it stays done; a
// flag stays false when its step was skipped or failed.
type SubmissionOutcome struct {
	lines []string

	meetingDone   bool
	autoReplyDone bool
	excelDone     bool

	// planned records which optional steps this submission was going to run,
	// so the summary lists exactly the deliverables the user asked for.
	autoReplyPlanned bool
	excelPlanned     bool
}

// NewSubmissionOutcome returns an empty outcome.
func NewSubmissionOutcome() *SubmissionOutcome {
	return &SubmissionOutcome{}
}

// Info appends an informational progress line.
func (o *SubmissionOutcome) Info(line string) {
	o.lines = append(o.lines, line)
}

// Warn appends a warning line for a non-fatal problem.
func (o *SubmissionOutcome) Warn(line string) {
	o.lines = append(o.lines, "WARNING: "+line)
}

// Error appends an error line.
func (o *SubmissionOutcome) Error(line string) {
	o.lines = append(o.lines, "ERROR: "+line)
}

// Lines returns the log lines in append order.
func (o *SubmissionOutcome) Lines() []string {
	return o.lines
}

// Log renders the full log as one newline-joined string.
func (o *SubmissionOutcome) Log() string {
	return strings.Join(o.lines, "\n")
}

// PlanAutoReply records that the auto-reply step applies to this submission.
func (o *SubmissionOutcome) PlanAutoReply() { o.autoReplyPlanned = true }

// PlanExcel records that the allowance-sheet step applies to this submission.
func (o *SubmissionOutcome) PlanExcel() { o.excelPlanned = true }

// MarkMeetingDone records successful meeting creation.
func (o *SubmissionOutcome) MarkMeetingDone() { o.meetingDone = true }

// MarkAutoReplyDone records successful auto-reply configuration.
func (o *SubmissionOutcome) MarkAutoReplyDone() { o.autoReplyDone = true }

// MarkExcelDone records successful allowance-sheet creation.
func (o *SubmissionOutcome) MarkExcelDone() { o.excelDone = true }

// MeetingDone reports whether the meeting step completed.
func (o *SubmissionOutcome) MeetingDone() bool { return o.meetingDone }

// AutoReplyDone reports whether the auto-reply step completed.
func (o *SubmissionOutcome) AutoReplyDone() bool { return o.autoReplyDone }

// ExcelDone reports whether the allowance-sheet step completed.
func (o *SubmissionOutcome) ExcelDone() bool { return o.excelDone }

// Succeeded reports whether every planned step completed.
func (o *SubmissionOutcome) Succeeded() bool {
	if !o.meetingDone {
		return false
	}
	if o.autoReplyPlanned && !o.autoReplyDone {
		return false
	}
	if o.excelPlanned && !o.excelDone {
		return false
	}
	return true
}

// Summary renders the per-step status table shown after a submission that did
// not fully succeed.
func (o *SubmissionOutcome) Summary() string {
	var b strings.Builder
	b.WriteString("Status summary:\n")
	b.WriteString("  Meeting: " + statusMark(o.meetingDone) + "\n")
	if o.autoReplyPlanned {
		b.WriteString("  Auto-reply: " + statusMark(o.autoReplyDone) + "\n")
	}
	if o.excelPlanned {
		b.WriteString("  Excel: " + statusMark(o.excelDone) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func statusMark(done bool) string {
	if done {
		return "✔ Done"
	}
	return "✘ Not done"
}
