package domain

import (
	"fmt"
	"strings"
	"time"
)

// ReplyMessages holds the two automatic-reply bodies. Internal goes to senders
// in the same organisation, External to everyone else.
type ReplyMessages struct {
	Internal string
	External string
}

// ReplyWindow is the scheduled active period for automatic replies, expressed
// as wall-clock instants in the deployment time zone.
type ReplyWindow struct {
	Start time.Time
	End   time.Time
}

// BackDate returns the return-to-office date shown to senders: the day after
// the absence ends.
func BackDate(endDate time.Time) time.Time {
	return DateOnly(endDate).AddDate(0, 0, 1)
}

// NewReplyWindow computes the scheduled auto-reply window for an absence.
// The window opens at 00:00 on the first absent day and closes one second
// before midnight at the end of the back date, so replies stay on through the
// whole day senders are told the user returns. The boundary is end-of-day
// arithmetic (start of the following day minus one unit); an off-by-one here
// silently shortens or extends the window by a day.
func NewReplyWindow(startDate, endDate time.Time) ReplyWindow {
	return ReplyWindow{
		Start: DateOnly(startDate),
		End:   DateOnly(endDate).AddDate(0, 0, 2).Add(-time.Second),
	}
}

// BuildReplyMessages renders the internal and external auto-reply bodies for
// an absence ending on endDate. signatureHTML is appended after a horizontal
// rule when non-empty.
func BuildReplyMessages(endDate time.Time, signatureHTML string) ReplyMessages {
	back := BackDate(endDate)
	engDate := back.Format("Jan 02, 2006")
	jpDate := back.Format("2006/01/02")

	english := fmt.Sprintf(
		"<p>Dear Sender,</p>"+
			"<p>Thank you for your email.<br/>"+
			"I will be back %s. Email will be read with delay.</p>", engDate)

	japanese := fmt.Sprintf(
		"<p>ご連絡ありがとうございます。<br/>"+
			"申し訳ありませんが、%s まで不在のため対応できません。<br/>"+
			"ご理解いただけますと幸いです。</p>", jpDate)

	return ReplyMessages{
		Internal: wrapReplyHTML(english, signatureHTML),
		External: wrapReplyHTML(english+japanese, signatureHTML),
	}
}

// PreviewMessages renders plain-text previews of the reply bodies for display
// in the form. Recomputed whenever the end date changes.
func PreviewMessages(endDate time.Time) ReplyMessages {
	back := BackDate(endDate)
	engDate := back.Format("Jan 02, 2006")
	jpDate := back.Format("2006/01/02")

	english := fmt.Sprintf(
		"Dear Sender,\n\nThank you for your email.\n"+
			"I will be back %s. Email will be read with delay.", engDate)

	japanese := fmt.Sprintf(
		"\n\nご連絡ありがとうございます。\n"+
			"申し訳ありませんが、%s まで不在のため対応できません。\n"+
			"ご理解いただけますと幸いです。", jpDate)

	return ReplyMessages{
		Internal: english,
		External: english + japanese,
	}
}

func wrapReplyHTML(body, signatureHTML string) string {
	sig := ""
	if strings.TrimSpace(signatureHTML) != "" {
		sig = "<hr/>" + signatureHTML
	}
	return "<html><body>" + body + sig + "</body></html>"
}
