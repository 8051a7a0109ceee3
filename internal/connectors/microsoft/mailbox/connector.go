// Package mailbox configures the automatic-reply schedule via the Microsoft
// Graph mailboxSettings endpoint.
package mailbox

import (
	"context"
	"fmt"

	"github.com/koshinokanbai330/oof-cli/internal/connectors/microsoft"
	"github.com/koshinokanbai330/oof-cli/internal/core/domain"
	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driven"
	"github.com/koshinokanbai330/oof-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.AutoReplyAdapter = (*Connector)(nil)

const dateTimeFormat = "2006-01-02T15:04:05"

// settingsPatch is the PATCH /me/mailboxSettings payload.
type settingsPatch struct {
	AutomaticRepliesSetting automaticReplies `json:"automaticRepliesSetting"`
}

type automaticReplies struct {
	// Status is always "scheduled"; the replies switch themselves off when
	// the window ends, never "always on".
	Status                 string       `json:"status"`
	ExternalAudience       string       `json:"externalAudience"`
	ScheduledStartDateTime dateTimeZone `json:"scheduledStartDateTime"`
	ScheduledEndDateTime   dateTimeZone `json:"scheduledEndDateTime"`
	InternalReplyMessage   string       `json:"internalReplyMessage"`
	ExternalReplyMessage   string       `json:"externalReplyMessage"`
}

type dateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Connector sets the mailbox automatic-reply window and bodies.
type Connector struct {
	client   *microsoft.Client
	timeZone string
}

// New creates a mailbox connector. timeZone names the zone the scheduled
// window instants are interpreted in.
func New(client *microsoft.Client, timeZone string) *Connector {
	if timeZone == "" {
		timeZone = "UTC"
	}
	return &Connector{client: client, timeZone: timeZone}
}

// SetAutomaticReplies schedules automatic replies for the given window,
// replacing whatever schedule was previously configured. External senders
// receive the external message; the audience is always "all".
func (c *Connector) SetAutomaticReplies(
	ctx context.Context, window domain.ReplyWindow, messages domain.ReplyMessages,
) error {
	patch := settingsPatch{
		AutomaticRepliesSetting: automaticReplies{
			Status:           "scheduled",
			ExternalAudience: "all",
			ScheduledStartDateTime: dateTimeZone{
				DateTime: window.Start.Format(dateTimeFormat),
				TimeZone: c.timeZone,
			},
			ScheduledEndDateTime: dateTimeZone{
				DateTime: window.End.Format(dateTimeFormat),
				TimeZone: c.timeZone,
			},
			InternalReplyMessage: messages.Internal,
			ExternalReplyMessage: messages.External,
		},
	}

	logger.Debugf("mailbox: scheduling auto-reply %s to %s (%s)",
		patch.AutomaticRepliesSetting.ScheduledStartDateTime.DateTime,
		patch.AutomaticRepliesSetting.ScheduledEndDateTime.DateTime,
		c.timeZone)

	if err := c.client.DoJSON(ctx, "PATCH", "/me/mailboxSettings", patch, nil); err != nil {
		return fmt.Errorf("set automatic replies: %w", err)
	}
	return nil
}
