// Package services contains the core orchestration logic.
package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/koshinokanbai330/oof-cli/internal/core/domain"
	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driven"
	"github.com/koshinokanbai330/oof-cli/internal/logger"
)

// SubmitOrchestrator sequences the three downstream side effects of one leave
// request: meeting creation, auto-reply configuration, and the allowance
// workbook. The pipeline is strictly sequential so the log reads as an
// ordered narrative. Only a failed meeting step aborts it; every later step
// degrades to log-and-continue.
type SubmitOrchestrator struct {
	calendar    driven.CalendarAdapter
	autoReply   driven.AutoReplyAdapter
	allowance   driven.AllowanceSheetAdapter
	mailingList driven.MailingListStore
	signature   driven.SignatureProvider
	profile     driven.ProfileProvider

	// familyName caches the resolved name after the first lookup.
	familyOnce sync.Once
	familyName string

	// busy guards against re-entrant submits; one submission runs end to
	// end before another may start.
	busy atomic.Bool
}

// NewSubmitOrchestrator wires the orchestrator with its adapters. All
// dependencies are injected once at startup; the orchestrator holds no
// ambient global state.
func NewSubmitOrchestrator(
	calendar driven.CalendarAdapter,
	autoReply driven.AutoReplyAdapter,
	allowance driven.AllowanceSheetAdapter,
	mailingList driven.MailingListStore,
	signature driven.SignatureProvider,
	profile driven.ProfileProvider,
) *SubmitOrchestrator {
	return &SubmitOrchestrator{
		calendar:    calendar,
		autoReply:   autoReply,
		allowance:   allowance,
		mailingList: mailingList,
		signature:   signature,
		profile:     profile,
	}
}

// FamilyName resolves the user's family name, falling back to "User" when the
// profile lookup fails. The result is cached for the process lifetime.
func (s *SubmitOrchestrator) FamilyName(ctx context.Context) string {
	s.familyOnce.Do(func() {
		name, err := s.profile.FamilyName(ctx)
		if err != nil || name == "" {
			logger.Debugf("family name lookup failed, using fallback: %v", err)
			name = "User"
		}
		s.familyName = name
	})
	return s.familyName
}

// LastMailingList returns the recipient lists from the previous successful
// send. Empty lists when no record exists.
func (s *SubmitOrchestrator) LastMailingList() domain.MailingList {
	return s.mailingList.Load()
}

// Submit validates the request and runs the pipeline:
//
//	Validating → CreatingMeeting → (SavingMailingList) → (SettingAutoReply)
//	           → (FillingExcel) → Completed
//
// Validation failures return before any side effect. Meeting creation failure
// is fatal and skips everything after it. Mailing-list, auto-reply, and
// allowance failures are recorded in the outcome and the pipeline continues.
func (s *SubmitOrchestrator) Submit(
	ctx context.Context,
	request *domain.LeaveRequest,
	sendNow bool,
) (*domain.SubmissionOutcome, error) {
	outcome := domain.NewSubmissionOutcome()

	if !s.busy.CompareAndSwap(false, true) {
		outcome.Error(domain.ErrSubmissionInProgress.Error())
		return outcome, domain.ErrSubmissionInProgress
	}
	defer s.busy.Store(false)

	// 1. Validate: fail fast, no side effects.
	if err := request.Validate(sendNow); err != nil {
		outcome.Error(err.Error())
		return outcome, err
	}

	autoReplyPlanned := sendNow && request.SetAutoReplies
	excelPlanned := sendNow && request.IsBusinessTrip() && request.CreateExcel
	if autoReplyPlanned {
		outcome.PlanAutoReply()
	}
	if excelPlanned {
		outcome.PlanExcel()
	}

	// 2. Create or draft the meeting. A failure here is fatal to the whole
	// submission: the calendar event is the primary deliverable.
	if err := s.createMeeting(ctx, request, sendNow, outcome); err != nil {
		outcome.Error(err.Error())
		outcome.Info(outcome.Summary())
		return outcome, fmt.Errorf("create meeting: %w", err)
	}

	// 3. Persist the mailing list after a successful send. Non-fatal.
	if sendNow {
		if err := s.mailingList.Save(request.ToRecipients, request.CcRecipients); err != nil {
			logger.Debugf("mailing list save failed: %v", err)
			outcome.Warn(fmt.Sprintf("mailing list not saved: %v", err))
		}
	}

	// 4. Configure automatic replies. Non-fatal; the allowance step still runs.
	if autoReplyPlanned {
		s.setAutoReply(ctx, request, outcome)
	}

	// 5. Fill the allowance workbook. Non-fatal.
	if excelPlanned {
		s.fillAllowance(ctx, request, outcome)
	}

	if outcome.Succeeded() {
		outcome.Info("All tasks completed successfully.")
	} else {
		outcome.Info(outcome.Summary())
	}
	return outcome, nil
}

func (s *SubmitOrchestrator) createMeeting(
	ctx context.Context,
	request *domain.LeaveRequest,
	sendNow bool,
	outcome *domain.SubmissionOutcome,
) error {
	if sendNow {
		outcome.Info("Creating and sending meeting…")
	} else {
		outcome.Info("Creating draft meeting…")
	}

	spec := driven.EventSpec{
		Subject:          request.EffectiveSubject(s.FamilyName(ctx)),
		Location:         request.EffectiveLocation(),
		StartDate:        domain.DateOnly(request.StartDate),
		EndDateExclusive: domain.DateOnly(request.EndDate).AddDate(0, 0, 1),
		Send:             sendNow,
	}
	// Drafts carry no recipients at all so nothing is resolved or notified,
	// regardless of what the form shows.
	if sendNow {
		spec.ToAddrs = request.ToRecipients
		spec.CcAddrs = request.CcRecipients
	}

	if _, err := s.calendar.CreateEvent(ctx, spec); err != nil {
		return err
	}
	outcome.MarkMeetingDone()
	if sendNow {
		outcome.Info("✔ Meeting sent.")
	} else {
		outcome.Info("✔ Draft saved.")
	}
	return nil
}

func (s *SubmitOrchestrator) setAutoReply(
	ctx context.Context,
	request *domain.LeaveRequest,
	outcome *domain.SubmissionOutcome,
) {
	outcome.Info("Setting auto-reply via Microsoft Graph…")

	// Signature lookup is best-effort; an empty signature is fine.
	sig := s.signature.DefaultSignatureHTML()
	messages := domain.BuildReplyMessages(request.EndDate, sig)
	window := domain.NewReplyWindow(request.StartDate, request.EndDate)

	if err := s.autoReply.SetAutomaticReplies(ctx, window, messages); err != nil {
		logger.Debugf("auto-reply failed: %v", err)
		outcome.Error(fmt.Sprintf("auto-reply not configured: %v", err))
		return
	}
	outcome.MarkAutoReplyDone()
	outcome.Info("✔ Auto-reply configured.")
}

func (s *SubmitOrchestrator) fillAllowance(
	ctx context.Context,
	request *domain.LeaveRequest,
	outcome *domain.SubmissionOutcome,
) {
	outcome.Info("Filling allowance Excel template…")

	spec := driven.FillSpec{
		Dates:       domain.ExpandDateRange(request.StartDate, request.EndDate),
		Destination: request.EffectiveLocation(),
		FamilyName:  s.FamilyName(ctx),
		Target:      request.ExcelSaveFolder,
	}

	ref, err := s.allowance.FillTemplate(ctx, spec)
	if err != nil {
		logger.Debugf("allowance fill failed: %v", err)
		outcome.Error(fmt.Sprintf("allowance sheet not created: %v", err))
		return
	}
	outcome.MarkExcelDone()
	outcome.Info("✔ Excel saved: " + ref)
}
