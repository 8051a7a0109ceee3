package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/koshinokanbai330/oof-cli/internal/core/domain"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a leave request from flags",
	Long: `Submit a leave request without the interactive form.

The subject and location are derived from the leave type unless overridden.
Recipients become meeting attendees; '--draft' saves the meeting without
notifying anyone and skips the auto-reply and workbook steps.

Examples:
  # One day off, send to the team list
  oof submit --type full-day-off --start 2024-06-03 --end 2024-06-03 --to team@example.com

  # Business trip with the allowance workbook
  oof submit --type business-trip --start 2024-06-03 --end 2024-06-05 \
    --location Osaka --to team@example.com --excel --excel-folder ~/Trips

  # Draft only
  oof submit --type am-half-day-off --start 2024-06-03 --end 2024-06-03 --draft`,
	RunE: runSubmit,
}

// Flags for submit.
var (
	submitType        string
	submitStart       string
	submitEnd         string
	submitLocation    string
	submitSubject     string
	submitTo          string
	submitCc          string
	submitAutoReply   bool
	submitExcel       bool
	submitExcelFolder string
	submitDraft       bool
)

func init() {
	submitCmd.Flags().StringVar(&submitType, "type", "",
		"leave type: business-trip, full-day-off, am-half-day-off, pm-half-day-off")
	submitCmd.Flags().StringVar(&submitStart, "start", "", "first absent day (YYYY-MM-DD)")
	submitCmd.Flags().StringVar(&submitEnd, "end", "", "last absent day (YYYY-MM-DD, defaults to start)")
	submitCmd.Flags().StringVar(&submitLocation, "location", "", "meeting location (defaults per leave type)")
	submitCmd.Flags().StringVar(&submitSubject, "subject", "", "meeting subject (defaults per leave type)")
	submitCmd.Flags().StringVar(&submitTo, "to", "", "required attendees, separated by ';' or ','")
	submitCmd.Flags().StringVar(&submitCc, "cc", "", "optional attendees, separated by ';' or ','")
	submitCmd.Flags().BoolVar(&submitAutoReply, "auto-reply", true, "schedule the mailbox auto-reply")
	submitCmd.Flags().BoolVar(&submitExcel, "excel", false, "fill the travel-allowance workbook (business trips)")
	submitCmd.Flags().StringVar(&submitExcelFolder, "excel-folder", "", "save folder for the allowance workbook")
	submitCmd.Flags().BoolVar(&submitDraft, "draft", false, "save the meeting as a draft, skip every other step")

	_ = submitCmd.MarkFlagRequired("type")
	_ = submitCmd.MarkFlagRequired("start")

	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	if submitService == nil {
		return fmt.Errorf("submit service not initialised")
	}

	request, err := buildRequest()
	if err != nil {
		return err
	}

	outcome, err := submitService.Submit(cmd.Context(), request, !submitDraft)
	if outcome != nil {
		for _, line := range outcome.Lines() {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
	}
	if err != nil {
		// The outcome lines already explain the failure.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return err
	}
	return nil
}

func buildRequest() (*domain.LeaveRequest, error) {
	leaveType := domain.LeaveType(submitType)
	if !leaveType.Valid() {
		return nil, fmt.Errorf("unknown leave type %q", submitType)
	}

	start, err := time.Parse("2006-01-02", submitStart)
	if err != nil {
		return nil, fmt.Errorf("invalid --start date %q, want YYYY-MM-DD", submitStart)
	}
	end := start
	if submitEnd != "" {
		end, err = time.Parse("2006-01-02", submitEnd)
		if err != nil {
			return nil, fmt.Errorf("invalid --end date %q, want YYYY-MM-DD", submitEnd)
		}
	}

	return &domain.LeaveRequest{
		LeaveType:       leaveType,
		StartDate:       start,
		EndDate:         end,
		Subject:         submitSubject,
		Location:        submitLocation,
		ToRecipients:    domain.ParseAddresses(submitTo),
		CcRecipients:    domain.ParseAddresses(submitCc),
		SetAutoReplies:  submitAutoReply,
		CreateExcel:     submitExcel,
		ExcelSaveFolder: submitExcelFolder,
	}, nil
}
