package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *LeaveRequest {
	return &LeaveRequest{
		LeaveType:    LeaveFullDayOff,
		StartDate:    date(2024, time.June, 3),
		EndDate:      date(2024, time.June, 5),
		ToRecipients: []string{"a@x.com"},
	}
}

func TestValidate_SendRequiresToRecipients(t *testing.T) {
	req := validRequest()
	req.ToRecipients = nil

	err := req.Validate(true)

	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, RuleToRequired, ve.Rule)
}

func TestValidate_DraftAllowsEmptyRecipients(t *testing.T) {
	req := validRequest()
	req.ToRecipients = nil

	assert.NoError(t, req.Validate(false))
}

func TestValidate_BusinessTripExcelNeedsFolder(t *testing.T) {
	req := validRequest()
	req.LeaveType = LeaveBusinessTrip
	req.CreateExcel = true
	req.ExcelSaveFolder = "   "

	err := req.Validate(true)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, RuleExcelFolderRequired, ve.Rule)
}

func TestValidate_ExcelFolderIgnoredForOffTypes(t *testing.T) {
	req := validRequest()
	req.CreateExcel = true
	req.ExcelSaveFolder = ""

	assert.NoError(t, req.Validate(true))
}

func TestValidate_ExcelFolderIgnoredWhenDrafting(t *testing.T) {
	req := validRequest()
	req.LeaveType = LeaveBusinessTrip
	req.CreateExcel = true
	req.ExcelSaveFolder = ""

	assert.NoError(t, req.Validate(false))
}

func TestValidate_EndBeforeStart(t *testing.T) {
	tests := []struct {
		name    string
		sendNow bool
	}{
		{name: "sending", sendNow: true},
		{name: "drafting", sendNow: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.StartDate = date(2024, time.June, 5)
			req.EndDate = date(2024, time.June, 3)

			err := req.Validate(tt.sendNow)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, RuleDateOrder, ve.Rule)
		})
	}
}

func TestValidate_CheckOrder(t *testing.T) {
	// All three rules violated at once: the To check must win.
	req := &LeaveRequest{
		LeaveType:   LeaveBusinessTrip,
		StartDate:   date(2024, time.June, 5),
		EndDate:     date(2024, time.June, 3),
		CreateExcel: true,
	}

	err := req.Validate(true)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, RuleToRequired, ve.Rule)
}

func TestEffectiveSubject(t *testing.T) {
	req := validRequest()

	assert.Equal(t, "Sato OFF", req.EffectiveSubject("Sato"))

	req.Subject = "Custom subject"
	assert.Equal(t, "Custom subject", req.EffectiveSubject("Sato"))
}

func TestEffectiveLocation(t *testing.T) {
	req := validRequest()

	assert.Equal(t, "Home", req.EffectiveLocation())

	req.Location = "Osaka"
	assert.Equal(t, "Osaka", req.EffectiveLocation())

	trip := validRequest()
	trip.LeaveType = LeaveBusinessTrip
	assert.Equal(t, "", trip.EffectiveLocation())
}

func TestParseAddresses(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: nil,
		},
		{
			name:     "semicolons",
			input:    "a@x.com; b@x.com",
			expected: []string{"a@x.com", "b@x.com"},
		},
		{
			name:     "commas",
			input:    "a@x.com,b@x.com",
			expected: []string{"a@x.com", "b@x.com"},
		},
		{
			name:     "mixed separators with blanks",
			input:    "a@x.com;; , b@x.com ;",
			expected: []string{"a@x.com", "b@x.com"},
		},
		{
			name:     "order preserved, duplicates kept",
			input:    "b@x.com; a@x.com; b@x.com",
			expected: []string{"b@x.com", "a@x.com", "b@x.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAddresses(tt.input))
		})
	}
}
