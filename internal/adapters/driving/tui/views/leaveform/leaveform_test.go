package leaveform

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koshinokanbai330/oof-cli/internal/adapters/driving/tui/styles"
	"github.com/koshinokanbai330/oof-cli/internal/core/domain"
)

// MockSubmitService implements driving.SubmitService for testing.
type MockSubmitService struct {
	SubmitFunc func(ctx context.Context, request *domain.LeaveRequest, sendNow bool) (*domain.SubmissionOutcome, error)
	Requests   []*domain.LeaveRequest
	SendFlags  []bool
}

func (m *MockSubmitService) Submit(
	ctx context.Context, request *domain.LeaveRequest, sendNow bool,
) (*domain.SubmissionOutcome, error) {
	m.Requests = append(m.Requests, request)
	m.SendFlags = append(m.SendFlags, sendNow)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, request, sendNow)
	}
	outcome := domain.NewSubmissionOutcome()
	outcome.MarkMeetingDone()
	return outcome, nil
}

func (m *MockSubmitService) FamilyName(_ context.Context) string {
	return "Yamada"
}

func (m *MockSubmitService) LastMailingList() domain.MailingList {
	return domain.MailingList{}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func newTestView(service *MockSubmitService) *View {
	return NewView(styles.DefaultStyles(), service, "Yamada", domain.MailingList{
		To: []string{"team@example.com"},
	})
}

func TestNewView_Defaults(t *testing.T) {
	view := newTestView(&MockSubmitService{})

	assert.Equal(t, StepSelectType, view.step)
	assert.True(t, view.autoReply)
	assert.False(t, view.createExcel)
	assert.Equal(t, "team@example.com", view.inputs[fieldTo].Value())
	assert.Equal(t, "Yamada BT", view.inputs[fieldSubject].Value(), "first type is business trip")
	assert.Empty(t, view.inputs[fieldLocation].Value(), "business trips have no default location")
}

func TestView_TypeSelection_RecomputesDerivedFields(t *testing.T) {
	view := newTestView(&MockSubmitService{})

	view.Update(key("down"))

	assert.Equal(t, 1, view.typeIndex)
	assert.Equal(t, domain.LeaveFullDayOff, view.selectedType())
	assert.Equal(t, "Yamada OFF", view.inputs[fieldSubject].Value())
	assert.Equal(t, "Home", view.inputs[fieldLocation].Value())
}

func TestView_TypeSelection_EnterMovesToDetails(t *testing.T) {
	view := newTestView(&MockSubmitService{})

	view.Update(key("enter"))

	assert.Equal(t, StepEnterDetails, view.step)
	assert.Equal(t, fieldStart, view.focus)
}

func TestView_Details_TabCyclesFocus(t *testing.T) {
	view := newTestView(&MockSubmitService{})
	view.Update(key("enter"))

	view.Update(key("tab"))
	assert.Equal(t, fieldEnd, view.focus)

	view.Update(key("up"))
	assert.Equal(t, fieldStart, view.focus)
}

func TestView_Details_Toggles(t *testing.T) {
	view := newTestView(&MockSubmitService{})
	view.Update(key("enter"))

	view.Update(key("ctrl+r"))
	assert.False(t, view.autoReply)

	view.Update(key("ctrl+x"))
	assert.True(t, view.createExcel)
}

func TestView_Details_RejectsBadDate(t *testing.T) {
	view := newTestView(&MockSubmitService{})
	view.Update(key("enter"))
	view.inputs[fieldStart].SetValue("06/03/2024")

	view.Update(key("enter"))

	assert.Equal(t, StepEnterDetails, view.step)
	assert.Contains(t, view.errText, "YYYY-MM-DD")
}

func TestView_ConfirmAndSend(t *testing.T) {
	service := &MockSubmitService{}
	view := newTestView(service)
	view.Update(key("enter"))
	view.inputs[fieldStart].SetValue("2024-06-03")
	view.inputs[fieldEnd].SetValue("2024-06-05")
	view.inputs[fieldExcelFolder].SetValue("/tmp/trips")
	view.Update(key("ctrl+x"))
	view.Update(key("enter"))
	require.Equal(t, StepConfirm, view.step)

	_, cmd := view.Update(key("s"))
	require.NotNil(t, cmd)
	msg := cmd()
	finished, ok := msg.(submitFinished)
	require.True(t, ok)
	require.NotNil(t, finished.outcome)

	require.Len(t, service.Requests, 1)
	request := service.Requests[0]
	assert.Equal(t, domain.LeaveBusinessTrip, request.LeaveType)
	assert.Equal(t, "2024-06-03", request.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2024-06-05", request.EndDate.Format("2006-01-02"))
	assert.Equal(t, []string{"team@example.com"}, request.ToRecipients)
	assert.True(t, request.CreateExcel)
	assert.Equal(t, "/tmp/trips", request.ExcelSaveFolder)
	assert.Empty(t, request.Subject, "derived subject stays empty so the core re-derives it")
	assert.True(t, service.SendFlags[0])

	view.Update(msg)
	assert.Equal(t, StepComplete, view.step)
}

func TestView_ConfirmDraft(t *testing.T) {
	service := &MockSubmitService{}
	view := newTestView(service)
	view.Update(key("enter"))
	view.inputs[fieldStart].SetValue("2024-06-03")
	view.Update(key("enter"))
	require.Equal(t, StepConfirm, view.step)

	_, cmd := view.Update(key("d"))
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, service.SendFlags, 1)
	assert.False(t, service.SendFlags[0])
}

func TestView_EndDateDefaultsToStart(t *testing.T) {
	service := &MockSubmitService{}
	view := newTestView(service)
	view.Update(key("enter"))
	view.inputs[fieldStart].SetValue("2024-06-03")
	view.inputs[fieldEnd].SetValue("")
	view.Update(key("enter"))

	_, cmd := view.Update(key("s"))
	require.NotNil(t, cmd)
	cmd()

	request := service.Requests[0]
	assert.Equal(t, request.StartDate, request.EndDate)
}

func TestView_SubmitError(t *testing.T) {
	service := &MockSubmitService{
		SubmitFunc: func(context.Context, *domain.LeaveRequest, bool) (*domain.SubmissionOutcome, error) {
			outcome := domain.NewSubmissionOutcome()
			outcome.Error("graph is down")
			return outcome, errors.New("create meeting: graph is down")
		},
	}
	view := newTestView(service)
	view.Update(key("enter"))
	view.inputs[fieldStart].SetValue("2024-06-03")
	view.Update(key("enter"))

	_, cmd := view.Update(key("enter"))
	require.NotNil(t, cmd)
	view.Update(cmd())

	assert.Equal(t, StepComplete, view.step)
	assert.Contains(t, view.errText, "graph is down")
	assert.Contains(t, view.View(), "ERROR: graph is down")
}

func TestView_EscapeNavigatesBack(t *testing.T) {
	view := newTestView(&MockSubmitService{})
	view.Update(key("enter"))
	require.Equal(t, StepEnterDetails, view.step)

	view.Update(key("esc"))
	assert.Equal(t, StepSelectType, view.step)
}

func TestView_ConfirmShowsReplyPreview(t *testing.T) {
	view := newTestView(&MockSubmitService{})
	view.Update(key("down"))
	view.Update(key("enter"))
	view.inputs[fieldStart].SetValue("2024-05-08")
	view.inputs[fieldEnd].SetValue("2024-05-10")
	view.Update(key("enter"))
	require.Equal(t, StepConfirm, view.step)

	rendered := view.View()
	assert.Contains(t, rendered, "Yamada OFF")
	assert.Contains(t, rendered, "May 11, 2024", "back date is the day after the absence")
}
