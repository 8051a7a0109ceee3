// Package leaveform is the interactive terminal form for one leave request.
package leaveform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/koshinokanbai330/oof-cli/internal/adapters/driving/tui/styles"
	"github.com/koshinokanbai330/oof-cli/internal/core/domain"
	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driving"
)

// Step identifies the form stage.
type Step int

const (
	// StepSelectType chooses the leave type.
	StepSelectType Step = iota
	// StepEnterDetails edits dates, recipients, and options.
	StepEnterDetails
	// StepConfirm shows the derived meeting and reply preview.
	StepConfirm
	// StepSubmitting waits for the pipeline.
	StepSubmitting
	// StepComplete shows the outcome log.
	StepComplete
)

// Indexes into the detail inputs.
const (
	fieldStart = iota
	fieldEnd
	fieldLocation
	fieldSubject
	fieldTo
	fieldCc
	fieldExcelFolder
	fieldCount
)

const dateLayout = "2006-01-02"

// submitFinished carries the pipeline result back into the view.
type submitFinished struct {
	outcome *domain.SubmissionOutcome
	err     error
}

// View is the leave request form model.
type View struct {
	styles  *styles.Styles
	service driving.SubmitService

	step     Step
	ready    bool
	width    int
	height   int
	errText  string
	sendNow  bool
	quitting bool

	// Type selection.
	typeIndex int

	// Detail fields.
	inputs         [fieldCount]textinput.Model
	focus          int
	autoReply      bool
	createExcel    bool
	subjectEdited  bool
	locationEdited bool
	familyName     string

	outcome *domain.SubmissionOutcome
}

// NewView creates the form. The family name seeds the derived subject; the
// mailing list pre-fills the recipient fields.
func NewView(s *styles.Styles, service driving.SubmitService, familyName string, last domain.MailingList) *View {
	view := &View{
		styles:     s,
		service:    service,
		step:       StepSelectType,
		autoReply:  true,
		familyName: familyName,
	}

	placeholders := [fieldCount]string{
		fieldStart:       "YYYY-MM-DD",
		fieldEnd:         "YYYY-MM-DD (empty = start)",
		fieldLocation:    "meeting location",
		fieldSubject:     "meeting subject",
		fieldTo:          "to: a@x.com; b@x.com",
		fieldCc:          "cc:",
		fieldExcelFolder: "allowance save folder",
	}
	for i := range view.inputs {
		input := textinput.New()
		input.Placeholder = placeholders[i]
		input.CharLimit = 256
		view.inputs[i] = input
	}

	today := domain.DateOnly(time.Now())
	view.inputs[fieldStart].SetValue(today.Format(dateLayout))
	view.inputs[fieldTo].SetValue(strings.Join(last.To, "; "))
	view.inputs[fieldCc].SetValue(strings.Join(last.Cc, "; "))
	view.applyTypeDefaults()

	return view
}

// Init implements tea.Model.
func (v *View) Init() tea.Cmd {
	return nil
}

// selectedType returns the currently chosen leave type.
func (v *View) selectedType() domain.LeaveType {
	return domain.LeaveTypes[v.typeIndex]
}

// applyTypeDefaults recomputes the derived subject and location unless the
// user has overridden them.
func (v *View) applyTypeDefaults() {
	leaveType := v.selectedType()
	if !v.subjectEdited {
		v.inputs[fieldSubject].SetValue(domain.Subject(v.familyName, leaveType))
	}
	if !v.locationEdited {
		v.inputs[fieldLocation].SetValue(domain.DefaultLocation(leaveType))
	}
}

// Update implements tea.Model.
func (v *View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.ready = true
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case submitFinished:
		v.outcome = msg.outcome
		if msg.err != nil {
			v.errText = msg.err.Error()
		}
		v.step = StepComplete
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, v.updateFocusedInput(msg)
}

func (v *View) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		v.quitting = true
		return v, tea.Quit
	}

	switch v.step {
	case StepSelectType:
		return v.handleSelectType(msg)
	case StepEnterDetails:
		return v.handleDetails(msg)
	case StepConfirm:
		return v.handleConfirm(msg)
	case StepSubmitting:
		return v, nil
	case StepComplete:
		v.quitting = true
		return v, tea.Quit
	}
	return v, nil
}

func (v *View) handleSelectType(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		v.quitting = true
		return v, tea.Quit
	case "up", "k":
		if v.typeIndex > 0 {
			v.typeIndex--
			v.applyTypeDefaults()
		}
	case "down", "j":
		if v.typeIndex < len(domain.LeaveTypes)-1 {
			v.typeIndex++
			v.applyTypeDefaults()
		}
	case "enter":
		v.step = StepEnterDetails
		v.focus = fieldStart
		return v, v.inputs[fieldStart].Focus()
	}
	return v, nil
}

func (v *View) handleDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.inputs[v.focus].Blur()
		v.step = StepSelectType
		return v, nil
	case "tab", "down":
		return v, v.moveFocus(1)
	case "shift+tab", "up":
		return v, v.moveFocus(-1)
	case "ctrl+r":
		v.autoReply = !v.autoReply
		return v, nil
	case "ctrl+x":
		v.createExcel = !v.createExcel
		return v, nil
	case "enter":
		if err := v.validateDetails(); err != nil {
			v.errText = err.Error()
			return v, nil
		}
		v.errText = ""
		v.inputs[v.focus].Blur()
		v.step = StepConfirm
		return v, nil
	}

	cmd := v.updateFocusedInput(msg)
	switch v.focus {
	case fieldSubject:
		v.subjectEdited = v.inputs[fieldSubject].Value() != ""
	case fieldLocation:
		v.locationEdited = true
	}
	return v, cmd
}

func (v *View) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.step = StepEnterDetails
		return v, v.inputs[v.focus].Focus()
	case "s", "enter":
		return v.startSubmit(true)
	case "d":
		return v.startSubmit(false)
	case "q":
		v.quitting = true
		return v, tea.Quit
	}
	return v, nil
}

func (v *View) moveFocus(delta int) tea.Cmd {
	v.inputs[v.focus].Blur()
	v.focus = (v.focus + delta + fieldCount) % fieldCount
	return v.inputs[v.focus].Focus()
}

func (v *View) updateFocusedInput(msg tea.Msg) tea.Cmd {
	if v.step != StepEnterDetails {
		return nil
	}
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return cmd
}

// validateDetails checks what the core cannot express: the date strings.
// Semantic rules run again inside the orchestrator.
func (v *View) validateDetails() error {
	if _, err := time.Parse(dateLayout, v.inputs[fieldStart].Value()); err != nil {
		return fmt.Errorf("start date must be YYYY-MM-DD")
	}
	if value := v.inputs[fieldEnd].Value(); value != "" {
		if _, err := time.Parse(dateLayout, value); err != nil {
			return fmt.Errorf("end date must be YYYY-MM-DD")
		}
	}
	return nil
}

// buildRequest assembles the leave request from the form state.
func (v *View) buildRequest() *domain.LeaveRequest {
	start, _ := time.Parse(dateLayout, v.inputs[fieldStart].Value())
	end := start
	if value := v.inputs[fieldEnd].Value(); value != "" {
		end, _ = time.Parse(dateLayout, value)
	}

	subject := ""
	if v.subjectEdited {
		subject = v.inputs[fieldSubject].Value()
	}
	location := ""
	if v.locationEdited {
		location = v.inputs[fieldLocation].Value()
	}

	return &domain.LeaveRequest{
		LeaveType:       v.selectedType(),
		StartDate:       start,
		EndDate:         end,
		Subject:         subject,
		Location:        location,
		ToRecipients:    domain.ParseAddresses(v.inputs[fieldTo].Value()),
		CcRecipients:    domain.ParseAddresses(v.inputs[fieldCc].Value()),
		SetAutoReplies:  v.autoReply,
		CreateExcel:     v.createExcel,
		ExcelSaveFolder: v.inputs[fieldExcelFolder].Value(),
	}
}

func (v *View) startSubmit(sendNow bool) (tea.Model, tea.Cmd) {
	if v.service == nil {
		v.errText = "submit service not initialised"
		return v, nil
	}
	v.sendNow = sendNow
	v.step = StepSubmitting
	request := v.buildRequest()

	return v, func() tea.Msg {
		outcome, err := v.service.Submit(context.Background(), request, sendNow)
		return submitFinished{outcome: outcome, err: err}
	}
}

// View implements tea.Model.
func (v *View) View() string {
	if v.quitting {
		return ""
	}

	var b strings.Builder
	title := func(s string) string {
		if v.styles != nil {
			return v.styles.Title.Render(s)
		}
		return s
	}
	help := func(s string) string {
		if v.styles != nil {
			return v.styles.Help.Render(s)
		}
		return s
	}

	switch v.step {
	case StepSelectType:
		b.WriteString(title("What kind of absence?") + "\n\n")
		for i, leaveType := range domain.LeaveTypes {
			cursor := "  "
			label := leaveType.DisplayName()
			if i == v.typeIndex {
				cursor = "> "
				if v.styles != nil {
					label = v.styles.Selected.Render(label)
				}
			}
			b.WriteString(cursor + label + "\n")
		}
		b.WriteString("\n" + help("↑/↓ select · enter next · q quit"))

	case StepEnterDetails:
		b.WriteString(title(v.selectedType().DisplayName()) + "\n\n")
		labels := [fieldCount]string{
			"Start date  ", "End date    ", "Location    ", "Subject     ",
			"To          ", "Cc          ", "Excel folder",
		}
		for i := range v.inputs {
			b.WriteString(labels[i] + " " + v.inputs[i].View() + "\n")
		}
		b.WriteString("\n" + checkbox("Auto-reply", v.autoReply, "ctrl+r"))
		b.WriteString("\n" + checkbox("Allowance workbook", v.createExcel, "ctrl+x"))
		if v.errText != "" && v.styles != nil {
			b.WriteString("\n\n" + v.styles.Error.Render(v.errText))
		} else if v.errText != "" {
			b.WriteString("\n\n" + v.errText)
		}
		b.WriteString("\n\n" + help("tab/↑/↓ move · enter review · esc back"))

	case StepConfirm:
		request := v.buildRequest()
		b.WriteString(title("Review") + "\n\n")
		b.WriteString("Meeting:  " + request.EffectiveSubject(v.familyName))
		if loc := request.EffectiveLocation(); loc != "" {
			b.WriteString(" @ " + loc)
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Dates:    %s to %s\n",
			request.StartDate.Format(dateLayout), request.EndDate.Format(dateLayout)))
		b.WriteString("To:       " + strings.Join(request.ToRecipients, "; ") + "\n")
		if len(request.CcRecipients) > 0 {
			b.WriteString("Cc:       " + strings.Join(request.CcRecipients, "; ") + "\n")
		}
		if v.autoReply {
			preview := domain.PreviewMessages(request.EndDate)
			body := preview.External
			if v.styles != nil {
				body = v.styles.Preview.Render(body)
			}
			b.WriteString("\nAuto-reply:\n" + body + "\n")
		}
		b.WriteString("\n" + help("s/enter send · d draft · esc back · q quit"))

	case StepSubmitting:
		if v.sendNow {
			b.WriteString("Submitting…")
		} else {
			b.WriteString("Saving draft…")
		}

	case StepComplete:
		if v.outcome != nil {
			b.WriteString(v.outcome.Log())
		}
		if v.errText != "" {
			b.WriteString("\n")
			if v.styles != nil {
				b.WriteString(v.styles.Error.Render(v.errText))
			} else {
				b.WriteString(v.errText)
			}
		}
		b.WriteString("\n\n" + help("press any key to exit"))
	}

	return b.String()
}

func checkbox(label string, checked bool, key string) string {
	mark := "[ ]"
	if checked {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s (%s)", mark, label, key)
}
