// Package tui hosts the bubbletea program for the interactive form.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/koshinokanbai330/oof-cli/internal/adapters/driving/tui/styles"
	"github.com/koshinokanbai330/oof-cli/internal/adapters/driving/tui/views/leaveform"
	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driving"
)

// RunForm runs the interactive leave request form to completion.
func RunForm(ctx context.Context, service driving.SubmitService) error {
	familyName := service.FamilyName(ctx)
	view := leaveform.NewView(styles.DefaultStyles(), service, familyName, service.LastMailingList())

	program := tea.NewProgram(view, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run form: %w", err)
	}
	return nil
}
