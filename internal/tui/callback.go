// Package tui provides terminal UI callbacks for diffhouse: a styled
// interactive mode backed by Bubble Tea/Lipgloss, and a non-interactive
// mode for scripting and JSON output.
package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/diffhouse/diffhouse/internal/cliout"
)

// Callback is how diffhouse commands report progress and ask questions,
// without caring whether the terminal is interactive.
type Callback interface {
	ShowError(title, message string)
	ShowSuccess(message string)
	ShowWarning(title, message string)
	AskConfirmation(title, message string) bool
	ShowCleanupSummary(removed int, warnings []string)
	StyleTitle(title string) string
	GetOutputMode() cliout.Mode
	IsAutoApprove() bool
}

// InteractiveCallback implements Callback for a real terminal, with styled
// output and a huh confirmation prompt.
type InteractiveCallback struct{}

// NewInteractiveCallback constructs an InteractiveCallback.
func NewInteractiveCallback() *InteractiveCallback {
	return &InteractiveCallback{}
}

// ShowError displays an error message.
func (c *InteractiveCallback) ShowError(title, message string) {
	PrintError(title, message)
}

// ShowSuccess displays a success message.
func (c *InteractiveCallback) ShowSuccess(message string) {
	PrintSuccess(message)
}

// ShowWarning displays a warning message.
func (c *InteractiveCallback) ShowWarning(title, message string) {
	PrintWarning(title, message)
}

// AskConfirmation prompts for yes/no confirmation, used by `diffhouse
// cleanup` before sweeping residual clones.
func (c *InteractiveCallback) AskConfirmation(title, message string) bool {
	var confirm bool
	err := huh.NewConfirm().
		Title(title).
		Description(message).
		Value(&confirm).
		Affirmative("Yes").
		Negative("No").
		Run()
	if err != nil {
		return false
	}
	return confirm
}

// ShowCleanupSummary reports how many residual clone directories were
// removed and any per-directory warnings encountered along the way.
func (c *InteractiveCallback) ShowCleanupSummary(removed int, warnings []string) {
	PrintCleanupSummary(removed, warnings)
}

// StyleTitle returns a styled title string for terminal output.
func (c *InteractiveCallback) StyleTitle(title string) string {
	return StyleTitle(title)
}

// GetOutputMode always returns ModeNormal for an interactive callback.
func (c *InteractiveCallback) GetOutputMode() cliout.Mode {
	return cliout.ModeNormal
}

// IsAutoApprove is always false in interactive mode; the user is asked.
func (c *InteractiveCallback) IsAutoApprove() bool {
	return false
}
