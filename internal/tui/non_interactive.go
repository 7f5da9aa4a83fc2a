package tui

import (
	"fmt"
	"os"

	"github.com/diffhouse/diffhouse/internal/cliout"
)

// NonInteractiveCallback implements Callback for scripting and JSON output:
// no prompts are drawn, and confirmations auto-approve only when --yes was
// passed.
type NonInteractiveCallback struct {
	flags cliout.Flags
}

// NewNonInteractiveCallback constructs a NonInteractiveCallback.
func NewNonInteractiveCallback(flags cliout.Flags) *NonInteractiveCallback {
	return &NonInteractiveCallback{flags: flags}
}

// ShowError displays an error message, suppressed entirely in JSON mode
// (the caller emits a cliout.Response instead) and in quiet mode.
func (n *NonInteractiveCallback) ShowError(title, message string) {
	if n.flags.Mode == cliout.ModeJSON {
		return
	}
	if n.flags.Mode != cliout.ModeQuiet {
		fmt.Fprintf(os.Stderr, "Error: %s - %s\n", title, message)
	}
}

// ShowSuccess displays a success message.
func (n *NonInteractiveCallback) ShowSuccess(message string) {
	if n.flags.Mode == cliout.ModeNormal {
		fmt.Println(message)
	}
}

// ShowWarning displays a warning message.
func (n *NonInteractiveCallback) ShowWarning(title, message string) {
	if n.flags.Mode != cliout.ModeQuiet && n.flags.Mode != cliout.ModeJSON {
		fmt.Fprintf(os.Stderr, "Warning: %s - %s\n", title, message)
	}
}

// AskConfirmation auto-approves when --yes was passed; otherwise it refuses,
// since there is no terminal to prompt.
func (n *NonInteractiveCallback) AskConfirmation(title, message string) bool {
	if n.flags.Yes {
		return true
	}
	n.ShowError("confirmation required", fmt.Sprintf("%s: %s (use --yes to auto-approve)", title, message))
	return false
}

// ShowCleanupSummary reports the residual-sweep result as plain text.
func (n *NonInteractiveCallback) ShowCleanupSummary(removed int, warnings []string) {
	if n.flags.Mode == cliout.ModeQuiet || n.flags.Mode == cliout.ModeJSON {
		return
	}
	fmt.Printf("removed %d residual clone director%s\n", removed, plural(removed))
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

// StyleTitle returns the title unstyled; there is no terminal to style for.
func (n *NonInteractiveCallback) StyleTitle(title string) string {
	return title
}

// GetOutputMode returns the configured output mode.
func (n *NonInteractiveCallback) GetOutputMode() cliout.Mode {
	return n.flags.Mode
}

// IsAutoApprove reports whether --yes was passed.
func (n *NonInteractiveCallback) IsAutoApprove() bool {
	return n.flags.Yes
}
