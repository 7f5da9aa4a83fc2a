package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/diffhouse/diffhouse/internal/version"
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	styleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// PrintError displays an error message with styling to the terminal.
func PrintError(title, msg string) { fmt.Println(styleErr.Render("✖ " + title)); fmt.Println(msg) }

// PrintSuccess displays a success message with styling to the terminal.
func PrintSuccess(msg string) { fmt.Println(styleSuccess.Render("✔ " + msg)) }

// PrintWarning displays a warning message with styling to the terminal.
func PrintWarning(title, msg string) { fmt.Println(styleWarn.Render("! " + title)); fmt.Println(msg) }

// PrintCleanupSummary reports how many residual clone directories the
// `diffhouse cleanup` sweep removed, and any per-directory warnings.
func PrintCleanupSummary(removed int, warnings []string) {
	fmt.Println(styleSuccess.Render(fmt.Sprintf("✔ removed %d residual clone director%s", removed, plural(removed))))
	for _, w := range warnings {
		fmt.Println(styleWarn.Render("! " + w))
	}
}

// StyleTitle applies title styling to the given text string.
func StyleTitle(text string) string { return styleTitle.Render(text) }

// PrintHelp displays usage information for the diffhouse command set.
func PrintHelp() {
	fmt.Println(styleTitle.Render(fmt.Sprintf("diffhouse %s", version.GetVersion())))
	fmt.Println(styleDim.Render("Mine commits, file modifications, diffs, and refs from a Git repository"))
	fmt.Println("\nUsage: diffhouse <command> [options] <location>")
	fmt.Println("\nCommands:")
	fmt.Println("  clone <location>       Materialize a scoped clone and report its path")
	fmt.Println("  commits <location>     Stream parsed commits as JSON lines")
	fmt.Println("    --shortstat          Attach files_changed/lines_added/lines_deleted per commit")
	fmt.Println("  filemods <location>    Stream per-file modification records as JSON lines")
	fmt.Println("  diffs <location>       Stream per-hunk diff records as JSON lines")
	fmt.Println("  branches <location>    List remote branch names")
	fmt.Println("  tags <location>        List remote tag names")
	fmt.Println("  cleanup                Remove residual clone directories left by killed processes")
	fmt.Println("  completion <shell>     Generate shell completion script (bash, zsh, fish, powershell)")
	fmt.Println("  help                   Show this message")
	fmt.Println("\nOptions:")
	fmt.Println("  --shallow              Bare, blob-filtered clone: faster, but disables filemods/diffs")
	fmt.Println("  --quiet                Suppress success, warning and error messages")
	fmt.Println("  --json                 Emit a JSON response envelope (commits/filemods/diffs always stream JSON lines)")
	fmt.Println("  --yes                  Auto-approve confirmation prompts")
	fmt.Println("  --verbose              Log every git invocation to stderr")
	fmt.Println("  --version              Print the diffhouse version and exit")
	fmt.Println("  --help                 Show this message")
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
