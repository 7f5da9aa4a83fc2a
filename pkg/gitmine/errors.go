package gitmine

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common git failure modes.
var (
	ErrNotAGitRepo  = errors.New("not a git repository")
	ErrDetachedHead = errors.New("HEAD is detached")
	ErrRefNotFound  = errors.New("ref not found")
)

// EnvironmentError is raised when the git binary is missing from PATH or
// older than the minimum version this package requires. It is always fatal:
// the caller must install or upgrade git before retrying.
type EnvironmentError struct {
	Installed string // installed version string, empty if git is missing entirely
	Minimum   string // minimum version required
}

func (e *EnvironmentError) Error() string {
	if e.Installed == "" {
		return "Error: git not found on PATH\n" +
			"  Context: gitmine shells out to an installed git binary and found none\n" +
			"  Fix: install git and ensure it is on PATH"
	}
	return fmt.Sprintf("Error: installed git %s is too old\n"+
		"  Context: gitmine requires at least git %s for --filter=blob:none, log --all -p -U0, and ls-remote --refs\n"+
		"  Fix: upgrade git to %s or newer", e.Installed, e.Minimum, e.Minimum)
}

// GitError wraps a non-zero git subprocess exit with the command that was
// run and its captured stderr. Fatal for the current operation.
type GitError struct {
	Args   []string // git subcommand and arguments
	Stderr string   // stderr output from git
	Err    error    // underlying exec error
}

func (e *GitError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	msg := fmt.Sprintf("Error: git %s failed", strings.Join(e.Args, " "))
	if stderr != "" {
		msg += fmt.Sprintf("\n  Context: %s", stderr)
	} else if e.Err != nil {
		msg += fmt.Sprintf("\n  Context: %v", e.Err)
	}
	msg += "\n  Fix: check the repository location, credentials, and network access"
	return msg
}

func (e *GitError) Unwrap() error {
	return e.Err
}

// IsNotAGitRepo reports whether err indicates the working directory is not
// (or no longer) a git repository.
func IsNotAGitRepo(err error) bool {
	var gitErr *GitError
	if errors.As(err, &gitErr) {
		return strings.Contains(gitErr.Stderr, "not a git repository")
	}
	return errors.Is(err, ErrNotAGitRepo)
}

// NotClonedError is raised when a pipeline is requested on a RepoFacade that
// has not yet entered its active scope, or that has already been disposed.
type NotClonedError struct {
	Operation string // e.g. "commits", "branches"
}

func (e *NotClonedError) Error() string {
	return fmt.Sprintf("Error: %s requested outside the active scope\n"+
		"  Context: the repository has not been cloned yet, or has already been disposed\n"+
		"  Fix: call Enter (or use the facade inside its scoped block) before requesting %s", e.Operation, e.Operation)
}

// FilterError is raised when filemods/diffs are requested on a facade that
// was constructed with blobs=false (a blobless clone has no file contents).
type FilterError struct {
	Operation string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("Error: %s requires file contents\n"+
		"  Context: this repository was cloned with blobs=false\n"+
		"  Fix: construct the facade with blobs=true to enable %s", e.Operation, e.Operation)
}

// ParserWarning reports a single malformed record that was skipped without
// aborting the surrounding stream. Recoverable by design: one corrupt record
// in a long history must never stop the other records from being delivered.
type ParserWarning struct {
	Pipeline string // "commit", "filemod", "diff"
	Reason   string
	Record   string // raw record text that failed to parse, for debugging
}

func (w *ParserWarning) Error() string {
	return fmt.Sprintf("malformed %s record skipped: %s", w.Pipeline, w.Reason)
}
