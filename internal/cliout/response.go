package cliout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/diffhouse/gitmine"
)

// Response is the structured JSON envelope every diffhouse command emits in
// ModeJSON.
//
// Schema:
//
//	{
//	  "success": true|false,
//	  "data": { ... },         // command-specific payload, omitted on error
//	  "error": {                // present only on failure
//	    "code": "GIT_ERROR",
//	    "message": "..."
//	  }
//	}
type Response struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries a machine-readable code alongside the human-readable
// message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Exit codes, one per error kind spec'd in gitmine's error taxonomy plus the
// generic catch-alls every CLI needs.
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitEnvironmentError = 2
	ExitGitError         = 3
	ExitNotCloned        = 4
	ExitFilterError      = 5
	ExitInvalidArguments = 6
)

// Machine-readable error codes for the JSON error envelope.
const (
	ErrCodeEnvironment     = "ENVIRONMENT_ERROR"
	ErrCodeGit             = "GIT_ERROR"
	ErrCodeNotCloned       = "NOT_CLONED"
	ErrCodeFilterError     = "FILTER_ERROR"
	ErrCodeInvalidArgument = "INVALID_ARGUMENTS"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// EmitSuccess writes a successful Response as JSON to stdout.
func EmitSuccess(data interface{}) {
	resp := Response{Success: true, Data: data}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp) //nolint:errcheck
}

// EmitError writes a failing Response as JSON to stdout and returns the
// process exit code the caller should use with os.Exit.
func EmitError(err error) int {
	resp := Response{
		Success: false,
		Error:   &ErrorDetail{Code: ErrorCode(err), Message: err.Error()},
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp) //nolint:errcheck
	return ExitCode(err)
}

// ExitCode maps a gitmine error to a process exit code.
func ExitCode(err error) int {
	var envErr *gitmine.EnvironmentError
	var gitErr *gitmine.GitError
	var notClonedErr *gitmine.NotClonedError
	var filterErr *gitmine.FilterError
	switch {
	case errors.As(err, &envErr):
		return ExitEnvironmentError
	case errors.As(err, &gitErr):
		return ExitGitError
	case errors.As(err, &notClonedErr):
		return ExitNotCloned
	case errors.As(err, &filterErr):
		return ExitFilterError
	default:
		return ExitGeneralError
	}
}

// ErrorCode maps a gitmine error to a machine-readable code string.
func ErrorCode(err error) string {
	var envErr *gitmine.EnvironmentError
	var gitErr *gitmine.GitError
	var notClonedErr *gitmine.NotClonedError
	var filterErr *gitmine.FilterError
	switch {
	case errors.As(err, &envErr):
		return ErrCodeEnvironment
	case errors.As(err, &gitErr):
		return ErrCodeGit
	case errors.As(err, &notClonedErr):
		return ErrCodeNotCloned
	case errors.As(err, &filterErr):
		return ErrCodeFilterError
	default:
		return ErrCodeInternal
	}
}

// Message prints a plain-text line for non-JSON output modes.
func Message(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}
