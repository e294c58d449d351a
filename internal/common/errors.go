// Package common provides shared error types, logging helpers and retry
// logic used across midscope.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Input errors. The file or the flags do not describe anything to inspect.
var (
	ErrNoFile       = errors.New("no input file given")
	ErrMIDRequired  = errors.New("merchant identifier (MID) is required")
	ErrMIDNotFound  = errors.New("no transactions for MID")
	ErrEmptyDataset = errors.New("file contains no transactions with a MID")
)

// Export errors.
var (
	ErrUnknownTarget = errors.New("unknown export target")
	ErrExportFailed  = errors.New("export failed")
)

// Configuration errors.
var (
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Process exit codes, one per error class.
const (
	ExitFailure = 1
	ExitInput   = 2
	ExitConfig  = 3
	ExitExport  = 4
)

type errorClass struct {
	hint     string
	sentinel error
	code     int
}

// classes is checked in order; the first sentinel found in the chain wins.
var classes = []errorClass{
	{sentinel: ErrNoFile, code: ExitInput, hint: "Pass a CSV, XLSX or XLS file as the first argument."},
	{sentinel: ErrMIDRequired, code: ExitInput, hint: "Run `midscope mids FILE` to list the merchants in the file."},
	{sentinel: ErrMIDNotFound, code: ExitInput, hint: "Run `midscope mids FILE` to list the merchants in the file."},
	{sentinel: ErrEmptyDataset, code: ExitInput, hint: "Check that the file has a MID column and at least one data row."},
	{sentinel: ErrMissingConfig, code: ExitConfig, hint: "Add a sheets section to ~/.config/midscope/config.yaml."},
	{sentinel: ErrInvalidConfig, code: ExitConfig},
	{sentinel: ErrUnknownTarget, code: ExitExport},
	{sentinel: ErrExportFailed, code: ExitExport},
}

func classify(err error) (errorClass, bool) {
	for _, c := range classes {
		if errors.Is(err, c.sentinel) {
			return c, true
		}
	}
	return errorClass{}, false
}

// ExitCode maps err to the process exit status. Nil is 0 and errors outside
// the known classes are ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if c, ok := classify(err); ok {
		return c.code
	}
	return ExitFailure
}

// Hint suggests a next step for err, or "" when there is none.
func Hint(err error) string {
	c, _ := classify(err)
	return c.hint
}

// UserError pairs an underlying error with a sentence fit for the terminal.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.UserMessage
	}
	return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError wraps err with message. The sentinel inside err still decides
// the exit code.
func NewUserError(message string, err error) error {
	return &UserError{UserMessage: message, Err: err}
}

// UserMessage returns the message meant for the user: the UserMessage of
// the outermost UserError in the chain, or err's own text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.UserMessage
	}
	return err.Error()
}

// IsRetryable reports whether a failed remote call is worth another attempt.
// Deadline overruns and rate limits are; a RetryableError says for itself.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var re *RetryableError
	return errors.As(err, &re) && re.Retryable
}
