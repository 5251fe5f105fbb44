package cli

import (
	"errors"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/bookkeeper/storage"
)

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitStorage = 2
)

// CommandError signals a command failure with a specific exit code.
// Commands return this after handling all output themselves.
type CommandError struct {
	exitCode int
}

// NewCommandError creates a new CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

func (e *CommandError) Error() string {
	return "command failed"
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}

// ExitCode maps err to a process exit code: ExitStorage for database
// failures, the code of a CommandError, and ExitFailure for everything else.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode()
	}

	var (
		storageErr   *storage.StorageError
		integrityErr *storage.IntegrityError
	)
	if errors.As(err, &storageErr) || errors.As(err, &integrityErr) {
		return ExitStorage
	}
	return ExitFailure
}

// Execute runs the parsed command, prints any error it returns to stderr and
// returns the exit code. Main centralizes exit handling here instead of
// commands calling os.Exit.
func Execute(kctx *kong.Context) int {
	err := kctx.Run()
	if err == nil {
		return ExitOK
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		printError(kctx.Stderr, RenderError(err))
	}
	return ExitCode(err)
}
