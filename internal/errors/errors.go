// Package errors holds the sentinel errors shared by the storage and CLI
// layers and the helpers that print them at the top level.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/weekgrid/internal/logger"
)

var (
	ErrNotFound        = stderrors.New("not found")
	ErrAlreadyExists   = stderrors.New("already exists")
	ErrFixedSlot       = stderrors.New("fixed slots cannot be changed")
	ErrEmptySlot       = stderrors.New("slot is empty")
	ErrNotInitialized  = stderrors.New("storage not initialized, run 'weekgrid init' first")
	ErrEmbeddedSecrets = stderrors.New("connection string must not embed credentials")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs err and exits with status 1. A nil error is a no-op.
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
