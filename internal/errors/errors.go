// Package errors defines the user-facing error types for gcptoolkit and the
// mapping from errors to process exit codes.
//
// Exit code contract:
//
//	0 - success
//	1 - runtime failure (secret/config/auth not found, I/O failure)
//	2 - usage failure (bad arguments, invalid secret name format)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes used by the CLI.
const (
	ExitOK      = 0
	ExitRuntime = 1
	ExitUsage   = 2
)

// ValidationError reports malformed user input, such as an illegal secret
// name. It always maps to exit code 2 and is never retried.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Detail  string
}

func (e ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s", e.Field)
	if e.Value != "" {
		msg += fmt.Sprintf(" '%s'", e.Value)
	}
	msg += ": " + e.Message
	if e.Detail != "" {
		msg += "\n" + e.Detail
	}
	return msg
}

// ConfigNotFoundError reports that no config file could be located in any of
// the search locations. Carries remediation instructions.
type ConfigNotFoundError struct {
	Searched []string
}

func (e ConfigNotFoundError) Error() string {
	msg := "configuration file not found"
	if len(e.Searched) > 0 {
		msg += " in:\n  " + strings.Join(e.Searched, "\n  ")
	}
	msg += "\n  💡 Try: create the config file, or point at one with 'gcptoolkit config set-path <path>'"
	return msg
}

// ConfigInvalidError reports a config file that was found but failed schema
// validation.
type ConfigInvalidError struct {
	Path    string
	Message string
	Detail  string
}

func (e ConfigInvalidError) Error() string {
	msg := fmt.Sprintf("invalid configuration at %s: %s", e.Path, e.Message)
	if e.Detail != "" {
		msg += "\n  💡 " + e.Detail
	}
	return msg
}

// PreferenceWriteError reports a failure to persist the preferences file.
// Fatal: disk-full and permission problems must surface, not be swallowed.
type PreferenceWriteError struct {
	Path string
	Err  error
}

func (e PreferenceWriteError) Error() string {
	return fmt.Sprintf("failed to write preferences to %s: %v", e.Path, e.Err)
}

func (e PreferenceWriteError) Unwrap() error {
	return e.Err
}

// UserError is a generic runtime error with helpful context for the user.
type UserError struct {
	Message    string
	Details    string
	Suggestion string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error to the CLI exit code. nil maps to ExitOK.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		return ExitUsage
	}

	return ExitRuntime
}

// GCPSuggestion returns an actionable hint for a GCP Secret Manager API
// failure, keyed off the error text.
func GCPSuggestion(err error) string {
	if err == nil {
		return ""
	}
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "PermissionDenied"):
		return "Check IAM permissions: secretmanager.secrets.get, secretmanager.versions.access"
	case strings.Contains(errStr, "NotFound"):
		return "Verify the secret name and project ID. Check that the secret exists"
	case strings.Contains(errStr, "Unauthenticated"):
		return "Check authentication: verify the service account file in your config, or run 'gcloud auth application-default login'"
	case strings.Contains(errStr, "InvalidArgument"):
		return "Check the secret name format"
	case strings.Contains(errStr, "ResourceExhausted"):
		return "Request was throttled. Wait a moment and try again"
	case strings.Contains(errStr, "DeadlineExceeded"), strings.Contains(errStr, "timeout"):
		return "The request timed out. Check your network connection"
	case strings.Contains(errStr, "project"):
		return "Check that the project ID is correct and the project exists"
	default:
		return "Check GCP credentials, project ID, and IAM permissions for Secret Manager"
	}
}
