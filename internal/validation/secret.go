// Package validation checks user input before any remote or filesystem work.
package validation

import (
	"regexp"
	"strings"

	gcperrors "github.com/systmms/gcptoolkit/internal/errors"
)

// GCP Secret Manager secret IDs allow letters, digits, underscores and
// hyphens only.
var secretNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const secretNameHint = `Allowed characters: letters, numbers, underscores (_), hyphens (-)
Not allowed: dots (.), spaces, special characters (@, $, !, etc.)

Examples of valid names:
  ✓ MY_SECRET
  ✓ api-key-prod
  ✓ DATABASE_PASSWORD_123`

// SecretName validates a secret name against the GCP Secret Manager naming
// rules. Returns a ValidationError (exit code 2) on failure.
func SecretName(name string) error {
	if name == "" {
		return gcperrors.ValidationError{
			Field:   "secret name",
			Message: "secret name cannot be empty",
			Detail:  secretNameHint,
		}
	}

	if !secretNamePattern.MatchString(name) {
		return gcperrors.ValidationError{
			Field:   "secret name",
			Value:   name,
			Message: "contains illegal characters",
			Detail:  secretNameHint,
		}
	}

	return nil
}

// SecretValue rejects empty or all-whitespace values. GCP Secret Manager
// does not allow empty secret payloads.
func SecretValue(value string) error {
	if strings.TrimSpace(value) == "" {
		return gcperrors.ValidationError{
			Field:   "secret value",
			Message: "secret value cannot be empty",
			Detail:  "GCP Secret Manager does not allow empty secret payloads.\nIf you need a placeholder, use a special value like 'UNSET' or 'TODO'.",
		}
	}
	return nil
}
