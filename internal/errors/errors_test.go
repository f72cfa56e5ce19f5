package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil is success", err: nil, want: ExitOK},
		{
			name: "validation error is usage failure",
			err:  ValidationError{Field: "secret name", Value: "api.key", Message: "bad characters"},
			want: ExitUsage,
		},
		{
			name: "wrapped validation error is usage failure",
			err:  fmt.Errorf("checking input: %w", ValidationError{Field: "secret name", Message: "empty"}),
			want: ExitUsage,
		},
		{
			name: "config not found is runtime failure",
			err:  ConfigNotFoundError{Searched: []string{"/tmp/config.yml"}},
			want: ExitRuntime,
		},
		{
			name: "config invalid is runtime failure",
			err:  ConfigInvalidError{Path: "/tmp/config.yml", Message: "empty"},
			want: ExitRuntime,
		},
		{
			name: "preference write failure is runtime failure",
			err:  PreferenceWriteError{Path: "/tmp/preferences.json", Err: errors.New("disk full")},
			want: ExitRuntime,
		},
		{
			name: "plain error is runtime failure",
			err:  errors.New("boom"),
			want: ExitRuntime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{
		Field:   "secret name",
		Value:   "my secret",
		Message: "contains illegal characters",
		Detail:  "Allowed characters: letters, numbers, underscores (_), hyphens (-)",
	}
	assert.Contains(t, err.Error(), "invalid secret name 'my secret'")
	assert.Contains(t, err.Error(), "illegal characters")
	assert.Contains(t, err.Error(), "Allowed characters")
}

func TestConfigNotFoundErrorRemediation(t *testing.T) {
	err := ConfigNotFoundError{Searched: []string{"/a/config.yml", "/b/config.yml"}}
	assert.Contains(t, err.Error(), "/a/config.yml")
	assert.Contains(t, err.Error(), "/b/config.yml")
	assert.Contains(t, err.Error(), "config set-path")
}

func TestUserErrorFormatting(t *testing.T) {
	err := UserError{
		Message:    "Failed to access secret",
		Details:    "rpc error: code = PermissionDenied",
		Suggestion: "Check IAM permissions",
	}
	s := err.Error()
	assert.Contains(t, s, "Failed to access secret")
	assert.Contains(t, s, "Details: rpc error")
	assert.Contains(t, s, "Try: Check IAM permissions")
}

func TestPreferenceWriteErrorUnwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := PreferenceWriteError{Path: "/etc/prefs.json", Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestGCPSuggestion(t *testing.T) {
	tests := []struct {
		err  string
		want string
	}{
		{err: "rpc error: code = PermissionDenied", want: "IAM permissions"},
		{err: "rpc error: code = NotFound", want: "Verify the secret name"},
		{err: "rpc error: code = Unauthenticated", want: "service account"},
		{err: "something else entirely", want: "Check GCP credentials"},
	}
	for _, tt := range tests {
		assert.Contains(t, GCPSuggestion(errors.New(tt.err)), tt.want)
	}
	assert.Empty(t, GCPSuggestion(nil))
}
