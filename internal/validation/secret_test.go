package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gcperrors "github.com/systmms/gcptoolkit/internal/errors"
)

func TestSecretNameValid(t *testing.T) {
	valid := []string{
		"MY_SECRET",
		"api-key-prod",
		"DATABASE_PASSWORD_123",
		"a",
		"0",
		"_",
		"-",
		"mixed-Case_123",
	}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, SecretName(name))
		})
	}
}

func TestSecretNameInvalid(t *testing.T) {
	invalid := []string{
		"",
		"api.key",
		"MY SECRET",
		"test@prod",
		"pa$$word",
		"name!",
		"päss",
		"tab\tname",
	}
	for _, name := range invalid {
		t.Run(name, func(t *testing.T) {
			err := SecretName(name)
			require.Error(t, err)
			// Usage errors must map to exit code 2.
			assert.Equal(t, gcperrors.ExitUsage, gcperrors.ExitCode(err))
		})
	}
}

func TestSecretValue(t *testing.T) {
	assert.NoError(t, SecretValue("hunter2"))
	assert.NoError(t, SecretValue("  padded  "))

	for _, v := range []string{"", "   ", "\t\n"} {
		err := SecretValue(v)
		require.Error(t, err)
		assert.Equal(t, gcperrors.ExitUsage, gcperrors.ExitCode(err))
	}
}
