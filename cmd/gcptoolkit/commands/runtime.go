// Package commands implements the gcptoolkit CLI commands.
package commands

import (
	"errors"

	"github.com/systmms/gcptoolkit/internal/config"
	"github.com/systmms/gcptoolkit/internal/logging"
	"github.com/systmms/gcptoolkit/internal/preferences"
	"github.com/systmms/gcptoolkit/internal/resolve"
)

// ErrUsageShown signals that help was already printed and the process should
// exit with the usage code, without another error line.
var ErrUsageShown = errors.New("usage shown")

// Runtime carries the shared dependencies into each command. It is filled in
// by the root command's PersistentPreRun once global flags are parsed.
type Runtime struct {
	Logger         *logging.Logger
	Prefs          *preferences.Store
	Loader         *config.Loader
	NonInteractive bool

	// SecretClient overrides the GCP-backed client when set. Tests use it to
	// resolve against a double instead of the network.
	SecretClient resolve.SecretClient
}

// Init builds the preferences store and config loader. Called from the root
// command after the logger is constructed.
func (rt *Runtime) Init(logger *logging.Logger) error {
	rt.Logger = logger

	prefs, err := preferences.NewStore(logger)
	if err != nil {
		return err
	}
	rt.Prefs = prefs

	loader, err := config.NewLoader(prefs, logger)
	if err != nil {
		return err
	}
	rt.Loader = loader
	return nil
}
