package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/systmms/gcptoolkit/cmd/gcptoolkit/commands"
	gcperrors "github.com/systmms/gcptoolkit/internal/errors"
	"github.com/systmms/gcptoolkit/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		noColor        bool
		debugFlag      bool
		nonInteractive bool
	)

	rt := &commands.Runtime{}

	rootCmd := &cobra.Command{
		Use:   "gcptoolkit",
		Short: "GCP Secret Manager toolkit",
		Long: `gcptoolkit fetches named secrets from GCP Secret Manager, with an
environment variable fast path for local development and a config file
holding the service account and project.

Exit codes:
  0 - success
  1 - runtime error (authentication, network, secret not found)
  2 - usage error (invalid arguments, invalid secret name format)

Environment variables:
  GCP_PROJECT        - GCP project ID (overrides the config file)
  GCPTOOLKIT_CONFIG  - config file path (overrides the preference)`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(debugFlag, noColor)
			rt.NonInteractive = nonInteractive
			return rt.Init(logger)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return commands.ErrUsageShown
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Non-interactive mode")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return gcperrors.ValidationError{Field: "arguments", Message: err.Error()}
	})

	rootCmd.AddCommand(
		commands.NewSecretsCommand(rt),
		commands.NewConfigCommand(rt),
		commands.NewRegistryCommand(rt, version),
	)

	err := rootCmd.Execute()
	if err == nil {
		return gcperrors.ExitOK
	}
	if errors.Is(err, commands.ErrUsageShown) {
		return gcperrors.ExitUsage
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	// cobra reports unknown subcommands as plain errors
	if strings.HasPrefix(err.Error(), "unknown command") {
		return gcperrors.ExitUsage
	}
	return gcperrors.ExitCode(err)
}
