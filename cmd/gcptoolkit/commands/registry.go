package commands

import (
	"fmt"
	"os/exec"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"

	gcperrors "github.com/systmms/gcptoolkit/internal/errors"
)

const keyringService = "gcptoolkit"

// NewRegistryCommand builds the `registry` command group: diagnostics for
// the artifact registry the toolkit is distributed from.
func NewRegistryCommand(rt *Runtime, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Artifact registry diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHelp(cmd)
		},
	}

	cmd.AddCommand(
		newRegistryInfoCommand(version),
		newRegistryCheckAuthCommand(rt),
	)
	return cmd
}

func newRegistryInfoCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show toolkit version and build information",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "=== gcptoolkit registry information ===")
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "Current version: %s\n", version)

			if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Module: %s\n", info.Main.Path)
				if info.Main.Version != "" && info.Main.Version != "(devel)" {
					fmt.Fprintf(cmd.OutOrStdout(), "Module version: %s\n", info.Main.Version)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Go: %s\n", info.GoVersion)
			}
			return nil
		},
	}
}

func newRegistryCheckAuthCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "check-auth",
		Short: "Check registry authentication prerequisites",
		Long:  "Verify that an OS keyring backend is usable and that gcloud has an active account.",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Checking artifact registry authentication...")
			fmt.Fprintln(cmd.OutOrStdout())

			if err := probeKeyring(); err != nil {
				return gcperrors.UserError{
					Message:    "No usable OS keyring backend",
					Details:    err.Error(),
					Suggestion: "Install a keyring service (gnome-keyring or kwallet on Linux)",
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Success: OS keyring backend available")

			account, err := activeGcloudAccount()
			if err != nil {
				return gcperrors.UserError{
					Message:    "No active GCP authentication",
					Details:    err.Error(),
					Suggestion: "Authenticate with: gcloud auth login",
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Success: GCP authenticated as: %s\n", account)

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "Success: All authentication checks passed")
			return nil
		},
	}
}

// probeKeyring round-trips a throwaway entry through the OS keyring to prove
// a backend is actually usable, not merely linked in.
func probeKeyring() error {
	const probeUser = "auth-probe"

	if err := keyring.Set(keyringService, probeUser, "ok"); err != nil {
		return err
	}
	defer func() { _ = keyring.Delete(keyringService, probeUser) }()

	value, err := keyring.Get(keyringService, probeUser)
	if err != nil {
		return err
	}
	if value != "ok" {
		return fmt.Errorf("keyring returned unexpected value")
	}
	return nil
}

func activeGcloudAccount() (string, error) {
	out, err := exec.Command("gcloud", "auth", "list",
		"--filter=status:ACTIVE", "--format=value(account)").Output()
	if err != nil {
		return "", fmt.Errorf("gcloud auth list failed: %w", err)
	}

	account := strings.TrimSpace(string(out))
	if account == "" {
		return "", fmt.Errorf("no active account")
	}
	return account, nil
}
