package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/gcptoolkit/internal/cache"
	gcperrors "github.com/systmms/gcptoolkit/internal/errors"
	"github.com/systmms/gcptoolkit/internal/gcpclient"
	"github.com/systmms/gcptoolkit/internal/resolve"
	"github.com/systmms/gcptoolkit/internal/validation"
)

// NewSecretsCommand builds the `secrets` command group.
func NewSecretsCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Secret management operations",
		Long:  "Fetch secrets from GCP Secret Manager, with environment variable fast path and in-process caching.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHelp(cmd)
		},
	}

	cmd.AddCommand(newSecretsGetCommand(rt))
	return cmd
}

func newSecretsGetCommand(rt *Runtime) *cobra.Command {
	var (
		projectID string
		quiet     bool
	)

	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Get a secret value",
		Long: `Fetch a secret, checking the process environment first and falling back
to GCP Secret Manager.

Resolution order:
  1. An environment variable named exactly like the secret (fast path,
     skips GCP entirely)
  2. The in-process cache
  3. GCP Secret Manager (latest version, project from --project-id,
     GCP_PROJECT, or the config file)

The secret value is printed to stdout. In quiet mode (-q) only the value is
printed and fetch warnings are suppressed, for use in scripts:

  export DB_HOST=$(gcptoolkit secrets get -q DB_HOST)

Exit codes:
  0 - secret found and printed
  1 - secret not found (not in GCP or environment)
  2 - invalid secret name format`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secretName := args[0]

			if err := validation.SecretName(secretName); err != nil {
				return err
			}

			client := rt.SecretClient
			if client == nil {
				gc := gcpclient.New(rt.Loader, rt.Logger)
				defer func() { _ = gc.Close() }()
				client = gc
			}

			resolver := resolve.New(cache.New(), client, rt.Logger)

			value, ok := resolver.Resolve(context.Background(), secretName, projectID, quiet)
			if !ok {
				return gcperrors.UserError{
					Message:    fmt.Sprintf("Secret '%s' not found in GCP or env", secretName),
					Suggestion: "Check the secret name, project ID, and your config ('gcptoolkit config show')",
				}
			}

			if quiet {
				fmt.Fprintln(cmd.OutOrStdout(), value)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Secret '%s': %s\n", secretName, value)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project-id", "", "GCP project ID (auto-detected from GCP_PROJECT or config file if not set)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Output only the secret value and suppress warnings")

	return cmd
}
