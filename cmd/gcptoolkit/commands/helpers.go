package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	gcperrors "github.com/systmms/gcptoolkit/internal/errors"
)

// exactArgs is cobra.ExactArgs with the error typed as a usage failure so
// the process exits 2 instead of 1.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return gcperrors.ValidationError{
				Field:   "arguments",
				Message: fmt.Sprintf("'%s' expects %d argument(s), got %d", cmd.CommandPath(), n, len(args)),
			}
		}
		return nil
	}
}

// showHelp prints the command's help and signals a usage exit. Used by
// command groups invoked without a subcommand.
func showHelp(cmd *cobra.Command) error {
	_ = cmd.Help()
	return ErrUsageShown
}
