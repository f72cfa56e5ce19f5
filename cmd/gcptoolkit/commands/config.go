package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/systmms/gcptoolkit/internal/config"
	gcperrors "github.com/systmms/gcptoolkit/internal/errors"
	"github.com/systmms/gcptoolkit/internal/preferences"
)

// NewConfigCommand builds the `config` command group managing the config
// file path preference.
func NewConfigCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long: `Manage where gcptoolkit looks for its config file.

The effective path is resolved in this order:
  1. The ` + config.EnvConfigPath + ` environment variable
  2. The config_path preference (set with 'config set-path')
  3. The default location under the user config directory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHelp(cmd)
		},
	}

	cmd.AddCommand(
		newConfigSetPathCommand(rt),
		newConfigShowCommand(rt),
		newConfigClearCommand(rt),
		newConfigInitCommand(rt),
	)
	return cmd
}

func newConfigSetPathCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "set-path <path>",
		Short: "Set the config file path",
		Long:  "Store the config file path in the preferences file. The path is validated and stored absolute.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return gcperrors.UserError{
					Message: fmt.Sprintf("Cannot resolve path: %s", args[0]),
					Err:     err,
				}
			}

			info, err := os.Stat(path)
			if err != nil {
				return gcperrors.UserError{
					Message:    fmt.Sprintf("Config file does not exist: %s", path),
					Suggestion: "Create the file first, or check the path for typos",
				}
			}
			if info.IsDir() {
				return gcperrors.UserError{
					Message:    fmt.Sprintf("Path is not a file: %s", path),
					Suggestion: "Point at the config file itself, not its directory",
				}
			}

			if err := rt.Prefs.Set(preferences.KeyConfigPath, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Config path set to: %s\n", path)
			return nil
		},
	}
}

func newConfigShowCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective config path",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, source, exists := rt.Loader.EffectivePath()

			if exists {
				fmt.Fprintf(cmd.OutOrStdout(), "Config path: %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Config path: %s (file not found)\n", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Source: %s\n", source)
			return nil
		},
	}
}

func newConfigClearCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the config path preference",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.Prefs.Clear(preferences.KeyConfigPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config path preference cleared. Will use default: %s\n", rt.Loader.DefaultPath())
			return nil
		},
	}
}

func newConfigInitCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactive config setup",
		Long: `Set up the gcptoolkit configuration interactively.

Options:
  1. Copy an existing config file to the default location
  2. Point the preference at an existing config file elsewhere
  3. Cancel and create the config file manually`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.NonInteractive {
				return gcperrors.ValidationError{
					Field:   "mode",
					Message: "'config init' is interactive",
					Detail:  "Use 'config set-path <path>' in scripts instead",
				}
			}
			return runConfigInit(rt, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runConfigInit(rt *Runtime, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	defaultPath := rt.Loader.DefaultPath()

	fmt.Fprintf(out, "=== gcptoolkit configuration setup ===\n\n")
	fmt.Fprintf(out, "Default config location: %s\n\n", defaultPath)

	if _, err := os.Stat(defaultPath); err == nil {
		fmt.Fprintf(out, "Configuration file already exists at: %s\n", defaultPath)
		answer, err := prompt(reader, out, "Do you want to use a different config file? (y/N): ")
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") {
			fmt.Fprintf(out, "\nUsing existing config at: %s\n", defaultPath)
			return nil
		}
	}

	fmt.Fprintln(out, "Choose an option:")
	fmt.Fprintln(out, "1. Copy an existing config file to the default location")
	fmt.Fprintln(out, "2. Point to an existing config file at a different location")
	fmt.Fprintln(out, "3. Cancel (manually create config file later)")

	choice, err := prompt(reader, out, "\nEnter choice (1-3): ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		sourcePath, err := prompt(reader, out, "Enter path to existing config file: ")
		if err != nil {
			return err
		}
		source, err := filepath.Abs(sourcePath)
		if err != nil {
			return gcperrors.UserError{Message: "Cannot resolve path: " + sourcePath, Err: err}
		}
		if err := copyFile(source, defaultPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nConfig copied to: %s\n", defaultPath)
		return nil

	case "2":
		configPath, err := prompt(reader, out, "Enter path to config file: ")
		if err != nil {
			return err
		}
		path, err := filepath.Abs(configPath)
		if err != nil {
			return gcperrors.UserError{Message: "Cannot resolve path: " + configPath, Err: err}
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return gcperrors.UserError{
				Message:    "File not found: " + path,
				Suggestion: "Create the config file first",
			}
		}
		if err := rt.Prefs.Set(preferences.KeyConfigPath, path); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nConfig path set to: %s\n", path)
		return nil

	case "3":
		fmt.Fprintln(out, "\nSetup cancelled.")
		fmt.Fprintf(out, "Create your config file at: %s\n", defaultPath)
		fmt.Fprintln(out, "Or use: gcptoolkit config set-path <path>")
		return nil

	default:
		return gcperrors.ValidationError{
			Field:   "choice",
			Value:   choice,
			Message: "expected 1, 2, or 3",
		}
	}
}

func prompt(reader *bufio.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", gcperrors.UserError{
			Message:    "No input available",
			Suggestion: "Run without --non-interactive in a terminal",
			Err:        err,
		}
	}
	return strings.TrimSpace(line), nil
}

func copyFile(source, dest string) error {
	info, err := os.Stat(source)
	if err != nil || info.IsDir() {
		return gcperrors.UserError{
			Message:    "File not found: " + source,
			Suggestion: "Check the path for typos",
		}
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return gcperrors.UserError{Message: "Failed to read " + source, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o700); err != nil {
		return gcperrors.UserError{Message: "Failed to create " + filepath.Dir(dest), Err: err}
	}
	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return gcperrors.UserError{Message: "Failed to write " + dest, Err: err}
	}
	return nil
}
