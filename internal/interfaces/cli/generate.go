package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// GenerateFlags holds the flags of the generate command
type GenerateFlags struct {
	All    bool
	Output string
	Stdout bool
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand(container *CLIContainer) *cobra.Command {
	flags := &GenerateFlags{}

	cmd := &cobra.Command{
		Use:   "generate [APP ENV]",
		Short: "Generate .env files without auto-detection",
		Long: `Generate the .env file of one application environment, or of all of them
with --all.

Path hints from the configuration are honored. Files without one are named
{app}.{env}.env inside the output directory; application directories are
never auto-detected.`,
		Example: `  monoenv generate --all --output env
  monoenv generate backend local
  monoenv generate backend production --stdout`,
		Args: func(cmd *cobra.Command, args []string) error {
			if flags.All {
				if len(args) != 0 {
					return fmt.Errorf("--all does not take arguments, received %d", len(args))
				}
				if flags.Stdout {
					return fmt.Errorf("--stdout cannot be combined with --all")
				}
				return nil
			}
			if len(args) != 2 {
				return fmt.Errorf("expected APP and ENV arguments or --all, received %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.All {
				return runGenerateAll(cmd, container, flags)
			}
			return runGenerateOne(cmd, container, args[0], args[1], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.All, "all", false, "Generate every application environment")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Directory for files without a path hint (default is the root)")
	cmd.Flags().BoolVar(&flags.Stdout, "stdout", false, "Print the file instead of writing it")

	return cmd
}

func runGenerateAll(cmd *cobra.Command, container *CLIContainer, flags *GenerateFlags) error {
	ws := container.Workspace()
	files, err := container.EnvService.GenerateAll(cmd.Context(), ws, flags.Output)
	if err != nil {
		return err
	}
	printWritten(cmd.OutOrStdout(), ws.RootDir, files)
	return nil
}

func runGenerateOne(cmd *cobra.Command, container *CLIContainer, app, env string, flags *GenerateFlags) error {
	ws := container.Workspace()
	file, err := container.EnvService.GenerateOne(cmd.Context(), ws, app, env, flags.Output, !flags.Stdout)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.Stdout {
		_, err := io.WriteString(out, file.Content)
		return err
	}
	printSuccess(out, "%s/%s → %s", file.App, file.Environment, displayPath(ws.RootDir, file.Path))
	return nil
}
