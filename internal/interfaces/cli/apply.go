package cli

import (
	"io"

	"github.com/spf13/cobra"

	"monoenv.dev/cli/internal/core/generate"
)

// NewApplyCommand creates the apply command
func NewApplyCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Write the .env files of every application",
		Long: `Generate the .env file of every application and environment and write it
in place.

A file goes to the environment's path, else the application's path, else
the application's directory when one exists under packages/, apps/ or the
root, else {app}.{env}.env in the root. Nothing is written if any
environment fails to generate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := container.Workspace()
			files, err := container.EnvService.Apply(cmd.Context(), ws)
			if err != nil {
				return err
			}
			printWritten(cmd.OutOrStdout(), ws.RootDir, files)
			return nil
		},
	}
}

func printWritten(w io.Writer, root string, files []generate.File) {
	for _, file := range files {
		printSuccess(w, "%s/%s → %s", file.App, file.Environment, displayPath(root, file.Path))
	}
	printTitle(w, "Generated %d env file(s)", len(files))
}
