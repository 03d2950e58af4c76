package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

// defaultConfigName is the document created by init when no path is given
const defaultConfigName = "monoenv.yaml"

// NewInitCommand creates the init command
func NewInitCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create a starter configuration",
		Long: `Create a starter configuration document with a shared variable, an
application in the extended form and one in the legacy form.

A relative path is taken from the root, unlike --config. The format follows
the file extension: .json and .jsonc produce JSON, anything else YAML. The
command fails if the file already exists.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := defaultConfigName
			if len(args) == 1 {
				name = args[0]
			}
			return runInit(cmd, container, name)
		},
	}
}

func runInit(cmd *cobra.Command, container *CLIContainer, name string) error {
	root := container.Workspace().RootDir
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	if err := container.EnvService.Init(cmd.Context(), path); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSuccess(out, "Created %s", displayPath(root, path))
	printDetail(out, "Edit it, then run 'monoenv apply' to write your .env files")
	return nil
}
