package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command
func NewValidateCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Long: `Validate the configuration document without writing anything.

This command will:
- Check the document against the configuration schema
- Report shared variables that nothing references
- Fail on placeholders naming undeclared shared variables`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, container)
		},
	}
}

// runValidate handles the validation process
func runValidate(cmd *cobra.Command, container *CLIContainer) error {
	ws := container.Workspace()
	report, err := container.EnvService.Validate(cmd.Context(), ws)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printTitle(out, "Configuration %s", displayPath(ws.RootDir, report.Path))
	printDetail(out, "%d application(s), %d environment(s), %d variable(s)",
		report.Apps, report.Environments, report.Variables)

	for _, name := range report.UnusedShared {
		printWarning(out, "Shared variable '%s' is never referenced", name)
	}
	for _, ref := range report.Undefined {
		printFailure(out, "%s/%s %s references undefined shared variable '%s'",
			ref.App, ref.Environment, ref.Variable, ref.Name)
	}

	if len(report.Undefined) > 0 {
		return fmt.Errorf("%d reference(s) to undefined shared variables", len(report.Undefined))
	}
	printSuccess(out, "Configuration is valid")
	return nil
}
