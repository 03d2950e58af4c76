package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command
func NewCheckCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report .env files that differ from the configuration",
		Long: `Generate every .env file in memory, using the same layout as apply, and
compare it with the file on disk byte for byte. Missing files and missing,
changed or extra keys are reported; the command fails when anything is out
of date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, container)
		},
	}
}

func runCheck(cmd *cobra.Command, container *CLIContainer) error {
	ws := container.Workspace()
	checks, err := container.EnvService.Check(cmd.Context(), ws)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	stale := 0
	for _, c := range checks {
		path := displayPath(ws.RootDir, c.File.Path)
		if c.InSync() {
			printSuccess(out, "%s", path)
			continue
		}

		stale++
		if !c.Exists {
			printFailure(out, "%s is missing", path)
			continue
		}
		printFailure(out, "%s is out of date", path)
		if len(c.Missing) > 0 {
			printDetail(out, "missing: %s", strings.Join(c.Missing, ", "))
		}
		if len(c.Changed) > 0 {
			printDetail(out, "changed: %s", strings.Join(c.Changed, ", "))
		}
		if len(c.Extra) > 0 {
			printDetail(out, "extra: %s", strings.Join(c.Extra, ", "))
		}
		if len(c.Missing)+len(c.Changed)+len(c.Extra) == 0 {
			printDetail(out, "comments or formatting differ")
		}
	}

	if stale > 0 {
		return fmt.Errorf("%d of %d env file(s) out of date; run 'monoenv apply'", stale, len(checks))
	}
	printTitle(out, "All %d env file(s) up to date", len(checks))
	return nil
}
