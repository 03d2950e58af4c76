package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"monoenv.dev/cli/internal/application/services"
	"monoenv.dev/cli/internal/infrastructure/settings"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// errNoCommand is returned when monoenv runs without a subcommand
var errNoCommand = errors.New("no command given")

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	EnvService *services.EnvService
	// LookupEnv reads MONOENV_* variables; usually os.LookupEnv
	LookupEnv func(string) (string, bool)
	// Settings is resolved before any command runs
	Settings      *settings.Resolved
	MainContainer interface{} // Will be set to *di.Container, avoiding circular import
}

// Workspace returns the workspace of the resolved settings
func (c *CLIContainer) Workspace() services.Workspace {
	if c.Settings == nil {
		return services.Workspace{RootDir: settings.Defaults().RootDir}
	}
	return services.Workspace{
		ConfigPath: c.Settings.ConfigPath,
		RootDir:    c.Settings.RootDir,
	}
}

// NewRootCommand RootCommand represents the base command when called without any subcommands
func NewRootCommand(container *CLIContainer) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "monoenv",
		Short: "monoenv - generate .env files for every app of a monorepo",
		Long: `monoenv reads one configuration document describing the environment
variables of every application in a monorepo and writes a .env file per
application and environment.

Shared values are declared once and referenced with ${shared:NAME}.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Resolve settings before any command runs
			if err := applySettings(cmd, container); err != nil {
				return fmt.Errorf("failed to resolve settings: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errNoCommand
		},
	}

	// Set custom version template
	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	// Add persistent flags
	rootCmd.PersistentFlags().String("config", "", "Config file path, relative to the working directory (default is monoenv.yaml, .yml, .json or .jsonc in the root)")
	rootCmd.PersistentFlags().String("root", "", "Monorepo root directory (default is the current directory)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (default warn)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(NewInitCommand(container))
	rootCmd.AddCommand(NewApplyCommand(container))
	rootCmd.AddCommand(NewGenerateCommand(container))
	rootCmd.AddCommand(NewValidateCommand(container))
	rootCmd.AddCommand(NewCheckCommand(container))

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// applySettings resolves settings from flags and MONOENV_* variables and hands
// them to the main container
func applySettings(cmd *cobra.Command, container *CLIContainer) error {
	var overrides settings.Overrides
	flags := cmd.Flags()

	// Only flags set explicitly override the environment
	if flags.Changed("config") {
		v, _ := flags.GetString("config")
		overrides.ConfigPath = &v
	}
	if flags.Changed("root") {
		v, _ := flags.GetString("root")
		overrides.RootDir = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		overrides.LogLevel = &v
	}
	if flags.Changed("debug") {
		v, _ := flags.GetBool("debug")
		overrides.Debug = &v
	}

	resolved, err := settings.Load(overrides, container.LookupEnv)
	if err != nil {
		return err
	}
	container.Settings = resolved

	// Type assert the MainContainer to reconfigure logging
	mainContainer, ok := container.MainContainer.(interface {
		ApplySettings(*settings.Resolved) error
	})
	if !ok {
		return nil
	}
	return mainContainer.ApplySettings(resolved)
}

// Execute runs the command tree and exits with status 1 on failure
func Execute(ctx context.Context, container *CLIContainer) {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
