package di

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"monoenv.dev/cli/internal/application/ports"
	"monoenv.dev/cli/internal/application/services"
	"monoenv.dev/cli/internal/infrastructure/document"
	"monoenv.dev/cli/internal/infrastructure/settings"
	"monoenv.dev/cli/internal/infrastructure/workspace"
	"monoenv.dev/cli/internal/interfaces/cli"
	"monoenv.dev/cli/internal/logging"
)

// Container holds all application dependencies
type Container struct {
	// Filesystem every collaborator reads and writes through
	Fs afero.Fs

	// Infrastructure
	Loader    *document.Loader
	Writer    *workspace.Writer
	Detector  *workspace.Detector
	EnvReader *workspace.EnvReader
	Templates *workspace.Templates

	// Application services
	EnvService *services.EnvService

	// CLI
	CLIContainer *cli.CLIContainer

	// Logger
	Logger zerolog.Logger
}

// NewContainer creates a container over the operating system filesystem
func NewContainer() (*Container, error) {
	return NewContainerWithFs(afero.NewOsFs(), os.Stderr)
}

// NewContainerWithFs creates a container over fs, logging to logOutput
func NewContainerWithFs(fs afero.Fs, logOutput io.Writer) (*Container, error) {
	cfg := logging.DefaultConfig()
	cfg.Output = logOutput

	container := &Container{
		Fs:     fs,
		Logger: logging.New(cfg),
	}
	container.initializeComponents()
	return container, nil
}

// initializeComponents initializes all components with proper dependencies
func (c *Container) initializeComponents() {
	// 1. Infrastructure, all over the same filesystem
	c.Loader = document.NewLoader(c.Fs)
	c.Writer = workspace.NewWriter(c.Fs)
	c.Detector = workspace.NewDetector(c.Fs)
	c.EnvReader = workspace.NewEnvReader(c.Fs)
	c.Templates = workspace.NewTemplates(c.Fs)

	// 2. Application services
	c.EnvService = services.NewEnvService(
		c.Loader,
		c.Writer,
		c.Detector,
		c.EnvReader,
		c.Templates,
		&loggingGatewayAdapter{logger: &c.Logger},
	)

	// 3. CLI container
	c.CLIContainer = &cli.CLIContainer{
		EnvService:    c.EnvService,
		LookupEnv:     os.LookupEnv,
		MainContainer: c, // Reference to self for settings overrides
	}

	c.Logger.Debug().Msg("Dependency injection container initialized")
}

// GetCLIContainer returns the CLI container for command execution
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}

// ApplySettings reconfigures the logger from resolved runtime settings
func (c *Container) ApplySettings(r *settings.Resolved) error {
	level := logging.ParseLevel(r.LogLevel)
	if r.Debug {
		level = logging.DebugLevel
	}
	c.Logger = c.Logger.Level(level)
	c.Logger.Debug().
		Str("root", r.RootDir).
		Str("config", r.ConfigPath).
		Interface("sources", r.Sources).
		Msg("Settings applied")
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	c.Logger.Debug().Msg("Shutting down")
	return nil
}

// GetVersion returns version information
func (c *Container) GetVersion() map[string]string {
	return map[string]string{
		"version":    cli.Version,
		"build_time": cli.BuildTime,
	}
}

// loggingGatewayAdapter adapts zerolog to the LoggingGateway interface
type loggingGatewayAdapter struct {
	logger *zerolog.Logger
}

func (l *loggingGatewayAdapter) Log(level ports.LogLevel, message string, fields map[string]interface{}) {
	var event *zerolog.Event
	switch level {
	case ports.LogLevelError:
		event = l.logger.Error()
	case ports.LogLevelWarn:
		event = l.logger.Warn()
	case ports.LogLevelDebug:
		event = l.logger.Debug()
	default:
		event = l.logger.Info()
	}
	if fields != nil {
		event = event.Fields(fields)
	}
	event.Msg(message)
}

func (l *loggingGatewayAdapter) LogError(err error, message string, fields map[string]interface{}) {
	event := l.logger.Error().Err(err)
	if fields != nil {
		event = event.Fields(fields)
	}
	event.Msg(message)
}
