package di

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monoenv.dev/cli/internal/application/ports"
	"monoenv.dev/cli/internal/application/services"
	"monoenv.dev/cli/internal/infrastructure/settings"
)

func TestNewContainerWithFs_WiresServices(t *testing.T) {
	fs := afero.NewMemMapFs()
	container, err := NewContainerWithFs(fs, &bytes.Buffer{})
	require.NoError(t, err)

	require.NotNil(t, container.EnvService)
	require.NotNil(t, container.GetCLIContainer())
	assert.Same(t, container.EnvService, container.GetCLIContainer().EnvService)
	assert.Same(t, container, container.GetCLIContainer().MainContainer)

	ctx := context.Background()
	require.NoError(t, container.EnvService.Init(ctx, "/repo/monoenv.yaml"))
	files, err := container.EnvService.Apply(ctx, services.Workspace{RootDir: "/repo"})
	require.NoError(t, err)
	assert.NotEmpty(t, files)

	exists, err := afero.Exists(fs, "/repo/apps/backend/.env.local")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestApplySettings_ControlsLogLevel(t *testing.T) {
	tests := []struct {
		name       string
		settings   settings.Settings
		wantInfo   bool
		wantDebug  bool
		wantErrors bool
	}{
		{
			name:       "default_warn",
			settings:   settings.Settings{LogLevel: "warn"},
			wantErrors: true,
		},
		{
			name:       "info",
			settings:   settings.Settings{LogLevel: "info"},
			wantInfo:   true,
			wantErrors: true,
		},
		{
			name:       "debug_flag_wins",
			settings:   settings.Settings{LogLevel: "error", Debug: true},
			wantInfo:   true,
			wantDebug:  true,
			wantErrors: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			container, err := NewContainerWithFs(afero.NewMemMapFs(), &buf)
			require.NoError(t, err)
			require.NoError(t, container.ApplySettings(&settings.Resolved{Settings: tt.settings}))
			buf.Reset()

			adapter := &loggingGatewayAdapter{logger: &container.Logger}
			adapter.Log(ports.LogLevelInfo, "info message", map[string]interface{}{"app": "api"})
			adapter.Log(ports.LogLevelDebug, "debug message", nil)
			adapter.LogError(errors.New("boom"), "error message", nil)

			out := buf.String()
			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info message")), out)
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug message")), out)
			assert.Equal(t, tt.wantErrors, bytes.Contains(buf.Bytes(), []byte("error message")), out)
		})
	}
}

func TestApplySettings_LogsSources(t *testing.T) {
	var buf bytes.Buffer
	container, err := NewContainerWithFs(afero.NewMemMapFs(), &buf)
	require.NoError(t, err)

	resolved := &settings.Resolved{
		Settings: settings.Settings{RootDir: "/repo", LogLevel: "warn", Debug: true},
		Sources: map[string]settings.Source{
			"config":    settings.SourceDefault,
			"root":      settings.SourceFlag,
			"log_level": settings.SourceEnv,
			"debug":     settings.SourceFlag,
		},
	}
	require.NoError(t, container.ApplySettings(resolved))

	out := buf.String()
	assert.Contains(t, out, "Settings applied")
	assert.Contains(t, out, "sources")
	assert.Contains(t, out, `"root":"flag"`)
	assert.Contains(t, out, `"log_level":"env"`)
}

func TestGetVersion(t *testing.T) {
	container, err := NewContainerWithFs(afero.NewMemMapFs(), &bytes.Buffer{})
	require.NoError(t, err)

	version := container.GetVersion()
	assert.Contains(t, version, "version")
	assert.Contains(t, version, "build_time")
	assert.NoError(t, container.Shutdown(context.Background()))
}
