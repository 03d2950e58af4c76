package pathing

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestDetermineFilename(t *testing.T) {
	tests := []struct {
		environment string
		want        string
	}{
		{"local", ".env.local"},
		{"production", ".env"},
		{"staging", ".env.staging"},
		{"development", ".env.development"},
		{"test", ".env.test"},
		{"Production", ".env.Production"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineFilename(tt.environment))
		})
	}
}

// TestDetermineFilename_PropertyBased checks the filename law for arbitrary names
func TestDetermineFilename_PropertyBased(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		env := rapid.OneOf(
			rapid.SampledFrom([]string{"local", "production"}),
			rapid.StringMatching(`[a-zA-Z0-9_-]{1,16}`),
		).Draw(t, "environment")

		got := DetermineFilename(env)
		assert.Equal(t, env == "local", got == ".env.local")
		assert.Equal(t, env == "production", got == ".env")
		if env != "local" && env != "production" {
			assert.Equal(t, ".env."+env, got)
		}
	})
}

func TestResolveOutputPath(t *testing.T) {
	root := filepath.FromSlash("/work/repo")
	out := filepath.FromSlash("/work/out")

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "environment_path_wins",
			req: Request{App: "backend", Environment: "local", EnvironmentPath: "apps/backend",
				AppPath: "services/backend", DetectedDir: "/detected", OutputDir: out, RootDir: root},
			want: "/work/repo/apps/backend/.env.local",
		},
		{
			name: "app_path_over_detected",
			req: Request{App: "backend", Environment: "production", AppPath: "services/backend",
				DetectedDir: "/detected", OutputDir: out, RootDir: root},
			want: "/work/repo/services/backend/.env",
		},
		{
			name: "detected_dir",
			req: Request{App: "backend", Environment: "staging", DetectedDir: "/work/repo/packages/backend",
				OutputDir: out, RootDir: root},
			want: "/work/repo/packages/backend/.env.staging",
		},
		{
			name: "flat_fallback",
			req:  Request{App: "backend", Environment: "local", OutputDir: out, RootDir: root},
			want: "/work/out/backend.local.env",
		},
		{
			name: "absolute_hint_verbatim",
			req: Request{App: "web", Environment: "test", EnvironmentPath: "/srv/web",
				OutputDir: out, RootDir: root},
			want: "/srv/web/.env.test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.want), ResolveOutputPath(tt.req))
		})
	}
}

func TestResolveOutputPath_EndsWithEnvironmentHint(t *testing.T) {
	got := ResolveOutputPath(Request{
		App:             "backend",
		Environment:     "local",
		EnvironmentPath: "apps/backend",
		OutputDir:       "/tmp/out",
		RootDir:         "/tmp/root",
	})
	assert.True(t, strings.HasSuffix(filepath.ToSlash(got), "apps/backend/.env.local"), got)
}

// TestResolveOutputPath_PropertyBased_Priority checks that the highest present
// hint always decides the directory
func TestResolveOutputPath_PropertyBased_Priority(t *testing.T) {
	hint := rapid.OneOf(rapid.Just(""), rapid.StringMatching(`[a-z]{1,8}(/[a-z]{1,8}){0,2}`))

	rapid.Check(t, func(t *rapid.T) {
		req := Request{
			App:             rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "app"),
			Environment:     rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "environment"),
			EnvironmentPath: hint.Draw(t, "envPath"),
			AppPath:         hint.Draw(t, "appPath"),
			OutputDir:       "/out",
			RootDir:         "/root",
		}
		if rapid.Bool().Draw(t, "detected") {
			req.DetectedDir = "/root/packages/" + req.App
		}

		got := ResolveOutputPath(req)
		filename := DetermineFilename(req.Environment)

		switch {
		case req.EnvironmentPath != "":
			assert.Equal(t, filepath.Join("/root", req.EnvironmentPath, filename), got)
		case req.AppPath != "":
			assert.Equal(t, filepath.Join("/root", req.AppPath, filename), got)
		case req.DetectedDir != "":
			assert.Equal(t, filepath.Join(req.DetectedDir, filename), got)
		default:
			assert.Equal(t, filepath.Join("/out", req.App+"."+req.Environment+".env"), got)
		}
	})
}
