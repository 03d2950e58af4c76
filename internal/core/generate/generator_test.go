package generate

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"monoenv.dev/cli/internal/core/config"
	"monoenv.dev/cli/internal/core/resolve"
)

// obj builds an ordered map from alternating keys and values
func obj(kv ...any) *config.RawMap {
	m := config.NewRawMap()
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1])
	}
	return m
}

func createTestModel(t require.TestingT, raw any) *config.Model {
	doc, err := config.NewValidator().Validate(raw)
	require.NoError(t, err)
	return config.NewModel(doc)
}

func TestGenerateContent_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		app  string
		env  string
		want string
	}{
		{
			name: "single_variable",
			raw:  obj("apps", obj("backend", obj("environments", obj("local", obj("variables", obj("PORT", "3000")))))),
			app:  "backend", env: "local",
			want: "PORT=3000\n",
		},
		{
			name: "shared_substitution",
			raw: obj(
				"shared", obj("API_URL", "https://api.example.com"),
				"apps", obj("backend", obj("environments", obj("local", obj("variables", obj(
					"API_ENDPOINT", "${shared:API_URL}/v1",
				))))),
			),
			app: "backend", env: "local",
			want: "API_ENDPOINT=https://api.example.com/v1\n",
		},
		{
			name: "typed_literals_and_comments",
			raw: obj("apps", obj("backend", obj("environments", obj("dev", obj("variables", obj(
				"PORT", obj("value", 3000, "comment", "HTTP port", "type", "number"),
				"DEBUG", true,
				"RATIO", 0.75,
				"QUOTED", `"kept"`,
			)))))),
			app: "backend", env: "dev",
			want: "# HTTP port\nPORT=3000\nDEBUG=true\nRATIO=0.75\nQUOTED=\"kept\"\n",
		},
		{
			name: "legacy_form",
			raw: obj("apps", obj("web", obj("environments", obj("production", obj(
				"NODE_ENV", "production", "WORKERS", 4,
			))))),
			app: "web", env: "production",
			want: "NODE_ENV=production\nWORKERS=4\n",
		},
		{
			name: "multiline_comment",
			raw: obj("apps", obj("a", obj("environments", obj("dev", obj("variables", obj(
				"KEY", obj("value", "v", "comment", "first\nsecond"),
			)))))),
			app: "a", env: "dev",
			want: "# first\n# second\nKEY=v\n",
		},
		{
			name: "shared_number",
			raw: obj(
				"shared", obj("PORT", 5432, "SSL", false),
				"apps", obj("db", obj("environments", obj("dev", obj(
					"DATABASE_URL", "postgres://localhost:${shared:PORT}/app?ssl=${shared:SSL}",
				)))),
			),
			app: "db", env: "dev",
			want: "DATABASE_URL=postgres://localhost:5432/app?ssl=false\n",
		},
		{
			name: "empty_environment",
			raw:  obj("apps", obj("a", obj("environments", obj("dev", obj())))),
			app:  "a", env: "dev",
			want: "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := createTestModel(t, tt.raw)
			got, err := GenerateContent(model, tt.app, tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateContent_AppNotFound(t *testing.T) {
	model := createTestModel(t, obj("apps", obj("backend", obj("environments", obj("local", obj("A", "1"))))))

	_, err := GenerateContent(model, "frontend", "local")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "App 'frontend' not found")
	assert.Contains(t, err.Error(), "backend")

	var notFound *AppNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{"backend"}, notFound.Available)
}

func TestGenerateContent_EnvironmentNotFound(t *testing.T) {
	model := createTestModel(t, obj("apps", obj("backend", obj("environments", obj(
		"local", obj("A", "1"),
		"production", obj("A", "2"),
	)))))

	_, err := GenerateContent(model, "backend", "staging")
	require.Error(t, err)
	assert.Equal(t,
		"Environment 'staging' not found in app 'backend'. Available environments: local, production",
		err.Error())

	var notFound *EnvironmentNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestGenerateContent_SingleMissingSharedVariable(t *testing.T) {
	model := createTestModel(t, obj("apps", obj("backend", obj("environments", obj("local", obj("variables", obj(
		"OK", "fine",
		"MISSING_VAR", "${shared:NOT_FOUND}",
	)))))))

	content, err := GenerateContent(model, "backend", "local")
	require.Error(t, err)
	assert.Empty(t, content, "no partial output on failure")
	assert.Equal(t, "Failed to resolve variable for MISSING_VAR: Shared variable 'NOT_FOUND' not found", err.Error())
}

func TestGenerateContent_AggregatesMissingAcrossVariables(t *testing.T) {
	model := createTestModel(t, obj("apps", obj("backend", obj("environments", obj("local", obj("variables", obj(
		"MISSING_1", "${shared:NOT_FOUND_1}",
		"MISSING_2", "${shared:NOT_FOUND_2}",
		"MISSING_3", "${shared:NOT_FOUND_1}",
	)))))))

	_, err := GenerateContent(model, "backend", "local")
	require.Error(t, err)

	msg := err.Error()
	assert.Equal(t, 1, strings.Count(msg, "'NOT_FOUND_1'"))
	assert.Equal(t, 1, strings.Count(msg, "'NOT_FOUND_2'"))
	assert.Equal(t,
		"Failed to resolve variables MISSING_1, MISSING_2, MISSING_3: Shared variables not found: 'NOT_FOUND_1', 'NOT_FOUND_2'",
		msg)

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Len(t, resErr.Failures, 3)
}

func TestGenerateContent_MultipleFailuresSameMissingName(t *testing.T) {
	model := createTestModel(t, obj("apps", obj("a", obj("environments", obj("dev", obj(
		"X", "${shared:GONE}",
		"Y", "prefix-${shared:GONE}",
	))))))

	_, err := GenerateContent(model, "a", "dev")
	require.Error(t, err)
	assert.Equal(t, "Failed to resolve variables X, Y: Shared variable 'GONE' not found", err.Error())
}

func TestGenerateContent_Idempotent(t *testing.T) {
	model := createTestModel(t, obj(
		"shared", obj("HOST", "example.com"),
		"apps", obj("a", obj("environments", obj("dev", obj("variables", obj(
			"URL", obj("value", "https://${shared:HOST}", "comment", "base url"),
			"PORT", 8080,
		))))),
	))

	first, err := GenerateContent(model, "a", "dev")
	require.NoError(t, err)
	second, err := GenerateContent(model, "a", "dev")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestGenerateContent_PropertyBased_OrderingAndAggregation checks that lines
// follow declaration order and that missing names are reported exactly once
func TestGenerateContent_PropertyBased_OrderingAndAggregation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(1, 8).Draw(t, "count")
		shared := obj("KNOWN", "value")
		vars := config.NewRawMap()
		var names []string
		expectedMissing := resolve.NewNameSet()

		for i := 0; i < count; i++ {
			name := fmt.Sprintf("VAR_%d", i)
			names = append(names, name)
			if rapid.Bool().Draw(t, "missing") {
				ref := rapid.SampledFrom([]string{"M1", "M2", "M3"}).Draw(t, "ref")
				expectedMissing.Add(ref)
				vars.Set(name, "${shared:"+ref+"}")
			} else {
				vars.Set(name, "${shared:KNOWN}")
			}
		}

		model := createTestModel(t, obj("shared", shared, "apps", obj("a", obj("environments", obj("dev", obj("variables", vars))))))
		content, err := GenerateContent(model, "a", "dev")

		if expectedMissing.Len() == 0 {
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
			require.Len(t, lines, count)
			for i, line := range lines {
				assert.Equal(t, names[i]+"=value", line)
			}
			return
		}

		require.Error(t, err)
		for _, missing := range expectedMissing.Names() {
			assert.Equal(t, 1, strings.Count(err.Error(), "'"+missing+"'"))
		}
	})
}

func TestGenerateAll(t *testing.T) {
	root := filepath.FromSlash("/repo")
	out := filepath.FromSlash("/repo/out")
	model := createTestModel(t, obj(
		"apps", obj(
			"backend", obj("environments", obj(
				"local", obj("path", "apps/backend", "variables", obj("PORT", 3000)),
				"production", obj("PORT", 80),
			)),
			"web", obj("path", "apps/web", "environments", obj(
				"staging", obj("NODE_ENV", "staging"),
			)),
		),
	))

	files, err := GenerateAll(model, out, root)
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, File{App: "backend", Environment: "local",
		Path: filepath.Join(root, "apps", "backend", ".env.local"), Content: "PORT=3000\n"}, files[0])
	assert.Equal(t, File{App: "backend", Environment: "production",
		Path: filepath.Join(out, "backend.production.env"), Content: "PORT=80\n"}, files[1])
	assert.Equal(t, File{App: "web", Environment: "staging",
		Path: filepath.Join(root, "apps", "web", ".env.staging"), Content: "NODE_ENV=staging\n"}, files[2])
}

func TestGenerateAllDetected_UsesDetectedDirectory(t *testing.T) {
	root := filepath.FromSlash("/repo")
	model := createTestModel(t, obj("apps", obj(
		"api", obj("environments", obj("local", obj("A", "1"))),
		"docs", obj("environments", obj("production", obj("B", "2"))),
	)))

	detect := func(app string) (string, bool) {
		if app == "api" {
			return filepath.Join(root, "packages", "api"), true
		}
		return "", false
	}

	files, err := GenerateAllDetected(model, root, root, detect)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(root, "packages", "api", ".env.local"), files[0].Path)
	assert.Equal(t, filepath.Join(root, "docs.production.env"), files[1].Path)
}

func TestGenerateAll_FailFastAcrossPairs(t *testing.T) {
	model := createTestModel(t, obj("apps", obj(
		"api", obj("environments", obj(
			"local", obj("A", "1"),
			"broken", obj("B", "${shared:NOPE}"),
		)),
		"web", obj("environments", obj("local", obj("C", "${shared:ALSO_MISSING}"))),
	)))

	files, err := GenerateAll(model, "/out", "/root")
	require.Error(t, err)
	assert.Nil(t, files)
	assert.Equal(t,
		"Failed to generate app 'api' environment 'broken': Failed to resolve variable for B: Shared variable 'NOPE' not found",
		err.Error())
	assert.NotContains(t, err.Error(), "ALSO_MISSING")

	var pairErr *PairError
	require.True(t, errors.As(err, &pairErr))
	assert.Equal(t, "api", pairErr.App)

	var resErr *ResolutionError
	assert.True(t, errors.As(err, &resErr), "pair errors unwrap to the underlying failure")
}

func TestOutputPath(t *testing.T) {
	model := createTestModel(t, obj("apps", obj(
		"backend", obj("environments", obj("local", obj("path", "apps/backend", "variables", obj()))),
	)))

	path, err := OutputPath(model, "backend", "local", "/out", "/root")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filepath.ToSlash(path), "apps/backend/.env.local"))

	_, err = OutputPath(model, "frontend", "local", "/out", "/root")
	var appErr *AppNotFoundError
	assert.True(t, errors.As(err, &appErr))
}
