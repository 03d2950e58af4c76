package generate

import (
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"monoenv.dev/cli/internal/core/testfixtures"
)

func TestGenerateAll_SampleDocument(t *testing.T) {
	root := filepath.FromSlash("/repo")
	out := filepath.FromSlash("/repo/env")
	model := testfixtures.SampleDocument().MustBuild()

	files, err := GenerateAll(model, out, root)
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, filepath.Join(root, "apps", "backend", ".env.local"), files[0].Path)
	assert.Equal(t, "# HTTP port\nPORT=3000\nDB_URL=postgres://localhost:5432/app\nDEBUG=true\n", files[0].Content)

	assert.Equal(t, filepath.Join(root, "deploy", "backend", ".env"), files[1].Path,
		"environment path wins over application path")
	assert.Equal(t, "PORT=80\n", files[1].Content)

	assert.Equal(t, filepath.Join(out, "web.local.env"), files[2].Path)
	assert.Equal(t, "API=https://api.example.com\nRETRIES=3\n", files[2].Content)
}

func TestGenerateAll_PropertyBased_RandomDocuments(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		model, err := testfixtures.RandomDocument(rand.New(rand.NewSource(seed))).Build()
		require.NoError(t, err)

		files, err := GenerateAll(model, "/out", "/root")
		require.NoError(t, err)

		pairs := 0
		for _, app := range model.AppNames() {
			pairs += len(model.EnvironmentNames(app))
		}
		assert.Len(t, files, pairs)

		for _, file := range files {
			assert.True(t, strings.HasSuffix(file.Content, "\n"))
			assert.NotContains(t, file.Content, "${shared:")

			env, ok := model.Environment(file.App, file.Environment)
			require.True(t, ok)

			names := []string{}
			for _, line := range strings.Split(strings.TrimSuffix(file.Content, "\n"), "\n") {
				if line == "" || strings.HasPrefix(line, "# ") {
					continue
				}
				names = append(names, line[:strings.Index(line, "=")])
			}
			expected := make([]string, 0, len(env.Variables))
			for _, v := range env.Variables {
				expected = append(expected, v.Name)
			}
			assert.Equal(t, expected, names, "variables keep source order")
		}

		again, err := GenerateAll(model, "/out", "/root")
		require.NoError(t, err)
		assert.Equal(t, files, again)
	})
}
