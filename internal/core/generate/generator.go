// Package generate renders environment files from a configuration model.
package generate

import (
	"strings"

	"monoenv.dev/cli/internal/core/config"
	"monoenv.dev/cli/internal/core/pathing"
	"monoenv.dev/cli/internal/core/resolve"
)

// File is one rendered environment file
type File struct {
	App         string
	Environment string
	Path        string
	Content     string
}

// DirectoryLookup returns the auto-detected directory of an application
type DirectoryLookup func(app string) (string, bool)

// entry is the normalized form of a variable, independent of the shape it was
// declared with
type entry struct {
	name    string
	value   config.Scalar
	comment string
}

// GenerateContent renders the file for one (application, environment) pair.
// Resolution failures of all variables are collected into a single
// *ResolutionError; no partial content is returned.
func GenerateContent(m *config.Model, app, env string) (string, error) {
	if !m.HasApp(app) {
		return "", &AppNotFoundError{App: app, Available: m.AppNames()}
	}
	environment, ok := m.Environment(app, env)
	if !ok {
		return "", &EnvironmentNotFoundError{App: app, Environment: env, Available: m.EnvironmentNames(app)}
	}

	shared := m.SharedVariables()
	var lines []string
	var failures []VariableFailure

	for _, e := range normalize(environment) {
		raw := e.value.String()
		resolved, err := resolve.Resolve(raw, shared)
		if err != nil {
			failures = append(failures, VariableFailure{Variable: e.name, Err: err})
			continue
		}
		if e.comment != "" {
			for _, line := range strings.Split(e.comment, "\n") {
				lines = append(lines, "# "+line)
			}
		}
		lines = append(lines, e.name+"="+formatValue(e.value, raw, resolved))
	}

	if len(failures) > 0 {
		return "", &ResolutionError{Failures: failures}
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// GenerateAll renders every (application, environment) pair in source order,
// stopping at the first pair that fails.
func GenerateAll(m *config.Model, outputDir, rootDir string) ([]File, error) {
	return generateAll(m, outputDir, rootDir, nil)
}

// GenerateAllDetected is GenerateAll with auto-detected application
// directories used when no path hint is declared.
func GenerateAllDetected(m *config.Model, outputDir, rootDir string, detect DirectoryLookup) ([]File, error) {
	return generateAll(m, outputDir, rootDir, detect)
}

func generateAll(m *config.Model, outputDir, rootDir string, detect DirectoryLookup) ([]File, error) {
	var files []File
	for _, appName := range m.AppNames() {
		app, _ := m.App(appName)

		var detected string
		if detect != nil && !app.HasPath() {
			detected, _ = detect(appName)
		}

		for _, env := range app.Environments {
			content, err := GenerateContent(m, appName, env.Name)
			if err != nil {
				return nil, &PairError{App: appName, Environment: env.Name, Err: err}
			}
			files = append(files, File{
				App:         appName,
				Environment: env.Name,
				Path: pathing.ResolveOutputPath(pathing.Request{
					App:             appName,
					Environment:     env.Name,
					EnvironmentPath: env.Path,
					AppPath:         app.Path,
					DetectedDir:     detected,
					OutputDir:       outputDir,
					RootDir:         rootDir,
				}),
				Content: content,
			})
		}
	}
	return files, nil
}

// OutputPath places a single pair without auto-detection
func OutputPath(m *config.Model, app, env, outputDir, rootDir string) (string, error) {
	a, ok := m.App(app)
	if !ok {
		return "", &AppNotFoundError{App: app, Available: m.AppNames()}
	}
	e, ok := m.Environment(app, env)
	if !ok {
		return "", &EnvironmentNotFoundError{App: app, Environment: env, Available: m.EnvironmentNames(app)}
	}
	return pathing.ResolveOutputPath(pathing.Request{
		App:             app,
		Environment:     env,
		EnvironmentPath: e.Path,
		AppPath:         a.Path,
		OutputDir:       outputDir,
		RootDir:         rootDir,
	}), nil
}

func normalize(env *config.Environment) []entry {
	entries := make([]entry, 0, len(env.Variables))
	for _, v := range env.Variables {
		e := entry{name: v.Name, value: v.Value}
		if env.Form == config.FormExtended {
			e.comment = v.Comment
		}
		entries = append(entries, e)
	}
	return entries
}

// formatValue renders the right-hand side of an assignment. Substituted values
// are emitted as resolved; otherwise numbers and booleans keep their bare
// literal and strings are emitted as written. Quotes are never added.
func formatValue(original config.Scalar, raw, resolved string) string {
	if resolved != raw {
		return resolved
	}
	switch original.Kind() {
	case config.KindNumber, config.KindBool:
		return original.String()
	default:
		return raw
	}
}
