// Package pathing computes where each generated environment file is written.
package pathing

import (
	"path/filepath"
)

// Request carries everything needed to place one (application, environment)
// file. Empty hint fields mean "not provided".
type Request struct {
	App         string
	Environment string

	// EnvironmentPath is the environment-level path hint
	EnvironmentPath string
	// AppPath is the application-level path hint
	AppPath string
	// DetectedDir is the auto-detected application directory (apply mode only)
	DetectedDir string

	// OutputDir receives files that have no directory hint
	OutputDir string
	// RootDir anchors relative hints
	RootDir string
}

// DetermineFilename returns the env file name used inside a resolved directory
func DetermineFilename(environment string) string {
	switch environment {
	case "local":
		return ".env.local"
	case "production":
		return ".env"
	default:
		return ".env." + environment
	}
}

// FallbackFilename is the flat name used when no directory hint applies
func FallbackFilename(app, environment string) string {
	return app + "." + environment + ".env"
}

// ResolveOutputPath returns the file path for the request. The first present
// hint wins: environment path, application path, detected directory, then the
// flat fallback under OutputDir.
func ResolveOutputPath(r Request) string {
	for _, candidate := range []string{r.EnvironmentPath, r.AppPath, r.DetectedDir} {
		if candidate == "" {
			continue
		}
		return filepath.Join(resolveDir(candidate, r.RootDir), DetermineFilename(r.Environment))
	}
	return filepath.Join(r.OutputDir, FallbackFilename(r.App, r.Environment))
}

func resolveDir(hint, root string) string {
	if filepath.IsAbs(hint) {
		return hint
	}
	return filepath.Join(root, hint)
}
