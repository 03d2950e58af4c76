package services

import (
	"context"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"monoenv.dev/cli/internal/application/ports"
	"monoenv.dev/cli/internal/core/config"
	"monoenv.dev/cli/internal/core/generate"
	"monoenv.dev/cli/internal/core/resolve"
)

// maxParallelWrites bounds the number of files written concurrently
const maxParallelWrites = 8

// Workspace identifies the configuration and the directories of one run
type Workspace struct {
	// ConfigPath is the configuration document; empty means discover it in RootDir
	ConfigPath string
	// RootDir anchors relative path hints and auto-detection
	RootDir string
}

// EnvService orchestrates loading, generating and writing env files
type EnvService struct {
	loader    ports.DocumentLoader
	writer    ports.FileWriter
	detector  ports.DirectoryDetector
	reader    ports.EnvFileReader
	templates ports.TemplateWriter
	logger    ports.LoggingGateway
}

// NewEnvService creates a new env generation service
func NewEnvService(
	loader ports.DocumentLoader,
	writer ports.FileWriter,
	detector ports.DirectoryDetector,
	reader ports.EnvFileReader,
	templates ports.TemplateWriter,
	logger ports.LoggingGateway,
) *EnvService {
	return &EnvService{
		loader:    loader,
		writer:    writer,
		detector:  detector,
		reader:    reader,
		templates: templates,
		logger:    logger,
	}
}

// Init writes a starter configuration document at path
func (s *EnvService) Init(ctx context.Context, path string) error {
	if err := s.templates.WriteTemplate(path); err != nil {
		s.logger.LogError(err, "Failed to initialize configuration", map[string]interface{}{"path": path})
		return err
	}
	s.logger.Log(ports.LogLevelInfo, "Configuration template created", map[string]interface{}{"path": path})
	return nil
}

// LoadModel loads, validates and models the configuration of ws. The returned
// path is the document actually read.
func (s *EnvService) LoadModel(ctx context.Context, ws Workspace) (*config.Model, string, error) {
	path := ws.ConfigPath
	if path == "" {
		discovered, err := s.loader.Discover(ws.RootDir)
		if err != nil {
			return nil, "", err
		}
		path = discovered
	}

	s.logger.Log(ports.LogLevelDebug, "Loading configuration", map[string]interface{}{"path": path})
	raw, err := s.loader.Load(path)
	if err != nil {
		return nil, path, err
	}

	doc, err := config.NewValidator().Validate(raw)
	if err != nil {
		s.logger.LogError(err, "Configuration validation failed", map[string]interface{}{"path": path})
		return nil, path, err
	}
	return config.NewModel(doc), path, nil
}

// Apply generates every pair, placing files without a path hint in their
// auto-detected directory or flat under the root, and writes them.
func (s *EnvService) Apply(ctx context.Context, ws Workspace) ([]generate.File, error) {
	model, _, err := s.LoadModel(ctx, ws)
	if err != nil {
		return nil, err
	}

	detect := func(app string) (string, bool) {
		dir, ok := s.detector.Detect(app, ws.RootDir)
		if ok {
			s.logger.Log(ports.LogLevelDebug, "Detected application directory", map[string]interface{}{
				"app": app, "dir": dir,
			})
		}
		return dir, ok
	}

	files, err := generate.GenerateAllDetected(model, ws.RootDir, ws.RootDir, detect)
	if err != nil {
		return nil, err
	}
	if err := s.writeAll(ctx, files); err != nil {
		return nil, err
	}
	return files, nil
}

// GenerateAll generates every pair without auto-detection; files without a
// path hint are written flat into outputDir as {app}.{env}.env.
func (s *EnvService) GenerateAll(ctx context.Context, ws Workspace, outputDir string) ([]generate.File, error) {
	model, _, err := s.LoadModel(ctx, ws)
	if err != nil {
		return nil, err
	}

	files, err := generate.GenerateAll(model, s.outputDir(ws, outputDir), ws.RootDir)
	if err != nil {
		return nil, err
	}
	if err := s.writeAll(ctx, files); err != nil {
		return nil, err
	}
	return files, nil
}

// GenerateOne renders a single pair. The file is written only when write is true.
func (s *EnvService) GenerateOne(ctx context.Context, ws Workspace, app, env, outputDir string, write bool) (generate.File, error) {
	model, _, err := s.LoadModel(ctx, ws)
	if err != nil {
		return generate.File{}, err
	}

	content, err := generate.GenerateContent(model, app, env)
	if err != nil {
		return generate.File{}, err
	}
	path, err := generate.OutputPath(model, app, env, s.outputDir(ws, outputDir), ws.RootDir)
	if err != nil {
		return generate.File{}, err
	}

	file := generate.File{App: app, Environment: env, Path: path, Content: content}
	if write {
		if err := s.writeAll(ctx, []generate.File{file}); err != nil {
			return generate.File{}, err
		}
	}
	return file, nil
}

// FileCheck is the comparison of one generated file with the file on disk
type FileCheck struct {
	File   generate.File
	Exists bool
	// Identical is true when the file on disk matches the generated content byte for byte
	Identical bool
	// Key level differences, filled only when the content differs
	Missing []string
	Extra   []string
	Changed []string
}

// InSync reports whether the file on disk matches the generated content
func (c FileCheck) InSync() bool {
	return c.Exists && c.Identical
}

// Check regenerates every pair in memory, using the apply layout, and compares
// the result with the files currently on disk. A file is in sync only when it is
// identical; key differences describe what changed.
func (s *EnvService) Check(ctx context.Context, ws Workspace) ([]FileCheck, error) {
	model, _, err := s.LoadModel(ctx, ws)
	if err != nil {
		return nil, err
	}

	detect := func(app string) (string, bool) { return s.detector.Detect(app, ws.RootDir) }
	files, err := generate.GenerateAllDetected(model, ws.RootDir, ws.RootDir, detect)
	if err != nil {
		return nil, err
	}

	checks := make([]FileCheck, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		actual, exists, err := s.reader.Read(file.Path)
		if err != nil {
			return nil, err
		}
		check := FileCheck{File: file, Exists: exists}
		if exists {
			check.Identical = actual == file.Content
			if !check.Identical {
				check.Missing, check.Extra, check.Changed = diffKeys(s.reader.Parse(file.Content), s.reader.Parse(actual))
			}
		}
		checks = append(checks, check)
	}
	return checks, nil
}

// SharedReference is a placeholder that names an undeclared shared variable
type SharedReference struct {
	App         string
	Environment string
	Variable    string
	Name        string
}

// ValidationReport summarizes a valid configuration
type ValidationReport struct {
	Path         string
	Apps         int
	Environments int
	Variables    int
	// UnusedShared lists shared variables no placeholder refers to
	UnusedShared []string
	// Undefined lists placeholders naming undeclared shared variables
	Undefined []SharedReference
}

// Validate loads the configuration and reports on its shared variable usage
func (s *EnvService) Validate(ctx context.Context, ws Workspace) (*ValidationReport, error) {
	model, path, err := s.LoadModel(ctx, ws)
	if err != nil {
		return nil, err
	}

	shared := model.SharedVariables()
	used := make(map[string]bool)
	report := &ValidationReport{Path: path}

	for _, appName := range model.AppNames() {
		report.Apps++
		for _, envName := range model.EnvironmentNames(appName) {
			report.Environments++
			env, _ := model.Environment(appName, envName)
			for _, v := range env.Variables {
				report.Variables++
				for _, name := range resolve.References(v.Value.String()) {
					used[name] = true
					if _, ok := shared[name]; !ok {
						report.Undefined = append(report.Undefined, SharedReference{
							App: appName, Environment: envName, Variable: v.Name, Name: name,
						})
					}
				}
			}
		}
	}

	for name := range shared {
		if !used[name] {
			report.UnusedShared = append(report.UnusedShared, name)
		}
	}
	sort.Strings(report.UnusedShared)
	return report, nil
}

// writeAll writes independent files concurrently; every file's content is
// complete before any write starts.
func (s *EnvService) writeAll(ctx context.Context, files []generate.File) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelWrites)

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.writer.Write(file.Path, file.Content); err != nil {
				s.logger.LogError(err, "Failed to write env file", map[string]interface{}{"path": file.Path})
				return err
			}
			s.logger.Log(ports.LogLevelInfo, "Wrote env file", map[string]interface{}{
				"app": file.App, "environment": file.Environment, "path": file.Path,
			})
			return nil
		})
	}
	return g.Wait()
}

func (s *EnvService) outputDir(ws Workspace, outputDir string) string {
	if outputDir == "" {
		return ws.RootDir
	}
	if filepath.IsAbs(outputDir) {
		return outputDir
	}
	return filepath.Join(ws.RootDir, outputDir)
}

func diffKeys(expected, actual map[string]string) (missing, extra, changed []string) {
	for key, want := range expected {
		got, ok := actual[key]
		switch {
		case !ok:
			missing = append(missing, key)
		case got != want:
			changed = append(changed, key)
		}
	}
	for key := range actual {
		if _, ok := expected[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	sort.Strings(changed)
	return missing, extra, changed
}
