package testfixtures

import (
	"fmt"
	"math/rand"

	"monoenv.dev/cli/internal/core/config"
)

// DocumentBuilder provides a builder pattern for creating configuration documents
type DocumentBuilder struct {
	shared *config.RawMap
	apps   *config.RawMap
}

// NewDocumentBuilder creates a new DocumentBuilder without shared variables or apps
func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{apps: config.NewRawMap()}
}

// WithShared declares a shared variable
func (b *DocumentBuilder) WithShared(name string, value any) *DocumentBuilder {
	if b.shared == nil {
		b.shared = config.NewRawMap()
	}
	b.shared.Set(name, value)
	return b
}

// WithApp adds an application
func (b *DocumentBuilder) WithApp(app *AppBuilder) *DocumentBuilder {
	b.apps.Set(app.name, app.raw())
	return b
}

// Raw returns the untyped document tree
func (b *DocumentBuilder) Raw() *config.RawMap {
	root := config.NewRawMap()
	if b.shared != nil {
		root.Set("shared", b.shared)
	}
	root.Set("apps", b.apps)
	return root
}

// Build validates the document and models it
func (b *DocumentBuilder) Build() (*config.Model, error) {
	doc, err := config.NewValidator().Validate(b.Raw())
	if err != nil {
		return nil, err
	}
	return config.NewModel(doc), nil
}

// MustBuild builds the model and panics on error (for test convenience)
func (b *DocumentBuilder) MustBuild() *config.Model {
	model, err := b.Build()
	if err != nil {
		panic(err)
	}
	return model
}

// AppBuilder provides a builder for applications
type AppBuilder struct {
	name string
	path string
	envs *config.RawMap
}

// NewAppBuilder creates an application without environments
func NewAppBuilder(name string) *AppBuilder {
	return &AppBuilder{name: name, envs: config.NewRawMap()}
}

// WithPath sets the application's default output directory
func (b *AppBuilder) WithPath(path string) *AppBuilder {
	b.path = path
	return b
}

// WithEnvironment adds an extended form environment
func (b *AppBuilder) WithEnvironment(env *EnvironmentBuilder) *AppBuilder {
	b.envs.Set(env.name, env.raw())
	return b
}

// WithLegacyEnvironment adds a flat environment from name/value pairs
func (b *AppBuilder) WithLegacyEnvironment(name string, kv ...any) *AppBuilder {
	vars := config.NewRawMap()
	for i := 0; i+1 < len(kv); i += 2 {
		vars.Set(kv[i].(string), kv[i+1])
	}
	b.envs.Set(name, vars)
	return b
}

func (b *AppBuilder) raw() *config.RawMap {
	app := config.NewRawMap()
	if b.path != "" {
		app.Set("path", b.path)
	}
	app.Set("environments", b.envs)
	return app
}

// EnvironmentBuilder provides a builder for extended form environments
type EnvironmentBuilder struct {
	name string
	path string
	vars *config.RawMap
}

// NewEnvironmentBuilder creates an environment without variables
func NewEnvironmentBuilder(name string) *EnvironmentBuilder {
	return &EnvironmentBuilder{name: name, vars: config.NewRawMap()}
}

// WithPath sets the environment's output directory
func (b *EnvironmentBuilder) WithPath(path string) *EnvironmentBuilder {
	b.path = path
	return b
}

// WithVariable adds a plain scalar variable
func (b *EnvironmentBuilder) WithVariable(name string, value any) *EnvironmentBuilder {
	b.vars.Set(name, value)
	return b
}

// WithComment adds an annotated variable
func (b *EnvironmentBuilder) WithComment(name string, value any, comment string) *EnvironmentBuilder {
	annotated := config.NewRawMap()
	annotated.Set("value", value)
	annotated.Set("comment", comment)
	b.vars.Set(name, annotated)
	return b
}

func (b *EnvironmentBuilder) raw() *config.RawMap {
	env := config.NewRawMap()
	env.Set("variables", b.vars)
	if b.path != "" {
		env.Set("path", b.path)
	}
	return env
}

// Common test data and helper functions

// SampleDocument returns a small monorepo with shared references, both
// environment forms and path hints at both levels
func SampleDocument() *DocumentBuilder {
	return NewDocumentBuilder().
		WithShared("API_URL", "https://api.example.com").
		WithShared("DB_PORT", 5432).
		WithApp(NewAppBuilder("backend").
			WithPath("apps/backend").
			WithEnvironment(NewEnvironmentBuilder("local").
				WithComment("PORT", 3000, "HTTP port").
				WithVariable("DB_URL", "postgres://localhost:${shared:DB_PORT}/app").
				WithVariable("DEBUG", true)).
			WithEnvironment(NewEnvironmentBuilder("production").
				WithPath("deploy/backend").
				WithVariable("PORT", 80))).
		WithApp(NewAppBuilder("web").
			WithLegacyEnvironment("local", "API", "${shared:API_URL}", "RETRIES", 3))
}

// RandomDocument generates a valid document for property-based testing. Every
// placeholder it emits names a declared shared variable.
func RandomDocument(rng *rand.Rand) *DocumentBuilder {
	b := NewDocumentBuilder()
	sharedCount := rng.Intn(4)
	for i := 0; i < sharedCount; i++ {
		b.WithShared(fmt.Sprintf("SHARED_%d", i), randomScalar(rng))
	}

	apps := 1 + rng.Intn(3)
	for a := 0; a < apps; a++ {
		app := NewAppBuilder(fmt.Sprintf("app%d", a))
		if rng.Intn(2) == 0 {
			app.WithPath(fmt.Sprintf("apps/app%d", a))
		}

		envs := 1 + rng.Intn(3)
		for e := 0; e < envs; e++ {
			env := NewEnvironmentBuilder(ValidEnvironmentNames()[e])
			vars := rng.Intn(5)
			for v := 0; v < vars; v++ {
				name := fmt.Sprintf("VAR_%d", v)
				switch {
				case sharedCount > 0 && rng.Intn(3) == 0:
					env.WithVariable(name, fmt.Sprintf("x-${shared:SHARED_%d}", rng.Intn(sharedCount)))
				case rng.Intn(4) == 0:
					env.WithComment(name, randomScalar(rng), fmt.Sprintf("comment %d", v))
				default:
					env.WithVariable(name, randomScalar(rng))
				}
			}
			app.WithEnvironment(env)
		}
		b.WithApp(app)
	}
	return b
}

func randomScalar(rng *rand.Rand) any {
	switch rng.Intn(4) {
	case 0:
		return rng.Intn(2) == 0
	case 1:
		return int64(rng.Intn(100000))
	case 2:
		return float64(rng.Intn(1000)) / 8
	default:
		return fmt.Sprintf("value-%d", rng.Intn(1000))
	}
}

// ValidEnvironmentNames returns environment names covering every filename rule
func ValidEnvironmentNames() []string {
	return []string{"local", "production", "staging"}
}
