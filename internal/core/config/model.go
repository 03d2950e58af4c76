package config

// Model is a read-only view over a validated Document. Downstream components
// query it instead of the raw document shapes.
type Model struct {
	doc  *Document
	apps map[string]*Application
}

// NewModel wraps a validated document
func NewModel(doc *Document) *Model {
	if doc == nil {
		doc = &Document{}
	}
	apps := make(map[string]*Application, len(doc.Apps))
	for _, app := range doc.Apps {
		apps[app.Name] = app
	}
	return &Model{doc: doc, apps: apps}
}

// AppNames returns application names in source order
func (m *Model) AppNames() []string {
	names := make([]string, 0, len(m.doc.Apps))
	for _, app := range m.doc.Apps {
		names = append(names, app.Name)
	}
	return names
}

// App returns the named application
func (m *Model) App(name string) (*Application, bool) {
	app, ok := m.apps[name]
	return app, ok
}

// HasApp reports whether the application exists
func (m *Model) HasApp(name string) bool {
	_, ok := m.apps[name]
	return ok
}

// EnvironmentNames returns the environment names of an application in source
// order, or an empty list when the application does not exist.
func (m *Model) EnvironmentNames(app string) []string {
	a, ok := m.apps[app]
	if !ok {
		return []string{}
	}
	names := make([]string, 0, len(a.Environments))
	for _, env := range a.Environments {
		names = append(names, env.Name)
	}
	return names
}

// Environment returns an environment by application and environment name
func (m *Model) Environment(app, env string) (*Environment, bool) {
	a, ok := m.apps[app]
	if !ok {
		return nil, false
	}
	for _, e := range a.Environments {
		if e.Name == env {
			return e, true
		}
	}
	return nil, false
}

// HasEnvironment reports whether the (application, environment) pair exists
func (m *Model) HasEnvironment(app, env string) bool {
	_, ok := m.Environment(app, env)
	return ok
}

// SharedVariables returns a copy of the shared variable set; empty when the
// document declares none.
func (m *Model) SharedVariables() map[string]Scalar {
	out := make(map[string]Scalar, len(m.doc.Shared))
	for k, v := range m.doc.Shared {
		out[k] = v
	}
	return out
}
