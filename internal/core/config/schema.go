package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const (
	keyShared       = "shared"
	keyApps         = "apps"
	keyPath         = "path"
	keyEnvironments = "environments"
	keyVariables    = "variables"
	keyValue        = "value"
	keyComment      = "comment"
	keyType         = "type"
)

// Issue is a single structural violation found in a document
type Issue struct {
	// Path is the dotted key path from the document root, empty at the root
	Path    string
	Message string
}

// String formats the issue with its path
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// ValidationError reports every issue found while validating a document
type ValidationError struct {
	issues []Issue
}

// Issues returns the collected issues in discovery order
func (e *ValidationError) Issues() []Issue {
	out := make([]Issue, len(e.issues))
	copy(out, e.issues)
	return out
}

func (e *ValidationError) Error() string {
	if len(e.issues) == 1 {
		issue := e.issues[0]
		if issue.Path == "" {
			return fmt.Sprintf("Configuration validation failed: %s", issue.Message)
		}
		return fmt.Sprintf("Configuration validation failed at %s: %s", issue.Path, issue.Message)
	}

	var b strings.Builder
	b.WriteString("Configuration validation failed:")
	for _, issue := range e.issues {
		b.WriteString("\n  - ")
		b.WriteString(issue.String())
	}
	return b.String()
}

// Validator checks raw documents against the configuration schema
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks an untyped document tree and converts it into a Document.
// All issues are collected before returning; a *ValidationError is returned
// when at least one was found.
func (v *Validator) Validate(raw any) (*Document, error) {
	run := &validation{}
	doc := run.document(raw)
	if len(run.issues) > 0 {
		return nil, &ValidationError{issues: run.issues}
	}
	return doc, nil
}

// validation accumulates issues during a single pass over a document
type validation struct {
	issues []Issue
}

func (r *validation) report(path []string, format string, args ...any) {
	r.issues = append(r.issues, Issue{
		Path:    strings.Join(path, "."),
		Message: fmt.Sprintf(format, args...),
	})
}

func (r *validation) closed(path []string, m *RawMap, allowed ...string) {
	var unknown []string
	for _, key := range m.Keys() {
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			unknown = append(unknown, "'"+key+"'")
		}
	}
	if len(unknown) == 1 {
		r.report(path, "unrecognized key %s", unknown[0])
	} else if len(unknown) > 1 {
		r.report(path, "unrecognized keys %s", strings.Join(unknown, ", "))
	}
}

func (r *validation) document(raw any) *Document {
	root, ok := asMap(raw)
	if !ok {
		r.report(nil, "expected an object at the document root, received %s", describe(raw))
		return nil
	}
	r.closed(nil, root, keyShared, keyApps)

	doc := &Document{Shared: make(map[string]Scalar)}
	if rawShared, present := root.Get(keyShared); present {
		doc.Shared = r.shared(rawShared)
	}

	rawApps, present := root.Get(keyApps)
	if !present {
		r.report([]string{keyApps}, "required")
		return doc
	}
	apps, ok := asMap(rawApps)
	if !ok {
		r.report([]string{keyApps}, "expected an object of applications, received %s", describe(rawApps))
		return doc
	}
	if apps.Len() == 0 {
		r.report([]string{keyApps}, "at least one application is required")
	}
	for _, name := range apps.Keys() {
		path := []string{keyApps, name}
		if strings.TrimSpace(name) == "" {
			r.report([]string{keyApps}, "application names must not be empty")
			continue
		}
		value, _ := apps.Get(name)
		if app := r.application(path, name, value); app != nil {
			doc.Apps = append(doc.Apps, app)
		}
	}
	return doc
}

func (r *validation) shared(raw any) map[string]Scalar {
	out := make(map[string]Scalar)
	if raw == nil {
		return out
	}
	m, ok := asMap(raw)
	if !ok {
		r.report([]string{keyShared}, "expected an object of shared variables, received %s", describe(raw))
		return out
	}
	for _, name := range m.Keys() {
		if strings.TrimSpace(name) == "" {
			r.report([]string{keyShared}, "variable names must not be empty")
			continue
		}
		value, _ := m.Get(name)
		scalar, ok := asScalar(value)
		if !ok {
			r.report([]string{keyShared, name}, "expected string, number, or boolean, received %s", describe(value))
			continue
		}
		out[name] = scalar
	}
	return out
}

func (r *validation) application(path []string, name string, raw any) *Application {
	m, ok := asMap(raw)
	if !ok {
		r.report(path, "expected an object with 'environments', received %s", describe(raw))
		return nil
	}
	r.closed(path, m, keyPath, keyEnvironments)

	app := &Application{Name: name}
	if rawPath, present := m.Get(keyPath); present {
		app.Path = r.str(append(path, keyPath), rawPath)
	}

	envPath := append(append([]string{}, path...), keyEnvironments)
	rawEnvs, present := m.Get(keyEnvironments)
	if !present {
		r.report(envPath, "required")
		return app
	}
	envs, ok := asMap(rawEnvs)
	if !ok {
		r.report(envPath, "expected an object of environments, received %s", describe(rawEnvs))
		return app
	}
	if envs.Len() == 0 {
		r.report(envPath, "at least one environment is required")
	}
	for _, envName := range envs.Keys() {
		if strings.TrimSpace(envName) == "" {
			r.report(envPath, "environment names must not be empty")
			continue
		}
		value, _ := envs.Get(envName)
		env := r.environment(append(append([]string{}, envPath...), envName), envName, value)
		if env != nil {
			app.Environments = append(app.Environments, env)
		}
	}
	return app
}

func (r *validation) environment(path []string, name string, raw any) *Environment {
	m, ok := asMap(raw)
	if !ok {
		r.report(path, "expected a map of variables or an object with 'variables', received %s", describe(raw))
		return nil
	}

	if !m.Has(keyVariables) {
		return &Environment{Name: name, Form: FormLegacy, Variables: r.legacyVariables(path, m)}
	}

	r.closed(path, m, keyVariables, keyPath)
	env := &Environment{Name: name, Form: FormExtended}
	if rawPath, present := m.Get(keyPath); present {
		env.Path = r.str(append(append([]string{}, path...), keyPath), rawPath)
	}

	varsPath := append(append([]string{}, path...), keyVariables)
	rawVars, _ := m.Get(keyVariables)
	vars, ok := asMap(rawVars)
	if !ok {
		r.report(varsPath, "expected an object of variables, received %s", describe(rawVars))
		return env
	}
	for _, varName := range vars.Keys() {
		if strings.TrimSpace(varName) == "" {
			r.report(varsPath, "variable names must not be empty")
			continue
		}
		value, _ := vars.Get(varName)
		if variable, ok := r.variable(append(append([]string{}, varsPath...), varName), varName, value); ok {
			env.Variables = append(env.Variables, variable)
		}
	}
	return env
}

func (r *validation) legacyVariables(path []string, m *RawMap) []Variable {
	var out []Variable
	for _, varName := range m.Keys() {
		if strings.TrimSpace(varName) == "" {
			r.report(path, "variable names must not be empty")
			continue
		}
		value, _ := m.Get(varName)
		scalar, ok := asScalar(value)
		if !ok {
			if _, isMap := asMap(value); isMap {
				r.report(append(append([]string{}, path...), varName),
					"annotated values require the extended form; declare them under 'variables'")
			} else {
				r.report(append(append([]string{}, path...), varName),
					"expected string, number, or boolean, received %s", describe(value))
			}
			continue
		}
		out = append(out, Variable{Name: varName, Value: scalar})
	}
	return out
}

func (r *validation) variable(path []string, name string, raw any) (Variable, bool) {
	if scalar, ok := asScalar(raw); ok {
		return Variable{Name: name, Value: scalar}, true
	}

	m, ok := asMap(raw)
	if !ok {
		r.report(path, "expected string, number, boolean, or an object with 'value', received %s", describe(raw))
		return Variable{}, false
	}
	r.closed(path, m, keyValue, keyComment, keyType)

	variable := Variable{Name: name, Annotated: true}
	valid := true
	rawValue, present := m.Get(keyValue)
	if !present {
		r.report(append(append([]string{}, path...), keyValue), "required")
		valid = false
	} else if scalar, ok := asScalar(rawValue); ok {
		variable.Value = scalar
	} else {
		r.report(append(append([]string{}, path...), keyValue),
			"expected string, number, or boolean, received %s", describe(rawValue))
		valid = false
	}
	if rawComment, present := m.Get(keyComment); present {
		variable.Comment = r.str(append(append([]string{}, path...), keyComment), rawComment)
	}
	if rawType, present := m.Get(keyType); present {
		variable.Type = r.str(append(append([]string{}, path...), keyType), rawType)
	}
	return variable, valid
}

func (r *validation) str(path []string, raw any) string {
	s, ok := raw.(string)
	if !ok {
		r.report(path, "expected string, received %s", describe(raw))
		return ""
	}
	return s
}

// asMap accepts the ordered maps produced by loaders as well as plain maps,
// which are visited in sorted key order.
func asMap(raw any) (*RawMap, bool) {
	switch t := raw.(type) {
	case *RawMap:
		if t == nil {
			return nil, false
		}
		return t, true
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewRawMap()
		for _, k := range keys {
			m.Set(k, t[k])
		}
		return m, true
	default:
		return nil, false
	}
}

func asScalar(raw any) (Scalar, bool) {
	switch t := raw.(type) {
	case string:
		return StringScalar(t), true
	case bool:
		return BoolScalar(t), true
	case int:
		return IntScalar(int64(t)), true
	case int32:
		return IntScalar(int64(t)), true
	case int64:
		return IntScalar(t), true
	case uint:
		return FloatScalar(float64(t)), true
	case uint32:
		return IntScalar(int64(t)), true
	case uint64:
		return FloatScalar(float64(t)), true
	case float32:
		return FloatScalar(float64(t)), true
	case float64:
		return FloatScalar(t), true
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return IntScalar(i), true
		}
		if f, err := t.Float64(); err == nil {
			return FloatScalar(f), true
		}
		return Scalar{}, false
	default:
		return Scalar{}, false
	}
}

func describe(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int32, int64, uint, uint32, uint64, float32, float64, json.Number:
		return "number"
	case []any:
		return "array"
	case *RawMap, map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", raw)
	}
}
