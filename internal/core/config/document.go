package config

import (
	"math"
	"strconv"
)

// ScalarKind identifies the original type of a scalar value
type ScalarKind int

const (
	KindString ScalarKind = iota
	KindNumber
	KindBool
)

// String returns the name of the kind
func (k ScalarKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	default:
		return "string"
	}
}

// Scalar is a value object holding a string, number or boolean. The original
// kind is kept until rendering.
type Scalar struct {
	kind ScalarKind
	text string
}

// StringScalar creates a string scalar
func StringScalar(value string) Scalar {
	return Scalar{kind: KindString, text: value}
}

// IntScalar creates a number scalar from an integer
func IntScalar(value int64) Scalar {
	return Scalar{kind: KindNumber, text: strconv.FormatInt(value, 10)}
}

// FloatScalar creates a number scalar from a float, rendered in plain decimal
func FloatScalar(value float64) Scalar {
	if math.Trunc(value) == value && math.Abs(value) < 1e15 {
		return IntScalar(int64(value))
	}
	return Scalar{kind: KindNumber, text: strconv.FormatFloat(value, 'f', -1, 64)}
}

// BoolScalar creates a boolean scalar
func BoolScalar(value bool) Scalar {
	return Scalar{kind: KindBool, text: strconv.FormatBool(value)}
}

// Kind returns the original kind of the scalar
func (s Scalar) Kind() ScalarKind {
	return s.kind
}

// String returns the canonical string form of the scalar
func (s Scalar) String() string {
	return s.text
}

// EnvironmentForm tags which document shape an environment was declared with
type EnvironmentForm int

const (
	// FormLegacy is a flat map of variable name to scalar
	FormLegacy EnvironmentForm = iota
	// FormExtended is the {variables, path} object
	FormExtended
)

// Variable is one entry of a variable set
type Variable struct {
	Name  string
	Value Scalar

	// Annotated is true when the value was declared as {value, comment, type}
	Annotated bool
	Comment   string
	Type      string
}


// Environment is a named set of variables within an application
type Environment struct {
	Name      string
	Form      EnvironmentForm
	Path      string
	Variables []Variable
}

// HasPath reports whether the environment overrides the output directory
func (e *Environment) HasPath() bool {
	return e.Path != ""
}

// Application groups the environments of one app of the workspace
type Application struct {
	Name         string
	Path         string
	Environments []*Environment
}

// HasPath reports whether the application declares a default output directory
func (a *Application) HasPath() bool {
	return a.Path != ""
}

// Document is the canonical form of a validated configuration document
type Document struct {
	Shared map[string]Scalar
	Apps   []*Application
}

// RawMap is an insertion-ordered mapping produced by a document loader.
// The zero value is an empty map ready to use.
type RawMap struct {
	keys   []string
	values map[string]any
}

// NewRawMap creates an empty ordered map
func NewRawMap() *RawMap {
	return &RawMap{values: make(map[string]any)}
}

// Set stores a value, keeping the position of an existing key
func (m *RawMap) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key
func (m *RawMap) Get(key string) (any, bool) {
	if m == nil || m.values == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present
func (m *RawMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the keys in insertion order
func (m *RawMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries
func (m *RawMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}
