// Package resolve substitutes ${shared:NAME} placeholders with shared
// variable values.
package resolve

import (
	"fmt"
	"regexp"
	"strings"

	"monoenv.dev/cli/internal/core/config"
)

var placeholderPattern = regexp.MustCompile(`\$\{shared:([^}]+)\}`)

// MissingSharedVariableError lists the shared variables a value referenced but
// the configuration does not declare, in first-seen order without duplicates.
type MissingSharedVariableError struct {
	Names []string
}

func (e *MissingSharedVariableError) Error() string {
	return MissingMessage(e.Names)
}

// MissingMessage formats a list of missing shared variable names
func MissingMessage(names []string) string {
	if len(names) == 1 {
		return fmt.Sprintf("Shared variable '%s' not found", names[0])
	}
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + name + "'"
	}
	return "Shared variables not found: " + strings.Join(quoted, ", ")
}

// Resolve replaces every placeholder in value. Unknown names are left in place
// and reported together once the whole string has been scanned.
func Resolve(value string, shared map[string]config.Scalar) (string, error) {
	missing := NewNameSet()
	resolved := placeholderPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		scalar, ok := shared[name]
		if !ok {
			missing.Add(name)
			return match
		}
		return scalar.String()
	})

	if missing.Len() > 0 {
		return resolved, &MissingSharedVariableError{Names: missing.Names()}
	}
	return resolved, nil
}

// References returns the distinct shared variable names value refers to
func References(value string) []string {
	refs := NewNameSet()
	for _, m := range placeholderPattern.FindAllStringSubmatch(value, -1) {
		refs.Add(m[1])
	}
	return refs.Names()
}

// NameSet is an insertion-ordered set of names
type NameSet struct {
	names []string
	seen  map[string]struct{}
}

// NewNameSet creates an empty set
func NewNameSet() *NameSet {
	return &NameSet{seen: make(map[string]struct{})}
}

// Add inserts name unless it is already present
func (s *NameSet) Add(names ...string) {
	for _, name := range names {
		if _, ok := s.seen[name]; ok {
			continue
		}
		s.seen[name] = struct{}{}
		s.names = append(s.names, name)
	}
}

// Len returns the number of distinct names
func (s *NameSet) Len() int {
	return len(s.names)
}

// Names returns the names in insertion order
func (s *NameSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
