package generate

import (
	"fmt"
	"strings"

	"monoenv.dev/cli/internal/core/resolve"
)

// AppNotFoundError is returned when the requested application does not exist
type AppNotFoundError struct {
	App       string
	Available []string
}

func (e *AppNotFoundError) Error() string {
	return fmt.Sprintf("App '%s' not found. Available apps: %s", e.App, listOrNone(e.Available))
}

// EnvironmentNotFoundError is returned when the application exists but the
// requested environment does not
type EnvironmentNotFoundError struct {
	App         string
	Environment string
	Available   []string
}

func (e *EnvironmentNotFoundError) Error() string {
	return fmt.Sprintf("Environment '%s' not found in app '%s'. Available environments: %s",
		e.Environment, e.App, listOrNone(e.Available))
}

// VariableFailure records why one variable could not be resolved
type VariableFailure struct {
	Variable string
	Err      error
}

// ResolutionError aggregates the failures of every variable of one environment
type ResolutionError struct {
	Failures []VariableFailure
}

// MissingNames returns the distinct missing shared variables across all
// failures, in first-seen order
func (e *ResolutionError) MissingNames() []string {
	names := resolve.NewNameSet()
	for _, f := range e.Failures {
		if missing, ok := f.Err.(*resolve.MissingSharedVariableError); ok {
			names.Add(missing.Names...)
		}
	}
	return names.Names()
}

func (e *ResolutionError) Error() string {
	if len(e.Failures) == 1 {
		f := e.Failures[0]
		return fmt.Sprintf("Failed to resolve variable for %s: %s", f.Variable, f.Err)
	}

	variables := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		variables[i] = f.Variable
	}
	return fmt.Sprintf("Failed to resolve variables %s: %s",
		strings.Join(variables, ", "), resolve.MissingMessage(e.MissingNames()))
}

// PairError wraps the failure of one (application, environment) pair during
// whole-configuration generation
type PairError struct {
	App         string
	Environment string
	Err         error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("Failed to generate app '%s' environment '%s': %s", e.App, e.Environment, e.Err)
}

func (e *PairError) Unwrap() error {
	return e.Err
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
