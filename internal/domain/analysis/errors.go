package analysis

import (
	"fmt"
	"strings"
)

// Violation points at a single offending field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func joinViolations(vs []Violation) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return strings.Join(parts, "; ")
}

// ValidationError reports malformed caller input. It is raised at the HTTP
// boundary so orchestrators only ever see well-formed requests.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return "invalid request: " + joinViolations(e.Violations)
}

// ConfigurationError means a required credential is absent. Callers are
// expected to have branched into demo mode before reaching the model client.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return "missing configuration: " + e.Missing
}

// ModelUnavailableError means every generation attempt failed, either on the
// network or because the model never produced parseable JSON.
type ModelUnavailableError struct {
	Attempts int
	Err      error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

// SchemaError means the model returned syntactically valid JSON that does not
// conform to the task's response shape. It is final for the invocation.
type SchemaError struct {
	Task       Task
	Violations []Violation
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s response failed schema validation: %s", e.Task, joinViolations(e.Violations))
}
