package runtime

import "fmt"

// ConfigErrorCode identifies known schema/configuration error codes.
type ConfigErrorCode string

const (
	// ErrorCodeUnknownAlternative signals a fixedCollection value referencing
	// an alternative name its schema does not declare.
	ErrorCodeUnknownAlternative ConfigErrorCode = "UNKNOWN_ALTERNATIVE"
	// ErrorCodeUnresolvableOrder signals a display-condition dependency graph
	// with a cycle or a reference to a nonexistent field.
	ErrorCodeUnresolvableOrder ConfigErrorCode = "UNRESOLVABLE_ORDER"
	// ErrorCodeContextUninitialized signals a context request against a run
	// whose execution data was never initialized.
	ErrorCodeContextUninitialized ConfigErrorCode = "CONTEXT_UNINITIALIZED"
	// ErrorCodeContextMissingNode signals a node-scoped context request made
	// without a node.
	ErrorCodeContextMissingNode ConfigErrorCode = "CONTEXT_MISSING_NODE"
	// ErrorCodeContextUnknownScope signals an unrecognized context scope value.
	ErrorCodeContextUnknownScope ConfigErrorCode = "CONTEXT_UNKNOWN_SCOPE"
)

// ConfigError is the canonical fatal error for schema and configuration bugs.
// It aborts the current resolution or derivation call entirely. Validation
// findings are never represented as ConfigError; they travel as Issues data.
type ConfigError struct {
	Code    ConfigErrorCode `json:"code"`
	Message string          `json:"message"`
	Field   string          `json:"field,omitempty"`
	Cause   error           `json:"-"`
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ToMap converts the error to a map suitable for structured log attributes.
func (e *ConfigError) ToMap() map[string]any {
	m := map[string]any{
		"code":    string(e.Code),
		"message": e.Message,
	}
	if e.Field != "" {
		m["field"] = e.Field
	}
	return m
}
