// Package expression implements the engine's expression layer: the marker
// convention separating literal values from deferred expressions, and an
// expr-lang backed evaluator for the deferred ones.
package expression

import (
	"strings"

	"github.com/expr-lang/expr"
)

// Marker prefixes strings whose value is computed at resolution time.
const Marker = "="

// ModeInternal is the evaluation mode used for framework-driven resolution
// such as webhook route derivation.
const ModeInternal = "internal"

// Term is either a Literal or a Deferred expression. Classify is the single
// place the marker convention is interpreted; callers never inspect string
// prefixes themselves.
type Term interface {
	term()
}

// Literal is a plain value used as-is.
type Literal struct {
	Val any
}

// Deferred is the raw text of an expression, marker stripped.
type Deferred struct {
	Raw string
}

func (Literal) term()  {}
func (Deferred) term() {}

// Classify splits a user-supplied value into its literal or deferred form.
func Classify(v any) Term {
	if s, ok := v.(string); ok && strings.HasPrefix(s, Marker) {
		return Deferred{Raw: strings.TrimPrefix(s, Marker)}
	}
	return Literal{Val: v}
}

// IsDeferred reports whether v is a string carrying the expression marker.
func IsDeferred(v any) bool {
	_, ok := Classify(v).(Deferred)
	return ok
}

// Evaluator compiles and runs deferred expressions with expr-lang.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate runs a deferred expression's raw text against env. Missing
// variables evaluate to nil instead of failing compilation.
func (e *Evaluator) Evaluate(raw string, mode string, env map[string]any) (any, error) {
	if env == nil {
		env = map[string]any{}
	}

	// NOTE: expr.Env MUST come before AllowUndefinedVariables for it to work
	opts := []expr.Option{
		expr.Env(env),
		expr.AllowUndefinedVariables(),
	}

	program, err := expr.Compile(raw, opts...)
	if err != nil {
		return nil, err
	}
	return expr.Run(program, env)
}

// ResolveSimple resolves a value that may carry the marker: literals pass
// through, deferred expressions are evaluated, and any failure or nil result
// yields fallback.
func (e *Evaluator) ResolveSimple(v any, mode string, env map[string]any, fallback any) any {
	switch t := Classify(v).(type) {
	case Literal:
		if t.Val == nil {
			return fallback
		}
		return t.Val
	case Deferred:
		out, err := e.Evaluate(t.Raw, mode, env)
		if err != nil || out == nil {
			return fallback
		}
		return out
	}
	return fallback
}
