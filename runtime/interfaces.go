package runtime

// ExpressionEvaluator resolves simple values that may carry the expression
// escape marker. Literal values pass through unchanged; deferred expressions
// are evaluated against env in the given mode. A value that cannot be
// resolved yields fallback. The runtime/expression package provides the
// expr-lang backed implementation.
type ExpressionEvaluator interface {
	ResolveSimple(v any, mode string, env map[string]any, fallback any) any
}

// NodeTypeRegistry resolves a node's type name to its schema descriptor.
type NodeTypeRegistry interface {
	Lookup(typeName string) (*NodeType, bool)
}
