package runtime

// FieldKind tags a FieldSchema with its value shape. The scalar kinds share
// one handling path in the resolver; collection and fixedCollection are the
// two composite container kinds.
type FieldKind string

const (
	KindString          FieldKind = "string"
	KindNumber          FieldKind = "number"
	KindBoolean         FieldKind = "boolean"
	KindOptions         FieldKind = "options"
	KindMultiOptions    FieldKind = "multiOptions"
	KindDateTime        FieldKind = "dateTime"
	KindJSON            FieldKind = "json"
	KindCollection      FieldKind = "collection"
	KindFixedCollection FieldKind = "fixedCollection"
)

// IsComposite reports whether the kind is one of the container kinds.
func (k FieldKind) IsComposite() bool {
	return k == KindCollection || k == KindFixedCollection
}

// preservesFalsy reports whether an explicit false/0/selection value survives
// defaulting. For other scalar kinds a falsy user value falls back to the
// declared default.
func (k FieldKind) preservesFalsy() bool {
	switch k {
	case KindBoolean, KindNumber, KindOptions, KindMultiOptions:
		return true
	}
	return false
}

const (
	// RootMarker prefixes display-condition keys that reference top-level
	// values instead of siblings.
	RootMarker = "/"

	// ParametersKey is the reserved sub-tree name holding a node's parameter
	// values inside a larger value tree.
	ParametersKey = "parameters"

	// DynamicSegmentMarker prefixes webhook path segments bound at request time.
	DynamicSegmentMarker = ":"

	// UnsavedWorkflowID is the placeholder id used to derive webhook paths for
	// workflows that were never persisted.
	UnsavedWorkflowID = "__UNSAVED__"
)

// DisplayCondition gates a field's visibility on sibling or root values.
// Show keys must all match (conjunction); any matching Hide key wins over a
// passing Show set.
type DisplayCondition struct {
	Show map[string][]any `yaml:"show,omitempty"`
	Hide map[string][]any `yaml:"hide,omitempty"`
}

// AlternativeGroup is one named, independently repeatable sub-schema of a
// fixedCollection field.
type AlternativeGroup struct {
	Name           string         `yaml:"name"`
	MultipleValues bool           `yaml:"multipleValues,omitempty"`
	Fields         []*FieldSchema `yaml:"fields"`
}

// FieldSchema describes one configurable value a node accepts. Schemas are
// loaded once per node type and never mutated afterwards.
//
// Options carries the children of a collection field; Alternatives carries the
// named groups of a fixedCollection field. The same field name may appear more
// than once at one level: such duplicates act as ordered alternatives of one
// logical field, selected by their display conditions.
type FieldSchema struct {
	Name           string              `yaml:"name"`
	Kind           FieldKind           `yaml:"kind"`
	Default        any                 `yaml:"default,omitempty"`
	Required       bool                `yaml:"required,omitempty"`
	MultipleValues bool                `yaml:"multipleValues,omitempty"`
	Display        *DisplayCondition   `yaml:"display,omitempty"`
	Options        []*FieldSchema      `yaml:"options,omitempty"`
	Alternatives   []*AlternativeGroup `yaml:"alternatives,omitempty"`
}

// alternative looks up a fixedCollection group by name.
func (f *FieldSchema) alternative(name string) *AlternativeGroup {
	for _, group := range f.Alternatives {
		if group.Name == name {
			return group
		}
	}
	return nil
}

// WebhookDescriptor declares one webhook of a node type. Path, HTTPMethod,
// IsFullPath and RestartWebhook hold either literal values or deferred
// expressions resolved against the node's parameters at derivation time.
type WebhookDescriptor struct {
	Name           string `yaml:"name"`
	HTTPMethod     any    `yaml:"httpMethod,omitempty"`
	Path           any    `yaml:"path"`
	IsFullPath     any    `yaml:"isFullPath,omitempty"`
	RestartWebhook any    `yaml:"restartWebhook,omitempty"`
}

// NodeType is the schema descriptor for one node type: its configurable
// fields, its declared webhooks and the credential entries it requires.
type NodeType struct {
	Name        string               `yaml:"name"`
	Fields      []*FieldSchema       `yaml:"fields"`
	Webhooks    []*WebhookDescriptor `yaml:"webhooks,omitempty"`
	Credentials []string             `yaml:"credentials,omitempty"`
}

// Node is one configured node inside a workflow.
type Node struct {
	Name        string         `yaml:"name"`
	Type        string         `yaml:"type"`
	Disabled    bool           `yaml:"disabled,omitempty"`
	WebhookID   string         `yaml:"webhookId,omitempty"`
	Parameters  map[string]any `yaml:"parameters,omitempty"`
	Credentials map[string]any `yaml:"credentials,omitempty"`
}

// Workflow groups nodes under a stable identity.
type Workflow struct {
	ID    string  `yaml:"id"`
	Nodes []*Node `yaml:"nodes"`
}
