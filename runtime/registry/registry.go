// Package registry resolves node type names to their schema descriptors.
package registry

import (
	"sort"

	"github.com/google/uuid"

	"github.com/BDNK1/nodeflow/runtime"
)

// Registry holds the known node types.
type Registry struct {
	types map[string]*runtime.NodeType
}

func New() *Registry {
	return &Registry{types: make(map[string]*runtime.NodeType)}
}

// Register adds or replaces a node type by name.
func (r *Registry) Register(nodeType *runtime.NodeType) {
	r.types[nodeType.Name] = nodeType
}

// Lookup resolves a node type name.
func (r *Registry) Lookup(typeName string) (*runtime.NodeType, bool) {
	nodeType, ok := r.types[typeName]
	return nodeType, ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnsureWebhookID assigns an opaque identifier to a node whose type declares
// webhooks but which carries none yet.
func (r *Registry) EnsureWebhookID(node *runtime.Node) {
	if node.WebhookID != "" {
		return
	}
	nodeType, ok := r.Lookup(node.Type)
	if !ok || len(nodeType.Webhooks) == 0 {
		return
	}
	node.WebhookID = uuid.New().String()
}
