package runtime

import (
	"fmt"
	"sort"
)

// Issues accumulates the non-fatal validation findings for one node. Multiple
// messages per field are preserved, never deduplicated.
type Issues struct {
	Execution   bool
	TypeUnknown bool
	Parameters  map[string][]string
	Credentials map[string][]string
}

// HasAny reports whether any finding was recorded.
func (i *Issues) HasAny() bool {
	if i == nil {
		return false
	}
	return i.Execution || i.TypeUnknown || len(i.Parameters) > 0 || len(i.Credentials) > 0
}

// AddParameter appends a message for one field.
func (i *Issues) AddParameter(name, message string) {
	if i.Parameters == nil {
		i.Parameters = map[string][]string{}
	}
	i.Parameters[name] = append(i.Parameters[name], message)
}

// AddCredential appends a message for one credential entry.
func (i *Issues) AddCredential(name, message string) {
	if i.Credentials == nil {
		i.Credentials = map[string][]string{}
	}
	i.Credentials[name] = append(i.Credentials[name], message)
}

// MergeIssues folds src into dst: boolean flags are OR-combined and message
// lists concatenated.
func MergeIssues(dst, src *Issues) {
	if src == nil {
		return
	}
	dst.Execution = dst.Execution || src.Execution
	dst.TypeUnknown = dst.TypeUnknown || src.TypeUnknown
	for name, messages := range src.Parameters {
		for _, m := range messages {
			dst.AddParameter(name, m)
		}
	}
	for name, messages := range src.Credentials {
		for _, m := range messages {
			dst.AddCredential(name, m)
		}
	}
}

// FieldIssues checks one field, and recursively its children, for missing
// required values at path. A required field is only checked while it is
// displayed.
//
// Missing-value policy by kind: a string is missing when empty or undefined, a
// multi-select when its list is empty, a date/time when undefined. Other kinds
// are never auto-flagged.
func FieldIssues(field *FieldSchema, values map[string]any, path string) *Issues {
	found := &Issues{}

	if field.Required && IsDisplayedAtPath(values, field, path) {
		value, defined := lookupPath(values, joinPath(path, field.Name))
		if missingRequired(field.Kind, value, defined) {
			found.AddParameter(field.Name, fmt.Sprintf("Parameter %q is required.", field.Name))
		}
	}

	base := joinPath(path, field.Name)
	switch field.Kind {
	case KindCollection:
		// Structural requiredness cascades: every declared sub-field is
		// checked whether or not the collection holds a value.
		for _, child := range field.Options {
			MergeIssues(found, FieldIssues(child, values, base))
		}

	case KindFixedCollection:
		container, _ := lookupPath(values, base)
		containerMap, _ := container.(map[string]any)
		for _, group := range field.Alternatives {
			raw, supplied := containerMap[group.Name]
			if !supplied {
				// Requiredness of a nested field is moot until its
				// container exists.
				continue
			}
			if occurrences, isArr := raw.([]any); isArr {
				for i := range occurrences {
					childBase := fmt.Sprintf("%s.%s[%d]", base, group.Name, i)
					for _, child := range group.Fields {
						MergeIssues(found, FieldIssues(child, values, childBase))
					}
				}
			} else {
				childBase := base + "." + group.Name
				for _, child := range group.Fields {
					MergeIssues(found, FieldIssues(child, values, childBase))
				}
			}
		}
	}

	return found
}

// NodeIssues aggregates validation findings for a node against its declared
// type. Disabled nodes yield nil: they are never validated. A nil nodeType
// flags the type as unknown; a known type's declared credentials must be
// present on the node.
func NodeIssues(nodeType *NodeType, node *Node) *Issues {
	if node.Disabled {
		return nil
	}

	found := &Issues{}
	if nodeType == nil {
		found.TypeUnknown = true
		return found
	}

	for _, field := range nodeType.Fields {
		MergeIssues(found, FieldIssues(field, node.Parameters, ""))
	}

	for _, name := range nodeType.Credentials {
		if _, ok := node.Credentials[name]; !ok {
			found.AddCredential(name, fmt.Sprintf("Credentials for %q are not set.", name))
		}
	}

	return found
}

// IssueLines flattens issues into human-readable lines: the fixed execution
// and unknown-type sentences first, then one line per captured message in
// field declaration order. Messages for names outside the declared fields
// (nested findings surface under their own field names) follow in sorted
// order.
func IssueLines(issues *Issues, node *Node, fields []*FieldSchema) []string {
	if issues == nil {
		return nil
	}

	var lines []string
	if issues.Execution {
		lines = append(lines, "Execution Error.")
	}
	if issues.TypeUnknown {
		lines = append(lines, fmt.Sprintf("Node Type %q is not known.", node.Type))
	}

	emitted := map[string]bool{}
	for _, name := range declaredNames(fields) {
		if emitted[name] {
			continue
		}
		emitted[name] = true
		lines = append(lines, issues.Parameters[name]...)
	}
	for _, name := range sortedKeys(issues.Parameters) {
		if !emitted[name] {
			lines = append(lines, issues.Parameters[name]...)
		}
	}
	for _, name := range sortedKeys(issues.Credentials) {
		lines = append(lines, issues.Credentials[name]...)
	}

	return lines
}

// missingRequired implements the per-kind missing-value policy.
func missingRequired(kind FieldKind, value any, defined bool) bool {
	switch kind {
	case KindString:
		if !defined {
			return true
		}
		s, ok := value.(string)
		return ok && s == ""
	case KindMultiOptions:
		arr, ok := value.([]any)
		return ok && len(arr) == 0
	case KindDateTime:
		return !defined
	}
	return false
}

// declaredNames walks a schema tree depth-first collecting field names in
// declaration order.
func declaredNames(fields []*FieldSchema) []string {
	var names []string
	for _, field := range fields {
		names = append(names, field.Name)
		names = append(names, declaredNames(field.Options)...)
		for _, group := range field.Alternatives {
			names = append(names, declaredNames(group.Fields)...)
		}
	}
	return names
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// joinPath appends a segment to a dot-path.
func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
