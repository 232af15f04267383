package runtime

import (
	"fmt"
	"sort"
	"strings"
)

// FieldDependencies maps each field name to the condition keys gating its
// visibility, from the union of its show and hide conditions. Root-relative
// keys keep their marker; ResolveOrder treats them as pre-resolved. Duplicate
// same-named fields contribute to one shared entry.
func FieldDependencies(fields []*FieldSchema) map[string][]string {
	deps := make(map[string][]string, len(fields))
	for _, field := range fields {
		if _, ok := deps[field.Name]; !ok {
			deps[field.Name] = nil
		}
		if field.Display == nil {
			continue
		}
		for key := range field.Display.Show {
			deps[field.Name] = appendUnique(deps[field.Name], key)
		}
		for key := range field.Display.Hide {
			deps[field.Name] = appendUnique(deps[field.Name], key)
		}
	}
	for name := range deps {
		sort.Strings(deps[name])
	}
	return deps
}

// ResolveOrder computes an index order in which every field comes after all
// fields its display conditions depend on. The worklist requeues fields whose
// dependencies are still unresolved; when no field resolves within a full
// budget of len(fields) attempts, the graph has a cycle or references a
// nonexistent field and the call fails with a ConfigError.
func ResolveOrder(fields []*FieldSchema, deps map[string][]string) ([]int, error) {
	order := make([]int, 0, len(fields))
	resolved := make(map[string]bool, len(fields))
	queue := make([]int, len(fields))
	for i := range queue {
		queue[i] = i
	}

	stalls := 0
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		name := fields[idx].Name

		if dependenciesResolved(deps[name], resolved) {
			order = append(order, idx)
			resolved[name] = true
			stalls = 0
			continue
		}

		stalls++
		if stalls > len(fields) {
			return nil, &ConfigError{
				Code:    ErrorCodeUnresolvableOrder,
				Message: fmt.Sprintf("could not resolve display dependencies of field %q", name),
				Field:   name,
			}
		}
		queue = append(queue, idx)
	}

	return order, nil
}

// dependenciesResolved reports whether every non-root dependency has been
// resolved. A dotted key depends on its head field.
func dependenciesResolved(deps []string, resolved map[string]bool) bool {
	for _, dep := range deps {
		if strings.HasPrefix(dep, RootMarker) {
			continue
		}
		head, _, _ := strings.Cut(dep, ".")
		if !resolved[head] {
			return false
		}
	}
	return true
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
