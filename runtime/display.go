package runtime

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/Jeffail/gabs/v2"

	"github.com/BDNK1/nodeflow/runtime/expression"
)

// IsDisplayed reports whether field is currently visible given its siblings'
// values. root carries the top-level value tree for root-relative condition
// keys; nil means values is the root.
//
// A deferred expression anywhere in a show condition's resolved values makes
// the field visible: an unresolved runtime expression must never hide a field.
// Show keys form a conjunction, hide keys a disjunction; an empty resolved
// value list fails show but never hides.
func IsDisplayed(values map[string]any, field *FieldSchema, root map[string]any) bool {
	dc := field.Display
	if dc == nil {
		return true
	}
	if root == nil {
		root = values
	}

	// Deferred expressions are scanned across all show keys first so the
	// outcome never depends on map iteration order.
	for key := range dc.Show {
		resolved, _ := conditionValues(values, root, key)
		for _, v := range resolved {
			if expression.IsDeferred(v) {
				return true
			}
		}
	}

	for key, accepted := range dc.Show {
		resolved, defined := conditionValues(values, root, key)
		if !defined || !intersects(resolved, accepted) {
			return false
		}
	}

	for key, hidden := range dc.Hide {
		resolved, defined := conditionValues(values, root, key)
		if defined && len(resolved) > 0 && intersects(resolved, hidden) {
			return false
		}
	}

	return true
}

// IsDisplayedAtPath resolves the sub-tree at the given dot-path before
// delegating to IsDisplayed. When the path traverses into the reserved
// "parameters" sub-tree, the root context is recomputed to that sub-tree so
// root-relative conditions keep referring to parameter values.
func IsDisplayedAtPath(values map[string]any, field *FieldSchema, path string) bool {
	resolved := values
	if path != "" {
		sub, ok := lookupPath(values, path)
		if m, isMap := sub.(map[string]any); ok && isMap {
			resolved = m
		} else {
			resolved = map[string]any{}
		}
	}

	root := values
	if head, _, _ := strings.Cut(path, "."); head == ParametersKey {
		if m, ok := values[ParametersKey].(map[string]any); ok {
			root = m
		}
	}

	return IsDisplayed(resolved, field, root)
}

// conditionValues resolves a display-condition key to the list of values it
// currently holds, wrapping scalars and passing arrays through. Root-relative
// keys escape the nested scope.
func conditionValues(values, root map[string]any, key string) ([]any, bool) {
	var raw any
	var ok bool
	if strings.HasPrefix(key, RootMarker) {
		raw, ok = lookupPath(root, strings.TrimPrefix(key, RootMarker))
	} else {
		raw, ok = lookupPath(values, key)
	}
	if !ok {
		return nil, false
	}
	if arr, isArr := raw.([]any); isArr {
		return arr, true
	}
	return []any{raw}, true
}

// intersects reports whether any resolved value appears in the accepted set.
func intersects(resolved, accepted []any) bool {
	for _, v := range resolved {
		for _, a := range accepted {
			if valuesEqual(v, a) {
				return true
			}
		}
	}
	return false
}

// valuesEqual compares condition values loosely enough to survive the int vs
// float64 split YAML and JSON decoding produce for the same document.
func valuesEqual(a, b any) bool {
	if a == b {
		return true
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af == bf
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	}
	return 0, false
}

// indexSuffixRe rewrites "name[3]" path segments into the dotted "name.3"
// form gabs navigates.
var indexSuffixRe = regexp.MustCompile(`\[(\d+)\]`)

// lookupPath reads a possibly dotted key out of a value tree. A plain key is
// read directly; dotted keys are navigated with gabs, array indices appearing
// as numeric segments.
func lookupPath(values map[string]any, key string) (any, bool) {
	if v, ok := values[key]; ok {
		return v, true
	}
	if !strings.Contains(key, ".") && !strings.Contains(key, "[") {
		return nil, false
	}
	container := gabs.Wrap(values).Path(indexSuffixRe.ReplaceAllString(key, ".$1"))
	if container == nil {
		return nil, false
	}
	return container.Data(), true
}
