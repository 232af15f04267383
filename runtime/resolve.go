package runtime

import (
	"fmt"
	"reflect"
	"sort"
)

// ResolveOptions control what ResolveParameters returns.
type ResolveOptions struct {
	// ReturnDefaults fills in declared defaults for absent values. Without it
	// only values differing from their default are returned.
	ReturnDefaults bool
	// ReturnHidden includes fields whose display conditions currently fail.
	ReturnHidden bool
	// OnlySimple stops descending into composite containers.
	OnlySimple bool
	// Resolved marks values as already fully defaulted, skipping the baseline
	// pass that would otherwise answer visibility queries.
	Resolved bool
	// Root is the top-level value tree for root-relative conditions; nil
	// means values itself is the root.
	Root map[string]any
	// Parent is the container kind the fields live in, if any.
	Parent FieldKind
	// Dependencies overrides the condition-dependency map; nil computes it
	// from the fields.
	Dependencies map[string][]string
}

// ResolveParameters produces the effective value tree for fields given the
// user-supplied values. The result is nil when the fields contributed nothing
// and defaults were not requested; an empty non-nil map means an empty but
// present result. Identical inputs always produce identical trees.
func ResolveParameters(fields []*FieldSchema, values map[string]any, opt ResolveOptions) (map[string]any, error) {
	if values == nil {
		values = map[string]any{}
	}
	root := opt.Root
	if root == nil {
		root = values
	}

	// The baseline is a fully defaulted snapshot consulted only for
	// visibility checks. It decouples what the caller wants back from what
	// must be considered to decide visibility, so a sibling default can
	// satisfy a condition even when the caller filters defaults out.
	displayValues := values
	if !opt.Resolved && !opt.ReturnHidden {
		baseline, err := ResolveParameters(fields, values, ResolveOptions{
			ReturnDefaults: true,
			ReturnHidden:   true,
			OnlySimple:     true,
			Resolved:       true,
			Root:           root,
			Dependencies:   opt.Dependencies,
		})
		if err != nil {
			return nil, err
		}
		displayValues = baseline
	}

	deps := opt.Dependencies
	if deps == nil {
		deps = FieldDependencies(fields)
	}
	order, err := ResolveOrder(fields, deps)
	if err != nil {
		return nil, err
	}

	out := map[string]any{}
	// Duplicate same-named fields act as ordered alternatives of one logical
	// field: the first one whose display condition passes claims the name.
	seen := map[string]bool{}

	for _, idx := range order {
		field := fields[idx]
		value, defined := values[field.Name]

		// A collection models an optional flat bag, not a fully defaulted
		// record: absent sub-fields stay absent even when defaults are on.
		if !defined && (!opt.ReturnDefaults || opt.Parent == KindCollection) {
			continue
		}
		if seen[field.Name] {
			continue
		}
		if !opt.ReturnHidden && !IsDisplayed(displayValues, field, root) {
			continue
		}
		seen[field.Name] = true

		switch field.Kind {
		case KindCollection:
			if opt.OnlySimple {
				continue
			}
			if err := resolveCollection(out, field, value, defined, root, opt); err != nil {
				return nil, err
			}

		case KindFixedCollection:
			if opt.OnlySimple {
				continue
			}
			if err := resolveFixedCollection(out, field, value, defined, root, opt); err != nil {
				return nil, err
			}

		default:
			resolveScalar(out, field, value, defined, opt)
		}
	}

	if len(out) == 0 && !opt.ReturnDefaults {
		return nil, nil
	}
	return out, nil
}

// resolveScalar emits a scalar field's effective value.
func resolveScalar(out map[string]any, field *FieldSchema, value any, defined bool, opt ResolveOptions) {
	if opt.ReturnDefaults {
		// Booleans, numbers and option selections are special: false and 0
		// are valid values, so only an actually undefined value triggers the
		// default. Other scalars also fall back on falsy values.
		if defined && (field.Kind.preservesFalsy() || !isFalsy(value)) {
			out[field.Name] = value
		} else {
			out[field.Name] = cloneValue(field.Default)
		}
		return
	}

	if !defined {
		return
	}
	// Only explicit, non-default values are returned. Positional values
	// inside a collection survive even when equal to the default.
	if opt.Parent == KindCollection || !reflect.DeepEqual(value, field.Default) {
		out[field.Name] = value
	}
}

// resolveCollection handles the optional flat bag container.
func resolveCollection(out map[string]any, field *FieldSchema, value any, defined bool, root map[string]any, opt ResolveOptions) error {
	if field.MultipleValues {
		// Arrays of collection entries pass through untouched.
		if defined {
			out[field.Name] = value
			return nil
		}
		if arr, ok := field.Default.([]any); ok {
			out[field.Name] = cloneValue(arr)
		} else {
			// Tolerated inconsistency: a non-list default degrades to an
			// empty list instead of failing.
			out[field.Name] = []any{}
		}
		return nil
	}

	if !defined {
		// Only reachable with ReturnDefaults outside a collection parent.
		if m, ok := field.Default.(map[string]any); ok {
			out[field.Name] = cloneValue(m)
		} else {
			out[field.Name] = map[string]any{}
		}
		return nil
	}

	sub, _ := value.(map[string]any)
	resolved, err := ResolveParameters(field.Options, sub, ResolveOptions{
		ReturnDefaults: opt.ReturnDefaults,
		ReturnHidden:   opt.ReturnHidden,
		Resolved:       opt.Resolved,
		Root:           root,
		Parent:         KindCollection,
	})
	if err != nil {
		return err
	}
	if resolved != nil {
		out[field.Name] = resolved
	}
	return nil
}

// resolveFixedCollection handles the named alternative groups container.
func resolveFixedCollection(out map[string]any, field *FieldSchema, value any, defined bool, root map[string]any, opt ResolveOptions) error {
	source := value
	if !defined {
		source = field.Default
	}
	sourceMap, _ := source.(map[string]any)

	names := make([]string, 0, len(sourceMap))
	for name := range sourceMap {
		names = append(names, name)
	}
	sort.Strings(names)

	collected := map[string]any{}
	for _, altName := range names {
		group := field.alternative(altName)
		if group == nil {
			return &ConfigError{
				Code:    ErrorCodeUnknownAlternative,
				Message: fmt.Sprintf("fixedCollection %q has no alternative named %q", field.Name, altName),
				Field:   field.Name,
			}
		}

		childOpt := ResolveOptions{
			ReturnDefaults: opt.ReturnDefaults,
			ReturnHidden:   opt.ReturnHidden,
			Resolved:       opt.Resolved,
			Root:           root,
			Parent:         KindFixedCollection,
		}

		if group.MultipleValues {
			items, ok := sourceMap[altName].([]any)
			if !ok {
				// A single object under a repeatable alternative is treated
				// as a one-element occurrence list.
				if m, isMap := sourceMap[altName].(map[string]any); isMap {
					items = []any{m}
				}
			}
			resolvedItems := make([]any, 0, len(items))
			for _, item := range items {
				m, _ := item.(map[string]any)
				resolved, err := ResolveParameters(group.Fields, m, childOpt)
				if err != nil {
					return err
				}
				if resolved != nil {
					resolvedItems = append(resolvedItems, resolved)
				}
			}
			collected[altName] = resolvedItems
			continue
		}

		m, _ := sourceMap[altName].(map[string]any)
		resolved, err := ResolveParameters(group.Fields, m, childOpt)
		if err != nil {
			return err
		}
		// An alternative that contributed nothing is omitted entirely;
		// forced defaults always produce a present (possibly empty) result.
		if resolved != nil {
			collected[altName] = resolved
		}
	}

	if len(collected) != 0 || opt.ReturnDefaults {
		out[field.Name] = collected
	}
	return nil
}

// isFalsy reports whether a defined value should still trigger the default
// for scalar kinds that do not preserve falsy values.
func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	}
	return false
}

// cloneValue deep-copies maps and slices so resolved trees never alias the
// schema's default values.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	}
	return v
}
