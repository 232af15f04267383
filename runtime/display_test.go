package runtime

import (
	"testing"
)

func TestIsDisplayed_NoCondition(t *testing.T) {
	field := &FieldSchema{Name: "a", Kind: KindString}

	if !IsDisplayed(map[string]any{}, field, nil) {
		t.Error("field without condition should be visible")
	}
}

func TestIsDisplayed_ShowMatch(t *testing.T) {
	field := &FieldSchema{
		Name: "b",
		Kind: KindString,
		Display: &DisplayCondition{
			Show: map[string][]any{"mode": {"simple", "advanced"}},
		},
	}

	if !IsDisplayed(map[string]any{"mode": "simple"}, field, nil) {
		t.Error("matching show value should be visible")
	}
	if IsDisplayed(map[string]any{"mode": "other"}, field, nil) {
		t.Error("non-matching show value should not be visible")
	}
	if IsDisplayed(map[string]any{}, field, nil) {
		t.Error("missing show value should not be visible")
	}
}

func TestIsDisplayed_ShowConjunction(t *testing.T) {
	field := &FieldSchema{
		Name: "c",
		Kind: KindString,
		Display: &DisplayCondition{
			Show: map[string][]any{
				"mode":  {"simple"},
				"level": {1, 2},
			},
		},
	}

	values := map[string]any{"mode": "simple", "level": 2}
	if !IsDisplayed(values, field, nil) {
		t.Error("all show keys matching should be visible")
	}

	values = map[string]any{"mode": "simple", "level": 3}
	if IsDisplayed(values, field, nil) {
		t.Error("one failing show key should kill visibility")
	}
}

func TestIsDisplayed_ArrayValueIntersection(t *testing.T) {
	field := &FieldSchema{
		Name: "d",
		Kind: KindString,
		Display: &DisplayCondition{
			Show: map[string][]any{"tags": {"beta"}},
		},
	}

	if !IsDisplayed(map[string]any{"tags": []any{"alpha", "beta"}}, field, nil) {
		t.Error("array value intersecting the accepted set should be visible")
	}
	if IsDisplayed(map[string]any{"tags": []any{}}, field, nil) {
		t.Error("empty resolved list should fail show")
	}
}

func TestIsDisplayed_DeferredExpressionOverridesShow(t *testing.T) {
	// An unresolved runtime expression must never hide a field, even when it
	// does not intersect the accepted value set.
	field := &FieldSchema{
		Name: "B",
		Kind: KindString,
		Display: &DisplayCondition{
			Show: map[string][]any{"A": {"x"}},
		},
	}

	if !IsDisplayed(map[string]any{"A": "=expr()"}, field, nil) {
		t.Error("deferred expression value should force visibility")
	}
}

func TestIsDisplayed_Hide(t *testing.T) {
	field := &FieldSchema{
		Name: "e",
		Kind: KindString,
		Display: &DisplayCondition{
			Hide: map[string][]any{"mode": {"hidden"}},
		},
	}

	if IsDisplayed(map[string]any{"mode": "hidden"}, field, nil) {
		t.Error("matching hide value should hide the field")
	}
	if !IsDisplayed(map[string]any{"mode": "visible"}, field, nil) {
		t.Error("non-matching hide value should stay visible")
	}
	if !IsDisplayed(map[string]any{}, field, nil) {
		t.Error("missing hide value should never hide")
	}
	if !IsDisplayed(map[string]any{"mode": []any{}}, field, nil) {
		t.Error("empty resolved list should never hide")
	}
}

func TestIsDisplayed_HideWinsOverShow(t *testing.T) {
	field := &FieldSchema{
		Name: "f",
		Kind: KindString,
		Display: &DisplayCondition{
			Show: map[string][]any{"mode": {"simple"}},
			Hide: map[string][]any{"legacy": {true}},
		},
	}

	values := map[string]any{"mode": "simple", "legacy": true}
	if IsDisplayed(values, field, nil) {
		t.Error("hide should win over a passing show set")
	}
}

func TestIsDisplayed_RootRelativeKey(t *testing.T) {
	field := &FieldSchema{
		Name: "g",
		Kind: KindString,
		Display: &DisplayCondition{
			Show: map[string][]any{"/mode": {"simple"}},
		},
	}

	values := map[string]any{"sub": "x"}
	root := map[string]any{"mode": "simple"}
	if !IsDisplayed(values, field, root) {
		t.Error("root-relative key should resolve against the root tree")
	}

	root = map[string]any{"mode": "other"}
	if IsDisplayed(values, field, root) {
		t.Error("root-relative mismatch should not be visible")
	}
}

func TestIsDisplayed_NumericEquivalence(t *testing.T) {
	// YAML decodes 1 as int while JSON decodes it as float64; both must
	// satisfy the same condition.
	field := &FieldSchema{
		Name: "h",
		Kind: KindString,
		Display: &DisplayCondition{
			Show: map[string][]any{"level": {1}},
		},
	}

	if !IsDisplayed(map[string]any{"level": float64(1)}, field, nil) {
		t.Error("float64(1) should match accepted int 1")
	}
}

func TestIsDisplayedAtPath_SubTree(t *testing.T) {
	field := &FieldSchema{
		Name: "sub",
		Kind: KindString,
		Display: &DisplayCondition{
			Show: map[string][]any{"enabled": {true}},
		},
	}

	values := map[string]any{
		"options": map[string]any{"enabled": true},
	}
	if !IsDisplayedAtPath(values, field, "options") {
		t.Error("condition should resolve inside the sub-tree at path")
	}

	values["options"] = map[string]any{"enabled": false}
	if IsDisplayedAtPath(values, field, "options") {
		t.Error("failing condition inside sub-tree should not be visible")
	}
}

func TestIsDisplayedAtPath_ParametersRootContext(t *testing.T) {
	// A path entering the reserved "parameters" sub-tree recomputes the root
	// so root-relative keys read parameter values.
	field := &FieldSchema{
		Name: "sub",
		Kind: KindString,
		Display: &DisplayCondition{
			Show: map[string][]any{"/mode": {"simple"}},
		},
	}

	values := map[string]any{
		"parameters": map[string]any{
			"mode":    "simple",
			"options": map[string]any{},
		},
	}
	if !IsDisplayedAtPath(values, field, "parameters.options") {
		t.Error("root-relative key should read from the parameters sub-tree")
	}
}

func TestIsDisplayedAtPath_ArrayIndexSegment(t *testing.T) {
	field := &FieldSchema{
		Name: "fieldLabel",
		Kind: KindString,
		Display: &DisplayCondition{
			Show: map[string][]any{"fieldType": {"text"}},
		},
	}

	values := map[string]any{
		"form": map[string]any{
			"values": []any{
				map[string]any{"fieldType": "text"},
				map[string]any{"fieldType": "number"},
			},
		},
	}
	if !IsDisplayedAtPath(values, field, "form.values[0]") {
		t.Error("index 0 should satisfy the condition")
	}
	if IsDisplayedAtPath(values, field, "form.values[1]") {
		t.Error("index 1 should not satisfy the condition")
	}
}
