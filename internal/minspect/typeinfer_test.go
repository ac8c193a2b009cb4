package minspect

import "testing"

func inferRoot(t *testing.T, text string) InferredType {
	t.Helper()
	result, snap := mustParseWithSnap(t, text)
	cache := NewTypeCache()
	return InferType(result.Arena, snap, result.RootId, cache)
}

func TestInferLiteralTypes(t *testing.T) {
	cases := map[string]TypeKind{
		`1`:     TypeNumber,
		`"hi"`:  TypeText,
		`true`:  TypeLogical,
		`false`: TypeLogical,
	}
	for text, want := range cases {
		got := inferRoot(t, text)
		if got.Kind != want {
			t.Errorf("%q: kind = %v, want %v", text, got.Kind, want)
		}
	}
}

func TestInferArithmeticIsNumberExceptAmpersandConcatenation(t *testing.T) {
	if got := inferRoot(t, "1 + 2"); got.Kind != TypeNumber {
		t.Errorf("1 + 2: kind = %v, want TypeNumber", got.Kind)
	}
	if got := inferRoot(t, `"a" & "b"`); got.Kind != TypeText {
		t.Errorf(`"a" & "b": kind = %v, want TypeText`, got.Kind)
	}
}

func TestInferLogicalFamilyKinds(t *testing.T) {
	cases := []string{"1 = 2", "1 <= 2", "1 and 2", "1 is number"}
	for _, text := range cases {
		got := inferRoot(t, text)
		if got.Kind != TypeLogical {
			t.Errorf("%q: kind = %v, want TypeLogical", text, got.Kind)
		}
	}
}

// TestInferListExpressionElementType checks that all of a list's items are
// reachable after the MaybeArrayWrapperContent fix: "{ 1, 2, 3 }" must
// still resolve its element type from its first item.
func TestInferListExpressionElementType(t *testing.T) {
	got := inferRoot(t, "{ 1, 2, 3 }")
	if got.Kind != TypeList || got.List == nil {
		t.Fatalf("kind = %v, want TypeList with a List shape", got.Kind)
	}
	if got.List.Element.Kind != TypeNumber {
		t.Errorf("element kind = %v, want TypeNumber", got.List.Element.Kind)
	}
}

// TestInferRecordExpressionAllFieldsVisible is the direct regression test
// for the MaybeArrayWrapperContent bug: a record with more than one field
// must expose every field, not just the first.
func TestInferRecordExpressionAllFieldsVisible(t *testing.T) {
	got := inferRoot(t, `[ a = 1, b = "x", c = true ]`)
	if got.Kind != TypeRecord || got.Record == nil {
		t.Fatalf("kind = %v, want TypeRecord with a Record shape", got.Kind)
	}
	if len(got.Record.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d: %+v", len(got.Record.Fields), got.Record.Fields)
	}
	if got.Record.Fields["a"].Kind != TypeNumber {
		t.Errorf("field a kind = %v, want TypeNumber", got.Record.Fields["a"].Kind)
	}
	if got.Record.Fields["b"].Kind != TypeText {
		t.Errorf("field b kind = %v, want TypeText", got.Record.Fields["b"].Kind)
	}
	if got.Record.Fields["c"].Kind != TypeLogical {
		t.Errorf("field c kind = %v, want TypeLogical", got.Record.Fields["c"].Kind)
	}
}

// TestInferFunctionExpressionParametersAndReturn is also a direct
// regression test for the MaybeArrayWrapperContent bug: a function with
// more than one parameter must type all of them, not just the first.
func TestInferFunctionExpressionParametersAndReturn(t *testing.T) {
	got := inferRoot(t, "(x as number, y as text) => x")
	if got.Kind != TypeFunction || got.Function == nil {
		t.Fatalf("kind = %v, want TypeFunction with a Function shape", got.Kind)
	}
	if len(got.Function.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(got.Function.Parameters))
	}
	if got.Function.Parameters[0].Kind != TypeNumber {
		t.Errorf("parameter 0 kind = %v, want TypeNumber", got.Function.Parameters[0].Kind)
	}
	if got.Function.Parameters[1].Kind != TypeText {
		t.Errorf("parameter 1 kind = %v, want TypeText", got.Function.Parameters[1].Kind)
	}
}

func TestInferParameterNullability(t *testing.T) {
	got := inferRoot(t, "(optional x as number) => x")
	if len(got.Function.Parameters) != 1 {
		t.Fatalf("expected 1 parameter, got %d", len(got.Function.Parameters))
	}
	if !got.Function.Parameters[0].IsNullable {
		t.Error("expected the 'optional' parameter to be nullable")
	}
}

func TestInferIfExpressionUnionsBranchTypes(t *testing.T) {
	sameBranch := inferRoot(t, "if true then 1 else 2")
	if sameBranch.Kind != TypeNumber {
		t.Errorf("if-then-else with matching branch kinds: kind = %v, want TypeNumber", sameBranch.Kind)
	}
	mixedBranch := inferRoot(t, `if true then 1 else "x"`)
	if mixedBranch.Kind != TypeAny || !mixedBranch.IsNullable {
		t.Errorf("if-then-else with mismatched branch kinds: got %+v, want TypeAny/nullable", mixedBranch)
	}
}

func TestInferTryExpressionIsAlwaysNullable(t *testing.T) {
	got := inferRoot(t, "try 1")
	if got.Kind != TypeNumber || !got.IsNullable {
		t.Errorf("got %+v, want TypeNumber/nullable", got)
	}
}

func TestInferLetExpressionUsesBodyType(t *testing.T) {
	got := inferRoot(t, "let x = 1 in x + 1")
	if got.Kind != TypeNumber {
		t.Errorf("kind = %v, want TypeNumber (the body's type)", got.Kind)
	}
}

func TestInferEachExpressionIsAFunctionOfTheBody(t *testing.T) {
	got := inferRoot(t, "each 1")
	if got.Kind != TypeFunction || got.Function == nil {
		t.Fatalf("kind = %v, want TypeFunction", got.Kind)
	}
	if got.Function.Return.Kind != TypeNumber {
		t.Errorf("return kind = %v, want TypeNumber", got.Function.Return.Kind)
	}
}

func TestInferTypeCacheMemoizesAcrossCalls(t *testing.T) {
	result, snap := mustParseWithSnap(t, "1 + 2")
	cache := NewTypeCache()
	first := InferType(result.Arena, snap, result.RootId, cache)
	second := InferType(result.Arena, snap, result.RootId, cache)
	if first.Kind != second.Kind {
		t.Errorf("expected memoized repeat call to agree: %v vs %v", first.Kind, second.Kind)
	}
}
