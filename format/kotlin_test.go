package format

import (
	"strings"
	"testing"

	"github.com/dhamidi/sourcegen/model"
)

func renderKotlin(t *testing.T, def model.ObjectDef) string {
	t.Helper()
	var sb strings.Builder
	if err := NewKotlinWriter(&sb).Write(def); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	return sb.String()
}

func TestKotlinNullableTypes(t *testing.T) {
	def, err := model.NewClass("example", "Holder").
		Modifiers(model.Public).
		AddProperty(model.PropertyDef{Name: "label", Type: model.TypeString.AsNullable()}).
		AddProperty(model.PropertyDef{Name: "owner", Type: model.TypeString}).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	got := renderKotlin(t, def)
	if !strings.Contains(got, "var label: String? = null") {
		t.Errorf("nullable property not rendered with ?:\n%s", got)
	}
	if !strings.Contains(got, "lateinit var owner: String") {
		t.Errorf("non-null property not rendered as lateinit:\n%s", got)
	}
}

func TestKotlinNotNullAssertionOnReturn(t *testing.T) {
	def, err := model.NewClass("example", "Lookup").
		Modifiers(model.Public).
		AddMethod(model.MethodDef{
			Name:      "require",
			Modifiers: model.Public,
			Params:    []model.ParamDef{{Name: "value", Type: model.TypeString.AsNullable()}},
			Returns:   model.TypeString,
			Body:      []model.Stmt{model.Return{Value: model.ParamRef{Name: "value"}}},
		}).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	got := renderKotlin(t, def)
	if !strings.Contains(got, "return value!!") {
		t.Errorf("nullable return into non-null type missing !!:\n%s", got)
	}
}

func TestKotlinNotNullAssertionOnReceiver(t *testing.T) {
	def, err := model.NewClass("example", "Chained").
		Modifiers(model.Public).
		AddMethod(model.MethodDef{
			Name:      "size",
			Modifiers: model.Public,
			Params:    []model.ParamDef{{Name: "text", Type: model.TypeString.AsNullable()}},
			Returns:   model.TypeInt,
			Body: []model.Stmt{
				model.Return{Value: model.CallMethod{
					Instance: model.ParamRef{Name: "text"},
					Name:     "length",
					Returns:  model.TypeInt,
				}},
			},
		}).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	got := renderKotlin(t, def)
	if !strings.Contains(got, "text!!.length()") {
		t.Errorf("nullable receiver missing !!:\n%s", got)
	}
}

func TestKotlinCompanionObject(t *testing.T) {
	def, err := model.NewClass("example", "Registry").
		Modifiers(model.Public).
		AddField(model.FieldDef{Name: "count", Type: model.TypeInt, Modifiers: model.Private | model.Static}).
		AddMethod(model.MethodDef{
			Name:      "bump",
			Modifiers: model.Public | model.Static,
			Returns:   model.TypeVoid,
			Body:      []model.Stmt{model.Return{}},
		}).
		AddMethod(model.MethodDef{
			Name:      "label",
			Modifiers: model.Public,
			Returns:   model.TypeString,
			Body: []model.Stmt{
				model.Return{Value: model.Constant{Type: model.TypeString, Value: "registry"}},
			},
		}).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	got := renderKotlin(t, def)
	companionAt := strings.Index(got, "companion object {")
	if companionAt == -1 {
		t.Fatalf("companion object not emitted:\n%s", got)
	}
	if bumpAt := strings.Index(got, "fun bump()"); bumpAt < companionAt {
		t.Errorf("static method rendered outside companion object:\n%s", got)
	}
	if labelAt := strings.Index(got, "fun label()"); labelAt > companionAt {
		t.Errorf("instance method rendered inside companion object:\n%s", got)
	}
	if countAt := strings.Index(got, "var count: Int"); countAt < companionAt {
		t.Errorf("static field rendered outside companion object:\n%s", got)
	}
}

func TestKotlinDataClass(t *testing.T) {
	def, err := model.NewRecord("example", "Person").
		Modifiers(model.Public).
		AddProperty(model.PropertyDef{Name: "name", Type: model.TypeString}).
		AddProperty(model.PropertyDef{Name: "age", Type: model.ClassType{Package: "java.lang", Name: "Integer", Nullable: true}}).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	got := renderKotlin(t, def)
	if !strings.Contains(got, "data class Person(val name: String, val age: Int?)") {
		t.Errorf("data class header wrong:\n%s", got)
	}
}

func TestKotlinWhenExpression(t *testing.T) {
	got := renderKotlin(t, buildSwitchClass(t))
	for _, want := range []string{
		"when (value) {",
		`"abc" -> 1`,
		`"xyz" -> 2`,
		"else -> 3",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestKotlinTernaryAsIfElse(t *testing.T) {
	def, err := model.NewClass("example", "Pick").
		Modifiers(model.Public).
		AddMethod(model.MethodDef{
			Name:      "choose",
			Modifiers: model.Public,
			Params:    []model.ParamDef{{Name: "flag", Type: model.TypeBoolean}},
			Returns:   model.TypeInt,
			Body: []model.Stmt{
				model.Return{Value: model.Ternary{
					Cond: model.ParamRef{Name: "flag"},
					Then: model.Constant{Type: model.TypeInt, Value: 1},
					Else: model.Constant{Type: model.TypeInt, Value: 2},
				}},
			},
		}).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	got := renderKotlin(t, def)
	if !strings.Contains(got, "return if (flag) 1 else 2") {
		t.Errorf("ternary not rendered as if expression:\n%s", got)
	}
}

func TestKotlinPrimitiveArrays(t *testing.T) {
	def, err := model.NewClass("example", "Buffers").
		Modifiers(model.Public).
		AddMethod(model.MethodDef{
			Name:      "make",
			Modifiers: model.Public,
			Returns:   model.ArrayType{Component: model.TypeInt, Dimensions: 1},
			Body: []model.Stmt{
				model.Return{Value: model.NewArray{
					Component: model.TypeInt,
					Size:      model.Constant{Type: model.TypeInt, Value: 4},
				}},
			},
		}).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	got := renderKotlin(t, def)
	if !strings.Contains(got, "fun make(): IntArray {") {
		t.Errorf("IntArray return type missing:\n%s", got)
	}
	if !strings.Contains(got, "return IntArray(4)") {
		t.Errorf("IntArray constructor missing:\n%s", got)
	}
}

func TestKotlinMismatchedConstantKindFails(t *testing.T) {
	def, err := model.NewClass("example", "Broken").
		Modifiers(model.Public).
		AddMethod(model.MethodDef{
			Name:      "get",
			Modifiers: model.Public,
			Returns:   model.TypeInt,
			Body:      []model.Stmt{model.Return{Value: model.Constant{Type: model.TypeInt, Value: "abc"}}},
		}).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	var sb strings.Builder
	werr := NewKotlinWriter(&sb).Write(def)
	if werr == nil {
		t.Fatal("Write() succeeded, want mismatched-constant error")
	}
	if !strings.Contains(werr.Error(), "int constant with string value") {
		t.Errorf("error = %q, want mention of the constant kind mismatch", werr)
	}
}

func TestKotlinWriteIdempotent(t *testing.T) {
	def, err := model.NewClass("example", "Stable").
		Modifiers(model.Public).
		AddProperty(model.PropertyDef{Name: "label", Type: model.TypeString}).
		AddMethod(model.MethodDef{
			Name:      "pick",
			Modifiers: model.Public,
			Params:    []model.ParamDef{{Name: "b", Type: model.TypeBoolean}},
			Returns:   model.TypeInt,
			Body: []model.Stmt{
				model.Return{Value: model.Ternary{
					Cond: model.ParamRef{Name: "b"},
					Then: model.Constant{Type: model.TypeInt, Value: 1},
					Else: model.Constant{Type: model.TypeInt, Value: 2},
				}},
			},
		}).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	first := renderKotlin(t, def)
	second := renderKotlin(t, def)
	if first != second {
		t.Errorf("rendering the same definition twice diverged:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
