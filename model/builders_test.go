package model

import (
	"strings"
	"testing"
)

func TestClassBuilderRejectsNameConflicts(t *testing.T) {
	_, err := NewClass("example", "Broken").
		AddField(FieldDef{Name: "value", Type: TypeInt}).
		AddProperty(PropertyDef{Name: "value", Type: TypeString}).
		Build()
	if err == nil {
		t.Fatal("Build() = nil error, want field/property conflict")
	}
	if !strings.Contains(err.Error(), "value") {
		t.Errorf("error %q does not name the conflicting member", err)
	}
}

func TestClassBuilderRejectsConflictingModifiers(t *testing.T) {
	tests := []struct {
		name      string
		modifiers Modifiers
	}{
		{"two visibilities", Public | Private},
		{"abstract final", Public | Abstract | Final},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClass("example", "Broken").Modifiers(tt.modifiers).Build()
			if err == nil {
				t.Errorf("Build() with %s = nil error, want conflict", tt.modifiers)
			}
		})
	}
}

func TestClassBuilderRejectsDuplicateMethods(t *testing.T) {
	method := MethodDef{Name: "run", Modifiers: Public}
	_, err := NewClass("example", "Broken").
		Modifiers(Public).
		AddMethod(method).
		AddMethod(method).
		Build()
	if err == nil {
		t.Fatal("Build() = nil error, want duplicate method failure")
	}
}

func TestEnumBuilderRejectsDuplicateConstants(t *testing.T) {
	_, err := NewEnum("example", "Color").
		Modifiers(Public).
		AddConstant("RED").
		AddConstant("RED").
		Build()
	if err == nil {
		t.Fatal("Build() = nil error, want duplicate constant failure")
	}
}

func TestBuilderAsTypeBeforeBuild(t *testing.T) {
	b := NewClass("example", "Node")
	typ := b.AsType()
	class, ok := typ.(ClassType)
	if !ok {
		t.Fatalf("AsType() = %T, want ClassType", typ)
	}
	if got := class.String(); got != "example.Node" {
		t.Errorf("AsType().String() = %q, want %q", got, "example.Node")
	}
}

func TestQualifiedName(t *testing.T) {
	def, err := NewInterface("", "Top").Build()
	if err != nil {
		t.Fatalf("Build: %s", err)
	}
	if got := def.QualifiedName(); got != "Top" {
		t.Errorf("QualifiedName() with empty package = %q, want %q", got, "Top")
	}
}
