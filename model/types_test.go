package model

import "testing"

func TestTypeString(t *testing.T) {
	tests := []struct {
		name string
		typ  TypeDef
		want string
	}{
		{"primitive", TypeInt, "int"},
		{"class", TypeString, "java.lang.String"},
		{"unqualified class", ClassType{Name: "Inner"}, "Inner"},
		{"array", ArrayType{Component: TypeInt, Dimensions: 2}, "int[][]"},
		{"parameterized", ParameterizedType{
			Raw:  ClassType{Package: "java.util", Name: "List"},
			Args: []TypeDef{TypeString},
		}, "java.util.List<java.lang.String>"},
		{"type variable", TypeVariable{Name: "T"}, "T"},
		{"unbounded wildcard", WildcardType{}, "?"},
		{"upper bounded wildcard", WildcardType{Upper: []TypeDef{TypeObject}}, "? extends java.lang.Object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEqualIgnoresNullability(t *testing.T) {
	if !Equal(TypeString, TypeString.AsNullable()) {
		t.Error("Equal(String, String?) = false, want true")
	}
	if Equal(TypeInt, TypeLong) {
		t.Error("Equal(int, long) = true, want false")
	}
	listOfString := ParameterizedType{
		Raw:  ClassType{Package: "java.util", Name: "List"},
		Args: []TypeDef{TypeString},
	}
	listOfObject := ParameterizedType{
		Raw:  ClassType{Package: "java.util", Name: "List"},
		Args: []TypeDef{TypeObject},
	}
	if Equal(listOfString, listOfObject) {
		t.Error("Equal(List<String>, List<Object>) = true, want false")
	}
}

func TestBoxing(t *testing.T) {
	tests := []struct {
		primitive PrimitiveType
		wrapper   string
	}{
		{TypeBoolean, "Boolean"},
		{TypeChar, "Character"},
		{TypeInt, "Integer"},
		{TypeLong, "Long"},
		{TypeDouble, "Double"},
	}
	for _, tt := range tests {
		t.Run(tt.primitive.Name, func(t *testing.T) {
			boxed := tt.primitive.Boxed()
			if boxed.Name != tt.wrapper || boxed.Package != "java.lang" {
				t.Errorf("Boxed() = %s, want java.lang.%s", boxed, tt.wrapper)
			}
			unboxed, ok := UnboxedOf(boxed)
			if !ok || unboxed.Name != tt.primitive.Name {
				t.Errorf("UnboxedOf(%s) = %v (ok=%v), want %s", boxed, unboxed, ok, tt.primitive.Name)
			}
		})
	}
	if _, ok := UnboxedOf(TypeString); ok {
		t.Error("UnboxedOf(String) = true, want false")
	}
}

func TestIsNullable(t *testing.T) {
	if IsNullable(TypeInt) {
		t.Error("IsNullable(int) = true, want false")
	}
	if IsNullable(TypeString) {
		t.Error("IsNullable(String) = true, want false")
	}
	if !IsNullable(TypeString.AsNullable()) {
		t.Error("IsNullable(String?) = false, want true")
	}
	if !IsNullable(ArrayType{Component: TypeInt, Dimensions: 1, Nullable: true}) {
		t.Error("IsNullable(int[]?) = false, want true")
	}
}

func TestInternalName(t *testing.T) {
	if got := TypeString.Internal(); got != "java/lang/String" {
		t.Errorf("Internal() = %q, want %q", got, "java/lang/String")
	}
}
