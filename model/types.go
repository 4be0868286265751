package model

import (
	"fmt"
	"strings"
)

// TypeDef is the closed set of type descriptors understood by every
// renderer. Implementations are immutable value types; renderers dispatch
// on the concrete variant and treat anything else as a modeling error.
type TypeDef interface {
	typeDef()
	String() string
}

type PrimitiveType struct {
	Name string
}

func (PrimitiveType) typeDef()         {}
func (p PrimitiveType) String() string { return p.Name }

type ClassType struct {
	Package  string
	Name     string
	Nullable bool
}

func (ClassType) typeDef() {}

func (c ClassType) String() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

// Internal returns the slash-separated binary name (java/lang/String).
func (c ClassType) Internal() string {
	if c.Package == "" {
		return c.Name
	}
	return strings.ReplaceAll(c.Package, ".", "/") + "/" + c.Name
}

// AsNullable returns a copy of the type with the nullable flag set.
func (c ClassType) AsNullable() ClassType {
	c.Nullable = true
	return c
}

type ParameterizedType struct {
	Raw      ClassType
	Args     []TypeDef
	Nullable bool
}

func (ParameterizedType) typeDef() {}

func (p ParameterizedType) String() string {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.String()
	}
	return p.Raw.String() + "<" + strings.Join(args, ", ") + ">"
}

type ArrayType struct {
	Component  TypeDef
	Dimensions int
	Nullable   bool
}

func (ArrayType) typeDef() {}

func (a ArrayType) String() string {
	return a.Component.String() + strings.Repeat("[]", a.Dimensions)
}

type TypeVariable struct {
	Name   string
	Bounds []TypeDef
}

func (TypeVariable) typeDef()         {}
func (t TypeVariable) String() string { return t.Name }

type WildcardType struct {
	Lower []TypeDef
	Upper []TypeDef
}

func (WildcardType) typeDef() {}

func (w WildcardType) String() string {
	if len(w.Lower) > 0 {
		return "? super " + w.Lower[0].String()
	}
	if len(w.Upper) > 0 {
		return "? extends " + w.Upper[0].String()
	}
	return "?"
}

// Well-known types shared across renderers.
var (
	TypeVoid    = PrimitiveType{Name: "void"}
	TypeBoolean = PrimitiveType{Name: "boolean"}
	TypeByte    = PrimitiveType{Name: "byte"}
	TypeShort   = PrimitiveType{Name: "short"}
	TypeChar    = PrimitiveType{Name: "char"}
	TypeInt     = PrimitiveType{Name: "int"}
	TypeLong    = PrimitiveType{Name: "long"}
	TypeFloat   = PrimitiveType{Name: "float"}
	TypeDouble  = PrimitiveType{Name: "double"}

	TypeObject = ClassType{Package: "java.lang", Name: "Object"}
	TypeString = ClassType{Package: "java.lang", Name: "String"}
)

// boxedTypes maps each primitive to its wrapper class. Both renderers use
// this table so boxing conversions agree between source and bytecode.
var boxedTypes = map[string]ClassType{
	"void":    {Package: "java.lang", Name: "Void"},
	"boolean": {Package: "java.lang", Name: "Boolean"},
	"byte":    {Package: "java.lang", Name: "Byte"},
	"short":   {Package: "java.lang", Name: "Short"},
	"char":    {Package: "java.lang", Name: "Character"},
	"int":     {Package: "java.lang", Name: "Integer"},
	"long":    {Package: "java.lang", Name: "Long"},
	"float":   {Package: "java.lang", Name: "Float"},
	"double":  {Package: "java.lang", Name: "Double"},
}

// Boxed returns the wrapper class type for a primitive.
func (p PrimitiveType) Boxed() ClassType {
	boxed, ok := boxedTypes[p.Name]
	if !ok {
		panic(fmt.Sprintf("unknown primitive type %q", p.Name))
	}
	return boxed
}

// UnboxedOf reports the primitive counterpart of a wrapper class type.
func UnboxedOf(c ClassType) (PrimitiveType, bool) {
	if c.Package != "java.lang" {
		return PrimitiveType{}, false
	}
	for name, boxed := range boxedTypes {
		if boxed.Name == c.Name {
			return PrimitiveType{Name: name}, true
		}
	}
	return PrimitiveType{}, false
}

// IsNullable reports the declared nullability of a type. Primitives and
// type variables are never nullable.
func IsNullable(t TypeDef) bool {
	switch v := t.(type) {
	case ClassType:
		return v.Nullable
	case ParameterizedType:
		return v.Nullable
	case ArrayType:
		return v.Nullable
	default:
		return false
	}
}

// Equal compares two type descriptors structurally, ignoring nullability.
func Equal(a, b TypeDef) bool {
	switch x := a.(type) {
	case PrimitiveType:
		y, ok := b.(PrimitiveType)
		return ok && x.Name == y.Name
	case ClassType:
		y, ok := b.(ClassType)
		return ok && x.Package == y.Package && x.Name == y.Name
	case ParameterizedType:
		y, ok := b.(ParameterizedType)
		if !ok || !Equal(x.Raw, y.Raw) || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case ArrayType:
		y, ok := b.(ArrayType)
		return ok && x.Dimensions == y.Dimensions && Equal(x.Component, y.Component)
	case TypeVariable:
		y, ok := b.(TypeVariable)
		return ok && x.Name == y.Name
	case WildcardType:
		_, ok := b.(WildcardType)
		return ok
	default:
		return false
	}
}
