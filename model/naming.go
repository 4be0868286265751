package model

import "strings"

// GetterName is the JavaBeans-style accessor name synthesized for a
// property: getName, or isName for booleans.
func (p PropertyDef) GetterName() string {
	if prim, ok := p.Type.(PrimitiveType); ok && prim.Name == "boolean" {
		return "is" + capitalize(p.Name)
	}
	return "get" + capitalize(p.Name)
}

func (p PropertyDef) SetterName() string {
	return "set" + capitalize(p.Name)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
