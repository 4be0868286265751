package model

// Annotation is an annotation application: a target type plus member
// values in declaration order. Built once during model assembly, read-only
// afterwards.
type Annotation struct {
	Type    ClassType
	Members []AnnotationMember
}

// AnnotationMember is one name/value pair. Value holds a string, an
// integer kind, a float kind, a bool, a rune, a ClassType (class
// reference), an EnumConstant, or a []any of these.
type AnnotationMember struct {
	Name  string
	Value any
}

// NewAnnotation starts an annotation for the given type.
func NewAnnotation(typ ClassType) Annotation {
	return Annotation{Type: typ}
}

// With returns a copy with an extra member appended.
func (a Annotation) With(name string, value any) Annotation {
	members := make([]AnnotationMember, len(a.Members), len(a.Members)+1)
	copy(members, a.Members)
	a.Members = append(members, AnnotationMember{Name: name, Value: value})
	return a
}
