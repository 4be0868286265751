package model

// ObjectDef is one buildable object definition: class, interface, record
// or enum. Definitions are assembled through builders and immutable once
// built.
type ObjectDef interface {
	objectDef()
	PackageName() string
	SimpleName() string
	QualifiedName() string
	Modifiers() Modifiers
	TypeVariables() []TypeVariable
	Interfaces() []TypeDef
	Fields() []FieldDef
	Properties() []PropertyDef
	Methods() []MethodDef
	Annotations() []Annotation
	Javadoc() []string

	// AsType is the definition's own type, with its declared type
	// variables as unbound references. Usable before the definition is
	// fully built.
	AsType() TypeDef
}

type FieldDef struct {
	Name        string
	Type        TypeDef
	Modifiers   Modifiers
	Annotations []Annotation
	Javadoc     []string
}

// PropertyDef is a field whose accessors are synthesized by the renderer
// from this metadata rather than written by hand.
type PropertyDef struct {
	Name        string
	Type        TypeDef
	Annotations []Annotation
	Javadoc     []string
}

type MethodDef struct {
	Name        string
	Modifiers   Modifiers
	Params      []ParamDef
	Returns     TypeDef
	Body        []Stmt
	Annotations []Annotation
	Javadoc     []string
}

// Param looks up a parameter by name. ParamRef nodes resolve through this
// at render time.
func (m *MethodDef) Param(name string) (ParamDef, bool) {
	for _, p := range m.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamDef{}, false
}

type ParamDef struct {
	Name        string
	Type        TypeDef
	Annotations []Annotation
}

type objectBase struct {
	pkg         string
	name        string
	modifiers   Modifiers
	typeVars    []TypeVariable
	interfaces  []TypeDef
	fields      []FieldDef
	properties  []PropertyDef
	methods     []MethodDef
	annotations []Annotation
	javadoc     []string
}

func (o *objectBase) PackageName() string           { return o.pkg }
func (o *objectBase) SimpleName() string            { return o.name }
func (o *objectBase) Modifiers() Modifiers          { return o.modifiers }
func (o *objectBase) TypeVariables() []TypeVariable { return o.typeVars }
func (o *objectBase) Interfaces() []TypeDef         { return o.interfaces }
func (o *objectBase) Fields() []FieldDef            { return o.fields }
func (o *objectBase) Properties() []PropertyDef     { return o.properties }
func (o *objectBase) Methods() []MethodDef          { return o.methods }
func (o *objectBase) Annotations() []Annotation     { return o.annotations }
func (o *objectBase) Javadoc() []string             { return o.javadoc }

func (o *objectBase) QualifiedName() string {
	if o.pkg == "" {
		return o.name
	}
	return o.pkg + "." + o.name
}

func (o *objectBase) AsType() TypeDef {
	raw := ClassType{Package: o.pkg, Name: o.name}
	if len(o.typeVars) == 0 {
		return raw
	}
	args := make([]TypeDef, len(o.typeVars))
	for i, tv := range o.typeVars {
		args[i] = tv
	}
	return ParameterizedType{Raw: raw, Args: args}
}

type ClassDef struct {
	objectBase
	super TypeDef
}

func (*ClassDef) objectDef() {}

// Superclass returns the declared superclass, or nil for java.lang.Object.
func (c *ClassDef) Superclass() TypeDef { return c.super }

type InterfaceDef struct {
	objectBase
}

func (*InterfaceDef) objectDef() {}

// RecordDef's properties are implicitly its canonical constructor
// components, in declaration order.
type RecordDef struct {
	objectBase
}

func (*RecordDef) objectDef() {}

type EnumDef struct {
	objectBase
	constants []string
}

func (*EnumDef) objectDef() {}

// Constants returns the enum constant names in declaration order; ordinal
// assignment is positional.
func (e *EnumDef) Constants() []string { return e.constants }
