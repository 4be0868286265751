package model

import "fmt"

// Builders accumulate members in call order and perform name-uniqueness
// and modifier checks on Build. The returned definition is an immutable
// snapshot; the builder must not be reused afterwards.

type ClassBuilder struct {
	def ClassDef
}

func NewClass(pkg, name string) *ClassBuilder {
	b := &ClassBuilder{}
	b.def.pkg = pkg
	b.def.name = name
	return b
}

func (b *ClassBuilder) Modifiers(m Modifiers) *ClassBuilder {
	b.def.modifiers = m
	return b
}

func (b *ClassBuilder) TypeVariable(tv TypeVariable) *ClassBuilder {
	b.def.typeVars = append(b.def.typeVars, tv)
	return b
}

func (b *ClassBuilder) Superclass(t TypeDef) *ClassBuilder {
	b.def.super = t
	return b
}

func (b *ClassBuilder) Implements(t TypeDef) *ClassBuilder {
	b.def.interfaces = append(b.def.interfaces, t)
	return b
}

func (b *ClassBuilder) AddField(f FieldDef) *ClassBuilder {
	b.def.fields = append(b.def.fields, f)
	return b
}

func (b *ClassBuilder) AddProperty(p PropertyDef) *ClassBuilder {
	b.def.properties = append(b.def.properties, p)
	return b
}

func (b *ClassBuilder) AddMethod(m MethodDef) *ClassBuilder {
	b.def.methods = append(b.def.methods, m)
	return b
}

func (b *ClassBuilder) Annotate(a Annotation) *ClassBuilder {
	b.def.annotations = append(b.def.annotations, a)
	return b
}

func (b *ClassBuilder) Javadoc(lines ...string) *ClassBuilder {
	b.def.javadoc = append(b.def.javadoc, lines...)
	return b
}

// AsType is usable before Build, so method bodies can reference the
// enclosing type while the definition is still being assembled.
func (b *ClassBuilder) AsType() TypeDef { return b.def.AsType() }

func (b *ClassBuilder) Build() (*ClassDef, error) {
	if err := validateBase(&b.def.objectBase); err != nil {
		return nil, fmt.Errorf("class %s: %w", b.def.QualifiedName(), err)
	}
	def := b.def
	return &def, nil
}

type InterfaceBuilder struct {
	def InterfaceDef
}

func NewInterface(pkg, name string) *InterfaceBuilder {
	b := &InterfaceBuilder{}
	b.def.pkg = pkg
	b.def.name = name
	return b
}

func (b *InterfaceBuilder) Modifiers(m Modifiers) *InterfaceBuilder {
	b.def.modifiers = m
	return b
}

func (b *InterfaceBuilder) TypeVariable(tv TypeVariable) *InterfaceBuilder {
	b.def.typeVars = append(b.def.typeVars, tv)
	return b
}

func (b *InterfaceBuilder) Extends(t TypeDef) *InterfaceBuilder {
	b.def.interfaces = append(b.def.interfaces, t)
	return b
}

func (b *InterfaceBuilder) AddMethod(m MethodDef) *InterfaceBuilder {
	b.def.methods = append(b.def.methods, m)
	return b
}

func (b *InterfaceBuilder) Annotate(a Annotation) *InterfaceBuilder {
	b.def.annotations = append(b.def.annotations, a)
	return b
}

func (b *InterfaceBuilder) Javadoc(lines ...string) *InterfaceBuilder {
	b.def.javadoc = append(b.def.javadoc, lines...)
	return b
}

func (b *InterfaceBuilder) AsType() TypeDef { return b.def.AsType() }

func (b *InterfaceBuilder) Build() (*InterfaceDef, error) {
	if err := validateBase(&b.def.objectBase); err != nil {
		return nil, fmt.Errorf("interface %s: %w", b.def.QualifiedName(), err)
	}
	def := b.def
	return &def, nil
}

type RecordBuilder struct {
	def RecordDef
}

func NewRecord(pkg, name string) *RecordBuilder {
	b := &RecordBuilder{}
	b.def.pkg = pkg
	b.def.name = name
	return b
}

func (b *RecordBuilder) Modifiers(m Modifiers) *RecordBuilder {
	b.def.modifiers = m
	return b
}

func (b *RecordBuilder) AddProperty(p PropertyDef) *RecordBuilder {
	b.def.properties = append(b.def.properties, p)
	return b
}

func (b *RecordBuilder) AddMethod(m MethodDef) *RecordBuilder {
	b.def.methods = append(b.def.methods, m)
	return b
}

func (b *RecordBuilder) Implements(t TypeDef) *RecordBuilder {
	b.def.interfaces = append(b.def.interfaces, t)
	return b
}

func (b *RecordBuilder) Annotate(a Annotation) *RecordBuilder {
	b.def.annotations = append(b.def.annotations, a)
	return b
}

func (b *RecordBuilder) Javadoc(lines ...string) *RecordBuilder {
	b.def.javadoc = append(b.def.javadoc, lines...)
	return b
}

func (b *RecordBuilder) AsType() TypeDef { return b.def.AsType() }

func (b *RecordBuilder) Build() (*RecordDef, error) {
	if err := validateBase(&b.def.objectBase); err != nil {
		return nil, fmt.Errorf("record %s: %w", b.def.QualifiedName(), err)
	}
	def := b.def
	return &def, nil
}

type EnumBuilder struct {
	def EnumDef
}

func NewEnum(pkg, name string) *EnumBuilder {
	b := &EnumBuilder{}
	b.def.pkg = pkg
	b.def.name = name
	return b
}

func (b *EnumBuilder) Modifiers(m Modifiers) *EnumBuilder {
	b.def.modifiers = m
	return b
}

func (b *EnumBuilder) AddConstant(name string) *EnumBuilder {
	b.def.constants = append(b.def.constants, name)
	return b
}

func (b *EnumBuilder) AddMethod(m MethodDef) *EnumBuilder {
	b.def.methods = append(b.def.methods, m)
	return b
}

func (b *EnumBuilder) Implements(t TypeDef) *EnumBuilder {
	b.def.interfaces = append(b.def.interfaces, t)
	return b
}

func (b *EnumBuilder) Annotate(a Annotation) *EnumBuilder {
	b.def.annotations = append(b.def.annotations, a)
	return b
}

func (b *EnumBuilder) Javadoc(lines ...string) *EnumBuilder {
	b.def.javadoc = append(b.def.javadoc, lines...)
	return b
}

func (b *EnumBuilder) AsType() TypeDef { return b.def.AsType() }

func (b *EnumBuilder) Build() (*EnumDef, error) {
	if err := validateBase(&b.def.objectBase); err != nil {
		return nil, fmt.Errorf("enum %s: %w", b.def.QualifiedName(), err)
	}
	seen := make(map[string]bool, len(b.def.constants))
	for _, c := range b.def.constants {
		if seen[c] {
			return nil, fmt.Errorf("enum %s: duplicate constant %q", b.def.QualifiedName(), c)
		}
		seen[c] = true
	}
	def := b.def
	return &def, nil
}

func validateBase(o *objectBase) error {
	if err := o.modifiers.validate(); err != nil {
		return err
	}
	names := make(map[string]string)
	check := func(kind, name string) error {
		if prev, dup := names[name]; dup {
			return fmt.Errorf("%s %q conflicts with %s of the same name", kind, name, prev)
		}
		names[name] = kind
		return nil
	}
	for _, f := range o.fields {
		if err := check("field", f.Name); err != nil {
			return err
		}
	}
	for _, p := range o.properties {
		if err := check("property", p.Name); err != nil {
			return err
		}
	}
	methodNames := make(map[string]bool)
	for _, m := range o.methods {
		if err := m.Modifiers.validate(); err != nil {
			return fmt.Errorf("method %q: %w", m.Name, err)
		}
		if methodNames[m.Name] {
			return fmt.Errorf("duplicate method %q", m.Name)
		}
		methodNames[m.Name] = true
	}
	return nil
}
