package generator

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dhamidi/sourcegen/model"
)

// Manifest is the declarative TOML description of one type to generate.
// The loader assembles the model through the public builders, so every
// manifest goes through the same validation as programmatic construction.
type Manifest struct {
	Kind       string   `toml:"kind"`
	Package    string   `toml:"package"`
	Name       string   `toml:"name"`
	Modifiers  []string `toml:"modifiers"`
	Javadoc    []string `toml:"javadoc"`
	Superclass string   `toml:"superclass"`
	Implements []string `toml:"implements"`
	Constants  []string `toml:"constants"`

	Properties []ManifestProperty `toml:"property"`
	Fields     []ManifestField    `toml:"field"`
}

type ManifestProperty struct {
	Name        string               `toml:"name"`
	Type        string               `toml:"type"`
	Nullable    bool                 `toml:"nullable"`
	Doc         []string             `toml:"doc"`
	Annotations []ManifestAnnotation `toml:"annotation"`
}

type ManifestField struct {
	Name      string   `toml:"name"`
	Type      string   `toml:"type"`
	Modifiers []string `toml:"modifiers"`
}

type ManifestAnnotation struct {
	Type    string         `toml:"type"`
	Members map[string]any `toml:"members"`
}

// LoadManifest reads and decodes a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if m.Kind == "" {
		m.Kind = "class"
	}
	if m.Name == "" {
		return nil, fmt.Errorf("%s: manifest has no name", path)
	}
	return &m, nil
}

// Definition assembles the manifest into a built object definition.
func (m *Manifest) Definition() (model.ObjectDef, error) {
	modifiers, err := ParseModifiers(m.Modifiers)
	if err != nil {
		return nil, err
	}

	switch m.Kind {
	case "class":
		b := model.NewClass(m.Package, m.Name).Modifiers(modifiers).Javadoc(m.Javadoc...)
		if m.Superclass != "" {
			super, err := ParseType(m.Superclass)
			if err != nil {
				return nil, err
			}
			b.Superclass(super)
		}
		if err := m.applyInterfaces(func(t model.TypeDef) { b.Implements(t) }); err != nil {
			return nil, err
		}
		if err := m.applyFields(func(f model.FieldDef) { b.AddField(f) }); err != nil {
			return nil, err
		}
		if err := m.applyProperties(func(p model.PropertyDef) { b.AddProperty(p) }); err != nil {
			return nil, err
		}
		return b.Build()
	case "interface":
		b := model.NewInterface(m.Package, m.Name).Modifiers(modifiers).Javadoc(m.Javadoc...)
		if err := m.applyInterfaces(func(t model.TypeDef) { b.Extends(t) }); err != nil {
			return nil, err
		}
		return b.Build()
	case "record":
		b := model.NewRecord(m.Package, m.Name).Modifiers(modifiers).Javadoc(m.Javadoc...)
		if err := m.applyInterfaces(func(t model.TypeDef) { b.Implements(t) }); err != nil {
			return nil, err
		}
		if err := m.applyProperties(func(p model.PropertyDef) { b.AddProperty(p) }); err != nil {
			return nil, err
		}
		return b.Build()
	case "enum":
		b := model.NewEnum(m.Package, m.Name).Modifiers(modifiers).Javadoc(m.Javadoc...)
		for _, c := range m.Constants {
			b.AddConstant(c)
		}
		if err := m.applyInterfaces(func(t model.TypeDef) { b.Implements(t) }); err != nil {
			return nil, err
		}
		return b.Build()
	default:
		return nil, fmt.Errorf("unknown manifest kind %q", m.Kind)
	}
}

func (m *Manifest) applyInterfaces(add func(model.TypeDef)) error {
	for _, name := range m.Implements {
		t, err := ParseType(name)
		if err != nil {
			return err
		}
		add(t)
	}
	return nil
}

func (m *Manifest) applyFields(add func(model.FieldDef)) error {
	for _, f := range m.Fields {
		t, err := ParseType(f.Type)
		if err != nil {
			return err
		}
		modifiers, err := ParseModifiers(f.Modifiers)
		if err != nil {
			return err
		}
		add(model.FieldDef{Name: f.Name, Type: t, Modifiers: modifiers})
	}
	return nil
}

func (m *Manifest) applyProperties(add func(model.PropertyDef)) error {
	for _, p := range m.Properties {
		t, err := ParseType(p.Type)
		if err != nil {
			return err
		}
		if p.Nullable {
			t = asNullable(t)
		}
		prop := model.PropertyDef{Name: p.Name, Type: t, Javadoc: p.Doc}
		for _, ma := range p.Annotations {
			annType, err := ParseType(ma.Type)
			if err != nil {
				return err
			}
			class, ok := annType.(model.ClassType)
			if !ok {
				return fmt.Errorf("annotation type %q is not a class type", ma.Type)
			}
			ann := model.NewAnnotation(class)
			// map keys are unordered; sort for stable member order
			names := make([]string, 0, len(ma.Members))
			for name := range ma.Members {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				ann = ann.With(name, ma.Members[name])
			}
			prop.Annotations = append(prop.Annotations, ann)
		}
		add(prop)
	}
	return nil
}

func asNullable(t model.TypeDef) model.TypeDef {
	switch v := t.(type) {
	case model.ClassType:
		return v.AsNullable()
	case model.ParameterizedType:
		v.Nullable = true
		return v
	case model.ArrayType:
		v.Nullable = true
		return v
	default:
		return t
	}
}

// ParseModifiers maps manifest modifier names onto the model bitmask.
func ParseModifiers(names []string) (model.Modifiers, error) {
	var m model.Modifiers
	for _, name := range names {
		switch name {
		case "public":
			m |= model.Public
		case "protected":
			m |= model.Protected
		case "private":
			m |= model.Private
		case "static":
			m |= model.Static
		case "final":
			m |= model.Final
		case "abstract":
			m |= model.Abstract
		case "default":
			m |= model.Default
		case "sealed":
			m |= model.Sealed
		case "synchronized":
			m |= model.Synchronized
		case "transient":
			m |= model.Transient
		case "volatile":
			m |= model.Volatile
		default:
			return 0, fmt.Errorf("unknown modifier %q", name)
		}
	}
	return m, nil
}

var primitiveNames = map[string]bool{
	"void": true, "boolean": true, "byte": true, "short": true, "char": true,
	"int": true, "long": true, "float": true, "double": true,
}

// ParseType parses manifest type syntax: primitives, qualified class
// names, trailing [] pairs for arrays, and <...> for parameterizations.
func ParseType(s string) (model.TypeDef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty type")
	}

	dims := 0
	for strings.HasSuffix(s, "[]") {
		dims++
		s = strings.TrimSpace(strings.TrimSuffix(s, "[]"))
	}
	var t model.TypeDef
	var err error
	switch {
	case primitiveNames[s]:
		t = model.PrimitiveType{Name: s}
	case strings.HasSuffix(s, ">"):
		t, err = parseParameterized(s)
	case s == "?":
		t = model.WildcardType{}
	case strings.HasPrefix(s, "? extends "):
		upper, uerr := ParseType(strings.TrimPrefix(s, "? extends "))
		if uerr != nil {
			return nil, uerr
		}
		t = model.WildcardType{Upper: []model.TypeDef{upper}}
	case strings.HasPrefix(s, "? super "):
		lower, lerr := ParseType(strings.TrimPrefix(s, "? super "))
		if lerr != nil {
			return nil, lerr
		}
		t = model.WildcardType{Lower: []model.TypeDef{lower}}
	default:
		if strings.ContainsAny(s, "<>") {
			return nil, fmt.Errorf("malformed type %q", s)
		}
		t = parseClassName(s)
	}
	if err != nil {
		return nil, err
	}
	if dims > 0 {
		t = model.ArrayType{Component: t, Dimensions: dims}
	}
	return t, nil
}

func parseClassName(s string) model.ClassType {
	if dot := strings.LastIndex(s, "."); dot >= 0 {
		return model.ClassType{Package: s[:dot], Name: s[dot+1:]}
	}
	return model.ClassType{Name: s}
}

func parseParameterized(s string) (model.TypeDef, error) {
	open := strings.Index(s, "<")
	if open < 0 || !strings.HasSuffix(s, ">") {
		return nil, fmt.Errorf("malformed parameterized type %q", s)
	}
	raw := parseClassName(strings.TrimSpace(s[:open]))
	inner := s[open+1 : len(s)-1]

	var args []model.TypeDef
	depth := 0
	start := 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				arg, err := ParseType(inner[start:i])
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				start = i + 1
			}
		}
	}
	arg, err := ParseType(inner[start:])
	if err != nil {
		return nil, err
	}
	args = append(args, arg)
	return model.ParameterizedType{Raw: raw, Args: args}, nil
}
