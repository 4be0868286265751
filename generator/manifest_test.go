package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/sourcegen/model"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"int", "int"},
		{"void", "void"},
		{"String", "String"},
		{"java.lang.String", "java.lang.String"},
		{"int[]", "int[]"},
		{"java.lang.String[][]", "java.lang.String[][]"},
		{"java.util.List<java.lang.String>", "java.util.List<java.lang.String>"},
		{"java.util.Map<java.lang.String, java.lang.Integer>", "java.util.Map<java.lang.String, java.lang.Integer>"},
		{"java.util.List<java.util.List<int[]>>", "java.util.List<java.util.List<int[]>>"},
		{"? extends java.lang.Number", "? extends java.lang.Number"},
		{"? super java.lang.Integer", "? super java.lang.Integer"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			typ, err := ParseType(tt.input)
			if err != nil {
				t.Fatalf("ParseType(%q): %s", tt.input, err)
			}
			if got := typ.String(); got != tt.want {
				t.Errorf("ParseType(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, input := range []string{"", "  ", "java.util.List<"} {
		if _, err := ParseType(input); err == nil {
			t.Errorf("ParseType(%q) = nil error, want failure", input)
		}
	}
}

func TestParseModifiers(t *testing.T) {
	m, err := ParseModifiers([]string{"public", "final"})
	if err != nil {
		t.Fatalf("ParseModifiers: %s", err)
	}
	if !m.IsPublic() || !m.IsFinal() {
		t.Errorf("ParseModifiers(public, final) = %v, want public|final", m)
	}
	if _, err := ParseModifiers([]string{"native"}); err == nil {
		t.Error("ParseModifiers(native) = nil error, want failure")
	}
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "type.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing manifest: %s", err)
	}
	return path
}

func TestLoadManifestRecord(t *testing.T) {
	path := writeManifest(t, `
kind = "record"
package = "example"
name = "Person"
modifiers = ["public"]
javadoc = ["A person."]

[[property]]
name = "name"
type = "java.lang.String"
doc = ["the full name"]

[[property]]
name = "age"
type = "int"

[[property.annotation]]
type = "jakarta.validation.constraints.Min"
[property.annotation.members]
value = 0
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %s", err)
	}
	def, err := m.Definition()
	if err != nil {
		t.Fatalf("Definition: %s", err)
	}
	rec, ok := def.(*model.RecordDef)
	if !ok {
		t.Fatalf("Definition() = %T, want *model.RecordDef", def)
	}
	if got := rec.QualifiedName(); got != "example.Person" {
		t.Errorf("QualifiedName() = %q, want %q", got, "example.Person")
	}
	props := rec.Properties()
	if len(props) != 2 {
		t.Fatalf("got %d properties, want 2", len(props))
	}
	if got := props[0].Type.String(); got != "java.lang.String" {
		t.Errorf("property 0 type = %q, want java.lang.String", got)
	}
	if len(props[1].Annotations) != 1 {
		t.Fatalf("got %d annotations on age, want 1", len(props[1].Annotations))
	}
	ann := props[1].Annotations[0]
	if got := ann.Type.String(); got != "jakarta.validation.constraints.Min" {
		t.Errorf("annotation type = %q, want jakarta.validation.constraints.Min", got)
	}
	if len(ann.Members) != 1 || ann.Members[0].Name != "value" {
		t.Errorf("annotation members = %v, want single value member", ann.Members)
	}
}

func TestLoadManifestEnum(t *testing.T) {
	path := writeManifest(t, `
kind = "enum"
package = "example"
name = "Color"
modifiers = ["public"]
constants = ["RED", "GREEN", "BLUE"]
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %s", err)
	}
	def, err := m.Definition()
	if err != nil {
		t.Fatalf("Definition: %s", err)
	}
	enum, ok := def.(*model.EnumDef)
	if !ok {
		t.Fatalf("Definition() = %T, want *model.EnumDef", def)
	}
	constants := enum.Constants()
	if len(constants) != 3 || constants[0] != "RED" || constants[2] != "BLUE" {
		t.Errorf("Constants() = %v, want [RED GREEN BLUE]", constants)
	}
}

func TestLoadManifestClassWithFields(t *testing.T) {
	path := writeManifest(t, `
kind = "class"
package = "example"
name = "Counter"
modifiers = ["public", "final"]
implements = ["java.io.Serializable"]

[[field]]
name = "count"
type = "int"
modifiers = ["private"]

[[property]]
name = "label"
type = "java.lang.String"
nullable = true
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %s", err)
	}
	def, err := m.Definition()
	if err != nil {
		t.Fatalf("Definition: %s", err)
	}
	class, ok := def.(*model.ClassDef)
	if !ok {
		t.Fatalf("Definition() = %T, want *model.ClassDef", def)
	}
	if len(class.Interfaces()) != 1 {
		t.Fatalf("got %d interfaces, want 1", len(class.Interfaces()))
	}
	fields := class.Fields()
	if len(fields) != 1 || fields[0].Name != "count" || !fields[0].Modifiers.IsPrivate() {
		t.Errorf("Fields() = %v, want private int count", fields)
	}
	props := class.Properties()
	if len(props) != 1 {
		t.Fatalf("got %d properties, want 1", len(props))
	}
	if !model.IsNullable(props[0].Type) {
		t.Errorf("property label type %s is not nullable, want nullable", props[0].Type)
	}
}

func TestLoadManifestRejectsUnknownKind(t *testing.T) {
	path := writeManifest(t, `
kind = "struct"
name = "Broken"
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %s", err)
	}
	if _, err := m.Definition(); err == nil {
		t.Error("Definition() = nil error, want unknown kind failure")
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("LoadManifest(absent) = nil error, want failure")
	}
}
