package classfile

import (
	"bytes"
	"testing"
)

func TestWriteParseRoundTrip(t *testing.T) {
	b := NewPoolBuilder()
	thisClass := b.Class("example/Greeter")
	superClass := b.Class("java/lang/Object")
	runnable := b.Class("java/lang/Runnable")

	countName := b.Utf8("count")
	countDesc := b.Utf8("I")
	countValue := b.Integer(42)
	constantValueAttr := b.Utf8("ConstantValue")

	initName := b.Utf8("<init>")
	initDesc := b.Utf8("()V")
	codeAttr := b.Utf8("Code")
	objectInit := b.Methodref("java/lang/Object", "<init>", "()V")

	sourceFileAttr := b.Utf8("SourceFile")
	sourceFile := b.Utf8("Greeter.java")

	cf := &ClassFile{
		MajorVersion: 61,
		ConstantPool: b.Pool(),
		AccessFlags:  AccPublic | AccSuper,
		ThisClass:    thisClass,
		SuperClass:   superClass,
		Interfaces:   []uint16{runnable},
		Fields: []FieldInfo{{
			AccessFlags:     AccPublic | AccStatic | AccFinal,
			NameIndex:       countName,
			DescriptorIndex: countDesc,
			Attributes: []AttributeInfo{{
				NameIndex: constantValueAttr,
				Parsed:    &ConstantValueAttribute{ConstantValueIndex: countValue},
			}},
		}},
		Methods: []MethodInfo{{
			AccessFlags:     AccPublic,
			NameIndex:       initName,
			DescriptorIndex: initDesc,
			Attributes: []AttributeInfo{{
				NameIndex: codeAttr,
				Parsed: &CodeAttribute{
					MaxStack:  1,
					MaxLocals: 1,
					Code: []byte{
						OpAload, 0,
						OpInvokespecial, byte(objectInit >> 8), byte(objectInit),
						OpReturn,
					},
				},
			}},
		}},
		Attributes: []AttributeInfo{{
			NameIndex: sourceFileAttr,
			Parsed:    &SourceFileAttribute{SourceFileIndex: sourceFile},
		}},
	}

	var buf bytes.Buffer
	if err := Write(cf, &buf); err != nil {
		t.Fatalf("Write: %s", err)
	}

	parsed, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}

	t.Run("class shape", func(t *testing.T) {
		if got := parsed.ClassName(); got != "example/Greeter" {
			t.Errorf("ClassName() = %q, want %q", got, "example/Greeter")
		}
		if got := parsed.SuperClassName(); got != "java/lang/Object" {
			t.Errorf("SuperClassName() = %q, want %q", got, "java/lang/Object")
		}
		names := parsed.InterfaceNames()
		if len(names) != 1 || names[0] != "java/lang/Runnable" {
			t.Errorf("InterfaceNames() = %v, want [java/lang/Runnable]", names)
		}
		if parsed.MajorVersion != 61 {
			t.Errorf("MajorVersion = %d, want 61", parsed.MajorVersion)
		}
	})

	t.Run("constant field", func(t *testing.T) {
		if len(parsed.Fields) != 1 {
			t.Fatalf("got %d fields, want 1", len(parsed.Fields))
		}
		f := &parsed.Fields[0]
		if !f.IsPublic() || !f.IsStatic() || !f.IsFinal() {
			t.Error("count should be public static final")
		}
		if got := f.Descriptor(parsed.ConstantPool); got != "I" {
			t.Errorf("descriptor = %q, want %q", got, "I")
		}
		attr := f.GetAttribute(parsed.ConstantPool, "ConstantValue")
		if attr == nil {
			t.Fatal("missing ConstantValue attribute")
		}
		cv := attr.AsConstantValue()
		if cv == nil {
			t.Fatal("AsConstantValue() = nil")
		}
		value, ok := parsed.ConstantPool.GetInteger(cv.ConstantValueIndex)
		if !ok || value != 42 {
			t.Errorf("constant value = %d (ok=%v), want 42", value, ok)
		}
	})

	t.Run("constructor code", func(t *testing.T) {
		if len(parsed.Methods) != 1 {
			t.Fatalf("got %d methods, want 1", len(parsed.Methods))
		}
		m := &parsed.Methods[0]
		if !m.IsConstructor(parsed.ConstantPool) {
			t.Errorf("method name = %q, want <init>", m.Name(parsed.ConstantPool))
		}
		code := m.GetCodeAttribute(parsed.ConstantPool)
		if code == nil {
			t.Fatal("missing Code attribute")
		}
		if code.MaxStack != 1 || code.MaxLocals != 1 {
			t.Errorf("max_stack=%d max_locals=%d, want 1 and 1", code.MaxStack, code.MaxLocals)
		}
		if len(code.Code) != 6 || code.Code[0] != OpAload || code.Code[5] != OpReturn {
			t.Errorf("code = % x, want aload invokespecial return", code.Code)
		}
	})

	t.Run("source file", func(t *testing.T) {
		attr := parsed.GetAttribute("SourceFile")
		if attr == nil {
			t.Fatal("missing SourceFile attribute")
		}
		sf := attr.AsSourceFile()
		if sf == nil {
			t.Fatal("AsSourceFile() = nil")
		}
		if got := parsed.ConstantPool.GetUtf8(sf.SourceFileIndex); got != "Greeter.java" {
			t.Errorf("source file = %q, want %q", got, "Greeter.java")
		}
	})
}

func TestPoolBuilderDeduplicates(t *testing.T) {
	b := NewPoolBuilder()
	first := b.Utf8("java/lang/Object")
	class := b.Class("java/lang/Object")
	second := b.Utf8("java/lang/Object")
	if first != second {
		t.Errorf("duplicate Utf8 entries: %d and %d", first, second)
	}
	if classAgain := b.Class("java/lang/Object"); classAgain != class {
		t.Errorf("duplicate Class entries: %d and %d", class, classAgain)
	}
}

func TestPoolBuilderWideEntries(t *testing.T) {
	b := NewPoolBuilder()
	long := b.Long(1)
	next := b.Utf8("after")
	if next != long+2 {
		t.Errorf("index after long = %d, want %d (long entries take two slots)", next, long+2)
	}
	pool := b.Pool()
	value, ok := pool.GetLong(long)
	if !ok || value != 1 {
		t.Errorf("GetLong(%d) = %d (ok=%v), want 1", long, value, ok)
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	tests := []struct {
		desc       string
		wantParams int
		wantReturn string // empty means void
	}{
		{"()V", 0, ""},
		{"(I)I", 1, "int"},
		{"(Ljava/lang/String;[I)Ljava/lang/Object;", 2, "java.lang.Object"},
		{"([[D)J", 1, "long"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			md := ParseMethodDescriptor(tt.desc)
			if md == nil {
				t.Fatalf("ParseMethodDescriptor(%q) = nil", tt.desc)
			}
			if len(md.Parameters) != tt.wantParams {
				t.Errorf("got %d parameters, want %d", len(md.Parameters), tt.wantParams)
			}
			if tt.wantReturn == "" {
				if md.ReturnType != nil {
					t.Errorf("return type = %v, want nil for void", md.ReturnType)
				}
				return
			}
			if got := md.ReturnType.String(); got != tt.wantReturn {
				t.Errorf("return type = %q, want %q", got, tt.wantReturn)
			}
		})
	}
}
