package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dhamidi/sourcegen/classfile"
	"github.com/dhamidi/sourcegen/model"
)

func mustBuildClass(t *testing.T, b *model.ClassBuilder) *model.ClassDef {
	t.Helper()
	def, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return def
}

func lowerClass(t *testing.T, def model.ObjectDef) *classfile.ClassFile {
	t.Helper()
	cf, err := NewWriter().Lower(def)
	if err != nil {
		t.Fatalf("Lower() failed: %v", err)
	}
	return cf
}

func TestNullCheckLowering(t *testing.T) {
	def := mustBuildClass(t, model.NewClass("example", "NullCheck").
		Modifiers(model.Public).
		AddMethod(model.MethodDef{
			Name:      "test",
			Modifiers: model.Public,
			Params:    []model.ParamDef{{Name: "param", Type: model.TypeObject}},
			Returns:   model.TypeBoolean,
			Body: []model.Stmt{
				model.If{
					Cond: model.IsNull{Value: model.ParamRef{Name: "param"}},
					Then: []model.Stmt{model.Return{Value: model.Constant{Type: model.TypeBoolean, Value: true}}},
				},
				model.Return{Value: model.Constant{Type: model.TypeBoolean, Value: false}},
			},
		}))

	cf := lowerClass(t, def)

	method := cf.GetMethod("test", "(Ljava/lang/Object;)Z")
	if method == nil {
		t.Fatal("test(Object) method not found")
	}
	code := method.GetCodeAttribute(cf.ConstantPool)
	if code == nil {
		t.Fatal("test(Object) has no Code attribute")
	}

	want := []byte{
		classfile.OpAload, 1,
		classfile.OpIfnonnull, 0, 5,
		classfile.OpIconst1,
		classfile.OpIreturn,
		classfile.OpIconst0,
		classfile.OpIreturn,
	}
	if !bytes.Equal(code.Code, want) {
		t.Errorf("code = % x, want % x", code.Code, want)
	}
	if code.MaxStack != 1 {
		t.Errorf("MaxStack = %d, want 1", code.MaxStack)
	}
	if code.MaxLocals != 2 {
		t.Errorf("MaxLocals = %d, want 2", code.MaxLocals)
	}

	t.Run("stack map frame at join point", func(t *testing.T) {
		attr := method.GetAttribute(cf.ConstantPool, "Code")
		frames := attr.AsCode().Attributes
		var table *classfile.StackMapTableAttribute
		for i := range frames {
			if cf.ConstantPool.GetUtf8(frames[i].NameIndex) == "StackMapTable" {
				table = frames[i].AsStackMapTable()
			}
		}
		if table == nil {
			t.Fatal("Code attribute has no StackMapTable")
		}
		if len(table.Frames) != 1 {
			t.Fatalf("frame count = %d, want 1", len(table.Frames))
		}
		frame := table.Frames[0]
		if frame.OffsetDelta != 7 {
			t.Errorf("frame offset = %d, want 7", frame.OffsetDelta)
		}
		if len(frame.Locals) != 2 || len(frame.Stack) != 0 {
			t.Errorf("frame shape = %d locals/%d stack, want 2/0", len(frame.Locals), len(frame.Stack))
		}
	})
}

func TestUnboxingReturn(t *testing.T) {
	integer := model.ClassType{Package: "java.lang", Name: "Integer"}
	def := mustBuildClass(t, model.NewClass("example", "Unbox").
		Modifiers(model.Public).
		AddMethod(model.MethodDef{
			Name:      "test",
			Modifiers: model.Public,
			Params:    []model.ParamDef{{Name: "param", Type: integer}},
			Returns:   model.TypeInt,
			Body:      []model.Stmt{model.Return{Value: model.ParamRef{Name: "param"}}},
		}))

	cf := lowerClass(t, def)
	method := cf.GetMethod("test", "(Ljava/lang/Integer;)I")
	if method == nil {
		t.Fatal("test(Integer) method not found")
	}
	code := method.GetCodeAttribute(cf.ConstantPool)

	if code.Code[0] != classfile.OpAload || code.Code[1] != 1 {
		t.Fatalf("code starts with % x, want aload 1", code.Code[:2])
	}
	if code.Code[2] != classfile.OpInvokevirtual {
		t.Fatalf("code[2] = %#x, want invokevirtual", code.Code[2])
	}
	ref := uint16(code.Code[3])<<8 | uint16(code.Code[4])
	class, name, desc := cf.ConstantPool.GetMethodref(ref)
	if class != "java/lang/Integer" || name != "intValue" || desc != "()I" {
		t.Errorf("unbox call = %s.%s%s, want java/lang/Integer.intValue()I", class, name, desc)
	}
	if code.Code[5] != classfile.OpIreturn {
		t.Errorf("code[5] = %#x, want ireturn", code.Code[5])
	}
}

func TestStringSwitchExpression(t *testing.T) {
	intConst := func(n int) model.Constant {
		return model.Constant{Type: model.TypeInt, Value: n}
	}
	stringConst := func(s string) model.Constant {
		return model.Constant{Type: model.TypeString, Value: s}
	}
	def := mustBuildClass(t, model.NewClass("example", "Chooser").
		Modifiers(model.Public).
		AddMethod(model.MethodDef{
			Name:      "pick",
			Modifiers: model.Public,
			Params:    []model.ParamDef{{Name: "value", Type: model.TypeString}},
			Returns:   model.TypeInt,
			Body: []model.Stmt{
				model.Return{Value: model.SwitchExpr{
					Target: model.ParamRef{Name: "value"},
					Type:   model.TypeInt,
					Cases: []model.SwitchCase{
						{Match: stringConst("abc"), Yield: intConst(1)},
						{Match: stringConst("xyz"), Yield: intConst(2)},
					},
					Default: &model.SwitchCase{Yield: intConst(3)},
				}},
			},
		}))

	cf := lowerClass(t, def)
	method := cf.GetMethod("pick", "(Ljava/lang/String;)I")
	if method == nil {
		t.Fatal("pick(String) method not found")
	}
	code := method.GetCodeAttribute(cf.ConstantPool)
	if code == nil {
		t.Fatal("pick(String) has no Code attribute")
	}

	equalsCalls := 0
	for i := 0; i+2 < len(code.Code); i++ {
		if code.Code[i] != classfile.OpInvokevirtual {
			continue
		}
		ref := uint16(code.Code[i+1])<<8 | uint16(code.Code[i+2])
		class, name, desc := cf.ConstantPool.GetMethodref(ref)
		if class == "java/lang/String" && name == "equals" && desc == "(Ljava/lang/Object;)Z" {
			equalsCalls++
		}
	}
	if equalsCalls != 2 {
		t.Errorf("String.equals call count = %d, want 2", equalsCalls)
	}

	for _, want := range []string{"abc", "xyz"} {
		found := false
		for _, entry := range cf.ConstantPool {
			if utf8, ok := entry.(*classfile.ConstantUtf8Info); ok && utf8.Value == want {
				found = true
			}
		}
		if !found {
			t.Errorf("constant pool missing case label %q", want)
		}
	}
}

func TestTwoDimensionalArrayDescriptor(t *testing.T) {
	def := mustBuildClass(t, model.NewClass("example", "Grid").
		Modifiers(model.Public).
		AddField(model.FieldDef{
			Name:      "cells",
			Type:      model.ArrayType{Component: model.TypeInt, Dimensions: 2},
			Modifiers: model.Private,
		}))

	cf := lowerClass(t, def)
	field := cf.GetField("cells")
	if field == nil {
		t.Fatal("cells field not found")
	}
	if got := field.Descriptor(cf.ConstantPool); got != "[[I" {
		t.Errorf("Descriptor() = %q, want %q", got, "[[I")
	}
}

func TestPropertyAccessorSynthesis(t *testing.T) {
	def := mustBuildClass(t, model.NewClass("example", "Person").
		Modifiers(model.Public).
		AddProperty(model.PropertyDef{Name: "name", Type: model.TypeString}).
		AddProperty(model.PropertyDef{Name: "active", Type: model.TypeBoolean}))

	cf := lowerClass(t, def)

	tests := []struct {
		name       string
		descriptor string
	}{
		{"getName", "()Ljava/lang/String;"},
		{"setName", "(Ljava/lang/String;)V"},
		{"isActive", "()Z"},
		{"setActive", "(Z)V"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := cf.GetMethod(tt.name, tt.descriptor)
			if method == nil {
				t.Fatalf("method %s%s not found", tt.name, tt.descriptor)
			}
			if !method.IsPublic() {
				t.Error("accessor is not public")
			}
			if method.GetCodeAttribute(cf.ConstantPool) == nil {
				t.Error("accessor has no Code attribute")
			}
		})
	}

	t.Run("backing fields are private", func(t *testing.T) {
		for _, name := range []string{"name", "active"} {
			field := cf.GetField(name)
			if field == nil {
				t.Fatalf("backing field %q not found", name)
			}
			if !field.AccessFlags.IsPrivate() {
				t.Errorf("field %q is not private", name)
			}
		}
	})
}

func TestEnumSynthesis(t *testing.T) {
	def, err := model.NewEnum("example", "Color").
		Modifiers(model.Public).
		AddConstant("RED").
		AddConstant("GREEN").
		AddConstant("BLUE").
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	cf := lowerClass(t, def)

	if !cf.IsEnum() {
		t.Error("IsEnum() = false, want true")
	}
	if got := cf.SuperClassName(); got != "java/lang/Enum" {
		t.Errorf("SuperClassName() = %q, want java/lang/Enum", got)
	}

	for _, name := range []string{"RED", "GREEN", "BLUE"} {
		field := cf.GetField(name)
		if field == nil {
			t.Fatalf("constant field %q not found", name)
		}
		if !field.AccessFlags.IsStatic() || !field.AccessFlags.IsFinal() || !field.AccessFlags.IsEnum() {
			t.Errorf("constant field %q flags = %#x, want static final enum", name, field.AccessFlags)
		}
	}
	if cf.GetField("$VALUES") == nil {
		t.Error("$VALUES field not found")
	}

	for _, tt := range []struct{ name, descriptor string }{
		{"values", "()[Lexample/Color;"},
		{"valueOf", "(Ljava/lang/String;)Lexample/Color;"},
		{"$values", "()[Lexample/Color;"},
		{"<init>", "(Ljava/lang/String;I)V"},
		{"<clinit>", "()V"},
	} {
		if cf.GetMethod(tt.name, tt.descriptor) == nil {
			t.Errorf("method %s%s not found", tt.name, tt.descriptor)
		}
	}
}

func TestRecordLowering(t *testing.T) {
	integer := model.ClassType{Package: "java.lang", Name: "Integer"}
	def, err := model.NewRecord("example", "Person").
		Modifiers(model.Public).
		AddProperty(model.PropertyDef{Name: "name", Type: model.TypeString}).
		AddProperty(model.PropertyDef{Name: "age", Type: integer}).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	cf := lowerClass(t, def)

	if !cf.IsRecord() {
		t.Error("IsRecord() = false, want true")
	}
	if got := cf.SuperClassName(); got != "java/lang/Record" {
		t.Errorf("SuperClassName() = %q, want java/lang/Record", got)
	}

	record := cf.GetAttribute("Record").AsRecord()
	if record == nil {
		t.Fatal("Record attribute not parsed")
	}
	if len(record.Components) != 2 {
		t.Fatalf("component count = %d, want 2", len(record.Components))
	}
	if got := cf.ConstantPool.GetUtf8(record.Components[0].NameIndex); got != "name" {
		t.Errorf("component[0] = %q, want %q", got, "name")
	}
	if got := cf.ConstantPool.GetUtf8(record.Components[1].NameIndex); got != "age" {
		t.Errorf("component[1] = %q, want %q", got, "age")
	}

	if cf.GetMethod("<init>", "(Ljava/lang/String;Ljava/lang/Integer;)V") == nil {
		t.Error("canonical constructor not found")
	}
	if cf.GetMethod("name", "()Ljava/lang/String;") == nil {
		t.Error("name() accessor not found")
	}
	if cf.GetMethod("age", "()Ljava/lang/Integer;") == nil {
		t.Error("age() accessor not found")
	}
}

func TestRelationalOperatorUnimplemented(t *testing.T) {
	def := mustBuildClass(t, model.NewClass("example", "Cmp").
		Modifiers(model.Public).
		AddMethod(model.MethodDef{
			Name:      "less",
			Modifiers: model.Public,
			Params: []model.ParamDef{
				{Name: "a", Type: model.TypeInt},
				{Name: "b", Type: model.TypeInt},
			},
			Returns: model.TypeBoolean,
			Body: []model.Stmt{
				model.Return{Value: model.Compare{
					Op:    model.OpLess,
					Left:  model.ParamRef{Name: "a"},
					Right: model.ParamRef{Name: "b"},
				}},
			},
		}))

	_, err := NewWriter().Lower(def)
	if err == nil {
		t.Fatal("Lower() succeeded, want unimplemented-operator error")
	}
	if !strings.Contains(err.Error(), "not yet implemented") {
		t.Errorf("error = %q, want mention of not yet implemented", err)
	}
}

func TestUnresolvedParameterFails(t *testing.T) {
	def := mustBuildClass(t, model.NewClass("example", "Broken").
		Modifiers(model.Public).
		AddMethod(model.MethodDef{
			Name:      "get",
			Modifiers: model.Public,
			Returns:   model.TypeObject,
			Body:      []model.Stmt{model.Return{Value: model.ParamRef{Name: "missing"}}},
		}))

	_, err := NewWriter().Lower(def)
	var unresolved *UnresolvedReferenceError
	if !errors.As(err, &unresolved) {
		t.Fatalf("error = %v, want UnresolvedReferenceError", err)
	}
	if unresolved.Name != "missing" {
		t.Errorf("Name = %q, want %q", unresolved.Name, "missing")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	def := mustBuildClass(t, model.NewClass("example", "Widget").
		Modifiers(model.Public).
		Implements(model.ClassType{Package: "java.io", Name: "Serializable"}).
		AddProperty(model.PropertyDef{Name: "label", Type: model.TypeString}).
		AddMethod(model.MethodDef{
			Name:      "describe",
			Modifiers: model.Public,
			Returns:   model.TypeString,
			Body: []model.Stmt{
				model.Return{Value: model.Constant{Type: model.TypeString, Value: "widget"}},
			},
		}).
		Annotate(model.NewAnnotation(model.ClassType{Package: "java.lang", Name: "Deprecated"})))

	var buf bytes.Buffer
	writer := NewWriter()
	writer.SourceFile = "Widget.java"
	if err := writer.Write(def, &buf); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	cf, err := classfile.Parse(&buf)
	if err != nil {
		t.Fatalf("Parse() of written output failed: %v", err)
	}

	t.Run("class shape", func(t *testing.T) {
		if got := cf.ClassName(); got != "example/Widget" {
			t.Errorf("ClassName() = %q, want %q", got, "example/Widget")
		}
		if got := cf.SuperClassName(); got != "java/lang/Object" {
			t.Errorf("SuperClassName() = %q, want java/lang/Object", got)
		}
		if got := cf.InterfaceNames(); len(got) != 1 || got[0] != "java/io/Serializable" {
			t.Errorf("InterfaceNames() = %v, want [java/io/Serializable]", got)
		}
		if cf.MajorVersion != classfile.MajorVersion {
			t.Errorf("MajorVersion = %d, want %d", cf.MajorVersion, classfile.MajorVersion)
		}
	})

	t.Run("members survive", func(t *testing.T) {
		if cf.GetField("label") == nil {
			t.Error("label field lost in round trip")
		}
		if cf.GetMethod("describe", "()Ljava/lang/String;") == nil {
			t.Error("describe method lost in round trip")
		}
		if cf.GetMethod("getLabel", "()Ljava/lang/String;") == nil {
			t.Error("getLabel accessor lost in round trip")
		}
		if cf.GetMethod("<init>", "()V") == nil {
			t.Error("default constructor lost in round trip")
		}
	})

	t.Run("attributes survive", func(t *testing.T) {
		source := cf.GetAttribute("SourceFile")
		if source == nil || source.AsSourceFile() == nil {
			t.Fatal("SourceFile attribute lost in round trip")
		}
		if got := cf.ConstantPool.GetUtf8(source.AsSourceFile().SourceFileIndex); got != "Widget.java" {
			t.Errorf("source file = %q, want %q", got, "Widget.java")
		}
		annotations := cf.GetAttribute("RuntimeVisibleAnnotations")
		if annotations == nil || annotations.AsRuntimeVisibleAnnotations() == nil {
			t.Fatal("RuntimeVisibleAnnotations lost in round trip")
		}
		parsed := annotations.AsRuntimeVisibleAnnotations()
		if len(parsed.Annotations) != 1 {
			t.Fatalf("annotation count = %d, want 1", len(parsed.Annotations))
		}
		if got := cf.ConstantPool.GetUtf8(parsed.Annotations[0].TypeIndex); got != "Ljava/lang/Deprecated;" {
			t.Errorf("annotation type = %q, want Ljava/lang/Deprecated;", got)
		}
	})
}

func TestWhileLoopLowering(t *testing.T) {
	def := mustBuildClass(t, model.NewClass("example", "Loop").
		Modifiers(model.Public).
		AddMethod(model.MethodDef{
			Name:      "drain",
			Modifiers: model.Public,
			Params:    []model.ParamDef{{Name: "n", Type: model.TypeInt}},
			Returns:   model.TypeVoid,
			Body: []model.Stmt{
				model.While{
					Cond: model.Compare{
						Op:    model.OpNotEqual,
						Left:  model.ParamRef{Name: "n"},
						Right: model.Constant{Type: model.TypeInt, Value: 0},
					},
					Body: []model.Stmt{
						model.Assign{
							Target: model.ParamRef{Name: "n"},
							Value:  model.Constant{Type: model.TypeInt, Value: 0},
						},
					},
				},
			},
		}))

	cf := lowerClass(t, def)
	code := cf.GetMethod("drain", "(I)V").GetCodeAttribute(cf.ConstantPool)
	if code == nil {
		t.Fatal("drain(int) has no Code attribute")
	}

	// loop head: iload n, iconst_0, if_icmpeq exit, body, goto head
	want := []byte{
		classfile.OpIload, 1,
		classfile.OpIconst0,
		classfile.OpIfIcmpeq, 0, 9,
		classfile.OpIconst0,
		classfile.OpIstore, 1,
		classfile.OpGoto, 0xFF, 0xF7,
		classfile.OpReturn,
	}
	if !bytes.Equal(code.Code, want) {
		t.Errorf("code = % x, want % x", code.Code, want)
	}
}

func stackMapTable(t *testing.T, cf *classfile.ClassFile, method *classfile.MethodInfo) *classfile.StackMapTableAttribute {
	t.Helper()
	attr := method.GetAttribute(cf.ConstantPool, "Code")
	if attr == nil {
		t.Fatal("method has no Code attribute")
	}
	for _, inner := range attr.AsCode().Attributes {
		if cf.ConstantPool.GetUtf8(inner.NameIndex) == "StackMapTable" {
			return inner.AsStackMapTable()
		}
	}
	return nil
}

func TestBranchScopedLocalLeavesMergeFrame(t *testing.T) {
	declare := func(name string, value int) model.Stmt {
		return model.Declare{Name: name, Type: model.TypeInt, Value: model.Constant{Type: model.TypeInt, Value: value}}
	}
	def := mustBuildClass(t, model.NewClass("example", "Guard").
		Modifiers(model.Public).
		AddMethod(model.MethodDef{
			Name:      "touch",
			Modifiers: model.Public,
			Params:    []model.ParamDef{{Name: "b", Type: model.TypeBoolean}},
			Returns:   model.TypeVoid,
			Body: []model.Stmt{
				model.If{Cond: model.ParamRef{Name: "b"}, Then: []model.Stmt{declare("x", 1)}},
				model.If{Cond: model.ParamRef{Name: "b"}, Then: []model.Stmt{declare("y", 2)}},
			},
		}))

	cf := lowerClass(t, def)
	method := cf.GetMethod("touch", "(Z)V")
	if method == nil {
		t.Fatal("touch(boolean) method not found")
	}
	code := method.GetCodeAttribute(cf.ConstantPool)

	want := []byte{
		classfile.OpIload, 1,
		classfile.OpIfeq, 0, 6,
		classfile.OpIconst1,
		classfile.OpIstore, 2,
		classfile.OpIload, 1,
		classfile.OpIfeq, 0, 6,
		classfile.OpIconst2,
		classfile.OpIstore, 2,
		classfile.OpReturn,
	}
	if !bytes.Equal(code.Code, want) {
		t.Errorf("code = % x, want % x", code.Code, want)
	}
	if code.MaxLocals != 3 {
		t.Errorf("MaxLocals = %d, want 3", code.MaxLocals)
	}

	t.Run("merge frames omit branch-scoped locals", func(t *testing.T) {
		table := stackMapTable(t, cf, method)
		if table == nil {
			t.Fatal("Code attribute has no StackMapTable")
		}
		if len(table.Frames) != 2 {
			t.Fatalf("frame count = %d, want 2", len(table.Frames))
		}
		for i, frame := range table.Frames {
			if len(frame.Locals) != 2 {
				t.Errorf("frame %d lists %d locals, want 2 (this and b only)", i, len(frame.Locals))
			}
			if len(frame.Stack) != 0 {
				t.Errorf("frame %d stack depth = %d, want 0", i, len(frame.Stack))
			}
		}
		if table.Frames[0].OffsetDelta != 8 {
			t.Errorf("first frame offset = %d, want 8", table.Frames[0].OffsetDelta)
		}
		if table.Frames[1].OffsetDelta != 7 {
			t.Errorf("second frame delta = %d, want 7", table.Frames[1].OffsetDelta)
		}
	})
}

func TestTernaryLowering(t *testing.T) {
	def := mustBuildClass(t, model.NewClass("example", "Pick").
		Modifiers(model.Public).
		AddMethod(model.MethodDef{
			Name:      "pick",
			Modifiers: model.Public,
			Params:    []model.ParamDef{{Name: "b", Type: model.TypeBoolean}},
			Returns:   model.TypeInt,
			Body: []model.Stmt{
				model.Return{Value: model.Ternary{
					Cond: model.ParamRef{Name: "b"},
					Then: model.Constant{Type: model.TypeInt, Value: 1},
					Else: model.Constant{Type: model.TypeInt, Value: 2},
				}},
			},
		}))

	cf := lowerClass(t, def)
	method := cf.GetMethod("pick", "(Z)I")
	if method == nil {
		t.Fatal("pick(boolean) method not found")
	}
	code := method.GetCodeAttribute(cf.ConstantPool)

	want := []byte{
		classfile.OpIload, 1,
		classfile.OpIfeq, 0, 7,
		classfile.OpIconst1,
		classfile.OpGoto, 0, 4,
		classfile.OpIconst2,
		classfile.OpIreturn,
	}
	if !bytes.Equal(code.Code, want) {
		t.Errorf("code = % x, want % x", code.Code, want)
	}
	if code.MaxStack != 1 {
		t.Errorf("MaxStack = %d, want 1", code.MaxStack)
	}

	t.Run("frame at join carries the yielded value", func(t *testing.T) {
		table := stackMapTable(t, cf, method)
		if table == nil {
			t.Fatal("Code attribute has no StackMapTable")
		}
		if len(table.Frames) != 2 {
			t.Fatalf("frame count = %d, want 2", len(table.Frames))
		}
		elseFrame := table.Frames[0]
		if elseFrame.OffsetDelta != 9 || len(elseFrame.Stack) != 0 {
			t.Errorf("else frame = offset %d/%d stack, want 9/0", elseFrame.OffsetDelta, len(elseFrame.Stack))
		}
		endFrame := table.Frames[1]
		if endFrame.OffsetDelta != 0 {
			t.Errorf("end frame delta = %d, want 0", endFrame.OffsetDelta)
		}
		if len(endFrame.Stack) != 1 || endFrame.Stack[0].Tag != classfile.VerificationInteger {
			t.Errorf("end frame stack = %v, want one Integer entry", endFrame.Stack)
		}
	})
}

func TestWriteIdempotent(t *testing.T) {
	def := mustBuildClass(t, model.NewClass("example", "Stable").
		Modifiers(model.Public).
		AddProperty(model.PropertyDef{Name: "label", Type: model.TypeString}).
		AddMethod(model.MethodDef{
			Name:      "pick",
			Modifiers: model.Public,
			Params:    []model.ParamDef{{Name: "b", Type: model.TypeBoolean}},
			Returns:   model.TypeInt,
			Body: []model.Stmt{
				model.Return{Value: model.Ternary{
					Cond: model.ParamRef{Name: "b"},
					Then: model.Constant{Type: model.TypeInt, Value: 1},
					Else: model.Constant{Type: model.TypeInt, Value: 2},
				}},
			},
		}))

	var first, second bytes.Buffer
	if err := NewWriter().Write(def, &first); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := NewWriter().Write(def, &second); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("rendering the same definition twice produced different bytes")
	}
}

func TestLocalSlotOverflowFails(t *testing.T) {
	params := make([]model.ParamDef, 300)
	for i := range params {
		params[i] = model.ParamDef{Name: fmt.Sprintf("p%d", i), Type: model.TypeInt}
	}
	def := mustBuildClass(t, model.NewClass("example", "Wide").
		Modifiers(model.Public).
		AddMethod(model.MethodDef{
			Name:      "last",
			Modifiers: model.Public,
			Params:    params,
			Returns:   model.TypeInt,
			Body:      []model.Stmt{model.Return{Value: model.ParamRef{Name: "p299"}}},
		}))

	_, err := NewWriter().Lower(def)
	if err == nil {
		t.Fatal("Lower() = nil error, want slot range failure")
	}
	if !strings.Contains(err.Error(), "local variable slot") {
		t.Errorf("error %q does not mention the slot range", err)
	}
}

func TestRecordSignatureSuperclass(t *testing.T) {
	self := model.ClassType{Package: "example", Name: "Pair"}
	b := model.NewRecord("example", "Pair").
		Modifiers(model.Public).
		AddProperty(model.PropertyDef{Name: "value", Type: model.TypeString}).
		Implements(model.ParameterizedType{
			Raw:  model.ClassType{Package: "java.lang", Name: "Comparable"},
			Args: []model.TypeDef{self},
		})
	def, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	cf := lowerClass(t, def)
	attr := cf.GetAttribute("Signature")
	if attr == nil {
		t.Fatal("record has no Signature attribute")
	}
	sig := cf.ConstantPool.GetUtf8(attr.AsSignature().SignatureIndex)
	want := "Ljava/lang/Record;Ljava/lang/Comparable<Lexample/Pair;>;"
	if sig != want {
		t.Errorf("class signature = %q, want %q", sig, want)
	}
}
