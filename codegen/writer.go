package codegen

import (
	"fmt"
	"io"

	"github.com/dhamidi/sourcegen/classfile"
	"github.com/dhamidi/sourcegen/model"
)

// Writer renders object definitions as JVM class files targeting the
// major version declared in classfile.
type Writer struct {
	// SourceFile, when non-empty, is recorded in a SourceFile attribute
	// on every emitted class.
	SourceFile string
}

func NewWriter() *Writer { return &Writer{} }

// Write lowers the definition and serializes the class file to out.
func (w *Writer) Write(def model.ObjectDef, out io.Writer) error {
	cf, err := w.Lower(def)
	if err != nil {
		return err
	}
	return classfile.Write(cf, out)
}

// Lower produces the in-memory class file for a definition. Exposed
// separately so hosts and tests can inspect the structure without
// serializing.
func (w *Writer) Lower(def model.ObjectDef) (*classfile.ClassFile, error) {
	internal, err := internalNameOf(selfType(def))
	if err != nil {
		return nil, err
	}
	g := &classGen{
		writer:   w,
		pool:     classfile.NewPoolBuilder(),
		def:      def,
		internal: internal,
	}
	return g.lower()
}

type classGen struct {
	writer   *Writer
	pool     *classfile.PoolBuilder
	def      model.ObjectDef
	internal string
}

func (g *classGen) lower() (*classfile.ClassFile, error) {
	cf := &classfile.ClassFile{
		MinorVersion: classfile.MinorVersion,
		MajorVersion: classfile.MajorVersion,
		AccessFlags:  g.typeAccessFlags(),
		ThisClass:    g.pool.Class(g.internal),
	}

	superName, err := g.superName()
	if err != nil {
		return nil, err
	}
	cf.SuperClass = g.pool.Class(superName)

	for _, iface := range g.def.Interfaces() {
		name, err := internalNameOf(iface)
		if err != nil {
			return nil, err
		}
		cf.Interfaces = append(cf.Interfaces, g.pool.Class(name))
	}

	if err := g.lowerFields(cf); err != nil {
		return nil, err
	}
	if err := g.lowerMethods(cf); err != nil {
		return nil, err
	}
	if err := g.lowerClassAttributes(cf); err != nil {
		return nil, err
	}

	cf.ConstantPool = g.pool.Pool()
	return cf, nil
}

func (g *classGen) typeAccessFlags() classfile.AccessFlags {
	m := g.def.Modifiers()
	var flags classfile.AccessFlags
	if m.IsPublic() {
		flags |= classfile.AccPublic
	}
	switch g.def.(type) {
	case *model.InterfaceDef:
		flags |= classfile.AccInterface | classfile.AccAbstract
	case *model.EnumDef:
		flags |= classfile.AccSuper | classfile.AccFinal | classfile.AccEnum
	case *model.RecordDef:
		flags |= classfile.AccSuper | classfile.AccFinal
	default:
		flags |= classfile.AccSuper
		if m.IsFinal() {
			flags |= classfile.AccFinal
		}
		if m.IsAbstract() {
			flags |= classfile.AccAbstract
		}
	}
	return flags
}

func (g *classGen) superName() (string, error) {
	switch def := g.def.(type) {
	case *model.ClassDef:
		if def.Superclass() != nil {
			return internalNameOf(def.Superclass())
		}
		return "java/lang/Object", nil
	case *model.RecordDef:
		return "java/lang/Record", nil
	case *model.EnumDef:
		return "java/lang/Enum", nil
	default:
		return "java/lang/Object", nil
	}
}

func (g *classGen) selfDescriptor() string {
	return "L" + g.internal + ";"
}

func (g *classGen) attr(name string, parsed interface{}) classfile.AttributeInfo {
	return classfile.AttributeInfo{NameIndex: g.pool.Utf8(name), Parsed: parsed}
}

func (g *classGen) codeAttr(maxStack, maxLocals int, code []byte, frames []classfile.StackMapFrame) classfile.AttributeInfo {
	ca := &classfile.CodeAttribute{
		MaxStack:  uint16(maxStack),
		MaxLocals: uint16(maxLocals),
		Code:      code,
	}
	if len(frames) > 0 {
		ca.Attributes = append(ca.Attributes, g.attr("StackMapTable", &classfile.StackMapTableAttribute{Frames: frames}))
	}
	return g.attr("Code", ca)
}

func memberFlags(m model.Modifiers) classfile.AccessFlags {
	var flags classfile.AccessFlags
	if m.IsPublic() {
		flags |= classfile.AccPublic
	}
	if m.IsPrivate() {
		flags |= classfile.AccPrivate
	}
	if m.IsProtected() {
		flags |= classfile.AccProtected
	}
	if m.IsStatic() {
		flags |= classfile.AccStatic
	}
	if m.IsFinal() {
		flags |= classfile.AccFinal
	}
	if m.IsAbstract() {
		flags |= classfile.AccAbstract
	}
	if m.IsSynchronized() {
		flags |= classfile.AccSynchronized
	}
	if m.IsTransient() {
		flags |= classfile.AccTransient
	}
	if m.IsVolatile() {
		flags |= classfile.AccVolatile
	}
	return flags
}

// lowerFields emits declared fields, property backing fields and, for
// enums, the constant fields plus the $VALUES array.
func (g *classGen) lowerFields(cf *classfile.ClassFile) error {
	for _, f := range g.def.Fields() {
		info, err := g.fieldInfo(memberFlags(f.Modifiers), f.Name, f.Type, f.Annotations)
		if err != nil {
			return err
		}
		cf.Fields = append(cf.Fields, info)
	}

	propertyFlags := classfile.AccPrivate
	if _, isRecord := g.def.(*model.RecordDef); isRecord {
		propertyFlags |= classfile.AccFinal
	}
	for _, p := range g.def.Properties() {
		info, err := g.fieldInfo(propertyFlags, p.Name, p.Type, p.Annotations)
		if err != nil {
			return err
		}
		cf.Fields = append(cf.Fields, info)
	}

	if enum, ok := g.def.(*model.EnumDef); ok {
		constFlags := classfile.AccPublic | classfile.AccStatic | classfile.AccFinal | classfile.AccEnum
		for _, name := range enum.Constants() {
			cf.Fields = append(cf.Fields, classfile.FieldInfo{
				AccessFlags:     constFlags,
				NameIndex:       g.pool.Utf8(name),
				DescriptorIndex: g.pool.Utf8(g.selfDescriptor()),
			})
		}
		cf.Fields = append(cf.Fields, classfile.FieldInfo{
			AccessFlags:     classfile.AccPrivate | classfile.AccStatic | classfile.AccFinal | classfile.AccSynthetic,
			NameIndex:       g.pool.Utf8("$VALUES"),
			DescriptorIndex: g.pool.Utf8("[" + g.selfDescriptor()),
		})
	}
	return nil
}

func (g *classGen) fieldInfo(flags classfile.AccessFlags, name string, typ model.TypeDef, annotations []model.Annotation) (classfile.FieldInfo, error) {
	desc, err := descriptorOf(typ)
	if err != nil {
		return classfile.FieldInfo{}, err
	}
	info := classfile.FieldInfo{
		AccessFlags:     flags,
		NameIndex:       g.pool.Utf8(name),
		DescriptorIndex: g.pool.Utf8(desc),
	}
	if needsSignature(typ) {
		sig, err := signatureOf(typ)
		if err != nil {
			return classfile.FieldInfo{}, err
		}
		info.Attributes = append(info.Attributes, g.attr("Signature", &classfile.SignatureAttribute{SignatureIndex: g.pool.Utf8(sig)}))
	}
	if attr, ok, err := g.annotationsAttr(annotations); err != nil {
		return classfile.FieldInfo{}, err
	} else if ok {
		info.Attributes = append(info.Attributes, attr)
	}
	return info, nil
}

func (g *classGen) lowerMethods(cf *classfile.ClassFile) error {
	switch def := g.def.(type) {
	case *model.EnumDef:
		if err := g.enumMethods(cf, def); err != nil {
			return err
		}
	case *model.RecordDef:
		if err := g.recordMethods(cf, def); err != nil {
			return err
		}
	case *model.ClassDef:
		cf.Methods = append(cf.Methods, g.defaultConstructor())
		if err := g.propertyAccessors(cf); err != nil {
			return err
		}
	}

	_, isInterface := g.def.(*model.InterfaceDef)
	for i := range g.def.Methods() {
		m := g.def.Methods()[i]
		info, err := g.lowerMethod(m, isInterface)
		if err != nil {
			return err
		}
		cf.Methods = append(cf.Methods, info)
	}
	return nil
}

// lowerMethod translates a declared method. An empty body yields an
// abstract method on interfaces (unless static or default) and in
// abstract-modified class methods; otherwise the body is lowered through
// the assembler.
func (g *classGen) lowerMethod(m model.MethodDef, isInterface bool) (classfile.MethodInfo, error) {
	returns := m.Returns
	if returns == nil {
		returns = model.TypeVoid
	}
	desc, err := methodDescriptorOf(m.Params, returns)
	if err != nil {
		return classfile.MethodInfo{}, err
	}

	flags := memberFlags(m.Modifiers)
	abstract := m.Modifiers.IsAbstract()
	if isInterface {
		if !m.Modifiers.IsPrivate() {
			flags |= classfile.AccPublic
		}
		if len(m.Body) == 0 && !m.Modifiers.IsStatic() && !m.Modifiers.IsDefault() {
			abstract = true
			flags |= classfile.AccAbstract
		}
	}

	info := classfile.MethodInfo{
		AccessFlags:     flags,
		NameIndex:       g.pool.Utf8(m.Name),
		DescriptorIndex: g.pool.Utf8(desc),
	}

	if sig, needed, err := g.methodSignature(m.Params, returns); err != nil {
		return classfile.MethodInfo{}, err
	} else if needed {
		info.Attributes = append(info.Attributes, g.attr("Signature", &classfile.SignatureAttribute{SignatureIndex: g.pool.Utf8(sig)}))
	}
	if attr, ok, err := g.annotationsAttr(m.Annotations); err != nil {
		return classfile.MethodInfo{}, err
	} else if ok {
		info.Attributes = append(info.Attributes, attr)
	}

	if abstract {
		return info, nil
	}

	gen, err := newMethodGen(g.pool, g.def, &m)
	if err != nil {
		return classfile.MethodInfo{}, err
	}
	if err := gen.emitStmts(m.Body); err != nil {
		return classfile.MethodInfo{}, err
	}
	if gen.a.alive {
		if model.Equal(returns, model.TypeVoid) {
			gen.a.emit(classfile.OpReturn)
		} else {
			return classfile.MethodInfo{}, fmt.Errorf("%s.%s: control reaches end of non-void method", g.def.QualifiedName(), m.Name)
		}
	}
	if err := gen.a.resolve(); err != nil {
		return classfile.MethodInfo{}, fmt.Errorf("%s.%s: %w", g.def.QualifiedName(), m.Name, err)
	}
	info.Attributes = append(info.Attributes,
		g.codeAttr(gen.a.maxStack, gen.a.maxLocals, gen.a.code, gen.a.stackMapFrames()))
	return info, nil
}

func (g *classGen) methodSignature(params []model.ParamDef, returns model.TypeDef) (string, bool, error) {
	needed := needsSignature(returns)
	for _, p := range params {
		needed = needed || needsSignature(p.Type)
	}
	if !needed {
		return "", false, nil
	}
	sig := "("
	for _, p := range params {
		s, err := signatureOf(p.Type)
		if err != nil {
			return "", false, err
		}
		sig += s
	}
	ret, err := signatureOf(returns)
	if err != nil {
		return "", false, err
	}
	return sig + ")" + ret, true, nil
}

// propertyAccessors synthesizes JavaBeans getter/setter pairs. The bodies
// go through the regular lowering so frames and descriptors stay uniform.
func (g *classGen) propertyAccessors(cf *classfile.ClassFile) error {
	self := selfType(g.def).(model.ClassType)
	for _, p := range g.def.Properties() {
		getter := model.MethodDef{
			Name:      p.GetterName(),
			Modifiers: model.Public,
			Returns:   p.Type,
			Body: []model.Stmt{
				model.Return{Value: model.FieldRef{Instance: model.This{}, Name: p.Name, Type: p.Type}},
			},
		}
		setter := model.MethodDef{
			Name:      p.SetterName(),
			Modifiers: model.Public,
			Params:    []model.ParamDef{{Name: p.Name, Type: p.Type}},
			Returns:   model.TypeVoid,
			Body: []model.Stmt{
				model.Assign{
					Target: model.FieldRef{Instance: model.This{Type: self}, Name: p.Name, Type: p.Type},
					Value:  model.ParamRef{Name: p.Name},
				},
				model.Return{},
			},
		}
		for _, m := range []model.MethodDef{getter, setter} {
			info, err := g.lowerMethod(m, false)
			if err != nil {
				return err
			}
			cf.Methods = append(cf.Methods, info)
		}
	}
	return nil
}

// defaultConstructor is the synthesized no-argument constructor chaining
// the superclass constructor.
func (g *classGen) defaultConstructor() classfile.MethodInfo {
	super := "java/lang/Object"
	if def, ok := g.def.(*model.ClassDef); ok && def.Superclass() != nil {
		if name, err := internalNameOf(def.Superclass()); err == nil {
			super = name
		}
	}
	var r rawCode
	r.op(classfile.OpAload, 0)
	r.opU2(classfile.OpInvokespecial, g.pool.Methodref(super, "<init>", "()V"))
	r.op(classfile.OpReturn)
	return classfile.MethodInfo{
		AccessFlags:     classfile.AccPublic,
		NameIndex:       g.pool.Utf8("<init>"),
		DescriptorIndex: g.pool.Utf8("()V"),
		Attributes:      []classfile.AttributeInfo{g.codeAttr(1, 1, r.code, nil)},
	}
}

// recordMethods emits the canonical constructor and one accessor per
// component, named after the component as records do.
func (g *classGen) recordMethods(cf *classfile.ClassFile, def *model.RecordDef) error {
	props := def.Properties()

	var r rawCode
	r.op(classfile.OpAload, 0)
	r.opU2(classfile.OpInvokespecial, g.pool.Methodref("java/lang/Record", "<init>", "()V"))
	maxStack := 1
	slot := 1
	for _, p := range props {
		desc, err := descriptorOf(p.Type)
		if err != nil {
			return err
		}
		r.op(classfile.OpAload, 0)
		r.op(loadOpcode(p.Type), byte(slot))
		r.opU2(classfile.OpPutfield, g.pool.Fieldref(g.internal, p.Name, desc))
		w := typeWidth(p.Type)
		if 1+w > maxStack {
			maxStack = 1 + w
		}
		slot += w
	}
	r.op(classfile.OpReturn)

	params := make([]model.ParamDef, len(props))
	for i, p := range props {
		params[i] = model.ParamDef{Name: p.Name, Type: p.Type}
	}
	desc, err := methodDescriptorOf(params, model.TypeVoid)
	if err != nil {
		return err
	}
	cf.Methods = append(cf.Methods, classfile.MethodInfo{
		AccessFlags:     classfile.AccPublic,
		NameIndex:       g.pool.Utf8("<init>"),
		DescriptorIndex: g.pool.Utf8(desc),
		Attributes:      []classfile.AttributeInfo{g.codeAttr(maxStack, slot, r.code, nil)},
	})

	for _, p := range props {
		accessor := model.MethodDef{
			Name:      p.Name,
			Modifiers: model.Public,
			Returns:   p.Type,
			Body: []model.Stmt{
				model.Return{Value: model.FieldRef{Instance: model.This{}, Name: p.Name, Type: p.Type}},
			},
		}
		info, err := g.lowerMethod(accessor, false)
		if err != nil {
			return err
		}
		cf.Methods = append(cf.Methods, info)
	}
	return nil
}

// enumMethods synthesizes the full enum scaffolding: values(),
// valueOf(String), the private $values() builder, the (String,int)
// constructor chaining java/lang/Enum and the static initializer that
// constructs the constants in declaration order.
func (g *classGen) enumMethods(cf *classfile.ClassFile, def *model.EnumDef) error {
	selfDesc := g.selfDescriptor()
	arrayDesc := "[" + selfDesc
	arrayClass := g.pool.Class(arrayDesc)
	valuesField := g.pool.Fieldref(g.internal, "$VALUES", arrayDesc)

	// values(): return (Self[]) $VALUES.clone()
	var values rawCode
	values.opU2(classfile.OpGetstatic, valuesField)
	values.opU2(classfile.OpInvokevirtual, g.pool.Methodref(arrayDesc, "clone", "()Ljava/lang/Object;"))
	values.opU2(classfile.OpCheckcast, arrayClass)
	values.op(classfile.OpAreturn)
	cf.Methods = append(cf.Methods, classfile.MethodInfo{
		AccessFlags:     classfile.AccPublic | classfile.AccStatic,
		NameIndex:       g.pool.Utf8("values"),
		DescriptorIndex: g.pool.Utf8("()" + arrayDesc),
		Attributes:      []classfile.AttributeInfo{g.codeAttr(1, 0, values.code, nil)},
	})

	// valueOf(String): return (Self) Enum.valueOf(Self.class, name)
	var valueOf rawCode
	valueOf.ldc(g.pool.Class(g.internal))
	valueOf.op(classfile.OpAload, 0)
	valueOf.opU2(classfile.OpInvokestatic, g.pool.Methodref("java/lang/Enum", "valueOf", "(Ljava/lang/Class;Ljava/lang/String;)Ljava/lang/Enum;"))
	valueOf.opU2(classfile.OpCheckcast, g.pool.Class(g.internal))
	valueOf.op(classfile.OpAreturn)
	cf.Methods = append(cf.Methods, classfile.MethodInfo{
		AccessFlags:     classfile.AccPublic | classfile.AccStatic,
		NameIndex:       g.pool.Utf8("valueOf"),
		DescriptorIndex: g.pool.Utf8("(Ljava/lang/String;)" + selfDesc),
		Attributes:      []classfile.AttributeInfo{g.codeAttr(2, 1, valueOf.code, nil)},
	})

	// private static $values(): Self[] in declaration order
	var builder rawCode
	builder.pushInt(len(def.Constants()))
	builder.opU2(classfile.OpAnewarray, g.pool.Class(g.internal))
	for i, name := range def.Constants() {
		builder.op(classfile.OpDup)
		builder.pushInt(i)
		builder.opU2(classfile.OpGetstatic, g.pool.Fieldref(g.internal, name, selfDesc))
		builder.op(classfile.OpAastore)
	}
	builder.op(classfile.OpAreturn)
	cf.Methods = append(cf.Methods, classfile.MethodInfo{
		AccessFlags:     classfile.AccPrivate | classfile.AccStatic | classfile.AccSynthetic,
		NameIndex:       g.pool.Utf8("$values"),
		DescriptorIndex: g.pool.Utf8("()" + arrayDesc),
		Attributes:      []classfile.AttributeInfo{g.codeAttr(3, 0, builder.code, nil)},
	})

	// private (String, int) constructor chaining java/lang/Enum
	var init rawCode
	init.op(classfile.OpAload, 0)
	init.op(classfile.OpAload, 1)
	init.op(classfile.OpIload, 2)
	init.opU2(classfile.OpInvokespecial, g.pool.Methodref("java/lang/Enum", "<init>", "(Ljava/lang/String;I)V"))
	init.op(classfile.OpReturn)
	cf.Methods = append(cf.Methods, classfile.MethodInfo{
		AccessFlags:     classfile.AccPrivate,
		NameIndex:       g.pool.Utf8("<init>"),
		DescriptorIndex: g.pool.Utf8("(Ljava/lang/String;I)V"),
		Attributes:      []classfile.AttributeInfo{g.codeAttr(3, 3, init.code, nil)},
	})

	// <clinit>: construct each constant with its positional ordinal, then
	// capture the $VALUES array
	var clinit rawCode
	for i, name := range def.Constants() {
		clinit.opU2(classfile.OpNew, g.pool.Class(g.internal))
		clinit.op(classfile.OpDup)
		clinit.ldc(g.pool.String(name))
		clinit.pushInt(i)
		clinit.opU2(classfile.OpInvokespecial, g.pool.Methodref(g.internal, "<init>", "(Ljava/lang/String;I)V"))
		clinit.opU2(classfile.OpPutstatic, g.pool.Fieldref(g.internal, name, selfDesc))
	}
	clinit.opU2(classfile.OpInvokestatic, g.pool.Methodref(g.internal, "$values", "()"+arrayDesc))
	clinit.opU2(classfile.OpPutstatic, valuesField)
	clinit.op(classfile.OpReturn)
	cf.Methods = append(cf.Methods, classfile.MethodInfo{
		AccessFlags:     classfile.AccStatic,
		NameIndex:       g.pool.Utf8("<clinit>"),
		DescriptorIndex: g.pool.Utf8("()V"),
		Attributes:      []classfile.AttributeInfo{g.codeAttr(4, 0, clinit.code, nil)},
	})
	return nil
}

func (g *classGen) lowerClassAttributes(cf *classfile.ClassFile) error {
	var super model.TypeDef
	switch def := g.def.(type) {
	case *model.ClassDef:
		super = def.Superclass()
	case *model.RecordDef:
		super = model.ClassType{Package: "java.lang", Name: "Record"}
	}
	if _, ok := g.def.(*model.EnumDef); ok {
		sig := "Ljava/lang/Enum<" + g.selfDescriptor() + ">;"
		cf.Attributes = append(cf.Attributes, g.attr("Signature", &classfile.SignatureAttribute{SignatureIndex: g.pool.Utf8(sig)}))
	} else {
		sig, err := classSignatureOf(g.def.TypeVariables(), super, g.def.Interfaces())
		if err != nil {
			return err
		}
		if sig != "" {
			cf.Attributes = append(cf.Attributes, g.attr("Signature", &classfile.SignatureAttribute{SignatureIndex: g.pool.Utf8(sig)}))
		}
	}

	if def, ok := g.def.(*model.RecordDef); ok {
		record := &classfile.RecordAttribute{}
		for _, p := range def.Properties() {
			desc, err := descriptorOf(p.Type)
			if err != nil {
				return err
			}
			component := classfile.RecordComponentInfo{
				NameIndex:       g.pool.Utf8(p.Name),
				DescriptorIndex: g.pool.Utf8(desc),
			}
			if needsSignature(p.Type) {
				sig, err := signatureOf(p.Type)
				if err != nil {
					return err
				}
				component.Attributes = append(component.Attributes, g.attr("Signature", &classfile.SignatureAttribute{SignatureIndex: g.pool.Utf8(sig)}))
			}
			record.Components = append(record.Components, component)
		}
		cf.Attributes = append(cf.Attributes, g.attr("Record", record))
	}

	if attr, ok, err := g.annotationsAttr(g.def.Annotations()); err != nil {
		return err
	} else if ok {
		cf.Attributes = append(cf.Attributes, attr)
	}

	if g.writer.SourceFile != "" {
		cf.Attributes = append(cf.Attributes, g.attr("SourceFile", &classfile.SourceFileAttribute{
			SourceFileIndex: g.pool.Utf8(g.writer.SourceFile),
		}))
	}
	return nil
}

func (g *classGen) annotationsAttr(list []model.Annotation) (classfile.AttributeInfo, bool, error) {
	if len(list) == 0 {
		return classfile.AttributeInfo{}, false, nil
	}
	parsed := &classfile.RuntimeVisibleAnnotationsAttribute{}
	for _, a := range list {
		ann := classfile.Annotation{TypeIndex: g.pool.Utf8("L" + a.Type.Internal() + ";")}
		for _, member := range a.Members {
			value, err := g.elementValue(member.Value)
			if err != nil {
				return classfile.AttributeInfo{}, false, fmt.Errorf("annotation %s, member %s: %w", a.Type, member.Name, err)
			}
			ann.ElementValuePairs = append(ann.ElementValuePairs, classfile.ElementValuePair{
				ElementNameIndex: g.pool.Utf8(member.Name),
				Value:            value,
			})
		}
		parsed.Annotations = append(parsed.Annotations, ann)
	}
	return g.attr("RuntimeVisibleAnnotations", parsed), true, nil
}

// elementValue maps an annotation member value onto its pool-backed
// element_value encoding.
func (g *classGen) elementValue(v any) (classfile.ElementValue, error) {
	switch value := v.(type) {
	case string:
		return classfile.ElementValue{Tag: 's', Value: g.pool.Utf8(value)}, nil
	case bool:
		n := int32(0)
		if value {
			n = 1
		}
		return classfile.ElementValue{Tag: 'Z', Value: g.pool.Integer(n)}, nil
	case int:
		return classfile.ElementValue{Tag: 'I', Value: g.pool.Integer(int32(value))}, nil
	case int32:
		return classfile.ElementValue{Tag: 'I', Value: g.pool.Integer(value)}, nil
	case int64:
		return classfile.ElementValue{Tag: 'J', Value: g.pool.Long(value)}, nil
	case float32:
		return classfile.ElementValue{Tag: 'F', Value: g.pool.Float(value)}, nil
	case float64:
		return classfile.ElementValue{Tag: 'D', Value: g.pool.Double(value)}, nil
	case model.ClassType:
		return classfile.ElementValue{Tag: 'c', Value: g.pool.Utf8("L" + value.Internal() + ";")}, nil
	case model.EnumConstant:
		return classfile.ElementValue{Tag: 'e', Value: classfile.EnumConstValue{
			TypeNameIndex:  g.pool.Utf8("L" + value.Type.Internal() + ";"),
			ConstNameIndex: g.pool.Utf8(value.Name),
		}}, nil
	case []any:
		array := classfile.ArrayValue{}
		for _, elem := range value {
			ev, err := g.elementValue(elem)
			if err != nil {
				return classfile.ElementValue{}, err
			}
			array.Values = append(array.Values, ev)
		}
		return classfile.ElementValue{Tag: '[', Value: array}, nil
	default:
		return classfile.ElementValue{}, fmt.Errorf("unsupported annotation value %v (%T)", v, v)
	}
}

func typeWidth(t model.TypeDef) int {
	if p, ok := t.(model.PrimitiveType); ok && (p.Name == "long" || p.Name == "double") {
		return 2
	}
	return 1
}

// rawCode collects straight-line synthesized method bodies whose stack
// bounds are known by construction.
type rawCode struct {
	code []byte
}

func (r *rawCode) op(bytes ...byte) {
	r.code = append(r.code, bytes...)
}

func (r *rawCode) opU2(op byte, v uint16) {
	r.code = append(r.code, op, byte(v>>8), byte(v))
}

func (r *rawCode) ldc(index uint16) {
	if index <= 255 {
		r.op(classfile.OpLdc, byte(index))
	} else {
		r.opU2(classfile.OpLdcW, index)
	}
}

func (r *rawCode) pushInt(v int) {
	switch {
	case v >= -1 && v <= 5:
		r.op(byte(int(classfile.OpIconst0) + v))
	case v >= -128 && v <= 127:
		r.op(classfile.OpBipush, byte(int8(v)))
	default:
		r.opU2(classfile.OpSipush, uint16(int16(v)))
	}
}
