package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/sourcegen/model"
)

// KotlinWriter renders an object definition as Kotlin source. Nullability
// is surfaced with `?` on types; reads of a nullable-typed expression in a
// non-null-required position get a `!!` assertion. The comparison is
// purely between declared nullabilities, not flow analysis, so some
// assertions are redundant and deep chains may still need manual care.
type KotlinWriter struct {
	emitter
	def   model.ObjectDef
	scope *paramScope
}

func NewKotlinWriter(w io.Writer) *KotlinWriter {
	return &KotlinWriter{emitter: emitter{out: w}}
}

func (kw *KotlinWriter) Write(def model.ObjectDef) error {
	kw.sb.Reset()
	kw.err = nil
	kw.indent = 0
	kw.def = def
	kw.scope = nil

	if pkg := def.PackageName(); pkg != "" {
		kw.linef("package %s", pkg)
		kw.blank()
	}
	kw.writeKdoc(def.Javadoc())
	for _, a := range def.Annotations() {
		kw.line(kw.annotation(a))
	}

	switch d := def.(type) {
	case *model.ClassDef:
		kw.writeClass(d)
	case *model.InterfaceDef:
		kw.writeInterface(d)
	case *model.RecordDef:
		kw.writeDataClass(d)
	case *model.EnumDef:
		kw.writeEnum(d)
	default:
		kw.fail(&UnsupportedConstructError{Construct: fmt.Sprintf("definition %T", def)})
	}
	return kw.flush()
}

func (kw *KotlinWriter) writeKdoc(lines []string) {
	if len(lines) == 0 {
		return
	}
	kw.line("/**")
	for _, l := range lines {
		kw.line(" * " + l)
	}
	kw.line(" */")
}

// kotlinType maps a model type onto Kotlin surface syntax. Wrapper and
// primitive kinds collapse onto the same Kotlin type; declared
// nullability appends `?`.
func kotlinType(t model.TypeDef) string {
	switch v := t.(type) {
	case model.PrimitiveType:
		switch v.Name {
		case "void":
			return "Unit"
		case "boolean":
			return "Boolean"
		case "byte":
			return "Byte"
		case "short":
			return "Short"
		case "char":
			return "Char"
		case "int":
			return "Int"
		case "long":
			return "Long"
		case "float":
			return "Float"
		case "double":
			return "Double"
		default:
			return v.Name
		}
	case model.ClassType:
		base := kotlinClassName(v)
		if v.Nullable {
			base += "?"
		}
		return base
	case model.ParameterizedType:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = kotlinType(a)
		}
		base := kotlinClassName(v.Raw) + "<" + strings.Join(args, ", ") + ">"
		if v.Nullable {
			base += "?"
		}
		return base
	case model.ArrayType:
		base := kotlinArrayType(v)
		if v.Nullable {
			base += "?"
		}
		return base
	case model.TypeVariable:
		return v.Name
	case model.WildcardType:
		if len(v.Lower) > 0 {
			return "in " + kotlinType(v.Lower[0])
		}
		if len(v.Upper) > 0 {
			return "out " + kotlinType(v.Upper[0])
		}
		return "*"
	default:
		return t.String()
	}
}

func kotlinClassName(c model.ClassType) string {
	if c.Package == "java.lang" {
		switch c.Name {
		case "Object":
			return "Any"
		case "String":
			return "String"
		case "Integer":
			return "Int"
		case "Boolean", "Byte", "Short", "Character", "Long", "Float", "Double":
			if c.Name == "Character" {
				return "Char"
			}
			return c.Name
		}
	}
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

var kotlinPrimitiveArrays = map[string]string{
	"boolean": "BooleanArray",
	"byte":    "ByteArray",
	"short":   "ShortArray",
	"char":    "CharArray",
	"int":     "IntArray",
	"long":    "LongArray",
	"float":   "FloatArray",
	"double":  "DoubleArray",
}

func kotlinArrayType(a model.ArrayType) string {
	if prim, ok := a.Component.(model.PrimitiveType); ok && a.Dimensions == 1 {
		if name, ok := kotlinPrimitiveArrays[prim.Name]; ok {
			return name
		}
	}
	inner := kotlinType(a.Component)
	for i := 0; i < a.Dimensions; i++ {
		inner = "Array<" + inner + ">"
	}
	return inner
}

func (kw *KotlinWriter) writeClass(def *model.ClassDef) {
	header := kw.classModifiers(def.Modifiers()) + "class " + def.SimpleName() + kw.typeVariables(def.TypeVariables())
	var supers []string
	if def.Superclass() != nil {
		supers = append(supers, kotlinType(def.Superclass())+"()")
	}
	for _, t := range def.Interfaces() {
		supers = append(supers, kotlinType(t))
	}
	if len(supers) > 0 {
		header += " : " + strings.Join(supers, ", ")
	}
	kw.line(header + " {")
	kw.indent++

	instanceFields, staticFields := splitFields(def.Fields())
	instanceMethods, staticMethods := splitMethods(def.Methods())

	for _, f := range instanceFields {
		kw.blank()
		kw.writeProperty(f.Name, f.Type, f.Annotations, f.Javadoc)
	}
	for _, p := range def.Properties() {
		kw.blank()
		kw.writeProperty(p.Name, p.Type, p.Annotations, p.Javadoc)
	}
	for i := range instanceMethods {
		kw.blank()
		kw.writeMethod(instanceMethods[i], false)
	}
	kw.writeCompanion(staticFields, staticMethods)

	kw.indent--
	kw.line("}")
}

func (kw *KotlinWriter) writeInterface(def *model.InterfaceDef) {
	header := kw.classModifiers(def.Modifiers()) + "interface " + def.SimpleName() + kw.typeVariables(def.TypeVariables())
	if len(def.Interfaces()) > 0 {
		names := make([]string, len(def.Interfaces()))
		for i, t := range def.Interfaces() {
			names[i] = kotlinType(t)
		}
		header += " : " + strings.Join(names, ", ")
	}
	kw.line(header + " {")
	kw.indent++
	instanceMethods, staticMethods := splitMethods(def.Methods())
	for i := range instanceMethods {
		kw.blank()
		kw.writeMethod(instanceMethods[i], true)
	}
	kw.writeCompanion(nil, staticMethods)
	kw.indent--
	kw.line("}")
}

func (kw *KotlinWriter) writeDataClass(def *model.RecordDef) {
	components := make([]string, len(def.Properties()))
	for i, p := range def.Properties() {
		var parts []string
		for _, a := range p.Annotations {
			parts = append(parts, kw.annotation(a))
		}
		parts = append(parts, "val "+p.Name+": "+kotlinType(p.Type))
		components[i] = strings.Join(parts, " ")
	}
	header := kw.classModifiers(def.Modifiers()) + "data class " + def.SimpleName() +
		"(" + strings.Join(components, ", ") + ")"
	if len(def.Interfaces()) > 0 {
		names := make([]string, len(def.Interfaces()))
		for i, t := range def.Interfaces() {
			names[i] = kotlinType(t)
		}
		header += " : " + strings.Join(names, ", ")
	}

	if len(def.Methods()) == 0 {
		kw.line(header)
		return
	}
	kw.line(header + " {")
	kw.indent++
	instanceMethods, staticMethods := splitMethods(def.Methods())
	for i := range instanceMethods {
		kw.blank()
		kw.writeMethod(instanceMethods[i], false)
	}
	kw.writeCompanion(nil, staticMethods)
	kw.indent--
	kw.line("}")
}

func (kw *KotlinWriter) writeEnum(def *model.EnumDef) {
	header := kw.classModifiers(def.Modifiers()) + "enum class " + def.SimpleName()
	kw.line(header + " {")
	kw.indent++
	constants := strings.Join(def.Constants(), ", ")
	if len(def.Methods()) > 0 {
		kw.line(constants + ";")
		instanceMethods, staticMethods := splitMethods(def.Methods())
		for i := range instanceMethods {
			kw.blank()
			kw.writeMethod(instanceMethods[i], false)
		}
		kw.writeCompanion(nil, staticMethods)
	} else {
		kw.line(constants)
	}
	kw.indent--
	kw.line("}")
}

// classModifiers keeps only the modifiers Kotlin spells out: types are
// final by default, so final is dropped and abstract/sealed carry over.
func (kw *KotlinWriter) classModifiers(m model.Modifiers) string {
	var parts []string
	if m.IsPrivate() {
		parts = append(parts, "private")
	}
	if m.IsProtected() {
		parts = append(parts, "protected")
	}
	if m.IsSealed() {
		parts = append(parts, "sealed")
	} else if m.IsAbstract() {
		parts = append(parts, "abstract")
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " "
}

func splitFields(fields []model.FieldDef) (instance, static []model.FieldDef) {
	for _, f := range fields {
		if f.Modifiers.IsStatic() {
			static = append(static, f)
		} else {
			instance = append(instance, f)
		}
	}
	return
}

func splitMethods(methods []model.MethodDef) (instance, static []model.MethodDef) {
	for _, m := range methods {
		if m.Modifiers.IsStatic() {
			static = append(static, m)
		} else {
			instance = append(instance, m)
		}
	}
	return
}

// writeCompanion drains the buffered static members into a single
// companion object at the end of the definition body.
func (kw *KotlinWriter) writeCompanion(fields []model.FieldDef, methods []model.MethodDef) {
	if len(fields) == 0 && len(methods) == 0 {
		return
	}
	kw.blank()
	kw.line("companion object {")
	kw.indent++
	for _, f := range fields {
		kw.writeProperty(f.Name, f.Type, f.Annotations, f.Javadoc)
	}
	for i := range methods {
		if i > 0 || len(fields) > 0 {
			kw.blank()
		}
		kw.writeMethod(methods[i], false)
	}
	kw.indent--
	kw.line("}")
}

// writeProperty renders a mutable property with a zero-value initializer;
// non-null reference types use lateinit since no initializer expression is
// modeled.
func (kw *KotlinWriter) writeProperty(name string, typ model.TypeDef, annotations []model.Annotation, kdoc []string) {
	kw.writeKdoc(kdoc)
	for _, a := range annotations {
		kw.line(kw.annotation(a))
	}
	rendered := kotlinType(typ)
	switch t := typ.(type) {
	case model.PrimitiveType:
		kw.linef("var %s: %s = %s", name, rendered, kotlinZero(t))
	default:
		if model.IsNullable(typ) {
			kw.linef("var %s: %s = null", name, rendered)
		} else {
			kw.linef("lateinit var %s: %s", name, rendered)
		}
	}
}

func kotlinZero(t model.PrimitiveType) string {
	switch t.Name {
	case "boolean":
		return "false"
	case "char":
		return "'\\u0000'"
	case "float":
		return "0.0f"
	case "double":
		return "0.0"
	case "long":
		return "0L"
	default:
		return "0"
	}
}

func (kw *KotlinWriter) writeMethod(m model.MethodDef, inInterface bool) {
	kw.writeKdoc(m.Javadoc)
	for _, a := range m.Annotations {
		kw.line(kw.annotation(a))
	}

	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		var parts []string
		for _, a := range p.Annotations {
			parts = append(parts, kw.annotation(a))
		}
		parts = append(parts, p.Name+": "+kotlinType(p.Type))
		params[i] = strings.Join(parts, " ")
	}

	header := "fun " + m.Name + "(" + strings.Join(params, ", ") + ")"
	if m.Modifiers.IsPrivate() {
		header = "private " + header
	}
	if m.Modifiers.IsAbstract() && !inInterface {
		header = "abstract " + header
	}
	if m.Returns != nil && !model.Equal(m.Returns, model.TypeVoid) {
		header += ": " + kotlinType(m.Returns)
	}

	abstract := m.Modifiers.IsAbstract() || (inInterface && len(m.Body) == 0 && !m.Modifiers.IsDefault())
	if abstract {
		kw.line(header)
		return
	}

	kw.scope = newParamScope(kw.def, &m)
	kw.line(header + " {")
	kw.indent++
	kw.writeStmts(m.Body)
	kw.indent--
	kw.line("}")
	kw.scope = nil
}

func (kw *KotlinWriter) writeStmts(stmts []model.Stmt) {
	for _, s := range stmts {
		kw.writeStmt(s)
	}
}

func (kw *KotlinWriter) writeStmt(s model.Stmt) {
	switch v := s.(type) {
	case model.Block:
		kw.line("run {")
		kw.indent++
		kw.writeStmts(v.Stmts)
		kw.indent--
		kw.line("}")
	case model.If:
		kw.linef("if (%s) {", kw.expr(v.Cond))
		kw.indent++
		kw.writeStmts(v.Then)
		kw.indent--
		kw.line("}")
	case model.IfElse:
		kw.linef("if (%s) {", kw.expr(v.Cond))
		kw.indent++
		kw.writeStmts(v.Then)
		kw.indent--
		kw.line("} else {")
		kw.indent++
		kw.writeStmts(v.Else)
		kw.indent--
		kw.line("}")
	case model.While:
		kw.linef("while (%s) {", kw.expr(v.Cond))
		kw.indent++
		kw.writeStmts(v.Body)
		kw.indent--
		kw.line("}")
	case model.Return:
		if v.Value == nil {
			kw.line("return")
			return
		}
		value := kw.expr(v.Value)
		if kw.scope != nil && kw.scope.method.Returns != nil &&
			!model.IsNullable(kw.scope.method.Returns) && kw.nullable(v.Value) {
			value += "!!"
		}
		kw.linef("return %s", value)
	case model.Assign:
		value := kw.expr(v.Value)
		if target := kw.scope.declaredType(v.Target); target != nil &&
			!model.IsNullable(target) && kw.nullable(v.Value) {
			value += "!!"
		}
		kw.linef("%s = %s", kw.expr(v.Target), value)
	case model.Declare:
		value := kw.expr(v.Value)
		if !model.IsNullable(v.Type) && kw.nullable(v.Value) {
			value += "!!"
		}
		kw.linef("var %s: %s = %s", v.Name, kotlinType(v.Type), value)
		kw.scope.declare(v.Name, v.Type)
	case model.SwitchStmt:
		kw.linef("when (%s) {", kw.expr(v.Target))
		kw.indent++
		for _, c := range v.Cases {
			kw.linef("%s -> {", kw.constant(c.Match))
			kw.indent++
			kw.writeStmts(c.Body)
			kw.indent--
			kw.line("}")
		}
		if v.Default != nil {
			kw.line("else -> {")
			kw.indent++
			kw.writeStmts(v.Default)
			kw.indent--
			kw.line("}")
		}
		kw.indent--
		kw.line("}")
	default:
		kw.fail(&UnsupportedConstructError{Construct: fmt.Sprintf("statement %T", s), Declaration: kw.scope.declaration()})
	}
}

// nullable reports whether the expression's declared type admits null.
func (kw *KotlinWriter) nullable(e model.Expr) bool {
	t := kw.scope.declaredType(e)
	return t != nil && model.IsNullable(t)
}

// receiver renders an expression in receiver position, asserting away a
// declared-nullable type so the member access is legal.
func (kw *KotlinWriter) receiver(e model.Expr) string {
	s := kw.expr(e)
	if kw.nullable(e) {
		s += "!!"
	}
	return s
}

func (kw *KotlinWriter) expr(e model.Expr) string {
	switch v := e.(type) {
	case model.Constant:
		return kw.constant(v)
	case model.ParamRef:
		if _, err := kw.scope.param(v.Name); err != nil {
			kw.fail(err)
		}
		return v.Name
	case model.LocalRef:
		return v.Name
	case model.This:
		return "this"
	case model.FieldRef:
		return kw.receiver(v.Instance) + "." + v.Name
	case model.StaticFieldRef:
		return kw.staticOwner(v.Owner) + "." + v.Name
	case model.NewInstance:
		return kotlinClassName(v.Type) + "(" + kw.args(v.Args) + ")"
	case model.CallMethod:
		return kw.receiver(v.Instance) + "." + v.Name + "(" + kw.args(v.Args) + ")"
	case model.CallStatic:
		return kw.staticOwner(v.Owner) + "." + v.Name + "(" + kw.args(v.Args) + ")"
	case model.NewArray:
		return kw.newArray(v)
	case model.ArrayLiteral:
		elements := make([]string, len(v.Elements))
		for i, elem := range v.Elements {
			elements[i] = kw.expr(elem)
		}
		if prim, ok := v.Component.(model.PrimitiveType); ok {
			if name, known := kotlinPrimitiveArrays[prim.Name]; known {
				return strings.ToLower(name[:1]) + name[1:len(name)-5] + "ArrayOf(" + strings.Join(elements, ", ") + ")"
			}
		}
		return "arrayOf(" + strings.Join(elements, ", ") + ")"
	case model.Cast:
		return "(" + kw.expr(v.Value) + " as " + kotlinType(v.Target) + ")"
	case model.Convert:
		return kw.expr(v.Value)
	case model.IsNull:
		return kw.expr(v.Value) + " == null"
	case model.IsNotNull:
		return kw.expr(v.Value) + " != null"
	case model.Compare:
		return kw.expr(v.Left) + " " + string(v.Op) + " " + kw.expr(v.Right)
	case model.And:
		return kw.boolOperand(v.Left, true) + " && " + kw.boolOperand(v.Right, true)
	case model.Or:
		return kw.boolOperand(v.Left, false) + " || " + kw.boolOperand(v.Right, false)
	case model.Ternary:
		return "if (" + kw.expr(v.Cond) + ") " + kw.expr(v.Then) + " else " + kw.expr(v.Else)
	case model.SwitchExpr:
		return kw.switchExpr(v)
	default:
		kw.fail(&UnsupportedConstructError{Construct: fmt.Sprintf("expression %T", e), Declaration: kw.scope.declaration()})
		return ""
	}
}

func (kw *KotlinWriter) boolOperand(e model.Expr, parentIsAnd bool) string {
	s := kw.expr(e)
	if _, isOr := e.(model.Or); isOr && parentIsAnd {
		return "(" + s + ")"
	}
	return s
}

func (kw *KotlinWriter) staticOwner(t model.TypeDef) string {
	if c, ok := t.(model.ClassType); ok {
		return kotlinClassName(c)
	}
	return kotlinType(t)
}

func (kw *KotlinWriter) args(args []model.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = kw.expr(a)
	}
	return strings.Join(parts, ", ")
}

func (kw *KotlinWriter) newArray(v model.NewArray) string {
	if prim, ok := v.Component.(model.PrimitiveType); ok {
		if name, known := kotlinPrimitiveArrays[prim.Name]; known {
			return name + "(" + kw.expr(v.Size) + ")"
		}
	}
	return "arrayOfNulls<" + kotlinType(v.Component) + ">(" + kw.expr(v.Size) + ")"
}

func (kw *KotlinWriter) switchExpr(v model.SwitchExpr) string {
	var sb strings.Builder
	sb.WriteString("when (" + kw.expr(v.Target) + ") {\n")
	arm := func(label string, c model.SwitchCase) {
		pad := strings.Repeat("    ", kw.indent+1)
		if len(c.Body) == 0 {
			sb.WriteString(pad + label + " -> " + kw.expr(c.Yield) + "\n")
			return
		}
		sb.WriteString(pad + label + " -> {\n")
		sub := &KotlinWriter{def: kw.def, scope: kw.scope}
		sub.indent = kw.indent + 2
		sub.writeStmts(c.Body)
		sub.line(sub.expr(c.Yield))
		if sub.err != nil {
			kw.fail(sub.err)
		}
		sb.WriteString(sub.sb.String())
		sb.WriteString(pad + "}\n")
	}
	for _, c := range v.Cases {
		arm(kw.constant(c.Match), c)
	}
	if v.Default != nil {
		arm("else", *v.Default)
	}
	sb.WriteString(strings.Repeat("    ", kw.indent) + "}")
	return sb.String()
}

func (kw *KotlinWriter) constant(c model.Constant) string {
	if prim, ok := c.Type.(model.PrimitiveType); ok {
		switch prim.Name {
		case "boolean":
			if b, ok := c.Value.(bool); ok {
				return strconv.FormatBool(b)
			}
		case "char":
			if r, ok := c.Value.(rune); ok {
				return strconv.QuoteRune(r)
			}
		case "long":
			if n, ok := integerValue(c.Value); ok {
				return fmt.Sprintf("%dL", n)
			}
		case "float":
			if f, ok := floatValue(c.Value); ok {
				return fmt.Sprintf("%vf", f)
			}
		case "double":
			if f, ok := floatValue(c.Value); ok {
				if f == float64(int64(f)) {
					return fmt.Sprintf("%.1f", f)
				}
				return fmt.Sprintf("%v", f)
			}
		default:
			if n, ok := integerValue(c.Value); ok {
				return strconv.FormatInt(n, 10)
			}
		}
		kw.fail(&UnsupportedConstructError{
			Construct:   fmt.Sprintf("%s constant with %T value", prim.Name, c.Value),
			Declaration: kw.scope.declaration(),
		})
		return ""
	}
	return kw.referenceConstant(c.Value)
}

func (kw *KotlinWriter) referenceConstant(v any) string {
	switch value := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(value)
	case model.ClassType:
		return kotlinClassName(value) + "::class"
	case model.EnumConstant:
		return kotlinClassName(value.Type) + "." + value.Name
	case []any:
		parts := make([]string, len(value))
		for i, elem := range value {
			parts[i] = kw.referenceConstant(elem)
		}
		return "arrayOf(" + strings.Join(parts, ", ") + ")"
	case bool:
		return strconv.FormatBool(value)
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", value)
	case float32:
		return fmt.Sprintf("%vf", value)
	case float64:
		return fmt.Sprintf("%v", value)
	default:
		kw.fail(&UnsupportedConstructError{Construct: fmt.Sprintf("constant %T", v), Declaration: kw.scope.declaration()})
		return ""
	}
}

func (kw *KotlinWriter) annotation(a model.Annotation) string {
	s := "@" + a.Type.String()
	if len(a.Members) == 0 {
		return s
	}
	parts := make([]string, len(a.Members))
	for i, m := range a.Members {
		parts[i] = m.Name + " = " + kw.referenceConstant(m.Value)
	}
	return s + "(" + strings.Join(parts, ", ") + ")"
}
