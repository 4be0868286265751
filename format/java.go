package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/sourcegen/model"
)

// JavaWriter renders an object definition as a Java compilation unit.
// Types are written fully qualified; no import section is generated.
type JavaWriter struct {
	emitter
	def   model.ObjectDef
	scope *paramScope
}

func NewJavaWriter(w io.Writer) *JavaWriter {
	return &JavaWriter{emitter: emitter{out: w}}
}

func (jw *JavaWriter) Write(def model.ObjectDef) error {
	jw.sb.Reset()
	jw.err = nil
	jw.indent = 0
	jw.def = def
	jw.scope = nil

	if pkg := def.PackageName(); pkg != "" {
		jw.linef("package %s;", pkg)
		jw.blank()
	}
	jw.writeJavadoc(def.Javadoc(), jw.paramDocs())
	for _, a := range def.Annotations() {
		jw.line(jw.annotation(a))
	}

	switch d := def.(type) {
	case *model.ClassDef:
		jw.writeClass(d)
	case *model.InterfaceDef:
		jw.writeInterface(d)
	case *model.RecordDef:
		jw.writeRecord(d)
	case *model.EnumDef:
		jw.writeEnum(d)
	default:
		jw.fail(&UnsupportedConstructError{Construct: fmt.Sprintf("definition %T", def)})
	}
	return jw.flush()
}

// paramDocs yields @param entries for documented record components, in
// declaration order.
func (jw *JavaWriter) paramDocs() []string {
	if _, ok := jw.def.(*model.RecordDef); !ok {
		return nil
	}
	var docs []string
	for _, p := range jw.def.Properties() {
		if len(p.Javadoc) > 0 {
			docs = append(docs, p.Name+" "+strings.Join(p.Javadoc, " "))
		}
	}
	return docs
}

func (jw *JavaWriter) writeJavadoc(lines, params []string) {
	if len(lines) == 0 && len(params) == 0 {
		return
	}
	jw.line("/**")
	for _, l := range lines {
		jw.line(" * " + l)
	}
	if len(lines) > 0 && len(params) > 0 {
		jw.line(" *")
	}
	for _, p := range params {
		jw.line(" * @param " + p)
	}
	jw.line(" */")
}

func (jw *JavaWriter) modifierPrefix(m model.Modifiers) string {
	if s := m.String(); s != "" {
		return s + " "
	}
	return ""
}

func (jw *JavaWriter) typeVariables(vars []model.TypeVariable) string {
	if len(vars) == 0 {
		return ""
	}
	parts := make([]string, len(vars))
	for i, tv := range vars {
		if len(tv.Bounds) == 0 {
			parts[i] = tv.Name
			continue
		}
		bounds := make([]string, len(tv.Bounds))
		for j, b := range tv.Bounds {
			bounds[j] = b.String()
		}
		parts[i] = tv.Name + " extends " + strings.Join(bounds, " & ")
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (jw *JavaWriter) interfaceClause(keyword string, interfaces []model.TypeDef) string {
	if len(interfaces) == 0 {
		return ""
	}
	names := make([]string, len(interfaces))
	for i, t := range interfaces {
		names[i] = t.String()
	}
	return " " + keyword + " " + strings.Join(names, ", ")
}

func (jw *JavaWriter) writeClass(def *model.ClassDef) {
	header := jw.modifierPrefix(def.Modifiers()) + "class " + def.SimpleName() + jw.typeVariables(def.TypeVariables())
	if def.Superclass() != nil {
		header += " extends " + def.Superclass().String()
	}
	header += jw.interfaceClause("implements", def.Interfaces())
	jw.line(header + " {")
	jw.indent++

	for _, f := range def.Fields() {
		jw.blank()
		jw.writeField(f)
	}
	for _, p := range def.Properties() {
		jw.blank()
		jw.writeJavadoc(p.Javadoc, nil)
		for _, a := range p.Annotations {
			jw.line(jw.annotation(a))
		}
		jw.linef("private %s %s;", p.Type, p.Name)
	}
	for _, p := range def.Properties() {
		jw.writePropertyAccessors(p)
	}
	for i := range def.Methods() {
		jw.blank()
		jw.writeMethod(def.Methods()[i], false)
	}

	jw.indent--
	jw.line("}")
}

func (jw *JavaWriter) writeInterface(def *model.InterfaceDef) {
	header := jw.modifierPrefix(def.Modifiers()) + "interface " + def.SimpleName() + jw.typeVariables(def.TypeVariables())
	header += jw.interfaceClause("extends", def.Interfaces())
	jw.line(header + " {")
	jw.indent++
	for i := range def.Methods() {
		jw.blank()
		jw.writeMethod(def.Methods()[i], true)
	}
	jw.indent--
	jw.line("}")
}

func (jw *JavaWriter) writeRecord(def *model.RecordDef) {
	components := make([]string, len(def.Properties()))
	for i, p := range def.Properties() {
		var parts []string
		for _, a := range p.Annotations {
			parts = append(parts, jw.annotation(a))
		}
		parts = append(parts, p.Type.String(), p.Name)
		components[i] = strings.Join(parts, " ")
	}
	header := jw.modifierPrefix(def.Modifiers()) + "record " + def.SimpleName() +
		"(" + strings.Join(components, ", ") + ")" +
		jw.interfaceClause("implements", def.Interfaces())

	if len(def.Methods()) == 0 {
		jw.line(header + " {}")
		return
	}
	jw.line(header + " {")
	jw.indent++
	for i := range def.Methods() {
		jw.blank()
		jw.writeMethod(def.Methods()[i], false)
	}
	jw.indent--
	jw.line("}")
}

func (jw *JavaWriter) writeEnum(def *model.EnumDef) {
	header := jw.modifierPrefix(def.Modifiers()) + "enum " + def.SimpleName() + jw.interfaceClause("implements", def.Interfaces())
	jw.line(header + " {")
	jw.indent++

	constants := strings.Join(def.Constants(), ", ")
	if len(def.Methods()) > 0 || len(def.Properties()) > 0 {
		jw.line(constants + ";")
	} else {
		jw.line(constants)
	}
	for _, p := range def.Properties() {
		jw.blank()
		jw.linef("private %s %s;", p.Type, p.Name)
	}
	for _, p := range def.Properties() {
		jw.writePropertyAccessors(p)
	}
	for i := range def.Methods() {
		jw.blank()
		jw.writeMethod(def.Methods()[i], false)
	}

	jw.indent--
	jw.line("}")
}

func (jw *JavaWriter) writeField(f model.FieldDef) {
	jw.writeJavadoc(f.Javadoc, nil)
	for _, a := range f.Annotations {
		jw.line(jw.annotation(a))
	}
	jw.linef("%s%s %s;", jw.modifierPrefix(f.Modifiers), f.Type, f.Name)
}

func (jw *JavaWriter) writePropertyAccessors(p model.PropertyDef) {
	jw.blank()
	jw.linef("public %s %s() {", p.Type, p.GetterName())
	jw.indent++
	jw.linef("return this.%s;", p.Name)
	jw.indent--
	jw.line("}")

	jw.blank()
	jw.linef("public void %s(%s %s) {", p.SetterName(), p.Type, p.Name)
	jw.indent++
	jw.linef("this.%s = %s;", p.Name, p.Name)
	jw.indent--
	jw.line("}")
}

func (jw *JavaWriter) writeMethod(m model.MethodDef, inInterface bool) {
	jw.writeJavadoc(m.Javadoc, nil)
	for _, a := range m.Annotations {
		jw.line(jw.annotation(a))
	}

	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		var parts []string
		for _, a := range p.Annotations {
			parts = append(parts, jw.annotation(a))
		}
		parts = append(parts, p.Type.String(), p.Name)
		params[i] = strings.Join(parts, " ")
	}
	returns := "void"
	if m.Returns != nil {
		returns = m.Returns.String()
	}
	header := fmt.Sprintf("%s%s %s(%s)", jw.modifierPrefix(m.Modifiers), returns, m.Name, strings.Join(params, ", "))

	abstract := m.Modifiers.IsAbstract() ||
		(inInterface && len(m.Body) == 0 && !m.Modifiers.IsStatic() && !m.Modifiers.IsDefault())
	if abstract {
		jw.line(header + ";")
		return
	}

	jw.scope = newParamScope(jw.def, &m)
	jw.line(header + " {")
	jw.indent++
	jw.writeStmts(m.Body)
	jw.indent--
	jw.line("}")
	jw.scope = nil
}

func (jw *JavaWriter) writeStmts(stmts []model.Stmt) {
	for _, s := range stmts {
		jw.writeStmt(s)
	}
}

func (jw *JavaWriter) writeStmt(s model.Stmt) {
	switch v := s.(type) {
	case model.Block:
		jw.line("{")
		jw.indent++
		jw.writeStmts(v.Stmts)
		jw.indent--
		jw.line("}")
	case model.If:
		jw.linef("if (%s) {", jw.expr(v.Cond))
		jw.indent++
		jw.writeStmts(v.Then)
		jw.indent--
		jw.line("}")
	case model.IfElse:
		jw.linef("if (%s) {", jw.expr(v.Cond))
		jw.indent++
		jw.writeStmts(v.Then)
		jw.indent--
		jw.line("} else {")
		jw.indent++
		jw.writeStmts(v.Else)
		jw.indent--
		jw.line("}")
	case model.While:
		jw.linef("while (%s) {", jw.expr(v.Cond))
		jw.indent++
		jw.writeStmts(v.Body)
		jw.indent--
		jw.line("}")
	case model.Return:
		if v.Value == nil {
			jw.line("return;")
		} else {
			jw.linef("return %s;", jw.expr(v.Value))
		}
	case model.Assign:
		jw.linef("%s = %s;", jw.expr(v.Target), jw.expr(v.Value))
	case model.Declare:
		jw.linef("%s %s = %s;", v.Type, v.Name, jw.expr(v.Value))
		jw.scope.declare(v.Name, v.Type)
	case model.SwitchStmt:
		jw.linef("switch (%s) {", jw.expr(v.Target))
		jw.indent++
		for _, c := range v.Cases {
			jw.linef("case %s:", jw.constant(c.Match))
			jw.indent++
			jw.writeStmts(c.Body)
			if !endsWithReturn(c.Body) {
				jw.line("break;")
			}
			jw.indent--
		}
		if v.Default != nil {
			jw.line("default:")
			jw.indent++
			jw.writeStmts(v.Default)
			jw.indent--
		}
		jw.indent--
		jw.line("}")
	default:
		jw.fail(&UnsupportedConstructError{Construct: fmt.Sprintf("statement %T", s), Declaration: jw.scope.declaration()})
	}
}

func endsWithReturn(stmts []model.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	_, ok := stmts[len(stmts)-1].(model.Return)
	return ok
}

func (jw *JavaWriter) expr(e model.Expr) string {
	switch v := e.(type) {
	case model.Constant:
		return jw.constant(v)
	case model.ParamRef:
		if _, err := jw.scope.param(v.Name); err != nil {
			jw.fail(err)
			return v.Name
		}
		return v.Name
	case model.LocalRef:
		return v.Name
	case model.This:
		return "this"
	case model.FieldRef:
		return jw.expr(v.Instance) + "." + v.Name
	case model.StaticFieldRef:
		return v.Owner.String() + "." + v.Name
	case model.NewInstance:
		return "new " + v.Type.String() + "(" + jw.args(v.Args) + ")"
	case model.CallMethod:
		return jw.expr(v.Instance) + "." + v.Name + "(" + jw.args(v.Args) + ")"
	case model.CallStatic:
		return v.Owner.String() + "." + v.Name + "(" + jw.args(v.Args) + ")"
	case model.NewArray:
		return jw.newArray(v)
	case model.ArrayLiteral:
		elements := make([]string, len(v.Elements))
		for i, elem := range v.Elements {
			elements[i] = jw.expr(elem)
		}
		return "new " + v.Component.String() + "[] {" + strings.Join(elements, ", ") + "}"
	case model.Cast:
		return "((" + v.Target.String() + ") " + jw.expr(v.Value) + ")"
	case model.Convert:
		// boxing conversions are implicit in source form
		return jw.expr(v.Value)
	case model.IsNull:
		return jw.expr(v.Value) + " == null"
	case model.IsNotNull:
		return jw.expr(v.Value) + " != null"
	case model.Compare:
		return jw.expr(v.Left) + " " + string(v.Op) + " " + jw.expr(v.Right)
	case model.And:
		return jw.boolOperand(v.Left, true) + " && " + jw.boolOperand(v.Right, true)
	case model.Or:
		return jw.boolOperand(v.Left, false) + " || " + jw.boolOperand(v.Right, false)
	case model.Ternary:
		return jw.expr(v.Cond) + " ? " + jw.expr(v.Then) + " : " + jw.expr(v.Else)
	case model.SwitchExpr:
		return jw.switchExpr(v)
	default:
		jw.fail(&UnsupportedConstructError{Construct: fmt.Sprintf("expression %T", e), Declaration: jw.scope.declaration()})
		return ""
	}
}

// boolOperand parenthesizes an operand whose operator binds looser than
// its parent: Or inside And.
func (jw *JavaWriter) boolOperand(e model.Expr, parentIsAnd bool) string {
	s := jw.expr(e)
	if _, isOr := e.(model.Or); isOr && parentIsAnd {
		return "(" + s + ")"
	}
	return s
}

func (jw *JavaWriter) args(args []model.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = jw.expr(a)
	}
	return strings.Join(parts, ", ")
}

func (jw *JavaWriter) newArray(v model.NewArray) string {
	base := v.Component
	extra := 0
	if at, ok := v.Component.(model.ArrayType); ok {
		base = at.Component
		extra = at.Dimensions
	}
	return "new " + base.String() + "[" + jw.expr(v.Size) + "]" + strings.Repeat("[]", extra)
}

func (jw *JavaWriter) switchExpr(v model.SwitchExpr) string {
	var sb strings.Builder
	sb.WriteString("switch (" + jw.expr(v.Target) + ") {\n")
	arm := func(labels string, c model.SwitchCase) {
		pad := strings.Repeat("    ", jw.indent+1)
		if len(c.Body) == 0 {
			sb.WriteString(pad + labels + " -> " + jw.expr(c.Yield) + ";\n")
			return
		}
		sb.WriteString(pad + labels + " -> {\n")
		sub := &JavaWriter{def: jw.def, scope: jw.scope}
		sub.indent = jw.indent + 2
		sub.writeStmts(c.Body)
		sub.linef("yield %s;", sub.expr(c.Yield))
		if sub.err != nil {
			jw.fail(sub.err)
		}
		sb.WriteString(sub.sb.String())
		sb.WriteString(pad + "}\n")
	}
	for _, c := range v.Cases {
		arm("case "+jw.constant(c.Match), c)
	}
	if v.Default != nil {
		arm("default", *v.Default)
	}
	sb.WriteString(strings.Repeat("    ", jw.indent) + "}")
	return sb.String()
}

func (jw *JavaWriter) constant(c model.Constant) string {
	if prim, ok := c.Type.(model.PrimitiveType); ok {
		switch prim.Name {
		case "boolean":
			if b, ok := c.Value.(bool); ok {
				return strconv.FormatBool(b)
			}
		case "char":
			switch r := c.Value.(type) {
			case rune:
				return strconv.QuoteRune(r)
			case string:
				if len(r) > 0 {
					return strconv.QuoteRune([]rune(r)[0])
				}
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
		jw.fail(&UnsupportedConstructError{
			Construct:   fmt.Sprintf("%s constant with %T value", prim.Name, c.Value),
			Declaration: jw.scope.declaration(),
		})
		return ""
	}
	return jw.referenceConstant(c.Value)
}

func (jw *JavaWriter) referenceConstant(v any) string {
	switch value := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(value)
	case model.ClassType:
		return value.String() + ".class"
	case model.EnumConstant:
		return value.Type.String() + "." + value.Name
	case []any:
		parts := make([]string, len(value))
		for i, elem := range value {
			parts[i] = jw.referenceConstant(elem)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case bool:
		return strconv.FormatBool(value)
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", value)
	case float32:
		return fmt.Sprintf("%vf", value)
	case float64:
		return fmt.Sprintf("%v", value)
	default:
		jw.fail(&UnsupportedConstructError{Construct: fmt.Sprintf("constant %T", v), Declaration: jw.scope.declaration()})
		return ""
	}
}

func (jw *JavaWriter) annotation(a model.Annotation) string {
	s := "@" + a.Type.String()
	if len(a.Members) == 0 {
		return s
	}
	parts := make([]string, len(a.Members))
	for i, m := range a.Members {
		parts[i] = m.Name + " = " + jw.referenceConstant(m.Value)
	}
	return s + "(" + strings.Join(parts, ", ") + ")"
}
