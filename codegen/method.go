package codegen

import (
	"fmt"

	"github.com/dhamidi/sourcegen/classfile"
	"github.com/dhamidi/sourcegen/model"
)

type localVar struct {
	slot int
	typ  model.TypeDef
}

// methodGen lowers one method body. A fresh instance (and a fresh label
// context) is created per method; nothing is shared across methods.
type methodGen struct {
	a        *asm
	def      model.ObjectDef
	method   *model.MethodDef
	params   map[string]localVar
	locals   map[string]localVar
	declared []string
	static   bool
}

func newMethodGen(pool *classfile.PoolBuilder, def model.ObjectDef, m *model.MethodDef) (*methodGen, error) {
	g := &methodGen{
		a:      newAsm(pool),
		def:    def,
		method: m,
		params: make(map[string]localVar),
		locals: make(map[string]localVar),
		static: m.Modifiers.IsStatic(),
	}
	if !g.static {
		vt, err := g.a.verificationTypeOf(selfType(def))
		if err != nil {
			return nil, err
		}
		g.a.allocLocal(vt)
	}
	for _, p := range m.Params {
		vt, err := g.a.verificationTypeOf(p.Type)
		if err != nil {
			return nil, err
		}
		slot := g.a.allocLocal(vt)
		g.params[p.Name] = localVar{slot: slot, typ: p.Type}
	}
	return g, nil
}

// selfType is the enclosing type as seen from inside its own bodies; the
// definition's own type variables resolve against themselves here.
func selfType(def model.ObjectDef) model.TypeDef {
	return model.ClassType{Package: def.PackageName(), Name: def.SimpleName()}
}

func (g *methodGen) decl() string {
	return g.def.QualifiedName() + "." + g.method.Name
}

func (g *methodGen) failUnsupported(kind string, node any) error {
	return &UnsupportedConstructError{
		Construct:   fmt.Sprintf("%s %T", kind, node),
		Declaration: g.decl(),
	}
}

// typeOf computes the static type of an expression, which drives
// instruction selection and descriptor computation.
func (g *methodGen) typeOf(e model.Expr) (model.TypeDef, error) {
	switch v := e.(type) {
	case model.Constant:
		return v.Type, nil
	case model.ParamRef:
		p, ok := g.params[v.Name]
		if !ok {
			return nil, &UnresolvedReferenceError{Kind: "parameter", Name: v.Name, Declaration: g.decl()}
		}
		return p.typ, nil
	case model.LocalRef:
		if local, ok := g.locals[v.Name]; ok {
			return local.typ, nil
		}
		if v.Type != nil {
			return v.Type, nil
		}
		return nil, &UnresolvedReferenceError{Kind: "local", Name: v.Name, Declaration: g.decl()}
	case model.FieldRef:
		return v.Type, nil
	case model.StaticFieldRef:
		return v.Type, nil
	case model.This:
		return selfType(g.def), nil
	case model.NewInstance:
		return v.Type, nil
	case model.CallMethod:
		return v.Returns, nil
	case model.CallStatic:
		return v.Returns, nil
	case model.NewArray:
		return model.ArrayType{Component: v.Component, Dimensions: 1}, nil
	case model.ArrayLiteral:
		return model.ArrayType{Component: v.Component, Dimensions: 1}, nil
	case model.Cast:
		return v.Target, nil
	case model.Convert:
		return v.Target, nil
	case model.IsNull, model.IsNotNull, model.Compare, model.And, model.Or:
		return model.TypeBoolean, nil
	case model.Ternary:
		return g.typeOf(v.Then)
	case model.SwitchExpr:
		return v.Type, nil
	default:
		return nil, g.failUnsupported("expression", e)
	}
}

// emitExpr lowers an expression in rvalue position: exactly one value is
// on the operand stack afterwards.
func (g *methodGen) emitExpr(e model.Expr) error {
	switch v := e.(type) {
	case model.Constant:
		return g.emitConstant(v)

	case model.ParamRef:
		p, ok := g.params[v.Name]
		if !ok {
			return &UnresolvedReferenceError{Kind: "parameter", Name: v.Name, Declaration: g.decl()}
		}
		return g.emitLoad(p)

	case model.LocalRef:
		local, ok := g.locals[v.Name]
		if !ok {
			return &UnresolvedReferenceError{Kind: "local", Name: v.Name, Declaration: g.decl()}
		}
		return g.emitLoad(local)

	case model.This:
		if g.static {
			return fmt.Errorf("%s: `this` referenced in a static context", g.decl())
		}
		return g.emitLoad(localVar{slot: 0, typ: selfType(g.def)})

	case model.FieldRef:
		instanceType, err := g.typeOf(v.Instance)
		if err != nil {
			return err
		}
		if err := g.emitExpr(v.Instance); err != nil {
			return err
		}
		owner, err := internalNameOf(instanceType)
		if err != nil {
			return err
		}
		desc, err := descriptorOf(v.Type)
		if err != nil {
			return err
		}
		g.a.pop()
		g.a.emit(classfile.OpGetfield)
		g.a.emitU2(g.a.pool.Fieldref(owner, v.Name, desc))
		return g.pushValue(v.Type)

	case model.StaticFieldRef:
		owner, err := internalNameOf(v.Owner)
		if err != nil {
			return err
		}
		desc, err := descriptorOf(v.Type)
		if err != nil {
			return err
		}
		g.a.emit(classfile.OpGetstatic)
		g.a.emitU2(g.a.pool.Fieldref(owner, v.Name, desc))
		return g.pushValue(v.Type)

	case model.NewInstance:
		internal := v.Type.Internal()
		g.a.emit(classfile.OpNew)
		g.a.emitU2(g.a.pool.Class(internal))
		if err := g.pushValue(v.Type); err != nil {
			return err
		}
		g.a.emit(classfile.OpDup)
		g.a.push(g.a.stack[len(g.a.stack)-1])
		argTypes, err := g.emitArgs(v.Args)
		if err != nil {
			return err
		}
		desc, err := methodDescriptorOfTypes(argTypes, model.TypeVoid)
		if err != nil {
			return err
		}
		for range v.Args {
			g.a.pop()
		}
		g.a.pop() // dup'd receiver consumed by <init>
		g.a.emit(classfile.OpInvokespecial)
		g.a.emitU2(g.a.pool.Methodref(internal, "<init>", desc))
		return nil

	case model.CallMethod:
		instanceType, err := g.typeOf(v.Instance)
		if err != nil {
			return err
		}
		if err := g.emitExpr(v.Instance); err != nil {
			return err
		}
		owner, err := internalNameOf(instanceType)
		if err != nil {
			return err
		}
		argTypes, err := g.emitArgs(v.Args)
		if err != nil {
			return err
		}
		desc, err := methodDescriptorOfTypes(argTypes, v.Returns)
		if err != nil {
			return err
		}
		for range v.Args {
			g.a.pop()
		}
		g.a.pop()
		g.a.emit(classfile.OpInvokevirtual)
		g.a.emitU2(g.a.pool.Methodref(owner, v.Name, desc))
		return g.pushReturn(v.Returns)

	case model.CallStatic:
		owner, err := internalNameOf(v.Owner)
		if err != nil {
			return err
		}
		argTypes, err := g.emitArgs(v.Args)
		if err != nil {
			return err
		}
		desc, err := methodDescriptorOfTypes(argTypes, v.Returns)
		if err != nil {
			return err
		}
		for range v.Args {
			g.a.pop()
		}
		g.a.emit(classfile.OpInvokestatic)
		g.a.emitU2(g.a.pool.Methodref(owner, v.Name, desc))
		return g.pushReturn(v.Returns)

	case model.NewArray:
		if err := g.emitExpr(v.Size); err != nil {
			return err
		}
		g.a.pop()
		if err := g.emitNewArray(v.Component); err != nil {
			return err
		}
		return g.pushValue(model.ArrayType{Component: v.Component, Dimensions: 1})

	case model.ArrayLiteral:
		g.emitIntConst(int64(len(v.Elements)))
		g.a.pop()
		if err := g.emitNewArray(v.Component); err != nil {
			return err
		}
		if err := g.pushValue(model.ArrayType{Component: v.Component, Dimensions: 1}); err != nil {
			return err
		}
		// elements store in declaration order so side effects observe
		// left-to-right evaluation
		for i, elem := range v.Elements {
			g.a.emit(classfile.OpDup)
			g.a.push(g.a.stack[len(g.a.stack)-1])
			g.emitIntConst(int64(i))
			if err := g.emitExpr(elem); err != nil {
				return err
			}
			g.a.pop()
			g.a.pop()
			g.a.pop()
			g.a.emit(arrayStoreOpcode(v.Component))
		}
		return nil

	case model.Cast:
		sourceType, err := g.typeOf(v.Value)
		if err != nil {
			return err
		}
		if err := g.emitExpr(v.Value); err != nil {
			return err
		}
		if model.Equal(sourceType, v.Target) {
			return nil
		}
		if _, prim := v.Target.(model.PrimitiveType); prim {
			return g.failUnsupported("primitive cast", e)
		}
		internal, err := internalNameOf(v.Target)
		if err != nil {
			return err
		}
		g.a.pop()
		g.a.emit(classfile.OpCheckcast)
		g.a.emitU2(g.a.pool.Class(internal))
		return g.pushValue(v.Target)

	case model.Convert:
		return g.emitConvert(v)

	case model.IsNull, model.IsNotNull, model.Compare, model.And, model.Or:
		return g.emitBoolValue(e)

	case model.Ternary:
		elseLabel := g.a.newLabel()
		end := g.a.newLabel()
		if err := g.branchFalse(v.Cond, elseLabel); err != nil {
			return err
		}
		if err := g.emitExpr(v.Then); err != nil {
			return err
		}
		g.a.jump(end)
		g.a.mark(elseLabel)
		if err := g.emitExpr(v.Else); err != nil {
			return err
		}
		g.a.mark(end)
		return nil

	case model.SwitchExpr:
		return g.emitSwitchExpr(v)

	default:
		return g.failUnsupported("expression", e)
	}
}

// emitArgs lowers call arguments left to right and reports their static
// types for descriptor computation.
func (g *methodGen) emitArgs(args []model.Expr) ([]model.TypeDef, error) {
	types := make([]model.TypeDef, len(args))
	for i, arg := range args {
		t, err := g.typeOf(arg)
		if err != nil {
			return nil, err
		}
		types[i] = t
		if err := g.emitExpr(arg); err != nil {
			return nil, err
		}
	}
	return types, nil
}

func methodDescriptorOfTypes(params []model.TypeDef, returns model.TypeDef) (string, error) {
	defs := make([]model.ParamDef, len(params))
	for i, t := range params {
		defs[i] = model.ParamDef{Type: t}
	}
	return methodDescriptorOf(defs, returns)
}

func (g *methodGen) pushValue(t model.TypeDef) error {
	vt, err := g.a.verificationTypeOf(t)
	if err != nil {
		return err
	}
	g.a.push(vt)
	return nil
}

func (g *methodGen) pushReturn(t model.TypeDef) error {
	if t == nil || model.Equal(t, model.TypeVoid) {
		return nil
	}
	return g.pushValue(t)
}

func (g *methodGen) emitLoad(v localVar) error {
	if v.slot > 255 {
		return fmt.Errorf("%s: local variable slot %d exceeds the single-byte instruction range", g.decl(), v.slot)
	}
	g.a.emit(loadOpcode(v.typ), byte(v.slot))
	return g.pushValue(v.typ)
}

func (g *methodGen) emitStore(v localVar) error {
	if v.slot > 255 {
		return fmt.Errorf("%s: local variable slot %d exceeds the single-byte instruction range", g.decl(), v.slot)
	}
	g.a.pop()
	g.a.emit(storeOpcode(v.typ), byte(v.slot))
	return nil
}

func (g *methodGen) emitNewArray(component model.TypeDef) error {
	if p, ok := component.(model.PrimitiveType); ok {
		var code byte
		switch p.Name {
		case "boolean":
			code = classfile.ArrayTypeBoolean
		case "char":
			code = classfile.ArrayTypeChar
		case "float":
			code = classfile.ArrayTypeFloat
		case "double":
			code = classfile.ArrayTypeDouble
		case "byte":
			code = classfile.ArrayTypeByte
		case "short":
			code = classfile.ArrayTypeShort
		case "int":
			code = classfile.ArrayTypeInt
		case "long":
			code = classfile.ArrayTypeLong
		default:
			return fmt.Errorf("%s: cannot allocate array of %s", g.decl(), p.Name)
		}
		g.a.emit(classfile.OpNewarray, code)
		return nil
	}
	internal, err := internalNameOf(component)
	if err != nil {
		return err
	}
	g.a.emit(classfile.OpAnewarray)
	g.a.emitU2(g.a.pool.Class(internal))
	return nil
}

// emitConvert handles boxing and unboxing through the shared
// primitive/wrapper table. Reference-to-reference conversions adjust
// nullability only and emit nothing.
func (g *methodGen) emitConvert(v model.Convert) error {
	sourceType, err := g.typeOf(v.Value)
	if err != nil {
		return err
	}
	if err := g.emitExpr(v.Value); err != nil {
		return err
	}

	if prim, ok := sourceType.(model.PrimitiveType); ok {
		target, isClass := v.Target.(model.ClassType)
		if !isClass {
			if model.Equal(sourceType, v.Target) {
				return nil
			}
			return g.failUnsupported("conversion", v)
		}
		boxed := prim.Boxed()
		if target.Name != boxed.Name && !model.Equal(target, model.TypeObject) {
			return g.failUnsupported("conversion", v)
		}
		desc, err := descriptorOf(prim)
		if err != nil {
			return err
		}
		g.a.pop()
		g.a.emit(classfile.OpInvokestatic)
		g.a.emitU2(g.a.pool.Methodref(boxed.Internal(), "valueOf", "("+desc+")L"+boxed.Internal()+";"))
		return g.pushValue(boxed)
	}

	if target, ok := v.Target.(model.PrimitiveType); ok {
		source, isClass := sourceType.(model.ClassType)
		if !isClass {
			return g.failUnsupported("conversion", v)
		}
		prim, boxed := model.UnboxedOf(source)
		if !boxed || prim.Name != target.Name {
			return g.failUnsupported("conversion", v)
		}
		desc, err := descriptorOf(target)
		if err != nil {
			return err
		}
		g.a.pop()
		g.a.emit(classfile.OpInvokevirtual)
		g.a.emitU2(g.a.pool.Methodref(source.Internal(), target.Name+"Value", "()"+desc))
		return g.pushValue(target)
	}

	// reference to reference: nullability adjustment only
	return nil
}

func (g *methodGen) emitConstant(c model.Constant) error {
	switch t := c.Type.(type) {
	case model.PrimitiveType:
		switch t.Name {
		case "boolean", "byte", "short", "char", "int":
			value, err := intValue(c.Value)
			if err != nil {
				return fmt.Errorf("%s: %w", g.decl(), err)
			}
			g.emitIntConst(value)
			return nil
		case "long":
			value, err := intValue(c.Value)
			if err != nil {
				return fmt.Errorf("%s: %w", g.decl(), err)
			}
			switch value {
			case 0:
				g.a.emit(classfile.OpLconst0)
			case 1:
				g.a.emit(classfile.OpLconst1)
			default:
				g.a.emit(classfile.OpLdc2W)
				g.a.emitU2(g.a.pool.Long(value))
			}
			g.a.push(classfile.VerificationType{Tag: classfile.VerificationLong})
			return nil
		case "float":
			value, err := floatValue(c.Value)
			if err != nil {
				return fmt.Errorf("%s: %w", g.decl(), err)
			}
			switch float32(value) {
			case 0:
				g.a.emit(classfile.OpFconst0)
			case 1:
				g.a.emit(classfile.OpFconst1)
			case 2:
				g.a.emit(classfile.OpFconst2)
			default:
				g.emitLdc(g.a.pool.Float(float32(value)))
			}
			g.a.push(classfile.VerificationType{Tag: classfile.VerificationFloat})
			return nil
		case "double":
			value, err := floatValue(c.Value)
			if err != nil {
				return fmt.Errorf("%s: %w", g.decl(), err)
			}
			switch value {
			case 0:
				g.a.emit(classfile.OpDconst0)
			case 1:
				g.a.emit(classfile.OpDconst1)
			default:
				g.a.emit(classfile.OpLdc2W)
				g.a.emitU2(g.a.pool.Double(value))
			}
			g.a.push(classfile.VerificationType{Tag: classfile.VerificationDouble})
			return nil
		default:
			return fmt.Errorf("%s: cannot emit constant of type %s", g.decl(), t.Name)
		}
	}

	switch value := c.Value.(type) {
	case nil:
		g.a.emit(classfile.OpAconstNull)
		g.a.push(classfile.VerificationType{Tag: classfile.VerificationNull})
		return nil
	case string:
		g.emitLdc(g.a.pool.String(value))
		return g.pushValue(model.TypeString)
	case model.ClassType:
		// class literal: a class-reference pool entry addressed by
		// internal name
		g.emitLdc(g.a.pool.Class(value.Internal()))
		return g.pushValue(model.ClassType{Package: "java.lang", Name: "Class"})
	case model.EnumConstant:
		desc, err := descriptorOf(value.Type)
		if err != nil {
			return err
		}
		g.a.emit(classfile.OpGetstatic)
		g.a.emitU2(g.a.pool.Fieldref(value.Type.Internal(), value.Name, desc))
		return g.pushValue(value.Type)
	}

	// a constant declared with a wrapper type pushes the primitive and
	// boxes it
	if class, ok := c.Type.(model.ClassType); ok {
		if prim, boxed := model.UnboxedOf(class); boxed {
			return g.emitConvert(model.Convert{
				Target: class,
				Value:  model.Constant{Type: prim, Value: c.Value},
			})
		}
	}
	return g.failUnsupported("constant", c.Value)
}

// emitIntConst pushes an int-kind constant using the narrowest applicable
// instruction, a correctness requirement of the binary format.
func (g *methodGen) emitIntConst(value int64) {
	switch {
	case value >= -1 && value <= 5:
		g.a.emit(byte(int(classfile.OpIconst0) + int(value)))
	case value >= -128 && value <= 127:
		g.a.emit(classfile.OpBipush, byte(int8(value)))
	case value >= -32768 && value <= 32767:
		g.a.emit(classfile.OpSipush)
		g.a.emitU2(uint16(int16(value)))
	default:
		g.emitLdc(g.a.pool.Integer(int32(value)))
	}
	g.a.push(classfile.VerificationType{Tag: classfile.VerificationInteger})
}

// emitLdc emits only the load instruction; the caller tracks the push.
func (g *methodGen) emitLdc(index uint16) {
	if index <= 255 {
		g.a.emit(classfile.OpLdc, byte(index))
	} else {
		g.a.emit(classfile.OpLdcW)
		g.a.emitU2(index)
	}
}

func intValue(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("constant value %v (%T) is not an integer kind", v, v)
	}
}

func floatValue(v any) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("constant value %v (%T) is not a float kind", v, v)
	}
}

// emitBoolValue materializes a structural condition as an int 0/1 on the
// stack, for boolean expressions used outside branch position.
func (g *methodGen) emitBoolValue(e model.Expr) error {
	falseLabel := g.a.newLabel()
	end := g.a.newLabel()
	if err := g.branchFalse(e, falseLabel); err != nil {
		return err
	}
	g.a.emit(classfile.OpIconst1)
	g.a.push(classfile.VerificationType{Tag: classfile.VerificationInteger})
	g.a.jump(end)
	g.a.mark(falseLabel)
	g.a.emit(classfile.OpIconst0)
	g.a.push(classfile.VerificationType{Tag: classfile.VerificationInteger})
	g.a.mark(end)
	return nil
}

func isIntKind(t model.TypeDef) bool {
	p, ok := t.(model.PrimitiveType)
	if !ok {
		return false
	}
	switch p.Name {
	case "boolean", "byte", "short", "char", "int":
		return true
	}
	return false
}

func isReference(t model.TypeDef) bool {
	switch t.(type) {
	case model.ClassType, model.ParameterizedType, model.ArrayType, model.TypeVariable:
		return true
	}
	return false
}

// branchFalse emits the boolean-producing form of a structural condition
// directly as a conditional branch taken when the condition is false.
// Opaque boolean subexpressions fall back to push-then-compare.
func (g *methodGen) branchFalse(cond model.Expr, target label) error {
	switch v := cond.(type) {
	case model.Compare:
		return g.emitCompareBranch(v, target, true)
	case model.IsNull:
		if err := g.emitExpr(v.Value); err != nil {
			return err
		}
		g.a.pop()
		g.a.branch(classfile.OpIfnonnull, target)
		return nil
	case model.IsNotNull:
		if err := g.emitExpr(v.Value); err != nil {
			return err
		}
		g.a.pop()
		g.a.branch(classfile.OpIfnull, target)
		return nil
	case model.And:
		if err := g.branchFalse(v.Left, target); err != nil {
			return err
		}
		return g.branchFalse(v.Right, target)
	case model.Or:
		ok := g.a.newLabel()
		if err := g.branchTrue(v.Left, ok); err != nil {
			return err
		}
		if err := g.branchFalse(v.Right, target); err != nil {
			return err
		}
		g.a.mark(ok)
		return nil
	default:
		if err := g.emitExpr(cond); err != nil {
			return err
		}
		g.a.pop()
		g.a.branch(classfile.OpIfeq, target)
		return nil
	}
}

func (g *methodGen) branchTrue(cond model.Expr, target label) error {
	switch v := cond.(type) {
	case model.Compare:
		return g.emitCompareBranch(v, target, false)
	case model.IsNull:
		if err := g.emitExpr(v.Value); err != nil {
			return err
		}
		g.a.pop()
		g.a.branch(classfile.OpIfnull, target)
		return nil
	case model.IsNotNull:
		if err := g.emitExpr(v.Value); err != nil {
			return err
		}
		g.a.pop()
		g.a.branch(classfile.OpIfnonnull, target)
		return nil
	case model.And:
		fail := g.a.newLabel()
		if err := g.branchFalse(v.Left, fail); err != nil {
			return err
		}
		if err := g.branchTrue(v.Right, target); err != nil {
			return err
		}
		g.a.mark(fail)
		return nil
	case model.Or:
		if err := g.branchTrue(v.Left, target); err != nil {
			return err
		}
		return g.branchTrue(v.Right, target)
	default:
		if err := g.emitExpr(cond); err != nil {
			return err
		}
		g.a.pop()
		g.a.branch(classfile.OpIfne, target)
		return nil
	}
}

// emitCompareBranch lowers a Compare node to a conditional branch.
// Inverted selects branch-on-false. Only equality operators have a binary
// lowering; relational operators fail fast rather than mis-lower.
func (g *methodGen) emitCompareBranch(cmp model.Compare, target label, inverted bool) error {
	switch cmp.Op {
	case model.OpEqual, model.OpNotEqual:
	default:
		return fmt.Errorf("%s: comparison operator %q is not yet implemented in the bytecode renderer", g.decl(), cmp.Op)
	}

	leftType, err := g.typeOf(cmp.Left)
	if err != nil {
		return err
	}
	if err := g.emitExpr(cmp.Left); err != nil {
		return err
	}
	if err := g.emitExpr(cmp.Right); err != nil {
		return err
	}
	g.a.pop()
	g.a.pop()

	wantEqual := cmp.Op == model.OpEqual
	if inverted {
		wantEqual = !wantEqual
	}

	switch {
	case isIntKind(leftType):
		if wantEqual {
			g.a.branch(classfile.OpIfIcmpeq, target)
		} else {
			g.a.branch(classfile.OpIfIcmpne, target)
		}
	case isReference(leftType):
		if wantEqual {
			g.a.branch(classfile.OpIfAcmpeq, target)
		} else {
			g.a.branch(classfile.OpIfAcmpne, target)
		}
	default:
		return fmt.Errorf("%s: comparison of %s values is not yet implemented in the bytecode renderer", g.decl(), leftType)
	}
	return nil
}

func (g *methodGen) emitSwitchExpr(sw model.SwitchExpr) error {
	if sw.Default == nil {
		return fmt.Errorf("%s: switch expression requires a default case", g.decl())
	}
	targetType, err := g.typeOf(sw.Target)
	if err != nil {
		return err
	}
	if err := g.emitExpr(sw.Target); err != nil {
		return err
	}
	vt, err := g.a.verificationTypeOf(targetType)
	if err != nil {
		return err
	}
	slot := g.a.allocLocal(vt)
	scrutinee := localVar{slot: slot, typ: targetType}
	if err := g.emitStore(scrutinee); err != nil {
		return err
	}

	end := g.a.newLabel()
	for _, c := range sw.Cases {
		next := g.a.newLabel()
		if err := g.emitCaseCompare(scrutinee, c.Match, next); err != nil {
			return err
		}
		err := g.scoped(func() error {
			if err := g.emitStmts(c.Body); err != nil {
				return err
			}
			return g.emitExpr(c.Yield)
		})
		if err != nil {
			return err
		}
		g.a.jump(end)
		g.a.mark(next)
	}
	err = g.scoped(func() error {
		if err := g.emitStmts(sw.Default.Body); err != nil {
			return err
		}
		return g.emitExpr(sw.Default.Yield)
	})
	if err != nil {
		return err
	}
	g.a.mark(end)
	return nil
}

// emitCaseCompare branches to next when the scrutinee does not match the
// case constant. String matches compare with equals; int kinds compare
// directly.
func (g *methodGen) emitCaseCompare(scrutinee localVar, match model.Constant, next label) error {
	if err := g.emitLoad(scrutinee); err != nil {
		return err
	}
	if err := g.emitConstant(match); err != nil {
		return err
	}
	switch {
	case isIntKind(scrutinee.typ):
		g.a.pop()
		g.a.pop()
		g.a.branch(classfile.OpIfIcmpne, next)
	case model.Equal(scrutinee.typ, model.TypeString):
		g.a.pop()
		g.a.pop()
		g.a.emit(classfile.OpInvokevirtual)
		g.a.emitU2(g.a.pool.Methodref("java/lang/String", "equals", "(Ljava/lang/Object;)Z"))
		g.a.push(classfile.VerificationType{Tag: classfile.VerificationInteger})
		g.a.pop()
		g.a.branch(classfile.OpIfeq, next)
	default:
		return fmt.Errorf("%s: switch on %s is not yet implemented in the bytecode renderer", g.decl(), scrutinee.typ)
	}
	return nil
}

func (g *methodGen) emitStmts(stmts []model.Stmt) error {
	for _, s := range stmts {
		if err := g.emitStmt(s); err != nil {
			return err
		}
	}
	return nil
}

// scoped runs f in its own local-variable scope. Locals declared inside
// go out of scope when f returns, so merge frames recorded at a join
// point only list locals defined on every path into it.
func (g *methodGen) scoped(f func() error) error {
	mark := g.a.enterScope()
	names := len(g.declared)
	err := f()
	for _, name := range g.declared[names:] {
		delete(g.locals, name)
	}
	g.declared = g.declared[:names]
	g.a.exitScope(mark)
	return err
}

func (g *methodGen) emitScoped(stmts []model.Stmt) error {
	return g.scoped(func() error { return g.emitStmts(stmts) })
}

func (g *methodGen) emitStmt(s model.Stmt) error {
	switch v := s.(type) {
	case model.Block:
		return g.emitStmts(v.Stmts)

	case model.If:
		end := g.a.newLabel()
		if err := g.branchFalse(v.Cond, end); err != nil {
			return err
		}
		if err := g.emitScoped(v.Then); err != nil {
			return err
		}
		g.a.mark(end)
		return nil

	case model.IfElse:
		elseLabel := g.a.newLabel()
		end := g.a.newLabel()
		if err := g.branchFalse(v.Cond, elseLabel); err != nil {
			return err
		}
		if err := g.emitScoped(v.Then); err != nil {
			return err
		}
		if g.a.alive {
			g.a.jump(end)
		}
		g.a.mark(elseLabel)
		if err := g.emitScoped(v.Else); err != nil {
			return err
		}
		g.a.mark(end)
		return nil

	case model.While:
		head := g.a.newLabel()
		end := g.a.newLabel()
		g.a.mark(head)
		if err := g.branchFalse(v.Cond, end); err != nil {
			return err
		}
		if err := g.emitScoped(v.Body); err != nil {
			return err
		}
		if g.a.alive {
			g.a.jump(head)
		}
		g.a.mark(end)
		return nil

	case model.Return:
		if v.Value == nil {
			g.a.emit(classfile.OpReturn)
			g.a.setDead()
			return nil
		}
		value, err := g.coerceReturn(v.Value)
		if err != nil {
			return err
		}
		if err := g.emitExpr(value); err != nil {
			return err
		}
		g.a.pop()
		g.a.emit(returnOpcode(g.method.Returns))
		g.a.setDead()
		return nil

	case model.Assign:
		return g.emitAssign(v)

	case model.Declare:
		if err := g.emitExpr(v.Value); err != nil {
			return err
		}
		vt, err := g.a.verificationTypeOf(v.Type)
		if err != nil {
			return err
		}
		slot := g.a.allocLocal(vt)
		local := localVar{slot: slot, typ: v.Type}
		g.locals[v.Name] = local
		g.declared = append(g.declared, v.Name)
		return g.emitStore(local)

	case model.SwitchStmt:
		return g.emitSwitchStmt(v)

	default:
		return g.failUnsupported("statement", s)
	}
}

// coerceReturn inserts a boxing conversion when the returned expression's
// static type and the declared return type are a primitive/wrapper pair.
func (g *methodGen) coerceReturn(value model.Expr) (model.Expr, error) {
	returns := g.method.Returns
	if returns == nil {
		return value, nil
	}
	valueType, err := g.typeOf(value)
	if err != nil {
		return nil, err
	}
	if prim, ok := returns.(model.PrimitiveType); ok {
		if source, isClass := valueType.(model.ClassType); isClass {
			if unboxed, boxed := model.UnboxedOf(source); boxed && unboxed.Name == prim.Name {
				return model.Convert{Target: returns, Value: value}, nil
			}
		}
	}
	if class, ok := returns.(model.ClassType); ok {
		if prim, isPrim := valueType.(model.PrimitiveType); isPrim {
			if prim.Boxed().Name == class.Name || model.Equal(class, model.TypeObject) {
				return model.Convert{Target: prim.Boxed(), Value: value}, nil
			}
		}
	}
	return value, nil
}

func (g *methodGen) emitAssign(v model.Assign) error {
	switch target := v.Target.(type) {
	case model.ParamRef:
		p, ok := g.params[target.Name]
		if !ok {
			return &UnresolvedReferenceError{Kind: "parameter", Name: target.Name, Declaration: g.decl()}
		}
		if err := g.emitExpr(v.Value); err != nil {
			return err
		}
		return g.emitStore(p)
	case model.LocalRef:
		local, ok := g.locals[target.Name]
		if !ok {
			return &UnresolvedReferenceError{Kind: "local", Name: target.Name, Declaration: g.decl()}
		}
		if err := g.emitExpr(v.Value); err != nil {
			return err
		}
		return g.emitStore(local)
	case model.FieldRef:
		instanceType, err := g.typeOf(target.Instance)
		if err != nil {
			return err
		}
		if err := g.emitExpr(target.Instance); err != nil {
			return err
		}
		if err := g.emitExpr(v.Value); err != nil {
			return err
		}
		owner, err := internalNameOf(instanceType)
		if err != nil {
			return err
		}
		desc, err := descriptorOf(target.Type)
		if err != nil {
			return err
		}
		g.a.pop()
		g.a.pop()
		g.a.emit(classfile.OpPutfield)
		g.a.emitU2(g.a.pool.Fieldref(owner, target.Name, desc))
		return nil
	case model.StaticFieldRef:
		if err := g.emitExpr(v.Value); err != nil {
			return err
		}
		owner, err := internalNameOf(target.Owner)
		if err != nil {
			return err
		}
		desc, err := descriptorOf(target.Type)
		if err != nil {
			return err
		}
		g.a.pop()
		g.a.emit(classfile.OpPutstatic)
		g.a.emitU2(g.a.pool.Fieldref(owner, target.Name, desc))
		return nil
	default:
		return g.failUnsupported("assignment target", v.Target)
	}
}

func (g *methodGen) emitSwitchStmt(sw model.SwitchStmt) error {
	targetType, err := g.typeOf(sw.Target)
	if err != nil {
		return err
	}
	if err := g.emitExpr(sw.Target); err != nil {
		return err
	}
	vt, err := g.a.verificationTypeOf(targetType)
	if err != nil {
		return err
	}
	slot := g.a.allocLocal(vt)
	scrutinee := localVar{slot: slot, typ: targetType}
	if err := g.emitStore(scrutinee); err != nil {
		return err
	}

	end := g.a.newLabel()
	for _, c := range sw.Cases {
		next := g.a.newLabel()
		if err := g.emitCaseCompare(scrutinee, c.Match, next); err != nil {
			return err
		}
		if err := g.emitScoped(c.Body); err != nil {
			return err
		}
		if g.a.alive {
			g.a.jump(end)
		}
		g.a.mark(next)
	}
	if err := g.emitScoped(sw.Default); err != nil {
		return err
	}
	g.a.mark(end)
	return nil
}
