package model

// Expr is the closed set of expression nodes. Every node is immutable and
// tree-shaped; renderers own all lowering behavior and must reject any
// variant they do not recognize.
type Expr interface {
	expr()
}

// Constant is a literal value of a declared type. Value holds a Go value
// matching the declared type: string, bool, int64 (all integer kinds),
// float32/float64, rune, a ClassType (class literal), or an EnumConstant.
type Constant struct {
	Type  TypeDef
	Value any
}

// EnumConstant names one constant of an enum type, for use as a Constant
// value and inside annotation members.
type EnumConstant struct {
	Type ClassType
	Name string
}

// ParamRef references an enclosing method's parameter by name. The name is
// resolved against the method's parameter list at render time; a miss is a
// fatal render error.
type ParamRef struct {
	Name string
}

// FieldRef reads a field from an instance expression.
type FieldRef struct {
	Instance Expr
	Name     string
	Type     TypeDef
}

// StaticFieldRef reads a static field of the owner type.
type StaticFieldRef struct {
	Owner TypeDef
	Name  string
	Type  TypeDef
}

// This references the enclosing instance.
type This struct {
	Type TypeDef
}

// LocalRef references a local variable introduced by a Declare statement.
type LocalRef struct {
	Name string
	Type TypeDef
}

type NewInstance struct {
	Type ClassType
	Args []Expr
}

type CallMethod struct {
	Instance Expr
	Name     string
	Args     []Expr
	Returns  TypeDef
}

type CallStatic struct {
	Owner   TypeDef
	Name    string
	Args    []Expr
	Returns TypeDef
}

// NewArray allocates an array of the given component type and size.
type NewArray struct {
	Component TypeDef
	Size      Expr
}

// ArrayLiteral allocates an array populated from element expressions in
// declaration order.
type ArrayLiteral struct {
	Component TypeDef
	Elements  []Expr
}

type Cast struct {
	Target TypeDef
	Value  Expr
}

// Convert adjusts a value between a primitive and its wrapper, or between
// nullability contexts. Unlike Cast it may emit real coercion code.
type Convert struct {
	Target TypeDef
	Value  Expr
}

type IsNull struct {
	Value Expr
}

type IsNotNull struct {
	Value Expr
}

type CompareOp string

const (
	OpEqual        CompareOp = "=="
	OpNotEqual     CompareOp = "!="
	OpLess         CompareOp = "<"
	OpLessEqual    CompareOp = "<="
	OpGreater      CompareOp = ">"
	OpGreaterEqual CompareOp = ">="
)

// Compare is a binary comparison producing a boolean.
type Compare struct {
	Op    CompareOp
	Left  Expr
	Right Expr
}

type And struct {
	Left  Expr
	Right Expr
}

type Or struct {
	Left  Expr
	Right Expr
}

// Ternary is the conditional expression; both branches must produce a
// value of the same erased type.
type Ternary struct {
	Cond Expr
	Then Expr
	Else Expr
}

// SwitchExpr yields a value per matching case. A case whose Body is empty
// yields its Yield expression directly; a case with statements yields
// through the target's yield construct.
type SwitchExpr struct {
	Target  Expr
	Type    TypeDef
	Cases   []SwitchCase
	Default *SwitchCase
}

type SwitchCase struct {
	Match Constant
	Yield Expr
	Body  []Stmt
}

func (Constant) expr()       {}
func (ParamRef) expr()       {}
func (FieldRef) expr()       {}
func (StaticFieldRef) expr() {}
func (This) expr()           {}
func (LocalRef) expr()       {}
func (NewInstance) expr()    {}
func (CallMethod) expr()     {}
func (CallStatic) expr()     {}
func (NewArray) expr()       {}
func (ArrayLiteral) expr()   {}
func (Cast) expr()           {}
func (Convert) expr()        {}
func (IsNull) expr()         {}
func (IsNotNull) expr()      {}
func (Compare) expr()        {}
func (And) expr()            {}
func (Or) expr()             {}
func (Ternary) expr()        {}
func (SwitchExpr) expr()     {}
