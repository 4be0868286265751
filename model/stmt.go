package model

// Stmt is the closed set of statement nodes.
type Stmt interface {
	stmt()
}

// Block is an ordered statement sequence.
type Block struct {
	Stmts []Stmt
}

type If struct {
	Cond Expr
	Then []Stmt
}

type IfElse struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// SwitchStmt is a switch used for control flow rather than its value.
type SwitchStmt struct {
	Target  Expr
	Cases   []SwitchStmtCase
	Default []Stmt
}

type SwitchStmtCase struct {
	Match Constant
	Body  []Stmt
}

type While struct {
	Cond Expr
	Body []Stmt
}

// Return exits the enclosing method. A nil Value is a void return.
type Return struct {
	Value Expr
}

// Assign stores Value into Target. Target must be a FieldRef,
// StaticFieldRef, LocalRef or ParamRef.
type Assign struct {
	Target Expr
	Value  Expr
}

// Declare introduces a local variable and assigns its initial value.
type Declare struct {
	Name  string
	Type  TypeDef
	Value Expr
}

func (Block) stmt()      {}
func (If) stmt()         {}
func (IfElse) stmt()     {}
func (SwitchStmt) stmt() {}
func (While) stmt()      {}
func (Return) stmt()     {}
func (Assign) stmt()     {}
func (Declare) stmt()    {}
