// Package format renders object definitions as source text. JavaWriter is
// the primary renderer; KotlinWriter mirrors it for Kotlin output.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/sourcegen/model"
)

// UnsupportedConstructError is the fatal raised when a renderer meets a
// node variant it has no lowering for.
type UnsupportedConstructError struct {
	Construct   string
	Declaration string
}

func (e *UnsupportedConstructError) Error() string {
	if e.Declaration != "" {
		return fmt.Sprintf("unsupported construct in %s: %s", e.Declaration, e.Construct)
	}
	return fmt.Sprintf("unsupported construct: %s", e.Construct)
}

// UnresolvedReferenceError reports a by-name reference that did not
// resolve against the enclosing method at render time.
type UnresolvedReferenceError struct {
	Kind        string
	Name        string
	Declaration string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved %s %q in %s", e.Kind, e.Name, e.Declaration)
}

// emitter accumulates indented source text with a sticky error, the same
// shape as the classfile reader and writer: the first failure wins and all
// later output is discarded.
type emitter struct {
	out    io.Writer
	sb     strings.Builder
	indent int
	err    error
}

func (e *emitter) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *emitter) failf(format string, args ...any) {
	e.fail(fmt.Errorf(format, args...))
}

func (e *emitter) write(s string) {
	if e.err != nil {
		return
	}
	e.sb.WriteString(s)
}

func (e *emitter) writef(format string, args ...any) {
	e.write(fmt.Sprintf(format, args...))
}

func (e *emitter) writeIndent() {
	for i := 0; i < e.indent; i++ {
		e.write("    ")
	}
}

func (e *emitter) line(s string) {
	e.writeIndent()
	e.write(s)
	e.write("\n")
}

func (e *emitter) linef(format string, args ...any) {
	e.line(fmt.Sprintf(format, args...))
}

func (e *emitter) blank() {
	e.write("\n")
}

func (e *emitter) flush() error {
	if e.err != nil {
		return e.err
	}
	_, err := io.WriteString(e.out, e.sb.String())
	return err
}

// paramScope resolves ParamRef and LocalRef nodes while rendering one
// method body. Locals accumulate as Declare statements are walked.
type paramScope struct {
	def    model.ObjectDef
	method *model.MethodDef
	locals map[string]model.TypeDef
}

func newParamScope(def model.ObjectDef, m *model.MethodDef) *paramScope {
	return &paramScope{def: def, method: m, locals: make(map[string]model.TypeDef)}
}

func (s *paramScope) declaration() string {
	if s == nil || s.method == nil {
		return ""
	}
	return s.def.QualifiedName() + "." + s.method.Name
}

func (s *paramScope) param(name string) (model.ParamDef, error) {
	if s == nil || s.method == nil {
		return model.ParamDef{}, &UnresolvedReferenceError{Kind: "parameter", Name: name}
	}
	p, ok := s.method.Param(name)
	if !ok {
		return model.ParamDef{}, &UnresolvedReferenceError{Kind: "parameter", Name: name, Declaration: s.declaration()}
	}
	return p, nil
}

func (s *paramScope) declare(name string, typ model.TypeDef) {
	if s != nil {
		s.locals[name] = typ
	}
}

// declaredType computes an expression's declared static type as far as the
// tree records it. Used by the Kotlin renderer's nullability insertion;
// purely declaration-driven, no flow analysis.
func (s *paramScope) declaredType(e model.Expr) model.TypeDef {
	switch v := e.(type) {
	case model.Constant:
		return v.Type
	case model.ParamRef:
		if p, err := s.param(v.Name); err == nil {
			return p.Type
		}
	case model.LocalRef:
		if s != nil {
			if t, ok := s.locals[v.Name]; ok {
				return t
			}
		}
		return v.Type
	case model.FieldRef:
		return v.Type
	case model.StaticFieldRef:
		return v.Type
	case model.NewInstance:
		return v.Type
	case model.CallMethod:
		return v.Returns
	case model.CallStatic:
		return v.Returns
	case model.Cast:
		return v.Target
	case model.Convert:
		return v.Target
	case model.Ternary:
		return s.declaredType(v.Then)
	case model.SwitchExpr:
		return v.Type
	}
	return nil
}

// integerValue reports a constant's value as int64 when it is an integer
// kind. Renderers fail on the mismatch instead of formatting a
// placeholder into the output.
func integerValue(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
