package codegen

import "fmt"

// UnsupportedConstructError reports a model node this renderer has no
// binary lowering for. Declaration names the originating type, method or
// property so the host can attribute the diagnostic.
type UnsupportedConstructError struct {
	Construct   string
	Declaration string
}

func (e *UnsupportedConstructError) Error() string {
	if e.Declaration == "" {
		return fmt.Sprintf("unsupported construct: %s", e.Construct)
	}
	return fmt.Sprintf("unsupported construct in %s: %s", e.Declaration, e.Construct)
}

func unsupported(construct string, node any) error {
	return &UnsupportedConstructError{Construct: fmt.Sprintf("%s %T", construct, node)}
}

// UnresolvedReferenceError reports a by-name parameter or field reference
// that does not exist on the enclosing declaration.
type UnresolvedReferenceError struct {
	Kind        string
	Name        string
	Declaration string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved %s %q in %s", e.Kind, e.Name, e.Declaration)
}
