package codegen

import (
	"fmt"
	"strings"

	"github.com/dhamidi/sourcegen/model"
)

// primitiveCodes maps primitive names to their base-type descriptor
// characters.
var primitiveCodes = map[string]string{
	"void":    "V",
	"boolean": "Z",
	"byte":    "B",
	"short":   "S",
	"char":    "C",
	"int":     "I",
	"long":    "J",
	"float":   "F",
	"double":  "D",
}

// descriptorOf computes the plain (erased) binary descriptor of a type.
func descriptorOf(t model.TypeDef) (string, error) {
	switch v := t.(type) {
	case model.PrimitiveType:
		code, ok := primitiveCodes[v.Name]
		if !ok {
			return "", fmt.Errorf("unknown primitive type %q", v.Name)
		}
		return code, nil
	case model.ClassType:
		return "L" + v.Internal() + ";", nil
	case model.ParameterizedType:
		return "L" + v.Raw.Internal() + ";", nil
	case model.ArrayType:
		component, err := descriptorOf(v.Component)
		if err != nil {
			return "", err
		}
		return strings.Repeat("[", v.Dimensions) + component, nil
	case model.TypeVariable:
		// erasure: first bound, or Object
		if len(v.Bounds) > 0 {
			return descriptorOf(v.Bounds[0])
		}
		return "Ljava/lang/Object;", nil
	default:
		return "", unsupported("type", t)
	}
}

// methodDescriptorOf computes a method descriptor from parameter and
// return types.
func methodDescriptorOf(params []model.ParamDef, returns model.TypeDef) (string, error) {
	var sb strings.Builder
	sb.WriteString("(")
	for _, p := range params {
		desc, err := descriptorOf(p.Type)
		if err != nil {
			return "", err
		}
		sb.WriteString(desc)
	}
	sb.WriteString(")")
	if returns == nil {
		returns = model.TypeVoid
	}
	desc, err := descriptorOf(returns)
	if err != nil {
		return "", err
	}
	sb.WriteString(desc)
	return sb.String(), nil
}

// signatureOf computes the generic signature form of a type. Only called
// when needsSignature reported true somewhere in the enclosing structure;
// non-generic parts still print in their plain form.
func signatureOf(t model.TypeDef) (string, error) {
	switch v := t.(type) {
	case model.PrimitiveType:
		return descriptorOf(v)
	case model.ClassType:
		return "L" + v.Internal() + ";", nil
	case model.ParameterizedType:
		var sb strings.Builder
		sb.WriteString("L")
		sb.WriteString(v.Raw.Internal())
		sb.WriteString("<")
		for _, arg := range v.Args {
			argSig, err := signatureOf(arg)
			if err != nil {
				return "", err
			}
			sb.WriteString(argSig)
		}
		sb.WriteString(">;")
		return sb.String(), nil
	case model.ArrayType:
		component, err := signatureOf(v.Component)
		if err != nil {
			return "", err
		}
		return strings.Repeat("[", v.Dimensions) + component, nil
	case model.TypeVariable:
		return "T" + v.Name + ";", nil
	case model.WildcardType:
		if len(v.Lower) > 0 {
			sig, err := signatureOf(v.Lower[0])
			if err != nil {
				return "", err
			}
			return "-" + sig, nil
		}
		if len(v.Upper) > 0 {
			sig, err := signatureOf(v.Upper[0])
			if err != nil {
				return "", err
			}
			return "+" + sig, nil
		}
		return "*", nil
	default:
		return "", unsupported("type", t)
	}
}

// needsSignature reports whether a type requires the Signature attribute:
// the format reserves it for types mentioning a type variable or a
// parameterization.
func needsSignature(t model.TypeDef) bool {
	switch v := t.(type) {
	case model.ParameterizedType, model.TypeVariable, model.WildcardType:
		return true
	case model.ArrayType:
		return needsSignature(v.Component)
	default:
		return false
	}
}

// classSignatureOf computes the class-level generic signature, or "" when
// no type variable or parameterized supertype is present.
func classSignatureOf(typeVars []model.TypeVariable, super model.TypeDef, interfaces []model.TypeDef) (string, error) {
	needed := len(typeVars) > 0
	for _, t := range interfaces {
		if needsSignature(t) {
			needed = true
		}
	}
	if super != nil && needsSignature(super) {
		needed = true
	}
	if !needed {
		return "", nil
	}

	var sb strings.Builder
	if len(typeVars) > 0 {
		sb.WriteString("<")
		for _, tv := range typeVars {
			sb.WriteString(tv.Name)
			sb.WriteString(":")
			if len(tv.Bounds) == 0 {
				sb.WriteString("Ljava/lang/Object;")
			} else {
				for _, bound := range tv.Bounds {
					sig, err := signatureOf(bound)
					if err != nil {
						return "", err
					}
					sb.WriteString(sig)
				}
			}
		}
		sb.WriteString(">")
	}
	if super == nil {
		sb.WriteString("Ljava/lang/Object;")
	} else {
		sig, err := signatureOf(super)
		if err != nil {
			return "", err
		}
		sb.WriteString(sig)
	}
	for _, iface := range interfaces {
		sig, err := signatureOf(iface)
		if err != nil {
			return "", err
		}
		sb.WriteString(sig)
	}
	return sb.String(), nil
}

// internalNameOf returns the constant-pool class entry name for a type:
// slash-separated for classes, descriptor form for arrays.
func internalNameOf(t model.TypeDef) (string, error) {
	switch v := t.(type) {
	case model.ClassType:
		return v.Internal(), nil
	case model.ParameterizedType:
		return v.Raw.Internal(), nil
	case model.ArrayType:
		return descriptorOf(v)
	case model.TypeVariable:
		if len(v.Bounds) > 0 {
			return internalNameOf(v.Bounds[0])
		}
		return "java/lang/Object", nil
	default:
		return "", unsupported("type", t)
	}
}
