// Package generator is the host-facing surface: it selects a renderer per
// target language and owns the per-round lifecycle a processing host
// drives.
package generator

import (
	"io"

	"github.com/dhamidi/sourcegen/codegen"
	"github.com/dhamidi/sourcegen/format"
	"github.com/dhamidi/sourcegen/model"
)

type Language int

const (
	LanguageJava Language = iota
	LanguageKotlin
	LanguageJavaBytecode
)

func (l Language) String() string {
	switch l {
	case LanguageJava:
		return "java"
	case LanguageKotlin:
		return "kotlin"
	case LanguageJavaBytecode:
		return "bytecode"
	default:
		return "unknown"
	}
}

// ParseLanguage maps a user-supplied name onto a Language.
func ParseLanguage(name string) (Language, bool) {
	switch name {
	case "java":
		return LanguageJava, true
	case "kotlin", "kt":
		return LanguageKotlin, true
	case "bytecode", "class":
		return LanguageJavaBytecode, true
	default:
		return 0, false
	}
}

// Extension is the file extension conventionally used for the language's
// output.
func (l Language) Extension() string {
	switch l {
	case LanguageKotlin:
		return ".kt"
	case LanguageJavaBytecode:
		return ".class"
	default:
		return ".java"
	}
}

// Element is an opaque provenance token supplied by the host; renderers
// and the round pass it through untouched.
type Element any

// Renderer writes one definition in one target language.
type Renderer interface {
	Language() Language
	Write(def model.ObjectDef, w io.Writer, originating ...Element) error
}

// ForLanguage returns the renderer for a language. There is at most one
// per language; hosts skip languages that report false.
func ForLanguage(l Language) (Renderer, bool) {
	switch l {
	case LanguageJava:
		return javaRenderer{}, true
	case LanguageKotlin:
		return kotlinRenderer{}, true
	case LanguageJavaBytecode:
		return bytecodeRenderer{}, true
	default:
		return nil, false
	}
}

type javaRenderer struct{}

func (javaRenderer) Language() Language { return LanguageJava }

func (javaRenderer) Write(def model.ObjectDef, w io.Writer, _ ...Element) error {
	return format.NewJavaWriter(w).Write(def)
}

type kotlinRenderer struct{}

func (kotlinRenderer) Language() Language { return LanguageKotlin }

func (kotlinRenderer) Write(def model.ObjectDef, w io.Writer, _ ...Element) error {
	return format.NewKotlinWriter(w).Write(def)
}

type bytecodeRenderer struct{}

func (bytecodeRenderer) Language() Language { return LanguageJavaBytecode }

func (bytecodeRenderer) Write(def model.ObjectDef, w io.Writer, _ ...Element) error {
	return codegen.NewWriter().Write(def, w)
}
