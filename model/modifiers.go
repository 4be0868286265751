package model

import (
	"fmt"
	"strings"
)

type Modifiers uint16

const (
	Public Modifiers = 1 << iota
	Protected
	Private
	Static
	Final
	Abstract
	Default
	Sealed
	Synchronized
	Transient
	Volatile
)

func (m Modifiers) IsPublic() bool       { return m&Public != 0 }
func (m Modifiers) IsProtected() bool    { return m&Protected != 0 }
func (m Modifiers) IsPrivate() bool      { return m&Private != 0 }
func (m Modifiers) IsStatic() bool       { return m&Static != 0 }
func (m Modifiers) IsFinal() bool        { return m&Final != 0 }
func (m Modifiers) IsAbstract() bool     { return m&Abstract != 0 }
func (m Modifiers) IsDefault() bool      { return m&Default != 0 }
func (m Modifiers) IsSealed() bool       { return m&Sealed != 0 }
func (m Modifiers) IsSynchronized() bool { return m&Synchronized != 0 }
func (m Modifiers) IsTransient() bool    { return m&Transient != 0 }
func (m Modifiers) IsVolatile() bool     { return m&Volatile != 0 }

// validate rejects combinations no target language accepts.
func (m Modifiers) validate() error {
	visibilities := 0
	for _, v := range []Modifiers{Public, Protected, Private} {
		if m&v != 0 {
			visibilities++
		}
	}
	if visibilities > 1 {
		return fmt.Errorf("conflicting visibility modifiers: %s", m)
	}
	if m.IsAbstract() && m.IsFinal() {
		return fmt.Errorf("conflicting modifiers: %s", m)
	}
	return nil
}

func (m Modifiers) String() string {
	var parts []string
	add := func(flag Modifiers, name string) {
		if m&flag != 0 {
			parts = append(parts, name)
		}
	}
	add(Public, "public")
	add(Protected, "protected")
	add(Private, "private")
	add(Static, "static")
	add(Abstract, "abstract")
	add(Default, "default")
	add(Sealed, "sealed")
	add(Final, "final")
	add(Synchronized, "synchronized")
	add(Transient, "transient")
	add(Volatile, "volatile")
	return strings.Join(parts, " ")
}
