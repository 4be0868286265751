package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sourcegen/classfile"
)

func newInspectCmd() *cobra.Command {
	var showCode bool

	cmd := &cobra.Command{
		Use:   "inspect <file.class>",
		Short: "Print the structure of a compiled class file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := classfile.ParseFile(args[0])
			if err != nil {
				return fmt.Errorf("parse class file: %w", err)
			}

			fmt.Printf("class %s (version %d.%d)\n", cf.ClassName(), cf.MajorVersion, cf.MinorVersion)
			if super := cf.SuperClassName(); super != "" {
				fmt.Printf("  extends %s\n", super)
			}
			for _, name := range cf.InterfaceNames() {
				fmt.Printf("  implements %s\n", name)
			}

			cp := cf.ConstantPool
			if len(cf.Fields) > 0 {
				fmt.Println("fields:")
				for i := range cf.Fields {
					f := &cf.Fields[i]
					fmt.Printf("  %s%s %s\n", memberFlags(f.AccessFlags), f.Name(cp), f.Descriptor(cp))
				}
			}
			if len(cf.Methods) > 0 {
				fmt.Println("methods:")
				for i := range cf.Methods {
					m := &cf.Methods[i]
					fmt.Printf("  %s%s%s\n", memberFlags(m.AccessFlags), m.Name(cp), m.Descriptor(cp))
					if code := m.GetCodeAttribute(cp); code != nil {
						fmt.Printf("    code: %d bytes, max_stack=%d, max_locals=%d\n",
							len(code.Code), code.MaxStack, code.MaxLocals)
						if showCode {
							printBytecode(code.Code)
						}
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showCode, "code", false, "print raw bytecode")

	return cmd
}

func memberFlags(flags classfile.AccessFlags) string {
	var parts []string
	switch {
	case flags.IsPublic():
		parts = append(parts, "public")
	case flags.IsPrivate():
		parts = append(parts, "private")
	case flags.IsProtected():
		parts = append(parts, "protected")
	}
	if flags.IsStatic() {
		parts = append(parts, "static")
	}
	if flags.IsFinal() {
		parts = append(parts, "final")
	}
	if flags.IsAbstract() {
		parts = append(parts, "abstract")
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " "
}

func printBytecode(code []byte) {
	for offset := 0; offset < len(code); offset += 8 {
		end := offset + 8
		if end > len(code) {
			end = len(code)
		}
		var hex []string
		for _, b := range code[offset:end] {
			hex = append(hex, fmt.Sprintf("%02x", b))
		}
		fmt.Printf("      %4d: %s\n", offset, strings.Join(hex, " "))
	}
}
