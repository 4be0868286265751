package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sourcegen/generator"
)

func newRenderCmd() *cobra.Command {
	var langName string
	var outDir string

	cmd := &cobra.Command{
		Use:   "render <manifest.toml>...",
		Short: "Render the types described by manifest files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, ok := generator.ParseLanguage(langName)
			if !ok {
				return fmt.Errorf("unknown language: %s (expected java, kotlin, or bytecode)", langName)
			}
			renderer, ok := generator.ForLanguage(lang)
			if !ok {
				return fmt.Errorf("no renderer for language: %s", lang)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			round := generator.NewRound()
			for _, path := range args {
				manifest, err := generator.LoadManifest(path)
				if err != nil {
					return err
				}
				def, err := manifest.Definition()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				outPath := filepath.Join(outDir, def.SimpleName()+lang.Extension())
				out, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				if err := round.Render(renderer, def, out, path); err != nil {
					out.Close()
					return fmt.Errorf("render %s: %w", def.QualifiedName(), err)
				}
				if err := out.Close(); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				fmt.Println(outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&langName, "lang", "java", "target language (java, kotlin, bytecode)")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")

	return cmd
}
