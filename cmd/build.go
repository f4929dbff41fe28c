package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nikki93/gxwgsl/buildergen"
	"github.com/nikki93/gxwgsl/compiler"
	"github.com/nikki93/gxwgsl/shader"
)

// build: shader packages -> <pkg>.module.json + <pkg>_gen.go
var BuildCmd = &cobra.Command{
	Use:   "build [packages]",
	Short: "Compile shader packages and generate their builders",
	RunE:  buildRun,
}

func buildRun(cmd *cobra.Command, args []string) error {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	opts, err := compileOptions()
	if err != nil {
		return err
	}

	outputs, err := compiler.CompilePackages(".", opts, patterns...)
	if err != nil {
		return reportError(cmd, err)
	}

	for _, out := range outputs {
		dir := out.Dir
		if outDir != "" {
			dir = outDir
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}

		moduleFile := out.Package + ".module.json"
		record, err := shader.EncodeModule(out.Module)
		if err != nil {
			return err
		}
		code, err := buildergen.Generate(out, buildergen.Options{ModuleFile: moduleFile, Sources: out.Files})
		if err != nil {
			return err
		}

		for name, contents := range map[string][]byte{
			moduleFile:             record,
			out.Package + "_gen.go": code,
		} {
			path := filepath.Join(dir, name)
			written, err := writeFileIfChanged(path, contents)
			if err != nil {
				return err
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "✔︎ wrote %s\n", path)
			}
		}
	}
	return nil
}

// writeFileIfChanged leaves path untouched when it already holds contents, so
// rebuilds don't disturb file timestamps.
func writeFileIfChanged(path string, contents []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, contents) {
		return false, nil
	}
	return true, os.WriteFile(path, contents, 0o644)
}
