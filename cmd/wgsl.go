package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikki93/gxwgsl/compiler"
)

var (
	inputLen  uint32
	outputLen uint32
)

// wgsl: print the assembled shader
var WGSLCmd = &cobra.Command{
	Use:   "wgsl <file.go | package>",
	Short: "Print the assembled WGSL of a shader module",
	Args:  cobra.ExactArgs(1),
	RunE:  wgslRun,
}

func init() {
	WGSLCmd.Flags().Uint32Var(&inputLen, "input-len", 1, "length of every input array")
	WGSLCmd.Flags().Uint32Var(&outputLen, "output-len", 1, "capacity of every output array")
}

func wgslRun(cmd *cobra.Command, args []string) error {
	opts, err := compileOptions()
	if err != nil {
		return err
	}

	var outputs []*compiler.Output
	if target := args[0]; strings.HasSuffix(target, ".go") {
		src, err := os.ReadFile(target)
		if err != nil {
			return err
		}
		out, err := compiler.CompileSource(target, src, opts)
		if err != nil {
			return reportError(cmd, err)
		}
		outputs = append(outputs, out)
	} else {
		outputs, err = compiler.CompilePackages(".", opts, target)
		if err != nil {
			return reportError(cmd, err)
		}
	}

	for _, out := range outputs {
		shaderOpts := out.Module.DefaultLengths(inputLen)
		for name := range shaderOpts.OutputLengths {
			shaderOpts.OutputLengths[name] = outputLen
		}
		shaderOpts.WorkgroupSize = opts.WorkgroupSize
		text, err := out.Module.WGSL(shaderOpts)
		if err != nil {
			return err
		}
		if len(outputs) > 1 {
			fmt.Fprintf(cmd.OutOrStdout(), "// module %s\n", out.Module.Name)
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
	}
	return nil
}
