package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikki93/gxwgsl/compiler"
	"github.com/nikki93/gxwgsl/gpucompute"
)

var (
	outDir    string
	validate  bool
	verbose   bool
	workgroup string
)

var rootCmd = &cobra.Command{
	Use:   "gxwgsl",
	Short: "gxwgsl compiles Go shader modules into WGSL compute shaders",
	Long: `gxwgsl translates Go files marked with //wgsl:module into WGSL compute
shaders and generates the Go builders that feed them.

Commands:
  build  Write the module record and builders of every shader package
  wgsl   Print the assembled WGSL of a shader module
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			compiler.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "", "output directory, defaults to the module's own directory")
	rootCmd.PersistentFlags().BoolVar(&validate, "validate", true, "check the assembled WGSL with naga")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log compilation steps to stderr")
	rootCmd.PersistentFlags().StringVarP(&workgroup, "workgroup", "w", "1d", "workgroup size: 1d, 2d, 3d or x,y,z")

	rootCmd.AddCommand(BuildCmd, WGSLCmd)
}

// compileOptions returns the compiler options selected by the flags.
func compileOptions() (compiler.Options, error) {
	opts := compiler.DefaultOptions()
	opts.Validate = validate
	size, err := parseWorkgroup(workgroup)
	if err != nil {
		return opts, err
	}
	opts.WorkgroupSize = size.Array()
	return opts, nil
}

func parseWorkgroup(s string) (gpucompute.WorkgroupSizes, error) {
	switch strings.ToLower(s) {
	case "1d":
		return gpucompute.OneD(), nil
	case "2d":
		return gpucompute.TwoD(), nil
	case "3d":
		return gpucompute.ThreeD(), nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return gpucompute.WorkgroupSizes{}, fmt.Errorf("workgroup %q: want 1d, 2d, 3d or x,y,z", s)
	}
	var dims [3]uint32
	for i, part := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil || n == 0 {
			return gpucompute.WorkgroupSizes{}, fmt.Errorf("workgroup %q: dimension %q must be a positive integer", s, part)
		}
		dims[i] = uint32(n)
	}
	return gpucompute.WorkgroupSizes{X: dims[0], Y: dims[1], Z: dims[2]}, nil
}

// reportError prints compile errors one per line.
func reportError(cmd *cobra.Command, err error) error {
	var list compiler.ErrorList
	if errors.As(err, &list) {
		fmt.Fprint(cmd.ErrOrStderr(), list.FormatAll())
		return fmt.Errorf("%d compile errors", len(list))
	}
	return err
}
