// Package buildergen generates the Go side of a compiled shader module: typed
// builders that encode task data into the type-erased containers of package
// gpucompute, keyed by the same type names the shader's bindings use.
package buildergen

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/imports"

	"github.com/nikki93/gxwgsl/compiler"
)

const (
	gpucomputePath = "github.com/nikki93/gxwgsl/gpucompute"
	shaderPath     = "github.com/nikki93/gxwgsl/shader"
)

// Options configures generation.
type Options struct {
	// ModuleFile is the file next to the generated code holding the module
	// record as JSON. It is embedded with //go:embed.
	ModuleFile string

	// Sources are the shader module files, named in the header.
	Sources []string
}

// Generate returns gofmt-formatted Go source for the package of out.
func Generate(out *compiler.Output, opts Options) ([]byte, error) {
	if opts.ModuleFile == "" {
		return nil, fmt.Errorf("buildergen: module file name is required")
	}
	g := &generator{out: out, opts: opts, output: &strings.Builder{}}
	g.generate()

	filename := strings.TrimSuffix(opts.ModuleFile, ".module.json") + "_gen.go"
	formatted, err := imports.Process(filename, []byte(g.output.String()), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("buildergen: format generated code for %s: %w", out.Module.Name, err)
	}
	return formatted, nil
}

// MethodName is the Go name a type's setters and output field use.
func MethodName(typeName string) string {
	r, size := utf8.DecodeRuneInString(typeName)
	return string(unicode.ToUpper(r)) + typeName[size:]
}

type generator struct {
	out    *compiler.Output
	opts   Options
	output *strings.Builder
}

func (g *generator) printf(format string, args ...interface{}) {
	fmt.Fprintf(g.output, format, args...)
}

func (g *generator) typesWithRole(matches func(compiler.Role) bool) []compiler.CustomType {
	var result []compiler.CustomType
	for _, ct := range g.out.CustomTypes {
		if matches(ct.Role) {
			result = append(result, ct)
		}
	}
	return result
}

func (g *generator) generate() {
	configs := g.typesWithRole(func(r compiler.Role) bool { return r == compiler.Uniform })
	inputs := g.typesWithRole(func(r compiler.Role) bool { return r == compiler.InputArray })
	outputs := g.typesWithRole(compiler.Role.IsOutput)
	needsFmt := len(configs)+len(inputs)+len(outputs) > 0

	// Header
	sources := append([]string(nil), g.opts.Sources...)
	sort.Strings(sources)
	if len(sources) > 0 {
		g.printf("// Code generated by gxwgsl from %s. DO NOT EDIT.\n\n", strings.Join(sources, ", "))
	} else {
		g.printf("// Code generated by gxwgsl. DO NOT EDIT.\n\n")
	}
	g.printf("package %s\n\n", g.out.Package)
	g.printf("import (\n")
	g.printf("\t_ \"embed\"\n")
	if needsFmt {
		g.printf("\t\"fmt\"\n")
	}
	g.printf("\n\t%q\n\t%q\n)\n\n", gpucomputePath, shaderPath)

	// Module
	g.printf("//go:embed %s\nvar moduleJSON []byte\n\n", g.opts.ModuleFile)
	g.printf("// Module returns the compiled shader module %s.\n", g.out.Module.Name)
	g.printf("func Module() *shader.Module {\n\treturn shader.MustDecodeModule(moduleJSON)\n}\n\n")

	g.genConfigBuilder(configs)
	g.genInputBuilder(inputs)
	g.genMaxOutputLengthsBuilder(outputs)
	g.genOutputData(outputs)
}

func (g *generator) genConfigBuilder(configs []compiler.CustomType) {
	g.printf("// ConfigInputDataBuilder collects the uniforms of a task.\n")
	g.printf("type ConfigInputDataBuilder struct {\n\tvalues map[string][]byte\n\terr error\n}\n\n")
	g.printf("func NewConfigInputDataBuilder() *ConfigInputDataBuilder {\n")
	g.printf("\treturn &ConfigInputDataBuilder{values: make(map[string][]byte)}\n}\n\n")
	for _, ct := range configs {
		name := ct.Name.Name
		g.printf("// Set%s sets the %s config.\n", MethodName(name), ct.Name.Snake)
		g.printf("func (b *ConfigInputDataBuilder) Set%s(value %s) *ConfigInputDataBuilder {\n", MethodName(name), name)
		g.printf("\tdata, err := gpucompute.EncodeValue(value)\n")
		g.printf("\tif err != nil {\n\t\tif b.err == nil {\n\t\t\tb.err = fmt.Errorf(\"config %s: %%w\", err)\n\t\t}\n\t\treturn b\n\t}\n", name)
		g.printf("\tb.values[%q] = data\n\treturn b\n}\n\n", name)
	}
	g.printf("// Finish returns the encoded uniforms, or the first encoding error.\n")
	g.printf("func (b *ConfigInputDataBuilder) Finish() (*gpucompute.TypeErasedConfigInputData, error) {\n")
	g.printf("\tif b.err != nil {\n\t\treturn nil, b.err\n\t}\n")
	g.printf("\treturn gpucompute.NewTypeErasedConfigInputData(b.values), nil\n}\n\n")
}

func (g *generator) genInputBuilder(inputs []compiler.CustomType) {
	g.printf("// InputDataBuilder collects the input arrays of a task.\n")
	g.printf("type InputDataBuilder struct {\n\tarrays map[string]gpucompute.ArrayData\n\terr error\n}\n\n")
	g.printf("func NewInputDataBuilder() *InputDataBuilder {\n")
	g.printf("\treturn &InputDataBuilder{arrays: make(map[string]gpucompute.ArrayData)}\n}\n\n")
	for _, ct := range inputs {
		name := ct.Name.Name
		g.printf("// Set%s sets the %s input array.\n", MethodName(name), ct.Name.Snake)
		g.printf("func (b *InputDataBuilder) Set%s(values []%s) *InputDataBuilder {\n", MethodName(name), name)
		g.printf("\tdata, err := gpucompute.EncodeSlice(values)\n")
		g.printf("\tif err != nil {\n\t\tif b.err == nil {\n\t\t\tb.err = fmt.Errorf(\"input %s: %%w\", err)\n\t\t}\n\t\treturn b\n\t}\n", name)
		g.printf("\trecordSize, _ := gpucompute.RecordSize[%s]()\n", name)
		g.printf("\tb.arrays[%q] = gpucompute.ArrayData{Bytes: data, Length: len(values), RecordSize: recordSize}\n\treturn b\n}\n\n", name)
	}
	g.printf("// Finish returns the encoded input arrays, or the first encoding error.\n")
	g.printf("func (b *InputDataBuilder) Finish() (*gpucompute.TypeErasedArrayInputData, error) {\n")
	g.printf("\tif b.err != nil {\n\t\treturn nil, b.err\n\t}\n")
	g.printf("\treturn gpucompute.NewTypeErasedArrayInputData(b.arrays), nil\n}\n\n")
}

func (g *generator) genMaxOutputLengthsBuilder(outputs []compiler.CustomType) {
	g.printf("// MaxOutputLengthsBuilder collects the capacity of every output of a task.\n")
	g.printf("type MaxOutputLengthsBuilder struct {\n\tlengths *gpucompute.MaxOutputLengths\n}\n\n")
	g.printf("func NewMaxOutputLengthsBuilder() *MaxOutputLengthsBuilder {\n")
	g.printf("\treturn &MaxOutputLengthsBuilder{lengths: gpucompute.NewMaxOutputLengths()}\n}\n\n")
	for _, ct := range outputs {
		name := ct.Name.Name
		g.printf("// Set%s sets the capacity of the %s %s.\n", MethodName(name), ct.Name.Snake, ct.Role)
		g.printf("func (b *MaxOutputLengthsBuilder) Set%s(length int) *MaxOutputLengthsBuilder {\n", MethodName(name))
		g.printf("\trecordSize, _ := gpucompute.RecordSize[%s]()\n", name)
		g.printf("\tb.lengths.Set(%q, length, recordSize)\n\treturn b\n}\n\n", name)
	}
	g.printf("// Finish returns the capacities that were set. Outputs left unset are\n// reported by gpucompute.BufferSpecs.\n")
	g.printf("func (b *MaxOutputLengthsBuilder) Finish() *gpucompute.MaxOutputLengths {\n")
	g.printf("\tresult := gpucompute.NewMaxOutputLengths()\n")
	for _, ct := range outputs {
		name := ct.Name.Name
		g.printf("\tif length, ok := b.lengths.Lookup(%q); ok {\n", name)
		g.printf("\t\tresult.Set(%q, length, b.lengths.RecordSize(%q))\n\t}\n", name, name)
	}
	g.printf("\treturn result\n}\n\n")

	g.printf("// MaxOutputBytes is the size of every output of a task at full capacity.\n")
	g.printf("func MaxOutputBytes(lengths *gpucompute.MaxOutputLengths) uint64 {\n")
	if len(outputs) == 0 {
		g.printf("\treturn 0\n}\n\n")
		return
	}
	terms := make([]string, len(outputs))
	for i, ct := range outputs {
		terms[i] = fmt.Sprintf("lengths.Bytes(%q)", ct.Name.Name)
	}
	g.printf("\treturn %s\n}\n\n", strings.Join(terms, " +\n\t\t"))
}

func (g *generator) genOutputData(outputs []compiler.CustomType) {
	g.printf("// OutputData holds the records a task wrote. Outputs missing from the\n")
	g.printf("// read-back data are nil.\n")
	g.printf("type OutputData struct {\n")
	for _, ct := range outputs {
		g.printf("\t%s []%s\n", MethodName(ct.Name.Name), ct.Name.Name)
	}
	g.printf("}\n\n")
	g.printf("func NewOutputData(data *gpucompute.TypeErasedArrayOutputData) (*OutputData, error) {\n")
	g.printf("\tout := &OutputData{}\n")
	for _, ct := range outputs {
		name := ct.Name.Name
		g.printf("\tif raw, ok := data.Bytes(%q); ok {\n", name)
		g.printf("\t\tvalues, err := gpucompute.DecodeSlice[%s](raw)\n", name)
		g.printf("\t\tif err != nil {\n\t\t\treturn nil, fmt.Errorf(\"output %s: %%w\", err)\n\t\t}\n", name)
		g.printf("\t\tout.%s = values\n\t}\n", MethodName(name))
	}
	g.printf("\treturn out, nil\n}\n")
}
