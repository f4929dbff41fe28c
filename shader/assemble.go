package shader

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultWorkgroupSize is used when ShaderOptions leaves it unset.
var DefaultWorkgroupSize = [3]uint32{64, 1, 1}

// Group is the only bind group the generated shaders use.
const Group = 0

// ShaderOptions supplies what the module record alone does not know: the
// dispatch shape and the length of every buffer, keyed by type name.
type ShaderOptions struct {
	WorkgroupSize [3]uint32
	InputLengths  map[string]uint32
	OutputLengths map[string]uint32
}

// MissingLengthsError lists the buffers assembled without a length.
type MissingLengthsError struct {
	Module string
	Names  []string
}

func (e *MissingLengthsError) Error() string {
	return fmt.Sprintf("module %s: missing buffer lengths for %s", e.Module, strings.Join(e.Names, ", "))
}

// WGSL assembles the complete shader: consts, helper types, uniforms, input
// arrays, output arrays, helper functions and the main entry point, in that
// order. Equal modules and options give byte-identical text.
func (m *Module) WGSL(opts ShaderOptions) (string, error) {
	workgroupSize := opts.WorkgroupSize
	if workgroupSize == [3]uint32{} {
		workgroupSize = DefaultWorkgroupSize
	}

	var missing []string
	length := func(lengths map[string]uint32, name string) uint32 {
		n, ok := lengths[name]
		if !ok {
			missing = append(missing, name)
		}
		return n
	}
	binding := func(name string) string {
		slot, ok := m.Bindings[name]
		if !ok {
			missing = append(missing, "binding "+name)
		}
		return fmt.Sprintf("@group(%d) @binding(%d)", Group, slot)
	}

	var blocks []string

	// Consts
	if len(m.StaticConsts) > 0 {
		lines := make([]string, 0, len(m.StaticConsts))
		for _, c := range m.StaticConsts {
			lines = append(lines, c.Code.WGSL)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	// Helper types
	for _, t := range m.HelperTypes {
		blocks = append(blocks, t.Code.WGSL)
	}

	// Uniforms
	for _, u := range m.Uniforms {
		builder := &strings.Builder{}
		builder.WriteString(u.Code.WGSL)
		builder.WriteByte('\n')
		fmt.Fprintf(builder, "%s var<uniform> %s: %s;", binding(u.Name.UniformVar()), u.Name.UniformVar(), u.Name.Name)
		blocks = append(blocks, builder.String())
	}

	// Input arrays
	for _, in := range m.InputArrays {
		name := in.ItemType.Name
		builder := &strings.Builder{}
		builder.WriteString(in.ItemType.Code.WGSL)
		builder.WriteByte('\n')
		fmt.Fprintf(builder, "const %s: u32 = %d;\n", name.InputLengthConst(), length(opts.InputLengths, name.Name))
		fmt.Fprintf(builder, "%s var<storage, read> %s: array<%s>;", binding(name.InputArrayVar()), name.InputArrayVar(), name.Name)
		blocks = append(blocks, builder.String())
	}

	// Output arrays
	for _, out := range m.OutputArrays {
		name := out.ItemType.Name
		builder := &strings.Builder{}
		builder.WriteString(out.ItemType.Code.WGSL)
		builder.WriteByte('\n')
		fmt.Fprintf(builder, "const %s: u32 = %d;\n", name.OutputLengthConst(), length(opts.OutputLengths, name.Name))
		fmt.Fprintf(builder, "%s var<storage, read_write> %s: array<%s>;", binding(name.OutputArrayVar()), name.OutputArrayVar(), name.Name)
		if out.IncludeCount() {
			fmt.Fprintf(builder, "\n%s var<storage, read_write> %s: atomic<u32>;", binding(out.AtomicCounterName), out.AtomicCounterName)
		}
		blocks = append(blocks, builder.String())
	}

	// Functions
	for _, f := range m.HelperFunctions {
		blocks = append(blocks, f.Code.WGSL)
	}
	if m.MainFunction != nil {
		blocks = append(blocks, fmt.Sprintf("@compute @workgroup_size(%d, %d, %d)\n%s",
			workgroupSize[0], workgroupSize[1], workgroupSize[2], m.MainFunction.Code.WGSL))
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &MissingLengthsError{Module: m.Name, Names: missing}
	}
	return strings.Join(blocks, "\n\n") + "\n", nil
}

// Body returns the helper functions and the main function, the part of the
// shader written by the module author.
func (m *Module) Body() string {
	var blocks []string
	for _, f := range m.HelperFunctions {
		blocks = append(blocks, f.Code.WGSL)
	}
	if m.MainFunction != nil {
		blocks = append(blocks, m.MainFunction.Code.WGSL)
	}
	return strings.Join(blocks, "\n\n")
}

// DefaultLengths returns options giving every buffer of m the same length,
// for validating a module before real lengths are known.
func (m *Module) DefaultLengths(n uint32) ShaderOptions {
	opts := ShaderOptions{
		InputLengths:  make(map[string]uint32),
		OutputLengths: make(map[string]uint32),
	}
	for _, in := range m.InputArrays {
		opts.InputLengths[in.ItemType.Name.Name] = n
	}
	for _, out := range m.OutputArrays {
		opts.OutputLengths[out.ItemType.Name.Name] = n
	}
	return opts
}
