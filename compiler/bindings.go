package compiler

import "github.com/nikki93/gxwgsl/shader"

// firstBinding is the slot of the first buffer of a module.
const firstBinding = 1

// allocateBindings numbers the buffers of a module consecutively: uniforms,
// then input arrays, then output arrays, each output vec followed directly by
// its counter. Within a category, declaration order is kept.
func allocateBindings(customTypes []*CustomType) shader.BindingTable {
	table := make(shader.BindingTable)
	next := uint32(firstBinding)
	assign := func(name string) {
		table[name] = next
		next++
	}
	for _, ct := range customTypes {
		if ct.Role == Uniform {
			assign(ct.Name.UniformVar())
		}
	}
	for _, ct := range customTypes {
		if ct.Role == InputArray {
			assign(ct.Name.InputArrayVar())
		}
	}
	for _, ct := range customTypes {
		if ct.Role.IsOutput() {
			assign(ct.Name.OutputArrayVar())
			if ct.Role == OutputVec {
				assign(ct.Name.CounterVar())
			}
		}
	}
	return table
}
