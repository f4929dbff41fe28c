package shader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Code keeps a declaration's Go source next to the WGSL generated from it.
type Code struct {
	Go   string `json:"go"`
	WGSL string `json:"wgsl"`
}

// ConstAssignment is a module-scope const.
type ConstAssignment struct {
	Name string `json:"name"`
	Code Code   `json:"code"`
}

// Type is a struct or alias declaration.
type Type struct {
	Name TypeName `json:"name"`
	Code Code     `json:"code"`
}

// InputArray is a read-only storage buffer of ItemType records.
type InputArray struct {
	ItemType Type `json:"item_type"`
}

// OutputArray is a read-write storage buffer of ItemType records. Output vecs
// carry an atomic counter tracking how many records were pushed.
type OutputArray struct {
	ItemType          Type   `json:"item_type"`
	AtomicCounterName string `json:"atomic_counter_name,omitempty"`
}

// IncludeCount reports whether a count buffer is bound next to the array.
func (o OutputArray) IncludeCount() bool {
	return o.AtomicCounterName != ""
}

type Function struct {
	Name string `json:"name"`
	Code Code   `json:"code"`
}

// BindingTable maps buffer variable names to binding slots in group 0.
type BindingTable map[string]uint32

// Names returns the variable names ordered by slot.
func (b BindingTable) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return b[names[i]] < b[names[j]]
	})
	return names
}

// Module is a compiled shader module. It is immutable once compiled and may be
// shared by every task created from it.
type Module struct {
	Name            string            `json:"name"`
	StaticConsts    []ConstAssignment `json:"static_consts"`
	HelperTypes     []Type            `json:"helper_types"`
	Uniforms        []Type            `json:"uniforms"`
	InputArrays     []InputArray      `json:"input_arrays"`
	OutputArrays    []OutputArray     `json:"output_arrays"`
	HelperFunctions []Function        `json:"helper_functions"`
	MainFunction    *Function         `json:"main_function,omitempty"`
	Bindings        BindingTable      `json:"bindings"`
}

// EncodeModule serializes m as indented JSON. Map keys are sorted by
// encoding/json, so equal modules encode to equal bytes.
func EncodeModule(m *Module) ([]byte, error) {
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(m); err != nil {
		return nil, fmt.Errorf("encode module %s: %w", m.Name, err)
	}
	return buf.Bytes(), nil
}

func DecodeModule(data []byte) (*Module, error) {
	m := &Module{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decode module: %w", err)
	}
	return m, nil
}

// MustDecodeModule is DecodeModule for records embedded by generated code.
func MustDecodeModule(data []byte) *Module {
	m, err := DecodeModule(data)
	if err != nil {
		panic(err)
	}
	return m
}
