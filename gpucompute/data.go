// Package gpucompute is the host-side runtime for compiled shader modules. It
// holds encoded task data keyed by type name, turns a module's binding table
// into gputypes bind group descriptions and checks output memory budgets.
//
// Generated builders fill the type-erased containers; nothing here knows the
// Go types of a module.
package gpucompute

import "maps"

// ArrayData is an encoded array of records.
type ArrayData struct {
	Bytes      []byte
	Length     int
	RecordSize int
}

// TypeErasedConfigInputData holds the encoded value of every uniform of a
// task, keyed by type name.
type TypeErasedConfigInputData struct {
	values map[string][]byte
}

func NewTypeErasedConfigInputData(values map[string][]byte) *TypeErasedConfigInputData {
	return &TypeErasedConfigInputData{values: maps.Clone(values)}
}

// Bytes returns the encoded uniform for name.
func (d *TypeErasedConfigInputData) Bytes(name string) ([]byte, bool) {
	if d == nil {
		return nil, false
	}
	b, ok := d.values[name]
	return b, ok
}

// Map returns a copy of the encoded values.
func (d *TypeErasedConfigInputData) Map() map[string][]byte {
	if d == nil {
		return map[string][]byte{}
	}
	return maps.Clone(d.values)
}

// TypeErasedArrayInputData holds the encoded records of every input array of
// a task, keyed by type name.
type TypeErasedArrayInputData struct {
	arrays map[string]ArrayData
}

func NewTypeErasedArrayInputData(arrays map[string]ArrayData) *TypeErasedArrayInputData {
	return &TypeErasedArrayInputData{arrays: maps.Clone(arrays)}
}

// Length returns the number of records set for name.
func (d *TypeErasedArrayInputData) Length(name string) (int, bool) {
	array, ok := d.Array(name)
	return array.Length, ok
}

func (d *TypeErasedArrayInputData) Array(name string) (ArrayData, bool) {
	if d == nil {
		return ArrayData{}, false
	}
	array, ok := d.arrays[name]
	return array, ok
}

// Map returns a copy of the encoded bytes keyed by type name.
func (d *TypeErasedArrayInputData) Map() map[string][]byte {
	result := make(map[string][]byte)
	if d == nil {
		return result
	}
	for name, array := range d.arrays {
		result[name] = array.Bytes
	}
	return result
}

// Lengths returns the input lengths keyed by type name, the form
// shader.ShaderOptions takes.
func (d *TypeErasedArrayInputData) Lengths() map[string]uint32 {
	result := make(map[string]uint32)
	if d == nil {
		return result
	}
	for name, array := range d.arrays {
		result[name] = uint32(array.Length)
	}
	return result
}

// TypeErasedArrayOutputData holds the bytes read back from every output
// buffer of a task, keyed by type name. Output vecs are already truncated to
// their counter.
type TypeErasedArrayOutputData struct {
	values map[string][]byte
}

func NewTypeErasedArrayOutputData(values map[string][]byte) *TypeErasedArrayOutputData {
	return &TypeErasedArrayOutputData{values: maps.Clone(values)}
}

func (d *TypeErasedArrayOutputData) Bytes(name string) ([]byte, bool) {
	if d == nil {
		return nil, false
	}
	b, ok := d.values[name]
	return b, ok
}

// MaxOutputLengths is the capacity of every output buffer of a task, keyed by
// type name.
type MaxOutputLengths struct {
	entries map[string]outputLength
}

type outputLength struct {
	length     int
	recordSize int
}

func NewMaxOutputLengths() *MaxOutputLengths {
	return &MaxOutputLengths{entries: make(map[string]outputLength)}
}

// Set records the capacity of output name, in records of recordSize bytes.
func (m *MaxOutputLengths) Set(name string, length, recordSize int) {
	m.entries[name] = outputLength{length: length, recordSize: recordSize}
}

// Get returns the capacity of output name, or 0 when unset.
func (m *MaxOutputLengths) Get(name string) int {
	if m == nil {
		return 0
	}
	return m.entries[name].length
}

// Lookup returns the capacity of output name and whether it was set.
func (m *MaxOutputLengths) Lookup(name string) (int, bool) {
	if m == nil {
		return 0, false
	}
	entry, ok := m.entries[name]
	return entry.length, ok
}

// RecordSize returns the encoded size of one record of output name.
func (m *MaxOutputLengths) RecordSize(name string) int {
	if m == nil {
		return 0
	}
	return m.entries[name].recordSize
}

// Bytes is the size of output name at full capacity.
func (m *MaxOutputLengths) Bytes(name string) uint64 {
	return uint64(m.Get(name)) * uint64(m.RecordSize(name))
}

func (m *MaxOutputLengths) TotalBytes() uint64 {
	if m == nil {
		return 0
	}
	var total uint64
	for name := range m.entries {
		total += m.Bytes(name)
	}
	return total
}

// Lengths returns the capacities keyed by type name, the form
// shader.ShaderOptions takes.
func (m *MaxOutputLengths) Lengths() map[string]uint32 {
	result := make(map[string]uint32)
	if m == nil {
		return result
	}
	for name, entry := range m.entries {
		result[name] = uint32(entry.length)
	}
	return result
}
