package gpucompute

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/nikki93/gxwgsl/shader"
)

// Buffer is a GPU buffer created by the caller for one binding.
type Buffer interface {
	NativeHandle() uintptr
}

// TaskBuffers are the buffers created for one task. Each slice is indexed
// like the matching list of the module: Config by Uniforms, Input by
// InputArrays, Output and OutputCounts by OutputArrays. OutputCounts entries
// are only read for output vecs.
type TaskBuffers struct {
	Config       []Buffer
	Input        []Buffer
	Output       []Buffer
	OutputCounts []Buffer
}

// Device creates bind groups. It is implemented by the caller's GPU backend.
type Device interface {
	CreateBindGroup(label string, layout uintptr, entries []gputypes.BindGroupEntry) (uintptr, error)
}

// MissingBufferError reports a binding without a buffer.
type MissingBufferError struct {
	Task  string
	Kind  string
	Index int
	Name  string
}

func (e *MissingBufferError) Error() string {
	return fmt.Sprintf("task %s: %s buffer %d (%s) has not been set", e.Task, e.Kind, e.Index, e.Name)
}

func bufferAt(buffers []Buffer, i int) Buffer {
	if i < len(buffers) {
		return buffers[i]
	}
	return nil
}

// BindGroupEntries pairs every buffer of a task with its binding slot.
func BindGroupEntries(task string, m *shader.Module, buffers *TaskBuffers) ([]gputypes.BindGroupEntry, error) {
	logger().Debug("gpucompute: creating bind group entries", "task", task)
	if buffers == nil {
		buffers = &TaskBuffers{}
	}

	var entries []gputypes.BindGroupEntry
	add := func(kind string, i int, varName string, buf Buffer) error {
		if buf == nil {
			err := &MissingBufferError{Task: task, Kind: kind, Index: i, Name: varName}
			logger().Error("gpucompute: missing buffer", "task", task, "kind", kind, "index", i, "var", varName)
			return err
		}
		binding, ok := m.Bindings[varName]
		if !ok {
			return fmt.Errorf("task %s: module %s has no binding for %s", task, m.Name, varName)
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding: binding,
			Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(),
				Offset: 0,
				Size:   0, // 0 = entire buffer
			},
		})
		logger().Debug("gpucompute: bind group entry", "task", task, "var", varName, "binding", binding)
		return nil
	}

	for i, u := range m.Uniforms {
		if err := add("config", i, u.Name.UniformVar(), bufferAt(buffers.Config, i)); err != nil {
			return nil, err
		}
	}
	for i, in := range m.InputArrays {
		if err := add("input", i, in.ItemType.Name.InputArrayVar(), bufferAt(buffers.Input, i)); err != nil {
			return nil, err
		}
	}
	for i, out := range m.OutputArrays {
		if err := add("output", i, out.ItemType.Name.OutputArrayVar(), bufferAt(buffers.Output, i)); err != nil {
			return nil, err
		}
		if out.IncludeCount() {
			if err := add("output count", i, out.AtomicCounterName, bufferAt(buffers.OutputCounts, i)); err != nil {
				return nil, err
			}
		}
	}
	return entries, nil
}

// CreateBindGroup builds the entries of a task and hands them to device.
func CreateBindGroup(device Device, task string, layout uintptr, m *shader.Module, buffers *TaskBuffers) (uintptr, error) {
	entries, err := BindGroupEntries(task, m, buffers)
	if err != nil {
		return 0, err
	}
	group, err := device.CreateBindGroup(task, layout, entries)
	if err != nil {
		return 0, fmt.Errorf("task %s: create bind group: %w", task, err)
	}
	return group, nil
}

// BindGroupLayoutEntries describes the bind group layout of a module, in slot
// order: uniforms are uniform buffers, input arrays read-only storage, output
// arrays and counters read-write storage.
func BindGroupLayoutEntries(m *shader.Module) []gputypes.BindGroupLayoutEntry {
	entry := func(varName string, bindingType gputypes.BufferBindingType) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    m.Bindings[varName],
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: bindingType},
		}
	}

	var entries []gputypes.BindGroupLayoutEntry
	for _, u := range m.Uniforms {
		entries = append(entries, entry(u.Name.UniformVar(), gputypes.BufferBindingTypeUniform))
	}
	for _, in := range m.InputArrays {
		entries = append(entries, entry(in.ItemType.Name.InputArrayVar(), gputypes.BufferBindingTypeReadOnlyStorage))
	}
	for _, out := range m.OutputArrays {
		entries = append(entries, entry(out.ItemType.Name.OutputArrayVar(), gputypes.BufferBindingTypeStorage))
		if out.IncludeCount() {
			entries = append(entries, entry(out.AtomicCounterName, gputypes.BufferBindingTypeStorage))
		}
	}
	return entries
}
