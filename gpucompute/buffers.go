package gpucompute

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/nikki93/gxwgsl/shader"
)

const (
	uniformAlign = 16
	storageAlign = 4
	counterSize  = 4
)

// BufferSpec describes the buffer to create for one binding of a task.
type BufferSpec struct {
	Var        string
	Binding    uint32
	Descriptor gputypes.BufferDescriptor
}

func alignSize(size, align uint64) uint64 {
	if size == 0 {
		size = align
	}
	return (size + align - 1) / align * align
}

// BufferSpecs sizes every buffer of a task from its data and output
// capacities, in slot order. Input arrays are never smaller than one record,
// so an empty input still binds.
func BufferSpecs(task string, m *shader.Module, config *TypeErasedConfigInputData, input *TypeErasedArrayInputData, maxOutput *MaxOutputLengths) ([]BufferSpec, error) {
	var specs []BufferSpec
	add := func(varName string, size uint64, usage gputypes.BufferUsage) {
		specs = append(specs, BufferSpec{
			Var:     varName,
			Binding: m.Bindings[varName],
			Descriptor: gputypes.BufferDescriptor{
				Label: task + ":" + varName,
				Size:  size,
				Usage: usage,
			},
		})
	}

	for _, u := range m.Uniforms {
		value, ok := config.Bytes(u.Name.Name)
		if !ok {
			return nil, fmt.Errorf("task %s: config %s has not been set", task, u.Name.Name)
		}
		add(u.Name.UniformVar(), alignSize(uint64(len(value)), uniformAlign),
			gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	}
	for _, in := range m.InputArrays {
		array, ok := input.Array(in.ItemType.Name.Name)
		if !ok {
			return nil, fmt.Errorf("task %s: input %s has not been set", task, in.ItemType.Name.Name)
		}
		size := max(uint64(len(array.Bytes)), uint64(array.RecordSize))
		add(in.ItemType.Name.InputArrayVar(), alignSize(size, storageAlign),
			gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	}
	for _, out := range m.OutputArrays {
		name := out.ItemType.Name.Name
		if _, ok := maxOutput.Lookup(name); !ok {
			return nil, fmt.Errorf("task %s: output %s has not been set", task, name)
		}
		size := max(maxOutput.Bytes(name), uint64(maxOutput.RecordSize(name)))
		add(out.ItemType.Name.OutputArrayVar(), alignSize(size, storageAlign),
			gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc)
		if out.IncludeCount() {
			add(out.AtomicCounterName, counterSize,
				gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc|gputypes.BufferUsageCopyDst)
		}
	}
	return specs, nil
}

// ShaderOptions returns the assembly options matching a task's data.
func ShaderOptions(input *TypeErasedArrayInputData, maxOutput *MaxOutputLengths, workgroup WorkgroupSizes) shader.ShaderOptions {
	return shader.ShaderOptions{
		WorkgroupSize: workgroup.Array(),
		InputLengths:  input.Lengths(),
		OutputLengths: maxOutput.Lengths(),
	}
}
