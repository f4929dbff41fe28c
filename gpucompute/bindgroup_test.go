package gpucompute

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/nikki93/gxwgsl/shader"
)

func testModule() *shader.Module {
	params := shader.NewTypeName("Params")
	position := shader.NewTypeName("Position")
	cell := shader.NewTypeName("Cell")
	hit := shader.NewTypeName("Hit")
	return &shader.Module{
		Name:        "test",
		Uniforms:    []shader.Type{{Name: params}},
		InputArrays: []shader.InputArray{{ItemType: shader.Type{Name: position}}},
		OutputArrays: []shader.OutputArray{
			{ItemType: shader.Type{Name: cell}},
			{ItemType: shader.Type{Name: hit}, AtomicCounterName: hit.CounterVar()},
		},
		Bindings: shader.BindingTable{
			"params":               1,
			"position_input_array": 2,
			"cell_output_array":    3,
			"hit_output_array":     4,
			"hit_counter":          5,
		},
	}
}

type testBuffer uintptr

func (b testBuffer) NativeHandle() uintptr { return uintptr(b) }

func fullBuffers() *TaskBuffers {
	return &TaskBuffers{
		Config:       []Buffer{testBuffer(100)},
		Input:        []Buffer{testBuffer(200)},
		Output:       []Buffer{testBuffer(300), testBuffer(400)},
		OutputCounts: []Buffer{nil, testBuffer(500)},
	}
}

func TestBindGroupEntries(t *testing.T) {
	entries, err := BindGroupEntries("task", testModule(), fullBuffers())
	if err != nil {
		t.Fatalf("BindGroupEntries: %v", err)
	}

	want := []struct {
		binding uint32
		handle  uintptr
	}{
		{1, 100},
		{2, 200},
		{3, 300},
		{4, 400},
		{5, 500},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		entry := entries[i]
		if entry.Binding != w.binding {
			t.Errorf("entry %d: binding %d, want %d", i, entry.Binding, w.binding)
		}
		resource, ok := entry.Resource.(gputypes.BufferBinding)
		if !ok {
			t.Fatalf("entry %d: resource is %T", i, entry.Resource)
		}
		if resource.Buffer != w.handle || resource.Offset != 0 || resource.Size != 0 {
			t.Errorf("entry %d: got %+v, want whole buffer %d", i, resource, w.handle)
		}
	}
}

func TestBindGroupEntriesMissingBuffer(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(b *TaskBuffers)
		kind    string
		index   int
		varName string
	}{
		{"config", func(b *TaskBuffers) { b.Config = nil }, "config", 0, "params"},
		{"input", func(b *TaskBuffers) { b.Input[0] = nil }, "input", 0, "position_input_array"},
		{"output", func(b *TaskBuffers) { b.Output = b.Output[:1] }, "output", 1, "hit_output_array"},
		{"output count", func(b *TaskBuffers) { b.OutputCounts[1] = nil }, "output count", 1, "hit_counter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buffers := fullBuffers()
			tt.modify(buffers)
			_, err := BindGroupEntries("task", testModule(), buffers)
			var missing *MissingBufferError
			if !errors.As(err, &missing) {
				t.Fatalf("got %v, want MissingBufferError", err)
			}
			if missing.Task != "task" || missing.Kind != tt.kind || missing.Index != tt.index || missing.Name != tt.varName {
				t.Errorf("got %+v", missing)
			}
		})
	}
}

type recordingDevice struct {
	label   string
	layout  uintptr
	entries []gputypes.BindGroupEntry
	err     error
}

func (d *recordingDevice) CreateBindGroup(label string, layout uintptr, entries []gputypes.BindGroupEntry) (uintptr, error) {
	d.label, d.layout, d.entries = label, layout, entries
	return 42, d.err
}

func TestCreateBindGroup(t *testing.T) {
	device := &recordingDevice{}
	group, err := CreateBindGroup(device, "task", 7, testModule(), fullBuffers())
	if err != nil {
		t.Fatalf("CreateBindGroup: %v", err)
	}
	if group != 42 || device.label != "task" || device.layout != 7 || len(device.entries) != 5 {
		t.Errorf("got group %d, label %q, layout %d, %d entries", group, device.label, device.layout, len(device.entries))
	}

	device.err = errors.New("device lost")
	if _, err := CreateBindGroup(device, "task", 7, testModule(), fullBuffers()); !errors.Is(err, device.err) {
		t.Errorf("got %v, want wrapped device error", err)
	}

	device = &recordingDevice{}
	if _, err := CreateBindGroup(device, "task", 7, testModule(), nil); err == nil {
		t.Error("no buffers: expected error")
	}
	if device.entries != nil {
		t.Error("device called without buffers")
	}
}

func TestBindGroupLayoutEntries(t *testing.T) {
	entries := BindGroupLayoutEntries(testModule())
	want := []struct {
		binding uint32
		typ     gputypes.BufferBindingType
	}{
		{1, gputypes.BufferBindingTypeUniform},
		{2, gputypes.BufferBindingTypeReadOnlyStorage},
		{3, gputypes.BufferBindingTypeStorage},
		{4, gputypes.BufferBindingTypeStorage},
		{5, gputypes.BufferBindingTypeStorage},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		entry := entries[i]
		if entry.Binding != w.binding {
			t.Errorf("entry %d: binding %d, want %d", i, entry.Binding, w.binding)
		}
		if entry.Visibility != gputypes.ShaderStageCompute {
			t.Errorf("entry %d: visibility %v, want compute", i, entry.Visibility)
		}
		if entry.Buffer == nil || entry.Buffer.Type != w.typ {
			t.Errorf("entry %d: buffer layout %+v, want type %v", i, entry.Buffer, w.typ)
		}
	}
}
