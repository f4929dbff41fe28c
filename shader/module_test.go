package shader

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func testModule() *Module {
	position := NewTypeName("Position")
	hit := NewTypeName("Hit")
	params := NewTypeName("Params")
	return &Module{
		Name: "test",
		StaticConsts: []ConstAssignment{
			{Name: "scale", Code: Code{Go: "const scale float32 = 2.5", WGSL: "const scale: f32 = 2.5;"}},
			{Name: "limit", Code: Code{Go: "const limit = 4", WGSL: "const limit = 4;"}},
		},
		HelperTypes: []Type{
			{Name: NewTypeName("Pair"), Code: Code{WGSL: "struct Pair {\n    A: f32,\n    B: f32,\n}"}},
		},
		Uniforms: []Type{
			{Name: params, Code: Code{WGSL: "struct Params {\n    Scale: f32,\n}"}},
		},
		InputArrays: []InputArray{
			{ItemType: Type{Name: position, Code: Code{WGSL: "alias Position = array<f32, 2>;"}}},
		},
		OutputArrays: []OutputArray{
			{
				ItemType:          Type{Name: hit, Code: Code{WGSL: "struct Hit {\n    ID: u32,\n}"}},
				AtomicCounterName: hit.CounterVar(),
			},
		},
		HelperFunctions: []Function{
			{Name: "twice", Code: Code{WGSL: "fn twice(x: f32) -> f32 {\n    return x * 2.0;\n}"}},
		},
		MainFunction: &Function{
			Name: "main",
			Code: Code{WGSL: "fn main(@builtin(global_invocation_id) p: vec3<u32>) {\n}"},
		},
		Bindings: BindingTable{
			"params":               1,
			"position_input_array": 2,
			"hit_output_array":     3,
			"hit_counter":          4,
		},
	}
}

func TestModuleWGSL(t *testing.T) {
	m := testModule()
	got, err := m.WGSL(ShaderOptions{
		WorkgroupSize: [3]uint32{8, 8, 1},
		InputLengths:  map[string]uint32{"Position": 10},
		OutputLengths: map[string]uint32{"Hit": 20},
	})
	if err != nil {
		t.Fatalf("WGSL failed: %v", err)
	}

	want := `const scale: f32 = 2.5;
const limit = 4;

struct Pair {
    A: f32,
    B: f32,
}

struct Params {
    Scale: f32,
}
@group(0) @binding(1) var<uniform> params: Params;

alias Position = array<f32, 2>;
const POSITION_INPUT_ARRAY_LENGTH: u32 = 10;
@group(0) @binding(2) var<storage, read> position_input_array: array<Position>;

struct Hit {
    ID: u32,
}
const HIT_OUTPUT_ARRAY_LENGTH: u32 = 20;
@group(0) @binding(3) var<storage, read_write> hit_output_array: array<Hit>;
@group(0) @binding(4) var<storage, read_write> hit_counter: atomic<u32>;

fn twice(x: f32) -> f32 {
    return x * 2.0;
}

@compute @workgroup_size(8, 8, 1)
fn main(@builtin(global_invocation_id) p: vec3<u32>) {
}
`
	if got != want {
		t.Errorf("WGSL mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}

	again, _ := m.WGSL(ShaderOptions{
		WorkgroupSize: [3]uint32{8, 8, 1},
		InputLengths:  map[string]uint32{"Position": 10},
		OutputLengths: map[string]uint32{"Hit": 20},
	})
	if again != got {
		t.Error("assembly is not deterministic")
	}
}

func TestModuleWGSLDefaultWorkgroupSize(t *testing.T) {
	m := testModule()
	got, err := m.WGSL(m.DefaultLengths(1))
	if err != nil {
		t.Fatalf("WGSL failed: %v", err)
	}
	if !strings.Contains(got, "@compute @workgroup_size(64, 1, 1)\n") {
		t.Errorf("missing default workgroup size in:\n%s", got)
	}
}

func TestModuleWGSLMissingLengths(t *testing.T) {
	m := testModule()
	_, err := m.WGSL(ShaderOptions{})
	var missing *MissingLengthsError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingLengthsError", err)
	}
	if want := []string{"Hit", "Position"}; !reflect.DeepEqual(missing.Names, want) {
		t.Errorf("missing names: got %v, want %v", missing.Names, want)
	}
	if !strings.Contains(err.Error(), "module test") {
		t.Errorf("error does not name the module: %v", err)
	}
}

func TestModuleBody(t *testing.T) {
	m := testModule()
	want := "fn twice(x: f32) -> f32 {\n    return x * 2.0;\n}\n\nfn main(@builtin(global_invocation_id) p: vec3<u32>) {\n}"
	if got := m.Body(); got != want {
		t.Errorf("Body: got %q, want %q", got, want)
	}
}

func TestBindingTableNames(t *testing.T) {
	got := testModule().Bindings.Names()
	want := []string{"params", "position_input_array", "hit_output_array", "hit_counter"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names: got %v, want %v", got, want)
	}
}

func TestEncodeDecodeModule(t *testing.T) {
	m := testModule()
	data, err := EncodeModule(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(data), `"wgsl": "alias Position = array<f32, 2>;"`) {
		t.Errorf("encoded module escapes WGSL:\n%s", data)
	}

	decoded, err := DecodeModule(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, m) {
		t.Errorf("decoded module differs:\n%#v\nwant:\n%#v", decoded, m)
	}

	again, err := EncodeModule(decoded)
	if err != nil {
		t.Fatalf("encode again: %v", err)
	}
	if string(again) != string(data) {
		t.Error("encoding is not deterministic")
	}

	if _, err := DecodeModule([]byte("{")); err == nil {
		t.Error("decode of truncated JSON: expected error")
	}
}

func TestIncludeCount(t *testing.T) {
	if (OutputArray{}).IncludeCount() {
		t.Error("output array without counter name includes count")
	}
	if !(OutputArray{AtomicCounterName: "hit_counter"}).IncludeCount() {
		t.Error("output vec does not include count")
	}
}
