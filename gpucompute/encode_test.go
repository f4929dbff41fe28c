package gpucompute

import (
	"bytes"
	"encoding/binary"
	"math"
	"reflect"
	"testing"

	"github.com/nikki93/gxwgsl/wgsl"
)

type pair struct {
	A float32
	B uint32
}

type padded struct {
	Time float32
	Pos  wgsl.Vec3F32
	ID   uint32
}

type withArray struct {
	Weights [3]float32
	Dirs    [2]wgsl.Vec3F32
}

type unexported struct {
	a float32
}

func TestRecordSize(t *testing.T) {
	tests := []struct {
		name string
		size func() (int, error)
		want int
	}{
		{"float32", RecordSize[float32], 4},
		{"int32", RecordSize[int32], 4},
		{"int", RecordSize[int], 4},
		{"array", RecordSize[[2]float32], 8},
		{"pair", RecordSize[pair], 8},
		{"vec2", RecordSize[wgsl.Vec2F32], 8},
		{"vec3", RecordSize[wgsl.Vec3F32], 12},
		{"vec4", RecordSize[wgsl.Vec4U32], 16},
		// Pos aligns to 16, ID fills the vec3's tail, the struct rounds to 16
		{"padded", RecordSize[padded], 32},
		// Weights 12, Dirs at 16 with a 16 byte stride
		{"with array", RecordSize[withArray], 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.size()
			if err != nil {
				t.Fatalf("RecordSize: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecordSizeErrors(t *testing.T) {
	if _, err := RecordSize[float64](); err == nil {
		t.Error("float64: expected error")
	}
	if _, err := RecordSize[unexported](); err == nil {
		t.Error("unexported field: expected error")
	}
	if _, err := RecordSize[[]float32](); err == nil {
		t.Error("slice: expected error")
	}
}

func TestEncodeLayout(t *testing.T) {
	data, err := EncodeValue(padded{Time: 1.5, Pos: wgsl.Vec3F32{X: 1, Y: 2, Z: 3}, ID: 7})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := make([]byte, 32)
	binary.LittleEndian.PutUint32(want[0:], math.Float32bits(1.5))
	binary.LittleEndian.PutUint32(want[16:], math.Float32bits(1))
	binary.LittleEndian.PutUint32(want[20:], math.Float32bits(2))
	binary.LittleEndian.PutUint32(want[24:], math.Float32bits(3))
	binary.LittleEndian.PutUint32(want[28:], 7)
	if !bytes.Equal(data, want) {
		t.Errorf("got % x\nwant % x", data, want)
	}
}

func TestEncodeDecodeSlice(t *testing.T) {
	tests := []struct {
		name  string
		check func(t *testing.T)
	}{
		{"pair", roundTrip([]pair{{1.5, 1}, {-2, math.MaxUint32}})},
		{"padded", roundTrip([]padded{{Time: 0.25, Pos: wgsl.Vec3F32{X: 1, Y: 2, Z: 3}, ID: 9}})},
		{"with array", roundTrip([]withArray{{
			Weights: [3]float32{1, 2, 3},
			Dirs:    [2]wgsl.Vec3F32{{X: 1}, {Y: 1}},
		}})},
		{"ints", roundTrip([]int{-1, 0, math.MaxInt32})},
		{"empty", roundTrip([]pair{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, tt.check)
	}
}

func roundTrip[T any](values []T) func(t *testing.T) {
	return func(t *testing.T) {
		data, err := EncodeSlice(values)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		size, _ := RecordSize[T]()
		if len(data) != size*len(values) {
			t.Errorf("encoded %d bytes, want %d", len(data), size*len(values))
		}
		got, err := DecodeSlice[T](data)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(got, values) {
			t.Errorf("got %v, want %v", got, values)
		}
	}
}

func TestEncodeOverflow(t *testing.T) {
	big := int64(math.MaxInt32) + 1
	if _, err := EncodeSlice([]int{int(big)}); err == nil {
		t.Error("int overflowing i32: expected error")
	}
	if _, err := EncodeSlice([]uint{uint(big) * 2}); err == nil {
		t.Error("uint overflowing u32: expected error")
	}
}

func TestDecodeSliceLength(t *testing.T) {
	if _, err := DecodeSlice[pair](make([]byte, 12)); err == nil {
		t.Error("12 bytes of 8 byte records: expected error")
	}
}
