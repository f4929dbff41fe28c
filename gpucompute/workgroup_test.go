package gpucompute

import "testing"

func TestWorkgroupSizes(t *testing.T) {
	tests := []struct {
		sizes WorkgroupSizes
		str   string
	}{
		{OneD(), "64x1x1"},
		{TwoD(), "8x8x1"},
		{ThreeD(), "4x4x4"},
	}
	for _, tt := range tests {
		if got := tt.sizes.String(); got != tt.str {
			t.Errorf("got %s, want %s", got, tt.str)
		}
		if got := tt.sizes.Array(); got != [3]uint32{tt.sizes.X, tt.sizes.Y, tt.sizes.Z} {
			t.Errorf("Array: got %v", got)
		}
	}
}

func TestWorkgroupSizesFor(t *testing.T) {
	tests := []struct {
		space IterationSpace
		want  WorkgroupSizes
	}{
		{IterationSpace{X: 1000, Y: 1, Z: 1}, OneD()},
		{IterationSpace{X: 0, Y: 0, Z: 0}, OneD()},
		{IterationSpace{X: 100, Y: 100, Z: 1}, TwoD()},
		{IterationSpace{X: 10, Y: 10, Z: 10}, ThreeD()},
		{IterationSpace{X: 1, Y: 1, Z: 2}, ThreeD()},
	}
	for _, tt := range tests {
		if got := WorkgroupSizesFor(tt.space); got != tt.want {
			t.Errorf("%+v: got %s, want %s", tt.space, got, tt.want)
		}
	}
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		space IterationSpace
		sizes WorkgroupSizes
		want  [3]uint32
	}{
		{IterationSpace{X: 100, Y: 1, Z: 1}, OneD(), [3]uint32{2, 1, 1}},
		{IterationSpace{X: 128, Y: 1, Z: 1}, OneD(), [3]uint32{2, 1, 1}},
		{IterationSpace{X: 129, Y: 1, Z: 1}, OneD(), [3]uint32{3, 1, 1}},
		{IterationSpace{X: 17, Y: 8, Z: 1}, TwoD(), [3]uint32{3, 1, 1}},
		{IterationSpace{X: 0, Y: 0, Z: 0}, ThreeD(), [3]uint32{0, 0, 0}},
		{IterationSpace{X: 4294967295, Y: 1, Z: 1}, OneD(), [3]uint32{67108864, 1, 1}},
	}
	for _, tt := range tests {
		got, err := tt.space.Dispatch(tt.sizes)
		if err != nil {
			t.Fatalf("%+v: %v", tt.space, err)
		}
		if got != tt.want {
			t.Errorf("%+v over %s: got %v, want %v", tt.space, tt.sizes, got, tt.want)
		}
	}

	if _, err := (IterationSpace{X: 1, Y: 1, Z: 1}).Dispatch(WorkgroupSizes{X: 64, Y: 0, Z: 1}); err == nil {
		t.Error("zero dimension: expected error")
	}
}

func TestInvocations(t *testing.T) {
	s := IterationSpace{X: 65536, Y: 65536, Z: 2}
	if got := s.Invocations(); got != 1<<33 {
		t.Errorf("got %d, want %d", got, uint64(1)<<33)
	}
}
