package gpucompute

import "fmt"

// WorkgroupSizes is the @workgroup_size of a compiled shader.
type WorkgroupSizes struct {
	X, Y, Z uint32
}

// OneD suits iteration spaces that only vary in x.
func OneD() WorkgroupSizes { return WorkgroupSizes{X: 64, Y: 1, Z: 1} }

func TwoD() WorkgroupSizes { return WorkgroupSizes{X: 8, Y: 8, Z: 1} }

func ThreeD() WorkgroupSizes { return WorkgroupSizes{X: 4, Y: 4, Z: 4} }

func (w WorkgroupSizes) Array() [3]uint32 {
	return [3]uint32{w.X, w.Y, w.Z}
}

func (w WorkgroupSizes) String() string {
	return fmt.Sprintf("%dx%dx%d", w.X, w.Y, w.Z)
}

// IterationSpace is the number of invocations along each axis. Each invocation
// sees its coordinates as the iteration position.
type IterationSpace struct {
	X, Y, Z uint32
}

// WorkgroupSizesFor picks the workgroup shape matching the dimensionality of s.
func WorkgroupSizesFor(s IterationSpace) WorkgroupSizes {
	switch {
	case s.Z > 1:
		return ThreeD()
	case s.Y > 1:
		return TwoD()
	}
	return OneD()
}

// Dispatch returns the number of workgroups to dispatch along each axis so
// every position of s is covered.
func (s IterationSpace) Dispatch(w WorkgroupSizes) ([3]uint32, error) {
	if w.X == 0 || w.Y == 0 || w.Z == 0 {
		return [3]uint32{}, fmt.Errorf("workgroup size %s has a zero dimension", w)
	}
	return [3]uint32{ceilDiv(s.X, w.X), ceilDiv(s.Y, w.Y), ceilDiv(s.Z, w.Z)}, nil
}

func (s IterationSpace) Invocations() uint64 {
	return uint64(s.X) * uint64(s.Y) * uint64(s.Z)
}

func ceilDiv(n, d uint32) uint32 {
	return uint32((uint64(n) + uint64(d) - 1) / uint64(d))
}
