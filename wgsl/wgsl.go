package wgsl

//
// Iteration
//

// IterationPosition is the invocation index of the running shader. It is the
// only parameter of a module's main function and must not be assigned to.
//
//wgsl:builtin vec3<u32>
//wgsl:form iteration_position
type IterationPosition struct {
	X, Y, Z uint32
}

//
// Vectors
//

//wgsl:builtin vec2<f32>
type Vec2F32 struct {
	X, Y float32
}

//wgsl:builtin vec3<f32>
type Vec3F32 struct {
	X, Y, Z float32
}

//wgsl:builtin vec4<f32>
type Vec4F32 struct {
	X, Y, Z, W float32
}

//wgsl:builtin vec2<i32>
type Vec2I32 struct {
	X, Y int32
}

//wgsl:builtin vec3<i32>
type Vec3I32 struct {
	X, Y, Z int32
}

//wgsl:builtin vec4<i32>
type Vec4I32 struct {
	X, Y, Z, W int32
}

//wgsl:builtin vec2<u32>
type Vec2U32 struct {
	X, Y uint32
}

//wgsl:builtin vec3<u32>
type Vec3U32 struct {
	X, Y, Z uint32
}

//wgsl:builtin vec4<u32>
type Vec4U32 struct {
	X, Y, Z, W uint32
}

//wgsl:builtin vec2<f32>
func NewVec2F32(x, y float32) Vec2F32 { return Vec2F32{x, y} }

//wgsl:builtin vec3<f32>
func NewVec3F32(x, y, z float32) Vec3F32 { return Vec3F32{x, y, z} }

//wgsl:builtin vec4<f32>
func NewVec4F32(x, y, z, w float32) Vec4F32 { return Vec4F32{x, y, z, w} }

//wgsl:builtin vec2<i32>
func NewVec2I32(x, y int32) Vec2I32 { return Vec2I32{x, y} }

//wgsl:builtin vec3<i32>
func NewVec3I32(x, y, z int32) Vec3I32 { return Vec3I32{x, y, z} }

//wgsl:builtin vec4<i32>
func NewVec4I32(x, y, z, w int32) Vec4I32 { return Vec4I32{x, y, z, w} }

//wgsl:builtin vec2<u32>
func NewVec2U32(x, y uint32) Vec2U32 { return Vec2U32{x, y} }

//wgsl:builtin vec3<u32>
func NewVec3U32(x, y, z uint32) Vec3U32 { return Vec3U32{x, y, z} }

//wgsl:builtin vec4<u32>
func NewVec4U32(x, y, z, w uint32) Vec4U32 { return Vec4U32{x, y, z, w} }

//
// Buffers
//

const shaderOnly = "wgsl: only available inside a compiled shader"

// VecLen returns the number of elements of the input array T.
//
//wgsl:form input_len
func VecLen[T any]() uint32 { panic(shaderOnly) }

// VecVal returns element index of the input array T.
//
//wgsl:form input_val
func VecVal[T any](index uint32) T { panic(shaderOnly) }

// ConfigGet returns the uniform T.
//
//wgsl:form config_get
func ConfigGet[T any]() T { panic(shaderOnly) }

// Push appends value to the output vec T. Values pushed past the maximum
// length are dropped.
//
//wgsl:form output_push
func Push[T any](value T) { panic(shaderOnly) }

// Len returns the number of values pushed to the output vec T so far.
//
//wgsl:form output_len
func Len[T any]() uint32 { panic(shaderOnly) }

// MaxLen returns the capacity of the output array or vec T.
//
//wgsl:form output_max_len
func MaxLen[T any]() uint32 { panic(shaderOnly) }

// Set writes value at index of the output array T.
//
//wgsl:form output_set
func Set[T any](index uint32, value T) { panic(shaderOnly) }

//
// Built-in functions
//

type Float interface {
	~float32 | Vec2F32 | Vec3F32 | Vec4F32
}

type Number interface {
	~float32 | ~int32 | ~uint32
}

//wgsl:builtin sqrt
func Sqrt[T Float](x T) T { panic(shaderOnly) }

//wgsl:builtin abs
func Abs[T Number](x T) T { panic(shaderOnly) }

//wgsl:builtin floor
func Floor[T Float](x T) T { panic(shaderOnly) }

//wgsl:builtin ceil
func Ceil[T Float](x T) T { panic(shaderOnly) }

//wgsl:builtin min
func Min[T Number](a, b T) T { panic(shaderOnly) }

//wgsl:builtin max
func Max[T Number](a, b T) T { panic(shaderOnly) }

//wgsl:builtin clamp
func Clamp[T Number](x, low, high T) T { panic(shaderOnly) }

//wgsl:builtin dot
func Dot[T Float](a, b T) float32 { panic(shaderOnly) }

//wgsl:builtin length
func Length[T Float](x T) float32 { panic(shaderOnly) }

//wgsl:builtin distance
func Distance[T Float](a, b T) float32 { panic(shaderOnly) }

//wgsl:builtin normalize
func Normalize[T Float](x T) T { panic(shaderOnly) }
