package compiler

import "strings"

var wgslKeywords = words(`
	alias break case const const_assert continue continuing default diagnostic
	discard else enable false fn for if let loop override requires return
	struct switch true var while
`)

var wgslReserved = words(`
	NULL Self abstract active alignas alignof as asm asm_fragment async
	attribute auto await become binding_array cast catch class co_await
	co_return co_yield coherent column_major common compile compile_fragment
	concept const_cast consteval constexpr constinit crate debugger decltype
	delete demote demote_to_helper do dynamic_cast enum explicit export
	extends extern external fallthrough filter final finally friend from
	fxgroup get goto groupshared highp impl implements import inline
	instanceof interface layout lowp macro macro_rules match mediump meta mod
	module move mut mutable namespace new nil noexcept noinline
	nointerpolation noperspective null nullptr of operator package packoffset
	partition pass patch pixelfragment precise precision premerge priv
	protected pub public readonly ref regardless register reinterpret_cast
	require resource restrict self set shared sizeof smooth snorm static
	static_assert static_cast std subroutine super target template this
	thread_local throw trait try type typedef typeid typename typeof union
	unless unorm unsafe unsized use using varying virtual volatile wgsl where
	with writeonly yield
`)

// Predeclared types and their shorthand aliases.
var wgslTypes = words(`
	array atomic bool f16 f32 i32 u32 ptr sampler sampler_comparison
	vec2 vec3 vec4 vec2f vec3f vec4f vec2h vec3h vec4h vec2i vec3i vec4i
	vec2u vec3u vec4u
	mat2x2 mat2x3 mat2x4 mat3x2 mat3x3 mat3x4 mat4x2 mat4x3 mat4x4
	mat2x2f mat2x3f mat2x4f mat3x2f mat3x3f mat3x4f mat4x2f mat4x3f mat4x4f
	mat2x2h mat2x3h mat2x4h mat3x2h mat3x3h mat3x4h mat4x2h mat4x3h mat4x4h
`)

var wgslBuiltinFuncs = words(`
	abs acos acosh all any arrayLength asin asinh atan atan2 atanh bitcast
	ceil clamp cos cosh countLeadingZeros countOneBits countTrailingZeros
	cross degrees determinant distance dot dot4I8Packed dot4U8Packed exp exp2
	extractBits faceForward firstLeadingBit firstTrailingBit floor fma fract
	frexp insertBits inverseSqrt ldexp length log log2 max min mix modf
	normalize pow quantizeToF16 radians reflect refract reverseBits round
	saturate select sign sin sinh smoothstep sqrt step tan tanh transpose
	trunc
	atomicLoad atomicStore atomicAdd atomicSub atomicMax atomicMin atomicAnd
	atomicOr atomicXor atomicExchange atomicCompareExchangeWeak
	pack4x8snorm pack4x8unorm pack4xI8 pack4xU8 pack4xI8Clamp pack4xU8Clamp
	pack2x16snorm pack2x16unorm pack2x16float unpack4x8snorm unpack4x8unorm
	unpack4xI8 unpack4xU8 unpack2x16snorm unpack2x16unorm unpack2x16float
	storageBarrier textureBarrier workgroupBarrier workgroupUniformLoad
	dpdx dpdxCoarse dpdxFine dpdy dpdyCoarse dpdyFine fwidth fwidthCoarse
	fwidthFine
	textureDimensions textureGather textureGatherCompare textureLoad
	textureNumLayers textureNumLevels textureNumSamples textureSample
	textureSampleBias textureSampleCompare textureSampleCompareLevel
	textureSampleGrad textureSampleLevel textureSampleBaseClampToEdge
	textureStore
`)

func words(list string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(list) {
		set[word] = true
	}
	return set
}

// reservedKind describes why name cannot be used as a WGSL identifier, or
// returns false when it can.
func reservedKind(name string) (string, bool) {
	switch {
	case wgslKeywords[name]:
		return "a WGSL keyword", true
	case wgslReserved[name]:
		return "a reserved word in WGSL", true
	case wgslTypes[name]:
		return "a predeclared WGSL type", true
	case wgslBuiltinFuncs[name]:
		return "a WGSL built-in function", true
	case strings.HasPrefix(name, "__"):
		return "reserved in WGSL", true
	case strings.HasPrefix(name, "texture_"):
		return "a predeclared WGSL type", true
	}
	return "", false
}
