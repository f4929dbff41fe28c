package gpucompute

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"sync"

	"github.com/nikki93/gxwgsl/wgsl"
)

// Records are laid out the way WGSL lays out host-shareable types in storage
// buffers: scalars are 4 bytes, vectors align to their size rounded up to a
// power of two, array strides round the element up to its alignment and
// struct members are placed at their alignment. Padding is zero.

type layout struct {
	size    int
	align   int
	offsets []int
}

var vectorLayouts = map[reflect.Type]layout{
	reflect.TypeOf(wgsl.Vec2F32{}): {size: 8, align: 8},
	reflect.TypeOf(wgsl.Vec3F32{}): {size: 12, align: 16},
	reflect.TypeOf(wgsl.Vec4F32{}): {size: 16, align: 16},
	reflect.TypeOf(wgsl.Vec2I32{}): {size: 8, align: 8},
	reflect.TypeOf(wgsl.Vec3I32{}): {size: 12, align: 16},
	reflect.TypeOf(wgsl.Vec4I32{}): {size: 16, align: 16},
	reflect.TypeOf(wgsl.Vec2U32{}): {size: 8, align: 8},
	reflect.TypeOf(wgsl.Vec3U32{}): {size: 12, align: 16},
	reflect.TypeOf(wgsl.Vec4U32{}): {size: 16, align: 16},
}

var layoutCache sync.Map

func roundUp(align, n int) int {
	return (n + align - 1) / align * align
}

func layoutOf(t reflect.Type) (layout, error) {
	if cached, ok := layoutCache.Load(t); ok {
		return cached.(layout), nil
	}
	l, err := computeLayout(t)
	if err != nil {
		return layout{}, err
	}
	layoutCache.Store(t, l)
	return l, nil
}

func computeLayout(t reflect.Type) (layout, error) {
	switch t.Kind() {
	case reflect.Float32, reflect.Int32, reflect.Uint32, reflect.Int, reflect.Uint:
		return layout{size: 4, align: 4}, nil
	case reflect.Array:
		elem, err := layoutOf(t.Elem())
		if err != nil {
			return layout{}, err
		}
		stride := roundUp(elem.align, elem.size)
		return layout{size: stride * t.Len(), align: elem.align}, nil
	case reflect.Struct:
		l := layout{align: 1, offsets: make([]int, t.NumField())}
		offset := 0
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				return layout{}, fmt.Errorf("%s: field %s must be exported to be encoded", t, field.Name)
			}
			fl, err := layoutOf(field.Type)
			if err != nil {
				return layout{}, fmt.Errorf("%s.%s: %w", t, field.Name, err)
			}
			offset = roundUp(fl.align, offset)
			l.offsets[i] = offset
			offset += fl.size
			l.align = max(l.align, fl.align)
		}
		l.size = roundUp(l.align, offset)
		if vector, ok := vectorLayouts[t]; ok {
			l.size, l.align = vector.size, vector.align
		}
		return l, nil
	}
	return layout{}, fmt.Errorf("%s cannot be stored in a GPU buffer", t)
}

// RecordSize returns the encoded size of one T, or an error if T has no
// buffer layout.
func RecordSize[T any]() (int, error) {
	l, err := layoutOf(reflect.TypeFor[T]())
	if err != nil {
		return 0, err
	}
	return l.size, nil
}

// EncodeValue encodes one value, as written to a uniform buffer.
func EncodeValue[T any](value T) ([]byte, error) {
	return EncodeSlice([]T{value})
}

// EncodeSlice encodes values as consecutive records.
func EncodeSlice[T any](values []T) ([]byte, error) {
	l, err := layoutOf(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	buf := make([]byte, l.size*len(values))
	for i := range values {
		if err := putValue(buf[i*l.size:(i+1)*l.size], reflect.ValueOf(&values[i]).Elem()); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return buf, nil
}

// DecodeSlice decodes consecutive records. The length of data must be a
// multiple of the record size.
func DecodeSlice[T any](data []byte) ([]T, error) {
	l, err := layoutOf(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	if l.size == 0 || len(data)%l.size != 0 {
		return nil, fmt.Errorf("decode %s: %d bytes is not a whole number of %d byte records", reflect.TypeFor[T](), len(data), l.size)
	}
	values := make([]T, len(data)/l.size)
	for i := range values {
		if err := getValue(data[i*l.size:(i+1)*l.size], reflect.ValueOf(&values[i]).Elem()); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return values, nil
}

func putValue(buf []byte, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Float32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v.Float())))
	case reflect.Int32:
		binary.LittleEndian.PutUint32(buf, uint32(int32(v.Int())))
	case reflect.Int:
		n := v.Int()
		if n < math.MinInt32 || n > math.MaxInt32 {
			return fmt.Errorf("%d overflows i32", n)
		}
		binary.LittleEndian.PutUint32(buf, uint32(int32(n)))
	case reflect.Uint32:
		binary.LittleEndian.PutUint32(buf, uint32(v.Uint()))
	case reflect.Uint:
		n := v.Uint()
		if n > math.MaxUint32 {
			return fmt.Errorf("%d overflows u32", n)
		}
		binary.LittleEndian.PutUint32(buf, uint32(n))
	case reflect.Array:
		elem, err := layoutOf(v.Type().Elem())
		if err != nil {
			return err
		}
		stride := roundUp(elem.align, elem.size)
		for i := 0; i < v.Len(); i++ {
			if err := putValue(buf[i*stride:i*stride+elem.size], v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Struct:
		l, err := layoutOf(v.Type())
		if err != nil {
			return err
		}
		for i := 0; i < v.NumField(); i++ {
			fl, err := layoutOf(v.Type().Field(i).Type)
			if err != nil {
				return err
			}
			if err := putValue(buf[l.offsets[i]:l.offsets[i]+fl.size], v.Field(i)); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%s cannot be stored in a GPU buffer", v.Type())
	}
	return nil
}

func getValue(buf []byte, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Float32:
		v.SetFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(buf))))
	case reflect.Int32, reflect.Int:
		v.SetInt(int64(int32(binary.LittleEndian.Uint32(buf))))
	case reflect.Uint32, reflect.Uint:
		v.SetUint(uint64(binary.LittleEndian.Uint32(buf)))
	case reflect.Array:
		elem, err := layoutOf(v.Type().Elem())
		if err != nil {
			return err
		}
		stride := roundUp(elem.align, elem.size)
		for i := 0; i < v.Len(); i++ {
			if err := getValue(buf[i*stride:i*stride+elem.size], v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Struct:
		l, err := layoutOf(v.Type())
		if err != nil {
			return err
		}
		for i := 0; i < v.NumField(); i++ {
			fl, err := layoutOf(v.Type().Field(i).Type)
			if err != nil {
				return err
			}
			if err := getValue(buf[l.offsets[i]:l.offsets[i]+fl.size], v.Field(i)); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%s cannot be read from a GPU buffer", v.Type())
	}
	return nil
}
