package codec

import (
	"math"
	"reflect"

	"github.com/StefanFabian/crosstalk/pkg/endian"
)

// SizeOf returns the exact number of payload bytes Serialize emits for
// the record.
func SizeOf(obj Object) int {
	return sizeValue(structValue(obj, false))
}

func sizeValue(v reflect.Value) int {
	if n := scalarSize(v.Kind()); n > 0 {
		return n
	}
	switch v.Kind() {
	case reflect.String:
		return 2 + v.Len()
	case reflect.Array, reflect.Slice:
		if n := scalarSize(v.Type().Elem().Kind()); n > 0 {
			return 2 + v.Len()*n
		}
		size := 2
		for i := 0; i < v.Len(); i++ {
			size += sizeValue(v.Index(i))
		}
		return size
	case reflect.Struct:
		size := 0
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).PkgPath != "" {
				continue
			}
			size += sizeValue(v.Field(i))
		}
		return size
	}
	return 0
}

// Serialize encodes the record payload into p and returns the number of
// bytes written. p must hold at least SizeOf(obj) bytes.
func Serialize(p []byte, obj Object) int {
	return serializeValue(p, structValue(obj, false))
}

func serializeValue(p []byte, v reflect.Value) int {
	switch v.Kind() {
	case reflect.Bool:
		p[0] = 0
		if v.Bool() {
			p[0] = 1
		}
		return 1
	case reflect.Int8:
		p[0] = byte(v.Int())
		return 1
	case reflect.Uint8:
		p[0] = byte(v.Uint())
		return 1
	case reflect.Int16:
		endian.PutUint16(p, uint16(v.Int()))
		return 2
	case reflect.Uint16:
		endian.PutUint16(p, uint16(v.Uint()))
		return 2
	case reflect.Int32:
		endian.PutUint32(p, uint32(v.Int()))
		return 4
	case reflect.Uint32:
		endian.PutUint32(p, uint32(v.Uint()))
		return 4
	case reflect.Int64:
		endian.PutUint64(p, uint64(v.Int()))
		return 8
	case reflect.Uint64:
		endian.PutUint64(p, v.Uint())
		return 8
	case reflect.Float32:
		endian.PutUint32(p, math.Float32bits(float32(v.Float())))
		return 4
	case reflect.Float64:
		endian.PutUint64(p, math.Float64bits(v.Float()))
		return 8
	case reflect.String:
		endian.PutUint16(p, uint16(v.Len()))
		return 2 + copy(p[2:], v.String())
	case reflect.Array, reflect.Slice:
		endian.PutUint16(p, uint16(v.Len()))
		offset := 2
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			return offset + copy(p[offset:], v.Bytes())
		}
		for i := 0; i < v.Len(); i++ {
			offset += serializeValue(p[offset:], v.Index(i))
		}
		return offset
	case reflect.Struct:
		offset := 0
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).PkgPath != "" {
				continue
			}
			offset += serializeValue(p[offset:], v.Field(i))
		}
		return offset
	}
	return 0
}
