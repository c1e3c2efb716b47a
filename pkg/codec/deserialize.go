package codec

import (
	"math"
	"reflect"

	"github.com/StefanFabian/crosstalk/pkg/endian"
)

// Deserialize decodes a record payload from data into obj, which must
// be a pointer to the record. It returns the number of bytes consumed,
// or 0 if data is too short to decode the record.
//
// Containers are prefixed by their element count: slices are resized to
// the count on the wire, while a fixed-length array whose on-wire count
// disagrees with its static length only receives the smaller number of
// elements. When the on-wire count is larger, the resulting short
// consumed count lets the frame layer report the length disagreement;
// when it is smaller, the remaining elements keep their previous values
// and the consumed count matches the bytes on the wire.
func Deserialize(data []byte, obj Object) int {
	consumed, ok := deserializeValue(data, structValue(obj, true))
	if !ok {
		return 0
	}
	return consumed
}

func deserializeValue(data []byte, v reflect.Value) (int, bool) {
	if n := scalarSize(v.Kind()); n > 0 {
		if len(data) < n {
			return 0, false
		}
		switch v.Kind() {
		case reflect.Bool:
			v.SetBool(data[0] != 0)
		case reflect.Int8:
			v.SetInt(int64(int8(data[0])))
		case reflect.Uint8:
			v.SetUint(uint64(data[0]))
		case reflect.Int16:
			v.SetInt(int64(int16(endian.Uint16(data))))
		case reflect.Uint16:
			v.SetUint(uint64(endian.Uint16(data)))
		case reflect.Int32:
			v.SetInt(int64(int32(endian.Uint32(data))))
		case reflect.Uint32:
			v.SetUint(uint64(endian.Uint32(data)))
		case reflect.Int64:
			v.SetInt(int64(endian.Uint64(data)))
		case reflect.Uint64:
			v.SetUint(endian.Uint64(data))
		case reflect.Float32:
			v.SetFloat(float64(math.Float32frombits(endian.Uint32(data))))
		case reflect.Float64:
			v.SetFloat(math.Float64frombits(endian.Uint64(data)))
		}
		return n, true
	}
	switch v.Kind() {
	case reflect.String:
		if len(data) < 2 {
			return 0, false
		}
		strLen := int(endian.Uint16(data))
		if len(data) < 2+strLen {
			return 0, false
		}
		v.SetString(string(data[2 : 2+strLen]))
		return 2 + strLen, true
	case reflect.Slice:
		if len(data) < 2 {
			return 0, false
		}
		count := int(endian.Uint16(data))
		offset := 2
		if v.Type().Elem().Kind() == reflect.Uint8 {
			if len(data) < offset+count {
				return 0, false
			}
			b := make([]byte, count)
			copy(b, data[offset:offset+count])
			v.SetBytes(b)
			return offset + count, true
		}
		v.Set(reflect.MakeSlice(v.Type(), count, count))
		for i := 0; i < count; i++ {
			consumed, ok := deserializeValue(data[offset:], v.Index(i))
			if !ok {
				return 0, false
			}
			offset += consumed
		}
		return offset, true
	case reflect.Array:
		if len(data) < 2 {
			return 0, false
		}
		count := int(endian.Uint16(data))
		offset := 2
		n := v.Len()
		if count < n {
			n = count
		}
		for i := 0; i < n; i++ {
			consumed, ok := deserializeValue(data[offset:], v.Index(i))
			if !ok {
				return 0, false
			}
			offset += consumed
		}
		return offset, true
	case reflect.Struct:
		offset := 0
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).PkgPath != "" {
				continue
			}
			consumed, ok := deserializeValue(data[offset:], v.Field(i))
			if !ok {
				return 0, false
			}
			offset += consumed
		}
		return offset, true
	}
	return 0, false
}
