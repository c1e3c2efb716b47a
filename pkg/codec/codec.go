package codec

import (
	"fmt"
	"reflect"
	"sync"
)

// Object is implemented by records that can travel as framed objects.
// The identifier is attached at the type level and must be unique per
// deployment. Negative identifiers are reserved.
type Object interface {
	ObjectID() int16
}

// Supported field types are fixed-size scalars, strings, arrays, slices
// and nested structs built from the same set. Types whose encoded size
// depends on the platform (int, uint, uintptr) are refused, as are
// pointers, maps, channels and interfaces.

var typeChecks sync.Map // reflect.Type -> error

// check validates that t can be encoded. The result is cached per type
// so the reflection walk happens once.
func check(t reflect.Type) error {
	if cached, ok := typeChecks.Load(t); ok {
		if cached == nil {
			return nil
		}
		return cached.(error)
	}
	err := checkType(t, nil)
	if err == nil {
		typeChecks.Store(t, nil)
	} else {
		typeChecks.Store(t, err)
	}
	return err
}

func checkType(t reflect.Type, path []reflect.Type) error {
	for _, seen := range path {
		if seen == t {
			return nil // already being checked further up
		}
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return nil
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return fmt.Errorf("codec: field type %s has platform dependent size, use a fixed-size integer", t.Kind())
	case reflect.Array, reflect.Slice:
		return checkType(t.Elem(), path)
	case reflect.Struct:
		path = append(path, t)
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue // unexported fields are not encoded
			}
			if err := checkType(f.Type, path); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("codec: unsupported field type %s", t)
	}
}

// mustCheck panics if t cannot be encoded. Unsupported field types are
// a programming error, not a runtime condition.
func mustCheck(t reflect.Type) {
	if err := check(t); err != nil {
		panic(err)
	}
}

// structValue unwraps obj to the underlying struct value and validates
// its type. If mutable is set, obj must be a pointer to the record.
func structValue(obj Object, mutable bool) reflect.Value {
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			panic("codec: nil record")
		}
		v = v.Elem()
	} else if mutable {
		panic(fmt.Sprintf("codec: record %T must be passed as a pointer", obj))
	}
	if v.Kind() != reflect.Struct {
		panic(fmt.Sprintf("codec: record %T is not a struct", obj))
	}
	mustCheck(v.Type())
	return v
}

// scalarSize returns the encoded size of a scalar kind, or 0 if the
// kind is not scalar.
func scalarSize(k reflect.Kind) int {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	case reflect.Int64, reflect.Uint64, reflect.Float64:
		return 8
	}
	return 0
}
