package reflectutils

import "reflect"

func DerefType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

func DerefValue(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Ptr {
		return v.Elem()
	}
	return v
}

// IsNilValue reports whether v carries no value at all: an invalid
// reflect.Value or a nil of a nilable kind.
func IsNilValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

func IsStructType(t reflect.Type) bool {
	return DerefType(t).Kind() == reflect.Struct
}
