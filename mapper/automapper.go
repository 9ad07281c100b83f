// Package mapper populates a destination struct from a source value by
// matching field names and coercing values between shapes: enum to integer,
// string to enum, collection to collection and nested struct to struct.
// Fields that cannot be coerced are left at their zero value; the only hard
// failure is a nil source.
package mapper

import (
	"reflect"

	"github.com/pkg/errors"
	reflectutils "github.com/structmap/automapper/reflect_utils"
)

var (
	ErrNilSource = errors.New("source cannot be nil")
)

// maxMappingDepth bounds recursion through self-referential type graphs.
const maxMappingDepth = 32

// Map allocates a new D and populates its exported fields from src.
// src must be a struct or a non-nil pointer to one. Overrides fill
// destination fields that have no same-named source field; they do not
// propagate into nested mappings.
func Map[D any](src any, overrides ...Override) (D, error) {
	var dst D
	dstType := reflect.TypeOf(dst)
	if dstType == nil || dstType.Kind() != reflect.Struct {
		return dst, errors.Errorf("destination must be a struct type, got %v", dstType)
	}
	if src == nil {
		return dst, ErrNilSource
	}

	srcValue := reflect.ValueOf(src)
	if srcValue.Kind() == reflect.Ptr {
		if srcValue.IsNil() {
			return dst, ErrNilSource
		}
		srcValue = srcValue.Elem()
	}
	if srcValue.Kind() != reflect.Struct {
		return dst, errors.Errorf("source must be a struct or a pointer to a struct, got %s", srcValue.Kind())
	}

	dstValue := reflect.New(dstType).Elem()
	resolveFields(srcValue, dstValue, newOverrideSet(overrides), 0)
	return dstValue.Interface().(D), nil
}

// MapSlice maps every non-nil element of an enumerable source into a new
// []D via Map. Nil elements are dropped.
func MapSlice[D any](src any) ([]D, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	srcValue := reflect.ValueOf(src)
	if srcValue.Kind() == reflect.Ptr {
		if srcValue.IsNil() {
			return nil, ErrNilSource
		}
		srcValue = srcValue.Elem()
	}
	if srcValue.Kind() != reflect.Slice && srcValue.Kind() != reflect.Array {
		return nil, errors.Errorf("source must be a slice or an array, got %s", srcValue.Kind())
	}

	result := make([]D, 0, srcValue.Len())
	for index := 0; index < srcValue.Len(); index++ {
		element := srcValue.Index(index)
		if reflectutils.IsNilValue(element) {
			continue
		}
		mapped, err := Map[D](element.Interface())
		if err != nil {
			return nil, err
		}
		result = append(result, mapped)
	}
	return result, nil
}

// resolveFields populates every settable destination field from the
// same-named source field, or from an override when the source has no such
// field. Fields are independent: a value that cannot be coerced leaves its
// field at the zero value without affecting the rest.
func resolveFields(src, dst reflect.Value, overrides *overrideSet, depth int) {
	srcInfo := structInfoOf(src.Type())
	dstInfo := structInfoOf(dst.Type())

	for name, dstIndex := range dstInfo.fieldIndex {
		dstField := dst.Field(dstIndex)
		if !dstField.CanSet() {
			continue
		}

		if srcIndex, exists := srcInfo.fieldIndex[name]; exists {
			if value, ok := coerceValue(src.Field(srcIndex), dstField.Type(), depth); ok {
				dstField.Set(value)
			}
			continue
		}

		if injected, exists := overrides.lookup(name); exists && injected != nil {
			if value, ok := coerceValue(reflect.ValueOf(injected), dstField.Type(), depth); ok {
				dstField.Set(value)
			}
		}
	}
}

// coerceValue decides how a source value satisfies a destination field type.
// Rules apply in order: nil source, enum conversion, direct assignability,
// collection mapping, nested struct mapping. A false result means no rule
// applied and the field stays at its zero value.
func coerceValue(src reflect.Value, dstType reflect.Type, depth int) (reflect.Value, bool) {
	if depth > maxMappingDepth {
		return reflect.Value{}, false
	}
	if src.Kind() == reflect.Interface && !src.IsNil() {
		src = src.Elem()
	}
	if reflectutils.IsNilValue(src) {
		return reflect.Value{}, false
	}

	// Identity fast path; also covers two enums of the same type.
	if src.Type() == dstType {
		return src, true
	}

	// Pointer destinations are classified by their element type and
	// re-wrapped on assignment.
	dstElem := dstType
	if dstElem.Kind() == reflect.Ptr {
		dstElem = dstElem.Elem()
	}
	srcElem := reflectutils.DerefValue(src)

	if value, ok, done := coerceEnum(srcElem, dstElem); done {
		if !ok {
			return reflect.Value{}, false
		}
		return wrapNullable(value, dstType), true
	}

	if src.Type().AssignableTo(dstType) {
		return src, true
	}
	if srcElem.Type().AssignableTo(dstElem) {
		return wrapNullable(srcElem, dstType), true
	}

	if dstElem.Kind() == reflect.Slice {
		value, ok := coerceCollection(srcElem, dstElem, depth)
		if !ok {
			return reflect.Value{}, false
		}
		return wrapNullable(value, dstType), true
	}

	// Aggregate fallback is decided by the destination alone: a source that
	// matches no fields still yields a fresh default instance.
	if dstElem.Kind() == reflect.Struct {
		nested := reflect.New(dstElem).Elem()
		if srcElem.Kind() == reflect.Struct {
			resolveFields(srcElem, nested, nil, depth+1)
		}
		return wrapNullable(nested, dstType), true
	}

	return reflect.Value{}, false
}

// coerceEnum handles conversions where either side is a registered enum.
// The third result is false when no enum is involved and the regular rules
// should take over.
func coerceEnum(src reflect.Value, dstType reflect.Type) (reflect.Value, bool, bool) {
	srcEnum, srcIsEnum := enumInfoOf(src.Type())
	dstEnum, dstIsEnum := enumInfoOf(dstType)

	switch {
	case srcIsEnum && !dstIsEnum:
		// Enum flattens to its underlying integral representation.
		if isIntegralKind(dstType.Kind()) {
			return src.Convert(dstType), true, true
		}
		if dstType.Kind() == reflect.Interface {
			return src.Convert(integralTypes[src.Kind()]), true, true
		}
		return reflect.Value{}, false, true

	case !srcIsEnum && dstIsEnum:
		switch {
		case src.Kind() == reflect.String:
			value, exists := dstEnum.names[src.String()]
			if !exists {
				return reflect.Value{}, false, true
			}
			return reflect.ValueOf(value).Convert(dstType), true, true
		case isIntegralKind(src.Kind()):
			return src.Convert(dstType), true, true
		default:
			return reflect.Value{}, false, true
		}

	case srcIsEnum && dstIsEnum:
		// Distinct enum types translate through the member name.
		name, exists := srcEnum.values[enumOrdinal(src)]
		if !exists {
			return reflect.Value{}, false, true
		}
		value, exists := dstEnum.names[name]
		if !exists {
			return reflect.Value{}, false, true
		}
		return reflect.ValueOf(value).Convert(dstType), true, true

	default:
		return reflect.Value{}, false, false
	}
}

// coerceCollection builds a new slice of dstType from an enumerable source,
// mapping every element through coerceValue. Nil elements are dropped.
func coerceCollection(src reflect.Value, dstType reflect.Type, depth int) (reflect.Value, bool) {
	if src.Kind() != reflect.Slice && src.Kind() != reflect.Array {
		return reflect.Value{}, false
	}

	elemType := dstType.Elem()
	result := reflect.MakeSlice(dstType, 0, src.Len())
	for index := 0; index < src.Len(); index++ {
		element := src.Index(index)
		if reflectutils.IsNilValue(element) {
			continue // only nil elements are dropped
		}
		value, ok := coerceValue(element, elemType, depth+1)
		if !ok {
			value = reflect.New(elemType).Elem() // non-coercible elements default
		}
		result = reflect.Append(result, value)
	}
	return result, true
}

func wrapNullable(value reflect.Value, dstType reflect.Type) reflect.Value {
	if dstType.Kind() != reflect.Ptr {
		return value
	}
	ptr := reflect.New(dstType.Elem())
	ptr.Elem().Set(value)
	return ptr
}
