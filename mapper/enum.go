package mapper

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// enumInfo holds the member tables of a registered enum type.
type enumInfo struct {
	names  map[string]int64 // member name -> value
	values map[int64]string // value -> member name
}

var globalEnumRegistry = sync.Map{}

var integralTypes = map[reflect.Kind]reflect.Type{
	reflect.Int:    reflect.TypeOf(int(0)),
	reflect.Int8:   reflect.TypeOf(int8(0)),
	reflect.Int16:  reflect.TypeOf(int16(0)),
	reflect.Int32:  reflect.TypeOf(int32(0)),
	reflect.Int64:  reflect.TypeOf(int64(0)),
	reflect.Uint:   reflect.TypeOf(uint(0)),
	reflect.Uint8:  reflect.TypeOf(uint8(0)),
	reflect.Uint16: reflect.TypeOf(uint16(0)),
	reflect.Uint32: reflect.TypeOf(uint32(0)),
	reflect.Uint64: reflect.TypeOf(uint64(0)),
}

func isIntegralKind(kind reflect.Kind) bool {
	_, exists := integralTypes[kind]
	return exists
}

// RegisterEnum registers the member names and values of an enumerated type.
// Go carries no enum metadata at runtime, so every type that should take
// part in enum coercion registers its members once at startup.
// Panics if E is not backed by an integral kind.
func RegisterEnum[E any](members map[string]E) {
	var zero E
	enumType := reflect.TypeOf(zero)
	if enumType == nil || !isIntegralKind(enumType.Kind()) {
		panic(errors.Errorf("enum type %v must have an integral underlying kind", enumType))
	}

	info := &enumInfo{
		names:  make(map[string]int64, len(members)),
		values: make(map[int64]string, len(members)),
	}
	for name, member := range members {
		value := enumOrdinal(reflect.ValueOf(member))
		info.names[name] = value
		info.values[value] = name
	}
	globalEnumRegistry.Store(enumType, info)
}

func enumInfoOf(t reflect.Type) (*enumInfo, bool) {
	value, exists := globalEnumRegistry.Load(t)
	if !exists {
		return nil, false
	}
	return value.(*enumInfo), true
}

func enumOrdinal(v reflect.Value) int64 {
	if v.CanUint() {
		return int64(v.Uint())
	}
	return v.Int()
}
