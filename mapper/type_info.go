package mapper

import (
	"reflect"
	"sync"
)

// structInfo maps exported field names to their index within a struct type.
// Field matching is by exact, case-sensitive name.
type structInfo struct {
	fieldIndex map[string]int
}

var globalStructInfo = sync.Map{}

func structInfoOf(t reflect.Type) *structInfo {
	if value, exists := globalStructInfo.Load(t); exists {
		return value.(*structInfo)
	}

	info := &structInfo{fieldIndex: make(map[string]int, t.NumField())}
	for index := 0; index < t.NumField(); index++ {
		field := t.Field(index)
		if !field.IsExported() {
			continue
		}
		info.fieldIndex[field.Name] = index
	}
	globalStructInfo.Store(t, info)
	return info
}
