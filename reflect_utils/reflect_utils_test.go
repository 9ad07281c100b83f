package reflectutils

import (
	"reflect"
	"testing"
)

func TestDerefType(t *testing.T) {
	var intPtr *int
	derefType := DerefType(reflect.TypeOf(intPtr))
	if derefType.Kind() != reflect.Int {
		t.Errorf("Expected kind %v, got %v", reflect.Int, derefType.Kind())
	}

	derefType = DerefType(reflect.TypeOf(0))
	if derefType.Kind() != reflect.Int {
		t.Errorf("Expected kind %v, got %v", reflect.Int, derefType.Kind())
	}
}

func TestIsNilValue(t *testing.T) {
	if !IsNilValue(reflect.Value{}) {
		t.Error("Expected an invalid value to be nil")
	}

	var ptr *int
	if !IsNilValue(reflect.ValueOf(ptr)) {
		t.Error("Expected a nil pointer to be nil")
	}

	var slice []int
	if !IsNilValue(reflect.ValueOf(slice)) {
		t.Error("Expected a nil slice to be nil")
	}

	if IsNilValue(reflect.ValueOf(0)) {
		t.Error("Expected an int not to be nil")
	}

	value := 1
	if IsNilValue(reflect.ValueOf(&value)) {
		t.Error("Expected a non-nil pointer not to be nil")
	}
}

func TestIsStructType(t *testing.T) {
	type sample struct{}

	if !IsStructType(reflect.TypeOf(sample{})) {
		t.Error("Expected a struct type to be a struct")
	}
	if !IsStructType(reflect.TypeOf(&sample{})) {
		t.Error("Expected a struct pointer type to be a struct")
	}
	if IsStructType(reflect.TypeOf(0)) {
		t.Error("Expected an int type not to be a struct")
	}
}
