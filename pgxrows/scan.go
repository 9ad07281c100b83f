// Package pgxrows scans pgx query results into structs. Columns bind to
// fields through the `db` struct tag; scanned structs are typically handed
// to the mapper package for DTO projection.
package pgxrows

import (
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	reflectutils "github.com/structmap/automapper/reflect_utils"
)

var (
	ErrNoRows = errors.New("no rows found")
)

// columnBinding maps db column names to struct field indexes.
type columnBinding struct {
	columns map[string]int
}

var globalColumnBindings = sync.Map{}

func bindingOf(t reflect.Type) *columnBinding {
	if value, exists := globalColumnBindings.Load(t); exists {
		return value.(*columnBinding)
	}

	binding := &columnBinding{columns: make(map[string]int)}
	for index := 0; index < t.NumField(); index++ {
		field := t.Field(index)
		if !field.IsExported() {
			continue
		}
		if dbTag := field.Tag.Get("db"); dbTag != "" {
			binding.columns[dbTag] = index
		}
	}
	globalColumnBindings.Store(t, binding)
	return binding
}

// ScanOne scans exactly one row into dest, which must be a non-nil pointer
// to a struct. Returns ErrNoRows when the result set is empty and an error
// when it holds more than one row.
func ScanOne(rows pgx.Rows, dest any) error {
	defer rows.Close()
	destValue, err := structDestination(dest)
	if err != nil {
		return err
	}

	if !rows.Next() {
		return ErrNoRows
	}
	values, err := pgx.RowToMap(rows)
	if err != nil {
		return err
	}
	if err := scanRow(destValue, values); err != nil {
		return err
	}
	if rows.Next() {
		return errors.Errorf("too many rows for type %s", destValue.Type())
	}
	return rows.Err()
}

// ScanAll scans every row into dest, which must be a non-nil pointer to a
// slice of structs. An empty result set yields an empty slice.
func ScanAll(rows pgx.Rows, dest any) error {
	defer rows.Close()
	if dest == nil {
		return errors.New("dest cannot be nil")
	}
	destPtr := reflect.ValueOf(dest)
	if destPtr.Kind() != reflect.Ptr {
		return errors.New("dest must be a pointer to a slice")
	}
	sliceValue := destPtr.Elem()
	if sliceValue.Kind() != reflect.Slice || !reflectutils.IsStructType(sliceValue.Type().Elem()) {
		return errors.New("dest must be a pointer to a slice of structs")
	}

	elemType := sliceValue.Type().Elem()
	result := reflect.MakeSlice(sliceValue.Type(), 0, 0)
	for rows.Next() {
		values, err := pgx.RowToMap(rows)
		if err != nil {
			return err
		}
		element := reflect.New(elemType).Elem()
		if err := scanRow(element, values); err != nil {
			return err
		}
		result = reflect.Append(result, element)
	}
	sliceValue.Set(result)
	return rows.Err()
}

func structDestination(dest any) (reflect.Value, error) {
	if dest == nil {
		return reflect.Value{}, errors.New("dest cannot be nil")
	}
	value := reflect.ValueOf(dest)
	if value.Kind() != reflect.Ptr {
		return reflect.Value{}, errors.New("dest must be a pointer")
	}
	value = value.Elem()
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, errors.New("dest must be a pointer to a struct")
	}
	return value, nil
}

func scanRow(dest reflect.Value, values map[string]any) error {
	binding := bindingOf(dest.Type())
	for column, index := range binding.columns {
		value, exists := values[column]
		if !exists || value == nil {
			continue // NULL columns leave the field at its zero value
		}
		if err := setColumnValue(dest.Field(index), value); err != nil {
			return errors.Wrapf(err, "failed to map column %s", column)
		}
	}
	return nil
}

func setColumnValue(field reflect.Value, value any) error {
	if !field.CanSet() {
		return errors.New("field is not settable")
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return setColumnValue(field.Elem(), v.Interface())
	}

	switch {
	case v.Type().AssignableTo(field.Type()):
		field.Set(v)
	case numericKind(v.Kind()) && numericKind(field.Kind()):
		field.Set(v.Convert(field.Type()))
	default:
		return errors.Errorf("cannot assign %s to %s", v.Type(), field.Type())
	}
	return nil
}

// numericKind guards Convert against cross-domain conversions such as the
// int -> string rune conversion.
func numericKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
