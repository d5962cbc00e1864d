package gateway

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// Field maps one entity attribute between its store column and its
// application name. Build fields with String, Date, Float, Bool and Ref so
// each carries its coercion.
type Field[T any] struct {
	Column string // store column, e.g. "planting_date_c"
	Name   string // application name, e.g. "plantingDate"

	toStore   func(*T) any
	fromStore func(*T, any)
}

// FieldMap is the declarative mapping of one entity.
type FieldMap[T any] []Field[T]

// Columns returns the store columns in map order.
func (m FieldMap[T]) Columns() []string {
	cols := make([]string, len(m))
	for i, f := range m {
		cols[i] = f.Column
	}
	return cols
}

// Column resolves an application name to its store column. "id" resolves
// to the identity column; a name that is already a column is accepted.
func (m FieldMap[T]) Column(name string) (string, bool) {
	if strings.EqualFold(name, types.IDField) {
		return types.IDField, true
	}
	for _, f := range m {
		if f.Name == name || f.Column == name {
			return f.Column, true
		}
	}
	return "", false
}

// ToRecord converts an entity into store shape. The identity is not
// included; callers add it for updates.
func (m FieldMap[T]) ToRecord(e *T) types.Record {
	rec := make(types.Record, len(m)+1)
	for _, f := range m {
		rec[f.Column] = f.toStore(e)
	}
	return rec
}

// FromRecord fills an entity from store shape. Missing columns leave the
// zero value.
func (m FieldMap[T]) FromRecord(rec types.Record, e *T) {
	for _, f := range m {
		f.fromStore(e, rec[f.Column])
	}
}

// String maps a text attribute.
func String[T any](column, name string, ptr func(*T) *string) Field[T] {
	return Field[T]{
		Column:    column,
		Name:      name,
		toStore:   func(e *T) any { return *ptr(e) },
		fromStore: func(e *T, v any) { *ptr(e) = ToString(v) },
	}
}

// Date maps an ISO date attribute. Dates pass through unchanged; an empty
// date is sent as null.
func Date[T any](column, name string, ptr func(*T) *string) Field[T] {
	return Field[T]{
		Column: column,
		Name:   name,
		toStore: func(e *T) any {
			if s := *ptr(e); s != "" {
				return s
			}
			return nil
		},
		fromStore: func(e *T, v any) { *ptr(e) = ToString(v) },
	}
}

// Float maps a numeric attribute, coerced to float64 in both directions.
func Float[T any](column, name string, ptr func(*T) *float64) Field[T] {
	return Field[T]{
		Column:    column,
		Name:      name,
		toStore:   func(e *T) any { return *ptr(e) },
		fromStore: func(e *T, v any) { *ptr(e) = ToFloat(v) },
	}
}

// Bool maps a flag attribute.
func Bool[T any](column, name string, ptr func(*T) *bool) Field[T] {
	return Field[T]{
		Column:    column,
		Name:      name,
		toStore:   func(e *T) any { return *ptr(e) },
		fromStore: func(e *T, v any) { *ptr(e) = ToBool(v) },
	}
}

// Ref maps a soft foreign key. Zero means no reference and is sent as null.
func Ref[T any](column, name string, ptr func(*T) *int64) Field[T] {
	return Field[T]{
		Column: column,
		Name:   name,
		toStore: func(e *T) any {
			if id := *ptr(e); id > 0 {
				return id
			}
			return nil
		},
		fromStore: func(e *T, v any) { *ptr(e) = ToRef(v) },
	}
}

// ToString renders any store value as text; nil becomes "".
func ToString(v any) string {
	if v == nil {
		return ""
	}
	return cast.ToString(v)
}

// ToFloat coerces a store value to float64, defaulting to zero when the
// value does not parse.
func ToFloat(v any) float64 {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return f
}

// ToBool coerces a store value to a flag; anything unparseable is false.
func ToBool(v any) bool {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return b
}

// ToRef coerces a reference value to an identity. Lookup columns may come
// back as an object carrying Id; non-positive or unparseable values mean no
// reference.
func ToRef(v any) int64 {
	switch x := v.(type) {
	case nil:
		return 0
	case map[string]any:
		return ToRef(x[types.IDField])
	case types.Record:
		return x.ID()
	}
	id, err := cast.ToInt64E(v)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
