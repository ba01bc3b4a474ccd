// Package form classifies a non-empty array into one of the four wire
// forms the encoder and decoder share: primitive-inline, array-of-arrays,
// tabular, or mixed-expanded.
package form

import "github.com/mcncl/gotoon/internal/value"

// Form identifies how an array's body is rendered on the wire.
type Form int

const (
	PrimitiveInline Form = iota
	ArrayOfArrays
	Tabular
	MixedExpanded
)

// Detect classifies arr per the single-pass rules: all primitives is
// primitive-inline; all-arrays-of-primitives is array-of-arrays; all
// objects sharing an identical, non-empty key set (by the first object's
// key order) is tabular; anything else is mixed-expanded. Detect panics if
// arr is empty — callers must special-case the empty array ("[0]:") before
// calling.
func Detect(arr []value.Value) Form {
	if len(arr) == 0 {
		panic("form: Detect called with empty array")
	}

	if allPrimitive(arr) {
		return PrimitiveInline
	}
	if allArraysOfPrimitives(arr) {
		return ArrayOfArrays
	}
	if cols, ok := Columns(arr); ok && len(cols) > 0 {
		return Tabular
	}
	return MixedExpanded
}

func allPrimitive(arr []value.Value) bool {
	for _, v := range arr {
		if !v.IsPrimitive() {
			return false
		}
	}
	return true
}

func allArraysOfPrimitives(arr []value.Value) bool {
	for _, v := range arr {
		if v.Kind() != value.Array {
			return false
		}
		if !allPrimitive(v.Arr()) {
			return false
		}
	}
	return true
}

// Columns returns the tabular column order (the first object's insertion
// order) if arr qualifies as tabular: every element is an object, every
// object has the identical key set (same count, same names) with
// primitive-only values, and the first object is non-empty.
func Columns(arr []value.Value) ([]string, bool) {
	if len(arr) == 0 {
		return nil, false
	}
	first := arr[0]
	if first.Kind() != value.Object {
		return nil, false
	}
	cols := first.Obj().Keys()
	if len(cols) == 0 {
		return nil, false
	}
	if !objIsPrimitiveValued(first.Obj()) {
		return nil, false
	}

	for _, v := range arr[1:] {
		if v.Kind() != value.Object {
			return nil, false
		}
		o := v.Obj()
		if o.Len() != len(cols) {
			return nil, false
		}
		for _, c := range cols {
			fv, ok := o.Get(c)
			if !ok || !fv.IsPrimitive() {
				return nil, false
			}
		}
	}
	return cols, true
}

func objIsPrimitiveValued(o *value.Obj) bool {
	ok := true
	o.Range(func(_ string, v value.Value) bool {
		if !v.IsPrimitive() {
			ok = false
			return false
		}
		return true
	})
	return ok
}
