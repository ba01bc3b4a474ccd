// Package value implements the tagged-union data model shared by the TOON
// encoder and decoder: null, bool, int, float, string, array, and an
// insertion-ordered object.
package value

import "math"

// Kind identifies the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Array
	Object
)

// String returns a human-readable name for the kind, used in error messages.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the JSON data model. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  *Obj
}

// NewNull returns the null Value.
func NewNull() Value { return Value{kind: Null} }

// NewBool wraps a bool.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewInt wraps a signed 64-bit integer.
func NewInt(i int64) Value { return Value{kind: Int, i: i} }

// NewFloat wraps a binary64. NaN/Inf are not canonicalized here; the number
// codec handles that at format time per the wire contract.
func NewFloat(f float64) Value { return Value{kind: Float, f: f} }

// NewString wraps a UTF-8 string.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewArray wraps an ordered sequence of Values. The slice is taken by
// reference; callers should not mutate it after handing it off.
func NewArray(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: Array, arr: items}
}

// NewObject wraps an insertion-ordered object.
func NewObject(o *Obj) Value {
	if o == nil {
		o = NewObj()
	}
	return Value{kind: Object, obj: o}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == Null }
func (v Value) Bool() bool     { return v.b }
func (v Value) Int() int64     { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Str() string    { return v.s }
func (v Value) Arr() []Value   { return v.arr }
func (v Value) Obj() *Obj      { return v.obj }

// IsPrimitive reports whether v is null, bool, int, float, or string.
func (v Value) IsPrimitive() bool {
	switch v.kind {
	case Null, Bool, Int, Float, String:
		return true
	default:
		return false
	}
}

// AsFloat64 widens any numeric variant to float64. It panics if v is not
// numeric; callers must check Kind first.
func (v Value) AsFloat64() float64 {
	switch v.kind {
	case Int:
		return float64(v.i)
	case Float:
		return v.f
	default:
		panic("value: AsFloat64 on non-numeric Value")
	}
}

// Equal implements the round-trip equality relation from the data model:
// structurally equal trees, with Int/Float compared numerically after
// widening Int to Float.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		isNumA := a.kind == Int || a.kind == Float
		isNumB := b.kind == Int || b.kind == Float
		if isNumA && isNumB {
			return a.AsFloat64() == b.AsFloat64()
		}
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case Int:
		return a.i == b.i
	case Float:
		return a.f == b.f || (math.IsNaN(a.f) && math.IsNaN(b.f))
	case String:
		return a.s == b.s
	case Array:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		return objEqual(a.obj, b.obj)
	default:
		return false
	}
}

func objEqual(a, b *Obj) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, k := range a.Keys() {
		av, _ := a.Get(k)
		bv, ok := b.Get(k)
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

// Obj is an insertion-ordered mapping from string keys to Values. Setting an
// existing key updates its value in place without moving its position;
// setting a new key appends it.
type Obj struct {
	keys  []string
	index map[string]int
	vals  []Value
}

// NewObj returns an empty ordered object.
func NewObj() *Obj {
	return &Obj{index: make(map[string]int)}
}

// Set inserts or overwrites key with val. Overwriting keeps the key's
// original position (last-write-wins, in place) — the decoder's resolution
// for the ambiguous duplicate-key case.
func (o *Obj) Set(key string, val Value) {
	if i, ok := o.index[key]; ok {
		o.vals[i] = val
		return
	}
	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, val)
}

// Get looks up key.
func (o *Obj) Get(key string) (Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}
	return o.vals[i], true
}

// Has reports whether key is present.
func (o *Obj) Has(key string) bool {
	_, ok := o.index[key]
	return ok
}

// Keys returns keys in insertion order. Callers must not mutate the result.
func (o *Obj) Keys() []string { return o.keys }

// Len returns the number of entries.
func (o *Obj) Len() int { return len(o.keys) }

// Range calls fn for every entry in insertion order, stopping early if fn
// returns false.
func (o *Obj) Range(fn func(key string, val Value) bool) {
	for i, k := range o.keys {
		if !fn(k, o.vals[i]) {
			return
		}
	}
}
