package encoder

import (
	"testing"

	"github.com/mcncl/gotoon/internal/delim"
	"github.com/mcncl/gotoon/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obj(pairs ...interface{}) *value.Obj {
	o := value.NewObj()
	for i := 0; i < len(pairs); i += 2 {
		o.Set(pairs[i].(string), pairs[i+1].(value.Value))
	}
	return o
}

func enc() *Encoder { return New(2, delim.Comma) }

func TestEncode_RootPrimitive(t *testing.T) {
	out, err := enc().Encode(value.NewInt(42))
	require.NoError(t, err)
	assert.Equal(t, "42", out)
}

func TestEncode_RootEmptyObject(t *testing.T) {
	out, err := enc().Encode(value.NewObject(value.NewObj()))
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestEncode_RootEmptyArray(t *testing.T) {
	out, err := enc().Encode(value.NewArray(nil))
	require.NoError(t, err)
	assert.Equal(t, "[0]:", out)
}

func TestEncode_FlatObject(t *testing.T) {
	v := value.NewObject(obj(
		"name", value.NewString("Alice"),
		"age", value.NewInt(30),
	))
	out, err := enc().Encode(v)
	require.NoError(t, err)
	assert.Equal(t, "name: Alice\nage: 30", out)
}

func TestEncode_NestedObject(t *testing.T) {
	v := value.NewObject(obj(
		"user", value.NewObject(obj(
			"id", value.NewInt(1),
			"name", value.NewString("Alice"),
		)),
	))
	out, err := enc().Encode(v)
	require.NoError(t, err)
	assert.Equal(t, "user:\n  id: 1\n  name: Alice", out)
}

func TestEncode_TabularArrayField(t *testing.T) {
	v := value.NewObject(obj(
		"users", value.NewArray([]value.Value{
			value.NewObject(obj("id", value.NewInt(1), "name", value.NewString("Alice"))),
			value.NewObject(obj("id", value.NewInt(2), "name", value.NewString("Bob"))),
		}),
	))
	out, err := enc().Encode(v)
	require.NoError(t, err)
	assert.Equal(t, "users[2]{id,name}:\n  1,Alice\n  2,Bob", out)
}

func TestEncode_PrimitiveInlineArrayField(t *testing.T) {
	v := value.NewObject(obj(
		"tags", value.NewArray([]value.Value{value.NewString("a"), value.NewString("b")}),
	))
	out, err := enc().Encode(v)
	require.NoError(t, err)
	assert.Equal(t, "tags[2]: a,b", out)
}

func TestEncode_ArrayOfArraysField(t *testing.T) {
	v := value.NewObject(obj(
		"matrix", value.NewArray([]value.Value{
			value.NewArray([]value.Value{value.NewInt(1), value.NewInt(2), value.NewInt(3)}),
			value.NewArray([]value.Value{value.NewInt(4), value.NewInt(5), value.NewInt(6)}),
		}),
	))
	out, err := enc().Encode(v)
	require.NoError(t, err)
	assert.Equal(t, "matrix[2]:\n  - [3]: 1,2,3\n  - [3]: 4,5,6", out)
}

func TestEncode_MixedExpandedListItemWithNested(t *testing.T) {
	v := value.NewObject(obj(
		"items", value.NewArray([]value.Value{
			value.NewObject(obj(
				"a", value.NewInt(1),
				"b", value.NewInt(2),
				"c", value.NewObject(obj("x", value.NewInt(1))),
			)),
		}),
	))
	out, err := enc().Encode(v)
	require.NoError(t, err)
	assert.Equal(t, "items[1]:\n  - a: 1\n    b: 2\n    c:\n      x: 1", out)
}

func TestEncode_MixedExpandedFirstFieldTabular(t *testing.T) {
	v := value.NewObject(obj(
		"items", value.NewArray([]value.Value{
			value.NewObject(obj(
				"rows", value.NewArray([]value.Value{
					value.NewObject(obj("id", value.NewInt(1))),
					value.NewObject(obj("id", value.NewInt(2))),
				}),
				"label", value.NewString("x"),
			)),
		}),
	))
	out, err := enc().Encode(v)
	require.NoError(t, err)
	assert.Equal(t, "items[1]:\n  - rows[2]{id}:\n      1\n      2\n    label: x", out)
}

func TestEncode_EmptyObjectListItem(t *testing.T) {
	v := value.NewArray([]value.Value{value.NewObject(value.NewObj())})
	out, err := enc().Encode(v)
	require.NoError(t, err)
	assert.Equal(t, "[1]:\n  -", out)
}

func TestEncode_RootArrayOfPrimitives(t *testing.T) {
	out, err := enc().Encode(value.NewArray([]value.Value{value.NewInt(1), value.NewInt(2)}))
	require.NoError(t, err)
	assert.Equal(t, "[2]: 1,2", out)
}

func TestEncode_QuotesAmbiguousString(t *testing.T) {
	v := value.NewObject(obj("val", value.NewString("42")))
	out, err := enc().Encode(v)
	require.NoError(t, err)
	assert.Equal(t, `val: "42"`, out)
}

func TestEncode_QuotesKeyWithSpace(t *testing.T) {
	v := value.NewObject(obj("first name", value.NewString("Alice")))
	out, err := enc().Encode(v)
	require.NoError(t, err)
	assert.Equal(t, `"first name": Alice`, out)
}

func TestEncode_EscapesStringValue(t *testing.T) {
	v := value.NewObject(obj("msg", value.NewString("line\nbreak")))
	out, err := enc().Encode(v)
	require.NoError(t, err)
	assert.Equal(t, `msg: "line\nbreak"`, out)
}

func TestEncode_TabDelimiter(t *testing.T) {
	e := New(2, delim.Tab)
	v := value.NewObject(obj(
		"users", value.NewArray([]value.Value{
			value.NewObject(obj("id", value.NewInt(1), "name", value.NewString("Alice"))),
		}),
	))
	out, err := e.Encode(v)
	require.NoError(t, err)
	assert.Equal(t, "users[1\t]{id\tname}:\n  1\tAlice", out)
}

func TestEncode_EmptyArrayField(t *testing.T) {
	v := value.NewObject(obj("items", value.NewArray(nil)))
	out, err := enc().Encode(v)
	require.NoError(t, err)
	assert.Equal(t, "items[0]:", out)
}
