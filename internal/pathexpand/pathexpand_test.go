package pathexpand

import (
	"testing"

	"github.com/mcncl/gotoon/internal/errors"
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

func TestExpand_SplitsDottedKey(t *testing.T) {
	in := value.NewObject(obj("user.name", value.NewString("Alice"), "user.age", value.NewInt(30)))
	got, err := Expand(in, true)
	require.NoError(t, err)

	want := value.NewObject(obj("user", value.NewObject(obj(
		"name", value.NewString("Alice"), "age", value.NewInt(30),
	))))
	assert.True(t, value.Equal(want, got))
}

func TestExpand_LeavesNonIdentifierSegmentAlone(t *testing.T) {
	in := value.NewObject(obj("2cool.name", value.NewString("x"), "a.b-c", value.NewString("y")))
	got, err := Expand(in, true)
	require.NoError(t, err)
	assert.True(t, value.Equal(in, got))
}

func TestExpand_LeavesKeyWithoutDotAlone(t *testing.T) {
	in := value.NewObject(obj("name", value.NewString("Alice")))
	got, err := Expand(in, true)
	require.NoError(t, err)
	assert.True(t, value.Equal(in, got))
}

func TestExpand_StrictConflictOnIntermediateSegment(t *testing.T) {
	in := value.NewObject(obj("a", value.NewInt(5), "a.b", value.NewInt(1)))
	_, err := Expand(in, true)
	require.Error(t, err)
	var ce *errors.CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, errors.KindExpansionConflict, ce.Kind)
}

func TestExpand_StrictConflictOnLeafObjectDisagreement(t *testing.T) {
	in := value.NewObject(obj("a.b.c", value.NewInt(1), "a.b", value.NewInt(5)))
	_, err := Expand(in, true)
	require.Error(t, err)
	var ce *errors.CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, errors.KindExpansionConflict, ce.Kind)
}

func TestExpand_NonStrictLaterWriteWinsOnIntermediateSegment(t *testing.T) {
	in := value.NewObject(obj("a", value.NewInt(5), "a.b", value.NewInt(1)))
	got, err := Expand(in, false)
	require.NoError(t, err)
	want := value.NewObject(obj("a", value.NewObject(obj("b", value.NewInt(1)))))
	assert.True(t, value.Equal(want, got))
}

func TestExpand_RecursesIntoArrays(t *testing.T) {
	in := value.NewArray([]value.Value{
		value.NewObject(obj("a.b", value.NewInt(1))),
	})
	got, err := Expand(in, true)
	require.NoError(t, err)
	want := value.NewArray([]value.Value{
		value.NewObject(obj("a", value.NewObject(obj("b", value.NewInt(1))))),
	})
	assert.True(t, value.Equal(want, got))
}

func TestExpand_StrictConflictOnBareKeyAfterDottedSibling(t *testing.T) {
	in := value.NewObject(obj("a.b", value.NewInt(1), "a", value.NewInt(5)))
	_, err := Expand(in, true)
	require.Error(t, err)
	var ce *errors.CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, errors.KindExpansionConflict, ce.Kind)
}

func TestExpand_NonStrictLaterWriteWinsOnBareKeyAfterDottedSibling(t *testing.T) {
	in := value.NewObject(obj("a.b", value.NewInt(1), "a", value.NewInt(5)))
	got, err := Expand(in, false)
	require.NoError(t, err)
	want := value.NewObject(obj("a", value.NewInt(5)))
	assert.True(t, value.Equal(want, got))
}

func TestExpand_MergesSiblingPathsUnderSharedPrefix(t *testing.T) {
	in := value.NewObject(obj(
		"user.name", value.NewString("Alice"),
		"user.address.city", value.NewString("Perth"),
	))
	got, err := Expand(in, true)
	require.NoError(t, err)
	want := value.NewObject(obj("user", value.NewObject(obj(
		"name", value.NewString("Alice"),
		"address", value.NewObject(obj("city", value.NewString("Perth"))),
	))))
	assert.True(t, value.Equal(want, got))
}
