package jsonv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectInsertionOrderInvariant(t *testing.T) {
	obj := NewObject(0)
	require.NoError(t, obj.Set("zebra", Int(1)))
	require.NoError(t, obj.Set("apple", Int(2)))
	require.NoError(t, obj.Set("mango", Int(3)))

	assert.Equal(t, []string{"apple", "mango", "zebra"}, obj.Keys())
}

func TestObjectSetReplacesExisting(t *testing.T) {
	obj := NewObject(0)
	require.NoError(t, obj.Set("a", Int(1)))
	require.NoError(t, obj.Set("a", Int(2)))

	assert.Equal(t, 1, obj.Len())

	v, ok := obj.Get("a")
	require.True(t, ok)
	i, _ := v.AsInt()
	assert.Equal(t, int64(2), i)
}

func TestObjectRenameIdempotence(t *testing.T) {
	obj := NewObject(0)
	require.NoError(t, obj.Set("a", Int(1)))

	require.NoError(t, obj.Rename("a", "a"))

	err := obj.Rename("missing", "missing")
	require.Error(t, err)
}

func TestObjectRenameMovesValue(t *testing.T) {
	obj := NewObject(0)
	require.NoError(t, obj.Set("old", StringFromGo("v")))

	require.NoError(t, obj.Rename("old", "new"))

	_, ok := obj.Get("old")
	assert.False(t, ok)

	v, ok := obj.Get("new")
	require.True(t, ok)
	s, _ := v.AsString()
	assert.Equal(t, "v", s.String())
}

func TestObjectImmutableRejectsMutation(t *testing.T) {
	obj := NewObject(0)
	require.NoError(t, obj.Set("a", Int(1)))
	obj.Freeze()

	err := obj.Set("b", Int(2))
	require.Error(t, err)

	_, _, err = obj.Unset("a")
	require.Error(t, err)
}

func TestObjectCloneIsIndependent(t *testing.T) {
	obj := NewObject(0)
	require.NoError(t, obj.Set("nested", FromArray(NewArray(0))))

	clone := obj.Clone()
	nv, _ := clone.Get("nested")
	arr, _ := nv.AsArray()
	require.NoError(t, arr.Push(Int(1)))

	orig, _ := obj.Get("nested")
	origArr, _ := orig.AsArray()
	assert.Equal(t, 0, origArr.Len())
	assert.Equal(t, 1, arr.Len())
}
