package jsonv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayPushPopShiftUnshift(t *testing.T) {
	arr := NewArray(0)
	require.NoError(t, arr.Push(Int(1)))
	require.NoError(t, arr.Push(Int(2)))
	require.NoError(t, arr.Unshift(Int(0)))

	var got []int64
	arr.ForEach(func(_ int, v Value) bool {
		n, _ := v.AsInt()
		got = append(got, n)

		return true
	})
	assert.Equal(t, []int64{0, 1, 2}, got)

	v, ok, err := arr.Pop()
	require.NoError(t, err)
	require.True(t, ok)
	n, _ := v.AsInt()
	assert.Equal(t, int64(2), n)

	v, ok, err = arr.Shift()
	require.NoError(t, err)
	require.True(t, ok)
	n, _ = v.AsInt()
	assert.Equal(t, int64(0), n)

	assert.Equal(t, 1, arr.Len())
}

func TestArrayGrowsAcrossWraparound(t *testing.T) {
	arr := NewArray(2)

	for i := 0; i < 50; i++ {
		if i%2 == 0 {
			require.NoError(t, arr.Push(Int(int64(i))))
		} else {
			require.NoError(t, arr.Unshift(Int(int64(i))))
		}
	}

	assert.Equal(t, 50, arr.Len())

	// Every element pushed or unshifted must still be retrievable in
	// positional order after many wraparounds and at least one grow.
	for i := 0; i < arr.Len(); i++ {
		_, ok := arr.Get(i)
		require.True(t, ok)
	}
}

func TestArrayImmutableRejectsMutation(t *testing.T) {
	arr := EmptyArray()
	err := arr.Push(Int(1))
	require.Error(t, err)
}

func TestArraySetOutOfRange(t *testing.T) {
	arr := NewArray(0)
	require.NoError(t, arr.Push(Int(1)))

	err := arr.Set(5, Int(2))
	require.Error(t, err)
}
