package sortedvector_test

import (
	"testing"

	"github.com/adc-share/sharecore/pkg/sortedvector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) string { return s }

func TestInsertSortedAppendFastPath(t *testing.T) {
	v := sortedvector.New[string, string](key)

	for _, s := range []string{"alpha", "bravo", "charlie", "delta"} {
		_, inserted := v.InsertSorted(s)
		require.True(t, inserted)
	}

	assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta"}, v.Items())
}

func TestInsertSortedOutOfOrder(t *testing.T) {
	v := sortedvector.New[string, string](key)

	for _, s := range []string{"delta", "alpha", "charlie", "bravo"} {
		_, inserted := v.InsertSorted(s)
		require.True(t, inserted)
	}

	assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta"}, v.Items())
}

func TestInsertSortedDuplicateRejected(t *testing.T) {
	v := sortedvector.New[string, string](key)

	_, inserted := v.InsertSorted("alpha")
	require.True(t, inserted)

	existing, inserted := v.InsertSorted("alpha")
	assert.False(t, inserted)
	assert.Equal(t, "alpha", existing)
	assert.Equal(t, 1, v.Len())
}

func TestFind(t *testing.T) {
	v := sortedvector.New[string, string](key)
	for _, s := range []string{"bravo", "alpha", "delta"} {
		v.InsertSorted(s)
	}

	got, ok := v.Find("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", got)

	_, ok = v.Find("zulu")
	assert.False(t, ok)
}

func TestEraseKey(t *testing.T) {
	v := sortedvector.New[string, string](key)
	for _, s := range []string{"bravo", "alpha", "delta"} {
		v.InsertSorted(s)
	}

	require.True(t, v.EraseKey("alpha"))
	assert.Equal(t, []string{"bravo", "delta"}, v.Items())
	assert.False(t, v.EraseKey("alpha"))
}
