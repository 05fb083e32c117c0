package dagcbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLessLengthBeforeBytes(t *testing.T) {
	assert := assert.New(t)
	assert.True(keyLess("a", "bb"))
	assert.False(keyLess("bb", "a"))
	assert.True(keyLess("a", "b"))
	assert.False(keyLess("a", "a"))
}

func TestCanonicalOrder(t *testing.T) {
	assert := assert.New(t)
	got := CanonicalOrder([]string{"bb", "a", "ccc", "b"})
	assert.Equal([]string{"a", "b", "bb", "ccc"}, got)
}

func TestCanonicalOrderDoesNotMutateInput(t *testing.T) {
	assert := assert.New(t)
	in := []string{"bb", "a"}
	CanonicalOrder(in)
	assert.Equal([]string{"bb", "a"}, in)
}

func TestIsCanonicallySorted(t *testing.T) {
	assert := assert.New(t)
	assert.True(isCanonicallySorted([]MapEntry{{Key: "a"}, {Key: "b"}, {Key: "bb"}}))
	assert.False(isCanonicallySorted([]MapEntry{{Key: "bb"}, {Key: "a"}}))
	assert.False(isCanonicallySorted([]MapEntry{{Key: "a"}, {Key: "a"}}))
	assert.True(isCanonicallySorted(nil))
}

func TestCheckKeyCompliance(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(CheckKeyCompliance([]string{"a", "bb", "ccc"}))
	err := CheckKeyCompliance([]string{"a", "a"})
	assert.Error(err)
	ee, ok := err.(*EncodeError)
	assert.True(ok)
	if ok {
		assert.Equal(ErrDuplicateMapKey, ee.Kind)
	}
}

func TestSortedEntryIndices(t *testing.T) {
	assert := assert.New(t)
	entries := []MapEntry{{Key: "bb"}, {Key: "a"}, {Key: "b"}}
	idx, err := sortedEntryIndices(entries)
	assert.NoError(err)
	assert.Equal([]int{1, 2, 0}, idx)
}

func TestSortedEntryIndicesDuplicate(t *testing.T) {
	assert := assert.New(t)
	entries := []MapEntry{{Key: "a"}, {Key: "a"}}
	_, err := sortedEntryIndices(entries)
	assert.Error(err)
}
