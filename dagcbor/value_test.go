package dagcbor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueConstructorsAndKind(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(KindNull, Null().Kind())
	assert.Equal(KindBool, Bool(true).Kind())
	assert.Equal(KindInt, Int(5).Kind())
	assert.Equal(KindFloat, Float(1.5).Kind())
	assert.Equal(KindBytes, Bytes([]byte("x")).Kind())
	assert.Equal(KindString, String("x").Kind())
	assert.Equal(KindList, List(nil).Kind())
	assert.Equal(KindMap, Map(nil).Kind())
	assert.Equal(KindLink, Link(RawCID{1}).Kind())
	assert.Equal(KindInvalid, Value{}.Kind())
}

func TestIntAccessors(t *testing.T) {
	assert := assert.New(t)

	v := Int(-5)
	i, ok := v.Int64()
	assert.True(ok)
	assert.Equal(int64(-5), i)
	_, ok = v.Uint64()
	assert.False(ok)
	assert.True(v.IsNegativeInt())

	v = Int(5)
	u, ok := v.Uint64()
	assert.True(ok)
	assert.Equal(uint64(5), u)
	assert.False(v.IsNegativeInt())
}

func TestUint64BeyondInt64Range(t *testing.T) {
	assert := assert.New(t)

	big := uint64(math.MaxInt64) + 1
	v := Uint64(big)
	assert.Equal(KindInt, v.Kind())
	_, ok := v.Int64()
	assert.False(ok, "value above math.MaxInt64 must not be reported as representable by Int64")
	u, ok := v.Uint64()
	assert.True(ok)
	assert.Equal(big, u)
}

func TestUint64WithinInt64RangeUsesIntPath(t *testing.T) {
	assert := assert.New(t)
	v := Uint64(42)
	i, ok := v.Int64()
	assert.True(ok)
	assert.Equal(int64(42), i)
}

func TestKindStringCoversEveryKind(t *testing.T) {
	assert := assert.New(t)
	kinds := []Kind{KindInvalid, KindNull, KindBool, KindInt, KindFloat, KindBytes, KindString, KindList, KindMap, KindLink}
	seen := map[string]bool{}
	for _, k := range kinds {
		s := k.String()
		assert.NotEqual("unknown", s)
		seen[s] = true
	}
	assert.Len(seen, len(kinds))
}

func TestWrongAccessorReturnsFalse(t *testing.T) {
	assert := assert.New(t)
	v := String("x")
	_, ok := v.BytesValue()
	assert.False(ok)
	_, ok = v.Int64()
	assert.False(ok)
	_, ok = v.ListValue()
	assert.False(ok)
}
