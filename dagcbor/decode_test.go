package dagcbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScalars(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cases := []struct {
		in   string
		want Value
	}{
		{"f6", Null()},
		{"f4", Bool(false)},
		{"f5", Bool(true)},
		{"00", Int(0)},
		{"17", Int(23)},
		{"1818", Int(24)},
		{"20", Int(-1)},
		{"37", Int(-24)},
	}
	for _, c := range cases {
		v, err := Decode(hexBytes(t, c.in))
		require.NoError(err, c.in)
		assert.Equal(c.want.Kind(), v.Kind(), c.in)
	}
}

func TestDecodeFloat(t *testing.T) {
	assert := assert.New(t)
	v, err := Decode(hexBytes(t, "fb3ff8000000000000"))
	assert.NoError(err)
	f, ok := v.Float64()
	assert.True(ok)
	assert.Equal(1.5, f)
}

func TestDecodeRejectsNaN(t *testing.T) {
	assert := assert.New(t)
	// fb 7ff8000000000000 is the canonical encoding of NaN.
	_, err := Decode(hexBytes(t, "fb7ff8000000000000"))
	assert.Error(err)
	de, ok := err.(*DecodeError)
	assert.True(ok)
	if ok {
		assert.Equal(ErrDisallowedFloatDecode, de.Kind)
	}
}

func TestDecodeRejectsNonCanonicalArgument(t *testing.T) {
	assert := assert.New(t)
	_, err := Decode(hexBytes(t, "1817"))
	assert.Error(err)
	de, ok := err.(*DecodeError)
	assert.True(ok)
	if ok {
		assert.Equal(ErrNonCanonicalArgument, de.Kind)
	}
}

func TestDecodeMapOutOfOrderKeys(t *testing.T) {
	assert := assert.New(t)
	// {"b": 1, "a": 2}: a2 6162 01 6161 02 -- keys both length 1, "b" before
	// "a" violates canonical (bytewise) order.
	_, err := Decode(hexBytes(t, "a2"+"6162"+"01"+"6161"+"02"))
	assert.Error(err)
	de, ok := err.(*DecodeError)
	assert.True(ok)
	if ok {
		assert.Equal(ErrMapKeyOutOfOrder, de.Kind)
		assert.Equal(4, de.Offset)
	}
}

func TestDecodeMapDuplicateKeys(t *testing.T) {
	assert := assert.New(t)
	_, err := Decode(hexBytes(t, "a2"+"6161"+"01"+"6161"+"02"))
	assert.Error(err)
	de, ok := err.(*DecodeError)
	assert.True(ok)
	if ok {
		assert.Equal(ErrMapKeyDuplicate, de.Kind)
	}
}

func TestDecodeMapNonStringKey(t *testing.T) {
	assert := assert.New(t)
	// a1 00 01 : map with key 0 (an int), value 1.
	_, err := Decode(hexBytes(t, "a1"+"00"+"01"))
	assert.Error(err)
	de, ok := err.(*DecodeError)
	assert.True(ok)
	if ok {
		assert.Equal(ErrMapKeyNotString, de.Kind)
	}
}

func TestDecodeTrailingBytes(t *testing.T) {
	assert := assert.New(t)
	_, err := Decode(hexBytes(t, "00"+"00"))
	assert.Error(err)
	de, ok := err.(*DecodeError)
	assert.True(ok)
	if ok {
		assert.Equal(ErrTrailingBytes, de.Kind)
		assert.Equal(1, de.Offset)
	}
}

func TestDecodeAllowConcatReturnsConsumedLength(t *testing.T) {
	assert := assert.New(t)
	v, n, err := DecodeAllowConcat(hexBytes(t, "00"+"01"))
	assert.NoError(err)
	assert.Equal(1, n)
	i, _ := v.Int64()
	assert.Equal(int64(0), i)
}

func TestDecodeLinkTag42(t *testing.T) {
	assert := assert.New(t)
	v, err := Decode(hexBytes(t, "d82a450001020304"))
	assert.NoError(err)
	assert.Equal(KindLink, v.Kind())
	link, ok := v.LinkValue()
	assert.True(ok)
	assert.Equal([]byte{0x01, 0x02, 0x03, 0x04}, link.Bytes())
}

func TestDecodeRejectsUnexpectedTag(t *testing.T) {
	assert := assert.New(t)
	// c1 00 : tag 1 (epoch timestamp, not CID) on integer 0.
	_, err := Decode(hexBytes(t, "c1"+"00"))
	assert.Error(err)
	de, ok := err.(*DecodeError)
	assert.True(ok)
	if ok {
		assert.Equal(ErrUnexpectedTag, de.Kind)
	}
}

func TestDecodeRejectsMissingCIDPrefix(t *testing.T) {
	assert := assert.New(t)
	// d82a 44 01020304 : tag 42 over a 4-byte string lacking the 0x00 prefix.
	_, err := Decode(hexBytes(t, "d82a4401020304"))
	assert.Error(err)
	de, ok := err.(*DecodeError)
	assert.True(ok)
	if ok {
		assert.Equal(ErrInvalidCIDPrefix, de.Kind)
	}
}

func TestDecodeRejectsIndefiniteLengthContainer(t *testing.T) {
	assert := assert.New(t)
	_, err := Decode([]byte{0x9f, 0xff}) // indefinite list, break
	assert.Error(err)
	de, ok := err.(*DecodeError)
	assert.True(ok)
	if ok {
		assert.Equal(ErrInvalidHead, de.Kind)
	}
}

func TestDecodeRejectsInvalidUTF8(t *testing.T) {
	assert := assert.New(t)
	// 61 ff : text string of length 1 containing an invalid UTF-8 byte.
	_, err := Decode(hexBytes(t, "61ff"))
	assert.Error(err)
	de, ok := err.(*DecodeError)
	assert.True(ok)
	if ok {
		assert.Equal(ErrInvalidUTF8, de.Kind)
	}
}

func TestDecodeNestingTooDeep(t *testing.T) {
	assert := assert.New(t)
	v := Int(1)
	for i := 0; i < 10; i++ {
		v = List([]Value{v})
	}
	enc, err := Encode(v)
	require.NoError(t, err)

	dec := Decoder{MaxDepth: 3}
	_, err = dec.Decode(enc)
	assert.Error(err)
	de, ok := err.(*DecodeError)
	assert.True(ok)
	if ok {
		assert.Equal(ErrNestingTooDeepDecode, de.Kind)
	}
}

func TestDecodeNegativeIntegerBeyondInt64Range(t *testing.T) {
	assert := assert.New(t)
	// 3b ffffffffffffffff : major 1 (negint), arg = 2^64-1, value = -1-arg,
	// which has no lossless 64-bit representation.
	_, err := Decode(hexBytes(t, "3bffffffffffffffff"))
	assert.Error(err)
	de, ok := err.(*DecodeError)
	assert.True(ok)
	if ok {
		assert.Equal(ErrIntegerOutOfRangeDecode, de.Kind)
	}
}

func TestDecodeKeepSourceEnablesSnippet(t *testing.T) {
	assert := assert.New(t)
	dec := Decoder{KeepSource: true}
	_, err := dec.Decode(hexBytes(t, "1817"))
	assert.Error(err)
	de, ok := err.(*DecodeError)
	assert.True(ok)
	if ok {
		assert.NotEmpty(de.Snippet(4))
	}
}

func TestDecodeWithoutKeepSourceSnippetIsEmpty(t *testing.T) {
	assert := assert.New(t)
	_, err := Decode(hexBytes(t, "1817"))
	assert.Error(err)
	de, ok := err.(*DecodeError)
	assert.True(ok)
	if ok {
		assert.Empty(de.Snippet(4))
	}
}

func TestDecodeOnItemCallback(t *testing.T) {
	assert := assert.New(t)
	var kinds []Kind
	dec := Decoder{OnItem: func(v Value, n int) { kinds = append(kinds, v.Kind()) }}
	_, err := dec.Decode(hexBytes(t, "82"+"00"+"01")) // [0, 1]
	assert.NoError(err)
	assert.Equal([]Kind{KindInt, KindInt, KindList}, kinds)
}

func TestRoundTripEncodeDecode(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	v := Map([]MapEntry{
		{Key: "a", Value: Int(12)},
		{Key: "b", Value: String("hello!")},
		{Key: "nested", Value: List([]Value{Int(1), Int(-2), Bool(true), Null(), Float(2.5)})},
	})
	enc, err := Encode(v)
	require.NoError(err)
	dec, err := Decode(enc)
	require.NoError(err)

	entries, ok := dec.MapValue()
	require.True(ok)
	assert.Len(entries, 3)
}

func TestCustomNewCIDIsUsed(t *testing.T) {
	assert := assert.New(t)
	called := false
	dec := Decoder{NewCID: func(raw []byte) (CID, error) {
		called = true
		return RawCID(raw), nil
	}}
	_, err := dec.Decode(hexBytes(t, "d82a450001020304"))
	assert.NoError(err)
	assert.True(called)
}
