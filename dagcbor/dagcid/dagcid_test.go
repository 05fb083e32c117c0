package dagcid

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashberg-io/dag-cbor/dagcbor"
)

func sampleCid(t *testing.T) cid.Cid {
	t.Helper()
	mh, err := multihash.Encode(make([]byte, 32), multihash.SHA2_256)
	require.NoError(t, err)
	return cid.NewCidV1(cid.Raw, mh)
}

func TestWrapSatisfiesDagcborCID(t *testing.T) {
	assert := assert.New(t)
	c := sampleCid(t)
	var _ dagcbor.CID = Wrap(c)
	assert.Equal(c.Bytes(), Wrap(c).Bytes())
}

func TestNewRoundTripsThroughBytes(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	c := sampleCid(t)
	got, err := New(c.Bytes())
	require.NoError(err)
	assert.Equal(c.Bytes(), got.Bytes())

	wrapped, ok := got.(CID)
	require.True(ok)
	assert.Equal(c.String(), wrapped.String())
	assert.True(c.Equals(wrapped.Cid()))
}

func TestNewRejectsGarbageBytes(t *testing.T) {
	assert := assert.New(t)
	_, err := New([]byte{0xff, 0xff, 0xff})
	assert.Error(err)
}

func TestConstructorMatchesNew(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	c := sampleCid(t)

	got, err := Constructor(c.Bytes())
	require.NoError(err)
	assert.Equal(c.Bytes(), got.Bytes())
}

func TestEncodeDecodeRoundTripWithDagcid(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	c := sampleCid(t)
	v := dagcbor.Link(Wrap(c))

	enc, err := dagcbor.Encode(v)
	require.NoError(err)

	dec := dagcbor.Decoder{NewCID: Constructor}
	out, err := dec.Decode(enc)
	require.NoError(err)

	link, ok := out.LinkValue()
	require.True(ok)
	wrapped, ok := link.(CID)
	require.True(ok)
	assert.True(c.Equals(wrapped.Cid()))
}
