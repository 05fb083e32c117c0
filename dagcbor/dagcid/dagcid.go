// Package dagcid adapts github.com/ipfs/go-cid's CID type to the narrow
// dagcbor.CID interface. The core dagcbor package never imports go-cid
// directly; this package is where that dependency actually lives.
package dagcid

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/hashberg-io/dag-cbor/dagcbor"
)

// CID wraps a go-cid CID so it satisfies dagcbor.CID.
type CID cid.Cid

// Bytes implements dagcbor.CID.
func (c CID) Bytes() []byte {
	return cid.Cid(c).Bytes()
}

// Cid returns the underlying go-cid value.
func (c CID) Cid() cid.Cid {
	return cid.Cid(c)
}

// String renders the CID in its default (base32) string form.
func (c CID) String() string {
	return cid.Cid(c).String()
}

// Wrap adapts an existing go-cid CID as a dagcbor.CID, for use on the
// encode side (constructing a dagcbor.Value with dagcbor.Link).
func Wrap(c cid.Cid) dagcbor.CID {
	return CID(c)
}

// New parses raw as a go-cid CID, for use as a dagcbor.Decoder.NewCID
// constructor: it validates the multihash and multicodec structure that
// RawCID, the core package's fallback, deliberately does not.
func New(raw []byte) (dagcbor.CID, error) {
	c, err := cid.Cast(raw)
	if err != nil {
		return nil, fmt.Errorf("casting CID from raw bytes: %w", err)
	}
	return CID(c), nil
}

// Constructor is a ready-to-use dagcbor.Decoder.NewCID value backed by New,
// so callers can write Decoder{NewCID: dagcid.Constructor}.
var Constructor = New
