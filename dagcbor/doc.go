// Package dagcbor implements the DAG-CBOR codec: a strict, deterministic
// restriction of CBOR that produces exactly one canonical byte sequence for
// every value it can represent, suitable for content-addressed storage.
//
// The package handles exactly nine value kinds (see Kind): Null, Bool, Int,
// Float, Bytes, String, List, Map and Link (a CID). Encoding always produces
// the canonical form; decoding rejects any byte sequence that is not already
// in that form.
package dagcbor
