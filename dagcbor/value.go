package dagcbor

// Kind discriminates the nine value shapes the DAG-CBOR data model allows.
type Kind uint8

const (
	// KindInvalid is the zero value of Kind; a Value in this state was never
	// constructed through one of the package's constructors.
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindBytes
	KindString
	KindList
	KindMap
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// CID is the opaque content-identifier collaborator. The codec never
// inspects a CID beyond obtaining its raw bytes for encoding, or handing
// freshly read raw bytes to a constructor for decoding; validity beyond the
// 0x00 multibase-identity prefix required by DAG-CBOR is the collaborator's
// responsibility.
type CID interface {
	Bytes() []byte
}

// RawCID is the package's default CID collaborator: it stores whatever raw
// bytes followed the multibase-identity prefix without further validation.
// Callers who want real CID parsing (multihash, multicodec, version checks)
// should use dagcbor/dagcid instead and pass its constructor to the decoder.
type RawCID []byte

// Bytes implements CID.
func (c RawCID) Bytes() []byte { return []byte(c) }

// MapEntry is one key/value pair of a Map value.
type MapEntry struct {
	Key   string
	Value Value
}

// Value is a closed tagged union over the nine IPLD value kinds the codec
// understands. The zero Value has Kind() == KindInvalid and is never
// produced by a decode; encoding one is a programming error (UnsupportedType).
type Value struct {
	kind Kind

	b bool

	// Int representation: see SPEC_FULL.md §3 for why this, rather than a
	// single int64 or a bignum, is the chosen representation.
	iVal   int64
	uVal   uint64
	intBig bool // true: value is non-negative and doesn't fit int64; uVal holds it

	f float64

	bytesVal []byte
	strVal   string

	list []Value

	entries []MapEntry

	link CID
}

// Kind reports which of the nine shapes v holds.
func (v Value) Kind() Kind { return v.kind }

// Null constructs the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool constructs a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int constructs a signed integer value in the range representable by
// int64, i.e. [-2^63, 2^63-1]. For non-negative values above math.MaxInt64,
// use Uint64.
func Int(i int64) Value { return Value{kind: KindInt, iVal: i} }

// Uint64 constructs a non-negative integer value, including magnitudes
// above math.MaxInt64 (up to 2^64-1) that int64 cannot hold.
func Uint64(u uint64) Value {
	if u <= uint64(1)<<63-1 {
		return Value{kind: KindInt, iVal: int64(u)}
	}
	return Value{kind: KindInt, uVal: u, intBig: true}
}

// Float constructs a float value. f must not be NaN or ±Infinity; use of
// such a value is rejected at encode time with DisallowedFloat, not here,
// so that decoded values (which might legitimately fail validation later)
// can still be constructed and inspected.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bytes constructs a byte-string value. The slice is retained, not copied.
func Bytes(b []byte) Value { return Value{kind: KindBytes, bytesVal: b} }

// String constructs a text-string value. Validity as UTF-8 is checked at
// encode time.
func String(s string) Value { return Value{kind: KindString, strVal: s} }

// List constructs a list value. The slice is retained, not copied.
func List(items []Value) Value { return Value{kind: KindList, list: items} }

// Map constructs a map value from entries in caller-supplied order. The
// encoder canonicalises the order; it does not need to be canonical already
// (though if it already is, no re-sort is performed internally).
func Map(entries []MapEntry) Value { return Value{kind: KindMap, entries: entries} }

// Link constructs a value wrapping a CID.
func Link(c CID) Value { return Value{kind: KindLink, link: c} }

// Bool returns the boolean payload and whether v holds one.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Int64 returns the signed integer payload and whether v holds an Int that
// fits int64. For Int values above math.MaxInt64, ok is false; use Uint64.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindInt || v.intBig {
		return 0, false
	}
	return v.iVal, true
}

// Uint64 returns the non-negative integer payload and whether v holds an
// Int that is not negative. Works whether or not the value overflows int64.
func (v Value) Uint64() (uint64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	if v.intBig {
		return v.uVal, true
	}
	if v.iVal < 0 {
		return 0, false
	}
	return uint64(v.iVal), true
}

// IsNegativeInt reports whether v is an Int holding a negative value.
func (v Value) IsNegativeInt() bool {
	return v.kind == KindInt && !v.intBig && v.iVal < 0
}

// Float64 returns the float payload and whether v holds one.
func (v Value) Float64() (float64, bool) { return v.f, v.kind == KindFloat }

// BytesValue returns the byte-string payload and whether v holds one.
func (v Value) BytesValue() ([]byte, bool) { return v.bytesVal, v.kind == KindBytes }

// StringValue returns the text-string payload and whether v holds one.
func (v Value) StringValue() (string, bool) { return v.strVal, v.kind == KindString }

// ListValue returns the list payload and whether v holds one.
func (v Value) ListValue() ([]Value, bool) { return v.list, v.kind == KindList }

// MapValue returns the map entries, in whatever order they were given or
// decoded in, and whether v holds a Map.
func (v Value) MapValue() ([]MapEntry, bool) { return v.entries, v.kind == KindMap }

// LinkValue returns the CID payload and whether v holds one.
func (v Value) LinkValue() (CID, bool) { return v.link, v.kind == KindLink }
