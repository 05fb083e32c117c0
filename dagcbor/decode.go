package dagcbor

import (
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// MaxContainerLen, MaxStringLen and MaxBytesLen are default guard rails a
// caller may tighten or loosen via Decoder; they bound how large a single
// declared length is allowed to be, independent of the "cap pre-allocation
// at bytes remaining" rule that always applies regardless of these limits.
const (
	MaxContainerLen = 128 * 1024
	MaxStringLen    = 4 * 1024 * 1024
	MaxBytesLen     = 4 * 1024 * 1024
)

// Decoder parses canonical DAG-CBOR bytes into Values, rejecting every
// non-canonical form. The zero Decoder is ready to use.
type Decoder struct {
	// MaxDepth caps container recursion depth. Zero means DefaultMaxDepth;
	// a negative value disables the check.
	MaxDepth int

	// MaxContainerLen, MaxStringLen, MaxBytesLen override the package
	// defaults of the same name when non-zero.
	MaxContainerLen int
	MaxStringLen    int
	MaxBytesLen     int

	// NewCID constructs a CID from the raw bytes found after a tag-42
	// byte string's 0x00 multibase-identity prefix. If nil, RawCID is used,
	// which performs no validation beyond what the decoder itself already
	// checked (the 0x00 prefix).
	NewCID func([]byte) (CID, error)

	// OnItem, if non-nil, is invoked after every complete item (at any
	// depth, map keys included) is decoded, with the item and the number of
	// bytes it occupies, nested sub-items included. A container's call comes
	// after the calls for its sub-items. It is purely informational and
	// never affects parsing.
	OnItem func(Value, int)

	// KeepSource, if true, retains the input buffer on a *DecodeError so
	// that DecodeError.Snippet can render a hex dump. Off by default to
	// avoid retaining potentially large buffers past the failed call.
	KeepSource bool
}

func (d Decoder) maxDepth() int {
	if d.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return d.MaxDepth
}

func (d Decoder) maxContainerLen() int {
	if d.MaxContainerLen == 0 {
		return MaxContainerLen
	}
	return d.MaxContainerLen
}

func (d Decoder) maxStringLen() int {
	if d.MaxStringLen == 0 {
		return MaxStringLen
	}
	return d.MaxStringLen
}

func (d Decoder) maxBytesLen() int {
	if d.MaxBytesLen == 0 {
		return MaxBytesLen
	}
	return d.MaxBytesLen
}

func (d Decoder) newCID(raw []byte) (CID, error) {
	if d.NewCID != nil {
		return d.NewCID(raw)
	}
	return RawCID(raw), nil
}

// Decode parses exactly one DAG-CBOR item from data. Any bytes left over
// after that item are a TrailingBytes error. Use DecodeAllowConcat to
// permit and report on trailing bytes instead.
func Decode(data []byte) (Value, error) {
	return Decoder{}.Decode(data)
}

// Decode parses exactly one DAG-CBOR item from data using d's options.
func (d Decoder) Decode(data []byte) (Value, error) {
	v, n, err := d.decodeTop(data)
	if err != nil {
		return Value{}, err
	}
	if n < len(data) {
		return Value{}, d.attach(&DecodeError{Kind: ErrTrailingBytes, Offset: n, Path: "root",
			msg: msgTrailingBytes(len(data) - n)}, data)
	}
	return v, nil
}

// DecodeAllowConcat parses one DAG-CBOR item from the start of data and
// returns it along with the number of bytes it consumed, permitting
// (without reporting an error on) any bytes left over.
func DecodeAllowConcat(data []byte) (Value, int, error) {
	return Decoder{}.DecodeAllowConcat(data)
}

// DecodeAllowConcat parses one DAG-CBOR item from the start of data using
// d's options and returns it along with the number of bytes consumed.
func (d Decoder) DecodeAllowConcat(data []byte) (Value, int, error) {
	return d.decodeTop(data)
}

// DecodeReader reads r to completion and decodes exactly one DAG-CBOR item
// from the result; this is the "thin streaming adapter" over the
// buffer-oriented decoder described in the design. Trailing bytes after
// the first item are an error, matching Decode.
func DecodeReader(r io.Reader) (Value, error) {
	return Decoder{}.DecodeReader(r)
}

// DecodeReader reads r to completion and decodes exactly one DAG-CBOR item
// from the result using d's options.
func (d Decoder) DecodeReader(r io.Reader) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Value{}, err
	}
	return d.Decode(data)
}

func (d Decoder) decodeTop(data []byte) (Value, int, error) {
	st := &decodeState{dec: d, src: data, p: &path{}}
	v, err := st.decodeValue(0)
	if err != nil {
		return Value{}, 0, d.attach(err, data)
	}
	return v, st.pos, nil
}

// attach turns an internal error (which may lack a retained source buffer)
// into the form callers see, optionally retaining data for Snippet.
func (d Decoder) attach(err error, data []byte) error {
	de, ok := err.(*DecodeError)
	if !ok {
		return err
	}
	if d.KeepSource {
		de.src = data
	}
	return de
}

func msgTrailingBytes(n int) string {
	if n == 1 {
		return "1 trailing byte after the decoded item"
	}
	return fmt.Sprintf("%d trailing bytes after the decoded item", n)
}

// decodeState carries the mutable cursor position through one decode call.
type decodeState struct {
	dec Decoder
	src []byte
	pos int
	p   *path
}

func (s *decodeState) remaining() []byte { return s.src[s.pos:] }

// decodeValue decodes one item starting at s.pos, advances s.pos past it,
// and returns it. depth is the current container nesting depth.
func (s *decodeState) decodeValue(depth int) (Value, error) {
	if s.dec.maxDepth() >= 0 && depth > s.dec.maxDepth() {
		return Value{}, decodeErr(ErrNestingTooDeepDecode, s.pos, s.p.String(), "exceeded max depth %d", s.dec.maxDepth())
	}

	itemStart := s.pos
	hd, err := decodeHead(s.remaining())
	if err != nil {
		return Value{}, s.headErrAt(itemStart, err)
	}
	s.pos += hd.n

	var v Value
	switch hd.major {
	case majorUint:
		v = Uint64(hd.arg)
	case majorNegInt:
		v, err = s.decodeNegInt(hd.arg, itemStart)
	case majorBytes:
		v, err = s.decodeBytes(hd.arg, itemStart)
	case majorString:
		v, err = s.decodeString(hd.arg, itemStart)
	case majorList:
		v, err = s.decodeList(hd.arg, depth, itemStart)
	case majorMap:
		v, err = s.decodeMap(hd.arg, depth, itemStart)
	case majorTag:
		v, err = s.decodeTag(hd.arg, depth, itemStart)
	case majorSimple:
		v, err = s.decodeSimple(hd, itemStart)
	default:
		panic("unreachable kind")
	}
	if err != nil {
		return Value{}, err
	}

	if s.dec.OnItem != nil {
		s.dec.OnItem(v, s.pos-itemStart)
	}
	return v, nil
}

func (s *decodeState) headErrAt(base int, err error) error {
	he, ok := err.(*headError)
	if !ok {
		return err
	}
	return decodeErr(he.kind, base+he.rel, s.p.String(), "%s", he.Error())
}

func (s *decodeState) decodeNegInt(arg uint64, itemStart int) (Value, error) {
	// value = -1 - arg. This fits int64 iff arg <= 2^63-1 (giving value as
	// low as -2^63, int64's minimum). Larger arguments would need a
	// magnitude below math.MinInt64, which this implementation does not
	// support — see SPEC_FULL.md §3.
	const maxNegArg = uint64(1)<<63 - 1
	if arg > maxNegArg {
		return Value{}, decodeErr(ErrIntegerOutOfRangeDecode, itemStart, s.p.String(),
			"negative integer -1-%d has no lossless 64-bit representation", arg)
	}
	return Int(-1 - int64(arg)), nil
}

func (s *decodeState) decodeBytes(length uint64, itemStart int) (Value, error) {
	b, err := s.readN(length, s.dec.maxBytesLen(), itemStart, "bytestring")
	if err != nil {
		return Value{}, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return Bytes(out), nil
}

func (s *decodeState) decodeString(length uint64, itemStart int) (Value, error) {
	b, err := s.readN(length, s.dec.maxStringLen(), itemStart, "string")
	if err != nil {
		return Value{}, err
	}
	if !utf8.Valid(b) {
		return Value{}, decodeErr(ErrInvalidUTF8, itemStart, s.p.String(), "string bytes are not valid UTF-8")
	}
	return String(string(b)), nil
}

// readN reads exactly length bytes, failing with UnexpectedEndOfInput if
// fewer remain. length is also checked against maxLen as a sanity guard,
// but the binding limit is always what's actually left in the input: a
// declared length cannot force an allocation larger than the remaining
// bytes, per the resource-discipline requirement.
func (s *decodeState) readN(length uint64, maxLen int, itemStart int, what string) ([]byte, error) {
	if length > uint64(maxLen) {
		return nil, decodeErr(ErrUnexpectedEndOfInput, itemStart, s.p.String(),
			"declared %s length %d exceeds configured maximum %d", what, length, maxLen)
	}
	avail := uint64(len(s.remaining()))
	if length > avail {
		return nil, decodeErr(ErrUnexpectedEndOfInput, s.pos, s.p.String(),
			"declared %s length %d exceeds %d bytes remaining in input", what, length, avail)
	}
	b := s.remaining()[:length]
	s.pos += int(length)
	return b, nil
}

func (s *decodeState) decodeList(length uint64, depth int, itemStart int) (Value, error) {
	if length > uint64(s.dec.maxContainerLen()) {
		return Value{}, decodeErr(ErrUnexpectedEndOfInput, itemStart, s.p.String(),
			"declared list length %d exceeds configured maximum %d", length, s.dec.maxContainerLen())
	}
	prealloc := length
	if avail := uint64(len(s.remaining())); prealloc > avail {
		prealloc = avail // cannot need more elements than there are bytes left
	}
	items := make([]Value, 0, prealloc)
	for i := uint64(0); i < length; i++ {
		s.p.pushIndex("list", int(i))
		v, err := s.decodeValue(depth+1)
		s.p.pop()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	return List(items), nil
}

func (s *decodeState) decodeMap(length uint64, depth int, itemStart int) (Value, error) {
	if length > uint64(s.dec.maxContainerLen()) {
		return Value{}, decodeErr(ErrUnexpectedEndOfInput, itemStart, s.p.String(),
			"declared map length %d exceeds configured maximum %d", length, s.dec.maxContainerLen())
	}
	prealloc := length
	if avail := uint64(len(s.remaining())); prealloc > avail {
		prealloc = avail
	}
	entries := make([]MapEntry, 0, prealloc)
	var prevKey string
	havePrev := false

	for i := uint64(0); i < length; i++ {
		keyStart := s.pos
		keyVal, err := s.decodeValue(depth+1)
		if err != nil {
			return Value{}, err
		}
		key, isStr := keyVal.StringValue()
		if !isStr {
			return Value{}, decodeErr(ErrMapKeyNotString, keyStart, s.p.String(), "map key is not a string (kind %v)", keyVal.Kind())
		}
		if havePrev {
			switch {
			case key == prevKey:
				return Value{}, decodeErr(ErrMapKeyDuplicate, keyStart, s.p.String(), "duplicate map key %q", key)
			case !keyLess(prevKey, key):
				return Value{}, decodeErr(ErrMapKeyOutOfOrder, keyStart, s.p.String(),
					"map key %q is out of canonical order after %q", key, prevKey)
			}
		}
		prevKey = key
		havePrev = true

		s.p.pushKey(key)
		v, err := s.decodeValue(depth+1)
		s.p.pop()
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, MapEntry{Key: key, Value: v})
	}
	return Map(entries), nil
}

func (s *decodeState) decodeTag(tag uint64, depth int, itemStart int) (Value, error) {
	if tag != tagCID {
		return Value{}, decodeErr(ErrUnexpectedTag, itemStart, s.p.String(), "unexpected tag %d, only tag 42 (CID) is allowed", tag)
	}
	innerStart := s.pos
	inner, err := s.decodeValue(depth+1)
	if err != nil {
		return Value{}, err
	}
	b, ok := inner.BytesValue()
	if !ok {
		return Value{}, decodeErr(ErrInvalidCIDPrefix, innerStart, s.p.String(), "tag 42 content must be a byte string, found %v", inner.Kind())
	}
	if len(b) == 0 || b[0] != 0x00 {
		return Value{}, decodeErr(ErrInvalidCIDPrefix, innerStart, s.p.String(), "CID byte string must begin with the 0x00 multibase-identity prefix")
	}
	c, err := s.dec.newCID(b[1:])
	if err != nil {
		return Value{}, decodeErr(ErrInvalidCIDPrefix, innerStart, s.p.String(), "constructing CID: %v", err)
	}
	return Link(c), nil
}

func (s *decodeState) decodeSimple(hd decodedHead, itemStart int) (Value, error) {
	if hd.minor == minorUint64 {
		bits := hd.arg // decodeHead parsed these 8 bytes as a big-endian uint64 bit pattern
		f := math.Float64frombits(bits)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, decodeErr(ErrDisallowedFloatDecode, itemStart, s.p.String(), "float value %v is not allowed (NaN/Infinity)", f)
		}
		return Float(f), nil
	}
	switch hd.arg {
	case simpleFalse:
		return Bool(false), nil
	case simpleTrue:
		return Bool(true), nil
	case simpleNull:
		return Null(), nil
	default:
		return Value{}, decodeErr(ErrInvalidHead, itemStart, s.p.String(), "simple value %d is not one of false/true/null/float64", hd.arg)
	}
}
