package dagcbor

import (
	"bytes"
	"io"
	"math"
	"unicode/utf8"
)

// DefaultMaxDepth is the default recursion limit applied by a zero-value
// Encoder or Decoder: deep enough for realistic data, shallow enough to
// fail with a clear error well before exhausting the host stack.
const DefaultMaxDepth = 256

// Encoder serialises IPLD values to canonical DAG-CBOR bytes. The zero
// Encoder is ready to use.
type Encoder struct {
	// MaxDepth caps container recursion depth. Zero means DefaultMaxDepth;
	// a negative value disables the check entirely.
	MaxDepth int
}

func (e Encoder) maxDepth() int {
	if e.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return e.MaxDepth
}

// Encode serialises v to a freshly allocated canonical byte slice. No
// partial output is visible to the caller on failure.
func Encode(v Value) ([]byte, error) {
	return Encoder{}.Encode(v)
}

// Encode serialises v to a freshly allocated canonical byte slice using e's
// options.
func (e Encoder) Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer
	p := &path{}
	if err := e.encodeValue(&buf, v, p, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeInto writes v's canonical encoding directly to w and reports the
// number of bytes written. On failure, the returned count reflects exactly
// how many bytes reached w before the error, as required when streaming
// (no buffering is performed internally).
func EncodeInto(v Value, w io.Writer) (int, error) {
	return Encoder{}.EncodeInto(v, w)
}

// EncodeInto writes v's canonical encoding directly to w using e's options.
func (e Encoder) EncodeInto(v Value, w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	p := &path{}
	err := e.encodeValue(cw, v, p, 0)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

func (e Encoder) encodeValue(w io.Writer, v Value, p *path, depth int) error {
	if e.maxDepth() >= 0 && depth > e.maxDepth() {
		return encodeErr(ErrNestingTooDeepEncode, p.String(), "exceeded max depth %d", e.maxDepth())
	}

	switch v.Kind() {
	case KindNull:
		_, err := w.Write([]byte{0xf6})
		return err
	case KindBool:
		b, _ := v.Bool()
		if b {
			_, err := w.Write([]byte{0xf5})
			return err
		}
		_, err := w.Write([]byte{0xf4})
		return err
	case KindInt:
		return e.encodeInt(w, v, p)
	case KindFloat:
		f, _ := v.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return encodeErr(ErrDisallowedFloatEncode, p.String(), "float value %v is not allowed (NaN/Infinity)", f)
		}
		var head [9]byte
		head[0] = byte(majorSimple)<<5 | simpleFloat
		putFloat64(head[1:], f)
		_, err := w.Write(head[:])
		return err
	case KindBytes:
		b, _ := v.BytesValue()
		return e.encodeHeadAndBytes(w, majorBytes, b, p)
	case KindString:
		s, _ := v.StringValue()
		if !utf8.ValidString(s) {
			return encodeErr(ErrUnsupportedType, p.String(), "string is not valid UTF-8")
		}
		return e.encodeHeadAndBytes(w, majorString, []byte(s), p)
	case KindList:
		items, _ := v.ListValue()
		head := encodeHead(nil, majorList, uint64(len(items)))
		if _, err := w.Write(head); err != nil {
			return err
		}
		for i, item := range items {
			p.pushIndex("list", i)
			err := e.encodeValue(w, item, p, depth+1)
			p.pop()
			if err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		return e.encodeMap(w, v, p, depth)
	case KindLink:
		return e.encodeLink(w, v, p)
	default:
		return encodeErr(ErrUnsupportedType, p.String(), "unsupported value kind %v", v.Kind())
	}
}

func (e Encoder) encodeInt(w io.Writer, v Value, p *path) error {
	if u, ok := v.Uint64(); ok {
		head := encodeHead(nil, majorUint, u)
		_, err := w.Write(head)
		return err
	}
	// Negative: Int64 always succeeds here because Uint64 failing on a
	// KindInt value means it was negative (the only other reason Uint64
	// fails is v not being an Int at all, which can't happen here).
	i, _ := v.Int64()
	arg := uint64(-1 - i) // i is int64 and negative, so -1-i cannot overflow
	head := encodeHead(nil, majorNegInt, arg)
	_, err := w.Write(head)
	return err
}

func (e Encoder) encodeHeadAndBytes(w io.Writer, m major, b []byte, p *path) error {
	head := encodeHead(nil, m, uint64(len(b)))
	if _, err := w.Write(head); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func (e Encoder) encodeMap(w io.Writer, v Value, p *path, depth int) error {
	entries, _ := v.MapValue()

	var order []int
	if isCanonicallySorted(entries) {
		order = nil // identity order; avoid the sort and the allocation
	} else {
		var err error
		order, err = sortedEntryIndices(entries)
		if err != nil {
			if ee, ok := err.(*EncodeError); ok {
				ee.Path = p.String()
			}
			return err
		}
	}

	head := encodeHead(nil, majorMap, uint64(len(entries)))
	if _, err := w.Write(head); err != nil {
		return err
	}

	at := func(i int) MapEntry {
		if order == nil {
			return entries[i]
		}
		return entries[order[i]]
	}
	for i := 0; i < len(entries); i++ {
		entry := at(i)
		p.pushKey(entry.Key)
		err := e.encodeValue(w, String(entry.Key), p, depth+1)
		if err == nil {
			err = e.encodeValue(w, entry.Value, p, depth+1)
		}
		p.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (e Encoder) encodeLink(w io.Writer, v Value, p *path) error {
	link, _ := v.LinkValue()
	if link == nil {
		return encodeErr(ErrUnsupportedType, p.String(), "nil CID")
	}
	raw := link.Bytes()
	buf := make([]byte, 0, 1+len(raw))
	buf = append(buf, 0x00)
	buf = append(buf, raw...)

	tagHead := encodeHead(nil, majorTag, tagCID)
	if _, err := w.Write(tagHead); err != nil {
		return err
	}
	return e.encodeHeadAndBytes(w, majorBytes, buf, p)
}

func putFloat64(dst []byte, f float64) {
	bits := math.Float64bits(f)
	dst[0] = byte(bits >> 56)
	dst[1] = byte(bits >> 48)
	dst[2] = byte(bits >> 40)
	dst[3] = byte(bits >> 32)
	dst[4] = byte(bits >> 24)
	dst[5] = byte(bits >> 16)
	dst[6] = byte(bits >> 8)
	dst[7] = byte(bits)
}
