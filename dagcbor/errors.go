package dagcbor

import (
	"fmt"
	"strings"
)

// EncodeErrorKind discriminates the reasons Encode/EncodeInto can fail.
type EncodeErrorKind int

const (
	ErrUnsupportedType EncodeErrorKind = iota + 1
	ErrNonStringMapKey
	ErrDuplicateMapKey
	ErrDisallowedFloatEncode
	ErrIntegerOutOfRange
	ErrNestingTooDeepEncode
)

func (k EncodeErrorKind) String() string {
	switch k {
	case ErrUnsupportedType:
		return "UnsupportedType"
	case ErrNonStringMapKey:
		return "NonStringMapKey"
	case ErrDuplicateMapKey:
		return "DuplicateMapKey"
	case ErrDisallowedFloatEncode:
		return "DisallowedFloat"
	case ErrIntegerOutOfRange:
		return "IntegerOutOfRange"
	case ErrNestingTooDeepEncode:
		return "NestingTooDeep"
	default:
		return "Unknown"
	}
}

// EncodeError is returned by Encode/EncodeInto. Path describes where, in
// the in-memory value tree, the problem was found (e.g. `root/list[3]/map["foo"]`).
type EncodeError struct {
	Kind EncodeErrorKind
	Path string
	msg  string
}

func (e *EncodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("dagcbor: %s: %s", e.Kind, e.msg)
	}
	return fmt.Sprintf("dagcbor: %s at %s: %s", e.Kind, e.Path, e.msg)
}

func encodeErr(kind EncodeErrorKind, path string, format string, args ...any) *EncodeError {
	return &EncodeError{Kind: kind, Path: path, msg: fmt.Sprintf(format, args...)}
}

// DecodeErrorKind discriminates the reasons Decode/DecodeAllowConcat can fail.
type DecodeErrorKind int

const (
	ErrUnexpectedEndOfInput DecodeErrorKind = iota + 1
	ErrInvalidHead
	ErrNonCanonicalArgument
	ErrInvalidUTF8
	ErrUnexpectedTag
	ErrDisallowedFloatDecode
	ErrMapKeyNotString
	ErrMapKeyDuplicate
	ErrMapKeyOutOfOrder
	ErrInvalidCIDPrefix
	ErrTrailingBytes
	ErrNestingTooDeepDecode

	// ErrIntegerOutOfRangeDecode is not one of the decode error kinds
	// spec.md enumerates; it is added to resolve spec.md §9's explicit
	// Open Question about integers beyond this implementation's chosen
	// 64-bit representation (see SPEC_FULL.md §3). Kept distinct from
	// ErrUnexpectedEndOfInput, which it would otherwise be mistaken for.
	ErrIntegerOutOfRangeDecode
)

func (k DecodeErrorKind) String() string {
	switch k {
	case ErrUnexpectedEndOfInput:
		return "UnexpectedEndOfInput"
	case ErrInvalidHead:
		return "InvalidHead"
	case ErrNonCanonicalArgument:
		return "NonCanonicalArgument"
	case ErrInvalidUTF8:
		return "InvalidUtf8"
	case ErrUnexpectedTag:
		return "UnexpectedTag"
	case ErrDisallowedFloatDecode:
		return "DisallowedFloat"
	case ErrMapKeyNotString:
		return "MapKeyNotString"
	case ErrMapKeyDuplicate:
		return "MapKeyDuplicate"
	case ErrMapKeyOutOfOrder:
		return "MapKeyOutOfOrder"
	case ErrInvalidCIDPrefix:
		return "InvalidCidPrefix"
	case ErrTrailingBytes:
		return "TrailingBytes"
	case ErrNestingTooDeepDecode:
		return "NestingTooDeep"
	case ErrIntegerOutOfRangeDecode:
		return "IntegerOutOfRange"
	default:
		return "Unknown"
	}
}

// DecodeError is returned by Decode/DecodeAllowConcat/DecodeReader. Offset
// is the byte position, relative to the start of the input, at which the
// problem was detected. Path describes the container stack at that point
// (e.g. `root/list[3]/map["foo"]`). src, if non-nil, is the input buffer
// the error occurred in, retained only so Snippet can render it.
type DecodeError struct {
	Kind   DecodeErrorKind
	Offset int
	Path   string
	msg    string
	src    []byte
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("dagcbor: %s at offset %d: %s", e.Kind, e.Offset, e.msg)
	}
	return fmt.Sprintf("dagcbor: %s at offset %d (%s): %s", e.Kind, e.Offset, e.Path, e.msg)
}

func decodeErr(kind DecodeErrorKind, offset int, path string, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Path: path, msg: fmt.Sprintf(format, args...)}
}

// Snippet renders up to 2*radius+1 bytes of the input centred on e.Offset
// as space-separated hex pairs, with a caret on the line below pointing at
// the offending byte. Returns "" if the source buffer was not retained
// (the Decoder that produced the error did not have KeepSource set).
func (e *DecodeError) Snippet(radius int) string {
	if e.src == nil {
		return ""
	}
	if radius < 0 {
		radius = 0
	}
	start := e.Offset - radius
	if start < 0 {
		start = 0
	}
	end := e.Offset + radius + 1
	if end > len(e.src) {
		end = len(e.src)
	}
	if start > end {
		return ""
	}

	var hex, caret strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			hex.WriteByte(' ')
			caret.WriteByte(' ')
		}
		fmt.Fprintf(&hex, "%02x", e.src[i])
		if i == e.Offset {
			caret.WriteString("^^")
		} else {
			caret.WriteString("  ")
		}
	}
	return hex.String() + "\n" + caret.String()
}

// path is an explicit, pushed/popped stack of container frames used to
// build the Path string carried by both error families, rather than
// reconstructed from the Go call stack.
type path struct {
	segs []string
}

func (p *path) pushIndex(kind string, idx int) {
	p.segs = append(p.segs, fmt.Sprintf("%s[%d]", kind, idx))
}

func (p *path) pushKey(key string) {
	p.segs = append(p.segs, fmt.Sprintf("map[%q]", key))
}

func (p *path) pop() {
	p.segs = p.segs[:len(p.segs)-1]
}

func (p *path) String() string {
	if len(p.segs) == 0 {
		return "root"
	}
	return "root/" + strings.Join(p.segs, "/")
}
