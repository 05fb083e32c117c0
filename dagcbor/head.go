package dagcbor

import (
	"encoding/binary"
	"fmt"
)

// major is the CBOR major type: the top 3 bits of a head byte.
type major uint8

const (
	majorUint    major = 0
	majorNegInt  major = 1
	majorBytes   major = 2
	majorString  major = 3
	majorList    major = 4
	majorMap     major = 5
	majorTag     major = 6
	majorSimple  major = 7
)

// Additional-info values with a reserved meaning, per RFC 8949 §3.
const (
	minorUint8  = 24
	minorUint16 = 25
	minorUint32 = 26
	minorUint64 = 27

	simpleFalse = 20
	simpleTrue  = 21
	simpleNull  = 22
	simpleFloat = 27 // additional info 27 on major 7 means "8 byte float", not an int width

	tagCID = 42
)

// encodeHead appends the canonical one-to-nine-byte head for (m, arg) to
// dst, choosing the shortest form that can hold arg, and returns the result.
func encodeHead(dst []byte, m major, arg uint64) []byte {
	top := byte(m) << 5
	switch {
	case arg < 24:
		return append(dst, top|byte(arg))
	case arg <= 0xff:
		return append(dst, top|minorUint8, byte(arg))
	case arg <= 0xffff:
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], uint16(arg))
		return append(append(dst, top|minorUint16), buf[:]...)
	case arg <= 0xffffffff:
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], uint32(arg))
		return append(append(dst, top|minorUint32), buf[:]...)
	default:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], arg)
		return append(append(dst, top|minorUint64), buf[:]...)
	}
}

// headLen reports how many bytes encodeHead would emit for arg, without
// actually encoding it. The encoder does not call it (EncodeInto counts
// bytes through a countingWriter); the head tests use it to check the
// widths encodeHead chooses.
func headLen(arg uint64) int {
	switch {
	case arg < 24:
		return 1
	case arg <= 0xff:
		return 2
	case arg <= 0xffff:
		return 3
	case arg <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// decodedHead is the result of parsing one CBOR head.
type decodedHead struct {
	major major
	minor byte   // the raw additional-info field, needed by major 7 dispatch
	arg   uint64 // for major == majorSimple && minor == minorUint64 (float) this is the raw 8-byte bit pattern, exempt from the canonical-width check
	n     int    // total bytes consumed by the head, including the leading byte
}

// headError is a decode failure local to head parsing. It carries an offset
// relative to the start of the head bytes it was given, not an absolute
// stream offset or container path — decodeValue (decode.go) attaches both
// when it turns this into a *DecodeError.
type headError struct {
	kind DecodeErrorKind
	rel  int
	msg  string
}

func (e *headError) Error() string { return e.msg }

// decodeHead parses the head at the start of buf (buf[0] is the leading
// byte). It enforces minimum-length argument encoding: a value is rejected
// with ErrNonCanonicalArgument if it was encoded with more bytes than the
// minimal form requires. It does not itself enforce major-type-specific
// minor-value restrictions (e.g. major 7's minor 20/21/22/27 whitelist) —
// that is the decoder's job, since the legality of a minor value depends on
// the major type it accompanies.
func decodeHead(buf []byte) (decodedHead, error) {
	if len(buf) < 1 {
		return decodedHead{}, &headError{kind: ErrUnexpectedEndOfInput, rel: 0, msg: "unexpected end of input reading head byte"}
	}
	lead := buf[0]
	m := major(lead >> 5)
	minor := lead & 0x1f

	if minor < 24 {
		return decodedHead{major: m, minor: minor, arg: uint64(minor), n: 1}, nil
	}
	if minor > 27 {
		return decodedHead{}, &headError{kind: ErrInvalidHead, rel: 0,
			msg: fmt.Sprintf("additional info %d is reserved (indefinite length or break)", minor)}
	}

	nbytes := 1 << (minor - 24)
	if len(buf) < 1+nbytes {
		return decodedHead{}, &headError{kind: ErrUnexpectedEndOfInput, rel: 1,
			msg: fmt.Sprintf("unexpected end of input reading %d byte head argument", nbytes)}
	}
	argBytes := buf[1 : 1+nbytes]

	var arg uint64
	switch nbytes {
	case 1:
		arg = uint64(argBytes[0])
	case 2:
		arg = uint64(binary.BigEndian.Uint16(argBytes))
	case 4:
		arg = uint64(binary.BigEndian.Uint32(argBytes))
	case 8:
		arg = binary.BigEndian.Uint64(argBytes)
	}

	// Canonicality: the chosen width must have been necessary. Major 7 with
	// minor 27 is a float, not an integer argument, and is exempt — a
	// double always takes exactly 8 bytes regardless of its value.
	if !(m == majorSimple && minor == minorUint64) {
		threshold := minCanonicalArg(minor)
		if arg < threshold {
			return decodedHead{}, &headError{kind: ErrNonCanonicalArgument, rel: 1,
				msg: fmt.Sprintf("argument %d encoded in %d bytes, but fits in a shorter form", arg, nbytes)}
		}
	}

	return decodedHead{major: m, minor: minor, arg: arg, n: 1 + nbytes}, nil
}

// minCanonicalArg reports the smallest argument value for which the head
// width implied by minor is actually required.
func minCanonicalArg(minor byte) uint64 {
	switch minor {
	case minorUint8:
		return 24
	case minorUint16:
		return 1 << 8
	case minorUint32:
		return 1 << 16
	default: // minorUint64
		return 1 << 32
	}
}
