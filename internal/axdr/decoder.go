package axdr

import (
	"unicode/utf8"

	"github.com/vegardh/han-decode/internal/decoerr"
)

// UnknownTagHandler is invoked in lenient mode when an unrecognised tag is
// encountered, so the caller can log a diagnostic (spec §4.3: "the
// reference implementation logs and returns null for an unknown tag").
type UnknownTagHandler func(tag Tag, offset int)

// Decoder decodes a COSEM payload into its top-level value sequence.
type Decoder struct {
	// Strict, when true, turns an unknown tag into a DecodeError instead of
	// substituting a null value and resyncing at the next byte. A short
	// read within a known variant is a DecodeError in both modes.
	Strict bool
	// OnUnknownTag, if set, is called for every unrecognised tag seen in
	// lenient mode.
	OnUnknownTag UnknownTagHandler
}

// Decode parses payload into the sequence of top-level values that fit
// within it (spec §4.3).
func (d *Decoder) Decode(payload []byte) ([]Value, error) {
	c := &cursor{buf: payload}
	var values []Value
	for c.remaining() > 0 {
		v, err := d.decodeOne(c)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// decodeOne reads a single tagged value at the cursor's current position.
func (d *Decoder) decodeOne(c *cursor) (Value, error) {
	offset := c.pos
	tagByte, err := c.readByte()
	if err != nil {
		return Value{}, decoerr.At(decoerr.CodeDecodeError, "short read before tag", offset)
	}
	tag := Tag(tagByte)

	switch tag {
	case TagNull:
		return Value{Tag: TagNull}, nil
	case TagArray, TagStructure:
		n, err := c.readByte()
		if err != nil {
			return Value{}, decoerr.At(decoerr.CodeDecodeError, "short read in array/structure length", offset)
		}
		elements := make([]Value, 0, n)
		for i := 0; i < int(n); i++ {
			el, err := d.decodeOne(c)
			if err != nil {
				return Value{}, err
			}
			elements = append(elements, el)
		}
		return Value{Tag: tag, Elements: elements}, nil
	case TagU32:
		b, err := c.readN(4)
		if err != nil {
			return Value{}, decoerr.At(decoerr.CodeDecodeError, "short read in u32", offset)
		}
		return Value{Tag: TagU32, U32: beUint32(b)}, nil
	case TagOctetString:
		n, err := c.readByte()
		if err != nil {
			return Value{}, decoerr.At(decoerr.CodeDecodeError, "short read in octet-string length", offset)
		}
		b, err := c.readN(int(n))
		if err != nil {
			return Value{}, decoerr.At(decoerr.CodeDecodeError, "short read in octet-string", offset)
		}
		return Value{Tag: TagOctetString, Bytes: append([]byte(nil), b...)}, nil
	case TagVisibleString:
		n, err := c.readByte()
		if err != nil {
			return Value{}, decoerr.At(decoerr.CodeDecodeError, "short read in visible-string length", offset)
		}
		b, err := c.readN(int(n))
		if err != nil {
			return Value{}, decoerr.At(decoerr.CodeDecodeError, "short read in visible-string", offset)
		}
		return Value{Tag: TagVisibleString, Text: string(b)}, nil
	case TagUTF8String:
		n, err := c.readByte()
		if err != nil {
			return Value{}, decoerr.At(decoerr.CodeDecodeError, "short read in utf8-string length", offset)
		}
		text, err := decodeUTF8Chars(c, int(n))
		if err != nil {
			return Value{}, err
		}
		return Value{Tag: TagUTF8String, Text: text}, nil
	case TagI8:
		b, err := c.readByte()
		if err != nil {
			return Value{}, decoerr.At(decoerr.CodeDecodeError, "short read in i8", offset)
		}
		return Value{Tag: TagI8, I8: int8(b)}, nil
	case TagI16:
		b, err := c.readN(2)
		if err != nil {
			return Value{}, decoerr.At(decoerr.CodeDecodeError, "short read in i16", offset)
		}
		return Value{Tag: TagI16, I16: int16(beUint16(b))}, nil
	case TagU16:
		b, err := c.readN(2)
		if err != nil {
			return Value{}, decoerr.At(decoerr.CodeDecodeError, "short read in u16", offset)
		}
		return Value{Tag: TagU16, U16: beUint16(b)}, nil
	case TagEnum:
		b, err := c.readByte()
		if err != nil {
			return Value{}, decoerr.At(decoerr.CodeDecodeError, "short read in enum", offset)
		}
		return Value{Tag: TagEnum, Enum: b}, nil
	default:
		if d.Strict {
			return Value{}, decoerr.At(decoerr.CodeDecodeError, "unsupported tag", offset)
		}
		if d.OnUnknownTag != nil {
			d.OnUnknownTag(tag, offset)
		}
		return Value{Tag: TagNull}, nil
	}
}

// decodeUTF8Chars reads wantChars complete UTF-8 code points, one byte at
// a time, per spec §4.3's correction of the reference implementation's
// uncertain "runaway" guard: the length prefix is a character count, not a
// byte count, so decoding must accumulate bytes until utf8.DecodeRune
// reports a complete rune, substituting U+FFFD for invalid sequences.
func decodeUTF8Chars(c *cursor, wantChars int) (string, error) {
	var out []rune
	var pending []byte
	for len(out) < wantChars {
		b, err := c.readByte()
		if err != nil {
			if len(pending) > 0 {
				// The buffer ended mid-sequence: what's pending can never
				// become a complete rune, so it's an invalid byte sequence,
				// not a short read (spec §4.3: "invalid byte sequences
				// yield U+FFFD replacement").
				out = append(out, utf8.RuneError)
				pending = nil
				continue
			}
			return "", decoerr.At(decoerr.CodeDecodeError, "short read in utf8-string", c.pos)
		}
		pending = append(pending, b)
		r, size := utf8.DecodeRune(pending)
		if r == utf8.RuneError && size <= 1 {
			if len(pending) >= utf8.UTFMax {
				out = append(out, utf8.RuneError)
				pending = nil
			}
			continue
		}
		out = append(out, r)
		pending = pending[size:]
	}
	return string(out), nil
}

func beUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// cursor is a simple forward-only byte cursor, playing the same role as
// the teacher's bytes.Reader-based axdr decoder but tracking an explicit
// offset for error reporting.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.pos
}

func (c *cursor) readByte() (byte, error) {
	if c.remaining() < 1 {
		return 0, decoerr.New(decoerr.CodeDecodeError, "end of buffer")
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

func (c *cursor) readN(n int) ([]byte, error) {
	if c.remaining() < n {
		return nil, decoerr.New(decoerr.CodeDecodeError, "end of buffer")
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}
