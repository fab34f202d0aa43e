package axdr

import (
	"bytes"
	"fmt"
)

// Encode serialises values back into a COSEM payload using canonical
// 1-octet lengths, the inverse of Decoder.Decode. It exists to support the
// round-trip invariant in spec §8 (encode(decode(frame)) == frame for
// canonical 1-octet-length inputs).
func Encode(values []Value) ([]byte, error) {
	var buf bytes.Buffer
	for i := range values {
		if err := encodeOne(&buf, values[i]); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

func encodeOne(buf *bytes.Buffer, v Value) error {
	buf.WriteByte(byte(v.Tag))
	switch v.Tag {
	case TagNull:
		return nil
	case TagArray, TagStructure:
		if len(v.Elements) > 0xFF {
			return fmt.Errorf("too many elements (%d) for 1-octet length", len(v.Elements))
		}
		buf.WriteByte(byte(len(v.Elements)))
		for i := range v.Elements {
			if err := encodeOne(buf, v.Elements[i]); err != nil {
				return err
			}
		}
		return nil
	case TagU32:
		writeBEUint32(buf, v.U32)
		return nil
	case TagOctetString:
		if len(v.Bytes) > 0xFF {
			return fmt.Errorf("octet-string too long (%d) for 1-octet length", len(v.Bytes))
		}
		buf.WriteByte(byte(len(v.Bytes)))
		buf.Write(v.Bytes)
		return nil
	case TagVisibleString:
		b := []byte(v.Text)
		if len(b) > 0xFF {
			return fmt.Errorf("visible-string too long (%d) for 1-octet length", len(b))
		}
		buf.WriteByte(byte(len(b)))
		buf.Write(b)
		return nil
	case TagUTF8String:
		n := len([]rune(v.Text))
		if n > 0xFF {
			return fmt.Errorf("utf8-string too long (%d chars) for 1-octet length", n)
		}
		buf.WriteByte(byte(n))
		buf.WriteString(v.Text)
		return nil
	case TagI8:
		buf.WriteByte(byte(v.I8))
		return nil
	case TagI16:
		writeBEUint16(buf, uint16(v.I16))
		return nil
	case TagU16:
		writeBEUint16(buf, v.U16)
		return nil
	case TagEnum:
		buf.WriteByte(v.Enum)
		return nil
	default:
		return fmt.Errorf("unsupported tag 0x%02x", byte(v.Tag))
	}
}

func writeBEUint16(buf *bytes.Buffer, v uint16) {
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v))
}

func writeBEUint32(buf *bytes.Buffer, v uint32) {
	buf.WriteByte(byte(v >> 24))
	buf.WriteByte(byte(v >> 16))
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v))
}
