// Package axdr decodes and encodes the COSEM TLV value tree carried inside
// an APDU payload (spec §4.3). The tag set is restricted to the variants
// the reference decoder actually emits (spec §3); it is not a general
// A-XDR/IEC 62056-6-2 implementation.
package axdr

// Tag identifies a COSEM value's wire encoding, per spec §3.
type Tag byte

const (
	TagNull          Tag = 0x00
	TagArray         Tag = 0x01
	TagStructure     Tag = 0x02
	TagU32           Tag = 0x06
	TagOctetString   Tag = 0x09
	TagVisibleString Tag = 0x0A
	TagUTF8String    Tag = 0x0C
	TagI8            Tag = 0x0F
	TagI16           Tag = 0x10
	TagU16           Tag = 0x12
	TagEnum          Tag = 0x16
)

// Value is a tagged union over the fixed COSEM variant set. Exactly one
// field besides Tag is meaningful for any given value, selected by Tag;
// this mirrors the finite, fixed variant set called out in spec §9 rather
// than using a Go `interface{}` universal container.
type Value struct {
	Tag Tag

	Elements []Value // TagArray, TagStructure
	Bytes    []byte  // TagOctetString
	Text     string  // TagVisibleString, TagUTF8String
	U32      uint32  // TagU32
	I8       int8    // TagI8
	I16      int16   // TagI16
	U16      uint16  // TagU16
	Enum     uint8   // TagEnum
}

// IsNull reports whether v is the null variant (TagNull), or the zero
// Value produced for an unrecognised tag in lenient mode.
func (v Value) IsNull() bool {
	return v.Tag == TagNull
}

// Interface renders v as a plain Go value suitable for JSON marshaling.
// Octet-strings are rendered as hex strings per spec §6's "payload"
// field ("raw COSEM value tree, octet-strings rendered as hex").
func (v Value) Interface() interface{} {
	switch v.Tag {
	case TagNull:
		return nil
	case TagArray, TagStructure:
		out := make([]interface{}, len(v.Elements))
		for i, e := range v.Elements {
			out[i] = e.Interface()
		}
		return out
	case TagU32:
		return v.U32
	case TagOctetString:
		return hexString(v.Bytes)
	case TagVisibleString, TagUTF8String:
		return v.Text
	case TagI8:
		return v.I8
	case TagI16:
		return v.I16
	case TagU16:
		return v.U16
	case TagEnum:
		return v.Enum
	default:
		return nil
	}
}

const hexDigits = "0123456789abcdef"

func hexString(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0x0F]
	}
	return string(out)
}
