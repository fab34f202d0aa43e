package axdr

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestDecode_S1Payload(t *testing.T) {
	// The COSEM payload from spec §8 scenario S1, with the HDLC/LLC/APDU
	// prefix and trailing FCS already stripped.
	payload := mustHex(t, "0101020309060100010700ff0600000e9002020f00161b")

	d := &Decoder{}
	values, err := d.Decode(payload)
	require.NoError(t, err)
	require.Len(t, values, 1)

	arr := values[0]
	assert.Equal(t, TagArray, arr.Tag)
	require.Len(t, arr.Elements, 1)

	reg := arr.Elements[0]
	assert.Equal(t, TagStructure, reg.Tag)
	require.Len(t, reg.Elements, 3)

	assert.Equal(t, TagOctetString, reg.Elements[0].Tag)
	assert.Equal(t, []byte{1, 0, 1, 7, 0, 0xff}, reg.Elements[0].Bytes)

	assert.Equal(t, TagU32, reg.Elements[1].Tag)
	assert.EqualValues(t, 3728, reg.Elements[1].U32)

	scaler := reg.Elements[2]
	assert.Equal(t, TagStructure, scaler.Tag)
	require.Len(t, scaler.Elements, 2)
	assert.EqualValues(t, 0, scaler.Elements[0].I8)
	assert.EqualValues(t, 27, scaler.Elements[1].Enum)
}

func TestDecode_UnknownTagLenientReturnsNull(t *testing.T) {
	d := &Decoder{}
	var seen []Tag
	d.OnUnknownTag = func(tag Tag, offset int) { seen = append(seen, tag) }

	values, err := d.Decode([]byte{0xFE, 0x00})
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.True(t, values[0].IsNull())
	assert.Equal(t, TagNull, values[1].Tag)
	assert.Equal(t, []Tag{0xFE}, seen)
}

func TestDecode_UnknownTagStrictErrors(t *testing.T) {
	d := &Decoder{Strict: true}
	_, err := d.Decode([]byte{0xFE})
	require.Error(t, err)
}

func TestDecode_UTF8CharacterCount(t *testing.T) {
	// "é" is two bytes in UTF-8 but one character; the length prefix (1)
	// counts characters, not bytes.
	payload := append([]byte{byte(TagUTF8String), 0x01}, []byte("é")...)

	d := &Decoder{}
	values, err := d.Decode(payload)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "é", values[0].Text)
}

func TestDecode_UTF8InvalidSequenceYieldsReplacement(t *testing.T) {
	payload := []byte{byte(TagUTF8String), 0x01, 0xFF}

	d := &Decoder{}
	values, err := d.Decode(payload)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "�", values[0].Text)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	original := []Value{
		{
			Tag: TagArray,
			Elements: []Value{
				{
					Tag: TagStructure,
					Elements: []Value{
						{Tag: TagOctetString, Bytes: []byte{1, 0, 1, 7, 0, 0xff}},
						{Tag: TagU32, U32: 3728},
						{
							Tag: TagStructure,
							Elements: []Value{
								{Tag: TagI8, I8: 0},
								{Tag: TagEnum, Enum: 27},
							},
						},
					},
				},
			},
		},
	}

	encoded, err := Encode(original)
	require.NoError(t, err)

	d := &Decoder{}
	decoded, err := d.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestValue_InterfaceRendersOctetStringAsHex(t *testing.T) {
	v := Value{Tag: TagOctetString, Bytes: []byte{1, 0, 1, 7, 0, 0xff}}
	assert.Equal(t, "0100010700ff", v.Interface())
}
