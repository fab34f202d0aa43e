package hdlc

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// s1Frame is the scenario S1 test vector from spec §8, flags included.
const s1Frame = "7ea02a410883130413e6e7000f40000000000101020309060100010700ff0600000e9002020f00161b77247e"

func s1Body(t *testing.T) []byte {
	t.Helper()
	raw, err := hex.DecodeString(s1Frame)
	require.NoError(t, err)
	return raw[1 : len(raw)-1] // strip opening/closing flags
}

func TestDecodeFormat_MaskThenShift(t *testing.T) {
	f := DecodeFormat(0xA02A)
	assert.Equal(t, 42, f.Length)
	assert.False(t, f.Segmentation)
	assert.EqualValues(t, 0xA, f.Type)
}

func TestParse_S1(t *testing.T) {
	frame, err := Parse(s1Body(t), Options{})
	require.NoError(t, err)

	assert.Equal(t, 42, frame.Format.Length)
	assert.Equal(t, []byte{0x41}, frame.ClientAddr)
	assert.Equal(t, []byte{0x08, 0x83}, frame.ServerAddr)
	assert.EqualValues(t, 0x13, frame.Control)
	assert.EqualValues(t, 0x1304, frame.HCS)
	assert.EqualValues(t, 0xE6, frame.LLCDst)
	assert.EqualValues(t, 0xE7, frame.LLCSrc)
	assert.EqualValues(t, 0x00, frame.LLCControl)
	assert.EqualValues(t, 0x0F, frame.APDUTag)
	assert.EqualValues(t, 0x40000000, frame.InvokeID)
	assert.Empty(t, frame.DateTime)
	assert.EqualValues(t, 0x2477, frame.FCS)
	assert.Equal(t, "0101020309060100010700ff0600000e9002020f00161b", hex.EncodeToString(frame.Payload))
	assert.Empty(t, frame.Warnings)
}

func TestParse_FrameChecksumMismatchFailsByDefault(t *testing.T) {
	body := s1Body(t)
	body[len(body)-3] ^= 0xFF // flip the bits of a payload byte, not the delimiters

	_, err := Parse(body, Options{})
	require.Error(t, err)
}

func TestParse_FrameChecksumMismatchToleratedWithIgnoreChecksum(t *testing.T) {
	body := s1Body(t)
	body[len(body)-3] ^= 0xFF

	frame, err := Parse(body, Options{IgnoreChecksum: true})
	require.NoError(t, err)
	assert.NotEmpty(t, frame.Warnings)
}

func TestParse_TooShortIsMalformed(t *testing.T) {
	_, err := Parse([]byte{0x00, 0x00, 0x00}, Options{})
	require.Error(t, err)
}

func TestEncodeParse_RoundTrip(t *testing.T) {
	frame, err := Parse(s1Body(t), Options{})
	require.NoError(t, err)

	encoded, err := Encode(EncodeInput{
		ClientAddr: frame.ClientAddr,
		ServerAddr: frame.ServerAddr,
		Control:    frame.Control,
		APDUTag:    frame.APDUTag,
		InvokeID:   frame.InvokeID,
		DateTime:   frame.DateTime,
		Payload:    frame.Payload,
	})
	require.NoError(t, err)

	raw, err := hex.DecodeString(s1Frame)
	require.NoError(t, err)
	assert.Equal(t, raw, encoded)
}
