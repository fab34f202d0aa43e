package scanner

import (
	"bytes"
	"encoding/hex"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegardh/han-decode/internal/decoerr"
)

const s1Frame = "7ea02a410883130413e6e7000f40000000000101020309060100010700ff0600000e9002020f00161b77247e"

func TestScanner_SingleFrame(t *testing.T) {
	raw, err := hex.DecodeString(s1Frame)
	require.NoError(t, err)

	sc := New(bytes.NewReader(raw), nil)
	frame, err := sc.Next()
	require.NoError(t, err)
	assert.Equal(t, 42, frame.Format.Length)
	assert.Equal(t, raw[1:len(raw)-1], frame.Body)

	_, err = sc.Next()
	assert.Equal(t, io.EOF, err)
}

func TestScanner_NoisePrefixResyncs(t *testing.T) {
	raw, err := hex.DecodeString(s1Frame)
	require.NoError(t, err)

	noise := bytes.Repeat([]byte{0x55}, 64)
	input := append(noise, raw...)

	sc := New(bytes.NewReader(input), nil)
	frame, err := sc.Next()
	require.NoError(t, err)
	assert.Equal(t, raw[1:len(raw)-1], frame.Body)
}

func TestScanner_EOFMidFrameIsShortRead(t *testing.T) {
	raw, err := hex.DecodeString(s1Frame)
	require.NoError(t, err)
	truncated := raw[:len(raw)-5]

	sc := New(bytes.NewReader(truncated), nil)
	_, err = sc.Next()
	require.Error(t, err)
	var derr *decoerr.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, decoerr.CodeShortRead, derr.Code)
}

func TestScanner_ImplausibleLengthResyncs(t *testing.T) {
	raw, err := hex.DecodeString(s1Frame)
	require.NoError(t, err)

	// A bogus frame (length field 0) immediately followed by a real frame.
	bogus := []byte{0x7E, 0xA0, 0x00, 0x7E}
	input := append(bogus, raw...)

	sc := New(bytes.NewReader(input), nil)
	frame, err := sc.Next()
	require.NoError(t, err)
	assert.Equal(t, raw[1:len(raw)-1], frame.Body)
}

func TestScanner_TwoFramesBackToBack(t *testing.T) {
	raw, err := hex.DecodeString(s1Frame)
	require.NoError(t, err)

	input := append(append([]byte{}, raw...), raw...)
	sc := New(bytes.NewReader(input), nil)

	first, err := sc.Next()
	require.NoError(t, err)
	second, err := sc.Next()
	require.NoError(t, err)
	assert.Equal(t, first.Body, second.Body)
}
