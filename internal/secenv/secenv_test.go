package secenv

import (
	"crypto/aes"
	"crypto/cipher"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecrypt_RoundTrip(t *testing.T) {
	key := []byte("0123456789ABCDEF")
	systemTitle := []byte("HANMETER")
	header := SecurityHeader{Control: 0x30, FrameCounter: 42}

	plaintext := []byte("hello cosem")

	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	aesgcm, err := cipher.NewGCM(block)
	require.NoError(t, err)

	hdrBytes := []byte{header.Control, 0, 0, 0, 42}
	nonce := gcmNonce(systemTitle, header.FrameCounter)
	sealed := aesgcm.Seal(nil, nonce, plaintext, hdrBytes)

	ciphertext := append(append([]byte{}, hdrBytes...), sealed...)

	got, err := Decrypt(key, systemTitle, ciphertext)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestDecrypt_TamperedCiphertextFails(t *testing.T) {
	key := []byte("0123456789ABCDEF")
	systemTitle := []byte("HANMETER")
	hdrBytes := []byte{0x30, 0, 0, 0, 1}

	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	aesgcm, err := cipher.NewGCM(block)
	require.NoError(t, err)

	nonce := gcmNonce(systemTitle, 1)
	sealed := aesgcm.Seal(nil, nonce, []byte("data"), hdrBytes)
	sealed[0] ^= 0xFF

	ciphertext := append(append([]byte{}, hdrBytes...), sealed...)
	_, err = Decrypt(key, systemTitle, ciphertext)
	require.Error(t, err)
}

func TestDecodeSecurityHeader_ShortInputErrors(t *testing.T) {
	_, err := DecodeSecurityHeader([]byte{0x30, 0x00})
	require.Error(t, err)
}
