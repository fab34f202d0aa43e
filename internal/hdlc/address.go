package hdlc

import "github.com/vegardh/han-decode/internal/decoerr"

// decodeAddress reads a variable-length HDLC address: one or more octets,
// terminated by an octet whose least significant bit is 1 (spec §3).
// Returns the raw address octets (with the extension bit still set, as
// the spec's "client/server address: raw octets" wants) and the number of
// bytes consumed.
func decodeAddress(data []byte) (addr []byte, consumed int, err error) {
	for i := 0; i < len(data); i++ {
		if data[i]&0x01 == 1 {
			return append([]byte(nil), data[:i+1]...), i + 1, nil
		}
	}
	return nil, 0, decoerr.New(decoerr.CodeMalformedFrame, "address not terminated")
}

// encodeAddress re-encodes a raw address (as produced by decodeAddress, or
// a freshly built one) ensuring the final octet's extension bit is set.
func encodeAddress(addr []byte) []byte {
	out := append([]byte(nil), addr...)
	if len(out) > 0 {
		out[len(out)-1] |= 0x01
	}
	return out
}
