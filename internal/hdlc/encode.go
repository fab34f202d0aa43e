package hdlc

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/vegardh/han-decode/internal/crc"
)

// EncodeInput bundles the fields needed to reconstruct a canonical
// (1-octet lengths only applies to the COSEM payload, not this layer)
// HDLC/LLC/APDU frame around a COSEM payload, for the round-trip
// invariant in spec §8.
type EncodeInput struct {
	ClientAddr []byte
	ServerAddr []byte
	Control    byte
	APDUTag    byte
	InvokeID   uint32
	DateTime   []byte
	Payload    []byte
}

// Encode builds a complete frame (opening flag through closing flag) from
// in, computing both the HCS and the FCS and setting the format word's
// length and type fields to match the encoded content.
func Encode(in EncodeInput) ([]byte, error) {
	var body bytes.Buffer

	clientAddr := encodeAddress(in.ClientAddr)
	serverAddr := encodeAddress(in.ServerAddr)

	header := make([]byte, 0, 2+len(clientAddr)+len(serverAddr)+1)
	header = append(header, 0, 0) // placeholder for format word, filled in below
	header = append(header, clientAddr...)
	header = append(header, serverAddr...)
	header = append(header, in.Control)

	apdu := make([]byte, 0, 1+4+1+len(in.DateTime)+len(in.Payload))
	apdu = append(apdu, in.APDUTag)
	var invokeBuf [4]byte
	binary.BigEndian.PutUint32(invokeBuf[:], in.InvokeID)
	apdu = append(apdu, invokeBuf[:]...)
	if len(in.DateTime) > 0xFF {
		return nil, fmt.Errorf("datetime field too long: %d bytes", len(in.DateTime))
	}
	apdu = append(apdu, byte(len(in.DateTime)))
	apdu = append(apdu, in.DateTime...)
	apdu = append(apdu, in.Payload...)

	llc := []byte{0xE6, 0xE7, 0x00}

	length := len(header) + 2 /*HCS*/ + len(llc) + len(apdu) + 2 /*FCS*/
	if length > 0x07FF {
		return nil, fmt.Errorf("frame too long: length field would be %d", length)
	}
	format := Format{Length: length, Type: 0xA}
	word := uint16(format.Type)<<12 | uint16(length&0x07FF)
	header[0] = byte(word >> 8)
	header[1] = byte(word)

	hcs := crc.X25(header)
	var hcsBuf [2]byte
	binary.LittleEndian.PutUint16(hcsBuf[:], hcs)

	body.Write(header)
	body.Write(hcsBuf[:])
	body.Write(llc)
	body.Write(apdu)

	fcs := crc.X25(body.Bytes())
	var fcsBuf [2]byte
	binary.LittleEndian.PutUint16(fcsBuf[:], fcs)

	var frame bytes.Buffer
	frame.WriteByte(FlagByte)
	frame.Write(body.Bytes())
	frame.Write(fcsBuf[:])
	frame.WriteByte(FlagByte)

	return frame.Bytes(), nil
}
