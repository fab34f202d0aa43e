// Package hdlc implements the link-layer parser: it validates a candidate
// frame's checksums, strips the HDLC header, LLC sub-header and APDU
// prefix, and exposes the inner COSEM payload (spec §4.2).
package hdlc

import (
	"encoding/binary"
	"fmt"

	"github.com/vegardh/han-decode/internal/crc"
	"github.com/vegardh/han-decode/internal/decoerr"
)

// FlagByte delimits HDLC frames on the wire.
const FlagByte = 0x7E

// minFrameLength is the smallest legal value of the format word's length
// field: format(2) + addresses(2) + control(1) + FCS(2), per spec §3.
const minFrameLength = 7

// Format is the decoded 16-bit frame-format word (spec §3).
type Format struct {
	Type          byte
	Segmentation  bool
	Length        int
	Raw           uint16
}

// DecodeFormat decodes a frame-format word using mask-then-shift, the
// corrected reading from spec §9 (the reference implementation's
// `value & MASK >> shift` has the wrong operator precedence and extracts
// nothing useful; `length = w & 0x07FF`, `segmentation = (w>>11)&1`,
// `type = (w>>12)&0xF` is the documented, intended layout).
func DecodeFormat(w uint16) Format {
	return Format{
		Length:       int(w & 0x07FF),
		Segmentation: (w>>11)&1 == 1,
		Type:         byte((w >> 12) & 0xF),
		Raw:          w,
	}
}

// Options controls checksum enforcement (spec §6 "ignore-checksum").
type Options struct {
	IgnoreChecksum bool
}

// DecodedFrame is the link-layer parser's output: everything the register
// interpreter and emitter need, with the COSEM payload already isolated.
type DecodedFrame struct {
	Format       Format
	ClientAddr   []byte
	ServerAddr   []byte
	Control      byte
	HCS          uint16
	LLCDst       byte
	LLCSrc       byte
	LLCControl   byte
	APDUTag      byte
	InvokeID     uint32
	DateTime     []byte
	FCS          uint16
	Payload      []byte
	// Warnings collects checksum mismatches that were tolerated because
	// Options.IgnoreChecksum was set (spec §7: "decoded as if valid and a
	// warning is logged").
	Warnings []string
}

// Parse validates and decodes a candidate frame body (the bytes between
// the opening and closing 0x7E flags, format word through FCS inclusive).
func Parse(frameBytes []byte, opts Options) (*DecodedFrame, error) {
	total := len(frameBytes)
	if total < minFrameLength {
		return nil, decoerr.New(decoerr.CodeMalformedFrame, fmt.Sprintf("frame too short: %d bytes", total))
	}

	var warnings []string

	fcsCalc := crc.X25(frameBytes[:total-2])
	fcsRecv := binary.LittleEndian.Uint16(frameBytes[total-2:])
	if fcsCalc != fcsRecv {
		if !opts.IgnoreChecksum {
			return nil, decoerr.ChecksumMismatch(decoerr.CodeFrameChecksum, fcsCalc, fcsRecv)
		}
		warnings = append(warnings, fmt.Sprintf("frame checksum mismatch: expected 0x%04X got 0x%04X", fcsCalc, fcsRecv))
	}

	format := DecodeFormat(binary.BigEndian.Uint16(frameBytes[0:2]))

	cur := 2
	clientAddr, n, err := decodeAddress(frameBytes[cur:])
	if err != nil {
		return nil, err
	}
	cur += n

	serverAddr, n, err := decodeAddress(frameBytes[cur:])
	if err != nil {
		return nil, err
	}
	cur += n

	if cur+1+2+3+1+4+1 > total-2 {
		return nil, decoerr.New(decoerr.CodeMalformedFrame, "frame too short for header/LLC/APDU prefix")
	}

	control := frameBytes[cur]
	cur++

	hcsCalc := crc.X25(frameBytes[:cur])
	hcsRecv := binary.LittleEndian.Uint16(frameBytes[cur : cur+2])
	cur += 2
	if hcsCalc != hcsRecv {
		if !opts.IgnoreChecksum {
			return nil, decoerr.ChecksumMismatch(decoerr.CodeHeaderChecksum, hcsCalc, hcsRecv)
		}
		warnings = append(warnings, fmt.Sprintf("header checksum mismatch: expected 0x%04X got 0x%04X", hcsCalc, hcsRecv))
	}

	llcDst, llcSrc, llcCtrl := frameBytes[cur], frameBytes[cur+1], frameBytes[cur+2]
	cur += 3

	apduTag := frameBytes[cur]
	cur++

	invokeID := binary.BigEndian.Uint32(frameBytes[cur : cur+4])
	cur += 4

	dtLen := int(frameBytes[cur])
	cur++

	if cur+dtLen > total-2 {
		return nil, decoerr.New(decoerr.CodeMalformedFrame, "datetime field runs past frame end")
	}
	var dateTime []byte
	if dtLen > 0 {
		dateTime = append([]byte(nil), frameBytes[cur:cur+dtLen]...)
		cur += dtLen
	}

	payload := frameBytes[cur : total-2]

	return &DecodedFrame{
		Format:     format,
		ClientAddr: clientAddr,
		ServerAddr: serverAddr,
		Control:    control,
		HCS:        hcsRecv,
		LLCDst:     llcDst,
		LLCSrc:     llcSrc,
		LLCControl: llcCtrl,
		APDUTag:    apduTag,
		InvokeID:   invokeID,
		DateTime:   dateTime,
		FCS:        fcsRecv,
		Payload:    append([]byte(nil), payload...),
		Warnings:   warnings,
	}, nil
}
