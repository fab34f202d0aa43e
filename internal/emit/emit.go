// Package emit assembles and publishes the per-frame JSON document (spec
// §6 "Frame output").
package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vegardh/han-decode/internal/axdr"
	"github.com/vegardh/han-decode/internal/hdlc"
	"github.com/vegardh/han-decode/internal/register"
)

// Header mirrors the "header" block of spec §6's document shape. Hex
// fields are rendered as "0x..." strings so the document is valid JSON
// without losing the original field widths.
type Header struct {
	HDLCLength            int    `json:"hdlc_length"`
	HDLCSegmentation      uint8  `json:"hdlc_segmentation"`
	HDLCType              uint8  `json:"hdlc_type"`
	HDLCFrameFormat       string `json:"hdlc_frame_format"`
	HDLCAddrClient        string `json:"hdlc_addr_client"`
	HDLCAddrServer        string `json:"hdlc_addr_server"`
	HDLCControl           string `json:"hdlc_control"`
	HDLCHCS               string `json:"hdlc_hcs"`
	LLCDstSvcAP           string `json:"llc_dst_svc_ap"`
	LLCSrcSvcAP           string `json:"llc_src_svc_ap"`
	LLCControl            string `json:"llc_control"`
	APDUTag               string `json:"apdu_tag"`
	APDUInvokeIDPriority  string `json:"apdu_invoke_id_and_priority"`
	HDLCFCS               string `json:"hdlc_fcs"`
}

// Document is one complete emitted frame (spec §6).
type Document struct {
	Header  Header                      `json:"header"`
	Payload interface{}                 `json:"payload"`
	Data    map[string]register.Reading `json:"data"`
}

// BuildHeader renders a DecodedFrame's link-layer fields into the header
// block, hex-encoding every field the spec marks "hex".
func BuildHeader(f *hdlc.DecodedFrame) Header {
	seg := uint8(0)
	if f.Format.Segmentation {
		seg = 1
	}
	return Header{
		HDLCLength:           f.Format.Length,
		HDLCSegmentation:     seg,
		HDLCType:             f.Format.Type,
		HDLCFrameFormat:      hexUint16(f.Format.Raw),
		HDLCAddrClient:       hexBytes(f.ClientAddr),
		HDLCAddrServer:       hexBytes(f.ServerAddr),
		HDLCControl:          hexByte(f.Control),
		HDLCHCS:              hexUint16(f.HCS),
		LLCDstSvcAP:          hexByte(f.LLCDst),
		LLCSrcSvcAP:          hexByte(f.LLCSrc),
		LLCControl:           hexByte(f.LLCControl),
		APDUTag:              hexByte(f.APDUTag),
		APDUInvokeIDPriority: hexUint32(f.InvokeID),
		HDLCFCS:              hexUint16(f.FCS),
	}
}

func hexByte(b byte) string     { return fmt.Sprintf("0x%02X", b) }
func hexUint16(v uint16) string { return fmt.Sprintf("0x%04X", v) }
func hexUint32(v uint32) string { return fmt.Sprintf("0x%08X", v) }

func hexBytes(b []byte) string {
	s := "0x"
	for _, c := range b {
		s += fmt.Sprintf("%02X", c)
	}
	return s
}

// Build assembles a full Document from the decoded frame, its COSEM value
// tree and the interpreted register map.
func Build(f *hdlc.DecodedFrame, values []axdr.Value, data map[string]register.Reading) Document {
	payload := make([]interface{}, len(values))
	for i, v := range values {
		payload[i] = v.Interface()
	}
	return Document{
		Header:  BuildHeader(f),
		Payload: payload,
		Data:    data,
	}
}

// Sink publishes one document per frame. Multiple sinks can be combined
// with Fanout so a run can, e.g., write to stdout and a file at once.
type Sink interface {
	Emit(doc Document) error
	Close() error
}

// marshal renders a document pretty-printed or compact, with keys sorted
// (encoding/json already sorts map keys), per spec §6.
func marshal(doc Document, compact bool) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if compact {
		b, err = json.Marshal(doc)
	} else {
		b, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// WriterSink emits each document to an io.Writer.
type WriterSink struct {
	w       io.Writer
	compact bool
	closer  io.Closer
}

// NewStdoutSink emits to os.Stdout. Stdout is never closed by Close.
func NewStdoutSink(compact bool) *WriterSink {
	return &WriterSink{w: os.Stdout, compact: compact}
}

// NewFileSink opens path for writing and emits documents to it.
func NewFileSink(path string, compact bool) (*WriterSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("opening sink file %s: %w", path, err)
	}
	return &WriterSink{w: f, compact: compact, closer: f}, nil
}

func (s *WriterSink) Emit(doc Document) error {
	b, err := marshal(doc, s.compact)
	if err != nil {
		return err
	}
	_, err = s.w.Write(b)
	return err
}

func (s *WriterSink) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Fanout publishes to every sink in order, returning the first error but
// still attempting every sink.
type Fanout struct {
	Sinks []Sink
}

func (f Fanout) Emit(doc Document) error {
	var first error
	for _, s := range f.Sinks {
		if err := s.Emit(doc); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f Fanout) Close() error {
	var first error
	for _, s := range f.Sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
