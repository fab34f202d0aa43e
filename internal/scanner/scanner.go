// Package scanner implements the Frame Scanner: it consumes a raw byte
// stream, recovers HDLC frame boundaries from the 0x7E delimiter, and
// yields well-formed candidate frames to the HDLC parser (spec §4.1).
package scanner

import (
	"encoding/binary"
	"io"

	"github.com/vegardh/han-decode/internal/decoerr"
	"github.com/vegardh/han-decode/internal/hdlc"
)

// Frame is a candidate frame handed to the HDLC parser: the full body
// between (and excluding) the delimiters, plus the already-decoded
// frame-format word.
type Frame struct {
	Body   []byte
	Format hdlc.Format
}

// Logger receives diagnostic messages for discarded noise and resyncs.
// It is satisfied by *log.Logger-alike loggers; nil disables logging.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// Scanner reads from an underlying byte source and extracts frames. It
// skips bytes until a 0x7E flag and abandons a frame whose length field is
// 2 or less, resuming the scan right after that frame's format word. The
// bytes of a frame returned by Next are consumed: a frame that the HDLC
// parser later rejects is not re-scanned, and scanning continues after the
// frame's last byte.
type Scanner struct {
	r   io.Reader
	log Logger

	// pending holds one pushed-back byte that readByte and readFull return
	// before reading from r again. Next never pushes a byte back: the
	// lookahead byte after a flag is consumed directly.
	pending byte
	hasPending bool
}

// New creates a Scanner reading from r. log may be nil.
func New(r io.Reader, log Logger) *Scanner {
	return &Scanner{r: r, log: log}
}

func (s *Scanner) debugf(format string, args ...interface{}) {
	if s.log != nil {
		s.log.Debugf(format, args...)
	}
}

func (s *Scanner) readByte() (byte, error) {
	if s.hasPending {
		s.hasPending = false
		return s.pending, nil
	}
	var b [1]byte
	n, err := s.r.Read(b[:])
	if n == 1 {
		return b[0], nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return 0, err
}

func (s *Scanner) readFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	read := 0
	for read < n {
		if s.hasPending {
			buf[read] = s.pending
			s.hasPending = false
			read++
			continue
		}
		m, err := s.r.Read(buf[read:])
		read += m
		if err != nil {
			if read == n {
				return buf, nil
			}
			return nil, io.ErrUnexpectedEOF
		}
	}
	return buf, nil
}

// Next returns the next well-formed candidate frame, or io.EOF when the
// byte source is exhausted cleanly between frames, or decoerr with
// CodeShortRead when the stream ends mid-frame (spec §4.1's ShortRead,
// which terminates the pipeline per spec §7).
func (s *Scanner) Next() (*Frame, error) {
	for {
		b, err := s.readByte()
		if err != nil {
			return nil, io.EOF
		}
		if b != hdlc.FlagByte {
			s.debugf("discarding non-flag byte 0x%02X", b)
			continue
		}

		// b is a start flag (0x7E). Peek the next byte: if it's also a
		// flag, it was the stop flag of a prior frame and this one is the
		// start flag of the next (spec §4.1 step 2); consume it and loop
		// to read the real format-word bytes.
		next, err := s.readByte()
		if err != nil {
			return nil, io.EOF
		}
		for next == hdlc.FlagByte {
			next, err = s.readByte()
			if err != nil {
				return nil, io.EOF
			}
		}

		hi := next
		lo, err := s.readByte()
		if err != nil {
			return nil, decoerr.New(decoerr.CodeShortRead, "stream ended reading frame-format word")
		}

		word := binary.BigEndian.Uint16([]byte{hi, lo})
		format := hdlc.DecodeFormat(word)
		if format.Length <= 2 {
			s.debugf("abandoning frame with implausible length %d, resyncing", format.Length)
			// The byte after this one might itself be a flag; don't
			// consume it, just resume the outer scan from here.
			s.hasPending = false
			continue
		}

		rest, err := s.readFull(format.Length - 2)
		if err != nil {
			return nil, decoerr.New(decoerr.CodeShortRead, "stream ended before frame completed")
		}

		body := make([]byte, 0, format.Length)
		body = append(body, hi, lo)
		body = append(body, rest...)

		return &Frame{Body: body, Format: format}, nil
	}
}
