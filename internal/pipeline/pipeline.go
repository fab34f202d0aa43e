// Package pipeline wires the Frame Scanner, HDLC parser, COSEM TLV
// decoder and Register Interpreter into the single-threaded cooperative
// loop described by spec §5: one byte source drives everything
// synchronously, and a per-frame failure never terminates the process.
package pipeline

import (
	"errors"
	"io"

	charmlog "github.com/charmbracelet/log"

	"github.com/vegardh/han-decode/internal/axdr"
	"github.com/vegardh/han-decode/internal/config"
	"github.com/vegardh/han-decode/internal/decoerr"
	"github.com/vegardh/han-decode/internal/emit"
	"github.com/vegardh/han-decode/internal/hdlc"
	"github.com/vegardh/han-decode/internal/register"
	"github.com/vegardh/han-decode/internal/scanner"
)

// scannerLogger adapts *charmlog.Logger to scanner.Logger.
type scannerLogger struct{ l *charmlog.Logger }

func (s scannerLogger) Debugf(format string, args ...interface{}) {
	s.l.Debugf(format, args...)
}

// Run drives the scan-decode-interpret-emit loop until the byte source is
// exhausted or a ShortRead terminates it (spec §7). Per-frame errors
// (MalformedFrame, HeaderChecksum, FrameChecksum in non-tolerant mode,
// DecodeError) are logged and the loop continues at the next frame,
// exactly as the Frame Scanner resynchronises on the wire.
func Run(r io.Reader, cfg *config.Config, sink emit.Sink, log *charmlog.Logger) error {
	sc := scanner.New(r, scannerLogger{log})
	dec := axdr.Decoder{Strict: false}
	dec.OnUnknownTag = func(tag axdr.Tag, offset int) {
		log.Warn("unknown COSEM tag, substituting null", "tag", byte(tag), "offset", offset)
	}

	for {
		frame, err := sc.Next()
		if errors.Is(err, io.EOF) {
			log.Info("byte source exhausted, stopping")
			return nil
		}
		if err != nil {
			var derr *decoerr.Error
			if errors.As(err, &derr) && derr.Code == decoerr.CodeShortRead {
				log.Warn("stream ended mid-frame", "err", err)
				return nil
			}
			log.Error("frame scan failed", "err", err)
			continue
		}

		if err := processFrame(frame, cfg, dec, sink, log); err != nil {
			log.Error("dropping frame", "err", err)
		}
	}
}

func processFrame(frame *scanner.Frame, cfg *config.Config, dec axdr.Decoder, sink emit.Sink, log *charmlog.Logger) error {
	decoded, err := hdlc.Parse(frame.Body, hdlc.Options{IgnoreChecksum: cfg.IgnoreChecksum})
	if err != nil {
		return err
	}
	for _, w := range decoded.Warnings {
		log.Warn(w)
	}

	values, err := dec.Decode(decoded.Payload)
	if err != nil {
		return err
	}

	data, err := register.Interpret(values, cfg.Vendor, decoded.Format.Type)
	if err != nil {
		return err
	}

	doc := emit.Build(decoded, values, data)
	return sink.Emit(doc)
}
