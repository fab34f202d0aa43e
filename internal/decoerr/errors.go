// Package decoerr defines the decoder's error taxonomy (spec §7). Every
// stage of the pipeline returns one of these typed errors so that the
// frame scanner can decide, by code alone, whether to resync, skip a
// frame, or abort the whole process.
package decoerr

import "fmt"

// Code classifies a decoding failure.
type Code int

const (
	// CodeShortRead means the byte source ended before a frame completed.
	// Fatal to the whole pipeline.
	CodeShortRead Code = iota
	// CodeMalformedFrame means a structural impossibility was found
	// in the link-layer frame (length too small, truncated field).
	CodeMalformedFrame
	// CodeHeaderChecksum means the HDLC header CRC did not match.
	CodeHeaderChecksum
	// CodeFrameChecksum means the full-frame CRC did not match.
	CodeFrameChecksum
	// CodeDecodeError means the COSEM TLV tree could not be parsed.
	CodeDecodeError
	// CodeUnsupportedVendor means the configured vendor/version selector
	// has no dictionary. Configuration-time only; aborts before the
	// pipeline starts.
	CodeUnsupportedVendor
)

func (c Code) String() string {
	switch c {
	case CodeShortRead:
		return "ShortRead"
	case CodeMalformedFrame:
		return "MalformedFrame"
	case CodeHeaderChecksum:
		return "HeaderChecksum"
	case CodeFrameChecksum:
		return "FrameChecksum"
	case CodeDecodeError:
		return "DecodeError"
	case CodeUnsupportedVendor:
		return "UnsupportedVendor"
	default:
		return "Unknown"
	}
}

// Error is the decoder's error type: a code plus enough detail (expected
// vs actual values, offending tag, byte offset) to diagnose the failure,
// modeled on the teacher's pkg/common.SpodesError.
type Error struct {
	Code    Code
	Message string
	Offset  int
	cause   error
}

// New creates an Error with no offset information.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// At creates an Error carrying a byte offset into the frame or stream.
func At(code Code, message string, offset int) *Error {
	return &Error{Code: code, Message: message, Offset: offset}
}

// Wrap creates an Error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Offset != 0 {
		msg = fmt.Sprintf("%s (offset %d)", msg, e.Offset)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// ChecksumMismatch builds a CodeHeaderChecksum or CodeFrameChecksum error
// carrying both the expected and the actual checksum value.
func ChecksumMismatch(code Code, expected, actual uint16) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf("checksum mismatch: expected 0x%04X, got 0x%04X", expected, actual),
	}
}
