package lzss

import "github.com/pkg/errors"

var (
	// ErrUnexpectedEOF is returned when the stream ends before the output buffer or the checksum is complete.
	ErrUnexpectedEOF = errors.New("lzss: unexpected end of input")
	// ErrChecksumMismatch is returned when the trailing checksum differs from the sum of the decoded bytes.
	ErrChecksumMismatch = errors.New("lzss: checksum mismatch")
)
