package common

import (
	"fmt"

	"github.com/mogaika/odol2mlod/pack/p3d/lzss"
	"github.com/mogaika/odol2mlod/utils"
	"github.com/pkg/errors"
)

var (
	ErrTruncatedInput       = utils.ErrTruncated
	ErrChecksumMismatch     = lzss.ErrChecksumMismatch
	ErrUnsupportedSignature = errors.New("unsupported signature")
	ErrMalformedRecord      = errors.New("malformed record")
)

type IOOp string

const (
	OpOpen   IOOp = "open"
	OpCreate IOOp = "create"
	OpRename IOOp = "rename"
	OpWrite  IOOp = "write"
)

// IOError reports a failure to open, create or replace a file.
type IOError struct {
	Op   IOOp
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func NewIOError(op IOOp, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

// Per-file status codes
const (
	StatusOK                   = 0
	StatusOpenFailed           = 1
	StatusUnsupportedSignature = 2
	StatusCreateFailed         = 3
	StatusFailed               = 4
)

func StatusCode(err error) int {
	if err == nil {
		return StatusOK
	}
	var ioe *IOError
	if errors.As(err, &ioe) {
		if ioe.Op == OpOpen {
			return StatusOpenFailed
		}
		return StatusCreateFailed
	}
	if errors.Is(err, ErrUnsupportedSignature) {
		return StatusUnsupportedSignature
	}
	return StatusFailed
}

// IsTruncated matches short reads of both the stream reader and the block decoder.
func IsTruncated(err error) bool {
	return errors.Is(err, ErrTruncatedInput) || errors.Is(err, lzss.ErrUnexpectedEOF)
}
