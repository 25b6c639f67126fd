package utils

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// ErrTruncated is returned by StreamReader when the stream ends before a value is complete.
var ErrTruncated = errors.New("truncated input")

// StreamReader is a sequential little-endian reader with a sticky error.
// After the first failure every read returns a zero value and Err reports the failure,
// so decoders may check it once per record instead of after every field.
type StreamReader struct {
	r   *bufio.Reader
	pos int64
	err error
	buf [64]byte
}

func NewStreamReader(r io.Reader) *StreamReader {
	if br, ok := r.(*bufio.Reader); ok {
		return &StreamReader{r: br}
	}
	return &StreamReader{r: bufio.NewReader(r)}
}

func (sr *StreamReader) Err() error {
	return sr.err
}

// Pos returns the amount of bytes consumed so far.
func (sr *StreamReader) Pos() int64 {
	return sr.pos
}

func (sr *StreamReader) fail(err error) {
	if sr.err != nil {
		return
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		sr.err = errors.Wrapf(ErrTruncated, "at offset 0x%x", sr.pos)
	} else {
		sr.err = errors.Wrapf(err, "read at offset 0x%x", sr.pos)
	}
}

// Read fills p completely or fails with ErrTruncated.
func (sr *StreamReader) Read(p []byte) (int, error) {
	if sr.err != nil {
		return 0, sr.err
	}
	n, err := io.ReadFull(sr.r, p)
	sr.pos += int64(n)
	if err != nil {
		sr.fail(err)
		return n, sr.err
	}
	return n, nil
}

// ReadFull is Read without the byte count, for callers that check Err later.
func (sr *StreamReader) ReadFull(p []byte) {
	sr.Read(p)
}

func (sr *StreamReader) ReadByte() (byte, error) {
	if sr.err != nil {
		return 0, sr.err
	}
	b, err := sr.r.ReadByte()
	if err != nil {
		sr.fail(err)
		return 0, sr.err
	}
	sr.pos++
	return b, nil
}

func (sr *StreamReader) Peek(n int) ([]byte, error) {
	if sr.err != nil {
		return nil, sr.err
	}
	b, err := sr.r.Peek(n)
	if err != nil {
		if err == io.EOF || err == bufio.ErrBufferFull {
			err = io.ErrUnexpectedEOF
		}
		sr.fail(err)
		return nil, sr.err
	}
	return b, nil
}

func (sr *StreamReader) Skip(n int64) {
	if sr.err != nil || n <= 0 {
		return
	}
	skipped, err := io.CopyN(io.Discard, sr.r, n)
	sr.pos += skipped
	if err != nil {
		sr.fail(err)
	}
}

func (sr *StreamReader) read(n int) []byte {
	b := sr.buf[:n]
	if _, err := sr.Read(b); err != nil {
		for i := range b {
			b[i] = 0
		}
	}
	return b
}

func (sr *StreamReader) U8() uint8 {
	return sr.read(1)[0]
}

func (sr *StreamReader) I8() int8 {
	return int8(sr.U8())
}

func (sr *StreamReader) Bool() bool {
	return sr.U8() != 0
}

func (sr *StreamReader) LU16() uint16 {
	return binary.LittleEndian.Uint16(sr.read(2))
}

func (sr *StreamReader) LI16() int16 {
	return int16(sr.LU16())
}

func (sr *StreamReader) LU32() uint32 {
	return binary.LittleEndian.Uint32(sr.read(4))
}

func (sr *StreamReader) LI32() int32 {
	return int32(sr.LU32())
}

func (sr *StreamReader) LF() float32 {
	return math.Float32frombits(sr.LU32())
}

func (sr *StreamReader) Vec2() mgl32.Vec2 {
	return mgl32.Vec2{sr.LF(), sr.LF()}
}

func (sr *StreamReader) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{sr.LF(), sr.LF(), sr.LF()}
}

// Mat3 reads three basis vectors (aside, up, direction) as matrix columns.
func (sr *StreamReader) Mat3() mgl32.Mat3 {
	aside := sr.Vec3()
	up := sr.Vec3()
	dir := sr.Vec3()
	return mgl32.Mat3FromCols(aside, up, dir)
}

// Mat4 reads an orientation (see Mat3) followed by a position.
func (sr *StreamReader) Mat4() mgl32.Mat4 {
	o := sr.Mat3()
	pos := sr.Vec3()
	m := o.Mat4()
	m.SetCol(3, pos.Vec4(1))
	return m
}

// ReadTail reads up to n bytes. A stream ending early is not an error.
func (sr *StreamReader) ReadTail(n int) []byte {
	if sr.err != nil {
		return nil
	}
	buf := make([]byte, n)
	got, err := io.ReadFull(sr.r, buf)
	sr.pos += int64(got)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		sr.fail(err)
	}
	return buf[:got]
}

// ZString reads a zero-terminated string. End of stream terminates the string as well.
func (sr *StreamReader) ZString() string {
	if sr.err != nil {
		return ""
	}
	raw, err := sr.r.ReadBytes(0)
	sr.pos += int64(len(raw))
	if err != nil && err != io.EOF {
		sr.fail(err)
		return ""
	}
	return BytesToString(raw)
}

// FixedString reads exactly size bytes and returns the text before the first NUL.
func (sr *StreamReader) FixedString(size int) string {
	raw := make([]byte, size)
	if _, err := sr.Read(raw); err != nil {
		return ""
	}
	return BytesToString(raw)
}
