package utils

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// StreamWriter is the writing counterpart of StreamReader.
// The first write error is kept and all following writes are dropped.
type StreamWriter struct {
	w   io.Writer
	n   int64
	err error
	buf [8]byte
}

func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

func (sw *StreamWriter) Err() error {
	return sw.err
}

// Written returns the amount of bytes successfully written.
func (sw *StreamWriter) Written() int64 {
	return sw.n
}

func (sw *StreamWriter) Write(p []byte) (int, error) {
	if sw.err != nil {
		return 0, sw.err
	}
	n, err := sw.w.Write(p)
	sw.n += int64(n)
	if err == nil && n != len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		sw.err = errors.Wrapf(err, "write at offset 0x%x", sw.n)
	}
	return n, sw.err
}

func (sw *StreamWriter) WriteBytes(p []byte) {
	sw.Write(p)
}

func (sw *StreamWriter) WriteU8(v uint8) {
	sw.buf[0] = v
	sw.Write(sw.buf[:1])
}

func (sw *StreamWriter) WriteI8(v int8) {
	sw.WriteU8(uint8(v))
}

func (sw *StreamWriter) WriteBool(v bool) {
	if v {
		sw.WriteU8(1)
	} else {
		sw.WriteU8(0)
	}
}

func (sw *StreamWriter) WriteLU16(v uint16) {
	binary.LittleEndian.PutUint16(sw.buf[:2], v)
	sw.Write(sw.buf[:2])
}

func (sw *StreamWriter) WriteLI16(v int16) {
	sw.WriteLU16(uint16(v))
}

func (sw *StreamWriter) WriteLU32(v uint32) {
	binary.LittleEndian.PutUint32(sw.buf[:4], v)
	sw.Write(sw.buf[:4])
}

func (sw *StreamWriter) WriteLI32(v int32) {
	sw.WriteLU32(uint32(v))
}

func (sw *StreamWriter) WriteLF(v float32) {
	sw.WriteLU32(math.Float32bits(v))
}

func (sw *StreamWriter) WriteVec2(v mgl32.Vec2) {
	sw.WriteLF(v[0])
	sw.WriteLF(v[1])
}

func (sw *StreamWriter) WriteVec3(v mgl32.Vec3) {
	sw.WriteLF(v[0])
	sw.WriteLF(v[1])
	sw.WriteLF(v[2])
}

func (sw *StreamWriter) WriteMat3(m mgl32.Mat3) {
	sw.WriteVec3(m.Col(0))
	sw.WriteVec3(m.Col(1))
	sw.WriteVec3(m.Col(2))
}

func (sw *StreamWriter) WriteMat4(m mgl32.Mat4) {
	sw.WriteMat3(m.Mat3())
	sw.WriteVec3(m.Col(3).Vec3())
}

// Raw array blits, no count prefix.

func (sw *StreamWriter) WriteLU32s(vs []uint32) {
	raw := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(raw[i*4:], v)
	}
	sw.Write(raw)
}

func (sw *StreamWriter) WriteLU16s(vs []uint16) {
	raw := make([]byte, len(vs)*2)
	for i, v := range vs {
		binary.LittleEndian.PutUint16(raw[i*2:], v)
	}
	sw.Write(raw)
}

func (sw *StreamWriter) WriteLFs(vs []float32) {
	raw := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	sw.Write(raw)
}

func (sw *StreamWriter) WriteZString(s string) {
	sw.Write(StringToBytes(s, true))
}

// WriteName writes s into a zero padded field of width bytes.
// Names that do not fit are cut so the field always ends with NUL.
func (sw *StreamWriter) WriteName(s string, width int) {
	sw.Write(StringToFixedBytes(s, width))
}
