package utils

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

func TestStreamRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sw := NewStreamWriter(&buf)
	sw.WriteU8(0xfe)
	sw.WriteI8(-2)
	sw.WriteBool(true)
	sw.WriteLU16(0xbeef)
	sw.WriteLI16(-300)
	sw.WriteLU32(0xdeadbeef)
	sw.WriteLI32(-1)
	sw.WriteLF(1.5)
	sw.WriteVec2(mgl32.Vec2{1, 2})
	sw.WriteVec3(mgl32.Vec3{3, 4, 5})
	m := mgl32.Translate3D(7, 8, 9)
	sw.WriteMat4(m)
	sw.WriteZString("proxy")
	sw.WriteName("data\\tex.paa", 16)
	if sw.Err() != nil {
		t.Fatalf("write failed: %v", sw.Err())
	}
	if sw.Written() != int64(buf.Len()) {
		t.Fatalf("Written()=%d; expected %d", sw.Written(), buf.Len())
	}

	sr := NewStreamReader(&buf)
	if v := sr.U8(); v != 0xfe {
		t.Errorf("U8()=%#x", v)
	}
	if v := sr.I8(); v != -2 {
		t.Errorf("I8()=%d", v)
	}
	if v := sr.Bool(); !v {
		t.Errorf("Bool()=%v", v)
	}
	if v := sr.LU16(); v != 0xbeef {
		t.Errorf("LU16()=%#x", v)
	}
	if v := sr.LI16(); v != -300 {
		t.Errorf("LI16()=%d", v)
	}
	if v := sr.LU32(); v != 0xdeadbeef {
		t.Errorf("LU32()=%#x", v)
	}
	if v := sr.LI32(); v != -1 {
		t.Errorf("LI32()=%d", v)
	}
	if v := sr.LF(); v != 1.5 {
		t.Errorf("LF()=%v", v)
	}
	if v := sr.Vec2(); v != (mgl32.Vec2{1, 2}) {
		t.Errorf("Vec2()=%v", v)
	}
	if v := sr.Vec3(); v != (mgl32.Vec3{3, 4, 5}) {
		t.Errorf("Vec3()=%v", v)
	}
	if v := sr.Mat4(); v != m {
		t.Errorf("Mat4()=%v; expected %v", v, m)
	}
	if v := sr.ZString(); v != "proxy" {
		t.Errorf("ZString()=%q", v)
	}
	if v := sr.FixedString(16); v != "data\\tex.paa" {
		t.Errorf("FixedString()=%q", v)
	}
	if sr.Err() != nil {
		t.Fatalf("read failed: %v", sr.Err())
	}
	if sr.Pos() != sw.Written() {
		t.Errorf("Pos()=%d; expected %d", sr.Pos(), sw.Written())
	}
}

func TestStreamReaderTruncated(t *testing.T) {
	sr := NewStreamReader(bytes.NewReader([]byte{1, 2, 3}))
	if v := sr.LU32(); v != 0 {
		t.Errorf("LU32() on short input=%d; expected 0", v)
	}
	if !errors.Is(sr.Err(), ErrTruncated) {
		t.Fatalf("Err()=%v; expected ErrTruncated", sr.Err())
	}
	// sticky
	if v := sr.U8(); v != 0 {
		t.Errorf("U8() after failure=%d", v)
	}
	if !errors.Is(sr.Err(), ErrTruncated) {
		t.Errorf("error was replaced: %v", sr.Err())
	}
}

func TestStreamReaderZStringAtEnd(t *testing.T) {
	sr := NewStreamReader(bytes.NewReader([]byte("abc\x00def")))
	if s := sr.ZString(); s != "abc" {
		t.Errorf("first ZString()=%q", s)
	}
	if s := sr.ZString(); s != "def" {
		t.Errorf("unterminated ZString()=%q", s)
	}
	if sr.Err() != nil {
		t.Errorf("unexpected error %v", sr.Err())
	}
}

func TestStreamReaderMat3Columns(t *testing.T) {
	var buf bytes.Buffer
	sw := NewStreamWriter(&buf)
	for i := 1; i <= 9; i++ {
		sw.WriteLF(float32(i))
	}
	m := NewStreamReader(&buf).Mat3()
	if m.Col(0) != (mgl32.Vec3{1, 2, 3}) || m.Col(2) != (mgl32.Vec3{7, 8, 9}) {
		t.Errorf("Mat3() columns %v", m)
	}
}
