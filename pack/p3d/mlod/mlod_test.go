package mlod

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/odol2mlod/pack/p3d/common"
	"github.com/mogaika/odol2mlod/utils"
)

func testLod() *Lod {
	return &Lod{
		MajorVersion: LodMajorVersion,
		MinorVersion: LodMinorVersion,
		Points: []Point{
			{Position: mgl32.Vec3{0, 0, 0}, Flags: 0x10},
			{Position: mgl32.Vec3{1, 0, 0}},
			{Position: mgl32.Vec3{0, 1, 0}},
		},
		Normals: []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Faces: []Face{{
			Texture: "data\\tex.paa",
			Type:    3,
			Vertices: [4]FaceVertex{
				{Point: 1, Normal: 0, U: 1, V: 0},
				{Point: 0, Normal: 1},
				{Point: 2, Normal: 2, V: 1},
			},
			Flags: 0x8,
		}},
		Tags: []Tag{
			&SelectionTag{Name: "door", Points: []uint8{1, 0, 251}, Faces: []uint8{1}},
			&SharpEdgesTag{Edges: []uint32{0, 1}},
			&PropertyTag{Name: "class", Value: "house"},
			&MassTag{Masses: []float32{1, 2, 3}},
			&AnimationTag{Time: 0.25, Points: []mgl32.Vec3{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}}},
			&MaterialIndexTag{Materials: []Material{{Diffuse: common.ColorBgra{R: 255, A: 255}}}},
			&OpaqueTag{Name: "#UVSet#", Data: []byte{1, 2, 3, 4, 5}},
		},
		Resolution: common.ResGeometry,
	}
}

func encode(t *testing.T, s *Shape) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := encode(t, &Shape{
		Version:        Version,
		Lods:           []*Lod{testLod(), testLod()},
		DefaultPath:    "p:\\ca\\data",
		HasDefaultPath: true,
	})

	s, err := Decode(bytes.NewReader(src))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(s.Lods) != 2 || s.LodCount != 2 {
		t.Fatalf("lods=%d count=%d", len(s.Lods), s.LodCount)
	}
	l := s.Lods[1]
	if names := l.TagNames(); len(names) != 7 || names[0] != "door" || names[6] != "#UVSet#" {
		t.Errorf("tag names %q", names)
	}
	if sel := l.Selections(); len(sel) != 1 || !bytes.Equal(sel[0].Points, []uint8{1, 0, 251}) {
		t.Errorf("selections %+v", sel)
	}
	if props := l.Properties(); len(props) != 1 || props[0].Value != "house" {
		t.Errorf("properties %+v", props)
	}
	if m := l.Masses(); len(m) != 3 || m[2] != 3 {
		t.Errorf("masses %v", m)
	}
	if anims := l.Animations(); len(anims) != 1 || len(anims[0].Points) != 3 {
		t.Errorf("animations %+v", anims)
	}
	if l.Faces[0].Texture != "data\\tex.paa" || l.Faces[0].Vertices[2].V != 1 {
		t.Errorf("face %+v", l.Faces[0])
	}
	if l.Resolution != common.ResGeometry {
		t.Errorf("resolution %v", l.Resolution)
	}
	if s.DefaultPath != "p:\\ca\\data" || !s.HasDefaultPath {
		t.Errorf("default path %q", s.DefaultPath)
	}

	if again := encode(t, s); !bytes.Equal(again, src) {
		t.Errorf("re-encoded model differs from source")
	}
}

func TestDecodeWithoutDefaultPath(t *testing.T) {
	src := encode(t, &Shape{Version: Version, Lods: []*Lod{testLod()}})
	s, err := Decode(bytes.NewReader(src))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if s.HasDefaultPath || s.DefaultPath != "" {
		t.Errorf("unexpected default path %q", s.DefaultPath)
	}
}

func TestDecodeStopsAtForeignLodSignature(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	e.WriteHeader(Version, 3)
	e.WriteLod(testLod())
	buf.WriteString("ODOL")
	buf.Write(make([]byte, 100))

	s, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(s.Lods) != 1 || s.LodCount != 3 {
		t.Errorf("lods=%d count=%d; expected 1 of 3", len(s.Lods), s.LodCount)
	}
}

func TestDecodeSelectionSizeMismatch(t *testing.T) {
	l := testLod()
	l.Tags = []Tag{&OpaqueTag{Name: "broken", Data: []byte{1, 1}}}
	s, err := Decode(bytes.NewReader(encode(t, &Shape{Version: Version, Lods: []*Lod{l}})))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	tags := s.Lods[0].Tags
	if len(tags) != 1 {
		t.Fatalf("tags %v", tags)
	}
	if _, ok := tags[0].(*OpaqueTag); !ok {
		t.Errorf("mismatched selection decoded as %T", tags[0])
	}
	if s.Lods[0].Resolution != common.ResGeometry {
		t.Errorf("stream lost sync after skipped tag")
	}
}

func lodHeader(counts [3]int32) *bytes.Buffer {
	var buf bytes.Buffer
	sw := utils.NewStreamWriter(&buf)
	sw.WriteLU32(common.SignatureMLOD)
	sw.WriteLU32(Version)
	sw.WriteLU32(1)
	sw.WriteLU32(common.SignatureSP3X)
	sw.WriteLI32(LodMajorVersion)
	sw.WriteLI32(LodMinorVersion)
	sw.WriteLI32(counts[0])
	sw.WriteLI32(counts[1])
	sw.WriteLI32(counts[2])
	sw.WriteLI32(0)
	return &buf
}

func TestDecodeErrors(t *testing.T) {
	missingTagg := lodHeader([3]int32{0, 0, 0})
	missingTagg.WriteString("GGAT")

	truncated := lodHeader([3]int32{2, 0, 0})
	truncated.Write(make([]byte, 20))

	tests := []struct {
		name   string
		in     []byte
		expect error
	}{
		{"signature", []byte("ODOL\x00\x00\x00\x00"), common.ErrUnsupportedSignature},
		{"negative count", lodHeader([3]int32{-1, 0, 0}).Bytes(), common.ErrMalformedRecord},
		{"missing tagg", missingTagg.Bytes(), common.ErrUnsupportedSignature},
		{"truncated points", truncated.Bytes(), common.ErrTruncatedInput},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(test.in))
			if !errors.Is(err, test.expect) {
				t.Errorf("Decode error=%v; expected %v", err, test.expect)
			}
		})
	}
}

func TestWriteTruncatesNames(t *testing.T) {
	l := testLod()
	long := "data\\a_very_long_texture_name_that_overflows.paa"
	l.Faces[0].Texture = long
	s, err := Decode(bytes.NewReader(encode(t, &Shape{Version: Version, Lods: []*Lod{l}})))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := s.Lods[0].Faces[0].Texture; got != long[:TextureNameSize-1] {
		t.Errorf("texture %q; expected %q", got, long[:TextureNameSize-1])
	}
}

func TestTextureNames(t *testing.T) {
	l := testLod()
	l.Faces = append(l.Faces, Face{Texture: "DATA\\TEX.paa"}, Face{}, Face{Texture: "data\\other.paa"})
	s := &Shape{Lods: []*Lod{l, testLod()}}
	names := s.TextureNames()
	if len(names) != 2 || names[1] != "data\\other.paa" {
		t.Errorf("TextureNames()=%q", names)
	}
}
