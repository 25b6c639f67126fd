package odol

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/odol2mlod/pack/p3d/common"
	"github.com/mogaika/odol2mlod/pack/p3d/lzss"
	"github.com/mogaika/odol2mlod/utils"
)

func testLod(vertices int) *Lod {
	l := &Lod{
		Textures: []string{"data\\body.paa", "", "Data\\Body.paa", "data\\glass.paa"},
		Sections: []Section{{Start: 0, End: 18, Material: -1, Texture: 0, Special: 0x20}},
		Properties: []Property{
			{Name: "lodnoshadow", Value: "1"},
		},
		AnimationPhases: []AnimationPhase{
			{Time: 0.5, Points: []mgl32.Vec3{{1, 2, 3}}},
		},
		Color:  common.ColorBgra{B: 1, G: 2, R: 3, A: 4},
		Color2: common.ColorBgra{B: 5, G: 6, R: 7, A: 8},
		Flags2: 0x100,
		Proxies: []Proxy{
			{Name: "\\ca\\proxy", Transform: mgl32.Translate3D(1, 2, 3), Id: 1, SectionIndex: -1},
		},
		Radius: 2,
		Max:    mgl32.Vec3{1, 1, 1},
	}
	for i := 0; i < vertices; i++ {
		l.Flags = append(l.Flags, uint32(i)<<20)
		l.Uvs = append(l.Uvs, mgl32.Vec2{float32(i), 0.5})
		l.Positions = append(l.Positions, mgl32.Vec3{float32(i), 1, 2})
		l.Normals = append(l.Normals, mgl32.Vec3{0, 1, 0})
		l.PointToVertices = append(l.PointToVertices, uint16(i))
		l.VertexToPoints = append(l.VertexToPoints, uint16(i))
	}
	l.Faces = []Face{
		{Flags: 0x40, Texture: 0, Count: 3, Vertices: [4]uint16{0, 1, 2}},
		{Flags: 0x20, Texture: 3, Count: 4, Vertices: [4]uint16{0, 1, 2, 3}},
	}
	l.FacesSize = FacesBlockSize(l.Faces)
	l.NamedSections = []NamedSection{
		{Name: "door", FaceIndices: []uint16{1}, VertexIndices: []uint16{0, 1}, VertexWeights: []uint8{5, 255}},
	}
	return l
}

func testShape() *Shape {
	s := &Shape{
		Version:     7,
		Lods:        []*Lod{testLod(4), testLod(300)},
		Resolutions: []common.Resolution{common.ResolutionFromFloat(1), common.ResGeometry},
		LodCenter:   mgl32.Vec3{0, 1, 0},
		InvInertia:  mgl32.Ident3(),
		Mass:        10,
		Masses:      make([]float32, 300),
		CanOcclude:  true,
		MapType:     3,
		Roles:       common.NoRoles(),
	}
	s.Roles[common.RoleGeometry] = 1
	return s
}

func encodeShape(t *testing.T, s *Shape) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := encodeShape(t, testShape())

	s, err := Decode(bytes.NewReader(src))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(s.Lods) != 2 || len(s.Lods[1].Positions) != 300 {
		t.Fatalf("unexpected lods: %d", len(s.Lods))
	}
	if f := s.Lods[0].Faces[1]; f.Count != 4 || f.Vertices != [4]uint16{0, 1, 2, 3} || f.Offset != 8 {
		t.Errorf("quad face decoded as %+v", f)
	}
	if got := s.Lods[1].Flags[299]; got != 299<<20 {
		t.Errorf("compressed flags[299]=0x%x", got)
	}
	if got := s.RoleLod(common.RoleGeometry); got != 1 {
		t.Errorf("geometry lod=%d; expected 1", got)
	}
	if got := s.Lods[0].Proxies[0].Transform; got != mgl32.Translate3D(1, 2, 3) {
		t.Errorf("proxy transform %v", got)
	}

	if again := encodeShape(t, s); !bytes.Equal(again, src) {
		t.Errorf("re-encoded model differs from source")
	}
}

func TestDecodeLowercasesSectionNames(t *testing.T) {
	shape := testShape()
	shape.Lods[0].NamedSections[0].Name = "Door_Left"
	s, err := Decode(bytes.NewReader(encodeShape(t, shape)))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if name := s.Lods[0].NamedSections[0].Name; name != "door_left" {
		t.Errorf("named section name=%q", name)
	}
}

func TestTextureNames(t *testing.T) {
	s := testShape()
	names := s.TextureNames()
	if len(names) != 2 || names[0] != "data\\body.paa" || names[1] != "data\\glass.paa" {
		t.Errorf("TextureNames()=%q", names)
	}
}

func writeEmptyLodHead(sw *utils.StreamWriter) {
	sw.WriteLU32(0) // flags
	sw.WriteLU32(0) // uvs
	sw.WriteLU32(0) // positions
	sw.WriteLU32(0) // normals
	sw.WriteLU32(0)
	sw.WriteLU32(0)
	sw.WriteVec3(mgl32.Vec3{})
	sw.WriteVec3(mgl32.Vec3{})
	sw.WriteVec3(mgl32.Vec3{})
	sw.WriteLF(0)
	sw.WriteLU32(0) // textures
	sw.WriteLU32(0) // point to vertices
	sw.WriteLU32(0) // vertex to points
}

func TestDecodeMalformedFace(t *testing.T) {
	var buf bytes.Buffer
	sw := utils.NewStreamWriter(&buf)
	sw.WriteLU32(common.SignatureODOL)
	sw.WriteLU32(7)
	sw.WriteLU32(1)
	writeEmptyLodHead(sw)
	sw.WriteLU32(1)
	sw.WriteLU32(12)
	sw.WriteLU32(0)
	sw.WriteLU16(0)
	sw.WriteU8(5)
	sw.WriteLU16s([]uint16{0, 1, 2, 3, 4})

	_, err := Decode(&buf)
	if !errors.Is(err, common.ErrMalformedRecord) {
		t.Fatalf("Decode error=%v; expected ErrMalformedRecord", err)
	}
}

func TestDecodeBadSignature(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("MLOD\x01\x01\x00\x00")))
	if !errors.Is(err, common.ErrUnsupportedSignature) {
		t.Errorf("Decode error=%v; expected ErrUnsupportedSignature", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	src := encodeShape(t, testShape())
	for _, cut := range []int{2, 40, len(src) / 2, len(src) - 1} {
		_, err := Decode(bytes.NewReader(src[:cut]))
		if !errors.Is(err, common.ErrTruncatedInput) {
			t.Errorf("Decode of %d/%d bytes: %v; expected ErrTruncatedInput", cut, len(src), err)
		}
	}
}

func TestDecodeInvalidRole(t *testing.T) {
	shape := testShape()
	shape.Roles[common.RoleHitPoints] = 2
	_, err := Decode(bytes.NewReader(encodeShape(t, shape)))
	if !errors.Is(err, common.ErrMalformedRecord) {
		t.Errorf("Decode error=%v; expected ErrMalformedRecord", err)
	}
}

func compressedU32Stream(values []uint32, compress bool) []byte {
	raw := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(raw[i*4:], v)
	}
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(len(values)))
	if compress {
		return append(out, lzss.Compress(raw)...)
	}
	return append(out, raw...)
}

func TestReadCompressedRawPath(t *testing.T) {
	values := make([]uint32, 255) // 1020 bytes
	for i := range values {
		values[i] = uint32(i * 7)
	}
	stream := compressedU32Stream(values, false)
	sr := utils.NewStreamReader(bytes.NewReader(stream))
	got, err := readCompressedU32s(sr)
	if err != nil {
		t.Fatalf("readCompressedU32s failed: %v", err)
	}
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("value %d=%d; expected %d", i, got[i], values[i])
		}
	}
	if sr.Pos() != int64(len(stream)) {
		t.Errorf("consumed %d of %d bytes", sr.Pos(), len(stream))
	}
}

func TestReadCompressedPacked(t *testing.T) {
	values := make([]uint32, 256) // 1024 bytes
	for i := range values {
		values[i] = uint32(i % 3)
	}
	stream := compressedU32Stream(values, true)
	got, err := readCompressedU32s(utils.NewStreamReader(bytes.NewReader(stream)))
	if err != nil {
		t.Fatalf("readCompressedU32s failed: %v", err)
	}
	if len(got) != 256 || got[255] != 0 || got[254] != 2 {
		t.Errorf("unexpected decoded tail %v", got[250:])
	}

	stream[len(stream)-1] ^= 0xff
	_, err = readCompressedU32s(utils.NewStreamReader(bytes.NewReader(stream)))
	if !errors.Is(err, common.ErrChecksumMismatch) {
		t.Errorf("corrupted checksum: %v; expected ErrChecksumMismatch", err)
	}
}

func TestReadCompressedTooLarge(t *testing.T) {
	stream := []byte{0xff, 0xff, 0xff, 0xff}
	_, err := readCompressedVec2s(utils.NewStreamReader(bytes.NewReader(stream)))
	if !errors.Is(err, common.ErrMalformedRecord) {
		t.Errorf("huge array: %v; expected ErrMalformedRecord", err)
	}
}

func TestExportGLTF(t *testing.T) {
	s := testShape()
	doc, err := s.ExportGLTF(0)
	if err != nil {
		t.Fatalf("ExportGLTF failed: %v", err)
	}
	if len(doc.Meshes) != 1 || len(doc.Nodes) != 1 {
		t.Fatalf("meshes=%d nodes=%d", len(doc.Meshes), len(doc.Nodes))
	}
	prim := doc.Meshes[0].Primitives[0]
	if count := doc.Accessors[*prim.Indices].Count; count != 9 {
		t.Errorf("indices count=%d; expected 9", count)
	}
	for _, attr := range []string{"POSITION", "NORMAL", "TEXCOORD_0"} {
		if _, ok := prim.Attributes[attr]; !ok {
			t.Errorf("missing attribute %s", attr)
		}
	}

	if _, err := s.ExportGLTF(2); err == nil {
		t.Errorf("ExportGLTF(2) accepted missing lod")
	}
}
