package mlod

import (
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/odol2mlod/pack/p3d/common"
	"github.com/mogaika/odol2mlod/utils"
)

const (
	maxPreallocate = 1 << 16
	maxTagBytes    = 256 << 20
)

func preallocate(count int32) int {
	if count > maxPreallocate {
		return maxPreallocate
	}
	return int(count)
}

func appendTextures(dst []string, seen map[string]struct{}, l *Lod) []string {
	for i := range l.Faces {
		name := l.Faces[i].Texture
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, name)
	}
	return dst
}

func Decode(r io.Reader) (*Shape, error) {
	return DecodeWithLogger(r, nil)
}

func DecodeWithLogger(r io.Reader, log *utils.Logger) (*Shape, error) {
	sr := utils.NewStreamReader(r)

	if sig := sr.LU32(); sr.Err() != nil {
		return nil, sr.Err()
	} else if sig != common.SignatureMLOD {
		return nil, errors.Wrapf(common.ErrUnsupportedSignature, "expected MLOD, got %s", common.FormatSignature(sig))
	}

	s := &Shape{}
	s.Version = sr.LU32()
	s.LodCount = sr.LU32()
	if err := sr.Err(); err != nil {
		return nil, err
	}
	log.Printf("version 0x%x, %d lods", s.Version, s.LodCount)

	for i := uint32(0); i < s.LodCount; i++ {
		if sig := sr.LU32(); sr.Err() != nil {
			return nil, errors.Wrapf(sr.Err(), "lod %d", i)
		} else if sig != common.SignatureSP3X {
			log.Printf(" lod %d: signature %s, stop", i, common.FormatSignature(sig))
			break
		}

		log.Printf(" lod %d at 0x%x", i, sr.Pos())
		l, err := decodeLod(sr, log)
		if err != nil {
			return nil, errors.Wrapf(err, "mlod lod %d at offset 0x%x", i, sr.Pos())
		}
		s.Lods = append(s.Lods, l)
	}

	tail := sr.ReadTail(DefaultPathSize)
	if err := sr.Err(); err != nil {
		return nil, err
	}
	s.DefaultPath = utils.BytesToString(tail)
	s.HasDefaultPath = len(tail) == DefaultPathSize
	return s, nil
}

func decodeLod(sr *utils.StreamReader, log *utils.Logger) (*Lod, error) {
	l := &Lod{}
	l.MajorVersion = sr.LI32()
	l.MinorVersion = sr.LI32()
	pointsCount := sr.LI32()
	normalsCount := sr.LI32()
	facesCount := sr.LI32()
	l.Flags = sr.LI32()
	if err := sr.Err(); err != nil {
		return nil, err
	}
	if pointsCount < 0 || normalsCount < 0 || facesCount < 0 {
		return nil, errors.Wrapf(common.ErrMalformedRecord, "negative counts %d/%d/%d", pointsCount, normalsCount, facesCount)
	}
	log.Printf("   version %d.%d, %d points, %d normals, %d faces", l.MajorVersion, l.MinorVersion, pointsCount, normalsCount, facesCount)

	l.Points = make([]Point, 0, preallocate(pointsCount))
	for i := int32(0); i < pointsCount && sr.Err() == nil; i++ {
		pos := sr.Vec3()
		l.Points = append(l.Points, Point{Position: pos, Flags: sr.LU32()})
	}
	l.Normals = make([]mgl32.Vec3, 0, preallocate(normalsCount))
	for i := int32(0); i < normalsCount && sr.Err() == nil; i++ {
		l.Normals = append(l.Normals, sr.Vec3())
	}
	l.Faces = make([]Face, 0, preallocate(facesCount))
	for i := int32(0); i < facesCount && sr.Err() == nil; i++ {
		f := Face{Texture: sr.FixedString(TextureNameSize), Type: sr.LI32()}
		for j := range f.Vertices {
			f.Vertices[j] = FaceVertex{Point: sr.LI32(), Normal: sr.LI32(), U: sr.LF(), V: sr.LF()}
		}
		f.Flags = sr.LU32()
		l.Faces = append(l.Faces, f)
	}

	if sig := sr.LU32(); sr.Err() != nil {
		return nil, sr.Err()
	} else if sig != common.SignatureTAGG {
		return nil, errors.Wrapf(common.ErrUnsupportedSignature, "expected TAGG, got %s", common.FormatSignature(sig))
	}

	for {
		name := sr.FixedString(TagNameSize)
		size := sr.LU32()
		if err := sr.Err(); err != nil {
			return nil, errors.Wrapf(err, "tag %q", name)
		}
		if name == TagEndOfFile {
			break
		}
		tag, err := decodeTag(sr, l, name, size)
		if err != nil {
			return nil, errors.Wrapf(err, "tag %q", name)
		}
		log.Printf("   tag %q size %d", name, size)
		l.Tags = append(l.Tags, tag)
	}

	l.Resolution = common.Resolution(sr.LU32())
	log.Printf("   resolution %s", l.Resolution.Name())
	return l, sr.Err()
}

func readFloats(sr *utils.StreamReader, count uint32) []float32 {
	r := make([]float32, 0, preallocate(int32(count&0x7fffffff)))
	for i := uint32(0); i < count && sr.Err() == nil; i++ {
		r = append(r, sr.LF())
	}
	return r
}

func decodeTag(sr *utils.StreamReader, l *Lod, name string, size uint32) (Tag, error) {
	switch name {
	case TagSharpEdges:
		t := &SharpEdgesTag{Edges: make([]uint32, 0, preallocate(int32(size/4)))}
		for i := uint32(0); i < size/4 && sr.Err() == nil; i++ {
			t.Edges = append(t.Edges, sr.LU32())
		}
		sr.Skip(int64(size % 4))
		return t, sr.Err()
	case TagProperty:
		t := &PropertyTag{
			Name:  sr.FixedString(PropertyValueSize),
			Value: sr.FixedString(PropertyValueSize),
		}
		if size > 2*PropertyValueSize {
			sr.Skip(int64(size - 2*PropertyValueSize))
		}
		return t, sr.Err()
	case TagMass:
		t := &MassTag{Masses: readFloats(sr, size/4)}
		sr.Skip(int64(size % 4))
		return t, sr.Err()
	case TagAnimation:
		if size < 4 {
			return nil, errors.Wrapf(common.ErrMalformedRecord, "animation tag of %d bytes", size)
		}
		t := &AnimationTag{Time: sr.LF()}
		count := (size - 4) / 12
		t.Points = make([]mgl32.Vec3, 0, preallocate(int32(count)))
		for i := uint32(0); i < count && sr.Err() == nil; i++ {
			t.Points = append(t.Points, sr.Vec3())
		}
		sr.Skip(int64((size - 4) % 12))
		return t, sr.Err()
	case TagMaterialIndex:
		t := &MaterialIndexTag{}
		for i := uint32(0); i < size/16 && sr.Err() == nil; i++ {
			t.Materials = append(t.Materials, Material{
				Diffuse:  common.ReadColor(sr),
				Ambient:  common.ReadColor(sr),
				Specular: common.ReadColor(sr),
				Emissive: common.ReadColor(sr),
			})
		}
		sr.Skip(int64(size % 16))
		return t, sr.Err()
	}

	if !strings.HasPrefix(name, string(ReservedMarker)) && uint64(size) == uint64(len(l.Points))+uint64(len(l.Faces)) {
		t := &SelectionTag{
			Name:   name,
			Points: make([]uint8, len(l.Points)),
			Faces:  make([]uint8, len(l.Faces)),
		}
		sr.ReadFull(t.Points)
		sr.ReadFull(t.Faces)
		return t, sr.Err()
	}

	if size > maxTagBytes {
		return nil, errors.Wrapf(common.ErrMalformedRecord, "tag of %d bytes", size)
	}
	t := &OpaqueTag{Name: name, Data: make([]byte, size)}
	sr.ReadFull(t.Data)
	return t, sr.Err()
}
