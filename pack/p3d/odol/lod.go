package odol

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/odol2mlod/pack/p3d/common"
	"github.com/mogaika/odol2mlod/utils"
)

func readFaces(sr *utils.StreamReader, l *Lod) error {
	count := sr.LU32()
	l.FacesSize = sr.LU32()
	l.Faces = make([]Face, 0, preallocate(count))

	var offset uint32
	for i := uint32(0); i < count; i++ {
		f := Face{Offset: offset}
		f.Flags = sr.LU32()
		f.Texture = sr.LU16()
		f.Count = sr.U8()
		if err := sr.Err(); err != nil {
			return err
		}
		if f.Count != 3 && f.Count != 4 {
			return errors.Wrapf(common.ErrMalformedRecord, "face %d has %d vertices", i, f.Count)
		}
		for j := uint8(0); j < f.Count; j++ {
			f.Vertices[j] = sr.LU16()
		}
		offset += 2 + 2*uint32(f.Count)
		l.Faces = append(l.Faces, f)
	}
	return sr.Err()
}

func readSections(sr *utils.StreamReader) []Section {
	count := sr.LU32()
	r := make([]Section, 0, preallocate(count))
	for i := uint32(0); i < count && sr.Err() == nil; i++ {
		r = append(r, Section{
			Start:    sr.LU32(),
			End:      sr.LU32(),
			Material: sr.LI32(),
			Texture:  sr.LI16(),
			Special:  sr.LI32(),
		})
	}
	return r
}

func readNamedSection(sr *utils.StreamReader) (ns NamedSection, err error) {
	ns.Name = strings.ToLower(sr.ZString())
	if ns.FaceIndices, err = readCompressedU16s(sr); err != nil {
		return
	}
	if ns.FaceWeights, err = readCompressedU8s(sr); err != nil {
		return
	}
	if ns.FaceSelectionIndices, err = readCompressedU32s(sr); err != nil {
		return
	}
	ns.NeedSelection = sr.Bool()
	if ns.FaceSelectionIndices2, err = readCompressedU32s(sr); err != nil {
		return
	}
	if ns.VertexIndices, err = readCompressedU16s(sr); err != nil {
		return
	}
	ns.VertexWeights, err = readCompressedU8s(sr)
	return
}

func readNamedSections(sr *utils.StreamReader) ([]NamedSection, error) {
	count := sr.LU32()
	r := make([]NamedSection, 0, preallocate(count))
	for i := uint32(0); i < count && sr.Err() == nil; i++ {
		ns, err := readNamedSection(sr)
		if err != nil {
			return nil, errors.Wrapf(err, "named section %d %q", i, ns.Name)
		}
		r = append(r, ns)
	}
	return r, sr.Err()
}

func readProperties(sr *utils.StreamReader) []Property {
	count := sr.LU32()
	r := make([]Property, 0, preallocate(count))
	for i := uint32(0); i < count && sr.Err() == nil; i++ {
		r = append(r, Property{Name: sr.ZString(), Value: sr.ZString()})
	}
	return r
}

func readAnimationPhases(sr *utils.StreamReader) []AnimationPhase {
	count := sr.LU32()
	r := make([]AnimationPhase, 0, preallocate(count))
	for i := uint32(0); i < count && sr.Err() == nil; i++ {
		time := sr.LF()
		r = append(r, AnimationPhase{Time: time, Points: readVec3s(sr)})
	}
	return r
}

func readProxies(sr *utils.StreamReader) []Proxy {
	count := sr.LU32()
	r := make([]Proxy, 0, preallocate(count))
	for i := uint32(0); i < count && sr.Err() == nil; i++ {
		r = append(r, Proxy{
			Name:         sr.ZString(),
			Transform:    sr.Mat4(),
			Id:           sr.LI32(),
			SectionIndex: sr.LI32(),
		})
	}
	return r
}

func readLod(sr *utils.StreamReader, log *utils.Logger) (*Lod, error) {
	l := &Lod{}
	var err error

	if l.Flags, err = readCompressedU32s(sr); err != nil {
		return nil, errors.Wrap(err, "vertex flags")
	}
	if l.Uvs, err = readCompressedVec2s(sr); err != nil {
		return nil, errors.Wrap(err, "uvs")
	}
	l.Positions = readVec3s(sr)
	l.Normals = readVec3s(sr)
	log.Printf("   vertices: %d flags, %d uvs, %d positions, %d normals",
		len(l.Flags), len(l.Uvs), len(l.Positions), len(l.Normals))

	l.HintsOr = sr.LU32()
	l.HintsAnd = sr.LU32()
	l.Min = sr.Vec3()
	l.Max = sr.Vec3()
	l.Center = sr.Vec3()
	l.Radius = sr.LF()
	l.Textures = readZStrings(sr)
	if err := sr.Err(); err != nil {
		return nil, err
	}
	log.Printf("   textures: %v", l.Textures)

	if l.PointToVertices, err = readCompressedU16s(sr); err != nil {
		return nil, errors.Wrap(err, "point to vertices")
	}
	if l.VertexToPoints, err = readCompressedU16s(sr); err != nil {
		return nil, errors.Wrap(err, "vertex to points")
	}

	if err := readFaces(sr, l); err != nil {
		return nil, errors.Wrap(err, "faces")
	}
	log.Printf("   faces: %d (0x%x bytes)", len(l.Faces), l.FacesSize)

	l.Sections = readSections(sr)
	if l.NamedSections, err = readNamedSections(sr); err != nil {
		return nil, err
	}
	l.Properties = readProperties(sr)
	l.AnimationPhases = readAnimationPhases(sr)
	log.Printf("   sections: %d, named sections: %d, properties: %d, animation phases: %d",
		len(l.Sections), len(l.NamedSections), len(l.Properties), len(l.AnimationPhases))

	l.Color = common.ReadColor(sr)
	l.Color2 = common.ReadColor(sr)
	l.Flags2 = sr.LU32()
	l.Proxies = readProxies(sr)

	return l, sr.Err()
}
