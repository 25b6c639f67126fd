package mlod

import (
	"io"

	"github.com/mogaika/odol2mlod/pack/p3d/common"
	"github.com/mogaika/odol2mlod/utils"
)

// Encoder writes a model lod by lod, so a caller does not need every lod in memory.
type Encoder struct {
	sw *utils.StreamWriter
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{sw: utils.NewStreamWriter(w)}
}

func (e *Encoder) Err() error {
	return e.sw.Err()
}

func (e *Encoder) WriteHeader(version uint32, lodCount int) error {
	e.sw.WriteLU32(common.SignatureMLOD)
	e.sw.WriteLU32(version)
	e.sw.WriteLU32(uint32(lodCount))
	return e.sw.Err()
}

func (e *Encoder) WriteLod(l *Lod) error {
	sw := e.sw
	sw.WriteLU32(common.SignatureSP3X)
	sw.WriteLI32(l.MajorVersion)
	sw.WriteLI32(l.MinorVersion)
	sw.WriteLU32(uint32(len(l.Points)))
	sw.WriteLU32(uint32(len(l.Normals)))
	sw.WriteLU32(uint32(len(l.Faces)))
	sw.WriteLI32(l.Flags)

	for _, p := range l.Points {
		sw.WriteVec3(p.Position)
		sw.WriteLU32(p.Flags)
	}
	for _, n := range l.Normals {
		sw.WriteVec3(n)
	}
	for i := range l.Faces {
		f := &l.Faces[i]
		sw.WriteName(f.Texture, TextureNameSize)
		sw.WriteLI32(f.Type)
		for _, v := range f.Vertices {
			sw.WriteLI32(v.Point)
			sw.WriteLI32(v.Normal)
			sw.WriteLF(v.U)
			sw.WriteLF(v.V)
		}
		sw.WriteLU32(f.Flags)
	}

	sw.WriteLU32(common.SignatureTAGG)
	for _, t := range l.Tags {
		writeTag(sw, t)
	}
	sw.WriteName(TagEndOfFile, TagNameSize)
	sw.WriteLU32(0)
	sw.WriteLU32(uint32(l.Resolution))
	return sw.Err()
}

// WriteDefaultPath writes the optional path trailing the lod list.
func (e *Encoder) WriteDefaultPath(path string) error {
	e.sw.WriteName(path, DefaultPathSize)
	return e.sw.Err()
}

func writeTag(sw *utils.StreamWriter, t Tag) {
	sw.WriteName(t.TagName(), TagNameSize)
	sw.WriteLU32(t.BodySize())

	switch t := t.(type) {
	case *SharpEdgesTag:
		sw.WriteLU32s(t.Edges)
	case *PropertyTag:
		sw.WriteName(t.Name, PropertyValueSize)
		sw.WriteName(t.Value, PropertyValueSize)
	case *MassTag:
		sw.WriteLFs(t.Masses)
	case *AnimationTag:
		sw.WriteLF(t.Time)
		for _, p := range t.Points {
			sw.WriteVec3(p)
		}
	case *MaterialIndexTag:
		for _, m := range t.Materials {
			common.WriteColor(sw, m.Diffuse)
			common.WriteColor(sw, m.Ambient)
			common.WriteColor(sw, m.Specular)
			common.WriteColor(sw, m.Emissive)
		}
	case *SelectionTag:
		sw.WriteBytes(t.Points)
		sw.WriteBytes(t.Faces)
	case *OpaqueTag:
		sw.WriteBytes(t.Data)
	}
}

func Encode(w io.Writer, s *Shape) error {
	e := NewEncoder(w)
	e.WriteHeader(s.Version, len(s.Lods))
	for _, l := range s.Lods {
		e.WriteLod(l)
	}
	if s.HasDefaultPath {
		e.WriteDefaultPath(s.DefaultPath)
	}
	return e.Err()
}
