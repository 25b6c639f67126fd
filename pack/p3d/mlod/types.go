package mlod

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/odol2mlod/pack/p3d/common"
)

const (
	TagNameSize     = 64
	TextureNameSize = 32
	// Named selections are written as tags, so they share the tag name width
	SelectionNameSize = TagNameSize
	DefaultPathSize   = 32

	TagSharpEdges    = "#SharpEdges#"
	TagProperty      = "#Property#"
	TagMass          = "#Mass#"
	TagAnimation     = "#Animation#"
	TagMaterialIndex = "#MaterialIndex#"
	TagEndOfFile     = "#EndOfFile#"

	// Names starting with the marker are reserved for format tags
	ReservedMarker = '#'

	PropertyValueSize = 64
)

const (
	Version = 0x0101

	LodMajorVersion = 0x1c
	LodMinorVersion = 0x99
)

type Point struct {
	Position mgl32.Vec3
	Flags    uint32
}

type FaceVertex struct {
	Point  int32
	Normal int32
	U, V   float32
}

// Face always carries four slots, Type tells how many are used.
type Face struct {
	Texture  string
	Type     int32
	Vertices [4]FaceVertex
	Flags    uint32
}

type Material struct {
	Diffuse  common.ColorBgra
	Ambient  common.ColorBgra
	Specular common.ColorBgra
	Emissive common.ColorBgra
}

type Tag interface {
	TagName() string
	// BodySize is the size written after the tag name
	BodySize() uint32
}

type SharpEdgesTag struct {
	Edges []uint32
}

type PropertyTag struct {
	Name  string
	Value string
}

type MassTag struct {
	Masses []float32
}

type AnimationTag struct {
	Time   float32
	Points []mgl32.Vec3
}

type MaterialIndexTag struct {
	Materials []Material
}

// SelectionTag is a named selection: a weight byte per point and a membership byte per face.
type SelectionTag struct {
	Name   string
	Points []uint8
	Faces  []uint8
}

// OpaqueTag keeps the body of a tag that is not parsed.
type OpaqueTag struct {
	Name string
	Data []byte
}

func (*SharpEdgesTag) TagName() string    { return TagSharpEdges }
func (*PropertyTag) TagName() string      { return TagProperty }
func (*MassTag) TagName() string          { return TagMass }
func (*AnimationTag) TagName() string     { return TagAnimation }
func (*MaterialIndexTag) TagName() string { return TagMaterialIndex }
func (t *SelectionTag) TagName() string   { return t.Name }
func (t *OpaqueTag) TagName() string      { return t.Name }

func (t *SharpEdgesTag) BodySize() uint32    { return uint32(4 * len(t.Edges)) }
func (*PropertyTag) BodySize() uint32        { return 2 * PropertyValueSize }
func (t *MassTag) BodySize() uint32          { return uint32(4 * len(t.Masses)) }
func (t *AnimationTag) BodySize() uint32     { return uint32(4 + 12*len(t.Points)) }
func (t *MaterialIndexTag) BodySize() uint32 { return uint32(16 * len(t.Materials)) }
func (t *SelectionTag) BodySize() uint32     { return uint32(len(t.Points) + len(t.Faces)) }
func (t *OpaqueTag) BodySize() uint32        { return uint32(len(t.Data)) }

type Lod struct {
	MajorVersion int32
	MinorVersion int32
	Flags        int32

	Points  []Point
	Normals []mgl32.Vec3
	Faces   []Face
	Tags    []Tag

	Resolution common.Resolution
}

type Shape struct {
	Version uint32
	// Lod count from the header, Lods may be shorter when a lod signature does not match
	LodCount uint32
	Lods     []*Lod

	DefaultPath    string
	HasDefaultPath bool
}

func (l *Lod) Properties() []*PropertyTag {
	var r []*PropertyTag
	for _, t := range l.Tags {
		if p, ok := t.(*PropertyTag); ok {
			r = append(r, p)
		}
	}
	return r
}

func (l *Lod) Selections() []*SelectionTag {
	var r []*SelectionTag
	for _, t := range l.Tags {
		if s, ok := t.(*SelectionTag); ok {
			r = append(r, s)
		}
	}
	return r
}

func (l *Lod) Animations() []*AnimationTag {
	var r []*AnimationTag
	for _, t := range l.Tags {
		if a, ok := t.(*AnimationTag); ok {
			r = append(r, a)
		}
	}
	return r
}

// Masses returns the first mass tag payload.
func (l *Lod) Masses() []float32 {
	for _, t := range l.Tags {
		if m, ok := t.(*MassTag); ok {
			return m.Masses
		}
	}
	return nil
}

func (l *Lod) TagNames() []string {
	r := make([]string, len(l.Tags))
	for i, t := range l.Tags {
		r[i] = t.TagName()
	}
	return r
}

// TextureNames returns the non empty face textures, case-insensitively unique, in face order.
func (l *Lod) TextureNames() []string {
	return appendTextures(nil, map[string]struct{}{}, l)
}

func (s *Shape) TextureNames() []string {
	seen := map[string]struct{}{}
	var r []string
	for _, l := range s.Lods {
		r = appendTextures(r, seen, l)
	}
	return r
}
