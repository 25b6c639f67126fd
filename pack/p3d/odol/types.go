package odol

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/odol2mlod/pack/p3d/common"
)

type Face struct {
	Flags   uint32
	Texture uint16
	// Count is 3 or 4, Vertices[Count:] are unused
	Count    uint8
	Vertices [4]uint16
	// Offset of the face in the face block, as referenced by sections
	Offset uint32
}

func (f *Face) IsQuad() bool {
	return f.Count == 4
}

func (f *Face) Indices() []uint16 {
	return f.Vertices[:f.Count]
}

// Section is a range of faces sharing a texture and material.
type Section struct {
	Start    uint32
	End      uint32
	Material int32
	Texture  int16
	Special  int32
}

type NamedSection struct {
	Name string

	FaceIndices           []uint16
	FaceWeights           []uint8
	FaceSelectionIndices  []uint32
	NeedSelection         bool
	FaceSelectionIndices2 []uint32
	VertexIndices         []uint16
	// Empty when the selection is not weighted
	VertexWeights []uint8
}

type Property struct {
	Name  string
	Value string
}

type AnimationPhase struct {
	Time   float32
	Points []mgl32.Vec3
}

type Proxy struct {
	Name         string
	Transform    mgl32.Mat4
	Id           int32
	SectionIndex int32
}

type Lod struct {
	Flags     []uint32
	Uvs       []mgl32.Vec2
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3

	HintsOr  uint32
	HintsAnd uint32

	Min    mgl32.Vec3
	Max    mgl32.Vec3
	Center mgl32.Vec3
	Radius float32

	Textures []string

	PointToVertices []uint16
	VertexToPoints  []uint16

	// Byte size of the face block as stored
	FacesSize uint32
	Faces     []Face

	Sections        []Section
	NamedSections   []NamedSection
	Properties      []Property
	AnimationPhases []AnimationPhase

	Color  common.ColorBgra
	Color2 common.ColorBgra
	Flags2 uint32

	Proxies []Proxy
}

// VertexToPoint returns the point owning vertex v.
func (l *Lod) VertexToPoint(v uint16) (uint16, bool) {
	if int(v) >= len(l.VertexToPoints) {
		return 0, false
	}
	return l.VertexToPoints[v], true
}

type Shape struct {
	Version     uint32
	Lods        []*Lod
	Resolutions []common.Resolution

	Properties    uint32
	LodSphere     float32
	PhysicsSphere float32
	Properties2   uint32
	HintsAnd      uint32
	HintsOr       uint32

	AimPoint mgl32.Vec3
	Color    common.ColorBgra
	Color2   common.ColorBgra
	Density  float32

	Min           mgl32.Vec3
	Max           mgl32.Vec3
	LodCenter     mgl32.Vec3
	PhysicsCenter mgl32.Vec3
	MassCenter    mgl32.Vec3
	InvInertia    mgl32.Mat3

	AutoCenter     bool
	LockAutoCenter bool
	CanOcclude     bool
	CanBeOccluded  bool
	AllowAnimation bool
	MapType        uint8

	Masses   []float32
	Mass     float32
	InvMass  float32
	Armor    float32
	InvArmor float32

	Roles common.RoleIndices
}

// RoleLod returns the LOD index for role, or -1.
func (s *Shape) RoleLod(r common.Role) int {
	return s.Roles.Get(r)
}
