package odol

import (
	"io"

	"github.com/mogaika/odol2mlod/pack/p3d/common"
	"github.com/mogaika/odol2mlod/utils"
)

// FacesBlockSize computes the face block size the way the format stores it.
func FacesBlockSize(faces []Face) uint32 {
	var size uint32
	for i := range faces {
		size += 2 + 2*uint32(faces[i].Count)
	}
	return size
}

func encodeLod(sw *utils.StreamWriter, l *Lod) {
	writeCompressedU32s(sw, l.Flags)
	writeCompressedVec2s(sw, l.Uvs)
	writeVec3s(sw, l.Positions)
	writeVec3s(sw, l.Normals)

	sw.WriteLU32(l.HintsOr)
	sw.WriteLU32(l.HintsAnd)
	sw.WriteVec3(l.Min)
	sw.WriteVec3(l.Max)
	sw.WriteVec3(l.Center)
	sw.WriteLF(l.Radius)
	writeZStrings(sw, l.Textures)

	writeCompressedU16s(sw, l.PointToVertices)
	writeCompressedU16s(sw, l.VertexToPoints)

	sw.WriteLU32(uint32(len(l.Faces)))
	sw.WriteLU32(l.FacesSize)
	for i := range l.Faces {
		f := &l.Faces[i]
		sw.WriteLU32(f.Flags)
		sw.WriteLU16(f.Texture)
		sw.WriteU8(f.Count)
		sw.WriteLU16s(f.Indices())
	}

	sw.WriteLU32(uint32(len(l.Sections)))
	for _, sec := range l.Sections {
		sw.WriteLU32(sec.Start)
		sw.WriteLU32(sec.End)
		sw.WriteLI32(sec.Material)
		sw.WriteLI16(sec.Texture)
		sw.WriteLI32(sec.Special)
	}

	sw.WriteLU32(uint32(len(l.NamedSections)))
	for i := range l.NamedSections {
		ns := &l.NamedSections[i]
		sw.WriteZString(ns.Name)
		writeCompressedU16s(sw, ns.FaceIndices)
		writeCompressedU8s(sw, ns.FaceWeights)
		writeCompressedU32s(sw, ns.FaceSelectionIndices)
		sw.WriteBool(ns.NeedSelection)
		writeCompressedU32s(sw, ns.FaceSelectionIndices2)
		writeCompressedU16s(sw, ns.VertexIndices)
		writeCompressedU8s(sw, ns.VertexWeights)
	}

	sw.WriteLU32(uint32(len(l.Properties)))
	for _, p := range l.Properties {
		sw.WriteZString(p.Name)
		sw.WriteZString(p.Value)
	}

	sw.WriteLU32(uint32(len(l.AnimationPhases)))
	for _, ap := range l.AnimationPhases {
		sw.WriteLF(ap.Time)
		writeVec3s(sw, ap.Points)
	}

	common.WriteColor(sw, l.Color)
	common.WriteColor(sw, l.Color2)
	sw.WriteLU32(l.Flags2)

	sw.WriteLU32(uint32(len(l.Proxies)))
	for _, p := range l.Proxies {
		sw.WriteZString(p.Name)
		sw.WriteMat4(p.Transform)
		sw.WriteLI32(p.Id)
		sw.WriteLI32(p.SectionIndex)
	}
}

// Encode writes s in the layout Decode reads. Arrays over the compression threshold are lzss packed.
func Encode(w io.Writer, s *Shape) error {
	sw := utils.NewStreamWriter(w)

	sw.WriteLU32(common.SignatureODOL)
	sw.WriteLU32(s.Version)
	sw.WriteLU32(uint32(len(s.Lods)))
	for _, l := range s.Lods {
		encodeLod(sw, l)
	}
	for i := range s.Lods {
		var res common.Resolution
		if i < len(s.Resolutions) {
			res = s.Resolutions[i]
		}
		sw.WriteLU32(uint32(res))
	}

	sw.WriteLU32(s.Properties)
	sw.WriteLF(s.LodSphere)
	sw.WriteLF(s.PhysicsSphere)
	sw.WriteLU32(s.Properties2)
	sw.WriteLU32(s.HintsAnd)
	sw.WriteLU32(s.HintsOr)

	sw.WriteVec3(s.AimPoint)
	common.WriteColor(sw, s.Color)
	common.WriteColor(sw, s.Color2)
	sw.WriteLF(s.Density)

	sw.WriteVec3(s.Min)
	sw.WriteVec3(s.Max)
	sw.WriteVec3(s.LodCenter)
	sw.WriteVec3(s.PhysicsCenter)
	sw.WriteVec3(s.MassCenter)
	sw.WriteMat3(s.InvInertia)

	sw.WriteBool(s.AutoCenter)
	sw.WriteBool(s.LockAutoCenter)
	sw.WriteBool(s.CanOcclude)
	sw.WriteBool(s.CanBeOccluded)
	sw.WriteBool(s.AllowAnimation)
	sw.WriteU8(s.MapType)

	writeCompressedFloats(sw, s.Masses)
	sw.WriteLF(s.Mass)
	sw.WriteLF(s.InvMass)
	sw.WriteLF(s.Armor)
	sw.WriteLF(s.InvArmor)

	for _, idx := range s.Roles {
		sw.WriteI8(idx)
	}
	return sw.Err()
}
