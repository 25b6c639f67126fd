package odol

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/odol2mlod/pack/p3d/common"
)

// ExportGLTF builds a document with a single triangulated mesh of the lod.
func (s *Shape) ExportGLTF(iLod int) (*gltf.Document, error) {
	if iLod < 0 || iLod >= len(s.Lods) {
		return nil, errors.Errorf("lod %d out of range [0:%d)", iLod, len(s.Lods))
	}
	l := s.Lods[iLod]
	verticesCount := len(l.Positions)

	indices := make([]uint32, 0, len(l.Faces)*6)
	for iFace := range l.Faces {
		f := &l.Faces[iFace]
		for _, v := range f.Indices() {
			if int(v) >= verticesCount {
				return nil, errors.Wrapf(common.ErrMalformedRecord, "face %d vertex %d out of %d", iFace, v, verticesCount)
			}
		}
		v := f.Vertices
		indices = append(indices, uint32(v[0]), uint32(v[1]), uint32(v[2]))
		if f.IsQuad() {
			indices = append(indices, uint32(v[0]), uint32(v[2]), uint32(v[3]))
		}
	}

	doc := gltf.NewDocument()
	attributes := make(map[string]uint32)

	{
		positions := make([][3]float32, verticesCount)
		for iVertex, pos := range l.Positions {
			positions[iVertex] = pos.Add(s.LodCenter)
		}
		attributes["POSITION"] = modeler.WritePosition(doc, positions)
	}

	if len(l.Normals) == verticesCount && verticesCount != 0 {
		normals := make([][3]float32, verticesCount)
		for iVertex, normal := range l.Normals {
			if normal.Len() > 0.5 {
				normal = normal.Normalize()
			}
			normals[iVertex] = normal
		}
		attributes["NORMAL"] = modeler.WriteNormal(doc, normals)
	}

	if len(l.Uvs) == verticesCount && verticesCount != 0 {
		uvs := make([][2]float32, verticesCount)
		for iVertex, uv := range l.Uvs {
			uvs[iVertex] = uv
		}
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, uvs)
	}

	indicesAccessor := modeler.WriteIndices(doc, indices)

	name := fmt.Sprintf("lod%d_%s", iLod, s.Resolution(iLod).Name())
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "default",
		DoubleSided: true,
	})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{
			&gltf.Primitive{
				Indices:    &indicesAccessor,
				Attributes: attributes,
				Material:   gltf.Index(0),
			},
		},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: name,
		Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
	})

	return doc, nil
}
