package gltfutils

import (
	"io"

	"github.com/qmuntal/gltf"
)

// ExportBinary adds every root node to the default scene and writes the document as glb.
func ExportBinary(w io.Writer, doc *gltf.Document) error {
	if len(doc.Scenes) == 0 {
		doc.Scenes = append(doc.Scenes, &gltf.Scene{})
		doc.Scene = gltf.Index(0)
	}
	children := make(map[uint32]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			children[c] = true
		}
	}
	scene := doc.Scenes[0]
	for iNode := range doc.Nodes {
		if !children[uint32(iNode)] {
			scene.Nodes = append(scene.Nodes, uint32(iNode))
		}
	}

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
