package gltfutils

import (
	"bytes"
	"testing"

	"github.com/qmuntal/gltf"
)

func TestExportBinary(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "root", Children: []uint32{1}}, &gltf.Node{Name: "child"})

	var buf bytes.Buffer
	if err := ExportBinary(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("glTF")) {
		t.Errorf("output is not glb: % x", buf.Bytes()[:4])
	}
	if nodes := doc.Scenes[0].Nodes; len(nodes) != 1 || nodes[0] != 0 {
		t.Errorf("scene nodes %v", nodes)
	}
}
