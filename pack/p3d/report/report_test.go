package report

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/odol2mlod/pack/p3d"
	"github.com/mogaika/odol2mlod/pack/p3d/common"
	"github.com/mogaika/odol2mlod/pack/p3d/mlod"
	"github.com/mogaika/odol2mlod/pack/p3d/odol"
)

func odolShape() *odol.Shape {
	lod := func(textures ...string) *odol.Lod {
		return &odol.Lod{
			Textures:      textures,
			Positions:     []mgl32.Vec3{{}, {}, {}},
			Faces:         []odol.Face{{Count: 3}},
			NamedSections: []odol.NamedSection{{Name: "door"}},
			Properties:    []odol.Property{{Name: "class", Value: "house"}},
		}
	}
	roles := common.NoRoles()
	roles[common.RoleGeometry] = 1
	return &odol.Shape{
		Version: 7,
		Lods:    []*odol.Lod{lod("a.paa", "B.paa"), lod("b.paa", "", "c.paa")},
		Resolutions: []common.Resolution{
			common.ResolutionFromFloat(1),
			common.ResGeometry,
		},
		Masses: []float32{1, 2, 3.5},
		Mass:   6.5,
		Roles:  roles,
	}
}

func mlodShape() *mlod.Shape {
	return &mlod.Shape{
		Version:  mlod.Version,
		LodCount: 1,
		Lods: []*mlod.Lod{{
			Points: []mlod.Point{{}, {}, {}},
			Faces:  []mlod.Face{{Texture: "x.paa", Type: 3}, {Texture: "X.PAA", Type: 3}},
			Tags: []mlod.Tag{
				&mlod.PropertyTag{Name: "map", Value: "tree"},
				&mlod.MassTag{Masses: []float32{1, 1, 1}},
				&mlod.SelectionTag{Name: "wheel", Points: []uint8{1, 0, 0}, Faces: []uint8{1, 0}},
			},
			Resolution: common.ResGeometry,
		}},
		DefaultPath:    "data3d\\",
		HasDefaultPath: true,
	}
}

func TestFromODOL(t *testing.T) {
	r := FromODOL("box.p3d", odolShape())
	if r.Signature != "ODOL" || r.LodCount != 2 || len(r.Lods) != 2 {
		t.Fatalf("bad header %+v", r)
	}
	if r.Lods[0].Name != "1.000000" || r.Lods[1].Name != "Geometry" {
		t.Errorf("lod names %q %q", r.Lods[0].Name, r.Lods[1].Name)
	}
	if r.Lods[0].MassSum != 0 || r.Lods[1].MassSum != 6.5 {
		t.Errorf("mass sums %v %v", r.Lods[0].MassSum, r.Lods[1].MassSum)
	}
	if r.Roles["geometry"] != 1 || r.Roles["memory"] != -1 {
		t.Errorf("roles %v", r.Roles)
	}
	if !reflect.DeepEqual(r.Textures, []string{"a.paa", "B.paa", "c.paa"}) {
		t.Errorf("textures %v", r.Textures)
	}
	if !reflect.DeepEqual(r.Lods[1].Selections, []string{"door"}) {
		t.Errorf("selections %v", r.Lods[1].Selections)
	}
}

func TestFromMLOD(t *testing.T) {
	r := FromMLOD("tree.p3d", mlodShape())
	if r.Signature != "MLOD" || r.DefaultPath != "data3d\\" {
		t.Fatalf("bad header %+v", r)
	}
	l := r.Lods[0]
	if l.Points != 3 || l.Faces != 2 || l.MassSum != 3 {
		t.Errorf("bad lod %+v", l)
	}
	if !reflect.DeepEqual(l.Textures, []string{"x.paa"}) {
		t.Errorf("textures %v", l.Textures)
	}
	if !reflect.DeepEqual(l.Tags, []string{"#Property#", "#Mass#", "wheel"}) {
		t.Errorf("tags %v", l.Tags)
	}
	if !reflect.DeepEqual(l.Properties, []Property{{"map", "tree"}}) {
		t.Errorf("properties %v", l.Properties)
	}
}

func TestWrite(t *testing.T) {
	r := FromMLOD("tree.p3d", mlodShape())

	var buf bytes.Buffer
	if err := r.Write(&buf, false); err != nil {
		t.Fatal(err)
	}
	var back Report
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("report is not yaml: %v\n%s", err, buf.String())
	}
	if back.File != "tree.p3d" || len(back.Lods) != 1 || back.Lods[0].Name != "Geometry" {
		t.Errorf("read back %+v", back)
	}

	var full bytes.Buffer
	if err := r.Write(&full, true); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(full.String(), buf.String()) || !strings.Contains(full.String(), "DefaultPath") {
		t.Errorf("full report has no dump:\n%s", full.String())
	}
}

func TestTextures(t *testing.T) {
	m := &p3d.Model{Signature: common.SignatureODOL, ODOL: odolShape()}

	all := Textures(m, false)
	if len(all) != 1 || all[0].Lod != "" || len(all[0].Textures) != 3 {
		t.Errorf("Textures(false)=%+v", all)
	}

	perLod := Textures(m, true)
	expected := []LodTextures{
		{Lod: "1.000000", Textures: []string{"a.paa", "B.paa"}},
		{Lod: "Geometry", Textures: []string{"b.paa", "c.paa"}},
	}
	if !reflect.DeepEqual(perLod, expected) {
		t.Errorf("Textures(true)=%+v; expected %+v", perLod, expected)
	}

	var buf bytes.Buffer
	if err := WriteTextures(&buf, "box.p3d", perLod); err != nil {
		t.Fatal(err)
	}
	text := "box.p3d\n\nLOD: 1.000000\n\ta.paa\n\tB.paa\nLOD: Geometry\n\tb.paa\n\tc.paa\n"
	if buf.String() != text {
		t.Errorf("WriteTextures=%q; expected %q", buf.String(), text)
	}
}

func TestTextureSet(t *testing.T) {
	var ts TextureSet
	ts.Add("A.paa", "", "a.PAA", "b.paa")
	ts.Add("B.PAA")
	if !reflect.DeepEqual(ts.Names(), []string{"A.paa", "b.paa"}) || ts.Len() != 2 {
		t.Errorf("Names()=%v", ts.Names())
	}
}
