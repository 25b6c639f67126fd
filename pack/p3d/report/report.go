package report

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/odol2mlod/pack/p3d"
	"github.com/mogaika/odol2mlod/pack/p3d/common"
	"github.com/mogaika/odol2mlod/pack/p3d/mlod"
	"github.com/mogaika/odol2mlod/pack/p3d/odol"
	"github.com/mogaika/odol2mlod/utils"
)

type Property struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

type Lod struct {
	Name            string     `yaml:"name" json:"name"`
	Points          int        `yaml:"points" json:"points"`
	Normals         int        `yaml:"normals" json:"normals"`
	Faces           int        `yaml:"faces" json:"faces"`
	Textures        []string   `yaml:"textures,omitempty" json:"textures,omitempty"`
	Sections        int        `yaml:"sections,omitempty" json:"sections,omitempty"`
	Selections      []string   `yaml:"selections,omitempty" json:"selections,omitempty"`
	Properties      []Property `yaml:"properties,omitempty" json:"properties,omitempty"`
	Proxies         []string   `yaml:"proxies,omitempty" json:"proxies,omitempty"`
	AnimationFrames int        `yaml:"animation_frames,omitempty" json:"animation_frames,omitempty"`
	Tags            []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	MassSum         float64    `yaml:"mass_sum,omitempty" json:"mass_sum,omitempty"`
}

// Report is a summary of a decoded model.
type Report struct {
	File        string         `yaml:"file" json:"file"`
	Info        string         `yaml:"info,omitempty" json:"info,omitempty"`
	Signature   string         `yaml:"signature" json:"signature"`
	Version     uint32         `yaml:"version" json:"version"`
	LodCount    int            `yaml:"lod_count" json:"lod_count"`
	DefaultPath string         `yaml:"default_path,omitempty" json:"default_path,omitempty"`
	Mass        float32        `yaml:"mass,omitempty" json:"mass,omitempty"`
	Armor       float32        `yaml:"armor,omitempty" json:"armor,omitempty"`
	Roles       map[string]int `yaml:"roles,omitempty" json:"roles,omitempty"`
	Textures    []string       `yaml:"textures,omitempty" json:"textures,omitempty"`
	Lods        []Lod          `yaml:"lods" json:"lods"`

	model interface{}
}

func sum(vs []float32) float64 {
	var s float64
	for _, v := range vs {
		s += float64(v)
	}
	return s
}

func FromODOL(file string, s *odol.Shape) *Report {
	r := &Report{
		File:      file,
		Signature: common.FormatSignature(common.SignatureODOL),
		Version:   s.Version,
		LodCount:  len(s.Lods),
		Mass:      s.Mass,
		Armor:     s.Armor,
		Roles:     s.Roles.Map(),
		Textures:  s.TextureNames(),
		Lods:      make([]Lod, len(s.Lods)),
		model:     s,
	}

	for i, l := range s.Lods {
		rl := &r.Lods[i]
		rl.Name = s.Resolution(i).Name()
		rl.Points = len(l.Positions)
		rl.Normals = len(l.Normals)
		rl.Faces = len(l.Faces)
		rl.Textures = l.UsedTextureNames()
		rl.Sections = len(l.Sections)
		rl.AnimationFrames = len(l.AnimationPhases)
		for _, ns := range l.NamedSections {
			rl.Selections = append(rl.Selections, ns.Name)
		}
		for _, p := range l.Properties {
			rl.Properties = append(rl.Properties, Property{Name: p.Name, Value: p.Value})
		}
		for _, p := range l.Proxies {
			rl.Proxies = append(rl.Proxies, p.Name)
		}
		if i == s.RoleLod(common.RoleGeometry) {
			rl.MassSum = sum(s.Masses)
		}
	}
	return r
}

func FromMLOD(file string, s *mlod.Shape) *Report {
	r := &Report{
		File:        file,
		Signature:   common.FormatSignature(common.SignatureMLOD),
		Version:     s.Version,
		LodCount:    int(s.LodCount),
		DefaultPath: s.DefaultPath,
		Textures:    s.TextureNames(),
		Lods:        make([]Lod, len(s.Lods)),
		model:       s,
	}

	for i, l := range s.Lods {
		rl := &r.Lods[i]
		rl.Name = l.Resolution.Name()
		rl.Points = len(l.Points)
		rl.Normals = len(l.Normals)
		rl.Faces = len(l.Faces)
		rl.Textures = l.TextureNames()
		rl.AnimationFrames = len(l.Animations())
		rl.Tags = l.TagNames()
		rl.MassSum = sum(l.Masses())
		for _, sel := range l.Selections() {
			rl.Selections = append(rl.Selections, sel.Name)
		}
		for _, p := range l.Properties() {
			rl.Properties = append(rl.Properties, Property{Name: p.Name, Value: p.Value})
		}
	}
	return r
}

func FromModel(file string, m *p3d.Model) *Report {
	if m.ODOL != nil {
		return FromODOL(file, m.ODOL)
	}
	return FromMLOD(file, m.MLOD)
}

// Write prints the yaml summary, followed by a dump of the whole model when full is set.
func (r *Report) Write(w io.Writer, full bool) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return errors.Wrapf(err, "Failed to marshal yaml")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrapf(err, "Failed to close yaml encoder")
	}

	if full && r.model != nil {
		if _, err := fmt.Fprintf(w, "\n%s", utils.SDump(r.model)); err != nil {
			return errors.Wrapf(err, "Failed to write dump")
		}
	}
	return nil
}
