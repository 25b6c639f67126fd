package convert

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/odol2mlod/config"
	"github.com/mogaika/odol2mlod/pack/p3d/common"
	"github.com/mogaika/odol2mlod/pack/p3d/mlod"
	"github.com/mogaika/odol2mlod/pack/p3d/odol"
)

type Options struct {
	Merge         config.MergePolicy
	OnlyUserValue bool
}

func OptionsFromConfig(o *config.Options) Options {
	return Options{Merge: o.Merge, OnlyUserValue: o.OnlyUserValue}
}

// Face slot order of the mlod face for source vertices v0..v3
var (
	triangleSlots = []int{1, 0, 2}
	quadSlots     = []int{1, 0, 3, 2}
)

// Convert writes s as an mlod model. Every lod is converted before the first byte is written.
func Convert(w io.Writer, s *odol.Shape, opts Options) error {
	lods := make([]*mlod.Lod, len(s.Lods))
	for i := range s.Lods {
		l, err := ConvertLod(s, i, opts)
		if err != nil {
			return errors.Wrapf(err, "lod %d (%s)", i, s.Resolution(i).Name())
		}
		lods[i] = l
	}

	e := mlod.NewEncoder(w)
	if err := e.WriteHeader(mlod.Version, len(lods)); err != nil {
		return err
	}
	for _, l := range lods {
		if err := e.WriteLod(l); err != nil {
			return err
		}
	}
	return nil
}

type lodConverter struct {
	shape *odol.Shape
	lod   *odol.Lod
	index int
	merge bool
	opts  Options

	pointsCount int
}

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(common.ErrMalformedRecord, format, args...)
}

// ConvertLod builds the mlod representation of lod i of s.
func ConvertLod(s *odol.Shape, i int, opts Options) (*mlod.Lod, error) {
	if i < 0 || i >= len(s.Lods) {
		return nil, errors.Errorf("lod %d out of range [0:%d)", i, len(s.Lods))
	}
	res := s.Resolution(i)
	lc := &lodConverter{
		shape: s,
		lod:   s.Lods[i],
		index: i,
		merge: opts.Merge.ShouldMerge(res.Float()),
		opts:  opts,
	}

	out := &mlod.Lod{
		MajorVersion: mlod.LodMajorVersion,
		MinorVersion: mlod.LodMinorVersion,
		Resolution:   res,
	}

	var err error
	if out.Points, err = lc.points(); err != nil {
		return nil, err
	}
	lc.pointsCount = len(out.Points)
	if out.Normals, out.Faces, err = lc.faces(); err != nil {
		return nil, err
	}
	if out.Tags, err = lc.tags(); err != nil {
		return nil, err
	}
	return out, nil
}

func (lc *lodConverter) point(v uint16) (mlod.Point, error) {
	l := lc.lod
	if int(v) >= len(l.Positions) {
		return mlod.Point{}, malformed("vertex %d out of %d positions", v, len(l.Positions))
	}
	var flags uint32
	if int(v) < len(l.Flags) {
		flags = l.Flags[v]
	}
	return mlod.Point{
		Position: l.Positions[v].Add(lc.shape.LodCenter),
		Flags:    PointFlags(flags, lc.opts.OnlyUserValue),
	}, nil
}

func (lc *lodConverter) points() ([]mlod.Point, error) {
	l := lc.lod
	var vertices []uint16
	if lc.merge {
		vertices = l.PointToVertices
	} else {
		vertices = make([]uint16, len(l.Positions))
		for i := range vertices {
			vertices[i] = uint16(i)
		}
	}

	points := make([]mlod.Point, len(vertices))
	for i, v := range vertices {
		p, err := lc.point(v)
		if err != nil {
			return nil, errors.Wrapf(err, "point %d", i)
		}
		points[i] = p
	}
	return points, nil
}

// pointIndex maps a source vertex to an output point.
func (lc *lodConverter) pointIndex(v uint16) (int, error) {
	idx := int(v)
	if lc.merge {
		p, ok := lc.lod.VertexToPoint(v)
		if !ok {
			return 0, malformed("vertex %d has no point, %d in table", v, len(lc.lod.VertexToPoints))
		}
		idx = int(p)
	}
	if idx >= lc.pointsCount {
		return 0, malformed("point %d out of %d", idx, lc.pointsCount)
	}
	return idx, nil
}

func (lc *lodConverter) faces() ([]mgl32.Vec3, []mlod.Face, error) {
	l := lc.lod

	normalsCount := 0
	for i := range l.Faces {
		normalsCount += int(l.Faces[i].Count)
	}

	// Normals are written per face corner in source order, while slots take
	// increasing normal indices in output order.
	normals := make([]mgl32.Vec3, 0, normalsCount)
	faces := make([]mlod.Face, len(l.Faces))
	for iFace := range l.Faces {
		src := &l.Faces[iFace]
		for _, v := range src.Indices() {
			if int(v) >= len(l.Normals) {
				return nil, nil, malformed("face %d vertex %d out of %d normals", iFace, v, len(l.Normals))
			}
			normals = append(normals, l.Normals[v])
		}

		f := &faces[iFace]
		if int(src.Texture) < len(l.Textures) {
			f.Texture = l.Textures[src.Texture]
		}
		f.Type = int32(src.Count)
		f.Flags = FaceFlags(src.Flags)

		slots := triangleSlots
		if src.IsQuad() {
			slots = quadSlots
		}
		base := len(normals) - len(slots)
		for k, corner := range slots {
			v := src.Vertices[corner]
			p, err := lc.pointIndex(v)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "face %d", iFace)
			}
			var uv mgl32.Vec2
			if int(v) < len(l.Uvs) {
				uv = l.Uvs[v]
			}
			f.Vertices[k] = mlod.FaceVertex{
				Point:  int32(p),
				Normal: int32(base + k),
				U:      uv[0],
				V:      uv[1],
			}
		}
	}
	return normals, faces, nil
}

func (lc *lodConverter) selection(ns *odol.NamedSection) (*mlod.SelectionTag, error) {
	t := &mlod.SelectionTag{
		Name:   ns.Name,
		Points: make([]uint8, lc.pointsCount),
		Faces:  make([]uint8, len(lc.lod.Faces)),
	}

	if len(ns.VertexWeights) == 0 {
		for _, v := range ns.VertexIndices {
			p, err := lc.pointIndex(v)
			if err != nil {
				return nil, err
			}
			t.Points[p] = 0x01
		}
	} else {
		for i, w := range ns.VertexWeights {
			if i >= len(ns.VertexIndices) {
				break
			}
			p, err := lc.pointIndex(ns.VertexIndices[i])
			if err != nil {
				return nil, err
			}
			// weights are stored negated
			t.Points[p] = -w
		}
	}

	for _, f := range ns.FaceIndices {
		if int(f) >= len(t.Faces) {
			return nil, malformed("face %d out of %d", f, len(t.Faces))
		}
		t.Faces[f] = 1
	}
	return t, nil
}

func (lc *lodConverter) masses() ([]float32, error) {
	s, l := lc.shape, lc.lod
	if lc.merge || len(s.Masses) == len(l.Positions) {
		return s.Masses, nil
	}

	// spread the mass of every point over the vertices sharing it
	counts := make([]float32, len(l.PointToVertices))
	for _, p := range l.VertexToPoints {
		if int(p) >= len(counts) {
			return nil, malformed("vertex point %d out of %d", p, len(counts))
		}
		counts[p]++
	}
	masses := make([]float32, len(l.Positions))
	for v := range masses {
		p, ok := l.VertexToPoint(uint16(v))
		if !ok {
			return nil, malformed("vertex %d has no point, %d in table", v, len(l.VertexToPoints))
		}
		if int(p) >= len(s.Masses) {
			return nil, malformed("point %d out of %d masses", p, len(s.Masses))
		}
		masses[v] = s.Masses[p] / counts[p]
	}
	return masses, nil
}

func (lc *lodConverter) tags() ([]mlod.Tag, error) {
	s, l := lc.shape, lc.lod
	var tags []mlod.Tag

	for i := range l.NamedSections {
		t, err := lc.selection(&l.NamedSections[i])
		if err != nil {
			return nil, errors.Wrapf(err, "named section %q", l.NamedSections[i].Name)
		}
		tags = append(tags, t)
	}

	for _, p := range l.Properties {
		tags = append(tags, &mlod.PropertyTag{Name: p.Name, Value: p.Value})
	}

	if lc.index == s.RoleLod(common.RoleGeometry) && len(s.Masses) != 0 {
		masses, err := lc.masses()
		if err != nil {
			return nil, errors.Wrap(err, "masses")
		}
		tags = append(tags, &mlod.MassTag{Masses: masses})
	}

	for _, ap := range l.AnimationPhases {
		tags = append(tags, &mlod.AnimationTag{Time: ap.Time, Points: ap.Points})
	}
	return tags, nil
}
