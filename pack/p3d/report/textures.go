package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mogaika/odol2mlod/pack/p3d"
)

// LodTextures is the texture list of one lod, or of the whole model when Lod is empty.
type LodTextures struct {
	Lod      string
	Textures []string
}

// Textures returns the model textures. With perLod every lod gets its own entry,
// lods without textures are left out.
func Textures(m *p3d.Model, perLod bool) []LodTextures {
	if !perLod {
		return []LodTextures{{Textures: m.TextureNames()}}
	}

	var names [][]string
	var lods []string
	switch {
	case m.ODOL != nil:
		for i, l := range m.ODOL.Lods {
			lods = append(lods, m.ODOL.Resolution(i).Name())
			names = append(names, l.UsedTextureNames())
		}
	case m.MLOD != nil:
		for _, l := range m.MLOD.Lods {
			lods = append(lods, l.Resolution.Name())
			names = append(names, l.TextureNames())
		}
	}

	r := make([]LodTextures, 0, len(lods))
	for i := range lods {
		if len(names[i]) != 0 {
			r = append(r, LodTextures{Lod: lods[i], Textures: names[i]})
		}
	}
	return r
}

// WriteTextures prints the file name and the texture lists, lods prefixed with "LOD: ".
func WriteTextures(w io.Writer, file string, lists []LodTextures) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", file); err != nil {
		return err
	}
	for _, l := range lists {
		indent := ""
		if l.Lod != "" {
			indent = "\t"
			if _, err := fmt.Fprintf(w, "LOD: %s\n", l.Lod); err != nil {
				return err
			}
		}
		for _, t := range l.Textures {
			if _, err := fmt.Fprintf(w, "%s%s\n", indent, t); err != nil {
				return err
			}
		}
	}
	return nil
}

// TextureSet collects texture names case-insensitively, keeping the first spelling.
type TextureSet struct {
	seen  map[string]struct{}
	names []string
}

func (ts *TextureSet) Add(names ...string) {
	if ts.seen == nil {
		ts.seen = make(map[string]struct{})
	}
	for _, n := range names {
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, ok := ts.seen[key]; ok {
			continue
		}
		ts.seen[key] = struct{}{}
		ts.names = append(ts.names, n)
	}
}

func (ts *TextureSet) Names() []string {
	return ts.names
}

func (ts *TextureSet) Len() int {
	return len(ts.names)
}
