package odol

import (
	"strings"

	"github.com/mogaika/odol2mlod/pack/p3d/common"
)

// Resolution returns the stored distance of lod i, zero when it is missing.
func (s *Shape) Resolution(i int) common.Resolution {
	if i < 0 || i >= len(s.Resolutions) {
		return 0
	}
	return s.Resolutions[i]
}

// UsedTextureNames returns non empty texture names of the lod, case-insensitively unique, in table order.
func (l *Lod) UsedTextureNames() []string {
	return appendUnique(nil, map[string]struct{}{}, l.Textures)
}

// TextureNames collects the textures of all lods.
func (s *Shape) TextureNames() []string {
	seen := map[string]struct{}{}
	var r []string
	for _, l := range s.Lods {
		r = appendUnique(r, seen, l.Textures)
	}
	return r
}

func appendUnique(dst []string, seen map[string]struct{}, names []string) []string {
	for _, name := range names {
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, name)
	}
	return dst
}
