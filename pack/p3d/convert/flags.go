package convert

// Point light modes, stored in the top 12 bits of odol vertex flags
var pointLightModes = []struct {
	odol uint32
	mlod uint32
}{
	{0xC8, 0x10}, // shining
	{0xC9, 0x20}, // always in shadow
	{0xCA, 0x80}, // half lighted
	{0xCB, 0x40}, // fully lighted
}

// PointFlags converts odol vertex flags to mlod point flags.
func PointFlags(flags uint32, onlyUserValue bool) uint32 {
	var r uint32

	if !onlyUserValue {
		for _, mode := range pointLightModes {
			if flags>>20 == mode.odol {
				r |= mode.mlod
				break
			}
		}
	}

	if r == 0 {
		r |= (flags >> 4) & 0xFF0000 // user value
	}

	r |= (flags >> 8) & 0xF    // surface
	r |= (flags >> 4) & 0x300  // decal
	r |= (flags >> 2) & 0x3000 // fog
	return r
}

const zBiasMask = 0xC000000

var faceFlagMap = []struct {
	odol uint32
	mlod uint32
}{
	{0x40, 0x8},
	{0x20, 0x10},            // no shadow
	{0x20000000, 0x1000000}, // texture merging off
}

// Z bias levels are a two bit field, compared as a whole
var zBiasMap = []struct {
	odol uint32
	mlod uint32
}{
	{0x4000000, 0x100}, // low
	{0x8000000, 0x200}, // middle
	{0xC000000, 0x300}, // high
}

// FaceFlags converts odol face flags to mlod face flags.
func FaceFlags(flags uint32) uint32 {
	var r uint32
	for _, m := range faceFlagMap {
		if flags&m.odol != 0 {
			r |= m.mlod
		}
	}
	for _, m := range zBiasMap {
		if flags&zBiasMask == m.odol {
			r |= m.mlod
		}
	}
	return r
}
