package common

import (
	"fmt"
	"math"
)

// Resolution is the raw 32-bit LOD distance. It is either one of the
// functional role codes below or the float visibility distance of a graphical LOD.
type Resolution uint32

const (
	ResViewGunner                Resolution = 0x447a0000
	ResViewPilot                 Resolution = 0x44898000
	ResViewCargo                 Resolution = 0x44960000
	ResGeometry                  Resolution = 0x551184e7
	ResMemory                    Resolution = 0x58635fa9
	ResLandContact               Resolution = 0x58e35fa9
	ResRoadway                   Resolution = 0x592a87bf
	ResPaths                     Resolution = 0x59635fa9
	ResHitPoints                 Resolution = 0x598e1bca
	ResViewGeometry              Resolution = 0x59aa87bf
	ResFireGeometry              Resolution = 0x59c6f3b4
	ResViewCargoGeometry         Resolution = 0x59e35fa9
	ResViewCargoFireGeometry     Resolution = 0x59ffcb9e
	ResViewCommander             Resolution = 0x5a0e1bca
	ResViewCommanderGeometry     Resolution = 0x5a1c51c4
	ResViewCommanderFireGeometry Resolution = 0x5a2a87bf
	ResViewPilotGeometry         Resolution = 0x5a38bdb9
	ResViewPilotFireGeometry     Resolution = 0x5a46f3b4
	ResViewGunnerGeometry        Resolution = 0x5a5529af
	ResViewGunnerFireGeometry    Resolution = 0x5a635fa9
)

var resolutionNames = map[Resolution]string{
	ResViewGunner:                "View - Gunner",
	ResViewPilot:                 "View - Pilot",
	ResViewCargo:                 "View - Cargo",
	ResGeometry:                  "Geometry",
	ResMemory:                    "Memory",
	ResLandContact:               "LandContact",
	ResRoadway:                   "RoadWay",
	ResPaths:                     "Paths",
	ResHitPoints:                 "Hit-points",
	ResViewGeometry:              "View Geometry",
	ResFireGeometry:              "Fire Geometry",
	ResViewCargoGeometry:         "View - Cargo - Geometry",
	ResViewCargoFireGeometry:     "View - Cargo - Fire Geometry",
	ResViewCommander:             "View - Commander",
	ResViewCommanderGeometry:     "View - Commander - Geometry",
	ResViewCommanderFireGeometry: "View - Commander - Fire Geometry",
	ResViewPilotGeometry:         "View - Pilot - Geometry",
	ResViewPilotFireGeometry:     "View - Pilot - Fire Geometry",
	ResViewGunnerGeometry:        "View - Gunner - Geometry",
	ResViewGunnerFireGeometry:    "View - Gunner - Fire Geometry",
}

func ResolutionFromFloat(f float32) Resolution {
	return Resolution(math.Float32bits(f))
}

// Float returns the bit pattern reinterpreted as a visibility distance.
func (r Resolution) Float() float32 {
	return math.Float32frombits(uint32(r))
}

// Role returns the role name when r is one of the functional codes.
func (r Resolution) Role() (string, bool) {
	name, ok := resolutionNames[r]
	return name, ok
}

func (r Resolution) IsFunctional() bool {
	_, ok := resolutionNames[r]
	return ok
}

// Name returns the role name, or the distance printed with six decimals.
func (r Resolution) Name() string {
	if name, ok := resolutionNames[r]; ok {
		return name
	}
	return fmt.Sprintf("%f", r.Float())
}

func (r Resolution) String() string {
	return r.Name()
}

func (r Resolution) MarshalText() ([]byte, error) {
	return []byte(r.Name()), nil
}
