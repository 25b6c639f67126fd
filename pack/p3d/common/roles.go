package common

import "github.com/pkg/errors"

type Role int

const (
	RoleMemory Role = iota
	RoleGeometry
	RoleGeometryFire
	RoleGeometryView
	RoleViewPilot
	RoleViewGunner
	RoleViewCommander
	RoleViewCargo
	RoleLandContact
	RoleRoadway
	RolePaths
	RoleHitPoints
	RoleCount
)

var roleNames = [RoleCount]string{
	"memory", "geometry", "geometry fire", "geometry view",
	"view pilot", "view gunner", "view commander", "view cargo",
	"land contact", "roadway", "paths", "hitpoints",
}

func (r Role) String() string {
	if r < 0 || r >= RoleCount {
		return "unknown"
	}
	return roleNames[r]
}

// RoleIndices holds the LOD index serving every functional role, -1 when there is none.
type RoleIndices [RoleCount]int8

func NoRoles() RoleIndices {
	var ri RoleIndices
	for i := range ri {
		ri[i] = -1
	}
	return ri
}

func (ri RoleIndices) Get(r Role) int {
	return int(ri[r])
}

// Validate checks that every index is -1 or addresses one of lodCount LODs.
func (ri RoleIndices) Validate(lodCount int) error {
	for i, idx := range ri {
		if idx < -1 || int(idx) >= lodCount {
			return errors.Wrapf(ErrMalformedRecord, "%v lod index %d out of %d lods", Role(i), idx, lodCount)
		}
	}
	return nil
}

// Map returns the role names with their LOD indices.
func (ri RoleIndices) Map() map[string]int {
	m := make(map[string]int, RoleCount)
	for i, idx := range ri {
		m[Role(i).String()] = int(idx)
	}
	return m
}
