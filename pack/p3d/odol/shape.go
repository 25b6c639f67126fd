package odol

import (
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/odol2mlod/pack/p3d/common"
	"github.com/mogaika/odol2mlod/utils"
)

// Highest lod count accepted before the lod list is read
const maxLods = 1024

func Decode(r io.Reader) (*Shape, error) {
	return DecodeWithLogger(r, nil)
}

// DecodeWithLogger decodes a model starting at its signature and writes a parse trace to log.
func DecodeWithLogger(r io.Reader, log *utils.Logger) (*Shape, error) {
	sr := utils.NewStreamReader(r)

	if sig := sr.LU32(); sr.Err() != nil {
		return nil, sr.Err()
	} else if sig != common.SignatureODOL {
		return nil, errors.Wrapf(common.ErrUnsupportedSignature, "expected ODOL, got %s", common.FormatSignature(sig))
	}

	s, err := decodeShape(sr, log)
	if err != nil {
		return nil, errors.Wrapf(err, "odol at offset 0x%x", sr.Pos())
	}
	return s, nil
}

func decodeShape(sr *utils.StreamReader, log *utils.Logger) (*Shape, error) {
	s := &Shape{}
	s.Version = sr.LU32()
	lodCount := sr.LU32()
	if err := sr.Err(); err != nil {
		return nil, err
	}
	if lodCount > maxLods {
		return nil, errors.Wrapf(common.ErrMalformedRecord, "%d lods", lodCount)
	}
	log.Printf("version %d, %d lods", s.Version, lodCount)

	s.Lods = make([]*Lod, 0, lodCount)
	for i := uint32(0); i < lodCount; i++ {
		log.Printf(" lod %d at 0x%x", i, sr.Pos())
		l, err := readLod(sr, log)
		if err != nil {
			return nil, errors.Wrapf(err, "lod %d", i)
		}
		s.Lods = append(s.Lods, l)
	}

	s.Resolutions = make([]common.Resolution, lodCount)
	for i := range s.Resolutions {
		s.Resolutions[i] = common.Resolution(sr.LU32())
	}

	s.Properties = sr.LU32()
	s.LodSphere = sr.LF()
	s.PhysicsSphere = sr.LF()
	s.Properties2 = sr.LU32()
	s.HintsAnd = sr.LU32()
	s.HintsOr = sr.LU32()

	s.AimPoint = sr.Vec3()
	s.Color = common.ReadColor(sr)
	s.Color2 = common.ReadColor(sr)
	s.Density = sr.LF()

	s.Min = sr.Vec3()
	s.Max = sr.Vec3()
	s.LodCenter = sr.Vec3()
	s.PhysicsCenter = sr.Vec3()
	s.MassCenter = sr.Vec3()
	s.InvInertia = sr.Mat3()

	s.AutoCenter = sr.Bool()
	s.LockAutoCenter = sr.Bool()
	s.CanOcclude = sr.Bool()
	s.CanBeOccluded = sr.Bool()
	s.AllowAnimation = sr.Bool()
	s.MapType = sr.U8()
	if err := sr.Err(); err != nil {
		return nil, err
	}

	var err error
	if s.Masses, err = readCompressedFloats(sr); err != nil {
		return nil, errors.Wrap(err, "masses")
	}
	s.Mass = sr.LF()
	s.InvMass = sr.LF()
	s.Armor = sr.LF()
	s.InvArmor = sr.LF()

	for i := range s.Roles {
		s.Roles[i] = sr.I8()
	}
	if err := sr.Err(); err != nil {
		return nil, err
	}
	if err := s.Roles.Validate(len(s.Lods)); err != nil {
		return nil, err
	}

	for i, res := range s.Resolutions {
		log.Printf(" lod %d: %s", i, res.Name())
	}
	log.Printf("masses: %d, mass %f, roles %v", len(s.Masses), s.Mass, s.Roles)
	return s, nil
}
