package odol

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/odol2mlod/pack/p3d/common"
	"github.com/mogaika/odol2mlod/pack/p3d/lzss"
	"github.com/mogaika/odol2mlod/utils"
)

const (
	// Arrays smaller than this are stored without compression
	CompressionThreshold = 1024

	maxArrayBytes  = 256 << 20
	maxPreallocate = 1 << 16
)

// readCompressed reads the count prefixed payload of a compressed array.
func readCompressed(sr *utils.StreamReader, elemSize int) ([]byte, uint32, error) {
	count := sr.LU32()
	if err := sr.Err(); err != nil {
		return nil, 0, err
	}
	size := uint64(count) * uint64(elemSize)
	if size > maxArrayBytes {
		return nil, 0, errors.Wrapf(common.ErrMalformedRecord, "compressed array of %d elements is too large", count)
	}

	raw := make([]byte, size)
	if size < CompressionThreshold {
		sr.ReadFull(raw)
		return raw, count, sr.Err()
	}
	if err := lzss.Decompress(sr, raw, lzss.DefaultOptions()); err != nil {
		if sr.Err() != nil {
			return nil, 0, sr.Err()
		}
		return nil, 0, errors.Wrapf(err, "compressed array of %d elements at 0x%x", count, sr.Pos())
	}
	return raw, count, nil
}

func readCompressedU32s(sr *utils.StreamReader) ([]uint32, error) {
	raw, count, err := readCompressed(sr, 4)
	if err != nil {
		return nil, err
	}
	r := make([]uint32, count)
	for i := range r {
		r[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return r, nil
}

func readCompressedU16s(sr *utils.StreamReader) ([]uint16, error) {
	raw, count, err := readCompressed(sr, 2)
	if err != nil {
		return nil, err
	}
	r := make([]uint16, count)
	for i := range r {
		r[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return r, nil
}

func readCompressedU8s(sr *utils.StreamReader) ([]uint8, error) {
	raw, _, err := readCompressed(sr, 1)
	return raw, err
}

func readCompressedFloats(sr *utils.StreamReader) ([]float32, error) {
	raw, count, err := readCompressed(sr, 4)
	if err != nil {
		return nil, err
	}
	r := make([]float32, count)
	for i := range r {
		r[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return r, nil
}

func readCompressedVec2s(sr *utils.StreamReader) ([]mgl32.Vec2, error) {
	raw, count, err := readCompressed(sr, 8)
	if err != nil {
		return nil, err
	}
	r := make([]mgl32.Vec2, count)
	for i := range r {
		r[i][0] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*8:]))
		r[i][1] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*8+4:]))
	}
	return r, nil
}

func preallocate(count uint32) int {
	if count > maxPreallocate {
		return maxPreallocate
	}
	return int(count)
}

func readVec3s(sr *utils.StreamReader) []mgl32.Vec3 {
	count := sr.LU32()
	r := make([]mgl32.Vec3, 0, preallocate(count))
	for i := uint32(0); i < count && sr.Err() == nil; i++ {
		r = append(r, sr.Vec3())
	}
	return r
}

func readZStrings(sr *utils.StreamReader) []string {
	count := sr.LU32()
	r := make([]string, 0, preallocate(count))
	for i := uint32(0); i < count && sr.Err() == nil; i++ {
		r = append(r, sr.ZString())
	}
	return r
}

func writeCompressed(sw *utils.StreamWriter, count int, raw []byte) {
	sw.WriteLU32(uint32(count))
	if len(raw) < CompressionThreshold {
		sw.WriteBytes(raw)
	} else {
		sw.WriteBytes(lzss.Compress(raw))
	}
}

func writeCompressedU32s(sw *utils.StreamWriter, vs []uint32) {
	raw := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(raw[i*4:], v)
	}
	writeCompressed(sw, len(vs), raw)
}

func writeCompressedU16s(sw *utils.StreamWriter, vs []uint16) {
	raw := make([]byte, len(vs)*2)
	for i, v := range vs {
		binary.LittleEndian.PutUint16(raw[i*2:], v)
	}
	writeCompressed(sw, len(vs), raw)
}

func writeCompressedU8s(sw *utils.StreamWriter, vs []uint8) {
	writeCompressed(sw, len(vs), vs)
}

func writeCompressedFloats(sw *utils.StreamWriter, vs []float32) {
	raw := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	writeCompressed(sw, len(vs), raw)
}

func writeCompressedVec2s(sw *utils.StreamWriter, vs []mgl32.Vec2) {
	raw := make([]byte, len(vs)*8)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(raw[i*8:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(raw[i*8+4:], math.Float32bits(v[1]))
	}
	writeCompressed(sw, len(vs), raw)
}

func writeVec3s(sw *utils.StreamWriter, vs []mgl32.Vec3) {
	sw.WriteLU32(uint32(len(vs)))
	for _, v := range vs {
		sw.WriteVec3(v)
	}
}

func writeZStrings(sw *utils.StreamWriter, ss []string) {
	sw.WriteLU32(uint32(len(ss)))
	for _, s := range ss {
		sw.WriteZString(s)
	}
}
