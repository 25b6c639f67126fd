package lzss

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	// MinMatch and MaxMatch bound the length of a back-reference.
	MinMatch = 3
	MaxMatch = 0x0f + MinMatch
	// WindowSize is the largest distance a back-reference can encode.
	WindowSize = 0xfff

	spaceFill = 0x20
)

type checksum struct {
	sum    uint32
	signed bool
}

func (c *checksum) add(b byte) {
	if c.signed {
		c.sum += uint32(int32(int8(b)))
	} else {
		c.sum += uint32(b)
	}
}

func readByte(r io.ByteReader) (byte, error) {
	b, err := r.ReadByte()
	if err == io.EOF {
		return 0, ErrUnexpectedEOF
	} else if err != nil {
		return 0, errors.Wrap(err, "lzss")
	}
	return b, nil
}

// Decompress fills dst completely from r and then reads the trailing 32-bit checksum.
// Back-references pointing before the start of the output produce spaces.
func Decompress(r io.ByteReader, dst []byte, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	cs := checksum{signed: opts.Checksum == ChecksumSigned}

	outPos := 0
	var flags uint32
	for outPos < len(dst) {
		flags >>= 1
		if flags&0x100 == 0 {
			b, err := readByte(r)
			if err != nil {
				return err
			}
			flags = uint32(b) | 0xff00
		}

		if flags&1 != 0 {
			b, err := readByte(r)
			if err != nil {
				return err
			}
			cs.add(b)
			dst[outPos] = b
			outPos++
			continue
		}

		b0, err := readByte(r)
		if err != nil {
			return err
		}
		b1, err := readByte(r)
		if err != nil {
			return err
		}
		distance := int(b0) | int(b1&0xf0)<<4
		length := int(b1&0x0f) + MinMatch

		for distance > outPos && length != 0 && outPos < len(dst) {
			cs.add(spaceFill)
			dst[outPos] = spaceFill
			outPos++
			length--
		}

		// byte by byte, source may overlap the bytes being written
		from := outPos - distance
		for ; length != 0 && outPos < len(dst); length-- {
			b := dst[from]
			cs.add(b)
			dst[outPos] = b
			outPos++
			from++
		}
	}

	var raw [4]byte
	for i := range raw {
		b, err := readByte(r)
		if err != nil {
			return err
		}
		raw[i] = b
	}
	if stored := binary.LittleEndian.Uint32(raw[:]); opts.VerifyChecksum && stored != cs.sum {
		return errors.Wrapf(ErrChecksumMismatch, "stored 0x%.8x, calculated 0x%.8x", stored, cs.sum)
	}
	return nil
}
