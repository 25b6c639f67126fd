package lzss

import "encoding/binary"

const (
	hashBits     = 12
	maxChainSize = 64
)

func hash3(b []byte) uint32 {
	return (uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])) * 2654435761 >> (32 - hashBits)
}

// Compress encodes src with greedy matching and appends the unsigned checksum.
func Compress(src []byte) []byte {
	out := make([]byte, 0, len(src)+len(src)/8+8)

	head := make([]int, 1<<hashBits)
	for i := range head {
		head[i] = -1
	}
	prev := make([]int, len(src))

	insert := func(pos int) {
		if pos+MinMatch > len(src) {
			return
		}
		h := hash3(src[pos:])
		prev[pos] = head[h]
		head[h] = pos
	}

	var sum uint32
	flagPos := -1
	bit := uint(8)

	for pos := 0; pos < len(src); {
		if bit == 8 {
			flagPos = len(out)
			out = append(out, 0)
			bit = 0
		}

		bestLen, bestDist := 0, 0
		if pos+MinMatch <= len(src) {
			maxLen := len(src) - pos
			if maxLen > MaxMatch {
				maxLen = MaxMatch
			}
			cand := head[hash3(src[pos:])]
			for chain := 0; cand >= 0 && chain < maxChainSize; chain++ {
				dist := pos - cand
				if dist > WindowSize {
					break
				}
				l := 0
				for l < maxLen && src[cand+l] == src[pos+l] {
					l++
				}
				if l > bestLen {
					bestLen, bestDist = l, dist
					if l == maxLen {
						break
					}
				}
				cand = prev[cand]
			}
		}

		if bestLen >= MinMatch {
			out = append(out, byte(bestDist), byte(bestDist>>4)&0xf0|byte(bestLen-MinMatch))
			for i := 0; i < bestLen; i++ {
				sum += uint32(src[pos])
				insert(pos)
				pos++
			}
		} else {
			out[flagPos] |= 1 << bit
			out = append(out, src[pos])
			sum += uint32(src[pos])
			insert(pos)
			pos++
		}
		bit++
	}

	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], sum)
	return append(out, raw[:]...)
}
