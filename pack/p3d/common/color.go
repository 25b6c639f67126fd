package common

import (
	"fmt"

	"github.com/mogaika/odol2mlod/utils"
)

// ColorBgra is stored as four bytes in b, g, r, a order.
type ColorBgra struct {
	B, G, R, A uint8
}

func ReadColor(sr *utils.StreamReader) ColorBgra {
	return ColorBgra{B: sr.U8(), G: sr.U8(), R: sr.U8(), A: sr.U8()}
}

func WriteColor(sw *utils.StreamWriter, c ColorBgra) {
	sw.WriteU8(c.B)
	sw.WriteU8(c.G)
	sw.WriteU8(c.R)
	sw.WriteU8(c.A)
}

func (c ColorBgra) String() string {
	return fmt.Sprintf("#%.2x%.2x%.2x%.2x", c.R, c.G, c.B, c.A)
}
