package common

import (
	"fmt"
	"unicode"
)

// Little-endian four character codes
const (
	SignatureMLOD uint32 = 0x444F4C4D
	SignatureODOL uint32 = 0x4C4F444F
	SignatureSP3X uint32 = 0x58335053
	SignatureTAGG uint32 = 0x47474154
)

// FormatSignature prints a four character code as text, or as hex when it is not printable.
func FormatSignature(sig uint32) string {
	var name [4]byte
	for i := range name {
		c := byte(sig >> (8 * uint(i)))
		if c > unicode.MaxASCII || !unicode.IsGraphic(rune(c)) || c == ' ' {
			return fmt.Sprintf("0x%x", sig)
		}
		name[i] = c
	}
	return string(name[:])
}
