package utils

import (
	"bytes"

	"github.com/mogaika/odol2mlod/config"

	"golang.org/x/text/transform"
)

func BytesToString(bs []byte) string {
	n := bytes.IndexByte(bs, 0)
	if n < 0 {
		n = len(bs)
	}

	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs[0:n])
	if err != nil {
		panic(err)
	}

	return string(s)
}

func BytesStringLength(bs []byte) int {
	if l := bytes.IndexByte(bs, 0); l == -1 {
		return len(bs)
	} else {
		return l
	}
}

func StringToBytes(s string, nilTerminate bool) []byte {
	bs, _, err := transform.Bytes(config.GetEncoding().NewEncoder(), []byte(s))
	if err != nil {
		// characters outside of the code page are written as is
		bs = []byte(s)
	}

	if nilTerminate {
		bs = append(bs, 0)
	}
	return bs
}

// StringToFixedBytes encodes s into a zero filled buffer of bufSize bytes,
// cutting it to bufSize-1 bytes so at least one terminating zero remains.
func StringToFixedBytes(s string, bufSize int) []byte {
	r := make([]byte, bufSize)
	if bufSize == 0 {
		return r
	}
	bs := StringToBytes(s, false)
	if len(bs) >= bufSize {
		bs = bs[:bufSize-1]
	}
	copy(r, bs)
	return r
}
