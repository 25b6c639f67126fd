package lzss

type ChecksumKind int

const (
	// ChecksumUnsigned sums decoded bytes as unsigned values (ODOL)
	ChecksumUnsigned ChecksumKind = iota
	// ChecksumSigned sums decoded bytes as signed values
	ChecksumSigned
)

type Options struct {
	Checksum       ChecksumKind
	VerifyChecksum bool
}

// DefaultOptions returns the settings used by model files: unsigned checksum, verified.
func DefaultOptions() *Options {
	return &Options{Checksum: ChecksumUnsigned, VerifyChecksum: true}
}
