package batch

import (
	"fmt"
	"math"
	"os"
	"time"
)

const (
	kilobyte = 1024
	megabyte = 1024 * 1024
)

// FileInfo formats the modification time (UTC) and size of a file as
// "2006.01.02 15:04:05 - 1536 bytes (2 KB)".
// Sizes are shown in the largest non zero unit, megabytes with two decimals.
func FileInfo(modTime time.Time, size int64) string {
	return fmt.Sprintf("%s - %d bytes (%s)", modTime.UTC().Format("2006.01.02 15:04:05"), size, humanSize(size))
}

func FileInfoOf(fi os.FileInfo) string {
	return FileInfo(fi.ModTime(), fi.Size())
}

func humanSize(size int64) string {
	mb := size / megabyte
	rest := size % megabyte
	kb := rest / kilobyte
	b := rest % kilobyte

	switch {
	case mb != 0:
		return fmt.Sprintf("%.2f MB", float64(mb)+float64(kb)/kilobyte)
	case kb != 0:
		return fmt.Sprintf("%.0f KB", math.Round(float64(kb)+float64(b)/kilobyte))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
