package filetype

import (
	"fmt"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// scale returns size expressed in the largest 1024-based unit not exceeding it.
func scale(size int64) (float64, string) {
	v := float64(size)
	if v < 0 {
		v = 0
	}
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return v, sizeUnits[i]
}

// FormatSize renders size with up to two decimals and trailing zeros
// stripped: 0 -> "0 Bytes", 1536 -> "1.5 KB", 2048 -> "2 KB".
func FormatSize(size int64) string {
	v, unit := scale(size)
	return humanize.FtoaWithDigits(v, 2) + " " + unit
}

// FormatSizeFixed renders size with exactly two decimals for scaled units:
// 2048 -> "2.00 KB". Sizes under 1 KB are whole bytes ("512 Bytes").
func FormatSizeFixed(size int64) string {
	v, unit := scale(size)
	if unit == sizeUnits[0] {
		return fmt.Sprintf("%d %s", int64(v), unit)
	}
	return fmt.Sprintf("%.2f %s", v, unit)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func lowerBase(p string) string {
	return strings.ToLower(path.Base(p))
}
