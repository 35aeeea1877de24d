package util

import (
	"fmt"
	"strings"
)

var sizeUnits = []string{"B", "kB", "MB", "GB", "TB"}

// ByteSize formats a size in bytes as a short human-readable string,
// e.g. 1536 -> "1.5 kB". Decimal units, one fractional digit.
func ByteSize(n int64) string {
	size := float64(n)

	i := 0
	for size >= 1000 && i < len(sizeUnits)-1 {
		size /= 1000
		i++
	}

	if i == 0 {
		return fmt.Sprintf("%d B", n)
	}

	s := fmt.Sprintf("%.1f", size)
	s = strings.TrimSuffix(s, ".0")

	return s + " " + sizeUnits[i]
}
