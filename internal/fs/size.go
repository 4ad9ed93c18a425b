package fs

import (
	"fmt"
	"strconv"
)

const sizeUnits = "KMGTPE"

// HumanSize formats a byte count the way `ls -h` does: 512B, 4.0K, 12M.
func HumanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	if n < 1024 {
		return strconv.FormatInt(n, 10) + "B"
	}
	value := float64(n)
	unit := -1
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	if value < 10 {
		return fmt.Sprintf("%.1f%c", value, sizeUnits[unit])
	}
	return fmt.Sprintf("%.0f%c", value, sizeUnits[unit])
}

func formatCount(n int) string {
	return strconv.Itoa(n)
}
