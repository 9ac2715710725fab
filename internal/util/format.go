package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders a byte count with a binary unit and one decimal, e.g. "15.6 GB".
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit && exp < len(byteUnits)-2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %s", float64(n)/float64(div), byteUnits[exp+1])
}

// PadRight pads or truncates a string to a fixed display width.
func PadRight(str string, width int) string {
	if width <= 0 {
		return ""
	}
	w := runewidth.StringWidth(str)
	if w > width {
		return runewidth.Truncate(str, width, "...")
	}
	return str + strings.Repeat(" ", width-w)
}
