package utils

import (
	"fmt"
	"image/color"
	"strings"
)

// Contains checks if a value exists in the slice.
func Contains[T comparable](slice []T, value T) bool {
	for _, v := range slice {
		if v == value {
			return true
		}
	}
	return false
}

// HexToRGBA converts a color expressed in hexadecimal format (#rgb or #rrggbb) to RGBA.
// An invalid input returns an opaque black color.
func HexToRGBA(x string) color.NRGBA {
	var r, g, b uint8
	col := color.NRGBA{A: 0xff}

	x = strings.TrimPrefix(x, "#")
	switch len(x) {
	case 3:
		if _, err := fmt.Sscanf(x, "%1x%1x%1x", &r, &g, &b); err != nil {
			return col
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(x, "%02x%02x%02x", &r, &g, &b); err != nil {
			return col
		}
	default:
		return col
	}
	col.R, col.G, col.B = r, g, b

	return col
}
