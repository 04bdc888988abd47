package webptool

import "math"

// Ratio returns the size reduction percentage (1 - compressed/original) * 100,
// rounded half-up to one decimal.
func Ratio(original, compressed int64) float64 {
	if original <= 0 {
		return 0
	}
	r := (1 - float64(compressed)/float64(original)) * 100
	return math.Floor(r*10+0.5) / 10
}

// ScaleDimensions shrinks width and height so the longer side fits limit,
// preserving aspect ratio. Dimensions floor; already-fitting images pass
// through unchanged.
func ScaleDimensions(width, height, limit int) (int, int) {
	longest := max(width, height)
	if longest <= limit {
		return width, height
	}
	scale := float64(limit) / float64(longest)
	return int(math.Floor(float64(width) * scale)), int(math.Floor(float64(height) * scale))
}
