package pptx

import "math"

// EMUPerInch is the number of English Metric Units in one inch.
// DrawingML stores every length in EMU.
const EMUPerInch = 914400

// EMUPerPoint is the number of EMU in one typographic point (1/72 inch)
const EMUPerPoint = 12700

// Default 4:3 slide and portrait notes page sizes
const (
	DefaultSlideWidth  = 9144000
	DefaultSlideHeight = 6858000
	DefaultNotesWidth  = 6858000
	DefaultNotesHeight = 9144000
)

// EMUToInches converts EMU to inches rounded to three decimals
func EMUToInches(emu int64) float64 {
	return math.Round(float64(emu)/EMUPerInch*1000) / 1000
}

// FontSizeToHundredths converts a point size to the a:rPr@sz unit
func FontSizeToHundredths(points float64) int {
	return int(math.Round(points * 100))
}
