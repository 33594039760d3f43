package lights

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a single pixel value, one byte per channel.
type Color struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

var (
	Black = Color{}
	White = Color{Red: 0xFF, Green: 0xFF, Blue: 0xFF}
)

// HSV converts hue/saturation/value in [0,1] to a pixel color. Hue values
// outside [0,1) wrap around the color wheel.
func HSV(h, s, v float64) Color {
	h -= math.Floor(h)
	r, g, b := colorful.Hsv(h*360.0, s, v).RGB255()
	return Color{Red: r, Green: g, Blue: b}
}

// RGBToHSB converts a pixel color to 16-bit hue/saturation/brightness, the
// form LIFX bulbs speak.
func RGBToHSB(r, g, b uint8) (uint16, uint16, uint16) {
	red := float64(r) / 255.0
	green := float64(g) / 255.0
	blue := float64(b) / 255.0

	max := math.Max(red, math.Max(green, blue))
	min := math.Min(red, math.Min(green, blue))
	delta := max - min

	var h, s, v float64
	v = max // Brightness is the max of RGB

	if delta == 0 {
		h = 0
		s = 0
	} else { // Chromatic data...
		s = delta / max // Saturation is degree of variation from grey.

		deltaR := (((max - red) / 6) + (delta / 2)) / delta
		deltaG := (((max - green) / 6) + (delta / 2)) / delta
		deltaB := (((max - blue) / 6) + (delta / 2)) / delta

		if red == max {
			h = deltaB - deltaG // Color is closer to red
		} else if green == max {
			h = (1.0 / 3.0) + deltaR - deltaB // Color is closer to green
		} else if blue == max {
			h = (2.0 / 3.0) + deltaG - deltaR // Color is closer to blue
		}

		if h < 0 {
			h += 1
		}
		if h > 1 {
			h -= 1
		}
	}

	hue := uint16(math.Round(h * 0xFFFF))
	saturation := uint16(math.Round(s * 0xFFFF))
	brightness := uint16(math.Round(v * 0xFFFF))

	return hue, saturation, brightness
}
