package render

import (
	"image/color"
	"math"
)

// Categorical cell fills for the three non-numeric heatmap statuses.
var (
	colorNoSensor = color.RGBA{R: 148, G: 163, B: 184, A: 255} // no matching sensor
	colorDisabled = color.RGBA{R: 71, G: 85, B: 105, A: 255}   // sensor disabled
	colorNoData   = color.RGBA{R: 229, G: 231, B: 235, A: 255} // no data in bucket
)

// riskSaturation is the fixed saturation of the risk ramp.
const riskSaturation = 0.78

// RiskColor maps a risk score to the continuous green→yellow→red ramp:
// hue runs 120° (safe) down to 0° (severe) while lightness darkens from 65%
// to 45%. The input is clamped to [0,1].
func RiskColor(risk float64) color.RGBA {
	if risk < 0 {
		risk = 0
	}
	if risk > 1 {
		risk = 1
	}
	hue := 120 - risk*120
	lightness := 0.65 - risk*0.20
	return hslToRGB(hue, riskSaturation, lightness)
}

// RiskHue returns the ramp hue for a risk score, exposed so the monotonicity
// of the mapping is directly testable.
func RiskHue(risk float64) float64 {
	if risk < 0 {
		risk = 0
	}
	if risk > 1 {
		risk = 1
	}
	return 120 - risk*120
}

// hslToRGB converts hue [0,360), saturation [0,1], lightness [0,1] to RGBA.
func hslToRGB(h, s, l float64) color.RGBA {
	c := (1 - math.Abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}
