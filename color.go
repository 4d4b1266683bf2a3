package main

import (
	"image/color"
	"math"
)

// Hues for the two charge signs
const (
	positiveHue = 10.0
	negativeHue = 210.0
)

// chargeColor returns red-ish for positive, blue-ish for negative and grey
// for neutral particles
func chargeColor(charge float64) color.RGBA {
	switch {
	case charge > 0:
		return hsvColor(positiveHue, 0.8, 1)
	case charge < 0:
		return hsvColor(negativeHue, 0.8, 1)
	}
	return color.RGBA{180, 180, 180, 255}
}

// heatColor maps an intensity in [0, 1] from dark blue to bright red
func heatColor(intensity float64) color.RGBA {
	intensity = math.Max(0, math.Min(1, intensity))
	return hsvColor(240*(1-intensity), 1, 0.25+0.75*intensity)
}

func hsvColor(h, s, v float64) color.RGBA {
	r, g, b := hsvToRGB(h, s, v)
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

// hsvToRGB helper
func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}
