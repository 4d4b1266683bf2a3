package main

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHSVToRGB(t *testing.T) {
	r, g, b := hsvToRGB(0, 1, 1)
	assert.Equal(t, [3]float64{1, 0, 0}, [3]float64{r, g, b})
	r, g, b = hsvToRGB(120, 1, 1)
	assert.Equal(t, [3]float64{0, 1, 0}, [3]float64{r, g, b})
	r, g, b = hsvToRGB(-120, 1, 1)
	assert.Equal(t, [3]float64{0, 0, 1}, [3]float64{r, g, b}, "negative hues wrap")
}

func TestChargeColor(t *testing.T) {
	pos, neg := chargeColor(1), chargeColor(-1)
	assert.Greater(t, pos.R, pos.B, "positive is red")
	assert.Greater(t, neg.B, neg.R, "negative is blue")
	assert.Equal(t, color.RGBA{180, 180, 180, 255}, chargeColor(0))
}

func TestHeatColor(t *testing.T) {
	cold, hot := heatColor(0), heatColor(1)
	assert.Greater(t, cold.B, cold.R)
	assert.Greater(t, hot.R, hot.B)
	assert.Equal(t, hot, heatColor(5), "clamped")
}
