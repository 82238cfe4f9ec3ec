package ocr

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

// gradient background with a dark block: a global threshold would lose one
// side of the gradient, the adaptive pass must keep the block visible.
func syntheticScan() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(120 + x)})
		}
	}
	for y := 20; y < 30; y++ {
		for x := 10; x < 50; x++ {
			img.SetGray(x, y, color.Gray{Y: 20})
		}
	}
	return img
}

func TestAdaptiveThresholdBinarizes(t *testing.T) {
	out := adaptiveThreshold(syntheticScan(), 15, 10)

	blacks := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := out.GrayAt(x, y).Y
			assert.True(t, v == 0 || v == 255, "pixel (%d,%d) not binary: %d", x, y, v)
			if v == 0 {
				blacks++
			}
		}
	}
	// the dark block survives thresholding
	assert.Greater(t, blacks, 100)
	// the gradient background does not go fully black
	assert.Less(t, blacks, 64*64/2)
}

func TestAdaptiveThresholdKeepsBlockShape(t *testing.T) {
	out := adaptiveThreshold(syntheticScan(), 15, 10)
	// center of the dark block is black, far background is white
	assert.Equal(t, uint8(0), out.GrayAt(30, 25).Y)
	assert.Equal(t, uint8(255), out.GrayAt(5, 55).Y)
}
