package ocr

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Preprocess writes a cleaned-up copy of the image for recognition:
// grayscale, light gaussian denoise, then adaptive thresholding.
// The original file is left untouched because recognition may want to
// retry against it: preprocessing helps noisy scans but can destroy
// signal on already-clean text.
func Preprocess(srcPath string) (string, error) {
	src, err := imaging.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}

	gray := imaging.Grayscale(src)
	denoised := imaging.Blur(gray, 0.8)
	binarized := adaptiveThreshold(denoised, 15, 10)

	ext := filepath.Ext(srcPath)
	dstPath := strings.TrimSuffix(srcPath, ext) + "_processed.png"
	if err := imaging.Save(binarized, dstPath); err != nil {
		return "", fmt.Errorf("save processed image: %w", err)
	}
	return dstPath, nil
}

// adaptiveThreshold binarizes against a local mean computed over a
// window of the given radius, offset by c. Local thresholding keeps text
// legible under uneven scan lighting where a global threshold washes out
// whole regions.
func adaptiveThreshold(src image.Image, radius, c int) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray.Set(x, y, color.GrayModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)))
		}
	}

	// summed-area table for O(1) window means
	integral := make([]int64, (w+1)*(h+1))
	stride := w + 1
	for y := 1; y <= h; y++ {
		var rowSum int64
		for x := 1; x <= w; x++ {
			rowSum += int64(gray.GrayAt(x-1, y-1).Y)
			integral[y*stride+x] = integral[(y-1)*stride+x] + rowSum
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := max(0, x-radius), max(0, y-radius)
			x1, y1 := min(w-1, x+radius), min(h-1, y+radius)
			count := int64((x1 - x0 + 1) * (y1 - y0 + 1))

			sum := integral[(y1+1)*stride+(x1+1)] -
				integral[y0*stride+(x1+1)] -
				integral[(y1+1)*stride+x0] +
				integral[y0*stride+x0]
			mean := sum / count

			if int64(gray.GrayAt(x, y).Y) < mean-int64(c) {
				out.SetGray(x, y, color.Gray{Y: 0})
			} else {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// RemoveProcessed deletes the preprocessed twin if it exists. Safe to call
// on either path.
func RemoveProcessed(path string) {
	if strings.HasSuffix(path, "_processed.png") {
		_ = os.Remove(path)
	}
}
