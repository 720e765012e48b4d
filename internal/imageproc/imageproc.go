// Package imageproc normalizes scanned report images for line-oriented OCR:
// grayscale conversion, global binarization and a small median filter.
package imageproc

import (
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"
)

// baseThreshold is the fixed split used when the histogram carries no
// usable between-class variance (e.g. a single-level image).
const baseThreshold = 150

// Prepare converts an image into the binarized, denoised form fed to the OCR
// engine. It is deterministic and does not modify its input.
func Prepare(img image.Image) *image.Gray {
	gray := toGray(imaging.Grayscale(img))
	binary := binarize(gray)
	return median3(binary)
}

func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// binarize applies a global two-level threshold selected by Otsu's method,
// falling back to baseThreshold for degenerate histograms.
func binarize(gray *image.Gray) *image.Gray {
	threshold, ok := otsuThreshold(gray)
	if !ok {
		threshold = baseThreshold
	}

	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y > threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return out
}

// otsuThreshold picks the intensity split maximizing between-class variance.
// The second return is false when every pixel shares one intensity.
func otsuThreshold(gray *image.Gray) (uint8, bool) {
	var hist [256]int
	bounds := gray.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0, false
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}

	var sumBack, weightBack float64
	var bestVariance float64
	var best uint8
	found := false

	for t := 0; t < 256; t++ {
		weightBack += float64(hist[t])
		if weightBack == 0 {
			continue
		}
		weightFore := float64(total) - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(t) * float64(hist[t])

		meanBack := sumBack / weightBack
		meanFore := (sum - sumBack) / weightFore
		diff := meanBack - meanFore
		variance := weightBack * weightFore * diff * diff
		if variance > bestVariance {
			bestVariance = variance
			best = uint8(t)
			found = true
		}
	}
	return best, found
}

// median3 runs a 3x3 median filter, clamping the kernel at the borders. On a
// binarized image this removes salt-and-pepper specks without eroding glyph
// edges.
func median3(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	window := make([]uint8, 0, 9)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			window = window[:0]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					window = append(window, gray.GrayAt(clamp(x+dx, bounds.Min.X, bounds.Max.X-1), clamp(y+dy, bounds.Min.Y, bounds.Max.Y-1)).Y)
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			out.SetGray(x, y, color.Gray{Y: window[len(window)/2]})
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
