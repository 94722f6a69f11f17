package screen

import (
	"fmt"
	"image"
	"image/color"
	"maps"
	"math"
	"slices"
	"sort"
	"strings"
)

// Algorithm reduces a screen capture to one color, sampling every
// pixelGridSize-th pixel in both directions.
type Algorithm func(img *image.RGBA, pixelGridSize int) color.RGBA

var algorithms = map[string]Algorithm{
	"AVERAGE":         AverageColor,
	"SQUARED_AVERAGE": SquaredAverageColor,
	"MEDIAN":          MedianColor,
	"MODE":            ModeColor,
}

// Lookup returns the algorithm registered under name, ignoring case.
func Lookup(name string) (Algorithm, error) {
	algo, ok := algorithms[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("unknown color algorithm %q, valid values are %v", name, Names())
	}
	return algo, nil
}

func Names() []string {
	return slices.Sorted(maps.Keys(algorithms))
}

// sample calls fn for every sampled pixel and returns the number sampled.
func sample(img *image.RGBA, pixelGridSize int, fn func(c color.RGBA)) int {
	if pixelGridSize < 1 {
		pixelGridSize = 1
	}
	bounds := img.Bounds()
	n := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y += pixelGridSize {
		for x := bounds.Min.X; x < bounds.Max.X; x += pixelGridSize {
			fn(img.RGBAAt(x, y))
			n++
		}
	}
	return n
}

func AverageColor(img *image.RGBA, pixelGridSize int) color.RGBA {
	var sumR, sumG, sumB, sumA uint64
	n := sample(img, pixelGridSize, func(c color.RGBA) {
		sumR += uint64(c.R)
		sumG += uint64(c.G)
		sumB += uint64(c.B)
		sumA += uint64(c.A)
	})
	if n == 0 {
		return color.RGBA{}
	}

	total := uint64(n)
	return color.RGBA{
		R: uint8(sumR / total),
		G: uint8(sumG / total),
		B: uint8(sumB / total),
		A: uint8(sumA / total),
	}
}

// SquaredAverageColor averages the squared channels, which weighs bright
// pixels more than AverageColor does.
func SquaredAverageColor(img *image.RGBA, pixelGridSize int) color.RGBA {
	var sumR, sumG, sumB, sumA uint64
	n := sample(img, pixelGridSize, func(c color.RGBA) {
		sumR += uint64(c.R) * uint64(c.R)
		sumG += uint64(c.G) * uint64(c.G)
		sumB += uint64(c.B) * uint64(c.B)
		sumA += uint64(c.A) * uint64(c.A)
	})
	if n == 0 {
		return color.RGBA{}
	}

	total := float64(n)
	root := func(sum uint64) uint8 {
		return uint8(math.Round(math.Sqrt(float64(sum) / total)))
	}
	return color.RGBA{R: root(sumR), G: root(sumG), B: root(sumB), A: root(sumA)}
}

// MedianColor takes the median of each channel independently.
func MedianColor(img *image.RGBA, pixelGridSize int) color.RGBA {
	var reds, greens, blues, alphas []uint8
	n := sample(img, pixelGridSize, func(c color.RGBA) {
		reds = append(reds, c.R)
		greens = append(greens, c.G)
		blues = append(blues, c.B)
		alphas = append(alphas, c.A)
	})
	if n == 0 {
		return color.RGBA{}
	}

	median := func(values []uint8) uint8 {
		sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
		n := len(values)
		if n%2 == 0 {
			return uint8((int(values[n/2-1]) + int(values[n/2])) / 2)
		}
		return values[n/2]
	}

	return color.RGBA{
		R: median(reds),
		G: median(greens),
		B: median(blues),
		A: median(alphas),
	}
}

// ModeColor returns the most frequent sampled color. Ties go to the color
// seen first.
func ModeColor(img *image.RGBA, pixelGridSize int) color.RGBA {
	colorCount := make(map[color.RGBA]int)
	var order []color.RGBA
	sample(img, pixelGridSize, func(c color.RGBA) {
		if colorCount[c] == 0 {
			order = append(order, c)
		}
		colorCount[c]++
	})

	var modeColor color.RGBA
	maxCount := 0
	for _, c := range order {
		if count := colorCount[c]; count > maxCount {
			maxCount = count
			modeColor = c
		}
	}

	return modeColor
}
