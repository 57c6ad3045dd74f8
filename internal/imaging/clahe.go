package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// CLAHE performs contrast-limited adaptive histogram equalization.
//
// The image is divided into a tiles x tiles grid. Each tile gets its own
// equalization mapping built from a histogram whose bins are clipped at
// clipLimit times the uniform bin height, with the clipped excess
// redistributed evenly; the clip bounds how much contrast any single tile
// may gain, which keeps flat regions from amplifying noise. Output pixels
// bilinearly interpolate between the mappings of the four nearest tiles to
// avoid visible tile seams.
//
// A clipLimit <= 0 or tiles < 1 returns an unmodified copy, mirroring the
// tuning surface where a zero clip disables the stage.
func CLAHE(src *image.Gray, clipLimit float64, tiles int) *image.Gray {
	if clipLimit <= 0 || tiles < 1 {
		return CloneGray(src)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return out
	}

	if tiles > width {
		tiles = width
	}
	if tiles > height {
		tiles = height
	}

	tileW := (width + tiles - 1) / tiles
	tileH := (height + tiles - 1) / tiles

	// Per-tile equalization lookup tables.
	luts := make([][]uint8, tiles*tiles)
	for ty := 0; ty < tiles; ty++ {
		for tx := 0; tx < tiles; tx++ {
			x0 := tx * tileW
			y0 := ty * tileH
			x1 := clamp(x0+tileW, 0, width)
			y1 := clamp(y0+tileH, 0, height)
			luts[ty*tiles+tx] = tileLUT(src, bounds, x0, y0, x1, y1, clipLimit)
		}
	}

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			gy := float64(y)/float64(tileH) - 0.5
			ty0 := int(math.Floor(gy))
			fy := gy - float64(ty0)
			ty1 := clamp(ty0+1, 0, tiles-1)
			ty0 = clamp(ty0, 0, tiles-1)

			for x := 0; x < width; x++ {
				gx := float64(x)/float64(tileW) - 0.5
				tx0 := int(math.Floor(gx))
				fx := gx - float64(tx0)
				tx1 := clamp(tx0+1, 0, tiles-1)
				tx0 = clamp(tx0, 0, tiles-1)

				v := src.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y
				tl := float64(luts[ty0*tiles+tx0][v])
				tr := float64(luts[ty0*tiles+tx1][v])
				bl := float64(luts[ty1*tiles+tx0][v])
				br := float64(luts[ty1*tiles+tx1][v])

				top := tl + (tr-tl)*fx
				bottom := bl + (br-bl)*fx
				out.Pix[y*out.Stride+x] = uint8(top + (bottom-top)*fy + 0.5)
			}
		}
	})
	return out
}

// tileLUT builds the clipped-equalization mapping for one tile.
func tileLUT(src *image.Gray, bounds image.Rectangle, x0, y0, x1, y1 int, clipLimit float64) []uint8 {
	var hist [256]int
	area := (x1 - x0) * (y1 - y0)
	if area == 0 {
		lut := make([]uint8, 256)
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[src.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y]++
		}
	}

	// Clip bins and redistribute the excess uniformly.
	clip := int(clipLimit * float64(area) / 256)
	if clip < 1 {
		clip = 1
	}
	excess := 0
	for i := range hist {
		if hist[i] > clip {
			excess += hist[i] - clip
			hist[i] = clip
		}
	}
	share := excess / 256
	remainder := excess % 256
	for i := range hist {
		hist[i] += share
		if i < remainder {
			hist[i]++
		}
	}

	lut := make([]uint8, 256)
	cum := 0
	scale := 255.0 / float64(area)
	for i := range hist {
		cum += hist[i]
		lut[i] = uint8(float64(cum)*scale + 0.5)
	}
	return lut
}
