package imaging

import (
	"fmt"
	"image"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// DominantColor is one entry of a region color summary.
type DominantColor struct {
	Hex      string  `json:"hex"`      // "#RRGGBB"
	R        uint8   `json:"r"`        // Red component (0-255)
	G        uint8   `json:"g"`        // Green component (0-255)
	B        uint8   `json:"b"`        // Blue component (0-255)
	Fraction float64 `json:"fraction"` // Share of sampled pixels, 0.0-1.0
}

// RegionColorsResult summarizes the dominant colors inside a region.
//
// Useful when tuning detection: a selected region dominated by the paper
// color confirms the crop landed on the document, while a mixed palette
// usually means background leaked in.
type RegionColorsResult struct {
	Colors []DominantColor `json:"colors"`
	Count  int             `json:"count"`
}

// perceptual merge distance in CIE Lab; buckets closer than this are one color
const labMergeDistance = 0.12

// DominantColors extracts up to maxColors dominant colors from a region of
// an image.
//
// Pixels are quantized into coarse RGB buckets, the buckets are merged by
// perceptual CIE Lab distance (nearby shades of the same paper or ink count
// as one color), and the survivors are reported largest first with their
// pixel share. Large regions are sampled on a stride so cost stays bounded
// regardless of photo size.
func DominantColors(img image.Image, region image.Rectangle, maxColors int) (*RegionColorsResult, error) {
	bounds := img.Bounds()
	r := region.Intersect(bounds)
	if r.Empty() {
		return nil, fmt.Errorf("%w: region %v outside image bounds %v", ErrRegionOutOfBounds, region, bounds)
	}
	if maxColors < 1 {
		maxColors = 5
	}

	// Keep sampling under ~64k pixels.
	step := 1
	for (r.Dx()/step)*(r.Dy()/step) > 1<<16 {
		step++
	}

	type bucket struct {
		c     colorful.Color
		key   uint32
		r8    uint8
		g8    uint8
		b8    uint8
		count int
	}
	counts := make(map[uint32]*bucket)
	total := 0

	for y := r.Min.Y; y < r.Max.Y; y += step {
		for x := r.Min.X; x < r.Max.X; x += step {
			pr, pg, pb, _ := img.At(x, y).RGBA()
			r8, g8, b8 := uint8(pr>>8), uint8(pg>>8), uint8(pb>>8)
			// 4 bits per channel keeps the bucket count manageable
			key := uint32(r8>>4)<<8 | uint32(g8>>4)<<4 | uint32(b8>>4)
			if b, ok := counts[key]; ok {
				b.count++
			} else {
				counts[key] = &bucket{
					c:     colorful.Color{R: float64(r8) / 255, G: float64(g8) / 255, B: float64(b8) / 255},
					key:   key,
					r8:    r8,
					g8:    g8,
					b8:    b8,
					count: 1,
				}
			}
			total++
		}
	}

	buckets := make([]*bucket, 0, len(counts))
	for _, b := range counts {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		// deterministic order for equal counts
		return buckets[i].key < buckets[j].key
	})

	// Fold perceptually-close buckets into the larger one.
	merged := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		absorbed := false
		for _, m := range merged {
			if m.c.DistanceLab(b.c) < labMergeDistance {
				m.count += b.count
				absorbed = true
				break
			}
		}
		if !absorbed {
			merged = append(merged, b)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].count > merged[j].count
	})
	if len(merged) > maxColors {
		merged = merged[:maxColors]
	}

	colors := make([]DominantColor, 0, len(merged))
	for _, m := range merged {
		colors = append(colors, DominantColor{
			Hex:      fmt.Sprintf("#%02X%02X%02X", m.r8, m.g8, m.b8),
			R:        m.r8,
			G:        m.g8,
			B:        m.b8,
			Fraction: float64(m.count) / float64(total),
		})
	}

	return &RegionColorsResult{
		Colors: colors,
		Count:  len(colors),
	}, nil
}
