package detection

import "image"

// point is a pixel coordinate used by the flood-fill stack.
type point struct {
	x, y int
}

// componentBounds is the bounding rectangle of one connected component.
type componentBounds struct {
	minX, minY, maxX, maxY int
	pixels                 int
}

func (c componentBounds) region() Region {
	return Region{
		X:      c.minX,
		Y:      c.minY,
		Width:  c.maxX - c.minX + 1,
		Height: c.maxY - c.minY + 1,
	}
}

// minComponentPixels discards trivially small components as noise before
// any area filtering happens.
const minComponentPixels = 10

// largestRegion traces connected components in a binary mask (255 = set)
// and returns the bounding rectangle with the largest area among those that
// qualify.
//
// A component qualifies when its bounding area lies between minArea and
// maxArea and its bounding box is not the near-full frame (within 10px of
// every border): a detection covering essentially the whole photo carries
// no cropping information, and rejecting it here is what lets the selector
// fall back explicitly instead of "succeeding" with a useless region.
//
// The second return value is false when no component qualifies.
func largestRegion(mask *image.Gray, minArea, maxArea int) (Region, bool) {
	bounds := mask.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	visited := make([]bool, width*height)
	var best Region
	bestArea := 0
	found := false

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y*width+x] || mask.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y == 0 {
				continue
			}

			comp := traceComponent(mask, visited, x, y, width, height)
			if comp.pixels < minComponentPixels {
				continue
			}

			region := comp.region()
			area := region.Area()
			if area < minArea || area > maxArea {
				continue
			}
			if isNearFullFrame(region, width, height) {
				continue
			}
			if area > bestArea {
				bestArea = area
				best = region
				found = true
			}
		}
	}
	return best, found
}

// traceComponent flood-fills one 8-connected component starting at (startX,
// startY), marking visited pixels and accumulating the bounding box.
// Iterative stack-based fill; recursion would overflow on large documents.
func traceComponent(mask *image.Gray, visited []bool, startX, startY, width, height int) componentBounds {
	bounds := mask.Bounds()
	comp := componentBounds{minX: startX, minY: startY, maxX: startX, maxY: startY}
	stack := []point{{startX, startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.x < 0 || p.x >= width || p.y < 0 || p.y >= height {
			continue
		}
		if visited[p.y*width+p.x] || mask.GrayAt(p.x+bounds.Min.X, p.y+bounds.Min.Y).Y == 0 {
			continue
		}

		visited[p.y*width+p.x] = true
		comp.pixels++
		if p.x < comp.minX {
			comp.minX = p.x
		}
		if p.x > comp.maxX {
			comp.maxX = p.x
		}
		if p.y < comp.minY {
			comp.minY = p.y
		}
		if p.y > comp.maxY {
			comp.maxY = p.y
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, point{p.x + dx, p.y + dy})
			}
		}
	}
	return comp
}

// isNearFullFrame reports whether a region hugs every border of the frame.
func isNearFullFrame(r Region, width, height int) bool {
	return r.X <= 10 && r.Y <= 10 && r.Width >= width-20 && r.Height >= height-20
}
