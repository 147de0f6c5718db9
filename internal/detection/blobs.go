package detection

import (
	"github.com/ironsheep/wireframe-mcp/internal/imaging"
)

// Blob is one connected foreground region summarized by its bounding box.
//
// X and Y are the top-left extreme. Width and Height are the distance between
// the extremes (maxX-minX, maxY-minY), so a solid 30×30 square reports 29×29.
type Blob struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// Pixels is the number of foreground pixels in the region.
	Pixels int `json:"pixels"`
}

// BlobFilter drops components too small to be a drawn widget. A component is
// kept only when all three minimums are strictly exceeded.
type BlobFilter struct {
	MinWidth  int `json:"min_width"`
	MinHeight int `json:"min_height"`
	MinPixels int `json:"min_pixels"`
}

// DefaultBlobFilter removes ink-thickness noise and individual text strokes.
func DefaultBlobFilter() BlobFilter {
	return BlobFilter{MinWidth: 20, MinHeight: 20, MinPixels: 100}
}

// Keep reports whether a component with the given extent passes the filter.
func (f BlobFilter) Keep(width, height, pixels int) bool {
	return width > f.MinWidth && height > f.MinHeight && pixels > f.MinPixels
}

// point is a pixel coordinate on the flood-fill worklist.
type point struct {
	x, y int
}

// ExtractBlobs labels 4-connected foreground components in mask and returns
// those that pass filter, in row-major order of each component's first pixel.
//
// # Algorithm
//
// The mask is scanned row by row. Each unvisited foreground pixel seeds an
// iterative flood fill over an explicit stack, visiting left, right, up and
// down neighbours only. Neighbours are computed from (x, y) with explicit
// bounds checks, so a component never wraps from one row's end to the next
// row's start. Every pixel is visited at most once, making the whole pass
// linear in mask size.
//
// The result is deterministic: the same mask always yields the same blobs in
// the same order.
func ExtractBlobs(mask *imaging.BinaryMask, filter BlobFilter) []Blob {
	width, height := mask.Width, mask.Height
	visited := make([]bool, width*height)
	blobs := make([]Blob, 0)

	// Reused across components.
	stack := make([]point, 0, 256)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if visited[idx] || mask.Bits[idx] != 1 {
				continue
			}

			var b Blob
			b, stack = floodFill(mask, visited, x, y, stack[:0])
			if filter.Keep(b.Width, b.Height, b.Pixels) {
				blobs = append(blobs, b)
			}
		}
	}

	return blobs
}

// floodFill grows the component containing (startX, startY), marking its
// pixels visited. The returned stack is the (emptied) worklist, handed back
// so its capacity can be reused.
func floodFill(mask *imaging.BinaryMask, visited []bool, startX, startY int, stack []point) (Blob, []point) {
	width, height := mask.Width, mask.Height

	minX, maxX := startX, startX
	minY, maxY := startY, startY
	count := 0

	visited[startY*width+startX] = true
	stack = append(stack, point{startX, startY})

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++

		if p.x < minX {
			minX = p.x
		}
		if p.x > maxX {
			maxX = p.x
		}
		if p.y < minY {
			minY = p.y
		}
		if p.y > maxY {
			maxY = p.y
		}

		// 4-connected neighbours
		neighbours := [4]point{
			{p.x - 1, p.y},
			{p.x + 1, p.y},
			{p.x, p.y - 1},
			{p.x, p.y + 1},
		}
		for _, n := range neighbours {
			if n.x < 0 || n.x >= width || n.y < 0 || n.y >= height {
				continue
			}
			ni := n.y*width + n.x
			if visited[ni] || mask.Bits[ni] != 1 {
				continue
			}
			visited[ni] = true
			stack = append(stack, n)
		}
	}

	return Blob{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
		Pixels: count,
	}, stack
}
