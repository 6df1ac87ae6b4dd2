package detection

// Blob is a maximal 4-connected group of active grid cells. Coordinates are
// grid cells, bounds inclusive.
type Blob struct {
	Label int `json:"label"`
	MinX  int `json:"min_x"`
	MaxX  int `json:"max_x"`
	MinY  int `json:"min_y"`
	MaxY  int `json:"max_y"`
	Cells int `json:"cells"`
}

// Width returns the blob width in cells.
func (b Blob) Width() int { return b.MaxX - b.MinX + 1 }

// Height returns the blob height in cells.
func (b Blob) Height() int { return b.MaxY - b.MinY + 1 }

// Label partitions the active cells of g into blobs using 4-connectivity.
//
// Labels start at 1 and are assigned in row-major discovery order. The
// returned slice holds each cell's label (0 for inactive cells), indexed like
// g.Cells. Every active cell receives exactly one label and adjacent active
// cells always share it.
//
// Traversal uses an explicit stack rather than recursion, so very large
// connected areas cannot exhaust the goroutine stack. A cell is labelled when
// it is pushed, which bounds the stack by the number of active cells.
func Label(g *Grid) ([]Blob, []int) {
	labels := make([]int, len(g.Cells))
	blobs := make([]Blob, 0)
	stack := make([]int, 0, 64)

	for start, active := range g.Cells {
		if !active || labels[start] != 0 {
			continue
		}

		id := len(blobs) + 1
		sx, sy := start%g.Width, start/g.Width
		blob := Blob{Label: id, MinX: sx, MaxX: sx, MinY: sy, MaxY: sy}

		labels[start] = id
		stack = append(stack[:0], start)

		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			x, y := idx%g.Width, idx/g.Width
			blob.Cells++
			blob.MinX = min(blob.MinX, x)
			blob.MaxX = max(blob.MaxX, x)
			blob.MinY = min(blob.MinY, y)
			blob.MaxY = max(blob.MaxY, y)

			// 4-connected neighbours
			if x > 0 && g.Cells[idx-1] && labels[idx-1] == 0 {
				labels[idx-1] = id
				stack = append(stack, idx-1)
			}
			if x < g.Width-1 && g.Cells[idx+1] && labels[idx+1] == 0 {
				labels[idx+1] = id
				stack = append(stack, idx+1)
			}
			if y > 0 && g.Cells[idx-g.Width] && labels[idx-g.Width] == 0 {
				labels[idx-g.Width] = id
				stack = append(stack, idx-g.Width)
			}
			if y < g.Height-1 && g.Cells[idx+g.Width] && labels[idx+g.Width] == 0 {
				labels[idx+g.Width] = id
				stack = append(stack, idx+g.Width)
			}
		}

		blobs = append(blobs, blob)
	}

	return blobs, labels
}
