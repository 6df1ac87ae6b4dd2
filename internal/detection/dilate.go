package detection

// Dilate expands every active cell into a (2*dx+1) x (2*dy+1) neighbourhood
// and returns the result as a new grid.
//
// Reads only come from g and writes only go to the new grid, so a cell
// activated by dilation is never dilated again in the same pass. The wider
// horizontal reach joins letters and words of one signature without merging
// text lines stacked above and below it.
func Dilate(g *Grid, dx, dy int) *Grid {
	out := NewGrid(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !g.Cells[y*g.Width+x] {
				continue
			}
			y0, y1 := max(0, y-dy), min(g.Height-1, y+dy)
			x0, x1 := max(0, x-dx), min(g.Width-1, x+dx)
			for ny := y0; ny <= y1; ny++ {
				row := out.Cells[ny*g.Width : (ny+1)*g.Width]
				for nx := x0; nx <= x1; nx++ {
					row[nx] = true
				}
			}
		}
	}
	return out
}
