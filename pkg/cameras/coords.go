package cameras

// DefaultPixelOffset places each coordinate at the centre of its pixel.
const DefaultPixelOffset = 0.5

// Coord is a sub-pixel image coordinate. Y is the row, X the column.
type Coord struct {
	Y, X float64
}

// ImageCoords returns a height x width grid where grid[y][x] is
// (y+pixelOffset, x+pixelOffset). Non-positive dimensions yield an empty grid.
func ImageCoords(height, width int, pixelOffset float64) [][]Coord {
	if height <= 0 || width <= 0 {
		return [][]Coord{}
	}

	// One backing array keeps the rows contiguous in row-major order.
	flat := make([]Coord, height*width)
	grid := make([][]Coord, height)
	for y := range height {
		row := flat[y*width : (y+1)*width : (y+1)*width]
		for x := range row {
			row[x] = Coord{Y: float64(y) + pixelOffset, X: float64(x) + pixelOffset}
		}
		grid[y] = row
	}
	return grid
}

// FlattenCoords concatenates the rows of grid in row-major order.
func FlattenCoords(grid [][]Coord) []Coord {
	n := 0
	for _, row := range grid {
		n += len(row)
	}
	out := make([]Coord, 0, n)
	for _, row := range grid {
		out = append(out, row...)
	}
	return out
}
