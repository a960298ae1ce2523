package game

// Directions lists the four facings in clockwise order starting at North.
// Searches iterate in this order so their results are reproducible.
var Directions = []Direction{North, East, South, West}

func GetManhattanDistance(a, b Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// BorderWalls returns a grid whose outer ring is wall.
func BorderWalls(width, height int) *Grid {
	grid := NewGrid(width, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				grid.Set(Position{X: x, Y: y}, CellWall)
			}
		}
	}
	return grid
}
