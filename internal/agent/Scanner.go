package agent

import "github.com/Mshel/snakeagent/internal/game"

// FindFood lists every food cell, x outer and y inner. The order is stable
// for a given grid and is the tie-break order of ClosestFood.
func FindFood(grid *game.Grid) []game.Position {
	food := []game.Position{}
	for x := 0; x < grid.Width(); x++ {
		for y := 0; y < grid.Height(); y++ {
			p := game.Position{X: x, Y: y}
			if grid.At(p) == game.CellFood {
				food = append(food, p)
			}
		}
	}
	return food
}
