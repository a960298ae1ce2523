package agent

import (
	"math"

	"github.com/Mshel/snakeagent/internal/game"
)

// Euclidean is the straight-line distance between a and b.
func Euclidean(a, b game.Position) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// ClosestFood returns the food nearest to head. The first minimum in the
// given order wins ties.
func ClosestFood(head game.Position, food []game.Position) (game.Position, bool) {
	var best game.Position
	bestDist := math.Inf(1)
	found := false
	for _, f := range food {
		if d := Euclidean(head, f); d < bestDist {
			best, bestDist, found = f, d, true
		}
	}
	return best, found
}
