package game

import "math/rand"

// spawnFood tops the board up to want pieces of food on free cells.
// It returns false when the board has no free cell left.
func spawnFood(rng *rand.Rand, walls *Grid, snake *Snake, food []Position, want int) ([]Position, bool) {
	occupied := make(map[Position]bool, len(food))
	for _, f := range food {
		occupied[f] = true
	}

	for len(food) < want {
		freeSpots := make([]Position, 0, walls.Width()*walls.Height())
		for y := 0; y < walls.Height(); y++ {
			for x := 0; x < walls.Width(); x++ {
				p := Position{X: x, Y: y}
				if walls.At(p) != CellEmpty || occupied[p] || (snake != nil && snake.Occupies(p)) {
					continue
				}
				freeSpots = append(freeSpots, p)
			}
		}
		if len(freeSpots) == 0 {
			return food, false
		}
		p := freeSpots[rng.Intn(len(freeSpots))]
		food = append(food, p)
		occupied[p] = true
	}
	return food, true
}

// removeFood returns food without p. The input slice is left untouched.
func removeFood(food []Position, p Position) ([]Position, bool) {
	for i, f := range food {
		if f == p {
			rest := make([]Position, 0, len(food)-1)
			rest = append(rest, food[:i]...)
			return append(rest, food[i+1:]...), true
		}
	}
	return food, false
}
