package agent

import "github.com/Mshel/snakeagent/internal/game"

// FarthestReachable runs a BFS from the head over the cells the planner
// may enter and returns the reachable cell with the largest step distance.
// The first cell discovered at that distance wins.
func (p Planner) FarthestReachable(req PlanRequest) (game.Position, bool) {
	if req.Grid == nil {
		return game.Position{}, false
	}

	q := []game.Position{req.Head}
	distance := map[game.Position]int{req.Head: 0}
	reverse := req.Facing.Opposite()

	var farthest game.Position
	maxDist := 0
	for len(q) > 0 {
		current := q[0]
		q = q[1:]
		dist := distance[current]
		if dist > maxDist {
			maxDist = dist
			farthest = current
		}

		for _, dir := range game.Directions {
			if current == req.Head && dir == reverse {
				continue
			}
			next := current.Add(dir.Step())
			if _, visited := distance[next]; visited || !p.passable(req, next) {
				continue
			}
			distance[next] = dist + 1
			q = append(q, next)
		}
	}
	return farthest, maxDist > 0
}
