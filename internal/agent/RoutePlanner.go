package agent

import (
	"container/heap"

	"github.com/Mshel/snakeagent/internal/game"
)

// Route runs from the first cell after the head to the target, inclusive.
type Route []game.Position

// Planner finds shortest 4-connected routes with A*.
type Planner struct {
	// TailPassable lets routes enter the current tail cell, which the tail
	// leaves during the move. Ignored while the snake is growing.
	TailPassable bool
}

type PlanRequest struct {
	Grid    *game.Grid
	Head    game.Position
	Target  game.Position
	Facing  game.Direction
	Body    []game.Position
	Growing bool
}

type routeNode struct {
	point  game.Position
	g      int
	h      float64
	f      float64
	seq    int
	index  int
	parent *routeNode
}

// routeQueue orders by f, then h, then the most recently discovered node.
type routeQueue []*routeNode

func (pq routeQueue) Len() int { return len(pq) }

func (pq routeQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	if pq[i].h != pq[j].h {
		return pq[i].h < pq[j].h
	}
	return pq[i].seq > pq[j].seq
}

func (pq routeQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *routeQueue) Push(x any) {
	n := len(*pq)
	item := x.(*routeNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *routeQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// passable reports whether the search may step onto p.
func (p Planner) passable(req PlanRequest, point game.Position) bool {
	if !req.Grid.InBounds(point) {
		return false
	}
	kind := req.Grid.At(point)
	if game.IsPassable(kind) {
		return true
	}
	if kind != game.CellSnakeBody || !p.TailPassable || req.Growing {
		return false
	}
	// The neck is never entered even when it is also the tail.
	n := len(req.Body)
	return n > 1 && req.Body[n-1] == point
}

// PlanRoute returns the shortest route from req.Head to req.Target, or
// false when there is none. The Euclidean estimate never exceeds the
// 4-connected step count, so the route is optimal in steps.
func (p Planner) PlanRoute(req PlanRequest) (Route, bool) {
	if req.Grid == nil || req.Head == req.Target || !p.passable(req, req.Target) {
		return nil, false
	}

	goal := req.Target
	seq := 0
	open := &routeQueue{}
	heap.Init(open)
	startH := Euclidean(req.Head, goal)
	heap.Push(open, &routeNode{point: req.Head, g: 0, h: startH, f: startH, seq: seq})
	gScore := map[int]int{req.Grid.Index(req.Head): 0}
	closed := make(map[int]struct{})
	reverse := req.Facing.Opposite()

	for open.Len() > 0 {
		current := heap.Pop(open).(*routeNode)
		currIdx := req.Grid.Index(current.point)
		if _, seen := closed[currIdx]; seen {
			continue
		}
		closed[currIdx] = struct{}{}
		if current.point == goal {
			return reconstructRoute(current), true
		}

		for _, dir := range game.Directions {
			if current.parent == nil && dir == reverse {
				continue
			}
			next := current.point.Add(dir.Step())
			if !p.passable(req, next) {
				continue
			}
			idx := req.Grid.Index(next)
			if _, seen := closed[idx]; seen {
				continue
			}
			tentativeG := current.g + 1
			if prev, ok := gScore[idx]; ok && tentativeG >= prev {
				continue
			}
			gScore[idx] = tentativeG
			seq++
			h := Euclidean(next, goal)
			heap.Push(open, &routeNode{
				point:  next,
				g:      tentativeG,
				h:      h,
				f:      float64(tentativeG) + h,
				seq:    seq,
				parent: current,
			})
		}
	}
	return nil, false
}

// reconstructRoute walks parents back to the start, dropping the start.
func reconstructRoute(end *routeNode) Route {
	route := make(Route, 0, end.g)
	for node := end; node.parent != nil; node = node.parent {
		route = append(route, node.point)
	}
	for i := 0; i < len(route)/2; i++ {
		j := len(route) - 1 - i
		route[i], route[j] = route[j], route[i]
	}
	return route
}
