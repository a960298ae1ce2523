package agent

import (
	"github.com/Mshel/snakeagent/internal/game"
	"github.com/charmbracelet/log"
)

// Decision is the full result of one planning turn.
type Decision struct {
	Move      game.Move
	Target    game.Position
	HasTarget bool
	Route     Route
	Survival  bool
	Fallback  bool
	// Err is set when the planned route contradicted the facing.
	Err error
}

func (d Decision) Insight() game.Insight {
	return game.Insight{
		Target:    d.Target,
		HasTarget: d.HasTarget,
		Route:     append([]game.Position(nil), d.Route...),
		Fallback:  d.Fallback,
	}
}

// LifeScratch is the only state an AStarAgent keeps between turns. It never
// feeds back into a decision and is cleared when the snake dies.
type LifeScratch struct {
	Turns           int
	FoodRoutes      int
	SurvivalRoutes  int
	Fallbacks       int
	Inconsistencies int
	Last            Decision
}

func (s *LifeScratch) record(d Decision) {
	s.Turns++
	switch {
	case d.Err != nil:
		s.Inconsistencies++
		s.Fallbacks++
	case d.Fallback:
		s.Fallbacks++
	case d.Survival:
		s.SurvivalRoutes++
	default:
		s.FoodRoutes++
	}
	s.Last = d
}

// Decide plans one turn. It is a pure function of its arguments: head for
// the closest food, else for the farthest reachable cell, else fall back to
// the first safe relative move.
func Decide(state game.TurnState, planner Planner, grow bool) Decision {
	req := PlanRequest{
		Grid:   state.Grid,
		Head:   state.Head,
		Facing: state.Direction,
		Body:   state.Body,
	}

	if target, ok := ClosestFood(state.Head, FindFood(state.Grid)); ok {
		req.Target = target
		req.Growing = grow && game.GetManhattanDistance(state.Head, target) == 1
		if route, ok := planner.PlanRoute(req); ok {
			return follow(state, Decision{Target: target, HasTarget: true, Route: route})
		}
	}

	req.Growing = false
	if target, ok := planner.FarthestReachable(req); ok {
		req.Target = target
		if route, ok := planner.PlanRoute(req); ok {
			return follow(state, Decision{Target: target, HasTarget: true, Route: route, Survival: true})
		}
	}

	move, _ := SafeMove(state)
	return Decision{Move: move, Fallback: true}
}

// follow translates the first step of d.Route.
func follow(state game.TurnState, d Decision) Decision {
	step, err := StepDirection(state.Head, d.Route[0])
	if err == nil {
		var move game.Move
		if move, _, err = Translate(state.Direction, step); err == nil {
			d.Move = move
			return d
		}
	}
	d.Err = err
	d.Fallback = true
	d.Move, _ = SafeMove(state)
	return d
}

// AStarAgent chases food along A* routes.
type AStarAgent struct {
	Planner Planner
	Redraw  bool
	Grow    bool

	scratch LifeScratch
}

func NewAStarAgent(opts Options) *AStarAgent {
	return &AStarAgent{
		Planner: Planner{TailPassable: opts.TailPassable},
		Redraw:  opts.Redraw,
		Grow:    opts.Grow,
	}
}

func (a *AStarAgent) GetMove(state game.TurnState) game.Move {
	d := Decide(state, a.Planner, a.Grow)
	a.scratch.record(d)

	if d.Err != nil {
		log.Error("Planned route contradicts facing", "head", state.Head, "facing", state.Direction, "error", d.Err)
	}
	log.Debug("Move chosen", "turn", state.TurnsAlive, "head", state.Head, "move", d.Move,
		"target", d.Target, "route_len", len(d.Route), "fallback", d.Fallback)
	return d.Move
}

func (a *AStarAgent) OnDie(state game.DeathState) {
	log.Info("Life over", "score", state.Score, "head", state.Head, "turns", a.scratch.Turns,
		"fallbacks", a.scratch.Fallbacks, "inconsistencies", a.scratch.Inconsistencies)
	a.scratch = LifeScratch{}
}

func (a *AStarAgent) ShouldRedrawBoard() bool         { return a.Redraw }
func (a *AStarAgent) ShouldGrowOnFoodCollision() bool { return a.Grow }

func (a *AStarAgent) LastInsight() game.Insight {
	return a.scratch.Last.Insight()
}

// Scratch returns a copy of the current life's scratch record.
func (a *AStarAgent) Scratch() LifeScratch {
	return a.scratch
}
