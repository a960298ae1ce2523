package agent

import "github.com/Mshel/snakeagent/internal/game"

// fallbackOrder is the order SafeMove tries moves in.
var fallbackOrder = [...]game.Move{game.MoveStraight, game.MoveLeft, game.MoveRight}

// TrappedPrefersStraight is answered when no move leads anywhere safe.
const TrappedPrefersStraight = game.MoveStraight

// SafeMove picks the first move whose destination is passable, trying
// STRAIGHT, LEFT and RIGHT in that order. When none is, chasing the tail is
// the last safe option since the tail leaves its cell this turn.
func SafeMove(state game.TurnState) (game.Move, bool) {
	for _, move := range fallbackOrder {
		next := state.Head.Add(state.Direction.Apply(move).Step())
		if state.Grid.InBounds(next) && game.IsPassable(state.Grid.At(next)) {
			return move, true
		}
	}
	if n := len(state.Body); n > 1 {
		tail := state.Body[n-1]
		for _, move := range fallbackOrder {
			if state.Head.Add(state.Direction.Apply(move).Step()) == tail {
				return move, true
			}
		}
	}
	return TrappedPrefersStraight, false
}
