package agent

import (
	"errors"
	"fmt"

	"github.com/Mshel/snakeagent/internal/game"
)

// ErrReversal means a route asked the snake to turn back on itself.
var ErrReversal = errors.New("step reverses current facing")

// Translate turns the absolute direction of the next step into the move the
// snake has to make from its current facing, and the facing after it.
func Translate(facing, step game.Direction) (game.Move, game.Direction, error) {
	switch step {
	case facing:
		return game.MoveStraight, facing, nil
	case facing.Clockwise():
		return game.MoveRight, step, nil
	case facing.CounterClockwise():
		return game.MoveLeft, step, nil
	}
	return game.MoveStraight, facing, fmt.Errorf("facing %s, step %s: %w", facing, step, ErrReversal)
}

// StepDirection is the direction of the unit step from head to next.
func StepDirection(head, next game.Position) (game.Direction, error) {
	dir, ok := game.DirectionOf(game.Delta(head, next))
	if !ok {
		return game.North, fmt.Errorf("%s to %s is not a single step", head, next)
	}
	return dir, nil
}
