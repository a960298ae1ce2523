package game

import "fmt"

// Direction is the snake's absolute facing. Values are in clockwise order so
// turning is modular arithmetic.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Move is relative to the current facing.
type Move int

const (
	MoveLeft     Move = -1
	MoveStraight Move = 0
	MoveRight    Move = 1
)

var directionSteps = [...]Offset{
	North: {Dx: 0, Dy: -1},
	East:  {Dx: 1, Dy: 0},
	South: {Dx: 0, Dy: 1},
	West:  {Dx: -1, Dy: 0},
}

func (d Direction) Valid() bool {
	return d >= North && d <= West
}

// Step is the unit offset of one cell in direction d.
func (d Direction) Step() Offset {
	return directionSteps[d]
}

func (d Direction) Clockwise() Direction        { return (d + 1) % 4 }
func (d Direction) CounterClockwise() Direction { return (d + 3) % 4 }
func (d Direction) Opposite() Direction         { return (d + 2) % 4 }

// Apply returns the facing after making move m.
func (d Direction) Apply(m Move) Direction {
	return Direction((int(d) + int(m) + 4) % 4)
}

// DirectionOf maps a unit offset back to its direction.
func DirectionOf(o Offset) (Direction, bool) {
	for d, step := range directionSteps {
		if step == o {
			return Direction(d), true
		}
	}
	return North, false
}

func (d Direction) String() string {
	switch d {
	case North:
		return "NORTH"
	case East:
		return "EAST"
	case South:
		return "SOUTH"
	case West:
		return "WEST"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

func (m Move) Valid() bool {
	return m == MoveLeft || m == MoveStraight || m == MoveRight
}

func (m Move) String() string {
	switch m {
	case MoveLeft:
		return "LEFT"
	case MoveStraight:
		return "STRAIGHT"
	case MoveRight:
		return "RIGHT"
	default:
		return fmt.Sprintf("Move(%d)", int(m))
	}
}

// ParseMove is the inverse of Move.String.
func ParseMove(s string) (Move, error) {
	switch s {
	case "LEFT":
		return MoveLeft, nil
	case "STRAIGHT":
		return MoveStraight, nil
	case "RIGHT":
		return MoveRight, nil
	}
	return MoveStraight, fmt.Errorf("unknown move %q", s)
}
