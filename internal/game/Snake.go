package game

// Snake is the engine-side record of the living snake.
type Snake struct {
	Head          Position
	Body          []Position // neck first, tail last
	Direction     Direction
	Score         int
	TurnsAlive    int
	TurnsToStarve int
}

// CreateNewSnake spawns a snake facing North with its body trailing south.
// Body segments that would leave the board or hit a wall are dropped.
func CreateNewSnake(spawn Position, length int, starveAfter int, walls *Grid) *Snake {
	snake := &Snake{
		Head:          spawn,
		Direction:     North,
		TurnsToStarve: -1,
	}
	if starveAfter > 0 {
		snake.TurnsToStarve = starveAfter
	}

	next := spawn
	for i := 1; i < length; i++ {
		next = next.Add(North.Opposite().Step())
		if !walls.InBounds(next) || walls.At(next) != CellEmpty {
			break
		}
		snake.Body = append(snake.Body, next)
	}
	return snake
}

// Occupies reports whether p is the head or a body segment.
func (s *Snake) Occupies(p Position) bool {
	if s.Head == p {
		return true
	}
	for _, b := range s.Body {
		if b == p {
			return true
		}
	}
	return false
}

func (s *Snake) Tail() (Position, bool) {
	if len(s.Body) == 0 {
		return Position{}, false
	}
	return s.Body[len(s.Body)-1], true
}

// Advance moves the head to next. When grow is set the tail stays put.
func (s *Snake) Advance(next Position, grow bool) {
	body := make([]Position, 0, len(s.Body)+1)
	body = append(body, s.Head)
	body = append(body, s.Body...)
	if !grow {
		body = body[:len(body)-1]
	}
	s.Body = body
	s.Head = next
}

func (s *Snake) BodyCopy() []Position {
	out := make([]Position, len(s.Body))
	copy(out, s.Body)
	return out
}
