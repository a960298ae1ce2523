package agent

import "github.com/Mshel/snakeagent/internal/game"

// StraightAgent never turns. It is the baseline every other brain should beat.
type StraightAgent struct {
	Redraw bool
	Grow   bool
}

func (s *StraightAgent) GetMove(game.TurnState) game.Move { return game.MoveStraight }
func (s *StraightAgent) OnDie(game.DeathState)            {}
func (s *StraightAgent) ShouldRedrawBoard() bool          { return s.Redraw }
func (s *StraightAgent) ShouldGrowOnFoodCollision() bool  { return s.Grow }
