package agent

import (
	"errors"
	"testing"

	"github.com/Mshel/snakeagent/internal/game"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		facing   game.Direction
		step     game.Direction
		move     game.Move
		reversal bool
	}{
		{game.North, game.North, game.MoveStraight, false},
		{game.North, game.East, game.MoveRight, false},
		{game.North, game.West, game.MoveLeft, false},
		{game.North, game.South, 0, true},
		{game.East, game.East, game.MoveStraight, false},
		{game.East, game.South, game.MoveRight, false},
		{game.East, game.North, game.MoveLeft, false},
		{game.East, game.West, 0, true},
		{game.South, game.South, game.MoveStraight, false},
		{game.South, game.West, game.MoveRight, false},
		{game.South, game.East, game.MoveLeft, false},
		{game.South, game.North, 0, true},
		{game.West, game.West, game.MoveStraight, false},
		{game.West, game.North, game.MoveRight, false},
		{game.West, game.South, game.MoveLeft, false},
		{game.West, game.East, 0, true},
	}
	for _, tt := range tests {
		move, facing, err := Translate(tt.facing, tt.step)
		if tt.reversal {
			if !errors.Is(err, ErrReversal) {
				t.Errorf("Translate(%v,%v) err=%v want ErrReversal", tt.facing, tt.step, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Translate(%v,%v): %v", tt.facing, tt.step, err)
			continue
		}
		if move != tt.move || facing != tt.step {
			t.Errorf("Translate(%v,%v)=%v,%v want %v,%v", tt.facing, tt.step, move, facing, tt.move, tt.step)
		}
		if tt.facing.Apply(move) != tt.step {
			t.Errorf("engine would face %v after %v, not %v", tt.facing.Apply(move), move, tt.step)
		}
	}
}

func TestStepDirection(t *testing.T) {
	head := game.Position{X: 4, Y: 4}
	for _, d := range game.Directions {
		got, err := StepDirection(head, head.Add(d.Step()))
		if err != nil || got != d {
			t.Errorf("StepDirection towards %v=%v,%v", d, got, err)
		}
	}
	if _, err := StepDirection(head, game.Position{X: 6, Y: 4}); err == nil {
		t.Error("a two-cell jump should be rejected")
	}
}
