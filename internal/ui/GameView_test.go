package ui

import (
	"strings"
	"testing"

	"github.com/Mshel/snakeagent/internal/game"
)

func TestParseGridSize(t *testing.T) {
	tests := []struct {
		in   string
		w, h int
		ok   bool
	}{
		{"", game.DefaultGridWidth, game.DefaultGridHeight, true},
		{"30x12", 30, 12, true},
		{" 15 ", 15, 15, true},
		{"40X40", 40, 40, true},
		{"4x40", 0, 0, false},
		{"axb", 0, 0, false},
		{"999", 0, 0, false},
	}
	for _, tt := range tests {
		w, h, err := ParseGridSize(tt.in)
		if (err == nil) != tt.ok || w != tt.w || h != tt.h {
			t.Errorf("ParseGridSize(%q)=%d,%d,%v", tt.in, w, h, err)
		}
	}
}

func TestViewport(t *testing.T) {
	tests := []struct {
		center, size, total int
		start, end          int
	}{
		{5, 20, 10, 0, 10},
		{0, 4, 10, 0, 4},
		{9, 4, 10, 6, 10},
		{5, 4, 10, 3, 7},
	}
	for _, tt := range tests {
		start, end := viewport(tt.center, tt.size, tt.total)
		if start != tt.start || end != tt.end {
			t.Errorf("viewport(%d,%d,%d)=%d,%d want %d,%d", tt.center, tt.size, tt.total, start, end, tt.start, tt.end)
		}
	}
}

func TestBodyRunes(t *testing.T) {
	head := game.Position{X: 2, Y: 1}
	body := []game.Position{{X: 2, Y: 2}, {X: 3, Y: 2}, {X: 4, Y: 2}}
	runes := bodyRunes(head, body)
	want := map[game.Position]string{
		{X: 2, Y: 2}: "└",
		{X: 3, Y: 2}: "─",
		{X: 4, Y: 2}: "─",
	}
	for p, r := range want {
		if runes[p] != r {
			t.Errorf("rune at %v=%q want %q", p, runes[p], r)
		}
	}
}

func TestRenderMapShowsRoute(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Width, cfg.Height = 7, 7
	gm, err := game.NewGameManager(cfg, &stubAgent{}, "stub", nil)
	if err != nil {
		t.Fatalf("NewGameManager: %v", err)
	}
	s := gm.Snapshot()
	s.Insight = game.Insight{HasTarget: true, Target: game.Position{X: 3, Y: 1}, Route: []game.Position{{X: 3, Y: 2}, {X: 3, Y: 1}}}

	out := renderMap(s, 7, 7)
	for _, want := range []string{"▲", "·", "▒"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered map lacks %q:\n%s", want, out)
		}
	}
}

type stubAgent struct{}

func (stubAgent) GetMove(game.TurnState) game.Move { return game.MoveStraight }
func (stubAgent) OnDie(game.DeathState)            {}
func (stubAgent) ShouldRedrawBoard() bool          { return true }
func (stubAgent) ShouldGrowOnFoodCollision() bool  { return true }
