package game

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// scriptedAgent plays moves in order, then goes straight.
type scriptedAgent struct {
	moves  []Move
	next   int
	grow   bool
	redraw bool
	states []TurnState
	deaths []DeathState
}

func (a *scriptedAgent) GetMove(state TurnState) Move {
	a.states = append(a.states, state)
	if a.next < len(a.moves) {
		m := a.moves[a.next]
		a.next++
		return m
	}
	return MoveStraight
}

func (a *scriptedAgent) OnDie(state DeathState)          { a.deaths = append(a.deaths, state) }
func (a *scriptedAgent) ShouldRedrawBoard() bool         { return a.redraw }
func (a *scriptedAgent) ShouldGrowOnFoodCollision() bool { return a.grow }

type memoryRecorder struct {
	lives []LifeRecord
}

func (r *memoryRecorder) SaveLife(record LifeRecord) error {
	r.lives = append(r.lives, record)
	return nil
}

func dumpGrid(t *testing.T, name string, grid *Grid) {
	t.Helper()
	t.Logf("=== %s ===\n%s", name, grid.String())
}

// newTestGame builds a 20x20 bordered game with the snake at (10,10) facing
// North and the only food parked in a corner out of the way.
func newTestGame(t *testing.T, cfg Config, a Agent, recorder LifeRecorder) *GameManager {
	t.Helper()
	gm, err := NewGameManager(cfg, a, "test", recorder)
	if err != nil {
		t.Fatalf("NewGameManager: %v", err)
	}
	gm.SetFood(Position{X: 1, Y: 1})
	return gm
}

func TestGameManager_SpawnsCentredFacingNorth(t *testing.T) {
	gm := newTestGame(t, DefaultConfig(), &scriptedAgent{}, nil)
	s := gm.Snapshot()
	dumpGrid(t, "spawn", s.Grid)

	if s.Head != (Position{X: 10, Y: 10}) || s.Direction != North {
		t.Fatalf("head=%v dir=%v, want (10,10) NORTH", s.Head, s.Direction)
	}
	want := []Position{{X: 10, Y: 11}, {X: 10, Y: 12}}
	if len(s.Body) != len(want) {
		t.Fatalf("body=%v want=%v", s.Body, want)
	}
	for i := range want {
		if s.Body[i] != want[i] {
			t.Fatalf("body[%d]=%v want=%v", i, s.Body[i], want[i])
		}
	}
	if s.TurnsToStarve != -1 {
		t.Errorf("TurnsToStarve=%d want -1 with starvation disabled", s.TurnsToStarve)
	}
}

func TestGameManager_StepMovesHeadAndTail(t *testing.T) {
	a := &scriptedAgent{moves: []Move{MoveStraight, MoveRight}, redraw: true}
	gm := newTestGame(t, DefaultConfig(), a, nil)

	out := gm.Step()
	if out.Died || out.Head != (Position{X: 10, Y: 9}) || out.Direction != North {
		t.Fatalf("after STRAIGHT: %+v", out)
	}
	if !out.Redraw {
		t.Errorf("Redraw not taken from the agent")
	}
	out = gm.Step()
	if out.Head != (Position{X: 11, Y: 9}) || out.Direction != East {
		t.Fatalf("after RIGHT: head=%v dir=%v", out.Head, out.Direction)
	}
	if out.TurnsAlive != 2 || out.BodyLength != 2 {
		t.Errorf("turnsAlive=%d bodyLength=%d", out.TurnsAlive, out.BodyLength)
	}

	body := gm.Snapshot().Body
	if body[0] != (Position{X: 10, Y: 9}) || body[1] != (Position{X: 10, Y: 10}) {
		t.Errorf("tail did not follow: %v", body)
	}
}

func TestGameManager_AgentSeesBoard(t *testing.T) {
	a := &scriptedAgent{}
	gm := newTestGame(t, DefaultConfig(), a, nil)
	gm.Step()

	state := a.states[0]
	dumpGrid(t, "agent view", state.Grid)
	if state.Grid.At(Position{X: 10, Y: 10}) != CellSnakeHead {
		t.Errorf("head cell=%v", state.Grid.At(Position{X: 10, Y: 10}))
	}
	if state.Grid.At(Position{X: 10, Y: 12}) != CellSnakeBody {
		t.Errorf("tail cell=%v", state.Grid.At(Position{X: 10, Y: 12}))
	}
	if state.Grid.At(Position{X: 1, Y: 1}) != CellFood {
		t.Errorf("food cell=%v", state.Grid.At(Position{X: 1, Y: 1}))
	}
	if state.Grid.At(Position{X: 0, Y: 5}) != CellWall {
		t.Errorf("border cell=%v", state.Grid.At(Position{X: 0, Y: 5}))
	}
}

func TestGameManager_WallDeathAndRespawn(t *testing.T) {
	a := &scriptedAgent{}
	rec := &memoryRecorder{}
	gm := newTestGame(t, DefaultConfig(), a, rec)

	var out TurnOutcome
	for i := 0; i < 10; i++ {
		out = gm.Step()
		if out.Died && i < 9 {
			t.Fatalf("died early on turn %d: %+v", i+1, out)
		}
	}
	if !out.Died || out.Cause != DeathWall {
		t.Fatalf("expected wall death on turn 10, got %+v", out)
	}
	if out.Head != (Position{X: 10, Y: 0}) {
		t.Errorf("death head=%v", out.Head)
	}
	if len(a.deaths) != 1 {
		t.Fatalf("OnDie called %d times", len(a.deaths))
	}
	if len(rec.lives) != 1 || rec.lives[0].Cause != DeathWall || rec.lives[0].TurnsAlive != 9 {
		t.Errorf("recorded lives=%+v", rec.lives)
	}
	if gm.Lives() != 1 {
		t.Errorf("lives=%d want 1", gm.Lives())
	}

	s := gm.Snapshot()
	if s.Head != (Position{X: 10, Y: 10}) || s.Score != 0 || s.TurnsAlive != 0 {
		t.Errorf("respawned snake=%+v", s)
	}
}

func TestGameManager_DeathGridHasNoSnake(t *testing.T) {
	a := &scriptedAgent{}
	gm := newTestGame(t, DefaultConfig(), a, nil)
	for i := 0; i < 10; i++ {
		gm.Step()
	}
	if len(a.deaths) != 1 {
		t.Fatalf("OnDie called %d times", len(a.deaths))
	}
	grid := a.deaths[0].Grid
	dumpGrid(t, "death grid", grid)
	for x := 0; x < grid.Width(); x++ {
		for y := 0; y < grid.Height(); y++ {
			switch grid.At(Position{X: x, Y: y}) {
			case CellSnakeHead, CellSnakeBody:
				t.Fatalf("snake cell left at (%d,%d)", x, y)
			}
		}
	}
	if grid.At(Position{X: 1, Y: 1}) != CellFood {
		t.Errorf("food missing from death grid")
	}
}

func TestGameManager_EatGrowsAndRespawnsFood(t *testing.T) {
	for _, grow := range []bool{true, false} {
		a := &scriptedAgent{grow: grow}
		gm := newTestGame(t, DefaultConfig(), a, nil)
		gm.SetFood(Position{X: 10, Y: 9})

		out := gm.Step()
		if !out.Ate || out.Score != 1 {
			t.Fatalf("grow=%v: expected to eat, got %+v", grow, out)
		}
		wantLen := 2
		if grow {
			wantLen = 3
		}
		if out.BodyLength != wantLen {
			t.Errorf("grow=%v: body length=%d want %d", grow, out.BodyLength, wantLen)
		}
		food := gm.Food()
		if len(food) != 1 {
			t.Fatalf("grow=%v: food=%v want one piece", grow, food)
		}
		if food[0] == out.Head {
			t.Errorf("grow=%v: food respawned under the head", grow)
		}
	}
}

func TestGameManager_Starvation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StarveAfter = 3
	a := &scriptedAgent{}
	gm := newTestGame(t, cfg, a, nil)

	if got := gm.Snapshot().TurnsToStarve; got != 3 {
		t.Fatalf("TurnsToStarve=%d want 3", got)
	}
	out := gm.Step()
	if out.Died || out.TurnsToStarve != 2 {
		t.Fatalf("turn 1: %+v", out)
	}
	out = gm.Step()
	if out.Died || out.TurnsToStarve != 1 {
		t.Fatalf("turn 2: %+v", out)
	}
	out = gm.Step()
	if !out.Died || out.Cause != DeathStarved {
		t.Fatalf("turn 3: expected starvation, got %+v", out)
	}
}

func TestGameManager_EatingResetsStarvation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StarveAfter = 3
	gm := newTestGame(t, cfg, &scriptedAgent{grow: true}, nil)

	gm.Step()
	gm.SetFood(Position{X: 10, Y: 8})
	out := gm.Step()
	if !out.Ate || out.TurnsToStarve != 3 {
		t.Fatalf("expected reset counter after eating, got %+v", out)
	}
}

func TestGameManager_InvalidMove(t *testing.T) {
	a := &scriptedAgent{moves: []Move{Move(5)}}
	gm := newTestGame(t, DefaultConfig(), a, nil)

	out := gm.Step()
	if !out.Died || out.Cause != DeathInvalidMove {
		t.Fatalf("expected invalid-move death, got %+v", out)
	}
	if out.Head != (Position{X: 10, Y: 10}) {
		t.Errorf("head moved on an invalid move: %v", out.Head)
	}
}

func TestGameManager_SelfCollision(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialLength = 5
	a := &scriptedAgent{moves: []Move{MoveRight, MoveRight, MoveRight}}
	gm := newTestGame(t, cfg, a, nil)

	gm.Step()
	gm.Step()
	out := gm.Step()
	if !out.Died || out.Cause != DeathSelf {
		t.Fatalf("expected self collision, got %+v", out)
	}
}

func TestGameManager_TailCellIsFree(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialLength = 4
	a := &scriptedAgent{moves: []Move{MoveRight, MoveRight, MoveRight}}
	gm := newTestGame(t, cfg, a, nil)

	gm.Step()
	gm.Step()
	out := gm.Step()
	if out.Died {
		t.Fatalf("moving into the vacating tail killed the snake: %+v", out)
	}
	if out.Head != (Position{X: 10, Y: 11}) {
		t.Errorf("head=%v want (10,11)", out.Head)
	}
}

func TestGameManager_MaxLivesEndsSession(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLives = 1
	gm := newTestGame(t, cfg, &scriptedAgent{moves: []Move{Move(9)}}, nil)

	out := gm.Step()
	if !out.Died || !out.SessionOver {
		t.Fatalf("expected the last death to end the session, got %+v", out)
	}
	out = gm.Step()
	if out.Died || !out.SessionOver {
		t.Fatalf("step after session end: %+v", out)
	}
	if !gm.Snapshot().SessionOver {
		t.Errorf("snapshot does not report session over")
	}
}

func TestGameManager_Layout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout = []string{
		"#######",
		"#.....#",
		"#.###.#",
		"#.....#",
		"#.....#",
		"#.....#",
		"#######",
	}
	gm, err := NewGameManager(cfg, &scriptedAgent{}, "test", nil)
	if err != nil {
		t.Fatalf("NewGameManager: %v", err)
	}
	s := gm.Snapshot()
	dumpGrid(t, "layout", s.Grid)
	if s.Grid.Width() != 7 || s.Grid.Height() != 7 {
		t.Fatalf("size=%dx%d", s.Grid.Width(), s.Grid.Height())
	}
	if s.Grid.At(Position{X: 3, Y: 2}) != CellWall {
		t.Errorf("inner wall missing")
	}
	if s.Head != (Position{X: 3, Y: 3}) {
		t.Errorf("head=%v want centre (3,3)", s.Head)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(c *Config) {}, true},
		{"too small", func(c *Config) { c.Width = 3 }, false},
		{"too large", func(c *Config) { c.Height = MaxGridSide + 1 }, false},
		{"negative food", func(c *Config) { c.FoodCount = -1 }, false},
		{"no head", func(c *Config) { c.InitialLength = 0 }, false},
		{"no tick", func(c *Config) { c.TickDuration = 0 }, false},
		{"ragged layout", func(c *Config) { c.Layout = []string{"###", "#"} }, false},
		{"layout overrides size", func(c *Config) { c.Width = 1; c.Layout = []string{"###", "#.#", "###"} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Fatalf("Validate()=%v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestGameManager_RecordsToSQLite(t *testing.T) {
	svc, err := NewHighScoreService(filepath.Join(t.TempDir(), "lives.db"))
	if err != nil {
		t.Fatalf("NewHighScoreService: %v", err)
	}
	defer svc.Close()

	gm := newTestGame(t, DefaultConfig(), &scriptedAgent{moves: []Move{Move(7)}}, svc)
	gm.Step()

	lives, err := svc.GetHighScores(10, 0)
	if err != nil {
		t.Fatalf("GetHighScores: %v", err)
	}
	if len(lives) != 1 || lives[0].Cause != DeathInvalidMove || lives[0].AgentName != "test" {
		t.Fatalf("stored lives=%+v", lives)
	}
}

func TestGameManager_StartGameLoopPublishes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickDuration = time.Millisecond
	gm := newTestGame(t, cfg, &scriptedAgent{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gm.StartGameLoop(ctx)

	timeout := time.After(2 * time.Second)
	for turns := 0; turns < 3; {
		select {
		case msg := <-gm.UpdateChannel:
			if tm, ok := msg.(TurnMsg); ok {
				turns++
				if tm.Outcome.Turn != turns {
					t.Fatalf("turn message %d carried turn %d", turns, tm.Outcome.Turn)
				}
			}
		case <-timeout:
			t.Fatal("no turn messages from the game loop")
		}
	}
}

func TestGameManager_PauseStopsLoop(t *testing.T) {
	gm := newTestGame(t, DefaultConfig(), &scriptedAgent{}, nil)
	if !gm.TogglePause() || !gm.Paused() {
		t.Fatal("expected paused")
	}
	if gm.TogglePause() || gm.Paused() {
		t.Fatal("expected resumed")
	}
}
