package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type DeathCause string

const (
	DeathWall        DeathCause = "wall"
	DeathOutOfBounds DeathCause = "out-of-bounds"
	DeathSelf        DeathCause = "self"
	DeathStarved     DeathCause = "starved"
	DeathInvalidMove DeathCause = "invalid-move"
)

// TurnOutcome is the result of one engine step.
type TurnOutcome struct {
	Turn          int
	Life          int
	Move          Move
	Direction     Direction
	Head          Position
	Score         int
	TurnsAlive    int
	TurnsToStarve int
	BodyLength    int
	Ate           bool
	Redraw        bool
	Insight       Insight
	Died          bool
	Cause         DeathCause
	SessionOver   bool
}

type TurnMsg struct {
	Outcome TurnOutcome
}

type LifeEndedMsg struct {
	Life LifeRecord
}

type SessionOverMsg struct {
	Lives     int
	BestScore int
}

// Snapshot is a read-only copy of the engine state for renderers.
type Snapshot struct {
	AgentName     string
	Grid          *Grid
	Head          Position
	Body          []Position
	Direction     Direction
	Score         int
	TurnsAlive    int
	TurnsToStarve int
	Turn          int
	Lives         int
	BestScore     int
	Insight       Insight
	SessionOver   bool
}

// GameManager is a single-snake engine hosting one Agent.
type GameManager struct {
	Config        Config
	Agent         Agent
	AgentName     string
	Recorder      LifeRecorder
	UpdateChannel chan tea.Msg

	mu          sync.RWMutex
	walls       *Grid
	food        []Position
	snake       *Snake
	rng         *rand.Rand
	turn        int
	lives       int
	bestScore   int
	lastInsight Insight
	isRunning   bool
	paused      bool
	// respawnFailed ends the session when no spawn cell is left.
	respawnFailed bool
}

func NewGameManager(cfg Config, agent Agent, agentName string, recorder LifeRecorder) (*GameManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, fmt.Errorf("new game manager: nil agent")
	}

	gm := &GameManager{
		Config:        cfg,
		Agent:         agent,
		AgentName:     agentName,
		Recorder:      recorder,
		UpdateChannel: make(chan tea.Msg, 16),
		walls:         cfg.walls(),
		rng:           rand.New(rand.NewSource(cfg.Seed)),
	}
	if err := gm.respawn(); err != nil {
		return nil, err
	}
	return gm, nil
}

// StartGameLoop steps the engine every tick until ctx is done or the session
// runs out of lives.
func (gm *GameManager) StartGameLoop(ctx context.Context) {
	gm.mu.Lock()
	if gm.isRunning {
		gm.mu.Unlock()
		return
	}
	gm.isRunning = true
	gm.mu.Unlock()

	defer func() {
		gm.mu.Lock()
		gm.isRunning = false
		gm.mu.Unlock()
	}()

	log.Info("Game loop started.", "agent", gm.AgentName, "tick", gm.Config.TickDuration)
	ticker := time.NewTicker(gm.Config.TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Game loop stopped.", "agent", gm.AgentName)
			return
		case <-ticker.C:
			if gm.Paused() {
				continue
			}
			outcome := gm.Step()
			if outcome.Died {
				gm.publish(ctx, LifeEndedMsg{Life: gm.lifeRecord(outcome)})
			}
			if outcome.Died || !outcome.SessionOver {
				gm.publish(ctx, TurnMsg{Outcome: outcome})
			}
			if outcome.SessionOver {
				gm.publish(ctx, SessionOverMsg{Lives: gm.Lives(), BestScore: gm.BestScore()})
				log.Info("Session over.", "agent", gm.AgentName, "lives", gm.Lives())
				return
			}
		}
	}
}

func (gm *GameManager) publish(ctx context.Context, msg tea.Msg) {
	select {
	case gm.UpdateChannel <- msg:
	case <-ctx.Done():
	}
}

// Step plays one turn: ask the agent, move, resolve food, collisions and
// starvation, and handle death.
func (gm *GameManager) Step() TurnOutcome {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if gm.sessionOver() {
		return TurnOutcome{Turn: gm.turn, Life: gm.lives, SessionOver: true}
	}

	gm.turn++
	snake := gm.snake
	outcome := TurnOutcome{
		Turn:   gm.turn,
		Life:   gm.lives + 1,
		Redraw: gm.Agent.ShouldRedrawBoard(),
	}

	move := gm.Agent.GetMove(TurnState{
		Grid:          gm.board(),
		Score:         snake.Score,
		TurnsAlive:    snake.TurnsAlive,
		TurnsToStarve: snake.TurnsToStarve,
		Direction:     snake.Direction,
		Head:          snake.Head,
		Body:          snake.BodyCopy(),
	})
	outcome.Move = move
	if introspector, ok := gm.Agent.(Introspector); ok {
		gm.lastInsight = introspector.LastInsight()
		outcome.Insight = gm.lastInsight
	}

	if !move.Valid() {
		return gm.die(outcome, snake.Head, DeathInvalidMove)
	}

	direction := snake.Direction.Apply(move)
	next := snake.Head.Add(direction.Step())
	outcome.Direction = direction

	if !gm.walls.InBounds(next) {
		return gm.die(outcome, next, DeathOutOfBounds)
	}
	if gm.walls.At(next) == CellWall {
		return gm.die(outcome, next, DeathWall)
	}

	food, ate := removeFood(gm.food, next)
	grow := ate && gm.Agent.ShouldGrowOnFoodCollision()
	if gm.hitsBody(next, grow) {
		return gm.die(outcome, next, DeathSelf)
	}

	gm.food = food
	snake.Direction = direction
	snake.Advance(next, grow)
	snake.TurnsAlive++
	outcome.Ate = ate

	if ate {
		snake.Score++
		if gm.Config.StarveAfter > 0 {
			snake.TurnsToStarve = gm.Config.StarveAfter
		}
		var ok bool
		if gm.food, ok = spawnFood(gm.rng, gm.walls, snake, gm.food, gm.Config.FoodCount); !ok {
			log.Debug("No free cell left for food.", "turn", gm.turn)
		}
	} else if snake.TurnsToStarve > 0 {
		if snake.TurnsToStarve == 1 {
			return gm.die(outcome, snake.Head, DeathStarved)
		}
		snake.TurnsToStarve--
	}

	gm.fillOutcome(&outcome)
	return outcome
}

// hitsBody checks next against the body. The tail vacates its cell unless the
// snake grows this turn.
func (gm *GameManager) hitsBody(next Position, grow bool) bool {
	body := gm.snake.Body
	if !grow && len(body) > 0 {
		body = body[:len(body)-1]
	}
	for _, b := range body {
		if b == next {
			return true
		}
	}
	return false
}

func (gm *GameManager) die(outcome TurnOutcome, head Position, cause DeathCause) TurnOutcome {
	snake := gm.snake
	gm.Agent.OnDie(DeathState{
		Head:  head,
		Grid:  gm.foodBoard(),
		Score: snake.Score,
		Body:  snake.BodyCopy(),
	})

	gm.fillOutcome(&outcome)
	outcome.Head = head
	outcome.Died = true
	outcome.Cause = cause

	record := gm.lifeRecord(outcome)
	if gm.Recorder != nil {
		if err := gm.Recorder.SaveLife(record); err != nil {
			log.Error("Could not record life", "agent", gm.AgentName, "error", err)
		}
	}

	log.Info("Snake died", "agent", gm.AgentName, "life", outcome.Life, "cause", cause,
		"score", snake.Score, "turns_alive", snake.TurnsAlive)

	gm.lives++
	if snake.Score > gm.bestScore {
		gm.bestScore = snake.Score
	}
	if gm.sessionOver() {
		outcome.SessionOver = true
	} else if err := gm.respawn(); err != nil {
		log.Error("Could not respawn snake", "agent", gm.AgentName, "error", err)
		gm.respawnFailed = true
		outcome.SessionOver = true
	}
	return outcome
}

func (gm *GameManager) fillOutcome(outcome *TurnOutcome) {
	outcome.Direction = gm.snake.Direction
	outcome.Head = gm.snake.Head
	outcome.Score = gm.snake.Score
	outcome.TurnsAlive = gm.snake.TurnsAlive
	outcome.TurnsToStarve = gm.snake.TurnsToStarve
	outcome.BodyLength = len(gm.snake.Body)
}

func (gm *GameManager) lifeRecord(outcome TurnOutcome) LifeRecord {
	return LifeRecord{
		AgentName:  gm.AgentName,
		Life:       outcome.Life,
		Score:      outcome.Score,
		TurnsAlive: outcome.TurnsAlive,
		Cause:      outcome.Cause,
	}
}

func (gm *GameManager) sessionOver() bool {
	return gm.respawnFailed || (gm.Config.MaxLives > 0 && gm.lives >= gm.Config.MaxLives)
}

// respawn places a fresh snake on the first open cell scanning from the
// centre of the board.
func (gm *GameManager) respawn() error {
	spawn, ok := gm.spawnTile()
	if !ok {
		return fmt.Errorf("respawn: no free cell on %dx%d board", gm.walls.Width(), gm.walls.Height())
	}
	gm.snake = CreateNewSnake(spawn, gm.Config.InitialLength, gm.Config.StarveAfter, gm.walls)

	// Food under the new snake is dropped and replaced.
	kept := gm.food[:0]
	for _, f := range gm.food {
		if !gm.snake.Occupies(f) {
			kept = append(kept, f)
		}
	}
	gm.food, _ = spawnFood(gm.rng, gm.walls, gm.snake, kept, gm.Config.FoodCount)
	gm.lastInsight = Insight{}
	return nil
}

func (gm *GameManager) spawnTile() (Position, bool) {
	center := Position{X: gm.walls.Width() / 2, Y: gm.walls.Height() / 2}
	if gm.walls.At(center) == CellEmpty {
		return center, true
	}
	for x := 0; x < gm.walls.Width(); x++ {
		for y := 0; y < gm.walls.Height(); y++ {
			p := Position{X: x, Y: y}
			if gm.walls.At(p) == CellEmpty {
				return p, true
			}
		}
	}
	return Position{}, false
}

// board composes walls, food and the snake into a fresh grid.
func (gm *GameManager) board() *Grid {
	grid := gm.foodBoard()
	for _, b := range gm.snake.Body {
		grid.Set(b, CellSnakeBody)
	}
	grid.Set(gm.snake.Head, CellSnakeHead)
	return grid
}

func (gm *GameManager) foodBoard() *Grid {
	grid := gm.walls.Clone()
	for _, f := range gm.food {
		grid.Set(f, CellFood)
	}
	return grid
}

func (gm *GameManager) Snapshot() Snapshot {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	return Snapshot{
		AgentName:     gm.AgentName,
		Grid:          gm.board(),
		Head:          gm.snake.Head,
		Body:          gm.snake.BodyCopy(),
		Direction:     gm.snake.Direction,
		Score:         gm.snake.Score,
		TurnsAlive:    gm.snake.TurnsAlive,
		TurnsToStarve: gm.snake.TurnsToStarve,
		Turn:          gm.turn,
		Lives:         gm.lives,
		BestScore:     gm.bestScore,
		Insight:       gm.lastInsight,
		SessionOver:   gm.sessionOver(),
	}
}

// TogglePause stops or resumes the game loop and reports whether it is now
// paused. Step still works while paused.
func (gm *GameManager) TogglePause() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.paused = !gm.paused
	return gm.paused
}

func (gm *GameManager) Paused() bool {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return gm.paused
}

func (gm *GameManager) Lives() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return gm.lives
}

func (gm *GameManager) BestScore() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return gm.bestScore
}

// Food returns a copy of the food positions.
func (gm *GameManager) Food() []Position {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	out := make([]Position, len(gm.food))
	copy(out, gm.food)
	return out
}

// SetFood replaces the food on the board. Positions that are not free are
// skipped.
func (gm *GameManager) SetFood(food ...Position) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	placed := make([]Position, 0, len(food))
	for _, f := range food {
		if gm.walls.At(f) != CellEmpty || gm.snake.Occupies(f) {
			continue
		}
		placed = append(placed, f)
	}
	gm.food = placed
}
