package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// AgentFactory builds a fresh agent for one headless game.
type AgentFactory func() (Agent, error)

// GameSummary is what one headless game produced.
type GameSummary struct {
	Game       int
	AgentName  string
	Turns      int
	Lives      int
	BestScore  int
	TotalScore int
	Deaths     map[DeathCause]int
	Err        error
}

func (s GameSummary) MeanScore() float64 {
	if s.Lives == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.Lives)
}

// BotMaster runs independent headless games side by side.
type BotMaster struct {
	Config    Config
	AgentName string
	NewAgent  AgentFactory
	Recorder  LifeRecorder
	// Observe, when set, sees every turn of every game. It is called from
	// the game goroutines and must be safe for concurrent use.
	Observe func(game int, outcome TurnOutcome)
}

// RunGames plays games games of at most turns turns each, one goroutine per
// game, and returns their summaries in game order.
func (bm *BotMaster) RunGames(ctx context.Context, games, turns int) []GameSummary {
	summaries := make([]GameSummary, games)
	var wg sync.WaitGroup
	for i := 0; i < games; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			summaries[index] = bm.runGame(ctx, index, turns)
		}(i)
	}
	wg.Wait()
	return summaries
}

func (bm *BotMaster) runGame(ctx context.Context, index, turns int) GameSummary {
	summary := GameSummary{Game: index, AgentName: bm.AgentName, Deaths: make(map[DeathCause]int)}

	agent, err := bm.NewAgent()
	if err != nil {
		summary.Err = fmt.Errorf("game %d: build agent: %w", index, err)
		return summary
	}
	cfg := bm.Config
	cfg.Seed = bm.Config.Seed + int64(index)
	gm, err := NewGameManager(cfg, agent, bm.AgentName, bm.Recorder)
	if err != nil {
		summary.Err = fmt.Errorf("game %d: %w", index, err)
		return summary
	}

	var lastLifeScore int
	alive := false
	for summary.Turns < turns {
		if ctx.Err() != nil {
			break
		}
		outcome := gm.Step()
		if outcome.SessionOver && !outcome.Died {
			break
		}
		summary.Turns++
		if bm.Observe != nil {
			bm.Observe(index, outcome)
		}
		lastLifeScore = outcome.Score
		alive = !outcome.Died
		if outcome.Died {
			summary.Lives++
			summary.TotalScore += outcome.Score
			summary.Deaths[outcome.Cause]++
		}
		if outcome.SessionOver {
			break
		}
	}
	// The life still running when the game stops counts too.
	if alive {
		summary.Lives++
		summary.TotalScore += lastLifeScore
	}
	summary.BestScore = max(gm.BestScore(), lastLifeScore)

	log.Debug("Headless game finished", "game", index, "agent", bm.AgentName, "turns", summary.Turns,
		"lives", summary.Lives, "best", summary.BestScore)
	return summary
}
