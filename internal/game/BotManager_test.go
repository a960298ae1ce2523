package game

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func straightFactory() (Agent, error) {
	return &scriptedAgent{}, nil
}

func TestBotMaster_RunGames(t *testing.T) {
	var mu sync.Mutex
	observed := make(map[int]int)

	bm := &BotMaster{
		Config:    DefaultConfig(),
		AgentName: "straight",
		NewAgent:  straightFactory,
		Observe: func(game int, outcome TurnOutcome) {
			mu.Lock()
			observed[game]++
			mu.Unlock()
		},
	}
	summaries := bm.RunGames(context.Background(), 3, 50)
	if len(summaries) != 3 {
		t.Fatalf("got %d summaries", len(summaries))
	}
	for i, s := range summaries {
		if s.Err != nil {
			t.Fatalf("game %d: %v", i, s.Err)
		}
		if s.Game != i || s.Turns != 50 {
			t.Errorf("game %d: %+v", i, s)
		}
		// Going straight from the centre of a 20x20 board hits the wall every 10 turns.
		if s.Lives != 5 || s.Deaths[DeathWall] != 5 {
			t.Errorf("game %d: lives=%d deaths=%v", i, s.Lives, s.Deaths)
		}
		if observed[i] != 50 {
			t.Errorf("game %d: observed %d turns", i, observed[i])
		}
	}
}

func TestBotMaster_CountsRunningLife(t *testing.T) {
	bm := &BotMaster{Config: DefaultConfig(), AgentName: "straight", NewAgent: straightFactory}
	s := bm.RunGames(context.Background(), 1, 15)[0]
	if s.Lives != 2 || s.Deaths[DeathWall] != 1 {
		t.Errorf("lives=%d deaths=%v, want one death and one running life", s.Lives, s.Deaths)
	}
}

func TestBotMaster_StopsAtMaxLives(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLives = 2
	bm := &BotMaster{Config: cfg, AgentName: "straight", NewAgent: straightFactory}
	s := bm.RunGames(context.Background(), 1, 100)[0]
	if s.Turns != 20 || s.Lives != 2 {
		t.Errorf("turns=%d lives=%d, want 20 and 2", s.Turns, s.Lives)
	}
}

func TestBotMaster_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	bm := &BotMaster{
		Config:   DefaultConfig(),
		NewAgent: func() (Agent, error) { return nil, boom },
	}
	s := bm.RunGames(context.Background(), 1, 10)[0]
	if !errors.Is(s.Err, boom) {
		t.Errorf("err=%v want boom", s.Err)
	}
}

func TestBotMaster_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bm := &BotMaster{Config: DefaultConfig(), NewAgent: straightFactory}
	s := bm.RunGames(ctx, 1, 10)[0]
	if s.Turns != 0 {
		t.Errorf("ran %d turns on a cancelled context", s.Turns)
	}
}

func TestGameSummary_MeanScore(t *testing.T) {
	if (GameSummary{}).MeanScore() != 0 {
		t.Error("empty summary should have mean 0")
	}
	if got := (GameSummary{Lives: 4, TotalScore: 10}).MeanScore(); got != 2.5 {
		t.Errorf("mean=%v want 2.5", got)
	}
}
