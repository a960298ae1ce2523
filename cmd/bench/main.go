package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/Mshel/snakeagent/internal/agent"
	"github.com/Mshel/snakeagent/internal/game"
	"github.com/Mshel/snakeagent/internal/trace"
	"github.com/charmbracelet/log"
)

func main() {
	cfg := game.DefaultConfig()
	opts := agent.DefaultOptions()
	opts.Redraw = false

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	cfg.RegisterFlags(fs)
	opts.RegisterFlags(fs)
	strategy := fs.String("strategy", agent.StrategyAStar, fmt.Sprintf("Strategy to benchmark %v", agent.Names()))
	games := fs.Int("games", 8, "Number of games to run in parallel")
	turns := fs.Int("turns", 2000, "Turns per game")
	dbPath := fs.String("db", "", "SQLite life history file (empty disables it)")
	traceOut := fs.String("trace-out", "", "If set, write every turn to this parquet file")
	debug := fs.Bool("debug", false, "Log every move")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	if _, err := agent.New(*strategy, opts); err != nil {
		log.Fatal("Unusable strategy", "strategy", *strategy, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bm := &game.BotMaster{
		Config:    cfg,
		AgentName: *strategy,
		NewAgent: func() (game.Agent, error) {
			return agent.New(*strategy, opts)
		},
	}
	if *dbPath != "" {
		highScores, err := game.NewHighScoreService(*dbPath)
		if err != nil {
			log.Fatal("Could not open life history", "path", *dbPath, "error", err)
		}
		defer highScores.Close()
		bm.Recorder = highScores
	}
	var recorder *trace.Recorder
	if *traceOut != "" {
		recorder = &trace.Recorder{}
		bm.Observe = recorder.Observe
	}

	start := time.Now()
	summaries := bm.RunGames(ctx, *games, *turns)
	elapsed := time.Since(start)

	deaths := make(map[game.DeathCause]int)
	var lives, totalScore, best, totalTurns int
	for _, s := range summaries {
		if s.Err != nil {
			log.Error("Game failed", "game", s.Game, "error", s.Err)
			continue
		}
		log.Info("Game", "game", s.Game, "turns", s.Turns, "lives", s.Lives, "best", s.BestScore,
			"mean", fmt.Sprintf("%.2f", s.MeanScore()))
		lives += s.Lives
		totalScore += s.TotalScore
		totalTurns += s.Turns
		best = max(best, s.BestScore)
		for cause, n := range s.Deaths {
			deaths[cause] += n
		}
	}

	mean := 0.0
	if lives > 0 {
		mean = float64(totalScore) / float64(lives)
	}
	log.Info("Benchmark finished", "strategy", *strategy, "games", len(summaries), "turns", totalTurns,
		"lives", lives, "best", best, "mean", fmt.Sprintf("%.2f", mean), "elapsed", elapsed)

	causes := make([]string, 0, len(deaths))
	for cause := range deaths {
		causes = append(causes, string(cause))
	}
	sort.Strings(causes)
	for _, cause := range causes {
		log.Info("Deaths", "cause", cause, "count", deaths[game.DeathCause(cause)])
	}

	if recorder != nil {
		rows := recorder.Rows()
		if err := trace.WriteParquet(*traceOut, rows); err != nil {
			log.Fatal("Could not write trace", "path", *traceOut, "error", err)
		}
		log.Info("Trace written", "path", *traceOut, "rows", len(rows))
	}
}
