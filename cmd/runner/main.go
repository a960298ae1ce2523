package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Mshel/snakeagent/internal/agent"
	"github.com/Mshel/snakeagent/internal/game"
	"github.com/Mshel/snakeagent/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

func main() {
	cfg := game.DefaultConfig()
	opts := agent.DefaultOptions()

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	cfg.RegisterFlags(fs)
	opts.RegisterFlags(fs)
	dbPath := fs.String("db", game.DefaultDBPath, "SQLite life history file (empty disables it)")
	logFile := fs.String("log-file", "snakeagent.log", "Log file; the terminal belongs to the viewer")
	debug := fs.Bool("debug", false, "Log every move")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	log.SetOutput(f)
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	var highScores *game.HighScoreService
	var recorder game.LifeRecorder
	if *dbPath != "" {
		if highScores, err = game.NewHighScoreService(*dbPath); err != nil {
			log.Error("Could not open life history", "path", *dbPath, "error", err)
		} else {
			defer highScores.Close()
			recorder = highScores
		}
	}

	newGame := func(setup ui.SetupSubmitMsg) (*game.GameManager, error) {
		session := cfg
		session.Width, session.Height = setup.Width, setup.Height
		return agent.NewSession(session, setup.Strategy, opts, recorder)
	}

	controller := ui.NewControllerModel(context.Background(), newGame, highScores, agent.Names(), 0, 0)
	p := tea.NewProgram(controller, tea.WithAltScreen())
	final, err := p.Run()
	if c, ok := final.(ui.ControllerModel); ok {
		c.Close()
	}
	if err != nil {
		fmt.Printf("error %v", err)
		os.Exit(1)
	}
}
