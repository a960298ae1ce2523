package agent

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/Mshel/snakeagent/internal/game"
)

const (
	StrategyAStar    = "astar"
	StrategyStraight = "straight"
	StrategyLua      = "lua"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Options are the static toggles shared by every strategy.
type Options struct {
	Redraw       bool
	Grow         bool
	TailPassable bool
	// ScriptPath is read by the lua strategy.
	ScriptPath string
}

func DefaultOptions() Options {
	return Options{Redraw: true, Grow: true, TailPassable: true}
}

// RegisterFlags binds the strategy toggles to fs.
func (o *Options) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&o.Redraw, "redraw", o.Redraw, "Redraw the board every turn")
	fs.BoolVar(&o.Grow, "grow", o.Grow, "Grow when food is eaten")
	fs.BoolVar(&o.TailPassable, "tail-passable", o.TailPassable, "Let routes enter the cell the tail is leaving")
	fs.StringVar(&o.ScriptPath, "script", o.ScriptPath, "Lua script for the lua strategy")
}

var registry = map[string]func(Options) (game.Agent, error){
	StrategyAStar: func(opts Options) (game.Agent, error) {
		return NewAStarAgent(opts), nil
	},
	StrategyStraight: func(opts Options) (game.Agent, error) {
		return &StraightAgent{Redraw: opts.Redraw, Grow: opts.Grow}, nil
	},
	StrategyLua: func(opts Options) (game.Agent, error) {
		if opts.ScriptPath == "" {
			return nil, fmt.Errorf("lua strategy needs a script path")
		}
		source, err := os.ReadFile(opts.ScriptPath)
		if err != nil {
			return nil, fmt.Errorf("read lua script: %w", err)
		}
		return NewLuaAgent(opts.ScriptPath, string(source), opts)
	},
}

// New builds the named strategy.
func New(name string, opts Options) (game.Agent, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return build(opts)
}

// Names lists the registered strategies in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSession builds an engine hosting a fresh instance of the named strategy.
func NewSession(cfg game.Config, strategy string, opts Options, recorder game.LifeRecorder) (*game.GameManager, error) {
	brain, err := New(strategy, opts)
	if err != nil {
		return nil, err
	}
	return game.NewGameManager(cfg, brain, strategy, recorder)
}
