package game

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	GameTickDuration     = 100 * time.Millisecond
	VoidColor            = 233
	WallColor            = 172
	FoodColor            = 196
	RouteColor           = 240
	DefaultGridWidth     = 20
	DefaultGridHeight    = 20
	DefaultFoodCount     = 1
	DefaultInitialLength = 3
	MinGridSide          = 5
	MaxGridSide          = 200
)

// Config describes how the engine lays out and scores a session.
type Config struct {
	Width  int
	Height int
	// Layout, when set, replaces the border walls. Only '#' cells are read.
	Layout []string
	// FoodCount pieces of food are kept on the board.
	FoodCount int
	// InitialLength includes the head.
	InitialLength int
	// StarveAfter is the number of turns a snake may go without eating; 0 or
	// less disables starvation.
	StarveAfter  int
	MaxLives     int
	TickDuration time.Duration
	Seed         int64
}

func DefaultConfig() Config {
	return Config{
		Width:         DefaultGridWidth,
		Height:        DefaultGridHeight,
		FoodCount:     DefaultFoodCount,
		InitialLength: DefaultInitialLength,
		StarveAfter:   -1,
		MaxLives:      0,
		TickDuration:  GameTickDuration,
		Seed:          1,
	}
}

var ErrInvalidConfig = errors.New("invalid config")

func (c Config) Validate() error {
	if len(c.Layout) > 0 {
		if _, err := ParseGrid(c.Layout...); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	} else if c.Width < MinGridSide || c.Height < MinGridSide || c.Width > MaxGridSide || c.Height > MaxGridSide {
		return fmt.Errorf("%w: grid %dx%d outside [%d, %d]", ErrInvalidConfig, c.Width, c.Height, MinGridSide, MaxGridSide)
	}
	if c.FoodCount < 0 {
		return fmt.Errorf("%w: negative food count %d", ErrInvalidConfig, c.FoodCount)
	}
	if c.InitialLength < 1 {
		return fmt.Errorf("%w: initial length %d must be at least 1", ErrInvalidConfig, c.InitialLength)
	}
	if c.TickDuration <= 0 {
		return fmt.Errorf("%w: tick duration %v", ErrInvalidConfig, c.TickDuration)
	}
	return nil
}

// walls builds the static part of the board.
func (c Config) walls() *Grid {
	if len(c.Layout) == 0 {
		return BorderWalls(c.Width, c.Height)
	}
	layout, _ := ParseGrid(c.Layout...)
	grid := NewGrid(layout.Width(), layout.Height())
	for x := 0; x < layout.Width(); x++ {
		for y := 0; y < layout.Height(); y++ {
			p := Position{X: x, Y: y}
			if layout.At(p) == CellWall {
				grid.Set(p, CellWall)
			}
		}
	}
	return grid
}

// RegisterFlags binds the config fields to fs. Defaults come from c, then
// from SNAKEAGENT_* environment variables.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", envInt("SNAKEAGENT_WIDTH", c.Width), "Grid width including border walls")
	fs.IntVar(&c.Height, "height", envInt("SNAKEAGENT_HEIGHT", c.Height), "Grid height including border walls")
	fs.IntVar(&c.FoodCount, "food", envInt("SNAKEAGENT_FOOD", c.FoodCount), "Pieces of food kept on the board")
	fs.IntVar(&c.InitialLength, "length", envInt("SNAKEAGENT_LENGTH", c.InitialLength), "Initial snake length including the head")
	fs.IntVar(&c.StarveAfter, "starve-after", envInt("SNAKEAGENT_STARVE_AFTER", c.StarveAfter), "Turns without food before starving (<= 0 disables)")
	fs.IntVar(&c.MaxLives, "max-lives", envInt("SNAKEAGENT_MAX_LIVES", c.MaxLives), "Lives per session (0 = unlimited)")
	fs.DurationVar(&c.TickDuration, "tick", envDuration("SNAKEAGENT_TICK", c.TickDuration), "Time between engine turns")
	fs.Int64Var(&c.Seed, "seed", int64(envInt("SNAKEAGENT_SEED", int(c.Seed))), "Food placement seed")
}

func envInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
