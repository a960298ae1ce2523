package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/Mshel/snakeagent/internal/game"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// Row is one engine turn of one headless game.
type Row struct {
	Game          int32  `parquet:"game"`
	Turn          int32  `parquet:"turn"`
	Life          int32  `parquet:"life"`
	HeadX         int32  `parquet:"head_x"`
	HeadY         int32  `parquet:"head_y"`
	Direction     string `parquet:"direction,dict"`
	Move          string `parquet:"move,dict"`
	Score         int32  `parquet:"score"`
	TurnsAlive    int32  `parquet:"turns_alive"`
	TurnsToStarve int32  `parquet:"turns_to_starve"`
	BodyLength    int32  `parquet:"body_length"`
	Ate           bool   `parquet:"ate"`
	Died          bool   `parquet:"died"`
	Cause         string `parquet:"cause,dict,optional"`
	// Target is empty when the agent had no target.
	Target   string `parquet:"target,dict,optional"`
	RouteLen int32  `parquet:"route_len"`
	Fallback bool   `parquet:"fallback"`
}

func rowFromOutcome(gameIndex int, o game.TurnOutcome) Row {
	row := Row{
		Game:          int32(gameIndex),
		Turn:          int32(o.Turn),
		Life:          int32(o.Life),
		HeadX:         int32(o.Head.X),
		HeadY:         int32(o.Head.Y),
		Direction:     o.Direction.String(),
		Move:          o.Move.String(),
		Score:         int32(o.Score),
		TurnsAlive:    int32(o.TurnsAlive),
		TurnsToStarve: int32(o.TurnsToStarve),
		BodyLength:    int32(o.BodyLength),
		Ate:           o.Ate,
		Died:          o.Died,
		Cause:         string(o.Cause),
		RouteLen:      int32(len(o.Insight.Route)),
		Fallback:      o.Insight.Fallback,
	}
	if o.Insight.HasTarget {
		row.Target = o.Insight.Target.String()
	}
	return row
}

// Recorder collects rows from concurrently running games. Its Observe method
// fits game.BotMaster.Observe.
type Recorder struct {
	mu   sync.Mutex
	rows []Row
}

func (r *Recorder) Observe(gameIndex int, outcome game.TurnOutcome) {
	row := rowFromOutcome(gameIndex, outcome)
	r.mu.Lock()
	r.rows = append(r.rows, row)
	r.mu.Unlock()
}

// Rows returns a copy of everything recorded so far.
func (r *Recorder) Rows() []Row {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Row, len(r.rows))
	copy(out, r.rows)
	return out
}

// WriteParquet writes rows to outPath through a temp file.
func WriteParquet(outPath string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "snake_turn_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadParquet loads rows written by WriteParquet.
func ReadParquet(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()

	rows := make([]Row, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows[:n], nil
}
