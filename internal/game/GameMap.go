package game

import (
	"fmt"
	"strings"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellFood
	CellWall
	CellSnakeHead
	CellSnakeBody
)

func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "EMPTY"
	case CellFood:
		return "FOOD"
	case CellWall:
		return "WALL"
	case CellSnakeHead:
		return "SNAKE_HEAD"
	case CellSnakeBody:
		return "SNAKE_BODY"
	default:
		return fmt.Sprintf("CellKind(%d)", int(k))
	}
}

// IsPassable reports whether a snake head may enter a cell of this kind.
func IsPassable(kind CellKind) bool {
	return kind == CellEmpty || kind == CellFood
}

// Position is a grid coordinate. (0,0) is the upper-left cell, x grows to the
// right and y grows downward.
type Position struct {
	X int
	Y int
}

func (p Position) Add(o Offset) Position {
	return Position{X: p.X + o.Dx, Y: p.Y + o.Dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Offset is the difference between two positions.
type Offset struct {
	Dx, Dy int
}

// Delta returns the offset that moves a onto b.
func Delta(a, b Position) Offset {
	return Offset{Dx: b.X - a.X, Dy: b.Y - a.Y}
}

// Grid is one turn's snapshot of the board.
//
// Cells are stored x-major: cells[x][y]. Every reader goes through At, so the
// indexing convention lives here and nowhere else.
type Grid struct {
	width  int
	height int
	cells  [][]CellKind
}

func NewGrid(width, height int) *Grid {
	cells := make([][]CellKind, width)
	for x := 0; x < width; x++ {
		cells[x] = make([]CellKind, height)
	}
	return &Grid{width: width, height: height, cells: cells}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// At returns the kind of the cell at p. Cells outside the grid read as walls.
func (g *Grid) At(p Position) CellKind {
	if !g.InBounds(p) {
		return CellWall
	}
	return g.cells[p.X][p.Y]
}

// Set overwrites one cell. Only the engine builds grids; agents receive a
// clone and must treat it as read-only.
func (g *Grid) Set(p Position, kind CellKind) {
	if !g.InBounds(p) {
		return
	}
	g.cells[p.X][p.Y] = kind
}

// Index flattens p into [0, width*height).
func (g *Grid) Index(p Position) int {
	return p.X*g.height + p.Y
}

func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	out := NewGrid(g.width, g.height)
	for x := 0; x < g.width; x++ {
		copy(out.cells[x], g.cells[x])
	}
	return out
}

var cellRunes = map[CellKind]byte{
	CellEmpty:     '.',
	CellFood:      'F',
	CellWall:      '#',
	CellSnakeHead: 'H',
	CellSnakeBody: 'o',
}

// ParseGrid builds a grid from text rows, rows[y][x] being cell (x, y).
// '.' empty, 'F' or '*' food, '#' wall, 'H' head, 'o' body.
func ParseGrid(rows ...string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse grid: no rows")
	}
	width := len(rows[0])
	grid := NewGrid(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("parse grid: row %d has width %d, expected %d", y, len(row), width)
		}
		for x := 0; x < width; x++ {
			var kind CellKind
			switch row[x] {
			case '.', ' ':
				kind = CellEmpty
			case 'F', '*':
				kind = CellFood
			case '#':
				kind = CellWall
			case 'H':
				kind = CellSnakeHead
			case 'o':
				kind = CellSnakeBody
			default:
				return nil, fmt.Errorf("parse grid: unknown cell %q at (%d,%d)", row[x], x, y)
			}
			grid.Set(Position{X: x, Y: y}, kind)
		}
	}
	return grid, nil
}

// String renders the grid in the ParseGrid format.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			sb.WriteByte(cellRunes[g.At(Position{X: x, Y: y})])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
