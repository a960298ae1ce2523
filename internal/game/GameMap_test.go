package game

import "testing"

func TestGrid_XMajorIndexing(t *testing.T) {
	g := NewGrid(4, 3)
	g.Set(Position{X: 3, Y: 0}, CellFood)
	g.Set(Position{X: 0, Y: 2}, CellWall)

	if g.At(Position{X: 3, Y: 0}) != CellFood {
		t.Errorf("(3,0)=%v want FOOD", g.At(Position{X: 3, Y: 0}))
	}
	if g.At(Position{X: 0, Y: 3}) != CellWall {
		t.Errorf("out of bounds should read as WALL")
	}
	if g.At(Position{X: 0, Y: 2}) != CellWall {
		t.Errorf("(0,2)=%v want WALL", g.At(Position{X: 0, Y: 2}))
	}
	if g.cells[3][0] != CellFood {
		t.Errorf("cells are not stored x-major")
	}
}

func TestGrid_IndexIsUnique(t *testing.T) {
	g := NewGrid(5, 7)
	seen := make(map[int]Position)
	for x := 0; x < g.Width(); x++ {
		for y := 0; y < g.Height(); y++ {
			p := Position{X: x, Y: y}
			idx := g.Index(p)
			if idx < 0 || idx >= 35 {
				t.Fatalf("index %d of %v out of range", idx, p)
			}
			if other, dup := seen[idx]; dup {
				t.Fatalf("index %d shared by %v and %v", idx, other, p)
			}
			seen[idx] = p
		}
	}
}

func TestParseGrid(t *testing.T) {
	g, err := ParseGrid(
		"#####",
		"#.F.#",
		"#Ho.#",
		"#####",
	)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	if g.Width() != 5 || g.Height() != 4 {
		t.Fatalf("size=%dx%d want 5x4", g.Width(), g.Height())
	}
	tests := []struct {
		p    Position
		want CellKind
	}{
		{Position{X: 2, Y: 1}, CellFood},
		{Position{X: 1, Y: 2}, CellSnakeHead},
		{Position{X: 2, Y: 2}, CellSnakeBody},
		{Position{X: 3, Y: 2}, CellEmpty},
		{Position{X: 4, Y: 0}, CellWall},
	}
	for _, tt := range tests {
		if got := g.At(tt.p); got != tt.want {
			t.Errorf("At(%v)=%v want %v", tt.p, got, tt.want)
		}
	}

	want := "#####\n#.F.#\n#Ho.#\n#####\n"
	if got := g.String(); got != want {
		t.Errorf("String()=\n%s\nwant\n%s", got, want)
	}
}

func TestParseGrid_Errors(t *testing.T) {
	if _, err := ParseGrid(); err == nil {
		t.Error("expected error for no rows")
	}
	if _, err := ParseGrid("###", "##"); err == nil {
		t.Error("expected error for ragged rows")
	}
	if _, err := ParseGrid("#?#"); err == nil {
		t.Error("expected error for unknown cell")
	}
}

func TestGrid_CloneIsIndependent(t *testing.T) {
	g := NewGrid(3, 3)
	c := g.Clone()
	c.Set(Position{X: 1, Y: 1}, CellWall)
	if g.At(Position{X: 1, Y: 1}) != CellEmpty {
		t.Error("writing the clone changed the original")
	}
	var nilGrid *Grid
	if nilGrid.Clone() != nil {
		t.Error("clone of nil should be nil")
	}
}

func TestIsPassable(t *testing.T) {
	for kind, want := range map[CellKind]bool{
		CellEmpty:     true,
		CellFood:      true,
		CellWall:      false,
		CellSnakeHead: false,
		CellSnakeBody: false,
	} {
		if got := IsPassable(kind); got != want {
			t.Errorf("IsPassable(%v)=%v want %v", kind, got, want)
		}
	}
}

func TestBorderWalls(t *testing.T) {
	g := BorderWalls(5, 5)
	dumpGrid(t, "border", g)
	if g.At(Position{X: 0, Y: 2}) != CellWall || g.At(Position{X: 4, Y: 4}) != CellWall {
		t.Error("border missing")
	}
	if g.At(Position{X: 2, Y: 2}) != CellEmpty {
		t.Error("inside should be empty")
	}
}
