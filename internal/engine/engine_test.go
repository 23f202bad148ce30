package engine

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fixedRand replays a script of Intn and Float64 results.
type fixedRand struct {
	ints   []int
	floats []float64
}

func (f *fixedRand) Intn(n int) int {
	if len(f.ints) == 0 {
		return 0
	}
	v := f.ints[0]
	f.ints = f.ints[1:]
	return v % n
}

func (f *fixedRand) Float64() float64 {
	if len(f.floats) == 0 {
		return 0.5
	}
	v := f.floats[0]
	f.floats = f.floats[1:]
	return v
}

var terminalGrid = Grid{
	{2, 4, 8, 16},
	{32, 64, 128, 256},
	{512, 1024, 2048, 4096},
	{8192, 16384, 32768, 65536},
}

func TestSpawnFullGridIsNoop(t *testing.T) {
	got, _, ok := Spawn(terminalGrid, &fixedRand{}, DefaultSpawn4Prob)
	if ok {
		t.Error("Spawn on a full grid should report false")
	}
	if got != terminalGrid {
		t.Error("Spawn on a full grid must not change it")
	}
}

func TestSpawnSingleEmptyCell(t *testing.T) {
	g := terminalGrid
	g[2][1] = 0

	rng := rand.New(rand.NewSource(1))
	for range 50 {
		got, pos, ok := Spawn(g, rng, DefaultSpawn4Prob)
		if !ok {
			t.Fatal("Spawn should fill the only empty cell")
		}
		if pos != (Position{Row: 2, Col: 1}) {
			t.Fatalf("Spawn chose %v, want (2,1)", pos)
		}
		if v := got[2][1]; v != 2 && v != 4 {
			t.Fatalf("spawned value = %d, want 2 or 4", v)
		}
	}
}

func TestSpawnValueWeighting(t *testing.T) {
	g := Grid{}

	two, _, _ := Spawn(g, &fixedRand{ints: []int{5}, floats: []float64{0.95}}, 0.1)
	if two[1][1] != 2 {
		t.Errorf("roll 0.95 should spawn 2 at (1,1), grid %v", two)
	}

	four, _, _ := Spawn(g, &fixedRand{ints: []int{0}, floats: []float64{0.05}}, 0.1)
	if four[0][0] != 4 {
		t.Errorf("roll 0.05 should spawn 4 at (0,0), grid %v", four)
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		name     string
		grid     Grid
		expected bool
	}{
		{"full with no pairs", terminalGrid, true},
		{"empty cell", func() Grid { g := terminalGrid; g[3][3] = 0; return g }(), false},
		{"horizontal pair", func() Grid { g := terminalGrid; g[0][1] = 2; return g }(), false},
		{"vertical pair", func() Grid { g := terminalGrid; g[1][0] = 2; return g }(), false},
		{
			name: "diagonal pair only",
			grid: Grid{
				{2, 4, 2, 4},
				{4, 2, 4, 2},
				{2, 4, 2, 4},
				{4, 2, 4, 2},
			},
			expected: true,
		},
		{"empty grid", Grid{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTerminal(tc.grid); got != tc.expected {
				t.Errorf("IsTerminal() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestResetSpawnsTwoTiles(t *testing.T) {
	for seed := range int64(20) {
		e := New(DefaultOptions(), rand.New(rand.NewSource(seed)))
		e.Reset()

		g := e.Grid()
		if n := Count(g); n != 2 {
			t.Fatalf("seed %d: %d tiles after Reset, want 2", seed, n)
		}
		for r := range Size {
			for c := range Size {
				if v := g[r][c]; v != 0 && v != 2 && v != 4 {
					t.Fatalf("seed %d: unexpected tile %d", seed, v)
				}
			}
		}
		if e.Score() != 0 || e.State() != Playing {
			t.Fatalf("seed %d: fresh game has score %d state %s", seed, e.Score(), e.State())
		}
	}
}

func TestEngineMoveSpawnsAfterChange(t *testing.T) {
	e := New(DefaultOptions(), &fixedRand{ints: []int{0}, floats: []float64{0.5}})
	e.Restore(Grid{{0, 2, 0, 2}}, 0)

	res, err := e.Move(Left)
	if err != nil {
		t.Fatalf("Move() error: %v", err)
	}

	// [4,0,0,0] in row 0, then the spawn lands on the first empty cell (0,1).
	want := Grid{{4, 2, 0, 0}}
	if diff := cmp.Diff(want, e.Grid()); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	if !res.Spawned || res.SpawnAt != (Position{Row: 0, Col: 1}) || res.SpawnVal != 2 {
		t.Errorf("spawn = %v at %v value %d", res.Spawned, res.SpawnAt, res.SpawnVal)
	}
	if e.Score() != 4 || res.Score != 4 {
		t.Errorf("score = %d (result %d), want 4", e.Score(), res.Score)
	}
}

func TestEngineNoopMovePolicy(t *testing.T) {
	start := Grid{{4, 2, 0, 0}}

	canonical := New(DefaultOptions(), &fixedRand{})
	canonical.Restore(start, 0)
	res, err := canonical.Move(Left)
	if err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if res.Spawned || canonical.Grid() != start {
		t.Error("no-op move must not spawn by default")
	}

	opts := DefaultOptions()
	opts.SpawnOnNoop = true
	legacy := New(opts, &fixedRand{})
	legacy.Restore(start, 0)
	res, err = legacy.Move(Left)
	if err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if !res.Spawned || Count(legacy.Grid()) != 3 {
		t.Error("SpawnOnNoop should spawn even when nothing moved")
	}
}

func TestEngineFreezeWhenOver(t *testing.T) {
	e := New(DefaultOptions(), &fixedRand{})
	e.Restore(terminalGrid, 100)

	_, err := e.Move(Left)
	if !errors.Is(err, ErrGameOver) {
		t.Fatalf("err = %v, want ErrGameOver", err)
	}
	if e.Grid() != terminalGrid || e.Moves() != 0 {
		t.Error("frozen engine must not change")
	}

	opts := DefaultOptions()
	opts.FreezeWhenOver = false
	open := New(opts, &fixedRand{})
	open.Restore(terminalGrid, 100)
	res, err := open.Move(Left)
	if err != nil {
		t.Fatalf("Move() error with freeze disabled: %v", err)
	}
	if !res.Over || res.JustEnded {
		t.Errorf("Over = %v JustEnded = %v, want true/false", res.Over, res.JustEnded)
	}
}

func TestEngineReportsJustEnded(t *testing.T) {
	// One move left: merging the two 2s fills the gap with a spawned 2 and
	// leaves no pairs. fixedRand spawns a 2 into the only empty cell.
	g := Grid{
		{2, 2, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{8192, 16384, 32768, 65536},
	}
	e := New(DefaultOptions(), &fixedRand{floats: []float64{0.5}})
	e.Restore(g, 0)

	res, err := e.Move(Left)
	if err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	// Row 0 becomes [4,8,16,2] after the spawn.
	if e.Grid()[0] != [Size]int{4, 8, 16, 2} {
		t.Fatalf("row 0 = %v", e.Grid()[0])
	}
	if !res.Over || !res.JustEnded || e.State() != Over {
		t.Errorf("Over = %v JustEnded = %v State = %s", res.Over, res.JustEnded, e.State())
	}
}

func TestEngineInvalidDirection(t *testing.T) {
	e := New(DefaultOptions(), &fixedRand{})
	e.Restore(Grid{{2, 2, 0, 0}}, 0)

	_, err := e.Move(Direction(-1))
	if !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("err = %v, want ErrInvalidDirection", err)
	}
	if e.Grid() != (Grid{{2, 2, 0, 0}}) {
		t.Error("grid must be untouched after an invalid direction")
	}
}

func TestFromRows(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]int
		wantErr error
	}{
		{"valid", [][]int{{2, 0, 0, 0}, {0, 4, 0, 0}, {0, 0, 8, 0}, {0, 0, 0, 0}}, nil},
		{"too few rows", [][]int{{0, 0, 0, 0}}, ErrGridShape},
		{"short row", [][]int{{0, 0, 0, 0}, {0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}, ErrGridShape},
		{"not a power of two", [][]int{{3, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}, ErrInvalidTile},
		{"one is not a tile", [][]int{{1, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}, ErrInvalidTile},
		{"negative", [][]int{{-2, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}, ErrInvalidTile},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := FromRows(tc.rows)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromRows() error: %v", err)
			}
			if diff := cmp.Diff(tc.rows, g.Rows()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMaxTileAndEmptyCells(t *testing.T) {
	g := Grid{
		{2, 0, 8, 0},
		{0, 64, 0, 256},
		{512, 0, 2048, 0},
		{0, 16, 0, 64},
	}
	if got := MaxTile(g); got != 2048 {
		t.Errorf("MaxTile = %d, want 2048", got)
	}
	if got := len(EmptyCells(g)); got != 8 {
		t.Errorf("len(EmptyCells) = %d, want 8", got)
	}
}
