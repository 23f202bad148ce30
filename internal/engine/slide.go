package engine

// TileMove records where one tile travelled during a move. Two moves share a
// destination when they merged.
type TileMove struct {
	From   Position `json:"from"`
	To     Position `json:"to"`
	Value  int      `json:"value"` // value before merging
	Merged bool     `json:"merged"`
}

// Outcome is the result of applying a move to a grid, before any spawn.
type Outcome struct {
	Grid    Grid       `json:"grid"`
	Score   int        `json:"score"` // sum of tiles created by merges
	Changed bool       `json:"changed"`
	Moves   []TileMove `json:"moves,omitempty"`
}

type lineMove struct {
	from, to int
	value    int
	merged   bool
}

// SlideAndMergeRow compacts the line toward index 0, merges equal neighbours in
// a single left-to-right pass and pads the result with zeros. A tile produced by
// a merge does not merge again in the same pass, so [2,2,2,2] becomes [4,4,0,0]
// and [4,2,2,4] becomes [4,4,4,0].
func SlideAndMergeRow(line Line) Line {
	out, _, _ := slideLine(line)
	return out
}

// slideLine is SlideAndMergeRow with merge scoring and per-tile tracking.
func slideLine(line Line) (Line, int, []lineMove) {
	type tile struct{ value, src int }

	tiles := make([]tile, 0, Size)
	for i, v := range line {
		if v != 0 {
			tiles = append(tiles, tile{value: v, src: i})
		}
	}

	var (
		out   Line
		moves = make([]lineMove, 0, len(tiles))
		score int
		write int
	)
	for i := 0; i < len(tiles); i++ {
		t := tiles[i]
		if i+1 < len(tiles) && tiles[i+1].value == t.value {
			out[write] = t.value * 2
			score += out[write]
			moves = append(moves,
				lineMove{from: t.src, to: write, value: t.value, merged: true},
				lineMove{from: tiles[i+1].src, to: write, value: t.value, merged: true},
			)
			i++ // the right-hand tile is consumed
		} else {
			out[write] = t.value
			moves = append(moves, lineMove{from: t.src, to: write, value: t.value})
		}
		write++
	}
	return out, score, moves
}

// cellAt maps index i of line k (as seen when sliding in dir) to a grid position.
// Right and Down read their lines reversed, which is the same as reversing,
// sliding toward index 0 and reversing back.
func cellAt(dir Direction, k, i int) Position {
	switch dir {
	case Right:
		return Position{Row: k, Col: Size - 1 - i}
	case Up:
		return Position{Row: i, Col: k}
	case Down:
		return Position{Row: Size - 1 - i, Col: k}
	default:
		return Position{Row: k, Col: i}
	}
}

// Move applies one slide in dir to every row or column of g. It never spawns.
func Move(g Grid, dir Direction) (Outcome, error) {
	if !dir.Valid() {
		return Outcome{Grid: g}, ErrInvalidDirection
	}

	var next Grid
	result := Outcome{}
	for k := range Size {
		var line Line
		for i := range Size {
			p := cellAt(dir, k, i)
			line[i] = g[p.Row][p.Col]
		}

		slid, score, moves := slideLine(line)
		result.Score += score
		for i := range Size {
			p := cellAt(dir, k, i)
			next[p.Row][p.Col] = slid[i]
		}
		for _, m := range moves {
			result.Moves = append(result.Moves, TileMove{
				From:   cellAt(dir, k, m.from),
				To:     cellAt(dir, k, m.to),
				Value:  m.value,
				Merged: m.merged,
			})
		}
	}

	result.Grid = next
	result.Changed = next != g
	return result, nil
}

// Hint returns the first direction, in Up, Left, Right, Down order, that would
// change the grid. It returns false when the grid is terminal.
func Hint(g Grid) (Direction, bool) {
	for _, d := range Directions {
		out, err := Move(g, d)
		if err == nil && out.Changed {
			return d, true
		}
	}
	return 0, false
}
