package engine

// DefaultSpawn4Prob is the chance that a spawned tile is a 4 rather than a 2.
const DefaultSpawn4Prob = 0.10

// Rand is the randomness the engine needs. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Spawn places one tile in a uniformly chosen empty cell: 4 with probability
// p4, otherwise 2. On a full grid it returns g unchanged and false.
func Spawn(g Grid, rng Rand, p4 float64) (Grid, Position, bool) {
	empty := EmptyCells(g)
	if len(empty) == 0 {
		return g, Position{}, false
	}

	cell := empty[rng.Intn(len(empty))]
	value := 2
	if rng.Float64() < p4 {
		value = 4
	}
	g[cell.Row][cell.Col] = value
	return g, cell, true
}
