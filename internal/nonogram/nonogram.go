// Package nonogram generates random nonogram puzzles and renders their
// hints as a carrier image.
package nonogram

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/0xlayout/privacypuzzle/internal/failure"
)

// DefaultFill is the probability that a generated cell is filled.
const DefaultFill = 0.45

// Puzzle is a solved grid together with its run-length hints. Grid is indexed
// [row][column] and is not modified after generation.
type Puzzle struct {
	Grid     [][]bool
	RowHints [][]int
	ColHints [][]int
}

// Width is the number of columns.
func (p *Puzzle) Width() int {
	if len(p.Grid) == 0 {
		return 0
	}
	return len(p.Grid[0])
}

// Height is the number of rows.
func (p *Puzzle) Height() int { return len(p.Grid) }

// Generate builds a width x height puzzle whose cells are filled
// independently with probability fill. Safe for concurrent use.
func Generate(width, height int, fill float64) (*Puzzle, error) {
	return GenerateRand(nil, width, height, fill)
}

// GenerateRand is Generate drawing from r. A nil r uses the shared
// math/rand/v2 source.
func GenerateRand(r *rand.Rand, width, height int, fill float64) (*Puzzle, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", failure.ErrValidation, width, height)
	}
	if math.IsNaN(fill) || fill < 0 || fill > 1 {
		return nil, fmt.Errorf("%w: fill probability %v outside [0,1]", failure.ErrValidation, fill)
	}

	float := rand.Float64
	if r != nil {
		float = r.Float64
	}

	grid := make([][]bool, height)
	for y := range grid {
		grid[y] = make([]bool, width)
		for x := range grid[y] {
			grid[y][x] = float() < fill
		}
	}

	rows, cols := ComputeHints(grid)
	return &Puzzle{Grid: grid, RowHints: rows, ColHints: cols}, nil
}

// LineHints run-length encodes the filled cells of line. A line with no
// filled cells yields [0].
func LineHints(line []bool) []int {
	var hints []int
	run := 0
	for _, filled := range line {
		if filled {
			run++
		} else if run > 0 {
			hints = append(hints, run)
			run = 0
		}
	}
	if run > 0 {
		hints = append(hints, run)
	}
	if len(hints) == 0 {
		return []int{0}
	}
	return hints
}

// ComputeHints returns the row and column hints of grid. grid must be
// rectangular.
func ComputeHints(grid [][]bool) (rows, cols [][]int) {
	rows = make([][]int, len(grid))
	for y, row := range grid {
		rows[y] = LineHints(row)
	}
	if len(grid) == 0 {
		return rows, nil
	}

	cols = make([][]int, len(grid[0]))
	column := make([]bool, len(grid))
	for x := range cols {
		for y := range grid {
			column[y] = grid[y][x]
		}
		cols[x] = LineHints(column)
	}
	return rows, cols
}

// validateHints checks one axis of hints: at least one line, each line
// either [0] or a sequence of positive runs.
func validateHints(axis string, hints [][]int) error {
	if len(hints) == 0 {
		return fmt.Errorf("%w: no %s hints", failure.ErrValidation, axis)
	}
	for i, line := range hints {
		if len(line) == 0 {
			return fmt.Errorf("%w: %s %d has an empty hint list", failure.ErrValidation, axis, i)
		}
		if len(line) == 1 && line[0] == 0 {
			continue
		}
		for _, n := range line {
			if n <= 0 {
				return fmt.Errorf("%w: %s %d has invalid run %d", failure.ErrValidation, axis, i, n)
			}
		}
	}
	return nil
}
