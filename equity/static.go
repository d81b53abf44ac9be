package equity

import (
	"math"

	"github.com/domino14/dropblox/board"
)

// maxRunPenalty caps how many cells of one covered run are penalized.
const maxRunPenalty = 10

// LineCalculator rewards clearing rows, and slightly rewards rows that are
// partly filled.
type LineCalculator struct {
	Weight        int
	PartialWeight int
}

func (lc LineCalculator) Score(b *board.Board) int {
	partial := 0
	for r := 0; r < b.Rows(); r++ {
		bits := b.RowBits(r)
		if bits != 0 && bits != b.FullMask() {
			partial++
		}
	}
	return lc.Weight*b.Cleared() + lc.PartialWeight*partial
}

func (lc LineCalculator) Type() string { return "line" }

// HoleCalculator penalizes empty cells with something above them. Each
// column is scanned downward from its highest occupied cell. A covered cell
// whose four neighbours are all filled (the walls and floor count as
// filled) is an enclosed hole and ends the scan of that column. Any other
// run of covered cells is penalized per cell, up to maxRunPenalty cells,
// once an occupied cell or the floor closes it off.
type HoleCalculator struct {
	OpenWeight   int
	ClosedWeight int
}

func (hc HoleCalculator) Score(b *board.Board) int {
	score := 0
	for c := 0; c < b.Cols(); c++ {
		run := 0
	scan:
		for r := b.ColumnTop(c) + 1; r < b.Rows(); r++ {
			switch {
			case b.Occupied(r, c):
				score += hc.OpenWeight * min(maxRunPenalty, run)
				run = 0
			case enclosed(b, r, c):
				score += hc.ClosedWeight
				run = 0
				break scan
			default:
				run++
			}
		}
		score += hc.OpenWeight * min(maxRunPenalty, run)
	}
	return score
}

func enclosed(b *board.Board, r, c int) bool {
	return b.Occupied(r-1, c) && b.Occupied(r+1, c) &&
		b.Occupied(r, c-1) && b.Occupied(r, c+1)
}

func (hc HoleCalculator) Type() string { return "hole" }

// FlatnessCalculator penalizes a jagged surface. For each window of four
// adjacent columns the local slope is the mean height difference between
// the first column and the other three; the score is Weight times the total
// change in slope from one window to the next, starting from a slope of 0.
type FlatnessCalculator struct {
	Weight int
}

const flatWindow = 4

func (fc FlatnessCalculator) Score(b *board.Board) int {
	if b.Cols() < flatWindow {
		return 0
	}
	tops := make([]int, b.Cols())
	for c := range tops {
		tops[c] = b.ColumnTop(c)
	}
	slope, change := 0.0, 0.0
	for i := 0; i+flatWindow <= len(tops); i++ {
		d := 0
		for k := 1; k < flatWindow; k++ {
			d += tops[i+k] - tops[i]
		}
		s := float64(d) / (flatWindow - 1)
		change += math.Abs(slope - s)
		slope = s
	}
	return int(math.Round(change * float64(fc.Weight)))
}

func (fc FlatnessCalculator) Type() string { return "flat" }

// HeightCalculator penalizes the height of the tallest column.
type HeightCalculator struct {
	Weight int
}

func (hc HeightCalculator) Score(b *board.Board) int {
	return hc.Weight * (b.Rows() - b.TopRow())
}

func (hc HeightCalculator) Type() string { return "height" }
