package movegen

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/dropblox/block"
	"github.com/domino14/dropblox/board"
	"github.com/domino14/dropblox/testhelpers"
)

var stackedRows = []string{
	"..........",
	"..........",
	"..........",
	"..........",
	"..........",
	"..........",
	"#.........",
	"##.....#..",
	"###...###.",
	"####.####.",
}

var overhangRows = []string{
	"..........",
	"..........",
	"..........",
	"..........",
	"......####",
	"#.........",
	"##........",
	"###.....#.",
}

// naive enumerates settled footprints by visiting every legal pose with no
// open-air shortcut.
func naive(b *board.Board) map[footprint]bool {
	start := b.Active()
	seen := map[block.Pose]bool{start.Pose: true}
	queue := []block.Pose{start.Pose}
	out := map[footprint]bool{}
	for head := 0; head < len(queue); head++ {
		cur := start.WithPose(queue[head])
		moves := []func(*block.Block){(*block.Block).Down, (*block.Block).Left,
			(*block.Block).Right, (*block.Block).Rotate}
		if b.Settled(cur) {
			out[footprintOf(cur, b.Cols())] = true
		}
		for _, mv := range moves {
			next := cur
			mv(&next)
			if b.IsLegal(next) && !seen[next.Pose] {
				seen[next.Pose] = true
				queue = append(queue, next.Pose)
			}
		}
	}
	return out
}

func TestSingleCellEmptyBoard(t *testing.T) {
	is := is.New(t)
	b := testhelpers.BoardFromRows(t, testhelpers.EmptyRows(4, 4), testhelpers.Dot,
		testhelpers.Dot)
	cands, err := Generate(b)
	is.NoErr(err)
	is.Equal(len(cands), 4)
	cols := map[int]bool{}
	for _, p := range cands {
		blk := b.Active().WithPose(p)
		cell := blk.Cell(0)
		is.Equal(cell.Row, 3)
		cols[cell.Col] = true
		is.True(b.Settled(blk))
	}
	is.Equal(len(cols), 4)
}

func TestSingleCellAtLeastOnePerColumn(t *testing.T) {
	is := is.New(t)
	b := testhelpers.BoardFromRows(t, stackedRows, testhelpers.Dot, testhelpers.Dot)
	cands, err := Generate(b)
	is.NoErr(err)
	is.True(len(cands) >= b.Cols())
}

func TestSlideUnderOverhang(t *testing.T) {
	is := is.New(t)
	b := testhelpers.BoardFromRows(t, overhangRows, testhelpers.Dot, testhelpers.Dot)
	cands, err := Generate(b)
	is.NoErr(err)
	cells := map[block.Point]bool{}
	for _, p := range cands {
		cells[b.Active().WithPose(p).Cell(0)] = true
	}
	// (7, 9) and (6, 8) are under the overhang on row 4 and only
	// reachable by sliding right along row 5.
	is.True(cells[block.Point{Row: 7, Col: 9}])
	is.True(cells[block.Point{Row: 3, Col: 9}])
	is.True(cells[block.Point{Row: 6, Col: 8}])
}

func TestSoundness(t *testing.T) {
	is := is.New(t)
	for _, rows := range [][]string{stackedRows, overhangRows, testhelpers.EmptyRows(12, 10)} {
		for _, s := range testhelpers.Tetrominoes(10).Shapes() {
			b := testhelpers.BoardFromRows(t, rows, s, s)
			g := NewGenerator()
			cands, err := g.Generate(b)
			is.NoErr(err)
			is.True(len(cands) > 0)
			is.True(g.Explored() >= len(cands))
			seen := map[block.Pose]bool{}
			for _, p := range cands {
				blk := b.Active().WithPose(p)
				is.True(b.IsLegal(blk))
				is.True(b.Settled(blk))
				is.True(!seen[p])
				seen[p] = true
			}
		}
	}
}

func TestMatchesExhaustiveSearch(t *testing.T) {
	is := is.New(t)
	g := NewGenerator()
	for _, rows := range [][]string{stackedRows, overhangRows, testhelpers.EmptyRows(12, 10)} {
		for _, s := range testhelpers.Tetrominoes(10).Shapes() {
			b := testhelpers.BoardFromRows(t, rows, s, s)
			cands, err := g.Generate(b)
			is.NoErr(err)
			got := map[footprint]bool{}
			for _, p := range cands {
				got[footprintOf(b.Active().WithPose(p), b.Cols())] = true
			}
			is.Equal(len(got), len(cands))
			is.Equal(got, naive(b))
		}
	}
}

func TestIllegalStart(t *testing.T) {
	is := is.New(t)
	b := testhelpers.BoardFromRows(t, []string{"#...", "...."}, testhelpers.Dot, testhelpers.Dot)
	_, err := Generate(b)
	is.True(errors.Is(err, board.ErrIllegalStart))
}

func BenchmarkGenerate(b *testing.B) {
	s := testhelpers.Tetromino("T", 10)
	bd, err := board.FromPlaintext(stackedRows, s, []*block.Shape{s})
	if err != nil {
		b.Fatal(err)
	}
	g := NewGenerator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Generate(bd)
	}
}
