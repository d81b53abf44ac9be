// Package board holds the dropblox playfield: a fixed grid of occupancy
// bits, the block that is currently falling and the preview queue of
// upcoming shapes.
//
// A Board is never mutated once it has been handed out. Every transition
// (lock, clear, advance) produces a new Board, so a search may explore many
// hypothetical futures from the same starting position.
package board

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"

	"github.com/cespare/xxhash"

	"github.com/domino14/dropblox/block"
	"github.com/domino14/dropblox/move"
)

const (
	// DefaultRows and DefaultCols are the dimensions of the dropblox field.
	DefaultRows = 33
	DefaultCols = 12
	// DefaultPreviewSize is how many upcoming shapes the game reveals.
	DefaultPreviewSize = 5
	// MaxCols is limited by the width of a row bitmask.
	MaxCols = 64
)

var (
	ErrBadDimensions       = errors.New("bad board dimensions")
	ErrDimensionMismatch   = errors.New("grid does not match board dimensions")
	ErrIllegalStart        = errors.New("block started in an invalid position")
	ErrIllegalIntermediate = errors.New("block reached an invalid position")
	ErrIllegalPosition     = errors.New("block is not in a legal position")
	ErrPreviewExhausted    = errors.New("no blocks left in the preview")
	ErrNoActiveBlock       = errors.New("board needs an active block")
)

// Board is a snapshot of the game.
type Board struct {
	rows, cols int
	full       uint64
	// bits[r] has bit c set when (r, c) is occupied.
	bits []uint64

	active block.Block
	// preview is shared between snapshots and never written to.
	preview []*block.Shape
	// cleared is the number of rows removed by the lock that produced
	// this board.
	cleared int
}

// NewBoard builds a board from an occupancy grid. grid[r][c] is true for an
// occupied cell; a nil grid means an empty board.
func NewBoard(rows, cols int, grid [][]bool, active *block.Shape,
	preview []*block.Shape) (*Board, error) {

	b, err := NewEmpty(rows, cols, active, preview)
	if err != nil {
		return nil, err
	}
	if grid == nil {
		return b, nil
	}
	if len(grid) != rows {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrDimensionMismatch, len(grid), rows)
	}
	for r, row := range grid {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d",
				ErrDimensionMismatch, r, len(row), cols)
		}
		for c, occupied := range row {
			if occupied {
				b.bits[r] |= 1 << uint(c)
			}
		}
	}
	return b, nil
}

// NewEmpty returns a board with nothing on it.
func NewEmpty(rows, cols int, active *block.Shape, preview []*block.Shape) (*Board, error) {
	if rows <= 0 || cols <= 0 || cols > MaxCols {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, rows, cols)
	}
	if active == nil {
		return nil, fmt.Errorf("%w: %dx%d board", ErrNoActiveBlock, rows, cols)
	}
	return &Board{
		rows:    rows,
		cols:    cols,
		full:    fullMask(cols),
		bits:    make([]uint64, rows),
		active:  block.New(active),
		preview: append([]*block.Shape(nil), preview...),
	}, nil
}

func fullMask(cols int) uint64 {
	if cols == 64 {
		return ^uint64(0)
	}
	return 1<<uint(cols) - 1
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }
func (b *Board) Cleared() int { return b.cleared }

// Active returns the falling block at its current pose.
func (b *Board) Active() block.Block { return b.active }

// Preview returns the upcoming shapes. Callers must not modify the slice.
func (b *Board) Preview() []*block.Shape { return b.preview }

// FullMask is the bit pattern of a completely filled row.
func (b *Board) FullMask() uint64 { return b.full }

// RowBits returns the occupancy bits of row r.
func (b *Board) RowBits(r int) uint64 { return b.bits[r] }

// Occupied reports whether the cell is filled. Cells outside the grid are
// reported as filled.
func (b *Board) Occupied(r, c int) bool {
	if r < 0 || r >= b.rows || c < 0 || c >= b.cols {
		return true
	}
	return b.bits[r]>>uint(c)&1 != 0
}

// IsLegal returns true if every square of the block is in bounds and
// currently unoccupied.
func (b *Board) IsLegal(blk block.Block) bool {
	for k := 0; k < blk.Size(); k++ {
		p := blk.Cell(k)
		if p.Row < 0 || p.Row >= b.rows || p.Col < 0 || p.Col >= b.cols {
			return false
		}
		if b.bits[p.Row]>>uint(p.Col)&1 != 0 {
			return false
		}
	}
	return true
}

// Settled returns true if the block is legal and cannot move down.
func (b *Board) Settled(blk block.Block) bool {
	if !b.IsLegal(blk) {
		return false
	}
	blk.Down()
	return !b.IsLegal(blk)
}

// Drop moves a legal block down until it lands.
func (b *Board) Drop(blk block.Block) block.Block {
	for {
		blk.Down()
		if !b.IsLegal(blk) {
			blk.Up()
			return blk
		}
	}
}

// LockAndAdvance writes blk into a copy of the grid, clears any full rows and
// makes the first preview shape the new active block.
func (b *Board) LockAndAdvance(blk block.Block) (*Board, error) {
	nb := &Board{}
	if err := b.PlaceInto(nb, blk); err != nil {
		return nil, err
	}
	return nb, nil
}

// PlaceInto is LockAndAdvance writing into dst, reusing its storage. It is
// meant for search loops that keep a scratch board per worker.
func (b *Board) PlaceInto(dst *Board, blk block.Block) error {
	if len(b.preview) == 0 {
		return ErrPreviewExhausted
	}
	if !b.IsLegal(blk) {
		return fmt.Errorf("%w: %v", ErrIllegalPosition, blk)
	}
	dst.copyGrid(b)
	for k := 0; k < blk.Size(); k++ {
		p := blk.Cell(k)
		dst.bits[p.Row] |= 1 << uint(p.Col)
	}
	dst.cleared = RemoveRows(dst.bits, dst.full)
	dst.active = block.New(b.preview[0])
	dst.preview = b.preview[1:]
	return nil
}

func (b *Board) copyGrid(src *Board) {
	b.rows, b.cols, b.full = src.rows, src.cols, src.full
	if cap(b.bits) < src.rows {
		b.bits = make([]uint64, src.rows)
	}
	b.bits = b.bits[:src.rows]
	copy(b.bits, src.bits)
}

// Copy returns a deep copy of the grid along with the active block and the
// (shared) preview.
func (b *Board) Copy() *Board {
	nb := &Board{}
	nb.CopyFrom(b)
	return nb
}

// CopyFrom makes b identical to src without allocating when possible.
func (b *Board) CopyFrom(src *Board) {
	b.copyGrid(src)
	b.active = src.active
	b.preview = src.preview
	b.cleared = src.cleared
}

// Place drops the active block from wherever it is and locks it.
func (b *Board) Place() (*Board, error) {
	if !b.IsLegal(b.active) {
		return nil, fmt.Errorf("%w: %v", ErrIllegalPosition, b.active)
	}
	return b.LockAndAdvance(b.Drop(b.active))
}

// DoCommands resets the active block to its spawn pose, replays the
// commands and drops it. The block must stay legal after every command; a
// missing drop command is treated as if one followed the last command.
func (b *Board) DoCommands(cmds move.Sequence) (*Board, error) {
	blk := b.active
	blk.Reset()
	if !b.IsLegal(blk) {
		return nil, ErrIllegalStart
	}
	for i, c := range cmds {
		if c == move.Drop {
			break
		}
		if err := blk.Apply(c); err != nil {
			return nil, err
		}
		if !b.IsLegal(blk) {
			return nil, fmt.Errorf("%w: command %d (%v)", ErrIllegalIntermediate, i, c)
		}
	}
	return b.LockAndAdvance(b.Drop(blk))
}

// WithPreview returns a copy of the board with more shapes queued after the
// current preview.
func (b *Board) WithPreview(more ...*block.Shape) *Board {
	nb := b.Copy()
	nb.preview = append(append(make([]*block.Shape, 0, len(b.preview)+len(more)),
		b.preview...), more...)
	return nb
}

// RemoveRows removes every full row from the grid, in place. Rows are
// scanned bottom to top and each surviving row moves down by the number of
// full rows found below it. It returns the number of rows removed.
func RemoveRows(grid []uint64, full uint64) int {
	removed := 0
	for i := len(grid) - 1; i >= 0; i-- {
		if grid[i]&full == full {
			removed++
		} else if removed > 0 {
			grid[i+removed] = grid[i]
		}
	}
	for i := 0; i < removed; i++ {
		grid[i] = 0
	}
	return removed
}

// ColumnTop returns the row of the highest occupied cell in column c, or
// Rows() if the column is empty.
func (b *Board) ColumnTop(c int) int {
	mask := uint64(1) << uint(c)
	for r := 0; r < b.rows; r++ {
		if b.bits[r]&mask != 0 {
			return r
		}
	}
	return b.rows
}

// TopRow returns the highest row with anything in it, or Rows() if the
// board is empty.
func (b *Board) TopRow() int {
	for r := 0; r < b.rows; r++ {
		if b.bits[r] != 0 {
			return r
		}
	}
	return b.rows
}

// FilledCells counts the occupied cells.
func (b *Board) FilledCells() int {
	n := 0
	for _, row := range b.bits {
		n += bits.OnesCount64(row)
	}
	return n
}

// Hash fingerprints the occupancy, the rows cleared by the last lock and the
// active shape. Two boards with the same hash evaluate identically.
func (b *Board) Hash() uint64 {
	d := xxhash.New()
	var word [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(word[:], v)
		d.Write(word[:])
	}
	for _, row := range b.bits {
		write(row)
	}
	write(uint64(b.cols))
	write(uint64(b.cleared))
	shape := b.active.Shape()
	c := shape.Center()
	write(uint64(int64(c.Row)))
	write(uint64(int64(c.Col)))
	for k := 0; k < shape.Size(); k++ {
		o := shape.Offset(k)
		write(uint64(int64(o.Row)))
		write(uint64(int64(o.Col)))
	}
	return d.Sum64()
}

// CompletedBy counts the rows that would be full if blk were locked. blk
// must be legal.
func (b *Board) CompletedBy(blk block.Block) int {
	var rows [block.MaxOffsets]int
	var masks [block.MaxOffsets]uint64
	n := 0
	for k := 0; k < blk.Size(); k++ {
		p := blk.Cell(k)
		i := 0
		for i < n && rows[i] != p.Row {
			i++
		}
		if i == n {
			rows[n] = p.Row
			masks[n] = b.bits[p.Row]
			n++
		}
		masks[i] |= 1 << uint(p.Col)
	}
	completed := 0
	for i := 0; i < n; i++ {
		if masks[i]&b.full == b.full {
			completed++
		}
	}
	return completed
}
