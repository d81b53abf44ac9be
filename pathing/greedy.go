package pathing

import (
	"github.com/kamstrup/intmap"

	"github.com/domino14/dropblox/block"
	"github.com/domino14/dropblox/board"
	"github.com/domino14/dropblox/move"
)

// MaxRotations bounds how often the greedy finder turns the block while it
// is closing the column gap. A fourth turn would bring it back to where it
// started.
const MaxRotations = 3

// Greedy walks a cursor from the target back toward the start and records
// the forward command for each cursor step. The cursor rises as far as it
// can, closes the column gap (sideways, up and sideways, away, or turning
// the block), then the row gap, then the rotation gap. It is cheap but
// incomplete: a target reachable only through a long detour may be
// reported as ErrNoPath.
type Greedy struct{}

type cursor struct {
	b    *board.Board
	blk  block.Block
	seen *intmap.Map[uint32, struct{}]
	rec  move.Sequence
}

func (c *cursor) free(blk block.Block) bool {
	if !c.b.IsLegal(blk) {
		return false
	}
	_, seen := c.seen.Get(blk.Key())
	return !seen
}

// step moves the cursor to blk. cmd is the forward command that takes blk
// to the cursor's old pose.
func (c *cursor) step(blk block.Block, cmd move.Command) {
	c.blk = blk
	c.seen.Put(blk.Key(), struct{}{})
	c.rec = append(c.rec, cmd)
}

// shifted returns blk moved d columns (d is -1 or 1), and the forward
// command that undoes the shift.
func shifted(blk block.Block, d int) (block.Block, move.Command) {
	if d > 0 {
		blk.Right()
		return blk, move.Left
	}
	blk.Left()
	return blk, move.Right
}

func raised(blk block.Block) block.Block {
	blk.Up()
	return blk
}

func unrotated(blk block.Block) block.Block {
	blk.Unrotate()
	return blk
}

func (Greedy) Find(b *board.Board, start, target block.Block) (move.Sequence, error) {
	if err := checkEnds(b, start, target); err != nil {
		return nil, err
	}
	c := &cursor{b: b, blk: target, seen: intmap.New[uint32, struct{}](64)}
	c.seen.Put(target.Key(), struct{}{})

	// Rise first: a block that can fall straight onto the target should.
	for c.blk.Translation.Row > start.Translation.Row {
		up := raised(c.blk)
		if !c.free(up) {
			break
		}
		c.step(up, move.Down)
	}

	rotations := 0
	for c.blk.Translation.Col != start.Translation.Col {
		dir := 1
		if start.Translation.Col < c.blk.Translation.Col {
			dir = -1
		}
		if n, cmd := shifted(c.blk, dir); c.free(n) {
			c.step(n, cmd)
			continue
		}
		up := raised(c.blk)
		if c.free(up) {
			if n, cmd := shifted(up, dir); c.free(n) {
				c.step(up, move.Down)
				c.step(n, cmd)
				continue
			}
		}
		if n, cmd := shifted(c.blk, -dir); c.free(n) {
			c.step(n, cmd)
			continue
		}
		if rotations == MaxRotations {
			return nil, ErrNoPath
		}
		rotations++
		if n := unrotated(c.blk); c.free(n) {
			c.step(n, move.Rotate)
			continue
		}
		if c.free(up) {
			if n := unrotated(up); c.free(n) {
				c.step(up, move.Down)
				c.step(n, move.Rotate)
				continue
			}
		}
		return nil, ErrNoPath
	}

	for c.blk.Translation.Row != start.Translation.Row {
		n, cmd := raised(c.blk), move.Down
		if c.blk.Translation.Row < start.Translation.Row {
			n = c.blk
			n.Down()
			cmd = move.Up
		}
		if !b.IsLegal(n) {
			return nil, ErrNoPath
		}
		c.step(n, cmd)
	}

	for c.blk.Rotation != start.Rotation {
		n := unrotated(c.blk)
		if !b.IsLegal(n) {
			return nil, ErrNoPath
		}
		c.step(n, move.Rotate)
	}

	return trimDowns(b, target, c.rec.Reversed()), nil
}
