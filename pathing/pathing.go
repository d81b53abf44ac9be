// Package pathing turns a target placement back into the commands that move
// the active block there from its spawn pose.
package pathing

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/dropblox/block"
	"github.com/domino14/dropblox/board"
	"github.com/domino14/dropblox/config"
	"github.com/domino14/dropblox/move"
)

var ErrNoPath = errors.New("no path found")

// Finder finds the commands that move start to target, staying legal after
// every command. The sequence does not end in a drop. When target is settled
// any trailing downs are left off, since the drop that follows covers them.
type Finder interface {
	Find(b *board.Board, start, target block.Block) (move.Sequence, error)
}

// Fallback asks Primary first and Secondary when Primary finds no path.
type Fallback struct {
	Primary   Finder
	Secondary Finder
}

func (f Fallback) Find(b *board.Board, start, target block.Block) (move.Sequence, error) {
	seq, err := f.Primary.Find(b, start, target)
	if !errors.Is(err, ErrNoPath) {
		return seq, err
	}
	log.Debug().Stringer("target", target.Pose).Msg("path-fallback")
	return f.Secondary.Find(b, start, target)
}

// NewFinder returns the greedy finder, backed by the breadth-first finder
// if path-fallback is on.
func NewFinder(cfg *config.Config) Finder {
	if cfg.GetBool(config.ConfigPathFallback) {
		return Fallback{Primary: Greedy{}, Secondary: Shortest{}}
	}
	return Greedy{}
}

func checkEnds(b *board.Board, start, target block.Block) error {
	if !b.IsLegal(start) {
		return board.ErrIllegalStart
	}
	if !b.IsLegal(target) {
		return fmt.Errorf("%w: target %v", board.ErrIllegalPosition, target.Pose)
	}
	return nil
}

// trimDowns drops trailing down commands when the target is settled.
func trimDowns(b *board.Board, target block.Block, seq move.Sequence) move.Sequence {
	if !b.Settled(target) {
		return seq
	}
	n := len(seq)
	for n > 0 && seq[n-1] == move.Down {
		n--
	}
	return seq[:n]
}
