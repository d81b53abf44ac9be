package pathing

import (
	"github.com/kamstrup/intmap"

	"github.com/domino14/dropblox/block"
	"github.com/domino14/dropblox/board"
	"github.com/domino14/dropblox/move"
)

// Shortest is a breadth-first search over poses using the same moves as the
// placement generator, so it finds a path to every generated candidate.
type Shortest struct{}

type parent struct {
	pose block.Pose
	cmd  move.Command
}

var searchMoves = [...]move.Command{move.Down, move.Left, move.Right, move.Rotate}

func (Shortest) Find(b *board.Board, start, target block.Block) (move.Sequence, error) {
	if err := checkEnds(b, start, target); err != nil {
		return nil, err
	}
	parents := intmap.New[uint32, parent](256)
	parents.Put(start.Key(), parent{pose: start.Pose})
	queue := []block.Pose{start.Pose}
	goal := target.Key()

	for head := 0; head < len(queue); head++ {
		cur := start.WithPose(queue[head])
		if cur.Key() == goal {
			break
		}
		for _, cmd := range searchMoves {
			next := cur
			// never fails: searchMoves holds only movements.
			_ = next.Apply(cmd)
			if !b.IsLegal(next) {
				continue
			}
			if _, ok := parents.Get(next.Key()); ok {
				continue
			}
			parents.Put(next.Key(), parent{pose: cur.Pose, cmd: cmd})
			queue = append(queue, next.Pose)
		}
	}
	if _, ok := parents.Get(goal); !ok {
		return nil, ErrNoPath
	}

	var rec move.Sequence
	for k := goal; k != start.Key(); {
		p, _ := parents.Get(k)
		rec = append(rec, p.cmd)
		k = p.pose.Key()
	}
	return trimDowns(b, target, rec.Reversed()), nil
}
