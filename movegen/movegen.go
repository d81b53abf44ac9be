// Package movegen enumerates the final resting positions a falling block can
// reach. It runs a breadth-first search over poses, where each edge is one
// primitive move (left, right, rotate, down).
package movegen

import (
	"github.com/kamstrup/intmap"
	"github.com/rs/zerolog/log"

	"github.com/domino14/dropblox/block"
	"github.com/domino14/dropblox/board"
)

// PlacementGenerator produces candidate placements for a board's active
// block.
type PlacementGenerator interface {
	Generate(b *board.Board) ([]block.Pose, error)
}

// Generator is a reusable breadth-first placement enumerator. It is not
// safe for concurrent use; keep one per goroutine.
type Generator struct {
	seen       *intmap.Map[uint32, struct{}]
	footprints map[footprint]struct{}
	queue      []block.Pose
	explored   int
}

// footprint is the sorted set of cells a pose covers. Symmetric shapes reach
// the same footprint from several rotations; only the first one found is
// kept.
type footprint [block.MaxOffsets]int

func NewGenerator() *Generator {
	return &Generator{
		seen:       intmap.New[uint32, struct{}](1024),
		footprints: make(map[footprint]struct{}),
		queue:      make([]block.Pose, 0, 1024),
	}
}

// Generate returns every settled pose reachable from the active block's
// current pose, in the order they were discovered.
func Generate(b *board.Board) ([]block.Pose, error) {
	return NewGenerator().Generate(b)
}

// Explored is the number of poses visited by the last Generate call.
func (g *Generator) Explored() int { return g.explored }

func (g *Generator) visit(p block.Pose) {
	k := p.Key()
	if _, ok := g.seen.Get(k); ok {
		return
	}
	g.seen.Put(k, struct{}{})
	g.queue = append(g.queue, p)
}

func (g *Generator) Generate(b *board.Board) ([]block.Pose, error) {
	start := b.Active()
	if !b.IsLegal(start) {
		return nil, board.ErrIllegalStart
	}
	g.seen.Clear()
	clear(g.footprints)
	g.queue = g.queue[:0]

	jump := openAirRow(b, start)
	var candidates []block.Pose

	g.visit(start.Pose)
	for head := 0; head < len(g.queue); head++ {
		cur := start.WithPose(g.queue[head])

		next := cur
		next.Down()
		if !b.IsLegal(next) {
			fp := footprintOf(cur, b.Cols())
			if _, dup := g.footprints[fp]; !dup {
				g.footprints[fp] = struct{}{}
				candidates = append(candidates, cur.Pose)
			}
		} else {
			if next.Translation.Row < jump {
				// Nothing above the stack can block a lateral move or a
				// rotation, so fall straight through the open air.
				skip := next
				skip.Translation.Row = jump
				if b.IsLegal(skip) {
					next = skip
				}
			}
			g.visit(next.Pose)
		}

		next = cur
		next.Left()
		if b.IsLegal(next) {
			g.visit(next.Pose)
		}
		next = cur
		next.Right()
		if b.IsLegal(next) {
			g.visit(next.Pose)
		}
		next = cur
		next.Rotate()
		if b.IsLegal(next) {
			g.visit(next.Pose)
		}
	}
	g.explored = len(g.queue)
	log.Debug().Int("explored", g.explored).Int("candidates", len(candidates)).
		Str("shape", start.Shape().Name()).Msg("generated-placements")
	return candidates, nil
}

// openAirRow is the deepest translation row at which the block, in any
// rotation, still lies entirely in rows above everything on the board.
func openAirRow(b *board.Board, blk block.Block) int {
	deepest := b.TopRow() - 1 - blk.Radius()
	return deepest - blk.Shape().Center().Row
}

func footprintOf(blk block.Block, cols int) footprint {
	var fp footprint
	n := blk.Size()
	for k := 0; k < n; k++ {
		p := blk.Cell(k)
		v := p.Row*cols + p.Col
		// insertion sort; n is tiny
		j := k
		for ; j > 0 && fp[j-1] > v; j-- {
			fp[j] = fp[j-1]
		}
		fp[j] = v
	}
	for k := n; k < len(fp); k++ {
		fp[k] = -1
	}
	return fp
}
