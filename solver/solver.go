// Package solver picks the best placement for the falling block: it
// enumerates every reachable resting pose, scores the board each would
// leave, and finds the commands that get the block there.
package solver

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/dropblox/block"
	"github.com/domino14/dropblox/board"
	"github.com/domino14/dropblox/cache"
	"github.com/domino14/dropblox/config"
	"github.com/domino14/dropblox/equity"
	"github.com/domino14/dropblox/move"
	"github.com/domino14/dropblox/movegen"
	"github.com/domino14/dropblox/pathing"
)

var ErrNoPlay = errors.New("no placement can be reached")

// Play is a scored placement and the commands that make it.
type Play struct {
	Pose  block.Pose
	Score int
	// Commands ends with a drop.
	Commands move.Sequence
	// Result is the board after the block locks.
	Result *board.Board
}

func (p *Play) String() string {
	return fmt.Sprintf("<play %v score %d: %v>", p.Pose, p.Score, p.Commands)
}

type Solver struct {
	evaluator *equity.Evaluator
	finder    pathing.Finder
	scores    *cache.ScoreCache
	threads   int
}

func New(evaluator *equity.Evaluator, finder pathing.Finder, scores *cache.ScoreCache,
	threads int) *Solver {

	return &Solver{
		evaluator: evaluator,
		finder:    finder,
		scores:    scores,
		threads:   max(1, threads),
	}
}

// NewFromConfig wires a solver with the evaluator, path finder, cache size
// and thread count from cfg.
func NewFromConfig(cfg *config.Config) *Solver {
	return New(equity.NewEvaluatorFromConfig(cfg), pathing.NewFinder(cfg),
		cache.New(cfg.GetInt(config.ConfigScoreCache)), cfg.GetInt(config.ConfigThreads))
}

func (s *Solver) Evaluator() *equity.Evaluator { return s.evaluator }
func (s *Solver) Cache() *cache.ScoreCache     { return s.scores }

// GenAll returns every reachable placement, best first. Placements with
// equal scores keep the order the generator found them in. A placement the
// path finder cannot reach is left out.
func (s *Solver) GenAll(ctx context.Context, b *board.Board) ([]*Play, error) {
	logger := zerolog.Ctx(ctx)
	cands, err := movegen.Generate(b)
	if err != nil {
		return nil, err
	}
	start := b.Active()
	plays := make([]*Play, len(cands))

	g, gctx := errgroup.WithContext(ctx)
	workers := min(s.threads, len(cands))
	for w := range workers {
		g.Go(func() error {
			// each worker scores into its own scratch board; only plays that
			// are kept get a board of their own.
			scratch := &board.Board{}
			for i := w; i < len(cands); i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				pose := cands[i]
				target := start.WithPose(pose)
				seq, err := s.finder.Find(b, start, target)
				if errors.Is(err, pathing.ErrNoPath) {
					logger.Debug().Stringer("pose", pose).Msg("unreachable-placement")
					continue
				}
				if err != nil {
					return err
				}
				if err := b.PlaceInto(scratch, target); err != nil {
					return err
				}
				score := s.scores.Load(scratch.Hash(), func() int {
					return s.evaluator.Evaluate(scratch)
				})
				plays[i] = &Play{
					Pose:     pose,
					Score:    score,
					Commands: append(seq, move.Drop),
					Result:   scratch.Copy(),
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plays = lo.Filter(plays, func(p *Play, _ int) bool { return p != nil })
	slices.SortStableFunc(plays, func(a, b *Play) int {
		return cmp.Compare(b.Score, a.Score)
	})
	lookups, hits := s.scores.Stats()
	logger.Debug().Int("candidates", len(cands)).Int("plays", len(plays)).
		Uint64("cache-lookups", lookups).Uint64("cache-hits", hits).Msg("gen-all")
	return plays, nil
}

// Solve returns the best play.
func (s *Solver) Solve(ctx context.Context, b *board.Board) (*Play, error) {
	plays, err := s.GenAll(ctx, b)
	if err != nil {
		return nil, err
	}
	if len(plays) == 0 {
		return nil, ErrNoPlay
	}
	return plays[0], nil
}
