// Package automatic plays dropblox games by itself: every piece is placed
// wherever the solver likes best, and new pieces are dealt at random.
package automatic

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/dropblox/board"
	"github.com/domino14/dropblox/config"
	"github.com/domino14/dropblox/pieceset"
	"github.com/domino14/dropblox/solver"
)

// GameRunner plays one game at a time. It is not safe for concurrent use.
type GameRunner struct {
	config *config.Config
	solver *solver.Solver
	pieces *pieceset.PieceSet

	rows, cols  int
	previewSize int
	maxPieces   int

	logchan chan string
	gameID  int
}

// GameResult describes a finished game.
type GameResult struct {
	Pieces int
	Lines  int
	// ToppedOut is false when the game stopped at the piece limit.
	ToppedOut bool
	Final     *board.Board
}

// NewGameRunner creates a runner. If logchan is not nil, one CSV line per
// placed piece is sent to it.
func NewGameRunner(logchan chan string, cfg *config.Config) (*GameRunner, error) {
	cols := cfg.GetInt(config.ConfigCols)
	pieces, err := pieceset.Load(cfg.GetString(config.ConfigPiecesFile), cols)
	if err != nil {
		return nil, err
	}
	return &GameRunner{
		config:      cfg,
		solver:      solver.NewFromConfig(cfg),
		pieces:      pieces,
		rows:        cfg.GetInt(config.ConfigRows),
		cols:        cols,
		previewSize: max(1, cfg.GetInt(config.ConfigPreviewSize)),
		maxPieces:   cfg.GetInt(config.ConfigAutoplayMax),
		logchan:     logchan,
	}, nil
}

// NewGame returns an empty board with a freshly dealt active piece and
// preview.
func (r *GameRunner) NewGame() (*board.Board, error) {
	return board.NewEmpty(r.rows, r.cols, r.pieces.Random(), r.pieces.Draw(r.previewSize))
}

// PlayGame plays a full game until the stack reaches the top or the piece
// limit is hit.
func (r *GameRunner) PlayGame(ctx context.Context) (*GameResult, error) {
	b, err := r.NewGame()
	if err != nil {
		return nil, err
	}
	r.gameID++
	res := &GameResult{}
	for r.maxPieces <= 0 || res.Pieces < r.maxPieces {
		play, err := r.solver.Solve(ctx, b)
		if errors.Is(err, board.ErrIllegalStart) || errors.Is(err, solver.ErrNoPlay) {
			res.ToppedOut = true
			break
		}
		if err != nil {
			return nil, err
		}
		res.Pieces++
		res.Lines += play.Result.Cleared()
		if r.logchan != nil {
			r.logchan <- fmt.Sprintf("%d,%d,%s,%d,%d,%d,%s\n",
				r.gameID, res.Pieces, b.Active().Shape().Name(), play.Score,
				play.Result.Cleared(), res.Lines, play.Commands)
		}
		b = play.Result.WithPreview(r.pieces.Random())
	}
	res.Final = b
	log.Debug().Int("pieces", res.Pieces).Int("lines", res.Lines).
		Bool("topped-out", res.ToppedOut).Msg("game-over")
	return res, nil
}
