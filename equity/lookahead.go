package equity

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/dropblox/board"
	"github.com/domino14/dropblox/movegen"
)

// LookaheadCalculator looks at the next piece, which is the active block of
// the evaluated board, and rewards the board by the most rows that piece
// could complete with one placement. A Weight of 0 turns it off.
type LookaheadCalculator struct {
	Weight int
}

func (lc LookaheadCalculator) Score(b *board.Board) int {
	if lc.Weight == 0 {
		return 0
	}
	cands, err := movegen.NewGenerator().Generate(b)
	if err != nil {
		// the next piece cannot spawn; the game would be over.
		log.Debug().Err(err).Msg("lookahead-no-spawn")
		return 0
	}
	best := 0
	for _, p := range cands {
		best = max(best, b.CompletedBy(b.Active().WithPose(p)))
	}
	return lc.Weight * best
}

func (lc LookaheadCalculator) Type() string { return "lookahead" }
