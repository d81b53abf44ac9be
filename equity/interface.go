// Package equity ranks boards. A placement is scored by locking it and
// evaluating the resulting board; higher is better.
package equity

import (
	"github.com/domino14/dropblox/board"
)

// Calculator scores one aspect of a board that was produced by locking a
// candidate placement (rows already cleared, Cleared() set).
type Calculator interface {
	Score(b *board.Board) int
	Type() string
}
