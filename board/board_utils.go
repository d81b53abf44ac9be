package board

import (
	"fmt"
	"strings"

	"github.com/domino14/dropblox/block"
)

const (
	emptyMarker    = '.'
	filledMarker   = '#'
	activeMarker   = '@'
	altFilledRunes = "xX1"
)

// FromPlaintext builds a board from rows of text, top row first. '.' and
// ' ' are empty; '#', 'x', 'X' and '1' are filled. Every row must have the
// same width.
func FromPlaintext(rows []string, active *block.Shape, preview []*block.Shape) (*Board, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadDimensions)
	}
	cols := len(rows[0])
	grid := make([][]bool, len(rows))
	for r, line := range rows {
		grid[r] = make([]bool, len(line))
		for c, ch := range line {
			switch {
			case ch == emptyMarker || ch == ' ' || ch == '0':
			case ch == filledMarker || strings.ContainsRune(altFilledRunes, ch):
				grid[r][c] = true
			default:
				return nil, fmt.Errorf("unexpected character %q at row %d col %d", ch, r, c)
			}
		}
	}
	return NewBoard(len(rows), cols, grid, active, preview)
}

// ToDisplayText draws the board with the active block at its current pose.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	active := map[block.Point]bool{}
	if b.IsLegal(b.active) {
		for _, p := range b.active.Cells(nil) {
			active[p] = true
		}
	}
	sb.WriteString("\n   ")
	for c := 0; c < b.cols; c++ {
		sb.WriteByte(byte('0' + c%10))
	}
	sb.WriteString("\n   " + strings.Repeat("-", b.cols) + "\n")
	for r := 0; r < b.rows; r++ {
		fmt.Fprintf(&sb, "%2d|", r)
		for c := 0; c < b.cols; c++ {
			switch {
			case active[block.Point{Row: r, Col: c}]:
				sb.WriteRune(activeMarker)
			case b.Occupied(r, c):
				sb.WriteRune(filledMarker)
			default:
				sb.WriteRune(emptyMarker)
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   " + strings.Repeat("-", b.cols) + "\n")
	if len(b.preview) > 0 {
		names := make([]string, len(b.preview))
		for i, s := range b.preview {
			names[i] = s.Name()
		}
		sb.WriteString("preview: " + strings.Join(names, " ") + "\n")
	}
	return sb.String()
}

// Plaintext renders only the locked cells, one string per row, in the
// format FromPlaintext reads.
func (b *Board) Plaintext() []string {
	out := make([]string, b.rows)
	for r := 0; r < b.rows; r++ {
		row := make([]byte, b.cols)
		for c := 0; c < b.cols; c++ {
			if b.Occupied(r, c) {
				row[c] = filledMarker
			} else {
				row[c] = emptyMarker
			}
		}
		out[r] = string(row)
	}
	return out
}

func (b *Board) String() string {
	return fmt.Sprintf("<board %dx%d active %v preview %d cleared %d>",
		b.rows, b.cols, b.active, len(b.preview), b.cleared)
}
