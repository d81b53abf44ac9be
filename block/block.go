// Package block models a falling piece: an immutable Shape (pivot plus cell
// offsets) and a mutable Pose (rotation plus translation from spawn).
package block

import (
	"errors"
	"fmt"

	"github.com/domino14/dropblox/move"
)

// MaxOffsets bounds the number of cells in a shape.
const MaxOffsets = 10

var (
	ErrEmptyShape   = errors.New("shape has no offsets")
	ErrShapeTooLong = fmt.Errorf("shape has more than %d offsets", MaxOffsets)
)

// Point is a (row, column) pair. Row 0 is the top of the board.
type Point struct {
	Row int
	Col int
}

func (p Point) Add(o Point) Point {
	return Point{p.Row + o.Row, p.Col + o.Col}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Shape is a piece template. It is never mutated after NewShape returns, so
// a single *Shape may be shared by any number of boards.
type Shape struct {
	name    string
	center  Point
	offsets []Point
	radius  int
}

// NewShape creates a shape. The offsets slice is copied.
func NewShape(name string, center Point, offsets []Point) (*Shape, error) {
	if len(offsets) == 0 {
		return nil, ErrEmptyShape
	}
	if len(offsets) > MaxOffsets {
		return nil, ErrShapeTooLong
	}
	s := &Shape{
		name:    name,
		center:  center,
		offsets: append([]Point(nil), offsets...),
	}
	for _, o := range offsets {
		s.radius = max(s.radius, abs(o.Row), abs(o.Col))
	}
	return s, nil
}

// MustShape is NewShape for fixtures; it panics on error.
func MustShape(name string, center Point, offsets ...Point) *Shape {
	s, err := NewShape(name, center, offsets)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Shape) Name() string { return s.name }
func (s *Shape) Center() Point { return s.center }
func (s *Shape) Size() int { return len(s.offsets) }
func (s *Shape) Radius() int { return s.radius }
func (s *Shape) Offset(k int) Point {
	return s.offsets[k]
}

func (s *Shape) String() string {
	return fmt.Sprintf("<shape %s center %v offsets %v>", s.name, s.center, s.offsets)
}

// Pose is the mutable part of a block. Rotation is always kept in 0..3.
type Pose struct {
	Rotation    int
	Translation Point
}

const keyBias = 1 << 10

// Key packs the pose into an integer suitable for hashing. Translations are
// assumed to lie within +/-1024 on each axis.
func (p Pose) Key() uint32 {
	return uint32(p.Translation.Row+keyBias)<<13 |
		uint32(p.Translation.Col+keyBias)<<2 |
		uint32(p.Rotation&3)
}

func (p Pose) String() string {
	return fmt.Sprintf("r%d %v", p.Rotation, p.Translation)
}

// Block is a shape in a pose. It is a small value; copy it freely.
type Block struct {
	shape *Shape
	Pose
}

// New returns a block of the given shape at its spawn pose.
func New(s *Shape) Block {
	return Block{shape: s}
}

// WithPose returns a copy of b moved to pose p.
func (b Block) WithPose(p Pose) Block {
	p.Rotation &= 3
	b.Pose = p
	return b
}

func (b Block) Shape() *Shape { return b.shape }
func (b Block) Size() int { return len(b.shape.offsets) }
func (b Block) Radius() int { return b.shape.radius }

// Origin is the absolute position of the pivot cell.
func (b Block) Origin() Point {
	return b.shape.center.Add(b.Translation)
}

// Cell returns the absolute board position of the k-th offset. Rotation r
// maps an offset (i, j) to (i, j), (j, -i), (-i, -j), (-j, i) for r = 0..3.
func (b Block) Cell(k int) Point {
	off := b.shape.offsets[k]
	p := b.Origin()
	r := b.Rotation & 3
	if r&1 == 1 {
		s := 2 - r
		p.Row += s * off.Col
		p.Col -= s * off.Row
	} else {
		s := 1 - r
		p.Row += s * off.Row
		p.Col += s * off.Col
	}
	return p
}

// Cells appends every absolute cell to dst and returns it.
func (b Block) Cells(dst []Point) []Point {
	for k := range b.shape.offsets {
		dst = append(dst, b.Cell(k))
	}
	return dst
}

func (b *Block) Left() { b.Translation.Col-- }
func (b *Block) Right() { b.Translation.Col++ }
func (b *Block) Up() { b.Translation.Row-- }
func (b *Block) Down() { b.Translation.Row++ }

func (b *Block) Rotate() { b.Rotation = (b.Rotation + 1) & 3 }
func (b *Block) Unrotate() { b.Rotation = (b.Rotation + 3) & 3 }

// Reset puts the block back at its spawn pose.
func (b *Block) Reset() { b.Pose = Pose{} }

// Apply performs a single movement command. Drop is not a movement; it is
// handled by the board.
func (b *Block) Apply(c move.Command) error {
	switch c {
	case move.Left:
		b.Left()
	case move.Right:
		b.Right()
	case move.Up:
		b.Up()
	case move.Down:
		b.Down()
	case move.Rotate:
		b.Rotate()
	default:
		return fmt.Errorf("%w: %v is not a movement", move.ErrUnknownCommand, c)
	}
	return nil
}

func (b Block) String() string {
	return fmt.Sprintf("<block %s %v>", b.shape.name, b.Pose)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
