package game

import "fmt"

const (
	Cols = 10
	Rows = 20
)

// Kind identifies one of the seven piece shapes.
type Kind int

const (
	KindI Kind = iota
	KindJ
	KindL
	KindO
	KindS
	KindT
	KindZ
)

// NumKinds is the size of one bag.
const NumKinds = 7

// AllKinds lists every kind in canonical order.
var AllKinds = [NumKinds]Kind{KindI, KindJ, KindL, KindO, KindS, KindT, KindZ}

func (k Kind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	case KindO:
		return "O"
	case KindS:
		return "S"
	case KindT:
		return "T"
	case KindZ:
		return "Z"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the seven kinds.
func (k Kind) Valid() bool {
	return k >= KindI && k <= KindZ
}

// Color returns the board cell value used for locked cells of this kind (1..7).
func (k Kind) Color() int {
	return int(k) + 1
}

// Shape is a square boolean matrix indexed [row][col].
type Shape [][]bool

var baseShapes = [NumKinds]Shape{
	KindI: {
		{false, false, false, false},
		{true, true, true, true},
		{false, false, false, false},
		{false, false, false, false},
	},
	KindJ: {
		{true, false, false},
		{true, true, true},
		{false, false, false},
	},
	KindL: {
		{false, false, true},
		{true, true, true},
		{false, false, false},
	},
	KindO: {
		{true, true},
		{true, true},
	},
	KindS: {
		{false, true, true},
		{true, true, false},
		{false, false, false},
	},
	KindT: {
		{false, true, false},
		{true, true, true},
		{false, false, false},
	},
	KindZ: {
		{true, true, false},
		{false, true, true},
		{false, false, false},
	},
}

// ShapeOf returns a fresh copy of the spawn-orientation shape for k.
func ShapeOf(k Kind) Shape {
	if !k.Valid() {
		return nil
	}
	return baseShapes[k].clone()
}

func (s Shape) clone() Shape {
	out := make(Shape, len(s))
	for i := range s {
		out[i] = make([]bool, len(s[i]))
		copy(out[i], s[i])
	}
	return out
}

// Bounds returns the inclusive row/col extent of the filled cells.
// An empty shape reports all zeros.
func (s Shape) Bounds() (minRow, maxRow, minCol, maxCol int) {
	minRow, minCol = len(s), len(s)
	maxRow, maxCol = -1, -1
	for r, row := range s {
		for c, filled := range row {
			if !filled {
				continue
			}
			minRow = min(minRow, r)
			maxRow = max(maxRow, r)
			minCol = min(minCol, c)
			maxCol = max(maxCol, c)
		}
	}
	if maxRow == -1 {
		return 0, 0, 0, 0
	}
	return minRow, maxRow, minCol, maxCol
}

// Direction is a rotation sense.
type Direction int

const (
	Clockwise Direction = iota
	CounterClockwise
)

// RotateShape returns s turned 90 degrees in the given direction.
func RotateShape(s Shape, dir Direction) Shape {
	n := len(s)
	rotated := make(Shape, n)
	for i := range rotated {
		rotated[i] = make([]bool, n)
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if dir == Clockwise {
				rotated[c][n-1-r] = s[r][c]
			} else {
				rotated[n-1-c][r] = s[r][c]
			}
		}
	}
	return rotated
}

// Piece is a positioned instance of a kind. X and Y locate the top-left of
// the shape matrix on the board; Y may be negative (above the skyline).
type Piece struct {
	Kind     Kind
	Shape    Shape
	Rotation int
	X, Y     int
	Color    int
}

// Spawn places a new piece of kind k at its default spawn position: centered
// over the columns its filled cells span, with the bar's filled row on row 0
// and every other kind starting one row above that.
func Spawn(k Kind) Piece {
	shape := ShapeOf(k)
	minRow, _, minCol, maxCol := shape.Bounds()
	width := maxCol - minCol + 1

	y := -1 - minRow
	if k == KindI {
		y = -minRow
	}
	return Piece{
		Kind:  k,
		Shape: shape,
		X:     Cols/2 - width/2 - minCol,
		Y:     y,
		Color: k.Color(),
	}
}

// SpawnCandidates returns the primary spawn position followed by the same
// piece one row higher.
func SpawnCandidates(k Kind) [2]Piece {
	p := Spawn(k)
	return [2]Piece{p, p.Moved(0, -1)}
}

// Moved returns a copy of p translated by dx, dy.
func (p Piece) Moved(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	return p
}

// Rotated returns a copy of p turned in place. The shape is copied, p is not
// modified.
func (p Piece) Rotated(dir Direction) Piece {
	p.Shape = RotateShape(p.Shape, dir)
	if dir == Clockwise {
		p.Rotation = (p.Rotation + 1) % 4
	} else {
		p.Rotation = (p.Rotation + 3) % 4
	}
	return p
}

// Point is a board coordinate.
type Point struct {
	X, Y int
}

// Cells returns the board coordinates of every filled cell.
func (p Piece) Cells() []Point {
	cells := make([]Point, 0, 4)
	for r, row := range p.Shape {
		for c, filled := range row {
			if filled {
				cells = append(cells, Point{X: p.X + c, Y: p.Y + r})
			}
		}
	}
	return cells
}

// AboveSkyline reports whether any filled cell sits on a row < 0.
func (p Piece) AboveSkyline() bool {
	for _, c := range p.Cells() {
		if c.Y < 0 {
			return true
		}
	}
	return false
}

// Visible reports whether any filled cell sits on the board (row >= 0).
func (p Piece) Visible() bool {
	for _, c := range p.Cells() {
		if c.Y >= 0 {
			return true
		}
	}
	return false
}
