package game

// Offset is a kick translation. Negative DY moves the piece up.
type Offset struct {
	DX, DY int
}

// Kick tables are tried in order; the first offset that yields a valid
// placement wins. The 2x2 square never needs to move.
var (
	squareKicks = []Offset{{0, 0}}

	standardKicks = []Offset{
		{0, 0},
		{-1, 0}, {1, 0},
		{0, -1}, {0, 1},
		{-1, 1}, {1, 1},
		{-1, -1}, {1, -1},
	}

	barKicks = []Offset{
		{0, 0},
		{-1, 0}, {1, 0},
		{0, -1},
		{-2, 0}, {2, 0},
		{0, 1},
		{-1, 1}, {1, 1},
		{-1, -1}, {1, -1},
	}
)

// Kicks returns the ordered kick table for the size class of k.
func Kicks(k Kind) []Offset {
	switch len(baseShapes[k]) {
	case 2:
		return squareKicks
	case 4:
		return barKicks
	}
	return standardKicks
}

// TryRotate rotates p on b, trying each kick in order. It returns the placed
// piece and the offset used, or ok=false with p unchanged.
func TryRotate(b *Board, p Piece, dir Direction) (Piece, Offset, bool) {
	if !p.Kind.Valid() {
		return p, Offset{}, false
	}
	rotated := p.Rotated(dir)
	for _, off := range Kicks(p.Kind) {
		candidate := rotated.Moved(off.DX, off.DY)
		if b.IsValidPlacement(candidate) {
			return candidate, off, true
		}
	}
	return p, Offset{}, false
}
