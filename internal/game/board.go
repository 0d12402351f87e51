package game

// Board is the playfield. Cells holds 0 for empty or a piece color id.
type Board struct {
	Cells  [][]int
	Width  int
	Height int
}

func NewBoard() *Board {
	cells := make([][]int, Rows)
	for i := range cells {
		cells[i] = make([]int, Cols)
	}
	return &Board{
		Cells:  cells,
		Width:  Cols,
		Height: Rows,
	}
}

// IsValidPlacement reports whether every filled cell of p lies inside the
// columns, above the floor, and on an empty cell. Rows above the board are
// always free.
func (b *Board) IsValidPlacement(p Piece) bool {
	for y, row := range p.Shape {
		for x, cell := range row {
			if !cell {
				continue
			}
			boardX := p.X + x
			boardY := p.Y + y
			if boardX < 0 || boardX >= b.Width {
				return false
			}
			if boardY >= b.Height {
				return false
			}
			if boardY >= 0 && b.Cells[boardY][boardX] != 0 {
				return false
			}
		}
	}
	return true
}

// Merge writes p's color into every filled cell that lands on the board.
func (b *Board) Merge(p Piece) {
	for y, row := range p.Shape {
		for x, cell := range row {
			if !cell {
				continue
			}
			boardY := p.Y + y
			boardX := p.X + x
			if boardY >= 0 && boardY < b.Height && boardX >= 0 && boardX < b.Width {
				b.Cells[boardY][boardX] = p.Color
			}
		}
	}
}

// ClearFullRows removes every completely filled row, shifting the rows above
// it down and inserting empty rows at the top. It returns the number removed.
func (b *Board) ClearFullRows() int {
	cleared := 0
	for y := b.Height - 1; y >= 0; y-- {
		if !b.rowFull(y) {
			continue
		}
		cleared++
		copy(b.Cells[1:y+1], b.Cells[:y])
		b.Cells[0] = make([]int, b.Width)
		// the row above has moved into y
		y++
	}
	return cleared
}

func (b *Board) rowFull(y int) bool {
	for x := 0; x < b.Width; x++ {
		if b.Cells[y][x] == 0 {
			return false
		}
	}
	return true
}

// LowestValidRow returns the deepest Y at which p is still a valid placement,
// probing one row at a time from p.Y. p itself is not modified.
func (b *Board) LowestValidRow(p Piece) int {
	y := p.Y
	for b.IsValidPlacement(p.Moved(0, y-p.Y+1)) {
		y++
	}
	return y
}

// Fill sets every cell of row y to color except the listed hole columns.
func (b *Board) Fill(y, color int, holes ...int) {
	if y < 0 || y >= b.Height {
		return
	}
	for x := 0; x < b.Width; x++ {
		b.Cells[y][x] = color
	}
	for _, x := range holes {
		if x >= 0 && x < b.Width {
			b.Cells[y][x] = 0
		}
	}
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	c := &Board{
		Width:  b.Width,
		Height: b.Height,
		Cells:  make([][]int, b.Height),
	}
	for y := range b.Cells {
		c.Cells[y] = make([]int, b.Width)
		copy(c.Cells[y], b.Cells[y])
	}
	return c
}

// ToFlat returns the board as a row-major slice of color ids (0 = empty).
func (b *Board) ToFlat() []int {
	flat := make([]int, b.Height*b.Width)
	for y := 0; y < b.Height; y++ {
		copy(flat[y*b.Width:(y+1)*b.Width], b.Cells[y])
	}
	return flat
}

// BoardFromFlat reconstructs a Board from a flat color-index array. Missing
// trailing cells are left empty.
func BoardFromFlat(flat []int, width, height int) *Board {
	b := &Board{
		Width:  width,
		Height: height,
		Cells:  make([][]int, height),
	}
	for y := 0; y < height; y++ {
		b.Cells[y] = make([]int, width)
		for x := 0; x < width; x++ {
			idx := y*width + x
			if idx < len(flat) {
				b.Cells[y][x] = flat[idx]
			}
		}
	}
	return b
}
