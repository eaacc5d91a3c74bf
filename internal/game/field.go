package game

// Field is a fixed rows × cols matrix of cells.
// It only stores; every rule lives in the callers.
type Field struct {
	rows, cols int
	cells      []Cell
}

// NewField returns an all-empty field.
func NewField(rows, cols int) *Field {
	return &Field{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
}

func (f *Field) Rows() int { return f.rows }
func (f *Field) Cols() int { return f.cols }

// InBounds reports whether (r, c) lies inside the field.
func (f *Field) InBounds(r, c int) bool {
	return r >= 0 && r < f.rows && c >= 0 && c < f.cols
}

// Get returns the cell at (r, c); out-of-bounds reads yield EmptyCell.
func (f *Field) Get(r, c int) Cell {
	if !f.InBounds(r, c) {
		return EmptyCell
	}
	return f.cells[r*f.cols+c]
}

// Set writes cell at (r, c); out-of-bounds writes are dropped.
func (f *Field) Set(r, c int, cell Cell) {
	if !f.InBounds(r, c) {
		return
	}
	f.cells[r*f.cols+c] = cell
}

// IsEmpty is true only for in-bounds empty cells, which is what every
// collision check wants.
func (f *Field) IsEmpty(r, c int) bool {
	return f.InBounds(r, c) && f.cells[r*f.cols+c].Kind == Empty
}

// HasVirus reports whether any virus remains.
func (f *Field) HasVirus() bool {
	for _, c := range f.cells {
		if c.Kind == Virus {
			return true
		}
	}
	return false
}

// snapshot copies the cells out as a row-major matrix.
func (f *Field) snapshot() [][]Cell {
	out := make([][]Cell, f.rows)
	for r := range out {
		out[r] = make([]Cell, f.cols)
		copy(out[r], f.cells[r*f.cols:(r+1)*f.cols])
	}
	return out
}
