package game

// Orientation of the active piece.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Faller is the single active, player-controlled piece.
//
// The anchor (Row, Col) is the left segment when horizontal and the bottom
// segment when vertical, so a vertical piece occupies (Row-1, Col) and
// (Row, Col). First is the left/top color, Second the right/bottom color.
type Faller struct {
	Row, Col    int
	Orientation Orientation
	First       Color
	Second      Color
	Landed      bool
}

// segment is one occupied cell of the faller.
type segment struct {
	Pos
	Cell
}

// segments returns the two occupied cells in first/second order.
func (f *Faller) segments() [2]segment {
	if f.Orientation == Vertical {
		return [2]segment{
			{Pos{f.Row - 1, f.Col}, CapsuleCell(f.First, Top)},
			{Pos{f.Row, f.Col}, CapsuleCell(f.Second, Bottom)},
		}
	}
	return [2]segment{
		{Pos{f.Row, f.Col}, CapsuleCell(f.First, Left)},
		{Pos{f.Row, f.Col + 1}, CapsuleCell(f.Second, Right)},
	}
}

// fits reports whether both segments sit on in-bounds empty cells.
func (f *Faller) fits(field *Field) bool {
	for _, s := range f.segments() {
		if !field.IsEmpty(s.Row, s.Col) {
			return false
		}
	}
	return true
}

// shift moves the piece dc columns if the result fits.
// A successful shift always clears Landed.
func (f *Faller) shift(field *Field, dc int) bool {
	f.Col += dc
	if !f.fits(field) {
		f.Col -= dc
		return false
	}
	f.Landed = false
	return true
}

// rotate flips the orientation and remaps colors, kicking one column left
// when the rotated piece does not fit in place. On failure the faller is
// restored exactly.
//
// Vertical to horizontal always puts bottom on the left and top on the
// right, whichever way the rotation goes.
func (f *Faller) rotate(field *Field, clockwise bool) bool {
	prev := *f
	if f.Orientation == Horizontal {
		left, right := f.First, f.Second
		if clockwise {
			f.First, f.Second = right, left
		} else {
			f.First, f.Second = left, right
		}
		f.Orientation = Vertical
	} else {
		top, bottom := f.First, f.Second
		f.First, f.Second = bottom, top
		f.Orientation = Horizontal
	}

	if f.fits(field) {
		return true
	}
	f.Col--
	if f.fits(field) {
		return true
	}
	*f = prev
	return false
}

// willLand reports whether the piece cannot drop one more row.
// A vertical piece only tests beneath its bottom segment.
func (f *Faller) willLand(field *Field) bool {
	below := f.Row + 1
	if f.Orientation == Vertical {
		return !field.IsEmpty(below, f.Col)
	}
	return !field.IsEmpty(below, f.Col) || !field.IsEmpty(below, f.Col+1)
}

// freeze writes both segments into the field with their pair roles.
func (f *Faller) freeze(field *Field) {
	for _, s := range f.segments() {
		field.Set(s.Row, s.Col, s.Cell)
	}
}
