package game

// partnerOf returns where the other half of a paired segment sits.
func partnerOf(p Pos, h Half) (Pos, bool) {
	switch h {
	case Left:
		return Pos{p.Row, p.Col + 1}, true
	case Right:
		return Pos{p.Row, p.Col - 1}, true
	case Top:
		return Pos{p.Row + 1, p.Col}, true
	case Bottom:
		return Pos{p.Row - 1, p.Col}, true
	}
	return Pos{}, false
}

// clearMatched empties every marked cell. Before a paired segment goes,
// its partner is demoted to Single so it falls on its own afterwards.
// Cells are visited in row-major order.
func clearMatched(f *Field, marked map[Pos]struct{}) {
	for _, p := range sortedPositions(marked) {
		cell := f.Get(p.Row, p.Col)
		if cell.Kind == Capsule {
			if q, ok := partnerOf(p, cell.Half); ok {
				if other := f.Get(q.Row, q.Col); other.Kind == Capsule && other.Half.Paired() {
					other.Half = Single
					f.Set(q.Row, q.Col, other)
				}
			}
		}
		f.Set(p.Row, p.Col, EmptyCell)
	}
}

// intactPair reports whether a Left segment at p has its Right partner
// directly beside it.
func intactPair(f *Field, p Pos) bool {
	l, r := f.Get(p.Row, p.Col), f.Get(p.Row, p.Col+1)
	return l.Kind == Capsule && l.Half == Left &&
		r.Kind == Capsule && r.Half == Right
}

// applyGravity drops loose capsule material by at most one row.
//
// Columns are scanned left to right and rows bottom-up, skipping the last
// row. An intact horizontal pair only drops when both cells under it are
// empty. Single, Top and Bottom segments (and a Left/Right missing its
// partner) drop alone. Viruses never move, and neither do cells in held,
// which are waiting to be cleared.
func applyGravity(f *Field, held map[Pos]struct{}) {
	moved := make(map[Pos]struct{})
	isHeld := func(p Pos) bool {
		_, ok := held[p]
		return ok
	}

	for c := 0; c < f.cols; c++ {
		for r := f.rows - 2; r >= 0; r-- {
			p := Pos{r, c}
			if _, done := moved[p]; done {
				continue
			}
			cell := f.Get(r, c)
			if cell.Kind != Capsule || isHeld(p) {
				continue
			}

			switch {
			case cell.Half == Left && intactPair(f, p):
				q := Pos{r, c + 1}
				if isHeld(q) || !f.IsEmpty(r+1, c) || !f.IsEmpty(r+1, c+1) {
					continue
				}
				right := f.Get(r, c+1)
				f.Set(r+1, c, cell)
				f.Set(r+1, c+1, right)
				f.Set(r, c, EmptyCell)
				f.Set(r, c+1, EmptyCell)
				moved[Pos{r + 1, c}] = struct{}{}
				moved[Pos{r + 1, c + 1}] = struct{}{}

			case cell.Half == Right && intactPair(f, Pos{r, c - 1}):
				// moves with its Left partner

			default:
				if !f.IsEmpty(r+1, c) {
					continue
				}
				f.Set(r+1, c, cell)
				f.Set(r, c, EmptyCell)
				moved[Pos{r + 1, c}] = struct{}{}
			}
		}
	}
}
