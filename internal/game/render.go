package game

import "strings"

// Render draws a snapshot as the fixed-width text board.
//
// Every cell is three characters wide and each row is framed by '|'.
// Falling pieces use square brackets, landed pieces use bars, frozen pairs
// are joined with dashes and matched cells are wrapped in '*'. A dashed
// floor follows, then LEVEL CLEARED and GAME OVER when they apply.
func Render(s Snapshot) []string {
	overlay := make(map[Pos]string, 2)
	if f := s.faller; f != nil {
		lb, rb := "[", "]"
		if f.Landed {
			lb, rb = "|", "|"
		}
		seg := f.segments()
		if f.Orientation == Vertical {
			overlay[seg[0].Pos] = lb + seg[0].Color.String() + rb
			overlay[seg[1].Pos] = lb + seg[1].Color.String() + rb
		} else {
			overlay[seg[0].Pos] = lb + seg[0].Color.String() + "-"
			overlay[seg[1].Pos] = "-" + seg[1].Color.String() + rb
		}
	}
	matched := make(map[Pos]bool, len(s.Matched))
	for _, p := range s.Matched {
		matched[p] = true
	}

	lines := make([]string, 0, s.Rows+3)
	var b strings.Builder
	for r := 0; r < s.Rows; r++ {
		b.Reset()
		b.WriteByte('|')
		for c := 0; c < s.Cols; c++ {
			p := Pos{r, c}
			if o, ok := overlay[p]; ok {
				b.WriteString(o)
				continue
			}
			b.WriteString(renderCell(s.Cells[r][c], matched[p]))
		}
		b.WriteByte('|')
		lines = append(lines, b.String())
	}

	lines = append(lines, " "+strings.Repeat("-", 3*s.Cols)+" ")
	if s.LevelCleared {
		lines = append(lines, "LEVEL CLEARED")
	}
	if s.GameOver {
		lines = append(lines, "GAME OVER")
	}
	return lines
}

func renderCell(cell Cell, matched bool) string {
	var glyph string
	switch cell.Kind {
	case Empty:
		return "   "
	case Virus:
		glyph = cell.Color.lower()
	default:
		glyph = cell.Color.String()
	}
	if matched {
		return "*" + glyph + "*"
	}
	if cell.Kind == Capsule {
		switch cell.Half {
		case Left:
			return " " + glyph + "-"
		case Right:
			return "-" + glyph + " "
		}
	}
	return " " + glyph + " "
}
