// internal/game/types.go
//
// Core type definitions for the capsule puzzle engine.
// Defines:
//   - Color: one of the three piece/virus colors.
//   - Half: the role a capsule segment plays inside its pair.
//   - Cell: the tagged value stored in each grid position.
//   - Pos: a (row, col) grid coordinate.

package game

import "strings"

// Color identifies a virus or capsule color.
// The canonical form is the uppercase letter; viruses render lowercase
// but compare equal to capsules of the same color.
type Color byte

const (
	Red    Color = 'R'
	Blue   Color = 'B'
	Yellow Color = 'Y'
)

// ParseColor accepts R/B/Y in either case.
func ParseColor(s string) (Color, bool) {
	if len(s) != 1 {
		return 0, false
	}
	switch c := Color(strings.ToUpper(s)[0]); c {
	case Red, Blue, Yellow:
		return c, true
	}
	return 0, false
}

// String returns the uppercase letter.
func (c Color) String() string { return string(rune(c)) }

// MarshalText encodes c as its letter.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// lower is the virus glyph for c.
func (c Color) lower() string { return strings.ToLower(c.String()) }

// Half is the role of a capsule segment.
type Half uint8

const (
	Single Half = iota // severed from its partner, falls alone
	Left
	Right
	Top
	Bottom
)

var halfNames = [...]string{"single", "left", "right", "top", "bottom"}

func (h Half) String() string {
	if int(h) < len(halfNames) {
		return halfNames[h]
	}
	return "unknown"
}

// Paired reports whether h still belongs to an intact pair.
func (h Half) Paired() bool { return h != Single }

// Kind discriminates the Cell union.
type Kind uint8

const (
	Empty Kind = iota
	Virus
	Capsule
)

// Cell is the value held by one grid position.
// Color is meaningful for Virus and Capsule; Half only for Capsule.
type Cell struct {
	Kind  Kind
	Color Color
	Half  Half
}

// EmptyCell is the zero Cell.
var EmptyCell = Cell{}

// VirusCell builds a virus of color c.
func VirusCell(c Color) Cell { return Cell{Kind: Virus, Color: c} }

// CapsuleCell builds a capsule segment.
func CapsuleCell(c Color, h Half) Cell { return Cell{Kind: Capsule, Color: c, Half: h} }

// IsEmpty reports whether the cell holds nothing.
func (c Cell) IsEmpty() bool { return c.Kind == Empty }

// SameColor compares two non-empty cells by color only, so a virus and a
// capsule of the same color are equal.
func (c Cell) SameColor(o Cell) bool {
	return c.Kind != Empty && o.Kind != Empty && c.Color == o.Color
}

// Pos is a grid coordinate, row 0 at the top.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
