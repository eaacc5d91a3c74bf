// internal/game/engine.go
//
// Game state and tick controller for a single capsule puzzle board.
// Responsibilities:
//   - Own the field, the optional active faller, and the pending match set.
//   - Apply player commands (spawn, move, rotate, insert virus) synchronously.
//   - Drive the per-tick state machine:
//       fall → land → freeze, then detect → clear → gravity.
//   - Track game over; derive level cleared on demand.
//
// Notes:
//   - Invalid player actions are silent no-ops, never errors.
//   - Matches are detected on one tick and cleared on the next so callers
//     can render them highlighted in between.
//   - A faller that stops gets one extra tick before it freezes.
//   - Nothing here is random; identical inputs give identical boards.
package game

import (
	"errors"
	"sort"
)

// Smallest board that still has a hidden row, a spawn row and room to fall.
const (
	MinRows = 3
	MinCols = 2
)

var (
	ErrDimensions    = errors.New("game: board too small")
	ErrContentsShape = errors.New("game: contents do not match board dimensions")
)

// Game holds the complete state of one board.
type Game struct {
	field    *Field
	faller   *Faller
	matched  map[Pos]struct{}
	gameOver bool
}

// New constructs a game of rows × cols. contents may be nil for an empty
// board; otherwise it must be exactly rows × cols and is copied.
func New(rows, cols int, contents [][]Cell) (*Game, error) {
	if rows < MinRows || cols < MinCols {
		return nil, ErrDimensions
	}
	f := NewField(rows, cols)
	if contents != nil {
		if len(contents) != rows {
			return nil, ErrContentsShape
		}
		for r, row := range contents {
			if len(row) != cols {
				return nil, ErrContentsShape
			}
			for c, cell := range row {
				f.Set(r, c, cell)
			}
		}
	}
	return &Game{field: f, matched: make(map[Pos]struct{})}, nil
}

// Rows returns the board height.
func (g *Game) Rows() int { return g.field.rows }

// Cols returns the board width.
func (g *Game) Cols() int { return g.field.cols }

// Cell reads one board position.
func (g *Game) Cell(r, c int) Cell { return g.field.Get(r, c) }

// Faller returns a copy of the active piece and whether one exists.
func (g *Game) Faller() (Faller, bool) {
	if g.faller == nil {
		return Faller{}, false
	}
	return *g.faller, true
}

// GameOver reports whether a spawn has been blocked.
func (g *Game) GameOver() bool { return g.gameOver }

// LevelCleared reports whether no virus remains on the board.
func (g *Game) LevelCleared() bool { return !g.field.HasVirus() }

// Matched returns the cells marked for clearing, in row-major order.
func (g *Game) Matched() []Pos { return sortedPositions(g.matched) }

// spawnColumn is the left segment's column: the middle, or the left of the
// two middle columns on an even-width board.
func spawnColumn(cols int) int {
	mid := cols / 2
	if cols%2 == 0 {
		mid--
	}
	return mid
}

// Spawn creates a horizontal faller on row 1. If either column of the
// spawn lane is occupied in row 0 or row 1 the game is over instead.
// Ignored while a faller is active or after game over.
func (g *Game) Spawn(left, right Color) {
	if g.faller != nil || g.gameOver {
		return
	}
	col := spawnColumn(g.field.cols)
	for _, r := range [...]int{0, 1} {
		if !g.field.IsEmpty(r, col) || !g.field.IsEmpty(r, col+1) {
			g.gameOver = true
			return
		}
	}
	g.faller = &Faller{
		Row:         1,
		Col:         col,
		Orientation: Horizontal,
		First:       left,
		Second:      right,
	}
}

// MoveLeft shifts the faller one column left if there is room.
func (g *Game) MoveLeft() {
	if g.faller != nil {
		g.faller.shift(g.field, -1)
	}
}

// MoveRight shifts the faller one column right if there is room.
func (g *Game) MoveRight() {
	if g.faller != nil {
		g.faller.shift(g.field, 1)
	}
}

// Rotate turns the faller, with a one-column wall kick to the left.
func (g *Game) Rotate(clockwise bool) {
	if g.faller != nil {
		g.faller.rotate(g.field, clockwise)
	}
}

// InsertVirus places a virus on an empty in-bounds cell; anything else is
// ignored.
func (g *Game) InsertVirus(r, c int, color Color) {
	if g.field.IsEmpty(r, c) {
		g.field.Set(r, c, VirusCell(color))
	}
}

// Tick advances time by one step.
//
// While a faller exists only the faller moves: it drops a row if it can,
// is marked landed when it can no longer drop, and freezes into the board
// on the tick after it landed. Otherwise a pending match set is cleared,
// or, if none is pending, the board is scanned for new matches. One
// gravity step follows in both cases.
func (g *Game) Tick() {
	if f := g.faller; f != nil {
		blocked := f.willLand(g.field)
		if f.Landed && !blocked {
			// rotated or slid off its support
			f.Landed = false
		}
		wasLanded := f.Landed
		if !wasLanded && !blocked {
			f.Row++
			blocked = f.willLand(g.field)
		}
		switch {
		case blocked && wasLanded:
			f.freeze(g.field)
			g.faller = nil
		case blocked:
			f.Landed = true
		}
		return
	}

	if len(g.matched) > 0 {
		clearMatched(g.field, g.matched)
		g.matched = make(map[Pos]struct{})
	} else {
		g.matched = findMatches(g.field)
	}
	applyGravity(g.field, g.matched)
}

// sortedPositions orders a position set row-major.
func sortedPositions(set map[Pos]struct{}) []Pos {
	out := make([]Pos, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}
