// internal/levels/levels.go
//
// Preset starting boards.
//
// Responsibilities:
//   - Load level boards from LEVELS_DIR, or fall back to the embedded set.
//   - Derive each board's dimensions from its text.
//   - Supply lookups by name (Get, Names).
//
// Board format (one text row per line, see command.ParseContents):
//   - lowercase r/b/y: virus
//   - uppercase R/B/Y: loose capsule fragment
//   - anything else:   empty
//
// Environment variables:
//   LEVELS_DIR=/path/to/levels   (every *.txt inside is a level)
//
// Initialization runs once (sync.Once).

package levels

import (
	"errors"
	"os"
	"sort"
	"sync"

	"github.com/robalobadob/drmario/assets"
	"github.com/robalobadob/drmario/internal/command"
	"github.com/robalobadob/drmario/internal/game"
)

// Level is a named starting board.
type Level struct {
	Name  string
	Rows  int
	Cols  int
	Board []string
}

// Cells converts the board text into engine cells.
func (l Level) Cells() [][]game.Cell {
	return command.ParseContents(l.Board, l.Rows, l.Cols)
}

// NewGame builds a fresh game from the level.
func (l Level) NewGame() (*game.Game, error) {
	return game.New(l.Rows, l.Cols, l.Cells())
}

var (
	initOnce   sync.Once
	byName     map[string]Level
	initialErr error
)

// Init loads the levels exactly once.
// Returns an error if no usable level was found.
func Init() error {
	initOnce.Do(func() {
		var raw map[string][]string
		if dir := os.Getenv("LEVELS_DIR"); dir != "" {
			raw, initialErr = assets.LevelsFrom(os.DirFS(dir), ".")
		} else {
			raw, initialErr = assets.Levels()
		}
		if initialErr != nil {
			return
		}
		byName = build(raw)
		if len(byName) == 0 {
			initialErr = errors.New("levels: no usable levels")
		}
	})
	return initialErr
}

// build measures each board and drops those too small to play on.
func build(raw map[string][]string) map[string]Level {
	out := make(map[string]Level, len(raw))
	for name, rows := range raw {
		cols := 0
		for _, r := range rows {
			cols = max(cols, len(r))
		}
		if len(rows) < game.MinRows || cols < game.MinCols {
			continue
		}
		out[name] = Level{Name: name, Rows: len(rows), Cols: cols, Board: rows}
	}
	return out
}

// Get looks up a level by name.
func Get(name string) (Level, bool) {
	l, ok := byName[name]
	return l, ok
}

// Names lists the loaded level names in order.
func Names() []string {
	out := make([]string, 0, len(byName))
	for n := range byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
