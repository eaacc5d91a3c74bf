// internal/command/command.go
//
// Line-oriented command reader for the capsule puzzle.
// Responsibilities:
//   - Parse one input line into a typed Command.
//   - Parse CONTENTS-mode board rows into engine cells.
//   - Dispatch a Command to a *game.Game.
//
// Syntax (one command per line):
//   F <c1> <c2>          spawn a faller with left/right colors
//   (empty line)         advance one tick
//   A / B                rotate clockwise / counterclockwise
//   < / >                move left / right
//   V <row> <col> <c>    insert a virus
//   Q                    quit
//
// Colors are R, B or Y in either case.

package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/robalobadob/drmario/internal/game"
)

// Op names a command.
type Op uint8

const (
	Tick Op = iota
	Spawn
	RotateCW
	RotateCCW
	MoveLeft
	MoveRight
	InsertVirus
	Quit
)

var opNames = [...]string{"tick", "spawn", "rotate_cw", "rotate_ccw", "move_left", "move_right", "insert_virus", "quit"}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Command is one parsed instruction. Only the fields its Op uses are set.
type Command struct {
	Op       Op
	Left     game.Color // Spawn
	Right    game.Color // Spawn
	Row, Col int        // InsertVirus
	Color    game.Color // InsertVirus
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArguments   = errors.New("bad arguments")
)

// Parse reads one line. Leading and trailing whitespace is ignored, so a
// blank line is a tick.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Op: Tick}, nil
	}
	fields := strings.Fields(line)

	switch fields[0] {
	case "Q":
		return Command{Op: Quit}, nil
	case "A":
		return Command{Op: RotateCW}, nil
	case "B":
		return Command{Op: RotateCCW}, nil
	case "<":
		return Command{Op: MoveLeft}, nil
	case ">":
		return Command{Op: MoveRight}, nil

	case "F":
		if len(fields) != 3 {
			return Command{}, fmt.Errorf("F: %w", ErrBadArguments)
		}
		l, okL := game.ParseColor(fields[1])
		r, okR := game.ParseColor(fields[2])
		if !okL || !okR {
			return Command{}, fmt.Errorf("F %s %s: %w", fields[1], fields[2], ErrBadArguments)
		}
		return Command{Op: Spawn, Left: l, Right: r}, nil

	case "V":
		if len(fields) != 4 {
			return Command{}, fmt.Errorf("V: %w", ErrBadArguments)
		}
		row, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("V row %q: %w", fields[1], ErrBadArguments)
		}
		col, err := strconv.Atoi(fields[2])
		if err != nil {
			return Command{}, fmt.Errorf("V col %q: %w", fields[2], ErrBadArguments)
		}
		c, ok := game.ParseColor(fields[3])
		if !ok {
			return Command{}, fmt.Errorf("V color %q: %w", fields[3], ErrBadArguments)
		}
		return Command{Op: InsertVirus, Row: row, Col: col, Color: c}, nil
	}
	return Command{}, fmt.Errorf("%q: %w", fields[0], ErrUnknownCommand)
}

// Apply runs cmd against g. It reports false for Quit, true otherwise.
func Apply(g *game.Game, cmd Command) bool {
	switch cmd.Op {
	case Tick:
		g.Tick()
	case Spawn:
		g.Spawn(cmd.Left, cmd.Right)
	case RotateCW:
		g.Rotate(true)
	case RotateCCW:
		g.Rotate(false)
	case MoveLeft:
		g.MoveLeft()
	case MoveRight:
		g.MoveRight()
	case InsertVirus:
		g.InsertVirus(cmd.Row, cmd.Col, cmd.Color)
	case Quit:
		return false
	}
	return true
}

// ParseContents turns CONTENTS rows into cells. Uppercase R/B/Y become
// Single capsule segments, lowercase r/b/y become viruses and anything else
// is empty. Short lines are padded and long lines truncated to cols; a
// missing line is an empty row.
func ParseContents(lines []string, rows, cols int) [][]game.Cell {
	out := make([][]game.Cell, rows)
	for r := range out {
		out[r] = make([]game.Cell, cols)
		if r >= len(lines) {
			continue
		}
		for c, ch := range []byte(lines[r]) {
			if c >= cols {
				break
			}
			out[r][c] = parseCell(ch)
		}
	}
	return out
}

func parseCell(ch byte) game.Cell {
	switch ch {
	case 'R', 'B', 'Y':
		return game.CapsuleCell(game.Color(ch), game.Single)
	case 'r', 'b', 'y':
		return game.VirusCell(game.Color(ch - 'a' + 'A'))
	}
	return game.EmptyCell
}
