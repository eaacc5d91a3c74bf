// cmd/drmario/main.go
//
// Terminal front end for the capsule puzzle engine.
// Reads from stdin:
//   - rows (integer ≥ 4), cols (integer ≥ 3), then EMPTY or CONTENTS;
//   - for CONTENTS, one board row per line;
//   - then one command per line (see internal/command).
//
// The board is printed before every command. Q quits; when the game ends
// the final board is printed once more and the program exits.
// Diagnostics go to stderr so stdout is only the board transcript.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/drmario/internal/command"
	"github.com/robalobadob/drmario/internal/game"
)

// Smallest board the terminal program accepts.
const (
	minRows = 4
	minCols = 3
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := run(os.Stdin, os.Stdout); err != nil && !errors.Is(err, io.EOF) {
		log.Fatal().Err(err).Msg("drmario")
	}
}

// run drives one game from in to out. It returns io.EOF if input ends
// before the game does.
func run(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	readLine := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return sc.Text(), nil
	}

	rows, err := readDimension(readLine, out, minRows, "Rows must be at least 4.")
	if err != nil {
		return err
	}
	cols, err := readDimension(readLine, out, minCols, "Columns must be at least 3.")
	if err != nil {
		return err
	}

	var mode string
	for {
		line, err := readLine()
		if err != nil {
			return err
		}
		mode = strings.ToUpper(strings.TrimSpace(line))
		if mode == "EMPTY" || mode == "CONTENTS" {
			break
		}
		fmt.Fprintln(out, "Invalid mode. Please type either EMPTY or CONTENTS.")
	}

	var contents [][]game.Cell
	if mode == "CONTENTS" {
		lines := make([]string, 0, rows)
		for len(lines) < rows {
			line, err := readLine()
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}
		contents = command.ParseContents(lines, rows, cols)
	}

	g, err := game.New(rows, cols, contents)
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}
	log.Debug().Int("rows", rows).Int("cols", cols).Str("mode", mode).Msg("game started")

	for {
		printBoard(out, g)
		line, err := readLine()
		if err != nil {
			return err
		}
		cmd, err := command.Parse(line)
		if err != nil {
			log.Debug().Err(err).Str("line", line).Msg("ignored command")
			continue
		}
		if !command.Apply(g, cmd) {
			return nil
		}
		if g.GameOver() {
			log.Info().Msg("game over")
			printBoard(out, g)
			return nil
		}
	}
}

// readDimension re-prompts until it reads an integer of at least lo.
func readDimension(readLine func() (string, error), out io.Writer, lo int, tooSmall string) (int, error) {
	for {
		line, err := readLine()
		if err != nil {
			return 0, err
		}
		raw := strings.TrimSpace(line)
		n, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintf(out, "‘%s’ is not a valid integer. Please enter a number.\n", raw)
			continue
		}
		if n < lo {
			fmt.Fprintln(out, tooSmall)
			continue
		}
		return n, nil
	}
}

func printBoard(out io.Writer, g *game.Game) {
	for _, l := range game.Render(g.Snapshot()) {
		fmt.Fprintln(out, l)
	}
}
