package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/drmario/internal/command"
	"github.com/robalobadob/drmario/internal/game"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want command.Command
	}{
		{"", command.Command{Op: command.Tick}},
		{"   ", command.Command{Op: command.Tick}},
		{"Q", command.Command{Op: command.Quit}},
		{"A", command.Command{Op: command.RotateCW}},
		{"B", command.Command{Op: command.RotateCCW}},
		{"<", command.Command{Op: command.MoveLeft}},
		{">", command.Command{Op: command.MoveRight}},
		{"F R B", command.Command{Op: command.Spawn, Left: game.Red, Right: game.Blue}},
		{"F y r", command.Command{Op: command.Spawn, Left: game.Yellow, Right: game.Red}},
		{"V 3 1 Y", command.Command{Op: command.InsertVirus, Row: 3, Col: 1, Color: game.Yellow}},
		{"  V 0 2 b ", command.Command{Op: command.InsertVirus, Row: 0, Col: 2, Color: game.Blue}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := command.Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"X", command.ErrUnknownCommand},
		{"q", command.ErrUnknownCommand},
		{"F R", command.ErrBadArguments},
		{"F R G", command.ErrBadArguments},
		{"F R B Y", command.ErrBadArguments},
		{"V 1 2", command.ErrBadArguments},
		{"V a 2 R", command.ErrBadArguments},
		{"V 1 b R", command.ErrBadArguments},
		{"V 1 2 Z", command.ErrBadArguments},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := command.Parse(tt.line)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApply(t *testing.T) {
	g, err := game.New(4, 3, nil)
	require.NoError(t, err)

	run := func(line string) bool {
		cmd, err := command.Parse(line)
		require.NoError(t, err)
		return command.Apply(g, cmd)
	}

	assert.True(t, run("F R Y"))
	f, ok := g.Faller()
	require.True(t, ok)
	assert.Equal(t, game.Red, f.First)

	assert.True(t, run("<"))
	f, _ = g.Faller()
	assert.Equal(t, 0, f.Col)

	assert.True(t, run("A"))
	f, _ = g.Faller()
	assert.Equal(t, game.Vertical, f.Orientation)

	assert.True(t, run(""))
	f, _ = g.Faller()
	assert.Equal(t, 2, f.Row)

	assert.True(t, run("V 3 2 b"))
	assert.Equal(t, game.VirusCell(game.Blue), g.Cell(3, 2))

	assert.False(t, run("Q"))
}

func TestParseContents(t *testing.T) {
	cells := command.ParseContents([]string{
		"r B",
		"yyyyyy",
		"",
	}, 4, 3)

	require.Len(t, cells, 4)
	for _, row := range cells {
		assert.Len(t, row, 3)
	}
	assert.Equal(t, game.VirusCell(game.Red), cells[0][0])
	assert.True(t, cells[0][1].IsEmpty())
	assert.Equal(t, game.CapsuleCell(game.Blue, game.Single), cells[0][2])
	assert.Equal(t, game.VirusCell(game.Yellow), cells[1][2])
	assert.True(t, cells[2][0].IsEmpty())
	assert.True(t, cells[3][2].IsEmpty())

	g, err := game.New(4, 3, cells)
	require.NoError(t, err)
	assert.False(t, g.LevelCleared())
}
