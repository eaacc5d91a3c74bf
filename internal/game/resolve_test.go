package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fieldFrom builds a field from rows of text: lowercase letters are
// viruses, uppercase letters are Single segments, anything else is empty.
func fieldFrom(rows ...string) *Field {
	f := NewField(len(rows), len(rows[0]))
	for r, line := range rows {
		for c, ch := range line {
			switch ch {
			case 'r', 'b', 'y':
				f.Set(r, c, VirusCell(Color(ch-'a'+'A')))
			case 'R', 'B', 'Y':
				f.Set(r, c, CapsuleCell(Color(ch), Single))
			}
		}
	}
	return f
}

func positions(ps ...Pos) map[Pos]struct{} {
	m := make(map[Pos]struct{}, len(ps))
	for _, p := range ps {
		m[p] = struct{}{}
	}
	return m
}

func TestFindMatchesThreshold(t *testing.T) {
	t.Run("three in a row is not a match", func(t *testing.T) {
		f := fieldFrom(
			"     ",
			"rrr  ",
		)
		assert.Empty(t, findMatches(f))
	})

	t.Run("exactly four", func(t *testing.T) {
		f := fieldFrom(
			"     ",
			" yyyy",
		)
		assert.Equal(t, positions(Pos{1, 1}, Pos{1, 2}, Pos{1, 3}, Pos{1, 4}), findMatches(f))
	})

	t.Run("run of five marks all five", func(t *testing.T) {
		f := fieldFrom("bbbbb")
		assert.Len(t, findMatches(f), 5)
	})

	t.Run("viruses and capsules of one color match together", func(t *testing.T) {
		f := fieldFrom("rRrR ")
		assert.Len(t, findMatches(f), 4)
	})

	t.Run("a different color breaks the run", func(t *testing.T) {
		f := fieldFrom("rrbrr")
		assert.Empty(t, findMatches(f))
	})

	t.Run("gaps break the run", func(t *testing.T) {
		f := fieldFrom("rr rr")
		assert.Empty(t, findMatches(f))
	})
}

func TestFindMatchesVerticalAndCross(t *testing.T) {
	f := fieldFrom(
		"  Y  ",
		"  y  ",
		"yyYyy",
		"  y  ",
		"     ",
	)
	got := findMatches(f)
	assert.Len(t, got, 8, "the shared center cell is counted once")
	assert.Contains(t, got, Pos{0, 2})
	assert.Contains(t, got, Pos{2, 0})
	assert.Contains(t, got, Pos{2, 2})
	assert.Contains(t, got, Pos{3, 2})
	assert.NotContains(t, got, Pos{4, 2})
}

func TestClearMatchedDemotesPartners(t *testing.T) {
	f := NewField(3, 3)
	f.Set(0, 0, CapsuleCell(Red, Top))
	f.Set(1, 0, CapsuleCell(Blue, Bottom))
	f.Set(2, 0, CapsuleCell(Yellow, Left))
	f.Set(2, 1, CapsuleCell(Red, Right))

	clearMatched(f, positions(Pos{1, 0}, Pos{2, 1}))

	assert.Equal(t, CapsuleCell(Red, Single), f.Get(0, 0))
	assert.Equal(t, CapsuleCell(Yellow, Single), f.Get(2, 0))
	assert.True(t, f.Get(1, 0).IsEmpty())
	assert.True(t, f.Get(2, 1).IsEmpty())
}

func TestClearMatchedBothHalves(t *testing.T) {
	f := NewField(2, 3)
	f.Set(1, 0, CapsuleCell(Red, Left))
	f.Set(1, 1, CapsuleCell(Red, Right))

	clearMatched(f, positions(Pos{1, 0}, Pos{1, 1}))

	assert.True(t, f.Get(1, 0).IsEmpty())
	assert.True(t, f.Get(1, 1).IsEmpty())
}

func TestGravityMovesOneRow(t *testing.T) {
	f := fieldFrom(
		"R  ",
		"   ",
		"   ",
		"   ",
	)
	applyGravity(f, nil)
	assert.True(t, f.Get(0, 0).IsEmpty())
	assert.Equal(t, CapsuleCell(Red, Single), f.Get(1, 0))
}

func TestGravityLeavesVirusesAlone(t *testing.T) {
	f := fieldFrom(
		"r  ",
		"   ",
	)
	applyGravity(f, nil)
	assert.Equal(t, VirusCell(Red), f.Get(0, 0))
}

func TestGravityStackFollowsInOnePass(t *testing.T) {
	f := NewField(4, 2)
	f.Set(1, 0, CapsuleCell(Red, Top))
	f.Set(2, 0, CapsuleCell(Blue, Bottom))

	applyGravity(f, nil)

	assert.True(t, f.Get(1, 0).IsEmpty())
	assert.Equal(t, CapsuleCell(Red, Top), f.Get(2, 0))
	assert.Equal(t, CapsuleCell(Blue, Bottom), f.Get(3, 0))
}

func TestGravityPairNeedsBothCellsFree(t *testing.T) {
	f := NewField(3, 3)
	f.Set(0, 1, CapsuleCell(Red, Left))
	f.Set(0, 2, CapsuleCell(Blue, Right))
	f.Set(1, 1, VirusCell(Yellow))

	applyGravity(f, nil)

	assert.Equal(t, CapsuleCell(Red, Left), f.Get(0, 1))
	assert.Equal(t, CapsuleCell(Blue, Right), f.Get(0, 2))
	assert.True(t, f.Get(1, 2).IsEmpty())
}

func TestGravitySkipsHeldCells(t *testing.T) {
	f := fieldFrom(
		"R  ",
		"   ",
	)
	applyGravity(f, positions(Pos{0, 0}))
	assert.Equal(t, CapsuleCell(Red, Single), f.Get(0, 0))
}

func TestParseColor(t *testing.T) {
	for _, s := range []string{"R", "r", "B", "b", "Y", "y"} {
		c, ok := ParseColor(s)
		assert.True(t, ok, s)
		assert.Equal(t, strings.ToUpper(s), c.String())
	}
	for _, s := range []string{"", "G", "RR", "1"} {
		_, ok := ParseColor(s)
		assert.False(t, ok, s)
	}
}
