package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/drmario/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Placement is one virus of a daily layout.
type Placement struct {
	Row   int        `json:"row"`
	Col   int        `json:"col"`
	Color game.Color `json:"color"`
}

var palette = [...]game.Color{game.Red, game.Blue, game.Yellow}

// stream yields deterministic uint64s from HMAC(salt, date || counter).
type stream struct {
	key, date []byte
	n         uint64
}

func (s *stream) next() uint64 {
	h := hmac.New(sha256.New, s.key)
	h.Write(s.date)
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], s.n)
	h.Write(ctr[:])
	s.n++
	return binary.BigEndian.Uint64(h.Sum(nil)[:8])
}

// Layout returns up to n distinct virus placements for date. The same
// (date, salt, rows, cols, n) always gives the same layout. Viruses stay
// out of the top quarter of the board and never touch rows 0 and 1, so
// the spawn lane is clear.
func Layout(date time.Time, salt string, rows, cols, n int) []Placement {
	top := max(2, rows/4)
	if rows <= top || cols <= 0 || n <= 0 {
		return nil
	}
	free := (rows - top) * cols
	n = min(n, free)

	s := &stream{key: []byte(salt), date: []byte(DateKey(date))}
	used := make(map[game.Pos]bool, n)
	out := make([]Placement, 0, n)
	for len(out) < n {
		v := s.next()
		p := game.Pos{Row: top + int(v%uint64(rows-top)), Col: int((v >> 20) % uint64(cols))}
		if used[p] {
			continue
		}
		used[p] = true
		out = append(out, Placement{Row: p.Row, Col: p.Col, Color: palette[(v>>40)%uint64(len(palette))]})
	}
	return out
}

// Apply inserts every placement into g.
func Apply(g *game.Game, ps []Placement) {
	for _, p := range ps {
		g.InsertVirus(p.Row, p.Col, p.Color)
	}
}
