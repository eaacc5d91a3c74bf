package game

// FallerView is the read-only description of the active piece.
type FallerView struct {
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Orientation string `json:"orientation"`
	First       string `json:"first"`  // left or top
	Second      string `json:"second"` // right or bottom
	Landed      bool   `json:"landed"`
}

// Snapshot is a deep copy of everything a renderer needs.
type Snapshot struct {
	Rows         int         `json:"rows"`
	Cols         int         `json:"cols"`
	Cells        [][]Cell    `json:"-"`
	Faller       *FallerView `json:"faller,omitempty"`
	Matched      []Pos       `json:"matched"`
	GameOver     bool        `json:"gameOver"`
	LevelCleared bool        `json:"levelCleared"`

	faller *Faller
}

// Snapshot copies the current state out of g.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Rows:         g.field.rows,
		Cols:         g.field.cols,
		Cells:        g.field.snapshot(),
		Matched:      g.Matched(),
		GameOver:     g.gameOver,
		LevelCleared: g.LevelCleared(),
	}
	if g.faller != nil {
		f := *g.faller
		s.faller = &f
		s.Faller = &FallerView{
			Row:         f.Row,
			Col:         f.Col,
			Orientation: f.Orientation.String(),
			First:       f.First.String(),
			Second:      f.Second.String(),
			Landed:      f.Landed,
		}
	}
	return s
}
