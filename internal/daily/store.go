package daily

import (
	"context"
	"database/sql"
)

// Result is one user's completion of a daily board.
type Result struct {
	UserID string `json:"userId"`
	Date   string `json:"date"`
	GameID string `json:"gameId"`
	Ticks  int    `json:"ticks"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a completion; a second one for the same user and
// date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, game_id, ticks)
		VALUES(?,?,?,?)`, r.UserID, r.Date, r.GameID, r.Ticks,
	)
	return err
}

// Completions lists the recorded results for a date, earliest first.
func (s *Store) Completions(ctx context.Context, date string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, date, game_id, ticks
		FROM daily_results
		WHERE date=?
		ORDER BY created_at ASC, user_id ASC
		LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.UserID, &r.Date, &r.GameID, &r.Ticks); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
