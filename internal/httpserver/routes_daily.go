// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily board.
// Exposes endpoints under /daily:
//   - GET  /daily/today → today's date, board size and virus layout
//   - POST /daily/new   → start a game seeded with today's layout
//   - GET  /daily/completions?date=YYYY-MM-DD&limit=N → who cleared that board
//
// The layout is derived from date + salt, so every player gets the same
// board on the same day. Signed-in players get one recorded completion per
// day (written when the level is cleared, see recordProgress).

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/drmario/internal/daily"
	"github.com/robalobadob/drmario/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv     *Server
	salt    string
	viruses int
	now     func() time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:     s,
		salt:    getEnv("DAILY_SALT", "local_dev_salt"),
		viruses: envInt("DAILY_VIRUSES", 8),
		now:     time.Now,
	}
	r.Route("/daily", func(r chi.Router) {
		r.Get("/today", dd.handleToday)
		r.Post("/new", dd.handleNew)
		r.Get("/completions", dd.handleCompletions)
	})
}

// todayRes is returned by /daily/today.
type todayRes struct {
	Date    string            `json:"date"`
	Rows    int               `json:"rows"`
	Cols    int               `json:"cols"`
	Viruses []daily.Placement `json:"viruses"`
	Played  bool              `json:"played"`
}

// layout returns today's date key and placements.
func (d *dailyServer) layout() (string, []daily.Placement) {
	now := d.now()
	return daily.DateKey(now), daily.Layout(now, d.salt, defaultRows, defaultCols, d.viruses)
}

// played reports whether the signed-in user already cleared date.
// Guests are never marked as played.
func (d *dailyServer) played(r *http.Request, date string) bool {
	me := userFrom(r.Context())
	if me == nil {
		return false
	}
	ok, err := d.srv.daily.AlreadyPlayed(r.Context(), me.ID, date)
	if err != nil {
		log.Warn().Err(err).Str("user", me.ID).Msg("daily already played")
		return false
	}
	return ok
}

func (d *dailyServer) handleToday(w http.ResponseWriter, r *http.Request) {
	date, ps := d.layout()
	_ = json.NewEncoder(w).Encode(todayRes{
		Date: date, Rows: defaultRows, Cols: defaultCols, Viruses: ps, Played: d.played(r, date),
	})
}

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string    `json:"gameId,omitempty"`
	Date   string    `json:"date"`
	Played bool      `json:"played"`
	State  *stateRes `json:"state,omitempty"`
}

// handleNew starts a daily game unless the user already cleared today's board.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	date, ps := d.layout()
	if d.played(r, date) {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
		return
	}

	g, err := game.New(defaultRows, defaultCols, nil)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	daily.Apply(g, ps)

	sess, ok := d.srv.startSession(w, r, g, date)
	if !ok {
		return
	}
	st := toState(sess.View())
	_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.ID, Date: date, State: &st})
}

// handleCompletions lists recorded clears for a date (default today),
// earliest first.
func (d *dailyServer) handleCompletions(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rs, err := d.srv.daily.Completions(r.Context(), date, min(limit, 100))
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily completions")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	if rs == nil {
		rs = []daily.Result{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"date": date, "results": rs})
}
