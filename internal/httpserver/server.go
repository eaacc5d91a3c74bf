// internal/httpserver/server.go
//
// HTTP server wiring for the capsule puzzle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/levels".
//   - Game endpoints (optional auth): POST /game/new, POST /game/command, GET /game/{id}.
//   - Daily layout endpoints (optional auth): mounted under /daily.
//   - Auth + profile/history endpoints: /auth/*, /stats/me, /games/mine (see auth.go).
//   - Recording game outcomes and user counters in the database.
//
// Notes:
//   - Live boards are held in the session store only; the database keeps
//     one history row per game (dimensions, status, tick count).
//   - Commands use the same line syntax as the terminal program.
//   - Optional auth decorates requests with user context when a valid token is present;
//     routes can still run for guests.

package httpserver

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/drmario/internal/command"
	"github.com/robalobadob/drmario/internal/daily"
	"github.com/robalobadob/drmario/internal/game"
	"github.com/robalobadob/drmario/internal/levels"
	"github.com/robalobadob/drmario/internal/store"
)

// Board limits accepted by POST /game/new.
const (
	minRows     = 4
	minCols     = 3
	maxRows     = 64
	maxCols     = 32
	defaultRows = 16
	defaultCols = 8
)

// Server bundles router, in-memory session store, and DB handle.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	daily *daily.Store
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db, daily: daily.NewStore(db)}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // zerolog request line
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"drmario-go","endpoints":["/health","/levels","POST /game/new","POST /game/command","GET /game/{id}","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/levels", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][]string{"levels": levels.Names()})
	})

	// Game endpoints: OPTIONAL AUTH (guests can play)
	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/command", s.handleCommand)
	s.r.Get("/game/{id}", s.handleGetGame)

	// Daily layout: OPTIONAL AUTH (guests can play; completion recorded for users)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/history
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one debug line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("reqId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
// Level wins over explicit dimensions; Contents uses the CONTENTS row format.
type newGameReq struct {
	Level    string   `json:"level"`
	Rows     int      `json:"rows"`
	Cols     int      `json:"cols"`
	Contents []string `json:"contents"`
}
type newGameRes struct {
	GameID string   `json:"gameId"`
	State  stateRes `json:"state"`
}

// stateRes is the board as served to clients.
type stateRes struct {
	game.Snapshot
	Ticks  int      `json:"ticks"`
	Status string   `json:"status"` // "playing" | "cleared" | "over"
	Lines  []string `json:"lines"`
}

func toState(o store.Outcome) stateRes {
	return stateRes{Snapshot: o.Snapshot, Ticks: o.Ticks, Status: status(o.Snapshot), Lines: game.Render(o.Snapshot)}
}

// status maps a snapshot to the stored game status.
func status(s game.Snapshot) string {
	switch {
	case s.GameOver:
		return "over"
	case s.LevelCleared:
		return "cleared"
	}
	return "playing"
}

var errDimensions = errors.New("bad_dimensions")

// buildGame turns a new-game request into an engine instance.
func buildGame(req newGameReq) (*game.Game, error) {
	if req.Level != "" {
		l, ok := levels.Get(req.Level)
		if !ok {
			return nil, errors.New("unknown_level")
		}
		return l.NewGame()
	}
	if req.Rows == 0 && req.Cols == 0 {
		req.Rows, req.Cols = defaultRows, defaultCols
	}
	if req.Rows < minRows || req.Cols < minCols || req.Rows > maxRows || req.Cols > maxCols {
		return nil, errDimensions
	}
	var cells [][]game.Cell
	if len(req.Contents) > 0 {
		cells = command.ParseContents(req.Contents, req.Rows, req.Cols)
	}
	return game.New(req.Rows, req.Cols, cells)
}

// handleNewGame creates a session and persists a DB "owner" row
// (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	g, err := buildGame(req)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.startSession(w, r, g, "")
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: sess.ID, State: toState(sess.View())})
}

// startSession stores a new session for g and writes its history row.
// On failure it has already written the error response.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, g *game.Game, dailyDate string) (*store.Session, bool) {
	owner := ""
	if me := userFrom(r.Context()); me != nil {
		owner = me.ID
	}
	sess := store.NewSession(genID(), owner, g)
	sess.Daily = dailyDate
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return nil, false
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if owner != "" {
		_, err := s.db.ExecContext(r.Context(), `INSERT INTO games (id, user_id, board_rows, board_cols, started_at, status)
		                     VALUES (?,?,?,?,?,?)`, sess.ID, owner, g.Rows(), g.Cols(), now, "playing")
		if err != nil {
			log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert user game row")
		}
	} else {
		anon := s.ensureAnonID(w, r)
		_, err := s.db.ExecContext(r.Context(), `INSERT INTO games (id, anonymous_id, board_rows, board_cols, started_at, status)
		                     VALUES (?,?,?,?,?,?)`, sess.ID, anon, g.Rows(), g.Cols(), now, "playing")
		if err != nil {
			log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert anon game row")
		}
	}
	return sess, true
}

// commandReq/Res payloads for POST /game/command.
type commandReq struct {
	GameID  string `json:"gameId"`
	Command string `json:"command"`
}
type commandRes struct {
	State stateRes `json:"state"`
}

// handleCommand applies one command line to a live game, updates the
// history row, and on the command that ends the game bumps user stats.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	cmd, err := command.Parse(req.Command)
	if err != nil {
		http.Error(w, `{"error":"bad_command"}`, http.StatusBadRequest)
		return
	}
	if cmd.Op == command.Quit {
		http.Error(w, `{"error":"quit_not_supported"}`, http.StatusBadRequest)
		return
	}

	out := sess.Do(func(g *game.Game) bool {
		command.Apply(g, cmd)
		return cmd.Op == command.Tick
	})
	if cmd.Op == command.Tick || out.Ended {
		s.recordProgress(r.Context(), sess, out)
	}
	_ = json.NewEncoder(w).Encode(commandRes{State: toState(out)})
}

// handleGetGame returns the current board without changing it.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(commandRes{State: toState(sess.View())})
}

// recordProgress persists tick counts and, once, the final status
// (best effort, non-fatal if it fails).
func (s *Server) recordProgress(ctx context.Context, sess *store.Session, out store.Outcome) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin progress tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET ticks=? WHERE id=?`, out.Ticks, sess.ID); err != nil {
		log.Warn().Err(err).Msg("update ticks")
	}

	if out.Ended {
		st := status(out.Snapshot)
		log.Info().Str("gameId", sess.ID).Str("status", st).Int("ticks", out.Ticks).Msg("game ended")
		if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=?`,
			st, time.Now().UTC().Format(time.RFC3339), sess.ID); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if sess.Owner != "" {
			if err := bumpStats(tx, sess.Owner, st == "cleared"); err != nil {
				log.Warn().Err(err).Str("user", sess.Owner).Msg("bump stats")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit progress")
		return
	}

	if out.Ended && sess.Daily != "" && sess.Owner != "" && out.Snapshot.LevelCleared && !out.Snapshot.GameOver {
		if err := s.daily.InsertResult(ctx, daily.Result{
			UserID: sess.Owner, Date: sess.Daily, GameID: sess.ID, Ticks: out.Ticks,
		}); err != nil {
			log.Warn().Err(err).Str("user", sess.Owner).Msg("insert daily result")
		}
	}
}

// bumpStats increments games played; updates levels cleared and streak (within tx).
func bumpStats(tx *sql.Tx, userID string, cleared bool) error {
	var gp, lc, streak int
	row := tx.QueryRow(`SELECT games_played, levels_cleared, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&gp, &lc, &streak); err != nil {
		return err
	}
	gp++
	if cleared {
		lc++
		streak++
	} else {
		streak = 0
	}
	_, err := tx.Exec(`UPDATE users SET games_played=?, levels_cleared=?, streak=? WHERE id=?`, gp, lc, streak, userID)
	return err
}

// ------------------------------- small util --------------------------------

// genID creates a 22‑char URL‑safe, crypto‑random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt reads an integer env var, falling back to def.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
