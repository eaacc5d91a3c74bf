package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/drmario/assets"
	"github.com/robalobadob/drmario/internal/database"
	"github.com/robalobadob/drmario/internal/game"
	"github.com/robalobadob/drmario/internal/httpserver"
	"github.com/robalobadob/drmario/internal/levels"
	"github.com/robalobadob/drmario/internal/store"
)

type stateBody struct {
	Rows         int              `json:"rows"`
	Cols         int              `json:"cols"`
	Faller       *game.FallerView `json:"faller"`
	Matched      []game.Pos       `json:"matched"`
	GameOver     bool             `json:"gameOver"`
	LevelCleared bool             `json:"levelCleared"`
	Ticks        int              `json:"ticks"`
	Status       string           `json:"status"`
	Lines        []string         `json:"lines"`
}

type gameBody struct {
	GameID string    `json:"gameId"`
	State  stateBody `json:"state"`
}

type client struct {
	t     *testing.T
	h     http.Handler
	token string
}

func newClient(t *testing.T) *client {
	t.Helper()
	require.NoError(t, levels.Init())
	db, err := database.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db, assets.Migrations()))
	return &client{t: t, h: httpserver.New(store.NewMemoryStore(), db).Router()}
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func (c *client) command(id, line string) stateBody {
	c.t.Helper()
	var res struct {
		State stateBody `json:"state"`
	}
	code := c.do(http.MethodPost, "/game/command", map[string]string{"gameId": id, "command": line}, &res)
	require.Equal(c.t, http.StatusOK, code, "command %q", line)
	return res.State
}

// newMatchGame starts a 4×4 board whose floor reads "r  r"; a red pair
// dropped from spawn completes a four-run on the floor.
func (c *client) newMatchGame() string {
	c.t.Helper()
	var res gameBody
	code := c.do(http.MethodPost, "/game/new", map[string]any{
		"rows": 4, "cols": 4, "contents": []string{"", "", "", "r  r"},
	}, &res)
	require.Equal(c.t, http.StatusOK, code)
	require.NotEmpty(c.t, res.GameID)
	return res.GameID
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	var body map[string]bool
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, &body))
	assert.True(t, body["ok"])
}

func TestNewGameDefaults(t *testing.T) {
	c := newClient(t)
	var res gameBody
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", map[string]any{}, &res))
	assert.Equal(t, 16, res.State.Rows)
	assert.Equal(t, 8, res.State.Cols)
	assert.Len(t, res.State.Lines, 18)
	// No viruses on a blank board, so it starts out cleared.
	assert.True(t, res.State.LevelCleared)
	assert.Equal(t, "cleared", res.State.Status)
	assert.Equal(t, "LEVEL CLEARED", res.State.Lines[17])
}

func TestNewGameRejectsBadRequests(t *testing.T) {
	c := newClient(t)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/new", map[string]any{"rows": 3, "cols": 3}, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/new", map[string]any{"rows": 8, "cols": 2}, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/new", map[string]any{"level": "nope"}, nil))
}

func TestNewGameFromLevel(t *testing.T) {
	c := newClient(t)
	var names map[string][]string
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/levels", nil, &names))
	assert.Contains(t, names["levels"], "intro")

	var res gameBody
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", map[string]any{"level": "intro"}, &res))
	assert.Equal(t, 8, res.State.Rows)
	assert.Equal(t, 6, res.State.Cols)
	assert.False(t, res.State.LevelCleared)
	assert.Equal(t, "playing", res.State.Status)
}

func TestPlayThroughToLevelCleared(t *testing.T) {
	c := newClient(t)
	id := c.newMatchGame()

	st := c.command(id, "F R R")
	require.NotNil(t, st.Faller)
	assert.Equal(t, 1, st.Faller.Col)
	assert.Equal(t, "|   [R--R]   |", st.Lines[1])

	c.command(id, "")
	st = c.command(id, "")
	require.NotNil(t, st.Faller)
	assert.True(t, st.Faller.Landed)

	st = c.command(id, "")
	assert.Nil(t, st.Faller)
	assert.Equal(t, "| r  R--R  r |", st.Lines[3])

	st = c.command(id, "")
	assert.Len(t, st.Matched, 4)
	assert.Equal(t, "|*r**R**R**r*|", st.Lines[3])
	assert.Equal(t, "playing", st.Status)

	st = c.command(id, "")
	assert.Empty(t, st.Matched)
	assert.True(t, st.LevelCleared)
	assert.Equal(t, "cleared", st.Status)
	assert.Equal(t, 5, st.Ticks)
	assert.Equal(t, "LEVEL CLEARED", st.Lines[len(st.Lines)-1])

	var got struct {
		State stateBody `json:"state"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/game/"+id, nil, &got))
	assert.Equal(t, st, got.State)
}

func TestCommandErrors(t *testing.T) {
	c := newClient(t)
	id := c.newMatchGame()

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/game/command", map[string]string{"gameId": "missing", "command": ""}, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/command", map[string]string{"gameId": id, "command": "F R G"}, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/command", map[string]string{"gameId": id, "command": "Q"}, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/game/missing", nil, nil))
}

func TestGameOverOverHTTP(t *testing.T) {
	c := newClient(t)
	var res gameBody
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", map[string]any{
		"rows": 4, "cols": 3, "contents": []string{" b ", "", "", "y"},
	}, &res))

	st := c.command(res.GameID, "F R B")
	assert.True(t, st.GameOver)
	assert.Equal(t, "over", st.Status)
	assert.Nil(t, st.Faller)
	assert.Equal(t, "GAME OVER", st.Lines[len(st.Lines)-1])
}

func TestAuthAndHistory(t *testing.T) {
	c := newClient(t)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/auth/me", nil, nil))

	var signup map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/signup",
		map[string]string{"username": "amy_k", "password": "hunter2hunter2"}, &signup))
	assert.Equal(t, "amy_k", signup["username"])
	c.token, _ = signup["token"].(string)
	require.NotEmpty(t, c.token)

	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/auth/signup",
		map[string]string{"username": "AMY_K", "password": "hunter2hunter2"}, nil))

	var me map[string]string
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/auth/me", nil, &me))
	assert.Equal(t, "amy_k", me["username"])

	id := c.newMatchGame()
	for _, line := range []string{"F R R", "", "", "", "", ""} {
		c.command(id, line)
	}

	var stats map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/stats/me", nil, &stats))
	assert.EqualValues(t, 1, stats["gamesPlayed"])
	assert.EqualValues(t, 1, stats["levelsCleared"])
	assert.EqualValues(t, 1, stats["streak"])

	var mine []map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/games/mine", nil, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, id, mine[0]["id"])
	assert.Equal(t, "cleared", mine[0]["status"])
	assert.EqualValues(t, 5, mine[0]["ticks"])

	c.token = ""
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/auth/login",
		map[string]string{"username": "amy_k", "password": "wrong-password"}, nil))
	var login map[string]any
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/login",
		map[string]string{"username": "amy_k", "password": "hunter2hunter2"}, &login))
	assert.NotEmpty(t, login["token"])
}

func TestDailyLayout(t *testing.T) {
	c := newClient(t)

	var today struct {
		Date    string `json:"date"`
		Rows    int    `json:"rows"`
		Cols    int    `json:"cols"`
		Viruses []struct {
			Row   int    `json:"row"`
			Col   int    `json:"col"`
			Color string `json:"color"`
		} `json:"viruses"`
		Played bool `json:"played"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/daily/today", nil, &today))
	assert.Equal(t, 16, today.Rows)
	assert.Equal(t, 8, today.Cols)
	assert.Len(t, today.Viruses, 8)
	assert.False(t, today.Played)

	var started struct {
		GameID string    `json:"gameId"`
		Date   string    `json:"date"`
		State  stateBody `json:"state"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &started))
	assert.NotEmpty(t, started.GameID)
	assert.Equal(t, today.Date, started.Date)
	assert.False(t, started.State.LevelCleared)

	for _, v := range today.Viruses {
		line := started.State.Lines[v.Row]
		glyph := line[1+3*v.Col : 4+3*v.Col]
		assert.Equal(t, " "+string(rune(v.Color[0]+'a'-'A'))+" ", glyph)
	}
}

func TestDailyCompletions(t *testing.T) {
	c := newClient(t)

	var body struct {
		Date    string           `json:"date"`
		Results []map[string]any `json:"results"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/daily/completions?date=2026-10-16", nil, &body))
	assert.Equal(t, "2026-10-16", body.Date)
	assert.NotNil(t, body.Results)
	assert.Empty(t, body.Results)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/daily/completions?date=yesterday", nil, nil))
}
