package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlindh/ordgrid/internal/api"
	"github.com/jlindh/ordgrid/internal/api/response"
	"github.com/jlindh/ordgrid/internal/factory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)
	require.NoError(t, app.Dictionary.LoadWords([]string{"ar", "tar", "rast", "sten"}))
	t.Cleanup(app.Coordinator.Close)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Coordinator: app.Coordinator,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// createGame creates a two-player game and returns its state
func (ts *testServer) createGame(t *testing.T) response.GameState {
	t.Helper()

	body := map[string]any{
		"room_id": "room-1",
		"players": []map[string]string{
			{"player_id": "p1", "username": "alice"},
			{"player_id": "p2", "username": "bob"},
		},
		"settings": map[string]any{"grid_size": 4},
	}
	rr := ts.request(http.MethodPost, "/api/v1/games", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var state response.GameState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	return state
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)

	state := ts.createGame(t)

	assert.NotEmpty(t, state.ID)
	assert.Equal(t, "room-1", state.RoomID)
	assert.Equal(t, "letter_selection", state.Phase)
	assert.Equal(t, 1, state.CurrentTurn)
	assert.Equal(t, 4, state.Settings.GridSize)
	assert.Len(t, state.Players, 2)
	assert.Positive(t, state.PhaseTimerEnd)
	assert.Nil(t, state.CurrentLetter)
}

func TestCreateGameValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{
		"players": []map[string]string{{"player_id": "p1"}, {"player_id": "p2"}},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/games", map[string]any{
		"room_id": "room-1",
		"players": []map[string]string{{"player_id": "p1"}},
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "INSUFFICIENT_PLAYERS", errorCode(t, rr))
}

func TestGetGame(t *testing.T) {
	ts := newTestServer(t)
	state := ts.createGame(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/"+state.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var got response.GameState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, state.ID, got.ID)
}

func TestGetGameNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/MISSING", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "GAME_NOT_FOUND", errorCode(t, rr))
}

func TestSelectPlaceConfirmFlow(t *testing.T) {
	ts := newTestServer(t)
	state := ts.createGame(t)
	base := "/api/v1/games/" + state.ID

	// p1 holds the first turn
	rr := ts.request(http.MethodPost, base+"/select", map[string]string{
		"player_id": "p1", "letter": "A",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var afterSelect response.GameState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &afterSelect))
	assert.Equal(t, "letter_placement", afterSelect.Phase)
	require.NotNil(t, afterSelect.CurrentLetter)
	assert.Equal(t, "A", *afterSelect.CurrentLetter)

	rr = ts.request(http.MethodPost, base+"/place", map[string]any{
		"player_id": "p1", "x": 0, "y": 0,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodPost, base+"/confirm", map[string]string{"player_id": "p1"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// p1's grid now holds the letter
	rr = ts.request(http.MethodGet, base+"/players/p1/grid", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var grid response.Grid
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &grid))
	assert.Equal(t, "A", grid.Cells[0][0])

	// Round advances once p2 confirms too
	rr = ts.request(http.MethodPost, base+"/place", map[string]any{
		"player_id": "p2", "x": 1, "y": 1,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, base+"/confirm", map[string]string{"player_id": "p2"})
	require.Equal(t, http.StatusOK, rr.Code)

	var afterRound response.GameState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &afterRound))
	assert.Equal(t, "letter_selection", afterRound.Phase)
	assert.Equal(t, 2, afterRound.CurrentTurn)
}

func TestSelectLetterErrors(t *testing.T) {
	ts := newTestServer(t)
	state := ts.createGame(t)
	base := "/api/v1/games/" + state.ID

	// Not the turn holder
	rr := ts.request(http.MethodPost, base+"/select", map[string]string{
		"player_id": "p2", "letter": "A",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "NOT_YOUR_TURN", errorCode(t, rr))

	// Not a single character
	rr = ts.request(http.MethodPost, base+"/select", map[string]string{
		"player_id": "p1", "letter": "AB",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, rr))

	// Not in the alphabet
	rr = ts.request(http.MethodPost, base+"/select", map[string]string{
		"player_id": "p1", "letter": "7",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_LETTER", errorCode(t, rr))
}

func TestPlaceLetterErrors(t *testing.T) {
	ts := newTestServer(t)
	state := ts.createGame(t)
	base := "/api/v1/games/" + state.ID

	// Wrong phase: no letter selected yet
	rr := ts.request(http.MethodPost, base+"/place", map[string]any{
		"player_id": "p1", "x": 0, "y": 0,
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "WRONG_PHASE", errorCode(t, rr))

	rr = ts.request(http.MethodPost, base+"/select", map[string]string{
		"player_id": "p1", "letter": "A",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	// Out of bounds on a 4x4 grid
	rr = ts.request(http.MethodPost, base+"/place", map[string]any{
		"player_id": "p1", "x": 4, "y": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "OUT_OF_BOUNDS", errorCode(t, rr))

	// Confirm without pending placement
	rr = ts.request(http.MethodPost, base+"/confirm", map[string]string{"player_id": "p2"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "NO_PENDING_PLACEMENT", errorCode(t, rr))
}

func TestOccupiedCellAcrossRounds(t *testing.T) {
	ts := newTestServer(t)
	state := ts.createGame(t)
	base := "/api/v1/games/" + state.ID

	playRound := func(letter string, x, y int) {
		t.Helper()
		rr := ts.request(http.MethodGet, base, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var g response.GameState
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &g))

		holder := fmt.Sprintf("p%d", g.CurrentTurn)
		rr = ts.request(http.MethodPost, base+"/select", map[string]string{
			"player_id": holder, "letter": letter,
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		for _, p := range []string{"p1", "p2"} {
			rr = ts.request(http.MethodPost, base+"/place", map[string]any{
				"player_id": p, "x": x, "y": y,
			})
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			rr = ts.request(http.MethodPost, base+"/confirm", map[string]string{"player_id": p})
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		}
	}

	playRound("A", 0, 0)

	rr := ts.request(http.MethodPost, base+"/select", map[string]string{
		"player_id": "p2", "letter": "R",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, base+"/place", map[string]any{
		"player_id": "p1", "x": 0, "y": 0,
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "CELL_OCCUPIED", errorCode(t, rr))
}

func TestResultsRequiresFinishedGame(t *testing.T) {
	ts := newTestServer(t)
	state := ts.createGame(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/"+state.ID+"/results", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "WRONG_PHASE", errorCode(t, rr))
}

func TestLeaveGame(t *testing.T) {
	ts := newTestServer(t)
	state := ts.createGame(t)
	base := "/api/v1/games/" + state.ID

	rr := ts.request(http.MethodPost, base+"/leave", map[string]string{"player_id": "p1"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got response.GameState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.True(t, got.Players[0].Departed)
	// p1 held the turn, so it passed to p2
	assert.Equal(t, 2, got.CurrentTurn)

	// Unknown player
	rr = ts.request(http.MethodPost, base+"/leave", map[string]string{"player_id": "p9"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "PLAYER_NOT_FOUND", errorCode(t, rr))
}
