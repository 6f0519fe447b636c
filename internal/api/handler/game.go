package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jlindh/ordgrid/internal/api/request"
	"github.com/jlindh/ordgrid/internal/api/response"
	"github.com/jlindh/ordgrid/internal/model"
	"github.com/jlindh/ordgrid/internal/session"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	coordinator *session.Coordinator
}

// NewGameHandler creates a new game handler
func NewGameHandler(coordinator *session.Coordinator) *GameHandler {
	return &GameHandler{coordinator: coordinator}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.RoomID == "" {
		WriteError(w, NewInvalidRequestError("room_id is required"))
		return
	}

	seats := make([]model.Seat, len(req.Players))
	for i, p := range req.Players {
		if p.PlayerID == "" {
			WriteError(w, NewInvalidRequestError("player_id is required for every player"))
			return
		}
		seats[i] = model.Seat{
			UserID:   model.PlayerID(p.PlayerID),
			Username: p.Username,
		}
	}

	settings := model.DefaultSettings()
	if req.Settings != nil {
		if req.Settings.GridSize != 0 {
			settings.GridSize = req.Settings.GridSize
		}
		if req.Settings.MaxPlayers != 0 {
			settings.MaxPlayers = req.Settings.MaxPlayers
		}
		if req.Settings.LetterTimerSeconds != 0 {
			settings.LetterTimer = time.Duration(req.Settings.LetterTimerSeconds) * time.Second
		}
		if req.Settings.PlacementTimerSeconds != 0 {
			settings.PlacementTimer = time.Duration(req.Settings.PlacementTimerSeconds) * time.Second
		}
	}

	g, err := h.coordinator.StartGame(r.Context(), model.RoomID(req.RoomID), seats, settings)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameStateFromModel(g))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	g, err := h.coordinator.GetGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(g))
}

// GetGrid handles GET /api/v1/games/{id}/players/{player_id}/grid
func (h *GameHandler) GetGrid(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["id"])
	playerID := model.PlayerID(vars["player_id"])

	grid, err := h.coordinator.GetGrid(r.Context(), gameID, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GridFromModel(grid))
}

// Select handles POST /api/v1/games/{id}/select
func (h *GameHandler) Select(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.SelectLetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	letters := []rune(req.Letter)
	if len(letters) != 1 {
		WriteError(w, NewInvalidRequestError("letter must be a single character"))
		return
	}

	g, err := h.coordinator.SelectLetter(r.Context(), gameID, model.PlayerID(req.PlayerID), letters[0])
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(g))
}

// Place handles POST /api/v1/games/{id}/place
func (h *GameHandler) Place(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.PlaceLetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	g, err := h.coordinator.PlaceLetter(r.Context(), gameID, model.PlayerID(req.PlayerID), req.X, req.Y)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(g))
}

// Confirm handles POST /api/v1/games/{id}/confirm
func (h *GameHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.ConfirmPlacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	g, err := h.coordinator.ConfirmPlacement(r.Context(), gameID, model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(g))
}

// Leave handles POST /api/v1/games/{id}/leave
func (h *GameHandler) Leave(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	g, err := h.coordinator.Leave(r.Context(), gameID, model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(g))
}

// Results handles GET /api/v1/games/{id}/results
func (h *GameHandler) Results(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	entries, err := h.coordinator.Results(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResultsFromModel(entries))
}

// Events handles GET /api/v1/games/{id}/events
// Streams the game's events as newline-delimited JSON until the client
// disconnects.
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])
	playerID := model.PlayerID(r.URL.Query().Get("player_id"))

	if _, err := h.coordinator.GetGame(r.Context(), gameID); err != nil {
		WriteError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, NewInvalidRequestError("streaming not supported"))
		return
	}

	sub := h.coordinator.Subscribe(gameID, playerID)
	defer sub.Close()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	enc := json.NewEncoder(w)
	for {
		select {
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			if err := enc.Encode(eventEnvelope(event)); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// eventEnvelope is the wire shape of a streamed event.
type streamedEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	GameID    string `json:"game_id"`
	PlayerID  string `json:"player_id,omitempty"`
	Payload   any    `json:"payload"`
}

func eventEnvelope(e model.Event) streamedEvent {
	return streamedEvent{
		Type:      string(e.Type),
		Timestamp: e.Timestamp.UnixMilli(),
		GameID:    string(e.GameID),
		PlayerID:  string(e.PlayerID),
		Payload:   e.Payload,
	}
}
