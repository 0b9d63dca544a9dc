package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/matchforge/matchforge/internal/lobby"
	"github.com/matchforge/matchforge/internal/rating"
)

type LobbyHandler struct {
	lobbies *lobby.Manager
	updater rating.Updater
}

func NewLobbyHandler(lobbies *lobby.Manager, updater rating.Updater) *LobbyHandler {
	return &LobbyHandler{lobbies: lobbies, updater: updater}
}

type LobbyResponse struct {
	ID           string         `json:"id"`
	MatchID      string         `json:"matchId"`
	State        string         `json:"state"`
	Teams        []TeamResponse `json:"teams"`
	ReadyPlayers []string       `json:"readyPlayers"`
	Queue        string         `json:"queue"`
	GameMode     string         `json:"gameMode"`
	ServerID     string         `json:"serverId,omitempty"`
	CreatedAt    string         `json:"createdAt"`
}

type TeamResponse struct {
	TeamID    int      `json:"teamId"`
	PlayerIDs []string `json:"playerIds"`
}

type ReadyRequest struct {
	PlayerID string `json:"playerId"`
}

type DispatchRequest struct {
	ServerID string `json:"serverId"`
}

type TransitionRequest struct {
	State string `json:"state"`
}

type OutcomeReport struct {
	PlayerID string `json:"playerId"`
	Outcome  string `json:"outcome"`
}

type OutcomesRequest struct {
	Outcomes []OutcomeReport `json:"outcomes"`
}

func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := parseLobbyID(w, r)
	if !ok {
		return
	}

	found, err := h.lobbies.Get(r.Context(), lobbyID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toLobbyResponse(found))
}

// Transition moves the lobby to an explicit next state.
func (h *LobbyHandler) Transition(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := parseLobbyID(w, r)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.lobbies.Transition(r.Context(), lobbyID, domain.LobbyState(req.State)); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LobbyHandler) Ready(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := parseLobbyID(w, r)
	if !ok {
		return
	}

	var req ReadyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		http.Error(w, "Invalid player ID", http.StatusBadRequest)
		return
	}

	if err := h.lobbies.MarkReady(r.Context(), lobbyID, playerID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LobbyHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := parseLobbyID(w, r)
	if !ok {
		return
	}

	var req DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.lobbies.Dispatch(r.Context(), lobbyID, req.ServerID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LobbyHandler) Close(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := parseLobbyID(w, r)
	if !ok {
		return
	}

	if err := h.lobbies.Close(r.Context(), lobbyID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Outcomes integrates the reported results into player ratings.
func (h *LobbyHandler) Outcomes(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := parseLobbyID(w, r)
	if !ok {
		return
	}

	var req OutcomesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reports := make([]lobby.PlayerOutcome, 0, len(req.Outcomes))
	for _, report := range req.Outcomes {
		playerID, err := uuid.Parse(report.PlayerID)
		if err != nil {
			http.Error(w, "Invalid player ID", http.StatusBadRequest)
			return
		}
		reports = append(reports, lobby.PlayerOutcome{
			PlayerID: playerID,
			Outcome:  domain.Outcome(report.Outcome),
		})
	}

	if err := h.lobbies.ApplyOutcomes(r.Context(), lobbyID, reports, h.updater); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseLobbyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	lobbyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid lobby ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return lobbyID, true
}

func toLobbyResponse(l *domain.Lobby) LobbyResponse {
	teams := make([]TeamResponse, len(l.Teams))
	for i, team := range l.Teams {
		playerIDs := make([]string, len(team.PlayerIDs))
		for j, id := range team.PlayerIDs {
			playerIDs[j] = id.String()
		}
		teams[i] = TeamResponse{TeamID: team.TeamID, PlayerIDs: playerIDs}
	}

	ready := make([]string, 0, len(l.ReadyPlayers))
	for id, ok := range l.ReadyPlayers {
		if ok {
			ready = append(ready, id.String())
		}
	}

	return LobbyResponse{
		ID:           l.ID.String(),
		MatchID:      l.MatchID.String(),
		State:        string(l.State),
		Teams:        teams,
		ReadyPlayers: ready,
		Queue:        l.Metadata.QueueName,
		GameMode:     l.Metadata.GameMode,
		ServerID:     l.Metadata.ServerID,
		CreatedAt:    l.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
