package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/matchforge/matchforge/internal/party"
)

type PartyHandler struct {
	parties *party.Manager
}

func NewPartyHandler(parties *party.Manager) *PartyHandler {
	return &PartyHandler{parties: parties}
}

type CreatePartyRequest struct {
	LeaderID string `json:"leaderId"`
	MaxSize  int    `json:"maxSize"`
}

type PartyMemberRequest struct {
	PlayerID string `json:"playerId"`
}

type PartyResponse struct {
	ID        string   `json:"id"`
	LeaderID  string   `json:"leaderId"`
	MemberIDs []string `json:"memberIds"`
	MaxSize   int      `json:"maxSize"`
	CreatedAt string   `json:"createdAt"`
}

type DerivedRatingResponse struct {
	PartyID    string  `json:"partyId"`
	Rating     float64 `json:"rating"`
	Deviation  float64 `json:"deviation"`
	Volatility float64 `json:"volatility"`
}

func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	leaderID, err := uuid.Parse(req.LeaderID)
	if err != nil {
		http.Error(w, "Invalid leader ID", http.StatusBadRequest)
		return
	}

	created, err := h.parties.Create(r.Context(), leaderID, req.MaxSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPartyResponse(created))
}

func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	partyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid party ID", http.StatusBadRequest)
		return
	}

	found, err := h.parties.Get(partyID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPartyResponse(found))
}

func (h *PartyHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	partyID, playerID, ok := h.memberIDs(w, r)
	if !ok {
		return
	}

	if err := h.parties.Add(r.Context(), partyID, playerID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PartyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	partyID, playerID, ok := h.memberIDs(w, r)
	if !ok {
		return
	}

	if err := h.parties.Remove(r.Context(), partyID, playerID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DerivedRating returns the party's aggregate rating for queue admission.
func (h *PartyHandler) DerivedRating(w http.ResponseWriter, r *http.Request) {
	partyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid party ID", http.StatusBadRequest)
		return
	}

	derived, err := h.parties.DerivedRating(r.Context(), partyID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, DerivedRatingResponse{
		PartyID:    partyID.String(),
		Rating:     derived.Rating,
		Deviation:  derived.Deviation,
		Volatility: derived.Volatility,
	})
}

func (h *PartyHandler) memberIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	partyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid party ID", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}

	var req PartyMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		http.Error(w, "Invalid player ID", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	return partyID, playerID, true
}

func toPartyResponse(p domain.Party) PartyResponse {
	memberIDs := make([]string, len(p.MemberIDs))
	for i, id := range p.MemberIDs {
		memberIDs[i] = id.String()
	}
	return PartyResponse{
		ID:        p.ID.String(),
		LeaderID:  p.LeaderID.String(),
		MemberIDs: memberIDs,
		MaxSize:   p.MaxSize,
		CreatedAt: p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
