package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/matchforge/matchforge/internal/repository"
)

type RatingHandler struct {
	store repository.Store
}

func NewRatingHandler(store repository.Store) *RatingHandler {
	return &RatingHandler{store: store}
}

type RatingResponse struct {
	PlayerID     string  `json:"playerId"`
	Rating       float64 `json:"rating"`
	Deviation    float64 `json:"deviation"`
	Volatility   float64 `json:"volatility"`
	Conservative float64 `json:"conservative"`
}

// Get returns a player's stored rating; unknown players read as beginners.
func (h *RatingHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuid.Parse(chi.URLParam(r, "playerId"))
	if err != nil {
		http.Error(w, "Invalid player ID", http.StatusBadRequest)
		return
	}

	stored, err := h.store.LoadRating(r.Context(), playerID)
	if err != nil {
		respondError(w, err)
		return
	}
	if stored == nil {
		beginner := domain.DefaultBeginnerRating()
		stored = &beginner
	}

	respondJSON(w, http.StatusOK, RatingResponse{
		PlayerID:     playerID.String(),
		Rating:       stored.Rating,
		Deviation:    stored.Deviation,
		Volatility:   stored.Volatility,
		Conservative: stored.ConservativeEstimate(),
	})
}
