package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/matchforge/matchforge/internal/party"
	"github.com/matchforge/matchforge/internal/queue"
	"github.com/matchforge/matchforge/internal/repository"
)

type QueueHandler struct {
	queues  *queue.Manager
	parties *party.Manager
	store   repository.Store
}

func NewQueueHandler(queues *queue.Manager, parties *party.Manager, store repository.Store) *QueueHandler {
	return &QueueHandler{queues: queues, parties: parties, store: store}
}

// Request/Response types
type JoinQueueRequest struct {
	PlayerID string   `json:"playerId,omitempty"`
	PartyID  string   `json:"partyId,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	Region   string   `json:"region,omitempty"`
}

type QueueEntryResponse struct {
	EntryID   string   `json:"entryId"`
	Queue     string   `json:"queue"`
	PlayerIDs []string `json:"playerIds"`
	PartyID   *string  `json:"partyId,omitempty"`
	Rating    float64  `json:"rating"`
	Deviation float64  `json:"deviation"`
	JoinedAt  string   `json:"joinedAt"`
}

type QueueSizeResponse struct {
	Queue string `json:"queue"`
	Size  int    `json:"size"`
}

type QueueListResponse struct {
	Queues []string `json:"queues"`
}

// Join admits a solo player or a whole party. Party joins carry the party's
// derived rating; solo joins carry the player's stored rating, defaulting to
// the beginner rating for players with no history.
func (h *QueueHandler) Join(w http.ResponseWriter, r *http.Request) {
	queueName := chi.URLParam(r, "name")

	var req JoinQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	metadata := domain.EntryMetadata{Roles: req.Roles, Region: req.Region}

	var entry domain.QueueEntry
	var err error
	switch {
	case req.PartyID != "":
		entry, err = h.joinParty(r, queueName, req.PartyID, metadata)
	case req.PlayerID != "":
		entry, err = h.joinSolo(r, queueName, req.PlayerID, metadata)
	default:
		http.Error(w, "playerId or partyId required", http.StatusBadRequest)
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (h *QueueHandler) joinSolo(r *http.Request, queueName, playerID string, metadata domain.EntryMetadata) (domain.QueueEntry, error) {
	id, err := uuid.Parse(playerID)
	if err != nil {
		return domain.QueueEntry{}, fmt.Errorf("%w: invalid player id", domain.ErrInvalidArgument)
	}

	stored, err := h.store.LoadRating(r.Context(), id)
	if err != nil {
		return domain.QueueEntry{}, err
	}
	playerRating := domain.DefaultBeginnerRating()
	if stored != nil {
		playerRating = *stored
	}
	return h.queues.JoinSolo(r.Context(), queueName, id, playerRating, metadata)
}

func (h *QueueHandler) joinParty(r *http.Request, queueName, partyID string, metadata domain.EntryMetadata) (domain.QueueEntry, error) {
	id, err := uuid.Parse(partyID)
	if err != nil {
		return domain.QueueEntry{}, fmt.Errorf("%w: invalid party id", domain.ErrInvalidArgument)
	}

	group, err := h.parties.Get(id)
	if err != nil {
		return domain.QueueEntry{}, err
	}
	derived, err := h.parties.DerivedRating(r.Context(), id)
	if err != nil {
		return domain.QueueEntry{}, err
	}
	return h.queues.JoinParty(r.Context(), queueName, id, group.MemberIDs, derived, metadata)
}

// Leave cancels the entry containing the player.
func (h *QueueHandler) Leave(w http.ResponseWriter, r *http.Request) {
	queueName := chi.URLParam(r, "name")
	playerID, err := uuid.Parse(chi.URLParam(r, "playerId"))
	if err != nil {
		http.Error(w, "Invalid player ID", http.StatusBadRequest)
		return
	}

	if err := h.queues.Leave(r.Context(), queueName, playerID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Size returns the current entry count of a queue.
func (h *QueueHandler) Size(w http.ResponseWriter, r *http.Request) {
	queueName := chi.URLParam(r, "name")
	size, err := h.queues.Size(queueName)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, QueueSizeResponse{Queue: queueName, Size: size})
}

// List returns every registered queue name.
func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, QueueListResponse{Queues: h.queues.QueueNames()})
}

func toEntryResponse(entry domain.QueueEntry) QueueEntryResponse {
	playerIDs := make([]string, len(entry.PlayerIDs))
	for i, id := range entry.PlayerIDs {
		playerIDs[i] = id.String()
	}

	resp := QueueEntryResponse{
		EntryID:   entry.ID.String(),
		Queue:     entry.QueueName,
		PlayerIDs: playerIDs,
		Rating:    entry.Rating.Rating,
		Deviation: entry.Rating.Deviation,
		JoinedAt:  entry.JoinedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if entry.PartyID != nil {
		partyID := entry.PartyID.String()
		resp.PartyID = &partyID
	}
	return resp
}
