package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matchforge/matchforge/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondError maps domain error kinds to HTTP status codes.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrPartyNotFound),
		errors.Is(err, domain.ErrQueueNotFound),
		errors.Is(err, domain.ErrLobbyNotFound),
		errors.Is(err, domain.ErrNotInQueue),
		errors.Is(err, domain.ErrNotInParty):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyInQueue),
		errors.Is(err, domain.ErrAlreadyInParty),
		errors.Is(err, domain.ErrQueueExists),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrConflictingOutcome),
		errors.Is(err, domain.ErrRunnerAlreadyActive),
		errors.Is(err, domain.ErrRunnerNotActive):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrPartyFull),
		errors.Is(err, domain.ErrEntryTooLarge),
		errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusUnprocessableEntity
	}
	http.Error(w, err.Error(), status)
}
