package domain

import "errors"

// Not-found errors
var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrPartyNotFound  = errors.New("party not found")
	ErrQueueNotFound  = errors.New("queue not found")
	ErrLobbyNotFound  = errors.New("lobby not found")
	ErrNotInQueue     = errors.New("player not in queue")
	ErrNotInParty     = errors.New("player not in party")
)

// Admission and capacity errors
var (
	ErrAlreadyInQueue  = errors.New("player already in queue")
	ErrAlreadyInParty  = errors.New("player already in party")
	ErrPartyFull       = errors.New("party is full")
	ErrQueueExists     = errors.New("queue already registered")
	ErrEntryTooLarge   = errors.New("entry exceeds maximum team size")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Lifecycle errors
var (
	ErrInvalidTransition   = errors.New("invalid lobby state transition")
	ErrConflictingOutcome  = errors.New("conflicting outcomes reported for team")
	ErrRunnerAlreadyActive = errors.New("runner is already running")
	ErrRunnerNotActive     = errors.New("runner is not running")
)

// ErrStorage wraps opaque persistence backend failures.
var ErrStorage = errors.New("storage error")
