package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/matchforge/matchforge/internal/api/handlers"
	"github.com/matchforge/matchforge/internal/events"
	"github.com/matchforge/matchforge/internal/lobby"
	"github.com/matchforge/matchforge/internal/party"
	"github.com/matchforge/matchforge/internal/queue"
	"github.com/matchforge/matchforge/internal/rating"
	"github.com/matchforge/matchforge/internal/repository"
	"github.com/matchforge/matchforge/internal/runner"
)

func NewRouter(
	queues *queue.Manager,
	parties *party.Manager,
	lobbies *lobby.Manager,
	engine *runner.Runner,
	store repository.Store,
	bus *events.Bus,
	updater rating.Updater,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	queueHandler := handlers.NewQueueHandler(queues, parties, store)
	partyHandler := handlers.NewPartyHandler(parties)
	lobbyHandler := handlers.NewLobbyHandler(lobbies, updater)
	ratingHandler := handlers.NewRatingHandler(store)
	runnerHandler := handlers.NewRunnerHandler(engine)
	eventsHandler := handlers.NewEventsHandler(bus)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/queues", func(r chi.Router) {
			r.Get("/", queueHandler.List)
			r.Post("/{name}/join", queueHandler.Join)
			r.Post("/{name}/leave/{playerId}", queueHandler.Leave)
			r.Get("/{name}/size", queueHandler.Size)
		})

		r.Route("/parties", func(r chi.Router) {
			r.Post("/", partyHandler.Create)
			r.Get("/{id}", partyHandler.Get)
			r.Post("/{id}/members", partyHandler.AddMember)
			r.Post("/{id}/members/remove", partyHandler.RemoveMember)
			r.Get("/{id}/rating", partyHandler.DerivedRating)
		})

		r.Route("/lobbies", func(r chi.Router) {
			r.Get("/{id}", lobbyHandler.Get)
			r.Post("/{id}/transition", lobbyHandler.Transition)
			r.Post("/{id}/ready", lobbyHandler.Ready)
			r.Post("/{id}/dispatch", lobbyHandler.Dispatch)
			r.Post("/{id}/close", lobbyHandler.Close)
			r.Post("/{id}/outcomes", lobbyHandler.Outcomes)
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Get("/{playerId}", ratingHandler.Get)
		})

		r.Route("/runner", func(r chi.Router) {
			r.Get("/status", runnerHandler.Status)
			r.Post("/start", runnerHandler.Start)
			r.Post("/stop", runnerHandler.Stop)
			r.Post("/tick", runnerHandler.TickNow)
		})

		// WebSocket event stream
		r.Get("/events", eventsHandler.Stream)
	})

	return r
}
