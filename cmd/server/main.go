package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matchforge/matchforge/internal/api"
	"github.com/matchforge/matchforge/internal/clock"
	"github.com/matchforge/matchforge/internal/config"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/matchforge/matchforge/internal/events"
	"github.com/matchforge/matchforge/internal/lobby"
	"github.com/matchforge/matchforge/internal/matchmaker"
	"github.com/matchforge/matchforge/internal/party"
	"github.com/matchforge/matchforge/internal/queue"
	"github.com/matchforge/matchforge/internal/rating"
	"github.com/matchforge/matchforge/internal/repository"
	"github.com/matchforge/matchforge/internal/repository/memory"
	"github.com/matchforge/matchforge/internal/repository/postgres"
	"github.com/matchforge/matchforge/internal/runner"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize persistence
	var store repository.Store
	switch cfg.PersistenceBackend {
	case "postgres":
		db, err := postgres.NewConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		store = postgres.NewStore(db)
	default:
		store = memory.NewStore()
	}

	bus := events.NewBus()
	clk := clock.System{}

	// Initialize managers
	queues := queue.NewManager(store, bus, clk)
	parties := party.NewManager(store, bus, clk, party.AverageAggregator{})
	lobbies := lobby.NewManager(store, bus)
	updater := rating.NewDefaultGlicko()

	// Register the default queues
	defaultQueues := []queue.Config{
		{Name: "duel", Format: domain.OneVOne(), Constraints: matchmaker.PermissiveConstraints()},
		{Name: "doubles", Format: domain.TwoVTwo(), Constraints: matchmaker.PermissiveConstraints()},
		{Name: "ranked", Format: domain.FiveVFive(), Constraints: matchmaker.StrictConstraints()},
	}
	runnerConfig := runner.Config{
		TickInterval:      cfg.TickInterval,
		MaxMatchesPerTick: cfg.MaxMatchesPerTick,
		AutoDispatch:      cfg.AutoDispatch,
		QueueConfigs:      make(map[string]runner.QueueConfig),
	}
	for i, qc := range defaultQueues {
		if err := queues.Register(qc); err != nil {
			log.Fatalf("failed to register queue %q: %v", qc.Name, err)
		}
		runnerConfig.QueueConfigs[qc.Name] = runner.QueueConfig{
			Enabled:  true,
			Priority: i,
		}
	}

	// Initialize the tick loop
	engine := runner.New(runnerConfig, queues, lobbies, store, bus, clk)
	if err := engine.Start(); err != nil {
		log.Fatalf("failed to start runner: %v", err)
	}

	// Initialize router
	router := api.NewRouter(queues, parties, lobbies, engine, store, bus, updater)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if err := engine.Stop(); err != nil {
		log.Printf("runner stop: %v", err)
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
