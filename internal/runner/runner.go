// Package runner owns the periodic tick loop: it processes registered queues
// by priority, materializes matches into lobbies, and optionally drives them
// to dispatch. One goroutine owns the loop; stop is cooperative and returns
// only after the in-flight tick finishes.
package runner

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/matchforge/matchforge/internal/clock"
	"github.com/matchforge/matchforge/internal/domain"
	"github.com/matchforge/matchforge/internal/events"
	"github.com/matchforge/matchforge/internal/lobby"
	"github.com/matchforge/matchforge/internal/queue"
	"github.com/matchforge/matchforge/internal/repository"
)

// Runner periodically drains queues into lobbies.
type Runner struct {
	config       Config
	queueManager *queue.Manager
	lobbyManager *lobby.Manager
	store        repository.Store
	bus          *events.Bus
	clock        clock.Clock

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

func New(config Config, queueManager *queue.Manager, lobbyManager *lobby.Manager, store repository.Store, bus *events.Bus, clk clock.Clock) *Runner {
	return &Runner{
		config:       config,
		queueManager: queueManager,
		lobbyManager: lobbyManager,
		store:        store,
		bus:          bus,
		clock:        clk,
	}
}

// Start launches the tick loop. Starting a running runner fails.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return domain.ErrRunnerAlreadyActive
	}
	r.running = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	go r.run(r.stop, r.done)
	return nil
}

// Stop signals the loop to exit and waits for the current tick to finish.
// Stopping a stopped runner fails. The flag is cleared while still holding
// the lock so a racing Stop cannot close the stop channel a second time.
func (r *Runner) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return domain.ErrRunnerNotActive
	}
	r.running = false
	stop, done := r.stop, r.done
	r.mu.Unlock()

	close(stop)
	<-done
	return nil
}

// IsRunning reports whether the tick loop is active.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.Tick(context.Background())
		}
	}
}

// Tick runs one matchmaking pass: enabled queues in priority order under the
// global budget. A failing queue is logged and skipped; it never halts the
// tick. Exported so tests and hosts can drive passes without the ticker.
func (r *Runner) Tick(ctx context.Context) {
	budget := r.config.MaxMatchesPerTick

	for _, queueName := range r.enabledQueues() {
		if budget <= 0 {
			break
		}

		queueConfig := r.config.QueueConfigs[queueName]
		toTake := queueConfig.MaxConcurrentMatches
		if toTake <= 0 || toTake > budget {
			toTake = budget
		}

		processed, err := r.processQueue(ctx, queueName, toTake)
		if err != nil {
			log.Printf("runner: queue %q: %v", queueName, err)
			continue
		}
		budget -= processed
	}
}

// enabledQueues returns enabled queue names ordered by priority ascending,
// ties broken by name so ticks stay deterministic.
func (r *Runner) enabledQueues() []string {
	names := make([]string, 0, len(r.config.QueueConfigs))
	for name, qc := range r.config.QueueConfigs {
		if qc.Enabled {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		pi := r.config.QueueConfigs[names[i]].Priority
		pj := r.config.QueueConfigs[names[j]].Priority
		if pi == pj {
			return names[i] < names[j]
		}
		return pi < pj
	})
	return names
}

func (r *Runner) processQueue(ctx context.Context, queueName string, maxMatches int) (int, error) {
	queueConfig, err := r.queueManager.Config(queueName)
	if err != nil {
		return 0, err
	}

	matches, err := r.queueManager.FindMatches(queueName)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, match := range matches {
		if processed >= maxMatches {
			break
		}

		newLobby := domain.NewLobbyFromMatch(match, queueConfig.Format.TeamSizes, domain.LobbyMetadata{
			QueueName: queueName,
			GameMode:  queueConfig.Format.Name,
		}, r.clock.Now())

		if err := r.store.SaveLobby(ctx, newLobby); err != nil {
			return processed, err
		}
		if err := r.queueManager.RemoveMatched(ctx, queueName, match.Entries); err != nil {
			return processed, err
		}

		r.bus.Publish(events.TypeLobbyCreated, map[string]string{
			"lobby": newLobby.ID.String(),
			"match": match.MatchID.String(),
			"queue": queueName,
		})

		if r.config.AutoDispatch {
			if err := r.autoDispatch(ctx, newLobby); err != nil {
				return processed, err
			}
		}

		processed++
	}
	return processed, nil
}

// autoDispatch walks the lobby through the full chain to Dispatched,
// persisting after each transition.
func (r *Runner) autoDispatch(ctx context.Context, l *domain.Lobby) error {
	for _, next := range []domain.LobbyState{
		domain.LobbyStateWaitingForReady,
		domain.LobbyStateReady,
		domain.LobbyStateDispatched,
	} {
		if err := r.lobbyManager.Transition(ctx, l.ID, next); err != nil {
			return err
		}
	}
	return nil
}
