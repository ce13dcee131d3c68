package engine

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aldennoronha2228/postharvest/internal/observability"
)

// Tick sampling parameters. A shock draw lands uniformly in
// [gforceMin, gforceMin + shockSpread × profile critical]; draws past the
// critical threshold record an incident whose deduction and severity step up
// at the severe/critical multiples.
const (
	shockProbability    = 0.3
	shockSpread         = 1.8
	severeShockFactor   = 1.5 // deduction 3 instead of 1
	criticalShockFactor = 1.3 // severity critical instead of warning
)

// Simulator drives periodic synthetic telemetry into a session. It is a
// two-state machine (stopped/running); Start and Stop are idempotent and
// never error. The tick goroutine is the only background activity in the
// engine and the rng is owned by it exclusively.
type Simulator struct {
	session  *Session
	clock    clockwork.Clock
	interval time.Duration
	rng      *rand.Rand
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu      sync.Mutex
	running bool
	quit    chan struct{}
	done    chan struct{}
}

// NewSimulator creates a stopped simulator. The rng should be seeded by the
// caller; passing a fixed seed makes tick sequences replayable.
func NewSimulator(session *Session, clock clockwork.Clock, interval time.Duration, rng *rand.Rand, logger *slog.Logger, metrics *observability.Metrics) *Simulator {
	return &Simulator{
		session:  session,
		clock:    clock,
		interval: interval,
		rng:      rng,
		logger:   logger,
		metrics:  metrics,
	}
}

// Start arms the periodic tick source. A no-op when already running.
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.quit = make(chan struct{})
	s.done = make(chan struct{})
	s.running = true
	s.metrics.SimulatorRunning.Set(1)
	s.logger.Info("simulator started", "trip_id", s.session.ID(), "interval", s.interval)

	go s.run(s.quit, s.done)
}

// Stop disarms the tick source and waits for the loop to exit: once Stop
// returns no further tick executes, while a tick already in progress has run
// to completion. A no-op when already stopped.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	close(s.quit)
	<-s.done
	s.running = false
	s.metrics.SimulatorRunning.Set(0)
	s.logger.Info("simulator stopped", "trip_id", s.session.ID())
}

// Running reports whether the tick loop is active.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Step applies a single tick immediately, in the caller's goroutine, without
// arming the periodic source. Used by deterministic replays; must not be
// called while the simulator is running, since the rng is not shared safely.
func (s *Simulator) Step() {
	s.tickOnce()
}

func (s *Simulator) run(quit, done chan struct{}) {
	defer close(done)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ticker.Chan():
			// Re-check quit so a tick racing a Stop does not slip through.
			select {
			case <-quit:
				return
			default:
			}
			s.tickOnce()
		}
	}
}

func (s *Simulator) tickOnce() {
	start := time.Now()
	s.session.tick(s.rng)
	s.metrics.TickDuration.Observe(time.Since(start).Seconds())
}
