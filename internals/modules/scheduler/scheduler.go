package scheduler

import (
	"context"
	"healthwatch/internals/modules/address"
	"healthwatch/internals/modules/alert"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

type Store interface {
	GetDue(ctx context.Context, now time.Time) ([]*address.MonitoredAddress, error)
	Update(ctx context.Context, m *address.MonitoredAddress) error
}

type Prober interface {
	Probe(ctx context.Context, target string) address.HealthStatus
}

type Sink interface {
	Publish(ctx context.Context, evt alert.StatusChanged) error
}

// Scheduler polls the store for due addresses and checks them one at a time.
type Scheduler struct {
	store  Store
	prober Prober
	sink   Sink
	clock  clock.Clock
	delay  time.Duration
	logger *zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(store Store, prober Prober, sink Sink, clk clock.Clock, delay time.Duration, logger *zerolog.Logger) *Scheduler {
	return &Scheduler{
		store:  store,
		prober: prober,
		sink:   sink,
		clock:  clk,
		delay:  delay,
		logger: logger,
	}
}

// Start launches the polling loop. Calling it on a running scheduler does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}
	if s.delay <= 0 {
		panic("scheduler delay must be > 0")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx, s.done)
}

// Stop signals the loop and waits for it to exit. A probe or persist already
// in flight is allowed to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.logger.Info().Dur("delay", s.delay).Msg("scheduler started")
	defer s.logger.Info().Msg("scheduler stopped")

	for {
		if ctx.Err() != nil {
			return
		}

		if err := s.Tick(ctx); err != nil {
			s.logger.Error().Err(err).Msg("tick aborted, remaining addresses wait for the next tick")
		}

		timer := s.clock.Timer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// Tick checks every address due at this moment, in store order. The first
// publish or persist failure aborts the rest of the tick; addresses already
// persisted stay updated.
func (s *Scheduler) Tick(ctx context.Context) error {
	work := context.WithoutCancel(ctx)

	due, err := s.store.GetDue(work, s.clock.Now())
	if err != nil {
		return err
	}

	for _, m := range due {
		if err := s.check(work, m); err != nil {
			return err
		}
	}

	if len(due) > 0 {
		s.logger.Debug().Int("checked", len(due)).Msg("tick finished")
	}
	return nil
}

func (s *Scheduler) check(ctx context.Context, m *address.MonitoredAddress) error {
	status := s.prober.Probe(ctx, m.Address)
	now := s.clock.Now()

	if status != m.LastStatus {
		previous := m.LastStatus
		m.UpdateStatus(status)

		if err := s.sink.Publish(ctx, alert.StatusChanged{
			OwnerID:    m.OwnerID,
			Address:    m.Address,
			Status:     status,
			ObservedAt: now,
		}); err != nil {
			return err
		}

		s.logger.Info().
			Str("address_id", m.ID.String()).
			Str("address", m.Address).
			Str("from", string(previous)).
			Str("to", string(status)).
			Msg("health status changed")
	}

	m.AdvanceNextCheck(now)
	return s.store.Update(ctx, m)
}
