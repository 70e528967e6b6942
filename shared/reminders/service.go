// Package reminders runs the background loop that reminds applicants of
// upcoming interviews. It is a separately-triggered batch concern and never
// participates in scheduling decisions.
package reminders

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config holds configuration for the reminder service.
type Config struct {
	// CheckInterval is how often to look for upcoming interviews.
	// Default: 15 minutes.
	CheckInterval time.Duration

	// LeadTime is how far before the interview a reminder goes out.
	// Default: 24 hours.
	LeadTime time.Duration

	// RatePerSecond and Burst bound the dispatch rate.
	// Defaults: 10/s with a burst of 20.
	RatePerSecond float64
	Burst         int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CheckInterval: 15 * time.Minute,
		LeadTime:      24 * time.Hour,
		RatePerSecond: 10,
		Burst:         20,
	}
}

// Service sends interview reminders.
type Service struct {
	config  *Config
	store   ScheduleStore
	sender  Sender
	logger  Logger
	limiter *rate.Limiter
	metrics *Metrics
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewService creates a new reminder service.
func NewService(config *Config, store ScheduleStore, sender Sender, logger Logger, metrics *Metrics) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = 15 * time.Minute
	}
	if config.LeadTime <= 0 {
		config.LeadTime = 24 * time.Hour
	}
	if config.RatePerSecond <= 0 {
		config.RatePerSecond = 10
	}
	if config.Burst <= 0 {
		config.Burst = 20
	}

	return &Service{
		config:  config,
		store:   store,
		sender:  sender,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(config.RatePerSecond), config.Burst),
		metrics: metrics,
		stopCh:  make(chan struct{}),
	}
}

// Start begins the reminder check loop.
func (s *Service) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop()

	if s.logger != nil {
		s.logger.Info("Reminder service started",
			"check_interval", s.config.CheckInterval,
			"lead_time", s.config.LeadTime,
		)
	}
}

// Stop gracefully stops the reminder service.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()

	if s.logger != nil {
		s.logger.Info("Reminder service stopped")
	}
}

func (s *Service) loop() {
	defer s.wg.Done()

	// Run immediately on start
	s.checkAndSend()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.checkAndSend()
		}
	}
}

func (s *Service) checkAndSend() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()
	upcoming, err := s.store.ListUpcoming(ctx, now, s.config.LeadTime)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("Failed to list upcoming interviews", "error", err)
		}
		return
	}
	if len(upcoming) == 0 {
		return
	}

	if s.metrics != nil {
		s.metrics.SetQueueSize(int64(len(upcoming)))
	}
	if s.logger != nil {
		s.logger.Debug("Found interviews to remind", "count", len(upcoming))
	}

	for _, schedule := range upcoming {
		select {
		case <-s.stopCh:
			return
		default:
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return
		}

		start := time.Now()
		if err := s.sender.SendReminder(ctx, schedule); err != nil {
			if s.logger != nil {
				s.logger.Error("Failed to send reminder",
					"schedule_id", schedule.ID,
					"error", err,
				)
			}
			if s.metrics != nil {
				s.metrics.IncSent("error")
			}
			continue
		}
		if s.metrics != nil {
			s.metrics.IncSent("ok")
			s.metrics.ObserveSendDuration(time.Since(start).Seconds())
		}

		if err := s.store.MarkReminderSent(ctx, schedule.ID); err != nil && s.logger != nil {
			s.logger.Error("Failed to mark reminder sent",
				"schedule_id", schedule.ID,
				"error", err,
			)
		}
	}

	if s.metrics != nil {
		s.metrics.SetQueueSize(0)
	}
}
