package cache

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Sweeper runs Cache.Sweep on a cron schedule.
type Sweeper struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewSweeper schedules c.Sweep with spec (e.g. "@every 120s").
func NewSweeper(log *slog.Logger, c *Cache, spec string) (*Sweeper, error) {
	if log == nil {
		log = slog.Default()
	}
	sched := cron.New()
	if _, err := sched.AddFunc(spec, func() { c.Sweep() }); err != nil {
		return nil, fmt.Errorf("schedule cache sweep %q: %w", spec, err)
	}
	return &Sweeper{
		cron:   sched,
		logger: log.With(slog.String("service", "cache_sweeper")),
	}, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info("cache sweeper started", slog.Int("jobs", len(s.cron.Entries())))
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}
