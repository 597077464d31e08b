// internal/scheduler/scheduler.go

// Package scheduler drives the production notification path: the reminder
// dispatch fires once per tick, the daily agenda once per day at the
// configured hour. The tick spacing equals the reminder query window width,
// so consecutive runs cover contiguous, non-overlapping windows.
package scheduler

import (
	"context"
	"time"

	"eventdesk-functions/internal/common/logger"
)

// Job runs one dispatch for a notification kind.
type Job func(ctx context.Context) error

type Scheduler struct {
	interval      time.Duration
	digestHour    int
	reminder      Job
	digest        Job
	logger        logger.Logger
	now           func() time.Time
	lastDigestDay string
}

func New(interval time.Duration, digestHour int, reminder, digest Job, log logger.Logger) *Scheduler {
	return &Scheduler{
		interval:   interval,
		digestHour: digestHour,
		reminder:   reminder,
		digest:     digest,
		logger:     log.WithFields(map[string]interface{}{"component": "scheduler"}),
		now:        time.Now,
	}
}

// Run loops until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", map[string]interface{}{
		"interval":   s.interval.String(),
		"digestHour": s.digestHour,
	})

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", nil)
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if err := s.reminder(ctx); err != nil {
		s.logger.Error("reminder dispatch failed", map[string]interface{}{"error": err.Error()})
	}

	now := s.now()
	day := now.Format("2006-01-02")
	if now.Hour() >= s.digestHour && s.lastDigestDay != day {
		if err := s.digest(ctx); err != nil {
			s.logger.Error("digest dispatch failed", map[string]interface{}{"error": err.Error()})
			return
		}
		s.lastDigestDay = day
	}
}
