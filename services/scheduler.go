// services/scheduler.go
package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRetentionScheduler purges read notifications older than retentionDays once a day.
// The caller owns the returned scheduler and must shut it down.
func (s *NotificationService) StartRetentionScheduler(retentionDays int) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			s.runRetention(context.Background(), retentionDays)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	s.log.Info("notification retention scheduled", "retention_days", retentionDays)
	return sched, nil
}

func (s *NotificationService) runRetention(ctx context.Context, retentionDays int) {
	if retentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	n, err := s.PurgeRead(ctx, cutoff)
	if err != nil {
		s.log.Error("notification retention failed", "error", err)
		return
	}
	s.log.Info("notification retention done", "purged", n, "cutoff", cutoff)
}
