package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper deletes read notifications older than the given age.
type Sweeper interface {
	Sweep(ctx context.Context, olderThan time.Duration) (int64, error)
}

// NotificationCleanupJob periodically sweeps read notifications past
// retention.
type NotificationCleanupJob struct {
	sweeper   Sweeper
	retention time.Duration
	interval  time.Duration
	log       *logrus.Entry
	done      chan struct{}
	stopped   sync.WaitGroup
	stopOnce  sync.Once
}

// NewNotificationCleanupJob creates a new notification cleanup job
func NewNotificationCleanupJob(sweeper Sweeper, retention, interval time.Duration, log *logrus.Entry) *NotificationCleanupJob {
	return &NotificationCleanupJob{
		sweeper:   sweeper,
		retention: retention,
		interval:  interval,
		log:       log.WithField("job", "notification_cleanup"),
		done:      make(chan struct{}),
	}
}

// Start runs one sweep immediately and then one per interval until Stop.
func (j *NotificationCleanupJob) Start() {
	j.log.WithFields(logrus.Fields{"interval": j.interval, "retention": j.retention}).Info("Notification cleanup job started")

	ticker := time.NewTicker(j.interval)
	j.stopped.Add(1)
	go func() {
		defer j.stopped.Done()
		defer ticker.Stop()

		j.cleanup()
		for {
			select {
			case <-ticker.C:
				j.cleanup()
			case <-j.done:
				j.log.Info("Notification cleanup job stopped")
				return
			}
		}
	}()
}

// Stop ends the job and waits for an in-flight sweep to finish.
func (j *NotificationCleanupJob) Stop() {
	j.stopOnce.Do(func() {
		close(j.done)
	})
	j.stopped.Wait()
}

func (j *NotificationCleanupJob) cleanup() {
	removed, err := j.sweeper.Sweep(context.Background(), j.retention)
	if err != nil {
		j.log.WithError(err).Error("Error during notification cleanup")
		return
	}
	j.log.WithField("removed", removed).Debug("Notification cleanup completed")
}
