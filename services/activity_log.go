package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"smartshala_go/models"
	"smartshala_go/store"
	"smartshala_go/utils"
)

// activityQueueKey is the Redis list buffering activity log entries between
// flushes.
const activityQueueKey = "activity:queue"

// flushBatchSize bounds how many buffered entries one flush run drains.
const flushBatchSize = 500

// ActivityLogger records audit entries. With Redis available, entries are
// buffered in a list and drained to the store by a scheduled flush; without
// it, every entry is written to the store directly.
type ActivityLogger struct {
	st   store.Store
	rc   *redis.Client
	cron *cron.Cron
}

func NewActivityLogger(st store.Store, rc *redis.Client) *ActivityLogger {
	return &ActivityLogger{st: st, rc: rc}
}

// Record buffers or persists one entry. Failures are logged and swallowed;
// audit logging never fails a user request.
func (l *ActivityLogger) Record(entry models.ActivityLog) {
	if entry.CreatedAt == "" {
		entry.CreatedAt = utils.NowISO()
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Error("panic recovered in activity logger")
			}
		}()

		ctx := context.Background()
		if l.rc != nil {
			data, err := json.Marshal(entry)
			if err == nil {
				if err := l.rc.LPush(ctx, activityQueueKey, data).Err(); err == nil {
					return
				}
				logrus.Warn("Failed to buffer activity log, saving directly")
			}
		}
		if err := l.persist(ctx, entry); err != nil {
			logrus.WithError(err).Error("Failed to save activity log")
		}
	}()
}

// StartFlushScheduler drains the Redis buffer once a minute. No-op without
// Redis, since Record then writes directly.
func (l *ActivityLogger) StartFlushScheduler() {
	if l.rc == nil {
		return
	}
	l.cron = cron.New()
	if _, err := l.cron.AddFunc("@every 1m", func() {
		if err := l.Flush(context.Background()); err != nil {
			logrus.WithError(err).Error("Activity log flush failed")
		}
	}); err != nil {
		logrus.WithError(err).Error("Failed to schedule activity log flush")
		return
	}
	l.cron.Start()
	logrus.Info("Activity log flush scheduler started")
}

// Stop halts the flush scheduler.
func (l *ActivityLogger) Stop() {
	if l.cron != nil {
		l.cron.Stop()
	}
}

// Flush drains buffered entries into the store. Entries that fail to decode
// are dropped with a log line; a store failure re-queues the entry.
func (l *ActivityLogger) Flush(ctx context.Context) error {
	if l.rc == nil {
		return nil
	}
	flushed := 0
	for flushed < flushBatchSize {
		data, err := l.rc.RPop(ctx, activityQueueKey).Bytes()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return fmt.Errorf("pop activity queue: %w", err)
		}

		var entry models.ActivityLog
		if err := json.Unmarshal(data, &entry); err != nil {
			logrus.WithError(err).Warn("Dropping undecodable activity log entry")
			continue
		}
		if err := l.persist(ctx, entry); err != nil {
			if rerr := l.rc.RPush(ctx, activityQueueKey, data).Err(); rerr != nil {
				logrus.WithError(rerr).Error("Failed to re-queue activity log entry")
			}
			return err
		}
		flushed++
	}
	if flushed > 0 {
		logrus.WithField("count", flushed).Info("Flushed activity logs")
	}
	return nil
}

func (l *ActivityLogger) persist(ctx context.Context, entry models.ActivityLog) error {
	fields, err := store.Fields(entry)
	if err != nil {
		return err
	}
	if _, err := l.st.Create(ctx, store.ActivityLogs, fields); err != nil {
		return fmt.Errorf("save activity log: %w", err)
	}
	return nil
}
