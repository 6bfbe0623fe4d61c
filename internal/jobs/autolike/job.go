package autolike

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mahiofficial1332/Em-like-bot/internal/domain/rules"
	"github.com/mahiofficial1332/Em-like-bot/internal/repo/jsonstore"
	"github.com/mahiofficial1332/Em-like-bot/internal/services/likeapi"
)

// LikeClient is the slice of the API client the job needs.
type LikeClient interface {
	RequestLike(ctx context.Context, uid, region string) (likeapi.Outcome, error)
}

// Store is the slice of the persistent state the job touches.
type Store interface {
	AutoTargets() []jsonstore.AutoTarget
	EnsureReport(date string)
	AppendReport(date string, entry jsonstore.ReportEntry)
	Report(date string) []jsonstore.ReportEntry
	Save() error
}

// ReportSink receives the day's accumulated report after a run. The bot app
// fans it out to every configured destination.
type ReportSink interface {
	DispatchReport(ctx context.Context, date string, entries []jsonstore.ReportEntry)
}

// Job walks the auto-like worklist once per Run. An explicit Unavailable or
// AlreadyMaxed outcome appends a failed report entry; a client error skips
// the target without an entry. That asymmetry matches the original behavior
// and the tests pin it.
type Job struct {
	client LikeClient
	store  Store
	sink   ReportSink
	pacing time.Duration
	logger *zap.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
	stamp func(t time.Time) string
}

func NewJob(client LikeClient, store Store, sink ReportSink, pacing time.Duration, logger *zap.Logger) *Job {
	if pacing <= 0 {
		pacing = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		client: client,
		store:  store,
		sink:   sink,
		pacing: pacing,
		logger: logger,
		now:    time.Now,
		sleep:  sleepCtx,
		stamp: func(t time.Time) string {
			return t.Format("15:04:05")
		},
	}
}

// SetTimestamper overrides how a report entry's time of day is formatted,
// e.g. to use the display timezone.
func (j *Job) SetTimestamper(stamp func(t time.Time) string) {
	if stamp != nil {
		j.stamp = stamp
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.client == nil || j.store == nil {
		return nil
	}

	targets := j.store.AutoTargets()
	if len(targets) == 0 {
		return nil
	}

	runID := uuid.NewString()
	j.logger.Info("auto-like run started",
		zap.String("run_id", runID), zap.Int("targets", len(targets)))

	today := rules.DayKey(j.now())
	j.store.EnsureReport(today)

	for _, target := range targets {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		outcome, err := j.client.RequestLike(ctx, target.UID, target.Region)
		if err != nil {
			// Skipped entirely: no report entry for this target.
			j.logger.Error("auto-like target skipped",
				zap.String("run_id", runID), zap.String("uid", target.UID), zap.Error(err))
			j.sleep(ctx, j.pacing)
			continue
		}

		entry := jsonstore.ReportEntry{
			UID:       target.UID,
			Nickname:  target.Nickname,
			Region:    target.Region,
			Timestamp: j.stamp(j.now()),
		}
		if outcome.Status == likeapi.StatusSuccess {
			entry.Status = jsonstore.ReportStatusSuccess
			entry.Likes = outcome.LikesGiven
		} else {
			entry.Status = jsonstore.ReportStatusFailed
			entry.Likes = 0
		}
		j.store.AppendReport(today, entry)

		j.logger.Info("auto-like target processed",
			zap.String("run_id", runID),
			zap.String("uid", target.UID),
			zap.String("status", entry.Status),
			zap.Int("likes", entry.Likes))

		j.sleep(ctx, j.pacing)
	}

	entries := j.store.Report(today)
	if j.sink != nil && len(entries) > 0 {
		j.sink.DispatchReport(ctx, today, entries)
	}

	if err := j.store.Save(); err != nil {
		// In-memory state stays authoritative; the next save retries.
		j.logger.Error("persist auto-like state", zap.String("run_id", runID), zap.Error(err))
	}

	j.logger.Info("auto-like run finished",
		zap.String("run_id", runID), zap.Int("report_entries", len(entries)))
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
