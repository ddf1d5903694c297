package jobs

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/http/metrics"
	"github.com/straye-as/pipeline-api/internal/logger"
	"github.com/straye-as/pipeline-api/internal/report"
	"github.com/straye-as/pipeline-api/internal/storage"
	"go.uber.org/zap"
)

const (
	// RefreshJobName recomputes daysInPipeline once the calendar day rolls over
	RefreshJobName = "refresh-days-in-pipeline"
	// SnapshotJobName uploads a CSV export of the whole collection
	SnapshotJobName = "pipeline-snapshot"
)

// snapshotTimeLayout names snapshot objects, e.g. clients-20251118-020000.csv
const snapshotTimeLayout = "20060102-150405"

// DerivedRefresher recomputes time-dependent client fields
type DerivedRefresher interface {
	RefreshDerived(ctx context.Context) (int, error)
}

// ClientSource returns every client in insertion order
type ClientSource interface {
	All(ctx context.Context) []domain.Client
}

// RefreshJob keeps daysInPipeline current for clients nobody edits
type RefreshJob struct {
	refresher DerivedRefresher
	logger    *zap.Logger
	timeout   time.Duration
}

func NewRefreshJob(refresher DerivedRefresher, log *zap.Logger, timeout time.Duration) *RefreshJob {
	return &RefreshJob{
		refresher: refresher,
		logger:    logger.WithJob(log, RefreshJobName),
		timeout:   timeout,
	}
}

// Run refreshes every client and reports how many changed
func (j *RefreshJob) Run(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	start := time.Now()
	changed, err := j.refresher.RefreshDerived(ctx)
	if err != nil {
		j.logger.Error("refresh failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return 0, err
	}

	j.logger.Info("refresh completed",
		zap.Int("changed", changed),
		zap.Duration("duration", time.Since(start)))
	return changed, nil
}

// SnapshotJob writes the full collection as CSV to storage
type SnapshotJob struct {
	source  ClientSource
	store   storage.Storage
	prefix  string
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewSnapshotJob(source ClientSource, store storage.Storage, prefix string, log *zap.Logger, timeout time.Duration) *SnapshotJob {
	return &SnapshotJob{
		source:  source,
		store:   store,
		prefix:  prefix,
		logger:  logger.WithJob(log, SnapshotJobName),
		timeout: timeout,
		now:     time.Now,
	}
}

// Key returns the object key of a snapshot taken at t (UTC)
func (j *SnapshotJob) Key(t time.Time) string {
	return j.prefix + "clients-" + t.UTC().Format(snapshotTimeLayout) + ".csv"
}

// Run uploads one snapshot and returns its key
func (j *SnapshotJob) Run(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	clients := j.source.All(ctx)

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, clients); err != nil {
		return "", fmt.Errorf("failed to render snapshot: %w", err)
	}

	key := j.Key(j.now())
	size, err := j.store.Upload(ctx, key, "text/csv", &buf)
	if err != nil {
		j.logger.Error("snapshot upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}
	metrics.ExportsTotal.WithLabelValues("snapshot").Inc()

	j.logger.Info("snapshot written",
		zap.String("key", key),
		zap.Int("clients", len(clients)),
		zap.Int64("bytes", size))
	return key, nil
}

// RegisterPipelineJobs adds the refresh and snapshot jobs to the scheduler.
// An empty cron expression leaves that job out; snapshot may be nil when no
// storage is configured.
func RegisterPipelineJobs(s *Scheduler, refresh *RefreshJob, refreshCron string, snapshot *SnapshotJob, snapshotCron string) error {
	if refreshCron != "" {
		if err := s.AddJob(RefreshJobName, refreshCron, func(ctx context.Context) {
			_, _ = refresh.Run(ctx)
		}); err != nil {
			return err
		}
	}
	if snapshotCron != "" && snapshot != nil {
		if err := s.AddJob(SnapshotJobName, snapshotCron, func(ctx context.Context) {
			_, _ = snapshot.Run(ctx)
		}); err != nil {
			return err
		}
	}
	return nil
}
