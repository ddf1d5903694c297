package jobs

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/http/metrics"
	"github.com/straye-as/pipeline-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRefresher struct {
	changed int
	err     error
	calls   int
}

func (f *fakeRefresher) RefreshDerived(ctx context.Context) (int, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("expected a deadline")
	}
	return f.changed, f.err
}

type staticSource []domain.Client

func (s staticSource) All(context.Context) []domain.Client { return s }

func newLocalStorage(t *testing.T) *storage.LocalStorage {
	t.Helper()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return s
}

type failingStorage struct{ storage.Storage }

func (failingStorage) Upload(context.Context, string, string, io.Reader) (int64, error) {
	return 0, errors.New("quota exceeded")
}

// ============================================================================
// Scheduler
// ============================================================================

func TestScheduler_AddJob(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	noop := func(context.Context) {}

	require.NoError(t, s.AddJob("b", "0 5 0 * * *", noop))
	require.NoError(t, s.AddJob("a", "@every 1h", noop))
	assert.Equal(t, []string{"a", "b"}, s.JobNames())

	t.Run("duplicate name", func(t *testing.T) {
		assert.Error(t, s.AddJob("a", "@hourly", noop))
	})

	t.Run("invalid expression", func(t *testing.T) {
		err := s.AddJob("c", "not a cron", noop)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to add job c")
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, s.RemoveJob("a"))
		assert.Error(t, s.RemoveJob("a"))
		assert.Equal(t, []string{"b"}, s.JobNames())
	})
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	ran := make(chan struct{}, 1)
	require.NoError(t, s.AddJob("tick", "@every 1s", func(context.Context) {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))

	s.Start()
	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
	<-s.Stop().Done()
}

func TestRegisterPipelineJobs(t *testing.T) {
	refresh := NewRefreshJob(&fakeRefresher{}, zap.NewNop(), time.Second)
	snapshot := NewSnapshotJob(staticSource{}, newLocalStorage(t), "snapshots/", zap.NewNop(), time.Second)

	t.Run("both", func(t *testing.T) {
		s := NewScheduler(zap.NewNop())
		require.NoError(t, RegisterPipelineJobs(s, refresh, "0 5 0 * * *", snapshot, "0 0 2 * * *"))
		assert.Equal(t, []string{SnapshotJobName, RefreshJobName}, s.JobNames())
	})

	t.Run("empty expressions disable jobs", func(t *testing.T) {
		s := NewScheduler(zap.NewNop())
		require.NoError(t, RegisterPipelineJobs(s, refresh, "", snapshot, ""))
		assert.Empty(t, s.JobNames())
	})

	t.Run("no storage", func(t *testing.T) {
		s := NewScheduler(zap.NewNop())
		require.NoError(t, RegisterPipelineJobs(s, refresh, "0 5 0 * * *", nil, "0 0 2 * * *"))
		assert.Equal(t, []string{RefreshJobName}, s.JobNames())
	})
}

// ============================================================================
// Jobs
// ============================================================================

func TestRefreshJob_Run(t *testing.T) {
	t.Run("reports changes", func(t *testing.T) {
		f := &fakeRefresher{changed: 3}
		changed, err := NewRefreshJob(f, zap.NewNop(), time.Minute).Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, changed)
		assert.Equal(t, 1, f.calls)
	})

	t.Run("propagates errors", func(t *testing.T) {
		f := &fakeRefresher{err: errors.New("save failed")}
		_, err := NewRefreshJob(f, zap.NewNop(), time.Minute).Run(context.Background())
		assert.EqualError(t, err, "save failed")
	})
}

func TestSnapshotJob_Run(t *testing.T) {
	clients := staticSource{
		{Name: "Acme Corporation", Stage: domain.StageQualified, ProposalStatus: domain.ProposalStatusInNegotiation},
		{Name: "Innovation Hub", Stage: domain.StageLead},
	}
	taken := time.Date(2025, time.November, 18, 2, 0, 0, 0, time.UTC)

	t.Run("uploads csv under a timestamped key", func(t *testing.T) {
		store := newLocalStorage(t)
		job := NewSnapshotJob(clients, store, "snapshots/", zap.NewNop(), time.Minute)
		job.now = func() time.Time { return taken }
		before := testutil.ToFloat64(metrics.ExportsTotal.WithLabelValues("snapshot"))

		key, err := job.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "snapshots/clients-20251118-020000.csv", key)
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.ExportsTotal.WithLabelValues("snapshot")))

		rc, err := store.Download(context.Background(), key)
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)

		lines := strings.Split(string(data), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "Client Name,Contact Person"))
		assert.True(t, strings.HasPrefix(lines[1], `"Acme Corporation"`))
		assert.True(t, strings.HasPrefix(lines[2], `"Innovation Hub"`))
	})

	t.Run("key is utc", func(t *testing.T) {
		job := NewSnapshotJob(clients, nil, "", zap.NewNop(), time.Minute)
		oslo := time.FixedZone("CET", 3600)
		assert.Equal(t, "clients-20251118-020000.csv", job.Key(taken.In(oslo)))
	})

	t.Run("upload failure", func(t *testing.T) {
		job := NewSnapshotJob(clients, failingStorage{}, "snapshots/", zap.NewNop(), time.Minute)
		_, err := job.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})
}
