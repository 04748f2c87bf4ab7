package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/junaidrashid-git/yoruwear-api/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWarmer struct {
	calls atomic.Int32
	err   error
}

func (w *countingWarmer) Warm(context.Context) error {
	w.calls.Add(1)
	return w.err
}

func TestAddCatalogWarmup(t *testing.T) {
	s := New(logger.Discard())
	require.NoError(t, s.AddCatalogWarmup("@every 5m", &countingWarmer{}))
	assert.Equal(t, 1, s.Entries())
}

func TestAddCatalogWarmupEmptyScheduleDisables(t *testing.T) {
	s := New(logger.Discard())
	require.NoError(t, s.AddCatalogWarmup("", &countingWarmer{}))
	assert.Zero(t, s.Entries())
}

func TestAddCatalogWarmupRejectsBadSchedule(t *testing.T) {
	s := New(logger.Discard())
	err := s.AddCatalogWarmup("every now and then", &countingWarmer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid catalog refresh schedule")
}

func TestRunWarmSwallowsErrors(t *testing.T) {
	s := New(logger.Discard())
	w := &countingWarmer{err: errors.New("redis down")}
	s.runWarm(w)
	assert.EqualValues(t, 1, w.calls.Load())
}

func TestSchedulerRunsJob(t *testing.T) {
	s := New(logger.Discard())
	w := &countingWarmer{}
	require.NoError(t, s.AddCatalogWarmup("@every 1s", w))

	s.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	})

	require.Eventually(t, func() bool { return w.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
