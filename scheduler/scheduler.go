// Package scheduler runs the periodic background jobs of the API server.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Warmer rebuilds a cache from the source of truth.
type Warmer interface {
	Warm(ctx context.Context) error
}

const jobTimeout = time.Minute

type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Logger
}

func New(log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log}))),
		log:  log,
	}
}

// AddCatalogWarmup refreshes the catalog cache on schedule, e.g. "@every 5m".
// An empty schedule disables the job.
func (s *Scheduler) AddCatalogWarmup(schedule string, w Warmer) error {
	if schedule == "" {
		s.log.Info("catalog warm-up disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.runWarm(w) }); err != nil {
		return fmt.Errorf("invalid catalog refresh schedule %q: %w", schedule, err)
	}
	return nil
}

func (s *Scheduler) runWarm(w Warmer) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := w.Warm(ctx); err != nil {
		s.log.WithError(err).Warn("catalog warm-up failed")
		return
	}
	s.log.WithField("took", time.Since(start)).Debug("catalog warm-up done")
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct{ log *logrus.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Debug("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithError(err).WithFields(fields(keysAndValues)).Error("cron: " + msg)
}

func fields(kv []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}
