package monitor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

// DefaultSchedule runs the check every day at 06:00.
const DefaultSchedule = "0 0 6 * * *"

const checkTimeout = 10 * time.Minute

// checkJob must implement the cron.Job interface.
var _ cron.Job = checkJob{}

type checkJob struct {
	logger  logrus.FieldLogger
	checker *Checker
}

func (j checkJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()
	if _, err := j.checker.CheckToday(ctx); err != nil {
		j.logger.WithError(err).Error("scheduled EMR check failed")
	}
}

// Watcher runs a Checker for the current day on a cron schedule.
type Watcher struct {
	logger   logrus.FieldLogger
	schedule string
	runner   *cron.Cron
}

// NewWatcher schedules checker. The schedule uses six fields, seconds first,
// or one of the @daily style descriptors.
func NewWatcher(logger logrus.FieldLogger, checker *Checker, schedule string) (*Watcher, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	sched, err := cron.Parse(schedule)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid schedule %q", schedule)
	}
	logger = logger.WithField("component", "emrWatcher")
	runner := cron.New()
	runner.Schedule(sched, checkJob{logger: logger, checker: checker})
	return &Watcher{
		logger:   logger,
		schedule: schedule,
		runner:   runner,
	}, nil
}

// Next returns the next time the check will run.
func (w *Watcher) Next(from time.Time) time.Time {
	entries := w.runner.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(from)
}

// Run starts the schedule and blocks until stopCh is closed.
func (w *Watcher) Run(stopCh <-chan struct{}) {
	w.logger.Infof("watching EMR clusters on schedule %q, next check at %s", w.schedule, w.Next(time.Now()))
	w.runner.Start()
	<-stopCh
	w.runner.Stop()
	w.logger.Infof("watcher stopped")
}
