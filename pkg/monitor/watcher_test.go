package monitor

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudops-tools/awskit/pkg/emr"
)

func TestNewWatcherSchedule(t *testing.T) {
	checker, err := NewChecker(logrus.New(), &fakeLister{}, CheckerConfig{})
	require.NoError(t, err)

	w, err := NewWatcher(logrus.New(), checker, "")
	require.NoError(t, err)
	from := time.Date(2019, 3, 4, 7, 0, 0, 0, time.Local)
	assert.Equal(t, time.Date(2019, 3, 5, 6, 0, 0, 0, time.Local), w.Next(from))

	w, err = NewWatcher(logrus.New(), checker, "@hourly")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, 3, 4, 8, 0, 0, 0, time.Local), w.Next(from))

	_, err = NewWatcher(logrus.New(), checker, "not a schedule")
	assert.Error(t, err)
}

func TestCheckJobRunsTodaysCheck(t *testing.T) {
	lister := &fakeLister{clusters: []emr.ClusterSummary{healthyCluster()}}
	checker, err := NewChecker(logrus.New(), lister, CheckerConfig{})
	require.NoError(t, err)
	now := time.Date(2019, 3, 5, 6, 0, 0, 0, time.UTC)
	checker.now = func() time.Time { return now }

	checkJob{logger: logrus.New(), checker: checker}.Run()
	assert.Equal(t, []time.Time{now}, lister.days)
}

func TestWatcherRunStops(t *testing.T) {
	checker, err := NewChecker(logrus.New(), &fakeLister{}, CheckerConfig{})
	require.NoError(t, err)
	w, err := NewWatcher(logrus.New(), checker, DefaultSchedule)
	require.NoError(t, err)

	stopCh := make(chan struct{})
	done := make(chan struct{})
	go func() {
		w.Run(stopCh)
		close(done)
	}()
	close(stopCh)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
