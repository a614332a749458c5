package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecer struct {
	queries []string
	closed  bool
}

func (r *recordingExecer) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	r.queries = append(r.queries, query)
	return nil, nil
}

func (r *recordingExecer) Close() error {
	r.closed = true
	return nil
}

func TestArgsString(t *testing.T) {
	assert.Equal(t, "", argsString())
	assert.Equal(t, `1:"etl" 2:42 3:true`, argsString("etl", 42, true))
	assert.Equal(t, `1:"raw"`, argsString([]byte("raw")))
	assert.Equal(t, `1:"valued"`, argsString(sql.NullString{String: "valued", Valid: true}))
}

func TestLoggingExecer(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	inner := &recordingExecer{}
	execer := NewLoggingExecer(inner, logger, true)
	_, err := execer.ExecContext(context.Background(), "DELETE FROM events WHERE day = $1", "2024-03-05")
	require.NoError(t, err)

	assert.Equal(t, []string{"DELETE FROM events WHERE day = $1"}, inner.queries)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, `EXEC: DELETE FROM events WHERE day = $1 [1:"2024-03-05"]`, hook.LastEntry().Message)

	require.NoError(t, execer.Close())
	assert.True(t, inner.closed)
}

func TestLoggingExecerQuiet(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	execer := NewLoggingExecer(&recordingExecer{}, logger, false)
	_, err := execer.ExecContext(context.Background(), "VACUUM")
	require.NoError(t, err)
	assert.Empty(t, hook.AllEntries())
}
