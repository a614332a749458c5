package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	Close() error
}

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Close() error
}

type loggingQueryer struct {
	queryer    Queryer
	logger     log.FieldLogger
	logQueries bool
}

// NewLoggingQueryer wraps queryer and logs every statement at debug level
// when logQueries is set.
func NewLoggingQueryer(queryer Queryer, logger log.FieldLogger, logQueries bool) Queryer {
	return &loggingQueryer{
		queryer:    queryer,
		logger:     logger,
		logQueries: logQueries,
	}
}

func (l *loggingQueryer) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if l.logQueries {
		l.logger.Debugf("QUERY: %s [%s]", query, argsString(args...))
	}
	return l.queryer.QueryContext(ctx, query, args...)
}

func (l *loggingQueryer) Close() error {
	return l.queryer.Close()
}

type loggingExecer struct {
	execer     Execer
	logger     log.FieldLogger
	logQueries bool
}

func NewLoggingExecer(execer Execer, logger log.FieldLogger, logQueries bool) Execer {
	return &loggingExecer{
		execer:     execer,
		logger:     logger,
		logQueries: logQueries,
	}
}

func (l *loggingExecer) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if l.logQueries {
		l.logger.Debugf("EXEC: %s [%s]", query, argsString(args...))
	}
	return l.execer.ExecContext(ctx, query, args...)
}

func (l *loggingExecer) Close() error {
	return l.execer.Close()
}

// ReadRows drains rows into one slice of column values per row and closes
// rows.
func ReadRows(rows *sql.Rows) ([][]interface{}, error) {
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := [][]interface{}{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		results = append(results, values)
	}
	return results, rows.Err()
}

// argsString pretty prints query arguments for logging.
func argsString(args ...interface{}) string {
	parts := make([]string, 0, len(args))
	for i, a := range args {
		var v interface{} = a
		if x, ok := v.(driver.Valuer); ok {
			if y, err := x.Value(); err == nil {
				v = y
			}
		}
		switch v.(type) {
		case string, []byte:
			v = fmt.Sprintf("%q", v)
		default:
			v = fmt.Sprintf("%v", v)
		}
		parts = append(parts, fmt.Sprintf("%d:%s", i+1, v))
	}
	return strings.Join(parts, " ")
}
