package redshift

import (
	"context"
	"database/sql"
	"net"
	"net/url"
	"strconv"

	"github.com/aws/aws-sdk-go/service/redshift"
	"github.com/aws/aws-sdk-go/service/redshift/redshiftiface"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	awsclient "github.com/cloudops-tools/awskit/pkg/aws"
	"github.com/cloudops-tools/awskit/pkg/config"
	"github.com/cloudops-tools/awskit/pkg/db"
)

const defaultSSLMode = "require"

// ConnectionSettings locate a Redshift database for SQL access.
type ConnectionSettings struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	SSLMode  string
}

// ResolveConnection fills empty settings from the provider's aws.redshift
// section.
func ResolveConnection(overrides ConnectionSettings, provider config.Provider) (ConnectionSettings, error) {
	s := overrides
	err := config.Resolve(provider,
		config.Override{Value: &s.Host, FromConfig: func(c *config.Config) string { return c.AWS.Redshift.URL }},
		config.Override{Value: &s.Port, FromConfig: func(c *config.Config) string {
			if c.AWS.Redshift.Port == 0 {
				return ""
			}
			return strconv.Itoa(c.AWS.Redshift.Port)
		}},
		config.Override{Value: &s.Database, FromConfig: func(c *config.Config) string { return c.AWS.Redshift.Schema }},
		config.Override{Value: &s.User, FromConfig: func(c *config.Config) string { return c.AWS.Redshift.User }},
		config.Override{Value: &s.Password, FromConfig: func(c *config.Config) string { return c.AWS.Redshift.Password }},
	)
	if err != nil {
		return ConnectionSettings{}, err
	}
	if s.Host == "" || s.Database == "" {
		return ConnectionSettings{}, errors.New("a Redshift host and database must be provided or configured")
	}
	return s, nil
}

// DSN renders the settings as a postgres connection URL.
func (s ConnectionSettings) DSN() string {
	port := s.Port
	if port == "" {
		port = "5439"
	}
	sslMode := s.SSLMode
	if sslMode == "" {
		sslMode = defaultSSLMode
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(s.User, s.Password),
		Host:     net.JoinHostPort(s.Host, port),
		Path:     "/" + s.Database,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return u.String()
}

// Client manages Redshift clusters and runs SQL against one of them.
type Client struct {
	logger      logrus.FieldLogger
	redshiftAPI redshiftiface.RedshiftAPI
	queryer     db.Queryer
	execer      db.Execer
}

func New(logger logrus.FieldLogger, redshiftAPI redshiftiface.RedshiftAPI, queryer db.Queryer, execer db.Execer) *Client {
	return &Client{
		logger:      logger,
		redshiftAPI: redshiftAPI,
		queryer:     queryer,
		execer:      execer,
	}
}

// NewAPIClient connects to the Redshift API only. The returned client can
// describe clusters but not run SQL, so no connection settings are needed.
func NewAPIClient(logger logrus.FieldLogger, awsOverrides awsclient.Options, provider config.Provider) (*Client, error) {
	sess, err := awsclient.Connect(awsOverrides, provider)
	if err != nil {
		return nil, err
	}
	return New(logger, redshift.New(sess), nil, nil), nil
}

// NewClient connects to the Redshift API and opens a SQL connection. Empty
// overrides are resolved from the provider's configuration.
func NewClient(logger logrus.FieldLogger, awsOverrides awsclient.Options, connOverrides ConnectionSettings, provider config.Provider, logQueries bool) (*Client, error) {
	sess, err := awsclient.Connect(awsOverrides, provider)
	if err != nil {
		return nil, err
	}
	settings, err := ResolveConnection(connOverrides, provider)
	if err != nil {
		return nil, err
	}
	conn, err := sql.Open("pgx", settings.DSN())
	if err != nil {
		return nil, errors.Wrapf(err, "could not open connection to Redshift at %s", settings.Host)
	}
	return New(logger,
		redshift.New(sess),
		db.NewLoggingQueryer(conn, logger, logQueries),
		db.NewLoggingExecer(conn, logger, logQueries),
	), nil
}

// ExecuteQuery runs a query and returns every row it produced.
func (c *Client) ExecuteQuery(ctx context.Context, query string) ([][]interface{}, error) {
	rows, err := c.queryer.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	results, err := db.ReadRows(rows)
	if err != nil {
		return nil, errors.Wrap(err, "error reading query results")
	}
	return results, nil
}

// ExecuteCommand runs a statement that returns no rows, such as INSERT or
// CREATE TABLE. Each command is committed on its own.
func (c *Client) ExecuteCommand(ctx context.Context, command string) error {
	_, err := c.execer.ExecContext(ctx, command)
	return errors.Wrap(err, "error executing command")
}

func (c *Client) DescribeClusters(ctx context.Context) ([]*redshift.Cluster, error) {
	var clusters []*redshift.Cluster
	err := c.redshiftAPI.DescribeClustersPagesWithContext(ctx, &redshift.DescribeClustersInput{}, func(out *redshift.DescribeClustersOutput, lastPage bool) bool {
		clusters = append(clusters, out.Clusters...)
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not describe Redshift clusters")
	}
	return clusters, nil
}

// Close releases the SQL connection.
func (c *Client) Close() error {
	if c.queryer == nil {
		return nil
	}
	return c.queryer.Close()
}
