package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudops-tools/awskit/pkg/redshift"
)

var (
	redshiftConn redshift.ConnectionSettings
	logQueries   bool
	redshiftExec bool
)

func addRedshiftCommands(root *cobra.Command) {
	redshiftCmd := &cobra.Command{
		Use:   "redshift",
		Short: "Inspect Redshift clusters and run SQL against them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	flags := redshiftCmd.PersistentFlags()
	flags.StringVar(&redshiftConn.Host, "host", "", "Redshift endpoint, defaults to aws.redshift.url")
	flags.StringVar(&redshiftConn.Port, "port", "", "Redshift port, defaults to aws.redshift.port or 5439")
	flags.StringVar(&redshiftConn.Database, "database", "", "database, defaults to aws.redshift.schema")
	flags.StringVar(&redshiftConn.User, "user", "", "database user, defaults to aws.redshift.user")
	flags.StringVar(&redshiftConn.Password, "password", "", "database password, defaults to aws.redshift.password")
	flags.StringVar(&redshiftConn.SSLMode, "sslmode", "", "postgres sslmode, defaults to require")
	flags.BoolVar(&logQueries, "log-queries", false, "log every statement at debug level")

	queryCmd := &cobra.Command{
		Use:     "query SQL",
		Short:   "Run a SQL statement and print its rows",
		Example: `awskit redshift query "SELECT count(*) FROM events"`,
		Args:    cobra.ExactArgs(1),
		RunE:    runRedshiftQuery,
	}
	queryCmd.Flags().BoolVar(&redshiftExec, "exec", false, "run a statement that returns no rows, such as INSERT or CREATE TABLE")

	redshiftCmd.AddCommand(queryCmd, &cobra.Command{
		Use:   "clusters",
		Short: "Describe the Redshift clusters of the account",
		Args:  cobra.NoArgs,
		RunE:  runRedshiftClusters,
	})
	root.AddCommand(redshiftCmd)
}

func runRedshiftQuery(cmd *cobra.Command, args []string) error {
	client, err := redshift.NewClient(logger, awsOpts, redshiftConn, provider, logQueries)
	if err != nil {
		return err
	}
	defer client.Close()

	if redshiftExec {
		return client.ExecuteCommand(rootCtx, args[0])
	}
	rows, err := client.ExecuteQuery(rootCtx, args[0])
	if err != nil {
		return err
	}
	return printJSON(rows)
}

func runRedshiftClusters(cmd *cobra.Command, args []string) error {
	client, err := redshift.NewAPIClient(logger, awsOpts, provider)
	if err != nil {
		return err
	}
	defer client.Close()

	clusters, err := client.DescribeClusters(rootCtx)
	if err != nil {
		return err
	}
	return printJSON(clusters)
}
