package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cloudops-tools/awskit/cmd/helpers"
	awsclient "github.com/cloudops-tools/awskit/pkg/aws"
	"github.com/cloudops-tools/awskit/pkg/config"
)

const (
	envPrefix = "AWSKIT"
	dayLayout = "2006-01-02"
)

var (
	configPath  string
	logLevelStr string
	awsOpts     awsclient.Options

	logger   log.FieldLogger
	provider config.Provider

	// rootCtx is cancelled on SIGINT or SIGTERM.
	rootCtx = context.Background()

	stdout io.Writer = os.Stdout
)

var rootCmd = &cobra.Command{
	Use:           "awskit",
	Short:         "Inspect and manage EMR, S3, Kinesis and Redshift resources",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := helpers.MapEnvVarToFlag(helpers.AWSEnvVars, cmd.Flags()); err != nil {
			return err
		}
		if err := helpers.SetFlagsFromEnv(cmd.Flags(), envPrefix); err != nil {
			return err
		}
		var err error
		logger, err = helpers.SetupLogger(os.Stderr, logLevelStr, true, log.Fields{"app": "awskit"})
		if err != nil {
			return err
		}
		provider = config.NewFileProvider(configPath)
		rootCtx = helpers.SetupSignals(logger)
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.EnvOr("AWSKIT_CONFIG", config.DefaultFileName), "path to the JSON configuration file used for any value not given as a flag")
	flags.StringVar(&logLevelStr, "log-level", log.InfoLevel.String(), "log level")
	flags.StringVar(&awsOpts.AccessKey, "access-key", "", "AWS access key id, defaults to aws.awsAuth.access_key")
	flags.StringVar(&awsOpts.SecretAccessKey, "secret-access-key", "", "AWS secret access key, defaults to aws.awsAuth.secret_access_key")
	flags.StringVar(&awsOpts.Region, "region", "", "AWS region, defaults to aws.awsAuth.region")
}

func main() {
	addEMRCommands(rootCmd)
	addMonitorCommands(rootCmd)
	addS3Commands(rootCmd)
	addKinesisCommands(rootCmd)
	addRedshiftCommands(rootCmd)
	addEC2Commands(rootCmd)
	addIAMCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatalf("error executing command: %v", err)
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("unable to encode output: %v", err)
	}
	return nil
}

// parseDay parses a YYYY-MM-DD day in the local time zone.
func parseDay(s string) (time.Time, error) {
	day, err := time.ParseInLocation(dayLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q, expected YYYY-MM-DD", s)
	}
	return day, nil
}

// parseTime accepts an RFC3339 timestamp or a YYYY-MM-DD day.
func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := parseDay(s)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q, expected RFC3339 or YYYY-MM-DD", s)
	}
	return &t, nil
}
