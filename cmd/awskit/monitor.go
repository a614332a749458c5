package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cloudops-tools/awskit/pkg/cloudwatch"
	"github.com/cloudops-tools/awskit/pkg/config"
	"github.com/cloudops-tools/awskit/pkg/emr"
	"github.com/cloudops-tools/awskit/pkg/mail"
	"github.com/cloudops-tools/awskit/pkg/monitor"
)

var (
	checkDay            string
	notify              bool
	cloudwatchNamespace string
	watchSchedule       string
	listenAddr          string
)

func addMonitorCommands(root *cobra.Command) {
	checkCmd := &cobra.Command{
		Use:     "check",
		Short:   "Check whether the day's EMR cluster stopped because of a failed step",
		Example: "awskit check --day 2019-03-04 --notify",
		Args:    cobra.NoArgs,
		RunE:    runCheck,
	}
	checkCmd.Flags().StringVar(&checkDay, "day", "", "day to check (YYYY-MM-DD), defaults to today")
	addMonitorFlags(checkCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the EMR check on a schedule and serve health, metrics and on-demand checks over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "cron schedule with seconds, defaults to monitor.schedule or "+monitor.DefaultSchedule)
	watchCmd.Flags().StringVar(&listenAddr, "listen", "", "address of the HTTP API, defaults to monitor.listen or :8080")
	addMonitorFlags(watchCmd)

	root.AddCommand(checkCmd, watchCmd)
}

func addMonitorFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&notify, "notify", false, "mail the configured recipients when the check finds a failure")
	cmd.Flags().StringVar(&cloudwatchNamespace, "cloudwatch-namespace", "", "publish the "+monitor.StepFailureMetric+" metric to this CloudWatch namespace")
}

// monitorSettings merges the monitor section of the configuration under the
// flags. A missing configuration file leaves the flags as given.
func monitorSettings() config.MonitorConfig {
	settings := config.MonitorConfig{
		Schedule:            watchSchedule,
		Notify:              notify,
		CloudWatchNamespace: cloudwatchNamespace,
		Listen:              listenAddr,
	}
	cfg, err := provider.Config()
	if err != nil {
		logger.WithError(err).Debugf("no monitor configuration loaded")
	} else {
		fromFile := cfg.Monitor
		if settings.Schedule == "" {
			settings.Schedule = fromFile.Schedule
		}
		if settings.CloudWatchNamespace == "" {
			settings.CloudWatchNamespace = fromFile.CloudWatchNamespace
		}
		if settings.Listen == "" {
			settings.Listen = fromFile.Listen
		}
		settings.Notify = settings.Notify || fromFile.Notify
	}
	if settings.Listen == "" {
		settings.Listen = ":8080"
	}
	return settings
}

func newChecker(settings config.MonitorConfig) (*monitor.Checker, error) {
	agg, err := emr.NewClient(logger, awsOpts, provider)
	if err != nil {
		return nil, err
	}

	var checkerCfg monitor.CheckerConfig
	if settings.Notify {
		mailer, err := mail.New(logger, mail.Settings{}, provider)
		if err != nil {
			return nil, err
		}
		checkerCfg.Notifier = mailer
	}
	if settings.CloudWatchNamespace != "" {
		cw, err := cloudwatch.NewClient(logger, awsOpts, provider)
		if err != nil {
			return nil, err
		}
		checkerCfg.Publisher = cw
		checkerCfg.Namespace = settings.CloudWatchNamespace
	}
	return monitor.NewChecker(logger, agg, checkerCfg)
}

func runCheck(cmd *cobra.Command, args []string) error {
	checker, err := newChecker(monitorSettings())
	if err != nil {
		return err
	}

	var result *monitor.Result
	if checkDay != "" {
		day, perr := parseDay(checkDay)
		if perr != nil {
			return perr
		}
		result, err = checker.Check(rootCtx, day)
	} else {
		result, err = checker.CheckToday(rootCtx)
	}
	if result != nil {
		if perr := printJSON(result); perr != nil {
			return perr
		}
	}
	return err
}

func runWatch(cmd *cobra.Command, args []string) error {
	settings := monitorSettings()
	checker, err := newChecker(settings)
	if err != nil {
		return err
	}
	watcher, err := monitor.NewWatcher(logger, checker, settings.Schedule)
	if err != nil {
		return err
	}
	server := monitor.NewServer(logger, checker)

	g, ctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		watcher.Run(ctx.Done())
		return nil
	})
	g.Go(func() error {
		return server.ListenAndServe(ctx, settings.Listen)
	})
	return g.Wait()
}
