package monitor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cloudops-tools/awskit/pkg/emr"
	"github.com/cloudops-tools/awskit/pkg/mail"
)

const (
	dayLayout = "2006-01-02"

	// StepFailureMetric is published to CloudWatch after each check with the
	// value 1 when the checked cluster failed and 0 otherwise.
	StepFailureMetric = "StepFailure"
)

// ClusterLister lists a day's clusters. *emr.Aggregator implements it.
type ClusterLister interface {
	ListClustersForDay(ctx context.Context, day time.Time, fullDetail bool) ([]emr.ClusterSummary, error)
}

// Result is the outcome of checking one day.
type Result struct {
	Day      string              `json:"day"`
	Cluster  *emr.ClusterSummary `json:"cluster,omitempty"`
	HasError bool                `json:"hasError"`
	Report   emr.FailureReport   `json:"report"`
	Notified bool                `json:"notified"`
}

// CheckerConfig holds the optional collaborators of a Checker.
type CheckerConfig struct {
	// Notifier receives a message when the checked cluster failed. Nothing
	// is sent when it is nil.
	Notifier  Notifier
	Templates *Templates

	// Publisher receives the StepFailure metric when Namespace is set.
	Publisher MetricPublisher
	Namespace string
}

// Checker inspects the clusters of a day and reports whether the relevant
// one stopped because of a failed step.
type Checker struct {
	logger logrus.FieldLogger
	lister ClusterLister
	cfg    CheckerConfig
	now    func() time.Time
}

func NewChecker(logger logrus.FieldLogger, lister ClusterLister, cfg CheckerConfig) (*Checker, error) {
	if cfg.Notifier != nil && cfg.Templates == nil {
		templates, err := NewTemplates("", "")
		if err != nil {
			return nil, err
		}
		cfg.Templates = templates
	}
	return &Checker{
		logger: logger.WithField("component", "emrChecker"),
		lister: lister,
		cfg:    cfg,
		now:    time.Now,
	}, nil
}

// CheckToday checks the current day in the local time zone.
func (c *Checker) CheckToday(ctx context.Context) (*Result, error) {
	return c.Check(ctx, c.now())
}

// Check lists the clusters created on day with their steps and evaluates the
// one selected by emr.MostRecentCluster.
func (c *Checker) Check(ctx context.Context, day time.Time) (*Result, error) {
	start := c.now()
	defer func() {
		checkDurationHistogram.Observe(c.now().Sub(start).Seconds())
		lastCheckTimestampGauge.Set(float64(c.now().Unix()))
	}()

	result := &Result{
		Day:    day.Format(dayLayout),
		Report: emr.FailureReport{ProcessResult: emr.ProcessSuccess},
	}
	logger := c.logger.WithField("day", result.Day)

	clusters, err := c.lister.ListClustersForDay(ctx, day, true)
	if err != nil {
		checksTotalCounter.WithLabelValues(checkResultError).Inc()
		return nil, errors.Wrapf(err, "unable to list clusters for %s", result.Day)
	}

	cluster := emr.MostRecentCluster(clusters)
	if cluster == nil {
		logger.Infof("no clusters found")
		checksTotalCounter.WithLabelValues(checkResultEmpty).Inc()
		return result, nil
	}
	logger = logger.WithField("cluster", cluster.ID)

	result.Cluster = cluster
	result.HasError = emr.ClusterHasError(*cluster)
	result.Report = emr.FindFailedStep(cluster.Steps)

	if !result.HasError {
		logger.Infof("cluster %s finished without step failures", cluster.Name)
		checksTotalCounter.WithLabelValues(checkResultSuccess).Inc()
		c.publish(ctx, logger, result)
		return result, nil
	}

	logger.Warnf("cluster %s stopped with %s", cluster.Name, cluster.Status.Code)
	checksTotalCounter.WithLabelValues(checkResultFail).Inc()
	c.publish(ctx, logger, result)

	if c.cfg.Notifier == nil {
		return result, nil
	}
	subject, body, err := c.cfg.Templates.Render(result)
	if err != nil {
		notificationsFailedCounter.Inc()
		return result, err
	}
	if err := c.cfg.Notifier.Send(subject, body, mail.FormatPlain); err != nil {
		notificationsFailedCounter.Inc()
		return result, errors.Wrap(err, "unable to send failure notification")
	}
	result.Notified = true
	return result, nil
}

func (c *Checker) publish(ctx context.Context, logger logrus.FieldLogger, result *Result) {
	if c.cfg.Publisher == nil || c.cfg.Namespace == "" {
		return
	}
	var value float64
	if result.HasError {
		value = 1
	}
	err := c.cfg.Publisher.PutMetric(ctx, c.cfg.Namespace, StepFailureMetric, value, map[string]string{
		"ClusterName": result.Cluster.Name,
	})
	if err != nil {
		logger.WithError(err).Warnf("unable to publish %s metric", StepFailureMetric)
	}
}
