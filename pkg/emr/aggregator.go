package emr

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/emr"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	awsclient "github.com/cloudops-tools/awskit/pkg/aws"
	"github.com/cloudops-tools/awskit/pkg/config"
)

// Aggregator builds normalized, date filtered views of EMR clusters and their
// steps on top of a ClusterDirectory. It keeps no state between calls.
type Aggregator struct {
	logger    logrus.FieldLogger
	directory ClusterDirectory
	now       func() time.Time
}

func NewAggregator(logger logrus.FieldLogger, directory ClusterDirectory) *Aggregator {
	return &Aggregator{
		logger:    logger,
		directory: directory,
		now:       time.Now,
	}
}

// NewClient connects to EMR using overrides, falling back to the provider's
// configuration for anything left empty.
func NewClient(logger logrus.FieldLogger, overrides awsclient.Options, provider config.Provider) (*Aggregator, error) {
	sess, err := awsclient.Connect(overrides, provider)
	if err != nil {
		return nil, err
	}
	return NewAggregator(logger, NewDirectory(emr.New(sess))), nil
}

// ListClusters returns the clusters created inside the optional bounds, in the
// order the directory reports them. Clusters terminated by a user request are
// skipped. With fullDetail each cluster carries its steps.
func (a *Aggregator) ListClusters(ctx context.Context, fullDetail bool, createdAfter, createdBefore *time.Time) ([]ClusterSummary, error) {
	logger := a.logger.WithFields(logrus.Fields{
		"createdAfter":  createdAfter,
		"createdBefore": createdBefore,
		"fullDetail":    fullDetail,
	})
	logger.Debugf("listing clusters")

	raw, err := a.directory.ListClusters(ctx, createdAfter, createdBefore)
	if err != nil {
		return nil, err
	}

	clusters := make([]ClusterSummary, 0, len(raw))
	for _, info := range raw {
		if info == nil || info.Id == nil {
			return nil, errors.Wrap(ErrSchemaMismatch, "listed cluster is missing Id")
		}
		if stateChangeCode(info.Status) == ReasonUserRequest {
			logger.WithField("cluster", aws.StringValue(info.Id)).Debugf("skipping cluster terminated by user request")
			continue
		}
		cluster, err := a.GetClusterDetail(ctx, aws.StringValue(info.Id), fullDetail)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, cluster)
	}
	logger.Debugf("found %d clusters", len(clusters))
	return clusters, nil
}

// ListClustersForDay lists the clusters created between 00:00:00 and 23:59:59
// of day, in day's location.
func (a *Aggregator) ListClustersForDay(ctx context.Context, day time.Time, fullDetail bool) ([]ClusterSummary, error) {
	start, end := DayBounds(day)
	return a.ListClusters(ctx, fullDetail, &start, &end)
}

func (a *Aggregator) ListClustersForToday(ctx context.Context, fullDetail bool) ([]ClusterSummary, error) {
	return a.ListClustersForDay(ctx, a.now(), fullDetail)
}

// GetClusterDetail describes a single cluster. Steps are only looked up when
// fullDetail is set and the cluster exists.
func (a *Aggregator) GetClusterDetail(ctx context.Context, clusterID string, fullDetail bool) (ClusterSummary, error) {
	raw, err := a.directory.DescribeCluster(ctx, clusterID)
	if err != nil {
		return ClusterSummary{}, err
	}
	cluster, err := FormatCluster(raw)
	if err != nil {
		return ClusterSummary{}, err
	}
	if fullDetail {
		steps, err := a.ListSteps(ctx, cluster.ID)
		if err != nil {
			return ClusterSummary{}, err
		}
		cluster.Steps = steps
	}
	return cluster, nil
}

// ListSteps returns the normalized steps of a cluster in directory order.
func (a *Aggregator) ListSteps(ctx context.Context, clusterID string) ([]StepSummary, error) {
	raw, err := a.ListRawSteps(ctx, clusterID)
	if err != nil {
		return nil, err
	}
	steps := make([]StepSummary, 0, len(raw))
	for _, info := range raw {
		step, err := FormatStep(info)
		if err != nil {
			return nil, errors.Wrapf(err, "cluster %s", clusterID)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// ListRawSteps returns the directory's step records unchanged, for callers
// that need fields the normalized view drops.
func (a *Aggregator) ListRawSteps(ctx context.Context, clusterID string) ([]*emr.StepSummary, error) {
	a.logger.WithField("cluster", clusterID).Debugf("listing steps")
	return a.directory.ListSteps(ctx, clusterID)
}

// DayBounds returns 00:00:00 and 23:59:59 of day in day's location.
func DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	loc := day.Location()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), time.Date(y, m, d, 23, 59, 59, 0, loc)
}

func stateChangeCode(status *emr.ClusterStatus) string {
	if status == nil || status.StateChangeReason == nil {
		return ""
	}
	return aws.StringValue(status.StateChangeReason.Code)
}
