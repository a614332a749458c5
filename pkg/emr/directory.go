package emr

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/emr"
	"github.com/aws/aws-sdk-go/service/emr/emriface"
	"github.com/pkg/errors"
)

//go:generate mockgen -destination=mock/directory.go -package=mock github.com/cloudops-tools/awskit/pkg/emr ClusterDirectory

// ClusterDirectory lists and describes clusters and their steps.
type ClusterDirectory interface {
	// ListClusters returns the clusters created inside the given bounds. A
	// nil bound is left out of the request.
	ListClusters(ctx context.Context, createdAfter, createdBefore *time.Time) ([]*emr.ClusterSummary, error)
	DescribeCluster(ctx context.Context, clusterID string) (*emr.Cluster, error)
	ListSteps(ctx context.Context, clusterID string) ([]*emr.StepSummary, error)
}

type sdkDirectory struct {
	emrAPI emriface.EMRAPI
}

// NewDirectory returns a ClusterDirectory backed by the EMR API.
func NewDirectory(emrAPI emriface.EMRAPI) ClusterDirectory {
	return &sdkDirectory{emrAPI: emrAPI}
}

func (d *sdkDirectory) ListClusters(ctx context.Context, createdAfter, createdBefore *time.Time) ([]*emr.ClusterSummary, error) {
	input := &emr.ListClustersInput{}
	if createdAfter != nil {
		input.CreatedAfter = aws.Time(*createdAfter)
	}
	if createdBefore != nil {
		input.CreatedBefore = aws.Time(*createdBefore)
	}

	var clusters []*emr.ClusterSummary
	err := d.emrAPI.ListClustersPagesWithContext(ctx, input, func(out *emr.ListClustersOutput, lastPage bool) bool {
		clusters = append(clusters, out.Clusters...)
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not list EMR clusters")
	}
	return clusters, nil
}

func (d *sdkDirectory) DescribeCluster(ctx context.Context, clusterID string) (*emr.Cluster, error) {
	out, err := d.emrAPI.DescribeClusterWithContext(ctx, &emr.DescribeClusterInput{
		ClusterId: aws.String(clusterID),
	})
	if err != nil {
		return nil, translateError(err, clusterID, "could not describe EMR cluster")
	}
	if out.Cluster == nil {
		return nil, errors.Wrapf(ErrNotFound, "cluster %s", clusterID)
	}
	return out.Cluster, nil
}

func (d *sdkDirectory) ListSteps(ctx context.Context, clusterID string) ([]*emr.StepSummary, error) {
	var steps []*emr.StepSummary
	err := d.emrAPI.ListStepsPagesWithContext(ctx, &emr.ListStepsInput{
		ClusterId: aws.String(clusterID),
	}, func(out *emr.ListStepsOutput, lastPage bool) bool {
		steps = append(steps, out.Steps...)
		return true
	})
	if err != nil {
		return nil, translateError(err, clusterID, "could not list EMR steps")
	}
	return steps, nil
}

// translateError maps EMR's answer for an unknown cluster id onto
// ErrNotFound. EMR reports it as an InvalidRequestException.
func translateError(err error, clusterID, msg string) error {
	if aerr, ok := err.(awserr.Error); ok && aerr.Code() == emr.ErrCodeInvalidRequestException {
		if clusterID == "" {
			return errors.Wrapf(err, "%s: no cluster id given", msg)
		}
		if strings.Contains(aerr.Message(), clusterID) || strings.Contains(strings.ToLower(aerr.Message()), "not valid") {
			return errors.Wrapf(ErrNotFound, "cluster %s: %s", clusterID, aerr.Message())
		}
	}
	return errors.Wrapf(err, "%s %s", msg, clusterID)
}
