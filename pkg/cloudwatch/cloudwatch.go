package cloudwatch

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	awsclient "github.com/cloudops-tools/awskit/pkg/aws"
	"github.com/cloudops-tools/awskit/pkg/config"
)

type Client struct {
	logger        logrus.FieldLogger
	cloudwatchAPI cloudwatchiface.CloudWatchAPI
	now           func() time.Time
}

func New(logger logrus.FieldLogger, cloudwatchAPI cloudwatchiface.CloudWatchAPI) *Client {
	return &Client{
		logger:        logger,
		cloudwatchAPI: cloudwatchAPI,
		now:           time.Now,
	}
}

func NewClient(logger logrus.FieldLogger, overrides awsclient.Options, provider config.Provider) (*Client, error) {
	sess, err := awsclient.Connect(overrides, provider)
	if err != nil {
		return nil, err
	}
	return New(logger, cloudwatch.New(sess)), nil
}

// PutMetric publishes a single datapoint timestamped now.
func (c *Client) PutMetric(ctx context.Context, namespace, name string, value float64, dimensions map[string]string) error {
	if namespace == "" || name == "" {
		return errors.New("a metric namespace and name are required")
	}
	datum := &cloudwatch.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Timestamp:  aws.Time(c.now()),
		Unit:       aws.String(cloudwatch.StandardUnitCount),
	}

	keys := make([]string, 0, len(dimensions))
	for k := range dimensions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		datum.Dimensions = append(datum.Dimensions, &cloudwatch.Dimension{
			Name:  aws.String(k),
			Value: aws.String(dimensions[k]),
		})
	}

	c.logger.WithFields(logrus.Fields{"namespace": namespace, "metric": name}).Debugf("putting metric value %v", value)
	_, err := c.cloudwatchAPI.PutMetricDataWithContext(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(namespace),
		MetricData: []*cloudwatch.MetricDatum{datum},
	})
	return errors.Wrapf(err, "could not put metric %s/%s", namespace, name)
}
