package ec2

import (
	"context"
	"encoding/base64"
	"sort"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ec2/ec2iface"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	awsclient "github.com/cloudops-tools/awskit/pkg/aws"
	"github.com/cloudops-tools/awskit/pkg/config"
)

var ErrInvalidInstanceCount = errors.New("at least 1 instance must be started")

// InstanceConfig describes the instances launched by StartInstances.
type InstanceConfig struct {
	ImageID            string
	InstanceType       string
	KeyName            string
	SubnetID           string
	SecurityGroupIDs   []string
	IAMInstanceProfile string
	// UserData is the plain text script; it is base64 encoded before launch.
	UserData string
	Tags     map[string]string
}

type Client struct {
	logger logrus.FieldLogger
	ec2API ec2iface.EC2API
}

func New(logger logrus.FieldLogger, ec2API ec2iface.EC2API) *Client {
	return &Client{logger: logger, ec2API: ec2API}
}

func NewClient(logger logrus.FieldLogger, overrides awsclient.Options, provider config.Provider) (*Client, error) {
	sess, err := awsclient.Connect(overrides, provider)
	if err != nil {
		return nil, err
	}
	return New(logger, ec2.New(sess)), nil
}

// StartInstances launches exactly count instances and returns their ids.
func (c *Client) StartInstances(ctx context.Context, count int64, cfg InstanceConfig) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidInstanceCount
	}
	if cfg.ImageID == "" {
		return nil, errors.New("an image id is required to start instances")
	}

	input := &ec2.RunInstancesInput{
		ImageId:  aws.String(cfg.ImageID),
		MinCount: aws.Int64(count),
		MaxCount: aws.Int64(count),
	}
	if cfg.InstanceType != "" {
		input.InstanceType = aws.String(cfg.InstanceType)
	}
	if cfg.KeyName != "" {
		input.KeyName = aws.String(cfg.KeyName)
	}
	if cfg.SubnetID != "" {
		input.SubnetId = aws.String(cfg.SubnetID)
	}
	if len(cfg.SecurityGroupIDs) > 0 {
		input.SecurityGroupIds = aws.StringSlice(cfg.SecurityGroupIDs)
	}
	if cfg.IAMInstanceProfile != "" {
		input.IamInstanceProfile = &ec2.IamInstanceProfileSpecification{Name: aws.String(cfg.IAMInstanceProfile)}
	}
	if cfg.UserData != "" {
		input.UserData = aws.String(base64.StdEncoding.EncodeToString([]byte(cfg.UserData)))
	}
	if len(cfg.Tags) > 0 {
		input.TagSpecifications = []*ec2.TagSpecification{{
			ResourceType: aws.String(ec2.ResourceTypeInstance),
			Tags:         tags(cfg.Tags),
		}}
	}

	c.logger.WithFields(logrus.Fields{"image": cfg.ImageID, "count": count}).Infof("starting instances")
	out, err := c.ec2API.RunInstancesWithContext(ctx, input)
	if err != nil {
		return nil, errors.Wrapf(err, "could not start %d instances of %s", count, cfg.ImageID)
	}

	ids := make([]string, 0, len(out.Instances))
	for _, instance := range out.Instances {
		ids = append(ids, aws.StringValue(instance.InstanceId))
	}
	return ids, nil
}

// StopInstance stops an instance, or terminates it when terminate is set.
func (c *Client) StopInstance(ctx context.Context, id string, terminate bool) error {
	logger := c.logger.WithField("instance", id)
	if terminate {
		logger.Infof("terminating instance")
		_, err := c.ec2API.TerminateInstancesWithContext(ctx, &ec2.TerminateInstancesInput{
			InstanceIds: []*string{aws.String(id)},
		})
		return errors.Wrapf(err, "could not terminate instance %s", id)
	}
	logger.Infof("stopping instance")
	_, err := c.ec2API.StopInstancesWithContext(ctx, &ec2.StopInstancesInput{
		InstanceIds: []*string{aws.String(id)},
	})
	return errors.Wrapf(err, "could not stop instance %s", id)
}

// tags converts m into EC2 tags ordered by key.
func tags(m map[string]string) []*ec2.Tag {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*ec2.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, &ec2.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return out
}
