package iam

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/iam/iamiface"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	awsclient "github.com/cloudops-tools/awskit/pkg/aws"
	"github.com/cloudops-tools/awskit/pkg/config"
)

// Operation selects what ManagePolicy and ManageRole do.
type Operation string

const (
	OpCreate Operation = "create"
	OpDelete Operation = "delete"
)

func (op Operation) validate() error {
	switch op {
	case OpCreate, OpDelete:
		return nil
	}
	return errors.Errorf("unknown operation %q, expected %q or %q", op, OpCreate, OpDelete)
}

// Policy is a managed policy. ARN is only needed for deletion.
type Policy struct {
	Name        string
	Path        string
	Description string
	Document    string
	ARN         string
}

// Role is an IAM role together with the managed policies attached to it.
type Role struct {
	Name                     string
	Path                     string
	Description              string
	AssumeRolePolicyDocument string
	PolicyARNs               []string
}

type Client struct {
	logger logrus.FieldLogger
	iamAPI iamiface.IAMAPI
}

func New(logger logrus.FieldLogger, iamAPI iamiface.IAMAPI) *Client {
	return &Client{logger: logger, iamAPI: iamAPI}
}

func NewClient(logger logrus.FieldLogger, overrides awsclient.Options, provider config.Provider) (*Client, error) {
	sess, err := awsclient.Connect(overrides, provider)
	if err != nil {
		return nil, err
	}
	return New(logger, iam.New(sess)), nil
}

// CreateOrUpdateUser creates userName with tags, or applies tags to the user
// if it already exists.
func (c *Client) CreateOrUpdateUser(ctx context.Context, userName string, tags map[string]string) (*iam.User, error) {
	logger := c.logger.WithField("user", userName)
	out, err := c.iamAPI.GetUserWithContext(ctx, &iam.GetUserInput{UserName: aws.String(userName)})
	if err != nil {
		if !isNoSuchEntity(err) {
			return nil, errors.Wrapf(err, "could not get user %s", userName)
		}
		logger.Infof("creating user")
		created, err := c.iamAPI.CreateUserWithContext(ctx, &iam.CreateUserInput{
			UserName: aws.String(userName),
			Tags:     iamTags(tags),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "could not create user %s", userName)
		}
		return created.User, nil
	}

	if len(tags) > 0 {
		logger.Infof("updating user tags")
		_, err = c.iamAPI.TagUserWithContext(ctx, &iam.TagUserInput{
			UserName: aws.String(userName),
			Tags:     iamTags(tags),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "could not tag user %s", userName)
		}
	}
	return out.User, nil
}

// ManagePolicy creates or deletes a managed policy and returns its ARN.
func (c *Client) ManagePolicy(ctx context.Context, policy Policy, op Operation) (string, error) {
	if err := op.validate(); err != nil {
		return "", err
	}
	logger := c.logger.WithFields(logrus.Fields{"policy": policy.Name, "operation": op})

	if op == OpDelete {
		if policy.ARN == "" {
			return "", errors.Errorf("deleting policy %s requires its ARN", policy.Name)
		}
		logger.Infof("deleting policy")
		_, err := c.iamAPI.DeletePolicyWithContext(ctx, &iam.DeletePolicyInput{PolicyArn: aws.String(policy.ARN)})
		if err != nil {
			return "", errors.Wrapf(err, "could not delete policy %s", policy.ARN)
		}
		return policy.ARN, nil
	}

	input := &iam.CreatePolicyInput{
		PolicyName:     aws.String(policy.Name),
		PolicyDocument: aws.String(policy.Document),
	}
	if policy.Path != "" {
		input.Path = aws.String(policy.Path)
	}
	if policy.Description != "" {
		input.Description = aws.String(policy.Description)
	}
	logger.Infof("creating policy")
	out, err := c.iamAPI.CreatePolicyWithContext(ctx, input)
	if err != nil {
		return "", errors.Wrapf(err, "could not create policy %s", policy.Name)
	}
	return aws.StringValue(out.Policy.Arn), nil
}

// ManageRole creates a role and attaches its policies, or detaches every
// managed policy from the role and deletes it.
func (c *Client) ManageRole(ctx context.Context, role Role, op Operation) error {
	if err := op.validate(); err != nil {
		return err
	}
	logger := c.logger.WithFields(logrus.Fields{"role": role.Name, "operation": op})

	if op == OpDelete {
		var attached []string
		err := c.iamAPI.ListAttachedRolePoliciesPagesWithContext(ctx, &iam.ListAttachedRolePoliciesInput{
			RoleName: aws.String(role.Name),
		}, func(out *iam.ListAttachedRolePoliciesOutput, lastPage bool) bool {
			for _, p := range out.AttachedPolicies {
				attached = append(attached, aws.StringValue(p.PolicyArn))
			}
			return true
		})
		if err != nil {
			return errors.Wrapf(err, "could not list policies attached to role %s", role.Name)
		}
		for _, arn := range attached {
			logger.Debugf("detaching policy %s", arn)
			_, err := c.iamAPI.DetachRolePolicyWithContext(ctx, &iam.DetachRolePolicyInput{
				RoleName:  aws.String(role.Name),
				PolicyArn: aws.String(arn),
			})
			if err != nil {
				return errors.Wrapf(err, "could not detach policy %s from role %s", arn, role.Name)
			}
		}
		logger.Infof("deleting role")
		_, err = c.iamAPI.DeleteRoleWithContext(ctx, &iam.DeleteRoleInput{RoleName: aws.String(role.Name)})
		return errors.Wrapf(err, "could not delete role %s", role.Name)
	}

	input := &iam.CreateRoleInput{
		RoleName:                 aws.String(role.Name),
		AssumeRolePolicyDocument: aws.String(role.AssumeRolePolicyDocument),
	}
	if role.Path != "" {
		input.Path = aws.String(role.Path)
	}
	if role.Description != "" {
		input.Description = aws.String(role.Description)
	}
	logger.Infof("creating role")
	if _, err := c.iamAPI.CreateRoleWithContext(ctx, input); err != nil {
		return errors.Wrapf(err, "could not create role %s", role.Name)
	}
	for _, arn := range role.PolicyARNs {
		logger.Debugf("attaching policy %s", arn)
		_, err := c.iamAPI.AttachRolePolicyWithContext(ctx, &iam.AttachRolePolicyInput{
			RoleName:  aws.String(role.Name),
			PolicyArn: aws.String(arn),
		})
		if err != nil {
			return errors.Wrapf(err, "could not attach policy %s to role %s", arn, role.Name)
		}
	}
	return nil
}

func isNoSuchEntity(err error) bool {
	aerr, ok := err.(awserr.Error)
	return ok && aerr.Code() == iam.ErrCodeNoSuchEntityException
}

func iamTags(m map[string]string) []*iam.Tag {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*iam.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, &iam.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return out
}
