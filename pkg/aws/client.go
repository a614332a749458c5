package aws

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/pkg/errors"

	"github.com/cloudops-tools/awskit/pkg/config"
)

// ErrMissingRegion is returned when no region was given and none is
// configured.
var ErrMissingRegion = errors.New("an AWS region must be provided or configured")

// Options are the connection settings shared by every AWS service client.
// Empty fields are resolved from configuration by ResolveOptions.
type Options struct {
	AccessKey       string
	SecretAccessKey string
	Region          string
}

// ResolveOptions fills in any empty field of overrides from the provider's
// aws.awsAuth section. With a nil provider the overrides are used as given.
func ResolveOptions(overrides Options, provider config.Provider) (Options, error) {
	opts := overrides
	if provider == nil {
		if opts.Region == "" {
			return Options{}, ErrMissingRegion
		}
		return opts, nil
	}
	err := config.Resolve(provider,
		config.Override{Value: &opts.AccessKey, FromConfig: func(c *config.Config) string { return c.AWS.Auth.AccessKey }},
		config.Override{Value: &opts.SecretAccessKey, FromConfig: func(c *config.Config) string { return c.AWS.Auth.SecretAccessKey }},
		config.Override{Value: &opts.Region, FromConfig: func(c *config.Config) string { return c.AWS.Auth.Region }},
	)
	if err != nil {
		return Options{}, err
	}
	if opts.Region == "" {
		return Options{}, ErrMissingRegion
	}
	return opts, nil
}

// NewSession creates an AWS session for opts. Static credentials are used when
// both keys are set, otherwise the SDK's default credential chain applies.
func NewSession(opts Options) (*session.Session, error) {
	cfg := aws.NewConfig().WithRegion(opts.Region)
	if opts.AccessKey != "" && opts.SecretAccessKey != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(opts.AccessKey, opts.SecretAccessKey, ""))
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create AWS session")
	}
	return sess, nil
}

// Connect resolves overrides against the provider and opens a session.
func Connect(overrides Options, provider config.Provider) (*session.Session, error) {
	opts, err := ResolveOptions(overrides, provider)
	if err != nil {
		return nil, err
	}
	return NewSession(opts)
}
