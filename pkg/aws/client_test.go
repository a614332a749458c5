package aws

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudops-tools/awskit/pkg/config"
)

func TestResolveOptions(t *testing.T) {
	provider := config.Static(&config.Config{AWS: config.AWSConfig{Auth: config.AuthConfig{
		AccessKey:       "AKIDFILE",
		SecretAccessKey: "secretfile",
		Region:          "sa-east-1",
	}}})
	missingFile := filepath.Join(os.TempDir(), "awskit-missing", config.DefaultFileName)

	tests := map[string]struct {
		overrides Options
		provider  config.Provider

		expected    Options
		expectedErr error
	}{
		"empty overrides are resolved from configuration": {
			provider: provider,
			expected: Options{AccessKey: "AKIDFILE", SecretAccessKey: "secretfile", Region: "sa-east-1"},
		},
		"explicit region keeps configured keys": {
			overrides: Options{Region: "eu-west-1"},
			provider:  provider,
			expected:  Options{AccessKey: "AKIDFILE", SecretAccessKey: "secretfile", Region: "eu-west-1"},
		},
		"nil provider uses overrides as given": {
			overrides: Options{Region: "us-east-1"},
			expected:  Options{Region: "us-east-1"},
		},
		"nil provider without region fails": {
			expectedErr: ErrMissingRegion,
		},
		"missing configuration file uses overrides": {
			overrides: Options{Region: "us-east-1"},
			provider:  config.NewFileProvider(missingFile),
			expected:  Options{Region: "us-east-1"},
		},
		"missing configuration file without region fails": {
			provider:    config.NewFileProvider(missingFile),
			expectedErr: ErrMissingRegion,
		},
		"configuration without region fails": {
			provider:    config.Static(&config.Config{}),
			expectedErr: ErrMissingRegion,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			opts, err := ResolveOptions(tt.overrides, tt.provider)
			if tt.expectedErr != nil {
				assert.Equal(t, tt.expectedErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, opts)
		})
	}
}

func TestNewSessionStaticCredentials(t *testing.T) {
	sess, err := NewSession(Options{AccessKey: "AKID", SecretAccessKey: "SECRET", Region: "us-west-2"})
	require.NoError(t, err)

	assert.Equal(t, "us-west-2", *sess.Config.Region)
	creds, err := sess.Config.Credentials.Get()
	require.NoError(t, err)
	assert.Equal(t, "AKID", creds.AccessKeyID)
	assert.Equal(t, "SECRET", creds.SecretAccessKey)
}
