package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigJSON = `{
  "aws": {
    "awsAuth": {"access_key": "AKIDFILE", "secret_access_key": "secretfile", "region": "sa-east-1"},
    "kinesis": {"stream_name": "events"},
    "redshift": {"url": "warehouse.example.com", "port": 5439, "schema": "analytics", "user": "etl", "password": "pw"}
  },
  "mail": {
    "host": "smtp.example.com",
    "port": 587,
    "user": "alerts",
    "password": "mailpw",
    "mail_from": "alerts@example.com",
    "mail_to": [{"addr": "ops@example.com"}, {"addr": "data@example.com"}]
  }
}`

type countingProvider struct {
	cfg   *Config
	calls int
}

func (p *countingProvider) Config() (*Config, error) {
	p.calls++
	return p.cfg, nil
}

func writeConfig(t *testing.T, contents string) string {
	dir, err := ioutil.TempDir("", "awskit-config")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, ioutil.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfigJSON))
	require.NoError(t, err)

	assert.Equal(t, "AKIDFILE", cfg.AWS.Auth.AccessKey)
	assert.Equal(t, "sa-east-1", cfg.AWS.Auth.Region)
	assert.Equal(t, "events", cfg.AWS.Kinesis.StreamName)
	assert.Equal(t, 5439, cfg.AWS.Redshift.Port)
	assert.Equal(t, "smtp.example.com:587", cfg.Mail.SMTPAddress())
	assert.Equal(t, []string{"ops@example.com", "data@example.com"}, cfg.Mail.Addresses())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(os.TempDir(), "awskit-does-not-exist.json"))
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeConfig(t, testConfigJSON)
	cfg, err := Load(path)
	require.NoError(t, err)

	cfg.AWS.Kinesis.StreamName = "clickstream"
	require.NoError(t, Save(path, cfg))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestFileProviderLoadsOnce(t *testing.T) {
	path := writeConfig(t, testConfigJSON)
	p := NewFileProvider(path)

	first, err := p.Config()
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	second, err := p.Config()
	require.NoError(t, err)
	assert.True(t, first == second, "expected the cached configuration to be returned")
}

func TestFileProviderMissingFileIsEmpty(t *testing.T) {
	p := NewFileProvider(filepath.Join(t.TempDir(), DefaultFileName))

	cfg, err := p.Config()
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)

	region := "us-east-1"
	require.NoError(t, Resolve(p, Override{Value: &region, FromConfig: func(c *Config) string { return c.AWS.Auth.Region }}))
	assert.Equal(t, "us-east-1", region)

	var stream string
	require.NoError(t, Resolve(p, Override{Value: &stream, FromConfig: func(c *Config) string { return c.AWS.Kinesis.StreamName }}))
	assert.Empty(t, stream)
}

func TestFileProviderMalformedFileFails(t *testing.T) {
	p := NewFileProvider(writeConfig(t, "{not json"))

	_, err := p.Config()
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	fileCfg := &Config{AWS: AWSConfig{Auth: AuthConfig{
		AccessKey:       "AKIDFILE",
		SecretAccessKey: "secretfile",
		Region:          "sa-east-1",
	}}}

	tests := map[string]struct {
		accessKey, region string

		expectedAccessKey string
		expectedRegion    string
		expectedCalls     int
	}{
		"no overrides falls back to configuration": {
			expectedAccessKey: "AKIDFILE",
			expectedRegion:    "sa-east-1",
			expectedCalls:     1,
		},
		"explicit values win over configuration": {
			accessKey:         "AKIDFLAG",
			region:            "us-west-2",
			expectedAccessKey: "AKIDFLAG",
			expectedRegion:    "us-west-2",
			expectedCalls:     0,
		},
		"only missing values are resolved": {
			accessKey:         "AKIDFLAG",
			expectedAccessKey: "AKIDFLAG",
			expectedRegion:    "sa-east-1",
			expectedCalls:     1,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			provider := &countingProvider{cfg: fileCfg}
			accessKey, region := tt.accessKey, tt.region
			err := Resolve(provider,
				Override{&accessKey, func(c *Config) string { return c.AWS.Auth.AccessKey }},
				Override{&region, func(c *Config) string { return c.AWS.Auth.Region }},
			)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedAccessKey, accessKey)
			assert.Equal(t, tt.expectedRegion, region)
			assert.Equal(t, tt.expectedCalls, provider.calls)
		})
	}
}

func TestResolveWithoutProvider(t *testing.T) {
	region := ""
	err := Resolve(nil, Override{&region, func(c *Config) string { return c.AWS.Auth.Region }})
	assert.Equal(t, ErrNoConfig, err)

	err = Resolve(Static(nil), Override{&region, func(c *Config) string { return c.AWS.Auth.Region }})
	require.Error(t, err)
}
