package helpers

import (
	"bytes"
	"os"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, key, value string) {
	old, had := os.LookupEnv(key)
	require.NoError(t, os.Setenv(key, value))
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestSetFlagsFromEnv(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	region := fs.String("region", "", "")
	logLevel := fs.String("log-level", "info", "")
	full := fs.Bool("full", false, "")
	require.NoError(t, fs.Parse([]string{"--log-level", "warn"}))

	setEnv(t, "AWSKIT_REGION", "sa-east-1")
	setEnv(t, "AWSKIT_LOG_LEVEL", "debug")
	setEnv(t, "AWSKIT_FULL", "true")

	require.NoError(t, SetFlagsFromEnv(fs, "AWSKIT"))
	assert.Equal(t, "sa-east-1", *region)
	assert.Equal(t, "warn", *logLevel, "flags given on the command line win")
	assert.True(t, *full)
}

func TestSetFlagsFromEnvInvalidValue(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("full", false, "")
	setEnv(t, "AWSKIT_FULL", "definitely")
	assert.Error(t, SetFlagsFromEnv(fs, "AWSKIT"))
}

func TestMapEnvVarToFlag(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	accessKey := fs.String("access-key", "", "")
	fs.String("secret-access-key", "", "")
	region := fs.String("region", "", "")
	require.NoError(t, fs.Parse([]string{"--region", "us-west-2"}))

	setEnv(t, "AWS_ACCESS_KEY_ID", "AKIDENV")
	setEnv(t, "AWS_REGION", "eu-west-1")

	require.NoError(t, MapEnvVarToFlag(AWSEnvVars, fs))
	assert.Equal(t, "AKIDENV", *accessKey)
	assert.Equal(t, "us-west-2", *region)

	err := MapEnvVarToFlag(map[string]string{"AWS_PROFILE": "profile"}, fs)
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := SetupLogger(&buf, "warn", true, log.Fields{"app": "awskit"})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "app=awskit")

	_, err = SetupLogger(&buf, "loud", false, nil)
	assert.Error(t, err)
}
