package helpers

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// AWSEnvVars maps the AWS SDK's standard environment variables onto the
// credential flags shared by every awskit command.
var AWSEnvVars = map[string]string{
	"AWS_ACCESS_KEY_ID":     "access-key",
	"AWS_SECRET_ACCESS_KEY": "secret-access-key",
	"AWS_REGION":            "region",
}

// SetupLogger builds a logrus FieldLogger writing to out with the given level
// and fields.
func SetupLogger(out io.Writer, logLevelStr string, useDefaultFormatter bool, fields log.Fields) (log.FieldLogger, error) {
	logLevel, err := log.ParseLevel(logLevelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %v", logLevelStr, err)
	}

	base := log.New()
	base.Out = out
	base.Level = logLevel
	if useDefaultFormatter {
		base.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "01-02-2006 15:04:05",
		})
	}

	logger := base.WithFields(fields)
	logger.Debugf("setting the log level to %s", logLevel.String())
	return logger, nil
}

// MapEnvVarToFlag takes a mapping of ENV var names to flag names and iterates
// over that mapping attempting to set the flag value with the ENV var key name.
// Flags already set on the command line are left alone.
func MapEnvVarToFlag(vars map[string]string, flagset *pflag.FlagSet) error {
	for env, flag := range vars {
		flagObj := flagset.Lookup(flag)
		if flagObj == nil {
			return fmt.Errorf("the %s flag doesn't exist", flag)
		}
		if flagObj.Changed {
			continue
		}
		if val := os.Getenv(env); val != "" {
			if err := flagset.Set(flag, val); err != nil {
				return fmt.Errorf("failed to set the %s flag: %v", flag, err)
			}
		}
	}
	return nil
}

// SetFlagsFromEnv parses all registered flags in the given flagset,
// and if they are not already set it attempts to set their values from
// environment variables. Environment variables take the name of the flag but
// are UPPERCASE, and any dashes are replaced by underscores. Environment
// variables additionally are prefixed by the given string followed by
// and underscore. For example, if prefix=AWSKIT: some-flag => AWSKIT_SOME_FLAG
func SetFlagsFromEnv(fs *pflag.FlagSet, prefix string) (err error) {
	alreadySet := make(map[string]bool)
	fs.Visit(func(f *pflag.Flag) {
		alreadySet[f.Name] = true
	})
	fs.VisitAll(func(f *pflag.Flag) {
		if !alreadySet[f.Name] {
			key := EnvVarName(prefix, f.Name)
			val := os.Getenv(key)
			if val != "" {
				if serr := fs.Set(f.Name, val); serr != nil {
					err = fmt.Errorf("invalid value %q for %s: %v", val, key, serr)
				}
			}
		}
	})
	return err
}

// EnvVarName returns the environment variable SetFlagsFromEnv reads for flag.
func EnvVarName(prefix, flag string) string {
	return prefix + "_" + strings.ToUpper(strings.Replace(flag, "-", "_", -1))
}

// SetupSignals returns a context that is cancelled on SIGINT or SIGTERM.
func SetupSignals(logger log.FieldLogger) context.Context {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-sigs
		logger.Infof("got signal %s, performing shutdown", sig)
		cancel()
	}()
	return ctx
}
