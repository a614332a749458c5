package config

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// DefaultFileName is the configuration file looked up when no path is given.
const DefaultFileName = "appConfig.json"

// Config is the application configuration as stored on disk.
type Config struct {
	AWS     AWSConfig     `json:"aws"`
	Mail    MailConfig    `json:"mail"`
	Monitor MonitorConfig `json:"monitor,omitempty"`
}

type AWSConfig struct {
	Auth     AuthConfig     `json:"awsAuth"`
	Kinesis  KinesisConfig  `json:"kinesis"`
	Redshift RedshiftConfig `json:"redshift"`
}

type AuthConfig struct {
	AccessKey       string `json:"access_key"`
	SecretAccessKey string `json:"secret_access_key"`
	Region          string `json:"region"`
}

type KinesisConfig struct {
	StreamName string `json:"stream_name"`
}

type RedshiftConfig struct {
	URL      string `json:"url"`
	Port     int    `json:"port"`
	Schema   string `json:"schema"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type MailConfig struct {
	Host     string      `json:"host"`
	Port     int         `json:"port"`
	User     string      `json:"user"`
	Password string      `json:"password"`
	From     string      `json:"mail_from"`
	To       []Recipient `json:"mail_to"`
}

type Recipient struct {
	Addr string `json:"addr"`
}

// MonitorConfig holds the defaults for the scheduled EMR check.
type MonitorConfig struct {
	Schedule            string `json:"schedule,omitempty"`
	Notify              bool   `json:"notify,omitempty"`
	CloudWatchNamespace string `json:"cloudwatch_namespace,omitempty"`
	Listen              string `json:"listen,omitempty"`
}

// SMTPAddress returns the host:port pair of the SMTP server.
func (m MailConfig) SMTPAddress() string {
	return m.Host + ":" + strconv.Itoa(m.Port)
}

// Addresses returns the recipient addresses in configuration order.
func (m MailConfig) Addresses() []string {
	addrs := make([]string, 0, len(m.To))
	for _, r := range m.To {
		addrs = append(addrs, r.Addr)
	}
	return addrs
}

// Load reads a configuration file. Both JSON and YAML documents are accepted.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFileName
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read configuration file %s", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "unable to parse configuration file %s", path)
	}
	return &cfg, nil
}

// Save overwrites the configuration file at path with cfg encoded as JSON.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultFileName
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "unable to encode configuration")
	}
	if err := ioutil.WriteFile(path, data, 0600); err != nil {
		return errors.Wrapf(err, "unable to write configuration file %s", path)
	}
	return nil
}

// Provider supplies the configuration used to fill in values a caller did not
// pass explicitly.
type Provider interface {
	Config() (*Config, error)
}

// FileProvider loads the configuration from Path the first time it is asked
// for it and returns the cached result afterwards. A missing file reads as an
// empty configuration, so flags and environment variables can stand alone.
type FileProvider struct {
	Path string

	once sync.Once
	cfg  *Config
	err  error
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

func (p *FileProvider) Config() (*Config, error) {
	p.once.Do(func() {
		p.cfg, p.err = Load(p.Path)
		if p.err != nil && os.IsNotExist(errors.Cause(p.err)) {
			p.cfg, p.err = &Config{}, nil
		}
	})
	return p.cfg, p.err
}

type staticProvider struct {
	cfg *Config
}

// Static returns a Provider that always hands back cfg.
func Static(cfg *Config) Provider {
	return staticProvider{cfg: cfg}
}

func (p staticProvider) Config() (*Config, error) {
	if p.cfg == nil {
		return nil, ErrNoConfig
	}
	return p.cfg, nil
}

// ErrNoConfig is returned when a value must be resolved from configuration
// but no configuration is available.
var ErrNoConfig = errors.New("no configuration available")

// Override pairs an explicitly supplied value with the configuration field it
// falls back to when empty.
type Override struct {
	Value      *string
	FromConfig func(*Config) string
}

// Resolve fills every empty override from the provider's configuration. The
// provider is only consulted when at least one override is empty.
func Resolve(provider Provider, overrides ...Override) error {
	var cfg *Config
	for _, o := range overrides {
		if *o.Value != "" {
			continue
		}
		if cfg == nil {
			if provider == nil {
				return ErrNoConfig
			}
			var err error
			cfg, err = provider.Config()
			if err != nil {
				return errors.Wrap(err, "unable to resolve configuration")
			}
		}
		*o.Value = o.FromConfig(cfg)
	}
	return nil
}

// EnvOr returns the environment variable key, or fallback when it is unset.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
